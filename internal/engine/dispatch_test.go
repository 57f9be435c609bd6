package engine

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"serotonyl.ru/bible-reading/internal/common"
	"serotonyl.ru/bible-reading/internal/features/rewards"
)

func TestDispatchValidation(t *testing.T) {
	e, _, _ := newTestEngine(t, rewards.DefaultTables())

	tests := []struct {
		name string
		env  Envelope
		want error
	}{
		{"no user", Envelope{Action: ActionGetPoints}, common.ErrUnauthenticated},
		{"no action", Envelope{UserID: user}, common.ErrMissingParam},
		{"unknown action", Envelope{UserID: user, Action: "delete_everything"}, common.ErrUnknownAction},
		{"params not object", Envelope{UserID: user, Action: ActionMarkAsRead, Params: json.RawMessage(`[1]`)}, common.ErrInvalidParam},
		{"no book", Envelope{UserID: user, Action: ActionMarkAsRead, Params: json.RawMessage(`{"chapter":1}`)}, common.ErrMissingParam},
		{"empty book", Envelope{UserID: user, Action: ActionMarkAsRead, Params: json.RawMessage(`{"book":" ","chapter":1}`)}, common.ErrMissingParam},
		{"no chapter", Envelope{UserID: user, Action: ActionMarkAsRead, Params: json.RawMessage(`{"book":"genesis"}`)}, common.ErrMissingParam},
		{"chapter zero", Envelope{UserID: user, Action: ActionMarkAsRead, Params: json.RawMessage(`{"book":"genesis","chapter":0}`)}, common.ErrInvalidParam},
		{"chapter past end", Envelope{UserID: user, Action: ActionMarkAsRead, Params: json.RawMessage(`{"book":"genesis","chapter":51}`)}, common.ErrInvalidParam},
		{"chapter not a number", Envelope{UserID: user, Action: ActionMarkAsRead, Params: json.RawMessage(`{"book":"genesis","chapter":"one"}`)}, common.ErrInvalidParam},
		{"unknown book", Envelope{UserID: user, Action: ActionMarkAsRead, Params: json.RawMessage(`{"book":"hezekiah","chapter":1}`)}, common.ErrInvalidParam},
		{"bad spin type", Envelope{UserID: user, Action: ActionSpin, Params: json.RawMessage(`{"spin_type":"weekly"}`)}, common.ErrInvalidParam},
		{"no plan type", Envelope{UserID: user, Action: ActionUpdatePlan}, common.ErrMissingParam},
		{"custom without structure", Envelope{UserID: user, Action: ActionUpdatePlan, Params: json.RawMessage(`{"plan_type":"custom"}`)}, common.ErrMissingParam},
		{"no status", Envelope{UserID: user, Action: ActionUpdateSubscription}, common.ErrMissingParam},
		{"bad status", Envelope{UserID: user, Action: ActionUpdateSubscription, Params: json.RawMessage(`{"status":"paused"}`)}, common.ErrInvalidParam},
		{"no chat id", Envelope{UserID: user, Action: ActionUpdateNotifications}, common.ErrMissingParam},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Dispatch(context.Background(), tt.env)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err=%v, want %v", err, tt.want)
			}
		})
	}

	// Ни один отклонённый запрос не создал записей
	p, err := e.GetProgress(context.Background(), user)
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	if len(p.Progress) != 0 {
		t.Fatalf("rejected requests changed progress: %+v", p.Progress)
	}
}

func TestDispatchAcceptsNumericStrings(t *testing.T) {
	e, _, _ := newTestEngine(t, rewards.DefaultTables())
	ctx := context.Background()

	out, err := e.Dispatch(ctx, Envelope{
		UserID: user,
		Action: ActionMarkAsRead,
		Params: json.RawMessage(`{"book":"1 Samuel","chapter":"3"}`),
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	res, ok := out.(*MarkResult)
	if !ok {
		t.Fatalf("result type %T, want *MarkResult", out)
	}
	if res.Book != "1_samuel" || res.Chapter != 3 {
		t.Fatalf("book=%s chapter=%d", res.Book, res.Chapter)
	}

	out, err = e.Dispatch(ctx, Envelope{
		UserID: user,
		Action: ActionUpdateNotifications,
		Params: json.RawMessage(`{"telegram_chat_id":"-1001234567890"}`),
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got := out.(*NotificationsResult).Notifications.TelegramChatID; got != -1001234567890 {
		t.Fatalf("chat id=%d", got)
	}
}

func TestDispatchRoutesEveryAction(t *testing.T) {
	e, _, _ := newTestEngine(t, rewards.DefaultTables())
	ctx := context.Background()

	actions := []Envelope{
		{Action: ActionMarkAsRead, Params: json.RawMessage(`{"book":"genesis","chapter":1}`)},
		{Action: ActionUpdateStreak},
		{Action: ActionCheckAchievements},
		{Action: ActionGetProgress},
		{Action: ActionGetStreak},
		{Action: ActionGetPoints},
		{Action: ActionGetRewards},
		{Action: ActionGetAchievements},
		{Action: ActionGetPlan},
		{Action: ActionUpdatePlan, Params: json.RawMessage(`{"plan_type":"5_year"}`)},
		{Action: ActionUpdateSubscription, Params: json.RawMessage(`{"status":"active","plan":"monthly"}`)},
		{Action: ActionUpdateNotifications, Params: json.RawMessage(`{"telegram_chat_id":7}`)},
		{Action: ActionSpin, Params: json.RawMessage(`{"spin_type":"daily"}`)},
	}
	for _, env := range actions {
		env.UserID = user
		out, err := e.Dispatch(ctx, env)
		if err != nil {
			t.Fatalf("%s: %v", env.Action, err)
		}
		if out == nil {
			t.Fatalf("%s: nil result", env.Action)
		}
		if _, err := json.Marshal(out); err != nil {
			t.Fatalf("%s: result not serializable: %v", env.Action, err)
		}
	}
}
