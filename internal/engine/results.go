// Package engine — results.go: ответы действий.
package engine

import (
	"serotonyl.ru/bible-reading/internal/features/achievements"
	"serotonyl.ru/bible-reading/internal/features/plan"
	"serotonyl.ru/bible-reading/internal/features/points"
	"serotonyl.ru/bible-reading/internal/features/progress"
	"serotonyl.ru/bible-reading/internal/features/reminders"
	"serotonyl.ru/bible-reading/internal/features/rewards"
	"serotonyl.ru/bible-reading/internal/features/streak"
	"serotonyl.ru/bible-reading/internal/features/subscription"
)

// Gains — побочные итоги запроса: новые достижения и уровни.
type Gains struct {
	NewAchievements []achievements.Unlocked `json:"new_achievements"`
	LevelUp         bool                    `json:"level_up"`
	LevelsReached   []int                   `json:"levels_reached,omitempty"`
}

func (s *session) gains() Gains {
	g := Gains{
		NewAchievements: s.unlocked,
		LevelUp:         len(s.levelUps) > 0,
		LevelsReached:   s.levelUps,
	}
	if g.NewAchievements == nil {
		g.NewAchievements = []achievements.Unlocked{}
	}
	return g
}

// MarkResult — ответ mark_as_read.
type MarkResult struct {
	Book          string               `json:"book"`
	Chapter       int                  `json:"chapter"`
	NewChapter    bool                 `json:"new_chapter"`
	Chapters      []int                `json:"chapters"`
	BookProgress  progress.BookSummary `json:"book_progress"`
	Date          string               `json:"date"`
	ChaptersToday int                  `json:"chapters_today"`
	StreakOutcome streak.Outcome       `json:"streak_outcome"`
	Streak        streak.Streak        `json:"streak"`
	PointsAwarded int                  `json:"points_awarded"`
	Points        points.Points        `json:"points"`
	Gains
}

// StreakResult — ответ update_streak. Updated = false — тихий no-op,
// причина в Reason.
type StreakResult struct {
	Updated bool          `json:"updated"`
	Reason  string        `json:"reason,omitempty"`
	Date    string        `json:"date"`
	Streak  streak.Streak `json:"streak"`
	Gains
}

// StreakView — ответ get_streak.
type StreakView struct {
	Streak        streak.Streak `json:"streak"`
	ReadToday     bool          `json:"read_today"`
	ChaptersToday int           `json:"chapters_today"`
	Last30Days    []streak.Day  `json:"last_30_days"`
}

// PointsView — ответ get_points.
type PointsView struct {
	Points    points.Points `json:"points"`
	Remaining int           `json:"remaining"`
}

// ProgressView — ответ get_progress.
type ProgressView struct {
	Progress progress.Progress `json:"progress"`
	Summary  progress.Summary  `json:"summary"`
}

// RewardsView — ответ get_rewards. daily_spin_available вычисляется.
type RewardsView struct {
	DailySpinAvailable bool                 `json:"daily_spin_available"`
	LastSpinDate       string               `json:"last_spin_date,omitempty"`
	SpinHistory        []rewards.SpinRecord `json:"spin_history"`
	Tokens             []rewards.Token      `json:"rewards"`
	MysteryBoxes       int                  `json:"mystery_boxes"`
	HeavenlyTokens     int                  `json:"heavenly_spin_tokens"`
}

func rewardsView(r rewards.Rewards, today string) RewardsView {
	v := RewardsView{
		DailySpinAvailable: rewards.DailyAvailable(r, today),
		LastSpinDate:       r.LastSpinDate,
		SpinHistory:        r.SpinHistory,
		Tokens:             r.Tokens,
		MysteryBoxes:       r.MysteryBoxes,
		HeavenlyTokens:     rewards.TokenQuantity(r, rewards.HeavenlySpinToken),
	}
	if v.SpinHistory == nil {
		v.SpinHistory = []rewards.SpinRecord{}
	}
	if v.Tokens == nil {
		v.Tokens = []rewards.Token{}
	}
	return v
}

// SpinResult — ответ spin и open_mystery_box.
type SpinResult struct {
	SpinType rewards.SpinType `json:"spin_type"`
	Reward   rewards.Reward   `json:"reward"`
	Effect   Effect           `json:"effect"`
	Rewards  RewardsView      `json:"rewards"`
	Points   points.Points    `json:"points"`
	Streak   streak.Streak    `json:"streak"`
	Gains
}

// AchievementsResult — ответ check_achievements.
type AchievementsResult struct {
	Gains
	TotalUnlocked int `json:"total_unlocked"`
}

// AchievementsView — ответ get_achievements.
type AchievementsView struct {
	Achievements  []achievements.Status `json:"achievements"`
	TotalUnlocked int                   `json:"total_unlocked"`
	Total         int                   `json:"total"`
}

// PlanResult — ответ get_plan и update_plan.
type PlanResult struct {
	Plan    plan.Plan `json:"plan"`
	Created bool      `json:"created,omitempty"`
}

// SubscriptionResult — ответ update_subscription.
type SubscriptionResult struct {
	Subscription subscription.Subscription `json:"subscription"`
}

// NotificationsResult — ответ update_notifications.
type NotificationsResult struct {
	Notifications reminders.Settings `json:"notifications"`
}
