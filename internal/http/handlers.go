package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/bible-reading/internal/auth"
	"serotonyl.ru/bible-reading/internal/bible"
	"serotonyl.ru/bible-reading/internal/common"
	"serotonyl.ru/bible-reading/internal/engine"
)

type actionRequest struct {
	Action string          `json:"action"`
	Params json.RawMessage `json:"params"`
}

type catalogResponse struct {
	Books        []bible.Book      `json:"books"`
	FiveYearPlan []bible.YearGroup `json:"five_year_plan"`
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := a.Store.Ping(r.Context()); err != nil {
		log.WithError(err).Warn("Хранилище недоступно")
		writeStatus(w, http.StatusServiceUnavailable, "unavailable", "store is unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalogResponse{Books: bible.Books(), FiveYearPlan: bible.FiveYearPlan()})
}

// handleActions принимает конверт {action, params}. Пользователь
// берётся только из токена.
func (a *API) handleActions(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req actionRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, common.InvalidParam("body", "must be a JSON object {action, params}"))
			return
		}
	}
	a.dispatch(w, r, req.Action, req.Params)
}

// action — маршрут ресурса: тело запроса становится params действия.
func (a *API) action(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := readBody(w, r)
		if err != nil {
			writeError(w, err)
			return
		}
		a.dispatch(w, r, name, body)
	}
}

func (a *API) dispatch(w http.ResponseWriter, r *http.Request, action string, params json.RawMessage) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, common.ErrUnauthenticated)
		return
	}
	out, err := a.Engine.Dispatch(r.Context(), engine.Envelope{UserID: userID, Action: action, Params: params})
	if err != nil {
		if e := common.AsError(err); e.Kind != common.KindInternal {
			log.WithFields(log.Fields{
				"user_id": userID,
				"action":  action,
				"code":    e.Code,
			}).Debug("Действие отклонено")
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// handleRemoveBook — админская очистка одной книги из прогресса.
func (a *API) handleRemoveBook(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	book := chi.URLParam(r, "book")
	if userID == "" {
		writeError(w, common.MissingParam("userID"))
		return
	}
	res, err := a.Engine.RemoveBook(r.Context(), userID, book)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// readBody читает тело не больше maxBodyBytes. Пустое тело — nil.
func readBody(w http.ResponseWriter, r *http.Request) (json.RawMessage, error) {
	if r.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, common.InvalidParam("body", "request body too large")
		}
		return nil, common.InvalidParam("body", "cannot read request body")
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}
	return body, nil
}
