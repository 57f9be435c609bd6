package http

import (
	"bytes"
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/bible-reading/internal/common"
)

// maxBodyBytes — лимит тела запроса.
const maxBodyBytes = 1 << 20

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Success bool     `json:"success"`
	Error   apiError `json:"error"`
}

// writeJSON отдаёт объект результата с полем "success": true.
// Не-объекты кладутся в поле "data".
func writeJSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.WithError(err).Error("Ошибка кодирования ответа")
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	switch {
	case bytes.Equal(body, []byte("{}")):
		buf.WriteString(`{"success":true}`)
	case len(body) > 1 && body[0] == '{':
		buf.WriteString(`{"success":true,`)
		buf.Write(body[1:])
	default:
		buf.WriteString(`{"success":true,"data":`)
		buf.Write(body)
		buf.WriteByte('}')
	}
	buf.WriteByte('\n')

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// writeError отдаёт {"success": false, "error": {code, message}}.
// Внутренние ошибки логируются, клиент видит только код.
func writeError(w http.ResponseWriter, err error) {
	e := common.AsError(err)
	if e.Kind == common.KindInternal {
		log.WithError(err).Error("Внутренняя ошибка запроса")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Status())
	_ = json.NewEncoder(w).Encode(errorResponse{Error: apiError{Code: e.Code, Message: e.Message}})
}

func writeStatus(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: apiError{Code: code, Message: message}})
}
