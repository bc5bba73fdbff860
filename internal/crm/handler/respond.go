package handler

import (
	"encoding/json"
	"net/http"

	"github.com/xela07ax/teamcrm/internal/crm/apperr"
)

// envelope — единый формат ответа API. Данные и ошибка взаимоисключающие.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeData(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Success: true, Data: v})
}

// writeError сводит ошибку к HTTP-статусу через таксономию apperr.
func writeError(w http.ResponseWriter, err error) {
	ae := apperr.Wrap(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(ae.Status)
	json.NewEncoder(w).Encode(envelope{Success: false, Error: ae.Message})
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("Invalid request body")
	}
	return nil
}
