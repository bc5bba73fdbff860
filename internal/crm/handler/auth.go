package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xela07ax/teamcrm/internal/crm/service"
	"github.com/xela07ax/teamcrm/internal/domain"
	"github.com/xela07ax/teamcrm/internal/infra/auth"
)

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(s *service.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	// не уточняем, что именно неверно (email или пароль) для защиты от перебора
	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, resp)
}

// ChangePassword — POST /v1/users/{id}/password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFrom(r.Context())

	var req domain.ChangePasswordRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.ChangePassword(r.Context(), p, chi.URLParam(r, "id"), req); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"changed": true})
}
