package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xela07ax/teamcrm/internal/crm/service"
	"github.com/xela07ax/teamcrm/internal/domain"
	"github.com/xela07ax/teamcrm/internal/infra/auth"
)

type CaseHandler struct {
	service *service.CaseService
}

func NewCaseHandler(s *service.CaseService) *CaseHandler {
	return &CaseHandler{service: s}
}

func (h *CaseHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	return r
}

func (h *CaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFrom(r.Context())

	c, err := h.service.Get(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

func (h *CaseHandler) List(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFrom(r.Context())

	cases, err := h.service.List(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, cases)
}

func (h *CaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFrom(r.Context())

	var c domain.Case
	if err := decodeBody(r, &c); err != nil {
		writeError(w, err)
		return
	}

	created, err := h.service.Create(r.Context(), p, &c)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

func (h *CaseHandler) Update(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFrom(r.Context())

	var upd domain.Case
	if err := decodeBody(r, &upd); err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.service.Update(r.Context(), p, chi.URLParam(r, "id"), &upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (h *CaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFrom(r.Context())

	if err := h.service.Delete(r.Context(), p, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"deleted": true})
}
