package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xela07ax/teamcrm/internal/crm/service"
	"github.com/xela07ax/teamcrm/internal/domain"
	"github.com/xela07ax/teamcrm/internal/infra/auth"
)

type DocumentHandler struct {
	service *service.DocumentService
}

func NewDocumentHandler(s *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: s}
}

func (h *DocumentHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	return r
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFrom(r.Context())

	d, err := h.service.Get(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, d)
}

// List: ?entityRef=... сужает выборку до документов одной записи CRM.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFrom(r.Context())

	docs, err := h.service.List(r.Context(), p, r.URL.Query().Get("entityRef"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, docs)
}

func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFrom(r.Context())

	var d domain.Document
	if err := decodeBody(r, &d); err != nil {
		writeError(w, err)
		return
	}

	created, err := h.service.Create(r.Context(), p, &d)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

func (h *DocumentHandler) Update(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFrom(r.Context())

	var upd domain.Document
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

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFrom(r.Context())

	if err := h.service.Delete(r.Context(), p, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"deleted": true})
}
