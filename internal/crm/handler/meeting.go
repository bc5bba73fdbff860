package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xela07ax/teamcrm/internal/crm/service"
	"github.com/xela07ax/teamcrm/internal/domain"
	"github.com/xela07ax/teamcrm/internal/infra/auth"
)

type MeetingHandler struct {
	service *service.MeetingService
}

func NewMeetingHandler(s *service.MeetingService) *MeetingHandler {
	return &MeetingHandler{service: s}
}

func (h *MeetingHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	return r
}

func (h *MeetingHandler) Get(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFrom(r.Context())

	m, err := h.service.Get(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, m)
}

// List: ?userId=... переключает выборку на встречи другого сотрудника.
func (h *MeetingHandler) List(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFrom(r.Context())

	meetings, err := h.service.List(r.Context(), p, r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, meetings)
}

func (h *MeetingHandler) Create(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFrom(r.Context())

	var m domain.Meeting
	if err := decodeBody(r, &m); err != nil {
		writeError(w, err)
		return
	}

	created, err := h.service.Create(r.Context(), p, &m)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

func (h *MeetingHandler) Update(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFrom(r.Context())

	var upd domain.Meeting
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

func (h *MeetingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFrom(r.Context())

	if err := h.service.Delete(r.Context(), p, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"deleted": true})
}
