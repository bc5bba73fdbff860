package handler

import (
	"net/http"
	"strconv"

	"github.com/xela07ax/teamcrm/internal/crm/service"
	"github.com/xela07ax/teamcrm/internal/domain"
	"github.com/xela07ax/teamcrm/internal/infra/auth"
)

type ActivityHandler struct {
	service *service.ActivityService
}

func NewActivityHandler(s *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{service: s}
}

// List возвращает журнал активности с поддержкой фильтрации
// GET /v1/activities?entityType=...&entityId=...&actorId=...&limit=...
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFrom(r.Context())

	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	f := domain.ActivityFilter{
		EntityType: domain.EntityType(q.Get("entityType")),
		EntityID:   q.Get("entityId"),
		ActorID:    q.Get("actorId"),
		Limit:      limit,
	}

	entries, err := h.service.List(r.Context(), p, f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, entries)
}
