package service

import (
	"context"
	"fmt"

	"github.com/xela07ax/teamcrm/internal/access"
	"github.com/xela07ax/teamcrm/internal/crm/apperr"
	"github.com/xela07ax/teamcrm/internal/domain"
	"go.uber.org/zap"
)

// ActivityReader — сторона чтения журнала активности.
type ActivityReader interface {
	List(ctx context.Context, f domain.ActivityFilter) ([]domain.ActivityEntry, error)
}

// ActivityService отдает журнал активности. Журнал содержит действия
// всех сотрудников, поэтому читать его могут только менеджеры и выше.
type ActivityService struct {
	repo   ActivityReader
	logger *zap.Logger
}

func NewActivityService(repo ActivityReader, logger *zap.Logger) *ActivityService {
	return &ActivityService{
		repo:   repo,
		logger: logger.Named("activity-service"),
	}
}

const defaultActivityLimit = 100

func (s *ActivityService) List(ctx context.Context, p *domain.Principal, f domain.ActivityFilter) ([]domain.ActivityEntry, error) {
	if p == nil {
		return nil, apperr.Unauthenticated()
	}
	if !access.HasPermission(p, domain.RoleManager) {
		return nil, apperr.Forbidden(access.ReasonInsufficient)
	}

	if f.Limit <= 0 || f.Limit > 1000 {
		f.Limit = defaultActivityLimit
	}

	entries, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("activity_service: list failed: %w", err)
	}
	if entries == nil {
		entries = []domain.ActivityEntry{}
	}
	return entries, nil
}
