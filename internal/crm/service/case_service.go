package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xela07ax/teamcrm/internal/access"
	"github.com/xela07ax/teamcrm/internal/activity"
	"github.com/xela07ax/teamcrm/internal/crm/apperr"
	"github.com/xela07ax/teamcrm/internal/domain"
	"go.uber.org/zap"
)

// CaseRepository описывает требования сервиса к хранилищу обращений
type CaseRepository interface {
	GetCase(ctx context.Context, id string) (*domain.Case, error)
	ListCases(ctx context.Context) ([]domain.Case, error)
	CreateCase(ctx context.Context, c *domain.Case) error
	UpdateCase(ctx context.Context, c *domain.Case) error
	DeleteCase(ctx context.Context, id string) error
}

// CaseService: обращения несут поля assignedTo/createdBy, но политика
// их не смотрит — любому аутентифицированному доступно всё
// (унаследованное поведение, сохранено).
type CaseService struct {
	repo     CaseRepository
	recorder ActivityRecorder
	logger   *zap.Logger
}

func NewCaseService(repo CaseRepository, recorder ActivityRecorder, logger *zap.Logger) *CaseService {
	return &CaseService{
		repo:     repo,
		recorder: recorder,
		logger:   logger.Named("case-service"),
	}
}

func (s *CaseService) Get(ctx context.Context, p *domain.Principal, id string) (*domain.Case, error) {
	c, err := s.repo.GetCase(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("Case")
	}
	if d := access.Decide(p, access.OpRead, c); !d.Allow {
		return nil, apperr.FromDecision(d)
	}
	return c, nil
}

func (s *CaseService) List(ctx context.Context, p *domain.Principal) ([]domain.Case, error) {
	if d := access.DecideType(p, access.OpList, domain.EntityCase); !d.Allow {
		return nil, apperr.FromDecision(d)
	}

	cases, err := s.repo.ListCases(ctx)
	if err != nil {
		return nil, fmt.Errorf("case_service: list failed: %w", err)
	}
	if cases == nil {
		cases = []domain.Case{}
	}
	return cases, nil
}

func (s *CaseService) Create(ctx context.Context, p *domain.Principal, c *domain.Case) (*domain.Case, error) {
	if d := access.DecideType(p, access.OpCreate, domain.EntityCase); !d.Allow {
		return nil, apperr.FromDecision(d)
	}
	if c.Title == "" {
		return nil, apperr.Validation("Case title is required")
	}

	c.ID = uuid.New().String()
	c.CreatedBy = domain.NewRef(p.ID)
	if c.AssignedTo.IsZero() {
		c.AssignedTo = domain.NewRef(p.ID)
	}
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now

	if err := s.repo.CreateCase(ctx, c); err != nil {
		return nil, err
	}

	s.recorder.Record(activity.EntryForCreate(p, c))
	return c, nil
}

func (s *CaseService) Update(ctx context.Context, p *domain.Principal, id string, upd *domain.Case) (*domain.Case, error) {
	before, err := s.repo.GetCase(ctx, id)
	if err != nil {
		return nil, err
	}
	if before == nil {
		return nil, apperr.NotFound("Case")
	}
	if d := access.Decide(p, access.OpUpdate, before); !d.Allow {
		return nil, apperr.FromDecision(d)
	}

	after := mergeCase(*before, upd)
	after.UpdatedAt = time.Now()

	if err := s.repo.UpdateCase(ctx, &after); err != nil {
		return nil, err
	}

	s.recorder.Record(activity.EntryForUpdate(p, before, &after))
	return &after, nil
}

func (s *CaseService) Delete(ctx context.Context, p *domain.Principal, id string) error {
	c, err := s.repo.GetCase(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return apperr.NotFound("Case")
	}
	if d := access.Decide(p, access.OpDelete, c); !d.Allow {
		return apperr.FromDecision(d)
	}

	if err := s.repo.DeleteCase(ctx, id); err != nil {
		return err
	}

	s.recorder.Record(activity.EntryForDelete(p, c))
	return nil
}

func mergeCase(base domain.Case, upd *domain.Case) domain.Case {
	if upd.Title != "" {
		base.Title = upd.Title
	}
	if upd.Description != "" {
		base.Description = upd.Description
	}
	if upd.Status != "" {
		base.Status = upd.Status
	}
	if upd.Priority != "" {
		base.Priority = upd.Priority
	}
	if upd.ContactID != "" {
		base.ContactID = upd.ContactID
	}
	if !upd.AssignedTo.IsZero() {
		base.AssignedTo = upd.AssignedTo.Bare()
	}
	return base
}
