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

// CompanyRepository описывает требования сервиса к хранилищу компаний
type CompanyRepository interface {
	GetCompany(ctx context.Context, id string) (*domain.Company, error)
	ListCompanies(ctx context.Context) ([]domain.Company, error)
	CreateCompany(ctx context.Context, c *domain.Company) error
	UpdateCompany(ctx context.Context, c *domain.Company) error
	DeleteCompany(ctx context.Context, id string) error
}

// CompanyService: у компаний нет полей владения, доступ чисто ролевой
// (достаточно сессии) — область видимости списков тоже не сужается.
type CompanyService struct {
	repo     CompanyRepository
	recorder ActivityRecorder
	logger   *zap.Logger
}

func NewCompanyService(repo CompanyRepository, recorder ActivityRecorder, logger *zap.Logger) *CompanyService {
	return &CompanyService{
		repo:     repo,
		recorder: recorder,
		logger:   logger.Named("company-service"),
	}
}

func (s *CompanyService) Get(ctx context.Context, p *domain.Principal, id string) (*domain.Company, error) {
	c, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("Company")
	}
	if d := access.Decide(p, access.OpRead, c); !d.Allow {
		return nil, apperr.FromDecision(d)
	}
	return c, nil
}

func (s *CompanyService) List(ctx context.Context, p *domain.Principal) ([]domain.Company, error) {
	if d := access.DecideType(p, access.OpList, domain.EntityCompany); !d.Allow {
		return nil, apperr.FromDecision(d)
	}

	companies, err := s.repo.ListCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("company_service: list failed: %w", err)
	}
	if companies == nil {
		companies = []domain.Company{}
	}
	return companies, nil
}

func (s *CompanyService) Create(ctx context.Context, p *domain.Principal, c *domain.Company) (*domain.Company, error) {
	if d := access.DecideType(p, access.OpCreate, domain.EntityCompany); !d.Allow {
		return nil, apperr.FromDecision(d)
	}
	if c.Name == "" {
		return nil, apperr.Validation("Company name is required")
	}

	c.ID = uuid.New().String()
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now

	if err := s.repo.CreateCompany(ctx, c); err != nil {
		return nil, err
	}

	s.recorder.Record(activity.EntryForCreate(p, c))
	return c, nil
}

func (s *CompanyService) Update(ctx context.Context, p *domain.Principal, id string, upd *domain.Company) (*domain.Company, error) {
	before, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		return nil, err
	}
	if before == nil {
		return nil, apperr.NotFound("Company")
	}
	if d := access.Decide(p, access.OpUpdate, before); !d.Allow {
		return nil, apperr.FromDecision(d)
	}

	after := mergeCompany(*before, upd)
	after.UpdatedAt = time.Now()

	if err := s.repo.UpdateCompany(ctx, &after); err != nil {
		return nil, err
	}

	s.recorder.Record(activity.EntryForUpdate(p, before, &after))
	return &after, nil
}

func (s *CompanyService) Delete(ctx context.Context, p *domain.Principal, id string) error {
	c, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return apperr.NotFound("Company")
	}
	if d := access.Decide(p, access.OpDelete, c); !d.Allow {
		return apperr.FromDecision(d)
	}

	if err := s.repo.DeleteCompany(ctx, id); err != nil {
		return err
	}

	s.recorder.Record(activity.EntryForDelete(p, c))
	return nil
}

func mergeCompany(base domain.Company, upd *domain.Company) domain.Company {
	if upd.Name != "" {
		base.Name = upd.Name
	}
	if upd.Industry != "" {
		base.Industry = upd.Industry
	}
	if upd.Website != "" {
		base.Website = upd.Website
	}
	if upd.Phone != "" {
		base.Phone = upd.Phone
	}
	return base
}
