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

// ContactRepository описывает требования сервиса к хранилищу контактов
type ContactRepository interface {
	GetContact(ctx context.Context, id string) (*domain.Contact, error)
	ListContacts(ctx context.Context, f domain.ContactFilter) ([]domain.Contact, error)
	CreateContact(ctx context.Context, c *domain.Contact) error
	UpdateContact(ctx context.Context, c *domain.Contact) error
	DeleteContact(ctx context.Context, id string) error
}

type ContactService struct {
	repo     ContactRepository
	recorder ActivityRecorder
	logger   *zap.Logger
}

func NewContactService(repo ContactRepository, recorder ActivityRecorder, logger *zap.Logger) *ContactService {
	return &ContactService{
		repo:     repo,
		recorder: recorder,
		logger:   logger.Named("contact-service"),
	}
}

// Get возвращает контакт, если политика пропускает чтение.
// Отсутствие сессии чтение не блокирует (решает таблица политики).
func (s *ContactService) Get(ctx context.Context, p *domain.Principal, id string) (*domain.Contact, error) {
	c, err := s.repo.GetContact(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("Contact")
	}
	if d := access.Decide(p, access.OpRead, c); !d.Allow {
		return nil, apperr.FromDecision(d)
	}
	return c, nil
}

// List отдает контакты в области видимости пользователя.
func (s *ContactService) List(ctx context.Context, p *domain.Principal, f domain.ContactFilter) ([]domain.Contact, error) {
	if d := access.DecideType(p, access.OpList, domain.EntityContact); !d.Allow {
		return nil, apperr.FromDecision(d)
	}

	contacts, err := s.repo.ListContacts(ctx, access.ScopeContacts(p, f))
	if err != nil {
		return nil, fmt.Errorf("contact_service: list failed: %w", err)
	}

	// Фронтенд всегда получает массив, а не null
	if contacts == nil {
		contacts = []domain.Contact{}
	}
	return contacts, nil
}

func (s *ContactService) Create(ctx context.Context, p *domain.Principal, c *domain.Contact) (*domain.Contact, error) {
	if d := access.DecideType(p, access.OpCreate, domain.EntityContact); !d.Allow {
		return nil, apperr.FromDecision(d)
	}
	if c.FirstName == "" && c.LastName == "" {
		return nil, apperr.Validation("Contact name is required")
	}

	c.ID = uuid.New().String()
	c.CreatedBy = domain.NewRef(p.ID)
	if c.AssignedTo.IsZero() {
		c.AssignedTo = domain.NewRef(p.ID)
	}
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now

	if err := s.repo.CreateContact(ctx, c); err != nil {
		return nil, err
	}

	s.recorder.Record(activity.EntryForCreate(p, c))
	return c, nil
}

// Update применяет частичное обновление поверх текущего состояния.
// Смена assignedTo отражается в журнале как "assigned".
func (s *ContactService) Update(ctx context.Context, p *domain.Principal, id string, upd *domain.Contact) (*domain.Contact, error) {
	before, err := s.repo.GetContact(ctx, id)
	if err != nil {
		return nil, err
	}
	if before == nil {
		return nil, apperr.NotFound("Contact")
	}
	if d := access.Decide(p, access.OpUpdate, before); !d.Allow {
		return nil, apperr.FromDecision(d)
	}

	after := mergeContact(*before, upd)
	after.UpdatedAt = time.Now()

	if err := s.repo.UpdateContact(ctx, &after); err != nil {
		return nil, err
	}

	s.recorder.Record(activity.EntryForUpdate(p, before, &after))
	return &after, nil
}

func (s *ContactService) Delete(ctx context.Context, p *domain.Principal, id string) error {
	c, err := s.repo.GetContact(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return apperr.NotFound("Contact")
	}
	if d := access.Decide(p, access.OpDelete, c); !d.Allow {
		return apperr.FromDecision(d)
	}

	if err := s.repo.DeleteContact(ctx, id); err != nil {
		return err
	}

	s.recorder.Record(activity.EntryForDelete(p, c))
	return nil
}

// mergeContact накладывает непустые поля патча на текущее состояние.
func mergeContact(base domain.Contact, upd *domain.Contact) domain.Contact {
	if upd.FirstName != "" {
		base.FirstName = upd.FirstName
	}
	if upd.LastName != "" {
		base.LastName = upd.LastName
	}
	if upd.Email != "" {
		base.Email = upd.Email
	}
	if upd.Phone != "" {
		base.Phone = upd.Phone
	}
	if upd.CompanyID != "" {
		base.CompanyID = upd.CompanyID
	}
	if !upd.AssignedTo.IsZero() {
		base.AssignedTo = upd.AssignedTo.Bare()
	}
	return base
}
