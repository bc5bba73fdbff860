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

// DocumentRepository описывает требования сервиса к хранилищу документов
type DocumentRepository interface {
	GetDocument(ctx context.Context, id string) (*domain.Document, error)
	ListDocuments(ctx context.Context, entityRef string) ([]domain.Document, error)
	CreateDocument(ctx context.Context, d *domain.Document) error
	UpdateDocument(ctx context.Context, d *domain.Document) error
	DeleteDocument(ctx context.Context, id string) error
}

// DocumentService ведет только метаданные: физика загрузки и отдачи
// файлов живет в отдельном сервисе хранения.
type DocumentService struct {
	repo     DocumentRepository
	recorder ActivityRecorder
	logger   *zap.Logger
}

func NewDocumentService(repo DocumentRepository, recorder ActivityRecorder, logger *zap.Logger) *DocumentService {
	return &DocumentService{
		repo:     repo,
		recorder: recorder,
		logger:   logger.Named("document-service"),
	}
}

// Get: чтение метаданных открыто любому аутентифицированному.
func (s *DocumentService) Get(ctx context.Context, p *domain.Principal, id string) (*domain.Document, error) {
	d, err := s.repo.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperr.NotFound("Document")
	}
	if dec := access.Decide(p, access.OpRead, d); !dec.Allow {
		return nil, apperr.FromDecision(dec)
	}
	return d, nil
}

func (s *DocumentService) List(ctx context.Context, p *domain.Principal, entityRef string) ([]domain.Document, error) {
	if d := access.DecideType(p, access.OpList, domain.EntityDocument); !d.Allow {
		return nil, apperr.FromDecision(d)
	}

	docs, err := s.repo.ListDocuments(ctx, entityRef)
	if err != nil {
		return nil, fmt.Errorf("document_service: list failed: %w", err)
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	return docs, nil
}

func (s *DocumentService) Create(ctx context.Context, p *domain.Principal, d *domain.Document) (*domain.Document, error) {
	if dec := access.DecideType(p, access.OpCreate, domain.EntityDocument); !dec.Allow {
		return nil, apperr.FromDecision(dec)
	}
	if d.Name == "" {
		return nil, apperr.Validation("Document name is required")
	}

	d.ID = uuid.New().String()
	d.UploadedBy = domain.NewRef(p.ID)
	now := time.Now()
	d.CreatedAt, d.UpdatedAt = now, now

	if err := s.repo.CreateDocument(ctx, d); err != nil {
		return nil, err
	}

	s.recorder.Record(activity.EntryForCreate(p, d))
	return d, nil
}

func (s *DocumentService) Update(ctx context.Context, p *domain.Principal, id string, upd *domain.Document) (*domain.Document, error) {
	before, err := s.repo.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if before == nil {
		return nil, apperr.NotFound("Document")
	}
	if dec := access.Decide(p, access.OpUpdate, before); !dec.Allow {
		return nil, apperr.FromDecision(dec)
	}

	after := *before
	if upd.Name != "" {
		after.Name = upd.Name
	}
	if upd.EntityRef != "" {
		after.EntityRef = upd.EntityRef
	}
	after.UpdatedAt = time.Now()

	if err := s.repo.UpdateDocument(ctx, &after); err != nil {
		return nil, err
	}

	s.recorder.Record(activity.EntryForUpdate(p, before, &after))
	return &after, nil
}

// Delete: документ убирает загрузивший его (или менеджер).
func (s *DocumentService) Delete(ctx context.Context, p *domain.Principal, id string) error {
	d, err := s.repo.GetDocument(ctx, id)
	if err != nil {
		return err
	}
	if d == nil {
		return apperr.NotFound("Document")
	}
	if dec := access.Decide(p, access.OpDelete, d); !dec.Allow {
		return apperr.FromDecision(dec)
	}

	if err := s.repo.DeleteDocument(ctx, id); err != nil {
		return err
	}

	s.recorder.Record(activity.EntryForDelete(p, d))
	return nil
}
