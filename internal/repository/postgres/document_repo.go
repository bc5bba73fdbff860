package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xela07ax/teamcrm/internal/domain"
)

const tableDocuments = "documents"

func (s *Store) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	d := &domain.Document{}
	found, err := s.getDoc(ctx, tableDocuments, id, d)
	if err != nil || !found {
		return nil, err
	}
	s.populateRef(ctx, &d.UploadedBy)
	return d, nil
}

func (s *Store) ListDocuments(ctx context.Context, entityRef string) ([]domain.Document, error) {
	query := `SELECT doc FROM documents WHERE 1=1`
	var args []any

	if entityRef != "" {
		args = append(args, entityRef)
		query += fmt.Sprintf(` AND doc->>'entityRef' = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`

	var results []domain.Document
	err := s.listDocs(ctx, query, args, func(doc []byte) error {
		var d domain.Document
		if err := json.Unmarshal(doc, &d); err != nil {
			return err
		}
		results = append(results, d)
		return nil
	})
	return results, err
}

func (s *Store) CreateDocument(ctx context.Context, d *domain.Document) error {
	d.UploadedBy = d.UploadedBy.Bare()
	return s.insertDoc(ctx, tableDocuments, d.ID, d)
}

func (s *Store) UpdateDocument(ctx context.Context, d *domain.Document) error {
	d.UploadedBy = d.UploadedBy.Bare()
	return s.updateDoc(ctx, tableDocuments, d.ID, d)
}

func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	return s.deleteDoc(ctx, tableDocuments, id)
}
