package postgres

import (
	"context"
	"encoding/json"

	"github.com/xela07ax/teamcrm/internal/domain"
)

const tableCases = "cases"

func (s *Store) GetCase(ctx context.Context, id string) (*domain.Case, error) {
	c := &domain.Case{}
	found, err := s.getDoc(ctx, tableCases, id, c)
	if err != nil || !found {
		return nil, err
	}
	s.populateRef(ctx, &c.AssignedTo)
	s.populateRef(ctx, &c.CreatedBy)
	return c, nil
}

func (s *Store) ListCases(ctx context.Context) ([]domain.Case, error) {
	query := `SELECT doc FROM cases ORDER BY created_at DESC`

	var results []domain.Case
	err := s.listDocs(ctx, query, nil, func(doc []byte) error {
		var c domain.Case
		if err := json.Unmarshal(doc, &c); err != nil {
			return err
		}
		results = append(results, c)
		return nil
	})
	return results, err
}

func (s *Store) CreateCase(ctx context.Context, c *domain.Case) error {
	c.AssignedTo = c.AssignedTo.Bare()
	c.CreatedBy = c.CreatedBy.Bare()
	return s.insertDoc(ctx, tableCases, c.ID, c)
}

func (s *Store) UpdateCase(ctx context.Context, c *domain.Case) error {
	c.AssignedTo = c.AssignedTo.Bare()
	c.CreatedBy = c.CreatedBy.Bare()
	return s.updateDoc(ctx, tableCases, c.ID, c)
}

func (s *Store) DeleteCase(ctx context.Context, id string) error {
	return s.deleteDoc(ctx, tableCases, id)
}
