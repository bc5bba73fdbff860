package postgres

import (
	"context"
	"encoding/json"

	"github.com/xela07ax/teamcrm/internal/domain"
)

const tableCompanies = "companies"

func (s *Store) GetCompany(ctx context.Context, id string) (*domain.Company, error) {
	c := &domain.Company{}
	found, err := s.getDoc(ctx, tableCompanies, id, c)
	if err != nil || !found {
		return nil, err
	}
	return c, nil
}

func (s *Store) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	query := `SELECT doc FROM companies ORDER BY created_at DESC`

	var results []domain.Company
	err := s.listDocs(ctx, query, nil, func(doc []byte) error {
		var c domain.Company
		if err := json.Unmarshal(doc, &c); err != nil {
			return err
		}
		results = append(results, c)
		return nil
	})
	return results, err
}

func (s *Store) CreateCompany(ctx context.Context, c *domain.Company) error {
	return s.insertDoc(ctx, tableCompanies, c.ID, c)
}

func (s *Store) UpdateCompany(ctx context.Context, c *domain.Company) error {
	return s.updateDoc(ctx, tableCompanies, c.ID, c)
}

func (s *Store) DeleteCompany(ctx context.Context, id string) error {
	return s.deleteDoc(ctx, tableCompanies, id)
}
