package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xela07ax/teamcrm/internal/domain"
)

const tableContacts = "contacts"

// GetContact читает контакт и разворачивает ссылки на пользователей.
// Возвращает nil, nil если записи нет.
func (s *Store) GetContact(ctx context.Context, id string) (*domain.Contact, error) {
	c := &domain.Contact{}
	found, err := s.getDoc(ctx, tableContacts, id, c)
	if err != nil || !found {
		return nil, err
	}
	s.populateRef(ctx, &c.AssignedTo)
	s.populateRef(ctx, &c.CreatedBy)
	return c, nil
}

// ListContacts возвращает контакты по фильтру.
// OwnerID (выставляется Query Scoper'ом) означает: исполнитель ИЛИ создатель.
func (s *Store) ListContacts(ctx context.Context, f domain.ContactFilter) ([]domain.Contact, error) {
	query := `SELECT doc FROM contacts WHERE 1=1`
	var args []any

	if f.OwnerID != "" {
		args = append(args, f.OwnerID)
		query += fmt.Sprintf(` AND (doc->>'assignedTo' = $%d OR doc->>'createdBy' = $%d)`, len(args), len(args))
	}
	if f.AssignedTo != "" {
		args = append(args, f.AssignedTo)
		query += fmt.Sprintf(` AND doc->>'assignedTo' = $%d`, len(args))
	}
	if f.CompanyID != "" {
		args = append(args, f.CompanyID)
		query += fmt.Sprintf(` AND doc->>'companyId' = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`

	var results []domain.Contact
	err := s.listDocs(ctx, query, args, func(doc []byte) error {
		var c domain.Contact
		if err := json.Unmarshal(doc, &c); err != nil {
			return err
		}
		results = append(results, c)
		return nil
	})
	return results, err
}

func (s *Store) CreateContact(ctx context.Context, c *domain.Contact) error {
	// Ссылки храним только в голой форме
	c.AssignedTo = c.AssignedTo.Bare()
	c.CreatedBy = c.CreatedBy.Bare()
	return s.insertDoc(ctx, tableContacts, c.ID, c)
}

func (s *Store) UpdateContact(ctx context.Context, c *domain.Contact) error {
	c.AssignedTo = c.AssignedTo.Bare()
	c.CreatedBy = c.CreatedBy.Bare()
	return s.updateDoc(ctx, tableContacts, c.ID, c)
}

func (s *Store) DeleteContact(ctx context.Context, id string) error {
	return s.deleteDoc(ctx, tableContacts, id)
}
