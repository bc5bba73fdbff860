package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xela07ax/teamcrm/internal/crm/apperr"
	"github.com/xela07ax/teamcrm/internal/domain"
	"go.uber.org/zap"
)

type fakeContactRepo struct {
	contacts map[string]*domain.Contact
}

func newFakeContactRepo(contacts ...*domain.Contact) *fakeContactRepo {
	r := &fakeContactRepo{contacts: make(map[string]*domain.Contact)}
	for _, c := range contacts {
		r.contacts[c.ID] = c
	}
	return r
}

func (r *fakeContactRepo) GetContact(_ context.Context, id string) (*domain.Contact, error) {
	c, ok := r.contacts[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeContactRepo) ListContacts(_ context.Context, f domain.ContactFilter) ([]domain.Contact, error) {
	var out []domain.Contact
	for _, c := range r.contacts {
		if f.OwnerID != "" && !c.AssignedTo.Matches(f.OwnerID) && !c.CreatedBy.Matches(f.OwnerID) {
			continue
		}
		if f.AssignedTo != "" && !c.AssignedTo.Matches(f.AssignedTo) {
			continue
		}
		if f.CompanyID != "" && c.CompanyID != f.CompanyID {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeContactRepo) CreateContact(_ context.Context, c *domain.Contact) error {
	cp := *c
	r.contacts[c.ID] = &cp
	return nil
}

func (r *fakeContactRepo) UpdateContact(_ context.Context, c *domain.Contact) error {
	cp := *c
	r.contacts[c.ID] = &cp
	return nil
}

func (r *fakeContactRepo) DeleteContact(_ context.Context, id string) error {
	delete(r.contacts, id)
	return nil
}

func newContactService(repo *fakeContactRepo) (*ContactService, *captureRecorder) {
	rec := &captureRecorder{}
	return NewContactService(repo, rec, zap.NewNop()), rec
}

// Одиночное чтение контакта открыто и без сессии
func TestContactGetAnonymous(t *testing.T) {
	repo := newFakeContactRepo(&domain.Contact{ID: "c1", FirstName: "Ann", AssignedTo: domain.NewRef("rep")})
	svc, _ := newContactService(repo)

	c, err := svc.Get(context.Background(), nil, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", c.FirstName)
}

// А список — нет: без сессии 401
func TestContactListAnonymous(t *testing.T) {
	svc, _ := newContactService(newFakeContactRepo())

	_, err := svc.List(context.Background(), nil, domain.ContactFilter{})
	require.Error(t, err)
	assert.Equal(t, 401, apperr.Wrap(err).Status)
}

func TestContactListScoped(t *testing.T) {
	repo := newFakeContactRepo(
		&domain.Contact{ID: "assigned", AssignedTo: domain.NewRef("rep")},
		&domain.Contact{ID: "created", CreatedBy: domain.NewRef("rep")},
		&domain.Contact{ID: "foreign", AssignedTo: domain.NewRef("other")},
	)
	svc, _ := newContactService(repo)

	// salesrep видит назначенное на себя и созданное им
	contacts, err := svc.List(context.Background(), repPrincipal, domain.ContactFilter{})
	require.NoError(t, err)
	assert.Len(t, contacts, 2)

	contacts, err = svc.List(context.Background(), mgrPrincipal, domain.ContactFilter{})
	require.NoError(t, err)
	assert.Len(t, contacts, 3)
}

func TestContactUpdateForeignDenied(t *testing.T) {
	repo := newFakeContactRepo(&domain.Contact{
		ID:         "c1",
		AssignedTo: domain.NewRef("other"),
		CreatedBy:  domain.NewRef("other"),
	})
	svc, rec := newContactService(repo)

	_, err := svc.Update(context.Background(), repPrincipal, "c1", &domain.Contact{FirstName: "X"})

	require.Error(t, err)
	ae := apperr.Wrap(err)
	assert.Equal(t, 403, ae.Status)
	assert.Equal(t, "Insufficient permissions", ae.Message)
	assert.Empty(t, rec.entries)
}

func TestContactCreateRequiresName(t *testing.T) {
	svc, _ := newContactService(newFakeContactRepo())

	_, err := svc.Create(context.Background(), repPrincipal, &domain.Contact{Email: "a@b.c"})
	require.Error(t, err)
	assert.Equal(t, "Contact name is required", apperr.Wrap(err).Message)
}
