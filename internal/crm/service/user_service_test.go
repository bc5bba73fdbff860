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

var admPrincipal = &domain.Principal{ID: "adm", Name: "Adm", Role: domain.RoleAdmin}

func newUserService(repo *fakeUserRepo) (*UserService, *captureRecorder) {
	rec := &captureRecorder{}
	// Redis не подключаем: сигнал статуса пропускается молча
	return NewUserService(repo, rec, nil, 4, zap.NewNop()), rec
}

func TestUserUpdateSelfRedacted(t *testing.T) {
	repo := newFakeUserRepo(&domain.User{
		ID: "rep", FirstName: "Old", LastName: "Name",
		Email: "rep@crm.io", Role: domain.RoleSalesRep, IsActive: true,
	})
	svc, _ := newUserService(repo)

	updated, err := svc.Update(context.Background(), repPrincipal, "rep", map[string]any{
		"firstName": "New",
		"role":      "admin",
		"isActive":  false,
		"email":     "evil@crm.io",
		"password":  "hack",
	})
	require.NoError(t, err)

	// Прошло только имя, попытки эскалации отброшены молча
	assert.Equal(t, "New", updated.FirstName)
	assert.Equal(t, domain.RoleSalesRep, updated.Role)
	assert.True(t, updated.IsActive)
	assert.Equal(t, "rep@crm.io", updated.Email)
}

func TestUserUpdateForeignDenied(t *testing.T) {
	repo := newFakeUserRepo(&domain.User{ID: "victim", Role: domain.RoleSalesRep, IsActive: true})
	svc, _ := newUserService(repo)

	_, err := svc.Update(context.Background(), repPrincipal, "victim", map[string]any{"firstName": "X"})

	require.Error(t, err)
	assert.Equal(t, 403, apperr.Wrap(err).Status)
	assert.Zero(t, repo.updates)
}

func TestUserUpdateAdminChangesRole(t *testing.T) {
	repo := newFakeUserRepo(&domain.User{ID: "rep", Role: domain.RoleSalesRep, IsActive: true})
	svc, _ := newUserService(repo)

	updated, err := svc.Update(context.Background(), admPrincipal, "rep", map[string]any{
		"role":     "manager",
		"isActive": false,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.RoleManager, updated.Role)
	assert.False(t, updated.IsActive)
}

func TestUserUpdateUnknownRoleRejected(t *testing.T) {
	repo := newFakeUserRepo(&domain.User{ID: "rep", Role: domain.RoleSalesRep, IsActive: true})
	svc, _ := newUserService(repo)

	_, err := svc.Update(context.Background(), admPrincipal, "rep", map[string]any{"role": "superuser"})

	require.Error(t, err)
	assert.Equal(t, 400, apperr.Wrap(err).Status)
	assert.Zero(t, repo.updates)
}

func TestUserDeleteManagerDenied(t *testing.T) {
	repo := newFakeUserRepo(&domain.User{ID: "victim"})
	svc, rec := newUserService(repo)

	err := svc.Delete(context.Background(), mgrPrincipal, "victim")

	require.Error(t, err)
	ae := apperr.Wrap(err)
	assert.Equal(t, 403, ae.Status)
	assert.Equal(t, "Only admins can delete users", ae.Message)
	assert.Zero(t, repo.deletes)
	assert.Empty(t, rec.entries)
}

// Самоудаление админа — 400, хранилище не трогается
func TestUserDeleteSelfRejected(t *testing.T) {
	repo := newFakeUserRepo(&domain.User{ID: "adm", Role: domain.RoleAdmin})
	svc, _ := newUserService(repo)

	err := svc.Delete(context.Background(), admPrincipal, "adm")

	require.Error(t, err)
	ae := apperr.Wrap(err)
	assert.Equal(t, 400, ae.Status)
	assert.Equal(t, "Cannot delete your own account", ae.Message)
	assert.Zero(t, repo.deletes)
}

func TestUserDeleteByAdmin(t *testing.T) {
	repo := newFakeUserRepo(&domain.User{ID: "victim", FirstName: "Gone"})
	svc, rec := newUserService(repo)

	require.NoError(t, svc.Delete(context.Background(), admPrincipal, "victim"))
	assert.Equal(t, 1, repo.deletes)
	require.Len(t, rec.entries, 1)
	assert.Equal(t, domain.ActivityDeleted, rec.entries[0].Type)
}

func TestUserCreateAdminOnly(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newUserService(repo)

	req := CreateUserRequest{
		FirstName: "New", Email: "new@crm.io",
		Password: "secret", Role: domain.RoleSalesRep,
	}

	_, err := svc.Create(context.Background(), mgrPrincipal, req)
	require.Error(t, err)
	assert.Equal(t, 403, apperr.Wrap(err).Status)

	created, err := svc.Create(context.Background(), admPrincipal, req)
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	assert.NotEmpty(t, created.PasswordHash)
	assert.NotEqual(t, "secret", created.PasswordHash)
}

func TestUserListManagerOnly(t *testing.T) {
	repo := newFakeUserRepo(&domain.User{ID: "u1"})
	svc, _ := newUserService(repo)

	_, err := svc.List(context.Background(), repPrincipal)
	require.Error(t, err)
	assert.Equal(t, 403, apperr.Wrap(err).Status)

	users, err := svc.List(context.Background(), mgrPrincipal)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUserGetSelfAndForeign(t *testing.T) {
	repo := newFakeUserRepo(
		&domain.User{ID: "rep"},
		&domain.User{ID: "other"},
	)
	svc, _ := newUserService(repo)

	_, err := svc.Get(context.Background(), repPrincipal, "rep")
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), repPrincipal, "other")
	require.Error(t, err)
	assert.Equal(t, 403, apperr.Wrap(err).Status)
}
