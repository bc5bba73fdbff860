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

var (
	repPrincipal = &domain.Principal{ID: "rep", Name: "Rep Repov", Role: domain.RoleSalesRep}
	mgrPrincipal = &domain.Principal{ID: "mgr", Name: "Mgr", Role: domain.RoleManager}
)

func newTaskService(repo *fakeTaskRepo) (*TaskService, *captureRecorder) {
	rec := &captureRecorder{}
	return NewTaskService(repo, rec, zap.NewNop()), rec
}

func TestTaskCreateFillsDefaults(t *testing.T) {
	repo := newFakeTaskRepo()
	svc, rec := newTaskService(repo)

	created, err := svc.Create(context.Background(), repPrincipal, &domain.Task{Title: "Call client"})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.True(t, created.CreatedBy.Matches("rep"))
	// Без исполнителя задача назначается на автора
	assert.True(t, created.AssignedTo.Matches("rep"))
	assert.Equal(t, domain.TaskStatusOpen, created.Status)

	require.Len(t, rec.entries, 1)
	assert.Equal(t, domain.ActivityCreated, rec.entries[0].Type)
}

func TestTaskCreateRequiresTitle(t *testing.T) {
	svc, rec := newTaskService(newFakeTaskRepo())

	_, err := svc.Create(context.Background(), repPrincipal, &domain.Task{})

	require.Error(t, err)
	assert.Equal(t, 400, apperr.Wrap(err).Status)
	assert.Empty(t, rec.entries)
}

// Перенос исполнителя попадает в журнал как "assigned" с новым id в метаданных
func TestTaskUpdateAssignLogsAssigned(t *testing.T) {
	repo := newFakeTaskRepo(&domain.Task{
		ID:         "t1",
		Title:      "Call client",
		Status:     domain.TaskStatusOpen,
		AssignedTo: domain.NewRef("rep"),
		CreatedBy:  domain.NewRef("rep"),
	})
	svc, rec := newTaskService(repo)

	updated, err := svc.Update(context.Background(), repPrincipal, "t1",
		&domain.Task{AssignedTo: domain.NewRef("colleague")})
	require.NoError(t, err)
	assert.True(t, updated.AssignedTo.Matches("colleague"))

	require.Len(t, rec.entries, 1)
	e := rec.entries[0]
	assert.Equal(t, domain.ActivityAssigned, e.Type)
	assert.Equal(t, map[string]any{"assignedTo": "colleague"}, e.Metadata)
	// Записи о задачах ключуются по исполнителю
	assert.Equal(t, domain.EntityUser, e.EntityType)
	assert.Equal(t, "colleague", e.EntityID)
}

// Исполнитель не может удалить чужую задачу: отказ до обращения к хранилищу
func TestTaskDeleteAssigneeDenied(t *testing.T) {
	repo := newFakeTaskRepo(&domain.Task{
		ID:         "t1",
		Title:      "Call client",
		AssignedTo: domain.NewRef("rep"),
		CreatedBy:  domain.NewRef("author"),
	})
	svc, rec := newTaskService(repo)

	err := svc.Delete(context.Background(), repPrincipal, "t1")

	require.Error(t, err)
	ae := apperr.Wrap(err)
	assert.Equal(t, 403, ae.Status)
	assert.Equal(t, "Insufficient permissions", ae.Message)

	assert.Zero(t, repo.deletes)
	// Отказанная операция в журнал не попадает
	assert.Empty(t, rec.entries)
}

func TestTaskDeleteByCreator(t *testing.T) {
	repo := newFakeTaskRepo(&domain.Task{
		ID:         "t1",
		Title:      "Call client",
		AssignedTo: domain.NewRef("other"),
		CreatedBy:  domain.NewRef("rep"),
	})
	svc, rec := newTaskService(repo)

	require.NoError(t, svc.Delete(context.Background(), repPrincipal, "t1"))
	assert.Equal(t, 1, repo.deletes)
	require.Len(t, rec.entries, 1)
	assert.Equal(t, domain.ActivityDeleted, rec.entries[0].Type)
}

func TestTaskGetNotFound(t *testing.T) {
	svc, _ := newTaskService(newFakeTaskRepo())

	_, err := svc.Get(context.Background(), repPrincipal, "ghost")

	require.Error(t, err)
	ae := apperr.Wrap(err)
	assert.Equal(t, 404, ae.Status)
	assert.Equal(t, "Task not found", ae.Message)
}

// Список salesrep всегда сужается до его собственных задач
func TestTaskListScoped(t *testing.T) {
	repo := newFakeTaskRepo(
		&domain.Task{ID: "mine", Title: "A", AssignedTo: domain.NewRef("rep")},
		&domain.Task{ID: "foreign", Title: "B", AssignedTo: domain.NewRef("other")},
	)
	svc, _ := newTaskService(repo)

	tasks, err := svc.List(context.Background(), repPrincipal, domain.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "mine", tasks[0].ID)

	// Менеджер видит все
	tasks, err = svc.List(context.Background(), mgrPrincipal, domain.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestTaskListAnonymous(t *testing.T) {
	svc, _ := newTaskService(newFakeTaskRepo())

	_, err := svc.List(context.Background(), nil, domain.TaskFilter{})

	require.Error(t, err)
	ae := apperr.Wrap(err)
	assert.Equal(t, 401, ae.Status)
	assert.Equal(t, "Not authenticated", ae.Message)
}
