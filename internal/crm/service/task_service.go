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

// TaskRepository описывает требования сервиса к хранилищу задач
type TaskRepository interface {
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	ListTasks(ctx context.Context, f domain.TaskFilter) ([]domain.Task, error)
	CreateTask(ctx context.Context, t *domain.Task) error
	UpdateTask(ctx context.Context, t *domain.Task) error
	DeleteTask(ctx context.Context, id string) error
}

type TaskService struct {
	repo     TaskRepository
	recorder ActivityRecorder
	logger   *zap.Logger
}

func NewTaskService(repo TaskRepository, recorder ActivityRecorder, logger *zap.Logger) *TaskService {
	return &TaskService{
		repo:     repo,
		recorder: recorder,
		logger:   logger.Named("task-service"),
	}
}

func (s *TaskService) Get(ctx context.Context, p *domain.Principal, id string) (*domain.Task, error) {
	t, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperr.NotFound("Task")
	}
	// Чтение одиночной задачи открыто только исполнителю (или менеджеру):
	// авторство права на чтение не дает.
	if d := access.Decide(p, access.OpRead, t); !d.Allow {
		return nil, apperr.FromDecision(d)
	}
	return t, nil
}

func (s *TaskService) List(ctx context.Context, p *domain.Principal, f domain.TaskFilter) ([]domain.Task, error) {
	if d := access.DecideType(p, access.OpList, domain.EntityTask); !d.Allow {
		return nil, apperr.FromDecision(d)
	}

	tasks, err := s.repo.ListTasks(ctx, access.ScopeTasks(p, f))
	if err != nil {
		return nil, fmt.Errorf("task_service: list failed: %w", err)
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

func (s *TaskService) Create(ctx context.Context, p *domain.Principal, t *domain.Task) (*domain.Task, error) {
	if d := access.DecideType(p, access.OpCreate, domain.EntityTask); !d.Allow {
		return nil, apperr.FromDecision(d)
	}
	if t.Title == "" {
		return nil, apperr.Validation("Task title is required")
	}

	t.ID = uuid.New().String()
	t.CreatedBy = domain.NewRef(p.ID)
	if t.AssignedTo.IsZero() {
		t.AssignedTo = domain.NewRef(p.ID)
	}
	if t.Status == "" {
		t.Status = domain.TaskStatusOpen
	}
	now := time.Now()
	t.CreatedAt, t.UpdatedAt = now, now

	if err := s.repo.CreateTask(ctx, t); err != nil {
		return nil, err
	}

	s.recorder.Record(activity.EntryForCreate(p, t))
	return t, nil
}

// Update применяет частичное обновление. Перенос assignedTo попадает
// в журнал как "assigned", переход в completed — как "updated" с
// формулировкой "Completed".
func (s *TaskService) Update(ctx context.Context, p *domain.Principal, id string, upd *domain.Task) (*domain.Task, error) {
	before, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if before == nil {
		return nil, apperr.NotFound("Task")
	}
	if d := access.Decide(p, access.OpUpdate, before); !d.Allow {
		return nil, apperr.FromDecision(d)
	}

	after := mergeTask(*before, upd)
	after.UpdatedAt = time.Now()

	if err := s.repo.UpdateTask(ctx, &after); err != nil {
		return nil, err
	}

	s.recorder.Record(activity.EntryForUpdate(p, before, &after))
	return &after, nil
}

// Delete доступен менеджеру и создателю задачи; исполнителю — нет.
func (s *TaskService) Delete(ctx context.Context, p *domain.Principal, id string) error {
	t, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return err
	}
	if t == nil {
		return apperr.NotFound("Task")
	}
	if d := access.Decide(p, access.OpDelete, t); !d.Allow {
		return apperr.FromDecision(d)
	}

	if err := s.repo.DeleteTask(ctx, id); err != nil {
		return err
	}

	s.recorder.Record(activity.EntryForDelete(p, t))
	return nil
}

func mergeTask(base domain.Task, upd *domain.Task) domain.Task {
	if upd.Title != "" {
		base.Title = upd.Title
	}
	if upd.Description != "" {
		base.Description = upd.Description
	}
	if upd.Status != "" {
		base.Status = upd.Status
	}
	if upd.Priority != "" {
		base.Priority = upd.Priority
	}
	if !upd.DueDate.IsZero() {
		base.DueDate = upd.DueDate
	}
	if !upd.AssignedTo.IsZero() {
		base.AssignedTo = upd.AssignedTo.Bare()
	}
	return base
}
