package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xela07ax/teamcrm/internal/domain"
)

const tableTasks = "tasks"

func (s *Store) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	t := &domain.Task{}
	found, err := s.getDoc(ctx, tableTasks, id, t)
	if err != nil || !found {
		return nil, err
	}
	s.populateRef(ctx, &t.AssignedTo)
	s.populateRef(ctx, &t.CreatedBy)
	return t, nil
}

func (s *Store) ListTasks(ctx context.Context, f domain.TaskFilter) ([]domain.Task, error) {
	query := `SELECT doc FROM tasks WHERE 1=1`
	var args []any

	if f.AssignedTo != "" {
		args = append(args, f.AssignedTo)
		query += fmt.Sprintf(` AND doc->>'assignedTo' = $%d`, len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(` AND doc->>'status' = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`

	var results []domain.Task
	err := s.listDocs(ctx, query, args, func(doc []byte) error {
		var t domain.Task
		if err := json.Unmarshal(doc, &t); err != nil {
			return err
		}
		results = append(results, t)
		return nil
	})
	return results, err
}

func (s *Store) CreateTask(ctx context.Context, t *domain.Task) error {
	t.AssignedTo = t.AssignedTo.Bare()
	t.CreatedBy = t.CreatedBy.Bare()
	return s.insertDoc(ctx, tableTasks, t.ID, t)
}

func (s *Store) UpdateTask(ctx context.Context, t *domain.Task) error {
	t.AssignedTo = t.AssignedTo.Bare()
	t.CreatedBy = t.CreatedBy.Bare()
	return s.updateDoc(ctx, tableTasks, t.ID, t)
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	return s.deleteDoc(ctx, tableTasks, id)
}
