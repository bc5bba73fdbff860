package service

import (
	"context"

	"github.com/xela07ax/teamcrm/internal/domain"
)

// Общие фикстуры тестов пакета: запоминающий журнал и in-memory репозитории.

// captureRecorder запоминает записи журнала синхронно
type captureRecorder struct {
	entries []domain.ActivityEntry
}

func (r *captureRecorder) Record(e domain.ActivityEntry) {
	r.entries = append(r.entries, e)
}

// fakeTaskRepo — мапа вместо Postgres, с учетом вызовов мутаций
type fakeTaskRepo struct {
	tasks   map[string]*domain.Task
	deletes int
	updates int
}

func newFakeTaskRepo(tasks ...*domain.Task) *fakeTaskRepo {
	r := &fakeTaskRepo{tasks: make(map[string]*domain.Task)}
	for _, t := range tasks {
		r.tasks[t.ID] = t
	}
	return r
}

func (r *fakeTaskRepo) GetTask(_ context.Context, id string) (*domain.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTaskRepo) ListTasks(_ context.Context, f domain.TaskFilter) ([]domain.Task, error) {
	var out []domain.Task
	for _, t := range r.tasks {
		if f.AssignedTo != "" && !t.AssignedTo.Matches(f.AssignedTo) {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (r *fakeTaskRepo) CreateTask(_ context.Context, t *domain.Task) error {
	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) UpdateTask(_ context.Context, t *domain.Task) error {
	r.updates++
	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) DeleteTask(_ context.Context, id string) error {
	r.deletes++
	delete(r.tasks, id)
	return nil
}

// fakeUserRepo покрывает и UserRepository, и AuthUserRepository
type fakeUserRepo struct {
	users   map[string]*domain.User
	deletes int
	updates int
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetUser(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ListUsers(_ context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) CreateUser(_ context.Context, u *domain.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) UpdateUser(_ context.Context, u *domain.User) error {
	r.updates++
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) UpdateUserPassword(_ context.Context, id, passwordHash string) error {
	r.updates++
	if u, ok := r.users[id]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

func (r *fakeUserRepo) DeleteUser(_ context.Context, id string) error {
	r.deletes++
	delete(r.users, id)
	return nil
}

// fakeMeetingRepo для проверки валидации и правил организатора
type fakeMeetingRepo struct {
	meetings map[string]*domain.Meeting
	creates  int
}

func newFakeMeetingRepo(meetings ...*domain.Meeting) *fakeMeetingRepo {
	r := &fakeMeetingRepo{meetings: make(map[string]*domain.Meeting)}
	for _, m := range meetings {
		r.meetings[m.ID] = m
	}
	return r
}

func (r *fakeMeetingRepo) GetMeeting(_ context.Context, id string) (*domain.Meeting, error) {
	m, ok := r.meetings[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMeetingRepo) ListMeetings(_ context.Context, f domain.MeetingFilter) ([]domain.Meeting, error) {
	var out []domain.Meeting
	for _, m := range r.meetings {
		if f.ParticipantID == "" {
			out = append(out, *m)
			continue
		}
		if m.Organizer.Matches(f.ParticipantID) {
			out = append(out, *m)
			continue
		}
		for _, a := range m.Attendees {
			if a.Matches(f.ParticipantID) {
				out = append(out, *m)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeMeetingRepo) CreateMeeting(_ context.Context, m *domain.Meeting) error {
	r.creates++
	cp := *m
	r.meetings[m.ID] = &cp
	return nil
}

func (r *fakeMeetingRepo) UpdateMeeting(_ context.Context, m *domain.Meeting) error {
	cp := *m
	r.meetings[m.ID] = &cp
	return nil
}

func (r *fakeMeetingRepo) DeleteMeeting(_ context.Context, id string) error {
	delete(r.meetings, id)
	return nil
}
