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

// MeetingRepository описывает требования сервиса к хранилищу встреч
type MeetingRepository interface {
	GetMeeting(ctx context.Context, id string) (*domain.Meeting, error)
	ListMeetings(ctx context.Context, f domain.MeetingFilter) ([]domain.Meeting, error)
	CreateMeeting(ctx context.Context, m *domain.Meeting) error
	UpdateMeeting(ctx context.Context, m *domain.Meeting) error
	DeleteMeeting(ctx context.Context, id string) error
}

type MeetingService struct {
	repo     MeetingRepository
	recorder ActivityRecorder
	logger   *zap.Logger
}

func NewMeetingService(repo MeetingRepository, recorder ActivityRecorder, logger *zap.Logger) *MeetingService {
	return &MeetingService{
		repo:     repo,
		recorder: recorder,
		logger:   logger.Named("meeting-service"),
	}
}

func (s *MeetingService) Get(ctx context.Context, p *domain.Principal, id string) (*domain.Meeting, error) {
	m, err := s.repo.GetMeeting(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperr.NotFound("Meeting")
	}
	if d := access.Decide(p, access.OpRead, m); !d.Allow {
		return nil, apperr.FromDecision(d)
	}
	return m, nil
}

// List отдает встречи пользователя; явный userId переключает выборку
// на чужой набор организатор/участник (одиночное чтение всё равно
// пройдет через политику).
func (s *MeetingService) List(ctx context.Context, p *domain.Principal, explicitUserID string) ([]domain.Meeting, error) {
	if d := access.DecideType(p, access.OpList, domain.EntityMeeting); !d.Allow {
		return nil, apperr.FromDecision(d)
	}

	meetings, err := s.repo.ListMeetings(ctx, access.ScopeMeetings(p, explicitUserID))
	if err != nil {
		return nil, fmt.Errorf("meeting_service: list failed: %w", err)
	}
	if meetings == nil {
		meetings = []domain.Meeting{}
	}
	return meetings, nil
}

func (s *MeetingService) Create(ctx context.Context, p *domain.Principal, m *domain.Meeting) (*domain.Meeting, error) {
	if d := access.DecideType(p, access.OpCreate, domain.EntityMeeting); !d.Allow {
		return nil, apperr.FromDecision(d)
	}
	if err := validateMeeting(m); err != nil {
		return nil, err
	}

	m.ID = uuid.New().String()
	m.Organizer = domain.NewRef(p.ID)
	now := time.Now()
	m.CreatedAt, m.UpdatedAt = now, now

	if err := s.repo.CreateMeeting(ctx, m); err != nil {
		return nil, err
	}

	s.recorder.Record(activity.EntryForCreate(p, m))
	return m, nil
}

// Update доступен организатору (или менеджеру); участия недостаточно.
func (s *MeetingService) Update(ctx context.Context, p *domain.Principal, id string, upd *domain.Meeting) (*domain.Meeting, error) {
	before, err := s.repo.GetMeeting(ctx, id)
	if err != nil {
		return nil, err
	}
	if before == nil {
		return nil, apperr.NotFound("Meeting")
	}
	if d := access.Decide(p, access.OpUpdate, before); !d.Allow {
		return nil, apperr.FromDecision(d)
	}

	after := mergeMeeting(*before, upd)
	if err := validateMeeting(&after); err != nil {
		return nil, err
	}
	after.UpdatedAt = time.Now()

	if err := s.repo.UpdateMeeting(ctx, &after); err != nil {
		return nil, err
	}

	s.recorder.Record(activity.EntryForUpdate(p, before, &after))
	return &after, nil
}

func (s *MeetingService) Delete(ctx context.Context, p *domain.Principal, id string) error {
	m, err := s.repo.GetMeeting(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return apperr.NotFound("Meeting")
	}
	if d := access.Decide(p, access.OpDelete, m); !d.Allow {
		return apperr.FromDecision(d)
	}

	if err := s.repo.DeleteMeeting(ctx, id); err != nil {
		return err
	}

	s.recorder.Record(activity.EntryForDelete(p, m))
	return nil
}

func validateMeeting(m *domain.Meeting) error {
	if m.Title == "" {
		return apperr.Validation("Meeting title is required")
	}
	if m.StartTime.IsZero() || m.EndTime.IsZero() {
		return apperr.Validation("Meeting start and end times are required")
	}
	if !m.EndTime.After(m.StartTime) {
		return apperr.Validation("Meeting end time must be after start time")
	}
	return nil
}

func mergeMeeting(base domain.Meeting, upd *domain.Meeting) domain.Meeting {
	if upd.Title != "" {
		base.Title = upd.Title
	}
	if upd.Location != "" {
		base.Location = upd.Location
	}
	if upd.Notes != "" {
		base.Notes = upd.Notes
	}
	if !upd.StartTime.IsZero() {
		base.StartTime = upd.StartTime
	}
	if !upd.EndTime.IsZero() {
		base.EndTime = upd.EndTime
	}
	if upd.Attendees != nil {
		base.Attendees = make([]domain.Ref, len(upd.Attendees))
		for i, a := range upd.Attendees {
			base.Attendees[i] = a.Bare()
		}
	}
	return base
}
