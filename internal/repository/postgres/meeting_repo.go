package postgres

import (
	"context"
	"encoding/json"

	"github.com/xela07ax/teamcrm/internal/domain"
)

const tableMeetings = "meetings"

func (s *Store) GetMeeting(ctx context.Context, id string) (*domain.Meeting, error) {
	m := &domain.Meeting{}
	found, err := s.getDoc(ctx, tableMeetings, id, m)
	if err != nil || !found {
		return nil, err
	}
	s.populateRef(ctx, &m.Organizer)
	for i := range m.Attendees {
		s.populateRef(ctx, &m.Attendees[i])
	}
	return m, nil
}

// ListMeetings выбирает встречи, где пользователь организатор или
// приглашенный. Оператор `?` проверяет вхождение строки в jsonb-массив.
func (s *Store) ListMeetings(ctx context.Context, f domain.MeetingFilter) ([]domain.Meeting, error) {
	query := `SELECT doc FROM meetings WHERE 1=1`
	var args []any

	if f.ParticipantID != "" {
		args = append(args, f.ParticipantID)
		query += ` AND (doc->>'organizer' = $1 OR doc->'attendees' ? $1)`
	}
	query += ` ORDER BY created_at DESC`

	var results []domain.Meeting
	err := s.listDocs(ctx, query, args, func(doc []byte) error {
		var m domain.Meeting
		if err := json.Unmarshal(doc, &m); err != nil {
			return err
		}
		results = append(results, m)
		return nil
	})
	return results, err
}

func (s *Store) CreateMeeting(ctx context.Context, m *domain.Meeting) error {
	bareMeetingRefs(m)
	return s.insertDoc(ctx, tableMeetings, m.ID, m)
}

func (s *Store) UpdateMeeting(ctx context.Context, m *domain.Meeting) error {
	bareMeetingRefs(m)
	return s.updateDoc(ctx, tableMeetings, m.ID, m)
}

func (s *Store) DeleteMeeting(ctx context.Context, id string) error {
	return s.deleteDoc(ctx, tableMeetings, id)
}

func bareMeetingRefs(m *domain.Meeting) {
	m.Organizer = m.Organizer.Bare()
	for i := range m.Attendees {
		m.Attendees[i] = m.Attendees[i].Bare()
	}
}
