package activity

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xela07ax/teamcrm/internal/domain"
	"go.uber.org/zap"
)

// memSink собирает пачки в память
type memSink struct {
	mu      sync.Mutex
	batches [][]domain.ActivityEntry
	err     error
}

func (s *memSink) WriteBatch(_ context.Context, entries []domain.ActivityEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	cp := make([]domain.ActivityEntry, len(entries))
	copy(cp, entries)
	s.batches = append(s.batches, cp)
	return nil
}

func (s *memSink) entries() []domain.ActivityEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.ActivityEntry
	for _, b := range s.batches {
		out = append(out, b...)
	}
	return out
}

func TestRecorderDeliversAndDrains(t *testing.T) {
	sink := &memSink{}
	rec := NewRecorder(sink, nil, zap.NewNop(), Options{
		BufferSize:    16,
		BatchSize:     100,
		FlushInterval: time.Hour, // флаш только на Stop
	})
	rec.Start()

	for i := 0; i < 5; i++ {
		rec.Record(domain.ActivityEntry{
			Type:       domain.ActivityCreated,
			EntityType: domain.EntityContact,
			EntityID:   "c1",
		})
	}

	// Stop запирает вход и дожидается финального сброса
	rec.Stop()

	got := sink.entries()
	require.Len(t, got, 5)

	// ID и таймстемп проставляются при постановке в очередь
	for _, e := range got {
		assert.NotEmpty(t, e.ID)
		assert.False(t, e.Timestamp.IsZero())
	}
}

func TestRecorderBatchBySize(t *testing.T) {
	sink := &memSink{}
	rec := NewRecorder(sink, nil, zap.NewNop(), Options{
		BufferSize:    64,
		BatchSize:     3,
		FlushInterval: time.Hour,
	})
	rec.Start()

	for i := 0; i < 3; i++ {
		rec.Record(domain.ActivityEntry{EntityType: domain.EntityCompany, EntityID: "co1"})
	}

	// Пачка должна уйти по достижении лимита, без Stop
	assert.Eventually(t, func() bool {
		return len(sink.entries()) == 3
	}, 2*time.Second, 10*time.Millisecond)

	rec.Stop()
}

func TestRecorderDropsAfterStop(t *testing.T) {
	sink := &memSink{}
	rec := NewRecorder(sink, nil, zap.NewNop(), Options{BufferSize: 4})
	rec.Start()
	rec.Stop()

	// Контракт fire-and-forget: после остановки запись молча теряется
	rec.Record(domain.ActivityEntry{EntityType: domain.EntityContact, EntityID: "c1"})
	assert.Empty(t, sink.entries())
}

func TestRecorderLoadShedding(t *testing.T) {
	sink := &memSink{}
	// Воркер не запущен: буфер заполнится и начнет шедить
	rec := NewRecorder(sink, nil, zap.NewNop(), Options{BufferSize: 2})

	for i := 0; i < 10; i++ {
		rec.Record(domain.ActivityEntry{EntityType: domain.EntityContact, EntityID: "c1"})
	}

	// Переполнение не блокирует и не паникует, в очереди ровно емкость буфера
	assert.Equal(t, int64(2), rec.BufferFill())
}
