package activity

import (
	"context"
	"time"

	"github.com/avast/retry-go/v5"
	"github.com/sony/gobreaker"
	"github.com/xela07ax/teamcrm/internal/domain"
)

// GuardedSink оборачивает физический Sink предохранителем.
// Журнал — best-effort: при лежащей базе нет смысла молотить её
// каждым flush'ем, Circuit Breaker размыкается и пачки дропаются
// быстро (воркер залогирует потерю). Короткий retry сглаживает
// транзиентные сбои, исчерпанные попытки тоже дропаются.
type GuardedSink struct {
	next Sink
	cb   *gobreaker.CircuitBreaker
}

func NewGuardedSink(next Sink) *GuardedSink {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "activity-sink",
		MaxRequests: 3,
		Interval:    5 * time.Second,
		Timeout:     30 * time.Second, // Время, через которое CB попробует "закрыться"
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})

	return &GuardedSink{next: next, cb: cb}
}

func (g *GuardedSink) WriteBatch(ctx context.Context, entries []domain.ActivityEntry) error {
	_, err := g.cb.Execute(func() (interface{}, error) {
		r := retry.New(
			retry.Context(ctx),
			retry.Attempts(3),
		)

		retryErr := r.Do(func() error {
			tCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return g.next.WriteBatch(tCtx, entries)
		})

		return nil, retryErr
	})
	return err
}
