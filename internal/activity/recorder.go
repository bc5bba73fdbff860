package activity

/*
Файл recorder.go реализует журнал активности CRM — append-only
хронику успешных мутаций (Audit Trail).

Ключевые особенности архитектуры:
- Fire-and-forget: запись диспетчеризуется ПОСЛЕ фиксации основной
  мутации и никогда не ждется вызывающим. Сбой журнала не может
  провалить родительскую операцию — клиент может получить успешный
  ответ, чья запись в журнал так и не приземлилась.
- Non-blocking Logging: неблокирующий канал между Hot Path хендлеров
  и воркером, чтобы задержки БД не влияли на Response Time.
- Batching: накопление записей в памяти и пакетная вставка в PostgreSQL
  по таймеру или при достижении лимита пачки.
- Drain Pattern & Graceful Shutdown: при остановке вход «запирается»,
  воркер вычитывает остатки канала и делает финальный flush.
*/

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/xela07ax/teamcrm/internal/domain"
	"go.uber.org/zap"
)

// Sink определяет, куда физически сохраняются записи журнала
type Sink interface {
	// WriteBatch сохраняет пачку записей за один раз
	WriteBatch(ctx context.Context, entries []domain.ActivityEntry) error
}

// Publisher — побочный канал наблюдаемости (живая лента в Redis).
// Его сбои тоже не распространяются.
type Publisher interface {
	Publish(ctx context.Context, e domain.ActivityEntry)
}

// Recorder принимает записи журнала и асинхронно доставляет их в Sink.
type Recorder struct {
	ch     chan domain.ActivityEntry
	sink   Sink
	feed   Publisher // может быть nil
	logger *zap.Logger
	wg     sync.WaitGroup

	batchSize     int
	flushInterval time.Duration

	// Заполненность буфера для метрик (backpressure)
	fill atomic.Int64

	// Атомарный флаг (0 - открыт, 1 - закрыт): защита от Log после Stop
	isClosed int32
}

// Options настраивают буферизацию воркера.
type Options struct {
	BufferSize    int
	BatchSize     int
	FlushInterval time.Duration
}

func NewRecorder(sink Sink, feed Publisher, logger *zap.Logger, opts Options) *Recorder {
	if opts.BufferSize <= 0 {
		opts.BufferSize = 10000
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = 500 * time.Millisecond
	}
	return &Recorder{
		ch:            make(chan domain.ActivityEntry, opts.BufferSize),
		sink:          sink,
		feed:          feed,
		logger:        logger.With(zap.String("mod", "activity")),
		batchSize:     opts.BatchSize,
		flushInterval: opts.FlushInterval,
	}
}

func (rec *Recorder) Start() {
	rec.wg.Add(1)
	go rec.worker()
}

// Stop «запирает» вход в канал и ждет, пока воркер всё допишет.
func (rec *Recorder) Stop() {
	// 1. Сначала ставим флаг
	atomic.StoreInt32(&rec.isClosed, 1)

	// 2. Даем крошечную паузу, чтобы текущие Record успели проскочить
	time.Sleep(10 * time.Millisecond)

	// 3. Drain Pattern: завершение воркера — только через закрытие канала.
	rec.logger.Info("stopping activity recorder: closing channel and flushing buffer...")
	close(rec.ch)
	rec.wg.Wait()
	rec.logger.Info("activity recorder stopped gracefully")
}

// Record ставит запись в очередь на доставку. Не блокируется и не
// возвращает ошибку: контракт журнала — гарантированная попытка,
// а не гарантированный успех.
func (rec *Recorder) Record(e domain.ActivityEntry) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	// Убеждаемся, что таймстемп всегда проставлен
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	// Атомарно проверяем, не закрыт ли вход
	if atomic.LoadInt32(&rec.isClosed) == 1 {
		rec.logger.Warn("activity entry dropped: recorder is stopping", zap.String("id", e.ID))
		return
	}

	// Load Shedding: при переполнении буфера запись теряется,
	// но факт фиксируется в обычном логе
	select {
	case rec.ch <- e:
		rec.fill.Add(1)
	default:
		rec.logger.Error("activity_buffer_overflow",
			zap.String("entity_type", string(e.EntityType)),
			zap.String("actor_id", e.ActorID),
		)
	}
}

// BufferFill возвращает текущее число записей в очереди (для метрик).
func (rec *Recorder) BufferFill() int64 {
	return rec.fill.Load()
}

func (rec *Recorder) worker() {
	defer rec.wg.Done()

	batch := make([]domain.ActivityEntry, 0, rec.batchSize)
	ticker := time.NewTicker(rec.flushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		// Background: основной контекст к этому моменту может быть закрыт
		if err := rec.sink.WriteBatch(context.Background(), batch); err != nil {
			rec.logger.Error("activity flush failed", zap.Error(err),
				zap.Int("dropped", len(batch)))
		} else if rec.feed != nil {
			for _, e := range batch {
				rec.feed.Publish(context.Background(), e)
			}
		}
		batch = batch[:0]
	}

	for {
		select {
		case e, ok := <-rec.ch:
			if !ok {
				// Канал закрыт в Stop(): воркер сначала вычитал остатки
				// очереди, теперь финальный сброс и выход.
				flush()
				rec.logger.Info("activity worker finished")
				return
			}
			rec.fill.Add(-1)
			batch = append(batch, e)
			if len(batch) >= rec.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}
