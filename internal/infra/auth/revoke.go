package auth

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/xela07ax/teamcrm/internal/infra"
	"go.uber.org/zap"
)

// RevokeList — потокобезопасный кэш деактивированных учеток.
// Hot Path (проверка каждого запроса) работает только с RAM;
// Redis используется для прогрева при старте и для приема сигналов
// от других инстансов.
type RevokeList struct {
	mu          sync.RWMutex
	deactivated map[string]struct{}

	rdb    *redis.Client
	logger *zap.Logger
}

func NewRevokeList(rdb *redis.Client, logger *zap.Logger) *RevokeList {
	return &RevokeList{
		deactivated: make(map[string]struct{}),
		rdb:         rdb,
		logger:      logger.Named("revoke-list"),
	}
}

// Init загружает текущее множество деактивированных учеток при старте
func (m *RevokeList) Init(ctx context.Context) error {
	ids, err := m.rdb.SMembers(ctx, infra.RedisKeyDeactivatedUsers).Result()
	if err != nil {
		return err
	}

	m.mu.Lock()
	for _, id := range ids {
		m.deactivated[id] = struct{}{}
	}
	m.mu.Unlock()
	return nil
}

// Warmup прогревает L1 (RAM) и L2 (Redis) списком из БД.
// Распределенная блокировка (SetNX) гарантирует, что Redis заливает
// только один инстанс.
func (m *RevokeList) Warmup(ctx context.Context, ids []string) error {
	// 1. Локальный кэш
	m.mu.Lock()
	m.deactivated = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		m.deactivated[id] = struct{}{}
	}
	m.mu.Unlock()

	// 2. Лок на обновление Redis
	ok, err := m.rdb.SetNX(ctx, infra.RedisKeyLockWarmDeactivated, "processing", 30*time.Second).Result()
	if err != nil || !ok {
		return nil // Либо ошибка сети, либо другой инстанс уже греет кэш
	}

	// 3. Если Redis пуст, а данные в БД есть — заливаем
	count, err := m.rdb.SCard(ctx, infra.RedisKeyDeactivatedUsers).Result()
	if err != nil {
		count = 0
		m.logger.Warn("could not check Redis set size, proceeding with warm-up", zap.Error(err))
	}

	if count == 0 && len(ids) > 0 {
		m.logger.Info("Redis cache is empty, performing warm-up from DB",
			zap.Int("count", len(ids)))

		pipe := m.rdb.Pipeline()
		for _, id := range ids {
			pipe.SAdd(ctx, infra.RedisKeyDeactivatedUsers, id)
		}
		_, err = pipe.Exec(ctx)
		return err
	}

	return nil
}

// StartListener подписывается на сигналы смены isActive и обновляет кэш.
// Payload канала: "userID:off" (деактивация) либо "userID:on".
func (m *RevokeList) StartListener(ctx context.Context) {
	pubsub := m.rdb.Subscribe(ctx, infra.RedisChanUserStatus)
	defer pubsub.Close()

	ch := pubsub.Channel()
	m.logger.Info("user status listener started")

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				m.logger.Info("user status channel closed")
				return
			}
			userID, off := parseStatusSignal(msg.Payload)
			if userID == "" {
				continue
			}
			if off {
				m.Mark(userID)
			} else {
				m.Unmark(userID)
			}
			m.logger.Info("user status signal applied",
				zap.String("user_id", userID), zap.Bool("deactivated", off))

		case <-ctx.Done():
			m.logger.Info("user status listener stopping by context")
			return
		}
	}
}

// Mark — внутренний метод для обновления мапы
func (m *RevokeList) Mark(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deactivated[userID] = struct{}{}
}

func (m *RevokeList) Unmark(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.deactivated, userID)
}

func (m *RevokeList) IsDeactivated(userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, found := m.deactivated[userID]
	return found
}

func parseStatusSignal(payload string) (userID string, off bool) {
	for i := len(payload) - 1; i >= 0; i-- {
		if payload[i] == ':' {
			return payload[:i], payload[i+1:] == "off"
		}
	}
	return "", false
}
