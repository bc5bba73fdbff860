package activity

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/xela07ax/teamcrm/internal/domain"
	"github.com/xela07ax/teamcrm/internal/infra"
	"go.uber.org/zap"
)

// Feed транслирует записи журнала в Redis Pub/Sub — живая лента
// для консоли. Чисто побочный канал: сбои логируются и глотаются.
type Feed struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewFeed(rdb *redis.Client, logger *zap.Logger) *Feed {
	return &Feed{rdb: rdb, logger: logger.Named("activity-feed")}
}

func (f *Feed) Publish(ctx context.Context, e domain.ActivityEntry) {
	payload, err := json.Marshal(e)
	if err != nil {
		f.logger.Warn("feed entry marshal failed", zap.Error(err))
		return
	}
	if err := f.rdb.Publish(ctx, infra.RedisChanActivityFeed, payload).Err(); err != nil {
		f.logger.Warn("feed publish failed", zap.Error(err))
	}
}
