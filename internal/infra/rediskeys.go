package infra

import "fmt"

const (
	// RedisNamespace Базовый префикс для изоляции данных проекта в Redis
	RedisNamespace = "teamcrm"
)

// Ключи для Sets (состояние)
const (
	// RedisKeyDeactivatedUsers — множество id деактивированных учеток.
	// Из него прогревается локальный кэш Principal Provider'а при старте.
	RedisKeyDeactivatedUsers    = RedisNamespace + ":users:deactivated_set"
	RedisKeyLockWarmDeactivated = RedisNamespace + ":lock:warmup:deactivated"
)

// Каналы Pub/Sub (события)
const (
	// RedisChanUserStatus — трансляция смены isActive ("id:off" / "id:on").
	RedisChanUserStatus = RedisNamespace + ":users:status-signal"
	// RedisChanActivityFeed — живая лента журнала активности для консоли.
	RedisChanActivityFeed = RedisNamespace + ":activity:feed"
)

// GetWarmupLockKey Генератор ключей для блокировок (если нужны динамические)
func GetWarmupLockKey(resource string) string {
	return fmt.Sprintf("%s:lock:warmup:%s", RedisNamespace, resource)
}
