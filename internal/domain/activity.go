package domain

import "time"

// ActivityType классифицирует событие журнала.
type ActivityType string

const (
	ActivityCreated  ActivityType = "created"
	ActivityUpdated  ActivityType = "updated"
	ActivityDeleted  ActivityType = "deleted"
	ActivityAssigned ActivityType = "assigned"
)

// ActivityEntry — неизменяемая запись журнала активности.
// Создание — единственное событие её жизненного цикла: записи не
// редактируются и не удаляются.
type ActivityEntry struct {
	ID          string         `json:"id"`
	Type        ActivityType   `json:"type"`
	EntityType  EntityType     `json:"entityType"`
	EntityID    string         `json:"entityId"`
	ActorID     string         `json:"actorId"`
	ActorName   string         `json:"actorName"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
}
