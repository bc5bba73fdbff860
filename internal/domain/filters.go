package domain

// Фильтры списочных запросов — словарь, общий для Query Scoper'а и хранилища.
// Scoper сужает фильтр до видимой пользователю области, хранилище
// транслирует его в запрос. Пустые поля означают «без ограничения».

// ContactFilter ограничивает выборку контактов.
type ContactFilter struct {
	AssignedTo string // Явный фильтр вызывающего
	CompanyID  string
	// OwnerID ограничивает выдачу записями, где пользователь
	// assignee ИЛИ создатель. Заполняется только Query Scoper'ом.
	OwnerID string
}

// TaskFilter ограничивает выборку задач.
type TaskFilter struct {
	AssignedTo string
	Status     string
}

// MeetingFilter ограничивает выборку встреч.
type MeetingFilter struct {
	// ParticipantID — пользователь, чьи встречи нужны
	// (организатор или приглашенный).
	ParticipantID string
}

// ActivityFilter ограничивает выборку журнала активности.
type ActivityFilter struct {
	EntityType EntityType
	EntityID   string
	ActorID    string
	Limit      int
}
