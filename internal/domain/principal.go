package domain

// Role — позиция пользователя в иерархии доступа CRM.
// Иерархия линейная: salesrep < manager < admin.
type Role string

const (
	RoleSalesRep Role = "salesrep"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

// Valid сообщает, известна ли роль системе.
func (r Role) Valid() bool {
	switch r {
	case RoleSalesRep, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// Principal — аутентифицированный инициатор запроса.
// Формируется Principal Provider'ом (auth middleware) из токена.
// nil-Principal означает «нет сессии» — часть read-путей обязана
// работать и в этом режиме (см. политику Contact.read).
type Principal struct {
	ID       string `json:"id"`
	Name     string `json:"name"` // Отображаемое имя для журнала активности
	Role     Role   `json:"role"`
	IsActive bool   `json:"is_active"`
}
