package access

import "github.com/xela07ax/teamcrm/internal/domain"

// Operation — действие над ресурсом, для которого выносится вердикт.
type Operation string

const (
	OpList   Operation = "list"
	OpRead   Operation = "read"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Decision — вердикт allow/deny с причиной.
// Причина отказа — фиксированная фраза из набора ниже; вызывающий
// отдает её наружу дословно, это наблюдаемый контракт API.
type Decision struct {
	Allow  bool
	Reason string
}

const (
	ReasonNotAuthenticated = "Not authenticated"
	ReasonInsufficient     = "Insufficient permissions"
	ReasonAdminDeleteOnly  = "Only admins can delete users"
	ReasonSelfDelete       = "Cannot delete your own account"
)

func allow() Decision            { return Decision{Allow: true} }
func deny(reason string) Decision { return Decision{Reason: reason} }

type policyKey struct {
	Entity domain.EntityType
	Op     Operation
}

type ruleFunc func(p *domain.Principal, res domain.Resource) Decision

// policy — декларативная таблица (вариант, операция) -> правило.
// Единственный источник истины для авторизации одиночных операций;
// хендлеры и сервисы собственных проверок не держат.
var policy = map[policyKey]ruleFunc{
	// Contact: менеджер либо исполнитель/создатель записи.
	// Чтение без сессии пропускается — унаследованное поведение
	// публичного чтения, сохранено сознательно.
	{domain.EntityContact, OpRead}: func(p *domain.Principal, res domain.Resource) Decision {
		if p == nil {
			return allow()
		}
		return managerOr(p, isAssigneeOrCreator(p, res))
	},
	{domain.EntityContact, OpUpdate}: authThen(func(p *domain.Principal, res domain.Resource) Decision {
		return managerOr(p, isAssigneeOrCreator(p, res))
	}),
	{domain.EntityContact, OpDelete}: authThen(func(p *domain.Principal, res domain.Resource) Decision {
		return managerOr(p, isAssigneeOrCreator(p, res))
	}),

	// Company и Case полей владения не используют: достаточно сессии.
	{domain.EntityCompany, OpRead}:   authOnly,
	{domain.EntityCompany, OpUpdate}: authOnly,
	{domain.EntityCompany, OpDelete}: authOnly,
	{domain.EntityCase, OpRead}:      authOnly,
	{domain.EntityCase, OpUpdate}:    authOnly,
	{domain.EntityCase, OpDelete}:    authOnly,

	// Task: читать может исполнитель, править — исполнитель или
	// создатель, удалять — только создатель (ну или менеджер).
	{domain.EntityTask, OpRead}: authThen(func(p *domain.Principal, res domain.Resource) Decision {
		return managerOr(p, IsOwner(p, res, OwnerAssignee))
	}),
	{domain.EntityTask, OpUpdate}: authThen(func(p *domain.Principal, res domain.Resource) Decision {
		return managerOr(p, isAssigneeOrCreator(p, res))
	}),
	{domain.EntityTask, OpDelete}: authThen(func(p *domain.Principal, res domain.Resource) Decision {
		return managerOr(p, IsOwner(p, res, OwnerCreator))
	}),

	// Meeting: участие дает только чтение, распоряжается организатор.
	{domain.EntityMeeting, OpRead}: authThen(func(p *domain.Principal, res domain.Resource) Decision {
		return managerOr(p, IsOwner(p, res, OwnerOrganizer) || IsOwner(p, res, OwnerAttendee))
	}),
	{domain.EntityMeeting, OpUpdate}: authThen(func(p *domain.Principal, res domain.Resource) Decision {
		return managerOr(p, IsOwner(p, res, OwnerOrganizer))
	}),
	{domain.EntityMeeting, OpDelete}: authThen(func(p *domain.Principal, res domain.Resource) Decision {
		return managerOr(p, IsOwner(p, res, OwnerOrganizer))
	}),

	// Document: читают все аутентифицированные, удаляет загрузивший.
	{domain.EntityDocument, OpRead}: authOnly,
	{domain.EntityDocument, OpUpdate}: authThen(func(p *domain.Principal, res domain.Resource) Decision {
		return managerOr(p, IsOwner(p, res, OwnerUploader))
	}),
	{domain.EntityDocument, OpDelete}: authThen(func(p *domain.Principal, res domain.Resource) Decision {
		return managerOr(p, IsOwner(p, res, OwnerUploader))
	}),

	// UserRecord: себя видит каждый, чужие профили — менеджер+.
	{domain.EntityUser, OpRead}: authThen(func(p *domain.Principal, res domain.Resource) Decision {
		return managerOr(p, IsOwner(p, res, OwnerSelf)) // у менеджера ранг достаточен
	}),
	// Правка себя идет через редактор полей (урезанный набор),
	// админ правит кого угодно без ограничений.
	{domain.EntityUser, OpUpdate}: authThen(func(p *domain.Principal, res domain.Resource) Decision {
		if p.Role == domain.RoleAdmin || IsOwner(p, res, OwnerSelf) {
			return allow()
		}
		return deny(ReasonInsufficient)
	}),
	// Удаление — только админ и только не себя.
	// Самоудаление запрещено всем, включая админа.
	{domain.EntityUser, OpDelete}: authThen(func(p *domain.Principal, res domain.Resource) Decision {
		if p.Role != domain.RoleAdmin {
			return deny(ReasonAdminDeleteOnly)
		}
		if IsOwner(p, res, OwnerSelf) {
			return deny(ReasonSelfDelete)
		}
		return allow()
	}),
}

// typePolicy — правила для операций без конкретной цели (list, create).
// Списки дополнительно сужает Query Scoper, здесь только порог входа.
var typePolicy = map[policyKey]func(p *domain.Principal) Decision{
	{domain.EntityContact, OpList}:    requireAuth,
	{domain.EntityContact, OpCreate}:  requireAuth,
	{domain.EntityCompany, OpList}:    requireAuth,
	{domain.EntityCompany, OpCreate}:  requireAuth,
	{domain.EntityCase, OpList}:       requireAuth,
	{domain.EntityCase, OpCreate}:     requireAuth,
	{domain.EntityTask, OpList}:       requireAuth,
	{domain.EntityTask, OpCreate}:     requireAuth,
	{domain.EntityMeeting, OpList}:    requireAuth,
	{domain.EntityMeeting, OpCreate}:  requireAuth,
	{domain.EntityDocument, OpList}:   requireAuth,
	{domain.EntityDocument, OpCreate}: requireAuth,
	{domain.EntityUser, OpList}:       requireMinRole(domain.RoleManager),
	{domain.EntityUser, OpCreate}:     requireMinRole(domain.RoleAdmin),
}

// Decide выносит вердикт для операции над уже загруженным ресурсом.
// Неизвестная комбинация (вариант, операция) — отказ по умолчанию.
func Decide(p *domain.Principal, op Operation, res domain.Resource) Decision {
	if res == nil {
		return deny(ReasonInsufficient)
	}
	rule, ok := policy[policyKey{res.EntityType(), op}]
	if !ok {
		return deny(ReasonInsufficient)
	}
	return rule(p, res)
}

// DecideType выносит вердикт для list/create, где цели еще нет.
func DecideType(p *domain.Principal, op Operation, et domain.EntityType) Decision {
	rule, ok := typePolicy[policyKey{et, op}]
	if !ok {
		return deny(ReasonInsufficient)
	}
	return rule(p)
}

// --- примитивы правил ---

func requireAuth(p *domain.Principal) Decision {
	if p == nil {
		return deny(ReasonNotAuthenticated)
	}
	return allow()
}

func requireMinRole(min domain.Role) func(p *domain.Principal) Decision {
	return func(p *domain.Principal) Decision {
		if p == nil {
			return deny(ReasonNotAuthenticated)
		}
		if !HasPermission(p, min) {
			return deny(ReasonInsufficient)
		}
		return allow()
	}
}

// authThen оборачивает правило обязательной проверкой сессии.
func authThen(rule ruleFunc) ruleFunc {
	return func(p *domain.Principal, res domain.Resource) Decision {
		if p == nil {
			return deny(ReasonNotAuthenticated)
		}
		return rule(p, res)
	}
}

func authOnly(p *domain.Principal, _ domain.Resource) Decision {
	if p == nil {
		return deny(ReasonNotAuthenticated)
	}
	return allow()
}

// managerOr — базовая формула таблицы: менеджерский ранг
// ИЛИ подтвержденное владение.
func managerOr(p *domain.Principal, owned bool) Decision {
	if HasPermission(p, domain.RoleManager) || owned {
		return allow()
	}
	return deny(ReasonInsufficient)
}
