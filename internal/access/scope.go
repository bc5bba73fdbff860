package access

import "github.com/xela07ax/teamcrm/internal/domain"

// Query Scoper: превращает списочный запрос + пользователя в фильтр,
// ограничивающий видимую область. Менеджерский ранг снимает ограничение,
// явные фильтры вызывающего при этом сохраняются.

// ScopeContacts сужает фильтр контактов.
// Для salesrep видимы только записи, где он исполнитель или создатель.
func ScopeContacts(p *domain.Principal, f domain.ContactFilter) domain.ContactFilter {
	if HasPermission(p, domain.RoleManager) {
		return f
	}
	f.OwnerID = p.ID
	return f
}

// ScopeTasks сужает фильтр задач.
// В списке salesrep видит только назначенное на себя: авторство
// дает доступ к одиночной записи, но не видимость в списке.
func ScopeTasks(p *domain.Principal, f domain.TaskFilter) domain.TaskFilter {
	if HasPermission(p, domain.RoleManager) {
		return f
	}
	f.AssignedTo = p.ID
	return f
}

// ScopeMeetings выбирает, чьи встречи выдавать.
// Явный userId расширяет запрос до чужого набора организатор/участник
// независимо от роли — одиночное чтение все равно пройдет через Decide.
// Без userId — встречи самого пользователя.
func ScopeMeetings(p *domain.Principal, explicitUserID string) domain.MeetingFilter {
	if explicitUserID != "" {
		return domain.MeetingFilter{ParticipantID: explicitUserID}
	}
	return domain.MeetingFilter{ParticipantID: p.ID}
}
