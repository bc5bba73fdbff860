package access

import "github.com/xela07ax/teamcrm/internal/domain"

// selfEditable — поля, которые не-админ может менять у себя.
var selfEditable = map[string]struct{}{
	"firstName": {},
	"lastName":  {},
}

// RedactUserUpdate фильтрует payload частичного обновления учетной
// записи до полей, которые актор вправе выставить на цели.
// Это не ворота авторизации: отказ для «чужой профиль + не админ»
// уже вынесен таблицей политики до вызова редактора.
//
// Правила:
//  1. Ключ password вырезается всегда — смена пароля идет только через
//     отдельный поток с проверкой текущего пароля.
//  2. Сам себе (не админ): остаются только firstName/lastName —
//     ни роль, ни isActive, ни email через self-service не меняются.
//  3. Админ: payload проходит без изменений (после п.1).
//
// Исходная мапа не мутируется.
func RedactUserUpdate(actor *domain.Principal, targetID string, payload map[string]any) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		if k == "password" {
			continue
		}
		out[k] = v
	}

	if actor != nil && actor.Role == domain.RoleAdmin {
		return out
	}

	if actor != nil && actor.ID == targetID {
		for k := range out {
			if _, ok := selfEditable[k]; !ok {
				delete(out, k)
			}
		}
	}

	return out
}
