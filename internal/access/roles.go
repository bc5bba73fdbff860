package access

import "github.com/xela07ax/teamcrm/internal/domain"

// rank отображает роль в позицию на линейной шкале.
// Неизвестная роль получает отрицательный ранг и не проходит
// ни одну минимальную планку.
func rank(r domain.Role) int {
	switch r {
	case domain.RoleSalesRep:
		return 0
	case domain.RoleManager:
		return 1
	case domain.RoleAdmin:
		return 2
	}
	return -1
}

// HasPermission отвечает на вопрос «дотягивает ли роль пользователя
// до минимальной». Чистая функция без I/O. Активность учетной записи
// здесь сознательно не проверяется — это зона ответственности
// Principal Provider'а, а не ранжирования ролей.
func HasPermission(p *domain.Principal, min domain.Role) bool {
	if p == nil {
		return false
	}
	return rank(p.Role) >= rank(min)
}
