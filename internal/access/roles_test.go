package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xela07ax/teamcrm/internal/domain"
)

func TestHasPermission(t *testing.T) {
	salesrep := &domain.Principal{ID: "u1", Role: domain.RoleSalesRep}
	manager := &domain.Principal{ID: "u2", Role: domain.RoleManager}
	admin := &domain.Principal{ID: "u3", Role: domain.RoleAdmin}

	// Полная решетка роль x планка
	cases := []struct {
		name string
		p    *domain.Principal
		min  domain.Role
		want bool
	}{
		{"salesrep >= salesrep", salesrep, domain.RoleSalesRep, true},
		{"salesrep < manager", salesrep, domain.RoleManager, false},
		{"salesrep < admin", salesrep, domain.RoleAdmin, false},
		{"manager >= salesrep", manager, domain.RoleSalesRep, true},
		{"manager >= manager", manager, domain.RoleManager, true},
		{"manager < admin", manager, domain.RoleAdmin, false},
		{"admin >= salesrep", admin, domain.RoleSalesRep, true},
		{"admin >= manager", admin, domain.RoleManager, true},
		{"admin >= admin", admin, domain.RoleAdmin, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HasPermission(tc.p, tc.min))
		})
	}
}

func TestHasPermissionNilPrincipal(t *testing.T) {
	assert.False(t, HasPermission(nil, domain.RoleSalesRep))
}

func TestHasPermissionUnknownRole(t *testing.T) {
	// Неизвестная роль не дотягивает даже до нижней планки
	p := &domain.Principal{ID: "u1", Role: domain.Role("superuser")}
	assert.False(t, HasPermission(p, domain.RoleSalesRep))
}
