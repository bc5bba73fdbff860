package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xela07ax/teamcrm/internal/domain"
)

var (
	salesrep = &domain.Principal{ID: "rep", Name: "Rep", Role: domain.RoleSalesRep}
	manager  = &domain.Principal{ID: "mgr", Name: "Mgr", Role: domain.RoleManager}
	admin    = &domain.Principal{ID: "adm", Name: "Adm", Role: domain.RoleAdmin}
)

func TestDecideContact(t *testing.T) {
	// Контакт создан одним, назначен другому
	c := &domain.Contact{
		ID:         "c1",
		AssignedTo: domain.NewRef("rep"),
		CreatedBy:  domain.NewRef("creator"),
	}
	foreign := &domain.Contact{
		ID:         "c2",
		AssignedTo: domain.NewRef("other"),
		CreatedBy:  domain.NewRef("other"),
	}

	// Чтение без сессии пропускается (унаследованное публичное чтение),
	// но аутентифицированный не-владелец чужой контакт не видит
	assert.True(t, Decide(nil, OpRead, c).Allow)
	assert.True(t, Decide(nil, OpRead, foreign).Allow)
	dRead := Decide(salesrep, OpRead, foreign)
	assert.False(t, dRead.Allow)
	assert.Equal(t, ReasonInsufficient, dRead.Reason)

	// Исполнитель правит и удаляет свое
	assert.True(t, Decide(salesrep, OpUpdate, c).Allow)
	assert.True(t, Decide(salesrep, OpDelete, c).Allow)

	// Чужое — нет
	dUpd := Decide(salesrep, OpUpdate, foreign)
	assert.False(t, dUpd.Allow)
	assert.Equal(t, ReasonInsufficient, dUpd.Reason)

	dDel := Decide(salesrep, OpDelete, foreign)
	assert.False(t, dDel.Allow)
	assert.Equal(t, ReasonInsufficient, dDel.Reason)

	// Менеджер — все
	assert.True(t, Decide(manager, OpDelete, foreign).Allow)

	// Мутации без сессии — 401-отказ
	dAnon := Decide(nil, OpUpdate, c)
	assert.False(t, dAnon.Allow)
	assert.Equal(t, ReasonNotAuthenticated, dAnon.Reason)
}

func TestDecideCompanyAndCase(t *testing.T) {
	co := &domain.Company{ID: "co1", Name: "Acme"}
	cs := &domain.Case{ID: "cs1", Title: "Broken invoice", CreatedBy: domain.NewRef("other")}

	// Достаточно любой сессии
	for _, op := range []Operation{OpRead, OpUpdate, OpDelete} {
		assert.True(t, Decide(salesrep, op, co).Allow, "company %s", op)
		assert.True(t, Decide(salesrep, op, cs).Allow, "case %s", op)
		assert.False(t, Decide(nil, op, co).Allow, "anon company %s", op)
	}
}

func TestDecideTask(t *testing.T) {
	// Создатель и исполнитель — разные люди
	task := &domain.Task{
		ID:         "t1",
		Title:      "Call client",
		AssignedTo: domain.NewRef("rep"),
		CreatedBy:  domain.NewRef("author"),
	}
	author := &domain.Principal{ID: "author", Role: domain.RoleSalesRep}

	// Читает исполнитель, но не автор
	assert.True(t, Decide(salesrep, OpRead, task).Allow)
	assert.False(t, Decide(author, OpRead, task).Allow)

	// Правят оба
	assert.True(t, Decide(salesrep, OpUpdate, task).Allow)
	assert.True(t, Decide(author, OpUpdate, task).Allow)

	// Удаляет только автор
	assert.False(t, Decide(salesrep, OpDelete, task).Allow)
	assert.True(t, Decide(author, OpDelete, task).Allow)

	// Менеджеру можно все
	assert.True(t, Decide(manager, OpRead, task).Allow)
	assert.True(t, Decide(manager, OpDelete, task).Allow)
}

func TestDecideMeeting(t *testing.T) {
	m := &domain.Meeting{
		ID:        "m1",
		Title:     "Quarterly review",
		Organizer: domain.NewRef("org"),
		Attendees: []domain.Ref{domain.NewRef("att")},
	}
	organizer := &domain.Principal{ID: "org", Role: domain.RoleSalesRep}
	attendee := &domain.Principal{ID: "att", Role: domain.RoleSalesRep}

	// Участие дает только чтение
	assert.True(t, Decide(attendee, OpRead, m).Allow)
	assert.False(t, Decide(attendee, OpUpdate, m).Allow)
	assert.False(t, Decide(attendee, OpDelete, m).Allow)

	// Распоряжается организатор
	assert.True(t, Decide(organizer, OpUpdate, m).Allow)
	assert.True(t, Decide(organizer, OpDelete, m).Allow)

	// Посторонний не видит
	assert.False(t, Decide(salesrep, OpRead, m).Allow)
}

func TestDecideDocument(t *testing.T) {
	d := &domain.Document{ID: "d1", Name: "contract.pdf", UploadedBy: domain.NewRef("owner")}
	owner := &domain.Principal{ID: "owner", Role: domain.RoleSalesRep}

	// Читают все аутентифицированные
	assert.True(t, Decide(salesrep, OpRead, d).Allow)
	assert.False(t, Decide(nil, OpRead, d).Allow)

	// Правит/удаляет загрузивший или менеджер
	assert.True(t, Decide(owner, OpDelete, d).Allow)
	assert.True(t, Decide(manager, OpDelete, d).Allow)
	assert.False(t, Decide(salesrep, OpDelete, d).Allow)
}

func TestDecideUser(t *testing.T) {
	self := &domain.User{ID: "rep", FirstName: "Rep"}
	other := &domain.User{ID: "someone", FirstName: "Someone"}

	// Себя видит каждый, чужой профиль — менеджер+
	assert.True(t, Decide(salesrep, OpRead, self).Allow)
	assert.False(t, Decide(salesrep, OpRead, other).Allow)
	assert.True(t, Decide(manager, OpRead, other).Allow)

	// Правка: себя — можно, чужого не-админу — нельзя
	assert.True(t, Decide(salesrep, OpUpdate, self).Allow)
	assert.False(t, Decide(salesrep, OpUpdate, other).Allow)
	assert.False(t, Decide(manager, OpUpdate, other).Allow)
	assert.True(t, Decide(admin, OpUpdate, other).Allow)
}

func TestDecideUserDelete(t *testing.T) {
	target := &domain.User{ID: "victim"}

	// Только админ
	d := Decide(manager, OpDelete, target)
	assert.False(t, d.Allow)
	assert.Equal(t, ReasonAdminDeleteOnly, d.Reason)

	assert.True(t, Decide(admin, OpDelete, target).Allow)

	// Самоудаление запрещено даже админу
	selfDel := Decide(admin, OpDelete, &domain.User{ID: "adm"})
	assert.False(t, selfDel.Allow)
	assert.Equal(t, ReasonSelfDelete, selfDel.Reason)
}

func TestDecideType(t *testing.T) {
	// Списки и создание — любой аутентифицированный
	assert.True(t, DecideType(salesrep, OpList, domain.EntityContact).Allow)
	assert.True(t, DecideType(salesrep, OpCreate, domain.EntityTask).Allow)

	dAnon := DecideType(nil, OpList, domain.EntityContact)
	assert.False(t, dAnon.Allow)
	assert.Equal(t, ReasonNotAuthenticated, dAnon.Reason)

	// Список учеток — менеджер+, создание — только админ
	assert.False(t, DecideType(salesrep, OpList, domain.EntityUser).Allow)
	assert.True(t, DecideType(manager, OpList, domain.EntityUser).Allow)
	assert.False(t, DecideType(manager, OpCreate, domain.EntityUser).Allow)
	assert.True(t, DecideType(admin, OpCreate, domain.EntityUser).Allow)
}

// Неизвестная комбинация — отказ по умолчанию
func TestDecideDefaultDeny(t *testing.T) {
	assert.False(t, Decide(admin, Operation("export"), &domain.Contact{ID: "c1"}).Allow)
	assert.False(t, Decide(admin, OpRead, nil).Allow)
	assert.False(t, DecideType(admin, OpList, domain.EntityType("report")).Allow)
}
