package activity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xela07ax/teamcrm/internal/domain"
)

var actor = &domain.Principal{ID: "rep", Name: "Rep Repov", Role: domain.RoleSalesRep}

func TestEntryForCreate(t *testing.T) {
	c := &domain.Contact{ID: "c1", FirstName: "Ann", LastName: "Lee"}

	e := EntryForCreate(actor, c)

	assert.Equal(t, domain.ActivityCreated, e.Type)
	assert.Equal(t, domain.EntityContact, e.EntityType)
	assert.Equal(t, "c1", e.EntityID)
	assert.Equal(t, "rep", e.ActorID)
	assert.Equal(t, "Rep Repov", e.ActorName)
	assert.Equal(t, "Created contact: Ann Lee", e.Description)
}

func TestEntryForDelete(t *testing.T) {
	co := &domain.Company{ID: "co1", Name: "Acme"}

	e := EntryForDelete(actor, co)

	assert.Equal(t, domain.ActivityDeleted, e.Type)
	assert.Equal(t, "Deleted company: Acme", e.Description)
}

func TestEntryForUpdatePlain(t *testing.T) {
	before := &domain.Case{ID: "cs1", Title: "Broken invoice", AssignedTo: domain.NewRef("rep")}
	after := &domain.Case{ID: "cs1", Title: "Broken invoice", AssignedTo: domain.NewRef("rep"), Status: "closed"}

	e := EntryForUpdate(actor, before, after)

	assert.Equal(t, domain.ActivityUpdated, e.Type)
	assert.Equal(t, "Updated case: Broken invoice", e.Description)
	assert.Nil(t, e.Metadata)
}

// Перенос assignedTo дает тип "assigned" с новым исполнителем в метаданных
func TestEntryForUpdateAssigned(t *testing.T) {
	before := &domain.Task{ID: "t1", Title: "Call client", AssignedTo: domain.NewRef("rep")}
	after := &domain.Task{ID: "t1", Title: "Call client", AssignedTo: domain.NewRef("colleague")}

	e := EntryForUpdate(actor, before, after)

	assert.Equal(t, domain.ActivityAssigned, e.Type)
	assert.Equal(t, "Assigned task: Call client", e.Description)
	assert.Equal(t, map[string]any{"assignedTo": "colleague"}, e.Metadata)
}

// Переход задачи в completed остается "updated" с особой формулировкой
func TestEntryForUpdateTaskCompleted(t *testing.T) {
	before := &domain.Task{ID: "t1", Title: "Call client", Status: domain.TaskStatusOpen, AssignedTo: domain.NewRef("rep")}
	after := &domain.Task{ID: "t1", Title: "Call client", Status: domain.TaskStatusCompleted, AssignedTo: domain.NewRef("rep")}

	e := EntryForUpdate(actor, before, after)

	assert.Equal(t, domain.ActivityUpdated, e.Type)
	assert.Equal(t, "Completed task: Call client", e.Description)
}

// Задачи журналируются под entityType "user" с id исполнителя
func TestEntryKeyTask(t *testing.T) {
	task := &domain.Task{ID: "t1", Title: "Call client", AssignedTo: domain.NewRef("colleague")}

	e := EntryForCreate(actor, task)

	assert.Equal(t, domain.EntityUser, e.EntityType)
	assert.Equal(t, "colleague", e.EntityID)

	// Без исполнителя — id самой задачи, но тип остается "user"
	orphan := &domain.Task{ID: "t2", Title: "Untitled"}
	e = EntryForCreate(actor, orphan)
	assert.Equal(t, domain.EntityUser, e.EntityType)
	assert.Equal(t, "t2", e.EntityID)
}

// Снятие исполнителя (assignedTo -> пусто) не считается назначением
func TestAssigneeClearedIsPlainUpdate(t *testing.T) {
	before := &domain.Task{ID: "t1", Title: "Call client", AssignedTo: domain.NewRef("rep")}
	after := &domain.Task{ID: "t1", Title: "Call client"}

	e := EntryForUpdate(actor, before, after)
	assert.Equal(t, domain.ActivityUpdated, e.Type)
}

func TestEntryAnonymousActor(t *testing.T) {
	e := EntryForCreate(nil, &domain.Company{ID: "co1", Name: "Acme"})

	assert.Empty(t, e.ActorID)
	assert.Empty(t, e.ActorName)
}
