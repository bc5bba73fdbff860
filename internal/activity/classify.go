package activity

import (
	"fmt"

	"github.com/xela07ax/teamcrm/internal/domain"
)

// Классификация событий журнала. Тип записи выводится из операции и,
// для обновлений, из того, сменилось ли само поле назначения:
// update с переносом assignedTo — это "assigned", а не "updated";
// перевод задачи в completed остается "updated", но с формулировкой
// "Completed" в описании.

// EntryForCreate строит запись о создании ресурса.
func EntryForCreate(actor *domain.Principal, res domain.Resource) domain.ActivityEntry {
	return newEntry(actor, res, domain.ActivityCreated,
		fmt.Sprintf("Created %s: %s", res.EntityType(), res.DisplayName()), nil)
}

// EntryForDelete строит запись об удалении ресурса.
func EntryForDelete(actor *domain.Principal, res domain.Resource) domain.ActivityEntry {
	return newEntry(actor, res, domain.ActivityDeleted,
		fmt.Sprintf("Deleted %s: %s", res.EntityType(), res.DisplayName()), nil)
}

// EntryForUpdate строит запись об обновлении, сравнивая состояния
// до и после мутации.
func EntryForUpdate(actor *domain.Principal, before, after domain.Resource) domain.ActivityEntry {
	if newAssignee, changed := assigneeChanged(before, after); changed {
		return newEntry(actor, after, domain.ActivityAssigned,
			fmt.Sprintf("Assigned %s: %s", after.EntityType(), after.DisplayName()),
			map[string]any{"assignedTo": newAssignee})
	}

	if taskCompleted(before, after) {
		return newEntry(actor, after, domain.ActivityUpdated,
			fmt.Sprintf("Completed task: %s", after.DisplayName()), nil)
	}

	return newEntry(actor, after, domain.ActivityUpdated,
		fmt.Sprintf("Updated %s: %s", after.EntityType(), after.DisplayName()), nil)
}

func newEntry(actor *domain.Principal, res domain.Resource, t domain.ActivityType, desc string, meta map[string]any) domain.ActivityEntry {
	entityType, entityID := entryKey(res)
	e := domain.ActivityEntry{
		Type:        t,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: desc,
		Metadata:    meta,
	}
	if actor != nil {
		e.ActorID = actor.ID
		e.ActorName = actor.Name
	}
	return e
}

// entryKey выбирает, по какой сущности ключуется запись.
// Задачи исторически журналируются под entityType "user" с id
// исполнителя, а не под собственной идентичностью — схема сохранена
// ради совместимости с существующими потребителями журнала.
func entryKey(res domain.Resource) (domain.EntityType, string) {
	if t, ok := res.(*domain.Task); ok {
		if id := t.AssignedTo.Normalize(); id != "" {
			return domain.EntityUser, id
		}
		return domain.EntityUser, t.ID
	}
	return res.EntityType(), res.EntityID()
}

// assigneeChanged сравнивает поле назначения до и после.
// Смотрим только на варианты, объявляющие assignedTo.
func assigneeChanged(before, after domain.Resource) (string, bool) {
	prev, next, ok := assigneeOf(before), "", false
	switch r := after.(type) {
	case *domain.Contact:
		next, ok = r.AssignedTo.Normalize(), true
	case *domain.Case:
		next, ok = r.AssignedTo.Normalize(), true
	case *domain.Task:
		next, ok = r.AssignedTo.Normalize(), true
	}
	if !ok || next == "" || next == prev {
		return "", false
	}
	return next, true
}

func assigneeOf(res domain.Resource) string {
	switch r := res.(type) {
	case *domain.Contact:
		return r.AssignedTo.Normalize()
	case *domain.Case:
		return r.AssignedTo.Normalize()
	case *domain.Task:
		return r.AssignedTo.Normalize()
	}
	return ""
}

// taskCompleted фиксирует переход статуса задачи в completed.
func taskCompleted(before, after domain.Resource) bool {
	b, okB := before.(*domain.Task)
	a, okA := after.(*domain.Task)
	if !okB || !okA {
		return false
	}
	return b.Status != domain.TaskStatusCompleted && a.Status == domain.TaskStatusCompleted
}
