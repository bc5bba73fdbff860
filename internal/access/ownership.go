package access

import "github.com/xela07ax/teamcrm/internal/domain"

// OwnerRole — вид отношения владения, объявляемый вариантом ресурса.
type OwnerRole string

const (
	OwnerCreator   OwnerRole = "creator"
	OwnerAssignee  OwnerRole = "assignee"
	OwnerOrganizer OwnerRole = "organizer"
	OwnerAttendee  OwnerRole = "attendee"
	OwnerUploader  OwnerRole = "uploader"
	OwnerSelf      OwnerRole = "self"
)

// IsOwner решает, владеет ли пользователь ресурсом в заданном смысле.
// Распознавание варианта идет по конкретному типу, поэтому проверка
// никогда не трогает поле, которого вариант не объявляет
// (organizer у документа спросить структурно невозможно).
// Ссылки сравниваются через Ref.Matches: и «голая», и развернутая
// форма уже нормализованы к id, отсутствующая ссылка владения не дает.
func IsOwner(p *domain.Principal, res domain.Resource, role OwnerRole) bool {
	if p == nil || res == nil {
		return false
	}

	switch r := res.(type) {
	case *domain.Contact:
		switch role {
		case OwnerAssignee:
			return r.AssignedTo.Matches(p.ID)
		case OwnerCreator:
			return r.CreatedBy.Matches(p.ID)
		}
	case *domain.Case:
		switch role {
		case OwnerAssignee:
			return r.AssignedTo.Matches(p.ID)
		case OwnerCreator:
			return r.CreatedBy.Matches(p.ID)
		}
	case *domain.Task:
		switch role {
		case OwnerAssignee:
			return r.AssignedTo.Matches(p.ID)
		case OwnerCreator:
			return r.CreatedBy.Matches(p.ID)
		}
	case *domain.Meeting:
		switch role {
		case OwnerOrganizer:
			return r.Organizer.Matches(p.ID)
		case OwnerAttendee:
			for _, a := range r.Attendees {
				if a.Matches(p.ID) {
					return true
				}
			}
		}
	case *domain.Document:
		if role == OwnerUploader {
			return r.UploadedBy.Matches(p.ID)
		}
	case *domain.User:
		if role == OwnerSelf {
			return r.ID != "" && r.ID == p.ID
		}
	}

	// Company полей владения не объявляет: для нее (и для любой
	// неизвестной комбинации) ответ всегда «нет».
	return false
}

// isAssigneeOrCreator — составная проверка из таблицы политики:
// владельцем считается и исполнитель, и создатель записи.
func isAssigneeOrCreator(p *domain.Principal, res domain.Resource) bool {
	return IsOwner(p, res, OwnerAssignee) || IsOwner(p, res, OwnerCreator)
}
