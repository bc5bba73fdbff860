package domain

import (
	"bytes"
	"encoding/json"
)

// Ref — ссылка на пользователя внутри документа (assignedTo, createdBy и т.д.).
// Хранилище отдает её в двух представлениях:
//   - «голый» идентификатор:  "a1b2c3"
//   - развернутый объект:     {"id": "a1b2c3", "firstName": "Ann", ...}
//
// Оба вида нормализуются к одному сравнимому id, чтобы слой авторизации
// никогда не ветвился по форме представления.
type Ref struct {
	ID   string
	User *UserSummary // Заполнен только для развернутой формы
}

// NewRef создает ссылку в «голой» форме.
func NewRef(id string) Ref {
	return Ref{ID: id}
}

// IsZero сообщает об отсутствующей ссылке.
// Отсутствующая ссылка никогда не удовлетворяет проверке владения.
func (r Ref) IsZero() bool {
	return r.ID == ""
}

// Normalize извлекает сравнимый идентификатор независимо от формы.
// Для отсутствующей ссылки возвращает пустую строку (не паникует).
func (r Ref) Normalize() string {
	return r.ID
}

// Bare сбрасывает развернутую форму до голого идентификатора.
// Хранилище сохраняет ссылки только в этой форме.
func (r Ref) Bare() Ref {
	return Ref{ID: r.ID}
}

// Matches сравнивает ссылку с идентификатором пользователя.
func (r Ref) Matches(userID string) bool {
	return !r.IsZero() && userID != "" && r.ID == userID
}

func (r Ref) MarshalJSON() ([]byte, error) {
	if r.IsZero() {
		return []byte("null"), nil
	}
	if r.User != nil {
		return json.Marshal(r.User)
	}
	return json.Marshal(r.ID)
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Ref{}
		return nil
	}

	// 1. Голый идентификатор
	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = Ref{ID: id}
		return nil
	}

	// 2. Развернутый объект с полем id
	var u UserSummary
	if err := json.Unmarshal(data, &u); err != nil {
		return err
	}
	*r = Ref{ID: u.ID, User: &u}
	return nil
}
