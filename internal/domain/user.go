package domain

import (
	"strings"
	"time"
)

// User — учетная запись сотрудника CRM.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Никогда не отдаем наружу
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) EntityType() EntityType { return EntityUser }
func (u *User) EntityID() string       { return u.ID }
func (u *User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Principal сводит учетную запись к виду, с которым работает слой авторизации.
func (u *User) Principal() *Principal {
	return &Principal{
		ID:       u.ID,
		Name:     u.DisplayName(),
		Role:     u.Role,
		IsActive: u.IsActive,
	}
}

// UserSummary — развернутая форма ссылки на пользователя,
// как её возвращает хранилище при population.
type UserSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
}
