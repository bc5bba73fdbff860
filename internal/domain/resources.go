package domain

import (
	"strings"
	"time"
)

// EntityType идентифицирует вариант ресурса CRM.
type EntityType string

const (
	EntityContact  EntityType = "contact"
	EntityCompany  EntityType = "company"
	EntityCase     EntityType = "case"
	EntityTask     EntityType = "task"
	EntityMeeting  EntityType = "meeting"
	EntityDocument EntityType = "document"
	EntityUser     EntityType = "user"
)

// Resource — общий контракт вариантов для слоя авторизации и аудита.
// Каждый вариант сам знает свой тип и отображаемое имя; поля владения
// он раскрывает только через типизированные проверки в пакете access,
// поэтому чужие поля (например, organizer у документа) проверить нельзя.
type Resource interface {
	EntityType() EntityType
	EntityID() string
	DisplayName() string
}

// Статусы задач. Переход в completed особо помечается в журнале активности.
const (
	TaskStatusOpen       = "open"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
)

type Contact struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	CompanyID  string    `json:"companyId,omitempty"`
	AssignedTo Ref       `json:"assignedTo,omitempty"`
	CreatedBy  Ref       `json:"createdBy,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (c *Contact) EntityType() EntityType { return EntityContact }
func (c *Contact) EntityID() string       { return c.ID }
func (c *Contact) DisplayName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Company не объявляет полей владения: доступ только по роли.
type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Industry  string    `json:"industry,omitempty"`
	Website   string    `json:"website,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Company) EntityType() EntityType { return EntityCompany }
func (c *Company) EntityID() string       { return c.ID }
func (c *Company) DisplayName() string    { return c.Name }

type Case struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status,omitempty"`
	Priority    string    `json:"priority,omitempty"`
	ContactID   string    `json:"contactId,omitempty"`
	AssignedTo  Ref       `json:"assignedTo,omitempty"`
	CreatedBy   Ref       `json:"createdBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (c *Case) EntityType() EntityType { return EntityCase }
func (c *Case) EntityID() string       { return c.ID }
func (c *Case) DisplayName() string    { return c.Title }

type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status,omitempty"`
	Priority    string    `json:"priority,omitempty"`
	DueDate     time.Time `json:"dueDate,omitempty"`
	AssignedTo  Ref       `json:"assignedTo,omitempty"`
	CreatedBy   Ref       `json:"createdBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (t *Task) EntityType() EntityType { return EntityTask }
func (t *Task) EntityID() string       { return t.ID }
func (t *Task) DisplayName() string    { return t.Title }

type Meeting struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Location  string    `json:"location,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Organizer Ref       `json:"organizer,omitempty"`
	Attendees []Ref     `json:"attendees,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (m *Meeting) EntityType() EntityType { return EntityMeeting }
func (m *Meeting) EntityID() string       { return m.ID }
func (m *Meeting) DisplayName() string    { return m.Title }

// Document хранит только метаданные файла; механика загрузки/отдачи
// контента лежит за пределами этого сервиса.
type Document struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	FileName   string    `json:"fileName,omitempty"`
	MimeType   string    `json:"mimeType,omitempty"`
	Size       int64     `json:"size,omitempty"`
	EntityRef  string    `json:"entityRef,omitempty"` // К какой сущности прикреплен
	UploadedBy Ref       `json:"uploadedBy,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (d *Document) EntityType() EntityType { return EntityDocument }
func (d *Document) EntityID() string       { return d.ID }
func (d *Document) DisplayName() string    { return d.Name }
