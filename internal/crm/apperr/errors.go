package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/xela07ax/teamcrm/internal/access"
)

// Error — ошибка уровня API с заранее известным HTTP-статусом.
// Таксономия: Unauthenticated -> 401, Forbidden -> 403, NotFound -> 404,
// Validation и любые ошибки хранилища -> 400. Грубое сведение ошибок
// персистентности к 400 сохранено намеренно, ради совместимости.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

func Unauthenticated() *Error {
	return &Error{Status: http.StatusUnauthorized, Message: access.ReasonNotAuthenticated}
}

func Forbidden(msg string) *Error {
	return &Error{Status: http.StatusForbidden, Message: msg}
}

// NotFound строит ресурсо-специфичное сообщение: "Contact not found".
func NotFound(resource string) *Error {
	return &Error{Status: http.StatusNotFound, Message: resource + " not found"}
}

func Validation(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

// FromDecision переводит отказ комбинатора в ошибку API.
// Отсутствие сессии — 401; запрет на самоудаление исторически
// отдается как 400, остальные отказы — 403.
func FromDecision(d access.Decision) *Error {
	switch d.Reason {
	case access.ReasonNotAuthenticated:
		return Unauthenticated()
	case access.ReasonSelfDelete:
		return Validation(d.Reason)
	default:
		return Forbidden(d.Reason)
	}
}

// Wrap классифицирует произвольную ошибку для ответа.
// Неопознанная ошибка (хранилище и пр.) уходит как 400
// с исходным текстом дословно.
func Wrap(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return &Error{Status: http.StatusBadRequest, Message: err.Error()}
}

// Internalf — для ошибок, которые не должны достигать клиента в сыром
// виде (ошибки кодирования ответа и т.п.).
func Internalf(format string, args ...any) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: fmt.Sprintf(format, args...)}
}
