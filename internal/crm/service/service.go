package service

import (
	"github.com/xela07ax/teamcrm/internal/domain"
)

// ActivityRecorder — асинхронный журнал активности.
// Record не блокируется и не возвращает ошибку: попытка записи
// гарантируется для каждой успешной мутации, успех доставки — нет.
type ActivityRecorder interface {
	Record(e domain.ActivityEntry)
}

// noopRecorder на случай, когда журнал не подключен (тесты, tooling).
type noopRecorder struct{}

func (noopRecorder) Record(domain.ActivityEntry) {}

// NopRecorder возвращает заглушку журнала.
func NopRecorder() ActivityRecorder { return noopRecorder{} }
