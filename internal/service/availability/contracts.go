package availability

import (
	"context"

	"github.com/m04kA/SMC-SessionService/internal/domain"
)

// AvailabilityRepository интерфейс репозитория расписаний
type AvailabilityRepository interface {
	GetByTherapistID(ctx context.Context, therapistID string) (*domain.TherapistAvailability, error)
	UpdateSchedules(ctx context.Context, availability *domain.TherapistAvailability) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчик исходов обновления расписания
type Metrics interface {
	IncAvailabilityOutcome(outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
