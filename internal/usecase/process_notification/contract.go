package process_notification

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SessionService/internal/domain"
	"github.com/m04kA/SMC-SessionService/internal/integrations/daily"
	"github.com/m04kA/SMC-SessionService/internal/integrations/payhere"
	"github.com/m04kA/SMC-SessionService/internal/service/availability"
)

// Authenticator проверка подписи уведомлений шлюза
type Authenticator interface {
	Configured() bool
	Verify(n payhere.Notification) bool
}

// Ledger журнал идемпотентности уведомлений
type Ledger interface {
	Exists(ctx context.Context, orderID string) (bool, error)
	Record(ctx context.Context, entry *domain.WebhookLog) (bool, error)
}

// PendingBookingRepository интерфейс репозитория ожидающих бронирований
type PendingBookingRepository interface {
	GetByOrderID(ctx context.Context, orderID string) (*domain.PendingBooking, error)
	MarkCompleted(ctx context.Context, orderID, sessionID string) error
}

// RoomProvisioner интерфейс провайдера комнат для звонков
type RoomProvisioner interface {
	CreateRoom(ctx context.Context, sessionType domain.SessionType, expiresAt time.Time) (*daily.Room, error)
}

// RecordWriter атомарная запись сессии и платежа
type RecordWriter interface {
	Write(ctx context.Context, session *domain.Session, payment *domain.Payment) (string, error)
}

// AvailabilityUpdater обновление расписания терапевта
type AvailabilityUpdater interface {
	MarkBooked(ctx context.Context, therapistID string, instant time.Time) availability.Outcome
}

// EventPublisher публикация доменных событий
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчики конвейера
type Metrics interface {
	IncPipelineOutcome(entrypoint, outcome string)
	IncRoomProvisioning(sessionType, result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
