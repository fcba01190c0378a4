package session

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/m04kA/SMC-SessionService/internal/domain"
	"github.com/m04kA/SMC-SessionService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SessionService/pkg/txmanager"
)

// Repository репозиторий сессий
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория сессий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает сессию с уже сгенерированным ID.
// Если в контексте есть транзакция, запись идет в ней.
func (r *Repository) Create(ctx context.Context, s *domain.Session) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("sessions").
		Columns(
			"id",
			"therapist_id",
			"client_id",
			"session_type",
			"status",
			"scheduled_time",
			"duration_minutes",
			"room_url",
			"room_name",
			"order_id",
			"external_payment_id",
		).
		Values(
			s.ID,
			s.TherapistID,
			s.ClientID,
			s.SessionType,
			s.Status,
			s.ScheduledTime.UTC(),
			s.DurationMinutes,
			nullString(s.RoomURL),
			nullString(s.RoomName),
			nullString(s.OrderID),
			nullString(s.ExternalPaymentID),
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&s.CreatedAt, &s.UpdatedAt); err != nil {
		return fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
