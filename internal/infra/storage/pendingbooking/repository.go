package pendingbooking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SessionService/internal/domain"
	"github.com/m04kA/SMC-SessionService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SessionService/pkg/txmanager"
)

// Repository репозиторий ожидающих оплаты бронирований
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByOrderID получает бронирование по order id.
// Внутри транзакции строка блокируется (FOR UPDATE), чтобы переход в completed был единственным.
func (r *Repository) GetByOrderID(ctx context.Context, orderID string) (*domain.PendingBooking, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"order_id",
		"therapist_id",
		"client_id",
		"session_type",
		"scheduled_time",
		"duration_minutes",
		"coupon_code",
		"discount_amount",
		"status",
		"session_id",
		"completed_at",
		"created_at",
		"updated_at",
	).
		From("pending_bookings").
		Where(squirrel.Eq{"order_id": orderID})

	if txmanager.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOrderID - build select query: %v", ErrBuildQuery, err)
	}

	var (
		booking     domain.PendingBooking
		couponCode  sql.NullString
		sessionID   sql.NullString
		completedAt sql.NullTime
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.OrderID,
		&booking.TherapistID,
		&booking.ClientID,
		&booking.SessionType,
		&booking.ScheduledTime,
		&booking.DurationMinutes,
		&couponCode,
		&booking.DiscountAmount,
		&booking.Status,
		&sessionID,
		&completedAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPendingBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOrderID - scan pending booking: %v", ErrScanRow, err)
	}

	if couponCode.Valid {
		booking.CouponCode = &couponCode.String
	}
	if sessionID.Valid {
		booking.SessionID = &sessionID.String
	}
	if completedAt.Valid {
		booking.CompletedAt = &completedAt.Time
	}

	return &booking, nil
}

// MarkCompleted переводит бронирование из pending в completed и связывает его с сессией.
// Обновление условное (status = 'pending'), поэтому повторный переход невозможен.
func (r *Repository) MarkCompleted(ctx context.Context, orderID, sessionID string) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	now := time.Now().UTC()
	query, args, err := psqlbuilder.Update("pending_bookings").
		Set("status", domain.PendingBookingStatusCompleted).
		Set("session_id", sessionID).
		Set("completed_at", now).
		Set("updated_at", now).
		Where(squirrel.Eq{
			"order_id": orderID,
			"status":   domain.PendingBookingStatusPending,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkCompleted - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkCompleted - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkCompleted - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAlreadyCompleted
	}

	return nil
}
