package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-SessionService/internal/domain"
	"github.com/m04kA/SMC-SessionService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SessionService/pkg/txmanager"
)

// uniqueViolation код ошибки PostgreSQL для нарушения уникальности
const uniqueViolation = "23505"

// Repository репозиторий платежей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория платежей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает платеж. order_id уникален: второй платеж по тому же заказу
// возвращает ErrDuplicateOrder.
func (r *Repository) Create(ctx context.Context, p *domain.Payment) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	var orderID sql.NullString
	if p.OrderID != "" {
		orderID = sql.NullString{String: p.OrderID, Valid: true}
	}

	query, args, err := psqlbuilder.Insert("payments").
		Columns(
			"id",
			"session_id",
			"order_id",
			"external_payment_id",
			"amount",
			"currency",
			"method",
			"status",
			"payout_status",
			"coupon_code",
			"discount_amount",
			"original_amount",
		).
		Values(
			p.ID,
			p.SessionID,
			orderID,
			p.ExternalPaymentID,
			p.Amount,
			p.Currency,
			p.Method,
			p.Status,
			p.PayoutStatus,
			p.CouponCode,
			p.DiscountAmount,
			p.OriginalAmount,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%w: order_id=%s", ErrDuplicateOrder, p.OrderID)
		}
		return fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}
