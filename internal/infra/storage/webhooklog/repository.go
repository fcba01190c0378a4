package webhooklog

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

// recordConflictClause одна запись на order id; success окончательный
const recordConflictClause = `ON CONFLICT (order_id) DO UPDATE SET
	payment_id = EXCLUDED.payment_id,
	status_code = EXCLUDED.status_code,
	outcome = EXCLUDED.outcome,
	payload = EXCLUDED.payload,
	processed_at = EXCLUDED.processed_at
WHERE webhook_logs.outcome <> ? RETURNING order_id`

// Repository журнал идемпотентности уведомлений шлюза (одна запись на order id)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Exists проверяет, обработано ли успешное уведомление для заказа.
// Записи о неуспешных статусах не считаются: за ними может прийти успешная оплата.
// Это только быстрая проверка, атомарной границей служит Record.
func (r *Repository) Exists(ctx context.Context, orderID string) (bool, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("webhook_logs").
		Where(squirrel.Eq{
			"order_id": orderID,
			"outcome":  domain.WebhookOutcomeSuccess,
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: Exists - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: Exists - execute select: %v", ErrExecQuery, err)
	}

	return true, nil
}

// Record создает запись для заказа или замещает запись о неуспешном статусе.
// Запись с исходом success не перезаписывается: recorded=false означает,
// что заказ уже обработан другой доставкой.
func (r *Repository) Record(ctx context.Context, entry *domain.WebhookLog) (bool, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	if entry.ProcessedAt.IsZero() {
		entry.ProcessedAt = time.Now().UTC()
	}
	payload := "{}"
	if len(entry.Payload) > 0 {
		payload = string(entry.Payload)
	}

	query, args, err := psqlbuilder.Insert("webhook_logs").
		Columns(
			"order_id",
			"payment_id",
			"status_code",
			"outcome",
			"payload",
			"processed_at",
		).
		Values(
			entry.OrderID,
			entry.PaymentID,
			entry.StatusCode,
			entry.Outcome,
			payload,
			entry.ProcessedAt,
		).
		Suffix(recordConflictClause, domain.WebhookOutcomeSuccess).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: Record - build insert query: %v", ErrBuildQuery, err)
	}

	var orderID string
	err = executor.QueryRowContext(ctx, query, args...).Scan(&orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: Record - execute insert: %v", ErrExecQuery, err)
	}

	return true, nil
}
