package therapist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SessionService/internal/domain"
	"github.com/m04kA/SMC-SessionService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SessionService/pkg/txmanager"
)

// Repository репозиторий терапевтов (только чтение)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория терапевтов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает терапевта по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Therapist, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"display_name",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("therapists").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var t domain.Therapist
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&t.ID,
		&t.DisplayName,
		&t.IsActive,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTherapistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan therapist: %v", ErrScanRow, err)
	}

	return &t, nil
}
