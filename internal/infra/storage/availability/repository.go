package availability

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SessionService/internal/domain"
	"github.com/m04kA/SMC-SessionService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SessionService/pkg/txmanager"
)

// Repository репозиторий расписаний терапевтов.
// special_dates и weekly_schedule хранятся как JSONB массивы.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByTherapistID загружает расписание терапевта (FOR UPDATE внутри транзакции)
func (r *Repository) GetByTherapistID(ctx context.Context, therapistID string) (*domain.TherapistAvailability, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"therapist_id",
		"special_dates",
		"weekly_schedule",
		"updated_at",
	).
		From("therapist_availability").
		Where(squirrel.Eq{"therapist_id": therapistID})

	if txmanager.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTherapistID - build select query: %v", ErrBuildQuery, err)
	}

	var (
		availability   domain.TherapistAvailability
		specialDates   []byte
		weeklySchedule []byte
		updatedAt      sql.NullTime
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&availability.TherapistID,
		&specialDates,
		&weeklySchedule,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAvailabilityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTherapistID - scan availability: %v", ErrScanRow, err)
	}

	if err := decodeArray(specialDates, &availability.SpecialDates); err != nil {
		return nil, fmt.Errorf("%w: special_dates: %v", ErrInvalidDocument, err)
	}
	if err := decodeArray(weeklySchedule, &availability.WeeklySchedule); err != nil {
		return nil, fmt.Errorf("%w: weekly_schedule: %v", ErrInvalidDocument, err)
	}
	availability.UpdatedAt = updatedAt.Time

	return &availability, nil
}

// UpdateSchedules записывает оба массива одним UPDATE
func (r *Repository) UpdateSchedules(ctx context.Context, availability *domain.TherapistAvailability) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	specialDates, err := encodeArray(availability.SpecialDates)
	if err != nil {
		return fmt.Errorf("%w: special_dates: %v", ErrInvalidDocument, err)
	}
	weeklySchedule, err := encodeArray(availability.WeeklySchedule)
	if err != nil {
		return fmt.Errorf("%w: weekly_schedule: %v", ErrInvalidDocument, err)
	}

	availability.UpdatedAt = time.Now().UTC()

	query, args, err := psqlbuilder.Update("therapist_availability").
		Set("special_dates", specialDates).
		Set("weekly_schedule", weeklySchedule).
		Set("updated_at", availability.UpdatedAt).
		Where(squirrel.Eq{"therapist_id": availability.TherapistID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateSchedules - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateSchedules - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateSchedules - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAvailabilityNotFound
	}

	return nil
}

func decodeArray(raw []byte, dst interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

// encodeArray кодирует массив в строку: lib/pq передает []byte как bytea
func encodeArray(v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(raw) == "null" {
		return "[]", nil
	}
	return string(raw), nil
}
