package availability

import (
	"context"
	"errors"
	"time"

	"github.com/m04kA/SMC-SessionService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-SessionService/internal/infra/storage/availability"
)

// Updater помечает слоты расписания терапевта занятыми
type Updater struct {
	repo      AvailabilityRepository
	txManager TransactionManager
	location  *time.Location
	metrics   Metrics
	logger    Logger
}

// NewUpdater создает новый экземпляр Updater. loc - часовой пояс расписания терапевтов.
func NewUpdater(
	repo AvailabilityRepository,
	txManager TransactionManager,
	loc *time.Location,
	metrics Metrics,
	logger Logger,
) *Updater {
	if loc == nil {
		loc = time.UTC
	}
	return &Updater{
		repo:      repo,
		txManager: txManager,
		location:  loc,
		metrics:   metrics,
		logger:    logger,
	}
}

// MarkBooked помечает занятым слот, соответствующий instant, в обоих представлениях
// расписания. Ошибок не возвращает: исход только логируется и считается в метриках.
func (u *Updater) MarkBooked(ctx context.Context, therapistID string, instant time.Time) Outcome {
	slot := domain.ResolveLocalSlot(instant, u.location)

	var result domain.BookResult
	err := u.txManager.Do(ctx, func(txCtx context.Context) error {
		availability, err := u.repo.GetByTherapistID(txCtx, therapistID)
		if err != nil {
			return err
		}

		result = availability.BookSlot(slot)
		if !result.Any() {
			return nil
		}

		return u.repo.UpdateSchedules(txCtx, availability)
	})

	var outcome Outcome
	switch {
	case errors.Is(err, availabilityRepo.ErrAvailabilityNotFound):
		outcome = OutcomeNotFound
		u.logger.Warn("MarkBooked: no availability document for therapist=%s", therapistID)
	case err != nil:
		outcome = OutcomeFailed
		u.logger.Error("MarkBooked: failed to update availability for therapist=%s, date=%s, time=%s: %v",
			therapistID, slot.Date, slot.Time, err)
	case !result.Any():
		outcome = OutcomeNoMatchingSlot
		u.logger.Warn("MarkBooked: no matching slot for therapist=%s, date=%s, time=%s, weekday=%d",
			therapistID, slot.Date, slot.Time, slot.Weekday)
	default:
		outcome = OutcomeUpdated
		u.logger.Info("MarkBooked: therapist=%s, date=%s, time=%s booked in %v",
			therapistID, slot.Date, slot.Time, result.Flipped)
	}

	u.metrics.IncAvailabilityOutcome(string(outcome))
	return outcome
}

// CheckSlot проверяет слот без блокировок. Занятым слот считается, только если
// хотя бы одно представление явно отмечает его недоступным.
func (u *Updater) CheckSlot(ctx context.Context, therapistID string, instant time.Time) (SlotState, error) {
	availability, err := u.repo.GetByTherapistID(ctx, therapistID)
	if errors.Is(err, availabilityRepo.ErrAvailabilityNotFound) {
		return SlotStateUnknown, nil
	}
	if err != nil {
		return SlotStateUnknown, err
	}

	matches := availability.Matches(domain.ResolveLocalSlot(instant, u.location))
	if len(matches) == 0 {
		return SlotStateUnknown, nil
	}

	for _, m := range matches {
		if !m.Slot.IsOpen() {
			return SlotStateTaken, nil
		}
	}

	return SlotStateOpen, nil
}
