package records

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SessionService/internal/domain"
	paymentRepo "github.com/m04kA/SMC-SessionService/internal/infra/storage/payment"
)

// Writer атомарно создает пару сессия + платеж
type Writer struct {
	sessionRepo SessionRepository
	paymentRepo PaymentRepository
	txManager   TransactionManager
	newID       func() string
	logger      Logger
}

// NewWriter создает новый экземпляр Writer
func NewWriter(
	sessionRepo SessionRepository,
	paymentRepo PaymentRepository,
	txManager TransactionManager,
	logger Logger,
) *Writer {
	return &Writer{
		sessionRepo: sessionRepo,
		paymentRepo: paymentRepo,
		txManager:   txManager,
		newID:       uuid.NewString,
		logger:      logger,
	}
}

// Write создает сессию и платеж в одной транзакции и возвращает ID сессии.
// ID генерируются здесь, ID сессии прописывается в платеж до записи.
// Статус платежа всегда completed, статус выплаты всегда pending.
// Если в контексте уже есть транзакция, запись выполняется в ней.
func (w *Writer) Write(ctx context.Context, session *domain.Session, payment *domain.Payment) (string, error) {
	if err := validateSession(session); err != nil {
		w.logger.Warn("WriteRecords: %v", err)
		return "", err
	}
	if payment == nil {
		return "", fmt.Errorf("%w: payment is required", ErrInvalidRecord)
	}

	session.ID = w.newID()
	session.Status = domain.SessionStatusScheduled
	if session.DurationMinutes <= 0 {
		session.DurationMinutes = domain.DefaultSessionDurationMinutes
	}

	payment.ID = w.newID()
	payment.SessionID = session.ID
	payment.Status = domain.PaymentStatusCompleted
	payment.PayoutStatus = domain.PayoutStatusPending

	err := w.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := w.sessionRepo.Create(txCtx, session); err != nil {
			return fmt.Errorf("%w: Write - create session: %v", ErrInternal, err)
		}

		if err := w.paymentRepo.Create(txCtx, payment); err != nil {
			if errors.Is(err, paymentRepo.ErrDuplicateOrder) {
				return fmt.Errorf("%w: order_id=%s", ErrAlreadyRecorded, payment.OrderID)
			}
			return fmt.Errorf("%w: Write - create payment: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		w.logger.Error("WriteRecords: order_id=%s, therapist=%s: %v", payment.OrderID, session.TherapistID, err)
		return "", err
	}

	w.logger.Info("WriteRecords: session=%s, payment=%s created for order_id=%s", session.ID, payment.ID, payment.OrderID)
	return session.ID, nil
}

func validateSession(s *domain.Session) error {
	switch {
	case s == nil:
		return fmt.Errorf("%w: session is required", ErrInvalidRecord)
	case s.TherapistID == "":
		return fmt.Errorf("%w: therapist id is required", ErrInvalidRecord)
	case s.ClientID == "":
		return fmt.Errorf("%w: client id is required", ErrInvalidRecord)
	case !s.SessionType.IsValid():
		return fmt.Errorf("%w: unknown session type %q", ErrInvalidRecord, s.SessionType)
	case s.ScheduledTime.IsZero():
		return fmt.Errorf("%w: scheduled time is required", ErrInvalidRecord)
	}
	return nil
}
