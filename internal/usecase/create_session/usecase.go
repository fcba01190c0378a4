package create_session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SessionService/internal/domain"
	pendingRepo "github.com/m04kA/SMC-SessionService/internal/infra/storage/pendingbooking"
	therapistRepo "github.com/m04kA/SMC-SessionService/internal/infra/storage/therapist"
	"github.com/m04kA/SMC-SessionService/internal/integrations/daily"
	"github.com/m04kA/SMC-SessionService/internal/service/availability"
	"github.com/m04kA/SMC-SessionService/internal/service/records"
)

// UseCase use case прямого создания сессии клиентом после подтверждения бронирования
type UseCase struct {
	therapistRepo TherapistRepository
	pendingRepo   PendingBookingRepository
	rooms         RoomProvisioner
	writer        RecordWriter
	availability  AvailabilityService
	publisher     EventPublisher
	txManager     TransactionManager
	metrics       Metrics
	roomTTLHours  int
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	therapistRepo TherapistRepository,
	pendingRepo PendingBookingRepository,
	rooms RoomProvisioner,
	writer RecordWriter,
	availability AvailabilityService,
	publisher EventPublisher,
	txManager TransactionManager,
	metrics Metrics,
	roomTTLHours int,
	logger Logger,
) *UseCase {
	return &UseCase{
		therapistRepo: therapistRepo,
		pendingRepo:   pendingRepo,
		rooms:         rooms,
		writer:        writer,
		availability:  availability,
		publisher:     publisher,
		txManager:     txManager,
		metrics:       metrics,
		roomTTLHours:  roomTTLHours,
		logger:        logger,
	}
}

// Execute выполняет use case создания сессии
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	b, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateSession: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("CreateSession: client=%s, therapist=%s, type=%s, time=%s, order_id=%s",
		req.ClientID, b.therapistID, b.sessionType, b.scheduled.Format(time.RFC3339), b.orderID)

	// 2. Терапевт существует и принимает записи
	therapist, err := uc.therapistRepo.GetByID(ctx, b.therapistID)
	if err != nil {
		if errors.Is(err, therapistRepo.ErrTherapistNotFound) {
			uc.logger.Warn("CreateSession: therapist=%s not found", b.therapistID)
			return nil, ErrTherapistNotFound
		}
		uc.logger.Error("CreateSession: failed to get therapist=%s: %v", b.therapistID, err)
		return nil, fmt.Errorf("%w: failed to get therapist: %v", ErrInternal, err)
	}
	if !therapist.IsActive {
		uc.logger.Warn("CreateSession: therapist=%s is not active", b.therapistID)
		return nil, ErrTherapistInactive
	}

	// 3. Если заказ уже обработан уведомлением шлюза, возвращаем существующую сессию
	pending, err := uc.pendingRepo.GetByOrderID(ctx, b.orderID)
	if err != nil && !errors.Is(err, pendingRepo.ErrPendingBookingNotFound) {
		uc.logger.Error("CreateSession: failed to load pending booking order_id=%s: %v", b.orderID, err)
		return nil, fmt.Errorf("%w: failed to load pending booking: %v", ErrInternal, err)
	}
	if pending != nil {
		if err := checkOwnership(pending, req.ClientID, b); err != nil {
			uc.logger.Warn("CreateSession: order_id=%s rejected for client=%s: %v", b.orderID, req.ClientID, err)
			uc.metrics.IncPipelineOutcome(domain.SourceDirect, "rejected")
			return nil, err
		}
	}
	if pending != nil && pending.IsCompleted() && pending.SessionID != nil {
		uc.logger.Info("CreateSession: order_id=%s already provisioned as session=%s", b.orderID, *pending.SessionID)
		uc.metrics.IncPipelineOutcome(domain.SourceDirect, "already_completed")
		return &Response{SessionID: *pending.SessionID, Success: true}, nil
	}

	// 4. Повторная проверка слота; ошибки чтения не блокируют запись
	state, err := uc.availability.CheckSlot(ctx, b.therapistID, b.scheduled)
	if err != nil {
		uc.logger.Warn("CreateSession: availability re-check failed for therapist=%s, continuing: %v", b.therapistID, err)
	} else if state == availability.SlotStateTaken {
		uc.logger.Warn("CreateSession: slot %s for therapist=%s is already booked",
			b.scheduled.Format(time.RFC3339), b.therapistID)
		uc.metrics.IncPipelineOutcome(domain.SourceDirect, "slot_taken")
		return nil, ErrSlotNotAvailable
	}

	// 5. Комната для звонка обязательна для video/audio, до любой записи
	var room *daily.Room
	if b.sessionType.RequiresRoom() {
		room, err = uc.rooms.CreateRoom(ctx, b.sessionType, daily.RoomExpiry(b.scheduled, uc.roomTTLHours))
		if err != nil {
			uc.logger.Error("CreateSession: room provisioning failed for order_id=%s: %v", b.orderID, err)
			uc.metrics.IncRoomProvisioning(string(b.sessionType), "failed")
			uc.metrics.IncPipelineOutcome(domain.SourceDirect, "room_failed")
			return nil, fmt.Errorf("%w: %v", ErrRoomProvisioning, err)
		}
		uc.metrics.IncRoomProvisioning(string(b.sessionType), "created")
	}

	// 6. Сессия, платеж и переход бронирования в одной транзакции
	session, payment := buildRecords(req, b, room)
	var sessionID string
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		sessionID, err = uc.writer.Write(txCtx, session, payment)
		if err != nil {
			if errors.Is(err, records.ErrAlreadyRecorded) {
				return errAlreadyCompleted
			}
			return fmt.Errorf("%w: write records: %v", ErrInternal, err)
		}

		if pending == nil {
			return nil
		}

		if err := uc.pendingRepo.MarkCompleted(txCtx, b.orderID, sessionID); err != nil {
			if errors.Is(err, pendingRepo.ErrAlreadyCompleted) {
				return errAlreadyCompleted
			}
			return fmt.Errorf("%w: complete pending booking: %v", ErrInternal, err)
		}
		return nil
	})
	if errors.Is(err, errAlreadyCompleted) {
		// шлюз успел раньше, отдаем его сессию
		return uc.existingSession(ctx, req.ClientID, b, room)
	}
	if err != nil {
		uc.logger.Error("CreateSession: failed to record session for order_id=%s: %v", b.orderID, err)
		if room != nil {
			uc.logger.Warn("CreateSession: room %s is not attached to any session", room.Name)
		}
		return nil, err
	}

	// 7. Расписание и событие, без влияния на результат
	availabilityOutcome := uc.availability.MarkBooked(ctx, b.therapistID, b.scheduled)

	event := domain.SessionProvisionedEvent{
		SessionID:           sessionID,
		OrderID:             b.orderID,
		TherapistID:         b.therapistID,
		ClientID:            req.ClientID,
		SessionType:         b.sessionType,
		ScheduledTime:       b.scheduled,
		RoomURL:             session.RoomURL,
		Source:              domain.SourceDirect,
		AvailabilityOutcome: string(availabilityOutcome),
		OccurredAt:          time.Now().UTC(),
	}
	if err := uc.publisher.PublishJSON(ctx, domain.EventSessionProvisioned, event); err != nil {
		uc.logger.Warn("CreateSession: failed to publish %s for session=%s: %v", domain.EventSessionProvisioned, sessionID, err)
	}

	uc.metrics.IncPipelineOutcome(domain.SourceDirect, "processed")
	uc.logger.Info("CreateSession: session=%s created for order_id=%s", sessionID, b.orderID)

	// 8. Ответ
	return &Response{SessionID: sessionID, Success: true}, nil
}

func (uc *UseCase) existingSession(ctx context.Context, clientID string, b *booking, room *daily.Room) (*Response, error) {
	if room != nil {
		uc.logger.Warn("CreateSession: room %s is not attached to any session", room.Name)
	}

	orderID := b.orderID
	pending, err := uc.pendingRepo.GetByOrderID(ctx, orderID)
	if err == nil {
		if err := checkOwnership(pending, clientID, b); err != nil {
			uc.logger.Warn("CreateSession: order_id=%s rejected for client=%s: %v", orderID, clientID, err)
			return nil, err
		}
	}
	if err != nil || pending.SessionID == nil {
		uc.logger.Error("CreateSession: order_id=%s was provisioned concurrently but its session is unknown: %v", orderID, err)
		return nil, fmt.Errorf("%w: order %s already provisioned", ErrInternal, orderID)
	}

	uc.metrics.IncPipelineOutcome(domain.SourceDirect, "already_completed")
	uc.logger.Info("CreateSession: order_id=%s provisioned concurrently as session=%s", orderID, *pending.SessionID)
	return &Response{SessionID: *pending.SessionID, Success: true}, nil
}

// checkOwnership сверяет заказ с вызывающим клиентом и параметрами бронирования.
// Чужой заказ нельзя ни завершить, ни получить по нему сессию.
func checkOwnership(pending *domain.PendingBooking, clientID string, b *booking) error {
	if pending.ClientID != clientID {
		return ErrOrderNotOwned
	}
	if pending.TherapistID != b.therapistID {
		return fmt.Errorf("%w: therapist %s, order has %s", ErrBookingMismatch, b.therapistID, pending.TherapistID)
	}
	if !pending.ScheduledTime.Equal(b.scheduled) {
		return fmt.Errorf("%w: session time %s, order has %s", ErrBookingMismatch,
			b.scheduled.Format(time.RFC3339), pending.ScheduledTime.UTC().Format(time.RFC3339))
	}
	if pending.SessionType != b.sessionType {
		return fmt.Errorf("%w: session type %s, order has %s", ErrBookingMismatch, b.sessionType, pending.SessionType)
	}
	return nil
}

// buildRecords собирает сессию и платеж из запроса
func buildRecords(req *Request, b *booking, room *daily.Room) (*domain.Session, *domain.Payment) {
	session := &domain.Session{
		TherapistID:       b.therapistID,
		ClientID:          req.ClientID,
		SessionType:       b.sessionType,
		ScheduledTime:     b.scheduled,
		DurationMinutes:   b.duration,
		OrderID:           b.orderID,
		ExternalPaymentID: req.PaymentData.PaymentID,
	}
	if room != nil {
		session.RoomURL = room.URL
		session.RoomName = room.Name
	}

	payment := &domain.Payment{
		OrderID:           b.orderID,
		ExternalPaymentID: req.PaymentData.PaymentID,
		Amount:            req.PaymentData.Amount,
		Currency:          strings.ToUpper(req.PaymentData.Currency),
		Method:            req.PaymentData.Method,
		CouponCode:        req.PaymentData.CouponCode,
		DiscountAmount:    req.PaymentData.DiscountAmount,
		OriginalAmount:    req.PaymentData.OriginalAmount,
	}

	return session, payment
}
