package process_notification

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SessionService/internal/domain"
	pendingRepo "github.com/m04kA/SMC-SessionService/internal/infra/storage/pendingbooking"
	"github.com/m04kA/SMC-SessionService/internal/integrations/daily"
	"github.com/m04kA/SMC-SessionService/internal/integrations/payhere"
	"github.com/m04kA/SMC-SessionService/internal/service/records"
)

// UseCase обработка уведомления шлюза об оплате
type UseCase struct {
	authenticator Authenticator
	ledger        Ledger
	pendingRepo   PendingBookingRepository
	rooms         RoomProvisioner
	writer        RecordWriter
	availability  AvailabilityUpdater
	publisher     EventPublisher
	txManager     TransactionManager
	metrics       Metrics
	roomTTLHours  int
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	authenticator Authenticator,
	ledger Ledger,
	pendingRepo PendingBookingRepository,
	rooms RoomProvisioner,
	writer RecordWriter,
	availability AvailabilityUpdater,
	publisher EventPublisher,
	txManager TransactionManager,
	metrics Metrics,
	roomTTLHours int,
	logger Logger,
) *UseCase {
	return &UseCase{
		authenticator: authenticator,
		ledger:        ledger,
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

// Execute проводит уведомление через конвейер:
// подпись -> журнал -> бронирование -> комната -> запись -> расписание -> событие.
// Журнал идемпотентности пишется в той же транзакции, что сессия и платеж,
// и служит атомарной границей против повторных доставок.
func (uc *UseCase) Execute(ctx context.Context, n *payhere.Notification) (*Response, error) {
	if n != nil {
		uc.logger.Info("ProcessNotification: order_id=%s, payment_id=%s, status_code=%s",
			n.OrderID, n.PaymentID, n.StatusCode)
	}

	// 1. Валидация обязательных полей
	if err := validateNotification(n); err != nil {
		uc.logger.Warn("ProcessNotification: validation failed: %v", err)
		return nil, err
	}

	// 2. Без секрета проверить подпись невозможно
	if !uc.authenticator.Configured() {
		uc.logger.Error("ProcessNotification: merchant secret is not configured")
		return nil, ErrMisconfigured
	}

	// 3. Проверка подписи, до любых записей
	if !uc.authenticator.Verify(*n) {
		uc.logger.Warn("ProcessNotification: invalid signature for order_id=%s, merchant_id=%s", n.OrderID, n.MerchantID)
		uc.metrics.IncPipelineOutcome(domain.SourceGateway, "rejected")
		return nil, ErrInvalidSignature
	}

	// 4. Быстрая проверка журнала
	exists, err := uc.ledger.Exists(ctx, n.OrderID)
	if err != nil {
		uc.logger.Error("ProcessNotification: ledger lookup failed for order_id=%s: %v", n.OrderID, err)
		return nil, fmt.Errorf("%w: ledger lookup: %v", ErrInternal, err)
	}
	if exists {
		uc.logger.Info("ProcessNotification: order_id=%s already processed, skipping", n.OrderID)
		return uc.finish(&Response{Outcome: OutcomeDuplicate}), nil
	}

	// 5. Неуспешная оплата: только запись в журнал
	if !n.IsSuccess() {
		recorded, err := uc.ledger.Record(ctx, ledgerEntry(n, domain.WebhookOutcomeOther))
		if err != nil {
			uc.logger.Error("ProcessNotification: failed to record non-success notification order_id=%s: %v", n.OrderID, err)
			return nil, fmt.Errorf("%w: record ledger: %v", ErrInternal, err)
		}
		if !recorded {
			return uc.finish(&Response{Outcome: OutcomeDuplicate}), nil
		}
		uc.logger.Info("ProcessNotification: order_id=%s has status_code=%s (%s), nothing to provision",
			n.OrderID, n.StatusCode, n.StatusMessage)
		return uc.finish(&Response{Outcome: OutcomeNotSuccessful}), nil
	}

	// 6. Ожидающее бронирование
	pending, err := uc.pendingRepo.GetByOrderID(ctx, n.OrderID)
	if err != nil {
		if errors.Is(err, pendingRepo.ErrPendingBookingNotFound) {
			uc.logger.Warn("ProcessNotification: no pending booking for order_id=%s", n.OrderID)
			return nil, ErrPendingBookingNotFound
		}
		uc.logger.Error("ProcessNotification: failed to load pending booking order_id=%s: %v", n.OrderID, err)
		return nil, fmt.Errorf("%w: load pending booking: %v", ErrInternal, err)
	}

	// 7. Бронирование уже завершено (например, прямым вызовом)
	if pending.IsCompleted() {
		return uc.alreadyCompleted(ctx, n, pending.SessionID, nil), nil
	}

	// 8. Комната для звонка; сбой не прерывает конвейер, оплата уже прошла
	room := uc.provisionRoom(ctx, pending)

	// 9. Журнал, сессия, платеж и переход бронирования в одной транзакции
	var (
		sessionID string
		booking   *domain.PendingBooking
	)
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		recorded, err := uc.ledger.Record(txCtx, ledgerEntry(n, domain.WebhookOutcomeSuccess))
		if err != nil {
			return fmt.Errorf("%w: record ledger: %v", ErrInternal, err)
		}
		if !recorded {
			return errLostRace
		}

		booking, err = uc.pendingRepo.GetByOrderID(txCtx, n.OrderID)
		if err != nil {
			return fmt.Errorf("%w: lock pending booking: %v", ErrInternal, err)
		}
		if booking.IsCompleted() {
			return errAlreadyCompleted
		}

		session, payment := buildRecords(booking, n, room)
		sessionID, err = uc.writer.Write(txCtx, session, payment)
		if err != nil {
			if errors.Is(err, records.ErrAlreadyRecorded) {
				return errAlreadyCompleted
			}
			return fmt.Errorf("%w: write records: %v", ErrInternal, err)
		}

		if err := uc.pendingRepo.MarkCompleted(txCtx, n.OrderID, sessionID); err != nil {
			if errors.Is(err, pendingRepo.ErrAlreadyCompleted) {
				return errAlreadyCompleted
			}
			return fmt.Errorf("%w: complete pending booking: %v", ErrInternal, err)
		}

		return nil
	})

	switch {
	case errors.Is(err, errLostRace):
		uc.logger.Info("ProcessNotification: order_id=%s claimed by a concurrent delivery", n.OrderID)
		uc.warnOrphanRoom(n.OrderID, room)
		return uc.finish(&Response{Outcome: OutcomeDuplicate}), nil
	case errors.Is(err, errAlreadyCompleted):
		uc.warnOrphanRoom(n.OrderID, room)
		var existing *string
		if booking != nil {
			existing = booking.SessionID
		}
		return uc.alreadyCompleted(ctx, n, existing, room), nil
	case err != nil:
		uc.logger.Error("ProcessNotification: provisioning failed for order_id=%s: %v", n.OrderID, err)
		uc.warnOrphanRoom(n.OrderID, room)
		return nil, err
	}

	uc.logger.Info("ProcessNotification: session=%s recorded for order_id=%s", sessionID, n.OrderID)

	// 10. Расписание; исход только в логи и метрики
	availabilityOutcome := uc.availability.MarkBooked(ctx, booking.TherapistID, booking.ScheduledTime)

	// 11. Событие для остальных сервисов
	event := domain.SessionProvisionedEvent{
		SessionID:           sessionID,
		OrderID:             n.OrderID,
		TherapistID:         booking.TherapistID,
		ClientID:            booking.ClientID,
		SessionType:         booking.SessionType,
		ScheduledTime:       booking.ScheduledTime,
		Source:              domain.SourceGateway,
		AvailabilityOutcome: string(availabilityOutcome),
		OccurredAt:          time.Now().UTC(),
	}
	if room != nil {
		event.RoomURL = room.URL
	}
	if err := uc.publisher.PublishJSON(ctx, domain.EventSessionProvisioned, event); err != nil {
		uc.logger.Warn("ProcessNotification: failed to publish %s for session=%s: %v",
			domain.EventSessionProvisioned, sessionID, err)
	}

	return uc.finish(&Response{
		Outcome:         OutcomeProcessed,
		SessionID:       sessionID,
		RoomProvisioned: room != nil,
	}), nil
}

// alreadyCompleted фиксирует уведомление в журнале и ничего больше не создает
func (uc *UseCase) alreadyCompleted(ctx context.Context, n *payhere.Notification, sessionID *string, room *daily.Room) *Response {
	if _, err := uc.ledger.Record(ctx, ledgerEntry(n, domain.WebhookOutcomeSuccess)); err != nil {
		uc.logger.Error("ProcessNotification: failed to record already-completed order_id=%s: %v", n.OrderID, err)
	}

	resp := &Response{Outcome: OutcomeAlreadyCompleted}
	if sessionID != nil {
		resp.SessionID = *sessionID
	}
	uc.logger.Info("ProcessNotification: pending booking for order_id=%s already completed, session=%s",
		n.OrderID, resp.SessionID)
	return uc.finish(resp)
}

// provisionRoom создает комнату для video/audio. nil при сбое или для chat.
func (uc *UseCase) provisionRoom(ctx context.Context, pending *domain.PendingBooking) *daily.Room {
	if !pending.SessionType.RequiresRoom() {
		return nil
	}

	expiresAt := daily.RoomExpiry(pending.ScheduledTime, uc.roomTTLHours)
	room, err := uc.rooms.CreateRoom(ctx, pending.SessionType, expiresAt)
	if err != nil {
		uc.logger.Error("ProcessNotification: room provisioning failed for order_id=%s, continuing without room: %v",
			pending.OrderID, err)
		uc.metrics.IncRoomProvisioning(string(pending.SessionType), "failed")
		return nil
	}

	uc.metrics.IncRoomProvisioning(string(pending.SessionType), "created")
	return room
}

func (uc *UseCase) warnOrphanRoom(orderID string, room *daily.Room) {
	if room == nil {
		return
	}
	// TODO: удалять комнату через DELETE /rooms/{name}, когда появится очистка сессий
	uc.logger.Warn("ProcessNotification: room %s for order_id=%s is not attached to any session", room.Name, orderID)
}

func (uc *UseCase) finish(resp *Response) *Response {
	uc.metrics.IncPipelineOutcome(domain.SourceGateway, string(resp.Outcome))
	return resp
}

func ledgerEntry(n *payhere.Notification, outcome domain.WebhookOutcome) *domain.WebhookLog {
	return &domain.WebhookLog{
		OrderID:    n.OrderID,
		PaymentID:  n.PaymentID,
		StatusCode: n.StatusCode,
		Outcome:    outcome,
		Payload:    n.Payload(),
	}
}

// buildRecords собирает сессию и платеж из бронирования и уведомления
func buildRecords(b *domain.PendingBooking, n *payhere.Notification, room *daily.Room) (*domain.Session, *domain.Payment) {
	session := &domain.Session{
		TherapistID:       b.TherapistID,
		ClientID:          b.ClientID,
		SessionType:       b.SessionType,
		ScheduledTime:     b.ScheduledTime,
		DurationMinutes:   b.DurationMinutes,
		OrderID:           n.OrderID,
		ExternalPaymentID: n.PaymentID,
	}
	if room != nil {
		session.RoomURL = room.URL
		session.RoomName = room.Name
	}

	// сумма уже проверена при валидации
	amount, _ := strconv.ParseFloat(n.Amount, 64)
	payment := &domain.Payment{
		OrderID:           n.OrderID,
		ExternalPaymentID: n.PaymentID,
		Amount:            amount,
		Currency:          n.Currency,
		Method:            n.Method,
		CouponCode:        b.CouponCode,
		DiscountAmount:    b.DiscountAmount,
	}
	if b.DiscountAmount > 0 {
		original := amount + b.DiscountAmount
		payment.OriginalAmount = &original
	}

	return session, payment
}
