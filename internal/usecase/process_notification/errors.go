package process_notification

import "errors"

var (
	// ErrInvalidInput возвращается, когда в уведомлении нет обязательных полей
	ErrInvalidInput = errors.New("process_notification: invalid notification")

	// ErrMisconfigured возвращается, когда не задан секрет мерчанта
	ErrMisconfigured = errors.New("process_notification: merchant secret is not configured")

	// ErrInvalidSignature возвращается, когда подпись уведомления не совпала
	ErrInvalidSignature = errors.New("process_notification: invalid signature")

	// ErrPendingBookingNotFound возвращается, когда для заказа нет ожидающего бронирования
	ErrPendingBookingNotFound = errors.New("process_notification: pending booking not found")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("process_notification: internal error")

	// внутренние сигналы транзакции, наружу не выходят
	errLostRace         = errors.New("process_notification: order claimed by another delivery")
	errAlreadyCompleted = errors.New("process_notification: pending booking already completed")
)
