package records

import "errors"

var (
	// ErrInvalidRecord возвращается, когда у сессии не хватает обязательных полей
	ErrInvalidRecord = errors.New("records: invalid session record")

	// ErrAlreadyRecorded возвращается, когда платеж по заказу уже записан
	ErrAlreadyRecorded = errors.New("records: payment for order already recorded")

	// ErrInternal возвращается при ошибках записи
	ErrInternal = errors.New("records: internal error")
)
