package create_session

import "errors"

var (
	// ErrUnauthenticated возвращается, когда не известен вызывающий клиент
	ErrUnauthenticated = errors.New("create_session: caller is not authenticated")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_session: invalid input data")

	// ErrTherapistNotFound возвращается, когда терапевт не найден
	ErrTherapistNotFound = errors.New("create_session: therapist not found")

	// ErrTherapistInactive возвращается, когда терапевт не принимает записи
	ErrTherapistInactive = errors.New("create_session: therapist is not active")

	// ErrSlotNotAvailable возвращается, когда слот уже занят
	ErrSlotNotAvailable = errors.New("create_session: time slot is not available")

	// ErrRoomProvisioning возвращается, когда не удалось создать комнату для звонка
	ErrRoomProvisioning = errors.New("create_session: failed to provision call room")

	// ErrOrderNotOwned возвращается, когда заказ оформлен другим клиентом
	ErrOrderNotOwned = errors.New("create_session: order belongs to another client")

	// ErrBookingMismatch возвращается, когда терапевт, время или тип сессии не совпадают с заказом
	ErrBookingMismatch = errors.New("create_session: booking does not match the order")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("create_session: internal error")

	errAlreadyCompleted = errors.New("create_session: order already provisioned")
)
