package pendingbooking

import "errors"

var (
	// ErrPendingBookingNotFound возвращается, когда для заказа нет ожидающего бронирования
	ErrPendingBookingNotFound = errors.New("pendingbooking.repository: pending booking not found")

	// ErrAlreadyCompleted возвращается, когда бронирование уже переведено в completed
	ErrAlreadyCompleted = errors.New("pendingbooking.repository: pending booking already completed")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("pendingbooking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("pendingbooking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("pendingbooking.repository: failed to scan row")
)
