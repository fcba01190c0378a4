package availability

import "errors"

var (
	// ErrAvailabilityNotFound возвращается, когда у терапевта нет документа расписания
	ErrAvailabilityNotFound = errors.New("availability.repository: availability not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("availability.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("availability.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("availability.repository: failed to scan row")

	// ErrInvalidDocument возвращается, когда JSONB расписания не удается разобрать или собрать
	ErrInvalidDocument = errors.New("availability.repository: invalid availability document")
)
