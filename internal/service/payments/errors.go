package payments

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("payments: invalid input data")

	// ErrMisconfigured возвращается, когда не заданы учетные данные мерчанта
	ErrMisconfigured = errors.New("payments: merchant credentials are not configured")

	// ErrGatewayUnavailable возвращается, когда шлюз не ответил корректно
	ErrGatewayUnavailable = errors.New("payments: gateway unavailable")
)
