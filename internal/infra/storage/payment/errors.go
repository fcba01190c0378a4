package payment

import "errors"

var (
	// ErrDuplicateOrder возвращается, когда платеж для order id уже существует
	ErrDuplicateOrder = errors.New("payment.repository: payment for order already exists")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("payment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("payment.repository: failed to execute query")
)
