package payments

import (
	"context"

	"github.com/m04kA/SMC-SessionService/internal/integrations/payhere"
)

// HashIssuer интерфейс выдачи хешей для оплаты
type HashIssuer interface {
	Configured() bool
	MerchantID() string
	CheckoutHash(orderID string, amount float64, currency string) string
}

// StatusClient интерфейс сверки статуса оплаты в шлюзе
type StatusClient interface {
	GetPaymentStatus(ctx context.Context, orderID string) (*payhere.PaymentStatus, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
