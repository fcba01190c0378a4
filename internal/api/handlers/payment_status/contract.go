package payment_status

import (
	"context"

	"github.com/m04kA/SMC-SessionService/internal/service/payments/models"
)

type PaymentsService interface {
	CheckStatus(ctx context.Context, req *models.PaymentStatusRequest) (*models.PaymentStatusResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
