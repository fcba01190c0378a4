package issue_hash

import (
	"context"

	"github.com/m04kA/SMC-SessionService/internal/service/payments/models"
)

type PaymentsService interface {
	IssueHash(ctx context.Context, req *models.IssueHashRequest) (*models.IssueHashResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
