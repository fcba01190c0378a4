package payment_notify

import (
	"context"

	"github.com/m04kA/SMC-SessionService/internal/integrations/payhere"
	processNotification "github.com/m04kA/SMC-SessionService/internal/usecase/process_notification"
)

type ProcessNotificationUseCase interface {
	Execute(ctx context.Context, n *payhere.Notification) (*processNotification.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
