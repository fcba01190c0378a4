package process_notification

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-SessionService/internal/integrations/payhere"
)

// validateNotification проверяет обязательные поля уведомления
func validateNotification(n *payhere.Notification) error {
	if n == nil {
		return fmt.Errorf("%w: empty notification", ErrInvalidInput)
	}

	required := []struct {
		name  string
		value string
	}{
		{"merchant_id", n.MerchantID},
		{"order_id", n.OrderID},
		{"payhere_amount", n.Amount},
		{"payhere_currency", n.Currency},
		{"status_code", n.StatusCode},
		{"md5sig", n.MD5Sig},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidInput, field.name)
		}
	}

	if _, err := strconv.ParseFloat(n.Amount, 64); err != nil {
		return fmt.Errorf("%w: payhere_amount %q is not a number", ErrInvalidInput, n.Amount)
	}

	return nil
}
