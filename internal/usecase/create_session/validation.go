package create_session

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SessionService/internal/domain"
)

// maxDurationMinutes верхняя граница длительности одной сессии
const maxDurationMinutes = 240

// validateRequest валидирует входные данные и разбирает время сессии
func validateRequest(req *Request) (*booking, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: empty request", ErrInvalidInput)
	}

	if strings.TrimSpace(req.ClientID) == "" {
		return nil, ErrUnauthenticated
	}

	b := &booking{
		therapistID: strings.TrimSpace(req.BookingData.TherapistID),
		sessionType: domain.SessionType(req.BookingData.SessionType),
		duration:    req.BookingData.Duration,
	}

	if b.therapistID == "" {
		return nil, fmt.Errorf("%w: therapistId is required", ErrInvalidInput)
	}

	if !b.sessionType.IsValid() {
		return nil, fmt.Errorf("%w: sessionType must be one of video, audio, chat", ErrInvalidInput)
	}

	if b.duration <= 0 || b.duration > maxDurationMinutes {
		return nil, fmt.Errorf("%w: duration must be between 1 and %d minutes", ErrInvalidInput, maxDurationMinutes)
	}

	scheduled, err := time.Parse(time.RFC3339, req.BookingData.SessionTime)
	if err != nil {
		return nil, fmt.Errorf("%w: sessionTime must be RFC3339: %v", ErrInvalidInput, err)
	}
	b.scheduled = scheduled.UTC()

	b.orderID = strings.TrimSpace(req.PaymentData.OrderID)
	if b.orderID == "" {
		b.orderID = strings.TrimSpace(req.PaymentData.BookingID)
	}
	if b.orderID == "" {
		return nil, fmt.Errorf("%w: paymentData.orderId or paymentData.bookingId is required", ErrInvalidInput)
	}

	if req.PaymentData.Amount < 0 || req.PaymentData.DiscountAmount < 0 {
		return nil, fmt.Errorf("%w: amounts must not be negative", ErrInvalidInput)
	}

	return b, nil
}
