package create_session

import (
	"time"

	"github.com/m04kA/SMC-SessionService/internal/domain"
)

// BookingData данные бронирования от клиента
type BookingData struct {
	TherapistID string `json:"therapistId"`
	SessionTime string `json:"sessionTime"` // RFC3339
	SessionType string `json:"sessionType"`
	Duration    int    `json:"duration"` // минуты
}

// PaymentData данные оплаты; bookingId и orderId синонимы
type PaymentData struct {
	OrderID        string   `json:"orderId"`
	BookingID      string   `json:"bookingId"`
	PaymentID      string   `json:"paymentId"`
	Amount         float64  `json:"amount"`
	Currency       string   `json:"currency"`
	Method         string   `json:"method"`
	CouponCode     *string  `json:"couponCode,omitempty"`
	DiscountAmount float64  `json:"discountAmount"`
	OriginalAmount *float64 `json:"originalAmount,omitempty"`
}

// Request запрос на создание сессии
type Request struct {
	ClientID    string      `json:"-"` // из заголовка X-User-ID
	BookingData BookingData `json:"bookingData"`
	PaymentData PaymentData `json:"paymentData"`
}

// Response результат создания сессии
type Response struct {
	SessionID string `json:"sessionId"`
	Success   bool   `json:"success"`
}

// booking разобранный и проверенный запрос
type booking struct {
	orderID     string
	therapistID string
	sessionType domain.SessionType
	scheduled   time.Time
	duration    int
}
