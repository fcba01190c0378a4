package create_session

import (
	createSession "github.com/m04kA/SMC-SessionService/internal/usecase/create_session"
)

// CreateSessionRequest HTTP request model
type CreateSessionRequest struct {
	BookingData struct {
		TherapistID string `json:"therapistId"`
		SessionTime string `json:"sessionTime"`
		SessionType string `json:"sessionType"`
		Duration    int    `json:"duration"`
	} `json:"bookingData"`
	PaymentData struct {
		OrderID        string   `json:"orderId"`
		BookingID      string   `json:"bookingId"`
		PaymentID      string   `json:"paymentId"`
		Amount         float64  `json:"amount"`
		Currency       string   `json:"currency"`
		Method         string   `json:"method"`
		CouponCode     *string  `json:"couponCode,omitempty"`
		DiscountAmount float64  `json:"discountAmount"`
		OriginalAmount *float64 `json:"originalAmount,omitempty"`
	} `json:"paymentData"`
}

// CreateSessionResponse HTTP response model
type CreateSessionResponse struct {
	SessionID string `json:"sessionId"`
	Success   bool   `json:"success"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateSessionRequest) ToUseCaseRequest(clientID string) *createSession.Request {
	return &createSession.Request{
		ClientID: clientID,
		BookingData: createSession.BookingData{
			TherapistID: r.BookingData.TherapistID,
			SessionTime: r.BookingData.SessionTime,
			SessionType: r.BookingData.SessionType,
			Duration:    r.BookingData.Duration,
		},
		PaymentData: createSession.PaymentData{
			OrderID:        r.PaymentData.OrderID,
			BookingID:      r.PaymentData.BookingID,
			PaymentID:      r.PaymentData.PaymentID,
			Amount:         r.PaymentData.Amount,
			Currency:       r.PaymentData.Currency,
			Method:         r.PaymentData.Method,
			CouponCode:     r.PaymentData.CouponCode,
			DiscountAmount: r.PaymentData.DiscountAmount,
			OriginalAmount: r.PaymentData.OriginalAmount,
		},
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createSession.Response) *CreateSessionResponse {
	return &CreateSessionResponse{
		SessionID: resp.SessionID,
		Success:   resp.Success,
	}
}
