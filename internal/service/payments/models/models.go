package models

// IssueHashRequest запрос хеша для перенаправления на оплату
type IssueHashRequest struct {
	OrderID  string  `json:"orderId"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// IssueHashResponse хеш и мерчант для формы оплаты
type IssueHashResponse struct {
	Hash       string `json:"hash"`
	MerchantID string `json:"merchantId"`
	Amount     string `json:"amount"`
}

// PaymentStatusRequest запрос статуса оплаты
type PaymentStatusRequest struct {
	OrderID string `json:"orderId"`
}

// PaymentStatusResponse статус оплаты по данным шлюза
type PaymentStatusResponse struct {
	OrderID   string `json:"orderId"`
	Success   bool   `json:"success"`
	Status    string `json:"status"`
	PaymentID string `json:"paymentId,omitempty"`
}
