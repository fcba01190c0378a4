package payhere

import (
	"encoding/json"
	"net/url"
)

// Статусы уведомлений шлюза
const (
	StatusSuccess    = "2"
	StatusPending    = "0"
	StatusCancelled  = "-1"
	StatusFailed     = "-2"
	StatusChargeback = "-3"
)

// Notification уведомление об оплате (server callback шлюза)
type Notification struct {
	MerchantID    string
	OrderID       string
	PaymentID     string
	Amount        string // в том виде, в каком пришло: участвует в подписи
	Currency      string
	StatusCode    string
	MD5Sig        string
	Custom1       string
	Custom2       string
	Method        string
	StatusMessage string
	CardHolder    string
	CardNo        string
	CardExpiry    string
}

// NotificationFromValues собирает уведомление из полей формы
func NotificationFromValues(v url.Values) Notification {
	return Notification{
		MerchantID:    v.Get("merchant_id"),
		OrderID:       v.Get("order_id"),
		PaymentID:     v.Get("payment_id"),
		Amount:        v.Get("payhere_amount"),
		Currency:      v.Get("payhere_currency"),
		StatusCode:    v.Get("status_code"),
		MD5Sig:        v.Get("md5sig"),
		Custom1:       v.Get("custom_1"),
		Custom2:       v.Get("custom_2"),
		Method:        v.Get("method"),
		StatusMessage: v.Get("status_message"),
		CardHolder:    v.Get("card_holder_name"),
		CardNo:        v.Get("card_no"),
		CardExpiry:    v.Get("card_expiry"),
	}
}

// IsSuccess true, если шлюз сообщил об успешной оплате
func (n Notification) IsSuccess() bool {
	return n.StatusCode == StatusSuccess
}

// Payload сырое содержимое уведомления для журнала идемпотентности
func (n Notification) Payload() json.RawMessage {
	fields := map[string]string{
		"merchant_id":      n.MerchantID,
		"order_id":         n.OrderID,
		"payment_id":       n.PaymentID,
		"payhere_amount":   n.Amount,
		"payhere_currency": n.Currency,
		"status_code":      n.StatusCode,
		"md5sig":           n.MD5Sig,
		"custom_1":         n.Custom1,
		"custom_2":         n.Custom2,
		"method":           n.Method,
		"status_message":   n.StatusMessage,
		"card_holder_name": n.CardHolder,
		"card_no":          n.CardNo,
		"card_expiry":      n.CardExpiry,
	}
	for k, v := range fields {
		if v == "" {
			delete(fields, k)
		}
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return json.RawMessage("{}")
	}
	return raw
}

// PaymentRecord платеж из API поиска платежей
type PaymentRecord struct {
	PaymentID   json.Number `json:"payment_id"`
	OrderID     string      `json:"order_id"`
	Date        string      `json:"date"`
	Description string      `json:"description"`
	Status      string      `json:"status"`
	Currency    string      `json:"currency"`
	Amount      float64     `json:"amount"`
	Method      string      `json:"method"`
}

// searchResponse ответ API поиска платежей
type searchResponse struct {
	Status int             `json:"status"`
	Msg    string          `json:"msg"`
	Data   []PaymentRecord `json:"data"`
}

// PaymentStatus результат сверки статуса оплаты по order id
type PaymentStatus struct {
	OrderID   string
	Found     bool
	Success   bool
	Status    string
	PaymentID string
	Amount    float64
	Currency  string
}

// successfulStatuses статусы API, означающие успешную оплату
var successfulStatuses = map[string]bool{
	"RECEIVED":   true,
	"SUCCESS":    true,
	"AUTHORIZED": true,
}

// IsSuccessfulStatus сообщает, означает ли статус API успешную оплату
func IsSuccessfulStatus(status string) bool {
	return successfulStatuses[status]
}
