package payhere

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"strconv"
	"strings"
)

// NotificationSignature подпись уведомления шлюза:
// upper(md5(merchant_id + order_id + amount + currency + status_code + upper(md5(secret))))
func NotificationSignature(merchantID, orderID, amount, currency, statusCode, secret string) string {
	return md5Upper(merchantID + orderID + amount + currency + statusCode + md5Upper(secret))
}

// CheckoutHash хеш для перенаправления клиента на оплату, та же конструкция без status_code
func CheckoutHash(merchantID, orderID, amount, currency, secret string) string {
	return md5Upper(merchantID + orderID + amount + currency + md5Upper(secret))
}

// FormatAmount форматирует сумму так, как ее ожидает шлюз ("1500.00")
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

func md5Upper(value string) string {
	sum := md5.Sum([]byte(value))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// Authenticator проверяет подлинность уведомлений и выдает хеши для оплаты
type Authenticator struct {
	merchantID string
	secret     string
}

// NewAuthenticator создает аутентификатор для мерчанта
func NewAuthenticator(merchantID, secret string) *Authenticator {
	return &Authenticator{merchantID: merchantID, secret: secret}
}

// Configured сообщает, задан ли секрет мерчанта
func (a *Authenticator) Configured() bool {
	return a.secret != ""
}

// MerchantID идентификатор мерчанта
func (a *Authenticator) MerchantID() string {
	return a.merchantID
}

// Verify пересчитывает подпись уведомления и сравнивает ее с md5sig.
// Несовпадение это обычный отказ, а не ошибка.
func (a *Authenticator) Verify(n Notification) bool {
	if !a.Configured() {
		return false
	}
	if a.merchantID != "" && n.MerchantID != a.merchantID {
		return false
	}

	expected := NotificationSignature(n.MerchantID, n.OrderID, n.Amount, n.Currency, n.StatusCode, a.secret)
	supplied := strings.ToUpper(strings.TrimSpace(n.MD5Sig))

	return subtle.ConstantTimeCompare([]byte(expected), []byte(supplied)) == 1
}

// CheckoutHash выдает хеш для заказа с суммой, отформатированной до двух знаков
func (a *Authenticator) CheckoutHash(orderID string, amount float64, currency string) string {
	return CheckoutHash(a.merchantID, orderID, FormatAmount(amount), currency, a.secret)
}
