package payment_notify

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-SessionService/internal/integrations/payhere"
)

// maxBodyBytes уведомление шлюза укладывается в несколько килобайт
const maxBodyBytes = 64 << 10

// parseNotification читает уведомление из form-urlencoded или JSON тела.
// Числа в JSON сохраняются как есть: сумма участвует в подписи в исходном виде.
func parseNotification(w http.ResponseWriter, r *http.Request) (*payhere.Notification, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		values, err := decodeJSONValues(r)
		if err != nil {
			return nil, err
		}
		n := payhere.NotificationFromValues(values)
		return &n, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}
	n := payhere.NotificationFromValues(r.PostForm)
	return &n, nil
}

func decodeJSONValues(r *http.Request) (url.Values, error) {
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	values := url.Values{}
	for key, v := range raw {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			values.Set(key, val)
		case json.Number:
			values.Set(key, val.String())
		case bool:
			values.Set(key, strconv.FormatBool(val))
		default:
			// вложенные объекты шлюз не присылает
			continue
		}
	}
	return values, nil
}
