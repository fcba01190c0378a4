package payhere

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	tokenPath  = "/merchant/v1/oauth/token"
	searchPath = "/merchant/v1/payment/search"
)

// Client клиент Merchant API шлюза (сверка статуса оплаты)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает клиента с OAuth client credentials (App ID / App Secret)
func NewClient(baseURL, appID, appSecret string, timeout time.Duration, log Logger) *Client {
	baseURL = strings.TrimRight(baseURL, "/")

	credentials := clientcredentials.Config{
		ClientID:     appID,
		ClientSecret: appSecret,
		TokenURL:     baseURL + tokenPath,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	// Таймаут нужен и для запроса токена
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: timeout})
	httpClient := credentials.Client(tokenCtx)
	httpClient.Timeout = timeout

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		log:        log,
	}
}

// SearchPayments ищет платежи по order id
func (c *Client) SearchPayments(ctx context.Context, orderID string) ([]PaymentRecord, error) {
	endpoint := fmt.Sprintf("%s%s?order_id=%s", c.baseURL, searchPath, url.QueryEscape(orderID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	// status < 0 означает, что по заказу нет платежей
	if result.Status < 0 {
		c.log.Info("PayHere search returned no payments for order_id=%s: %s", orderID, result.Msg)
		return nil, nil
	}

	return result.Data, nil
}

// GetPaymentStatus сводит результаты поиска в один статус
func (c *Client) GetPaymentStatus(ctx context.Context, orderID string) (*PaymentStatus, error) {
	records, err := c.SearchPayments(ctx, orderID)
	if err != nil {
		return nil, err
	}

	status := &PaymentStatus{OrderID: orderID}
	if len(records) == 0 {
		return status, nil
	}

	// Приоритет у успешного платежа, иначе берем первый
	chosen := records[0]
	for _, rec := range records {
		if IsSuccessfulStatus(rec.Status) {
			chosen = rec
			break
		}
	}

	status.Found = true
	status.Success = IsSuccessfulStatus(chosen.Status)
	status.Status = chosen.Status
	status.PaymentID = chosen.PaymentID.String()
	status.Amount = chosen.Amount
	status.Currency = chosen.Currency

	return status, nil
}
