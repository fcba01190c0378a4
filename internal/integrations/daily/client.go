package daily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/m04kA/SMC-SessionService/internal/domain"
)

// Client клиент провайдера видеокомнат
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента
func NewClient(baseURL, apiKey string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// CreateRoom создает приватную комнату на двоих, которая истекает в expiresAt.
// Для аудио видео по умолчанию выключено, демонстрация экрана только для видео.
func (c *Client) CreateRoom(ctx context.Context, sessionType domain.SessionType, expiresAt time.Time) (*Room, error) {
	if !sessionType.RequiresRoom() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSessionType, sessionType)
	}

	payload := createRoomRequest{
		Privacy: "private",
		Properties: roomProperties{
			Exp:               expiresAt.Unix(),
			MaxParticipants:   MaxParticipants,
			EnableChat:        true,
			EnableScreenshare: sessionType == domain.SessionTypeVideo,
			StartVideoOff:     sessionType == domain.SessionTypeAudio,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rooms", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	default:
		var errResp errorResponse
		raw, _ := io.ReadAll(resp.Body)
		if jsonErr := json.Unmarshal(raw, &errResp); jsonErr == nil && errResp.Error != "" {
			return nil, fmt.Errorf("%w: status %d: %s: %s", ErrInvalidResponse, resp.StatusCode, errResp.Error, errResp.Info)
		}
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(raw))
	}

	var room Room
	if err := json.NewDecoder(resp.Body).Decode(&room); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	if room.URL == "" || room.Name == "" {
		return nil, fmt.Errorf("%w: room url or name is empty", ErrInvalidResponse)
	}

	c.log.Info("Daily room created: name=%s, type=%s, expires_at=%s", room.Name, sessionType, expiresAt.UTC().Format(time.RFC3339))
	return &room, nil
}

// RoomExpiry время истечения комнаты для сессии
func RoomExpiry(scheduled time.Time, ttlHours int) time.Time {
	if ttlHours <= 0 {
		ttlHours = domain.RoomTTLHours
	}
	return scheduled.Add(time.Duration(ttlHours) * time.Hour)
}
