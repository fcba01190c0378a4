package payment_notify

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SessionService/internal/api/handlers"
	processNotification "github.com/m04kA/SMC-SessionService/internal/usecase/process_notification"
)

// Ответы шлюзу, plain text
const (
	textOK                  = "OK"
	textDuplicate           = "OK (Duplicate)"
	textInvalidSignature    = "Invalid signature"
	textInvalidRequest      = "Invalid request"
	textPendingNotFound     = "Pending booking not found"
	textServerMisconfigured = "Server misconfiguration"
	textInternalError       = "Internal error"
)

type Handler struct {
	useCase ProcessNotificationUseCase
	logger  Logger
}

func NewHandler(useCase ProcessNotificationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/payments/notify
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	notification, err := parseNotification(w, r)
	if err != nil {
		h.logger.Warn("POST /payments/notify - Invalid request body: %v", err)
		handlers.RespondText(w, http.StatusBadRequest, textInvalidRequest)
		return
	}

	result, err := h.useCase.Execute(r.Context(), notification)
	if err != nil {
		switch {
		case errors.Is(err, processNotification.ErrInvalidInput):
			h.logger.Warn("POST /payments/notify - Invalid notification: %v", err)
			handlers.RespondText(w, http.StatusBadRequest, textInvalidRequest)

		case errors.Is(err, processNotification.ErrInvalidSignature):
			h.logger.Warn("POST /payments/notify - Invalid signature: order_id=%s", notification.OrderID)
			handlers.RespondText(w, http.StatusBadRequest, textInvalidSignature)

		case errors.Is(err, processNotification.ErrPendingBookingNotFound):
			h.logger.Warn("POST /payments/notify - Pending booking not found: order_id=%s", notification.OrderID)
			handlers.RespondText(w, http.StatusNotFound, textPendingNotFound)

		case errors.Is(err, processNotification.ErrMisconfigured):
			h.logger.Error("POST /payments/notify - Merchant secret is not configured")
			handlers.RespondText(w, http.StatusInternalServerError, textServerMisconfigured)

		default:
			h.logger.Error("POST /payments/notify - Failed to process notification: order_id=%s, error=%v",
				notification.OrderID, err)
			handlers.RespondText(w, http.StatusInternalServerError, textInternalError)
		}
		return
	}

	if result.Outcome == processNotification.OutcomeDuplicate {
		h.logger.Info("POST /payments/notify - Duplicate notification: order_id=%s", notification.OrderID)
		handlers.RespondText(w, http.StatusOK, textDuplicate)
		return
	}

	h.logger.Info("POST /payments/notify - Notification handled: order_id=%s, outcome=%s, session=%s",
		notification.OrderID, result.Outcome, result.SessionID)
	handlers.RespondText(w, http.StatusOK, textOK)
}
