package payment_status

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SessionService/internal/api/handlers"
	"github.com/m04kA/SMC-SessionService/internal/service/payments"
	"github.com/m04kA/SMC-SessionService/internal/service/payments/models"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgMisconfigured      = "payment gateway is not configured"
	msgGatewayUnavailable = "payment gateway is unavailable, please retry"
)

type Handler struct {
	service PaymentsService
	logger  Logger
}

func NewHandler(service PaymentsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/payments/status
// Только чтение: сессии здесь не создаются, это делает уведомление шлюза или прямое бронирование.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.PaymentStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payments/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.CheckStatus(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrInvalidInput):
			h.logger.Warn("POST /payments/status - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, payments.ErrMisconfigured):
			h.logger.Error("POST /payments/status - Gateway credentials rejected: %v", err)
			handlers.RespondError(w, http.StatusInternalServerError, msgMisconfigured)

		case errors.Is(err, payments.ErrGatewayUnavailable):
			h.logger.Error("POST /payments/status - Gateway unavailable: order_id=%s, error=%v", req.OrderID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgGatewayUnavailable)

		default:
			h.logger.Error("POST /payments/status - Failed to check status: order_id=%s, error=%v", req.OrderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/status - order_id=%s, success=%t, status=%s", resp.OrderID, resp.Success, resp.Status)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
