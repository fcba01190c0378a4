package issue_hash

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

// Handle POST /api/v1/payments/hash
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.IssueHashRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payments/hash - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.IssueHash(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrInvalidInput):
			h.logger.Warn("POST /payments/hash - Invalid input: order_id=%s, error=%v", req.OrderID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, payments.ErrMisconfigured):
			h.logger.Error("POST /payments/hash - Merchant secret is not configured")
			handlers.RespondError(w, http.StatusInternalServerError, msgMisconfigured)

		default:
			h.logger.Error("POST /payments/hash - Failed to issue hash: order_id=%s, error=%v", req.OrderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
