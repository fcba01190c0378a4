package create_session

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SessionService/internal/api/handlers"
	"github.com/m04kA/SMC-SessionService/internal/api/middleware"
	createSession "github.com/m04kA/SMC-SessionService/internal/usecase/create_session"
)

const (
	msgMissingUserID      = "caller identity is required"
	msgInvalidRequestBody = "invalid request body"
	msgTherapistNotFound  = "therapist not found"
	msgTherapistInactive  = "therapist is not accepting bookings"
	msgSlotNotAvailable   = "the selected time slot is no longer available"
	msgRoomProvisioning   = "failed to create the call room, please retry"
	msgOrderNotOwned      = "the order belongs to another client"
	msgBookingMismatch    = "the booking does not match the paid order"
)

type Handler struct {
	useCase CreateSessionUseCase
	logger  Logger
}

func NewHandler(useCase CreateSessionUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/sessions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /sessions - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateSessionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /sessions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(clientID))
	if err != nil {
		switch {
		case errors.Is(err, createSession.ErrUnauthenticated):
			handlers.RespondUnauthorized(w, msgMissingUserID)

		case errors.Is(err, createSession.ErrInvalidInput):
			h.logger.Warn("POST /sessions - Invalid input: client=%s, error=%v", clientID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, createSession.ErrTherapistNotFound):
			h.logger.Warn("POST /sessions - Therapist not found: therapist=%s", req.BookingData.TherapistID)
			handlers.RespondNotFound(w, msgTherapistNotFound)

		case errors.Is(err, createSession.ErrTherapistInactive):
			h.logger.Warn("POST /sessions - Therapist inactive: therapist=%s", req.BookingData.TherapistID)
			handlers.RespondPreconditionFailed(w, msgTherapistInactive)

		case errors.Is(err, createSession.ErrSlotNotAvailable):
			h.logger.Warn("POST /sessions - Slot not available: client=%s, therapist=%s",
				clientID, req.BookingData.TherapistID)
			handlers.RespondPreconditionFailed(w, msgSlotNotAvailable)

		case errors.Is(err, createSession.ErrOrderNotOwned):
			h.logger.Warn("POST /sessions - Order not owned: client=%s, order_id=%s", clientID, req.PaymentData.OrderID)
			handlers.RespondPreconditionFailed(w, msgOrderNotOwned)

		case errors.Is(err, createSession.ErrBookingMismatch):
			h.logger.Warn("POST /sessions - Booking mismatch: client=%s, error=%v", clientID, err)
			handlers.RespondPreconditionFailed(w, msgBookingMismatch)

		case errors.Is(err, createSession.ErrRoomProvisioning):
			h.logger.Error("POST /sessions - Room provisioning failed: client=%s, error=%v", clientID, err)
			handlers.RespondError(w, http.StatusInternalServerError, msgRoomProvisioning)

		default:
			h.logger.Error("POST /sessions - Failed to create session: client=%s, error=%v", clientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /sessions - Session created: session=%s, client=%s", result.SessionID, clientID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
