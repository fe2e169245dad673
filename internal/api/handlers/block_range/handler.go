package block_range

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/slots"
)

const (
	msgInvalidSalonID     = "invalid salon id"
	msgInvalidRequestBody = "invalid request body"
	msgInvalidDateTime    = "invalid date or time format, expected YYYY-MM-DD and HH:MM"
	msgInvalidBlock       = "invalid block range"
	msgUnauthorized       = "unauthorized"
	msgForbidden          = "only staff with edit rights can block time"
	msgSalonNotFound      = "salon not found"
	msgEmployeeNotFound   = "employee not found"
	msgRangeOccupied      = "the range overlaps an existing reservation or block"
)

type Handler struct {
	useCase AgendaUseCase
	logger  Logger
}

func NewHandler(useCase AgendaUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/salons/{salonId}/blocks
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /salons/{id}/blocks - Unauthorized access attempt")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	salonID, err := strconv.ParseInt(mux.Vars(r)["salonId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /salons/{id}/blocks - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	var req BlockRangeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /salons/{id}/blocks - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(salonID)
	if err != nil {
		h.logger.Warn("POST /salons/{id}/blocks - Invalid date or time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	slot, err := h.useCase.BlockRange(r.Context(), actor, useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			h.logger.Warn("POST /salons/{id}/blocks - Forbidden: user_id=%d", actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, slots.ErrSalonNotFound):
			h.logger.Warn("POST /salons/{id}/blocks - Salon not found: salon_id=%d", salonID)
			handlers.RespondNotFound(w, msgSalonNotFound)

		case errors.Is(err, slots.ErrEmployeeNotFound):
			h.logger.Warn("POST /salons/{id}/blocks - Employee not found: salon_id=%d, employee_id=%d", salonID, req.EmployeeID)
			handlers.RespondNotFound(w, msgEmployeeNotFound)

		case errors.Is(err, domain.ErrSlotUnavailable):
			h.logger.Warn("POST /salons/{id}/blocks - Range occupied: %v", err)
			handlers.RespondConflict(w, msgRangeOccupied)

		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("POST /salons/{id}/blocks - Invalid block: %v", err)
			handlers.RespondBadRequest(w, msgInvalidBlock)

		default:
			h.logger.Error("POST /salons/{id}/blocks - Failed to block range: salon_id=%d, error=%v", salonID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /salons/{id}/blocks - Range blocked: slot_id=%s, user_id=%d", slot.ID, actor.UserID)
	handlers.RespondJSON(w, http.StatusCreated, handlers.NewSlotResponse(slot))
}
