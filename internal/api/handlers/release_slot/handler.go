package release_slot

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

const (
	msgUnauthorized     = "unauthorized"
	msgForbidden        = "only staff with edit rights can release slots"
	msgSlotNotFound     = "slot not found"
	msgAlreadyAvailable = "slot is already available"
	msgSlotChanged      = "slot was changed by someone else, reload the agenda"
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

// Handle POST /api/v1/slots/{slotId}/release
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /slots/{id}/release - Unauthorized access attempt")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	slotID := mux.Vars(r)["slotId"]

	slot, err := h.useCase.ReleaseSlot(r.Context(), actor, slotID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			h.logger.Warn("POST /slots/{id}/release - Forbidden: user_id=%d, slot_id=%s", actor.UserID, slotID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("POST /slots/{id}/release - Slot not found: slot_id=%s", slotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, domain.ErrInvalidTransition):
			h.logger.Warn("POST /slots/{id}/release - Nothing to release: slot_id=%s", slotID)
			handlers.RespondConflict(w, msgAlreadyAvailable)

		case errors.Is(err, domain.ErrSlotUnavailable):
			h.logger.Warn("POST /slots/{id}/release - Concurrent change: slot_id=%s, error=%v", slotID, err)
			handlers.RespondConflict(w, msgSlotChanged)

		default:
			h.logger.Error("POST /slots/{id}/release - Failed to release slot: slot_id=%s, error=%v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /slots/{id}/release - Slot released: slot_id=%s, user_id=%d", slot.ID, actor.UserID)
	handlers.RespondJSON(w, http.StatusOK, handlers.NewSlotResponse(slot))
}
