package get_slot

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

const (
	msgSlotNotFound = "slot not found"
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

// Handle GET /api/v1/slots/{slotId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotID := mux.Vars(r)["slotId"]

	detail, err := h.useCase.ViewDetail(r.Context(), slotID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.logger.Warn("GET /slots/{id} - Slot not found: slot_id=%s", slotID)
			handlers.RespondNotFound(w, msgSlotNotFound)
			return
		}
		h.logger.Error("GET /slots/{id} - Failed to get slot: slot_id=%s, error=%v", slotID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /slots/{id} - Slot retrieved: slot_id=%s", slotID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(detail))
}
