package get_agenda

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBookingService/internal/usecase/agenda"
)

const (
	msgInvalidSalonID = "invalid salon id"
	msgMissingRange   = "from and to are required"
	msgInvalidDate    = "invalid date format, expected YYYY-MM-DD"
	msgInvalidRange   = "invalid date range"
	msgInvalidFilter  = "employee and service filters must be \"all\" or a numeric id"
	msgSalonNotFound  = "salon not found"
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

// Handle GET /api/v1/salons/{salonId}/agenda
// Query params: from, to (required, YYYY-MM-DD, inclusive), employee, service ("all" или ID)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	salonID, err := strconv.ParseInt(mux.Vars(r)["salonId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /salons/{id}/agenda - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	query := r.URL.Query()
	from, to := query.Get("from"), query.Get("to")
	if from == "" || to == "" {
		h.logger.Warn("GET /salons/{id}/agenda - Missing range")
		handlers.RespondBadRequest(w, msgMissingRange)
		return
	}

	useCaseReq, err := ToUseCaseRequest(salonID, from, to, query.Get("employee"), query.Get("service"))
	if err != nil {
		h.logger.Warn("GET /salons/{id}/agenda - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Load(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, agenda.ErrSalonNotFound):
			h.logger.Warn("GET /salons/{id}/agenda - Salon not found: salon_id=%d", salonID)
			handlers.RespondNotFound(w, msgSalonNotFound)

		case errors.Is(err, agenda.ErrInvalidRange):
			h.logger.Warn("GET /salons/{id}/agenda - Invalid range: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, agenda.ErrInvalidInput):
			h.logger.Warn("GET /salons/{id}/agenda - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /salons/{id}/agenda - Failed to load agenda: salon_id=%d, error=%v", salonID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /salons/{id}/agenda - Agenda loaded: salon_id=%d, entries=%d", salonID, len(result.Entries))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
