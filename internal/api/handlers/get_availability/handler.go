package get_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBookingService/internal/api/handlers"
	computeAvailability "github.com/m04kA/SMC-SalonBookingService/internal/usecase/compute_availability"
)

const (
	msgInvalidSalonID     = "invalid salon id"
	msgInvalidServiceID   = "invalid service id"
	msgMissingServiceID   = "serviceId is required"
	msgInvalidEmployeeID  = "invalid employee id"
	msgMissingDate        = "date is required"
	msgInvalidDate        = "invalid date format, expected YYYY-MM-DD"
	msgDateInPast         = "date is in the past"
	msgDateTooFar         = "date is too far in the future"
	msgInvalidRequest     = "invalid availability request"
	msgSalonNotFound      = "salon not found"
	msgServiceNotFound    = "service not found"
	msgEmployeeNotFound   = "employee not found"
	msgEmployeeNotQualify = "employee is not qualified for the service"
)

type Handler struct {
	useCase AvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase AvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/salons/{salonId}/availability
// Query params: serviceId (required), date (required, YYYY-MM-DD), employeeId (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	salonID, err := strconv.ParseInt(mux.Vars(r)["salonId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /salons/{id}/availability - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	query := r.URL.Query()

	serviceIDStr := query.Get("serviceId")
	if serviceIDStr == "" {
		h.logger.Warn("GET /salons/{id}/availability - Missing service ID")
		handlers.RespondBadRequest(w, msgMissingServiceID)
		return
	}
	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /salons/{id}/availability - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	// employeeId необязателен: без него объединяются все квалифицированные сотрудники
	var employeeID *int64
	if raw := query.Get("employeeId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("GET /salons/{id}/availability - Invalid employee ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidEmployeeID)
			return
		}
		employeeID = &id
	}

	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /salons/{id}/availability - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(salonID, serviceID, employeeID, dateStr)
	if err != nil {
		h.logger.Warn("GET /salons/{id}/availability - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, computeAvailability.ErrSalonNotFound):
			h.logger.Warn("GET /salons/{id}/availability - Salon not found: salon_id=%d", salonID)
			handlers.RespondNotFound(w, msgSalonNotFound)

		case errors.Is(err, computeAvailability.ErrServiceNotFound):
			h.logger.Warn("GET /salons/{id}/availability - Service not found: salon_id=%d, service_id=%d", salonID, serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, computeAvailability.ErrEmployeeNotFound):
			h.logger.Warn("GET /salons/{id}/availability - Employee not found: salon_id=%d", salonID)
			handlers.RespondNotFound(w, msgEmployeeNotFound)

		case errors.Is(err, computeAvailability.ErrEmployeeNotQualified):
			h.logger.Warn("GET /salons/{id}/availability - Employee not qualified: salon_id=%d, service_id=%d", salonID, serviceID)
			handlers.RespondUnprocessable(w, msgEmployeeNotQualify)

		case errors.Is(err, computeAvailability.ErrDateInPast):
			h.logger.Warn("GET /salons/{id}/availability - Date in past: salon_id=%d, date=%s", salonID, dateStr)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, computeAvailability.ErrDateTooFarInFuture):
			h.logger.Warn("GET /salons/{id}/availability - Date too far: salon_id=%d, date=%s", salonID, dateStr)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, computeAvailability.ErrInvalidInput):
			h.logger.Warn("GET /salons/{id}/availability - Invalid request: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("GET /salons/{id}/availability - Failed to compute availability: salon_id=%d, service_id=%d, error=%v",
				salonID, serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /salons/{id}/availability - Availability computed: salon_id=%d, service_id=%d, windows=%d",
		salonID, serviceID, len(result.Windows))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
