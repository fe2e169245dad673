package booking_wizard

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	bookingWizard "github.com/m04kA/SMC-SalonBookingService/internal/usecase/booking_wizard"
	computeAvailability "github.com/m04kA/SMC-SalonBookingService/internal/usecase/compute_availability"
)

const (
	msgInvalidSalonID      = "invalid salon id"
	msgInvalidRequestBody  = "invalid request body"
	msgInvalidServiceID    = "serviceId must be positive"
	msgInvalidEmployeeID   = "employeeId must be positive"
	msgInvalidDateTime     = "invalid date or time format, expected YYYY-MM-DD and HH:MM"
	msgInvalidDetails      = "name and a valid email or phone are required"
	msgInvalidStepName     = "unknown wizard step"
	msgInvalidInput        = "invalid wizard request"
	msgSessionNotFound     = "booking session not found"
	msgSessionBusy         = "booking is already in progress for this session"
	msgSalonNotFound       = "salon not found"
	msgServiceNotFound     = "service not found"
	msgEmployeeNotFound    = "employee not found"
	msgEmployeeNotQualify  = "employee is not qualified for the service"
	msgNoQualifiedEmployee = "no employee performs the service"
	msgWrongStep           = "operation is not valid at the current step"
	msgDateInPast          = "date is in the past"
	msgDateTooFar          = "date is too far in the future"
)

type Handler struct {
	useCase WizardUseCase
	logger  Logger
}

func NewHandler(useCase WizardUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Start POST /api/v1/salons/{salonId}/wizard
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	const route = "POST /salons/{id}/wizard"

	salonID, err := strconv.ParseInt(mux.Vars(r)["salonId"], 10, 64)
	if err != nil {
		h.logger.Warn("%s - Invalid salon ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	result, err := h.useCase.Start(r.Context(), salonID)
	if err != nil {
		h.respondError(w, route, err, msgInvalidInput)
		return
	}

	h.logger.Info("%s - Session started: session_id=%s, salon_id=%d", route, result.Session.ID, salonID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

// Get GET /api/v1/wizard/{sessionId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const route = "GET /wizard/{id}"

	result, err := h.useCase.Get(r.Context(), mux.Vars(r)["sessionId"])
	if err != nil {
		h.respondError(w, route, err, msgInvalidInput)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

// SelectService POST /api/v1/wizard/{sessionId}/service
func (h *Handler) SelectService(w http.ResponseWriter, r *http.Request) {
	const route = "POST /wizard/{id}/service"

	var req SelectServiceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.ServiceID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	result, err := h.useCase.SelectService(r.Context(), mux.Vars(r)["sessionId"], req.ServiceID)
	if err != nil {
		h.respondError(w, route, err, msgInvalidInput)
		return
	}

	h.logger.Info("%s - Service selected: session_id=%s, service_id=%d", route, result.Session.ID, req.ServiceID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

// SelectEmployee POST /api/v1/wizard/{sessionId}/employee
func (h *Handler) SelectEmployee(w http.ResponseWriter, r *http.Request) {
	const route = "POST /wizard/{id}/employee"

	var req SelectEmployeeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.EmployeeID != nil && *req.EmployeeID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidEmployeeID)
		return
	}

	result, err := h.useCase.SelectEmployee(r.Context(), mux.Vars(r)["sessionId"], req.EmployeeID)
	if err != nil {
		h.respondError(w, route, err, msgInvalidInput)
		return
	}

	h.logger.Info("%s - Employee selected: session_id=%s, any=%t", route, result.Session.ID, req.EmployeeID == nil)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

// SelectDateTime POST /api/v1/wizard/{sessionId}/datetime
func (h *Handler) SelectDateTime(w http.ResponseWriter, r *http.Request) {
	const route = "POST /wizard/{id}/datetime"

	var req SelectDateTimeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("%s - Invalid date or time: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.SelectDateTime(r.Context(), mux.Vars(r)["sessionId"], useCaseReq)
	if err != nil {
		h.respondError(w, route, err, msgInvalidDateTime)
		return
	}

	h.logger.Info("%s - Time selected: session_id=%s, date=%s, start=%s", route, result.Session.ID, req.Date, req.StartTime)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

// SubmitDetails POST /api/v1/wizard/{sessionId}/details
func (h *Handler) SubmitDetails(w http.ResponseWriter, r *http.Request) {
	const route = "POST /wizard/{id}/details"

	var req SubmitDetailsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.SubmitDetails(r.Context(), mux.Vars(r)["sessionId"], req.ToClientDetails())
	if err != nil {
		h.respondError(w, route, err, msgInvalidDetails)
		return
	}

	h.logger.Info("%s - Booking confirmed: session_id=%s, slot_id=%s", route, result.Session.ID, result.Session.SlotID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

// Back POST /api/v1/wizard/{sessionId}/back
// Без step мастер возвращается на один шаг, иначе на указанный
func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	const route = "POST /wizard/{id}/back"

	// пустое тело допустимо
	var req BackRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	sessionID := mux.Vars(r)["sessionId"]

	var (
		result *bookingWizard.Response
		err    error
	)
	if req.Step == "" {
		result, err = h.useCase.GoBack(r.Context(), sessionID)
	} else {
		target := domain.WizardStep(req.Step)
		if target.Index() < 0 {
			handlers.RespondBadRequest(w, msgInvalidStepName)
			return
		}
		result, err = h.useCase.GoBackTo(r.Context(), sessionID, target)
	}
	if err != nil {
		h.respondError(w, route, err, msgInvalidInput)
		return
	}

	h.logger.Info("%s - Moved back: session_id=%s, step=%s", route, result.Session.ID, result.Session.Step)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

// respondError переводит ошибки мастера в HTTP ответ
// validationMsg используется для общих ошибок валидации текущего маршрута
func (h *Handler) respondError(w http.ResponseWriter, route string, err error, validationMsg string) {
	switch {
	case errors.Is(err, domain.ErrSlotUnavailable):
		h.logger.Warn("%s - Slot unavailable: %v", route, err)
		handlers.RespondConflict(w, domain.ErrSlotUnavailable.Error())

	case errors.Is(err, domain.ErrSessionClosed):
		h.logger.Warn("%s - Session closed: %v", route, err)
		handlers.RespondConflict(w, domain.ErrSessionClosed.Error())

	case errors.Is(err, bookingWizard.ErrSessionBusy):
		h.logger.Warn("%s - Session busy: %v", route, err)
		handlers.RespondConflict(w, msgSessionBusy)

	case errors.Is(err, domain.ErrSessionConflict):
		h.logger.Warn("%s - Session conflict: %v", route, err)
		handlers.RespondConflict(w, domain.ErrSessionConflict.Error())

	case errors.Is(err, bookingWizard.ErrSessionNotFound):
		h.logger.Warn("%s - Session not found", route)
		handlers.RespondNotFound(w, msgSessionNotFound)

	case errors.Is(err, bookingWizard.ErrSalonNotFound):
		h.logger.Warn("%s - Salon not found", route)
		handlers.RespondNotFound(w, msgSalonNotFound)

	case errors.Is(err, bookingWizard.ErrServiceNotFound), errors.Is(err, computeAvailability.ErrServiceNotFound):
		h.logger.Warn("%s - Service not found", route)
		handlers.RespondNotFound(w, msgServiceNotFound)

	case errors.Is(err, bookingWizard.ErrEmployeeNotFound), errors.Is(err, computeAvailability.ErrEmployeeNotFound):
		h.logger.Warn("%s - Employee not found", route)
		handlers.RespondNotFound(w, msgEmployeeNotFound)

	case errors.Is(err, domain.ErrNotFound):
		h.logger.Warn("%s - Not found: %v", route, err)
		handlers.RespondNotFound(w, msgSessionNotFound)

	case errors.Is(err, bookingWizard.ErrNoQualifiedEmployees):
		h.logger.Warn("%s - No qualified employees: %v", route, err)
		handlers.RespondUnprocessable(w, msgNoQualifiedEmployee)

	case errors.Is(err, domain.ErrServiceEmployeeMismatch):
		h.logger.Warn("%s - Employee not qualified: %v", route, err)
		handlers.RespondUnprocessable(w, msgEmployeeNotQualify)

	case errors.Is(err, domain.ErrInvalidStep):
		h.logger.Warn("%s - Wrong step: %v", route, err)
		handlers.RespondBadRequest(w, msgWrongStep)

	case errors.Is(err, computeAvailability.ErrDateInPast):
		h.logger.Warn("%s - Date in past: %v", route, err)
		handlers.RespondBadRequest(w, msgDateInPast)

	case errors.Is(err, computeAvailability.ErrDateTooFarInFuture):
		h.logger.Warn("%s - Date too far: %v", route, err)
		handlers.RespondBadRequest(w, msgDateTooFar)

	case errors.Is(err, domain.ErrValidation):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, validationMsg)

	default:
		h.logger.Error("%s - Wizard operation failed: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
