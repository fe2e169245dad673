package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m04kA/SMC-SalonBookingService/internal/api/handlers"
	blockRangeHandler "github.com/m04kA/SMC-SalonBookingService/internal/api/handlers/block_range"
	bookingWizardHandler "github.com/m04kA/SMC-SalonBookingService/internal/api/handlers/booking_wizard"
	getAgendaHandler "github.com/m04kA/SMC-SalonBookingService/internal/api/handlers/get_agenda"
	getAvailabilityHandler "github.com/m04kA/SMC-SalonBookingService/internal/api/handlers/get_availability"
	getSlotHandler "github.com/m04kA/SMC-SalonBookingService/internal/api/handlers/get_slot"
	releaseSlotHandler "github.com/m04kA/SMC-SalonBookingService/internal/api/handlers/release_slot"
	"github.com/m04kA/SMC-SalonBookingService/internal/api/middleware"
)

// Router собирает HTTP маршруты сервиса
func (a *App) Router() http.Handler {
	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(a.availability, a.log)
	wizard := bookingWizardHandler.NewHandler(a.wizard, a.log)
	getAgenda := getAgendaHandler.NewHandler(a.agenda, a.log)
	blockRange := blockRangeHandler.NewHandler(a.agenda, a.log)
	releaseSlot := releaseSlotHandler.NewHandler(a.agenda, a.log)
	getSlot := getSlotHandler.NewHandler(a.agenda, a.log)

	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if a.metrics != nil {
		r.Use(middleware.MetricsMiddleware(a.metrics))
		r.Handle(a.cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (клиентский UI, с ограничением частоты)
	// ============================================================

	public := api.PathPrefix("").Subrouter()
	if a.limiter != nil {
		public.Use(a.limiter.Limit)
	}

	// Доступные окна для услуги на дату
	public.HandleFunc("/salons/{salonId}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// --- Мастер бронирования ---
	public.HandleFunc("/salons/{salonId}/wizard", wizard.Start).Methods(http.MethodPost)
	public.HandleFunc("/wizard/{sessionId}", wizard.Get).Methods(http.MethodGet)
	public.HandleFunc("/wizard/{sessionId}/service", wizard.SelectService).Methods(http.MethodPost)
	public.HandleFunc("/wizard/{sessionId}/employee", wizard.SelectEmployee).Methods(http.MethodPost)
	public.HandleFunc("/wizard/{sessionId}/datetime", wizard.SelectDateTime).Methods(http.MethodPost)
	public.HandleFunc("/wizard/{sessionId}/details", wizard.SubmitDetails).Methods(http.MethodPost)
	public.HandleFunc("/wizard/{sessionId}/back", wizard.Back).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (staff UI, требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Agenda ---
	protected.HandleFunc("/salons/{salonId}/agenda", getAgenda.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/salons/{salonId}/agenda/feed", a.hub.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/salons/{salonId}/blocks", blockRange.Handle).Methods(http.MethodPost)

	// --- Слоты ---
	protected.HandleFunc("/slots/{slotId}", getSlot.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/slots/{slotId}/release", releaseSlot.Handle).Methods(http.MethodPost)

	return r
}
