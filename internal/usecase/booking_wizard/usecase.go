package booking_wizard

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/infra/sessions"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/slots/models"
	"github.com/m04kA/SMC-SalonBookingService/internal/usecase/compute_availability"
	"github.com/m04kA/SMC-SalonBookingService/pkg/metrics"
	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// UseCase use case мастера бронирования
// Строгий линейный автомат: SelectService -> SelectEmployee -> SelectDateTime -> EnterDetails -> Confirmed
type UseCase struct {
	sessions     SessionStore
	catalog      Catalog
	availability Availability
	slots        SlotService
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	sessionStore SessionStore,
	catalog Catalog,
	availability Availability,
	slotService SlotService,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		sessions:     sessionStore,
		catalog:      catalog,
		availability: availability,
		slots:        slotService,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider устанавливает провайдер времени (для тестирования)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Start создает новую сессию мастера для салона
func (uc *UseCase) Start(ctx context.Context, salonID int64) (*Response, error) {
	uc.logger.Info("Wizard.Start: salon=%d", salonID)

	if salonID <= 0 {
		return nil, fmt.Errorf("%w: salonId must be positive", ErrInvalidInput)
	}

	// 1. Проверяем салон
	if _, err := uc.getSalon(ctx, "Start", salonID); err != nil {
		return nil, err
	}

	// 2. Создаем сессию
	now := uc.timeProvider.Now().UTC()
	session := &domain.WizardSession{
		ID:        uuid.NewString(),
		SalonID:   salonID,
		Step:      domain.StepSelectService,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.sessions.Create(ctx, session); err != nil {
		uc.logger.Error("Wizard.Start: failed to create session=%s: %v", session.ID, err)
		return nil, fmt.Errorf("%w: Start - create session: %v", ErrInternal, err)
	}

	uc.logger.Info("Wizard.Start: session=%s created", session.ID)
	return &Response{Session: session}, nil
}

// Get возвращает текущее состояние сессии
func (uc *UseCase) Get(ctx context.Context, sessionID string) (*Response, error) {
	session, err := uc.load(ctx, "Get", sessionID)
	if err != nil {
		return nil, err
	}
	return &Response{Session: session}, nil
}

// SelectService выбирает услугу и фиксирует набор квалифицированных сотрудников
func (uc *UseCase) SelectService(ctx context.Context, sessionID string, serviceID int64) (resp *Response, err error) {
	defer func() { uc.record(domain.StepSelectService, err) }()

	// 1. Загружаем сессию и проверяем шаг
	session, err := uc.load(ctx, "SelectService", sessionID)
	if err != nil {
		return nil, err
	}
	if err := checkStep(session, domain.StepSelectService); err != nil {
		uc.logger.Warn("Wizard.SelectService: session=%s: %v", sessionID, err)
		return nil, err
	}

	// 2. Проверяем услугу
	salon, err := uc.getSalon(ctx, "SelectService", session.SalonID)
	if err != nil {
		return nil, err
	}
	service, ok := salon.FindService(serviceID)
	if !ok {
		uc.logger.Warn("Wizard.SelectService: service id=%d not found in salon id=%d", serviceID, salon.ID)
		return nil, ErrServiceNotFound
	}

	// 3. Набор квалифицированных сотрудников
	qualified := salon.QualifiedEmployees(service.ID)
	if len(qualified) == 0 {
		uc.logger.Warn("Wizard.SelectService: nobody performs service id=%d", service.ID)
		return nil, ErrNoQualifiedEmployees
	}
	ids := make([]int64, 0, len(qualified))
	for _, e := range qualified {
		ids = append(ids, e.ID)
	}

	// 4. Переходим к выбору сотрудника
	serviceRef := service.ID
	session.Selection.ServiceID = &serviceRef
	session.Selection.QualifiedEmployeeIDs = ids
	session.Step = domain.StepSelectEmployee

	if err := uc.save(ctx, "SelectService", session); err != nil {
		return nil, err
	}

	uc.logger.Info("Wizard.SelectService: session=%s, service=%d, qualified=%v", sessionID, service.ID, ids)
	return &Response{Session: session}, nil
}

// SelectEmployee выбирает сотрудника; nil оставляет выбор открытым ("любой сотрудник")
func (uc *UseCase) SelectEmployee(ctx context.Context, sessionID string, employeeID *int64) (resp *Response, err error) {
	defer func() { uc.record(domain.StepSelectEmployee, err) }()

	// 1. Загружаем сессию и проверяем шаг
	session, err := uc.load(ctx, "SelectEmployee", sessionID)
	if err != nil {
		return nil, err
	}
	if err := checkStep(session, domain.StepSelectEmployee); err != nil {
		uc.logger.Warn("Wizard.SelectEmployee: session=%s: %v", sessionID, err)
		return nil, err
	}

	// 2. Проверяем квалификацию
	if employeeID != nil {
		salon, err := uc.getSalon(ctx, "SelectEmployee", session.SalonID)
		if err != nil {
			return nil, err
		}
		if _, ok := salon.FindEmployee(*employeeID); !ok {
			uc.logger.Warn("Wizard.SelectEmployee: employee id=%d not found in salon id=%d", *employeeID, salon.ID)
			return nil, ErrEmployeeNotFound
		}
		if !containsID(session.Selection.QualifiedEmployeeIDs, *employeeID) {
			uc.logger.Warn("Wizard.SelectEmployee: employee id=%d is not qualified for service id=%d",
				*employeeID, *session.Selection.ServiceID)
			return nil, fmt.Errorf("%w: employee=%d", ErrEmployeeNotQualified, *employeeID)
		}
		id := *employeeID
		session.Selection.EmployeeID = &id
		session.Selection.AnyEmployee = false
	} else {
		session.Selection.EmployeeID = nil
		session.Selection.AnyEmployee = true
	}

	// 3. Переходим к выбору времени
	session.Step = domain.StepSelectDateTime
	if err := uc.save(ctx, "SelectEmployee", session); err != nil {
		return nil, err
	}

	return &Response{Session: session}, nil
}

// SelectDateTime выбирает дату и время; пара повторно проверяется по живой доступности
func (uc *UseCase) SelectDateTime(ctx context.Context, sessionID string, req *DateTimeRequest) (resp *Response, err error) {
	defer func() { uc.record(domain.StepSelectDateTime, err) }()

	// 1. Загружаем сессию и проверяем шаг
	session, err := uc.load(ctx, "SelectDateTime", sessionID)
	if err != nil {
		return nil, err
	}
	if err := checkStep(session, domain.StepSelectDateTime); err != nil {
		uc.logger.Warn("Wizard.SelectDateTime: session=%s: %v", sessionID, err)
		return nil, err
	}
	if err := validateDateTime(req); err != nil {
		return nil, err
	}

	// 2. Проверяем окно по текущему состоянию хранилища
	windows, err := uc.findWindows(ctx, "SelectDateTime", session, req.Date, req.StartTime)
	if err != nil {
		return nil, err
	}

	// 3. Переходим к вводу контактов
	session.Selection.Date = req.Date
	session.Selection.StartTime = windows[0].StartTime
	session.Selection.EndTime = windows[0].EndTime
	session.Step = domain.StepEnterDetails

	if err := uc.save(ctx, "SelectDateTime", session); err != nil {
		return nil, err
	}

	uc.logger.Info("Wizard.SelectDateTime: session=%s, %s %s-%s, candidates=%d",
		sessionID, req.Date, session.Selection.StartTime, session.Selection.EndTime, len(windows))
	return &Response{Session: session}, nil
}

// SubmitDetails принимает контакты клиента и выполняет бронирование
// Перед коммитом сессия захватывается через Committing, поэтому бронирует только один из параллельных запросов
// При SlotUnavailable шаг не меняется; при сбое инфраструктуры сессия прерывается
func (uc *UseCase) SubmitDetails(ctx context.Context, sessionID string, client domain.ClientDetails) (resp *Response, err error) {
	defer func() { uc.record(domain.StepEnterDetails, err) }()

	// 1. Загружаем сессию и проверяем шаг
	session, err := uc.load(ctx, "SubmitDetails", sessionID)
	if err != nil {
		return nil, err
	}
	if err := checkStep(session, domain.StepEnterDetails); err != nil {
		uc.logger.Warn("Wizard.SubmitDetails: session=%s: %v", sessionID, err)
		return nil, err
	}
	if session.Committing {
		uc.logger.Warn("Wizard.SubmitDetails: session=%s: booking already in progress", sessionID)
		return nil, ErrSessionBusy
	}

	// 2. Валидация контактов
	client = client.Normalize()
	if err := client.Validate(); err != nil {
		uc.logger.Warn("Wizard.SubmitDetails: session=%s: invalid client details: %v", sessionID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 3. Захватываем сессию
	session.Selection.Client = &client
	session.Committing = true
	if err := uc.save(ctx, "SubmitDetails", session); err != nil {
		return nil, err
	}

	// 4. Кандидаты на исполнение
	candidates, err := uc.candidates(ctx, session)
	if err != nil {
		if errors.Is(err, domain.ErrSlotUnavailable) {
			return nil, uc.keepStep(ctx, session, err)
		}
		uc.release(ctx, session)
		return nil, err
	}

	// 5. Коммит: первый свободный кандидат по возрастанию ID
	var lastConflict error
	for _, employeeID := range candidates {
		slot, err := uc.slots.Reserve(ctx, &models.ReserveRequest{
			SalonID:    session.SalonID,
			EmployeeID: employeeID,
			ServiceID:  *session.Selection.ServiceID,
			Date:       session.Selection.Date,
			StartTime:  session.Selection.StartTime,
			Client:     client,
			Source:     domain.SourceWizard,
		})
		if err == nil {
			return uc.confirm(ctx, session, client, slot), nil
		}

		switch {
		case errors.Is(err, domain.ErrSlotUnavailable):
			uc.logger.Warn("Wizard.SubmitDetails: session=%s: employee=%d lost the window: %v", sessionID, employeeID, err)
			lastConflict = err
			continue
		case errors.Is(err, domain.ErrValidation),
			errors.Is(err, domain.ErrNotFound),
			errors.Is(err, domain.ErrServiceEmployeeMismatch):
			uc.logger.Warn("Wizard.SubmitDetails: session=%s: rejected: %v", sessionID, err)
			uc.release(ctx, session)
			return nil, err
		default:
			return nil, uc.abandon(ctx, session, err)
		}
	}

	return nil, uc.keepStep(ctx, session, lastConflict)
}

// GoBack возвращает сессию на предыдущий шаг
func (uc *UseCase) GoBack(ctx context.Context, sessionID string) (*Response, error) {
	session, err := uc.load(ctx, "GoBack", sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step.IsFinal() {
		return nil, fmt.Errorf("%w: session is %s", ErrSessionClosed, session.Step)
	}

	target, ok := session.Step.Previous()
	if !ok {
		return nil, fmt.Errorf("%w: %s is the first step", ErrInvalidStep, session.Step)
	}
	return uc.moveBack(ctx, session, target)
}

// GoBackTo возвращает сессию на любой предыдущий шаг
func (uc *UseCase) GoBackTo(ctx context.Context, sessionID string, target domain.WizardStep) (*Response, error) {
	session, err := uc.load(ctx, "GoBackTo", sessionID)
	if err != nil {
		return nil, err
	}
	return uc.moveBack(ctx, session, target)
}

// Вспомогательные методы

func (uc *UseCase) moveBack(ctx context.Context, session *domain.WizardSession, target domain.WizardStep) (*Response, error) {
	if session.Committing {
		uc.logger.Warn("Wizard.GoBack: session=%s: booking already in progress", session.ID)
		return nil, ErrSessionBusy
	}
	if err := checkBackTarget(session, target); err != nil {
		uc.logger.Warn("Wizard.GoBack: session=%s: %v", session.ID, err)
		return nil, err
	}

	from := session.Step
	session.ClearAfter(target)
	session.Step = target

	if err := uc.save(ctx, "GoBack", session); err != nil {
		return nil, err
	}

	uc.logger.Info("Wizard.GoBack: session=%s, %s -> %s", session.ID, from, target)
	return &Response{Session: session}, nil
}

// candidates возвращает сотрудников, которым можно назначить выбранное окно
func (uc *UseCase) candidates(ctx context.Context, session *domain.WizardSession) ([]int64, error) {
	if !session.Selection.AnyEmployee && session.Selection.EmployeeID != nil {
		return []int64{*session.Selection.EmployeeID}, nil
	}

	windows, err := uc.findWindows(ctx, "SubmitDetails", session, session.Selection.Date, session.Selection.StartTime)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(windows))
	for _, w := range windows {
		if w.EndTime == session.Selection.EndTime {
			ids = append(ids, w.EmployeeID)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no employee is free at %s", ErrSlotUnavailable, session.Selection.StartTime)
	}
	return ids, nil
}

func (uc *UseCase) findWindows(
	ctx context.Context,
	op string,
	session *domain.WizardSession,
	date types.Date,
	start types.TimeString,
) ([]compute_availability.Window, error) {
	req := &compute_availability.Request{
		SalonID:   session.SalonID,
		ServiceID: *session.Selection.ServiceID,
		Date:      date,
	}
	if !session.Selection.AnyEmployee {
		req.EmployeeID = session.Selection.EmployeeID
	}

	windows, err := uc.availability.FindWindows(ctx, req, start)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSlotUnavailable):
			uc.logger.Warn("Wizard.%s: session=%s: %s %s is not available", op, session.ID, date, start)
			return nil, fmt.Errorf("%w: %v", ErrSlotUnavailable, err)
		case errors.Is(err, domain.ErrValidation),
			errors.Is(err, domain.ErrNotFound),
			errors.Is(err, domain.ErrServiceEmployeeMismatch):
			uc.logger.Warn("Wizard.%s: session=%s: %v", op, session.ID, err)
			return nil, err
		default:
			uc.logger.Error("Wizard.%s: session=%s: availability failed: %v", op, session.ID, err)
			return nil, fmt.Errorf("%w: %s - availability: %v", ErrInternal, op, err)
		}
	}
	return windows, nil
}

func (uc *UseCase) confirm(
	ctx context.Context,
	session *domain.WizardSession,
	client domain.ClientDetails,
	slot *domain.Slot,
) *Response {
	employeeID := slot.EmployeeID
	session.Selection.EmployeeID = &employeeID
	session.Selection.Client = &client
	session.SlotID = slot.ID
	session.Step = domain.StepConfirmed
	session.Committing = false
	session.UpdatedAt = uc.timeProvider.Now().UTC()

	// Подтвержденная сессия больше не нужна
	if err := uc.sessions.Delete(ctx, session.ID); err != nil {
		uc.logger.Warn("Wizard.SubmitDetails: session=%s: failed to delete confirmed session: %v", session.ID, err)
	}

	uc.logger.Info("Wizard.SubmitDetails: session=%s confirmed, slot=%s, employee=%d", session.ID, slot.ID, employeeID)
	return &Response{Session: session, Slot: slot}
}

// keepStep снимает захват, сохраняет введенные контакты и возвращает конфликт без смены шага
func (uc *UseCase) keepStep(ctx context.Context, session *domain.WizardSession, cause error) error {
	uc.release(ctx, session)
	if errors.Is(cause, ErrSlotUnavailable) {
		return cause
	}
	return fmt.Errorf("%w: %v", ErrSlotUnavailable, cause)
}

// release снимает захват сессии после неудачного коммита
// Update не воссоздает удаленную сессию, поэтому закрытая сессия остается закрытой
func (uc *UseCase) release(ctx context.Context, session *domain.WizardSession) {
	session.Committing = false
	if err := uc.save(ctx, "SubmitDetails", session); err != nil {
		uc.logger.Warn("Wizard.SubmitDetails: session=%s: failed to release session: %v", session.ID, err)
	}
}

// abandon прерывает сессию после сбоя инфраструктуры при коммите
func (uc *UseCase) abandon(ctx context.Context, session *domain.WizardSession, cause error) error {
	uc.logger.Error("Wizard.SubmitDetails: session=%s abandoned: %v", session.ID, cause)

	session.Step = domain.StepAbandoned
	if err := uc.sessions.Delete(ctx, session.ID); err != nil {
		uc.logger.Warn("Wizard.SubmitDetails: session=%s: failed to delete abandoned session: %v", session.ID, err)
	}
	return fmt.Errorf("%w: SubmitDetails - commit failed: %v", ErrInternal, cause)
}

func (uc *UseCase) load(ctx context.Context, op, sessionID string) (*domain.WizardSession, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}

	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessions.ErrSessionNotFound) {
			uc.logger.Warn("Wizard.%s: session=%s not found", op, sessionID)
			return nil, ErrSessionNotFound
		}
		uc.logger.Error("Wizard.%s: failed to load session=%s: %v", op, sessionID, err)
		return nil, fmt.Errorf("%w: %s - load session: %v", ErrInternal, op, err)
	}
	return session, nil
}

// save сохраняет сессию, только если ее не изменил параллельный запрос
func (uc *UseCase) save(ctx context.Context, op string, session *domain.WizardSession) error {
	session.UpdatedAt = uc.timeProvider.Now().UTC()
	err := uc.sessions.Update(ctx, session)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sessions.ErrSessionNotFound):
		uc.logger.Warn("Wizard.%s: session=%s was closed concurrently", op, session.ID)
		return ErrSessionNotFound
	case errors.Is(err, sessions.ErrVersionConflict):
		uc.logger.Warn("Wizard.%s: session=%s: %v", op, session.ID, err)
		return ErrSessionConflict
	default:
		uc.logger.Error("Wizard.%s: failed to save session=%s: %v", op, session.ID, err)
		return fmt.Errorf("%w: %s - save session: %v", ErrInternal, op, err)
	}
}

func (uc *UseCase) getSalon(ctx context.Context, op string, salonID int64) (*domain.Salon, error) {
	salon, err := uc.catalog.GetSalon(ctx, salonID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.logger.Warn("Wizard.%s: salon id=%d not found", op, salonID)
			return nil, ErrSalonNotFound
		}
		uc.logger.Error("Wizard.%s: failed to get salon id=%d: %v", op, salonID, err)
		return nil, fmt.Errorf("%w: %s - failed to get salon: %v", ErrInternal, op, err)
	}
	return salon, nil
}

func (uc *UseCase) record(step domain.WizardStep, err error) {
	switch {
	case err == nil:
		uc.metrics.IncWizardStep(string(step), metrics.ResultSuccess)
	case errors.Is(err, domain.ErrSlotUnavailable), errors.Is(err, domain.ErrSessionConflict):
		uc.metrics.IncWizardStep(string(step), metrics.ResultConflict)
	default:
		uc.metrics.IncWizardStep(string(step), metrics.ResultError)
	}
}
