package compute_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// UseCase расчет доступных для бронирования окон
// Только чтение: повторный вызов без изменений в хранилище дает тот же результат
type UseCase struct {
	slotRepo     SlotRepository
	catalog      Catalog
	settings     Settings
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	catalog Catalog,
	settings Settings,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:     slotRepo,
		catalog:      catalog,
		settings:     settings,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет расчет доступных окон
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ComputeAvailability: salon=%d, employee=%s, service=%d, date=%s",
		req.SalonID, formatEmployee(req.EmployeeID), req.ServiceID, req.Date)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ComputeAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем салон
	salon, err := uc.catalog.GetSalon(ctx, req.SalonID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.logger.Warn("ComputeAvailability: salon id=%d not found", req.SalonID)
			return nil, ErrSalonNotFound
		}
		uc.logger.Error("ComputeAvailability: failed to get salon id=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: failed to get salon: %v", ErrInternal, err)
	}

	// 3. Проверяем дату в часовом поясе салона
	now := uc.timeProvider.Now().In(salon.Location())
	if err := validateDate(req.Date, types.NewDate(now), uc.settings.HorizonDays); err != nil {
		uc.logger.Warn("ComputeAvailability: date validation failed: %v", err)
		return nil, err
	}

	// 4. Проверяем услугу
	service, ok := salon.FindService(req.ServiceID)
	if !ok {
		uc.logger.Warn("ComputeAvailability: service id=%d not found in salon id=%d", req.ServiceID, req.SalonID)
		return nil, ErrServiceNotFound
	}

	// 5. Определяем сотрудников
	employees, err := resolveEmployees(salon, req.EmployeeID, req.ServiceID)
	if err != nil {
		uc.logger.Warn("ComputeAvailability: %v", err)
		return nil, err
	}

	response := &Response{
		SalonID:         req.SalonID,
		ServiceID:       req.ServiceID,
		EmployeeID:      req.EmployeeID,
		Date:            req.Date,
		DurationMinutes: service.DurationMinutes,
		Windows:         []Window{},
	}

	// 6. Минимальное начало окна с учетом текущего времени и уведомления
	minStart, ok := earliestStart(req.Date, now, uc.settings.MinNoticeMinutes)
	if !ok || len(employees) == 0 {
		uc.logger.Info("ComputeAvailability: no bookable time on %s for salon=%d", req.Date, req.SalonID)
		return response, nil
	}

	// 7. Получаем занятые слоты на дату
	occupied, err := uc.slotRepo.GetSlots(ctx, domain.SlotQuery{
		SalonID:    req.SalonID,
		EmployeeID: req.EmployeeID,
		From:       req.Date,
		To:         req.Date,
		Statuses:   domain.OccupiedStatuses,
	})
	if err != nil {
		uc.logger.Error("ComputeAvailability: failed to get slots: %v", err)
		return nil, fmt.Errorf("%w: failed to get slots: %v", ErrInternal, err)
	}
	occupiedByEmployee := groupByEmployee(occupied)

	// 8. Нарезаем свободное время каждого сотрудника
	// шаг меньше длительности дал бы пересекающиеся окна одного сотрудника
	step := uc.settings.StepMinutes
	if step < service.DurationMinutes {
		step = service.DurationMinutes
	}

	for i := range employees {
		employee := &employees[i]
		working := mergeIntervals(toIntervals(salon.WorkingWindows(employee, req.Date)))
		free := freeIntervals(working, mergeIntervals(toIntervals(occupiedByEmployee[employee.ID])))
		response.Windows = append(response.Windows,
			generateWindows(employee.ID, free, service.DurationMinutes, step, minStart)...)
	}

	// 9. Объединение по сотрудникам упорядочено по (начало, сотрудник)
	sortWindows(response.Windows)

	uc.logger.Info("ComputeAvailability: %d windows for salon=%d, service=%d, date=%s",
		len(response.Windows), req.SalonID, req.ServiceID, req.Date)

	return response, nil
}

// FindWindows возвращает доступные окна, начинающиеся ровно в start
// Для запроса без сотрудника это кандидаты по возрастанию ID сотрудника
func (uc *UseCase) FindWindows(ctx context.Context, req *Request, start types.TimeString) ([]Window, error) {
	resp, err := uc.Execute(ctx, req)
	if err != nil {
		return nil, err
	}

	matched := make([]Window, 0)
	for _, w := range resp.Windows {
		if w.StartTime == start {
			matched = append(matched, w)
		}
	}
	if len(matched) == 0 {
		return nil, fmt.Errorf("%w: %s at %s", ErrWindowUnavailable, req.Date, start)
	}
	return matched, nil
}

// IsBookable проверяет, что окно сотрудника [start, end) точно совпадает с доступным окном
func (uc *UseCase) IsBookable(
	ctx context.Context,
	salonID, employeeID, serviceID int64,
	date types.Date,
	start, end types.TimeString,
) error {
	windows, err := uc.FindWindows(ctx, &Request{
		SalonID:    salonID,
		EmployeeID: &employeeID,
		ServiceID:  serviceID,
		Date:       date,
	}, start)
	if err != nil {
		return err
	}

	for _, w := range windows {
		if w.EndTime == end {
			return nil
		}
	}
	return fmt.Errorf("%w: %s %s-%s does not match the service duration", ErrWindowUnavailable, date, start, end)
}

func resolveEmployees(salon *domain.Salon, employeeID *int64, serviceID int64) ([]domain.Employee, error) {
	if employeeID == nil {
		return salon.QualifiedEmployees(serviceID), nil
	}

	employee, ok := salon.FindEmployee(*employeeID)
	if !ok {
		return nil, fmt.Errorf("%w: id=%d", ErrEmployeeNotFound, *employeeID)
	}
	if !salon.IsQualified(employee.ID, serviceID) {
		return nil, fmt.Errorf("%w: employee=%d, service=%d", ErrEmployeeNotQualified, employee.ID, serviceID)
	}
	return []domain.Employee{*employee}, nil
}

func groupByEmployee(slots []*domain.Slot) map[int64][]domain.TimeWindow {
	grouped := make(map[int64][]domain.TimeWindow)
	for _, s := range slots {
		if !s.Status.IsOccupied() {
			continue
		}
		grouped[s.EmployeeID] = append(grouped[s.EmployeeID], s.Window())
	}
	return grouped
}

func formatEmployee(id *int64) string {
	if id == nil {
		return "any"
	}
	return fmt.Sprintf("%d", *id)
}
