package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/slots/models"
	"github.com/m04kA/SMC-SalonBookingService/pkg/metrics"
)

// Service машина состояний слота: каждый переход выполняется одной условной записью в хранилище
type Service struct {
	slotRepo     SlotRepository
	catalog      Catalog
	availability AvailabilityChecker
	publisher    EventPublisher
	metrics      Metrics
	now          Clock
	logger       Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(
	slotRepo SlotRepository,
	catalog Catalog,
	availability AvailabilityChecker,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:     slotRepo,
		catalog:      catalog,
		availability: availability,
		publisher:    publisher,
		metrics:      metrics,
		now:          time.Now,
		logger:       logger,
	}
}

// WithClock подменяет источник текущего времени
func (s *Service) WithClock(now Clock) *Service {
	s.now = now
	return s
}

// Reserve переводит окно available -> reserved
// Окно должно точно совпадать с доступным окном расчета
func (s *Service) Reserve(ctx context.Context, req *models.ReserveRequest) (*domain.Slot, error) {
	s.logger.Info("Reserve: salon=%d, employee=%d, service=%d, date=%s, start=%s",
		req.SalonID, req.EmployeeID, req.ServiceID, req.Date, req.StartTime)

	// 1. Нормализуем и проверяем данные клиента
	client := req.Client.Normalize()
	if err := client.Validate(); err != nil {
		s.logger.Warn("Reserve: invalid client details: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if req.SalonID <= 0 || req.ServiceID <= 0 {
		return nil, fmt.Errorf("%w: salonId and serviceId are required", ErrInvalidInput)
	}

	source := req.Source
	if source == "" {
		source = domain.SourceWizard
	}

	// 2. Получаем салон и услугу
	salon, err := s.getSalon(ctx, "Reserve", req.SalonID)
	if err != nil {
		return nil, err
	}
	service, ok := salon.FindService(req.ServiceID)
	if !ok {
		s.logger.Warn("Reserve: service id=%d not found in salon id=%d", req.ServiceID, req.SalonID)
		return nil, ErrServiceNotFound
	}

	// 3. Проверяем точное совпадение с окном расчета
	change, err := s.reserveWindow(ctx, service, req)
	if err != nil {
		return nil, err
	}

	change.Expected = domain.SlotStatusAvailable
	change.New = domain.SlotStatusReserved
	change.Payload = domain.ReservedPayload{
		ClientName: client.Name,
		Contact:    client.Contact,
		ServiceID:  service.ID,
		Source:     source,
	}

	// 4. Атомарная условная запись
	slot, err := s.commit(ctx, "Reserve", change, nil)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Reserve: slot=%s reserved for employee=%d at %s %s-%s",
		slot.ID, slot.EmployeeID, slot.Date, slot.StartTime, slot.EndTime)
	return slot, nil
}

// Block переводит время сотрудника available -> blocked
func (s *Service) Block(ctx context.Context, actor domain.Actor, req *models.BlockRequest) (*domain.Slot, error) {
	s.logger.Info("Block: user=%d, salon=%d, employee=%d, date=%s, %s-%s",
		actor.UserID, req.SalonID, req.EmployeeID, req.Date, req.StartTime, req.EndTime)

	// 1. Проверяем права
	if err := s.authorize(actor, domain.SlotStatusAvailable, domain.SlotStatusBlocked); err != nil {
		return nil, err
	}

	// 2. Валидация входных данных
	if err := validateBlock(req); err != nil {
		s.logger.Warn("Block: validation failed: %v", err)
		return nil, err
	}

	// 3. Проверяем сотрудника
	salon, err := s.getSalon(ctx, "Block", req.SalonID)
	if err != nil {
		return nil, err
	}
	if _, ok := salon.FindEmployee(req.EmployeeID); !ok {
		s.logger.Warn("Block: employee id=%d not found in salon id=%d", req.EmployeeID, req.SalonID)
		return nil, ErrEmployeeNotFound
	}

	// 4. Атомарная условная запись
	slot, err := s.commit(ctx, "Block", domain.StatusChange{
		Key: &domain.SlotKey{
			SalonID:    req.SalonID,
			EmployeeID: req.EmployeeID,
			Date:       req.Date,
			StartTime:  req.StartTime,
			EndTime:    req.EndTime,
		},
		Expected: domain.SlotStatusAvailable,
		New:      domain.SlotStatusBlocked,
		Payload:  domain.BlockedPayload{Reason: req.Reason},
	}, &actor.UserID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Block: slot=%s blocked by user=%d", slot.ID, actor.UserID)
	return slot, nil
}

// Release переводит reserved|blocked -> available, данные payload отбрасываются
func (s *Service) Release(ctx context.Context, actor domain.Actor, slotID string) (*domain.Slot, error) {
	s.logger.Info("Release: user=%d, slot=%s", actor.UserID, slotID)

	// 1. Получаем текущее состояние
	current, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("Release: slot=%s not found", slotID)
			return nil, ErrSlotNotFound
		}
		s.logger.Error("Release: repository error for slot=%s: %v", slotID, err)
		return nil, fmt.Errorf("%w: Release - repository error: %v", ErrInternal, err)
	}

	// 2. Проверяем переход и права
	if err := domain.ValidateTransition(current.Status, domain.SlotStatusAvailable); err != nil {
		s.logger.Warn("Release: slot=%s: %v", slotID, err)
		return nil, err
	}
	if err := s.authorize(actor, current.Status, domain.SlotStatusAvailable); err != nil {
		return nil, err
	}

	// 3. Атомарная условная запись
	slot, err := s.commit(ctx, "Release", domain.StatusChange{
		SlotID:   slotID,
		Expected: current.Status,
		New:      domain.SlotStatusAvailable,
		Payload:  domain.AvailablePayload{},
	}, &actor.UserID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Release: slot=%s released by user=%d (was %s)", slot.ID, actor.UserID, current.Status)
	return slot, nil
}

// GetDetail возвращает слот с именами сотрудника и услуги
func (s *Service) GetDetail(ctx context.Context, slotID string) (*models.SlotDetail, error) {
	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("GetDetail: slot=%s not found", slotID)
			return nil, ErrSlotNotFound
		}
		s.logger.Error("GetDetail: repository error for slot=%s: %v", slotID, err)
		return nil, fmt.Errorf("%w: GetDetail - repository error: %v", ErrInternal, err)
	}

	detail := &models.SlotDetail{Slot: slot}

	salon, err := s.catalog.GetSalon(ctx, slot.SalonID)
	if err != nil {
		// Карточка слота остается доступной без данных каталога
		s.logger.Warn("GetDetail: catalog unavailable for salon=%d: %v", slot.SalonID, err)
		return detail, nil
	}

	if employee, ok := salon.FindEmployee(slot.EmployeeID); ok {
		detail.EmployeeName = employee.Name
	}
	if reservation, ok := slot.Reservation(); ok {
		if service, ok := salon.FindService(reservation.ServiceID); ok {
			detail.ServiceName = service.Name
			detail.ServicePrice = service.Price
		}
	}

	return detail, nil
}

// Вспомогательные методы

func (s *Service) reserveWindow(ctx context.Context, service *domain.Service, req *models.ReserveRequest) (domain.StatusChange, error) {
	if req.EmployeeID <= 0 {
		return domain.StatusChange{}, fmt.Errorf("%w: employeeId is required", ErrInvalidInput)
	}
	if err := req.Date.Validate(); err != nil {
		return domain.StatusChange{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := req.StartTime.Validate(); err != nil {
		return domain.StatusChange{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	end, err := req.StartTime.AddMinutes(service.DurationMinutes)
	if err != nil {
		return domain.StatusChange{}, fmt.Errorf("%w: window ends after midnight", ErrSlotUnavailable)
	}

	err = s.availability.IsBookable(ctx, req.SalonID, req.EmployeeID, service.ID, req.Date, req.StartTime, end)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSlotUnavailable):
			s.logger.Warn("Reserve: window %s %s-%s is not available for employee=%d", req.Date, req.StartTime, end, req.EmployeeID)
			return domain.StatusChange{}, fmt.Errorf("%w: %v", ErrSlotUnavailable, err)
		case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrServiceEmployeeMismatch):
			s.logger.Warn("Reserve: availability check rejected request: %v", err)
			return domain.StatusChange{}, err
		default:
			s.logger.Error("Reserve: availability check failed: %v", err)
			return domain.StatusChange{}, fmt.Errorf("%w: Reserve - availability check: %v", ErrInternal, err)
		}
	}

	return domain.StatusChange{Key: &domain.SlotKey{
		SalonID:    req.SalonID,
		EmployeeID: req.EmployeeID,
		Date:       req.Date,
		StartTime:  req.StartTime,
		EndTime:    end,
	}}, nil
}

// commit выполняет условную запись и публикует событие
func (s *Service) commit(ctx context.Context, op string, change domain.StatusChange, actor *int64) (*domain.Slot, error) {
	from, to := string(change.Expected), string(change.New)

	slot, err := s.slotRepo.TrySetStatus(ctx, change)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSlotUnavailable):
			s.metrics.IncSlotTransition(from, to, metrics.ResultConflict)
			s.logger.Warn("%s: conditional write lost: %v", op, err)
			return nil, fmt.Errorf("%w: %v", ErrSlotUnavailable, err)
		case errors.Is(err, domain.ErrNotFound):
			s.metrics.IncSlotTransition(from, to, metrics.ResultError)
			return nil, ErrSlotNotFound
		case errors.Is(err, domain.ErrValidation):
			s.metrics.IncSlotTransition(from, to, metrics.ResultError)
			s.logger.Warn("%s: invalid status change: %v", op, err)
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		default:
			s.metrics.IncSlotTransition(from, to, metrics.ResultError)
			s.logger.Error("%s: repository error: %v", op, err)
			return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
		}
	}

	s.metrics.IncSlotTransition(from, to, metrics.ResultSuccess)
	s.publisher.Publish(ctx, domain.NewSlotChangedEvent(slot, change.Expected, actor, s.now().UTC()))

	return slot, nil
}

func (s *Service) authorize(actor domain.Actor, from, to domain.SlotStatus) error {
	if domain.RequiresEditRights(from, to) && !actor.CanEdit {
		s.logger.Warn("authorize: user=%d may not change slots %s -> %s", actor.UserID, from, to)
		return ErrForbidden
	}
	return nil
}

func (s *Service) getSalon(ctx context.Context, op string, salonID int64) (*domain.Salon, error) {
	salon, err := s.catalog.GetSalon(ctx, salonID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("%s: salon id=%d not found", op, salonID)
			return nil, ErrSalonNotFound
		}
		s.logger.Error("%s: failed to get salon id=%d: %v", op, salonID, err)
		return nil, fmt.Errorf("%w: %s - failed to get salon: %v", ErrInternal, op, err)
	}
	return salon, nil
}

func validateBlock(req *models.BlockRequest) error {
	if req.SalonID <= 0 || req.EmployeeID <= 0 {
		return fmt.Errorf("%w: salonId and employeeId are required", ErrInvalidInput)
	}
	if err := req.Date.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: start: %v", ErrInvalidInput, err)
	}
	if err := req.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: end: %v", ErrInvalidInput, err)
	}
	if !req.StartTime.IsBefore(req.EndTime) {
		return fmt.Errorf("%w: start must be before end", ErrInvalidInput)
	}
	if len([]rune(req.Reason)) > domain.MaxBlockReasonLength {
		return fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxBlockReasonLength)
	}
	return nil
}
