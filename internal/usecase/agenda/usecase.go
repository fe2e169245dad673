package agenda

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/slots/models"
)

// UseCase agenda персонала: чтение календаря и передача действий в машину состояний
type UseCase struct {
	slotRepo SlotRepository
	catalog  Catalog
	slots    SlotService
	logger   Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(slotRepo SlotRepository, catalog Catalog, slotService SlotService, logger Logger) *UseCase {
	return &UseCase{
		slotRepo: slotRepo,
		catalog:  catalog,
		slots:    slotService,
		logger:   logger,
	}
}

// Load загружает слоты салона за период и представляет их с учетом фильтров
func (uc *UseCase) Load(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("Agenda.Load: salon=%d, %s..%s, employee=%s, service=%s",
		req.SalonID, req.From, req.To, req.Filter.Employee, req.Filter.Service)

	// 1. Валидация входных данных
	filter := domain.NewAgendaFilter(req.Filter.Employee, req.Filter.Service)
	if err := validateRequest(req, filter); err != nil {
		uc.logger.Warn("Agenda.Load: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем салон
	salon, err := uc.catalog.GetSalon(ctx, req.SalonID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.logger.Warn("Agenda.Load: salon id=%d not found", req.SalonID)
			return nil, ErrSalonNotFound
		}
		uc.logger.Error("Agenda.Load: failed to get salon id=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: Load - failed to get salon: %v", ErrInternal, err)
	}

	// 3. Получаем слоты за период (все статусы)
	slots, err := uc.slotRepo.GetSlots(ctx, domain.SlotQuery{
		SalonID: req.SalonID,
		From:    req.From,
		To:      req.To,
	})
	if err != nil {
		uc.logger.Error("Agenda.Load: failed to get slots for salon=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: Load - failed to get slots: %v", ErrInternal, err)
	}

	// 4. Формируем календарь
	entries := Present(slots, salon.Employees, salon.Services, filter)

	uc.logger.Info("Agenda.Load: salon=%d, slots=%d, entries=%d", req.SalonID, len(slots), len(entries))
	return &Response{
		SalonID: req.SalonID,
		From:    req.From,
		To:      req.To,
		Filter:  filter,
		Entries: entries,
	}, nil
}

// BlockRange блокирует время сотрудника
func (uc *UseCase) BlockRange(ctx context.Context, actor domain.Actor, req *models.BlockRequest) (*domain.Slot, error) {
	return uc.slots.Block(ctx, actor, req)
}

// ReleaseSlot освобождает забронированный или заблокированный слот
func (uc *UseCase) ReleaseSlot(ctx context.Context, actor domain.Actor, slotID string) (*domain.Slot, error) {
	return uc.slots.Release(ctx, actor, slotID)
}

// ViewDetail возвращает карточку слота
func (uc *UseCase) ViewDetail(ctx context.Context, slotID string) (*models.SlotDetail, error) {
	return uc.slots.GetDetail(ctx, slotID)
}

func validateRequest(req *Request, filter domain.AgendaFilter) error {
	if req.SalonID <= 0 {
		return fmt.Errorf("%w: salonId must be positive", ErrInvalidInput)
	}
	if err := req.From.Validate(); err != nil {
		return fmt.Errorf("%w: from: %v", ErrInvalidRange, err)
	}
	if err := req.To.Validate(); err != nil {
		return fmt.Errorf("%w: to: %v", ErrInvalidRange, err)
	}
	if req.To.Before(req.From) {
		return fmt.Errorf("%w: from must not be after to", ErrInvalidRange)
	}
	if req.From.DaysUntil(req.To) >= domain.MaxAgendaRangeDays {
		return fmt.Errorf("%w: range must not exceed %d days", ErrInvalidRange, domain.MaxAgendaRangeDays)
	}
	if err := filter.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
