package slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// SlotRepository интерфейс хранилища слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Slot, error)
	TrySetStatus(ctx context.Context, change domain.StatusChange) (*domain.Slot, error)
}

// Catalog интерфейс каталога салонов
type Catalog interface {
	GetSalon(ctx context.Context, salonID int64) (*domain.Salon, error)
}

// AvailabilityChecker проверка точного совпадения с доступным окном
type AvailabilityChecker interface {
	IsBookable(ctx context.Context, salonID, employeeID, serviceID int64, date types.Date, start, end types.TimeString) error
}

// EventPublisher публикация событий после коммита
type EventPublisher interface {
	Publish(ctx context.Context, event domain.SlotChangedEvent)
}

// Metrics счетчики переходов
type Metrics interface {
	IncSlotTransition(from, to, result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Clock источник текущего времени
type Clock func() time.Time
