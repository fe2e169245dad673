package compute_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// SlotRepository интерфейс чтения материализованных слотов
type SlotRepository interface {
	GetSlots(ctx context.Context, q domain.SlotQuery) ([]*domain.Slot, error)
}

// Catalog интерфейс каталога салонов
type Catalog interface {
	GetSalon(ctx context.Context, salonID int64) (*domain.Salon, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
