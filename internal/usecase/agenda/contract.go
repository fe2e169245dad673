package agenda

import (
	"context"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/slots/models"
)

// SlotRepository интерфейс чтения слотов
type SlotRepository interface {
	GetSlots(ctx context.Context, q domain.SlotQuery) ([]*domain.Slot, error)
}

// Catalog интерфейс каталога салонов
type Catalog interface {
	GetSalon(ctx context.Context, salonID int64) (*domain.Salon, error)
}

// SlotService действия персонала над слотами
type SlotService interface {
	Block(ctx context.Context, actor domain.Actor, req *models.BlockRequest) (*domain.Slot, error)
	Release(ctx context.Context, actor domain.Actor, slotID string) (*domain.Slot, error)
	GetDetail(ctx context.Context, slotID string) (*models.SlotDetail, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
