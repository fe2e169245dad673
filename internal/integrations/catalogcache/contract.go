package catalogcache

import (
	"context"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// Catalog источник данных каталога салонов
type Catalog interface {
	GetSalon(ctx context.Context, salonID int64) (*domain.Salon, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}
