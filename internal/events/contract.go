package events

import (
	"context"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// Handler получатель событий об изменении слотов
type Handler interface {
	HandleSlotChanged(ctx context.Context, event domain.SlotChangedEvent) error
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
