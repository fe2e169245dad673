package release_slot

import (
	"context"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

type AgendaUseCase interface {
	ReleaseSlot(ctx context.Context, actor domain.Actor, slotID string) (*domain.Slot, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
