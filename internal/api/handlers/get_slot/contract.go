package get_slot

import (
	"context"

	"github.com/m04kA/SMC-SalonBookingService/internal/service/slots/models"
)

type AgendaUseCase interface {
	ViewDetail(ctx context.Context, slotID string) (*models.SlotDetail, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
