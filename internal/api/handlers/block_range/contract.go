package block_range

import (
	"context"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/slots/models"
)

type AgendaUseCase interface {
	BlockRange(ctx context.Context, actor domain.Actor, req *models.BlockRequest) (*domain.Slot, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
