package get_agenda

import (
	"context"

	"github.com/m04kA/SMC-SalonBookingService/internal/usecase/agenda"
)

type AgendaUseCase interface {
	Load(ctx context.Context, req *agenda.Request) (*agenda.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
