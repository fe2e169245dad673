package booking_wizard

import (
	"context"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	bookingWizard "github.com/m04kA/SMC-SalonBookingService/internal/usecase/booking_wizard"
)

type WizardUseCase interface {
	Start(ctx context.Context, salonID int64) (*bookingWizard.Response, error)
	Get(ctx context.Context, sessionID string) (*bookingWizard.Response, error)
	SelectService(ctx context.Context, sessionID string, serviceID int64) (*bookingWizard.Response, error)
	SelectEmployee(ctx context.Context, sessionID string, employeeID *int64) (*bookingWizard.Response, error)
	SelectDateTime(ctx context.Context, sessionID string, req *bookingWizard.DateTimeRequest) (*bookingWizard.Response, error)
	SubmitDetails(ctx context.Context, sessionID string, client domain.ClientDetails) (*bookingWizard.Response, error)
	GoBack(ctx context.Context, sessionID string) (*bookingWizard.Response, error)
	GoBackTo(ctx context.Context, sessionID string, target domain.WizardStep) (*bookingWizard.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
