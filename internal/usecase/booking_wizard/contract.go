package booking_wizard

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/slots/models"
	"github.com/m04kA/SMC-SalonBookingService/internal/usecase/compute_availability"
	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// SessionStore интерфейс хранилища сессий мастера
// Update выполняет compare-and-set по WizardSession.Version
type SessionStore interface {
	Create(ctx context.Context, session *domain.WizardSession) error
	Update(ctx context.Context, session *domain.WizardSession) error
	Get(ctx context.Context, id string) (*domain.WizardSession, error)
	Delete(ctx context.Context, id string) error
}

// Catalog интерфейс каталога салонов
type Catalog interface {
	GetSalon(ctx context.Context, salonID int64) (*domain.Salon, error)
}

// Availability интерфейс повторной проверки окна по живой доступности
type Availability interface {
	FindWindows(ctx context.Context, req *compute_availability.Request, start types.TimeString) ([]compute_availability.Window, error)
}

// SlotService интерфейс машины состояний слота
type SlotService interface {
	Reserve(ctx context.Context, req *models.ReserveRequest) (*domain.Slot, error)
}

// Metrics счетчики шагов мастера
type Metrics interface {
	IncWizardStep(step, result string)
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
