package booking_wizard

import (
	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// DateTimeRequest выбор даты и времени начала
type DateTimeRequest struct {
	Date      types.Date
	StartTime types.TimeString
}

// Response состояние сессии после операции
type Response struct {
	Session *domain.WizardSession
	Slot    *domain.Slot // только после подтверждения
}
