package get_slot

import (
	"github.com/m04kA/SMC-SalonBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/slots/models"
	"github.com/m04kA/SMC-SalonBookingService/pkg/ptr"
)

// SlotDetailResponse HTTP response model
type SlotDetailResponse struct {
	handlers.SlotResponse
	EmployeeName string   `json:"employeeName,omitempty"`
	ServiceName  string   `json:"serviceName,omitempty"`
	ServicePrice *float64 `json:"servicePrice,omitempty"`
}

// FromUseCaseResponse конвертирует карточку слота в HTTP модель
func FromUseCaseResponse(detail *models.SlotDetail) SlotDetailResponse {
	resp := SlotDetailResponse{
		SlotResponse: handlers.NewSlotResponse(detail.Slot),
		EmployeeName: detail.EmployeeName,
		ServiceName:  detail.ServiceName,
	}
	if detail.ServiceName != "" {
		resp.ServicePrice = ptr.Ptr(detail.ServicePrice)
	}
	return resp
}
