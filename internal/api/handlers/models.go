package handlers

import (
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/pkg/ptr"
)

// SlotResponse HTTP модель слота
type SlotResponse struct {
	ID         string  `json:"id"`
	SalonID    int64   `json:"salonId"`
	EmployeeID int64   `json:"employeeId"`
	Date       string  `json:"date"`
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	Status     string  `json:"status"`
	ClientName *string `json:"clientName,omitempty"`
	Email      *string `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	ServiceID  *int64  `json:"serviceId,omitempty"`
	Source     *string `json:"source,omitempty"`
	Reason     *string `json:"reason,omitempty"`
	CreatedAt  string  `json:"createdAt,omitempty"`
	UpdatedAt  string  `json:"updatedAt,omitempty"`
}

// NewSlotResponse конвертирует слот в HTTP модель
func NewSlotResponse(slot *domain.Slot) SlotResponse {
	resp := SlotResponse{
		ID:         slot.ID,
		SalonID:    slot.SalonID,
		EmployeeID: slot.EmployeeID,
		Date:       slot.Date.String(),
		StartTime:  slot.StartTime.String(),
		EndTime:    slot.EndTime.String(),
		Status:     string(slot.Status),
		CreatedAt:  formatTime(slot.CreatedAt),
		UpdatedAt:  formatTime(slot.UpdatedAt),
	}

	switch p := slot.Payload.(type) {
	case domain.ReservedPayload:
		resp.ClientName = ptr.Ptr(p.ClientName)
		resp.ServiceID = ptr.Ptr(p.ServiceID)
		resp.Source = ptr.Ptr(string(p.Source))
		if p.Contact.Email != "" {
			resp.Email = ptr.Ptr(p.Contact.Email)
		}
		if p.Contact.Phone != "" {
			resp.Phone = ptr.Ptr(p.Contact.Phone)
		}
	case domain.BlockedPayload:
		if p.Reason != "" {
			resp.Reason = ptr.Ptr(p.Reason)
		}
	case domain.AvailablePayload:
	}

	return resp
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
