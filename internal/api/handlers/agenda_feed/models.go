package agenda_feed

import (
	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

const messageTypeSlotChanged = "slot_changed"

// FeedMessage сообщение для подписчиков agenda салона
type FeedMessage struct {
	Type       string `json:"type"`
	SlotID     string `json:"slotId"`
	SalonID    int64  `json:"salonId"`
	EmployeeID int64  `json:"employeeId"`
	Date       string `json:"date"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	From       string `json:"from"`
	To         string `json:"to"`
	ServiceID  *int64 `json:"serviceId,omitempty"`
	OccurredAt string `json:"occurredAt"`
}

// FromEvent конвертирует событие слота в сообщение ленты
func FromEvent(event domain.SlotChangedEvent) FeedMessage {
	return FeedMessage{
		Type:       messageTypeSlotChanged,
		SlotID:     event.SlotID,
		SalonID:    event.SalonID,
		EmployeeID: event.EmployeeID,
		Date:       event.Date.String(),
		StartTime:  event.StartTime.String(),
		EndTime:    event.EndTime.String(),
		From:       string(event.From),
		To:         string(event.To),
		ServiceID:  event.ServiceID,
		OccurredAt: event.OccurredAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
