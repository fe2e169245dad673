package domain

import (
	"time"

	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// SlotChangedEvent событие об успешном переходе статуса слота
type SlotChangedEvent struct {
	SlotID     string           `json:"slot_id"`
	SalonID    int64            `json:"salon_id"`
	EmployeeID int64            `json:"employee_id"`
	Date       types.Date       `json:"date"`
	StartTime  types.TimeString `json:"start_time"`
	EndTime    types.TimeString `json:"end_time"`
	From       SlotStatus       `json:"from"`
	To         SlotStatus       `json:"to"`
	ServiceID  *int64           `json:"service_id,omitempty"`
	ActorID    *int64           `json:"actor_id,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// NewSlotChangedEvent builds an event from the committed slot
func NewSlotChangedEvent(slot *Slot, from SlotStatus, actorID *int64, at time.Time) SlotChangedEvent {
	event := SlotChangedEvent{
		SlotID:     slot.ID,
		SalonID:    slot.SalonID,
		EmployeeID: slot.EmployeeID,
		Date:       slot.Date,
		StartTime:  slot.StartTime,
		EndTime:    slot.EndTime,
		From:       from,
		To:         slot.Status,
		ActorID:    actorID,
		OccurredAt: at,
	}
	if reservation, ok := slot.Reservation(); ok {
		serviceID := reservation.ServiceID
		event.ServiceID = &serviceID
	}
	return event
}
