package domain

import (
	"time"

	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// SlotStatus represents the status of a slot
type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusReserved  SlotStatus = "reserved"
	SlotStatusBlocked   SlotStatus = "blocked"
)

// BookingSource канал, через который создано бронирование
type BookingSource string

const (
	SourceWizard BookingSource = "wizard"
)

// Slot represents a concrete time window of one employee
type Slot struct {
	ID         string
	SalonID    int64
	EmployeeID int64
	Date       types.Date
	StartTime  types.TimeString
	EndTime    types.TimeString
	Status     SlotStatus
	Payload    SlotPayload // nil, если статус не распознан

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SlotPayload данные, зависящие от статуса слота
// Реализации: AvailablePayload, ReservedPayload, BlockedPayload
type SlotPayload interface {
	Status() SlotStatus
}

// AvailablePayload свободный слот не несет данных
type AvailablePayload struct{}

// ReservedPayload данные клиента забронированного слота
type ReservedPayload struct {
	ClientName string
	Contact    Contact
	ServiceID  int64
	Source     BookingSource
}

// BlockedPayload причина блокировки слота персоналом
type BlockedPayload struct {
	Reason string // может быть пустой
}

func (AvailablePayload) Status() SlotStatus { return SlotStatusAvailable }
func (ReservedPayload) Status() SlotStatus  { return SlotStatusReserved }
func (BlockedPayload) Status() SlotStatus   { return SlotStatusBlocked }

// IsKnown returns true if the status is one of the defined statuses
func (s SlotStatus) IsKnown() bool {
	switch s {
	case SlotStatusAvailable, SlotStatusReserved, SlotStatusBlocked:
		return true
	default:
		return false
	}
}

// IsOccupied returns true if the status takes employee time
func (s SlotStatus) IsOccupied() bool {
	return s == SlotStatusReserved || s == SlotStatusBlocked
}

// Window returns the slot time range
func (s *Slot) Window() TimeWindow {
	return TimeWindow{Start: s.StartTime, End: s.EndTime}
}

// Key returns the composite key of the slot
func (s *Slot) Key() SlotKey {
	return SlotKey{
		SalonID:    s.SalonID,
		EmployeeID: s.EmployeeID,
		Date:       s.Date,
		StartTime:  s.StartTime,
		EndTime:    s.EndTime,
	}
}

// Reservation returns the reservation payload if the slot is reserved
func (s *Slot) Reservation() (ReservedPayload, bool) {
	p, ok := s.Payload.(ReservedPayload)
	return p, ok
}

// Block returns the block payload if the slot is blocked
func (s *Slot) Block() (BlockedPayload, bool) {
	p, ok := s.Payload.(BlockedPayload)
	return p, ok
}

// IsConsistent проверяет, что payload соответствует статусу
func (s *Slot) IsConsistent() bool {
	if s.Payload == nil {
		return false
	}
	return s.Payload.Status() == s.Status
}
