package models

import (
	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// ReserveRequest запрос на бронирование окна сотрудника
type ReserveRequest struct {
	SalonID    int64
	EmployeeID int64
	ServiceID  int64
	Date       types.Date
	StartTime  types.TimeString
	Client     domain.ClientDetails
	Source     domain.BookingSource // пусто = wizard
}

// BlockRequest запрос на блокировку времени сотрудника
type BlockRequest struct {
	SalonID    int64
	EmployeeID int64
	Date       types.Date
	StartTime  types.TimeString
	EndTime    types.TimeString
	Reason     string // необязательно
}

// SlotDetail слот с данными каталога для карточки в agenda
type SlotDetail struct {
	Slot         *domain.Slot
	EmployeeName string
	ServiceName  string  // только для забронированного слота
	ServicePrice float64 // только для забронированного слота
}
