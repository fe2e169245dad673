package agenda

import (
	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// Request модель запроса agenda
type Request struct {
	SalonID int64
	From    types.Date // включительно
	To      types.Date // включительно
	Filter  domain.AgendaFilter
}

// Response модель ответа agenda
type Response struct {
	SalonID int64
	From    types.Date
	To      types.Date
	Filter  domain.AgendaFilter
	Entries []CalendarEntry
}

// CalendarEntry запись календаря персонала
type CalendarEntry struct {
	SlotID       string
	EmployeeID   int64
	EmployeeName string
	Date         types.Date
	StartTime    types.TimeString
	EndTime      types.TimeString
	Status       domain.SlotStatus
	Label        string
	Color        string
	ServiceID    *int64 // только для забронированного слота
	ServiceName  string
	ClientName   string
	Reason       string
}
