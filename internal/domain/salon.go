package domain

import (
	"sort"
	"time"
	_ "time/tzdata"

	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// Salon represents a single service location of a tenant
type Salon struct {
	ID           int64
	Name         string
	Timezone     string // IANA, например "Europe/Moscow"
	WorkingHours WorkingHours
	Employees    []Employee
	Services     []Service
}

// Employee represents a salon employee
type Employee struct {
	ID           int64
	Name         string
	SalonID      int64
	ServiceIDs   []int64
	WorkingHours *WorkingHours // nil = часы работы салона
}

// Service represents a bookable offering
type Service struct {
	ID              int64
	Name            string
	DurationMinutes int
	Price           float64
	EmployeeIDs     []int64
}

// WorkingHours расписание по дням недели
type WorkingHours struct {
	Monday    DaySchedule
	Tuesday   DaySchedule
	Wednesday DaySchedule
	Thursday  DaySchedule
	Friday    DaySchedule
	Saturday  DaySchedule
	Sunday    DaySchedule
}

// DaySchedule рабочие окна одного дня (пустой список = выходной)
type DaySchedule struct {
	Windows []TimeWindow
}

// TimeWindow полуинтервал [Start, End)
type TimeWindow struct {
	Start types.TimeString
	End   types.TimeString
}

// ForDay возвращает расписание на указанный день недели
func (w WorkingHours) ForDay(day time.Weekday) DaySchedule {
	switch day {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	case time.Sunday:
		return w.Sunday
	default:
		return DaySchedule{}
	}
}

// IsOpen returns true if the day has at least one working window
func (d DaySchedule) IsOpen() bool {
	return len(d.Windows) > 0
}

// Minutes returns the window length in minutes
func (w TimeWindow) Minutes() int {
	return w.End.Minutes() - w.Start.Minutes()
}

// Overlaps проверяет пересечение полуинтервалов
// Окна, касающиеся границами (09:00-10:00 и 10:00-11:00), не пересекаются
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.Start.IsBefore(other.End) && w.End.IsAfter(other.Start)
}

// Location returns the salon time zone, UTC if it is unset or unknown
func (s *Salon) Location() *time.Location {
	if s.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// FindEmployee ищет сотрудника салона по ID
func (s *Salon) FindEmployee(id int64) (*Employee, bool) {
	for i := range s.Employees {
		if s.Employees[i].ID == id {
			return &s.Employees[i], true
		}
	}
	return nil, false
}

// FindService ищет услугу салона по ID
func (s *Salon) FindService(id int64) (*Service, bool) {
	for i := range s.Services {
		if s.Services[i].ID == id {
			return &s.Services[i], true
		}
	}
	return nil, false
}

// IsQualified проверяет, что сотрудник может выполнять услугу
// Связь задается с любой стороны: в услуге или в сотруднике
func (s *Salon) IsQualified(employeeID, serviceID int64) bool {
	employee, ok := s.FindEmployee(employeeID)
	if !ok {
		return false
	}
	service, ok := s.FindService(serviceID)
	if !ok {
		return false
	}

	for _, id := range service.EmployeeIDs {
		if id == employeeID {
			return true
		}
	}
	for _, id := range employee.ServiceIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}

// QualifiedEmployees возвращает сотрудников, квалифицированных для услуги, в порядке возрастания ID
func (s *Salon) QualifiedEmployees(serviceID int64) []Employee {
	result := make([]Employee, 0)
	for _, e := range s.Employees {
		if s.IsQualified(e.ID, serviceID) {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// WorkingWindows возвращает рабочие окна сотрудника на дату
func (s *Salon) WorkingWindows(employee *Employee, date types.Date) []TimeWindow {
	hours := s.WorkingHours
	if employee != nil && employee.WorkingHours != nil {
		hours = *employee.WorkingHours
	}
	return hours.ForDay(date.Weekday()).Windows
}
