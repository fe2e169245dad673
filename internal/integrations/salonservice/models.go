package salonservice

import (
	"fmt"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// Salon модель салона из SalonService
// Тот же формат используется в TOML-файле фикстур
type Salon struct {
	ID           int64        `json:"id" toml:"id"`
	Name         string       `json:"name" toml:"name"`
	Timezone     string       `json:"timezone" toml:"timezone"`
	WorkingHours WorkingHours `json:"working_hours" toml:"working_hours"`
	Employees    []Employee   `json:"employees" toml:"employees"`
	Services     []Service    `json:"services" toml:"services"`
}

// Employee модель сотрудника салона
type Employee struct {
	ID           int64         `json:"id" toml:"id"`
	Name         string        `json:"name" toml:"name"`
	ServiceIDs   []int64       `json:"service_ids" toml:"service_ids"`
	WorkingHours *WorkingHours `json:"working_hours,omitempty" toml:"working_hours"` // nil = часы работы салона
}

// Service модель услуги салона
type Service struct {
	ID              int64   `json:"id" toml:"id"`
	Name            string  `json:"name" toml:"name"`
	DurationMinutes int     `json:"duration_minutes" toml:"duration_minutes"`
	Price           float64 `json:"price" toml:"price"`
	EmployeeIDs     []int64 `json:"employee_ids" toml:"employee_ids"`
}

// WorkingHours расписание работы по дням недели
type WorkingHours struct {
	Monday    []Window `json:"monday" toml:"monday"`
	Tuesday   []Window `json:"tuesday" toml:"tuesday"`
	Wednesday []Window `json:"wednesday" toml:"wednesday"`
	Thursday  []Window `json:"thursday" toml:"thursday"`
	Friday    []Window `json:"friday" toml:"friday"`
	Saturday  []Window `json:"saturday" toml:"saturday"`
	Sunday    []Window `json:"sunday" toml:"sunday"`
}

// Window рабочее окно в формате HH:MM
type Window struct {
	Open  string `json:"open" toml:"open"`
	Close string `json:"close" toml:"close"`
}

// ErrorResponse модель ошибки от SalonService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ToDomain конвертирует ответ SalonService в доменную модель
func (s *Salon) ToDomain() (*domain.Salon, error) {
	hours, err := s.WorkingHours.toDomain()
	if err != nil {
		return nil, fmt.Errorf("salon %d: %w", s.ID, err)
	}

	salon := &domain.Salon{
		ID:           s.ID,
		Name:         s.Name,
		Timezone:     s.Timezone,
		WorkingHours: hours,
		Employees:    make([]domain.Employee, 0, len(s.Employees)),
		Services:     make([]domain.Service, 0, len(s.Services)),
	}
	if salon.Timezone == "" {
		salon.Timezone = domain.DefaultTimezone
	}

	for _, e := range s.Employees {
		employee := domain.Employee{
			ID:         e.ID,
			Name:       e.Name,
			SalonID:    s.ID,
			ServiceIDs: e.ServiceIDs,
		}
		if e.WorkingHours != nil {
			own, err := e.WorkingHours.toDomain()
			if err != nil {
				return nil, fmt.Errorf("employee %d: %w", e.ID, err)
			}
			employee.WorkingHours = &own
		}
		salon.Employees = append(salon.Employees, employee)
	}

	for _, svc := range s.Services {
		if svc.DurationMinutes < domain.MinServiceDurationMinutes || svc.DurationMinutes > domain.MaxServiceDurationMinutes {
			return nil, fmt.Errorf("service %d: duration %d out of range", svc.ID, svc.DurationMinutes)
		}
		salon.Services = append(salon.Services, domain.Service{
			ID:              svc.ID,
			Name:            svc.Name,
			DurationMinutes: svc.DurationMinutes,
			Price:           svc.Price,
			EmployeeIDs:     svc.EmployeeIDs,
		})
	}

	return salon, nil
}

func (w WorkingHours) toDomain() (domain.WorkingHours, error) {
	var result domain.WorkingHours

	days := []struct {
		name    string
		windows []Window
		target  *domain.DaySchedule
	}{
		{"monday", w.Monday, &result.Monday},
		{"tuesday", w.Tuesday, &result.Tuesday},
		{"wednesday", w.Wednesday, &result.Wednesday},
		{"thursday", w.Thursday, &result.Thursday},
		{"friday", w.Friday, &result.Friday},
		{"saturday", w.Saturday, &result.Saturday},
		{"sunday", w.Sunday, &result.Sunday},
	}

	for _, day := range days {
		schedule, err := ParseWindows(day.windows)
		if err != nil {
			return domain.WorkingHours{}, fmt.Errorf("%s: %w", day.name, err)
		}
		*day.target = schedule
	}

	return result, nil
}

// ParseWindows конвертирует окна HH:MM в доменное расписание дня
func ParseWindows(windows []Window) (domain.DaySchedule, error) {
	schedule := domain.DaySchedule{Windows: make([]domain.TimeWindow, 0, len(windows))}
	for _, w := range windows {
		start, err := types.NewTimeStringFromString(w.Open)
		if err != nil {
			return domain.DaySchedule{}, fmt.Errorf("open %q: %w", w.Open, err)
		}
		end, err := types.NewTimeStringFromString(w.Close)
		if err != nil {
			return domain.DaySchedule{}, fmt.Errorf("close %q: %w", w.Close, err)
		}
		if !start.IsBefore(end) {
			return domain.DaySchedule{}, fmt.Errorf("window %s-%s: open must be before close", start, end)
		}
		schedule.Windows = append(schedule.Windows, domain.TimeWindow{Start: start, End: end})
	}
	return schedule, nil
}
