package domain

import (
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// SlotKey составной ключ слота (салон, сотрудник, дата, начало, конец)
type SlotKey struct {
	SalonID    int64
	EmployeeID int64
	Date       types.Date
	StartTime  types.TimeString
	EndTime    types.TimeString
}

// Window returns the key time range
func (k SlotKey) Window() TimeWindow {
	return TimeWindow{Start: k.StartTime, End: k.EndTime}
}

func (k SlotKey) String() string {
	return fmt.Sprintf("salon=%d employee=%d %s %s-%s", k.SalonID, k.EmployeeID, k.Date, k.StartTime, k.EndTime)
}

// SlotQuery фильтр чтения слотов
type SlotQuery struct {
	SalonID    int64        // Обязательный параметр
	EmployeeID *int64       // nil = все сотрудники
	From       types.Date   // Начало периода включительно
	To         types.Date   // Конец периода включительно
	Statuses   []SlotStatus // пусто = любые статусы
}

// StatusChange атомарная условная запись статуса слота
// Указывается либо SlotID (существующий слот), либо Key (слот, который может быть еще не материализован)
type StatusChange struct {
	SlotID   string
	Key      *SlotKey
	Expected SlotStatus
	New      SlotStatus
	Payload  SlotPayload
}

// Validate проверяет согласованность запроса на изменение статуса
func (c StatusChange) Validate() error {
	if (c.SlotID == "") == (c.Key == nil) {
		return fmt.Errorf("%w: exactly one of slot id or key is required", ErrValidation)
	}
	if err := ValidateTransition(c.Expected, c.New); err != nil {
		return err
	}
	if c.Payload == nil || c.Payload.Status() != c.New {
		return fmt.Errorf("%w: payload does not match status %s", ErrValidation, c.New)
	}
	if c.Key != nil {
		if err := c.Key.Date.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		if err := c.Key.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		if err := c.Key.EndTime.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		if !c.Key.StartTime.IsBefore(c.Key.EndTime) {
			return fmt.Errorf("%w: start must be before end", ErrValidation)
		}
	}
	return nil
}

// AgendaFilter состояние фильтров agenda
// Значения: FilterAll или ID в виде строки
type AgendaFilter struct {
	Employee string
	Service  string
}

// NewAgendaFilter нормализует пустые значения в FilterAll
func NewAgendaFilter(employee, service string) AgendaFilter {
	if employee == "" {
		employee = FilterAll
	}
	if service == "" {
		service = FilterAll
	}
	return AgendaFilter{Employee: employee, Service: service}
}

// Validate проверяет, что фильтры равны FilterAll или числовому ID
func (f AgendaFilter) Validate() error {
	if err := validateFilterValue("employee", f.Employee); err != nil {
		return err
	}
	return validateFilterValue("service", f.Service)
}

// MatchesEmployee returns true if the filter keeps the employee
func (f AgendaFilter) MatchesEmployee(employeeID int64) bool {
	return f.Employee == FilterAll || f.Employee == strconv.FormatInt(employeeID, 10)
}

// MatchesService returns true if the filter keeps the service
// Свободные и заблокированные слоты не привязаны к услуге и проходят только фильтр "all"
func (f AgendaFilter) MatchesService(serviceID *int64) bool {
	if f.Service == FilterAll {
		return true
	}
	return serviceID != nil && f.Service == strconv.FormatInt(*serviceID, 10)
}

func validateFilterValue(name, value string) error {
	if value == FilterAll {
		return nil
	}
	if _, err := strconv.ParseInt(value, 10, 64); err != nil {
		return fmt.Errorf("%w: %s filter must be %q or an id", ErrValidation, name, FilterAll)
	}
	return nil
}
