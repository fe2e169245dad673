package domain

import (
	"time"

	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// WizardStep шаг мастера бронирования
type WizardStep string

const (
	StepSelectService  WizardStep = "select_service"
	StepSelectEmployee WizardStep = "select_employee"
	StepSelectDateTime WizardStep = "select_date_time"
	StepEnterDetails   WizardStep = "enter_details"
	StepConfirmed      WizardStep = "confirmed"
	StepAbandoned      WizardStep = "abandoned"
)

// wizardSteps линейный порядок шагов
var wizardSteps = []WizardStep{
	StepSelectService,
	StepSelectEmployee,
	StepSelectDateTime,
	StepEnterDetails,
	StepConfirmed,
}

// Index возвращает позицию шага в линейном порядке или -1
func (s WizardStep) Index() int {
	for i, step := range wizardSteps {
		if step == s {
			return i
		}
	}
	return -1
}

// IsFinal returns true if no further operations are accepted
func (s WizardStep) IsFinal() bool {
	return s == StepConfirmed || s == StepAbandoned
}

// Previous возвращает предыдущий шаг
func (s WizardStep) Previous() (WizardStep, bool) {
	idx := s.Index()
	if idx <= 0 {
		return "", false
	}
	return wizardSteps[idx-1], true
}

// BookingSelection накопленный выбор клиента
type BookingSelection struct {
	ServiceID            *int64           `json:"service_id,omitempty"`
	QualifiedEmployeeIDs []int64          `json:"qualified_employee_ids,omitempty"`
	EmployeeID           *int64           `json:"employee_id,omitempty"`
	AnyEmployee          bool             `json:"any_employee,omitempty"`
	Date                 types.Date       `json:"date,omitempty"`
	StartTime            types.TimeString `json:"start_time,omitempty"`
	EndTime              types.TimeString `json:"end_time,omitempty"`
	Client               *ClientDetails   `json:"client,omitempty"`
}

// WizardSession документ сессии мастера бронирования
type WizardSession struct {
	ID         string           `json:"id"`
	SalonID    int64            `json:"salon_id"`
	Step       WizardStep       `json:"step"`
	Selection  BookingSelection `json:"selection"`
	SlotID     string           `json:"slot_id,omitempty"`
	Committing bool             `json:"committing,omitempty"` // идет бронирование, повторная отправка отклоняется
	Version    int64            `json:"version"`              // растет при каждом сохранении
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// ClearAfter сбрасывает выбор, сделанный на шагах строго после target
func (s *WizardSession) ClearAfter(target WizardStep) {
	idx := target.Index()

	if idx < StepSelectEmployee.Index() {
		s.Selection.EmployeeID = nil
		s.Selection.AnyEmployee = false
	}
	if idx < StepSelectDateTime.Index() {
		s.Selection.Date = ""
		s.Selection.StartTime = ""
		s.Selection.EndTime = ""
	}
	if idx < StepEnterDetails.Index() {
		s.Selection.Client = nil
	}
}
