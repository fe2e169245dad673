package get_agenda

import (
	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/usecase/agenda"
	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// AgendaResponse HTTP response model
type AgendaResponse struct {
	SalonID  int64           `json:"salonId"`
	From     string          `json:"from"`
	To       string          `json:"to"`
	Employee string          `json:"employee"`
	Service  string          `json:"service"`
	Entries  []EntryResponse `json:"entries"`
}

// EntryResponse запись календаря
type EntryResponse struct {
	SlotID       string `json:"slotId"`
	EmployeeID   int64  `json:"employeeId"`
	EmployeeName string `json:"employeeName"`
	Date         string `json:"date"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	Status       string `json:"status"`
	Label        string `json:"label"`
	Color        string `json:"color"`
	ServiceID    *int64 `json:"serviceId,omitempty"`
	ServiceName  string `json:"serviceName,omitempty"`
	ClientName   string `json:"clientName,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

// ToUseCaseRequest конвертирует query параметры в запрос use case
func ToUseCaseRequest(salonID int64, from, to, employee, service string) (*agenda.Request, error) {
	fromDate, err := types.ParseDate(from)
	if err != nil {
		return nil, err
	}
	toDate, err := types.ParseDate(to)
	if err != nil {
		return nil, err
	}
	return &agenda.Request{
		SalonID: salonID,
		From:    fromDate,
		To:      toDate,
		Filter:  domain.NewAgendaFilter(employee, service),
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *agenda.Response) AgendaResponse {
	entries := make([]EntryResponse, 0, len(resp.Entries))
	for _, e := range resp.Entries {
		entries = append(entries, EntryResponse{
			SlotID:       e.SlotID,
			EmployeeID:   e.EmployeeID,
			EmployeeName: e.EmployeeName,
			Date:         e.Date.String(),
			StartTime:    e.StartTime.String(),
			EndTime:      e.EndTime.String(),
			Status:       string(e.Status),
			Label:        e.Label,
			Color:        e.Color,
			ServiceID:    e.ServiceID,
			ServiceName:  e.ServiceName,
			ClientName:   e.ClientName,
			Reason:       e.Reason,
		})
	}

	return AgendaResponse{
		SalonID:  resp.SalonID,
		From:     resp.From.String(),
		To:       resp.To.String(),
		Employee: resp.Filter.Employee,
		Service:  resp.Filter.Service,
		Entries:  entries,
	}
}
