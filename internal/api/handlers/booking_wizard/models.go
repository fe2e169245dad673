package booking_wizard

import (
	"github.com/m04kA/SMC-SalonBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	bookingWizard "github.com/m04kA/SMC-SalonBookingService/internal/usecase/booking_wizard"
	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// SelectServiceRequest HTTP request model
type SelectServiceRequest struct {
	ServiceID int64 `json:"serviceId"`
}

// SelectEmployeeRequest HTTP request model; employeeId = null означает "любой сотрудник"
type SelectEmployeeRequest struct {
	EmployeeID *int64 `json:"employeeId"`
}

// SelectDateTimeRequest HTTP request model
type SelectDateTimeRequest struct {
	Date      string `json:"date"`      // "2026-10-16"
	StartTime string `json:"startTime"` // "10:30"
}

// SubmitDetailsRequest HTTP request model
type SubmitDetailsRequest struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// BackRequest HTTP request model; пустой step = на один шаг назад
type BackRequest struct {
	Step string `json:"step,omitempty"`
}

// SessionResponse HTTP response model
type SessionResponse struct {
	SessionID string                 `json:"sessionId"`
	SalonID   int64                  `json:"salonId"`
	Step      string                 `json:"step"`
	Selection SelectionResponse      `json:"selection"`
	SlotID    string                 `json:"slotId,omitempty"`
	Slot      *handlers.SlotResponse `json:"slot,omitempty"`
	UpdatedAt string                 `json:"updatedAt"`
}

// SelectionResponse накопленный выбор
type SelectionResponse struct {
	ServiceID            *int64  `json:"serviceId,omitempty"`
	QualifiedEmployeeIDs []int64 `json:"qualifiedEmployeeIds,omitempty"`
	EmployeeID           *int64  `json:"employeeId,omitempty"`
	AnyEmployee          bool    `json:"anyEmployee"`
	Date                 string  `json:"date,omitempty"`
	StartTime            string  `json:"startTime,omitempty"`
	EndTime              string  `json:"endTime,omitempty"`
	ClientName           string  `json:"clientName,omitempty"`
	Email                string  `json:"email,omitempty"`
	Phone                string  `json:"phone,omitempty"`
}

// ToUseCaseRequest конвертирует выбор даты и времени
func (r *SelectDateTimeRequest) ToUseCaseRequest() (*bookingWizard.DateTimeRequest, error) {
	date, err := types.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}
	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}
	return &bookingWizard.DateTimeRequest{Date: date, StartTime: start}, nil
}

// ToClientDetails конвертирует контакты клиента
func (r *SubmitDetailsRequest) ToClientDetails() domain.ClientDetails {
	return domain.ClientDetails{
		Name:    r.Name,
		Contact: domain.Contact{Email: r.Email, Phone: r.Phone},
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *bookingWizard.Response) SessionResponse {
	s := resp.Session
	out := SessionResponse{
		SessionID: s.ID,
		SalonID:   s.SalonID,
		Step:      string(s.Step),
		SlotID:    s.SlotID,
		UpdatedAt: s.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		Selection: SelectionResponse{
			ServiceID:            s.Selection.ServiceID,
			QualifiedEmployeeIDs: s.Selection.QualifiedEmployeeIDs,
			EmployeeID:           s.Selection.EmployeeID,
			AnyEmployee:          s.Selection.AnyEmployee,
			Date:                 s.Selection.Date.String(),
			StartTime:            s.Selection.StartTime.String(),
			EndTime:              s.Selection.EndTime.String(),
		},
	}
	if c := s.Selection.Client; c != nil {
		out.Selection.ClientName = c.Name
		out.Selection.Email = c.Contact.Email
		out.Selection.Phone = c.Contact.Phone
	}
	if resp.Slot != nil {
		slot := handlers.NewSlotResponse(resp.Slot)
		out.Slot = &slot
	}
	return out
}
