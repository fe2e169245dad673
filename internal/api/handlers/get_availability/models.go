package get_availability

import (
	computeAvailability "github.com/m04kA/SMC-SalonBookingService/internal/usecase/compute_availability"
	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	SalonID         int64            `json:"salonId"`
	ServiceID       int64            `json:"serviceId"`
	EmployeeID      *int64           `json:"employeeId,omitempty"`
	Date            string           `json:"date"`
	DurationMinutes int              `json:"durationMinutes"`
	Windows         []WindowResponse `json:"windows"`
}

// WindowResponse доступное окно
type WindowResponse struct {
	EmployeeID int64  `json:"employeeId"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
}

// ToUseCaseRequest формирует запрос к use case (с парсингом даты)
func ToUseCaseRequest(salonID, serviceID int64, employeeID *int64, date string) (*computeAvailability.Request, error) {
	parsed, err := types.ParseDate(date)
	if err != nil {
		return nil, err
	}

	return &computeAvailability.Request{
		SalonID:    salonID,
		EmployeeID: employeeID,
		ServiceID:  serviceID,
		Date:       parsed,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *computeAvailability.Response) AvailabilityResponse {
	windows := make([]WindowResponse, 0, len(resp.Windows))
	for _, w := range resp.Windows {
		windows = append(windows, WindowResponse{
			EmployeeID: w.EmployeeID,
			StartTime:  w.StartTime.String(),
			EndTime:    w.EndTime.String(),
		})
	}

	return AvailabilityResponse{
		SalonID:         resp.SalonID,
		ServiceID:       resp.ServiceID,
		EmployeeID:      resp.EmployeeID,
		Date:            resp.Date.String(),
		DurationMinutes: resp.DurationMinutes,
		Windows:         windows,
	}
}
