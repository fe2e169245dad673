package block_range

import (
	"github.com/m04kA/SMC-SalonBookingService/internal/service/slots/models"
	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// BlockRangeRequest HTTP request model
type BlockRangeRequest struct {
	EmployeeID int64  `json:"employeeId"`
	Date       string `json:"date"`      // "2026-10-16"
	StartTime  string `json:"startTime"` // "12:00"
	EndTime    string `json:"endTime"`   // "13:00"
	Reason     string `json:"reason,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в запрос сервиса слотов
func (r *BlockRangeRequest) ToUseCaseRequest(salonID int64) (*models.BlockRequest, error) {
	date, err := types.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}
	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, err
	}

	return &models.BlockRequest{
		SalonID:    salonID,
		EmployeeID: r.EmployeeID,
		Date:       date,
		StartTime:  start,
		EndTime:    end,
		Reason:     r.Reason,
	}, nil
}
