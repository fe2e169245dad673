package compute_availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// validateRequest проверяет обязательные поля запроса
func validateRequest(req *Request) error {
	if req.SalonID <= 0 {
		return fmt.Errorf("%w: salonId must be positive", ErrInvalidInput)
	}
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceId must be positive", ErrInvalidInput)
	}
	if req.EmployeeID != nil && *req.EmployeeID <= 0 {
		return fmt.Errorf("%w: employeeId must be positive", ErrInvalidInput)
	}
	if err := req.Date.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// validateDate проверяет, что дата не в прошлом и не за горизонтом
// today - сегодняшняя дата в часовом поясе салона
func validateDate(date, today types.Date, horizonDays int) error {
	if date.Before(today) {
		return fmt.Errorf("%w: %s is before %s", ErrDateInPast, date, today)
	}
	if horizonDays > 0 && today.DaysUntil(date) > horizonDays {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, horizonDays)
	}
	return nil
}

// earliestStart возвращает минимальное допустимое начало окна на дату в минутах от начала суток
// now - текущее время в часовом поясе салона. ok=false, если на дату окон быть не может.
func earliestStart(date types.Date, now time.Time, noticeMinutes int) (minutes int, ok bool) {
	earliest := now.Add(time.Duration(noticeMinutes) * time.Minute)
	// Уже начавшаяся минута считается прошедшей
	if earliest.Second() > 0 || earliest.Nanosecond() > 0 {
		earliest = earliest.Truncate(time.Minute).Add(time.Minute)
	}

	earliestDate := types.NewDate(earliest)
	switch {
	case date.Before(earliestDate):
		return 0, false
	case date == earliestDate:
		return earliest.Hour()*60 + earliest.Minute(), true
	default:
		return 0, true
	}
}
