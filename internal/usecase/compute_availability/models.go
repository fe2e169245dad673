package compute_availability

import (
	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// Request модель запроса доступности
type Request struct {
	SalonID    int64      // ID салона
	EmployeeID *int64     // nil = все квалифицированные сотрудники
	ServiceID  int64      // ID услуги
	Date       types.Date // Дата в часовом поясе салона
}

// Response модель ответа со списком доступных окон
type Response struct {
	SalonID         int64
	ServiceID       int64
	EmployeeID      *int64
	Date            types.Date
	DurationMinutes int
	Windows         []Window // По возрастанию (начало, сотрудник)
}

// Window доступное для бронирования окно
type Window struct {
	EmployeeID int64
	StartTime  types.TimeString
	EndTime    types.TimeString
}

// Key возвращает ключ слота, который займет бронирование окна
func (w Window) Key(salonID int64, date types.Date) domain.SlotKey {
	return domain.SlotKey{
		SalonID:    salonID,
		EmployeeID: w.EmployeeID,
		Date:       date,
		StartTime:  w.StartTime,
		EndTime:    w.EndTime,
	}
}

// Settings параметры расчета доступности
type Settings struct {
	HorizonDays      int // Максимум дней вперед от сегодняшней даты салона
	StepMinutes      int // Не меньше длительности услуги; 0 = шаг равен длительности
	MinNoticeMinutes int // Минимальное время от текущего момента до начала окна
}

// DefaultSettings возвращает параметры по умолчанию
func DefaultSettings() Settings {
	return Settings{
		HorizonDays:      domain.DefaultHorizonDays,
		StepMinutes:      domain.DefaultStepMinutes,
		MinNoticeMinutes: domain.DefaultMinNoticeMinutes,
	}
}
