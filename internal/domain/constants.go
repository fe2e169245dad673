package domain

// Default booking configuration values
const (
	DefaultHorizonDays      = 60
	DefaultStepMinutes      = 0 // 0 = шаг равен длительности услуги
	DefaultMinNoticeMinutes = 0
	DefaultTimezone         = "UTC"
)

// Business validation constants
const (
	MinServiceDurationMinutes = 5
	MaxServiceDurationMinutes = 480 // 8 hours
	MaxHorizonDays            = 365
	MaxClientNameLength       = 100
	MaxBlockReasonLength      = 200
	MaxAgendaRangeDays        = 62
)

// FilterAll значение фильтра agenda "без ограничения"
const FilterAll = "all"

// Agenda labels and colors
const (
	LabelBlocked   = "Blocked"
	LabelAvailable = "Available"
	LabelUnknown   = "Unknown"

	ColorReserved  = "#3b82f6"
	ColorBlocked   = "#9ca3af"
	ColorAvailable = "#22c55e"
	ColorUnknown   = "#ef4444"
)

// OccupiedStatuses статусы, занимающие время сотрудника
// Используется при проверке пересечений и вычислении доступности
var OccupiedStatuses = []SlotStatus{
	SlotStatusReserved,
	SlotStatusBlocked,
}
