package notifications

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// Task types
const (
	TypeBookingConfirmed = "booking:confirmed"
	TypeBookingReleased  = "booking:released"
)

// TaskPayload данные задачи уведомления
// Доставку выполняет отдельный воркер, здесь задача только ставится в очередь
type TaskPayload struct {
	SlotID     string `json:"slot_id"`
	SalonID    int64  `json:"salon_id"`
	EmployeeID int64  `json:"employee_id"`
	Date       string `json:"date"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	ServiceID  *int64 `json:"service_id,omitempty"`
	ActorID    *int64 `json:"actor_id,omitempty"`
}

// TaskType выбирает тип задачи по переходу; пустая строка = уведомление не требуется
// Блокировки персонала клиенту не сообщаются
func TaskType(event domain.SlotChangedEvent) string {
	switch {
	case event.To == domain.SlotStatusReserved:
		return TypeBookingConfirmed
	case event.From == domain.SlotStatusReserved && event.To == domain.SlotStatusAvailable:
		return TypeBookingReleased
	default:
		return ""
	}
}

// NewTask формирует задачу asynq для события
func NewTask(taskType string, event domain.SlotChangedEvent) (*asynq.Task, error) {
	b, err := json.Marshal(TaskPayload{
		SlotID:     event.SlotID,
		SalonID:    event.SalonID,
		EmployeeID: event.EmployeeID,
		Date:       event.Date.String(),
		StartTime:  event.StartTime.String(),
		EndTime:    event.EndTime.String(),
		ServiceID:  event.ServiceID,
		ActorID:    event.ActorID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(taskType, b), nil
}
