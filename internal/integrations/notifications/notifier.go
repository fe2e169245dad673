package notifications

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// Notifier ставит задачи уведомлений клиента после коммита слота
type Notifier struct {
	client   Enqueuer
	queue    string
	maxRetry int
	logger   Logger
}

// NewNotifier создает новый экземпляр Notifier
func NewNotifier(client Enqueuer, queue string, maxRetry int, logger Logger) *Notifier {
	return &Notifier{
		client:   client,
		queue:    queue,
		maxRetry: maxRetry,
		logger:   logger,
	}
}

// HandleSlotChanged ставит задачу, если переход касается клиента
func (n *Notifier) HandleSlotChanged(ctx context.Context, event domain.SlotChangedEvent) error {
	taskType := TaskType(event)
	if taskType == "" {
		return nil
	}

	task, err := NewTask(taskType, event)
	if err != nil {
		return fmt.Errorf("%w: %s for slot=%s: %v", ErrBuildTask, taskType, event.SlotID, err)
	}

	info, err := n.client.EnqueueContext(ctx, task,
		asynq.Queue(n.queue),
		asynq.MaxRetry(n.maxRetry),
	)
	if err != nil {
		return fmt.Errorf("%w: %s for slot=%s: %v", ErrEnqueue, taskType, event.SlotID, err)
	}

	n.logger.Info("Enqueued %s task id=%s for slot=%s", taskType, info.ID, event.SlotID)
	return nil
}
