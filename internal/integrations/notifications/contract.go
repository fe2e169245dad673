package notifications

import (
	"context"

	"github.com/hibiken/asynq"
)

// Enqueuer постановка задач в очередь (реализуется *asynq.Client)
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}
