package notifications

import "errors"

var (
	// ErrBuildTask возвращается при ошибке формирования задачи
	ErrBuildTask = errors.New("notifications: failed to build task")

	// ErrEnqueue возвращается при ошибке постановки задачи в очередь
	ErrEnqueue = errors.New("notifications: failed to enqueue task")
)
