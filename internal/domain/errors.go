package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation некорректные или отсутствующие входные данные
	ErrValidation = errors.New("validation error")

	// ErrServiceEmployeeMismatch сотрудник не квалифицирован для услуги
	ErrServiceEmployeeMismatch = errors.New("employee is not qualified for the service")

	// ErrSlotUnavailable выбранное время уже занято
	ErrSlotUnavailable = errors.New("that time is no longer available, please choose another")

	// ErrNotFound салон, сотрудник, услуга или слот не найдены
	ErrNotFound = errors.New("not found")

	// ErrForbidden у актора нет прав на редактирование
	ErrForbidden = errors.New("actor is not allowed to edit slots")

	// ErrSessionClosed сессия бронирования уже завершена
	ErrSessionClosed = errors.New("booking session is closed")

	// ErrSessionConflict сессия изменена параллельным запросом
	ErrSessionConflict = errors.New("booking session was changed by another request, please reload it")

	// ErrInvalidTransition переход между статусами слота не определен
	ErrInvalidTransition = fmt.Errorf("%w: invalid slot transition", ErrValidation)

	// ErrInvalidStep операция недопустима на текущем шаге мастера
	ErrInvalidStep = fmt.Errorf("%w: operation is not valid at the current step", ErrValidation)
)
