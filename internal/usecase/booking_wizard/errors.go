package booking_wizard

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена или уже удалена
	ErrSessionNotFound = fmt.Errorf("booking_wizard: session not found: %w", domain.ErrNotFound)

	// ErrSalonNotFound возвращается, когда салон не найден
	ErrSalonNotFound = fmt.Errorf("booking_wizard: salon not found: %w", domain.ErrNotFound)

	// ErrServiceNotFound возвращается, когда услуга не найдена в салоне
	ErrServiceNotFound = fmt.Errorf("booking_wizard: service not found: %w", domain.ErrNotFound)

	// ErrEmployeeNotFound возвращается, когда сотрудник не найден в салоне
	ErrEmployeeNotFound = fmt.Errorf("booking_wizard: employee not found: %w", domain.ErrNotFound)

	// ErrEmployeeNotQualified возвращается, когда сотрудник не входит в набор квалифицированных для услуги
	ErrEmployeeNotQualified = fmt.Errorf("booking_wizard: %w", domain.ErrServiceEmployeeMismatch)

	// ErrNoQualifiedEmployees возвращается, когда услугу не выполняет ни один сотрудник
	ErrNoQualifiedEmployees = fmt.Errorf("booking_wizard: no employee performs the service: %w", domain.ErrServiceEmployeeMismatch)

	// ErrSlotUnavailable возвращается, когда выбранное время уже занято
	ErrSlotUnavailable = fmt.Errorf("booking_wizard: %w", domain.ErrSlotUnavailable)

	// ErrSessionClosed возвращается для подтвержденной или прерванной сессии
	ErrSessionClosed = fmt.Errorf("booking_wizard: %w", domain.ErrSessionClosed)

	// ErrSessionConflict возвращается, когда сессию успел изменить параллельный запрос
	ErrSessionConflict = fmt.Errorf("booking_wizard: %w", domain.ErrSessionConflict)

	// ErrSessionBusy возвращается, пока по сессии выполняется бронирование
	ErrSessionBusy = fmt.Errorf("booking_wizard: booking is already in progress: %w", domain.ErrSessionConflict)

	// ErrInvalidStep возвращается, когда операция недопустима на текущем шаге
	ErrInvalidStep = fmt.Errorf("booking_wizard: %w", domain.ErrInvalidStep)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("booking_wizard: invalid input data: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("booking_wizard: internal error")
)
