package compute_availability

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

var (
	// ErrSalonNotFound возвращается, когда салон не найден
	ErrSalonNotFound = fmt.Errorf("compute_availability: salon not found: %w", domain.ErrNotFound)

	// ErrServiceNotFound возвращается, когда услуга не найдена в салоне
	ErrServiceNotFound = fmt.Errorf("compute_availability: service not found: %w", domain.ErrNotFound)

	// ErrEmployeeNotFound возвращается, когда сотрудник не найден в салоне
	ErrEmployeeNotFound = fmt.Errorf("compute_availability: employee not found: %w", domain.ErrNotFound)

	// ErrEmployeeNotQualified возвращается, когда сотрудник не выполняет услугу
	ErrEmployeeNotQualified = fmt.Errorf("compute_availability: %w", domain.ErrServiceEmployeeMismatch)

	// ErrDateInPast возвращается, когда дата раньше сегодняшней в часовом поясе салона
	ErrDateInPast = fmt.Errorf("compute_availability: date is in the past: %w", domain.ErrValidation)

	// ErrDateTooFarInFuture возвращается, когда дата за горизонтом планирования
	ErrDateTooFarInFuture = fmt.Errorf("compute_availability: date is beyond the booking horizon: %w", domain.ErrValidation)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("compute_availability: invalid input data: %w", domain.ErrValidation)

	// ErrWindowUnavailable возвращается, когда запрошенное окно не входит в доступные
	ErrWindowUnavailable = fmt.Errorf("compute_availability: %w", domain.ErrSlotUnavailable)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("compute_availability: internal error")
)
