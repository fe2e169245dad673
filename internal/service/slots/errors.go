package slots

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = fmt.Errorf("slots: slot not found: %w", domain.ErrNotFound)

	// ErrSalonNotFound возвращается, когда салон не найден
	ErrSalonNotFound = fmt.Errorf("slots: salon not found: %w", domain.ErrNotFound)

	// ErrEmployeeNotFound возвращается, когда сотрудник не найден в салоне
	ErrEmployeeNotFound = fmt.Errorf("slots: employee not found: %w", domain.ErrNotFound)

	// ErrServiceNotFound возвращается, когда услуга не найдена в салоне
	ErrServiceNotFound = fmt.Errorf("slots: service not found: %w", domain.ErrNotFound)

	// ErrSlotUnavailable возвращается, когда время занято или статус слота изменился
	ErrSlotUnavailable = fmt.Errorf("slots: %w", domain.ErrSlotUnavailable)

	// ErrForbidden возвращается, когда у актора нет прав на редактирование
	ErrForbidden = fmt.Errorf("slots: %w", domain.ErrForbidden)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("slots: invalid input data: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("slots: internal error")
)
