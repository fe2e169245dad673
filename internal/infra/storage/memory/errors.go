package memory

import (
	"fmt"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = fmt.Errorf("slot.memory: slot not found: %w", domain.ErrNotFound)

	// ErrConflict возвращается, когда статус слота изменился или время сотрудника занято
	ErrConflict = fmt.Errorf("slot.memory: conditional write conflict: %w", domain.ErrSlotUnavailable)

	// ErrInvalidChange возвращается при некорректном запросе на изменение статуса
	ErrInvalidChange = fmt.Errorf("slot.memory: invalid status change: %w", domain.ErrValidation)
)
