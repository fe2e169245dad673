package slot

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = fmt.Errorf("slot.repository: slot %w", domain.ErrNotFound)

	// ErrConflict возвращается, когда условная запись не прошла: статус изменился или время занято
	ErrConflict = fmt.Errorf("slot.repository: conditional write conflict: %w", domain.ErrSlotUnavailable)

	// ErrInvalidChange возвращается при некорректном запросе на изменение статуса
	ErrInvalidChange = fmt.Errorf("slot.repository: %w", domain.ErrValidation)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slot.repository: failed to scan row")
)
