package agenda

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

var (
	// ErrSalonNotFound возвращается, когда салон не найден
	ErrSalonNotFound = fmt.Errorf("agenda: salon not found: %w", domain.ErrNotFound)

	// ErrInvalidRange возвращается при некорректном периоде
	ErrInvalidRange = fmt.Errorf("agenda: invalid date range: %w", domain.ErrValidation)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("agenda: invalid input data: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("agenda: internal error")
)
