package fixtures

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

var (
	// ErrSalonNotFound возвращается, когда салона нет в каталоге
	ErrSalonNotFound = fmt.Errorf("fixtures: salon not found: %w", domain.ErrNotFound)

	// ErrInvalidFixtures возвращается при некорректном файле фикстур
	ErrInvalidFixtures = errors.New("fixtures: invalid fixtures file")
)
