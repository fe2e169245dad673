package salonservice

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

var (
	// ErrSalonNotFound возвращается, когда салон не найден
	ErrSalonNotFound = fmt.Errorf("salonservice client: salon not found: %w", domain.ErrNotFound)

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("salonservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("salonservice client: invalid response")
)
