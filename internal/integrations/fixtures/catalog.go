package fixtures

import (
	"context"
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/integrations/salonservice"
)

// File формат TOML-файла фикстур
type File struct {
	Salons []salonservice.Salon `toml:"salons"`
}

// Catalog каталог салонов в памяти процесса
type Catalog struct {
	salons map[int64]*domain.Salon
}

// NewCatalog создает каталог из готовых салонов
func NewCatalog(salons ...*domain.Salon) *Catalog {
	c := &Catalog{salons: make(map[int64]*domain.Salon, len(salons))}
	for _, s := range salons {
		c.salons[s.ID] = s
	}
	return c
}

// Load читает каталог из TOML-файла
func Load(path string) (*Catalog, error) {
	var file File
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrInvalidFixtures, path, err)
	}
	if len(file.Salons) == 0 {
		return nil, fmt.Errorf("%w: %s has no salons", ErrInvalidFixtures, path)
	}

	salons := make([]*domain.Salon, 0, len(file.Salons))
	seen := make(map[int64]bool, len(file.Salons))
	for i := range file.Salons {
		if seen[file.Salons[i].ID] {
			return nil, fmt.Errorf("%w: duplicate salon id %d", ErrInvalidFixtures, file.Salons[i].ID)
		}
		seen[file.Salons[i].ID] = true

		salon, err := file.Salons[i].ToDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFixtures, err)
		}
		salons = append(salons, salon)
	}

	return NewCatalog(salons...), nil
}

// GetSalon возвращает салон по ID
func (c *Catalog) GetSalon(_ context.Context, salonID int64) (*domain.Salon, error) {
	salon, ok := c.salons[salonID]
	if !ok {
		return nil, ErrSalonNotFound
	}
	return salon, nil
}
