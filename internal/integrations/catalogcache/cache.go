package catalogcache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// Cache кэширует салоны поверх внешнего каталога
// Ошибки не кэшируются: отсутствующий салон запрашивается повторно
type Cache struct {
	next   Catalog
	salons *expirable.LRU[int64, *domain.Salon]
	logger Logger
}

// New создает кэш на size салонов с временем жизни ttl
func New(next Catalog, size int, ttl time.Duration, logger Logger) *Cache {
	logger.Info("Catalog cache enabled: size=%d, ttl=%s", size, ttl)
	return &Cache{
		next:   next,
		salons: expirable.NewLRU[int64, *domain.Salon](size, nil, ttl),
		logger: logger,
	}
}

// GetSalon возвращает салон из кэша или из источника
func (c *Cache) GetSalon(ctx context.Context, salonID int64) (*domain.Salon, error) {
	if salon, ok := c.salons.Get(salonID); ok {
		return salon, nil
	}

	salon, err := c.next.GetSalon(ctx, salonID)
	if err != nil {
		return nil, err
	}

	c.salons.Add(salonID, salon)
	return salon, nil
}

// Invalidate удаляет салон из кэша
func (c *Cache) Invalidate(salonID int64) {
	c.salons.Remove(salonID)
}
