package catalogcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/pkg/logger"
)

type countingCatalog struct {
	calls int
}

func (c *countingCatalog) GetSalon(_ context.Context, salonID int64) (*domain.Salon, error) {
	c.calls++
	if salonID != 1 {
		return nil, domain.ErrNotFound
	}
	return &domain.Salon{ID: 1, Name: "Downtown"}, nil
}

func TestCache_GetSalon(t *testing.T) {
	ctx := context.Background()
	source := &countingCatalog{}
	cache := New(source, 8, time.Minute, logger.NewNop())

	for i := 0; i < 3; i++ {
		salon, err := cache.GetSalon(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Downtown", salon.Name)
	}
	assert.Equal(t, 1, source.calls)

	cache.Invalidate(1)
	_, err := cache.GetSalon(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	source := &countingCatalog{}
	cache := New(source, 8, time.Minute, logger.NewNop())

	_, err := cache.GetSalon(ctx, 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = cache.GetSalon(ctx, 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 2, source.calls)
}

func TestCache_Expiry(t *testing.T) {
	ctx := context.Background()
	source := &countingCatalog{}
	cache := New(source, 8, 20*time.Millisecond, logger.NewNop())

	_, err := cache.GetSalon(ctx, 1)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, err := cache.GetSalon(ctx, 1)
		return err == nil && source.calls == 2
	}, time.Second, 10*time.Millisecond)
}
