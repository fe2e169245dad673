package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/pkg/ptr"
)

func newSession() *domain.WizardSession {
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	return &domain.WizardSession{
		ID:      "8f2d6c1e-1111-4c1b-9b0e-000000000001",
		SalonID: 1,
		Step:    domain.StepEnterDetails,
		Selection: domain.BookingSelection{
			ServiceID:            ptr.Ptr(int64(100)),
			QualifiedEmployeeIDs: []int64{10, 20},
			AnyEmployee:          true,
			Date:                 "2026-10-16",
			StartTime:            "10:30",
			EndTime:              "11:00",
			Client: &domain.ClientDetails{
				Name:    "Anna",
				Contact: domain.Contact{Email: "anna@example.com"},
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, "booking_session:", ttl), mr
}

func TestRedisStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, 0)

	session := newSession()
	require.NoError(t, store.Create(ctx, session))
	assert.True(t, mr.Exists("booking_session:"+session.ID))
	assert.Zero(t, mr.TTL("booking_session:"+session.ID), "no retention limit")

	loaded, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session, loaded)

	require.NoError(t, store.Delete(ctx, session.ID))
	_, err = store.Get(ctx, session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStore_TTL(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, time.Hour)

	session := newSession()
	require.NoError(t, store.Create(ctx, session))
	assert.Equal(t, time.Hour, mr.TTL("booking_session:"+session.ID))

	mr.FastForward(2 * time.Hour)
	_, err := store.Get(ctx, session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStore_CorruptDocument(t *testing.T) {
	store, mr := newRedisStore(t, 0)
	require.NoError(t, mr.Set("booking_session:broken", "{not json"))

	_, err := store.Get(context.Background(), "broken")
	assert.ErrorIs(t, err, ErrDecode)
}

func TestRedisStore_Unavailable(t *testing.T) {
	store, mr := newRedisStore(t, 0)
	mr.Close()

	err := store.Create(context.Background(), newSession())
	assert.ErrorIs(t, err, ErrStore)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	session := newSession()
	require.NoError(t, store.Create(ctx, session))

	loaded, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session, loaded)

	loaded.Step = domain.StepConfirmed
	again, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StepEnterDetails, again.Step, "stored document is isolated from callers")

	now = now.Add(2 * time.Minute)
	_, err = store.Get(ctx, session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, store.Delete(ctx, "missing"))
}

type sessionStore interface {
	Create(ctx context.Context, session *domain.WizardSession) error
	Update(ctx context.Context, session *domain.WizardSession) error
	Get(ctx context.Context, id string) (*domain.WizardSession, error)
	Delete(ctx context.Context, id string) error
}

func TestStores_CompareAndSet(t *testing.T) {
	redisStore, _ := newRedisStore(t, time.Hour)

	tests := []struct {
		name  string
		store sessionStore
	}{
		{name: "redis", store: redisStore},
		{name: "memory", store: NewMemoryStore(time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			session := newSession()
			require.NoError(t, tt.store.Create(ctx, session))

			err := tt.store.Create(ctx, newSession())
			assert.ErrorIs(t, err, ErrSessionExists)

			first, err := tt.store.Get(ctx, session.ID)
			require.NoError(t, err)
			second, err := tt.store.Get(ctx, session.ID)
			require.NoError(t, err)

			first.Step = domain.StepSelectDateTime
			require.NoError(t, tt.store.Update(ctx, first))
			assert.Equal(t, int64(1), first.Version)

			second.Selection.Client = nil
			err = tt.store.Update(ctx, second)
			assert.ErrorIs(t, err, ErrVersionConflict, "stale copy is rejected")
			assert.Equal(t, int64(0), second.Version)

			loaded, err := tt.store.Get(ctx, session.ID)
			require.NoError(t, err)
			assert.Equal(t, domain.StepSelectDateTime, loaded.Step)
			assert.Equal(t, int64(1), loaded.Version)
			assert.NotNil(t, loaded.Selection.Client)

			require.NoError(t, tt.store.Delete(ctx, session.ID))
			err = tt.store.Update(ctx, loaded)
			assert.ErrorIs(t, err, ErrSessionNotFound)

			_, err = tt.store.Get(ctx, session.ID)
			assert.ErrorIs(t, err, ErrSessionNotFound, "update does not recreate a deleted session")
		})
	}
}

func TestRedisStore_UpdateKeepsTTL(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, time.Hour)

	session := newSession()
	require.NoError(t, store.Create(ctx, session))
	mr.FastForward(30 * time.Minute)

	require.NoError(t, store.Update(ctx, session))
	assert.Equal(t, time.Hour, mr.TTL("booking_session:"+session.ID), "update extends retention")
}
