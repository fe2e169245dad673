package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// RedisStore хранит сессии мастера как JSON-документы в Redis
type RedisStore struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration // 0 = без ограничения срока хранения
}

// NewRedisStore создает хранилище сессий поверх клиента Redis
func NewRedisStore(client redis.UniversalClient, keyPrefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// Create сохраняет новую сессию; существующий документ не перезаписывается
func (s *RedisStore) Create(ctx context.Context, session *domain.WizardSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("%w: Create - marshal session %s: %v", ErrEncode, session.ID, err)
	}

	created, err := s.client.SetNX(ctx, s.key(session.ID), data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("%w: Create - setnx %s: %v", ErrStore, session.ID, err)
	}
	if !created {
		return fmt.Errorf("%w: %s", ErrSessionExists, session.ID)
	}
	return nil
}

// Update перезаписывает сессию, если в хранилище лежит версия session.Version
// При успехе версия увеличивается, срок хранения продлевается
func (s *RedisStore) Update(ctx context.Context, session *domain.WizardSession) error {
	next := *session
	next.Version++
	data, err := json.Marshal(&next)
	if err != nil {
		return fmt.Errorf("%w: Update - marshal session %s: %v", ErrEncode, session.ID, err)
	}

	key := s.key(session.ID)
	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("%w: Update - get %s: %v", ErrStore, session.ID, err)
		}

		var stored struct {
			Version int64 `json:"version"`
		}
		if err := json.Unmarshal(current, &stored); err != nil {
			return fmt.Errorf("%w: Update - unmarshal %s: %v", ErrDecode, session.ID, err)
		}
		if stored.Version != session.Version {
			return fmt.Errorf("%w: %s stored=%d expected=%d", ErrVersionConflict, session.ID, stored.Version, session.Version)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		return err
	}

	err = s.client.Watch(ctx, txf, key)
	switch {
	case err == nil:
		session.Version = next.Version
		return nil
	case errors.Is(err, redis.TxFailedErr):
		// ключ изменился между GET и EXEC
		return fmt.Errorf("%w: %s changed during update", ErrVersionConflict, session.ID)
	case errors.Is(err, ErrSessionNotFound),
		errors.Is(err, ErrVersionConflict),
		errors.Is(err, ErrDecode),
		errors.Is(err, ErrStore):
		return err
	default:
		return fmt.Errorf("%w: Update - exec %s: %v", ErrStore, session.ID, err)
	}
}

// Get загружает документ сессии
func (s *RedisStore) Get(ctx context.Context, id string) (*domain.WizardSession, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - get %s: %v", ErrStore, id, err)
	}

	var session domain.WizardSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("%w: Get - unmarshal %s: %v", ErrDecode, id, err)
	}
	return &session, nil
}

// Delete удаляет сессию; отсутствие сессии не считается ошибкой
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("%w: Delete - del %s: %v", ErrStore, id, err)
	}
	return nil
}

func (s *RedisStore) key(id string) string {
	return s.keyPrefix + id
}
