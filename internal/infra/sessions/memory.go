package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

type memoryEntry struct {
	data      []byte
	version   int64
	expiresAt time.Time // zero = без ограничения
}

// MemoryStore хранит сессии в памяти процесса
// Документы сериализуются так же, как в Redis, чтобы вызывающий код не разделял состояние с хранилищем
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore создает хранилище сессий в памяти
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Create сохраняет новую сессию; существующий документ не перезаписывается
func (s *MemoryStore) Create(_ context.Context, session *domain.WizardSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("%w: Create - marshal session %s: %v", ErrEncode, session.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lookup(session.ID); ok {
		return fmt.Errorf("%w: %s", ErrSessionExists, session.ID)
	}
	s.entries[session.ID] = s.entry(data, session.Version)
	return nil
}

// Update перезаписывает сессию, если в хранилище лежит версия session.Version
func (s *MemoryStore) Update(_ context.Context, session *domain.WizardSession) error {
	next := *session
	next.Version++
	data, err := json.Marshal(&next)
	if err != nil {
		return fmt.Errorf("%w: Update - marshal session %s: %v", ErrEncode, session.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.lookup(session.ID)
	if !ok {
		return ErrSessionNotFound
	}
	if current.version != session.Version {
		return fmt.Errorf("%w: %s stored=%d expected=%d", ErrVersionConflict, session.ID, current.version, session.Version)
	}

	s.entries[session.ID] = s.entry(data, next.Version)
	session.Version = next.Version
	return nil
}

// Get загружает документ сессии
func (s *MemoryStore) Get(_ context.Context, id string) (*domain.WizardSession, error) {
	s.mu.Lock()
	entry, ok := s.lookup(id)
	s.mu.Unlock()

	if !ok {
		return nil, ErrSessionNotFound
	}

	var session domain.WizardSession
	if err := json.Unmarshal(entry.data, &session); err != nil {
		return nil, fmt.Errorf("%w: Get - unmarshal %s: %v", ErrDecode, id, err)
	}
	return &session, nil
}

// Delete удаляет сессию
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}

// lookup возвращает живую запись; вызывается под s.mu
func (s *MemoryStore) lookup(id string) (memoryEntry, bool) {
	entry, ok := s.entries[id]
	if ok && !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		delete(s.entries, id)
		return memoryEntry{}, false
	}
	return entry, ok
}

func (s *MemoryStore) entry(data []byte, version int64) memoryEntry {
	entry := memoryEntry{data: data, version: version}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}
	return entry
}
