package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// SlotStore хранилище слотов в памяти процесса
// Используется с источником данных fixture; проверка и запись статуса выполняются под одним мьютексом
type SlotStore struct {
	mu    sync.Mutex
	slots map[string]*domain.Slot
	now   func() time.Time
}

// NewSlotStore создает пустое хранилище
func NewSlotStore() *SlotStore {
	return &SlotStore{
		slots: make(map[string]*domain.Slot),
		now:   time.Now,
	}
}

// GetSlots возвращает копии слотов салона за период
// Результат упорядочен по дате, времени начала и сотруднику
func (s *SlotStore) GetSlots(_ context.Context, q domain.SlotQuery) ([]*domain.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*domain.Slot, 0)
	for _, slot := range s.slots {
		if !matches(slot, q) {
			continue
		}
		copied := *slot
		result = append(result, &copied)
	}

	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.Date != b.Date {
			return a.Date.Before(b.Date)
		}
		if a.StartTime != b.StartTime {
			return a.StartTime.IsBefore(b.StartTime)
		}
		return a.EmployeeID < b.EmployeeID
	})

	return result, nil
}

// GetByID получает слот по ID
func (s *SlotStore) GetByID(_ context.Context, id string) (*domain.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots[id]
	if !ok {
		return nil, ErrSlotNotFound
	}
	copied := *slot
	return &copied, nil
}

// TrySetStatus атомарно переводит слот из Expected в New
// Несуществующий по ключу слот считается свободным и создается при записи.
func (s *SlotStore) TrySetStatus(_ context.Context, change domain.StatusChange) (*domain.Slot, error) {
	if err := change.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidChange, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// 1. Находим текущее состояние слота
	var current *domain.Slot
	if change.SlotID != "" {
		slot, ok := s.slots[change.SlotID]
		if !ok {
			return nil, ErrSlotNotFound
		}
		current = slot
	} else {
		current = s.findByKey(*change.Key)
	}

	// 2. Сверяем ожидаемый статус
	currentStatus := domain.SlotStatusAvailable
	if current != nil {
		currentStatus = current.Status
	}
	if currentStatus != change.Expected {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrConflict, change.Expected, currentStatus)
	}

	var (
		key       domain.SlotKey
		excludeID string
	)
	if current != nil {
		key = current.Key()
		excludeID = current.ID
	} else {
		key = *change.Key
	}

	// 3. Проверяем пересечения с занятым временем сотрудника
	if change.New.IsOccupied() && s.hasOccupiedOverlap(key, excludeID) {
		return nil, fmt.Errorf("%w: %s overlaps an occupied slot", ErrConflict, key)
	}

	now := s.now().UTC()

	// 4. Записываем
	if current == nil {
		current = &domain.Slot{
			ID:         uuid.NewString(),
			SalonID:    key.SalonID,
			EmployeeID: key.EmployeeID,
			Date:       key.Date,
			StartTime:  key.StartTime,
			EndTime:    key.EndTime,
			CreatedAt:  now,
		}
		s.slots[current.ID] = current
	}
	current.Status = change.New
	current.Payload = change.Payload
	current.UpdatedAt = now

	copied := *current
	return &copied, nil
}

// Put сохраняет слот как есть; для начального заполнения и тестов
func (s *SlotStore) Put(slot domain.Slot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	s.slots[slot.ID] = &slot
}

func (s *SlotStore) findByKey(key domain.SlotKey) *domain.Slot {
	for _, slot := range s.slots {
		if slot.Key() == key {
			return slot
		}
	}
	return nil
}

func (s *SlotStore) hasOccupiedOverlap(key domain.SlotKey, excludeID string) bool {
	window := key.Window()
	for _, slot := range s.slots {
		if slot.ID == excludeID || !slot.Status.IsOccupied() {
			continue
		}
		if slot.SalonID != key.SalonID || slot.EmployeeID != key.EmployeeID || slot.Date != key.Date {
			continue
		}
		if slot.Window().Overlaps(window) {
			return true
		}
	}
	return false
}

func matches(slot *domain.Slot, q domain.SlotQuery) bool {
	if slot.SalonID != q.SalonID {
		return false
	}
	if q.EmployeeID != nil && slot.EmployeeID != *q.EmployeeID {
		return false
	}
	if !q.From.IsZero() && slot.Date.Before(q.From) {
		return false
	}
	if !q.To.IsZero() && slot.Date.After(q.To) {
		return false
	}
	if len(q.Statuses) == 0 {
		return true
	}
	for _, status := range q.Statuses {
		if slot.Status == status {
			return true
		}
	}
	return false
}
