package events

import (
	"context"
	"sync"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

type subscription struct {
	name    string
	handler Handler
}

// Bus раздает события всем подписчикам по порядку подписки
// Ошибка подписчика логируется и не влияет на остальных; коммит слота уже выполнен
type Bus struct {
	mu            sync.RWMutex
	subscriptions []subscription
	logger        Logger
}

// NewBus создает шину событий
func NewBus(logger Logger) *Bus {
	return &Bus{logger: logger}
}

// Subscribe регистрирует подписчика
func (b *Bus) Subscribe(name string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscriptions = append(b.subscriptions, subscription{name: name, handler: handler})
}

// Publish передает событие подписчикам
func (b *Bus) Publish(ctx context.Context, event domain.SlotChangedEvent) {
	b.mu.RLock()
	subscriptions := make([]subscription, len(b.subscriptions))
	copy(subscriptions, b.subscriptions)
	b.mu.RUnlock()

	for _, s := range subscriptions {
		if err := s.handler.HandleSlotChanged(ctx, event); err != nil {
			b.logger.Error("events: subscriber %s failed for slot=%s (%s -> %s): %v",
				s.name, event.SlotID, event.From, event.To, err)
		}
	}
}

// HandlerFunc адаптер функции к Handler
type HandlerFunc func(ctx context.Context, event domain.SlotChangedEvent) error

// HandleSlotChanged вызывает f(ctx, event)
func (f HandlerFunc) HandleSlotChanged(ctx context.Context, event domain.SlotChangedEvent) error {
	return f(ctx, event)
}
