package agenda_feed

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/m04kA/SMC-SalonBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

const (
	msgInvalidSalonID = "invalid salon id"

	writeTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type subscriber struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (s *subscriber) write(payload []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub раздает изменения слотов открытым agenda по салонам
type Hub struct {
	mu          sync.Mutex
	subscribers map[int64]map[*subscriber]struct{}
	logger      Logger
}

func NewHub(logger Logger) *Hub {
	return &Hub{
		subscribers: make(map[int64]map[*subscriber]struct{}),
		logger:      logger,
	}
}

// Handle GET /api/v1/salons/{salonId}/agenda/feed
func (h *Hub) Handle(w http.ResponseWriter, r *http.Request) {
	salonID, err := strconv.ParseInt(mux.Vars(r)["salonId"], 10, 64)
	if err != nil || salonID <= 0 {
		h.logger.Warn("GET /salons/{id}/agenda/feed - Invalid salon ID: %s", mux.Vars(r)["salonId"])
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade уже записал ответ
		h.logger.Warn("GET /salons/{id}/agenda/feed - Upgrade failed: %v", err)
		return
	}

	sub := &subscriber{conn: conn}
	h.add(salonID, sub)
	h.logger.Info("GET /salons/{id}/agenda/feed - Subscribed: salon_id=%d", salonID)

	// держим соединение, пока клиент не закроет его
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.remove(salonID, sub)
	_ = conn.Close()
	h.logger.Info("GET /salons/{id}/agenda/feed - Unsubscribed: salon_id=%d", salonID)
}

// HandleSlotChanged отправляет событие всем подписчикам салона
func (h *Hub) HandleSlotChanged(_ context.Context, event domain.SlotChangedEvent) error {
	payload, err := json.Marshal(FromEvent(event))
	if err != nil {
		return err
	}

	for _, sub := range h.snapshot(event.SalonID) {
		if err := sub.write(payload); err != nil {
			h.logger.Warn("agenda_feed: drop subscriber of salon=%d: %v", event.SalonID, err)
			h.remove(event.SalonID, sub)
			_ = sub.conn.Close()
		}
	}
	return nil
}

// Subscribers возвращает число открытых соединений салона
func (h *Hub) Subscribers(salonID int64) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers[salonID])
}

// Close закрывает все соединения
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for salonID, subs := range h.subscribers {
		for sub := range subs {
			_ = sub.conn.Close()
		}
		delete(h.subscribers, salonID)
	}
}

func (h *Hub) add(salonID int64, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.subscribers[salonID]
	if !ok {
		subs = make(map[*subscriber]struct{})
		h.subscribers[salonID] = subs
	}
	subs[sub] = struct{}{}
}

func (h *Hub) remove(salonID int64, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.subscribers[salonID]
	delete(subs, sub)
	if len(subs) == 0 {
		delete(h.subscribers, salonID)
	}
}

func (h *Hub) snapshot(salonID int64) []*subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := make([]*subscriber, 0, len(h.subscribers[salonID]))
	for sub := range h.subscribers[salonID] {
		subs = append(subs, sub)
	}
	return subs
}
