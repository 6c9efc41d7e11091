package notifications

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Типы событий, которые получает клиент по SSE.
const (
	EventConnected     = "connected"
	EventPlanGenerated = "plan_generated"
	EventPlanFailed    = "plan_failed"
	EventEventDeleted  = "event_deleted"
)

const subscriberBuffer = 10

type Event struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// PlanGenerated описывает готовый план события.
type PlanGenerated struct {
	EventID       uuid.UUID `json:"event_id"`
	EstimatedCost float64   `json:"estimated_cost"`
	Categories    int       `json:"categories"`
	Source        string    `json:"source"`
}

type Hub struct {
	mu          sync.RWMutex
	subscribers map[uuid.UUID]map[chan Event]struct{}
	dropped     func(eventType string)
}

// NewHub создает хаб для SSE-подписок.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[uuid.UUID]map[chan Event]struct{}),
	}
}

// OnDrop задает колбэк для событий, не поместившихся в буфер подписчика.
func (h *Hub) OnDrop(fn func(eventType string)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropped = fn
}

// Subscribe подписывает пользователя на события и возвращает канал и функцию отписки.
// Функцию отписки можно вызывать повторно.
func (h *Hub) Subscribe(userID uuid.UUID) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	defer h.mu.Unlock()

	userSubs, ok := h.subscribers[userID]
	if !ok {
		userSubs = make(map[chan Event]struct{})
		h.subscribers[userID] = userSubs
	}
	userSubs[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()

			if subs, exists := h.subscribers[userID]; exists {
				delete(subs, ch)
				if len(subs) == 0 {
					delete(h.subscribers, userID)
				}
			}
			close(ch)
		})
	}
}

// Publish отправляет событие всем подписчикам пользователя и возвращает число доставленных копий.
func (h *Hub) Publish(userID uuid.UUID, event Event) int {
	event.Timestamp = time.Now().UTC()

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for ch := range h.subscribers[userID] {
		select {
		case ch <- event:
			delivered++
		default:
			if h.dropped != nil {
				h.dropped(event.Type)
			}
		}
	}

	return delivered
}

// Subscribers возвращает общее число открытых подписок.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, subs := range h.subscribers {
		total += len(subs)
	}
	return total
}
