package mq

import (
	"sync"

	"deliciasmz/logging"

	"go.uber.org/zap"
)

const (
	SignedIn      = "SIGNED_IN"
	SignedOut     = "SIGNED_OUT"
	UserConfirmed = "USER_CONFIRMED"
	AdminChanged  = "ADMIN_CHANGED"
)

type Index struct {
	EntityType string `json:"entity_type"`
	Method     string `json:"method"`
	EntityId   string `json:"entity_id"`
	ItemId     string `json:"item_id"`
	ItemType   string `json:"item_type"`
}

type Handler func(eventName string, content Index)

// Bus delivers events synchronously to every subscriber in subscription
// order.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]Handler
	order  []int
	log    *zap.Logger
}

func NewBus(log *zap.Logger) *Bus {
	return &Bus{subs: map[int]Handler{}, log: logging.OrNop(log)}
}

// Subscribe registers h and returns the func that removes it.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = h
	b.order = append(b.order, id)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			for i, v := range b.order {
				if v == id {
					b.order = append(b.order[:i], b.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Emit event to all subscribers
func (b *Bus) Emit(eventName string, content Index) error {
	if b == nil {
		return nil
	}
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.order))
	for _, id := range b.order {
		handlers = append(handlers, b.subs[id])
	}
	b.mu.RUnlock()

	b.log.Debug("Event emitted", zap.String("event", eventName), zap.String("entity", content.EntityId))
	for _, h := range handlers {
		h(eventName, content)
	}
	return nil
}
