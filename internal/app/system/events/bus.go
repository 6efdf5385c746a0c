// internal/app/system/events/bus.go
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event is a domain event delivered to subscribers.
type Event struct {
	ID      string
	Topic   string
	Payload any
	At      time.Time
}

// Handler receives events for a topic. Handlers run on their own
// goroutines; a slow handler never blocks the publisher.
type Handler func(Event)

// Bus is an in-process fire-and-forget event bus. Delivery order and
// delivery itself are not guaranteed; publishers never learn about
// handler failures.
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]subscriber
	log  *zap.Logger
}

type subscriber struct {
	id      string
	handler Handler
}

// NewBus creates an empty Bus.
func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		subs: make(map[string][]subscriber),
		log:  logger,
	}
}

// Subscribe registers a handler for a topic and returns a function that
// removes the subscription.
func (b *Bus) Subscribe(topic string, h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.NewString()
	b.subs[topic] = append(b.subs[topic], subscriber{id: id, handler: h})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subs[topic]
		for i, s := range subs {
			if s.id == id {
				b.subs[topic] = append(subs[:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Fire publishes an event to every subscriber of the topic. It returns
// immediately; each handler runs on its own goroutine.
func (b *Bus) Fire(topic string, payload any) {
	b.mu.RLock()
	subs := make([]subscriber, len(b.subs[topic]))
	copy(subs, b.subs[topic])
	b.mu.RUnlock()

	if len(subs) == 0 {
		return
	}

	event := Event{
		ID:      uuid.NewString(),
		Topic:   topic,
		Payload: payload,
		At:      time.Now().UTC(),
	}

	for _, s := range subs {
		go func(s subscriber) {
			defer func() {
				if r := recover(); r != nil && b.log != nil {
					b.log.Error("event handler panicked",
						zap.String("topic", topic),
						zap.Any("panic", r))
				}
			}()
			s.handler(event)
		}(s)
	}
}
