// Package events is an in-process publish/subscribe channel used to tell slot
// views that an appointment was cancelled.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const AppointmentCancelled = "appointmentCancelled"

type Event struct {
	Type          string    `json:"type"`
	DoctorID      string    `json:"doctorId"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	AppointmentID string    `json:"appointmentId,omitempty"`
	At            time.Time `json:"at"`
}

// Matches reports whether the event concerns the given doctor and calendar date.
func (e Event) Matches(doctorID, date string) bool {
	return e.DoctorID == doctorID && e.Date == date
}

type Handler func(Event)

type Publisher interface {
	Publish(ctx context.Context, e Event)
}

type Bus interface {
	Publisher
	Subscribe(h Handler) (unsubscribe func())
}

// MemoryBus delivers events synchronously to every handler. Handlers must not block.
type MemoryBus struct {
	mu       sync.RWMutex
	next     int
	handlers map[int]Handler
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{handlers: make(map[int]Handler)}
}

func (b *MemoryBus) Subscribe(h Handler) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	b.handlers[id] = h
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.handlers, id)
			b.mu.Unlock()
		})
	}
}

func (b *MemoryBus) Publish(ctx context.Context, e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers))
	for _, h := range b.handlers {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	log.Ctx(ctx).Debug().Str("type", e.Type).Str("doctorId", e.DoctorID).Str("date", e.Date).
		Int("subscribers", len(handlers)).Msg("publishing event")
	for _, h := range handlers {
		h(e)
	}
}

// Channel subscribes a buffered channel. Events are dropped when the buffer is full.
func Channel(b Bus, buffer int) (<-chan Event, func()) {
	ch := make(chan Event, buffer)
	var mu sync.Mutex
	closed := false
	unsubscribe := b.Subscribe(func(e Event) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- e:
		default:
			log.Warn().Str("type", e.Type).Msg("event subscriber is full, dropping event")
		}
	})
	return ch, func() {
		unsubscribe()
		mu.Lock()
		defer mu.Unlock()
		if !closed {
			closed = true
			close(ch)
		}
	}
}
