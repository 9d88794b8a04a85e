package engine

import (
	"sync"
	"time"

	"github.com/arisanov/pomo/internal/models"
)

// Observable event names, one per lifecycle transition.
const (
	EventCreated   = "session.created"
	EventStarted   = "session.started"
	EventPaused    = "session.paused"
	EventResumed   = "session.resumed"
	EventCompleted = "session.completed"
	EventCancelled = "session.cancelled"
)

// Event is a single observed session change, carrying the full record.
type Event struct {
	Name       string
	Session    models.Session
	ObservedAt time.Time
}

// Handler consumes events. Handlers run on the publisher's goroutine
// and must not block for long.
type Handler func(Event)

// Bus is a minimal in-process fan-out for session events.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
}

// NewBus returns an empty event bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for all future events.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish delivers the event to every subscriber in registration order.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	handlers := b.handlers
	b.mu.RUnlock()
	for _, h := range handlers {
		h(e)
	}
}

// TransitionEvent names the event for a session observed to change
// from prev to next. prevKnown is false when the id was not in the
// previous snapshot at all.
func TransitionEvent(prevKnown bool, prev, next models.SessionState) string {
	switch next {
	case models.StateActive:
		if prevKnown && prev == models.StatePaused {
			return EventResumed
		}
		return EventStarted
	case models.StatePaused:
		return EventPaused
	case models.StateCompleted:
		return EventCompleted
	case models.StateCancelled:
		return EventCancelled
	default:
		return EventCreated
	}
}
