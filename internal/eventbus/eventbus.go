package eventbus

import (
	"log/slog"
	"runtime/debug"
	"sync"

	"dashsearch/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventSearchOpened     = domain.EventSearchOpened
	EventSearchClosed     = domain.EventSearchClosed
	EventSearchDispatched = domain.EventSearchDispatched
	EventSearchCompleted  = domain.EventSearchCompleted
	EventSearchFailed     = domain.EventSearchFailed
	EventSearchCleared    = domain.EventSearchCleared
	EventItemSelected     = domain.EventItemSelected
	EventCloseRequested   = domain.EventCloseRequested
	EventTokenChanged     = domain.EventTokenChanged
	EventError            = domain.EventError
)

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	Close()
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]subscription
	nextID    uint64
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	quit      chan struct{}
	closeOnce sync.Once
	logger    *slog.Logger
}

// New creates a new event bus. Handlers run on their own goroutines, so
// subscribers that touch single-threaded state must hand events back to
// their owner (the UI forwards them with tea.Program.Send).
func New(logger *slog.Logger) EventBus {
	if logger == nil {
		logger = slog.Default()
	}
	b := &bus{
		handlers:  make(map[EventType][]subscription),
		eventChan: make(chan DomainEvent, 256),
		quit:      make(chan struct{}),
		logger:    logger.With("component", "eventbus"),
	}

	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish publishes an event to all subscribers
func (b *bus) Publish(event DomainEvent) {
	if event == nil {
		return
	}

	select {
	case <-b.quit:
		return
	default:
	}

	select {
	case b.eventChan <- event:
	default:
		b.logger.Warn("channel full, dropping event", "event", event.Type())
	}
}

// Subscribe subscribes to events of a specific type
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.handlers[eventType]
		for i, s := range subs {
			if s.id == id {
				b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Close stops the dispatcher; events still queued are dropped
func (b *bus) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
	})
	b.wg.Wait()
}

// dispatch handles event distribution to subscribers
func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			b.mu.RLock()
			subs := b.handlers[event.Type()]
			handlers := make([]EventHandler, len(subs))
			for i, s := range subs {
				handlers[i] = s.handler
			}
			b.mu.RUnlock()

			for _, handler := range handlers {
				go func(h EventHandler, ev DomainEvent) {
					defer func() {
						if r := recover(); r != nil {
							b.logger.Error("event handler panic", "event", ev.Type(), "panic", r, "stack", string(debug.Stack()))
						}
					}()
					h(ev)
				}(handler, event)
			}

		case <-b.quit:
			for {
				select {
				case <-b.eventChan:
				default:
					return
				}
			}
		}
	}
}

// NullBus discards every event. Useful for tests and one-shot commands.
type NullBus struct{}

func (NullBus) Publish(DomainEvent)                      {}
func (NullBus) Subscribe(EventType, EventHandler) func() { return func() {} }
func (NullBus) Close()                                   {}
