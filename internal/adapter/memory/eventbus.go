package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/promptlab/promptlab/internal/domain/event"
	porteventbus "github.com/promptlab/promptlab/internal/port/eventbus"
)

var _ porteventbus.EventBus = (*EventBus)(nil)

// EventBus is an in-process fan-out bus. Each subscriber drains its own
// buffered channel on a dedicated goroutine, so Publish never blocks on a
// slow subscriber; when a buffer is full the event is dropped for that
// subscriber only.
type EventBus struct {
	buffer int

	mu     sync.RWMutex
	subs   map[*subscription]struct{}
	closed bool
}

func NewEventBus(buffer int) *EventBus {
	if buffer <= 0 {
		buffer = 1
	}
	return &EventBus{
		buffer: buffer,
		subs:   make(map[*subscription]struct{}),
	}
}

func (eb *EventBus) Publish(ctx context.Context, e event.Event) error {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	for sub := range eb.subs {
		select {
		case sub.ch <- e:
		default:
			slog.WarnContext(ctx, "event dropped, subscriber buffer full", "type", e.Type, "entity_id", e.EntityID)
		}
	}
	return nil
}

// Subscribe invokes handler for every event published after it returns,
// until Unsubscribe is called, ctx is cancelled or the bus is closed.
func (eb *EventBus) Subscribe(ctx context.Context, handler porteventbus.Handler) (porteventbus.Subscription, error) {
	subCtx, cancel := context.WithCancel(ctx)
	sub := &subscription{
		bus:    eb,
		ch:     make(chan event.Event, eb.buffer),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	eb.mu.Lock()
	if eb.closed {
		eb.mu.Unlock()
		cancel()
		close(sub.done)
		return sub, nil
	}
	eb.subs[sub] = struct{}{}
	eb.mu.Unlock()

	go func() {
		defer close(sub.done)
		for {
			select {
			case <-subCtx.Done():
				return
			case e := <-sub.ch:
				handler(subCtx, e)
			}
		}
	}()

	return sub, nil
}

// Close stops every subscription and waits for their goroutines to exit.
func (eb *EventBus) Close() {
	eb.mu.Lock()
	eb.closed = true
	subs := make([]*subscription, 0, len(eb.subs))
	for sub := range eb.subs {
		subs = append(subs, sub)
	}
	clear(eb.subs)
	eb.mu.Unlock()

	for _, sub := range subs {
		sub.cancel()
		<-sub.done
	}
}

func (eb *EventBus) remove(sub *subscription) {
	eb.mu.Lock()
	delete(eb.subs, sub)
	eb.mu.Unlock()
}

type subscription struct {
	bus    *EventBus
	ch     chan event.Event
	cancel context.CancelFunc
	done   chan struct{}
}

func (s *subscription) Unsubscribe() {
	s.bus.remove(s)
	s.cancel()
	<-s.done
}
