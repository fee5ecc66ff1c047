package testutil

import (
	"context"
	"sync"

	"github.com/promptlab/promptlab/internal/domain/event"
	porteventbus "github.com/promptlab/promptlab/internal/port/eventbus"
)

var _ porteventbus.EventBus = (*CaptureBus)(nil)

// CaptureBus is a test-double EventBus that records every published event.
// It is safe for concurrent use. Subscribe is a no-op.
type CaptureBus struct {
	mu     sync.Mutex
	Events []event.Event
}

func (b *CaptureBus) Publish(_ context.Context, e event.Event) error {
	b.mu.Lock()
	b.Events = append(b.Events, e)
	b.mu.Unlock()
	return nil
}

func (b *CaptureBus) Subscribe(context.Context, porteventbus.Handler) (porteventbus.Subscription, error) {
	return noopSubscription{}, nil
}

// OfType returns the recorded events of type t, oldest first.
func (b *CaptureBus) OfType(t event.Type) []event.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []event.Event
	for _, e := range b.Events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Reset clears all recorded events.
func (b *CaptureBus) Reset() {
	b.mu.Lock()
	b.Events = nil
	b.mu.Unlock()
}

type noopSubscription struct{}

func (noopSubscription) Unsubscribe() {}
