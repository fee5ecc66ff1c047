package eventbus

import (
	"context"

	"github.com/promptlab/promptlab/internal/domain/event"
)

type Handler func(ctx context.Context, e event.Event)

type Subscription interface {
	Unsubscribe()
}

// EventBus fans change events out to interested subscribers.
// [DIP] services publish through this interface, never a concrete bus.
type EventBus interface {
	Publish(ctx context.Context, e event.Event) error
	Subscribe(ctx context.Context, handler Handler) (Subscription, error)
}
