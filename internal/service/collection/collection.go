package collection

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/promptlab/promptlab/internal/domain/apperr"
	domaincollection "github.com/promptlab/promptlab/internal/domain/collection"
	"github.com/promptlab/promptlab/internal/domain/event"
	portbus "github.com/promptlab/promptlab/internal/port/eventbus"
	portstore "github.com/promptlab/promptlab/internal/port/store"
)

type Service struct {
	store portstore.Store
	bus   portbus.EventBus
}

func NewService(store portstore.Store, bus portbus.EventBus) *Service {
	return &Service{store: store, bus: bus}
}

func (s *Service) List(ctx context.Context) ([]domaincollection.Collection, error) {
	var out []domaincollection.Collection
	err := s.store.View(ctx, func(tx portstore.Tx) error {
		out = tx.ListCollections()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (domaincollection.Collection, error) {
	var c domaincollection.Collection
	err := s.store.View(ctx, func(tx portstore.Tx) error {
		var ok bool
		if c, ok = tx.GetCollection(id); !ok {
			return apperr.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return domaincollection.Collection{}, fmt.Errorf("get collection %s: %w", id, err)
	}
	return c, nil
}

func (s *Service) Create(ctx context.Context, name, description string) (domaincollection.Collection, error) {
	var created domaincollection.Collection
	err := s.store.Update(ctx, func(tx portstore.Tx) error {
		created = tx.CreateCollection(domaincollection.New(name, description))
		return nil
	})
	if err != nil {
		return domaincollection.Collection{}, fmt.Errorf("create collection: %w", err)
	}

	s.publish(ctx, event.TypeCollectionCreated, created.ID)
	return created, nil
}

// Delete removes the collection and every prompt filed under it, in one
// store transaction. Member prompts are removed even when the collection
// itself is already gone, so stale references never outlive a delete call.
// It returns the ids of the removed prompts.
func (s *Service) Delete(ctx context.Context, id string) ([]string, error) {
	var removed []string
	var found bool
	err := s.store.Update(ctx, func(tx portstore.Tx) error {
		for _, p := range tx.PromptsByCollection(id) {
			if tx.DeletePrompt(p.ID) {
				removed = append(removed, p.ID)
			}
		}
		found = tx.DeleteCollection(id)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("delete collection %s: %w", id, err)
	}

	for _, pid := range removed {
		s.publish(ctx, event.TypePromptDeleted, pid)
	}
	if !found {
		return removed, fmt.Errorf("delete collection %s: %w", id, apperr.ErrNotFound)
	}

	slog.InfoContext(ctx, "collection deleted", "collection_id", id, "prompts_removed", len(removed))
	s.publish(ctx, event.TypeCollectionDeleted, id)
	return removed, nil
}

func (s *Service) publish(ctx context.Context, t event.Type, id string) {
	if err := s.bus.Publish(ctx, event.New(t, id)); err != nil {
		slog.ErrorContext(ctx, "failed to publish event", "type", t, "entity_id", id, "error", err)
	}
}
