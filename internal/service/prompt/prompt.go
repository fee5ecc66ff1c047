package prompt

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/promptlab/promptlab/internal/domain/apperr"
	"github.com/promptlab/promptlab/internal/domain/event"
	domainprompt "github.com/promptlab/promptlab/internal/domain/prompt"
	portbus "github.com/promptlab/promptlab/internal/port/eventbus"
	portstore "github.com/promptlab/promptlab/internal/port/store"
)

// Service owns prompt reads and mutations.
// [SRP] Prompt operations only; collection lifecycle lives in service/collection.
// [DIP] Depends on the Store and EventBus ports, never on adapters.
type Service struct {
	store portstore.Store
	bus   portbus.EventBus
}

func NewService(store portstore.Store, bus portbus.EventBus) *Service {
	return &Service{store: store, bus: bus}
}

// List returns the prompts matching filters, newest first.
func (s *Service) List(ctx context.Context, filters domainprompt.ListFilters) ([]domainprompt.Prompt, error) {
	var all []domainprompt.Prompt
	err := s.store.View(ctx, func(tx portstore.Tx) error {
		all = tx.ListPrompts()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	return filters.Apply(all), nil
}

func (s *Service) Get(ctx context.Context, id string) (domainprompt.Prompt, error) {
	var p domainprompt.Prompt
	err := s.store.View(ctx, func(tx portstore.Tx) error {
		var ok bool
		if p, ok = tx.GetPrompt(id); !ok {
			return apperr.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return domainprompt.Prompt{}, fmt.Errorf("get prompt %s: %w", id, err)
	}
	return p, nil
}

// Create stores a new prompt. A non-empty CollectionID must name an
// existing collection.
func (s *Service) Create(ctx context.Context, f domainprompt.Fields) (domainprompt.Prompt, error) {
	var created domainprompt.Prompt
	err := s.store.Update(ctx, func(tx portstore.Tx) error {
		if err := checkCollection(tx, f.CollectionID); err != nil {
			return err
		}
		created = tx.CreatePrompt(domainprompt.New(f))
		return nil
	})
	if err != nil {
		return domainprompt.Prompt{}, fmt.Errorf("create prompt: %w", err)
	}

	s.publish(ctx, event.TypePromptCreated, created.ID)
	return created, nil
}

// Update replaces every mutable field of the prompt. ID and CreatedAt are
// preserved.
func (s *Service) Update(ctx context.Context, id string, f domainprompt.Fields) (domainprompt.Prompt, error) {
	updated, err := s.mutate(ctx, id, f.CollectionID, func(existing domainprompt.Prompt, now time.Time) domainprompt.Prompt {
		return existing.Replace(f, now)
	})
	if err != nil {
		return domainprompt.Prompt{}, fmt.Errorf("update prompt %s: %w", id, err)
	}
	return updated, nil
}

// Patch merges the supplied fields into the prompt. See domainprompt.Patch
// for how empty values are treated.
func (s *Service) Patch(ctx context.Context, id string, pt domainprompt.Patch) (domainprompt.Prompt, error) {
	updated, err := s.mutate(ctx, id, pt.ReferencedCollection(), func(existing domainprompt.Prompt, now time.Time) domainprompt.Prompt {
		return existing.Apply(pt, now)
	})
	if err != nil {
		return domainprompt.Prompt{}, fmt.Errorf("patch prompt %s: %w", id, err)
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.store.Update(ctx, func(tx portstore.Tx) error {
		if !tx.DeletePrompt(id) {
			return apperr.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete prompt %s: %w", id, err)
	}

	s.publish(ctx, event.TypePromptDeleted, id)
	return nil
}

// Variables returns the template placeholders of a prompt's content.
func (s *Service) Variables(ctx context.Context, id string) ([]string, bool, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return domainprompt.Variables(p.Content), domainprompt.ValidContent(p.Content), nil
}

// Render returns the prompt content with placeholders substituted from values.
func (s *Service) Render(ctx context.Context, id string, values map[string]string) (domainprompt.Prompt, string, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return domainprompt.Prompt{}, "", err
	}
	return p, domainprompt.Render(p.Content, values), nil
}

// mutate runs the read-validate-write sequence shared by Update and Patch in
// a single store transaction. Nothing is written when validation fails.
func (s *Service) mutate(
	ctx context.Context,
	id string,
	collectionID string,
	apply func(existing domainprompt.Prompt, now time.Time) domainprompt.Prompt,
) (domainprompt.Prompt, error) {
	var updated domainprompt.Prompt
	err := s.store.Update(ctx, func(tx portstore.Tx) error {
		existing, ok := tx.GetPrompt(id)
		if !ok {
			return apperr.ErrNotFound
		}
		if err := checkCollection(tx, collectionID); err != nil {
			return err
		}
		updated, _ = tx.UpdatePrompt(id, apply(existing, time.Now().UTC()))
		return nil
	})
	if err != nil {
		return domainprompt.Prompt{}, err
	}

	s.publish(ctx, event.TypePromptUpdated, id)
	return updated, nil
}

func checkCollection(tx portstore.Tx, collectionID string) error {
	if collectionID == "" {
		return nil
	}
	if _, ok := tx.GetCollection(collectionID); !ok {
		return fmt.Errorf("collection %s: %w", collectionID, apperr.ErrInvalidReference)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, t event.Type, id string) {
	if err := s.bus.Publish(ctx, event.New(t, id)); err != nil {
		slog.ErrorContext(ctx, "failed to publish event", "type", t, "entity_id", id, "error", err)
	}
}
