package store

import (
	"context"

	"github.com/promptlab/promptlab/internal/domain/collection"
	"github.com/promptlab/promptlab/internal/domain/prompt"
)

// Tx is the set of keyed primitives over the prompt and collection maps.
// It enforces no cross-entity rule; referential checks belong to the services.
// A Tx is only valid inside the View or Update callback that produced it.
type Tx interface {
	// CreatePrompt stores p under p.ID and returns it unchanged.
	CreatePrompt(p prompt.Prompt) prompt.Prompt
	GetPrompt(id string) (prompt.Prompt, bool)
	ListPrompts() []prompt.Prompt
	// UpdatePrompt replaces the prompt at id. It reports false, storing
	// nothing, when id is absent.
	UpdatePrompt(id string, p prompt.Prompt) (prompt.Prompt, bool)
	DeletePrompt(id string) bool
	// PromptsByCollection returns prompts whose CollectionID equals collectionID exactly.
	PromptsByCollection(collectionID string) []prompt.Prompt

	CreateCollection(c collection.Collection) collection.Collection
	GetCollection(id string) (collection.Collection, bool)
	ListCollections() []collection.Collection
	DeleteCollection(id string) bool
}

// Store owns the prompt and collection maps.
// [LSP] the in-memory adapter is the only implementation; anything honouring
// the locking contract below can substitute.
type Store interface {
	// View runs fn with read access. Views may run concurrently.
	View(ctx context.Context, fn func(tx Tx) error) error
	// Update runs fn with exclusive access; no other View or Update observes
	// the maps until fn returns.
	Update(ctx context.Context, fn func(tx Tx) error) error
	// Clear empties both maps.
	Clear(ctx context.Context)
}
