package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/promptlab/promptlab/internal/domain/collection"
	"github.com/promptlab/promptlab/internal/domain/prompt"
	portstore "github.com/promptlab/promptlab/internal/port/store"
)

var _ portstore.Store = (*Store)(nil)

// Store keeps prompts and collections in process memory. Contents are lost
// on exit. Listing returns entities in insertion order.
type Store struct {
	mu sync.RWMutex

	prompts     map[string]prompt.Prompt
	promptOrder []string

	collections     map[string]collection.Collection
	collectionOrder []string
}

func NewStore() *Store {
	return &Store{
		prompts:     make(map[string]prompt.Prompt),
		collections: make(map[string]collection.Collection),
	}
}

func (s *Store) View(_ context.Context, fn func(tx portstore.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(tx{s})
}

func (s *Store) Update(_ context.Context, fn func(tx portstore.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(tx{s})
}

func (s *Store) Clear(_ context.Context) {
	s.mu.Lock()
	clear(s.prompts)
	clear(s.collections)
	s.promptOrder = nil
	s.collectionOrder = nil
	s.mu.Unlock()
}

// tx is the lock-free view handed to View/Update callbacks; the caller
// already holds s.mu.
type tx struct{ s *Store }

func (t tx) CreatePrompt(p prompt.Prompt) prompt.Prompt {
	if _, ok := t.s.prompts[p.ID]; !ok {
		t.s.promptOrder = append(t.s.promptOrder, p.ID)
	}
	t.s.prompts[p.ID] = p
	return p
}

func (t tx) GetPrompt(id string) (prompt.Prompt, bool) {
	p, ok := t.s.prompts[id]
	return p, ok
}

func (t tx) ListPrompts() []prompt.Prompt {
	out := make([]prompt.Prompt, 0, len(t.s.promptOrder))
	for _, id := range t.s.promptOrder {
		out = append(out, t.s.prompts[id])
	}
	return out
}

func (t tx) UpdatePrompt(id string, p prompt.Prompt) (prompt.Prompt, bool) {
	if _, ok := t.s.prompts[id]; !ok {
		return prompt.Prompt{}, false
	}
	t.s.prompts[id] = p
	return p, true
}

func (t tx) DeletePrompt(id string) bool {
	if _, ok := t.s.prompts[id]; !ok {
		return false
	}
	delete(t.s.prompts, id)
	t.s.promptOrder = remove(t.s.promptOrder, id)
	return true
}

func (t tx) PromptsByCollection(collectionID string) []prompt.Prompt {
	var out []prompt.Prompt
	for _, id := range t.s.promptOrder {
		if p := t.s.prompts[id]; p.CollectionID == collectionID {
			out = append(out, p)
		}
	}
	return out
}

func (t tx) CreateCollection(c collection.Collection) collection.Collection {
	if _, ok := t.s.collections[c.ID]; !ok {
		t.s.collectionOrder = append(t.s.collectionOrder, c.ID)
	}
	t.s.collections[c.ID] = c
	return c
}

func (t tx) GetCollection(id string) (collection.Collection, bool) {
	c, ok := t.s.collections[id]
	return c, ok
}

func (t tx) ListCollections() []collection.Collection {
	out := make([]collection.Collection, 0, len(t.s.collectionOrder))
	for _, id := range t.s.collectionOrder {
		out = append(out, t.s.collections[id])
	}
	return out
}

func (t tx) DeleteCollection(id string) bool {
	if _, ok := t.s.collections[id]; !ok {
		return false
	}
	delete(t.s.collections, id)
	t.s.collectionOrder = remove(t.s.collectionOrder, id)
	return true
}

func remove(order []string, id string) []string {
	if i := slices.Index(order, id); i >= 0 {
		return slices.Delete(order, i, i+1)
	}
	return order
}
