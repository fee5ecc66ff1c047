package testutil

import (
	"go.uber.org/mock/gomock"

	"github.com/promptlab/promptlab/internal/domain/event"
)

// MatchEvent matches an event.Event by type and entity id. An empty id
// matches any entity.
func MatchEvent(t event.Type, entityID string) gomock.Matcher {
	return eventMatcher{t, entityID}
}

type eventMatcher struct {
	want     event.Type
	entityID string
}

func (m eventMatcher) Matches(x any) bool {
	e, ok := x.(event.Event)
	return ok && e.Type == m.want && (m.entityID == "" || e.EntityID == m.entityID)
}

func (m eventMatcher) String() string {
	return "event " + string(m.want) + " for " + m.entityID
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }
