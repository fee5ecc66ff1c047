package event

import "time"

type Type string

const (
	TypePromptCreated     Type = "prompt_created"
	TypePromptUpdated     Type = "prompt_updated"
	TypePromptDeleted     Type = "prompt_deleted"
	TypeCollectionCreated Type = "collection_created"
	TypeCollectionDeleted Type = "collection_deleted"
)

// Event carries identifiers only, not full state.
// Subscribers fetch fresh state from the services.
type Event struct {
	Type      Type      `json:"type"`
	EntityID  string    `json:"entity_id"`
	Timestamp time.Time `json:"timestamp"`
}

func New(eventType Type, entityID string) Event {
	return Event{
		Type:      eventType,
		EntityID:  entityID,
		Timestamp: time.Now().UTC(),
	}
}
