package prompt

import (
	"time"

	"github.com/google/uuid"
)

// Prompt is a titled text template, optionally filed under a collection.
// CollectionID = "" means the prompt belongs to no collection.
type Prompt struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Description  string    `json:"description,omitempty"`
	CollectionID string    `json:"collection_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Fields are the mutable parts of a prompt, as supplied on create and full update.
type Fields struct {
	Title        string
	Content      string
	Description  string
	CollectionID string
}

func New(f Fields) Prompt {
	now := time.Now().UTC()
	return Prompt{
		ID:           uuid.NewString(),
		Title:        f.Title,
		Content:      f.Content,
		Description:  f.Description,
		CollectionID: f.CollectionID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Touch returns the next updated_at value. It never moves backwards, so a
// wall-clock step cannot break UpdatedAt >= CreatedAt.
func (p Prompt) Touch(now time.Time) time.Time {
	if now.Before(p.UpdatedAt) {
		return p.UpdatedAt
	}
	return now
}
