package prompt

import "time"

// Patch is a partial update. A nil field is omitted.
//
// An empty string is also treated as "no change" for Title, Content and
// Description: a patch cannot clear a field. This is intentional and matches
// the documented API; a caller wanting to clear Description must use a full
// update. CollectionID behaves differently: "" means no change, but any other
// value must name an existing collection or the whole patch is rejected.
type Patch struct {
	Title        *string
	Content      *string
	Description  *string
	CollectionID *string
}

// ReferencedCollection returns the collection id the patch moves the prompt
// to, or "" when the patch leaves the collection alone.
func (pt Patch) ReferencedCollection() string {
	if pt.CollectionID == nil {
		return ""
	}
	return *pt.CollectionID
}

// Apply merges the patch into p and refreshes UpdatedAt. It does not check
// the collection reference; callers validate ReferencedCollection first.
func (p Prompt) Apply(pt Patch, now time.Time) Prompt {
	out := p
	if set(pt.Title) {
		out.Title = *pt.Title
	}
	if set(pt.Content) {
		out.Content = *pt.Content
	}
	if set(pt.Description) {
		out.Description = *pt.Description
	}
	if set(pt.CollectionID) {
		out.CollectionID = *pt.CollectionID
	}
	out.UpdatedAt = p.Touch(now)
	return out
}

// Replace returns p with every mutable field taken from f. ID and CreatedAt
// are kept; UpdatedAt is refreshed.
func (p Prompt) Replace(f Fields, now time.Time) Prompt {
	return Prompt{
		ID:           p.ID,
		Title:        f.Title,
		Content:      f.Content,
		Description:  f.Description,
		CollectionID: f.CollectionID,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.Touch(now),
	}
}

func set(v *string) bool { return v != nil && *v != "" }
