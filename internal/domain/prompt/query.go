package prompt

import (
	"slices"
	"strings"
)

// ListFilters narrows a prompt listing. Zero values mean "no filter".
type ListFilters struct {
	CollectionID string
	Search       string
}

// Apply runs filter → search → newest-first sort. Narrowing happens before
// the sort so only the surviving prompts are ordered.
func (f ListFilters) Apply(prompts []Prompt) []Prompt {
	if f.CollectionID != "" {
		prompts = FilterByCollection(prompts, f.CollectionID)
	}
	if f.Search != "" {
		prompts = Search(prompts, f.Search)
	}
	return SortByDate(prompts, true)
}

func FilterByCollection(prompts []Prompt, collectionID string) []Prompt {
	out := make([]Prompt, 0, len(prompts))
	for _, p := range prompts {
		if p.CollectionID == collectionID {
			out = append(out, p)
		}
	}
	return out
}

// Search keeps prompts whose title or description contains query, ignoring
// case. An empty query matches every prompt.
func Search(prompts []Prompt, query string) []Prompt {
	q := strings.ToLower(query)
	out := make([]Prompt, 0, len(prompts))
	for _, p := range prompts {
		if strings.Contains(strings.ToLower(p.Title), q) ||
			(p.Description != "" && strings.Contains(strings.ToLower(p.Description), q)) {
			out = append(out, p)
		}
	}
	return out
}

// SortByDate orders prompts by CreatedAt. The sort is stable in both
// directions: prompts with equal timestamps keep their input order.
func SortByDate(prompts []Prompt, descending bool) []Prompt {
	out := slices.Clone(prompts)
	if out == nil {
		out = []Prompt{}
	}
	slices.SortStableFunc(out, func(a, b Prompt) int {
		c := a.CreatedAt.Compare(b.CreatedAt)
		if descending {
			return -c
		}
		return c
	})
	return out
}
