package discovery

import (
	"github.com/hanulkim/blog-discovery/app/content"
)

// TagIndex maps tag names to the identities of the items carrying them.
// It is built once per query from an already-fetched candidate pool, which
// keeps the scoring pass free of per-item store lookups.
type TagIndex struct {
	byTag map[string]map[content.Identity]struct{}
}

// NewTagIndex builds the index over the given items. Unpublished items are
// skipped; they are never eligible for ranking.
func NewTagIndex(items []content.Item) *TagIndex {
	idx := &TagIndex{byTag: make(map[string]map[content.Identity]struct{})}

	for _, item := range items {
		if !item.Published {
			continue
		}
		identity := item.Identity()
		for _, tag := range item.Tags {
			set, ok := idx.byTag[tag]
			if !ok {
				set = make(map[content.Identity]struct{})
				idx.byTag[tag] = set
			}
			set[identity] = struct{}{}
		}
	}

	return idx
}

// Resolve returns the identities of items carrying at least one of the given
// tag names. An empty input resolves to an empty set; unknown names simply
// match nothing.
func (idx *TagIndex) Resolve(tagNames []string) map[content.Identity]struct{} {
	resolved := make(map[content.Identity]struct{})
	for _, tag := range tagNames {
		for identity := range idx.byTag[tag] {
			resolved[identity] = struct{}{}
		}
	}
	return resolved
}
