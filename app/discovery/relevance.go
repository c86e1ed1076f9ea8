package discovery

import (
	"sort"

	"github.com/hanulkim/blog-discovery/app/content"
)

// RelevanceScorer ranks candidate items against a source tag set by the
// number of shared tags.
type RelevanceScorer struct{}

func NewRelevanceScorer() *RelevanceScorer {
	return &RelevanceScorer{}
}

type scoredItem struct {
	item   content.Item
	shared int
}

// Rank scores every candidate reachable from sourceTags and returns the top
// limit items, best first. The order is fully deterministic: shared tag
// count descending, then CreatedAt descending, then ID ascending. exclude
// keeps an item from relating to itself and may be nil. An empty source tag
// set or an empty candidate pool yields an empty result, not an error.
func (s *RelevanceScorer) Rank(sourceTags []string, exclude *content.Identity, candidates []content.Item, limit int) []content.Item {
	if len(sourceTags) == 0 || len(candidates) == 0 || limit <= 0 {
		return nil
	}

	idx := NewTagIndex(candidates)
	matched := idx.Resolve(sourceTags)
	if len(matched) == 0 {
		return nil
	}

	sourceSet := make(map[string]struct{}, len(sourceTags))
	for _, tag := range sourceTags {
		sourceSet[tag] = struct{}{}
	}

	scored := make([]scoredItem, 0, len(matched))
	for _, candidate := range candidates {
		identity := candidate.Identity()
		if _, ok := matched[identity]; !ok {
			continue
		}
		if exclude != nil && identity == *exclude {
			continue
		}

		shared := 0
		for _, tag := range candidate.Tags {
			if _, ok := sourceSet[tag]; ok {
				shared++
			}
		}
		scored = append(scored, scoredItem{item: candidate, shared: shared})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].shared != scored[j].shared {
			return scored[i].shared > scored[j].shared
		}
		if !scored[i].item.CreatedAt.Equal(scored[j].item.CreatedAt) {
			return scored[i].item.CreatedAt.After(scored[j].item.CreatedAt)
		}
		return scored[i].item.ID < scored[j].item.ID
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}

	ranked := make([]content.Item, len(scored))
	for i, sc := range scored {
		ranked[i] = sc.item
	}

	return ranked
}
