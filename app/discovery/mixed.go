package discovery

import (
	"fmt"
	"sort"
	"time"

	"github.com/hanulkim/blog-discovery/app/content"
	"github.com/hanulkim/blog-discovery/app/database"
)

// MixedRanker merges per-type popularity rankings into a single trending
// list under per-type quotas, so sparse view counts on one content type
// cannot crowd the others out of the list.
type MixedRanker struct {
	contents database.ContentStore
	pop      *PopularityAggregator
	types    []content.Type
}

func NewMixedRanker(contents database.ContentStore, pop *PopularityAggregator) *MixedRanker {
	return &MixedRanker{
		contents: contents,
		pop:      pop,
		types:    content.AllTypes(),
	}
}

// Trending returns up to totalLimit published items across all content
// types, each type ranked by windowed view count. quotas caps how many items
// each type contributes; nil means an even split of totalLimit with the
// remainder assigned to the first type in declared order. A type with fewer
// eligible items than its quota passes the shortfall on to the next type
// with remaining candidates. The result interleaves the per-type selections
// round-robin in declared type order.
func (m *MixedRanker) Trending(windowDays, totalLimit int, quotas map[content.Type]int) ([]content.Item, error) {
	return m.trendingAsOf(windowDays, totalLimit, quotas, time.Now().UTC())
}

func (m *MixedRanker) trendingAsOf(windowDays, totalLimit int, quotas map[content.Type]int, asOf time.Time) ([]content.Item, error) {
	if totalLimit <= 0 {
		return nil, nil
	}

	ranked := make(map[content.Type][]content.Item, len(m.types))
	for _, t := range m.types {
		items, err := m.rankedByViews(t, windowDays, asOf)
		if err != nil {
			return nil, err
		}
		ranked[t] = items
	}

	if quotas == nil {
		quotas = m.evenQuotas(totalLimit)
	}

	// first pass: per-type quota, unfilled quota carried to the next type
	taken := make(map[content.Type]int, len(m.types))
	total := 0
	carry := 0
	for _, t := range m.types {
		want := quotas[t] + carry
		take := min(want, len(ranked[t]), totalLimit-total)
		taken[t] = take
		total += take
		carry = want - take
	}

	// second pass: still short of totalLimit, pull extra in declared order
	for _, t := range m.types {
		if total >= totalLimit {
			break
		}
		extra := min(len(ranked[t])-taken[t], totalLimit-total)
		taken[t] += extra
		total += extra
	}

	result := make([]content.Item, 0, total)
	for row := 0; len(result) < total; row++ {
		for _, t := range m.types {
			if row < taken[t] {
				result = append(result, ranked[t][row])
			}
		}
	}

	return result, nil
}

// PopularOfType is the single-type special case: the top limit published
// items of one type by windowed view count.
func (m *MixedRanker) PopularOfType(t content.Type, windowDays, limit int) ([]content.Item, error) {
	return m.popularOfTypeAsOf(t, windowDays, limit, time.Now().UTC())
}

func (m *MixedRanker) popularOfTypeAsOf(t content.Type, windowDays, limit int, asOf time.Time) ([]content.Item, error) {
	if limit <= 0 {
		return nil, nil
	}

	items, err := m.rankedByViews(t, windowDays, asOf)
	if err != nil {
		return nil, err
	}

	if len(items) > limit {
		items = items[:limit]
	}

	return items, nil
}

// rankedByViews fetches the published items of one type and sorts them by
// windowed view count descending; ties go to newer items, then to the lower
// id for a stable order.
func (m *MixedRanker) rankedByViews(t content.Type, windowDays int, asOf time.Time) ([]content.Item, error) {
	items, err := m.contents.GetPublishedByType(t)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s candidates: %w", t, err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	views, err := m.pop.WindowedViewsBatch(t, windowDays, asOf)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(items, func(i, j int) bool {
		vi, vj := views[items[i].ID], views[items[j].ID]
		if vi != vj {
			return vi > vj
		}
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})

	return items, nil
}

// evenQuotas splits totalLimit evenly across the participating types, with
// the remainder assigned to the first type in declared order.
func (m *MixedRanker) evenQuotas(totalLimit int) map[content.Type]int {
	quotas := make(map[content.Type]int, len(m.types))
	base := totalLimit / len(m.types)
	for _, t := range m.types {
		quotas[t] = base
	}
	quotas[m.types[0]] += totalLimit % len(m.types)
	return quotas
}
