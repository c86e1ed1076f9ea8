package discovery

import (
	"fmt"
	"time"

	"github.com/hanulkim/blog-discovery/app/content"
	"github.com/hanulkim/blog-discovery/app/database"
)

// PopularityAggregator computes trailing-window view sums from the raw daily
// view statistics. The window [asOf-windowDays, asOf] includes both ends, so
// widening the window never decreases a sum.
type PopularityAggregator struct {
	stats database.ViewStatsStore
}

func NewPopularityAggregator(stats database.ViewStatsStore) *PopularityAggregator {
	return &PopularityAggregator{stats: stats}
}

// WindowedViews sums the view counts of one item over the trailing window
// ending at asOf. Items without stat rows sum to 0.
func (p *PopularityAggregator) WindowedViews(t content.Type, id string, windowDays int, asOf time.Time) (int, error) {
	from := asOf.AddDate(0, 0, -windowDays)

	sum, err := p.stats.SumViewsInRange(t, id, from, asOf)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate views for %s/%s: %w", t, id, err)
	}

	return sum, nil
}

// WindowedViewsBatch computes the same window sum for every item of one type
// in a single grouped pass, keyed by content id. Items without rows are
// absent from the map.
func (p *PopularityAggregator) WindowedViewsBatch(t content.Type, windowDays int, asOf time.Time) (map[string]int, error) {
	from := asOf.AddDate(0, 0, -windowDays)

	sums, err := p.stats.SumViewsInRangeByType(t, from, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate views for type %s: %w", t, err)
	}

	return sums, nil
}
