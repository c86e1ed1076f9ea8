package database

import (
	"fmt"
	"time"

	"github.com/hanulkim/blog-discovery/app/content"
)

// dateLayout is the storage format of daily_view_stats.view_date. Plain
// lexicographic comparison on this format matches chronological order.
const dateLayout = "2006-01-02"

var _ ViewStatsStore = (*StatsRepository)(nil)

// StatsRepository handles database operations for daily view statistics
type StatsRepository struct {
	db *DB
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db *DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// SumViewsInRange sums the view counts of one item between from and to,
// both days inclusive. An item without rows sums to 0.
func (r *StatsRepository) SumViewsInRange(t content.Type, id string, from, to time.Time) (int, error) {
	var sum int
	err := r.db.QueryRow(`
		SELECT COALESCE(SUM(view_count), 0)
		FROM daily_view_stats
		WHERE content_type = ?
		  AND content_id = ?
		  AND view_date >= ?
		  AND view_date <= ?
	`, string(t), id, from.Format(dateLayout), to.Format(dateLayout)).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum views: %w", err)
	}

	return sum, nil
}

// SumViewsInRangeByType sums view counts per item id for one type in a single
// grouped query. Items without rows are absent from the map; callers default
// them to 0.
func (r *StatsRepository) SumViewsInRangeByType(t content.Type, from, to time.Time) (map[string]int, error) {
	rows, err := r.db.Query(`
		SELECT content_id, SUM(view_count)
		FROM daily_view_stats
		WHERE content_type = ?
		  AND view_date >= ?
		  AND view_date <= ?
		GROUP BY content_id
	`, string(t), from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to sum views by type: %w", err)
	}
	defer rows.Close()

	sums := make(map[string]int)
	for rows.Next() {
		var id string
		var sum int
		if err := rows.Scan(&id, &sum); err != nil {
			return nil, fmt.Errorf("failed to scan view sum row: %w", err)
		}
		sums[id] = sum
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating view sum rows: %w", err)
	}

	return sums, nil
}

// DeleteOlderThan removes stat rows dated strictly before the cutoff day and
// returns the number of deleted rows.
func (r *StatsRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	res, err := r.db.Exec(`
		DELETE FROM daily_view_stats WHERE view_date < ?
	`, cutoff.Format(dateLayout))
	if err != nil {
		return 0, fmt.Errorf("failed to delete old stats: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get deleted row count: %w", err)
	}

	return deleted, nil
}
