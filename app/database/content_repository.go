package database

import (
	"database/sql"
	"fmt"

	"github.com/hanulkim/blog-discovery/app/content"
)

var _ ContentStore = (*ContentRepository)(nil)

// ContentRepository handles database operations for content items
type ContentRepository struct {
	db *DB
}

// NewContentRepository creates a new content repository
func NewContentRepository(db *DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// GetPublishedByType returns all published items of one type, newest first.
// Tag sets are not loaded; use GetPublishedWithTags when scoring by tags.
func (r *ContentRepository) GetPublishedByType(t content.Type) ([]content.Item, error) {
	rows, err := r.db.Query(`
		SELECT id, content_type, title, COALESCE(summary, ''), is_published, created_at
		FROM contents
		WHERE content_type = ?
		  AND is_published = 1
		ORDER BY created_at DESC, id ASC
	`, string(t))
	if err != nil {
		return nil, fmt.Errorf("failed to get published contents: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// GetPublishedWithTags returns all published items of one type with their
// tag sets populated. Two queries total regardless of item count.
func (r *ContentRepository) GetPublishedWithTags(t content.Type) ([]content.Item, error) {
	items, err := r.GetPublishedByType(t)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}

	rows, err := r.db.Query(`
		SELECT ct.content_id, tg.name
		FROM content_tags ct
		JOIN tags tg ON tg.id = ct.tag_id
		JOIN contents c ON c.content_type = ct.content_type AND c.id = ct.content_id
		WHERE ct.content_type = ?
		  AND c.is_published = 1
	`, string(t))
	if err != nil {
		return nil, fmt.Errorf("failed to get content tags: %w", err)
	}
	defer rows.Close()

	tagsByID := make(map[string][]string)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan tag row: %w", err)
		}
		tagsByID[id] = append(tagsByID[id], name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tag rows: %w", err)
	}

	for i := range items {
		items[i].Tags = tagsByID[items[i].ID]
	}

	return items, nil
}

// GetByID returns a single item or nil when it does not exist. Unpublished
// items are returned too; callers decide on eligibility.
func (r *ContentRepository) GetByID(t content.Type, id string) (*content.Item, error) {
	var item content.Item
	err := r.db.QueryRow(`
		SELECT id, content_type, title, COALESCE(summary, ''), is_published, created_at
		FROM contents
		WHERE content_type = ? AND id = ?
	`, string(t), id).Scan(&item.ID, &item.Type, &item.Title, &item.Summary, &item.Published, &item.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get content by id: %w", err)
	}

	return &item, nil
}

// GetTagsFor returns the tag names of one item. An item without tags yields
// an empty slice, not an error.
func (r *ContentRepository) GetTagsFor(t content.Type, id string) ([]string, error) {
	rows, err := r.db.Query(`
		SELECT tg.name
		FROM content_tags ct
		JOIN tags tg ON tg.id = ct.tag_id
		WHERE ct.content_type = ? AND ct.content_id = ?
		ORDER BY tg.name
	`, string(t), id)
	if err != nil {
		return nil, fmt.Errorf("failed to get tags: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan tag name: %w", err)
		}
		tags = append(tags, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tag names: %w", err)
	}

	return tags, nil
}

// GetPublishedCount returns the number of published items across all types
func (r *ContentRepository) GetPublishedCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM contents WHERE is_published = 1").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get published count: %w", err)
	}
	return count, nil
}

func scanItems(rows *sql.Rows) ([]content.Item, error) {
	var items []content.Item
	for rows.Next() {
		var item content.Item
		err := rows.Scan(&item.ID, &item.Type, &item.Title, &item.Summary, &item.Published, &item.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan content row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating content rows: %w", err)
	}

	return items, nil
}
