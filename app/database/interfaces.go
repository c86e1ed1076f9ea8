package database

import (
	"errors"
	"time"

	"github.com/hanulkim/blog-discovery/app/content"
)

// ErrVersionConflict is returned by DocumentStore.PutDocument when the stored
// document changed since it was read. The losing writer persists nothing.
var ErrVersionConflict = errors.New("document version conflict")

// Document is a stored discoverability document. Version is an opaque token
// used for the optimistic check on regeneration.
type Document struct {
	Kind      string
	Content   string
	Version   string
	UpdatedAt time.Time
}

type ContentStore interface {
	GetPublishedByType(t content.Type) ([]content.Item, error)
	GetPublishedWithTags(t content.Type) ([]content.Item, error)
	GetByID(t content.Type, id string) (*content.Item, error)
	GetTagsFor(t content.Type, id string) ([]string, error)
	GetPublishedCount() (int, error)
}

type ViewStatsStore interface {
	SumViewsInRange(t content.Type, id string, from, to time.Time) (int, error)
	SumViewsInRangeByType(t content.Type, from, to time.Time) (map[string]int, error)
	DeleteOlderThan(cutoff time.Time) (int64, error)
}

type DocumentStore interface {
	GetDocument(kind string) (*Document, error)
	PutDocument(kind, text, prevVersion string) (string, error)
}
