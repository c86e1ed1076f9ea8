package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

var _ DocumentStore = (*DocumentRepository)(nil)

// DocumentRepository handles database operations for generated documents
type DocumentRepository struct {
	db *DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// GetDocument returns the stored document for a kind, or nil when it has
// never been generated.
func (r *DocumentRepository) GetDocument(kind string) (*Document, error) {
	var doc Document
	err := r.db.QueryRow(`
		SELECT kind, content, version, updated_at
		FROM documents
		WHERE kind = ?
	`, kind).Scan(&doc.Kind, &doc.Content, &doc.Version, &doc.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	return &doc, nil
}

// PutDocument stores a new document text. prevVersion must match the version
// read before regeneration ("" for a first-ever write); on mismatch nothing
// is written and ErrVersionConflict is returned. Returns the new version
// token on success.
func (r *DocumentRepository) PutDocument(kind, text, prevVersion string) (string, error) {
	newVersion := uuid.NewString()

	var res sql.Result
	var err error
	if prevVersion == "" {
		res, err = r.db.Exec(`
			INSERT INTO documents (kind, content, version, updated_at)
			VALUES (?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT (kind) DO NOTHING
		`, kind, text, newVersion)
	} else {
		res, err = r.db.Exec(`
			UPDATE documents
			SET content = ?, version = ?, updated_at = CURRENT_TIMESTAMP
			WHERE kind = ? AND version = ?
		`, text, newVersion, kind, prevVersion)
	}
	if err != nil {
		return "", fmt.Errorf("failed to put document: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("failed to get affected row count: %w", err)
	}
	if affected == 0 {
		return "", ErrVersionConflict
	}

	return newVersion, nil
}
