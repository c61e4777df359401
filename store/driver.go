package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// Tag model related methods.
	UpsertTag(ctx context.Context, upsert *Tag) (*Tag, error)
	ListTags(ctx context.Context, find *FindTag) ([]*Tag, error)

	// CoOccurrence model related methods.
	ListCoOccurrences(ctx context.Context, find *FindCoOccurrence) ([]*CoOccurrence, error)

	// DomainTag model related methods.
	ListDomainTags(ctx context.Context, find *FindDomainTag) ([]*DomainTag, error)

	// ApplyKnowledgeDelta applies one learning step across the tag,
	// co-occurrence and domain tables in a single transaction.
	ApplyKnowledgeDelta(ctx context.Context, delta *KnowledgeDelta) error

	// Snippet model related methods.
	CreateSnippet(ctx context.Context, create *Snippet) (*Snippet, error)
	ListSnippets(ctx context.Context, find *FindSnippet) ([]*Snippet, error)
	UpdateSnippet(ctx context.Context, update *UpdateSnippet) error
	DeleteSnippet(ctx context.Context, delete *DeleteSnippet) error
}
