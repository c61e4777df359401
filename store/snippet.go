package store

import (
	"context"
)

// Snippet is the object representing a saved note/snippet.
type Snippet struct {
	ID        int32
	UID       string
	CreatedTs int64
	UpdatedTs int64
	Content   string
}

// FindSnippet is the find condition for snippet.
type FindSnippet struct {
	ID  *int32
	UID *string

	// Pagination
	Limit  *int
	Offset *int
}

// UpdateSnippet is the update request for snippet.
type UpdateSnippet struct {
	ID        int32
	UpdatedTs *int64
	Content   *string
}

// DeleteSnippet is the delete request for snippet.
type DeleteSnippet struct {
	ID int32
}

// CreateSnippet creates a new snippet.
func (s *Store) CreateSnippet(ctx context.Context, create *Snippet) (*Snippet, error) {
	return s.driver.CreateSnippet(ctx, create)
}

// ListSnippets lists snippets with filter, newest first.
func (s *Store) ListSnippets(ctx context.Context, find *FindSnippet) ([]*Snippet, error) {
	return s.driver.ListSnippets(ctx, find)
}

// GetSnippet gets a snippet by find condition. Returns nil when absent.
func (s *Store) GetSnippet(ctx context.Context, find *FindSnippet) (*Snippet, error) {
	list, err := s.driver.ListSnippets(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// UpdateSnippet updates a snippet.
func (s *Store) UpdateSnippet(ctx context.Context, update *UpdateSnippet) error {
	return s.driver.UpdateSnippet(ctx, update)
}

// DeleteSnippet deletes a snippet.
func (s *Store) DeleteSnippet(ctx context.Context, delete *DeleteSnippet) error {
	return s.driver.DeleteSnippet(ctx, delete)
}
