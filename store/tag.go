package store

import (
	"context"
)

// Tag is the object representing a user-assigned label.
// A tag is created the first time it appears in a learned tag set and is
// never deleted or renamed afterwards. Parent and Color are display hooks
// owned by the UI; the knowledge engine never sets them.
type Tag struct {
	Name      string
	CreatedTs int64
	Parent    *string
	Color     *string
}

// FindTag is the find condition for tag.
type FindTag struct {
	Name *string
}

const tagListCacheKey = "tag:list"

// UpsertTag inserts or overwrites a tag.
func (s *Store) UpsertTag(ctx context.Context, upsert *Tag) (*Tag, error) {
	tag, err := s.driver.UpsertTag(ctx, upsert)
	if err != nil {
		return nil, err
	}
	s.tagCache.Delete(ctx, tagListCacheKey)
	return tag, nil
}

// GetTag gets a tag by name. Returns nil when absent.
func (s *Store) GetTag(ctx context.Context, find *FindTag) (*Tag, error) {
	list, err := s.driver.ListTags(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// ListTags lists tags with filter.
func (s *Store) ListTags(ctx context.Context, find *FindTag) ([]*Tag, error) {
	return s.driver.ListTags(ctx, find)
}

// ListTagNames returns the distinct known tag names, sorted ascending.
// The result is cached briefly; it serves the filter UI, not the
// knowledge engine.
func (s *Store) ListTagNames(ctx context.Context) ([]string, error) {
	if cached, ok := s.tagCache.Get(ctx, tagListCacheKey); ok {
		if names, ok := cached.([]string); ok {
			return names, nil
		}
	}

	tags, err := s.driver.ListTags(ctx, &FindTag{})
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	s.tagCache.Set(ctx, tagListCacheKey, names)
	return names, nil
}
