package store

import (
	"context"
)

// KnowledgeDelta is one learning step's worth of statistics updates.
// Tags are registered if absent, pair and domain counters are incremented
// by the Count carried on each row. The driver applies the whole delta in
// a single transaction: either every table reflects the step or none does.
type KnowledgeDelta struct {
	Tags       []*Tag
	Pairs      []*CoOccurrence
	DomainTags []*DomainTag
}

// IsEmpty reports whether applying the delta would write nothing.
func (d *KnowledgeDelta) IsEmpty() bool {
	return len(d.Tags) == 0 && len(d.Pairs) == 0 && len(d.DomainTags) == 0
}

// ApplyKnowledgeDelta atomically applies one learning step.
func (s *Store) ApplyKnowledgeDelta(ctx context.Context, delta *KnowledgeDelta) error {
	if delta == nil || delta.IsEmpty() {
		return nil
	}
	if err := s.driver.ApplyKnowledgeDelta(ctx, delta); err != nil {
		return err
	}
	s.tagCache.Delete(ctx, tagListCacheKey)
	return nil
}
