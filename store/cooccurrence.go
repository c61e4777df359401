package store

import (
	"context"
)

// PairSeparator joins the two names of a canonical pair key.
// Tag names must not contain it.
const PairSeparator = "|"

// CoOccurrence is the counter for an unordered pair of distinct tags that
// appeared together on a snippet. Exactly one record exists per pair; the
// count only grows and a record is created at count 1.
type CoOccurrence struct {
	PairKey   string
	TagA      string
	TagB      string
	Count     int64
	UpdatedTs int64
}

// FindCoOccurrence is the find condition for co-occurrence pairs.
type FindCoOccurrence struct {
	PairKey *string
	// Tags restricts the result to pairs where at least one side is in
	// the set. Empty means all pairs.
	Tags []string
}

// SortPair returns the two tag names in canonical (lexicographic) order.
func SortPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// PairKey builds the canonical key for an unordered tag pair.
func PairKey(a, b string) string {
	a, b = SortPair(a, b)
	return a + PairSeparator + b
}

// GetCoOccurrence gets a pair record by its canonical key. Returns nil when absent.
func (s *Store) GetCoOccurrence(ctx context.Context, find *FindCoOccurrence) (*CoOccurrence, error) {
	list, err := s.driver.ListCoOccurrences(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// ListCoOccurrences lists pair records with filter. The order is not part
// of the contract; callers impose their own.
func (s *Store) ListCoOccurrences(ctx context.Context, find *FindCoOccurrence) ([]*CoOccurrence, error) {
	return s.driver.ListCoOccurrences(ctx, find)
}
