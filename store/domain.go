package store

import (
	"context"
)

// DomainTag is one row of a domain's tag frequency table. A tag absent
// from the table has implicit count 0.
type DomainTag struct {
	Domain string
	Tag    string
	Count  int64
}

// FindDomainTag is the find condition for domain tag rows.
type FindDomainTag struct {
	Domain *string

	// OrderByCountDesc orders rows by count descending, ties broken by
	// tag name ascending, so a limited result is deterministic.
	OrderByCountDesc bool
	Limit            *int
}

// DomainProfile is a domain's full tag frequency mapping.
type DomainProfile struct {
	Domain    string
	TagCounts map[string]int64
}

// ListDomainTags lists domain tag rows with filter.
func (s *Store) ListDomainTags(ctx context.Context, find *FindDomainTag) ([]*DomainTag, error) {
	return s.driver.ListDomainTags(ctx, find)
}

// GetDomainProfile assembles the frequency table for one domain.
// Returns nil when the domain has never been seen.
func (s *Store) GetDomainProfile(ctx context.Context, domain string) (*DomainProfile, error) {
	rows, err := s.driver.ListDomainTags(ctx, &FindDomainTag{Domain: &domain})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	profile := &DomainProfile{
		Domain:    domain,
		TagCounts: make(map[string]int64, len(rows)),
	}
	for _, row := range rows {
		profile.TagCounts[row.Tag] = row.Count
	}
	return profile, nil
}
