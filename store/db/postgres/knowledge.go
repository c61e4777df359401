package postgres

import (
	"context"
	"fmt"

	"github.com/knipselapp/knipsel/store"
)

// ApplyKnowledgeDelta applies one learning step in a single transaction.
// Tag registration, pair increments and domain increments either all
// commit or all roll back, so a reader never observes a tag without its
// pair and domain updates.
func (d *DB) ApplyKnowledgeDelta(ctx context.Context, delta *store.KnowledgeDelta) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, tag := range delta.Tags {
		query := `
			INSERT INTO tag (name, created_ts, parent, color)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (name) DO NOTHING
		`
		if _, err := tx.ExecContext(ctx, query, tag.Name, tag.CreatedTs, tag.Parent, tag.Color); err != nil {
			return fmt.Errorf("failed to register tag %q: %w", tag.Name, err)
		}
	}

	for _, pair := range delta.Pairs {
		query := `
			INSERT INTO tag_cooccurrence (pair_key, tag_a, tag_b, count, updated_ts)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (pair_key) DO UPDATE SET
				count = tag_cooccurrence.count + EXCLUDED.count,
				updated_ts = EXCLUDED.updated_ts
		`
		if _, err := tx.ExecContext(ctx, query, pair.PairKey, pair.TagA, pair.TagB, pair.Count, pair.UpdatedTs); err != nil {
			return fmt.Errorf("failed to upsert co-occurrence %q: %w", pair.PairKey, err)
		}
	}

	for _, domainTag := range delta.DomainTags {
		query := `
			INSERT INTO domain_tag (domain, tag, count)
			VALUES ($1, $2, $3)
			ON CONFLICT (domain, tag) DO UPDATE SET
				count = domain_tag.count + EXCLUDED.count
		`
		if _, err := tx.ExecContext(ctx, query, domainTag.Domain, domainTag.Tag, domainTag.Count); err != nil {
			return fmt.Errorf("failed to upsert domain tag %q/%q: %w", domainTag.Domain, domainTag.Tag, err)
		}
	}

	return tx.Commit()
}
