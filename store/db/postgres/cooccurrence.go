package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/knipselapp/knipsel/store"
)

func (d *DB) ListCoOccurrences(ctx context.Context, find *store.FindCoOccurrence) ([]*store.CoOccurrence, error) {
	where, args := []string{"1 = 1"}, []any{}
	argIndex := 1

	if v := find.PairKey; v != nil {
		where = append(where, fmt.Sprintf("tag_cooccurrence.pair_key = $%d", argIndex))
		args = append(args, *v)
		argIndex++
	}
	if len(find.Tags) > 0 {
		inA := make([]string, 0, len(find.Tags))
		for _, tag := range find.Tags {
			inA = append(inA, fmt.Sprintf("$%d", argIndex))
			args = append(args, tag)
			argIndex++
		}
		inB := make([]string, 0, len(find.Tags))
		for _, tag := range find.Tags {
			inB = append(inB, fmt.Sprintf("$%d", argIndex))
			args = append(args, tag)
			argIndex++
		}
		where = append(where, "(tag_cooccurrence.tag_a IN ("+strings.Join(inA, ", ")+") OR tag_cooccurrence.tag_b IN ("+strings.Join(inB, ", ")+"))")
	}

	query := `
		SELECT pair_key, tag_a, tag_b, count, updated_ts
		FROM tag_cooccurrence
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY tag_cooccurrence.pair_key ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query co-occurrences: %w", err)
	}
	defer rows.Close()

	list := make([]*store.CoOccurrence, 0)
	for rows.Next() {
		var co store.CoOccurrence
		if err := rows.Scan(
			&co.PairKey,
			&co.TagA,
			&co.TagB,
			&co.Count,
			&co.UpdatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan co-occurrence: %w", err)
		}
		list = append(list, &co)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate co-occurrences: %w", err)
	}

	return list, nil
}
