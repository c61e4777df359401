package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/knipselapp/knipsel/store"
)

func (d *DB) ListDomainTags(ctx context.Context, find *store.FindDomainTag) ([]*store.DomainTag, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.Domain; v != nil {
		where, args = append(where, "domain_tag.domain = "+placeholder(len(args)+1)), append(args, *v)
	}

	// Tie-break on tag name so a limited result is deterministic.
	orderBy := "ORDER BY domain_tag.domain ASC, domain_tag.tag ASC"
	if find.OrderByCountDesc {
		orderBy = "ORDER BY domain_tag.count DESC, domain_tag.tag ASC"
	}

	query := `
		SELECT domain, tag, count
		FROM domain_tag
		WHERE ` + strings.Join(where, " AND ") + ` ` + orderBy

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query domain tags: %w", err)
	}
	defer rows.Close()

	list := make([]*store.DomainTag, 0)
	for rows.Next() {
		var domainTag store.DomainTag
		if err := rows.Scan(
			&domainTag.Domain,
			&domainTag.Tag,
			&domainTag.Count,
		); err != nil {
			return nil, fmt.Errorf("failed to scan domain tag: %w", err)
		}
		list = append(list, &domainTag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate domain tags: %w", err)
	}

	return list, nil
}
