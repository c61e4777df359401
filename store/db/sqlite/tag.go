package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/knipselapp/knipsel/store"
)

func (d *DB) UpsertTag(ctx context.Context, upsert *store.Tag) (*store.Tag, error) {
	stmt := `INSERT INTO tag (name, created_ts, parent, color)
		VALUES (` + placeholders(4) + `)
		ON CONFLICT (name) DO UPDATE SET parent = excluded.parent, color = excluded.color`

	if _, err := d.db.ExecContext(ctx, stmt,
		upsert.Name, upsert.CreatedTs, upsert.Parent, upsert.Color,
	); err != nil {
		return nil, fmt.Errorf("failed to upsert tag: %w", err)
	}

	return upsert, nil
}

func (d *DB) ListTags(ctx context.Context, find *store.FindTag) ([]*store.Tag, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.Name; v != nil {
		where, args = append(where, "tag.name = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT name, created_ts, parent, color
		FROM tag
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY tag.name ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Tag, 0)
	for rows.Next() {
		var tag store.Tag
		var parent, color sql.NullString
		if err := rows.Scan(
			&tag.Name,
			&tag.CreatedTs,
			&parent,
			&color,
		); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		if parent.Valid {
			tag.Parent = &parent.String
		}
		if color.Valid {
			tag.Color = &color.String
		}
		list = append(list, &tag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}

	return list, nil
}
