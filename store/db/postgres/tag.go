package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/knipselapp/knipsel/store"
)

func (d *DB) UpsertTag(ctx context.Context, upsert *store.Tag) (*store.Tag, error) {
	query := `
		INSERT INTO tag (name, created_ts, parent, color)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE SET
			parent = EXCLUDED.parent,
			color = EXCLUDED.color
	`

	if _, err := d.db.ExecContext(ctx, query,
		upsert.Name, upsert.CreatedTs, upsert.Parent, upsert.Color,
	); err != nil {
		return nil, fmt.Errorf("failed to upsert tag: %w", err)
	}

	return upsert, nil
}

func (d *DB) ListTags(ctx context.Context, find *store.FindTag) ([]*store.Tag, error) {
	where, args := []string{"1 = 1"}, []any{}
	argIndex := 1

	if v := find.Name; v != nil {
		where = append(where, fmt.Sprintf("tag.name = $%d", argIndex))
		args = append(args, *v)
		argIndex++
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
