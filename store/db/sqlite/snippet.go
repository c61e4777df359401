package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/knipselapp/knipsel/store"
)

func (d *DB) CreateSnippet(ctx context.Context, create *store.Snippet) (*store.Snippet, error) {
	fields := []string{"uid", "content"}
	placeholderValues := []any{create.UID, create.Content}

	if create.CreatedTs != 0 {
		fields = append(fields, "created_ts")
		placeholderValues = append(placeholderValues, create.CreatedTs)
	}
	if create.UpdatedTs != 0 {
		fields = append(fields, "updated_ts")
		placeholderValues = append(placeholderValues, create.UpdatedTs)
	}

	stmt := `INSERT INTO snippet (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(placeholderValues)) + `)
		RETURNING id, created_ts, updated_ts`

	if err := d.db.QueryRowContext(ctx, stmt, placeholderValues...).Scan(
		&create.ID,
		&create.CreatedTs,
		&create.UpdatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create snippet: %w", err)
	}

	return create, nil
}

func (d *DB) ListSnippets(ctx context.Context, find *store.FindSnippet) ([]*store.Snippet, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "snippet.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "snippet.uid = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT id, uid, created_ts, updated_ts, content
		FROM snippet
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY snippet.created_ts DESC, snippet.id DESC`

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snippets: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Snippet, 0)
	for rows.Next() {
		var snippet store.Snippet
		if err := rows.Scan(
			&snippet.ID,
			&snippet.UID,
			&snippet.CreatedTs,
			&snippet.UpdatedTs,
			&snippet.Content,
		); err != nil {
			return nil, fmt.Errorf("failed to scan snippet: %w", err)
		}
		list = append(list, &snippet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snippets: %w", err)
	}

	return list, nil
}

func (d *DB) UpdateSnippet(ctx context.Context, update *store.UpdateSnippet) error {
	set, args := []string{}, []any{}

	if v := update.Content; v != nil {
		set, args = append(set, "content = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.UpdatedTs; v != nil {
		set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, *v)
	}

	if len(set) == 0 {
		return nil
	}

	args = append(args, update.ID)

	stmt := `UPDATE snippet SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args))
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to update snippet: %w", err)
	}

	return nil
}

func (d *DB) DeleteSnippet(ctx context.Context, delete *store.DeleteSnippet) error {
	stmt := `DELETE FROM snippet WHERE id = ` + placeholder(1)
	result, err := d.db.ExecContext(ctx, stmt, delete.ID)
	if err != nil {
		return fmt.Errorf("failed to delete snippet: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("snippet not found")
	}

	return nil
}
