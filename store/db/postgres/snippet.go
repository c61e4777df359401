package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/knipselapp/knipsel/store"
)

func (d *DB) CreateSnippet(ctx context.Context, create *store.Snippet) (*store.Snippet, error) {
	fields := []string{"uid", "content"}
	args := []any{create.UID, create.Content}

	if create.CreatedTs != 0 {
		fields = append(fields, "created_ts")
		args = append(args, create.CreatedTs)
	}
	if create.UpdatedTs != 0 {
		fields = append(fields, "updated_ts")
		args = append(args, create.UpdatedTs)
	}

	values := make([]string, 0, len(args))
	for i := range args {
		values = append(values, fmt.Sprintf("$%d", i+1))
	}

	stmt := `INSERT INTO snippet (` + strings.Join(fields, ", ") + `)
		VALUES (` + strings.Join(values, ", ") + `)
		RETURNING id, created_ts, updated_ts`

	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
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
	argIndex := 1

	if v := find.ID; v != nil {
		where = append(where, fmt.Sprintf("snippet.id = $%d", argIndex))
		args = append(args, *v)
		argIndex++
	}
	if v := find.UID; v != nil {
		where = append(where, fmt.Sprintf("snippet.uid = $%d", argIndex))
		args = append(args, *v)
		argIndex++
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
	argIndex := 1

	if v := update.Content; v != nil {
		set = append(set, fmt.Sprintf("content = $%d", argIndex))
		args = append(args, *v)
		argIndex++
	}
	if v := update.UpdatedTs; v != nil {
		set = append(set, fmt.Sprintf("updated_ts = $%d", argIndex))
		args = append(args, *v)
		argIndex++
	}

	if len(set) == 0 {
		return nil
	}

	args = append(args, update.ID)

	stmt := `UPDATE snippet SET ` + strings.Join(set, ", ") + fmt.Sprintf(` WHERE id = $%d`, argIndex)
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to update snippet: %w", err)
	}

	return nil
}

func (d *DB) DeleteSnippet(ctx context.Context, delete *store.DeleteSnippet) error {
	stmt := `DELETE FROM snippet WHERE id = $1`
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
