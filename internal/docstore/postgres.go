package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var fieldName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// PostgresStore keeps every collection in one JSONB table, see
// migrations/000001_create_documents.up.sql.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Find(ctx context.Context, q Query) ([]Document, error) {
	where, args, err := whereClause(q)
	if err != nil {
		return nil, err
	}

	query := "SELECT id, data FROM documents " + where
	if q.OrderBy != "" {
		if !fieldName.MatchString(q.OrderBy) {
			return nil, fmt.Errorf("invalid order field %q", q.OrderBy)
		}
		dir := "ASC"
		if q.Descending {
			dir = "DESC"
		}
		key := fmt.Sprintf("NULLIF(data->>'%s', '')", q.OrderBy)
		if q.ByTime {
			key = timeKey(q.OrderBy)
		}
		query += fmt.Sprintf(" ORDER BY %s %s NULLS LAST, id", key, dir)
	} else {
		query += " ORDER BY id"
	}
	if q.Max > 0 {
		args = append(args, q.Max)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var docs []Document
	for rows.Next() {
		var (
			doc Document
			raw []byte
		)
		if err := rows.Scan(&doc.ID, &raw); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &doc.Data); err != nil {
			return nil, fmt.Errorf("decode document %s/%s: %w", q.Collection, doc.ID, err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return docs, nil
}

func (s *PostgresStore) Count(ctx context.Context, q Query) (int, error) {
	where, args, err := whereClause(q)
	if err != nil {
		return 0, err
	}

	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents "+where, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *PostgresStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT data
		FROM documents
		WHERE collection = $1 AND id = $2
	`, collection, id).Scan(&raw)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	doc := &Document{ID: id}
	if err := json.Unmarshal(raw, &doc.Data); err != nil {
		return nil, fmt.Errorf("decode document %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

func (s *PostgresStore) Put(ctx context.Context, collection, id string, data map[string]any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode document %s/%s: %w", collection, id, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, data, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, NOW(), NOW())
		ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`, collection, id, string(raw))
	return err
}

// Update merges fields into the document. The conditions are checked in the
// same statement, so a concurrent writer cannot slip in between.
func (s *PostgresStore) Update(ctx context.Context, collection, id string, fields map[string]any, conds ...Filter) (bool, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return false, fmt.Errorf("encode fields %s/%s: %w", collection, id, err)
	}

	where, args, err := filterConds(conds, []any{collection, id, string(raw)})
	if err != nil {
		return false, err
	}
	query := `UPDATE documents SET data = data || $3::jsonb, updated_at = NOW()
		WHERE collection = $1 AND id = $2`
	for _, cond := range where {
		query += " AND " + cond
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

func (s *PostgresStore) Delete(ctx context.Context, collection, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM documents
		WHERE collection = $1 AND id = $2
	`, collection, id)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

func whereClause(q Query) (string, []any, error) {
	if q.Collection == "" {
		return "", nil, fmt.Errorf("query without collection")
	}

	conds, args, err := filterConds(q.Filters, []any{q.Collection})
	if err != nil {
		return "", nil, err
	}
	return "WHERE " + strings.Join(append([]string{"collection = $1"}, conds...), " AND "), args, nil
}

// filterConds renders filters as SQL conditions, numbering placeholders after
// the arguments already in args. Missing fields compare as "" to match
// MemoryStore.
func filterConds(filters []Filter, args []any) ([]string, []any, error) {
	conds := make([]string, 0, len(filters))
	for _, f := range filters {
		if !fieldName.MatchString(f.Field) {
			return nil, nil, fmt.Errorf("invalid filter field %q", f.Field)
		}
		if len(f.Values) == 0 {
			if f.Not {
				conds = append(conds, "TRUE")
			} else {
				conds = append(conds, "FALSE")
			}
			continue
		}

		col := fmt.Sprintf("COALESCE(data->>'%s', '')", f.Field)
		if f.Fold {
			col = "lower(" + col + ")"
		}
		placeholders := make([]string, len(f.Values))
		for i, v := range f.Values {
			text := fmt.Sprint(v)
			if f.Fold {
				text = strings.ToLower(text)
			}
			args = append(args, text)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		op := "IN"
		if f.Not {
			op = "NOT IN"
		}
		conds = append(conds, fmt.Sprintf("%s %s (%s)", col, op, strings.Join(placeholders, ", ")))
	}
	return conds, args, nil
}

// timeKey converts a timestamp field to timestamptz for ordering. It reads
// the same shapes as Time: RFC 3339 text, unix milliseconds and
// {seconds, nanoseconds} objects. Anything else sorts as NULL.
func timeKey(field string) string {
	v := fmt.Sprintf("data->'%s'", field)
	return fmt.Sprintf(`(CASE jsonb_typeof(%[1]s)
		WHEN 'string' THEN CASE WHEN (%[1]s #>> '{}') ~ '^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}'
			THEN (%[1]s #>> '{}')::timestamptz END
		WHEN 'number' THEN to_timestamp((%[1]s)::text::double precision / 1000)
		WHEN 'object' THEN to_timestamp(
			COALESCE(%[1]s->>'seconds', %[1]s->>'_seconds')::double precision
			+ COALESCE(%[1]s->>'nanoseconds', %[1]s->>'_nanoseconds', %[1]s->>'nanos', '0')::double precision / 1e9)
	END)`, v)
}
