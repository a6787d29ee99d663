package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Store executes queries against the discovered schema. Each invocation
// opens its own connection and closes it before returning, so a Store can be
// shared freely across concurrent tool calls.
type Store struct {
	schema *Schema
}

// New creates a Store bound to a discovered schema.
func New(schema *Schema) *Store {
	return &Store{schema: schema}
}

// Schema returns the schema the store was built from.
func (s *Store) Schema() *Schema {
	return s.schema
}

// Search returns every row where any searchable column contains query as a
// substring. The query text is always a bound parameter, never interpolated
// into the SQL. An empty query matches every row.
//
// Rows come back in store-native order; no ordering guarantee is made and
// callers must not assume the order is stable across calls.
func (s *Store) Search(ctx context.Context, query string) ([]Record, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	conditions := make([]string, len(s.schema.Searchable))
	params := make([]any, len(s.schema.Searchable))
	for i, col := range s.schema.Searchable {
		conditions[i] = quoteIdent(col) + " LIKE ?"
		params[i] = "%" + query + "%"
	}

	stmt := fmt.Sprintf("SELECT * FROM %s WHERE %s",
		quoteIdent(s.schema.Table), strings.Join(conditions, " OR "))

	rows, err := db.QueryContext(ctx, stmt, params...)
	if err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := s.scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}
	return records, nil
}

// Fetch returns the row whose key column equals key, or ErrNotFound if no
// such row exists.
func (s *Store) Fetch(ctx context.Context, key string) (Record, error) {
	db, err := s.open()
	if err != nil {
		return Record{}, err
	}
	defer db.Close()

	stmt := fmt.Sprintf("SELECT * FROM %s WHERE %s = ?",
		quoteIdent(s.schema.Table), quoteIdent(s.schema.KeyColumn()))

	rows, err := db.QueryContext(ctx, stmt, key)
	if err != nil {
		return Record{}, fmt.Errorf("fetch query failed: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Record{}, fmt.Errorf("fetch query failed: %w", err)
		}
		return Record{}, ErrNotFound
	}

	rec, err := s.scanRecord(rows)
	if err != nil {
		return Record{}, fmt.Errorf("failed to scan row: %w", err)
	}
	return rec, nil
}

// open establishes the per-invocation connection.
func (s *Store) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.schema.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", s.schema.Path, err)
	}
	return db, nil
}

// scanRecord reads the current row into a Record keyed by the schema's
// column list.
func (s *Store) scanRecord(rows *sql.Rows) (Record, error) {
	vals := make([]any, len(s.schema.Columns))
	ptrs := make([]any, len(vals))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return Record{}, err
	}
	return NewRecord(s.schema.Columns, vals), nil
}
