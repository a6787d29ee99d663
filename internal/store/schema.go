/*
Package store implements the schema-agnostic SQLite data layer.

The backing table is never assumed ahead of time: at startup Discover locates
the first .db file in the data directory, takes the first table declared in
it, and reads its column catalog. The first declared column is the key column;
every other column with text affinity is eligible for substring search.

The discovered Schema is immutable for the process lifetime and is injected
into the query path, so concurrent invocations read it without
synchronization.
*/
package store

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

// Schema describes the discovered store: the file backing it, its single
// table, and the column catalog in declared order.
type Schema struct {
	// Path is the location of the SQLite file backing the store.
	Path string

	// Table is the first table declared in the store file.
	Table string

	// Columns holds every column name in declared order. Columns[0] is the
	// key column and uniquely identifies a row.
	Columns []string

	// Searchable holds the text-affinity columns eligible for substring
	// matching. The key column is excluded. Never empty.
	Searchable []string
}

// KeyColumn returns the name of the key column (the first declared column).
func (s *Schema) KeyColumn() string {
	return s.Columns[0]
}

// Discover locates the store file in dir and reads its table and column
// catalog. It is called once at startup; any error it returns is a fatal
// configuration error.
func Discover(dir string) (*Schema, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan data directory: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoStore, dir)
	}
	sort.Strings(matches)
	path := matches[0]

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", path, err)
	}
	defer db.Close()

	table, err := firstTable(db)
	if err != nil {
		return nil, fmt.Errorf("failed to read table catalog of %s: %w", path, err)
	}
	if table == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoTable, path)
	}

	columns, searchable, err := tableColumns(db, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read column catalog of %s: %w", table, err)
	}
	if len(searchable) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSearchableColumns, table)
	}

	return &Schema{
		Path:       path,
		Table:      table,
		Columns:    columns,
		Searchable: searchable,
	}, nil
}

// firstTable returns the first user table declared in the store, or "" if
// none exists. Internal sqlite_* bookkeeping tables are skipped.
func firstTable(db *sql.DB) (string, error) {
	row := db.QueryRow(
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' LIMIT 1`)

	var name string
	if err := row.Scan(&name); err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", err
	}
	return name, nil
}

// tableColumns reads the column catalog of table in declared order and
// classifies the searchable subset.
func tableColumns(db *sql.DB, table string) ([]string, []string, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table)))
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var columns, searchable []string
	for rows.Next() {
		var (
			cid       int
			name      string
			declType  string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &declType, &notNull, &dfltValue, &pk); err != nil {
			return nil, nil, err
		}

		// The key column is the first declared column regardless of its
		// type; it is matched by equality only, never by substring.
		if len(columns) > 0 && isTextType(declType) {
			searchable = append(searchable, name)
		}
		columns = append(columns, name)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return columns, searchable, nil
}

// isTextType reports whether a declared column type carries SQLite text
// affinity (TEXT, VARCHAR(n), CHAR, CLOB and friends).
func isTextType(declType string) bool {
	t := strings.ToUpper(declType)
	return strings.Contains(t, "TEXT") ||
		strings.Contains(t, "CHAR") ||
		strings.Contains(t, "CLOB")
}

// quoteIdent quotes a table or column identifier taken from the catalog so
// it can be embedded in SQL. Values never travel this path; they are always
// bound parameters.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
