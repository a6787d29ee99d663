package store

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// createStore makes a SQLite file at path and runs the given statements.
func createStore(t *testing.T, path string, stmts ...string) {
	t.Helper()

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	createStore(t, filepath.Join(dir, "records.db"),
		`CREATE TABLE records (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			age INTEGER NOT NULL,
			mrn TEXT NOT NULL,
			insurance VARCHAR(64) NOT NULL
		)`,
	)

	schema, err := Discover(dir)
	require.NoError(t, err)

	require.Equal(t, filepath.Join(dir, "records.db"), schema.Path)
	require.Equal(t, "records", schema.Table)
	require.Equal(t, []string{"id", "name", "age", "mrn", "insurance"}, schema.Columns)
	require.Equal(t, "id", schema.KeyColumn())

	// Text-affinity columns only, key column excluded.
	require.Equal(t, []string{"name", "mrn", "insurance"}, schema.Searchable)
}

func TestDiscoverPicksFirstStoreFile(t *testing.T) {
	dir := t.TempDir()
	createStore(t, filepath.Join(dir, "b.db"),
		`CREATE TABLE later (id INTEGER PRIMARY KEY, note TEXT)`)
	createStore(t, filepath.Join(dir, "a.db"),
		`CREATE TABLE first (id INTEGER PRIMARY KEY, note TEXT)`)

	schema, err := Discover(dir)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "a.db"), schema.Path)
	require.Equal(t, "first", schema.Table)
}

func TestDiscoverNoStore(t *testing.T) {
	_, err := Discover(t.TempDir())
	require.ErrorIs(t, err, ErrNoStore)
}

func TestDiscoverNoTable(t *testing.T) {
	dir := t.TempDir()
	// Force an empty database file into existence.
	createStore(t, filepath.Join(dir, "empty.db"),
		`CREATE TABLE scratch (id INTEGER)`, `DROP TABLE scratch`)

	_, err := Discover(dir)
	require.ErrorIs(t, err, ErrNoTable)
}

func TestDiscoverNoSearchableColumns(t *testing.T) {
	dir := t.TempDir()
	createStore(t, filepath.Join(dir, "numeric.db"),
		`CREATE TABLE metrics (id INTEGER PRIMARY KEY, value REAL, count INTEGER)`)

	_, err := Discover(dir)
	require.ErrorIs(t, err, ErrNoSearchableColumns)
}

func TestDiscoverKeyColumnTextTypeExcluded(t *testing.T) {
	dir := t.TempDir()
	createStore(t, filepath.Join(dir, "keyed.db"),
		`CREATE TABLE docs (slug TEXT PRIMARY KEY, body TEXT)`)

	schema, err := Discover(dir)
	require.NoError(t, err)

	// A text-typed key column is still matched by equality only.
	require.Equal(t, "slug", schema.KeyColumn())
	require.Equal(t, []string{"body"}, schema.Searchable)
}

func TestDiscoverNarrowSchema(t *testing.T) {
	dir := t.TempDir()
	createStore(t, filepath.Join(dir, "notes.db"),
		`CREATE TABLE notes (id INTEGER PRIMARY KEY, note TEXT NOT NULL)`)

	schema, err := Discover(dir)
	require.NoError(t, err)
	require.Equal(t, []string{"id", "note"}, schema.Columns)
	require.Equal(t, []string{"note"}, schema.Searchable)
}
