package store

import "errors"

// Configuration errors are fatal at startup: the server must not serve
// traffic over a store it cannot describe.
var (
	// ErrNoStore indicates no .db file was found in the data directory.
	ErrNoStore = errors.New("no .db files found in data directory")

	// ErrNoTable indicates the store file contains no tables.
	ErrNoTable = errors.New("no tables found in database")

	// ErrNoSearchableColumns indicates the table has no text columns besides
	// the key column. Search would either match nothing or everything, so
	// this is a configuration error rather than a degraded mode.
	ErrNoSearchableColumns = errors.New("table has no searchable text columns")
)

// ErrNotFound indicates a fetch key matched no row. It is a distinct outcome,
// not a system fault.
var ErrNotFound = errors.New("document not found")
