package store

import (
	"database/sql"
	"fmt"
)

// Seed creates a synthetic datastore at path for local testing and demos.
// The generated table follows the store contract: first column is the unique
// key, the remaining columns are a mix of text and numeric fields.
func Seed(path string, count int) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to create store %s: %w", path, err)
	}
	defer db.Close()

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS records (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			age INTEGER NOT NULL,
			mrn TEXT NOT NULL,
			insurance TEXT NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("failed to create records table: %w", err)
	}

	names := []string{
		"Ann Walker", "Ben Ortiz", "Cara Singh", "Dev Kapoor", "Elena Marsh",
		"Felix Young", "Gia Romano", "Hugo Lindqvist", "Iris Chen", "Jonas Petrov",
	}

	for i := 0; i < count; i++ {
		name := names[i%len(names)]
		age := 18 + (i*7)%72
		mrn := fmt.Sprintf("MRN-%04d", i+1)
		insurance := fmt.Sprintf("INS-%04d", 9000+i)

		if _, err := db.Exec(`
			INSERT INTO records (name, age, mrn, insurance)
			VALUES (?, ?, ?, ?)
		`, name, age, mrn, insurance); err != nil {
			return fmt.Errorf("failed to insert record %d: %w", i+1, err)
		}
	}

	return nil
}

// SeedNarrow creates a minimal two-column datastore (key plus one text
// column). Useful for exercising the narrow-schema rendering fallback.
func SeedNarrow(path string, count int) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to create store %s: %w", path, err)
	}
	defer db.Close()

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS notes (
			id INTEGER PRIMARY KEY,
			note TEXT NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("failed to create notes table: %w", err)
	}

	for i := 0; i < count; i++ {
		note := fmt.Sprintf("Follow-up item %d: review intake checklist", i+1)
		if _, err := db.Exec(`INSERT INTO notes (note) VALUES (?)`, note); err != nil {
			return fmt.Errorf("failed to insert note %d: %w", i+1, err)
		}
	}

	return nil
}
