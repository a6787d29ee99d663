/*
Package document defines the fixed-shape document returned to the calling
agent and its derivation from a store record.

The document contract is stable regardless of the width of the backing table:
id is always the stringified key column, title and text are built from the
leading non-key columns in schema order, and url is a synthesized reference
that carries the id.
*/
package document

import (
	"fmt"
	"strings"

	"github.com/khanglvm/datastore-mcp/internal/store"
)

// DefaultBaseURL is the reference prefix used when no base URL is
// configured.
const DefaultBaseURL = "https://demo-data-store.local"

// placeholderTitle is used when a record has no non-key columns to title it
// with. Narrow schemas degrade to this rather than failing.
const placeholderTitle = "Unknown"

// previewColumns caps how many non-key columns feed a search result's
// title/text preview.
const previewColumns = 3

// Document is the unit returned to the caller per matched or fetched row.
type Document struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Text     string         `json:"text"`
	URL      string         `json:"url"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// FromSearchResult renders a record as a search result: a short preview
// built from the first few non-key columns, without metadata.
func FromSearchResult(rec store.Record, baseURL string) Document {
	id := rec.Key()

	preview := previewFields(rec)
	pairs := make([]string, len(preview))
	for i, col := range preview {
		pairs[i] = fmt.Sprintf("%s: %s", col, rec.String(col))
	}

	return Document{
		ID:    id,
		Title: titleFor(rec),
		Text:  strings.Join(pairs, ", "),
		URL:   recordURL(baseURL, id),
	}
}

// FromFetchResult renders a record as a full document: every column on its
// own line, with source metadata attached.
func FromFetchResult(rec store.Record, baseURL string, source string) Document {
	id := rec.Key()

	lines := make([]string, len(rec.Columns()))
	for i, col := range rec.Columns() {
		lines[i] = fmt.Sprintf("%s: %s", col, rec.String(col))
	}

	return Document{
		ID:    id,
		Title: titleFor(rec),
		Text:  "Complete Record:\n" + strings.Join(lines, "\n"),
		URL:   recordURL(baseURL, id),
		Metadata: map[string]any{
			"source":       source,
			"record_count": 1,
		},
	}
}

// titleFor derives a document title from the first non-key column, falling
// back to a fixed placeholder when the schema has none.
func titleFor(rec store.Record) string {
	cols := rec.Columns()
	if len(cols) < 2 {
		return "Record: " + placeholderTitle
	}
	return "Record: " + rec.String(cols[1])
}

// previewFields returns up to previewColumns non-key column names in schema
// order.
func previewFields(rec store.Record) []string {
	cols := rec.Columns()
	if len(cols) <= 1 {
		return nil
	}
	fields := cols[1:]
	if len(fields) > previewColumns {
		fields = fields[:previewColumns]
	}
	return fields
}

// recordURL synthesizes the identifier-bearing reference for a record.
func recordURL(baseURL, id string) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return strings.TrimRight(baseURL, "/") + "/record/" + id
}
