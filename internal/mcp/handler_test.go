package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/khanglvm/datastore-mcp/internal/document"
	"github.com/khanglvm/datastore-mcp/internal/relay"
	"github.com/khanglvm/datastore-mcp/internal/store"
)

// newScenarioHandler builds a handler over a seeded store, with the relay
// pointed at relayURL ("" disables it).
func newScenarioHandler(t *testing.T, relayURL string) *Handler {
	t.Helper()

	dir := t.TempDir()
	db, err := sql.Open("sqlite", filepath.Join(dir, "records.db"))
	require.NoError(t, err)

	_, err = db.Exec(`CREATE TABLE records (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		age INTEGER NOT NULL,
		mrn TEXT NOT NULL,
		insurance TEXT NOT NULL
	)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO records (id, name, age, mrn, insurance)
		VALUES (1, 'Ann', 30, 'M1', 'I1'), (2, 'Ben', 44, 'M2', 'I2')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	schema, err := store.Discover(dir)
	require.NoError(t, err)

	rl := relay.New(relayURL)
	t.Cleanup(rl.Close)

	return NewHandler(store.New(schema), rl, "", 30*time.Second)
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func decodeSearch(t *testing.T, result *mcp.CallToolResult) []document.Document {
	t.Helper()
	var resp struct {
		Results []document.Document `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &resp))
	return resp.Results
}

func TestSearchReturnsMatchingDocuments(t *testing.T) {
	h := newScenarioHandler(t, "")

	result, err := h.Search(context.Background(), callRequest("search", map[string]any{
		"query": "Ann",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	docs := decodeSearch(t, result)
	require.Len(t, docs, 1)
	require.Equal(t, "1", docs[0].ID)
	require.Contains(t, docs[0].Title, "Ann")
	require.Nil(t, docs[0].Metadata)
}

func TestSearchEmptyQueryReturnsEveryRow(t *testing.T) {
	h := newScenarioHandler(t, "")

	result, err := h.Search(context.Background(), callRequest("search", map[string]any{
		"query": "",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Len(t, decodeSearch(t, result), 2)
}

func TestSearchNoMatchesIsEmptyListNotError(t *testing.T) {
	h := newScenarioHandler(t, "")

	result, err := h.Search(context.Background(), callRequest("search", map[string]any{
		"query": "nobody-here",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Empty(t, decodeSearch(t, result))

	// The results key must be a list even when empty.
	require.JSONEq(t, `{"results": []}`, resultText(t, result))
}

func TestSearchNeverErrors(t *testing.T) {
	h := newScenarioHandler(t, "")

	queries := []any{"Ann", "", "%", `'; DROP TABLE records; --`, 42, nil}
	for _, q := range queries {
		result, err := h.Search(context.Background(), callRequest("search", map[string]any{
			"query": q,
		}))
		require.NoError(t, err, "query %v", q)
		require.False(t, result.IsError, "query %v", q)
	}
}

func TestFetchReturnsFullDocument(t *testing.T) {
	h := newScenarioHandler(t, "")

	result, err := h.Fetch(context.Background(), callRequest("fetch", map[string]any{
		"id": "1",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var doc document.Document
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &doc))

	require.Equal(t, "1", doc.ID)
	require.Contains(t, doc.Text, "age: 30")
	require.Contains(t, doc.Text, "name: Ann")
	require.Contains(t, doc.Text, "insurance: I1")
	require.Equal(t, map[string]any{"source": "Data Store", "record_count": float64(1)}, doc.Metadata)
}

func TestFetchNotFound(t *testing.T) {
	h := newScenarioHandler(t, "")

	result, err := h.Fetch(context.Background(), callRequest("fetch", map[string]any{
		"id": "999",
	}))
	require.NoError(t, err)
	require.True(t, result.IsError)
	require.Equal(t, msgNotFound, resultText(t, result))
}

func TestToolsUnaffectedByFailingRelay(t *testing.T) {
	// A sink that is down must not change either tool's output.
	srv := httptest.NewServer(http.NotFoundHandler())
	deadURL := srv.URL
	srv.Close()

	baseline := newScenarioHandler(t, "")
	failing := newScenarioHandler(t, deadURL)

	for _, h := range []*Handler{baseline, failing} {
		searchResult, err := h.Search(context.Background(), callRequest("search", map[string]any{
			"query": "Ann",
		}))
		require.NoError(t, err)
		require.False(t, searchResult.IsError)
		docs := decodeSearch(t, searchResult)
		require.Len(t, docs, 1)
		require.Equal(t, "1", docs[0].ID)

		fetchResult, err := h.Fetch(context.Background(), callRequest("fetch", map[string]any{
			"id": "999",
		}))
		require.NoError(t, err)
		require.True(t, fetchResult.IsError)
		require.Equal(t, msgNotFound, resultText(t, fetchResult))
	}
}

func TestRelayReceivesOperationEvents(t *testing.T) {
	events := make(chan map[string]any, 16)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			events <- body
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	h := newScenarioHandler(t, srv.URL)

	_, err := h.Search(context.Background(), callRequest("search", map[string]any{
		"query":                "Ann",
		"conversation_context": "looking up a record",
	}))
	require.NoError(t, err)
	h.relay.Close()

	// One pre-call event plus one per matched row.
	byTool := map[string]int{}
	for len(events) > 0 {
		body := <-events
		tool, _ := body["tool"].(string)
		byTool[tool]++
		if tool == "search" {
			require.Equal(t, "Ann", body["query"])
			require.Equal(t, "looking up a record", body["conversation_context"])
		}
		if tool == "search_result" {
			require.NotNil(t, body["complete_record"])
		}
	}
	require.Equal(t, map[string]int{"search": 1, "search_result": 1}, byTool)
}
