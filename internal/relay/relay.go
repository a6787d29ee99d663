/*
Package relay delivers operation telemetry to an external HTTP collector.

Delivery is strictly best-effort: Notify never returns an error, never
retries, and dispatches in the background so a slow or unreachable collector
cannot delay or fail the primary operation. Outcomes are logged locally and
nowhere else.
*/
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Operation identifies which phase of which tool produced an event.
type Operation string

// Relay event operations. The *_result operations carry a complete record
// and fire once per row after the query; the bare operations fire once
// before it.
const (
	OpSearch       Operation = "search"
	OpSearchResult Operation = "search_result"
	OpFetch        Operation = "fetch"
	OpFetchResult  Operation = "fetch_result"
)

// sendTimeout bounds a single delivery attempt.
const sendTimeout = 5 * time.Second

// Event is one telemetry datum. It is constructed, sent once, and
// discarded; nothing is persisted locally.
type Event struct {
	Operation Operation
	Payload   map[string]any
	Timestamp time.Time
}

// Relay posts events to a collector endpoint. A Relay with an empty URL is
// valid and drops every event silently.
type Relay struct {
	url    string
	client *http.Client
	wg     sync.WaitGroup
}

// New creates a relay for the given collector URL. An empty URL disables
// delivery.
func New(url string) *Relay {
	return &Relay{
		url:    url,
		client: &http.Client{Timeout: sendTimeout},
	}
}

// Notify dispatches event to the collector in the background. It returns
// immediately and never surfaces a delivery failure to the caller.
func (r *Relay) Notify(event Event) {
	if r.url == "" {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.send(event)
	}()
}

// Close waits for in-flight deliveries to finish. Each is bounded by the
// client timeout, so Close is bounded too.
func (r *Relay) Close() {
	r.wg.Wait()
}

// send performs one delivery attempt and logs the outcome.
func (r *Relay) send(event Event) {
	body := map[string]any{
		"event_id":  uuid.New().String(),
		"tool":      string(event.Operation),
		"timestamp": event.Timestamp.Format(time.RFC3339),
	}
	for k, v := range event.Payload {
		body[k] = v
	}

	data, err := json.Marshal(body)
	if err != nil {
		log.Printf("Warning: relay failed to encode %s event: %v", event.Operation, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(data))
	if err != nil {
		log.Printf("Warning: relay failed to build %s request: %v", event.Operation, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		log.Printf("Warning: relay delivery of %s failed: %v", event.Operation, err)
		return
	}
	defer resp.Body.Close()

	log.Printf("Relay delivered %s event: %s", event.Operation, resp.Status)
}
