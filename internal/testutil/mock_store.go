// Package testutil provides testing utilities for the gallery loader.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/photogrid/gallery-loader/pkg/store"
)

// MockResponse defines the behavior for a mock document-store endpoint.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockStore is a configurable mock document-store HTTP server. It
// serves the REST layout the httpstore client expects and can be
// overridden per path for failure injection.
type MockStore struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)
	records  map[string]map[string]store.PhotoRecord // collection -> id -> record

	// Tracking
	RequestCount      int
	ConditionalCount  int
	LastRequestHeader http.Header
}

// NewMockStore creates a new mock document-store server.
func NewMockStore() *MockStore {
	mock := &MockStore{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
		records:  make(map[string]map[string]store.PhotoRecord),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastRequestHeader = r.Header.Clone()

		// Track conditional requests
		if r.Header.Get("If-None-Match") != "" || r.Header.Get("If-Modified-Since") != "" {
			mock.ConditionalCount++
		}
		mock.mu.Unlock()

		// Check for custom handler
		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockStore) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockStore) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.ConditionalCount = 0
	m.LastRequestHeader = nil
}

// Seed populates a collection with records served by the default
// handlers.
func (m *MockStore) Seed(collection string, records []store.PhotoRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	coll := make(map[string]store.PhotoRecord, len(records))
	for _, rec := range records {
		coll[rec.ID] = rec
	}
	m.records[collection] = coll
}

// SetHandler sets a custom handler for a specific path.
func (m *MockStore) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a fixed response for a path.
func (m *MockStore) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// FailRecord makes a specific record fetch return a 500 response.
func (m *MockStore) FailRecord(collection, id string) {
	m.SetResponse(RecordPath(collection, id), NewServerErrorResponse())
}

// IDsPath returns the id-listing path for a collection.
func IDsPath(collection string) string {
	return fmt.Sprintf("/collections/%s/ids", collection)
}

// RecordPath returns the record path for a collection and id.
func RecordPath(collection, id string) string {
	return fmt.Sprintf("/collections/%s/records/%s", collection, id)
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockStore) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetConditionalCount returns the number of conditional requests.
func (m *MockStore) GetConditionalCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ConditionalCount
}

// defaultHandler serves seeded collections with store-like responses.
func (m *MockStore) defaultHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	m.mu.RLock()
	defer m.mu.RUnlock()

	for collection, records := range m.records {
		if r.URL.Path == IDsPath(collection) {
			ids := make([]string, 0, len(records))
			for id := range records {
				ids = append(ids, id)
			}
			writeJSON(w, http.StatusOK, ids)
			return
		}

		for id, rec := range records {
			if r.URL.Path == RecordPath(collection, id) {
				w.Header().Set("ETag", fmt.Sprintf("%q", "etag-"+id))
				w.Header().Set("Expires", time.Now().Add(5*time.Minute).Format(http.TimeFormat))

				if r.Header.Get("If-None-Match") == fmt.Sprintf("%q", "etag-"+id) {
					w.WriteHeader(http.StatusNotModified)
					return
				}

				writeJSON(w, http.StatusOK, rec)
				return
			}
		}
	}

	writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)
	w.Write(data)
}

// NewHealthyResponse creates a standard 200 OK response with cache headers.
func NewHealthyResponse(data string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       data,
		Headers: map[string]string{
			"ETag":         `"test-etag-123"`,
			"Expires":      time.Now().Add(5 * time.Minute).Format(http.TimeFormat),
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewRateLimitResponse creates a 429 Too Many Requests response.
func NewRateLimitResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"error": "Rate limit exceeded"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewConditionalHandler creates a handler that responds with 304 for
// matching If-None-Match headers and a full body otherwise.
func NewConditionalHandler(etag string, data string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if r.Header.Get("If-None-Match") == etag {
			w.Header().Set("Expires", time.Now().Add(5*time.Minute).Format(http.TimeFormat))
			w.WriteHeader(http.StatusNotModified)
			return
		}

		w.Header().Set("ETag", etag)
		w.Header().Set("Expires", time.Now().Add(5*time.Minute).Format(http.TimeFormat))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(data))
	}
}
