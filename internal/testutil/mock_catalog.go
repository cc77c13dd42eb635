// Package testutil provides testing utilities for the crawler.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockCatalog is a configurable mock of the Roblox explore and games
// endpoints for testing.
type MockCatalog struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]http.HandlerFunc

	// Tracking, per path
	requestCounts map[string]int
	lastQueries   map[string]url.Values
}

// NewMockCatalog creates a new mock catalog server.
func NewMockCatalog() *MockCatalog {
	mock := &MockCatalog{
		handlers:      make(map[string]http.HandlerFunc),
		requestCounts: make(map[string]int),
		lastQueries:   make(map[string]url.Values),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.requestCounts[r.URL.Path]++
		mock.lastQueries[r.URL.Path] = r.URL.Query()
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		http.NotFound(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockCatalog) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockCatalog) Close() {
	m.server.Close()
}

// Reset clears all tracking counters and handlers.
func (m *MockCatalog) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = make(map[string]http.HandlerFunc)
	m.requestCounts = make(map[string]int)
	m.lastQueries = make(map[string]url.Values)
}

// SetHandler sets a custom handler for a specific path.
func (m *MockCatalog) SetHandler(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a fixed response for a path.
func (m *MockCatalog) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		statusCode := resp.StatusCode
		if statusCode == 0 {
			statusCode = http.StatusOK
		}
		w.WriteHeader(statusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetResponseSequence configures a path to serve the given responses in
// request order; requests past the end of the sequence repeat the last
// response. Useful for rate-limit-then-succeed scripts.
func (m *MockCatalog) SetResponseSequence(path string, responses []MockResponse) {
	var seq int
	var seqMu sync.Mutex

	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		seqMu.Lock()
		idx := seq
		if idx >= len(responses) {
			idx = len(responses) - 1
		}
		seq++
		seqMu.Unlock()

		resp := responses[idx]
		statusCode := resp.StatusCode
		if statusCode == 0 {
			statusCode = http.StatusOK
		}
		w.WriteHeader(statusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetExplorePages configures a path to serve the given page bodies keyed by
// the sortsPageToken query parameter: the request without a token gets
// pages[""], a request with token t gets pages[t]. Unknown tokens get 404.
func (m *MockCatalog) SetExplorePages(path string, pages map[string]string) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Query().Get("sortsPageToken")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	})
}

// RequestCount returns the number of requests made to a path.
func (m *MockCatalog) RequestCount(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestCounts[path]
}

// LastQuery returns the query parameters of the most recent request to a path.
func (m *MockCatalog) LastQuery(path string) url.Values {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastQueries[path]
}
