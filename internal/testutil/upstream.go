// Package testutil provides testing utilities for the response cache.
package testutil

import (
	"net/http"
	"sync"
	"time"
)

// UpstreamResponse defines the behavior of a fake origin endpoint.
type UpstreamResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// Upstream is a configurable fake origin API handler. It counts how often
// the business logic actually ran, which is how tests distinguish cache
// hits from misses.
type Upstream struct {
	mu       sync.RWMutex
	calls    int
	handlers map[string]http.HandlerFunc
}

// NewUpstream creates a fake origin that answers every path with a default
// JSON payload until configured otherwise.
func NewUpstream() *Upstream {
	return &Upstream{
		handlers: make(map[string]http.HandlerFunc),
	}
}

// ServeHTTP implements http.Handler.
func (u *Upstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	u.calls++
	handler, exists := u.handlers[r.URL.Path]
	u.mu.Unlock()

	if exists {
		handler(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}

// Calls returns how many requests reached the origin handler.
func (u *Upstream) Calls() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.calls
}

// Reset clears the call counter.
func (u *Upstream) Reset() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls = 0
}

// SetHandler sets a custom handler for a specific path.
func (u *Upstream) SetHandler(path string, handler http.HandlerFunc) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.handlers[path] = handler
}

// SetResponse configures a fixed response for a path.
func (u *Upstream) SetResponse(path string, resp UpstreamResponse) {
	u.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
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

// NewJSONResponse creates a standard 200 OK JSON response.
func NewJSONResponse(data string) UpstreamResponse {
	return UpstreamResponse{
		StatusCode: http.StatusOK,
		Body:       data,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() UpstreamResponse {
	return UpstreamResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "internal server error"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}
