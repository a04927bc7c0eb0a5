package httpcache

import (
	"time"
)

// Entry is the cached representation of a successful response.
type Entry struct {
	// StatusCode is the HTTP status code of the cached response.
	StatusCode int `json:"status_code"`

	// ContentType is the Content-Type header of the cached response.
	ContentType string `json:"content_type"`

	// Body is the response payload.
	Body []byte `json:"body"`

	// CachedAt is when the response was captured.
	CachedAt time.Time `json:"cached_at"`
}
