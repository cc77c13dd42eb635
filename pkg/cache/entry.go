package cache

import (
	"time"
)

// Entry represents a cached upstream response body.
type Entry struct {
	// Body is the response body
	Body []byte `json:"body"`

	// StatusCode is the HTTP status code of the cached response
	StatusCode int `json:"status_code"`

	// CachedAt is when the response was cached
	CachedAt time.Time `json:"cached_at"`
}

// NewEntry creates a cache entry for a response body, stamped with the
// current time.
func NewEntry(body []byte, statusCode int) *Entry {
	return &Entry{
		Body:       body,
		StatusCode: statusCode,
		CachedAt:   time.Now(),
	}
}

// Age returns how long ago the entry was cached.
func (e *Entry) Age() time.Duration {
	return time.Since(e.CachedAt)
}
