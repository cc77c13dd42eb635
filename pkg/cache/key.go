package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key represents a unique identifier for a cached upstream response.
type Key struct {
	// Endpoint is the upstream endpoint path (e.g. "/v1/games")
	Endpoint string

	// Query are the request query parameters
	Query url.Values
}

// String generates a deterministic cache key string.
// Format: crawler:endpoint:param1=val1:param2=val2
//
// Example:
//
//	crawler:v1/games:universeIds=123,456
func (k Key) String() string {
	parts := []string{"crawler"}

	endpoint := strings.Trim(k.Endpoint, "/")
	if endpoint != "" {
		parts = append(parts, endpoint)
	}

	// Query params sorted for determinism
	if len(k.Query) > 0 {
		keys := make([]string, 0, len(k.Query))
		for key := range k.Query {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, k.Query.Get(key)))
		}
	}

	return strings.Join(parts, ":")
}
