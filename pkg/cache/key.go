package cache

import (
	"net/url"
)

// request is the canonical form of a read request used for key generation.
// encoding/json emits map keys in sorted order, so marshaling it yields the
// same text for the same logical query regardless of insertion order.
type request struct {
	Path  string     `json:"path"`
	Query url.Values `json:"query"`
}

// Key returns the cache key for a single resource instance.
// Format: "{resource}:{id}"
//
// Example:
//
//	Key("notes", "42") // "notes:42"
func Key(resource, id string) string {
	return resource + ":" + id
}

// RequestKey returns the cache key for a read request, namespaced by
// resource type. The path and query parameters are canonicalized so that
// repeated identical requests always map to the same entry.
// Format: "{resource}:{canonical JSON of path and query}"
func RequestKey(resource, path string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	data, err := Marshal(request{Path: path, Query: query})
	if err != nil {
		// Strings and url.Values cannot fail to marshal; keep the key
		// usable anyway.
		return resource + ":" + path
	}
	return resource + ":" + string(data)
}

// Pattern returns the glob matching every cache key in a resource namespace.
// Passed to Client.InvalidatePattern to drop all entries for a resource.
func Pattern(resource string) string {
	return resource + ":*"
}
