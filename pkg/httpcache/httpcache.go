// Package httpcache provides HTTP middleware that transparently caches
// successful GET responses and invalidates them on writes.
//
// Both middlewares are standard func(http.Handler) http.Handler wrappers and
// compose with any chi or net/http router. Caching failures are swallowed
// and logged; a request can never fail because of a caching problem.
package httpcache

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tracknote/rescache/pkg/cache"
	"github.com/tracknote/rescache/pkg/logging"
)

// DefaultTTL is used when Options.TTL is not set.
const DefaultTTL = time.Hour

// storeTimeout bounds the fire-and-forget cache write issued after a
// response has already been committed.
const storeTimeout = 10 * time.Second

// Options configures the caching middleware for one group of routes.
type Options struct {
	// Resource is the cache-key namespace (e.g. "notes").
	Resource string

	// TTL is how long captured responses stay cached. Defaults to
	// DefaultTTL when zero.
	TTL time.Duration
}

// Cache returns middleware that serves GET requests from the cache when
// possible and captures fresh responses on a miss.
//
// Non-GET requests and requests arriving while the cache is unavailable
// pass through untouched. On a miss the downstream handler runs normally;
// its response is streamed to the client and, if it was a 200, written to
// the cache in the background without delaying the response.
func Cache(client *cache.Client, opts Options) func(http.Handler) http.Handler {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	logger := logging.NewLogger("httpcache")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || !client.Available() {
				next.ServeHTTP(w, r)
				return
			}

			key := cache.RequestKey(opts.Resource, r.URL.Path, r.URL.Query())

			var entry Entry
			if client.Get(r.Context(), key, &entry) {
				writeEntry(w, entry)
				return
			}

			rec := newResponseRecorder(w)
			w.Header().Set("X-Cache", "MISS")
			next.ServeHTTP(rec, r)

			if rec.status != http.StatusOK || rec.body.Len() == 0 {
				return
			}

			entry = Entry{
				StatusCode:  rec.status,
				ContentType: rec.Header().Get("Content-Type"),
				Body:        rec.body.Bytes(),
				CachedAt:    time.Now(),
			}
			// Fire and forget: the response is already committed, so the
			// write must neither be awaited nor affect it.
			go storeEntry(client, logger, key, entry, opts.TTL)
		})
	}
}

// Invalidate returns middleware that drops every cached entry for the named
// resources after a successful write request. GET, HEAD and OPTIONS requests
// pass through untouched, as do writes that did not succeed.
func Invalidate(client *cache.Client, resources ...string) func(http.Handler) http.Handler {
	logger := logging.NewLogger("httpcache")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			if rec.status < 200 || rec.status >= 300 || !client.Available() {
				return
			}
			for _, resource := range resources {
				go invalidateResource(client, logger, resource)
			}
		})
	}
}

func writeEntry(w http.ResponseWriter, entry Entry) {
	if entry.ContentType != "" {
		w.Header().Set("Content-Type", entry.ContentType)
	}
	w.Header().Set("X-Cache", "HIT")
	w.WriteHeader(entry.StatusCode)
	w.Write(entry.Body)
}

func storeEntry(client *cache.Client, logger zerolog.Logger, key string, entry Entry, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if !client.Set(ctx, key, entry, ttl) {
		logger.Debug().Str("key", key).Msg("Response not cached")
		return
	}
	logger.Debug().Str("key", key).Dur("ttl", ttl).Msg("Cached response")
}

func invalidateResource(client *cache.Client, logger zerolog.Logger, resource string) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if !client.InvalidatePattern(ctx, cache.Pattern(resource)) {
		logger.Debug().Str("resource", resource).Msg("Cache not invalidated")
	}
}
