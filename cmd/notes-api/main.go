// Command notes-api runs the productivity backend (notes, offers,
// decisions) with the Redis response cache wired in front of its read
// routes. The cache is optional: without REDIS_URL the API serves every
// request uncached.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tracknote/rescache/internal/store"
	"github.com/tracknote/rescache/pkg/cache"
	"github.com/tracknote/rescache/pkg/httpcache"
	"github.com/tracknote/rescache/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Configuration from environment
	redisURL := os.Getenv("REDIS_URL") // empty = caching disabled
	port := getEnv("PORT", "8080")
	logLevel := getEnv("LOG_LEVEL", "info")
	logPretty := os.Getenv("LOG_PRETTY") == "true"

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(logLevel),
		Pretty: logPretty,
		Output: os.Stderr,
	})

	// Cache connection lifecycle is owned here: started before the server
	// accepts traffic, closed during graceful shutdown.
	conn := cache.NewConnManager(cache.DefaultConnConfig(redisURL))
	conn.Start()
	cacheClient := cache.NewClient(conn)

	router := newRouter(conn, cacheClient)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("Starting notes-api server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown failed")
	}
	if err := conn.Close(); err != nil {
		logger.Error().Err(err).Msg("Cache connection close failed")
	}
}

// newRouter builds the full API surface: CRUD routes per resource with
// caching on reads and invalidation on writes, plus health and metrics.
func newRouter(conn *cache.ConnManager, client *cache.Client) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", healthHandler(conn))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	mountResource(r, "/api/notes", "notes", client)
	mountResource(r, "/api/offers", "offers", client)
	mountResource(r, "/api/decisions", "decisions", client)

	return r
}

// mountResource wires one entity collection: reads go through the caching
// middleware under the given resource namespace, writes through the
// invalidation middleware for the same namespace.
func mountResource(r chi.Router, path, resource string, client *cache.Client) {
	s := store.New()

	cached := httpcache.Cache(client, httpcache.Options{
		Resource: resource,
		TTL:      5 * time.Minute,
	})
	invalidate := httpcache.Invalidate(client, resource)

	r.Route(path, func(r chi.Router) {
		r.With(cached).Get("/", listHandler(s))
		r.With(cached).Get("/{id}", getHandler(s))
		r.With(invalidate).Post("/", createHandler(s))
		r.With(invalidate).Put("/{id}", updateHandler(s))
		r.With(invalidate).Delete("/{id}", deleteHandler(s))
	})
}

func healthHandler(conn *cache.ConnManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"cache":  string(conn.State()),
		})
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
