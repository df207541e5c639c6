package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"swing-studio/internal/handlers"
	"swing-studio/internal/library"
	"swing-studio/internal/logging"
	"swing-studio/internal/memory"
	"swing-studio/internal/middleware"
	"swing-studio/internal/playback"
	"swing-studio/internal/startup"
	"swing-studio/internal/thumbnail"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	startTime := time.Now()

	memory.ConfigureFromEnv()

	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	if config.VipsEnabled {
		thumbnail.InitVips()
		defer thumbnail.ShutdownVips()
	}

	ctx := context.Background()

	lib, err := library.New(ctx, config.DatabasePath, config.MediaDir, nil)
	if err != nil {
		startup.LogFatal("Failed to initialize video catalog: %v", err)
	}
	defer lib.Close()

	// Index in the background; the API serves whatever the catalog
	// already holds while the scan runs.
	go func() {
		count, err := library.Scan(ctx, lib)
		if err != nil {
			logging.Error("Media scan failed: %v", err)
			return
		}
		logging.Info("Media scan complete: %d videos indexed", count)
	}()

	h := handlers.New(&catalogAdapter{lib}, config.ThumbnailOptions())
	router := setupRouter(h)

	loggedHandler := middleware.Logger(middleware.Config{
		LogHealthChecks: config.LogHealthChecks,
	})(router)
	handler := middleware.Metrics()(loggedHandler)

	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if config.MetricsEnabled {
		go serveMetrics(config.MetricsPort)
	}

	go handleShutdown(srv)

	logging.Info("Server listening on :%s (started in %v)", config.Port, time.Since(startTime))
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

// catalogAdapter narrows *library.Library to the handlers.Catalog
// interface, returning clips as playback resources.
type catalogAdapter struct {
	lib *library.Library
}

func (a *catalogAdapter) List(ctx context.Context) ([]library.Video, error) {
	return a.lib.List(ctx)
}

func (a *catalogAdapter) Resolve(ctx context.Context, id int64) (playback.Resource, error) {
	clip, err := a.lib.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	return clip, nil
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/healthz", h.Health).Methods("GET")
	r.HandleFunc("/livez", h.Health).Methods("GET")
	r.HandleFunc("/readyz", h.Health).Methods("GET")
	r.HandleFunc("/version", h.Version).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/videos", h.GetVideos).Methods("GET")
	api.HandleFunc("/thumbnail/{id}", h.GetThumbnail).Methods("GET")
	api.HandleFunc("/thumbnail/{id}/cached", h.GetCachedThumbnail).Methods("GET")

	return r
}

// serveMetrics exposes Prometheus metrics on a separate port so they
// stay off the public API surface.
func serveMetrics(port string) {
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())

	logging.Info("Metrics listening on :%s", port)
	if err := http.ListenAndServe(":"+port, metricsMux); err != nil {
		logging.Error("Metrics server error: %v", err)
	}
}

func handleShutdown(srv *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	logging.Info("Shutdown initiated (%s)", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		logging.Info("HTTP server stopped")
	}
}
