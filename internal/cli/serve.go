package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tallyhttp "github.com/aretw0/tally/pkg/adapters/http"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ShutdownTimeout bounds graceful HTTP shutdown.
const ShutdownTimeout = 5 * time.Second

// NewServeHandler mounts the HTTP API and, when enabled, /metrics.
func NewServeHandler(app *App) http.Handler {
	r := chi.NewRouter()
	if app.Config.Server.Metrics {
		r.Handle("/metrics", promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{}))
	}
	r.Mount("/", tallyhttp.NewHandler(app.Engine(), app.Sessions, tallyhttp.WithLogger(app.Logger)))
	return r
}

// Serve runs the HTTP server on port until ctx is done.
func Serve(ctx context.Context, app *App, port int) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: NewServeHandler(app),
	}

	serverErrors := make(chan error, 1)
	go func() {
		app.Logger.Info("Starting tally server", "address", srv.Addr, "backend", app.Config.Store.Backend)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		app.Logger.Info("Start shutdown")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			closeErr := srv.Close()
			return errors.Join(fmt.Errorf("graceful shutdown did not complete in %v: %w", ShutdownTimeout, err), closeErr)
		}
		app.Logger.Info("Server stopped gracefully")
		return nil
	}
}
