// Package app wires configuration, the artifact store, the processing
// service and the HTTP server into a running process.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/JonMunkholm/kontenfilter/internal/artifact"
	"github.com/JonMunkholm/kontenfilter/internal/config"
	"github.com/JonMunkholm/kontenfilter/internal/core"
	"github.com/JonMunkholm/kontenfilter/internal/web"
)

// Serve listens on the configured address and blocks until ctx is cancelled
// or the server fails.
func Serve(ctx context.Context, cfg *config.Config) error {
	ln, err := net.Listen("tcp", cfg.Server.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Server.Addr(), err)
	}
	return ServeListener(ctx, cfg, ln)
}

// ServeListener runs the server on ln. On cancellation it waits for active
// uploads, shuts the HTTP server down and drops every stored artifact.
func ServeListener(ctx context.Context, cfg *config.Config, ln net.Listener) error {
	store := artifact.NewStore(
		artifact.WithTTL(cfg.Artifact.TTL),
		artifact.WithLogger(slog.Default()),
	)
	defer store.Close()

	service, err := core.NewService(store, cfg)
	if err != nil {
		ln.Close()
		return fmt.Errorf("create service: %w", err)
	}

	server := web.NewServer(service, cfg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		server.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Wait for active uploads to complete (with timeout)
	if active := service.Status().Uploads.Active; active > 0 {
		slog.Info("waiting for uploads to complete", "active", active)
		if err := service.WaitForUploads(shutdownCtx); err != nil {
			slog.Warn("uploads did not complete in time", "error", err)
		} else {
			slog.Info("all uploads completed")
		}
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}

	slog.Info("server stopped", "artifacts_dropped", store.Len())
	return nil
}
