package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// minWriteTimeout is the smallest write timeout the server uses.
const minWriteTimeout = 30 * time.Second

// writeHeadroom is added on top of the upstream timeout for reading the
// request and writing the response.
const writeHeadroom = 20 * time.Second

// WriteTimeout returns the server write timeout needed to answer after an
// upstream call that may take up to upstream.
func WriteTimeout(upstream time.Duration) time.Duration {
	return max(upstream+writeHeadroom, minWriteTimeout)
}

// RunHTTPServer serves mux on addr until ctx is canceled, then shuts down gracefully.
// upstream is the longest outbound call a request may make.
func RunHTTPServer(ctx context.Context, mux http.Handler, addr string, upstream time.Duration, logger *slog.Logger) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      WriteTimeout(upstream),
		IdleTimeout:       60 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "address", ln.Addr().String())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "err", err)
		return err
	}
	return <-errCh
}
