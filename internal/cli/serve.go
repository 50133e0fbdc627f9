package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fical/fi-calculator/internal/api"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the engine over HTTP. Every endpoint takes a JSON body of the form
{"plan": {...}, "what_if": {...}}:

  POST /api/v1/projection   year-by-year records
  POST /api/v1/fi-age       achievable FI age and confidence
  POST /api/v1/summary      FI number, gap, runway and buffer
  POST /api/v1/report       full report (?format= renders any output format)
  POST /api/v1/compare      {"plan": {...}, "scenarios": [...]}
  GET  /api/v1/runs         recorded runs (with --record)
  GET  /metrics             Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().String("addr", ":8080", "Listen address")
	cmd.Flags().Bool("no-metrics", false, "Disable the /metrics endpoint")
	cmd.Flags().Duration("timeout", 30*time.Second, "Per-request timeout")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	noMetrics, _ := cmd.Flags().GetBool("no-metrics")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	s := newSession(cmd)
	defer s.Close()

	srv := api.NewServer(s.engine)
	srv.SetRecorder(s.recorder)
	srv.SetLogger(s.logger)
	srv.SetTimeout(timeout)
	if !noMetrics {
		srv.EnableMetrics()
	}

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.infoAlways("fical API listening on %s", addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.infoAlways("shutdown signal received, stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.infoAlways("fical API stopped")
	return nil
}
