package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rgehrsitz/tcogo/internal/api"
	"github.com/rgehrsitz/tcogo/internal/logging"
	"github.com/spf13/cobra"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the engine as a JSON HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := currentCatalog()
		if err != nil {
			return err
		}
		s, err := api.NewServer(ds)
		if err != nil {
			return err
		}
		logger := logging.NewSlogLogger(slog.Default())
		s.SetLogger(logger)
		s.Analyzer.SetLogger(logger)
		if workers > 0 {
			s.Workers = workers
		} else {
			s.Workers = settings.Workers
		}

		addr := listenAddr
		if addr == "" {
			addr = settings.Listen
		}
		srv := &http.Server{
			Addr:              addr,
			Handler:           s.Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			slog.Info("listening", "addr", addr, "vendors", len(ds.Vendors))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("serve: %w", err)
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address (default from settings, 127.0.0.1:8080)")
}
