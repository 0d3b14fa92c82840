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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/sagarc03/filekeep/auth"
	"github.com/sagarc03/filekeep/config"
	filekeephttp "github.com/sagarc03/filekeep/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the filekeep HTTP server.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 5708, "HTTP server port")
	serveCmd.Flags().Int64("max-upload-size", 32<<20, "maximum upload body size in bytes, 0 for no limit")
	serveCmd.Flags().String("auth-type", "", "token verifier: hmac, jwks (default: hmac, env: FILEKEEP_AUTH_TYPE)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	service, cleanup, err := newFileService(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	verifier, err := auth.NewVerifier(ctx, cfg.Auth, slog.Default())
	if err != nil {
		return fmt.Errorf("create token verifier: %w", err)
	}
	slog.Info("token verification configured", "type", cfg.Auth.Type)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler := filekeephttp.NewHandler(&filekeephttp.HandlerConfig{
		Verifier:      verifier,
		MaxUploadSize: cfg.Server.MaxUploadSize,
		CORS:          cfg.CORS,
		Logger:        slog.Default(),
		Metrics:       filekeephttp.NewMetrics(reg),
	}, service)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	server := &http.Server{
		Addr:              addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		slog.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
		cancel()
	}()

	slog.Info("starting server", "addr", addr, "database", cfg.Database.Type, "storage", cfg.Storage.Type)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
