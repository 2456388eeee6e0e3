package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/api"
	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/config"
	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/logging"
	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/metrics"
	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/service"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  `Start an HTTP server exposing the location analysis API, health check and Prometheus metrics.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address, overrides SERVER_ADDR")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)
	if cfg.Log.Level != "debug" && cfg.Log.Level != "trace" {
		gin.SetMode(gin.ReleaseMode)
	}

	table, err := config.LoadWeights(cfg.WeightsFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := metrics.NewDefault()
	poiProvider, cleanup, err := buildProvider(ctx, cfg, table, reg)
	if err != nil {
		return err
	}
	defer cleanup()

	analysisService := service.NewAnalysisService(poiProvider, table, cfg.Analysis.RadiusBounds(), reg)
	router := api.NewRouter(api.NewHandler(analysisService), reg.Handler())

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", cfg.Server.Addr).
			Str("provider", poiProvider.Name()).
			Int("categories", table.Len()).
			Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server exited")
	return nil
}
