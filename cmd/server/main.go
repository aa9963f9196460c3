package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"babinium/internal/config"
	"babinium/internal/handler"
	"babinium/internal/logging"
	"babinium/internal/parser"
	_ "babinium/internal/parser/gemini"
	"babinium/internal/router"
	"babinium/internal/service"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.New(cfg.Log, os.Stdout)
	slog.SetDefault(logger)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize the vision provider
	client, err := parser.NewVisionClient(&cfg.Parser)
	if err != nil {
		return fmt.Errorf("failed to initialize vision provider: %w", err)
	}

	// Initialize services
	extractionSvc := service.NewExtractionService(
		client,
		parser.NewRequestBuilder(cfg.Parser.Locale),
		parser.NewResponseParser(parser.WithStrictRows(cfg.Parser.StrictRows), parser.WithLogger(logger)),
		logger,
	)

	// Initialize handlers
	extractionH := handler.NewExtractionHandler(extractionSvc, cfg.Upload.MaxBytes())
	exportH := handler.NewExportHandler()
	healthH := handler.NewHealthHandler(handler.ReadinessFunc(cfg.Validate))

	// Setup router
	r := router.Setup(logger, cfg.CORS.AllowedOrigins, extractionH, exportH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			"addr", cfg.Server.Port,
			"provider", cfg.Parser.Provider,
			"model", cfg.Parser.DefaultModel,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
