package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/saiMhatre/stock-api/internal/config"
	"github.com/saiMhatre/stock-api/internal/httpapi"
)

const shutdownTimeout = 10 * time.Second

func main() {
	boot := logrus.New()
	boot.Out = os.Stdout
	config.LoadEnvFiles(boot)

	cfg, err := config.Load()
	if err != nil {
		boot.Fatal("config: ", err)
	}
	logger := config.NewLogger(cfg.Log)

	if err := run(cfg, logger); err != nil {
		logger.Fatal(err)
	}
}

// run returns instead of exiting so deferred cleanup always happens.
func run(cfg *config.Config, logger *logrus.Logger) error {
	// prices go out as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
	if cfg.App.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}
	defer app.Close()

	r, err := httpapi.NewRouter(app.Service, logger, httpapi.Options{
		UpdateNoContent: cfg.API.UpdateNoContent,
		MetricsEnabled:  cfg.Metrics.Enabled,
		MetricsPath:     cfg.Metrics.Path,
		Pinger:          app.pinger(),
	})
	if err != nil {
		return fmt.Errorf("router: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.App.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return serve(ctx, srv, logger)
}

// serve runs srv until ctx is cancelled or the listener fails. A listener
// failure is returned to the caller rather than ending the process here.
func serve(ctx context.Context, srv *http.Server, logger logrus.FieldLogger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
