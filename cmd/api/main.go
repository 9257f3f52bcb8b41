package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/keypad"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/server"

	"go.uber.org/zap"
)

func main() {

	ctx := context.Background()

	// Config
	if err := loadDotEnv(); err != nil {
		panic(err)
	}
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Logger
	err = observability.InitLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	if cfg.OTLPLogs {
		logShutdown, err := observability.InitLogging(ctx, cfg.ServiceName)
		if err != nil {
			panic(err)
		}
		defer logShutdown(ctx)
	}

	// Tracing
	traceShutdown, err := observability.InitTracing(ctx, cfg.ServiceName)
	if err != nil {
		panic(err)
	}
	defer traceShutdown(ctx)

	// Sessions
	store := keypad.NewStore(cfg.MaxSessions, cfg.SessionTTL, observability.Logger)

	// Metrics
	metricShutdown, err := initMetrics(ctx, cfg.ServiceName, store)
	if err != nil {
		panic(err)
	}
	defer metricShutdown(ctx)

	// Router
	router := server.NewRouter(keypad.NewHandler(store))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		observability.Logger.Info("server started", zap.String("addr", cfg.Addr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic(err)
		}
	}()

	waitForShutdown(srv, cfg.ShutdownTimeout)
}

func waitForShutdown(srv *http.Server, timeout time.Duration) {

	stop := make(chan os.Signal, 1)

	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		observability.Logger.Error("server shutdown", zap.Error(err))
	}
}
