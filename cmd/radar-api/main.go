// Command radar-api serves stored topics to the dashboard.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/cognicore/radar/internal/api"
	"github.com/cognicore/radar/internal/settings"
	"github.com/cognicore/radar/pkg/radar/store/sqlite"
)

func main() {
	env, err := settings.Load()
	if err != nil {
		log.Fatalf("load settings: %v", err)
	}

	var (
		dbPath = flag.String("db", env.DBPath, "SQLite database path")
		addr   = flag.String("addr", env.HTTPAddr, "Listen address")
	)
	flag.Parse()

	logger, err := env.Logger()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := sqlite.OpenSQLite(ctx, *dbPath)
	if err != nil {
		logger.Fatal("Failed to open database", zap.String("db", *dbPath), zap.Error(err))
	}
	defer st.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv := api.NewServer(api.Config{
		Addr:         *addr,
		CorsOrigins:  env.CorsOrigins,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		Gatherer:     reg,
	}, st, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", zap.String("addr", *addr), zap.String("db", *dbPath))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown failed", zap.Error(err))
		}
	}
}
