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

	"gitlab.com/dirk.krummacker/businesscard-service/internal/config"
	"gitlab.com/dirk.krummacker/businesscard-service/internal/logging"
	"gitlab.com/dirk.krummacker/businesscard-service/internal/service"
	"gitlab.com/dirk.krummacker/businesscard-service/internal/store"
)

const shutdownTimeout = 10 * time.Second

// Usage example on the command line:
// > PORT=8080 DBUSER=dirk DBPWD=bullo92 GIN_MODE=release GIN_LOGGING=OFF go run main.go
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		return err
	}
	service.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sqlDB, err := store.OpenMySQL(ctx, *cfg)
	if err != nil {
		return err
	}
	if err := service.SetupDatabaseWrapper(sqlDB); err != nil {
		sqlDB.Close()
		return err
	}
	defer func() {
		if err := service.Shutdown(); err != nil {
			logger.Error(context.Background(), "closing the database failed", "error", err)
		}
	}()

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           service.SetupHttpRouter(cfg.GinLogging),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverErr := make(chan error, 1)
	go func() {
		logger.Info(ctx, "listening", "addr", server.Addr)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
