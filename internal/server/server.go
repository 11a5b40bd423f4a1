// Package server owns the process lifecycle: connecting backing services,
// serving HTTP and draining on shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nomfood/storefront/config"
	"github.com/nomfood/storefront/pkg/cache"
	"github.com/nomfood/storefront/pkg/database"
	"github.com/nomfood/storefront/pkg/logger"
	"github.com/nomfood/storefront/pkg/queue"
	"github.com/nomfood/storefront/pkg/storage"
)

const (
	shutdownTimeout = 10 * time.Second
	logsCollection  = "app_logs"
)

// Boot connects MongoDB, the optional Redis cache, the storage disks and
// the queue driver. The returned func releases them in reverse order.
func Boot(ctx context.Context) (func(), error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := database.Connect(ctx); err != nil {
		return nil, err
	}
	closers := []func(){func() { _ = database.Disconnect(context.Background()) }}

	if config.GetBool("LOG_MONGO", false) {
		sink := logger.NewMongoHandler(database.DB, logsCollection, slog.LevelInfo)
		logger.Use(logger.NewMultiHandler(logger.Console(), sink))
		closers = append(closers, func() {
			logger.Use(logger.Console())
			sink.Close()
		})
	}

	redisDriver := config.Get("QUEUE_DRIVER", "memory") == "redis"
	if config.GetBool("CACHE_ENABLED", false) || redisDriver {
		if err := cache.Connect(ctx); err != nil {
			logger.Warn("redis unavailable, cache disabled", "error", err)
		} else {
			closers = append(closers, func() { _ = cache.Close() })
		}
	}

	storage.Connect(ctx)

	switch {
	case redisDriver && cache.RDB != nil:
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	case redisDriver:
		logger.Warn("queue: redis driver requested but redis is down, using memory")
	}
	queue.UseFailedStore(queue.NewMongoFailedStore(database.DB))

	logger.Info("services booted", "env", config.AppEnv(), "database", config.MongoDatabase(), "cache", cache.RDB != nil)

	return func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}, nil
}

// Serve listens on APP_PORT until ctx is done, then gives in-flight
// requests shutdownTimeout to complete.
func Serve(ctx context.Context, handler http.Handler) error {
	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
