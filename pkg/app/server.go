package app

import (
	"context"
	"os/signal"
	"sync"
	"syscall"

	"github.com/nomfood/storefront/internal/server"
	"github.com/nomfood/storefront/pkg/logger"
	"github.com/nomfood/storefront/pkg/queue"
)

// Serve boots backing services, syncs indexes, then runs the HTTP server
// and the queue workers until SIGINT or SIGTERM.
func (a *Application) Serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	release, err := server.Boot(ctx)
	if err != nil {
		return err
	}
	defer release()

	if err := a.boot(ctx); err != nil {
		return err
	}
	// a stale index set must not keep the storefront offline
	if err := a.runTasks(ctx, a.indexers); err != nil {
		logger.Warn("index sync failed", "error", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		queue.Work(ctx, a.workers)
	}()

	err = server.Serve(ctx, a.Handler())
	stop()
	wg.Wait()
	return err
}

// WorkQueue runs only the queue workers, for a dedicated worker process.
func (a *Application) WorkQueue(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	release, err := server.Boot(ctx)
	if err != nil {
		return err
	}
	defer release()

	if err := a.boot(ctx); err != nil {
		return err
	}
	queue.Work(ctx, a.workers)
	logger.Info("queue workers stopped")
	return nil
}

func (a *Application) boot(ctx context.Context) error {
	for _, fn := range a.bootFns {
		if err := fn(ctx); err != nil {
			return err
		}
	}
	return nil
}
