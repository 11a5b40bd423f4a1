package app

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/nomfood/storefront/config"
	"github.com/nomfood/storefront/pkg/database"
	"github.com/nomfood/storefront/pkg/storage"
)

// SyncIndexes runs every registered indexer.
func (a *Application) SyncIndexes(ctx context.Context) error {
	return a.withDB(ctx, func(ctx context.Context) error {
		return a.runTasks(ctx, a.indexers)
	})
}

// Seed runs every registered seeder.
func (a *Application) Seed(ctx context.Context) error {
	if len(a.seeders) == 0 {
		fmt.Println("No seeders registered. Use .Seeder() on Application.")
		return nil
	}
	return a.withDB(ctx, func(ctx context.Context) error {
		if err := a.runTasks(ctx, a.seeders); err != nil {
			return err
		}
		fmt.Println("✅ Seeding complete")
		return nil
	})
}

// PrintRoutes writes the route table to w. The database client is opened
// without contacting a server, so no MongoDB needs to be running.
func (a *Application) PrintRoutes(ctx context.Context, w io.Writer) error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := database.Open(ctx); err != nil {
		return err
	}
	defer database.Disconnect(context.Background())
	storage.Connect(ctx)

	routes := a.buildRouter().Routes()
	if len(routes) == 0 {
		fmt.Fprintln(w, "No routes registered.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tPATH\tNAME")
	fmt.Fprintln(tw, "------\t----\t----")
	for _, ri := range routes {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
	}
	return tw.Flush()
}

func (a *Application) runTasks(ctx context.Context, tasks []Task) error {
	for _, t := range tasks {
		if err := t(ctx, database.DB); err != nil {
			return err
		}
	}
	return nil
}

// withDB loads config and connects to the database around fn.
func (a *Application) withDB(ctx context.Context, fn func(context.Context) error) error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := database.Connect(ctx); err != nil {
		return err
	}
	defer database.Disconnect(context.Background())
	return fn(ctx)
}
