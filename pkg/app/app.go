// Package app provides the storefront application runner.
//
//	func main() {
//	    app.New().
//	        Boot(func(ctx context.Context) error { ... }).
//	        Routes(routes.Register).
//	        Indexer(syncIndexes).
//	        Seeder(seeders.RunAll).
//	        Run()
//	}
//
// Run reads the sub-command from os.Args:
//
//	server serve
//	server index:sync
//	server seed
//	server route:list
//	server queue:work
package app

import (
	"context"
	"fmt"
	"os"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nomfood/storefront/pkg/router"
)

// Task runs against the connected database, e.g. an index sync or a seeder.
type Task func(ctx context.Context, db *mongo.Database) error

// Application is the central configuration object of the process.
// Build one with New(), attach callbacks, then call Run().
type Application struct {
	routesFns []func(*router.Router)
	bootFns   []func(context.Context) error
	indexers  []Task
	seeders   []Task
	workers   int
}

// New creates an Application with five queue workers.
func New() *Application {
	return &Application{workers: 5}
}

// Routes registers a route-registration callback that is called when the
// HTTP kernel is built, after Boot callbacks have run.
func (a *Application) Routes(fn func(*router.Router)) *Application {
	a.routesFns = append(a.routesFns, fn)
	return a
}

// Boot registers a callback that runs once backing services are connected,
// before routes are built. Event listeners and job bindings go here.
func (a *Application) Boot(fn func(context.Context) error) *Application {
	a.bootFns = append(a.bootFns, fn)
	return a
}

// Indexer registers a task run by index:sync and before serving.
func (a *Application) Indexer(t Task) *Application {
	a.indexers = append(a.indexers, t)
	return a
}

// Seeder registers a task run by seed.
func (a *Application) Seeder(t Task) *Application {
	a.seeders = append(a.seeders, t)
	return a
}

// Workers sets how many queue jobs run concurrently.
func (a *Application) Workers(n int) *Application {
	if n > 0 {
		a.workers = n
	}
	return a
}

// Run reads os.Args and dispatches to the matching command. It exits the
// process with status 1 on error.
func (a *Application) Run() {
	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	var err error
	switch cmd {
	case "serve", "start", "run", "s":
		err = a.Serve(context.Background())
	case "index:sync", "indexes":
		err = a.SyncIndexes(context.Background())
	case "seed":
		err = a.Seed(context.Background())
	case "route:list", "routes":
		err = a.PrintRoutes(context.Background(), os.Stdout)
	case "queue:work":
		err = a.WorkQueue(context.Background())
	case "help", "--help", "-h":
		printHelp()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %q\n\nRun with --help for usage.\n", cmd)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Print(`NomFood storefront

Usage:
  <program> <command>

Commands:
  serve        Start the HTTP server and queue workers  (aliases: start, run)
  index:sync   Create the MongoDB indexes
  seed         Insert the demo accounts, menu and banners
  route:list   List registered API routes
  queue:work   Run queue workers without the HTTP server

`)
}
