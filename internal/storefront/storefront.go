// Package storefront assembles the NomFood application shared by the
// cmd/server and cmd/foodstore binaries.
package storefront

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nomfood/storefront/app/listeners"
	"github.com/nomfood/storefront/app/repositories"
	"github.com/nomfood/storefront/app/routes"
	"github.com/nomfood/storefront/app/services"
	"github.com/nomfood/storefront/database/indexes"
	"github.com/nomfood/storefront/database/seeders"
	"github.com/nomfood/storefront/pkg/app"
	"github.com/nomfood/storefront/pkg/database"
	"github.com/nomfood/storefront/pkg/event"
	"github.com/nomfood/storefront/pkg/queue"
)

// New returns the configured application.
func New() *app.Application {
	return app.New().
		Boot(bindListeners).
		Boot(bindJobs).
		Routes(routes.Register).
		Indexer(syncIndexes).
		Seeder(seeders.RunAll)
}

func bindListeners(context.Context) error {
	listeners.Register(event.Default())
	return nil
}

// bindJobs gives queued jobs their services, so a queue:work process can
// run them without the HTTP side.
func bindJobs(context.Context) error {
	db := database.DB
	ratings := services.NewRatingService(
		repositories.NewReviewRepository(db),
		repositories.NewProductRepository(db),
		queue.Default(),
	)
	services.RegisterJobs(queue.Default(), ratings)
	return nil
}

func syncIndexes(ctx context.Context, db *mongo.Database) error {
	return indexes.Sync(ctx, db, indexes.All())
}
