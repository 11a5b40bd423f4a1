package routes

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/nomfood/storefront/app/controllers"
	"github.com/nomfood/storefront/app/repositories"
	"github.com/nomfood/storefront/app/services"
	"github.com/nomfood/storefront/config"
	"github.com/nomfood/storefront/pkg/cache"
	"github.com/nomfood/storefront/pkg/database"
	"github.com/nomfood/storefront/pkg/event"
	"github.com/nomfood/storefront/pkg/queue"
	"github.com/nomfood/storefront/pkg/router"
	"github.com/nomfood/storefront/pkg/storage"
)

// Container holds the wired services and controllers for one process.
type Container struct {
	Auth *services.AuthService

	auth       *controllers.AuthController
	products   *controllers.ProductController
	orders     *controllers.OrderController
	reviews    *controllers.ReviewController
	users      *controllers.UserController
	banners    *controllers.BannerController
	statistics *controllers.StatisticsController
	uploads    *controllers.UploadController
	health     *controllers.HealthController
}

// Deps are the process-wide resources the container is built from.
type Deps struct {
	DB     *mongo.Database
	Queue  *queue.Manager
	Events *event.Bus
	Disk   storage.Disk
	Checks map[string]controllers.Pinger
}

// NewContainer builds repositories, services and controllers.
func NewContainer(d Deps) *Container {
	productRepo := repositories.NewProductRepository(d.DB)
	orderRepo := repositories.NewOrderRepository(d.DB)
	reviewRepo := repositories.NewReviewRepository(d.DB)
	userRepo := repositories.NewUserRepository(d.DB)
	bannerRepo := repositories.NewBannerRepository(d.DB)
	statsRepo := repositories.NewStatisticsRepository(d.DB)
	counters := repositories.NewCounterRepository(d.DB)

	ratings := services.NewRatingService(reviewRepo, productRepo, d.Queue)

	authSvc := services.NewAuthService(userRepo)
	orderSvc := services.NewOrderService(orderRepo, productRepo, counters, d.Events)
	productSvc := services.NewProductService(productRepo, d.Events)
	reviewSvc := services.NewReviewService(reviewRepo, productRepo, orderRepo, ratings, d.Events)

	return &Container{
		Auth: authSvc,

		auth:       controllers.NewAuthController(authSvc),
		products:   controllers.NewProductController(productSvc),
		orders:     controllers.NewOrderController(orderSvc),
		reviews:    controllers.NewReviewController(reviewSvc),
		users:      controllers.NewUserController(services.NewUserService(userRepo)),
		banners:    controllers.NewBannerController(services.NewBannerService(bannerRepo)),
		statistics: controllers.NewStatisticsController(services.NewStatisticsService(statsRepo)),
		uploads:    controllers.NewUploadController(d.Disk),
		health:     controllers.NewHealthController(d.Checks),
	}
}

// Register builds the container from the process-wide services connected
// at boot and mounts the API on r.
func Register(r *router.Router) {
	disk, err := storage.Default()
	if err != nil {
		disk = storage.NewLocalDisk(config.StorageLocalRoot(), config.StorageURL())
	}

	client := database.Client
	checks := map[string]controllers.Pinger{
		"mongo": func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) },
	}
	if rdb := cache.RDB; rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	API(NewContainer(Deps{
		DB:     database.DB,
		Queue:  queue.Default(),
		Events: event.Default(),
		Disk:   disk,
		Checks: checks,
	}))(r)
}
