package api

import (
	"context"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/askhowenow/artijam-reborn-social-hub-sub000/docs"
	"github.com/askhowenow/artijam-reborn-social-hub-sub000/internal/api/handler"
	"github.com/askhowenow/artijam-reborn-social-hub-sub000/internal/api/middleware"
	"github.com/askhowenow/artijam-reborn-social-hub-sub000/internal/core/domain"
	"github.com/askhowenow/artijam-reborn-social-hub-sub000/internal/core/service"
	mongodb "github.com/askhowenow/artijam-reborn-social-hub-sub000/internal/infrastructure/db/mongo"
	redisdb "github.com/askhowenow/artijam-reborn-social-hub-sub000/internal/infrastructure/db/redis"
	"github.com/askhowenow/artijam-reborn-social-hub-sub000/internal/infrastructure/http/handlers"
	"github.com/askhowenow/artijam-reborn-social-hub-sub000/internal/infrastructure/queue"
)

// NewRouter builds and returns the Echo instance with all routes
// registered. The cart queue's workers run until ctx is cancelled.
func NewRouter(ctx context.Context, db *mongo.Database, rdb *redis.Client, jwtSecret string, workers int, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("artijam_cart_http"))

	// --- Infrastructure ---
	cartRepo := mongodb.NewCartRepository(db)
	productRepo := mongodb.NewProductRepository(db)
	authRepo := mongodb.NewAuthRepository(db)
	analytics := redisdb.NewAnalyticsRecorder(rdb)
	mergeGuard := redisdb.NewMergeGuard(rdb)

	cartQueue := queue.NewCartQueue(workers, log)
	cartQueue.Start(ctx)

	// --- Services ---
	identitySvc := service.NewIdentityService()
	cartSvc := service.NewCartService(cartRepo, cartQueue, analytics, log)
	mergeSvc := service.NewMergeService(cartRepo, cartQueue, mergeGuard, log)
	authSvc := service.NewAuthService(authRepo, jwtSecret, 24*time.Hour)

	// --- Handlers ---
	cartHandler := handler.NewCartHandler(cartSvc)
	mergeHandler := handler.NewMergeHandler(mergeSvc)
	productHandler := handler.NewProductHandler(productRepo)
	authHandler := handler.NewAuthHandler(authSvc)
	analyticsHandler := handler.NewAnalyticsHandler(analytics)

	identityMW := middleware.Identity(jwtSecret, identitySvc)
	authMW := middleware.Auth(jwtSecret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Cart routes (guest or authenticated) ---
	cart := e.Group("/v1/cart", identityMW)
	cart.GET("", cartHandler.Get)
	cart.POST("/items", cartHandler.AddItem)
	cart.PUT("/items/:item_id", cartHandler.SetQuantity)
	cart.DELETE("/items/:item_id", cartHandler.RemoveItem)

	// Merge requires a real session: it is the sign-in transition event.
	e.POST("/v1/cart/merge", mergeHandler.Merge, authMW)

	// --- Catalogue (read-only) ---
	e.GET("/v1/products", productHandler.List)
	e.GET("/v1/products/:id", productHandler.Get)

	// --- Analytics (admin only) ---
	e.GET("/v1/analytics/:metric", analyticsHandler.Snapshot, authMW, middleware.RBAC(domain.RoleAdmin))

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
