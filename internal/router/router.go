// internal/router/router.go
package router

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/javajoker/price-compare/internal/config"
	"github.com/javajoker/price-compare/internal/handlers"
	"github.com/javajoker/price-compare/internal/middleware"
	"github.com/javajoker/price-compare/internal/repository"
	"github.com/javajoker/price-compare/internal/services"
)

const Version = "1.0.0"

type Dependencies struct {
	Config       *config.Config
	Repositories *repository.Repositories
	Uploader     services.ImageUploader
	// Directory served at /uploads; empty when images live elsewhere.
	LocalUploadDir string
	Registry       *prometheus.Registry
}

// Initialize builds the engine. ctx bounds the rate limiter cleanup loops.
func Initialize(ctx context.Context, deps Dependencies) *gin.Engine {
	cfg := deps.Config
	repos := deps.Repositories

	// Initialize services
	productService := services.NewProductService(repos.Products)
	storeService := services.NewStoreService(repos.Stores)
	priceService := services.NewPriceService(repos.Products, repos.Stores, repos.Prices)

	// Initialize handlers
	maxUpload := int64(cfg.Upload.MaxSizeMB) * 1024 * 1024
	images := handlers.NewImageReceiver(deps.Uploader, maxUpload)

	productHandler := handlers.NewProductHandler(productService, images)
	storeHandler := handlers.NewStoreHandler(storeService, priceService, images)
	priceHandler := handlers.NewPriceHandler(priceService)
	uploadHandler := handlers.NewUploadHandler(images)
	healthHandler := handlers.NewHealthHandler(repos.Ping, Version)

	generalLimiter := middleware.GeneralRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	uploadLimiter := middleware.UploadRateLimiter(cfg.RateLimit.UploadsPerMinute)
	go generalLimiter.RunCleanup(ctx)
	go uploadLimiter.RunCleanup(ctx)

	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	metrics := middleware.NewMetrics(registry)

	// Initialize Gin router
	r := gin.New()
	r.MaxMultipartMemory = maxUpload + 1<<20

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(metrics.Middleware())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	api.Use(generalLimiter.Middleware())
	{
		products := api.Group("/products")
		{
			products.GET("", productHandler.GetProducts)
			products.POST("", productHandler.CreateProduct)
			products.GET("/:id", productHandler.GetProduct)
			products.PUT("/:id", productHandler.UpdateProduct)
			products.DELETE("/:id", productHandler.DeleteProduct)
		}

		stores := api.Group("/stores")
		{
			stores.GET("", storeHandler.GetStores)
			stores.POST("", storeHandler.CreateStore)
			stores.GET("/:id", storeHandler.GetStore)
			stores.PUT("/:id", storeHandler.UpdateStore)
			stores.DELETE("/:id", storeHandler.DeleteStore)
			stores.GET("/:id/prices", storeHandler.GetStorePrices)
		}

		prices := api.Group("/prices")
		{
			prices.GET("", priceHandler.GetPrices)
			prices.POST("", priceHandler.UpsertPrice)
			prices.GET("/:id", priceHandler.GetPrice)
			prices.DELETE("/:id", priceHandler.DeletePrice)
		}

		api.GET("/compare/:productId", priceHandler.ComparePrices)
		api.POST("/uploads", uploadLimiter.Middleware(), uploadHandler.UploadImage)
	}

	if deps.LocalUploadDir != "" {
		r.Static("/uploads", deps.LocalUploadDir)
	}

	return r
}
