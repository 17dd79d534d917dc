package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/openbasket/openbasket-backend/config"
	"github.com/openbasket/openbasket-backend/internal/app/controller"
	"github.com/openbasket/openbasket-backend/internal/app/repository"
	"github.com/openbasket/openbasket-backend/internal/app/service"
	"github.com/openbasket/openbasket-backend/internal/db"
	"github.com/openbasket/openbasket-backend/internal/middleware"
	"github.com/openbasket/openbasket-backend/internal/router"
	"github.com/openbasket/openbasket-backend/pkg/cache"
	"github.com/openbasket/openbasket-backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting OPENBASKET Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Summary cache is optional; the cart works without Redis.
	var summaryCache *cache.SummaryCache
	if cfg.Redis.Host != "" {
		redisClient, err := cache.NewClient(&cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, cart summary caching disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer redisClient.Close()
			summaryCache = cache.NewSummaryCache(redisClient, cfg.Redis.SummaryCacheTTL)
		}
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())

	// Initialize services
	rates := service.NewFlatRatePolicy(cfg.Pricing.ShippingFee, cfg.Pricing.TaxRate)
	cartService := service.NewCartService(cartRepo, productRepo, summaryCache)
	checkoutService := service.NewCheckoutService(cartRepo, productRepo, rates)

	// Initialize controllers
	productController := controller.NewProductController(productRepo)
	cartController := controller.NewCartController(cartService)
	checkoutController := controller.NewCheckoutController(checkoutService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Setup router
	r := router.NewRouter(
		productController,
		cartController,
		checkoutController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
