package router

import (
	"github.com/gin-gonic/gin"
	"github.com/openbasket/openbasket-backend/config"
	"github.com/openbasket/openbasket-backend/internal/app/controller"
	"github.com/openbasket/openbasket-backend/internal/middleware"
)

type Router struct {
	productController  *controller.ProductController
	cartController     *controller.CartController
	checkoutController *controller.CheckoutController
	authMiddleware     *middleware.AuthMiddleware
	config             *config.Config
}

func NewRouter(
	productController *controller.ProductController,
	cartController *controller.CartController,
	checkoutController *controller.CheckoutController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		productController:  productController,
		cartController:     cartController,
		checkoutController: checkoutController,
		authMiddleware:     authMiddleware,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "OPENBASKET API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/:id", r.productController.GetProductByID)
		}

		cart := v1.Group("/cart")
		cart.Use(r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.GET("/summary", r.cartController.GetSummary)
			cart.POST("", r.cartController.AddItem)
			cart.PUT("/:id", r.cartController.UpdateItemQuantity)
			cart.DELETE("/:id", r.cartController.RemoveItem)
			cart.DELETE("", r.cartController.ClearCart)
		}

		checkout := v1.Group("/checkout")
		checkout.Use(r.authMiddleware.Authenticate())
		{
			checkout.POST("/validate", r.checkoutController.ValidateForCheckout)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
