package main

import (
	"log"
	"net/http"
	"os"

	"gas-delivery-api/config"
	"gas-delivery-api/handlers"
	"gas-delivery-api/middleware"
	"gas-delivery-api/routes"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	config.LoadEnv()

	// Set Gin mode
	mode := os.Getenv("GIN_MODE")
	if mode == "" {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database
	config.InitDB()

	// Custom binding rules (Kenyan phone numbers)
	handlers.RegisterValidators()

	// Create Gin router with default middleware (logger + recovery)
	r := gin.Default()

	// CORS middleware for frontend integration
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-Provision-Key")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// Metrics
	registry := prometheus.NewRegistry()
	metrics := middleware.NewMetrics(registry)
	handlers.Metrics = metrics
	r.Use(metrics.Middleware())
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Gas Delivery API",
			"version": "1.0.0",
		})
	})

	// Welcome
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Welcome to the Gas Delivery API",
			"docs":    "/api/state-machine",
			"health":  "/health",
			"roles":   []string{"customer", "driver"},
		})
	})

	// Register all routes
	authLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	routes.SetupRoutes(r, authLimiter)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on http://localhost:%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
