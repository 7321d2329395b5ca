package routes

import (
	"gas-delivery-api/handlers"
	"gas-delivery-api/middleware"
	"gas-delivery-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authLimiter *middleware.RateLimiter) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Auth (rate limited — credential endpoints attract abuse)
		auth := public.Group("/auth")
		if authLimiter != nil {
			auth.Use(authLimiter.Middleware())
		}
		auth.POST("/register", handlers.Register)
		auth.POST("/login", handlers.Login)

		// Reference data and docs (no auth needed)
		public.GET("/cylinders", handlers.GetCylinderCatalog)
		public.GET("/state-machine", handlers.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	authed := r.Group("/api")
	authed.Use(middleware.AuthRequired())
	{
		authed.GET("/profile", handlers.GetProfile)
		authed.PUT("/profile", handlers.UpdateProfile)
		authed.GET("/safety-tips", handlers.GetSafetyTips)
	}

	// ── Customer routes ────────────────────────────────────────────
	customer := r.Group("/api/customer")
	customer.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleCustomer))
	{
		customer.POST("/orders", handlers.CreateOrder)
		customer.GET("/orders", handlers.GetMyOrders)
		customer.GET("/orders/:id", handlers.GetOrderDetail)
		customer.GET("/orders/:id/qr", handlers.GetOrderQR)
		customer.PUT("/orders/:id/cancel", handlers.CancelOrder)
		customer.GET("/loyalty", handlers.GetLoyaltyPoints)
	}

	// ── Driver routes ──────────────────────────────────────────────
	driver := r.Group("/api/driver")
	driver.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleDriver))
	{
		driver.GET("/orders/available", handlers.GetAvailableOrders)
		driver.GET("/orders/active", handlers.GetActiveDelivery)
		driver.GET("/orders/my-deliveries", handlers.GetMyDeliveries)
		driver.PUT("/orders/:id/accept", handlers.AcceptOrder)
		driver.PUT("/orders/:id/status", handlers.UpdateDeliveryStatus)
		driver.GET("/earnings", handlers.GetEarnings)
		driver.GET("/earnings/export", handlers.ExportEarnings)
	}

	// ── Privileged provisioning ────────────────────────────────────
	// Driver accounts only ever enter the system through here.
	provision := r.Group("/api/provision")
	provision.Use(middleware.ProvisionKeyRequired())
	{
		provision.POST("/drivers", handlers.ProvisionDriver)
	}
}
