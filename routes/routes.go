package routes

import (
	"net/http"

	"meal-delivery-api/config"
	"meal-delivery-api/handlers"
	"meal-delivery-api/metrics"
	"meal-delivery-api/middleware"
	"meal-delivery-api/storage"

	"github.com/gin-gonic/gin"
)

// CORS lets a browser frontend call the API
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, Idempotency-Key, X-Request-ID")
		c.Header("Access-Control-Expose-Headers", "Idempotency-Key, X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func SetupRoutes(r *gin.Engine, h *handlers.Handler, cfg config.Config, store storage.ObjectStore, orderLimiter *middleware.RateLimiter) {
	r.GET("/health", handlers.Health)
	r.GET("/metrics", metrics.Handler())

	// Images written by the local backend are served by us
	if local, ok := store.(*storage.LocalStore); ok {
		r.Static(storage.LocalMountPath, local.Dir())
	}

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.GET("/meals", h.ListMeals)
		public.GET("/meals/:id", h.GetMeal)
		public.GET("/state-machine", handlers.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired(cfg.IdentitySecret, cfg.IdentityIssuer))
	{
		auth.GET("/profile", h.GetProfile)
		auth.PUT("/profile", h.SaveProfile)
		auth.POST("/profile/verify", h.VerifyProfile)

		// Ordering; the role check happens against the stored account
		auth.POST("/meals/:id/orders", orderLimiter.Handler(), h.PlaceOrder)

		auth.GET("/deliveries", h.ListDeliveries)
		auth.GET("/deliveries/:id", h.GetDelivery)
		auth.PUT("/deliveries/:id/status", h.UpdateDeliveryStatus)
	}

	// ── Vendor routes ──────────────────────────────────────────────
	vendor := auth.Group("/vendor")
	{
		vendor.GET("/meals", h.GetMyMeals)
		vendor.POST("/meals", h.CreateMeal)
		vendor.PATCH("/meals/:id", h.UpdateMeal)
		vendor.DELETE("/meals/:id", h.DeleteMeal)
	}
}
