package routes

import (
	"time"

	"reserva/handlers"
	"reserva/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterPublicRoutes registers the customer-facing endpoints. No auth;
// the cancel code is the only credential a customer ever holds.
func RegisterPublicRoutes(r *gin.Engine) {
	api := r.Group("/api/reservations")
	{
		api.POST("", handlers.CreateReservationHandler)
		api.POST("/cancel", handlers.CancelBySecretHandler)
	}

	r.GET("/api/services", handlers.ListServicesHandler)
	r.GET("/api/providers", handlers.ListProvidersHandler)
	r.GET("/api/providers/:providerId/availability", handlers.AvailabilityHandler)
}

// RegisterAdminRoutes registers the operator console endpoints.
func RegisterAdminRoutes(r *gin.Engine) {
	admin := r.Group("/api/admin")
	{
		admin.Use(middleware.AdminAuthMiddleware())

		admin.GET("/providers/:providerId/bookings", handlers.ListDayHandler)
		admin.DELETE("/bookings/:id", handlers.AdminCancelHandler)
		admin.PUT("/bookings/:id/reschedule", handlers.RescheduleHandler)
		admin.PUT("/bookings/:id/status", handlers.TransitionHandler)

		admin.POST("/blocks", handlers.BlockSlotHandler)
		admin.DELETE("/blocks", handlers.UnblockSlotHandler)

		admin.GET("/queue", handlers.ListQueueHandler)
		admin.POST("/queue/sweep", handlers.SweepNowHandler)
		admin.POST("/queue/:id/retry", handlers.RetryQueueItemHandler)

		admin.POST("/broadcast", handlers.BroadcastHandler)
		admin.POST("/broadcast/birthdays", handlers.BirthdayBroadcastHandler)

		admin.GET("/customers", handlers.ListCustomersHandler)
		admin.GET("/customers/:id", handlers.GetCustomerHandler)
	}
}

// RegisterHealthRoute registers health-check and metrics endpoints.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterPublicRoutes(r)
	RegisterAdminRoutes(r)
	RegisterHealthRoute(r)
}
