package handler

import (
	"net/http"

	"chalet-booking-service/internal/usecase"
	"chalet-booking-service/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the public, admin and ops routes
func NewRouter(
	bookingHandler *BookingHandler,
	adminHandler *AdminHandler,
	auth *usecase.AdminAuth,
	m *metrics.Metrics,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(MetricsMiddleware(m))

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "Healthy")
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/bookings", bookingHandler.Create)
		v1.GET("/bookings/availability", bookingHandler.Availability)
		v1.GET("/bookings/lookup", bookingHandler.Lookup)
		v1.GET("/calendar", bookingHandler.Calendar)

		admin := v1.Group("/admin")
		admin.POST("/login", adminHandler.Login)

		protected := admin.Group("", AuthMiddleware(auth))
		{
			protected.GET("/bookings", adminHandler.List)
			protected.PATCH("/bookings/:id/status", adminHandler.UpdateStatus)
			protected.POST("/sweep", adminHandler.Sweep)
			protected.GET("/stats", adminHandler.Stats)
		}
	}

	return router
}
