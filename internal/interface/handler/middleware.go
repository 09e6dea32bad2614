package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"chalet-booking-service/internal/usecase"
	"chalet-booking-service/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware gates the admin routes behind a bearer session token
func AuthMiddleware(auth *usecase.AdminAuth) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			RespondError(c, http.StatusUnauthorized, errors.New("authorization header missing"))
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			RespondError(c, http.StatusUnauthorized, errors.New("invalid authorization header format"))
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := auth.Verify(tokenString)
		if err != nil {
			RespondError(c, http.StatusUnauthorized, errors.New("invalid or expired token"))
			c.Abort()
			return
		}

		c.Set("adminID", claims.AdminID)
		c.Set("adminEmail", claims.Email)

		c.Next()
	}
}

// MetricsMiddleware records request durations
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.RequestDuration.Observe(time.Since(start).Seconds())
	}
}
