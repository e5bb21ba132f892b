package http

import (
	"github.com/gin-gonic/gin"

	"credit-scoring/internal/service"
)

// RateLimitMiddleware limita envios por IP de cliente. Con limiter nil deja
// pasar todo; reject escribe la respuesta cuando se excede el limite.
func RateLimitMiddleware(limiter service.RateLimiter, reject gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || limiter.Allow(c.ClientIP()) {
			c.Next()
			return
		}
		reject(c)
		c.Abort()
	}
}
