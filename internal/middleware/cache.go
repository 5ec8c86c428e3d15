package middleware

import (
	"github.com/gin-gonic/gin"
)

// NoStore disables client and proxy caching. Quiz payloads and results
// are per-user and answer-bearing; none of them may be cached.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
