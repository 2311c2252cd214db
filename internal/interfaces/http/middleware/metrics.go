package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// HTTPObserver records finished requests
type HTTPObserver interface {
	ObserveHTTP(method, route string, status int, elapsed time.Duration)
}

// HTTPMetrics reports every request to observer, labelled by the matched
// route pattern rather than the raw path to keep cardinality bounded.
func HTTPMetrics(observer HTTPObserver) gin.HandlerFunc {
	if observer == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		observer.ObserveHTTP(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
