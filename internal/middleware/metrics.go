package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// unmatchedRoute is the path label of requests that hit no registered route.
const unmatchedRoute = "unmatched"

type requestObserver interface {
	ObserveHTTPRequest(method, path string, status int, duration time.Duration)
}

// Metrics times every request and reports it under its route template so
// session ids never leak into label values.
func Metrics(observer requestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		if observer == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		observer.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(started))
	}
}
