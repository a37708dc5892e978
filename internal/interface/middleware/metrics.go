package middleware

import (
	"expvar"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	requestsTotal   = expvar.NewInt("http_requests_total")
	requestsByCode  = expvar.NewMap("http_requests_by_status")
	requestsByRoute = expvar.NewMap("http_requests_by_route")
	latencyTotalMS  = expvar.NewInt("http_request_latency_ms_total")
)

// Metrics counts requests per status and route into expvar, exposed at /api/debug/vars.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		requestsTotal.Add(1)
		requestsByCode.Add(strconv.Itoa(c.Writer.Status()), 1)
		requestsByRoute.Add(c.Request.Method+" "+normalizePath(c), 1)
		latencyTotalMS.Add(time.Since(start).Milliseconds())
	}
}
