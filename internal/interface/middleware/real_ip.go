package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// proxy headers in priority order; X-Forwarded-For may hold a chain, left-most wins
var realIPHeaders = []string{"CF-Connecting-IP", "X-Real-IP", "X-Forwarded-For"}

// RealIP stores the client address under "real_ip" for rate limiting and logs.
// It falls back to c.ClientIP when no proxy header carries a valid address.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		for _, h := range realIPHeaders {
			v := c.GetHeader(h)
			if v == "" {
				continue
			}
			first, _, _ := strings.Cut(v, ",")
			if parsed := net.ParseIP(strings.TrimSpace(first)); parsed != nil {
				ip = parsed.String()
				break
			}
		}
		c.Set("real_ip", ip)
		c.Next()
	}
}
