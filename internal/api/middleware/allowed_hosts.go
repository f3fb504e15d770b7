package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AllowedHosts rejects requests whose Host header is not in the configured
// allow-list. A "*" entry disables the check.
func AllowedHosts(hosts []string) gin.HandlerFunc {
	allowAll := false
	allowed := make(map[string]struct{}, len(hosts))
	for _, h := range hosts {
		if h == "*" {
			allowAll = true
		}
		allowed[strings.ToLower(h)] = struct{}{}
	}

	return func(c *gin.Context) {
		if allowAll {
			c.Next()
			return
		}

		host := c.Request.Host
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}
		if _, ok := allowed[strings.ToLower(host)]; !ok {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "Invalid host header."})
			return
		}

		c.Next()
	}
}
