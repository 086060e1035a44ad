package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// clientOrigin returns the caller's network origin, pre-redacted for storage
// in the security event log: the last IPv4 octet is masked so events can be
// correlated without retaining a full address.
func clientOrigin(c *gin.Context) string {
	ip := c.ClientIP()
	if idx := strings.LastIndex(ip, "."); idx > 0 {
		return ip[:idx] + ".x"
	}
	return ip
}
