package middleware

import (
	"net"

	"github.com/gin-gonic/gin"
)

// AllowPrivateIP exempts loopback and RFC 1918 callers (health probes, sidecars)
// from a rate limit.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		ip := net.ParseIP(ipFromCtx(c))
		return ip != nil && (ip.IsLoopback() || ip.IsPrivate())
	}
}
