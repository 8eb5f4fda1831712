package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// PlatformCloudflare makes CF-Connecting-IP authoritative. Only set it when
// every request reaches the service through Cloudflare.
const PlatformCloudflare = "cloudflare"

// ConfigureClientIP decides whose forwarding headers the engine believes.
// X-Forwarded-For and X-Real-IP are read only when the direct peer is in
// proxies; an empty list means the TCP peer address is always the client.
func ConfigureClientIP(r *gin.Engine, proxies []string, platform string) error {
	if len(proxies) == 0 {
		proxies = nil
	}
	if err := r.SetTrustedProxies(proxies); err != nil {
		return fmt.Errorf("trusted proxies: %w", err)
	}
	r.ForwardedByClientIP = true
	r.RemoteIPHeaders = []string{"X-Forwarded-For", "X-Real-IP"}

	switch strings.ToLower(platform) {
	case "":
		r.TrustedPlatform = ""
	case PlatformCloudflare:
		r.TrustedPlatform = gin.PlatformCloudflare
	default:
		return fmt.Errorf("unknown trusted platform %q", platform)
	}
	return nil
}

// RealIP stores the caller's address under "real_ip" for rate limiting and logs.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("real_ip", c.ClientIP())
		c.Next()
	}
}
