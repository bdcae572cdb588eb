package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kiln-dev/kiln/pkg/config"
)

// securityHeaders returns middleware that sets standard security
// response headers.
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
		c.Next()
	}
}

// corsFor returns middleware that allows exactly the configured
// dashboard origin. The daemon binds to loopback; CORS is what keeps
// arbitrary local pages from driving it through a browser.
func corsFor(server *config.ServerConfig) gin.HandlerFunc {
	allowedOrigin := ""
	if server != nil {
		allowedOrigin = server.DashboardURL
	}

	return func(c *gin.Context) {
		if allowedOrigin != "" && c.GetHeader("Origin") == allowedOrigin {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", allowedOrigin)
			h.Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type")
			h.Add("Vary", "Origin")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
