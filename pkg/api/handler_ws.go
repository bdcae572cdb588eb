package api

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
)

// wsHandler handles GET /ws: upgrades to WebSocket and hands the
// connection to the ConnectionManager, which owns it from then on.
func (s *Server) wsHandler(c *gin.Context) {
	if s.connManager == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "websocket is not available"})
		return
	}

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		OriginPatterns: s.wsOriginPatterns(),
	})
	if err != nil {
		// Accept writes the HTTP error response itself.
		slog.Warn("WebSocket upgrade rejected", "error", err)
		return
	}

	// Blocks until the client disconnects.
	s.connManager.HandleConnection(c.Request.Context(), conn)
}

// wsOriginPatterns builds the allowed-origin host patterns for
// WebSocket upgrades: the dashboard's host plus any extra configured
// patterns. Requests without an Origin header (non-browser clients)
// are always accepted.
func (s *Server) wsOriginPatterns() []string {
	var patterns []string
	if s.cfg != nil && s.cfg.Server != nil {
		if u, err := url.Parse(s.cfg.Server.DashboardURL); err == nil && u.Host != "" {
			patterns = append(patterns, u.Host)
		}
		patterns = append(patterns, s.cfg.Server.AllowedWSOrigins...)
	}
	return patterns
}
