package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"youbuddy/internal/metrics"
)

// NewServer creates the gin engine with all routes configured. mcp may be
// nil, in which case /mcp is not mounted.
func NewServer(handler *Handler, m *metrics.Metrics, mcp http.Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// Middleware
	r.Use(RequestID())
	r.Use(AccessLog())
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
	}))
	r.Use(Metrics(m))

	setupRoutes(r, handler)

	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}
	if mcp != nil {
		r.Any("/mcp", gin.WrapH(mcp))
	}
	return r
}

// setupRoutes configures the application routes
func setupRoutes(r *gin.Engine, handler *Handler) {
	r.GET("/search", handler.Search)
	r.GET("/videos", handler.ChannelVideos)
	r.GET("/playlist/videos", handler.PlaylistVideos)
	r.POST("/summary", handler.VideoSummary)
	r.POST("/final-summary", handler.FinalSummary)

	// Health endpoints
	r.GET("/health", handler.HealthCheck)
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "youbuddy",
			"status":  "ok",
			"endpoints": map[string]string{
				"search":        "/search?query=<text>&max_results=<n>",
				"videos":        "/videos?channel_id=<id>&date=<YYYY-MM-DD>",
				"playlist":      "/playlist/videos?playlist_url=<url>",
				"summary":       "/summary (POST {\"video_url\": ...})",
				"final-summary": "/final-summary (POST text/plain)",
				"mcp":           "/mcp",
				"metrics":       "/metrics",
			},
		})
	})

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not Found"})
	})
}

// ServerConfig holds server configuration options
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Host:            "",
		Port:            "8080",
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    330 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Addr returns the listen address.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}
