// Package server is the HTTP face of the service: the SSE and WebSocket
// push transports plus health, metrics and a small browser client.
package server

import (
	"chat-notify/auth"
	"chat-notify/delivery"
	"chat-notify/observability"
	"embed"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed web/index.html
var webFiles embed.FS

// UserCounter reports how many users are online.
type UserCounter interface {
	Users() int
}

type Config struct {
	Log       *slog.Logger
	AccessLog io.Writer
	Streamer  *delivery.Streamer
	Tokens    *auth.TokenManager
	Limiter   *auth.ConnectLimiter
	Metrics   *observability.Metrics
	Users     UserCounter
}

type handlers struct {
	log      *slog.Logger
	streamer *delivery.Streamer
	users    UserCounter
}

func NewRouter(cfg Config) *gin.Engine {
	h := &handlers{log: cfg.Log, streamer: cfg.Streamer, users: cfg.Users}

	r := gin.New()
	r.Use(RequestID())
	if cfg.AccessLog != nil {
		r.Use(AccessLog(cfg.AccessLog))
	}
	r.Use(gin.Recovery())

	r.GET("/", h.index)
	r.GET("/health", h.health)
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Metrics.Registry, promhttp.HandlerOpts{})))
	}

	push := r.Group("/", Authenticate(cfg.Tokens), LimitConnects(cfg.Limiter))
	push.GET("/events", h.events)
	push.GET("/ws", h.ws)
	return r
}

func (h *handlers) index(c *gin.Context) {
	page, err := webFiles.ReadFile("web/index.html")
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func (h *handlers) health(c *gin.Context) {
	body := gin.H{"status": "ok"}
	if h.users != nil {
		body["online_users"] = h.users.Users()
	}
	c.JSON(http.StatusOK, body)
}
