package api

import (
	"io/fs"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/liliang-cn/closedrag/internal/api/chat"
	"github.com/liliang-cn/closedrag/internal/api/middleware"
	"github.com/liliang-cn/closedrag/internal/service"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	// FullMode mounts the chat API; otherwise only static assets, health and metrics are served
	FullMode     bool
	StaticFS     fs.FS
	AllowOrigins []string
	MetricsKey   string
}

// SetupRouter sets up the Gin router. chatService may be nil when FullMode is false.
func SetupRouter(chatService *service.ChatService, logger *zap.Logger, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))

	// Liveness is registered ahead of CORS so it answers regardless of Origin
	RegisterHealthRoutes(r)

	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.GET("/metrics", middleware.Auth(cfg.MetricsKey), gin.WrapH(promhttp.Handler()))

	SetupStaticRoutes(r, cfg.StaticFS)

	if cfg.FullMode && chatService != nil {
		chatHandler := chat.NewHandler(chatService)
		chatHandler.RegisterRoutes(r.Group("/api"))
	}

	return r
}
