package http

import (
	"context"
	"net/http"
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/timeflow/backend/internal/infrastructure/config"
	"github.com/timeflow/backend/internal/infrastructure/log"
	"github.com/timeflow/backend/internal/interfaces/http/handler"

	_ "github.com/timeflow/backend/docs" // Swagger docs
)

// HTTPServer HTTP 服务器
type HTTPServer struct {
	router   *gin.Engine
	httpPort string
	server   *http.Server
	logger   *slog.Logger
}

// NewServer 创建 HTTP 服务器
func NewServer(
	cfg *config.ServerConfig,
	entryHandler *handler.EntryHandler,
	streamHandler *handler.StreamHandler,
) *HTTPServer {
	router := gin.Default()

	logger := log.NewModuleLogger("http", "server")

	// 注册路由
	api := router.Group("/api/v1")
	{
		// 条目相关路由
		api.POST("/entries/start", entryHandler.Start)
		api.POST("/entries/stop", entryHandler.Stop)
		api.GET("/entries/active", entryHandler.Active)
		api.POST("/entries", entryHandler.Create)
		api.GET("/entries", entryHandler.List)
		api.PUT("/entries", entryHandler.BulkUpdate)
		api.PUT("/entries/:id", entryHandler.Update)
		api.PATCH("/entries/:id/title", entryHandler.UpdateTitle)
		api.PATCH("/entries/:id/start-time", entryHandler.UpdateStartTime)
		api.PATCH("/entries/:id/end-time", entryHandler.UpdateEndTime)
		api.DELETE("/entries/:id", entryHandler.Delete)

		// 实时推送相关路由
		api.POST("/stream/token", streamHandler.IssueToken)
		api.GET("/stream", streamHandler.Events)
		api.GET("/stream/ws", streamHandler.EventsWS)
	}

	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	httpPort := ":18080"
	if cfg != nil && cfg.HTTPPort != "" {
		httpPort = cfg.HTTPPort
	}

	return &HTTPServer{
		router:   router,
		httpPort: httpPort,
		logger:   logger,
	}
}

// Start 启动服务器
func (s *HTTPServer) Start() error {
	s.server = &http.Server{
		Addr:    s.httpPort,
		Handler: s.router,
	}

	s.logger.Info("HTTP server starting",
		"port", s.httpPort,
	)

	return s.server.ListenAndServe()
}

// Shutdown 优雅关闭
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Stop 停止服务器
func (s *HTTPServer) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(ctx)
}
