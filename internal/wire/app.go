package wire

import (
	"database/sql"
	"errors"
	"log/slog"
	nethttp "net/http"

	"github.com/timeflow/backend/internal/infrastructure/eventbus"
	applog "github.com/timeflow/backend/internal/infrastructure/log"
	"github.com/timeflow/backend/internal/interfaces"
)

// App 应用主结构，组合所有服务
type App struct {
	HTTPServer *interfaces.HTTPServer
	bus        *eventbus.Bus
	db         *sql.DB
	logger     *slog.Logger
}

// NewApp 创建应用实例
func NewApp(
	httpServer *interfaces.HTTPServer,
	bus *eventbus.Bus,
	db *sql.DB,
) *App {
	logger := applog.NewModuleLogger("app", "main")

	return &App{
		HTTPServer: httpServer,
		bus:        bus,
		db:         db,
		logger:     logger,
	}
}

// Start 启动所有服务
func (a *App) Start() error {
	a.logger.Info("Starting timeflow backend application")

	// HTTP 服务器在后台运行
	go func() {
		if err := a.HTTPServer.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			a.logger.Error("HTTP server stopped unexpectedly",
				"error", err,
			)
		}
	}()

	return nil
}

// Stop 停止所有服务
func (a *App) Stop() error {
	a.logger.Info("Stopping timeflow backend application")

	if err := a.HTTPServer.Stop(); err != nil {
		a.logger.Error("Failed to stop HTTP server",
			"error", err,
		)
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("Failed to close database",
				"error", err,
			)
		}
	}

	return nil
}
