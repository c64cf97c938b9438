//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/google/wire"
	"github.com/timeflow/backend/internal/application"
	appTracker "github.com/timeflow/backend/internal/application/tracker"
	"github.com/timeflow/backend/internal/infrastructure"
	"github.com/timeflow/backend/internal/infrastructure/eventbus"
	"github.com/timeflow/backend/internal/interfaces"
)

// InitializeApp 初始化所有服务
func InitializeApp() (*App, error) {
	wire.Build(
		// 按层组合 ProviderSet
		infrastructure.ProviderSet, // 基础设施层
		application.ProviderSet,    // 应用层
		interfaces.ProviderSet,     // 接口层
		// 接口绑定：application.EventPublisher -> eventbus.Bus
		wire.Bind(
			new(appTracker.EventPublisher),
			new(*eventbus.Bus),
		),
		NewApp, // 组合所有服务的应用结构
	)
	return nil, nil
}
