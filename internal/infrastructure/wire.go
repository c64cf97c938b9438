package infrastructure

import (
	"github.com/google/wire"
	"github.com/timeflow/backend/internal/infrastructure/config"
	"github.com/timeflow/backend/internal/infrastructure/eventbus"
	"github.com/timeflow/backend/internal/infrastructure/storage"
)

// ProviderSet Infrastructure 层总 ProviderSet
var ProviderSet = wire.NewSet(
	config.ProviderSet,
	storage.ProviderSet,
	eventbus.ProviderSet,
)
