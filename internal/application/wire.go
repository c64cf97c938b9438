package application

import (
	"github.com/google/wire"
	"github.com/timeflow/backend/internal/application/stream"
	"github.com/timeflow/backend/internal/application/tracker"
)

// ProviderSet Application 层总 ProviderSet
var ProviderSet = wire.NewSet(
	tracker.ProviderSet,
	stream.ProviderSet,
)
