package tracker

import "github.com/google/wire"

// ProviderSet Tracker 应用层 ProviderSet
var ProviderSet = wire.NewSet(
	NewTrackerService,
)
