package stream

import "github.com/google/wire"

// ProviderSet Stream 应用层 ProviderSet
var ProviderSet = wire.NewSet(
	NewTokenService,
)
