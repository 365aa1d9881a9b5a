//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/nate123456/proof-editor-sub008/infrastructure/config"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideDomainConfig,
	ProvideDocumentRepository,
	ProvideEventBus,
	ProvideInMemoryCache,
	ProvideRateLimiter,
	ProvideCollector,
	ProvideTracerProvider,
	ProvideTracer,
	ProvideAnalyzer,
	ProvideValidationEngine,
	ProvideBootstrapClassifier,
	ProvideCommandBus,
	ProvideQueryBus,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container. The cleanup stops
// background work and flushes pending spans.
func InitializeContainer(cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil // Wire will replace this
}
