package di

import (
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/nate123456/proof-editor-sub008/application/commands/bus"
	"github.com/nate123456/proof-editor-sub008/application/ports"
	querybus "github.com/nate123456/proof-editor-sub008/application/queries/bus"
	"github.com/nate123456/proof-editor-sub008/infrastructure/cache"
	"github.com/nate123456/proof-editor-sub008/infrastructure/config"
	"github.com/nate123456/proof-editor-sub008/pkg/observability"
	"github.com/nate123456/proof-editor-sub008/pkg/ratelimit"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	Repository  ports.DocumentRepository
	EventBus    ports.EventBus
	Cache       *cache.InMemoryCache
	RateLimiter ratelimit.Limiter
	Collector   *observability.Collector
	Tracer      trace.Tracer
	CommandBus  *bus.CommandBus
	QueryBus    *querybus.QueryBus
}
