package di

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/nate123456/proof-editor-sub008/application/commands/bus"
	commandhandlers "github.com/nate123456/proof-editor-sub008/application/commands/handlers"
	"github.com/nate123456/proof-editor-sub008/application/ports"
	querybus "github.com/nate123456/proof-editor-sub008/application/queries/bus"
	queryhandlers "github.com/nate123456/proof-editor-sub008/application/queries/handlers"
	domainconfig "github.com/nate123456/proof-editor-sub008/domain/config"
	"github.com/nate123456/proof-editor-sub008/domain/services"
	"github.com/nate123456/proof-editor-sub008/infrastructure/cache"
	"github.com/nate123456/proof-editor-sub008/infrastructure/config"
	"github.com/nate123456/proof-editor-sub008/infrastructure/messaging"
	"github.com/nate123456/proof-editor-sub008/infrastructure/persistence/memory"
	"github.com/nate123456/proof-editor-sub008/pkg/observability"
	"github.com/nate123456/proof-editor-sub008/pkg/ratelimit"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
		}
		zapCfg.Level = level
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("service", cfg.ServiceName)), nil
}

// ProvideDomainConfig returns the business limits resolved at load time,
// falling back to the environment's profile
func ProvideDomainConfig(cfg *config.Config) *domainconfig.DomainConfig {
	if cfg.Domain != nil {
		return cfg.Domain
	}
	return domainconfig.LoadDomainConfig(cfg.Environment)
}

// ProvideDocumentRepository creates the document store
func ProvideDocumentRepository(domainCfg *domainconfig.DomainConfig, logger *zap.Logger) ports.DocumentRepository {
	return memory.NewDocumentRepository(domainCfg, logger)
}

// ProvideEventBus creates an event bus with the event log subscribed
func ProvideEventBus(logger *zap.Logger) (ports.EventBus, error) {
	eventBus := messaging.NewEventBus(logger)
	if err := eventBus.Subscribe(messaging.AllEvents, messaging.NewEventLogger(logger.Named("events"))); err != nil {
		return nil, err
	}
	return eventBus, nil
}

// ProvideInMemoryCache creates the query cache. The cleanup stops its sweeper.
func ProvideInMemoryCache(cfg *config.Config) (*cache.InMemoryCache, func()) {
	c := cache.NewInMemoryCache(cfg.CacheSweepInterval)
	return c, c.Close
}

// ProvideRateLimiter creates the per-client request limiter, or nil when
// limiting is disabled
func ProvideRateLimiter(cfg *config.Config) (ratelimit.Limiter, func()) {
	if cfg.RateLimitPerMinute <= 0 {
		return nil, func() {}
	}
	limiter := ratelimit.NewSlidingWindowLimiter(cfg.RateLimitPerMinute, time.Minute)
	return limiter, limiter.Close
}

// ProvideCollector creates the Prometheus collector
func ProvideCollector() *observability.Collector {
	return observability.NewCollector("proof_editor")
}

// ProvideTracerProvider starts the OTLP exporter when tracing is enabled.
// Without it the provider is nil and spans go to the no-op global tracer.
func ProvideTracerProvider(cfg *config.Config, logger *zap.Logger) (*observability.TracerProvider, func(), error) {
	if !cfg.EnableTracing {
		return nil, func() {}, nil
	}

	tp, err := observability.InitTracing(observability.TracingConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Endpoint:    cfg.OTLPEndpoint,
		SampleRate:  cfg.TracingSampleRate,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn("Tracer shutdown failed", zap.Error(err))
		}
	}
	return tp, cleanup, nil
}

// ProvideTracer returns the tracer used by the buses and HTTP middleware
func ProvideTracer(cfg *config.Config, tp *observability.TracerProvider) trace.Tracer {
	if tp != nil {
		return tp.Tracer()
	}
	return observability.Tracer(cfg.ServiceName)
}

// ProvideAnalyzer creates the structural analyzer
func ProvideAnalyzer(domainCfg *domainconfig.DomainConfig) *services.StructuralAnalyzer {
	return services.NewStructuralAnalyzer(domainCfg)
}

// ProvideValidationEngine creates the validation engine
func ProvideValidationEngine(analyzer *services.StructuralAnalyzer, domainCfg *domainconfig.DomainConfig) *services.ValidationEngine {
	return services.NewValidationEngine(analyzer, domainCfg)
}

// ProvideBootstrapClassifier creates the bootstrap classifier
func ProvideBootstrapClassifier() *services.BootstrapClassifier {
	return services.NewBootstrapClassifier()
}

// ProvideCommandBus creates a command bus with every document command registered
func ProvideCommandBus(
	cfg *config.Config,
	repo ports.DocumentRepository,
	eventBus ports.EventBus,
	domainCfg *domainconfig.DomainConfig,
	collector *observability.Collector,
	tracer trace.Tracer,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	middlewares := []bus.Middleware{bus.LoggingMiddleware(logger)}
	if cfg.EnableMetrics {
		middlewares = append(middlewares, bus.MetricsMiddleware(collector))
	}
	middlewares = append(middlewares, bus.TracingMiddleware(tracer))

	commandBus := bus.NewCommandBus(middlewares...)
	handler := commandhandlers.NewProofCommandHandler(repo, eventBus, domainCfg, logger)
	if err := handler.Register(commandBus); err != nil {
		return nil, fmt.Errorf("failed to register command handlers: %w", err)
	}
	return commandBus, nil
}

// ProvideQueryBus creates a query bus with every document query registered.
// Results are cached per document version.
func ProvideQueryBus(
	cfg *config.Config,
	repo ports.DocumentRepository,
	analyzer *services.StructuralAnalyzer,
	engine *services.ValidationEngine,
	classifier *services.BootstrapClassifier,
	queryCache *cache.InMemoryCache,
	collector *observability.Collector,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	handler := queryhandlers.NewProofQueryHandler(repo, analyzer, engine, classifier, logger)

	var middlewares []querybus.Middleware
	if cfg.EnableMetrics {
		middlewares = append(middlewares, querybus.NewMetricsMiddleware(collector))
	}
	middlewares = append(middlewares, querybus.NewCachingMiddleware(queryCache, handler.DocumentVersion, cfg.CacheTTL, logger))

	queryBus := querybus.NewQueryBus(middlewares...)
	if err := handler.Register(queryBus); err != nil {
		return nil, fmt.Errorf("failed to register query handlers: %w", err)
	}
	return queryBus, nil
}
