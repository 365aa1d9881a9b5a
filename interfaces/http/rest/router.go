package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/nate123456/proof-editor-sub008/application/commands/bus"
	querybus "github.com/nate123456/proof-editor-sub008/application/queries/bus"
	"github.com/nate123456/proof-editor-sub008/infrastructure/config"
	"github.com/nate123456/proof-editor-sub008/interfaces/http/rest/handlers"
	"github.com/nate123456/proof-editor-sub008/interfaces/http/rest/middleware"
	pkgerrors "github.com/nate123456/proof-editor-sub008/pkg/errors"
	"github.com/nate123456/proof-editor-sub008/pkg/observability"
	"github.com/nate123456/proof-editor-sub008/pkg/ratelimit"
)

// Router creates and configures the HTTP router
type Router struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	collector  *observability.Collector
	tracer     trace.Tracer
	limiter    ratelimit.Limiter
	config     *config.Config
	logger     *zap.Logger
}

// NewRouter creates a new router instance. A nil collector disables the
// metrics endpoint, a nil tracer disables request spans and a nil limiter
// admits every request.
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	collector *observability.Collector,
	tracer trace.Tracer,
	limiter ratelimit.Limiter,
	cfg *config.Config,
	logger *zap.Logger,
) *Router {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		commandBus: commandBus,
		queryBus:   queryBus,
		collector:  collector,
		tracer:     tracer,
		limiter:    limiter,
		config:     cfg,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	errorHandler := pkgerrors.NewErrorHandler(rt.logger, rt.config.IsDevelopment())
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(errorHandler.Middleware)
	router.Use(middleware.Logger(rt.logger))
	if rt.tracer != nil {
		router.Use(middleware.Tracing(rt.tracer))
	}
	if rt.collector != nil {
		router.Use(middleware.Metrics(rt.collector))
	}
	router.Use(versionMiddleware)

	if rt.config.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: rt.config.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "If-Match", "X-Request-ID", "traceparent", "tracestate"},
			ExposedHeaders: []string{"ETag", "X-Request-ID", "Retry-After"},
			MaxAge:         300,
		}))
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		errorHandler.HandleStatus(w, r, http.StatusNotFound, "route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		errorHandler.HandleStatus(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	if rt.collector != nil {
		router.Handle("/metrics", promhttp.HandlerFor(rt.collector.GetRegistry(), promhttp.HandlerOpts{}))
	}

	router.Route("/api/v1", func(r chi.Router) {
		if rt.limiter != nil {
			r.Use(middleware.RateLimit(rt.limiter, errorHandler, rt.logger))
		}

		documentHandler := handlers.NewDocumentHandler(
			rt.commandBus,
			rt.queryBus,
			errorHandler,
			rt.logger,
			rt.config.MaxBodyBytes,
		)
		r.Route("/documents", documentHandler.Routes)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests. Storage is in-process,
// so a serving router is ready.
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

// versionMiddleware adds API version headers to all responses
func versionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-API-Version", "v1")
		next.ServeHTTP(w, r)
	})
}
