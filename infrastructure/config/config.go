package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	domainconfig "github.com/nate123456/proof-editor-sub008/domain/config"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress   string        `yaml:"server_address"`
	Environment     string        `yaml:"environment"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Query cache
	CacheTTL           int           `yaml:"cache_ttl"` // seconds
	CacheSweepInterval time.Duration `yaml:"cache_sweep_interval"`

	// Tracing
	ServiceName       string  `yaml:"service_name"`
	OTLPEndpoint      string  `yaml:"otlp_endpoint"`
	TracingSampleRate float64 `yaml:"tracing_sample_rate"`

	// CORS
	AllowedOrigins []string `yaml:"allowed_origins"`

	// Requests admitted per client per minute; zero disables limiting
	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`

	// Feature flags
	EnableMetrics bool `yaml:"enable_metrics"`
	EnableTracing bool `yaml:"enable_tracing"`
	EnableCORS    bool `yaml:"enable_cors"`

	// Business rules; the environment picks the profile, the file may override it
	DomainOverrides DomainOverrides            `yaml:"domain"`
	Domain          *domainconfig.DomainConfig `yaml:"-"`

	// LoadedFrom lists the sources applied, lowest priority first
	LoadedFrom []string `yaml:"-"`
}

// DomainOverrides adjusts individual domain limits. Nil fields keep the
// profile value.
type DomainOverrides struct {
	MaxStatementLength         *int  `yaml:"max_statement_length"`
	MaxStatementsPerDocument   *int  `yaml:"max_statements_per_document"`
	MaxSideLabelLength         *int  `yaml:"max_side_label_length"`
	MaxArgumentsPerDocument    *int  `yaml:"max_arguments_per_document"`
	MaxStatementsPerArgument   *int  `yaml:"max_statements_per_argument"`
	MaxNodesPerTree            *int  `yaml:"max_nodes_per_tree"`
	AllowCascadeDetach         *bool `yaml:"allow_cascade_detach"`
	DefaultMaxPathDepth        *int  `yaml:"default_max_path_depth"`
	MaxPathResults             *int  `yaml:"max_path_results"`
	WarnOnUnusedStatements     *bool `yaml:"warn_on_unused_statements"`
	WarnOnUnconnectedArguments *bool `yaml:"warn_on_unconnected_arguments"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		ServerAddress:      ":8080",
		Environment:        "development",
		ReadTimeout:        15 * time.Second,
		WriteTimeout:       15 * time.Second,
		ShutdownTimeout:    10 * time.Second,
		MaxBodyBytes:       1 << 20,
		LogLevel:           "info",
		CacheTTL:           300,
		CacheSweepInterval: time.Minute,
		ServiceName:        "proof-editor",
		OTLPEndpoint:       "localhost:4317",
		TracingSampleRate:  0.1,
		AllowedOrigins:     []string{"*"},
		RateLimitPerMinute: 600,
		EnableMetrics:      true,
		EnableTracing:      false,
		EnableCORS:         true,
	}
}

// LoadConfig loads configuration from the file named by CONFIG_FILE, if
// any, and then from environment variables
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(os.Getenv("CONFIG_FILE"))
}

// Load is an alias for LoadConfig for backwards compatibility
func Load() (*Config, error) {
	return LoadConfig()
}

// LoadConfigFrom applies, lowest priority first: defaults, the YAML file at
// path (skipped when path is empty) and environment variables
func LoadConfigFrom(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.LoadedFrom = append(cfg.LoadedFrom, "defaults")

	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
		cfg.LoadedFrom = append(cfg.LoadedFrom, path)
	}

	cfg.loadEnvironmentVariables()
	cfg.LoadedFrom = append(cfg.LoadedFrom, "environment")

	cfg.Domain = domainconfig.LoadDomainConfig(cfg.Environment)
	cfg.DomainOverrides.apply(cfg.Domain)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadEnvironmentVariables() {
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.ReadTimeout = getEnvDuration("READ_TIMEOUT", c.ReadTimeout)
	c.WriteTimeout = getEnvDuration("WRITE_TIMEOUT", c.WriteTimeout)
	c.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", c.ShutdownTimeout)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.CacheTTL = getEnvInt("CACHE_TTL", c.CacheTTL)
	c.ServiceName = getEnv("SERVICE_NAME", c.ServiceName)
	c.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.OTLPEndpoint)
	c.TracingSampleRate = getEnvFloat("TRACING_SAMPLE_RATE", c.TracingSampleRate)
	c.EnableMetrics = getEnvBool("ENABLE_METRICS", c.EnableMetrics)
	c.EnableTracing = getEnvBool("ENABLE_TRACING", c.EnableTracing)
	c.EnableCORS = getEnvBool("ENABLE_CORS", c.EnableCORS)
	c.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", c.RateLimitPerMinute)
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.AllowedOrigins = splitList(origins)
	}
}

func (o DomainOverrides) apply(d *domainconfig.DomainConfig) {
	setInt(&d.MaxStatementLength, o.MaxStatementLength)
	setInt(&d.MaxStatementsPerDocument, o.MaxStatementsPerDocument)
	setInt(&d.MaxSideLabelLength, o.MaxSideLabelLength)
	setInt(&d.MaxArgumentsPerDocument, o.MaxArgumentsPerDocument)
	setInt(&d.MaxStatementsPerArgument, o.MaxStatementsPerArgument)
	setInt(&d.MaxNodesPerTree, o.MaxNodesPerTree)
	setInt(&d.DefaultMaxPathDepth, o.DefaultMaxPathDepth)
	setInt(&d.MaxPathResults, o.MaxPathResults)
	setBool(&d.AllowCascadeDetach, o.AllowCascadeDetach)
	setBool(&d.WarnOnUnusedStatements, o.WarnOnUnusedStatements)
	setBool(&d.WarnOnUnconnectedArguments, o.WarnOnUnconnectedArguments)
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	switch c.Environment {
	case "development", "staging", "production", "test":
	default:
		return fmt.Errorf("unknown environment %q", c.Environment)
	}
	if c.ServerAddress == "" {
		return fmt.Errorf("SERVER_ADDRESS cannot be empty")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache TTL cannot be negative, got %d", c.CacheTTL)
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("rate limit cannot be negative, got %d", c.RateLimitPerMinute)
	}
	if c.TracingSampleRate < 0 || c.TracingSampleRate > 1 {
		return fmt.Errorf("tracing sample rate must be within [0, 1], got %g", c.TracingSampleRate)
	}
	if c.EnableTracing && c.OTLPEndpoint == "" {
		return fmt.Errorf("OTEL_EXPORTER_OTLP_ENDPOINT is required when tracing is enabled")
	}
	if c.Domain != nil {
		if err := c.Domain.Validate(); err != nil {
			return fmt.Errorf("domain config: %w", err)
		}
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
