package config

import "fmt"

// DomainConfig holds all configurable business rules and constraints
type DomainConfig struct {
	// Statement constraints
	MaxStatementLength       int
	MaxStatementsPerDocument int

	// Argument constraints
	MaxSideLabelLength       int
	MaxArgumentsPerDocument  int
	MaxStatementsPerArgument int

	// Tree constraints
	MaxNodesPerTree    int
	AllowCascadeDetach bool

	// Analysis limits
	DefaultMaxPathDepth int
	MaxPathResults      int

	// Validation settings
	WarnOnUnusedStatements     bool
	WarnOnUnconnectedArguments bool
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		MaxStatementLength:       10000,
		MaxStatementsPerDocument: 10000,

		MaxSideLabelLength:       500,
		MaxArgumentsPerDocument:  5000,
		MaxStatementsPerArgument: 100,

		MaxNodesPerTree:    5000,
		AllowCascadeDetach: true,

		DefaultMaxPathDepth: 10,
		MaxPathResults:      1000,

		WarnOnUnusedStatements:     true,
		WarnOnUnconnectedArguments: true,
	}
}

// ProductionDomainConfig returns production-specific configuration
func ProductionDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()

	// Tighter ceilings for shared deployments
	config.MaxStatementLength = 5000
	config.MaxArgumentsPerDocument = 2000
	config.DefaultMaxPathDepth = 8
	config.MaxPathResults = 500

	return config
}

// DevelopmentDomainConfig returns development-specific configuration
func DevelopmentDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()

	config.MaxStatementsPerDocument = 100000
	config.MaxArgumentsPerDocument = 50000
	config.MaxNodesPerTree = 50000
	config.DefaultMaxPathDepth = 20
	config.MaxPathResults = 10000

	return config
}

// LoadDomainConfig loads domain configuration based on environment
func LoadDomainConfig(environment string) *DomainConfig {
	switch environment {
	case "production":
		return ProductionDomainConfig()
	case "development":
		return DevelopmentDomainConfig()
	default:
		return DefaultDomainConfig()
	}
}

// Validate checks if the configuration is valid
func (c *DomainConfig) Validate() error {
	if c.MaxStatementLength <= 0 {
		return fmt.Errorf("max statement length must be positive, got %d", c.MaxStatementLength)
	}
	if c.MaxSideLabelLength < 0 {
		return fmt.Errorf("max side label length cannot be negative, got %d", c.MaxSideLabelLength)
	}
	if c.DefaultMaxPathDepth <= 0 {
		return fmt.Errorf("default max path depth must be positive, got %d", c.DefaultMaxPathDepth)
	}
	if c.MaxPathResults <= 0 {
		return fmt.Errorf("max path results must be positive, got %d", c.MaxPathResults)
	}
	if c.MaxStatementsPerDocument <= 0 || c.MaxArgumentsPerDocument <= 0 || c.MaxNodesPerTree <= 0 {
		return fmt.Errorf("document limits must be positive")
	}
	return nil
}
