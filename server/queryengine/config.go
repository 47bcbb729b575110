package queryengine

import (
	"fmt"
)

// Config holds query engine limits and defaults. Hard-coded values were
// extracted into this struct so deployments can tune them.
type Config struct {
	// Query limits
	QueryLimits QueryLimitsConfig `json:"queryLimits" yaml:"queryLimits"`
}

// QueryLimitsConfig bounds what a single query may ask for.
type QueryLimitsConfig struct {
	// MaxQueryLength is the maximum natural query length in characters.
	MaxQueryLength int `json:"maxQueryLength" yaml:"maxQueryLength"`
	// MaxResults caps how many orders a list query returns.
	MaxResults int `json:"maxResults" yaml:"maxResults"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		QueryLimits: QueryLimitsConfig{
			MaxQueryLength: 1000,
			MaxResults:     200,
		},
	}
}

// ValidateConfig checks configuration validity.
func ValidateConfig(config *Config) error {
	if config == nil {
		return ErrInvalidConfig{Field: "Config", Value: nil}
	}
	if config.QueryLimits.MaxQueryLength < 10 || config.QueryLimits.MaxQueryLength > 10000 {
		return ErrInvalidConfig{Field: "QueryLimits.MaxQueryLength", Value: config.QueryLimits.MaxQueryLength}
	}
	if config.QueryLimits.MaxResults < 1 || config.QueryLimits.MaxResults > 10000 {
		return ErrInvalidConfig{Field: "QueryLimits.MaxResults", Value: config.QueryLimits.MaxResults}
	}
	return nil
}

// ErrInvalidConfig reports a configuration field that failed validation.
type ErrInvalidConfig struct {
	Field string
	Value interface{}
}

func (e ErrInvalidConfig) Error() string {
	return fmt.Sprintf("invalid config field '%s': %v", e.Field, e.Value)
}
