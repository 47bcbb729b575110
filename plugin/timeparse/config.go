package timeparse

import (
	"fmt"
	"time"
)

// Config holds the tunable behavior of the resolver. Hard-coded values from
// the first iteration were extracted here so deployments can adjust fiscal
// calendars and disambiguation heuristics without code changes.
type Config struct {
	// FiscalYearStartMonth is the first month of the fiscal year used by
	// the "fiscal year end" business period.
	FiscalYearStartMonth time.Month `json:"fiscalYearStartMonth" yaml:"fiscalYearStartMonth"`

	// YearRollover enables the heuristic that rolls a yearless date which
	// already passed this year forward into the next year ("Jan 1st"
	// spoken in December means next January).
	YearRollover bool `json:"yearRollover" yaml:"yearRollover"`

	// YearRolloverMaxTokens limits the rollover heuristic to short
	// phrases. Longer phrases are more likely to describe an explicitly
	// past date and are left untouched.
	YearRolloverMaxTokens int `json:"yearRolloverMaxTokens" yaml:"yearRolloverMaxTokens"`

	// FuzzyTolerances maps fuzzy qualifier words to the half-width, in
	// days, of the range they widen a resolved date into.
	FuzzyTolerances map[string]int `json:"fuzzyTolerances" yaml:"fuzzyTolerances"`
}

// DefaultConfig returns the resolver defaults.
func DefaultConfig() *Config {
	return &Config{
		FiscalYearStartMonth:  time.April,
		YearRollover:          true,
		YearRolloverMaxTokens: 3,
		FuzzyTolerances: map[string]int{
			"around":        3,
			"roughly":       5,
			"about":         3,
			"approximately": 5,
			"sometime":      7,
			"near":          2,
		},
	}
}

// ValidateConfig checks that a configuration is usable.
func ValidateConfig(config *Config) error {
	if config == nil {
		return ErrInvalidConfig{Field: "Config", Value: nil}
	}
	if config.FiscalYearStartMonth < time.January || config.FiscalYearStartMonth > time.December {
		return ErrInvalidConfig{Field: "FiscalYearStartMonth", Value: int(config.FiscalYearStartMonth)}
	}
	if config.YearRolloverMaxTokens < 1 || config.YearRolloverMaxTokens > 16 {
		return ErrInvalidConfig{Field: "YearRolloverMaxTokens", Value: config.YearRolloverMaxTokens}
	}
	for word, days := range config.FuzzyTolerances {
		if word == "" || days < 1 || days > 60 {
			return ErrInvalidConfig{Field: "FuzzyTolerances." + word, Value: days}
		}
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
