package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/mvp-joe/classmeta/internal/metadata"
)

var (
	// ErrInvalidFormat indicates an unsupported output format
	ErrInvalidFormat = errors.New("invalid output format")

	// ErrInvalidIndent indicates a non-positive indentation step
	ErrInvalidIndent = errors.New("invalid indent")

	// ErrInvalidWorkers indicates a negative worker count
	ErrInvalidWorkers = errors.New("invalid worker count")

	// ErrEmptyInclude indicates that no source files could ever match
	ErrEmptyInclude = errors.New("empty include patterns")

	// ErrInvalidPattern indicates a glob that does not compile
	ErrInvalidPattern = errors.New("invalid glob pattern")

	// ErrInvalidWatchSettings indicates invalid watch configuration
	ErrInvalidWatchSettings = errors.New("invalid watch settings")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validatePaths(&cfg.Paths); err != nil {
		errs = append(errs, err)
	}

	if err := validateOutput(&cfg.Output); err != nil {
		errs = append(errs, err)
	}

	if err := validateAnalysis(&cfg.Analysis); err != nil {
		errs = append(errs, err)
	}

	if cfg.Watch.DebounceMS < 0 {
		errs = append(errs, fmt.Errorf("%w: debounce_ms cannot be negative, got %d", ErrInvalidWatchSettings, cfg.Watch.DebounceMS))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validatePaths(cfg *PathsConfig) error {
	var errs []error

	if len(cfg.Include) == 0 {
		errs = append(errs, fmt.Errorf("%w: at least one include pattern required", ErrEmptyInclude))
	}

	for _, pattern := range append(append([]string{}, cfg.Include...), cfg.Ignore...) {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: '%s': %v", ErrInvalidPattern, pattern, err))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateOutput(cfg *OutputConfig) error {
	var errs []error

	format := strings.ToLower(cfg.Format)
	if format != "json" && format != "yaml" {
		errs = append(errs, fmt.Errorf("%w: must be 'json' or 'yaml', got '%s'", ErrInvalidFormat, cfg.Format))
	}

	switch {
	case cfg.Indent <= 0:
		errs = append(errs, fmt.Errorf("%w: indent must be positive, got %d", ErrInvalidIndent, cfg.Indent))
	case format == "yaml" && (cfg.Indent < metadata.MinYAMLIndent || cfg.Indent > metadata.MaxYAMLIndent):
		errs = append(errs, fmt.Errorf("%w: yaml indent must be between %d and %d, got %d",
			ErrInvalidIndent, metadata.MinYAMLIndent, metadata.MaxYAMLIndent, cfg.Indent))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateAnalysis(cfg *AnalysisConfig) error {
	if cfg.Workers < 0 {
		return fmt.Errorf("%w: workers cannot be negative, got %d", ErrInvalidWorkers, cfg.Workers)
	}
	return nil
}

// joinErrors combines multiple errors into a single error with clear
// formatting. Every error stays matchable with errors.Is.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	args := make([]any, len(errs))
	for i, err := range errs {
		args[i] = err
	}

	return fmt.Errorf("validation failed:"+strings.Repeat("\n  - %w", len(errs)), args...)
}
