package config

import (
	"errors"
	"fmt"
	"net"

	"github.com/mrjaywilson/QOE-Core/internal/abr"
	"github.com/mrjaywilson/QOE-Core/internal/playback"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for errors and inconsistencies.
// Returns nil if valid, or an error describing the problem.
func Validate(cfg *Config) error {
	var errs []error

	// Strategy must be known
	if _, err := abr.ParseKind(cfg.Strategy); err != nil {
		errs = append(errs, ValidationError{
			Field:   "strategy",
			Message: err.Error(),
		})
	}

	// Buffer model and strategy parameters
	errs = append(errs, sessionErrors(cfg.Session())...)

	// Trace source
	if cfg.TraceFile != "" && cfg.Generate {
		errs = append(errs, ValidationError{
			Field:   "trace",
			Message: "-trace and -generate are mutually exclusive",
		})
	}
	if cfg.Generate || cfg.Runs > 1 {
		if err := cfg.Generator.Validate(); err != nil {
			errs = append(errs, ValidationError{
				Field:   "generator",
				Message: err.Error(),
			})
		}
	}

	// Batch
	if cfg.Runs < 1 {
		errs = append(errs, ValidationError{
			Field:   "runs",
			Message: "must be at least 1",
		})
	}
	if cfg.Runs > 1 && !cfg.Generate {
		errs = append(errs, ValidationError{
			Field:   "runs",
			Message: "-runs greater than 1 requires -generate",
		})
	}
	if cfg.Runs > 1 && cfg.Compare {
		errs = append(errs, ValidationError{
			Field:   "compare",
			Message: "-compare cannot be combined with -runs",
		})
	}
	if cfg.Parallel < 1 {
		errs = append(errs, ValidationError{
			Field:   "parallel",
			Message: "must be at least 1",
		})
	}

	// The dashboard replays exactly one session
	if cfg.TUIEnabled && (cfg.Compare || cfg.Runs > 1) {
		errs = append(errs, ValidationError{
			Field:   "tui",
			Message: "-tui replays a single session and cannot be combined with -compare or -runs",
		})
	}

	// Metrics address must be host:port
	if cfg.MetricsAddr != "" {
		if _, _, err := net.SplitHostPort(cfg.MetricsAddr); err != nil {
			errs = append(errs, ValidationError{
				Field:   "metrics_addr",
				Message: err.Error(),
			})
		}
	}

	// Log format must be valid
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[cfg.LogFormat] {
		errs = append(errs, ValidationError{
			Field:   "log_format",
			Message: fmt.Sprintf("must be 'json' or 'text' (got %q)", cfg.LogFormat),
		})
	}

	// Return combined errors
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// sessionErrors converts session validation failures into ValidationErrors.
func sessionErrors(session playback.SessionConfig) []error {
	err := session.Validate()
	if err == nil {
		return nil
	}

	var out []error
	for _, e := range unjoin(err) {
		var fe playback.FieldError
		if errors.As(e, &fe) {
			out = append(out, ValidationError{Field: fe.Field, Message: fe.Message})
			continue
		}
		out = append(out, ValidationError{Field: "session", Message: e.Error()})
	}
	return out
}

func unjoin(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}
