package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "detection.timeout_seconds")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

const (
	maxTimeoutSeconds = 300
	maxRecoveryDelay  = 2 * time.Minute
	maxLogSizeMB      = 1000
)

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateDetection()...)
	errors = append(errors, c.validateRecovery()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

// validateDetection validates the DetectionConfig
func (c *Config) validateDetection() []ValidationError {
	var errors []ValidationError

	if c.Detection.TimeoutSeconds < 1 || c.Detection.TimeoutSeconds > maxTimeoutSeconds {
		errors = append(errors, ValidationError{
			Field:   "detection.timeout_seconds",
			Value:   c.Detection.TimeoutSeconds,
			Message: fmt.Sprintf("must be between 1 and %d", maxTimeoutSeconds),
		})
	}

	for i, ep := range c.Detection.ExtraEndpoints {
		field := fmt.Sprintf("detection.extra_endpoints[%d]", i)

		if strings.TrimSpace(ep.Name) == "" {
			errors = append(errors, ValidationError{
				Field:   field + ".name",
				Value:   ep.Name,
				Message: "must not be empty",
			})
		}

		if !isHTTPURL(ep.URL) {
			errors = append(errors, ValidationError{
				Field:   field + ".url",
				Value:   ep.URL,
				Message: "must be an absolute http or https URL",
			})
		}

		if ep.ExpectedStatus != nil && (*ep.ExpectedStatus < 100 || *ep.ExpectedStatus > 599) {
			errors = append(errors, ValidationError{
				Field:   field + ".expected_status",
				Value:   *ep.ExpectedStatus,
				Message: "must be between 100 and 599",
			})
		}
	}

	return errors
}

// validateRecovery validates the RecoveryConfig
func (c *Config) validateRecovery() []ValidationError {
	var errors []ValidationError

	delays := []struct {
		field string
		value time.Duration
	}{
		{"recovery.settle_delay", c.Recovery.SettleDelay},
		{"recovery.reconnect_delay", c.Recovery.ReconnectDelay},
	}
	for _, d := range delays {
		if d.value < 0 || d.value > maxRecoveryDelay {
			errors = append(errors, ValidationError{
				Field:   d.field,
				Value:   d.value,
				Message: fmt.Sprintf("must be between 0 and %s", maxRecoveryDelay),
			})
		}
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if c.Logging.MaxSizeMB <= 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be positive",
		})
	}

	if c.Logging.MaxSizeMB > maxLogSizeMB {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("exceeds maximum of %dMB", maxLogSizeMB),
		})
	}

	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	if strings.ContainsRune(c.Logging.File, '\x00') {
		errors = append(errors, ValidationError{
			Field:   "logging.file",
			Value:   c.Logging.File,
			Message: "path contains invalid null character",
		})
	}

	return errors
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
