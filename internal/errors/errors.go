// Package errors provides centralized error definitions and error handling utilities
// for reauthfi. It defines sentinel errors, domain error types for setup and
// shell-command failures, semantic error types, and wrapping helpers.
//
// # Error Types
//
// Domain-specific errors represent failures of a subsystem:
//   - SetupError: the engine could not be constructed (HTTP client, platform, config)
//   - CommandError: an OS command exited non-zero or could not be started
//
// Semantic errors represent common error conditions:
//   - NotFoundError: a resource (gateway IP, Wi-Fi device) could not be found
//   - ValidationError: invalid configuration or input
//   - TimeoutError: an operation timed out
//
// # Usage
//
//	err := errors.NewNotFoundError("gateway_ip", "route -n get default")
//	if errors.Is(err, errors.ErrNotFound) { ... }
//
//	var cmdErr *errors.CommandError
//	if errors.As(err, &cmdErr) { log.Warn("command failed", "exit_code", cmdErr.ExitCode) }
//
// Probe-level failures are never represented as errors: they are folded into
// diagnostic strings by the detection package. Only SetupError and opener
// failures reach the top-level caller.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

var (
	// ErrNotFound indicates that a resource could not be found.
	ErrNotFound = New("not found")
	// ErrUnsupportedPlatform indicates that the current OS has no platform configuration.
	ErrUnsupportedPlatform = New("unsupported platform")
	// ErrCommandFailed indicates that an OS command exited unsuccessfully.
	ErrCommandFailed = New("command failed")
	// ErrSetup indicates that the engine could not be constructed.
	ErrSetup = New("setup failed")
)

var (
	// ErrTimeout indicates that an operation timed out.
	ErrTimeout = New("operation timed out")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error
// -----------------------------------------------------------------------------

type baseError struct {
	message string
	cause   error
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *baseError) Unwrap() error {
	return e.cause
}

func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// SetupError represents a failure to construct the detection engine, such as
// an HTTP client that could not be built or a platform without configuration.
//
// Example:
//
//	err := errors.NewSetupError("failed to build http client", cause).WithComponent("netclient")
//	fmt.Println(err) // "setup error [component=netclient]: failed to build http client: ..."
type SetupError struct {
	baseError
	Component string
}

// NewSetupError creates a new SetupError.
func NewSetupError(message string, cause error) *SetupError {
	return &SetupError{
		baseError: baseError{
			message: message,
			cause:   cause,
		},
	}
}

// WithComponent records which component failed to initialize.
func (e *SetupError) WithComponent(component string) *SetupError {
	e.Component = component
	return e
}

// Error returns the formatted error message.
func (e *SetupError) Error() string {
	prefix := "setup error"
	if e.Component != "" {
		prefix = fmt.Sprintf("setup error [component=%s]", e.Component)
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *SetupError) Is(target error) bool {
	if _, ok := target.(*SetupError); ok {
		return true
	}
	if target == ErrSetup {
		return true
	}
	return e.baseError.Is(target)
}

// CommandError represents an OS command that could not be started or exited
// with a non-zero status. ExitCode is -1 when the process was terminated by a
// signal or never started.
//
// Example:
//
//	err := errors.NewCommandError([]string{"route", "-n", "get", "default"}, 1, "not in table")
//	fmt.Println(err) // "command failed [route -n get default]: exit code 1 (not in table)"
type CommandError struct {
	baseError
	Argv     []string
	ExitCode int
	Stderr   string
}

// NewCommandError creates a CommandError for a process that exited unsuccessfully.
// stderr is trimmed before it is stored.
func NewCommandError(argv []string, exitCode int, stderr string) *CommandError {
	detail := strings.TrimSpace(stderr)

	message := "terminated by signal"
	if exitCode >= 0 {
		message = fmt.Sprintf("exit code %d", exitCode)
	}
	if detail != "" {
		message = fmt.Sprintf("%s (%s)", message, detail)
	}

	return &CommandError{
		baseError: baseError{
			message: message,
		},
		Argv:     argv,
		ExitCode: exitCode,
		Stderr:   detail,
	}
}

// WithCause adds a cause to the error, typically the I/O error that prevented
// the command from starting.
func (e *CommandError) WithCause(cause error) *CommandError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *CommandError) Error() string {
	prefix := "command failed"
	if len(e.Argv) > 0 {
		prefix = fmt.Sprintf("command failed [%s]", strings.Join(e.Argv, " "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *CommandError) Is(target error) bool {
	if _, ok := target.(*CommandError); ok {
		return true
	}
	if target == ErrCommandFailed {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError represents a resource that could not be found.
//
// Example:
//
//	err := errors.NewNotFoundError("wifi_device", "networksetup -listallhardwareports")
//	fmt.Println(err) // "wifi_device not found: networksetup -listallhardwareports"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message: fmt.Sprintf("%s not found", resourceType),
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithCause adds a cause to the error.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	base := e.message
	if e.ResourceID != "" {
		base = fmt.Sprintf("%s: %s", e.message, e.ResourceID)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", base, e.cause)
	}
	return base
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	if target == ErrNotFound {
		return true
	}
	return e.baseError.Is(target)
}

// ValidationError represents invalid input or state.
//
// Example:
//
//	err := errors.NewValidationError("timeout must be positive").WithField("timeout").WithValue(0)
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message: message,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if target == ErrInvalidInput {
		return true
	}
	return e.baseError.Is(target)
}

// TimeoutError represents an operation that timed out.
//
// Example:
//
//	err := errors.NewTimeoutError("probing Apple", 10*time.Second)
//	fmt.Println(err) // "timeout error: probing Apple (timeout: 10s)"
type TimeoutError struct {
	baseError
	Operation string
	Duration  time.Duration
}

// NewTimeoutError creates a new TimeoutError.
func NewTimeoutError(operation string, duration time.Duration) *TimeoutError {
	return &TimeoutError{
		baseError: baseError{
			message: operation,
		},
		Operation: operation,
		Duration:  duration,
	}
}

// WithCause adds a cause to the error.
func (e *TimeoutError) WithCause(cause error) *TimeoutError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *TimeoutError) Error() string {
	base := fmt.Sprintf("timeout error: %s (timeout: %s)", e.Operation, e.Duration)
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", base, e.cause)
	}
	return base
}

// Is checks if this error matches the target.
func (e *TimeoutError) Is(target error) bool {
	if _, ok := target.(*TimeoutError); ok {
		return true
	}
	if target == ErrTimeout {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
