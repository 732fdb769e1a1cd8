// Package shell runs the small set of external commands reauthfi depends on
// (route, ip, networksetup, open, xdg-open) behind an interface so the
// detection and recovery code can be exercised without touching the host.
package shell

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/kazu728/reauthfi/internal/errors"
)

// DefaultCommandTimeout bounds a single command when the caller's context
// carries no deadline.
const DefaultCommandTimeout = 15 * time.Second

// Runner executes a command and returns its standard output.
type Runner interface {
	Run(ctx context.Context, argv ...string) (string, error)
}

// System runs commands on the local host via os/exec.
type System struct {
	// Timeout overrides DefaultCommandTimeout. Zero uses the default.
	Timeout time.Duration
}

// Run executes argv[0] with the remaining arguments. A non-zero exit or a
// failure to start is reported as *errors.CommandError.
func (s *System) Run(ctx context.Context, argv ...string) (string, error) {
	if len(argv) == 0 {
		return "", errors.NewValidationError("empty command").WithField("argv")
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stdout.String(), errors.NewCommandError(argv, exitErr.ExitCode(), stderr.String())
		}
		return stdout.String(), errors.NewCommandError(argv, -1, stderr.String()).WithCause(err)
	}

	return stdout.String(), nil
}

// String renders argv the way it would be typed in a shell, for logs.
func String(argv []string) string {
	return strings.Join(argv, " ")
}
