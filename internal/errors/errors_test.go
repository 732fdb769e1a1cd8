package errors

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

// -----------------------------------------------------------------------------
// SetupError Tests
// -----------------------------------------------------------------------------

func TestSetupError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *SetupError
		want string
	}{
		{
			name: "message only",
			err:  NewSetupError("failed to build http client", nil),
			want: "setup error: failed to build http client",
		},
		{
			name: "with component and cause",
			err:  NewSetupError("failed to build http client", New("bad proxy")).WithComponent("netclient"),
			want: "setup error [component=netclient]: failed to build http client: bad proxy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSetupError_Is(t *testing.T) {
	cause := New("boom")
	err := NewSetupError("x", cause)

	if !errors.Is(err, ErrSetup) {
		t.Error("errors.Is(SetupError, ErrSetup) = false, want true")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(SetupError, cause) = false, want true")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("errors.Is(SetupError, ErrNotFound) = true, want false")
	}
}

// -----------------------------------------------------------------------------
// CommandError Tests
// -----------------------------------------------------------------------------

func TestNewCommandError(t *testing.T) {
	tests := []struct {
		name     string
		argv     []string
		exitCode int
		stderr   string
		want     string
	}{
		{
			name:     "exit code with stderr",
			argv:     []string{"route", "-n", "get", "default"},
			exitCode: 1,
			stderr:   "  route: writing to routing socket: not in table\n",
			want:     "command failed [route -n get default]: exit code 1 (route: writing to routing socket: not in table)",
		},
		{
			name:     "exit code without stderr",
			argv:     []string{"networksetup"},
			exitCode: 4,
			want:     "command failed [networksetup]: exit code 4",
		},
		{
			name:     "signal",
			argv:     []string{"sleep", "60"},
			exitCode: -1,
			want:     "command failed [sleep 60]: terminated by signal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewCommandError(tt.argv, tt.exitCode, tt.stderr)
			if got := err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if err.ExitCode != tt.exitCode {
				t.Errorf("ExitCode = %d, want %d", err.ExitCode, tt.exitCode)
			}
			if !errors.Is(err, ErrCommandFailed) {
				t.Error("errors.Is(CommandError, ErrCommandFailed) = false, want true")
			}
		})
	}
}

func TestCommandError_As(t *testing.T) {
	wrapped := fmt.Errorf("gateway lookup: %w", NewCommandError([]string{"route"}, 2, "oops"))

	var cmdErr *CommandError
	if !errors.As(wrapped, &cmdErr) {
		t.Fatal("errors.As should find the CommandError")
	}
	if cmdErr.Stderr != "oops" {
		t.Errorf("Stderr = %q, want %q", cmdErr.Stderr, "oops")
	}
}

// -----------------------------------------------------------------------------
// Semantic Error Tests
// -----------------------------------------------------------------------------

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("gateway_ip", "route -n get default")

	if got, want := err.Error(), "gateway_ip not found: route -n get default"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("errors.Is(NotFoundError, ErrNotFound) = false, want true")
	}

	cause := New("no match")
	withCause := NewNotFoundError("wifi_device", "").WithCause(cause)
	if got, want := withCause.Error(), "wifi_device not found: no match"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("must be positive").WithField("detection.timeout_seconds").WithValue(0)

	want := "validation error [field=detection.timeout_seconds, value=0]: must be positive"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("errors.Is(ValidationError, ErrInvalidInput) = false, want true")
	}
}

func TestTimeoutError(t *testing.T) {
	err := NewTimeoutError("probing Apple", 10*time.Second)

	if got, want := err.Error(), "timeout error: probing Apple (timeout: 10s)"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrTimeout) {
		t.Error("errors.Is(TimeoutError, ErrTimeout) = false, want true")
	}

	cause := New("context deadline exceeded")
	withCause := NewTimeoutError("Apple", 10*time.Second).WithCause(cause)
	if !errors.Is(withCause, cause) {
		t.Error("errors.Is(TimeoutError, cause) = false, want true")
	}
	if got, want := withCause.Error(), "timeout error: Apple (timeout: 10s): context deadline exceeded"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "x") != nil {
		t.Error("Wrap(nil) should return nil")
	}
	if Wrapf(nil, "x %d", 1) != nil {
		t.Error("Wrapf(nil) should return nil")
	}

	err := Wrapf(ErrNotFound, "device %s", "en0")
	if got, want := err.Error(), "device en0: not found"; got != want {
		t.Errorf("Wrapf() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("wrapped error should match ErrNotFound")
	}
}
