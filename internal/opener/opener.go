// Package opener hands a portal URL to the desktop's default browser.
package opener

import (
	"context"
	"net/url"

	"github.com/kazu728/reauthfi/internal/errors"
	"github.com/kazu728/reauthfi/internal/shell"
)

// Opener opens a URL for the user.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// Command opens URLs by running a platform command such as open(1) or
// xdg-open(1) with the URL appended.
type Command struct {
	argv   []string
	runner shell.Runner
}

// NewCommand creates an Opener for argv. An empty argv yields an error from
// every Open call.
func NewCommand(argv []string, runner shell.Runner) *Command {
	return &Command{
		argv:   append([]string(nil), argv...),
		runner: runner,
	}
}

// Open validates rawURL and launches the opener command. Only absolute
// http(s) URLs are accepted, so a hostile portal cannot make the opener
// launch a local file or another URL scheme.
func (c *Command) Open(ctx context.Context, rawURL string) error {
	if len(c.argv) == 0 {
		return errors.Wrap(errors.ErrUnsupportedPlatform, "no opener command")
	}

	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.NewValidationError("portal URL must be an absolute http(s) URL").
			WithField("url").
			WithValue(rawURL)
	}

	argv := append(append([]string(nil), c.argv...), u.String())
	if _, err := c.runner.Run(ctx, argv...); err != nil {
		return errors.Wrap(err, "open portal")
	}
	return nil
}
