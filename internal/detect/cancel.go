package detect

import (
	"context"
	"sync/atomic"
)

// CancelFlag is a one-way switch polled between probes. It is safe to set
// from a signal handler goroutine while a pass is running. A nil flag is
// never set.
type CancelFlag struct {
	set atomic.Bool
}

// NewCancelFlag returns an unset flag.
func NewCancelFlag() *CancelFlag {
	return &CancelFlag{}
}

// Set marks the run as canceled. Further calls have no effect.
func (c *CancelFlag) Set() {
	c.set.Store(true)
}

// IsSet reports whether Set has been called.
func (c *CancelFlag) IsSet() bool {
	if c == nil {
		return false
	}
	return c.set.Load()
}

// Watch sets the flag once ctx is done. The returned function detaches the
// watcher; it reports false if the flag was already set by ctx.
func (c *CancelFlag) Watch(ctx context.Context) (stop func() bool) {
	return context.AfterFunc(ctx, c.Set)
}
