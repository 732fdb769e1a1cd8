// Package version holds build metadata injected through -ldflags, e.g.
//
//	go build -ldflags "-X github.com/kazu728/reauthfi/internal/version.Version=v0.3.0"
package version

import (
	"fmt"
	"runtime"
)

// These values are intended to be set at build time using -ldflags.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// String formats the build metadata for `reauthfi version`.
func String() string {
	return fmt.Sprintf("reauthfi %s (commit %s, built %s, %s/%s)",
		Version, Commit, BuildDate, runtime.GOOS, runtime.GOARCH)
}
