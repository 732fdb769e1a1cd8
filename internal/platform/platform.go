// Package platform holds the static, per-OS description of how captive
// portals are probed: which well-known endpoints to hit, how to find the
// default gateway, which gateway paths to try, and whether the Wi-Fi
// interface can be power-cycled for recovery.
package platform

import (
	"regexp"
	"runtime"

	"github.com/kazu728/reauthfi/internal/errors"
)

// Endpoint is a well-known connectivity-check URL.
type Endpoint struct {
	Name string `mapstructure:"name" yaml:"name"`
	URL  string `mapstructure:"url" yaml:"url"`
	// ExpectedStatus is the status code that signals clear internet access.
	// Nil means the endpoint signals success through its body instead.
	ExpectedStatus *int `mapstructure:"expected_status" yaml:"expected_status,omitempty"`
}

// Config describes one operating system. It is immutable once returned by
// ForOS; callers that need to extend it use WithExtraEndpoints.
type Config struct {
	Name               string
	DetectionEndpoints []Endpoint
	GatewayCommand     []string
	GatewayPattern     *regexp.Regexp
	GatewayPaths       []string
	SupportsWifiReset  bool
	OpenCommand        []string
}

// Status returns a pointer to code, for building Endpoint literals.
func Status(code int) *int {
	return &code
}

var defaultEndpoints = []Endpoint{
	{
		Name: "Apple",
		URL:  "http://captive.apple.com/hotspot-detect.html",
	},
	{
		Name:           "Google",
		URL:            "http://connectivitycheck.gstatic.com/generate_204",
		ExpectedStatus: Status(204),
	},
}

var (
	darwinGatewayPattern = regexp.MustCompile(`gateway:\s+(\d+\.\d+\.\d+\.\d+)`)
	linuxGatewayPattern  = regexp.MustCompile(`default via (\d+\.\d+\.\d+\.\d+)`)
)

// Darwin returns the macOS configuration.
func Darwin() *Config {
	return &Config{
		Name:               "darwin",
		DetectionEndpoints: append([]Endpoint(nil), defaultEndpoints...),
		GatewayCommand:     []string{"route", "-n", "get", "default"},
		GatewayPattern:     darwinGatewayPattern,
		GatewayPaths:       []string{"/"},
		SupportsWifiReset:  true,
		OpenCommand:        []string{"open"},
	}
}

// Linux returns a configuration for Linux desktops. Wi-Fi reset is not
// supported there because interface management differs per distribution.
func Linux() *Config {
	return &Config{
		Name:               "linux",
		DetectionEndpoints: append([]Endpoint(nil), defaultEndpoints...),
		GatewayCommand:     []string{"ip", "route", "show", "default"},
		GatewayPattern:     linuxGatewayPattern,
		GatewayPaths:       []string{"/"},
		SupportsWifiReset:  false,
		OpenCommand:        []string{"xdg-open"},
	}
}

// ForOS returns the configuration for goos, or ErrUnsupportedPlatform.
func ForOS(goos string) (*Config, error) {
	switch goos {
	case "darwin":
		return Darwin(), nil
	case "linux":
		return Linux(), nil
	default:
		return nil, errors.Wrapf(errors.ErrUnsupportedPlatform, "no probe configuration for %q", goos)
	}
}

// Current returns the configuration for the running OS.
func Current() (*Config, error) {
	return ForOS(runtime.GOOS)
}

// WithExtraEndpoints returns a copy of c whose detection endpoints are
// followed by extra. The receiver is left untouched.
func (c *Config) WithExtraEndpoints(extra []Endpoint) *Config {
	if len(extra) == 0 {
		return c
	}

	clone := *c
	clone.DetectionEndpoints = make([]Endpoint, 0, len(c.DetectionEndpoints)+len(extra))
	clone.DetectionEndpoints = append(clone.DetectionEndpoints, c.DetectionEndpoints...)
	clone.DetectionEndpoints = append(clone.DetectionEndpoints, extra...)
	return &clone
}
