package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	// Detection
	if cfg.Detection.TimeoutSeconds != 10 {
		t.Errorf("Detection.TimeoutSeconds = %d, want 10", cfg.Detection.TimeoutSeconds)
	}
	if cfg.Detection.GatewayFirst {
		t.Error("Detection.GatewayFirst should be false by default")
	}
	if cfg.Detection.NoOpen {
		t.Error("Detection.NoOpen should be false by default")
	}
	if len(cfg.Detection.ExtraEndpoints) != 0 {
		t.Errorf("Detection.ExtraEndpoints = %v, want empty", cfg.Detection.ExtraEndpoints)
	}

	// Recovery
	if !cfg.Recovery.Enabled {
		t.Error("Recovery.Enabled should be true by default")
	}
	if cfg.Recovery.SettleDelay != 2*time.Second {
		t.Errorf("Recovery.SettleDelay = %v, want 2s", cfg.Recovery.SettleDelay)
	}
	if cfg.Recovery.ReconnectDelay != 10*time.Second {
		t.Errorf("Recovery.ReconnectDelay = %v, want 10s", cfg.Recovery.ReconnectDelay)
	}

	// Logging
	if cfg.Logging.Enabled {
		t.Error("Logging.Enabled should be false by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}

	// UI
	if !cfg.UI.Progress || !cfg.UI.Color {
		t.Errorf("UI = %+v, want progress and color enabled", cfg.UI)
	}

	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("Default() does not validate: %v", ValidationErrors(errs))
	}
}

func TestDetectionConfig_Timeout(t *testing.T) {
	cfg := DetectionConfig{TimeoutSeconds: 7}
	if got := cfg.Timeout(); got != 7*time.Second {
		t.Errorf("Timeout() = %v, want 7s", got)
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		if got := ConfigDir(); got != "/custom/config/reauthfi" {
			t.Errorf("ConfigDir() = %q, want %q", got, "/custom/config/reauthfi")
		}
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, _ := os.UserHomeDir()
		want := filepath.Join(home, ".config", "reauthfi")
		if got := ConfigDir(); got != want {
			t.Errorf("ConfigDir() = %q, want %q", got, want)
		}
	})
}

func TestConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	if got := ConfigFile(); got != "/custom/config/reauthfi/config.yaml" {
		t.Errorf("ConfigFile() = %q", got)
	}
}

func TestLoggingConfig_ResolveFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	home, _ := os.UserHomeDir()

	tests := []struct {
		name string
		file string
		want string
	}{
		{"default", "", "/xdg/reauthfi/reauthfi.log"},
		{"absolute", "/var/log/reauthfi.log", "/var/log/reauthfi.log"},
		{"relative to config dir", "logs/debug.log", "/xdg/reauthfi/logs/debug.log"},
		{"home", "~/reauthfi.log", filepath.Join(home, "reauthfi.log")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := LoggingConfig{File: tt.file}
			if got := cfg.ResolveFile(); got != tt.want {
				t.Errorf("ResolveFile() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Detection.TimeoutSeconds != 10 || cfg.Recovery.ReconnectDelay != 10*time.Second {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoad_File(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `detection:
  timeout_seconds: 5
  gateway_first: true
  extra_endpoints:
    - name: Firefox
      url: http://detectportal.firefox.com/success.txt
    - name: Microsoft
      url: http://www.msftconnecttest.com/connecttest.txt
      expected_status: 200
recovery:
  enabled: false
  reconnect_delay: 15s
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig() error: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Detection.TimeoutSeconds != 5 || !cfg.Detection.GatewayFirst {
		t.Errorf("Detection = %+v", cfg.Detection)
	}
	if cfg.Recovery.Enabled || cfg.Recovery.ReconnectDelay != 15*time.Second {
		t.Errorf("Recovery = %+v", cfg.Recovery)
	}
	if cfg.Recovery.SettleDelay != 2*time.Second {
		t.Errorf("unset settle_delay = %v, want default 2s", cfg.Recovery.SettleDelay)
	}

	eps := cfg.Detection.ExtraEndpoints
	if len(eps) != 2 {
		t.Fatalf("ExtraEndpoints = %+v, want 2", eps)
	}
	if eps[0].Name != "Firefox" || eps[0].ExpectedStatus != nil {
		t.Errorf("ExtraEndpoints[0] = %+v", eps[0])
	}
	if eps[1].ExpectedStatus == nil || *eps[1].ExpectedStatus != 200 {
		t.Errorf("ExtraEndpoints[1].ExpectedStatus = %v, want 200", eps[1].ExpectedStatus)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	viper.Set("detection.timeout_seconds", 0)
	viper.Set("logging.level", "verbose")

	_, err := Load()
	errs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("Load() error = %T %v, want ValidationErrors", err, err)
	}
	if len(errs) != 2 {
		t.Errorf("got %d validation errors, want 2: %v", len(errs), errs)
	}
}

func TestDefault_YAMLRoundTrip(t *testing.T) {
	data, err := yaml.Marshal(Default())
	if err != nil {
		t.Fatalf("yaml.Marshal() error: %v", err)
	}

	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig() error: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v\n%s", err, data)
	}
	want := Default()
	if cfg.Recovery != want.Recovery || cfg.Logging != want.Logging || cfg.UI != want.UI {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", cfg, want)
	}
	if cfg.Detection.TimeoutSeconds != want.Detection.TimeoutSeconds {
		t.Errorf("Detection.TimeoutSeconds = %d", cfg.Detection.TimeoutSeconds)
	}
}
