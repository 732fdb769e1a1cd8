package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/kazu728/reauthfi/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify reauthfi configuration",
	Long: `View or modify reauthfi configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the config file.

Keys use dot notation, e.g.:
  reauthfi config set detection.timeout_seconds 5
  reauthfi config set recovery.reconnect_delay 15s
  reauthfi config set logging.enabled true

detection.extra_endpoints is a list; edit the config file to change it.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a config file at ~/.config/reauthfi/config.yaml with every option at its default.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if used := viper.ConfigFileUsed(); used != "" {
		if _, statErr := os.Stat(used); statErr == nil {
			fmt.Fprintf(out, "# Config file: %s\n", used)
		} else {
			fmt.Fprintf(out, "# Config file: %s (not found - using defaults)\n", used)
		}
	} else {
		fmt.Fprintln(out, "# Config file: (none - using defaults)")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	_, err = out.Write(data)
	return err
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, raw := args[0], args[1]

	if key == "config" || key == "detection.extra_endpoints" || !slices.Contains(viper.AllKeys(), key) {
		return fmt.Errorf("unknown configuration key: %s\nRun 'reauthfi config set --help' to see how keys are named", key)
	}

	previous := viper.Get(key)
	value, err := parseConfigValue(previous, raw)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	viper.Set(key, value)
	cfg, err := config.Load()
	if err != nil {
		viper.Set(key, previous)
		return err
	}

	path := configTarget()
	if err := writeConfig(path, cfg); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %v\n", key, value)
	fmt.Fprintf(cmd.OutOrStdout(), "Config saved to %s\n", path)
	return nil
}

// parseConfigValue converts raw to the type of the key's current value.
func parseConfigValue(current any, raw string) (any, error) {
	switch current.(type) {
	case bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("expected true or false")
		}
		return b, nil
	case int, int64:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("expected integer")
		}
		return n, nil
	case time.Duration:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("expected a duration such as 10s")
		}
		return d, nil
	default:
		return raw, nil
	}
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := configTarget()

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'reauthfi config set' to modify values", path)
	}

	if err := writeConfig(path, config.Default()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created config file at %s\n", path)
	fmt.Fprintln(cmd.OutOrStdout(), "Edit this file to customize reauthfi's behavior.")
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(out, "Active config: %s\n", used)
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", config.ConfigFile())
	}

	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", config.ConfigFile())
	fmt.Fprintln(out, "  2. $HOME/.config/reauthfi/config.yaml")
	fmt.Fprintln(out, "\nEnvironment variables: REAUTHFI_* (e.g., REAUTHFI_DETECTION_TIMEOUT_SECONDS)")
	return nil
}

const configHeader = `# reauthfi configuration
# Durations use Go syntax (2s, 1m30s). Extra endpoints are probed after the
# built-in ones, e.g.:
#   extra_endpoints:
#     - name: Firefox
#       url: http://detectportal.firefox.com/success.txt
`

func writeConfig(path string, cfg *config.Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(configHeader)
	sb.Write(data)

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
