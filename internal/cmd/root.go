package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kazu728/reauthfi/internal/config"
	"github.com/kazu728/reauthfi/internal/console"
	"github.com/kazu728/reauthfi/internal/styles"
)

var rootCmd = &cobra.Command{
	Use:   "reauthfi",
	Short: "Detect a Wi-Fi captive portal and open its login page",
	Long: `reauthfi probes well-known connectivity-check endpoints and the default
gateway to find the captive portal of the network you just joined, then
opens its login page in the browser.

When the network is not ready yet, the Wi-Fi interface is power-cycled once
and detection is retried.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDetect,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ErrorPalette returns the palette for a fatal error printed to w. It
// honors ui.color and stays plain when w is not a terminal.
func ErrorPalette(w *os.File) styles.Palette {
	return styles.New(w, errorColor(console.IsTerminal(w)))
}

// errorColor works before the config is loaded: flag errors surface before
// initConfig runs, so the default applies when ui.color is unset.
func errorColor(tty bool) bool {
	color := config.Default().UI.Color
	if viper.IsSet("ui.color") {
		color = viper.GetBool("ui.color")
	}
	return color && tty
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/reauthfi/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	// Detection flags; config keys back the ones that have one
	rootCmd.Flags().BoolP("verbose", "v", false, "show every probe and its outcome")
	rootCmd.Flags().Bool("no-open", false, "report the portal URL without opening the browser")
	rootCmd.Flags().Bool("gateway", false, "probe the default gateway before the well-known endpoints")
	rootCmd.Flags().Int("timeout", config.Default().Detection.TimeoutSeconds, "per-request timeout in seconds")
	rootCmd.Flags().Bool("no-progress", false, "disable the progress bar")

	_ = viper.BindPFlag("detection.no_open", rootCmd.Flags().Lookup("no-open"))
	_ = viper.BindPFlag("detection.gateway_first", rootCmd.Flags().Lookup("gateway"))
	_ = viper.BindPFlag("detection.timeout_seconds", rootCmd.Flags().Lookup("timeout"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/reauthfi")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("REAUTHFI")
	// e.g., REAUTHFI_DETECTION_TIMEOUT_SECONDS for detection.timeout_seconds
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

// configTarget is the file written by `config init` and `config set`.
func configTarget() string {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		return cfgFile
	}
	return config.ConfigFile()
}
