package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kazu728/reauthfi/internal/config"
	"github.com/kazu728/reauthfi/internal/detect"
	"github.com/kazu728/reauthfi/internal/platform"
	"github.com/kazu728/reauthfi/internal/shell"
)

var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Print the default gateway address",
	Long: `Print the IPv4 address of the default gateway, resolved the same way
gateway detection does. Useful to check why gateway probes fail.`,
	Args: cobra.NoArgs,
	RunE: runGateway,
}

func init() {
	rootCmd.AddCommand(gatewayCmd)
}

func runGateway(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	plat, err := platform.Current()
	if err != nil {
		return err
	}

	runner := &shell.System{Timeout: cfg.Detection.Timeout()}
	ip, err := detect.GatewayIP(cmd.Context(), plat, runner)
	if err != nil {
		return fmt.Errorf("gateway lookup via %q failed: %w", shell.String(plat.GatewayCommand), err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), ip)
	return nil
}
