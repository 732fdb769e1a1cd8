// Command reauthfi detects a Wi-Fi captive portal and opens its login page.
package main

import (
	"os"

	"github.com/kazu728/reauthfi/internal/cmd"
	"github.com/kazu728/reauthfi/internal/console"
)

func main() {
	if err := cmd.Execute(); err != nil {
		console.New(os.Stderr, cmd.ErrorPalette(os.Stderr), false).Error(err)
		os.Exit(1)
	}
}
