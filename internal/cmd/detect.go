package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kazu728/reauthfi/internal/config"
	"github.com/kazu728/reauthfi/internal/console"
	"github.com/kazu728/reauthfi/internal/detect"
	"github.com/kazu728/reauthfi/internal/engine"
	"github.com/kazu728/reauthfi/internal/event"
	"github.com/kazu728/reauthfi/internal/logging"
	"github.com/kazu728/reauthfi/internal/platform"
	"github.com/kazu728/reauthfi/internal/progress"
	"github.com/kazu728/reauthfi/internal/shell"
	"github.com/kazu728/reauthfi/internal/styles"
	"github.com/kazu728/reauthfi/internal/wifi"
)

// runFlags are the root command flags without a config key.
type runFlags struct {
	verbose    bool
	noProgress bool
}

func runDetect(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var flags runFlags
	flags.verbose, _ = cmd.Flags().GetBool("verbose")
	flags.noProgress, _ = cmd.Flags().GetBool("no-progress")

	plat, err := platform.Current()
	if err != nil {
		return err
	}
	plat = plat.WithExtraEndpoints(cfg.Detection.ExtraEndpoints)

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	out := cmd.OutOrStdout()
	tty := isTerminal(out)

	var consoleOpts []console.Option
	if f, ok := out.(*os.File); ok && tty {
		consoleOpts = append(consoleOpts, console.WithWidth(console.TerminalWidth(f)))
	}
	renderer := console.New(out, styles.New(out, cfg.UI.Color), flags.verbose, consoleOpts...)

	bus := event.NewBus(logger)
	detach := renderer.Attach(bus)
	defer detach()

	// SIGINT/SIGTERM only raise the cancel flag. Probes already in flight
	// finish; the pass stops at the next probe boundary.
	sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cancel := detect.NewCancelFlag()
	unwatch := cancel.Watch(sigCtx)
	defer unwatch()

	opts := detectOptions(cfg, flags, tty)
	runner := &shell.System{Timeout: opts.Timeout}
	tracker := progress.New(out, cfg.UI.Color)

	deps := engine.Deps{
		Platform: plat,
		Runner:   runner,
		Wifi:     wifi.NewNetworksetup(runner, wifi.WithSettleDelay(cfg.Recovery.SettleDelay)),
		Cancel:   cancel,
		Bus:      bus,
		Logger:   logger,
		Track: func(label string, run func()) {
			tracker.Track(label, opts.Timeout, run)
		},
		// The reconnect wait is the one step an interrupt cuts short.
		Sleep: func(_ context.Context, d time.Duration) error {
			return wifi.Sleep(sigCtx, d)
		},
	}

	_, err = engine.Run(context.WithoutCancel(sigCtx), deps, opts)
	return err
}

// detectOptions merges the resolved configuration with the flags that have
// no config key. Progress needs a terminal.
func detectOptions(cfg *config.Config, flags runFlags, tty bool) engine.Options {
	return engine.Options{
		Verbose:        flags.verbose,
		NoOpen:         cfg.Detection.NoOpen,
		Gateway:        cfg.Detection.GatewayFirst,
		Timeout:        cfg.Detection.Timeout(),
		Progress:       cfg.UI.Progress && !flags.noProgress && tty,
		Recovery:       cfg.Recovery.Enabled,
		ReconnectDelay: cfg.Recovery.ReconnectDelay,
	}
}

func newLogger(cfg config.LoggingConfig) (*logging.Logger, error) {
	if !cfg.Enabled {
		return logging.NopLogger(), nil
	}
	return logging.NewLogger(logging.Options{
		Path:       cfg.ResolveFile(),
		Level:      cfg.Level,
		MaxSizeMB:  cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && console.IsTerminal(f)
}
