// Command rctop is a full-screen terminal dashboard for CPU, memory, disk and
// network usage of the local machine.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Guliveer/rctop/internal/config"
)

// version is set at build time via ldflags.
var version = "dev"

type options struct {
	configPath  string
	interval    time.Duration
	refresh     time.Duration
	logLevel    string
	logFile     string
	printConfig bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "rctop: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "rctop",
		Short: "Live terminal dashboard of local system resources",
		Long: `rctop shows per-core CPU load, memory, disk and network usage of the
local machine in a full-screen terminal view, refreshed every second.

Press q, Esc or Ctrl+C to quit. Ctrl+L redraws the screen.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			if opts.printConfig {
				return cfg.Dump(cmd.OutOrStdout())
			}

			logger, closeLog, err := initLogger(cfg)
			if err != nil {
				return &startupError{err: err}
			}
			defer closeLog()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runDashboard(ctx, cfg, logger)
		},
	}
	cmd.SetVersionTemplate("rctop {{.Version}}\n")

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "Path to config file (default: auto-discover)")
	f.DurationVar(&opts.interval, "interval", 0, "Sampling interval (e.g. 500ms, 2s)")
	f.DurationVar(&opts.refresh, "refresh", 0, "Screen refresh interval")
	f.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	f.StringVar(&opts.logFile, "log-file", "", "Write JSON logs to this file (default: no logging)")
	f.BoolVar(&opts.printConfig, "print-config", false, "Print the effective configuration and exit")
	return cmd
}

// loadConfig applies flags over environment, file and defaults and validates
// the result.
func loadConfig(cmd *cobra.Command, opts options) (*config.Config, error) {
	cli := config.CLIOverrides{
		Interval: opts.interval,
		Refresh:  opts.refresh,
		LogLevel: opts.logLevel,
		LogFile:  opts.logFile,
	}

	var (
		cfg *config.Config
		err error
	)
	if cmd.Flags().Changed("config") {
		cfg, err = config.LoadLayered(cli, opts.configPath)
	} else {
		cfg, err = config.LoadLayered(cli)
	}
	if err != nil {
		return nil, &startupError{err: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, &startupError{err: fmt.Errorf("invalid configuration: %w", err)}
	}
	return cfg, nil
}
