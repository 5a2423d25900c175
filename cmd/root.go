package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matiasbn/dj-wizard/internal/config"
	"github.com/matiasbn/dj-wizard/internal/logger"
	"github.com/matiasbn/dj-wizard/internal/version"
)

var (
	//nolint:gochecknoglobals // It is required for configuration initialization before the application starts.
	configFilenameFromFlag string

	//nolint:gochecknoglobals,lll // It is initialized once during the application's startup and shared across the command execution logic.
	appConfig *config.Config

	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	rootCmd = &cobra.Command{
		Use:   "dj-wizard",
		Short: "Automate music collection from the Soundeo catalog.",
		Long: `DJ Wizard maintains a prioritized download queue for the Soundeo catalog
and drains it within the account's daily download budget.

It can ingest listing pages and individual track URLs, follow tracked genres
for new releases, pair Spotify playlists with catalog tracks, mirror its
state to a Firestore backup, ship snapshots to IPFS, and clean duplicate
files in the download directory.`,
		Version:          version.Short(),
		SilenceUsage:     true,
		SilenceErrors:    true,
		PersistentPreRun: initConfig,
	}
)

// Execute runs the root command with signal-aware cancellation. The first
// SIGHUP, SIGINT, or SIGTERM cancels the context; running commands finish
// their current item and flush the state snapshot before returning.
func Execute() {
	signals := []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM}
	ctx, stop := signal.NotifyContext(context.Background(), signals...)

	defer func() {
		_ = logger.Logger().Sync()
	}()

	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	cobra.CheckErr(err)
}

//nolint:gochecknoinits // Cobra requires the init function to set up flags before the command is executed.
func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configFilenameFromFlag,
		"config",
		"c",
		"",
		fmt.Sprintf("path to the configuration file (default is '%s')",
			config.DefaultConfigFilename))

	rootCmd.PersistentFlags().String(
		"log-level",
		"",
		"log verbosity: debug, info, warn, or error.")
}

// initConfig loads the configuration file, overlays changed persistent
// flags, and initializes the logger. It runs before every subcommand.
func initConfig(cmd *cobra.Command, _ []string) {
	var err error

	appConfig, err = config.LoadConfig(configFilenameFromFlag)
	if err != nil {
		logger.Fatalf(cmd.Context(), "Failed to load configuration: %v", err)
	}

	if err = bindFlagsToConfig(cmd.Flags(), appConfig); err != nil {
		logger.Fatalf(cmd.Context(), "Invalid configuration: %v", err)
	}

	logger.SetLevel(appConfig.ParsedLogLevel)
}

// bindFlagsToConfig overlays changed command-line flags onto the loaded
// configuration and validates the result.
func bindFlagsToConfig(flags *pflag.FlagSet, cfg *config.Config) error {
	if flag := flags.Lookup("log-level"); flag != nil && flag.Changed {
		cfg.LogLevel = flag.Value.String()
	}

	return config.ValidateConfig(cfg)
}
