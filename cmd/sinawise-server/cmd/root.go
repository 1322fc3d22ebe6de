package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sinawise/sinawise-server/internal/config"
	"github.com/sinawise/sinawise-server/internal/service/server"
	"github.com/sinawise/sinawise-server/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// databasePath where server data is persisted.
	databasePath string

	// rootCmd represents the base command for running the HTTP server.
	rootCmd = &cobra.Command{
		Use:   "sinawise-server [listen-address]",
		Short: "Run the volcano emergency alert server.",
		Long: `Starts the HTTP server that manages the emergency alert state, pushes
notifications to subscribed mobile clients and serves evacuation posts,
education videos and air-quality data.

The server listens on the configured address unless one is provided as an
argument (e.g., :9090, 0.0.0.0:8000). All data is persisted to a single
database file for recovery across restarts. Without push credentials the
server runs degraded: state changes succeed, delivery is reported as degraded.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use listen address argument if provided, otherwise rely on config.
			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			options := &server.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				DatabasePath:  databasePath,
			}

			return server.Run(ctx, options)
		},
	}
)

// Execute runs the sinawise-server CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().
		StringVarP(&databasePath, "database", "d", "", "path to the database file (overrides configuration)")
}
