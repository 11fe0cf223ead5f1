package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/yukikurage/bug-journal-api/internal/config"
	"github.com/yukikurage/bug-journal-api/internal/logging"
)

var (
	// Global flags
	configPath string

	// Initialized in PersistentPreRunE
	cfg    *config.Config
	logger *slog.Logger
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "bug-journal",
	Short: "Bug Journal API server",
	Long: `Bug Journal records issues met during development, with tags,
reference links, attachments and suggested solutions.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		logger = logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
		slog.SetDefault(logger)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "optional YAML config file; environment variables take precedence")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}
