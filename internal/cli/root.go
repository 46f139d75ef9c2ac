package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kevinfinalboss/replicator/internal/config"
	"github.com/kevinfinalboss/replicator/internal/logger"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	language string
	logLevel string
	dryRun   bool
	version  = "dev"
	log      *logger.Logger
	cfg      *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "replicator",
	Short: "Replicates container images from a manifest into Amazon ECR",
	Long: `Replicator reads a manifest of container images, creates the destination ECR
repositories and access policies on demand and copies every image that is not
already present in the target registry.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if language != "" {
			cfg.Settings.Language = language
		}
		if logLevel != "" {
			cfg.Settings.LogLevel = logLevel
		}
		if cmd.Flags().Changed("dry-run") {
			cfg.Settings.DryRun = dryRun
		}

		log = logger.NewWithConfig(cfg)

		if path, err := config.ResolvePath(cfgFile); err == nil {
			if config.Exists(path) {
				log.Info("config_loaded").Str("file", path).Send()
			} else {
				log.Warn("config_not_found").Str("file", path).Send()
			}
		}

		log.Info("app_started").
			Str("version", version).
			Str("language", cfg.Settings.Language).
			Bool("dry_run", cfg.Settings.DryRun).
			Send()

		return nil
	},
}

func SetVersion(v string) {
	version = v
}

// Execute runs the root command with a context canceled on SIGINT/SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		if log != nil {
			log.Error("operation_failed").Err(err).Send()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.replicator/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&language, "language", "", "log language (en-US, pt-BR)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "check the registry without creating or transferring anything")

	addSubcommands()
}

func addSubcommands() {
	rootCmd.AddCommand(replicateCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(initCmd)
}
