package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JonMunkholm/kontenfilter/internal/config"
	"github.com/JonMunkholm/kontenfilter/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// commandContext carries state shared by every subcommand.
type commandContext struct {
	envFile string
	cfg     *config.Config
}

// ensureConfig loads the env file (when present) and the configuration once.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	if c.envFile != "" {
		if err := godotenv.Load(c.envFile); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", c.envFile, err)
		}
	} else {
		// A missing default .env is fine.
		_ = godotenv.Load()
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	// Results go to stdout, logs to stderr.
	slog.SetDefault(logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format))
	c.cfg = cfg
	return cfg, nil
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "kontenfilter",
		Short:         "Filter spreadsheet rows by foreign script and keywords",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd == cmd.Root() {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&ctx.envFile, "env-file", "", "Load environment variables from this file before reading configuration")

	rootCmd.AddCommand(newPartitionCommand(ctx))
	rootCmd.AddCommand(newServeCommand(ctx))

	return rootCmd
}
