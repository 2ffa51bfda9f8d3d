package main

import (
	"context"
	"fmt"
	"os"

	"church_roster/internal/platform/config"
	"church_roster/internal/platform/logger"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
)

const programName = "church-roster"

type ctxKey string

const configContextKey ctxKey = "church_roster.config"

var globalFlags = struct {
	debug bool
}{}

func configFromContext(ctx context.Context) *config.Config {
	cfg, ok := ctx.Value(configContextKey).(*config.Config)
	if !ok {
		return nil
	}
	return cfg
}

// commonRun configures logging and GOMAXPROCS for every subcommand.
func commonRun(cfg *config.Config) {
	level := cfg.LogLevel
	if globalFlags.debug {
		level = "debug"
	}
	logger.Init(level, cfg.LogFormat)

	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, v ...any) {
		log.Debug().Str("component", programName).Msgf(format, v...)
	})); err != nil {
		log.Warn().Err(err).Msg("failed to set GOMAXPROCS")
	}
}

func main() {
	rootCmd := &cobra.Command{
		Use:          programName,
		Short:        "Church membership registry backend",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveRun(cmd.Context(), configFromContext(cmd.Context()))
		},
	}

	rootCmd.PersistentFlags().
		BoolVarP(&globalFlags.debug, "debug", "D", false, "enable debug logging")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		commonRun(cfg)
		cmd.SetContext(context.WithValue(cmd.Context(), configContextKey, cfg))
		return nil
	}

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(migrateCommand())
	rootCmd.AddCommand(createAdminCommand())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
