package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"example.com/mafia/internal/app"
	"example.com/mafia/internal/config"
	"example.com/mafia/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalFlags struct {
	configFile string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:           "mafia",
		Short:         "Mafia game server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), flags)
		},
	}
	root.PersistentFlags().StringVar(&flags.configFile, "config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "overrides LOG_LEVEL")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the game server",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runServe(cmd.Context(), flags)
			},
		},
		newMigrateCmd(&flags),
	)
	return root
}

// setup loads configuration and builds the logger shared by every command.
func setup(flags globalFlags) (config.Config, *zap.Logger, error) {
	v := viper.New()
	if flags.configFile != "" {
		v.SetConfigFile(flags.configFile)
		if err := v.ReadInConfig(); err != nil {
			return config.Config{}, nil, fmt.Errorf("read config: %w", err)
		}
	}
	if flags.logLevel != "" {
		v.Set("LOG_LEVEL", flags.logLevel)
	}

	cfg, err := config.Load(v)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, log.With(zap.String("env", cfg.Env)), nil
}

func runServe(parent context.Context, flags globalFlags) error {
	cfg, log, err := setup(flags)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", zap.Error(err))
		return err
	}
	return a.Run(ctx)
}
