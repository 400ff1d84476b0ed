package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"citydash/backend/libs/logging"
	"citydash/backend/services/dashboard-service/internal/app"
	"citydash/backend/services/dashboard-service/internal/auth"
	"citydash/backend/services/dashboard-service/internal/config"
	"citydash/backend/services/dashboard-service/internal/db"
)

var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serve := serveCmd()
	rootCmd := &cobra.Command{
		Use:           "dashboard-service",
		Short:         "Smart city dashboard backend",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	rootCmd.Flags().AddFlagSet(serve.Flags())
	rootCmd.AddCommand(serve)
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.NewLogger("dashboard-service")
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func serveCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and live dashboard feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			application, err := app.New(cfg, logger)
			if err != nil {
				logger.Error("failed to init dashboard service", zap.Error(err))
				return err
			}
			defer application.Close()

			if migrate {
				if err := application.Migrate(ctx); err != nil {
					logger.Error("migration failed", zap.Error(err))
					return err
				}
			}

			if err := application.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("dashboard service stopped with error", zap.Error(err))
				return err
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply the database schema before serving")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			sqlDB, err := db.NewPostgres(cfg.Database.DSN)
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			applied, err := db.Migrate(cmd.Context(), sqlDB)
			if err != nil {
				return err
			}
			logger.Info("schema migrated", zap.Strings("files", applied))
			return nil
		},
	}
}

func tokenCmd() *cobra.Command {
	var (
		scope string
		ttl   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token [subject]",
		Short: "Issue a bearer token for an automation workflow or operator",
		Long: `Issue a bearer token signed with the configured auth secret.

Examples:
  dashboard-service token n8n-stats --scope webhook
  dashboard-service token ops --ttl 12h`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Read()
			if err != nil {
				return err
			}
			token, err := auth.NewTokenService(cfg.Auth.Secret, ttl).GenerateToken(args[0], scope)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&scope, "scope", "", "free-form scope recorded in the token")
	cmd.Flags().DurationVar(&ttl, "ttl", auth.DefaultTokenTTL, "token lifetime")
	return cmd
}
