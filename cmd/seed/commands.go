package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"yoohoo/internal/auth"
	"yoohoo/internal/config"
	"yoohoo/internal/db"
	"yoohoo/internal/featureflags"
	"yoohoo/internal/logger"
	"yoohoo/internal/model"
	"yoohoo/internal/repository"
	"yoohoo/internal/service"
)

var (
	timeout time.Duration
	verbose bool
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "seed",
		Short:         "Operator tasks for the yoohoo.guru database and configuration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().DurationVar(&timeout, "timeout", time.Minute, "overall deadline for database work")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log SQL warnings")

	root.AddCommand(migrateCmd(), categoriesCmd(), flagsCmd(), adminHashCmd())
	return root
}

// withDB loads configuration, connects and hands the connection to fn.
func withDB(cmd *cobra.Command, fn func(ctx context.Context, gormDB *gorm.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if _, err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	gormDB, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseDSN, verbose)
	if err != nil {
		return err
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		defer sqlDB.Close()
	}
	return fn(ctx, gormDB)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update every table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, gormDB *gorm.DB) error {
				tables := model.All()
				if err := gormDB.WithContext(ctx).AutoMigrate(tables...); err != nil {
					return fmt.Errorf("auto-migrate: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Migrated %d tables\n", len(tables))
				return nil
			})
		},
	}
}

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Upsert the launch marketplace categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, gormDB *gorm.DB) error {
				if err := gormDB.WithContext(ctx).AutoMigrate(&model.Category{}, &model.CategoryRequirement{}); err != nil {
					return fmt.Errorf("auto-migrate: %w", err)
				}
				svc := service.NewCategoryService(repository.NewCategoryRepository(gormDB))
				n, err := svc.Seed(ctx)
				if err != nil {
					return fmt.Errorf("seed categories: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d categories\n", n)
				return nil
			})
		},
	}
}

func flagsCmd() *cobra.Command {
	var env string
	cmd := &cobra.Command{
		Use:   "flags",
		Short: "Print the effective feature flags for the current environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			if env == "" {
				env = os.Getenv("NODE_ENV")
			}
			if env == "" {
				env = "development"
			}
			printFlags(cmd, featureflags.FromEnv(os.Getenv, env))
			return nil
		},
	}
	cmd.Flags().StringVar(&env, "env", "", "environment name (default $NODE_ENV)")
	return cmd
}

func printFlags(cmd *cobra.Command, flags *featureflags.Registry) {
	for _, name := range flags.Names() {
		fmt.Fprintf(cmd.OutOrStdout(), "%-22s %t\n", name, flags.IsEnabled(name))
	}
}

func adminHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "admin-hash <key>",
		Short: "Print a bcrypt hash usable as ADMIN_KEY",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := auth.HashAdminKey(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}
}
