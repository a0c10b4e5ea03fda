// Command backfill-memberships creates the missing OWNER membership for every
// room whose creator has none, so legacy rooms pass membership-based access checks.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"
	"gorm.io/gorm"

	v1 "github.com/gov-dx-sandbox/home-inventory/v1"
	"github.com/gov-dx-sandbox/home-inventory/v1/services"
	"github.com/joho/godotenv"
)

var errDryRun = errors.New("dry run")

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("Membership backfill failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		timeout time.Duration
		dryRun  bool
		envFile string
	)

	flagSet := pflag.NewFlagSet("backfill-memberships", pflag.ContinueOnError)
	flagSet.DurationVar(&timeout, "timeout", 10*time.Minute, "maximum run time")
	flagSet.BoolVar(&dryRun, "dry-run", false, "report what would be created and roll back")
	flagSet.StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading configuration")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	_ = godotenv.Load(envFile)
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{AddSource: true})))

	db, err := v1.ConnectGormDB(v1.NewDatabaseConfig())
	if err != nil {
		return fmt.Errorf("failed to connect to GORM database: %w", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var result *services.BackfillResult
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = services.BackfillOwnerMemberships(ctx, tx)
		if err != nil {
			return err
		}
		if dryRun {
			return errDryRun
		}
		return nil
	})
	if err != nil && !errors.Is(err, errDryRun) {
		return err
	}

	slog.Info("Membership backfill complete",
		"created", result.Created,
		"skipped", result.Skipped,
		"total", result.Total,
		"dryRun", dryRun)
	return nil
}
