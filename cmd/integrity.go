package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"furniture-store/core/config"
	"furniture-store/core/logger"
	"furniture-store/core/middleware/auth"
	"furniture-store/feature/account"
	"furniture-store/feature/integrity"
	"furniture-store/feature/integrity/checks"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool
var jsonFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Perform integrity checks on storage and database",
	Long:  `Checks that the storage bucket has the cart and export folders, that the database schema matches the persisted records and that every saved cart has an owner.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return cmd.Help()
		}
		return runIntegrityChecks(cmd.Context(), true, true, true)
	},
}

// structureCmd represents the integrity structure command
var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Check and fix folder structure",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, false, false)
	},
}

// serverCmd represents the integrity server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Check the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, true, false)
	},
}

// cartsCmd represents the integrity carts command
var cartsCmd = &cobra.Command{
	Use:   "carts",
	Short: "Find saved carts whose owner no longer has an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, false, true)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(structureCmd, serverCmd, cartsCmd)

	structureCmd.Flags().BoolVar(&fixFlag, "fix", false, "Fix missing folders")
	serverCmd.Flags().BoolVar(&jsonFlag, "json", false, "Save the schema report as JSON")
}

func runIntegrityChecks(ctx context.Context, runStructure, runServer, runCarts bool) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	client, err := openStorage(ctx, cfg, logg)
	if err != nil {
		return err
	}

	db := openDatabase(cfg, logg)

	// accounts only survive a restart in the database, so without one every cart looks orphaned
	var users integrity.Directory
	if db != nil {
		if records, err := account.NewStore(db).LoadAll(ctx); err != nil {
			logg.Warn("Failed to load accounts", zap.Error(err))
		} else {
			registry := account.NewRegistry(cfg.Auth, auth.NewIssuer(cfg.Auth), logg)
			registry.Load(records)
			users = registry
		}
	}

	svc := integrity.NewService(client, cfg.Storage.Bucket, logg, db, users)

	if runStructure {
		logg.Info("Checking folder structure...")
		missing, err := svc.CheckStructure(ctx)
		if err != nil {
			return fmt.Errorf("structure check failed: %w", err)
		}

		switch {
		case len(missing) == 0:
			logg.Info("Structure is intact.")
		case fixFlag:
			logg.Warn("Missing folders detected", zap.Strings("missing", missing))
			if err := svc.FixStructure(ctx, missing); err != nil {
				return fmt.Errorf("failed to fix structure: %w", err)
			}
			logg.Info("Structure fixed successfully.")
		default:
			logg.Warn("Missing folders detected", zap.Strings("missing", missing))
			logg.Info("Run 'integrity structure --fix' to create missing folders.")
		}
	}

	if runServer {
		logg.Info("Checking database schema...", zap.String("driver", cfg.Database.Driver))
		if report, err := svc.CheckServer(); err != nil {
			logg.Error("Server schema check failed", zap.Error(err))
		} else if err := reportServer(logg, report); err != nil {
			return err
		}
	}

	if runCarts {
		if users == nil {
			logg.Warn("Saved cart check skipped: registered accounts are unavailable without the database")
			return nil
		}
		logg.Info("Checking saved carts...")
		orphaned, err := svc.CheckCarts(ctx)
		if err != nil {
			return fmt.Errorf("saved cart check failed: %w", err)
		}
		if len(orphaned) == 0 {
			logg.Info("Every saved cart has an owner.")
		}
		for _, o := range orphaned {
			logg.Warn("Orphaned cart", zap.String("object", o.Object), zap.String("email", o.Email))
		}
	}
	return nil
}

func reportServer(logg *zap.Logger, report *checks.ServerReport) error {
	if report.Matched {
		logg.Info("Database schema matches the persisted records.", zap.String("driver", report.Driver))
	} else {
		logg.Warn("Database schema drift found", zap.String("driver", report.Driver))
		for table, tbl := range report.Tables {
			if tbl.Status == "ok" {
				continue
			}
			if len(tbl.MissingColumns) > 0 {
				logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tbl.MissingColumns))
			}
			if len(tbl.TypeMismatches) > 0 {
				logg.Warn("Type Mismatches", zap.String("table", table), zap.Strings("mismatches", tbl.TypeMismatches))
			}
		}
		for _, e := range report.Errors {
			logg.Error("Inspection Error", zap.String("error", e))
		}
	}

	if !jsonFlag {
		return nil
	}
	filename := fmt.Sprintf("integrity_server_%d.json", time.Now().Unix())
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to save JSON file: %w", err)
	}
	logg.Info("Schema report saved", zap.String("file", filename))
	return nil
}
