package cmd

import (
	"fmt"
	"os"

	"furniture-store/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "furniture-store",
	Short: "Furniture Store Service",
	Long: `Furniture Store runs the storefront API: catalog and inventory management,
shopping carts, checkout and order administration.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// configPath is where config.yaml and .env are looked up.
var configPath string

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// CLI errors are printed in console format with ISO8601 timestamps
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "Directory holding config.yaml and .env")
}
