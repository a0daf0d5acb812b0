package cmd

import (
	"fmt"
	"os"

	"furniture-store/feature/order"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var outFlag string

// ordersCmd groups order administration commands.
var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Administer placed orders",
}

// ordersExportCmd writes every order as CSV, either to a local file or to object storage.
var ordersExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all orders as CSV",
	Long:  `Exports every order to the storage bucket, or to a local file with --out.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, cfg, err := loadOffline(cmd)
		if err != nil {
			return err
		}
		orders := rt.book.All()

		if outFlag != "" {
			f, err := os.Create(outFlag)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", outFlag, err)
			}
			defer f.Close()
			if err := order.WriteCSV(f, orders); err != nil {
				return fmt.Errorf("failed to write orders: %w", err)
			}
			zap.L().Info("Orders exported", zap.String("file", outFlag), zap.Int("orders", len(orders)))
			return nil
		}

		client, err := openStorage(cmd.Context(), cfg, zap.L())
		if err != nil {
			return err
		}
		name, err := order.NewExporter(client, cfg.Storage.Bucket).Export(cmd.Context(), orders)
		if err != nil {
			return err
		}
		zap.L().Info("Orders exported", zap.String("object", name), zap.Int("orders", len(orders)))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(ordersCmd)
	ordersCmd.AddCommand(ordersExportCmd)

	ordersExportCmd.Flags().StringVar(&outFlag, "out", "", "Write to this local file instead of the storage bucket")
}
