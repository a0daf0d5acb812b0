package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"furniture-store/core/config"
	"furniture-store/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var thresholdFlag int

// stockCmd groups inventory inspection commands.
var stockCmd = &cobra.Command{
	Use:   "stock",
	Short: "Inspect the furniture inventory",
}

// stockListCmd prints every stocked item.
var stockListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every item in stock",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, _, err := loadOffline(cmd)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TYPE\tNAME\tPRICE\tDISCOUNTED\tQUANTITY")
		for _, it := range rt.inventory.All() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
				it.Kind, it.Name, it.Price.StringFixed(2), it.PriceWithDiscount().StringFixed(2), it.Quantity)
		}
		return w.Flush()
	},
}

// stockLowCmd reports items running out of stock.
var stockLowCmd = &cobra.Command{
	Use:   "low",
	Short: "Report items whose quantity is below the threshold",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, cfg, err := loadOffline(cmd)
		if err != nil {
			return err
		}

		threshold := thresholdFlag
		if !cmd.Flags().Changed("threshold") {
			threshold = cfg.Inventory.LowStockThreshold
		}

		low := rt.inventory.CheckLowStock(threshold)
		fmt.Printf("\n=== Low Stock (below %d) ===\n", threshold)
		if len(low) == 0 {
			fmt.Println("All items are sufficiently stocked.")
			return nil
		}
		for _, l := range low {
			fmt.Printf("%s %q: %d remaining\n", l.Item.Kind, l.Item.Name, l.Remaining)
		}
		return nil
	},
}

// loadOffline restores state for a one-shot command without serving HTTP.
func loadOffline(cmd *cobra.Command) (*runtime, *config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	zap.ReplaceGlobals(logg)

	// one-shot commands never write the demo catalog into a real database
	db := openDatabase(cfg, logg)
	rt, err := loadState(cmd.Context(), cfg, logg, db, nil, cfg.Inventory.SeedDemo && db == nil)
	if err != nil {
		return nil, nil, err
	}
	return rt, cfg, nil
}

func init() {
	RootCmd.AddCommand(stockCmd)
	stockCmd.AddCommand(stockListCmd, stockLowCmd)

	stockLowCmd.Flags().IntVar(&thresholdFlag, "threshold", 5, "Report items with fewer units than this")
}
