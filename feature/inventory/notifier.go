package inventory

import (
	"go.uber.org/zap"
)

// Config holds inventory settings.
type Config struct {
	// LowStockThreshold triggers low-stock warnings and is the default for the admin report.
	LowStockThreshold int `mapstructure:"low_stock_threshold" default:"5"`
	// SeedDemo fills an empty inventory with a small demo catalog at startup.
	SeedDemo bool `mapstructure:"seed_demo" default:"true"`
}

// LowStockNotifier warns whenever an add, update or sale leaves an item at or below threshold.
// Purged entries are reported once, by the event that emptied them.
func LowStockNotifier(threshold int, logger *zap.Logger) Observer {
	return func(ev Event) error {
		if ev.Type == EventDeleted {
			return nil
		}
		if ev.Item.Quantity <= threshold {
			logger.Warn("Low stock",
				zap.String("type", string(ev.Item.Kind)),
				zap.String("name", ev.Item.Name),
				zap.Int("remaining", ev.Item.Quantity),
				zap.Int("threshold", threshold),
			)
		}
		return nil
	}
}
