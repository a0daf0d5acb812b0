package cart

import "github.com/shopspring/decimal"

// Config holds cart pricing policy.
type Config struct {
	// TaxRate is the percentage added by TotalWithTax.
	TaxRate float64 `mapstructure:"tax_rate" default:"0"`
	// PromoThreshold is the discounted subtotal from which the cart promotion applies.
	PromoThreshold float64 `mapstructure:"promo_threshold" default:"2000"`
	// PromoPercent is taken off the discounted subtotal once it reaches PromoThreshold. Zero disables it.
	PromoPercent float64 `mapstructure:"promo_percent" default:"5"`
}

// Promotion returns the cart-wide promotion described by cfg.
func (cfg Config) Promotion() Promotion {
	return Promotion{
		Threshold: decimal.NewFromFloat(cfg.PromoThreshold),
		Percent:   decimal.NewFromFloat(cfg.PromoPercent),
	}
}
