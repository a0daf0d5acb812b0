// Package catalog defines the sellable furniture items and their pricing rules.
//
// # Kinds
//
// The catalog is a closed set of kinds: Chair, Table, Sofa, Bed and Wardrobe. An Item
// carries the common attributes plus the kind-specific fields in Attributes; behaviour
// that differs per kind (discount bonus, detail line) is looked up in tables keyed by
// Kind rather than through separate types.
//
// # Pricing
//
// Every item is bound to a Strategy (none, holiday, vip, clearance) when it is created.
// The effective discount is the strategy's base percentage plus a kind bonus, capped
// at 50%:
//
//	Chair     +5 with armrests
//	Table     +10 when extendable
//	Sofa      +2 per seat
//	Bed       +15 with storage
//	Wardrobe  +3 per door
//
// PriceWithDiscount rounds to one decimal place. Prices use shopspring/decimal so cart
// and order totals never accumulate float error.
//
// # Usage
//
//	chair, err := catalog.NewChair("Oak Chair", decimal.NewFromInt(120), 5, true)
//	chair.Strategy = catalog.StrategyHoliday
//	fmt.Println(chair.PriceWithDiscount()) // 96
package catalog
