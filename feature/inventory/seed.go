package inventory

import (
	"furniture-store/feature/catalog"

	"github.com/shopspring/decimal"
)

// DemoCatalog is the starter stock loaded into an empty inventory when seeding is enabled.
func DemoCatalog() []catalog.Item {
	price := decimal.NewFromInt
	var items []catalog.Item
	add := func(it catalog.Item, err error) {
		if err == nil {
			items = append(items, it)
		}
	}

	add(catalog.NewChair("Oak Chair", price(120), 10, true))
	add(catalog.NewChair("Office Chair", price(250), 6, true))
	add(catalog.NewTable("Dining Table", price(800), 3, "Rectangle", true))
	add(catalog.NewTable("Coffee Table", price(150), 8, "Round", false))
	add(catalog.NewSofa("Corner Sofa", price(1400), 2, 5, true))
	add(catalog.NewBed("Queen Bed", price(950), 4, "Queen", true))
	add(catalog.NewWardrobe("Mirror Wardrobe", price(700), 3, 3, true))

	for i := range items {
		switch items[i].Name {
		case "Office Chair":
			items[i].Strategy = catalog.StrategyVIP
		case "Coffee Table":
			items[i].Strategy = catalog.StrategyClearance
		case "Queen Bed":
			items[i].Strategy = catalog.StrategyHoliday
		}
	}
	return items
}
