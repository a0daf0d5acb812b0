package catalog

import (
	"strings"

	"furniture-store/core/apperror"

	"github.com/shopspring/decimal"
)

// Strategy is the base discount policy bound to an item.
type Strategy string

const (
	StrategyNone      Strategy = "none"
	StrategyHoliday   Strategy = "holiday"
	StrategyVIP       Strategy = "vip"
	StrategyClearance Strategy = "clearance"
)

// MaxDiscountPercent caps base plus kind bonus.
const MaxDiscountPercent = 50

var strategyPercent = map[Strategy]int64{
	StrategyNone:      0,
	StrategyHoliday:   15,
	StrategyVIP:       20,
	StrategyClearance: 30,
}

// ParseStrategy resolves a strategy name. An empty name means StrategyNone.
func ParseStrategy(s string) (Strategy, error) {
	st := Strategy(strings.ToLower(strings.TrimSpace(s)))
	if st == "" {
		return StrategyNone, nil
	}
	if _, ok := strategyPercent[st]; !ok {
		return "", apperror.Validation("unknown discount strategy %q", s)
	}
	return st, nil
}

// Percent is the base discount of the strategy. Unknown strategies discount nothing.
func (s Strategy) Percent() decimal.Decimal {
	return decimal.NewFromInt(strategyPercent[s])
}

// bonusFunc returns the extra discount percent an item earns from its kind attributes.
type bonusFunc func(Item) decimal.Decimal

var kindBonus = map[Kind]bonusFunc{
	KindChair: func(it Item) decimal.Decimal {
		return flag(it.HasArmrests, 5)
	},
	KindTable: func(it Item) decimal.Decimal {
		return flag(it.IsExtendable, 10)
	},
	KindSofa: func(it Item) decimal.Decimal {
		return decimal.NewFromInt(int64(it.NumSeats) * 2)
	},
	KindBed: func(it Item) decimal.Decimal {
		return flag(it.HasStorage, 15)
	},
	KindWardrobe: func(it Item) decimal.Decimal {
		return decimal.NewFromInt(int64(it.NumDoors) * 3)
	},
}

func flag(on bool, percent int64) decimal.Decimal {
	if on {
		return decimal.NewFromInt(percent)
	}
	return decimal.Zero
}

// ComputeDiscount returns the discount percent for item: strategy base plus kind bonus,
// capped at MaxDiscountPercent.
func ComputeDiscount(item Item) decimal.Decimal {
	total := item.Strategy.Percent()
	if bonus, ok := kindBonus[item.Kind]; ok {
		total = total.Add(bonus(item))
	}
	return decimal.Min(total, decimal.NewFromInt(MaxDiscountPercent))
}
