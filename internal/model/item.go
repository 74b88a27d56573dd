package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Item is one allocatable line. Budget, Quantity and UnitCost are kept
// consistent by the ledger in the direction of the last edit: a budget edit
// recomputes Quantity by floor division, a quantity or unit-cost edit
// recomputes Budget rounded to cents.
type Item struct {
	Name     string
	Budget   decimal.Decimal
	Min      decimal.Decimal
	Max      decimal.Decimal
	Quantity decimal.Decimal
	UnitCost decimal.Decimal
}

// NewDefaultItem returns an empty item as created for custom groups.
func NewDefaultItem(name string) Item {
	return Item{
		Name:     name,
		Budget:   decimal.Zero,
		Min:      decimal.Zero,
		Max:      DefaultItemMax,
		Quantity: decimal.Zero,
		UnitCost: DefaultUnitCost,
	}
}

// CustomItemName is the label of the i-th (0-based) default item.
func CustomItemName(i int) string {
	return fmt.Sprintf("Custom Item %d", i+1)
}
