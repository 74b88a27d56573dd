// Package model defines the planner's domain types: items, groups and the
// item-store variant that holds a group's items.
package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Structural limits.
const (
	MaxCustomGroups      = 50
	MinItemsPerGroup     = 1
	MaxItemsPerGroup     = 20
	DefaultItemsPerGroup = 10

	// CustomGroupPrefix marks user-created groups. Groups whose id carries
	// it are resizable, renamable and deletable.
	CustomGroupPrefix = "custom_group_"
)

// Amount limits and defaults.
var (
	MaxTotalBudget     = decimal.New(1, 12)
	DefaultUnitCost    = decimal.New(1, 6)
	DefaultItemMax     = decimal.New(100, 9)
	DefaultBudgetLimit = decimal.New(143, 9)
)

// IsCustomID reports whether id names a custom group.
func IsCustomID(id string) bool {
	return strings.HasPrefix(id, CustomGroupPrefix)
}
