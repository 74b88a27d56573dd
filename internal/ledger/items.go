package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fsplan/internal/log"
	"github.com/theirongolddev/fsplan/internal/model"
	"github.com/theirongolddev/fsplan/internal/money"
)

// Amount arguments accept anything money.Parse does: decimals, numbers and
// strings such as "$1,250.00". Unparseable input counts as zero and
// negative input is clamped to zero.

// SetItemBudget sets an item's budget and derives its quantity as
// floor(budget / unitCost), or zero when the unit cost is zero.
func (l *Ledger) SetItemBudget(groupID string, key model.ItemKey, amount any) (Result, error) {
	budget := money.NonNegative(money.Parse(amount))
	return l.editItem("set_item_budget", groupID, key, func(it *model.Item) {
		it.Budget = budget
		it.Quantity = money.FloorDiv(budget, it.UnitCost)
	})
}

// SetItemQuantity sets a whole-unit quantity and derives the budget as
// quantity * unitCost rounded to cents.
func (l *Ledger) SetItemQuantity(groupID string, key model.ItemKey, quantity any) (Result, error) {
	q := money.Whole(money.Parse(quantity))
	return l.editItem("set_item_quantity", groupID, key, func(it *model.Item) {
		it.Quantity = q
		it.Budget = money.RoundCurrency(q.Mul(it.UnitCost))
	})
}

// SetItemUnitCost sets the unit cost, rounded to cents, and derives the
// budget from the current quantity.
func (l *Ledger) SetItemUnitCost(groupID string, key model.ItemKey, cost any) (Result, error) {
	c := money.RoundCurrency(money.NonNegative(money.Parse(cost)))
	return l.editItem("set_item_unit_cost", groupID, key, func(it *model.Item) {
		it.UnitCost = c
		it.Budget = money.RoundCurrency(it.Quantity.Mul(c))
	})
}

// SetItemBounds replaces an item's min/max slider bounds. Budget is not
// touched and min <= max is not enforced.
func (l *Ledger) SetItemBounds(groupID string, key model.ItemKey, lo, hi any) (Result, error) {
	minV := money.NonNegative(money.Parse(lo))
	maxV := money.NonNegative(money.Parse(hi))
	gi, it, err := l.lookup(groupID, key)
	if err != nil {
		return Result{}, err
	}
	it.Min, it.Max = minV, maxV
	l.groups[gi].Items.Set(key, it)
	return l.settle("set_item_bounds", false), nil
}

// RenameItem changes an item label. Only ordered item lists can be renamed
// since keyed items are addressed by their name.
func (l *Ledger) RenameItem(groupID string, index int, name string) (Result, error) {
	gi, err := l.find(groupID)
	if err != nil {
		return Result{}, err
	}
	g := &l.groups[gi]
	if !g.Items.Ordered() {
		return Result{}, fmt.Errorf("%w: %q", ErrNotOrderedGroup, groupID)
	}
	key := model.IndexKey(index)
	it, ok := g.Items.Get(key)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s/%d", ErrItemNotFound, groupID, index)
	}
	it.Name = name
	g.Items.Set(key, it)
	l.logger.Debug("item renamed", log.FieldGroupID, groupID, log.FieldItem, index)
	return Result{Total: l.total, Limit: l.limit}, nil
}

func (l *Ledger) lookup(groupID string, key model.ItemKey) (int, model.Item, error) {
	gi, err := l.find(groupID)
	if err != nil {
		return -1, model.Item{}, err
	}
	it, ok := l.groups[gi].Items.Get(key)
	if !ok {
		return -1, model.Item{}, fmt.Errorf("%w: %s/%s", ErrItemNotFound, groupID, key)
	}
	return gi, it, nil
}

// editItem applies fn to a copy of the item, stores it and settles. The
// edit is always applied; the limit only drives the returned signal.
func (l *Ledger) editItem(op, groupID string, key model.ItemKey, fn func(*model.Item)) (Result, error) {
	gi, it, err := l.lookup(groupID, key)
	if err != nil {
		return Result{}, err
	}
	before := it.Budget
	fn(&it)
	l.groups[gi].Items.Set(key, it)

	r := l.settle(op, true)
	l.logger.Debug("item updated",
		log.FieldOperation, op,
		log.FieldGroupID, groupID,
		log.FieldItem, key.String(),
		"budget_diff", it.Budget.Sub(before).String(),
		log.FieldTotal, r.Total.String())
	return r, nil
}

// SetBudgetLimit replaces the limit, clamped to [0, MaxTotalBudget]. Items
// are untouched. Lowering the limit below the total does not signal; the
// next item edit does.
func (l *Ledger) SetBudgetLimit(amount any) Result {
	l.limit = clampLimit(money.Parse(amount))
	l.logger.Debug("budget limit set", log.FieldLimit, l.limit.String())
	return l.settle("set_budget_limit", false)
}

// Projected returns what the total would be if the item's budget became
// amount, without changing anything.
func (l *Ledger) Projected(groupID string, key model.ItemKey, amount any) (decimal.Decimal, error) {
	_, it, err := l.lookup(groupID, key)
	if err != nil {
		return decimal.Zero, err
	}
	diff := money.NonNegative(money.Parse(amount)).Sub(it.Budget)
	return l.total.Add(diff), nil
}
