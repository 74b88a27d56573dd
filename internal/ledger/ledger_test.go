package ledger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/fsplan/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func item(name, budget, unitCost string) model.Item {
	it := model.NewDefaultItem(name)
	it.Budget = dec(budget)
	it.UnitCost = dec(unitCost)
	return it
}

// fixture: one keyed template group with one item at unit cost 100.
func newTestLedger(t *testing.T, limit string) *Ledger {
	t.Helper()
	groups := []model.Group{{
		ID:    "army",
		Name:  "Army",
		Items: model.NewKeyedStore(item("Tanks", "0", "100")),
	}}
	l, err := New(groups, dec(limit))
	require.NoError(t, err)
	return l
}

// sumFromScratch recomputes the total independently of the ledger.
func sumFromScratch(l *Ledger) decimal.Decimal {
	total := decimal.Zero
	for _, g := range l.Groups() {
		g.Items.Each(func(_ model.ItemKey, it model.Item) {
			total = total.Add(it.Budget)
		})
	}
	return total
}

var tanks = model.NameKey("Tanks")

func TestNewDerivesTotal(t *testing.T) {
	groups := []model.Group{
		{ID: "a", Items: model.NewKeyedStore(item("x", "10", "1"), item("y", "5.5", "1"))},
		{ID: "b", Items: model.NewListStore(item("z", "4.5", "1"))},
	}
	l, err := New(groups, dec("100"))
	require.NoError(t, err)
	assert.Equal(t, "20", l.Total().String())
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, 0, l.CustomGroupCount())
}

func TestNewRejectsDuplicateIDs(t *testing.T) {
	groups := []model.Group{{ID: "a"}, {ID: "a"}}
	_, err := New(groups, dec("1"))
	assert.ErrorIs(t, err, ErrDuplicateGroup)
}

func TestNewClampsLimit(t *testing.T) {
	l, err := New(nil, dec("5e12"))
	require.NoError(t, err)
	assert.True(t, l.Limit().Equal(model.MaxTotalBudget))

	l, err = New(nil, dec("-3"))
	require.NoError(t, err)
	assert.True(t, l.Limit().IsZero())
}

func TestNewDoesNotAliasInput(t *testing.T) {
	groups := []model.Group{{ID: "a", Items: model.NewListStore(item("x", "1", "1"))}}
	l, err := New(groups, dec("10"))
	require.NoError(t, err)
	groups[0].Items.Set(model.IndexKey(0), item("x", "9", "1"))
	assert.Equal(t, "1", l.Total().String())
}

func TestSetItemBudgetExample(t *testing.T) {
	l := newTestLedger(t, "1000")

	r, err := l.SetItemBudget("army", tanks, "950")
	require.NoError(t, err)
	assert.Equal(t, SignalNone, r.Signal)
	it, _ := l.Item("army", tanks)
	assert.Equal(t, "9", it.Quantity.String())
	assert.Equal(t, "950", l.Total().String())

	r, err = l.SetItemBudget("army", tanks, 1050)
	require.NoError(t, err)
	assert.Equal(t, SignalOverLimit, r.Signal)
	it, _ = l.Item("army", tanks)
	assert.Equal(t, "10", it.Quantity.String())
	assert.Equal(t, "1050", it.Budget.String(), "over-limit edits are applied")
	assert.Equal(t, "1050", r.Total.String())
	assert.True(t, l.Warned())
}

func TestSetItemBudgetZeroUnitCost(t *testing.T) {
	l := newTestLedger(t, "1000")
	_, err := l.SetItemUnitCost("army", tanks, 0)
	require.NoError(t, err)
	_, err = l.SetItemBudget("army", tanks, "500")
	require.NoError(t, err)
	it, _ := l.Item("army", tanks)
	assert.True(t, it.Quantity.IsZero())
	assert.Equal(t, "500", it.Budget.String())
}

func TestSetItemBudgetMalformedAndNegative(t *testing.T) {
	l := newTestLedger(t, "1000")
	_, err := l.SetItemBudget("army", tanks, "300")
	require.NoError(t, err)

	_, err = l.SetItemBudget("army", tanks, "lots")
	require.NoError(t, err)
	it, _ := l.Item("army", tanks)
	assert.True(t, it.Budget.IsZero())

	_, err = l.SetItemBudget("army", tanks, "-40")
	require.NoError(t, err)
	it, _ = l.Item("army", tanks)
	assert.True(t, it.Budget.IsZero())
}

func TestSetItemBudgetFloorProperty(t *testing.T) {
	l := newTestLedger(t, "1e12")
	for _, b := range []string{"0", "99.99", "100", "100.01", "12345.67", "999999999"} {
		_, err := l.SetItemBudget("army", tanks, b)
		require.NoError(t, err)
		it, _ := l.Item("army", tanks)
		want := dec(b).Div(dec("100")).Floor()
		assert.True(t, it.Quantity.Equal(want), "budget %s: quantity %s, want %s", b, it.Quantity, want)
		assert.True(t, l.Total().Equal(sumFromScratch(l)))
	}
}

func TestSetItemQuantity(t *testing.T) {
	l := newTestLedger(t, "1e12")
	_, err := l.SetItemUnitCost("army", tanks, "33.333")
	require.NoError(t, err)
	it, _ := l.Item("army", tanks)
	assert.Equal(t, "33.33", it.UnitCost.String(), "unit cost rounds to cents")

	for _, q := range []int64{0, 1, 3, 7, 1000} {
		_, err := l.SetItemQuantity("army", tanks, q)
		require.NoError(t, err)
		it, _ := l.Item("army", tanks)
		assert.Equal(t, decimal.NewFromInt(q).String(), it.Quantity.String(), "quantity round trip")
		want := decimal.NewFromInt(q).Mul(dec("33.33")).Round(2)
		assert.True(t, it.Budget.Equal(want), "q=%d budget %s want %s", q, it.Budget, want)
		assert.True(t, l.Total().Equal(sumFromScratch(l)))
	}
}

func TestSetItemQuantityTruncates(t *testing.T) {
	l := newTestLedger(t, "1e12")
	_, err := l.SetItemQuantity("army", tanks, "4.9")
	require.NoError(t, err)
	it, _ := l.Item("army", tanks)
	assert.Equal(t, "4", it.Quantity.String())
	assert.Equal(t, "400", it.Budget.String())
}

func TestSetItemUnitCostRecomputesBudget(t *testing.T) {
	l := newTestLedger(t, "1e12")
	_, err := l.SetItemQuantity("army", tanks, 3)
	require.NoError(t, err)
	_, err = l.SetItemUnitCost("army", tanks, "0.105")
	require.NoError(t, err)
	it, _ := l.Item("army", tanks)
	assert.Equal(t, "0.11", it.UnitCost.String())
	assert.Equal(t, "0.33", it.Budget.String())
}

func TestWarningFiresOncePerCrossing(t *testing.T) {
	l := newTestLedger(t, "100")
	var signals []Signal
	for _, b := range []string{"90", "110", "120", "95", "110"} {
		r, err := l.SetItemBudget("army", tanks, b)
		require.NoError(t, err)
		signals = append(signals, r.Signal)
	}
	assert.Equal(t, []Signal{
		SignalNone, SignalOverLimit, SignalNone, SignalUnderLimit, SignalOverLimit,
	}, signals)
}

func TestLimitChangeDoesNotWarnButNextEditDoes(t *testing.T) {
	l := newTestLedger(t, "1000")
	_, err := l.SetItemBudget("army", tanks, "500")
	require.NoError(t, err)

	r := l.SetBudgetLimit("400")
	assert.Equal(t, SignalNone, r.Signal)
	assert.True(t, l.OverLimit())
	assert.False(t, l.Warned())

	r, err = l.SetItemBudget("army", tanks, "450")
	require.NoError(t, err)
	assert.Equal(t, SignalOverLimit, r.Signal)

	r = l.SetBudgetLimit("2000")
	assert.Equal(t, SignalUnderLimit, r.Signal, "raising the limit ends the episode")
	assert.False(t, l.Warned())
}

func TestSetBudgetLimitClamps(t *testing.T) {
	l := newTestLedger(t, "1")
	l.SetBudgetLimit("2000000000000")
	assert.True(t, l.Limit().Equal(model.MaxTotalBudget))
	l.SetBudgetLimit("-1")
	assert.True(t, l.Limit().IsZero())
	l.SetBudgetLimit("$143,000,000,000")
	assert.Equal(t, "143000000000", l.Limit().String())
}

func TestItemEditErrors(t *testing.T) {
	l := newTestLedger(t, "1000")
	_, err := l.SetItemBudget("navy", tanks, 1)
	assert.ErrorIs(t, err, ErrGroupNotFound)

	_, err = l.SetItemBudget("army", model.NameKey("Ships"), 1)
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.True(t, l.Total().IsZero())
}

func TestRenameItem(t *testing.T) {
	l := newTestLedger(t, "1000")
	_, err := l.RenameItem("army", 0, "Heavy Tanks")
	assert.ErrorIs(t, err, ErrNotOrderedGroup)

	r, err := l.CreateCustomGroup()
	require.NoError(t, err)
	_, err = l.RenameItem(r.GroupID, 2, "Drones")
	require.NoError(t, err)
	it, err := l.Item(r.GroupID, model.IndexKey(2))
	require.NoError(t, err)
	assert.Equal(t, "Drones", it.Name)

	_, err = l.RenameItem(r.GroupID, 20, "x")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestSetItemBounds(t *testing.T) {
	l := newTestLedger(t, "1000")
	_, err := l.SetItemBounds("army", tanks, "10", "5")
	require.NoError(t, err)
	it, _ := l.Item("army", tanks)
	assert.Equal(t, "10", it.Min.String())
	assert.Equal(t, "5", it.Max.String(), "min <= max is not enforced")
}

func TestProjected(t *testing.T) {
	l := newTestLedger(t, "1000")
	_, err := l.SetItemBudget("army", tanks, "300")
	require.NoError(t, err)
	p, err := l.Projected("army", tanks, "700")
	require.NoError(t, err)
	assert.Equal(t, "700", p.String())
	assert.Equal(t, "300", l.Total().String())
}

func TestLoggerRecordsCrossing(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	groups := []model.Group{{ID: "army", Items: model.NewKeyedStore(item("Tanks", "0", "100"))}}
	l, err := New(groups, dec("10"), WithLogger(logger))
	require.NoError(t, err)

	_, err = l.SetItemBudget("army", tanks, "20")
	require.NoError(t, err)
	assert.True(t, strings.Contains(buf.String(), "allocation exceeds budget limit"))
}

func TestSignalString(t *testing.T) {
	assert.Equal(t, "over_limit", SignalOverLimit.String())
	assert.Equal(t, "under_limit", SignalUnderLimit.String())
	assert.Equal(t, "none", SignalNone.String())
}
