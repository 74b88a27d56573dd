package view

import (
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/fsplan/internal/ledger"
	"github.com/theirongolddev/fsplan/internal/model"
	"github.com/theirongolddev/fsplan/internal/money"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func withBudget(name, budget string) model.Item {
	it := model.NewDefaultItem(name)
	it.Budget = dec(budget)
	return it
}

func testLedger(t *testing.T, limit string) *ledger.Ledger {
	t.Helper()
	l, err := ledger.New([]model.Group{
		{ID: "army", Name: "Army", Items: model.NewKeyedStore(withBudget("Tanks", "300"), withBudget("Trucks", "100"))},
		{ID: "navy", Name: "Navy", Items: model.NewKeyedStore(withBudget("Ships", "100"))},
	}, dec(limit))
	require.NoError(t, err)
	return l
}

func TestBuildUnderLimit(t *testing.T) {
	b := Build(testLedger(t, "1000"))

	require.Len(t, b.Pie, 3)
	require.Len(t, b.Bars, 2)
	assert.Equal(t, "Army", b.Bars[0].Name)
	assert.Equal(t, "400", b.Bars[0].Value.String())
	assert.Equal(t, "100", b.Bars[1].Value.String())

	rem := b.Pie[2]
	assert.Equal(t, RemainingName, rem.Name)
	assert.Equal(t, "500", rem.Value.String())
	assert.Equal(t, RemainingColor, rem.Color)

	assert.Equal(t, "40", b.Pie[0].Share.String())
	assert.Equal(t, "80", b.Bars[0].Share.String())
	assert.False(t, b.OverLimit)
}

func TestBuildOverLimitClampsPieOnly(t *testing.T) {
	b := Build(testLedger(t, "450"))
	assert.True(t, b.OverLimit)
	assert.True(t, b.Pie[len(b.Pie)-1].Value.IsZero())
	assert.Equal(t, "-50", b.Remaining.String())
	assert.Equal(t,
		"Total Budget: $450.00 | Allocated: $500.00 | Remaining: -$50.00",
		Header(b, money.Standard))
}

func TestBuildTracksMutations(t *testing.T) {
	l := testLedger(t, "1000")
	r, err := l.CreateCustomGroup()
	require.NoError(t, err)
	_, err = l.ResizeGroup(r.GroupID, 3)
	require.NoError(t, err)
	_, err = l.SetItemBudget(r.GroupID, model.IndexKey(0), "250")
	require.NoError(t, err)

	b := Build(l)
	require.Len(t, b.Groups, 3)
	g := b.Groups[2]
	assert.True(t, g.Custom)
	assert.Len(t, g.Items, 3)
	assert.Equal(t, "250", g.Subtotal.String())
	assert.Equal(t, "250", b.Pie[3].Value.String(), "remaining = 1000 - 750")
}

func TestBuildEmpty(t *testing.T) {
	l, err := ledger.New(nil, dec("0"))
	require.NoError(t, err)
	b := Build(l)
	require.Len(t, b.Pie, 1)
	assert.True(t, b.Pie[0].Share.IsZero())
	assert.Equal(t, 0.0, Utilization(b))
}

func TestUtilization(t *testing.T) {
	assert.InDelta(t, 0.5, Utilization(Build(testLedger(t, "1000"))), 1e-9)
}

func TestPalette(t *testing.T) {
	p := Palette()
	require.Len(t, p, PaletteSize)
	hex := regexp.MustCompile(`^#[0-9a-f]{6}$`)
	for _, c := range p {
		assert.Regexp(t, hex, c)
	}
	assert.Equal(t, Color(0), Color(PaletteSize))
	assert.NotEqual(t, Color(0), Color(1))
	// hue 0 at 65% saturation, 50% lightness
	assert.Equal(t, "#d22d2d", Color(0))
}
