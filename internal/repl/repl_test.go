package repl

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/fsplan/internal/ledger"
	"github.com/theirongolddev/fsplan/internal/model"
	"github.com/theirongolddev/fsplan/internal/money"
	"github.com/theirongolddev/fsplan/internal/session"
)

func newTestREPL(t *testing.T) (*REPL, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true

	tanks := model.NewDefaultItem("Tanks")
	tanks.UnitCost = decimal.NewFromInt(100)
	l, err := ledger.New([]model.Group{
		{ID: "army", Name: "Army", Items: model.NewKeyedStore(tanks)},
	}, decimal.NewFromInt(1000))
	require.NoError(t, err)

	var out bytes.Buffer
	r, err := New(Config{
		Session: session.New(l, session.WithScale(money.Standard)),
		Title:   "test",
		Out:     &out,
	})
	require.NoError(t, err)
	return r, &out
}

func TestNewRequiresSession(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestSessionCommand(t *testing.T) {
	r, out := newTestREPL(t)

	require.NoError(t, r.ProcessInput("quantity army Tanks 3"))
	assert.Contains(t, out.String(), "ok quantity")
	assert.True(t, r.sess.Ledger().Total().Equal(decimal.NewFromInt(300)))
}

func TestOverLimitPrintsWarning(t *testing.T) {
	r, out := newTestREPL(t)

	require.NoError(t, r.ProcessInput("budget army Tanks 5000"))
	assert.Contains(t, out.String(), "Warning: "+ledger.WarningText)
}

func TestCommandErrorsAreReturned(t *testing.T) {
	r, _ := newTestREPL(t)

	err := r.ProcessInput("delete army")
	assert.ErrorIs(t, err, ledger.ErrNotCustomGroup)

	err = r.ProcessInput("frobnicate")
	assert.ErrorIs(t, err, session.ErrUnknownOp)

	err = r.ProcessInput(`rename-group "unterminated`)
	assert.Error(t, err)
}

func TestBuiltins(t *testing.T) {
	r, out := newTestREPL(t)

	require.NoError(t, r.ProcessInput(""))
	require.NoError(t, r.ProcessInput("# comment"))
	assert.Empty(t, out.String())

	require.NoError(t, r.ProcessInput("header"))
	assert.Contains(t, out.String(), "Total Budget: $1,000.00")

	out.Reset()
	require.NoError(t, r.ProcessInput("groups"))
	assert.Contains(t, out.String(), "army")
	assert.Contains(t, out.String(), "Tanks")

	out.Reset()
	require.NoError(t, r.ProcessInput("show items"))
	assert.Contains(t, out.String(), "Army")

	out.Reset()
	require.NoError(t, r.ProcessInput("help"))
	assert.Contains(t, out.String(), "scaled-budget")

	err := r.ProcessInput("EXIT")
	assert.True(t, errors.Is(err, errExit))
}

func TestCompleterCoversOpsAndBuiltins(t *testing.T) {
	r, _ := newTestREPL(t)
	names := map[string]bool{}
	for _, c := range r.completer().GetChildren() {
		names[string(c.GetName())] = true
	}
	for _, op := range session.Ops() {
		assert.True(t, names[string(op)+" "], "missing op %s", op)
	}
	assert.True(t, names["show "])
}
