package session

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"budget army Tanks 950", []string{"budget", "army", "Tanks", "950"}},
		{`budget army "Fighter Jets" 1.5`, []string{"budget", "army", "Fighter Jets", "1.5"}},
		{`rename-group g 'Space "Force"'`, []string{"rename-group", "g", `Space "Force"`}},
		{`rename-group g "a \"b\""`, []string{"rename-group", "g", `a "b"`}},
		{`budget  a	b  1 # trailing note`, []string{"budget", "a", "b", "1"}},
		{"   ", nil},
		{"# just a comment", []string{"#"}},
		{`rename-item g 0 ""`, []string{"rename-item", "g", "0", ""}},
	}
	for _, tt := range tests {
		got, err := Split(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := Split(`rename-group g "open`)
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	cmd, ok, err := Parse(`budget army "Fighter Jets" $1,500`)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Command{Op: OpBudget, GroupID: "army", Item: "Fighter Jets", Value: "$1,500"}, cmd)

	cmd, ok, err = Parse("RESIZE custom_group_1 5")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, OpResize, cmd.Op)
	assert.Equal(t, Input("5"), cmd.Value)

	cmd, _, err = Parse("rename-group custom_group_1 Space Force")
	require.NoError(t, err)
	assert.Equal(t, Input("Space Force"), cmd.Value)

	cmd, _, err = Parse("bounds navy Ships 0 5e9")
	require.NoError(t, err)
	assert.Equal(t, Input("5e9"), cmd.Value2)

	cmd, ok, err = Parse("create")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, OpCreate, cmd.Op)
}

func TestParseSkipsBlankAndComments(t *testing.T) {
	for _, line := range []string{"", "   ", "# note", "  # indented"} {
		_, ok, err := Parse(line)
		require.NoError(t, err, line)
		assert.False(t, ok, line)
	}
}

func TestParseErrors(t *testing.T) {
	_, _, err := Parse("explode army")
	assert.ErrorIs(t, err, ErrUnknownOp)

	_, _, err = Parse("budget army Tanks")
	assert.ErrorIs(t, err, ErrMissingArgs)

	_, _, err = Parse("budget army Fighter Jets 5")
	assert.Error(t, err, "unquoted multi-word items are ambiguous")
}

func TestCommandStringRoundTrip(t *testing.T) {
	cmds := []Command{
		{Op: OpBudget, GroupID: "army", Item: "Fighter Jets", Value: "950"},
		{Op: OpRenameGroup, GroupID: "custom_group_2", Value: `The "Best" Group`},
		{Op: OpCreate},
		{Op: OpScale, Value: "millions"},
	}
	for _, c := range cmds {
		back, ok, err := Parse(c.String())
		require.NoError(t, err, c.String())
		require.True(t, ok)
		assert.Equal(t, c, back)
	}
}

func TestCommandJSON(t *testing.T) {
	var c Command
	require.NoError(t, json.Unmarshal([]byte(`{"op":"budget","group":"army","item":"Tanks","value":123456789012345678.25}`), &c))
	assert.Equal(t, Input("123456789012345678.25"), c.Value, "numbers keep their literal text")

	require.NoError(t, json.Unmarshal([]byte(`{"op":"limit","value":"$1,000"}`), &c))
	assert.Equal(t, Input("$1,000"), c.Value)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Command{Op: OpCreate}.Validate())
	assert.ErrorIs(t, Command{Op: "nope"}.Validate(), ErrUnknownOp)
	assert.ErrorIs(t, Command{Op: OpDelete}.Validate(), ErrMissingArgs)
	assert.ErrorIs(t, Command{Op: OpBudget, GroupID: "army"}.Validate(), ErrMissingArgs)
	assert.ErrorIs(t, Command{Op: OpScale}.Validate(), ErrMissingArgs)
	assert.NoError(t, Command{Op: OpLimit}.Validate(), "an empty limit applies as zero")
}
