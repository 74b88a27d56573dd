package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/fsplan/internal/template"
)

const coastal = `
name: Coastal
budget_limit: 5000
groups:
  navy:
    name: Navy
    items:
      Cutters: {budget: 1200, quantity: 12, unit_cost: 100}
  reserve:
    name: Reserve
    items:
      - {name: Boats, budget: 300.25}
      - {name: Crews}
`

func openTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "sub", "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestSaveAndLoad(t *testing.T) {
	c := openTestCatalog(t)
	e, err := c.Save("coastal", template.FormatYAML, []byte(coastal))
	require.NoError(t, err)
	assert.Equal(t, 2, e.GroupCount)
	assert.Equal(t, 3, e.ItemCount)
	assert.Equal(t, "1500.25", e.Total.String())
	require.NotNil(t, e.BudgetLimit)
	assert.Equal(t, "5000", e.BudgetLimit.String())

	doc, err := c.Load("coastal")
	require.NoError(t, err)
	assert.Equal(t, "Coastal", doc.Name)
	assert.Equal(t, "navy", doc.Groups[0].ID)

	src, f, err := c.Source("coastal")
	require.NoError(t, err)
	assert.Equal(t, template.FormatYAML, f)
	assert.Equal(t, coastal, string(src))
}

func TestSaveRejectsInvalid(t *testing.T) {
	c := openTestCatalog(t)
	_, err := c.Save("bad", template.FormatYAML, []byte("groups: {}\n"))
	assert.ErrorIs(t, err, template.ErrInvalidTemplate)

	_, err = c.Save("  ", template.FormatYAML, []byte(coastal))
	assert.ErrorIs(t, err, ErrInvalidName)

	n, err := c.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSaveReplaces(t *testing.T) {
	c := openTestCatalog(t)
	_, err := c.Save("plan", template.FormatYAML, []byte(coastal))
	require.NoError(t, err)
	_, err = c.Save("plan", template.FormatYAML, template.DefaultSource())
	require.NoError(t, err)

	groups, err := c.Groups("plan")
	require.NoError(t, err)
	require.Len(t, groups, 5)
	assert.Equal(t, "army", groups[0].ID)
	assert.True(t, groups[0].Keyed)

	list, err := c.List()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestGroupsOrdered(t *testing.T) {
	c := openTestCatalog(t)
	_, err := c.Save("coastal", template.FormatYAML, []byte(coastal))
	require.NoError(t, err)
	groups, err := c.Groups("coastal")
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "reserve", groups[1].ID)
	assert.False(t, groups[1].Keyed)
	assert.Equal(t, "300.25", groups[1].Subtotal.String())
}

func TestNotFound(t *testing.T) {
	c := openTestCatalog(t)
	_, err := c.Load("missing")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
	_, err = c.Groups("missing")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
	assert.ErrorIs(t, c.Delete("missing"), ErrTemplateNotFound)
}

func TestDelete(t *testing.T) {
	c := openTestCatalog(t)
	_, err := c.Save("coastal", template.FormatYAML, []byte(coastal))
	require.NoError(t, err)
	require.NoError(t, c.Delete("coastal"))

	list, err := c.List()
	require.NoError(t, err)
	assert.Empty(t, list)
}
