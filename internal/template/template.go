// Package template loads the initial group and item set for a planning
// session from YAML, JSON or TOML documents.
//
// In YAML and JSON, "groups" may be a mapping from group id to group (in
// document order) or a sequence of groups with an "id" field. A group's
// "items" is either a mapping from item name to item, which makes a fixed
// keyed group, or a sequence, which makes an ordered group. TOML has no
// ordered mappings, so TOML documents use arrays of tables and mark keyed
// groups with "keyed = true".
package template

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fsplan/internal/model"
)

//go:embed default.yaml
var defaultYAML []byte

// DefaultName names the built-in template.
const DefaultName = "default"

var (
	ErrUnsupportedFormat = errors.New("unsupported template format")
	ErrInvalidTemplate   = errors.New("invalid template")
)

// Format is a template document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// ParseFormat accepts a format name or a file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Document is a decoded template.
type Document struct {
	Name        string      `toml:"name"`
	BudgetLimit *Amount     `toml:"budget_limit"`
	Groups      []GroupSpec `toml:"groups" validate:"required,min=1,unique=ID,dive"`
}

// GroupSpec describes one template group.
type GroupSpec struct {
	ID       string     `toml:"id" validate:"required,startsnotwith=custom_group_"`
	Name     string     `toml:"name" validate:"required"`
	Keyed    bool       `toml:"keyed"`
	Expanded bool       `toml:"expanded"`
	Items    []ItemSpec `toml:"items" validate:"required,min=1,dive"`
}

// ItemSpec describes one template item. Amounts keep their literal text.
type ItemSpec struct {
	Name     string `toml:"name" validate:"required"`
	Budget   Amount `toml:"budget"`
	Min      Amount `toml:"min"`
	Max      Amount `toml:"max"`
	Quantity Amount `toml:"quantity"`
	UnitCost Amount `toml:"unit_cost"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Parse decodes and validates a document.
func Parse(data []byte, f Format) (*Document, error) {
	var (
		doc *Document
		err error
	)
	switch f {
	case FormatYAML, FormatJSON:
		doc, err = decodeYAML(data)
	case FormatTOML:
		doc, err = decodeTOML(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s template: %w", f, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Load reads and parses a template file.
func Load(path string) (*Document, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template: %w", err)
	}
	doc, err := Parse(data, f)
	if err != nil {
		return nil, err
	}
	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return doc, nil
}

// Default returns the built-in force-structure template.
func Default() *Document {
	doc, err := Parse(defaultYAML, FormatYAML)
	if err != nil {
		panic("template: built-in default is invalid: " + err.Error())
	}
	return doc
}

// DefaultSource returns the built-in template text.
func DefaultSource() []byte {
	return append([]byte(nil), defaultYAML...)
}

// Validate checks structure: at least one group, unique non-custom ids,
// named items and unique item names inside keyed groups.
func (d *Document) Validate() error {
	if err := validate.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidTemplate, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %w", ErrInvalidTemplate, err)
	}
	for _, g := range d.Groups {
		if !g.Keyed {
			continue
		}
		seen := make(map[string]bool, len(g.Items))
		for _, it := range g.Items {
			if seen[it.Name] {
				return fmt.Errorf("%w: group %q repeats item %q", ErrInvalidTemplate, g.ID, it.Name)
			}
			seen[it.Name] = true
		}
	}
	return nil
}

// Limit returns the document's budget limit, if it sets one.
func (d *Document) Limit() (decimal.Decimal, bool) {
	if d.BudgetLimit == nil {
		return decimal.Zero, false
	}
	return d.BudgetLimit.Decimal, true
}

// ModelGroups converts the document into ledger groups.
func (d *Document) ModelGroups() []model.Group {
	out := make([]model.Group, 0, len(d.Groups))
	for _, g := range d.Groups {
		items := make([]model.Item, len(g.Items))
		for i, it := range g.Items {
			items[i] = it.item()
		}
		mg := model.Group{ID: g.ID, Name: g.Name, Expanded: g.Expanded}
		if g.Keyed {
			mg.Items = model.NewKeyedStore(items...)
		} else {
			mg.Items = model.NewListStore(items...)
		}
		out = append(out, mg)
	}
	return out
}

func (s ItemSpec) item() model.Item {
	return model.Item{
		Name:     s.Name,
		Budget:   s.Budget.Decimal,
		Min:      s.Min.Decimal,
		Max:      s.Max.Decimal,
		Quantity: s.Quantity.Decimal,
		UnitCost: s.UnitCost.Decimal,
	}
}
