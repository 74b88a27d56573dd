package template

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// yamlGroup and yamlItem mirror the YAML shape. Items stays a raw node so
// mapping order and the keyed/ordered distinction survive decoding.
type yamlGroup struct {
	ID       string    `yaml:"id"`
	Name     string    `yaml:"name"`
	Expanded bool      `yaml:"expanded"`
	Items    yaml.Node `yaml:"items"`
}

type yamlItem struct {
	Name     string  `yaml:"name"`
	Budget   Amount  `yaml:"budget"`
	Min      Amount  `yaml:"min"`
	Max      Amount  `yaml:"max"`
	Quantity Amount  `yaml:"quantity"`
	UnitCost *Amount `yaml:"unit_cost"`
	// unitCost is accepted for templates exported from JavaScript tools.
	UnitCostCamel *Amount `yaml:"unitCost"`
}

func (y yamlItem) spec() ItemSpec {
	s := ItemSpec{
		Name:     y.Name,
		Budget:   y.Budget,
		Min:      y.Min,
		Max:      y.Max,
		Quantity: y.Quantity,
	}
	switch {
	case y.UnitCost != nil:
		s.UnitCost = *y.UnitCost
	case y.UnitCostCamel != nil:
		s.UnitCost = *y.UnitCostCamel
	}
	return s
}

func decodeYAML(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if len(root.Content) == 0 {
		return nil, errors.New("empty document")
	}
	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: document must be a mapping", top.Line)
	}

	doc := &Document{}
	for i := 0; i+1 < len(top.Content); i += 2 {
		key, val := top.Content[i], top.Content[i+1]
		switch key.Value {
		case "name":
			if err := val.Decode(&doc.Name); err != nil {
				return nil, err
			}
		case "budget_limit", "budgetLimit":
			var a Amount
			if err := val.Decode(&a); err != nil {
				return nil, err
			}
			doc.BudgetLimit = &a
		case "groups":
			groups, err := decodeGroups(val)
			if err != nil {
				return nil, err
			}
			doc.Groups = groups
		}
	}
	return doc, nil
}

func decodeGroups(n *yaml.Node) ([]GroupSpec, error) {
	var out []GroupSpec
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			g, err := decodeGroup(n.Content[i+1], n.Content[i].Value)
			if err != nil {
				return nil, err
			}
			out = append(out, g)
		}
	case yaml.SequenceNode:
		for _, c := range n.Content {
			g, err := decodeGroup(c, "")
			if err != nil {
				return nil, err
			}
			out = append(out, g)
		}
	default:
		return nil, fmt.Errorf("line %d: groups must be a mapping or a list", n.Line)
	}
	return out, nil
}

func decodeGroup(n *yaml.Node, id string) (GroupSpec, error) {
	var yg yamlGroup
	if err := n.Decode(&yg); err != nil {
		return GroupSpec{}, err
	}
	g := GroupSpec{ID: yg.ID, Name: yg.Name, Expanded: yg.Expanded}
	if g.ID == "" {
		g.ID = id
	}

	items := &yg.Items
	switch items.Kind {
	case yaml.MappingNode:
		g.Keyed = true
		for i := 0; i+1 < len(items.Content); i += 2 {
			var yi yamlItem
			if err := items.Content[i+1].Decode(&yi); err != nil {
				return GroupSpec{}, err
			}
			// The mapping key is the item's identity in a keyed group.
			yi.Name = items.Content[i].Value
			g.Items = append(g.Items, yi.spec())
		}
	case yaml.SequenceNode:
		for _, c := range items.Content {
			var yi yamlItem
			if err := c.Decode(&yi); err != nil {
				return GroupSpec{}, err
			}
			g.Items = append(g.Items, yi.spec())
		}
	case 0:
		// no items; validation reports it
	default:
		return GroupSpec{}, fmt.Errorf("line %d: items of group %q must be a mapping or a list", items.Line, g.ID)
	}
	return g, nil
}

func decodeTOML(data []byte) (*Document, error) {
	var doc Document
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&doc)
	if err != nil {
		return nil, err
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return nil, fmt.Errorf("unknown keys: %v", undec)
	}
	return &doc, nil
}

// EncodeTOML renders a document in the TOML layout Parse accepts.
func EncodeTOML(d *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(d); err != nil {
		return nil, fmt.Errorf("encoding toml template: %w", err)
	}
	return buf.Bytes(), nil
}
