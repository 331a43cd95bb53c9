package fixture

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"fixture-check/internal/errs"
	"fixture-check/internal/schema"

	"go.yaml.in/yaml/v3"
)

type document struct {
	Table  string               `yaml:"table"`
	Fields map[string]yaml.Node `yaml:"fields"`
}

const timestampTag = "!!timestamp"

// LoadFile reads a fixture definition from a YAML file.
func LoadFile(id, path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.Wrap(errs.ErrKindNotFound, "fixture file "+path, err)
		}
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "read fixture file "+path, err)
	}
	return Parse(id, data)
}

// Parse decodes a fixture definition.
func Parse(id string, data []byte) (*Fixture, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "decode fixture "+id, err)
	}

	fields := make(schema.RawColumns, len(doc.Fields))
	for name, node := range doc.Fields {
		if schema.IsReserved(name) {
			// Table metadata is never compared; keep it only when it is a mapping.
			fields[name] = reservedColumn(&node)
			continue
		}
		col, err := rawColumn(&node)
		if err != nil {
			return nil, errs.Wrap(errs.ErrKindInvalidInput, fmt.Sprintf("fixture %s field %s", id, name), err)
		}
		fields[name] = col
	}

	table := doc.Table
	if table == "" {
		_, name := SplitIdentifier(id)
		table = Tableize(name)
	}
	return &Fixture{Name: id, Table: table, Fields: fields}, nil
}

func rawColumn(n *yaml.Node) (schema.RawColumn, error) {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		return rawColumn(n.Alias)
	}
	switch n.Kind {
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return schema.RawColumn{}, nil
		case "!!str":
			return schema.RawColumn{schema.AttrType: n.Value}, nil
		}
	case yaml.MappingNode:
		col := make(schema.RawColumn, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := scalarValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			col[attributeKey(n.Content[i])] = v
		}
		return col, nil
	}
	return nil, fmt.Errorf("line %d: expected a mapping or a type name, got %s", n.Line, n.ShortTag())
}

// scalarValue decodes an attribute value. Timestamps keep their source text
// so a date default reads the way the catalog reports it.
func scalarValue(n *yaml.Node) (any, error) {
	if n.Kind == yaml.ScalarNode && n.ShortTag() == timestampTag {
		return n.Value, nil
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func reservedColumn(n *yaml.Node) schema.RawColumn {
	var m map[string]any
	if n.Kind != yaml.MappingNode || n.Decode(&m) != nil {
		return schema.RawColumn{}
	}
	return schema.RawColumn(m)
}

// attributeKey converts a mapping key. A plain `null:` key is a YAML null,
// which is how the nullable flag is usually written.
func attributeKey(k *yaml.Node) string {
	if k.ShortTag() == "!!null" {
		return schema.AttrNull
	}
	return k.Value
}
