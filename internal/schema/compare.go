package schema

import (
	"fmt"
	"reflect"
)

// Kind classifies an attribute-level discrepancy.
type Kind int

const (
	// KindAttributeDiffers: both sides declare the attribute with different values.
	KindAttributeDiffers Kind = iota
	// KindLiveMissingAttribute: the fixture sets a non-null value the live column lacks.
	KindLiveMissingAttribute
)

func (k Kind) String() string {
	if k == KindLiveMissingAttribute {
		return "live_missing_attribute"
	}
	return "attribute_differs"
}

// Discrepancy is one attribute mismatch on a column present on both sides.
type Discrepancy struct {
	Column    string
	Attribute string
	Kind      Kind
	Fixture   any
	Live      any
}

func (d Discrepancy) String() string {
	if d.Kind == KindLiveMissingAttribute {
		return fmt.Sprintf("%s: live column has no %s attribute (fixture: %#v)", d.Column, d.Attribute, d.Fixture)
	}
	return fmt.Sprintf("%s: %s differs (fixture: %#v, live: %#v)", d.Column, d.Attribute, d.Fixture, d.Live)
}

// CompareColumns compares the allow-listed attributes of every column present
// on both sides. Columns missing from either side are left to DiffPresence.
// The result is ordered by column name, then by allow-list position.
func CompareColumns(fixture, live Columns) []Discrepancy {
	var out []Discrepancy
	for _, name := range fixture.Names() {
		lc, ok := live[name]
		if !ok {
			continue
		}
		out = append(out, CompareColumn(fixture[name], lc)...)
	}
	return out
}

// CompareColumn compares one fixture column against its live counterpart.
// Equality is strict: 0, false and "0" are all different values.
func CompareColumn(fixture, live Column) []Discrepancy {
	var out []Discrepancy
	for _, attr := range Comparable {
		// Engines report auto increment in ways that cannot be lined up with
		// the fixture flag. Known limitation.
		if attr == AttrAutoIncrement {
			continue
		}
		fv, ok := fixture.Get(attr)
		if !ok {
			continue
		}
		lv, ok := live.Get(attr)
		if !ok {
			if fv != nil {
				out = append(out, Discrepancy{
					Column:    fixture.Name,
					Attribute: attr,
					Kind:      KindLiveMissingAttribute,
					Fixture:   fv,
				})
			}
			continue
		}
		if !reflect.DeepEqual(fv, lv) {
			out = append(out, Discrepancy{
				Column:    fixture.Name,
				Attribute: attr,
				Kind:      KindAttributeDiffers,
				Fixture:   fv,
				Live:      lv,
			})
		}
	}
	return out
}
