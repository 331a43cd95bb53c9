package schema

import "sort"

// Reserved fixture keys. They describe the table, not a column.
const (
	KeyOptions     = "_options"
	KeyConstraints = "_constraints"
	KeyIndexes     = "_indexes"
)

// Column attribute names.
const (
	AttrAutoIncrement = "autoIncrement"
	AttrDefault       = "default"
	AttrLength        = "length"
	AttrNull          = "null"
	AttrPrecision     = "precision"
	AttrType          = "type"
	AttrUnsigned      = "unsigned"
)

// Comparable is the allow-list of attributes the comparator looks at, in
// comparison order. Anything else (comment, collate, ...) has no fixture
// analog worth checking.
var Comparable = []string{
	AttrAutoIncrement,
	AttrDefault,
	AttrLength,
	AttrNull,
	AttrPrecision,
	AttrType,
	AttrUnsigned,
}

// IsReserved reports whether key is fixture metadata rather than a column.
func IsReserved(key string) bool {
	switch key {
	case KeyOptions, KeyConstraints, KeyIndexes:
		return true
	}
	return false
}

// RawColumn is a column descriptor as read from a fixture file or from the
// database catalog, before normalization.
type RawColumn map[string]any

// RawColumns maps column name to raw descriptor.
type RawColumns map[string]RawColumn

// Attr is an optional column attribute. It tells apart an attribute that is
// missing, one that is present but null, and one with a value. A raw value of
// an unexpected kind is kept in Foreign so strict comparison still sees it.
type Attr[T comparable] struct {
	Present bool
	Valid   bool
	Value   T
	Foreign any
}

// Some returns a present, non-null attribute.
func Some[T comparable](v T) Attr[T] {
	return Attr[T]{Present: true, Valid: true, Value: v}
}

// Null returns a present attribute holding null.
func Null[T comparable]() Attr[T] {
	return Attr[T]{Present: true}
}

// Interface returns the attribute value for comparison and display.
func (a Attr[T]) Interface() any {
	switch {
	case !a.Valid:
		return nil
	case a.Foreign != nil:
		return a.Foreign
	default:
		return a.Value
	}
}

// Column is the canonical, comparable form of one column.
type Column struct {
	Name          string
	Type          Attr[string]
	Length        Attr[int]
	Precision     Attr[int]
	Null          Attr[bool]
	Default       Attr[string]
	Unsigned      Attr[bool]
	AutoIncrement Attr[bool]

	// Extra holds attributes outside the allow-list. They are never compared.
	Extra map[string]any
}

// Get returns the value of an allow-listed attribute and whether the column
// declares it at all.
func (c Column) Get(attr string) (any, bool) {
	switch attr {
	case AttrType:
		return c.Type.Interface(), c.Type.Present
	case AttrLength:
		return c.Length.Interface(), c.Length.Present
	case AttrPrecision:
		return c.Precision.Interface(), c.Precision.Present
	case AttrNull:
		return c.Null.Interface(), c.Null.Present
	case AttrDefault:
		return c.Default.Interface(), c.Default.Present
	case AttrUnsigned:
		return c.Unsigned.Interface(), c.Unsigned.Present
	case AttrAutoIncrement:
		return c.AutoIncrement.Interface(), c.AutoIncrement.Present
	}
	v, ok := c.Extra[attr]
	return v, ok
}

// Columns maps column name to canonical column.
type Columns map[string]Column

// Names returns the column names in ascending byte order.
func (c Columns) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a column with the given name exists.
func (c Columns) Has(name string) bool {
	_, ok := c[name]
	return ok
}
