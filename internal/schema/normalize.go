package schema

import (
	"math"

	"github.com/spf13/cast"
)

// Origin tells Normalize where a raw descriptor came from.
type Origin int

const (
	FromFixture Origin = iota
	FromLive
)

func (o Origin) String() string {
	if o == FromLive {
		return "live"
	}
	return "fixture"
}

// Normalize converts raw descriptors into canonical columns. Fixture sources
// lose their reserved metadata keys. Defaults become strings because catalog
// introspection only ever reports them as strings; absent and null defaults
// are left alone.
func Normalize(raw RawColumns, origin Origin) Columns {
	cols := make(Columns, len(raw))
	for name, desc := range raw {
		if origin == FromFixture && IsReserved(name) {
			continue
		}
		cols[name] = NormalizeColumn(name, desc)
	}
	return cols
}

// NormalizeColumn converts a single raw descriptor.
func NormalizeColumn(name string, raw RawColumn) Column {
	col := Column{Name: name}
	for key, v := range raw {
		switch key {
		case AttrType:
			col.Type = stringAttr(v)
		case AttrLength:
			col.Length = intAttr(v)
		case AttrPrecision:
			col.Precision = intAttr(v)
		case AttrNull:
			col.Null = boolAttr(v)
		case AttrDefault:
			col.Default = defaultAttr(v)
		case AttrUnsigned:
			col.Unsigned = boolAttr(v)
		case AttrAutoIncrement:
			col.AutoIncrement = boolAttr(v)
		default:
			if col.Extra == nil {
				col.Extra = make(map[string]any)
			}
			col.Extra[key] = v
		}
	}
	return col
}

func foreign[T comparable](v any) Attr[T] {
	return Attr[T]{Present: true, Valid: true, Foreign: v}
}

func stringAttr(v any) Attr[string] {
	switch s := v.(type) {
	case nil:
		return Null[string]()
	case string:
		return Some(s)
	default:
		return foreign[string](v)
	}
}

func boolAttr(v any) Attr[bool] {
	switch b := v.(type) {
	case nil:
		return Null[bool]()
	case bool:
		return Some(b)
	default:
		return foreign[bool](v)
	}
}

// intAttr accepts every Go integer kind and whole floats, which is how JSON
// numbers arrive. Strings are not parsed: "255" and 255 must stay different.
func intAttr(v any) Attr[int] {
	switch n := v.(type) {
	case nil:
		return Null[int]()
	case int:
		return Some(n)
	case int8:
		return Some(int(n))
	case int16:
		return Some(int(n))
	case int32:
		return Some(int(n))
	case int64:
		return Some(int(n))
	case uint:
		return Some(int(n))
	case uint8:
		return Some(int(n))
	case uint16:
		return Some(int(n))
	case uint32:
		return Some(int(n))
	case uint64:
		return Some(int(n))
	case float64:
		if n == math.Trunc(n) && !math.IsInf(n, 0) {
			return Some(int(n))
		}
	case float32:
		if f := float64(n); f == math.Trunc(f) && !math.IsInf(f, 0) {
			return Some(int(f))
		}
	}
	return foreign[int](v)
}

// defaultAttr renders scalar defaults as strings. Booleans follow the
// catalog convention of "1" and "0".
func defaultAttr(v any) Attr[string] {
	switch d := v.(type) {
	case nil:
		return Null[string]()
	case bool:
		if d {
			return Some("1")
		}
		return Some("0")
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return foreign[string](v)
	}
	return Some(s)
}
