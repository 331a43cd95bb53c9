package dialect

import (
	"database/sql"
	"regexp"
	"strconv"
	"strings"

	"fixture-check/internal/schema"
)

// Abstract column types shared by fixtures and every dialect.
const (
	TypeString              = "string"
	TypeChar                = "char"
	TypeText                = "text"
	TypeUUID                = "uuid"
	TypeBinaryUUID          = "binaryuuid"
	TypeBinary              = "binary"
	TypeBoolean             = "boolean"
	TypeTinyInteger         = "tinyinteger"
	TypeSmallInteger        = "smallinteger"
	TypeInteger             = "integer"
	TypeBigInteger          = "biginteger"
	TypeDecimal             = "decimal"
	TypeFloat               = "float"
	TypeDate                = "date"
	TypeDateTime            = "datetime"
	TypeDateTimeFractional  = "datetimefractional"
	TypeTimestamp           = "timestamp"
	TypeTimestampFractional = "timestampfractional"
	TypeTimestampTimezone   = "timestamptimezone"
	TypeTime                = "time"
	TypeJSON                = "json"
)

// IsInteger reports whether typ is one of the integer types.
func IsInteger(typ string) bool {
	switch typ {
	case TypeTinyInteger, TypeSmallInteger, TypeInteger, TypeBigInteger:
		return true
	}
	return false
}

// IsNumeric reports whether typ can carry the unsigned flag.
func IsNumeric(typ string) bool {
	return IsInteger(typ) || typ == TypeDecimal || typ == TypeFloat
}

// DefaultNormalizeType is a default implementation for type normalization (lowercase).
func DefaultNormalizeType(sqlType string) string {
	return strings.ToLower(sqlType)
}

// DefaultGetSchemaName is a default implementation for Getting Schema Name (identity).
func DefaultGetSchemaName(input string) string {
	return input
}

// baseColumn fills the attributes every engine reports the same way.
func baseColumn(row ColumnRow, typ string, def any) schema.RawColumn {
	col := schema.RawColumn{
		schema.AttrType:      typ,
		schema.AttrLength:    nil,
		schema.AttrPrecision: nil,
		schema.AttrNull:      isNullable(row.IsNullable),
		schema.AttrDefault:   def,
	}
	if row.Comment.Valid && row.Comment.String != "" {
		col["comment"] = row.Comment.String
	}
	if row.Collation.Valid && row.Collation.String != "" {
		col["collate"] = row.Collation.String
	}
	return col
}

func isNullable(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "YES", "Y":
		return true
	}
	return false
}

func nullInt(n sql.NullInt64) any {
	if !n.Valid {
		return nil
	}
	return int(n.Int64)
}

func positiveInt(n sql.NullInt64) bool {
	return n.Valid && n.Int64 > 0
}

var sizeRe = regexp.MustCompile(`\((\d+)(?:\s*,\s*(\d+))?\)`)

// typeSize extracts M and D from a declaration such as "float(7,3)" or
// "int(11) unsigned".
func typeSize(columnType string) (length, precision any) {
	m := sizeRe.FindStringSubmatch(columnType)
	if m == nil {
		return nil, nil
	}
	if n, err := strconv.Atoi(m[1]); err == nil {
		length = n
	}
	if m[2] != "" {
		if n, err := strconv.Atoi(m[2]); err == nil {
			precision = n
		}
	}
	return length, precision
}

// unquote strips one level of single quotes and collapses doubled quotes.
func unquote(s string) (string, bool) {
	if len(s) < 2 || s[0] != '\'' {
		return s, false
	}
	end := closingQuote(s)
	if end < 0 {
		return s, false
	}
	return strings.ReplaceAll(s[1:end], "''", "'"), true
}

// closingQuote returns the index of the quote closing the literal that
// starts at s[0], or -1.
func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		if s[i] != '\'' {
			continue
		}
		if i+1 < len(s) && s[i+1] == '\'' {
			i++
			continue
		}
		return i
	}
	return -1
}

// stripParens removes every pair of parentheses wrapping the whole of s.
// "((0))" becomes "0" but "(1) + (2)" is left alone.
func stripParens(s string) string {
	for len(s) >= 2 && s[0] == '(' && matchingParen(s) == len(s)-1 {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

func matchingParen(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'':
			end := closingQuote(s[i:])
			if end < 0 {
				return -1
			}
			i += end
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isNullLiteral(s string) bool {
	return strings.EqualFold(s, "NULL")
}

// booleanDefault maps the literals engines use for booleans to "1" and "0".
func booleanDefault(s string) string {
	switch strings.ToLower(s) {
	case "true", "b'1'", "t", "y":
		return "1"
	case "false", "b'0'", "f", "n":
		return "0"
	}
	return s
}
