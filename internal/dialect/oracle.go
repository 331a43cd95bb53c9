package dialect

import (
	"database/sql"
	"strings"

	"fixture-check/internal/schema"
)

type OracleDialect struct{}

func (d *OracleDialect) Name() string {
	return "oracle"
}

func (d *OracleDialect) CurrentSchemaQuery() string {
	return `SELECT SYS_CONTEXT('USERENV', 'CURRENT_SCHEMA') FROM DUAL`
}

// ColumnsQuery folds column names to lower case so fixtures written against
// other engines line up. TIMESTAMP precision lives in DATA_SCALE.
func (d *OracleDialect) ColumnsQuery() string {
	return `SELECT
    LOWER(c.COLUMN_NAME),
    c.DATA_TYPE,
    c.DATA_TYPE,
    c.CHAR_LENGTH,
    c.DATA_PRECISION,
    c.DATA_SCALE,
    CASE WHEN c.DATA_TYPE LIKE 'TIMESTAMP%' THEN c.DATA_SCALE END,
    c.NULLABLE,
    c.DATA_DEFAULT,
    CASE WHEN c.IDENTITY_COLUMN = 'YES' THEN 'auto_increment' END,
    cc.COMMENTS,
    NULL
FROM ALL_TAB_COLUMNS c
LEFT JOIN ALL_COL_COMMENTS cc
    ON cc.OWNER = c.OWNER AND cc.TABLE_NAME = c.TABLE_NAME AND cc.COLUMN_NAME = c.COLUMN_NAME
WHERE c.OWNER = NVL(UPPER(:1), USER) AND c.TABLE_NAME = UPPER(:2)
ORDER BY c.COLUMN_ID`
}

func (d *OracleDialect) NormalizeType(row ColumnRow) string {
	dt := DefaultNormalizeType(row.DataType)
	switch {
	case strings.HasPrefix(dt, "timestamp"):
		if strings.Contains(dt, "time zone") {
			return TypeTimestampTimezone
		}
		if positiveInt(row.DatetimePrecision) {
			return TypeTimestampFractional
		}
		return TypeTimestamp
	case strings.HasPrefix(dt, "interval"):
		return dt
	}

	switch dt {
	case "number":
		return oracleNumberType(row)
	case "float", "binary_float", "binary_double":
		return TypeFloat
	case "varchar2", "nvarchar2", "varchar":
		return TypeString
	case "char", "nchar":
		if row.CharLength.Valid && row.CharLength.Int64 == 36 {
			return TypeUUID
		}
		return TypeChar
	case "clob", "nclob", "long":
		return TypeText
	case "raw":
		if row.CharLength.Valid && row.CharLength.Int64 == 16 {
			return TypeBinaryUUID
		}
		return TypeBinary
	case "blob", "long raw":
		return TypeBinary
	case "date":
		return TypeDateTime
	case "json":
		return TypeJSON
	default:
		return dt
	}
}

// oracleNumberType maps NUMBER(p,0) onto the integer ladder. NUMBER(1) is
// the usual boolean stand-in.
func oracleNumberType(row ColumnRow) string {
	if !row.NumericPrecision.Valid || (row.NumericScale.Valid && row.NumericScale.Int64 > 0) {
		return TypeDecimal
	}
	switch p := row.NumericPrecision.Int64; {
	case p == 1:
		return TypeBoolean
	case p <= 5:
		return TypeSmallInteger
	case p <= 10:
		return TypeInteger
	case p <= 19:
		return TypeBigInteger
	}
	return TypeDecimal
}

// NormalizeDefault trims the trailing whitespace Oracle keeps in
// DATA_DEFAULT and drops identity sequence defaults.
func (d *OracleDialect) NormalizeDefault(def sql.NullString, typ string) any {
	if !def.Valid {
		return nil
	}
	v := strings.TrimSpace(def.String)
	if v == "" || isNullLiteral(v) || strings.HasSuffix(strings.ToLower(v), ".nextval") {
		return nil
	}
	if s, ok := unquote(v); ok {
		v = s
	}
	if typ == TypeBoolean {
		return booleanDefault(v)
	}
	return v
}

func (d *OracleDialect) GetSchemaName(input string) string {
	return strings.ToUpper(input)
}

func (d *OracleDialect) Column(row ColumnRow) schema.RawColumn {
	typ := d.NormalizeType(row)
	col := baseColumn(row, typ, d.NormalizeDefault(row.Default, typ))

	switch {
	case typ == TypeString || typ == TypeChar || typ == TypeBinary:
		col[schema.AttrLength] = nullInt(row.CharLength)
	case typ == TypeDecimal:
		col[schema.AttrLength] = nullInt(row.NumericPrecision)
		col[schema.AttrPrecision] = nullInt(row.NumericScale)
	case typ == TypeTimestampFractional || typ == TypeTimestampTimezone:
		col[schema.AttrPrecision] = nullInt(row.DatetimePrecision)
	}

	if IsNumeric(typ) {
		col[schema.AttrUnsigned] = false
	}
	if IsInteger(typ) {
		col[schema.AttrAutoIncrement] = row.Extra.Valid && row.Extra.String == "auto_increment"
	}
	return col
}
