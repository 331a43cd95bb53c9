package dialect

import (
	"database/sql"
	"strings"

	"fixture-check/internal/schema"
)

type PostgresDialect struct{}

func (d *PostgresDialect) Name() string {
	return "postgres"
}

func (d *PostgresDialect) CurrentSchemaQuery() string {
	return `SELECT current_schema()`
}

// ColumnsQuery reports udt_name as the column type; it is stable across
// versions where data_type spells out "character varying" and friends.
func (d *PostgresDialect) ColumnsQuery() string {
	return `SELECT
    c.column_name,
    c.data_type,
    c.udt_name,
    c.character_maximum_length,
    c.numeric_precision,
    c.numeric_scale,
    c.datetime_precision,
    c.is_nullable,
    c.column_default,
    CASE WHEN c.is_identity = 'YES' OR c.column_default LIKE 'nextval(%' THEN 'auto_increment' END,
    pgd.description,
    c.collation_name
FROM information_schema.columns c
LEFT JOIN pg_catalog.pg_statio_all_tables st
    ON st.schemaname = c.table_schema AND st.relname = c.table_name
LEFT JOIN pg_catalog.pg_description pgd
    ON pgd.objoid = st.relid AND pgd.objsubid = c.ordinal_position
WHERE c.table_schema = $1 AND c.table_name = $2
ORDER BY c.ordinal_position`
}

func (d *PostgresDialect) NormalizeType(row ColumnRow) string {
	udt := DefaultNormalizeType(row.ColumnType.String)
	if udt == "" {
		udt = DefaultNormalizeType(row.DataType)
	}
	switch udt {
	case "bool", "boolean":
		return TypeBoolean
	case "int2", "smallint", "smallserial":
		return TypeSmallInteger
	case "int4", "integer", "serial":
		return TypeInteger
	case "int8", "bigint", "bigserial":
		return TypeBigInteger
	case "varchar", "character varying", "citext":
		return TypeString
	case "bpchar", "char", "character":
		return TypeChar
	case "text":
		return TypeText
	case "uuid":
		return TypeUUID
	case "bytea":
		return TypeBinary
	case "numeric", "decimal", "money":
		return TypeDecimal
	case "float4", "float8", "real", "double precision":
		return TypeFloat
	case "date":
		return TypeDate
	case "timestamp":
		if positiveInt(row.DatetimePrecision) {
			return TypeTimestampFractional
		}
		return TypeTimestamp
	case "timestamptz":
		return TypeTimestampTimezone
	case "time", "timetz":
		return TypeTime
	case "json", "jsonb":
		return TypeJSON
	default:
		return udt
	}
}

// NormalizeDefault drops sequence defaults and casts such as
// "'abc'::character varying" or "NULL::text".
func (d *PostgresDialect) NormalizeDefault(def sql.NullString, typ string) any {
	if !def.Valid {
		return nil
	}
	v := strings.TrimSpace(def.String)
	if strings.HasPrefix(v, "nextval(") {
		return nil
	}
	if s, ok := unquote(v); ok {
		v = s
	} else {
		if i := strings.Index(v, "::"); i >= 0 {
			v = v[:i]
		}
		v = stripParens(v)
		if isNullLiteral(v) {
			return nil
		}
	}
	if typ == TypeBoolean {
		return booleanDefault(v)
	}
	return v
}

func (d *PostgresDialect) GetSchemaName(input string) string {
	if input == "" {
		return "public"
	}
	return input
}

func (d *PostgresDialect) Column(row ColumnRow) schema.RawColumn {
	typ := d.NormalizeType(row)
	col := baseColumn(row, typ, d.NormalizeDefault(row.Default, typ))

	switch {
	case typ == TypeString || typ == TypeChar:
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
