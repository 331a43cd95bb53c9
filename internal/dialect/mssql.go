package dialect

import (
	"database/sql"
	"strings"

	"fixture-check/internal/schema"
)

type MSSQLDialect struct{}

func (d *MSSQLDialect) Name() string {
	return "sqlserver"
}

func (d *MSSQLDialect) CurrentSchemaQuery() string {
	return `SELECT SCHEMA_NAME()`
}

func (d *MSSQLDialect) ColumnsQuery() string {
	return `SELECT
    c.COLUMN_NAME,
    c.DATA_TYPE,
    c.DATA_TYPE,
    c.CHARACTER_MAXIMUM_LENGTH,
    CAST(c.NUMERIC_PRECISION AS INT),
    c.NUMERIC_SCALE,
    c.DATETIME_PRECISION,
    c.IS_NULLABLE,
    c.COLUMN_DEFAULT,
    CASE WHEN COLUMNPROPERTY(OBJECT_ID(QUOTENAME(c.TABLE_SCHEMA) + '.' + QUOTENAME(c.TABLE_NAME)), c.COLUMN_NAME, 'IsIdentity') = 1 THEN 'auto_increment' END,
    CAST(ep.value AS NVARCHAR(4000)),
    c.COLLATION_NAME
FROM INFORMATION_SCHEMA.COLUMNS c
LEFT JOIN sys.extended_properties ep
    ON ep.major_id = OBJECT_ID(QUOTENAME(c.TABLE_SCHEMA) + '.' + QUOTENAME(c.TABLE_NAME))
    AND ep.minor_id = c.ORDINAL_POSITION
    AND ep.name = 'MS_Description'
WHERE c.TABLE_SCHEMA = @p1 AND c.TABLE_NAME = @p2
ORDER BY c.ORDINAL_POSITION`
}

func (d *MSSQLDialect) NormalizeType(row ColumnRow) string {
	dt := DefaultNormalizeType(row.DataType)
	switch dt {
	case "bit":
		return TypeBoolean
	case "tinyint":
		return TypeTinyInteger
	case "smallint":
		return TypeSmallInteger
	case "int":
		return TypeInteger
	case "bigint":
		return TypeBigInteger
	case "varchar", "nvarchar":
		// (max) is reported as -1
		if row.CharLength.Valid && row.CharLength.Int64 == -1 {
			return TypeText
		}
		return TypeString
	case "char", "nchar":
		return TypeChar
	case "text", "ntext":
		return TypeText
	case "uniqueidentifier":
		return TypeUUID
	case "binary", "varbinary", "image":
		return TypeBinary
	case "decimal", "numeric", "money", "smallmoney":
		return TypeDecimal
	case "float", "real":
		return TypeFloat
	case "date":
		return TypeDate
	case "datetime", "smalldatetime":
		return TypeDateTime
	case "datetime2":
		if positiveInt(row.DatetimePrecision) {
			return TypeDateTimeFractional
		}
		return TypeDateTime
	case "datetimeoffset":
		return TypeTimestampTimezone
	case "time":
		return TypeTime
	default:
		return dt
	}
}

// NormalizeDefault unwraps the parentheses SQL Server stores around every
// default, e.g. "((0))" or "(N'abc')".
func (d *MSSQLDialect) NormalizeDefault(def sql.NullString, typ string) any {
	if !def.Valid {
		return nil
	}
	v := stripParens(strings.TrimSpace(def.String))
	if isNullLiteral(v) {
		return nil
	}
	if strings.HasPrefix(v, "N'") {
		v = v[1:]
	}
	if s, ok := unquote(v); ok {
		v = s
	}
	if typ == TypeBoolean {
		return booleanDefault(v)
	}
	return v
}

func (d *MSSQLDialect) GetSchemaName(input string) string {
	if input == "" {
		return "dbo"
	}
	return input
}

func (d *MSSQLDialect) Column(row ColumnRow) schema.RawColumn {
	typ := d.NormalizeType(row)
	col := baseColumn(row, typ, d.NormalizeDefault(row.Default, typ))

	switch {
	case typ == TypeString || typ == TypeChar || typ == TypeBinary:
		if positiveInt(row.CharLength) {
			col[schema.AttrLength] = int(row.CharLength.Int64)
		}
	case typ == TypeDecimal:
		col[schema.AttrLength] = nullInt(row.NumericPrecision)
		col[schema.AttrPrecision] = nullInt(row.NumericScale)
	case typ == TypeDateTimeFractional || typ == TypeTimestampTimezone:
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
