package dialect

import (
	"database/sql"
	"strings"

	"fixture-check/internal/schema"
)

type MysqlDialect struct{}

// MySQL TEXT/BLOB family sizes.
const (
	lengthTiny   = 255
	lengthMedium = 16777215
	lengthLong   = 4294967295
)

func (d *MysqlDialect) Name() string {
	return "mysql"
}

func (d *MysqlDialect) CurrentSchemaQuery() string {
	return `SELECT DATABASE()`
}

func (d *MysqlDialect) ColumnsQuery() string {
	return `SELECT COLUMN_NAME, DATA_TYPE, COLUMN_TYPE, CHARACTER_MAXIMUM_LENGTH, NUMERIC_PRECISION, NUMERIC_SCALE, DATETIME_PRECISION, IS_NULLABLE, COLUMN_DEFAULT, EXTRA, COLUMN_COMMENT, COLLATION_NAME FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? ORDER BY ORDINAL_POSITION`
}

func (d *MysqlDialect) NormalizeType(row ColumnRow) string {
	dt := DefaultNormalizeType(row.DataType)
	ct := strings.ToLower(row.ColumnType.String)
	switch dt {
	case "tinyint":
		if strings.HasPrefix(ct, "tinyint(1)") {
			return TypeBoolean
		}
		return TypeTinyInteger
	case "bit":
		if ct == "bit(1)" {
			return TypeBoolean
		}
		return TypeBinary
	case "smallint":
		return TypeSmallInteger
	case "mediumint", "int", "integer":
		return TypeInteger
	case "bigint":
		return TypeBigInteger
	case "char":
		if row.CharLength.Valid && row.CharLength.Int64 == 36 {
			return TypeUUID
		}
		return TypeChar
	case "varchar", "enum", "set":
		return TypeString
	case "tinytext", "text", "mediumtext", "longtext":
		return TypeText
	case "binary":
		if row.CharLength.Valid && row.CharLength.Int64 == 16 {
			return TypeBinaryUUID
		}
		return TypeBinary
	case "varbinary", "tinyblob", "blob", "mediumblob", "longblob":
		return TypeBinary
	case "decimal", "numeric":
		return TypeDecimal
	case "float", "double", "real":
		return TypeFloat
	case "date":
		return TypeDate
	case "datetime":
		if positiveInt(row.DatetimePrecision) {
			return TypeDateTimeFractional
		}
		return TypeDateTime
	case "timestamp":
		if positiveInt(row.DatetimePrecision) {
			return TypeTimestampFractional
		}
		return TypeTimestamp
	case "time":
		return TypeTime
	case "json":
		return TypeJSON
	default:
		return dt
	}
}

// NormalizeDefault handles MariaDB, which reports NULL as a literal and
// quotes string defaults, as well as MySQL, which does neither.
func (d *MysqlDialect) NormalizeDefault(def sql.NullString, typ string) any {
	if !def.Valid || isNullLiteral(def.String) {
		return nil
	}
	v := def.String
	if s, ok := unquote(v); ok {
		v = s
	}
	if typ == TypeBoolean {
		return booleanDefault(v)
	}
	return v
}

func (d *MysqlDialect) GetSchemaName(input string) string {
	return DefaultGetSchemaName(input)
}

func (d *MysqlDialect) Column(row ColumnRow) schema.RawColumn {
	typ := d.NormalizeType(row)
	col := baseColumn(row, typ, d.NormalizeDefault(row.Default, typ))
	ct := strings.ToLower(row.ColumnType.String)

	switch {
	case typ == TypeString || typ == TypeChar || typ == TypeBinary || typ == TypeText:
		col[schema.AttrLength] = mysqlBlobLength(row)
	case IsInteger(typ):
		col[schema.AttrLength], _ = typeSize(ct)
	case typ == TypeDecimal:
		col[schema.AttrLength] = nullInt(row.NumericPrecision)
		col[schema.AttrPrecision] = nullInt(row.NumericScale)
	case typ == TypeFloat:
		col[schema.AttrLength], col[schema.AttrPrecision] = typeSize(ct)
	case typ == TypeDateTimeFractional || typ == TypeTimestampFractional:
		col[schema.AttrPrecision] = nullInt(row.DatetimePrecision)
	}

	if IsNumeric(typ) {
		col[schema.AttrUnsigned] = strings.Contains(ct, "unsigned")
	}
	if IsInteger(typ) {
		col[schema.AttrAutoIncrement] = strings.Contains(strings.ToLower(row.Extra.String), "auto_increment")
	}
	return col
}

// mysqlBlobLength reports the TEXT/BLOB family by size class and every other
// string type by its declared length.
func mysqlBlobLength(row ColumnRow) any {
	switch DefaultNormalizeType(row.DataType) {
	case "tinytext", "tinyblob":
		return lengthTiny
	case "text", "blob":
		return nil
	case "mediumtext", "mediumblob":
		return lengthMedium
	case "longtext", "longblob":
		return lengthLong
	}
	return nullInt(row.CharLength)
}
