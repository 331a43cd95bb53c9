package dialect

import (
	"database/sql"

	"fixture-check/internal/schema"
)

// Dialect abstracts the catalog differences between database engines.
type Dialect interface {
	Name() string

	// Metadata Queries (Schema Introspection)
	CurrentSchemaQuery() string
	// ColumnsQuery takes two bind parameters, schema then table, and returns
	// rows in ColumnRow order.
	ColumnsQuery() string

	// Helpers
	NormalizeType(row ColumnRow) string
	NormalizeDefault(def sql.NullString, typ string) any
	GetSchemaName(input string) string

	// Column converts one catalog row into a raw column descriptor using the
	// fixture attribute vocabulary.
	Column(row ColumnRow) schema.RawColumn
}

// ColumnRow is one row of a ColumnsQuery result.
type ColumnRow struct {
	Name              string
	DataType          string
	ColumnType        sql.NullString // full type (MySQL COLUMN_TYPE, Postgres udt_name)
	CharLength        sql.NullInt64
	NumericPrecision  sql.NullInt64
	NumericScale      sql.NullInt64
	DatetimePrecision sql.NullInt64
	IsNullable        string
	Default           sql.NullString
	Extra             sql.NullString // auto_increment / identity / nextval marker
	Comment           sql.NullString
	Collation         sql.NullString
}

// ScanTargets returns the scan destinations in query column order.
func (r *ColumnRow) ScanTargets() []any {
	return []any{
		&r.Name,
		&r.DataType,
		&r.ColumnType,
		&r.CharLength,
		&r.NumericPrecision,
		&r.NumericScale,
		&r.DatetimePrecision,
		&r.IsNullable,
		&r.Default,
		&r.Extra,
		&r.Comment,
		&r.Collation,
	}
}
