// Package introspect reads live column definitions from the database catalog.
package introspect

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fixture-check/internal/dialect"
	"fixture-check/internal/errs"
	"fixture-check/internal/logger"
	"fixture-check/internal/schema"
)

// DefaultQueryTimeout bounds a single catalog query.
const DefaultQueryTimeout = 30 * time.Second

// Querier is the subset of *sql.DB the introspector needs.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Introspector describes live tables of one schema.
type Introspector struct {
	db      Querier
	dialect dialect.Dialect
	schema  string
	timeout time.Duration
	log     *logger.Logger
}

// Option configures an Introspector.
type Option func(*Introspector)

// WithTimeout sets the per-query deadline. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(i *Introspector) {
		if d > 0 {
			i.timeout = d
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *logger.Logger) Option {
	return func(i *Introspector) {
		if l != nil {
			i.log = l
		}
	}
}

// New resolves the target schema and returns an Introspector for it. A
// configured schema wins; otherwise the connection's current schema is
// asked for, falling back to the dialect default when that is empty.
func New(ctx context.Context, db Querier, d dialect.Dialect, schemaName string, opts ...Option) (*Introspector, error) {
	i := &Introspector{
		db:      db,
		dialect: d,
		timeout: DefaultQueryTimeout,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(i)
	}

	if schemaName != "" {
		i.schema = d.GetSchemaName(schemaName)
	} else {
		current, err := i.currentSchema(ctx)
		if err != nil {
			return nil, err
		}
		i.schema = d.GetSchemaName(current)
	}

	i.log.With().
		Str("dialect", d.Name()).
		Str("schema", i.schema).
		Logger().
		Debug("introspector ready")
	return i, nil
}

func (i *Introspector) currentSchema(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	var current sql.NullString
	if err := i.db.QueryRowContext(ctx, i.dialect.CurrentSchemaQuery()).Scan(&current); err != nil {
		return "", mapError(err, "resolve current schema")
	}
	return current.String, nil
}

// Schema returns the schema tables are looked up in.
func (i *Introspector) Schema() string {
	return i.schema
}

// Describe returns the raw descriptors of every column of table. A table
// with no columns is reported as not found.
func (i *Introspector) Describe(ctx context.Context, table string) (schema.RawColumns, error) {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	i.log.With().
		Str("dialect", i.dialect.Name()).
		Str("schema", i.schema).
		Str("table", table).
		Logger().
		Debug("describing table")

	op := fmt.Sprintf("describe %s.%s", i.schema, table)
	rows, err := i.db.QueryContext(ctx, i.dialect.ColumnsQuery(), i.schema, table)
	if err != nil {
		return nil, mapError(err, op)
	}
	defer rows.Close()

	cols := make(schema.RawColumns)
	for rows.Next() {
		var row dialect.ColumnRow
		if err := rows.Scan(row.ScanTargets()...); err != nil {
			return nil, mapError(err, op)
		}
		cols[row.Name] = i.dialect.Column(row)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, op)
	}

	if len(cols) == 0 {
		return nil, errs.Newf(errs.ErrKindNotFound, "table %s.%s not found or has no columns", i.schema, table)
	}
	return cols, nil
}
