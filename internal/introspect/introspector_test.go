package introspect

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	gomysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixture-check/internal/dialect"
	"fixture-check/internal/errs"
	"fixture-check/internal/schema"
)

var columnHeaders = []string{
	"COLUMN_NAME", "DATA_TYPE", "COLUMN_TYPE", "CHARACTER_MAXIMUM_LENGTH",
	"NUMERIC_PRECISION", "NUMERIC_SCALE", "DATETIME_PRECISION", "IS_NULLABLE",
	"COLUMN_DEFAULT", "EXTRA", "COLUMN_COMMENT", "COLLATION_NAME",
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestNew_ConfiguredSchema(t *testing.T) {
	db, mock := newMock(t)

	i, err := New(context.Background(), db, &dialect.OracleDialect{}, "app")
	require.NoError(t, err)
	assert.Equal(t, "APP", i.Schema())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNew_CurrentSchema(t *testing.T) {
	db, mock := newMock(t)
	d := &dialect.MysqlDialect{}
	mock.ExpectQuery(d.CurrentSchemaQuery()).
		WillReturnRows(sqlmock.NewRows([]string{"DATABASE()"}).AddRow("app"))

	i, err := New(context.Background(), db, d, "", WithTimeout(time.Second))
	require.NoError(t, err)
	assert.Equal(t, "app", i.Schema())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNew_CurrentSchemaEmptyFallsBackToDialectDefault(t *testing.T) {
	db, mock := newMock(t)
	d := &dialect.PostgresDialect{}
	mock.ExpectQuery(d.CurrentSchemaQuery()).
		WillReturnRows(sqlmock.NewRows([]string{"current_schema"}).AddRow(nil))

	i, err := New(context.Background(), db, d, "")
	require.NoError(t, err)
	assert.Equal(t, "public", i.Schema())
}

func TestNew_CurrentSchemaError(t *testing.T) {
	db, mock := newMock(t)
	d := &dialect.MysqlDialect{}
	mock.ExpectQuery(d.CurrentSchemaQuery()).
		WillReturnError(&gomysql.MySQLError{Number: 1045, Message: "Access denied for user"})

	_, err := New(context.Background(), db, d, "")
	require.Error(t, err)
	assert.True(t, errs.IsConnectionFailed(err))
}

func TestDescribe(t *testing.T) {
	db, mock := newMock(t)
	d := &dialect.MysqlDialect{}

	i, err := New(context.Background(), db, d, "app")
	require.NoError(t, err)

	mock.ExpectQuery(d.ColumnsQuery()).
		WithArgs("app", "users").
		WillReturnRows(sqlmock.NewRows(columnHeaders).
			AddRow("id", "int", "int(11)", nil, 10, 0, nil, "NO", nil, "auto_increment", "", nil).
			AddRow("name", "varchar", "varchar(255)", 255, nil, nil, nil, "YES", "anon", "", "", "utf8mb4_general_ci"))

	cols, err := i.Describe(context.Background(), "users")
	require.NoError(t, err)
	require.Len(t, cols, 2)

	assert.Equal(t, "integer", cols["id"][schema.AttrType])
	assert.Equal(t, 11, cols["id"][schema.AttrLength])
	assert.Equal(t, true, cols["id"][schema.AttrAutoIncrement])
	assert.Equal(t, "string", cols["name"][schema.AttrType])
	assert.Equal(t, 255, cols["name"][schema.AttrLength])
	assert.Equal(t, "anon", cols["name"][schema.AttrDefault])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDescribe_NoColumnsIsNotFound(t *testing.T) {
	db, mock := newMock(t)
	d := &dialect.MysqlDialect{}
	i, err := New(context.Background(), db, d, "app")
	require.NoError(t, err)

	mock.ExpectQuery(d.ColumnsQuery()).
		WithArgs("app", "ghosts").
		WillReturnRows(sqlmock.NewRows(columnHeaders))

	_, err = i.Describe(context.Background(), "ghosts")
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
	assert.Contains(t, err.Error(), "app.ghosts")
}

func TestDescribe_DriverError(t *testing.T) {
	db, mock := newMock(t)
	d := &dialect.MysqlDialect{}
	i, err := New(context.Background(), db, d, "app")
	require.NoError(t, err)

	mock.ExpectQuery(d.ColumnsQuery()).
		WithArgs("app", "users").
		WillReturnError(&gomysql.MySQLError{Number: 1142, Message: "SELECT command denied"})

	_, err = i.Describe(context.Background(), "users")
	require.Error(t, err)
	assert.True(t, errs.IsPermissionDenied(err))
	assert.Contains(t, err.Error(), "describe app.users")
}
