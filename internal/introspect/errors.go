package introspect

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"

	mssql "github.com/denisenkom/go-mssqldb"
	gomysql "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"fixture-check/internal/errs"
)

// MySQL error numbers
// Full list: https://dev.mysql.com/doc/mysql-errors/8.0/en/server-error-reference.html
const (
	myErrDBAccessDenied    = 1044
	myErrAccessDenied      = 1045
	myErrUnknownDatabase   = 1049
	myErrTableAccessDenied = 1142
	myErrNoSuchTable       = 1146
	myErrSpecificAccess    = 1227
	myErrConnRefused       = 2003
)

// PostgreSQL SQLSTATE codes and classes
// Full list: https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgErrUndefinedTable    = "42P01"
	pgErrInsufficientPrivs = "42501"
	pgClassConnection      = "08"
	pgClassInvalidAuth     = "28"
	pgClassInvalidCatalog  = "3D"
)

// SQL Server error numbers
const (
	msErrInvalidObject    = 208
	msErrPermissionDenied = 229
	msErrCannotOpenDB     = 4060
	msErrLoginFailed      = 18456
)

// mapError converts a driver error into an *errs.Error. op names the
// operation for the message.
func mapError(err error, op string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, op, err)
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, gomysql.ErrInvalidConn) {
		return errs.Wrap(errs.ErrKindConnectionFailed, op, err)
	}

	var myErr *gomysql.MySQLError
	if errors.As(err, &myErr) {
		return errs.Wrap(mysqlKind(myErr.Number), op, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return errs.Wrap(sqlStateKind(string(pqErr.Code)), op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return errs.Wrap(sqlStateKind(pgErr.Code), op, err)
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return errs.Wrap(errs.ErrKindConnectionFailed, op, err)
	}

	var msErr mssql.Error
	if errors.As(err, &msErr) {
		return errs.Wrap(mssqlKind(msErr.Number), op, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return errs.Wrap(errs.ErrKindTimeout, op, err)
		}
		return errs.Wrap(errs.ErrKindConnectionFailed, op, err)
	}

	return errs.Wrap(errs.ErrKindUnknown, op, err)
}

func mysqlKind(number uint16) errs.ErrKind {
	switch number {
	case myErrNoSuchTable:
		return errs.ErrKindNotFound
	case myErrDBAccessDenied, myErrAccessDenied, myErrUnknownDatabase, myErrConnRefused:
		return errs.ErrKindConnectionFailed
	case myErrTableAccessDenied, myErrSpecificAccess:
		return errs.ErrKindPermissionDenied
	}
	return errs.ErrKindQueryFailed
}

// sqlStateKind classifies a PostgreSQL SQLSTATE; lib/pq and pgx report the
// same codes.
func sqlStateKind(code string) errs.ErrKind {
	switch code {
	case pgErrUndefinedTable:
		return errs.ErrKindNotFound
	case pgErrInsufficientPrivs:
		return errs.ErrKindPermissionDenied
	}
	if len(code) >= 2 {
		switch code[:2] {
		case pgClassConnection, pgClassInvalidAuth, pgClassInvalidCatalog:
			return errs.ErrKindConnectionFailed
		}
	}
	return errs.ErrKindQueryFailed
}

func mssqlKind(number int32) errs.ErrKind {
	switch number {
	case msErrInvalidObject:
		return errs.ErrKindNotFound
	case msErrLoginFailed, msErrCannotOpenDB:
		return errs.ErrKindConnectionFailed
	case msErrPermissionDenied:
		return errs.ErrKindPermissionDenied
	}
	return errs.ErrKindQueryFailed
}
