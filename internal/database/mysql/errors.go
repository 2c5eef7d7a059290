package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	gomysql "github.com/go-sql-driver/mysql"

	"github.com/schemaport/schemaport/internal/errs"
)

// MySQL error numbers (read-relevant only)
// Full list: https://dev.mysql.com/doc/mysql-errors/8.0/en/server-error-reference.html
const (
	errConnCount       = 1040
	errAccessDeniedDB  = 1044
	errAccessDenied    = 1045
	errUnknownDatabase = 1049
	errBadFieldError   = 1054
	errNoSuchTable     = 1146
)

// mapError converts a MySQL driver error into *errs.Error.
func mapError(err error, msg string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return errs.Wrap(errs.ErrKindIntrospection, msg, err)
	}

	var mysqlErr *gomysql.MySQLError
	if errors.As(err, &mysqlErr) {
		kind := errs.ErrKindIntrospection
		switch mysqlErr.Number {
		case errConnCount, errAccessDeniedDB, errAccessDenied, errUnknownDatabase:
			kind = errs.ErrKindConnectionFailed
		case errBadFieldError, errNoSuchTable:
			kind = errs.ErrKindIntrospection
		}
		return errs.Wrap(kind, fmt.Sprintf("%s: %s", msg, mysqlErr.Message), err)
	}

	// Fallthrough: network or protocol level failures
	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}
