// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// reconciliation services and the handlers to distinguish between the
// different failure scenarios without looking at driver errors.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
)

// ErrConstraint is returned when the store rejects a write because a
// referenced row does not exist or a NOT NULL/UNIQUE rule is broken.  The
// surrounding transaction must be rolled back; handlers translate it into a
// generic "save failed" response.
var ErrConstraint = errors.New("constraint violation")

// Not-found sentinels, one per entity.
var (
	ErrPersonNotFound             = errors.New("person not found")
	ErrArtistNotFound             = errors.New("artist not found")
	ErrShowNotFound               = errors.New("show not found")
	ErrRepresentationDateNotFound = errors.New("representation date not found")
	ErrEquipmentNotFound          = errors.New("equipment not found")
	ErrImageNotFound              = errors.New("image not found")
)

// DBTX is the subset of *sql.DB and *sql.Tx used by the repositories.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// MySQL server error numbers we care about.
const (
	mysqlDupEntry         = 1062
	mysqlBadNull          = 1048
	mysqlRowIsReferenced  = 1451
	mysqlNoReferencedRow  = 1452
	mysqlRowIsReferenced2 = 1217
	mysqlNoReferencedRow2 = 1216
)

// isDuplicate reports whether err is a UNIQUE violation in either driver.
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == mysqlDupEntry
	}
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// classify maps driver level integrity errors to ErrConstraint so that the
// callers never see driver types.  Other errors are returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlDupEntry, mysqlBadNull, mysqlRowIsReferenced, mysqlNoReferencedRow,
			mysqlRowIsReferenced2, mysqlNoReferencedRow2:
			return errors.Join(ErrConstraint, err)
		}
		return err
	}
	var se sqlite3.Error
	if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
		return errors.Join(ErrConstraint, err)
	}
	return err
}
