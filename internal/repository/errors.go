// Package repository holds the MySQL data access code of the catalog.
// Sentinel errors defined here let services tell apart missing rows,
// uniqueness violations and rows still referenced by other tables.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert or update violates a unique key.
var ErrDuplicate = errors.New("duplicate entry")

// ErrConflict is returned when a delete cannot proceed because other rows
// still reference the target, such as a chef who authored recipes.
var ErrConflict = errors.New("conflict")

// MySQL server error numbers mapped onto the sentinels above.
const (
	errDupEntry        = 1062
	errRowIsReferenced = 1451
)

func mysqlCode(err error) uint16 {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number
	}
	return 0
}

func translate(err error) error {
	switch mysqlCode(err) {
	case errDupEntry:
		return ErrDuplicate
	case errRowIsReferenced:
		return ErrConflict
	}
	return err
}
