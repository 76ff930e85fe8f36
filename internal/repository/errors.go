// Package repository holds the raw-SQL data access layer.  Each
// repository file defines the sentinel errors its lookups return so
// handlers can translate failures into HTTP statuses with errors.Is.
// This file keeps the helpers shared by all repositories for
// classifying MySQL driver errors.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// mysql server error numbers this layer cares about.
const (
	mysqlDuplicateEntry  = 1062
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock        = 1213
	mysqlRowIsReferenced = 1451
)

// isDuplicateEntry reports whether err is a unique-constraint
// violation (duplicate table number, phone number, username or name).
func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// isRowReferenced reports whether err is a RESTRICT foreign-key
// violation, i.e. the row still has dependent bookings.
func isRowReferenced(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlRowIsReferenced
}

// isSerializationFailure reports whether err means the transaction lost
// a locking race and may succeed when retried.
func isSerializationFailure(err error) bool {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return false
	}
	return me.Number == mysqlDeadlock || me.Number == mysqlLockWaitTimeout
}
