package slot

import (
	"errors"

	"github.com/lib/pq"
	"modernc.org/sqlite"
)

// PostgreSQL error codes
const (
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
	pqUniqueViolation      = "23505"
	pqExclusionViolation   = "23P01"
)

// SQLite primary result codes
const (
	sqliteBusy       = 5
	sqliteLocked     = 6
	sqliteConstraint = 19
)

// isConflictError определяет ошибки конкурентной записи, которые означают потерю гонки
func isConflictError(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqSerializationFailure, pqDeadlockDetected, pqUniqueViolation, pqExclusionViolation:
			return true
		}
		return false
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() & 0xff {
		case sqliteBusy, sqliteLocked, sqliteConstraint:
			return true
		}
	}

	return false
}
