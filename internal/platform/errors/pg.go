package errors

// Postgres-specific helpers for mapping pgx errors to project codes

import (
	"context"
	stderrs "errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes we care about
const (
	pgErrSerializationFailure = "40001"
	pgErrDeadlockDetected     = "40P01"
	pgErrLockNotAvailable     = "55P03"
	pgErrCannotConnectNow     = "57P03" // startup in progress
	pgErrQueryCanceled        = "57014"
)

// ExtractPgError returns (*pgconn.PgError, true) if the root cause is a PgError.
func ExtractPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(Root(err), &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsSQLState reports whether the error is a Postgres error with the given SQLSTATE code
func IsSQLState(err error, code string) bool {
	pgErr, ok := ExtractPgError(err)
	return ok && pgErr.Code == code
}

// IsQueryCanceled reports whether the server aborted the statement, which is
// what a context-cancelled pgx query surfaces as when the cancel raced the wire
func IsQueryCanceled(err error) bool { return IsSQLState(err, pgErrQueryCanceled) }

// IsRetryable reports whether a retry of the same statement may succeed
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case IsSQLState(err, pgErrSerializationFailure),
		IsSQLState(err, pgErrDeadlockDetected),
		IsSQLState(err, pgErrLockNotAvailable),
		IsSQLState(err, pgErrCannotConnectNow):
		return true
	}
	return false
}

// FromPg classifies an execution error:
// deadline-exceeded becomes Timeout, everything else becomes DB
func FromPg(err error) error {
	if err == nil {
		return nil
	}
	if stderrs.Is(err, context.DeadlineExceeded) || IsQueryCanceled(err) {
		return Wrap(err, ErrorCodeTimeout, "query timed out")
	}
	return Wrap(err, ErrorCodeDB, "query failed")
}
