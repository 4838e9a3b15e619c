package errors_test

import (
	"context"
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	perr "docket/internal/platform/errors"
)

func TestFromPgNil(t *testing.T) {
	if err := perr.FromPg(nil); err != nil {
		t.Fatalf("expected nil got %v", err)
	}
}

func TestFromPgDeadlineExceededIsTimeout(t *testing.T) {
	err := perr.FromPg(fmt.Errorf("query: %w", context.DeadlineExceeded))
	if !perr.IsTimeout(err) {
		t.Fatalf("expected timeout code got %v", perr.CodeOf(err))
	}
	if perr.HTTPStatus(err) != 504 {
		t.Fatalf("expected 504 got %d", perr.HTTPStatus(err))
	}
	if !stderrs.Is(err, context.DeadlineExceeded) {
		t.Fatal("expected original cause preserved")
	}
}

func TestFromPgStatementCanceledIsTimeout(t *testing.T) {
	err := perr.FromPg(&pgconn.PgError{Code: "57014", Message: "canceling statement"})
	if !perr.IsTimeout(err) {
		t.Fatalf("expected timeout code got %v", perr.CodeOf(err))
	}
}

func TestFromPgOtherErrorsAreDB(t *testing.T) {
	err := perr.FromPg(&pgconn.PgError{Code: "42703", Message: "column does not exist"})
	if perr.CodeOf(err) != perr.ErrorCodeDB {
		t.Fatalf("expected DB code got %v", perr.CodeOf(err))
	}
	if perr.HTTPStatus(err) != 500 {
		t.Fatalf("expected 500 got %d", perr.HTTPStatus(err))
	}

	err = perr.FromPg(stderrs.New("conn refused"))
	if perr.CodeOf(err) != perr.ErrorCodeDB {
		t.Fatalf("expected DB code got %v", perr.CodeOf(err))
	}
}

func TestIsRetryable(t *testing.T) {
	retryable := []string{"40001", "40P01", "55P03", "57P03"}
	for _, code := range retryable {
		if !perr.IsRetryable(&pgconn.PgError{Code: code}) {
			t.Fatalf("expected %s to be retryable", code)
		}
	}
	if perr.IsRetryable(&pgconn.PgError{Code: "23505"}) {
		t.Fatal("unique violation should not be retryable")
	}
	if perr.IsRetryable(nil) {
		t.Fatal("nil should not be retryable")
	}
}

func TestExtractPgErrorThroughWrapping(t *testing.T) {
	orig := &pgconn.PgError{Code: "57014"}
	wrapped := perr.Wrap(fmt.Errorf("outer: %w", orig), perr.ErrorCodeDB, "query failed")

	pgErr, ok := perr.ExtractPgError(wrapped)
	if !ok {
		t.Fatal("expected pg error to be extractable")
	}
	if pgErr.Code != "57014" {
		t.Fatalf("expected 57014 got %s", pgErr.Code)
	}
}
