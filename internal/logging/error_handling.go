package logging

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
)

// CloseLogged closes c and logs a failure under operation. A connection the
// peer or another goroutine already closed is not reported.
func CloseLogged(logger *slog.Logger, operation string, c io.Closer) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		LogError(logger, "failed to close resource", err, slog.String("operation", operation))
	}
}

// RollbackLogged is meant to be deferred right after BeginTx. Once the
// transaction has committed the rollback returns sql.ErrTxDone, which is
// expected and dropped.
func RollbackLogged(logger *slog.Logger, operation string, tx interface{ Rollback() error }) {
	if tx == nil {
		return
	}
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		LogError(logger, "failed to rollback transaction", err,
			slog.String("operation", operation),
			slog.String("component", "database"))
	}
}

// CloseInto closes c from a defer and reports the failure through errp when
// the function has not already failed. A second failure is logged only.
func CloseInto(errp *error, logger *slog.Logger, operation string, c io.Closer) {
	if c == nil {
		return
	}
	err := c.Close()
	if err == nil {
		return
	}
	if *errp == nil {
		*errp = fmt.Errorf("%s: close failed: %w", operation, err)
		return
	}
	LogError(logger, "failed to close resource", err, slog.String("operation", operation))
}
