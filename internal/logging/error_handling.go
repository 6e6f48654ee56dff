package logging

import (
	"database/sql"
	"errors"
	"io"
	"log/slog"
)

// SafeCloseWithLogging closes closer and logs a failure instead of returning it.
// Used for deferred closes of download bodies, the feed store and the Redis client.
func SafeCloseWithLogging(closer io.Closer, logger *slog.Logger, operation string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		LogError(logger, "failed to close resource", err,
			slog.String("operation", operation),
			slog.String("component", "resource_management"))
	}
}

// SafeRollbackWithLogging rolls back a feed import transaction. sql.ErrTxDone is expected
// when the deferred rollback runs after a commit and is not logged.
func SafeRollbackWithLogging(tx interface{ Rollback() error }, logger *slog.Logger, operation string) {
	if tx == nil {
		return
	}
	err := tx.Rollback()
	if err == nil || errors.Is(err, sql.ErrTxDone) {
		return
	}
	LogError(logger, "failed to rollback transaction", err,
		slog.String("operation", operation),
		slog.String("component", "database"))
}
