package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrStorageIO = errors.New("storage I/O failed")
)

// Database & Storage Specific Errors
var (
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
	ErrDatabaseCorruption = errors.New("database corruption")
)

func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        fmt.Errorf("%s %w", entity, ErrNotFound),
	}
}

// StorageError wraps a failed read or write of the backing store so callers
// can match it with errors.Is(err, ErrStorageIO).
func StorageError(operation string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageIO, operation, cause)
}

// CorruptionError marks a backing document that exists but cannot be decoded.
func CorruptionError(operation string, cause error) error {
	return fmt.Errorf("%w: %s: %w: %w", ErrStorageIO, operation, ErrDatabaseCorruption, cause)
}

// NewDatabaseError creates a new database error with details about the
// operation. The cause is kept for logging only.
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	details := fmt.Sprintf("Failed to %s %s", operation, entity)

	if IsNotFound(cause) {
		return &ApiErr{
			StatusCode: http.StatusNotFound,
			err:        fmt.Errorf("%s %w", entity, ErrNotFound),
			Details:    details,
			Cause:      cause,
		}
	}

	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDatabaseQuery,
		Details:    details,
		Cause:      cause,
	}
}

func NewDatabaseConnectionError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrDatabaseConnection,
		Details:    "Unable to reach the essay store",
		Cause:      cause,
	}
}

func IsStorageIOError(err error) bool {
	return errors.Is(err, ErrStorageIO)
}

func IsDatabaseCorruptionError(err error) bool {
	return errors.Is(err, ErrDatabaseCorruption)
}
