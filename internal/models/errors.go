package models

import (
	"errors"
	"fmt"
)

// ErrFetchFailed is the single failure kind of every backend call. Timeouts,
// unexpected statuses and malformed bodies are not distinguished.
var ErrFetchFailed = errors.New("fetch failed")

// StorageError reports that the local history cache could not be used.
type StorageError struct {
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("history cache %s: %v", e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// FetchFailed wraps cause so that errors.Is(err, ErrFetchFailed) holds while the
// cause stays available for logging.
func FetchFailed(cause error) error {
	if cause == nil {
		return ErrFetchFailed
	}
	return fmt.Errorf("%w: %w", ErrFetchFailed, cause)
}
