package gateway

import (
	"errors"
	"fmt"
)

var (
	// ErrFetchTimeout matches fetch errors caused by the fetch deadline.
	ErrFetchTimeout = errors.New("fetch timed out")
	// ErrFetchFailed matches every other fetch error.
	ErrFetchFailed = errors.New("fetch failed")
)

// FetchError describes a failure to retrieve passage markup.
type FetchError struct {
	URL        string
	StatusCode int
	Timeout    bool
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("fetch %s: timed out: %v", e.URL, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("fetch %s: HTTP error: %d", e.URL, e.StatusCode)
	default:
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is tell timeouts from other failures.
func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrFetchTimeout:
		return e.Timeout
	case ErrFetchFailed:
		return !e.Timeout
	}
	return false
}
