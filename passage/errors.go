package passage

import (
	"errors"
	"fmt"
)

// ErrInvalidSelector is returned by ParseSelector for expressions that are not
// a comma separated list of verse numbers and ranges.
var ErrInvalidSelector = errors.New("invalid verse selector")

// ContentNotFoundError reports that the passage content container could not
// be located in fetched markup. Markup holds the document that was searched
// so callers can surface it for diagnosis.
type ContentNotFoundError struct {
	Selector string
	Matches  int
	Markup   string
}

func (e *ContentNotFoundError) Error() string {
	return fmt.Sprintf("passage content not found: expected 1 element matching %s, found %d",
		e.Selector, e.Matches)
}
