package passage

import (
	"fmt"
	"strconv"
	"strings"
)

// Reference identifies a single chapter of a single translation. It is the
// lookup key for one fetch.
type Reference struct {
	Version string `json:"version"`
	Book    string `json:"book"`
	Chapter string `json:"chapter"`
}

// NewReference builds a validated reference. Surrounding whitespace is
// trimmed from every field.
func NewReference(version, book, chapter string) (Reference, error) {
	ref := Reference{
		Version: strings.TrimSpace(version),
		Book:    strings.TrimSpace(book),
		Chapter: strings.TrimSpace(chapter),
	}
	if err := ref.Validate(); err != nil {
		return Reference{}, err
	}
	return ref, nil
}

// Validate checks that every field is present and that the chapter is a
// positive integer.
func (r Reference) Validate() error {
	if r.Version == "" {
		return fmt.Errorf("version is required")
	}
	if r.Book == "" {
		return fmt.Errorf("book is required")
	}
	if r.Chapter == "" {
		return fmt.Errorf("chapter is required")
	}
	n, err := strconv.Atoi(r.Chapter)
	if err != nil || n < 1 {
		return fmt.Errorf("chapter must be a positive integer, got %q", r.Chapter)
	}
	return nil
}

// Query returns the search string the reference site expects, e.g.
// "Genesis 1".
func (r Reference) Query() string {
	return r.Book + " " + r.Chapter
}

func (r Reference) String() string {
	return fmt.Sprintf("%s %s (%s)", r.Book, r.Chapter, r.Version)
}
