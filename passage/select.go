package passage

import (
	"fmt"
	"strings"
)

// MissingVerse returns the placeholder used in place of a verse that is not
// in the map.
func MissingVerse(n int) string {
	return fmt.Sprintf("Verse %d not found.", n)
}

// Select joins the verses named by sel with single spaces. A nil or empty
// selector selects every verse in ascending order. Otherwise items are
// resolved in selector order, ranges expand ascending, and a verse missing
// from m is replaced by its MissingVerse placeholder instead of failing the
// whole selection.
func Select(m *VerseMap, sel Selector) string {
	if len(sel) == 0 {
		return join(m.Texts())
	}

	var parts []string
	for _, item := range sel {
		for _, n := range item.Verses() {
			text, ok := m.Get(n)
			if !ok {
				text = MissingVerse(n)
			}
			parts = append(parts, text)
		}
	}

	return join(parts)
}

// join space-joins parts, skipping empty verses so they never leave doubled
// spaces behind.
func join(parts []string) string {
	nonEmpty := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " ")
}
