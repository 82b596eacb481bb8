package passage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// MaxVerse is the highest verse number a selector may name. Psalm 119, the
// longest chapter, has 176 verses.
const MaxVerse = 176

// SelectorItem is either a single verse (Start == End) or an inclusive range.
type SelectorItem struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Single selects one verse.
func Single(n int) SelectorItem {
	return SelectorItem{Start: n, End: n}
}

// Range selects every verse from start to end inclusive.
func Range(start, end int) SelectorItem {
	return SelectorItem{Start: start, End: end}
}

// IsRange reports whether the item spans more than one verse number.
func (i SelectorItem) IsRange() bool {
	return i.Start != i.End
}

// Verses expands the item into verse numbers in ascending order. A range whose
// start is after its end expands to nothing. Ranges are clipped to 1..MaxVerse.
func (i SelectorItem) Verses() []int {
	if !i.IsRange() {
		return []int{i.Start}
	}

	start, end := max(i.Start, 1), min(i.End, MaxVerse)
	if end < start {
		return nil
	}
	out := make([]int, 0, end-start+1)
	for n := start; n <= end; n++ {
		out = append(out, n)
	}
	return out
}

// validate checks both bounds against 1..MaxVerse.
func (i SelectorItem) validate() error {
	if i.Start < 1 || i.End < 1 {
		return fmt.Errorf("%w: verse numbers must be positive", ErrInvalidSelector)
	}
	if i.Start > MaxVerse || i.End > MaxVerse {
		return fmt.Errorf("%w: verse numbers must not exceed %d", ErrInvalidSelector, MaxVerse)
	}
	return nil
}

func (i SelectorItem) String() string {
	if !i.IsRange() {
		return strconv.Itoa(i.Start)
	}
	return fmt.Sprintf("%d-%d", i.Start, i.End)
}

// Selector is an ordered list of verses and ranges. Order and duplicates are
// kept exactly as the caller gave them.
type Selector []SelectorItem

// String renders the selector as an expression ParseSelector accepts, e.g.
// "1,3-4,1".
func (s Selector) String() string {
	parts := make([]string, len(s))
	for i, item := range s {
		parts[i] = item.String()
	}
	return strings.Join(parts, ",")
}

// Verses expands every item in order.
func (s Selector) Verses() []int {
	var out []int
	for _, item := range s {
		out = append(out, item.Verses()...)
	}
	return out
}

// selectorGrammar is the participle grammar for verse expressions.
// Examples: "7", "1,2,3", "5-7", "1, 3-4, 1"
//
//nolint:govet // participle grammar tags are not standard struct tags
type selectorGrammar struct {
	Items []*itemGrammar `@@ ( "," @@ )*`
}

//nolint:govet // participle grammar tags are not standard struct tags
type itemGrammar struct {
	Start int  `@Int`
	End   *int `( "-" @Int )?`
}

var selectorLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[,\-]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var selectorParser = participle.MustBuild[selectorGrammar](
	participle.Lexer(selectorLexer),
	participle.Elide("Whitespace"),
)

// ParseSelector parses a verse expression such as "1,2,5-7". An empty or
// blank expression yields a nil selector, meaning the whole chapter.
func ParseSelector(expr string) (Selector, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, nil
	}

	parsed, err := selectorParser.ParseString("", expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSelector, expr, err)
	}

	sel := make(Selector, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		end := item.Start
		if item.End != nil {
			end = *item.End
		}
		if err := (SelectorItem{Start: item.Start, End: end}).validate(); err != nil {
			return nil, fmt.Errorf("%w (%q)", err, expr)
		}
		if end < item.Start {
			return nil, fmt.Errorf("%w: %q: range %d-%d runs backwards", ErrInvalidSelector, expr, item.Start, end)
		}
		sel = append(sel, SelectorItem{Start: item.Start, End: end})
	}

	return sel, nil
}

// MustParseSelector is like ParseSelector but panics on error.
func MustParseSelector(expr string) Selector {
	sel, err := ParseSelector(expr)
	if err != nil {
		panic(err)
	}
	return sel
}

// UnmarshalJSON accepts an expression string ("1,3-4"), or an array whose
// elements are verse numbers, expression strings, or {"start","end"} objects.
func (s *Selector) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var expr string
		if err := json.Unmarshal(data, &expr); err != nil {
			return err
		}
		sel, err := ParseSelector(expr)
		if err != nil {
			return err
		}
		*s = sel
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: must be a string or an array", ErrInvalidSelector)
	}

	sel := make(Selector, 0, len(raw))
	for _, elem := range raw {
		elem = bytes.TrimSpace(elem)
		switch {
		case len(elem) > 0 && elem[0] == '"':
			var expr string
			if err := json.Unmarshal(elem, &expr); err != nil {
				return err
			}
			parsed, err := ParseSelector(expr)
			if err != nil {
				return err
			}
			sel = append(sel, parsed...)
		case len(elem) > 0 && elem[0] == '{':
			var item SelectorItem
			if err := json.Unmarshal(elem, &item); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidSelector, err)
			}
			if err := item.validate(); err != nil {
				return err
			}
			sel = append(sel, item)
		default:
			var n int
			if err := json.Unmarshal(elem, &n); err != nil {
				return fmt.Errorf("%w: %s is not a verse number", ErrInvalidSelector, elem)
			}
			if err := Single(n).validate(); err != nil {
				return err
			}
			sel = append(sel, Single(n))
		}
	}

	*s = sel
	return nil
}

// MarshalJSON writes single verses as numbers and ranges as objects.
func (s Selector) MarshalJSON() ([]byte, error) {
	out := make([]any, len(s))
	for i, item := range s {
		if item.IsRange() {
			out[i] = item
		} else {
			out[i] = item.Start
		}
	}
	return json.Marshal(out)
}
