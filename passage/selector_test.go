package passage

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseSelector verifies verse expressions parse in caller order
func TestParseSelector(t *testing.T) {
	tests := []struct {
		name     string
		expr     string
		expected Selector
	}{
		{name: "empty", expr: "", expected: nil},
		{name: "blank", expr: "   ", expected: nil},
		{name: "single", expr: "7", expected: Selector{Single(7)}},
		{name: "list", expr: "1,2,3", expected: Selector{Single(1), Single(2), Single(3)}},
		{name: "range", expr: "5-7", expected: Selector{Range(5, 7)}},
		{name: "mixed", expr: "1,2,5-7", expected: Selector{Single(1), Single(2), Range(5, 7)}},
		{name: "spaces", expr: " 1 , 3 - 4 ,1 ", expected: Selector{Single(1), Range(3, 4), Single(1)}},
		{name: "reordered", expr: "10,2", expected: Selector{Single(10), Single(2)}},
		{name: "degenerate range", expr: "4-4", expected: Selector{Single(4)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := ParseSelector(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, sel)
		})
	}
}

// TestParseSelector_Invalid verifies malformed expressions are rejected
func TestParseSelector_Invalid(t *testing.T) {
	for _, expr := range []string{"a", "1,", ",1", "1-", "-3", "1--3", "0", "3-0", "7-5", "1;2", "1 2"} {
		t.Run(expr, func(t *testing.T) {
			sel, err := ParseSelector(expr)
			assert.ErrorIs(t, err, ErrInvalidSelector)
			assert.Nil(t, sel)
		})
	}
}

// TestSelector_String verifies the canonical expression round trips
func TestSelector_String(t *testing.T) {
	sel := Selector{Single(1), Range(3, 4), Single(1)}

	assert.Equal(t, "1,3-4,1", sel.String())

	parsed, err := ParseSelector(sel.String())
	require.NoError(t, err)
	assert.Equal(t, sel, parsed)
	assert.Equal(t, "", Selector(nil).String())
}

// TestSelector_Verses verifies expansion keeps order and duplicates
func TestSelector_Verses(t *testing.T) {
	sel := MustParseSelector("3,1-2,3")

	assert.Equal(t, []int{3, 1, 2, 3}, sel.Verses())
}

// TestSelector_UnmarshalJSON verifies the accepted JSON shapes
func TestSelector_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Selector
	}{
		{name: "null", input: `null`, expected: nil},
		{name: "numbers", input: `[3, 1, 3]`, expected: Selector{Single(3), Single(1), Single(3)}},
		{name: "expression", input: `"1,2,5-7"`, expected: Selector{Single(1), Single(2), Range(5, 7)}},
		{name: "string items", input: `["5-7", "2"]`, expected: Selector{Range(5, 7), Single(2)}},
		{name: "objects", input: `[{"start": 5, "end": 7}, 1]`, expected: Selector{Range(5, 7), Single(1)}},
		{name: "empty array", input: `[]`, expected: Selector{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sel Selector
			require.NoError(t, json.Unmarshal([]byte(tt.input), &sel))
			assert.Equal(t, tt.expected, sel)
		})
	}
}

// TestSelector_UnmarshalJSON_Invalid verifies bad JSON selectors fail
func TestSelector_UnmarshalJSON_Invalid(t *testing.T) {
	for _, input := range []string{`{"start": 1}`, `[0]`, `[-2]`, `["x"]`, `[true]`, `7`, `[{"start": 0, "end": 2}]`} {
		t.Run(input, func(t *testing.T) {
			var sel Selector
			assert.Error(t, json.Unmarshal([]byte(input), &sel))
		})
	}
}

// TestSelector_MarshalJSON verifies singles become numbers and ranges objects
func TestSelector_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Selector{Single(1), Range(5, 7)})
	require.NoError(t, err)
	assert.JSONEq(t, `[1, {"start": 5, "end": 7}]`, string(data))
}

// TestSelector_OutOfBounds verifies verse numbers above MaxVerse are rejected
func TestSelector_OutOfBounds(t *testing.T) {
	t.Run("expressions", func(t *testing.T) {
		for _, expr := range []string{"177", "1-177", "1-2000000000", "1-9223372036854775807", "99999999999999999999"} {
			sel, err := ParseSelector(expr)
			assert.ErrorIs(t, err, ErrInvalidSelector, expr)
			assert.Nil(t, sel, expr)
		}
	})

	t.Run("json", func(t *testing.T) {
		for _, input := range []string{
			`[{"start": 1, "end": 9223372036854775807}]`,
			`[{"start": 177, "end": 177}]`,
			`[9223372036854775807]`,
			`[177]`,
			`"1-2000000000"`,
			`["5-500"]`,
		} {
			var sel Selector
			assert.ErrorIs(t, json.Unmarshal([]byte(input), &sel), ErrInvalidSelector, input)
		}
	})

	t.Run("upper bound accepted", func(t *testing.T) {
		sel, err := ParseSelector("170-176")
		require.NoError(t, err)
		assert.Len(t, sel.Verses(), 7)
	})
}

// TestSelectorItem_Verses_Clipped verifies hand-built items expand safely
func TestSelectorItem_Verses_Clipped(t *testing.T) {
	assert.Equal(t, []int{math.MaxInt}, Single(math.MaxInt).Verses())
	assert.Len(t, Range(1, math.MaxInt).Verses(), MaxVerse)
	assert.Equal(t, []int{1, 2}, Range(math.MinInt, 2).Verses())
	assert.Nil(t, Range(MaxVerse+1, math.MaxInt).Verses())
	assert.Equal(t, "Verse 200 not found.", Select(Tokenize("VERSE-1 a"), Selector{Single(200)}))
}
