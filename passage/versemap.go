package passage

import "sort"

// VerseMap maps verse numbers to verse text for one chapter. It is built once
// by Tokenize and never modified afterwards.
type VerseMap struct {
	verses  map[int]string
	numbers []int
}

func newVerseMap() *VerseMap {
	return &VerseMap{verses: make(map[int]string)}
}

// set records text for verse n, replacing any earlier text for n.
func (m *VerseMap) set(n int, text string) {
	if _, ok := m.verses[n]; !ok {
		m.numbers = append(m.numbers, n)
	}
	m.verses[n] = text
}

func (m *VerseMap) seal() {
	sort.Ints(m.numbers)
}

// Get returns the text of verse n and whether it is present. A nil map holds
// no verses.
func (m *VerseMap) Get(n int) (string, bool) {
	if m == nil {
		return "", false
	}
	text, ok := m.verses[n]
	return text, ok
}

// Len returns the number of verses in the map.
func (m *VerseMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.numbers)
}

// Numbers returns the verse numbers in ascending order.
func (m *VerseMap) Numbers() []int {
	if m == nil {
		return nil
	}
	out := make([]int, len(m.numbers))
	copy(out, m.numbers)
	return out
}

// Texts returns verse texts in ascending verse order.
func (m *VerseMap) Texts() []string {
	if m == nil {
		return nil
	}
	out := make([]string, 0, len(m.numbers))
	for _, n := range m.numbers {
		out = append(out, m.verses[n])
	}
	return out
}
