package passage

import (
	"regexp"
	"strconv"
	"strings"
)

var boundaryPattern = regexp.MustCompile(regexp.QuoteMeta(BoundaryToken) + `(\d+)(?:\s+|$)`)

// Tokenize splits normalized text into a VerseMap. Each boundary token starts
// a verse that runs to the next token or the end of the text. Text before the
// first token is ignored, and input with no tokens yields an empty map. When
// a verse number repeats, the later occurrence wins.
func Tokenize(normalizedText string) *VerseMap {
	m := newVerseMap()

	matches := boundaryPattern.FindAllStringSubmatchIndex(normalizedText, -1)
	for i, match := range matches {
		n, err := strconv.Atoi(normalizedText[match[2]:match[3]])
		if err != nil {
			continue
		}

		end := len(normalizedText)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}

		m.set(n, strings.TrimSpace(normalizedText[match[1]:end]))
	}

	m.seal()
	return m
}
