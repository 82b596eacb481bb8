package passage

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/yoinker/scraper"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// BoundaryToken prefixes the verse number at the start of every verse in
// normalized text.
const BoundaryToken = "VERSE-"

var digitsPattern = regexp.MustCompile(`\d+`)

// spacedElements are block or line-breaking elements, so they flatten to a
// space. Inline elements (span, i, em, a, ...) flatten to nothing.
var spacedElements = map[atom.Atom]bool{
	atom.P:          true,
	atom.Br:         true,
	atom.Div:        true,
	atom.Li:         true,
	atom.Blockquote: true,
	atom.Table:      true,
	atom.Tr:         true,
	atom.Td:         true,
}

// Normalize reduces a passage page to boundary-tagged text using the default
// BibleGateway markup signature.
func Normalize(rawMarkup string) (string, error) {
	return NormalizeWithConfig(rawMarkup, scraper.DefaultPassageConfig())
}

// NormalizeWithConfig reduces a passage page to a flat string of
// "VERSE-<n> <text>" segments in document order. It fails with
// *ContentNotFoundError unless exactly one content container is present.
func NormalizeWithConfig(rawMarkup string, config scraper.PassageConfig) (string, error) {
	config = config.Merge(scraper.DefaultPassageConfig())

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawMarkup))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	// Locate the single content container by its class prefix
	containers := doc.Find("div").FilterFunction(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		return strings.HasPrefix(strings.TrimSpace(class), config.ContentClassPrefix)
	})
	if containers.Length() != 1 {
		return "", &ContentNotFoundError{
			Selector: fmt.Sprintf("div[class^=%q]", config.ContentClassPrefix),
			Matches:  containers.Length(),
			Markup:   rawMarkup,
		}
	}

	// The chapter number stands in for the missing verse 1 marker
	containers.Find(config.ChapterNumSelector).Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithNodes(boundaryNode(1))
	})

	containers.Find(config.VerseNumSelector).Each(func(_ int, s *goquery.Selection) {
		digits := digitsPattern.FindString(s.Text())
		if digits == "" {
			s.Remove()
			return
		}
		s.ReplaceWithNodes(boundaryNode(digits))
	})

	// Annotation elements go entirely, however deep they are nested
	containers.Find(config.AnnotationSelector).Remove()

	var b strings.Builder
	for _, n := range containers.Nodes {
		flatten(n, &b)
	}

	// strings.Fields treats decoded &nbsp; (U+00A0) as space
	return strings.Join(strings.Fields(b.String()), " "), nil
}

// boundaryNode returns a text node holding the boundary for verse n.
func boundaryNode(n any) *html.Node {
	return &html.Node{
		Type: html.TextNode,
		Data: fmt.Sprintf(" %s%v ", BoundaryToken, n),
	}
}

// flatten writes the text content of n, turning structural elements into
// single spaces.
func flatten(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	}

	spaced := n.Type == html.ElementNode && spacedElements[n.DataAtom]
	if spaced {
		b.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		flatten(c, b)
	}
	if spaced {
		b.WriteByte(' ')
	}
}
