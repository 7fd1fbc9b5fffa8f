package fetch

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// extractWords parses the serialized item markup and returns the trimmed
// text content of every element carrying the marker class, in document
// order. The html parser is lenient, so malformed fragments degrade to
// whatever text they contain rather than failing outright.
func extractWords(markup, class string) ([]string, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	var words []string
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, class) {
			words = append(words, strings.TrimSpace(textContent(n)))
			// Marker elements do not nest; no need to descend.
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)
	return words, nil
}

// hasClass reports whether the element's class attribute contains class as
// a whole space-separated token.
func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

// textContent concatenates the text nodes under n.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var traverse func(*html.Node)
	traverse = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(n)
	return sb.String()
}
