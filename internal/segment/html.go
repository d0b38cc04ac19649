package segment

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/SanjanaSoma11/book-notes-summarizer/internal/model"
)

// SegmentHTML extracts visible text from an HTML export (e.g. notes saved
// from a reader app) and segments it. Block-level elements become paragraph
// boundaries so the usual blank-line splitting applies.
func SegmentHTML(htmlContent string) ([]model.Highlight, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return Segment(visibleText(doc)), nil
}

// blockTags are elements treated as paragraph boundaries.
var blockTags = map[string]bool{
	"p": true, "div": true, "li": true, "blockquote": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"br": true, "tr": true,
}

// visibleText extracts text nodes, skipping scripts/styles and inserting
// blank lines at block boundaries.
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && blockTags[n.Data] {
			buf.WriteString("\n\n")
		}
	}

	walk(n)
	return buf.String()
}
