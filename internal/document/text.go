package document

import (
	"bytes"
	"context"
	"strings"

	"golang.org/x/net/html"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// extractPlain decodes UTF-8 text, dropping a byte-order mark and invalid sequences
func extractPlain(_ context.Context, data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	return strings.ToValidUTF8(string(data), "�"), nil
}

// extractHTML returns the visible text of an HTML document
func extractHTML(_ context.Context, data []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	return visibleText(doc), nil
}

// visibleText walks text nodes, skipping scripts, styles and embedded frames.
// Block elements end a line so that headings do not run into clause text.
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "template", "head":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.Join(strings.Fields(n.Data), " ")
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && isBlock(n.Data) {
			buf.WriteString("\n")
		}
	}

	walk(n)
	return strings.TrimSpace(buf.String())
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "li", "br", "tr", "h1", "h2", "h3", "h4", "h5", "h6", "section", "article", "blockquote":
		return true
	}
	return false
}
