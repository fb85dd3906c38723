package content

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var blankRuns = regexp.MustCompile(`\n{3,}`)

// blockTags are elements whose close forces a paragraph break in the
// extracted text.
var blockTags = map[string]bool{
	"p": true, "div": true, "blockquote": true, "li": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// StripHTML converts an HTML fragment to plain text: tags removed, entities
// decoded, <br> turned into newlines and block-element boundaries into
// paragraph breaks.
func StripHTML(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		// Parser failure on a fragment is effectively "no content"
		return ""
	}
	doc.Find("script, style").Remove()

	var b strings.Builder
	for _, node := range doc.Selection.Nodes {
		renderText(&b, node)
	}

	text := blankRuns.ReplaceAllString(b.String(), "\n\n")
	return strings.TrimSpace(text)
}

func renderText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
	case html.ElementNode:
		if n.Data == "br" {
			b.WriteString("\n")
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderText(b, c)
	}
	if n.Type == html.ElementNode && blockTags[n.Data] {
		b.WriteString("\n\n")
	}
}
