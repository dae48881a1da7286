package ingest

import (
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/net/html"
)

// Sentence length bounds, in bytes
const (
	minSentence = 30
	maxSentence = 500
)

// VisibleText parses an HTML document and returns its rendered text,
// skipping scripts, styles and embedded frames.
func VisibleText(doc string) (string, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return "", eris.Wrap(err, "parse HTML")
	}

	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "template":
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
	}

	walk(root)
	return buf.String(), nil
}

// SplitSentences splits text on sentence terminators followed by
// whitespace and keeps sentences between 30 and 500 bytes. A terminator
// glued to the next character (3.5, e.g.x) does not split.
func SplitSentences(text string) []string {
	text = strings.Join(strings.Fields(text), " ")

	var sentences []string
	var current strings.Builder

	keep := func() {
		sentence := strings.TrimSpace(current.String())
		if len(sentence) >= minSentence && len(sentence) <= maxSentence {
			sentences = append(sentences, sentence)
		}
		current.Reset()
	}

	for i, r := range text {
		current.WriteRune(r)

		if r == '.' || r == '!' || r == '?' {
			if i+1 < len(text) && text[i+1] == ' ' {
				keep()
			}
		}
	}

	if current.Len() > 0 {
		keep()
	}

	return sentences
}
