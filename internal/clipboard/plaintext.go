package clipboard

import (
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	lineBreak      = regexp.MustCompile(`(?i)<br\s*/?>`)
	paragraphClose = regexp.MustCompile(`(?i)</p\s*>`)
	blankRuns      = regexp.MustCompile(`\n{3,}`)

	stripOnce   sync.Once
	stripPolicy *bluemonday.Policy
)

func stripper() *bluemonday.Policy {
	stripOnce.Do(func() {
		stripPolicy = bluemonday.StrictPolicy()
	})
	return stripPolicy
}

// PlainText derives the plain-text form of a possibly-HTML body: line breaks
// become newlines, paragraphs end with a blank line, remaining tags are
// dropped and entities decoded.
func PlainText(content string) string {
	text := strings.ReplaceAll(content, "\r\n", "\n")
	text = lineBreak.ReplaceAllString(text, "\n")
	text = paragraphClose.ReplaceAllString(text, "\n\n")
	text = stripper().Sanitize(text)
	text = html.UnescapeString(text)
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
