package news

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

const maxSnippetRunes = 500

var strict = bluemonday.StrictPolicy()

// Snippet turns feed HTML into a plain-text teaser.
func Snippet(raw string) string {
	text := html.UnescapeString(strict.Sanitize(raw))
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= maxSnippetRunes {
		return text
	}
	runes := []rune(text)
	cut := string(runes[:maxSnippetRunes])
	if i := strings.LastIndex(cut, " "); i > maxSnippetRunes/2 {
		cut = cut[:i]
	}
	return cut + "…"
}

// CleanText strips all markup from user-supplied text such as comments. The
// result stays entity-escaped so it is safe to render as HTML.
func CleanText(raw string) string {
	return strings.TrimSpace(strict.Sanitize(raw))
}
