// Package sanitize holds the inline-HTML policy shared by the editing
// surface and the reading-time estimator. Paragraph text may carry a small
// allow-listed subset of inline markup (bold/italic/link); everything else
// is stripped on write.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	inlinePolicy = buildInlinePolicy()
	stripPolicy  = bluemonday.StrictPolicy()
)

func buildInlinePolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "strong", "i", "em")
	p.AllowAttrs("href").OnElements("a")
	p.AllowStandardURLs()
	return p
}

// Inline keeps only the allow-listed inline markup.
func Inline(html string) string {
	return inlinePolicy.Sanitize(html)
}

// Strip removes all markup, leaving plain text.
func Strip(html string) string {
	return stripPolicy.Sanitize(html)
}

// Words counts non-empty whitespace-separated tokens after stripping markup.
func Words(html string) int {
	return len(strings.Fields(Strip(html)))
}
