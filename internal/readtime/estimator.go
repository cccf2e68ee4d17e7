// Package readtime derives an estimated minutes-to-read value from an
// article body. The estimate is pure and total: any block sequence,
// including an empty one, yields at least one minute.
package readtime

import (
	"newsdesk/internal/domain"
	"newsdesk/internal/sanitize"
)

// WordsPerMinute is the assumed reading speed.
const WordsPerMinute = 200

// Estimate counts words across the text-bearing blocks and converts them to
// whole minutes, rounding up. Paragraphs and headings are stripped of inline
// markup first; quotes are plain text; every other kind contributes nothing.
func Estimate(blocks []domain.Block) int {
	words := 0
	for _, b := range blocks {
		switch b.Type {
		case domain.KindParagraph, domain.KindHeading:
			words += sanitize.Words(b.Text)
		case domain.KindQuote:
			words += sanitize.Words(b.Text)
		}
	}

	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}
