// Package render turns a block sequence into display HTML. Rendering never
// fails: a block of an unrecognized kind becomes a neutral placeholder and
// the rest of the document renders normally.
package render

import (
	"fmt"
	"html/template"
	"strings"

	"newsdesk/internal/domain"
	"newsdesk/internal/embed"
	"newsdesk/internal/sanitize"
)

// HTML renders the whole document in order.
func HTML(blocks []domain.Block) string {
	var b strings.Builder
	for _, blk := range blocks {
		b.WriteString(Block(blk))
		b.WriteByte('\n')
	}
	return b.String()
}

// Block renders a single block. The switch is the one place that must know
// every kind; a new BlockKind without a case here falls through to the
// placeholder.
func Block(b domain.Block) string {
	switch b.Type {
	case domain.KindParagraph:
		// paragraph text is allow-list sanitized on write; re-applied here
		// so pre-sanitizer documents render safely too
		return fmt.Sprintf(`<p data-block="%s">%s</p>`, esc(b.ID), sanitize.Inline(b.Text))
	case domain.KindHeading:
		level := b.Level
		if level < 2 || level > 4 {
			level = 2
		}
		return fmt.Sprintf(`<h%d data-block="%s">%s</h%d>`, level, esc(b.ID), esc(sanitize.Strip(b.Text)), level)
	case domain.KindImage:
		return renderImage(b)
	case domain.KindQuote:
		return renderQuote(b)
	case domain.KindDivider:
		return fmt.Sprintf(`<hr data-block="%s">`, esc(b.ID))
	case domain.KindBulletList:
		return renderBulletList(b)
	case domain.KindYouTube:
		return renderYouTube(b)
	case domain.KindTweet:
		return renderTweet(b)
	case domain.KindArticleLink:
		return renderArticleLink(b)
	case domain.KindVideo:
		return renderVideo(b)
	default:
		return fmt.Sprintf(`<div class="block-unrecognized" data-block="%s" data-kind="%s"></div>`,
			esc(b.ID), esc(string(b.Type)))
	}
}

func renderImage(b domain.Block) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<figure data-block="%s"><img src="%s" alt="%s">`, esc(b.ID), esc(b.URL), esc(b.AltText))
	writeCaption(&sb, b.CaptionHe, b.Credit)
	sb.WriteString("</figure>")
	return sb.String()
}

func renderQuote(b domain.Block) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<blockquote data-block="%s"><p>%s</p>`, esc(b.ID), esc(b.Text))
	if b.Attribution != "" {
		fmt.Fprintf(&sb, "<cite>%s</cite>", esc(b.Attribution))
	}
	sb.WriteString("</blockquote>")
	return sb.String()
}

func renderBulletList(b domain.Block) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<ul data-block="%s">`, esc(b.ID))
	for _, item := range b.Items {
		fmt.Fprintf(&sb, "<li>%s</li>", esc(item))
	}
	sb.WriteString("</ul>")
	return sb.String()
}

// renderYouTube emits the best thumbnail tier plus the next one as a data
// attribute for the client-side error handler; the fallback URL is derived
// at render time, never stored. VideoID can hold arbitrary pasted text after
// a failed extraction, so no block field may reach an inline script sink.
func renderYouTube(b domain.Block) string {
	qualities := embed.ThumbnailQualities()
	primary := embed.ThumbnailURL(b.VideoID, qualities[0])
	fallback := embed.ThumbnailURL(b.VideoID, qualities[1])

	var sb strings.Builder
	fmt.Fprintf(&sb, `<figure class="block-youtube" data-block="%s" data-video-id="%s">`, esc(b.ID), esc(b.VideoID))
	fmt.Fprintf(&sb, `<img src="%s" data-fallback-src="%s">`, esc(primary), esc(fallback))
	writeCaption(&sb, b.Caption, b.Credit)
	sb.WriteString("</figure>")
	return sb.String()
}

func renderTweet(b domain.Block) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<figure class="block-tweet" data-block="%s" data-tweet-id="%s">`, esc(b.ID), esc(b.TweetID))
	if b.AuthorHandle != "" {
		fmt.Fprintf(&sb, "<span>@%s</span>", esc(b.AuthorHandle))
	}
	if b.PreviewText != "" {
		fmt.Fprintf(&sb, "<p>%s</p>", esc(b.PreviewText))
	}
	writeCaption(&sb, b.Caption, "")
	sb.WriteString("</figure>")
	return sb.String()
}

func renderArticleLink(b domain.Block) string {
	style := b.DisplayStyle
	if style != domain.DisplayInline {
		style = domain.DisplayCard
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<aside class="block-article-link block-article-link-%s" data-block="%s">`, style, esc(b.ID))
	if b.LinkedArticle != nil {
		fmt.Fprintf(&sb, `<a href="/articles/%s">`, esc(b.LinkedArticle.Slug))
		if style == domain.DisplayCard && b.LinkedArticle.HeroImageURL != "" {
			fmt.Fprintf(&sb, `<img src="%s" alt="">`, esc(b.LinkedArticle.HeroImageURL))
		}
		fmt.Fprintf(&sb, "<span>%s</span></a>", esc(b.LinkedArticle.Title))
	}
	sb.WriteString("</aside>")
	return sb.String()
}

func renderVideo(b domain.Block) string {
	if b.Source == domain.VideoSourceUpload {
		var sb strings.Builder
		fmt.Fprintf(&sb, `<figure class="block-video" data-block="%s">`, esc(b.ID))
		fmt.Fprintf(&sb, `<video controls src="%s"`, esc(b.URL))
		if b.ThumbnailURL != "" {
			fmt.Fprintf(&sb, ` poster="%s"`, esc(b.ThumbnailURL))
		}
		sb.WriteString("></video>")
		writeCaption(&sb, b.Caption, b.Credit)
		sb.WriteString("</figure>")
		return sb.String()
	}
	return renderYouTube(b)
}

func writeCaption(sb *strings.Builder, caption, credit string) {
	if caption == "" && credit == "" {
		return
	}
	sb.WriteString("<figcaption>")
	if caption != "" {
		sb.WriteString(esc(caption))
	}
	if credit != "" {
		fmt.Fprintf(sb, `<span class="credit">%s</span>`, esc(credit))
	}
	sb.WriteString("</figcaption>")
}

func esc(s string) string {
	return template.HTMLEscapeString(s)
}
