package usecase

import (
	"strings"

	"newsdesk/internal/domain"
	"newsdesk/internal/embed"
	"newsdesk/internal/sanitize"
)

// Widget hosts the kind-specific editing behavior for one block variant:
// defaults applied when the block is appended, and payload canonicalization
// applied on every update. Widgets never reject input; unrecognizable embed
// text is stored as typed.
type Widget interface {
	Kind() domain.BlockKind
	Init(block domain.Block) domain.Block
	Normalize(prev, next domain.Block) domain.Block
}

// WidgetRegistry maps block kinds to their widgets.
type WidgetRegistry struct {
	widgets map[domain.BlockKind]Widget
}

// NewWidgetRegistry builds an empty registry.
func NewWidgetRegistry() *WidgetRegistry {
	return &WidgetRegistry{widgets: map[domain.BlockKind]Widget{}}
}

// Register adds or replaces a widget.
func (r *WidgetRegistry) Register(w Widget) {
	if r.widgets == nil {
		r.widgets = map[domain.BlockKind]Widget{}
	}
	r.widgets[w.Kind()] = w
}

// Resolve returns the widget for a kind; ok is false for kinds without one,
// which the editor treats as payload passthrough.
func (r *WidgetRegistry) Resolve(kind domain.BlockKind) (Widget, bool) {
	w, ok := r.widgets[kind]
	return w, ok
}

// DefaultWidgets registers a widget for every recognized kind.
func DefaultWidgets() *WidgetRegistry {
	r := NewWidgetRegistry()
	r.Register(paragraphWidget{})
	r.Register(headingWidget{})
	r.Register(imageWidget{})
	r.Register(quoteWidget{})
	r.Register(dividerWidget{})
	r.Register(bulletListWidget{})
	r.Register(youtubeWidget{})
	r.Register(tweetWidget{})
	r.Register(articleLinkWidget{})
	r.Register(videoWidget{})
	return r
}

type paragraphWidget struct{}

func (paragraphWidget) Kind() domain.BlockKind { return domain.KindParagraph }

func (paragraphWidget) Init(b domain.Block) domain.Block { return b }

func (paragraphWidget) Normalize(_, next domain.Block) domain.Block {
	next.Text = sanitize.Inline(next.Text)
	return next
}

type headingWidget struct{}

func (headingWidget) Kind() domain.BlockKind { return domain.KindHeading }

func (headingWidget) Init(b domain.Block) domain.Block {
	b.Level = 2
	return b
}

func (headingWidget) Normalize(_, next domain.Block) domain.Block {
	next.Text = sanitize.Strip(next.Text)
	// level controls visual weight only; out-of-range values snap back
	if next.Level < 2 || next.Level > 4 {
		next.Level = 2
	}
	return next
}

type imageWidget struct{}

func (imageWidget) Kind() domain.BlockKind { return domain.KindImage }

func (imageWidget) Init(b domain.Block) domain.Block { return b }

func (imageWidget) Normalize(_, next domain.Block) domain.Block {
	next.URL = strings.TrimSpace(next.URL)
	next.Credit = strings.TrimSpace(next.Credit)
	next.AltText = strings.TrimSpace(next.AltText)
	return next
}

type quoteWidget struct{}

func (quoteWidget) Kind() domain.BlockKind { return domain.KindQuote }

func (quoteWidget) Init(b domain.Block) domain.Block { return b }

func (quoteWidget) Normalize(_, next domain.Block) domain.Block {
	next.Text = sanitize.Strip(next.Text)
	next.Attribution = strings.TrimSpace(next.Attribution)
	return next
}

type dividerWidget struct{}

func (dividerWidget) Kind() domain.BlockKind { return domain.KindDivider }

func (dividerWidget) Init(b domain.Block) domain.Block { return b }

func (dividerWidget) Normalize(_, next domain.Block) domain.Block { return next }

type bulletListWidget struct{}

func (bulletListWidget) Kind() domain.BlockKind { return domain.KindBulletList }

// Init seeds a single empty item so the editor has a row to type into; the
// model itself accepts any item count, including zero.
func (bulletListWidget) Init(b domain.Block) domain.Block {
	b.Items = []string{""}
	return b
}

func (bulletListWidget) Normalize(_, next domain.Block) domain.Block {
	items := make([]string, len(next.Items))
	for i, item := range next.Items {
		items[i] = sanitize.Strip(item)
	}
	next.Items = items
	return next
}

type youtubeWidget struct{}

func (youtubeWidget) Kind() domain.BlockKind { return domain.KindYouTube }

func (youtubeWidget) Init(b domain.Block) domain.Block { return b }

// Normalize canonicalizes whatever the user pasted into the video id field.
// Extraction failure keeps the raw input so the user can correct it.
func (youtubeWidget) Normalize(_, next domain.Block) domain.Block {
	next.VideoID = embed.ExtractYouTubeID(strings.TrimSpace(next.VideoID))
	return next
}

type tweetWidget struct{}

func (tweetWidget) Kind() domain.BlockKind { return domain.KindTweet }

func (tweetWidget) Init(b domain.Block) domain.Block { return b }

func (tweetWidget) Normalize(prev, next domain.Block) domain.Block {
	id, handle := embed.ExtractTweet(strings.TrimSpace(next.TweetID))
	next.TweetID = id
	if handle != "" {
		next.AuthorHandle = handle
	} else if next.AuthorHandle == "" {
		// a failed re-parse must not clear a previously known handle
		next.AuthorHandle = prev.AuthorHandle
	}
	return next
}

type articleLinkWidget struct{}

func (articleLinkWidget) Kind() domain.BlockKind { return domain.KindArticleLink }

func (articleLinkWidget) Init(b domain.Block) domain.Block {
	b.DisplayStyle = domain.DisplayCard
	return b
}

func (articleLinkWidget) Normalize(_, next domain.Block) domain.Block {
	if next.DisplayStyle != domain.DisplayCard && next.DisplayStyle != domain.DisplayInline {
		next.DisplayStyle = domain.DisplayCard
	}
	return next
}

type videoWidget struct{}

func (videoWidget) Kind() domain.BlockKind { return domain.KindVideo }

func (videoWidget) Init(b domain.Block) domain.Block {
	b.Source = domain.VideoSourceYouTube
	return b
}

// Normalize treats the source field as the authority: youtube-sourced blocks
// canonicalize their video id, uploaded ones keep the URL the upload
// collaborator issued.
func (videoWidget) Normalize(_, next domain.Block) domain.Block {
	if next.Source != domain.VideoSourceUpload {
		next.Source = domain.VideoSourceYouTube
	}
	if next.Source == domain.VideoSourceYouTube {
		next.VideoID = embed.ExtractYouTubeID(strings.TrimSpace(next.VideoID))
	}
	next.Caption = strings.TrimSpace(next.Caption)
	return next
}
