package domain

// BlockKind discriminates the closed set of body block variants.
type BlockKind string

const (
	KindParagraph   BlockKind = "paragraph"
	KindHeading     BlockKind = "heading"
	KindImage       BlockKind = "image"
	KindQuote       BlockKind = "quote"
	KindDivider     BlockKind = "divider"
	KindBulletList  BlockKind = "bullet_list"
	KindYouTube     BlockKind = "youtube"
	KindTweet       BlockKind = "tweet"
	KindArticleLink BlockKind = "article_link"
	KindVideo       BlockKind = "video"
)

// Kinds lists every recognized block kind in a stable order.
func Kinds() []BlockKind {
	return []BlockKind{
		KindParagraph, KindHeading, KindImage, KindQuote, KindDivider,
		KindBulletList, KindYouTube, KindTweet, KindArticleLink, KindVideo,
	}
}

// Known reports whether the kind belongs to the closed set. Unknown kinds
// are still carried through load/save untouched; only rendering treats them
// specially.
func (k BlockKind) Known() bool {
	switch k {
	case KindParagraph, KindHeading, KindImage, KindQuote, KindDivider,
		KindBulletList, KindYouTube, KindTweet, KindArticleLink, KindVideo:
		return true
	}
	return false
}

// DisplayStyle selects how an article_link block is rendered.
type DisplayStyle string

const (
	DisplayCard   DisplayStyle = "card"
	DisplayInline DisplayStyle = "inline"
)

// VideoSource tells a video block where its media lives.
type VideoSource string

const (
	VideoSourceYouTube VideoSource = "youtube"
	VideoSourceUpload  VideoSource = "upload"
)

// LinkedArticle is a read-only snapshot of a referenced article, captured at
// pick time so rendering never needs a live join.
type LinkedArticle struct {
	Title        string `json:"title,omitempty"`
	Slug         string `json:"slug,omitempty"`
	HeroImageURL string `json:"heroImageUrl,omitempty"`
}

// Block is one typed, independently addressable unit of article body
// content. Payload fields are flat on the block itself; each kind reads only
// its own subset and ignores the rest. ID is assigned once at creation and
// survives updates and reorders; Type never changes in place.
type Block struct {
	ID   string    `json:"id"`
	Type BlockKind `json:"type"`

	// paragraph, heading, quote
	Text        string `json:"text,omitempty"`
	Level       int    `json:"level,omitempty"`
	Attribution string `json:"attribution,omitempty"`

	// image, video (source=upload)
	URL       string `json:"url,omitempty"`
	Credit    string `json:"credit,omitempty"`
	CaptionHe string `json:"captionHe,omitempty"`
	AltText   string `json:"altText,omitempty"`

	// bullet_list
	Items []string `json:"items,omitempty"`

	// youtube, video (source=youtube)
	VideoID string `json:"videoId,omitempty"`
	Caption string `json:"caption,omitempty"`

	// tweet
	TweetID      string `json:"tweetId,omitempty"`
	AuthorHandle string `json:"authorHandle,omitempty"`
	PreviewText  string `json:"previewText,omitempty"`

	// article_link
	LinkedArticleID string         `json:"linkedArticleId,omitempty"`
	DisplayStyle    DisplayStyle   `json:"displayStyle,omitempty"`
	LinkedArticle   *LinkedArticle `json:"linkedArticle,omitempty"`

	// video
	Source       VideoSource `json:"source,omitempty"`
	ThumbnailURL string      `json:"thumbnailUrl,omitempty"`
	MimeType     string      `json:"mimeType,omitempty"`
}
