package ports

import (
	"context"
	"io"

	"newsdesk/internal/domain"
)

// ArticleRepository persists article aggregates. The body block array is
// stored verbatim as one field and re-delivered unchanged on read; the
// sibling reading-minutes integer is recomputed on every body write and
// returned to the caller.
type ArticleRepository interface {
	Create(ctx context.Context, article domain.Article) (domain.Article, error)
	Get(ctx context.Context, id string) (domain.Article, error)
	SaveBody(ctx context.Context, id string, blocks []domain.Block) (readingMinutes int, err error)
	List(ctx context.Context, limit int) ([]domain.Article, error)
}

// ArticleSearch supplies candidate records for the article_link picker.
// Failures degrade to an empty result set at the editing surface.
type ArticleSearch interface {
	Search(ctx context.Context, query string) ([]domain.ArticleHit, error)
}

// FileUpload stores a file and returns its permanent URL plus detected mime
// type; image and video blocks consume the URL verbatim.
type FileUpload interface {
	Upload(ctx context.Context, name string, r io.Reader) (url, mimeType string, err error)
}

// Unfurler fetches lightweight page metadata (title, preview image) for a
// pasted URL. Failures are soft; callers treat them as missing metadata.
type Unfurler interface {
	Unfurl(ctx context.Context, pageURL string) (title, imageURL string, err error)
}
