package domain

import (
	"strings"
	"time"
)

// Article is the aggregate the CMS persists. Body is the ordered block
// sequence; ReadingMinutes is derived from it on every save and stored as a
// sibling field.
type Article struct {
	ID           string
	Title        string
	Slug         string
	Category     string
	Tags         []string
	HeroImageURL string

	Body           []Block
	ReadingMinutes int

	Published bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ArticleHit is one candidate returned by the article-search collaborator
// for the article_link picker.
type ArticleHit struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Slug         string `json:"slug"`
	HeroImageURL string `json:"heroImageUrl,omitempty"`
	CategoryName string `json:"categoryName,omitempty"`
}

// Normalize trims whitespace and dedupes tags in place.
func (a *Article) Normalize() {
	a.Title = strings.TrimSpace(a.Title)
	a.Slug = strings.TrimSpace(a.Slug)
	a.Category = strings.TrimSpace(a.Category)
	a.Tags = normalizeStrings(a.Tags)
}

func normalizeStrings(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		item = strings.ToLower(item)
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
