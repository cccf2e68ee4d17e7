package search

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"newsdesk/internal/domain"
	"newsdesk/internal/ports"
)

// PostgresSearch serves the article_link picker with a title match over the
// articles table. A heavier search-indexer can replace it behind the same
// port.
type PostgresSearch struct {
	db      *sql.DB
	builder sq.StatementBuilderType
	limit   uint64
}

var _ ports.ArticleSearch = (*PostgresSearch)(nil)

// NewPostgresSearch wires a sql.DB implementation.
func NewPostgresSearch(db *sql.DB) *PostgresSearch {
	return &PostgresSearch{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		limit:   10,
	}
}

// Search returns published candidates whose title contains the query,
// newest first.
func (s *PostgresSearch) Search(ctx context.Context, query string) ([]domain.ArticleHit, error) {
	stmt, args, err := s.builder.
		Select("id", "title", "slug", "hero_image_url", "category").
		From("articles").
		Where(sq.And{
			sq.Eq{"published": true},
			sq.ILike{"title": "%" + query + "%"},
		}).
		OrderBy("updated_at DESC").
		Limit(s.limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build search: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("search articles: %w", err)
	}
	defer rows.Close()

	var hits []domain.ArticleHit
	for rows.Next() {
		var hit domain.ArticleHit
		if err := rows.Scan(&hit.ID, &hit.Title, &hit.Slug, &hit.HeroImageURL, &hit.CategoryName); err != nil {
			return nil, fmt.Errorf("scan hit: %w", err)
		}
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return hits, nil
}
