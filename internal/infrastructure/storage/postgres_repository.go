package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"newsdesk/internal/domain"
	"newsdesk/internal/ports"
	"newsdesk/internal/readtime"
)

// PostgresRepository persists article aggregates. The body block array is
// stored verbatim as one jsonb column; reading_minutes sits beside it and is
// written whenever the body is.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.ArticleRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Create inserts a new article; an empty body serializes as [].
func (r *PostgresRepository) Create(ctx context.Context, article domain.Article) (domain.Article, error) {
	article.Normalize()
	if article.ID == "" {
		article.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	article.CreatedAt = now
	article.UpdatedAt = now

	body, err := marshalBody(article.Body)
	if err != nil {
		return domain.Article{}, err
	}

	query, args, err := r.builder.
		Insert("articles").
		Columns("id", "title", "slug", "category", "tags", "hero_image_url",
			"body_blocks", "reading_minutes", "published", "created_at", "updated_at").
		Values(article.ID, article.Title, article.Slug, article.Category, pq.Array(article.Tags),
			article.HeroImageURL, body, article.ReadingMinutes, article.Published,
			article.CreatedAt, article.UpdatedAt).
		ToSql()
	if err != nil {
		return domain.Article{}, fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return domain.Article{}, fmt.Errorf("insert article: %w", err)
	}

	return article, nil
}

// Get loads one article with its body re-delivered unchanged.
func (r *PostgresRepository) Get(ctx context.Context, id string) (domain.Article, error) {
	query, args, err := r.builder.
		Select("id", "title", "slug", "category", "tags", "hero_image_url",
			"body_blocks", "reading_minutes", "published", "created_at", "updated_at").
		From("articles").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.Article{}, fmt.Errorf("build select: %w", err)
	}

	article, err := scanArticle(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Article{}, domain.ErrArticleNotFound
	}
	if err != nil {
		return domain.Article{}, fmt.Errorf("get article %s: %w", id, err)
	}
	return article, nil
}

// SaveBody overwrites the block array and recomputes its derived reading
// time in one statement; whole-document last-write-wins.
func (r *PostgresRepository) SaveBody(ctx context.Context, id string, blocks []domain.Block) (int, error) {
	body, err := marshalBody(blocks)
	if err != nil {
		return 0, err
	}
	readingMinutes := readtime.Estimate(blocks)

	query, args, err := r.builder.
		Update("articles").
		Set("body_blocks", body).
		Set("reading_minutes", readingMinutes).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build update: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("save body %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return 0, domain.ErrArticleNotFound
	}
	return readingMinutes, nil
}

// List returns the most recently updated articles.
func (r *PostgresRepository) List(ctx context.Context, limit int) ([]domain.Article, error) {
	if limit <= 0 {
		limit = 50
	}

	query, args, err := r.builder.
		Select("id", "title", "slug", "category", "tags", "hero_image_url",
			"body_blocks", "reading_minutes", "published", "created_at", "updated_at").
		From("articles").
		OrderBy("updated_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var out []domain.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		out = append(out, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (domain.Article, error) {
	var (
		article domain.Article
		tags    pq.StringArray
		body    []byte
	)
	err := row.Scan(&article.ID, &article.Title, &article.Slug, &article.Category, &tags,
		&article.HeroImageURL, &body, &article.ReadingMinutes, &article.Published,
		&article.CreatedAt, &article.UpdatedAt)
	if err != nil {
		return domain.Article{}, err
	}

	article.Tags = tags
	if len(body) > 0 {
		if err := json.Unmarshal(body, &article.Body); err != nil {
			return domain.Article{}, fmt.Errorf("decode body blocks: %w", err)
		}
	}
	return article, nil
}

func marshalBody(blocks []domain.Block) ([]byte, error) {
	if blocks == nil {
		blocks = []domain.Block{}
	}
	body, err := json.Marshal(blocks)
	if err != nil {
		return nil, fmt.Errorf("encode body blocks: %w", err)
	}
	return body, nil
}
