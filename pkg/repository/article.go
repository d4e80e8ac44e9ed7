package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-pkgz/lgr"
	"github.com/jmoiron/sqlx"

	"github.com/umputun/newsstream/pkg/domain"
)

// ArticleRepository is the corpus store. The unique index on link enforces one row per article,
// every write is a single statement so a failure leaves the prior row intact.
type ArticleRepository struct {
	db *sqlx.DB
}

// NewArticleRepository creates a new article repository
func NewArticleRepository(db *sqlx.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// articleSQL is the database representation of domain.Article
type articleSQL struct {
	ID            int64          `db:"id"`
	Link          string         `db:"link"`
	SourceURL     string         `db:"source_url"`
	CategoryGroup string         `db:"category_group"`
	Title         string         `db:"title"`
	Published     string         `db:"published"`
	RawSummary    string         `db:"summary_rss"`
	FullText      sql.NullString `db:"full_text"`
	IngestedAt    time.Time      `db:"ingested_at"`
	LLMSummary    sql.NullString `db:"llm_summary"`
	Category      sql.NullString `db:"category"`
	Sentiment     sql.NullString `db:"sentiment"`
	Embedding     vectorSQL      `db:"embedding"`
	ProcessedAt   *time.Time     `db:"processed_at"`
}

const articleColumns = `id, link, source_url, category_group, title, published, summary_rss, full_text, ingested_at,
	llm_summary, category, sentiment, embedding, processed_at`

// usableEmbedding is 1 for a non-empty JSON array of numbers. Anything else, NULL or values written by other tools,
// counts as missing, so retrieval skips such rows and the repair pass picks them up.
// CASE keeps json functions away from invalid text.
const usableEmbedding = `CASE
		WHEN embedding IS NULL OR NOT json_valid(embedding) THEN 0
		WHEN json_type(embedding) <> 'array' OR json_array_length(embedding) = 0 THEN 0
		WHEN EXISTS (SELECT 1 FROM json_each(articles.embedding) WHERE type NOT IN ('integer', 'real')) THEN 0
		ELSE 1 END`

const (
	noEmbeddingSQL  = "(" + usableEmbedding + ") = 0"
	hasEmbeddingSQL = "(" + usableEmbedding + ") = 1"
)

// vectorSQL is an embedding stored as JSON array text
type vectorSQL []float32

// Value implements driver.Valuer, empty vector is stored as NULL
func (v vectorSQL) Value() (driver.Value, error) {
	if len(v) == 0 {
		return nil, nil
	}
	data, err := json.Marshal([]float32(v))
	if err != nil {
		return nil, fmt.Errorf("marshal embedding: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner. A value that doesn't decode to a vector scans as empty,
// one bad row must not fail the whole query.
func (v *vectorSQL) Scan(value interface{}) error {
	*v = nil
	var data []byte
	switch val := value.(type) {
	case nil:
		return nil
	case []byte:
		data = val
	case string:
		data = []byte(val)
	default:
		lgr.Printf("[WARN] unsupported embedding type %T, treated as missing", value)
		return nil
	}
	if s := strings.TrimSpace(string(data)); s == "" || s == "null" {
		return nil
	}
	var res []float32
	if err := json.Unmarshal(data, &res); err != nil {
		lgr.Printf("[WARN] can't decode embedding, treated as missing: %v", err)
		return nil
	}
	*v = res
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func toSQL(a *domain.Article) articleSQL {
	ingested := a.IngestedAt
	if ingested.IsZero() {
		ingested = time.Now()
	}
	return articleSQL{
		Link:          a.Link,
		SourceURL:     a.SourceURL,
		CategoryGroup: a.CategoryGroup,
		Title:         a.Title,
		Published:     a.Published,
		RawSummary:    a.RawSummary,
		FullText:      nullString(a.FullText),
		IngestedAt:    ingested.UTC(),
		LLMSummary:    nullString(a.LLMSummary),
		Category:      nullString(a.Category),
		Sentiment:     nullString(string(a.Sentiment)),
		Embedding:     vectorSQL(a.Embedding),
		ProcessedAt:   a.ProcessedAt,
	}
}

func (s *articleSQL) toDomain() domain.Article {
	return domain.Article{
		SourceURL:     s.SourceURL,
		CategoryGroup: s.CategoryGroup,
		Title:         s.Title,
		Link:          s.Link,
		Published:     s.Published,
		RawSummary:    s.RawSummary,
		FullText:      s.FullText.String,
		IngestedAt:    s.IngestedAt,
		LLMSummary:    s.LLMSummary.String,
		Category:      s.Category.String,
		Sentiment:     domain.Sentiment(s.Sentiment.String),
		Embedding:     []float32(s.Embedding),
		ProcessedAt:   s.ProcessedAt,
	}
}

func toDomainList(rows []articleSQL) []domain.Article {
	res := make([]domain.Article, 0, len(rows))
	for i := range rows {
		res = append(res, rows[i].toDomain())
	}
	return res
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStoreUnavailable, op, err)
}

// Upsert inserts the article or replaces the fields of the existing row with the same link.
// An article without embedding keeps the stored one, a failed enrichment pass doesn't drop a good vector.
// Repeated calls with the same payload leave the store unchanged.
func (r *ArticleRepository) Upsert(ctx context.Context, article domain.Article) error {
	if strings.TrimSpace(article.Link) == "" {
		return errors.New("upsert: article has no link")
	}

	query := `
		INSERT INTO articles (link, source_url, category_group, title, published, summary_rss, full_text, ingested_at,
			llm_summary, category, sentiment, embedding, processed_at)
		VALUES (:link, :source_url, :category_group, :title, :published, :summary_rss, :full_text, :ingested_at,
			:llm_summary, :category, :sentiment, :embedding, :processed_at)
		ON CONFLICT(link) DO UPDATE SET
			source_url = excluded.source_url,
			category_group = excluded.category_group,
			title = excluded.title,
			published = excluded.published,
			summary_rss = excluded.summary_rss,
			full_text = excluded.full_text,
			ingested_at = excluded.ingested_at,
			llm_summary = excluded.llm_summary,
			category = excluded.category,
			sentiment = excluded.sentiment,
			embedding = COALESCE(excluded.embedding, articles.embedding),
			processed_at = excluded.processed_at,
			updated_at = CURRENT_TIMESTAMP
	`
	row := toSQL(&article)
	err := withRetry(ctx, func() error {
		_, err := r.db.NamedExecContext(ctx, query, row)
		return err
	})
	if err != nil {
		return storeErr("upsert "+article.Link, err)
	}
	return nil
}

// GetByLink returns the article with the given link or domain.ErrNotFound
func (r *ArticleRepository) GetByLink(ctx context.Context, link string) (*domain.Article, error) {
	var row articleSQL
	err := r.db.GetContext(ctx, &row, "SELECT "+articleColumns+" FROM articles WHERE link = ?", link)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("article %s: %w", link, domain.ErrNotFound)
	}
	if err != nil {
		return nil, storeErr("get "+link, err)
	}
	res := row.toDomain()
	return &res, nil
}

// FindMissingEmbeddings returns articles without an embedding, in insertion order
func (r *ArticleRepository) FindMissingEmbeddings(ctx context.Context) ([]domain.Article, error) {
	var rows []articleSQL
	query := "SELECT " + articleColumns + " FROM articles WHERE " + noEmbeddingSQL + " ORDER BY id"
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, storeErr("find missing embeddings", err)
	}
	return toDomainList(rows), nil
}

// FindByFilter returns articles matching the filter in insertion order
func (r *ArticleRepository) FindByFilter(ctx context.Context, filter domain.ArticleFilter) ([]domain.Article, error) {
	q := sq.Select(articleColumns).From("articles").OrderBy("id")
	if filter.HasEmbedding {
		q = q.Where(hasEmbeddingSQL)
	}
	if filter.Published != "" {
		q = q.Where(sq.Expr(`published LIKE ? ESCAPE '\'`, "%"+escapeLike(filter.Published)+"%"))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build filter query: %w", err)
	}

	var rows []articleSQL
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, storeErr("find by filter", err)
	}
	return toDomainList(rows), nil
}

// Recent returns up to limit articles ordered by the published string, newest first.
// Published is free-form, so the order is lexical.
func (r *ArticleRepository) Recent(ctx context.Context, limit int) ([]domain.Article, error) {
	if limit <= 0 {
		return []domain.Article{}, nil
	}
	var rows []articleSQL
	query := "SELECT " + articleColumns + " FROM articles ORDER BY published DESC, id DESC LIMIT ?"
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, storeErr("recent", err)
	}
	return toDomainList(rows), nil
}

// RecentByCategory is Recent limited to one category, matched case-insensitively
func (r *ArticleRepository) RecentByCategory(ctx context.Context, category string, limit int) ([]domain.Article, error) {
	if limit <= 0 {
		return []domain.Article{}, nil
	}
	query, args, err := sq.Select(articleColumns).From("articles").
		Where(sq.Expr("category = ? COLLATE NOCASE", category)).
		OrderBy("published DESC", "id DESC").
		Limit(uint64(limit)). //nolint:gosec // limit is positive
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build category query: %w", err)
	}

	var rows []articleSQL
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, storeErr("recent by category", err)
	}
	return toDomainList(rows), nil
}

// CountByCategory returns number of enriched articles per category
func (r *ArticleRepository) CountByCategory(ctx context.Context) (map[string]int, error) {
	return r.countBy(ctx, "category")
}

// CountBySentiment returns number of enriched articles per sentiment
func (r *ArticleRepository) CountBySentiment(ctx context.Context) (map[domain.Sentiment]int, error) {
	counts, err := r.countBy(ctx, "sentiment")
	if err != nil {
		return nil, err
	}
	res := make(map[domain.Sentiment]int, len(counts))
	for k, v := range counts {
		res[domain.Sentiment(k)] = v
	}
	return res, nil
}

// countBy groups by a fixed column name, never pass user input here
func (r *ArticleRepository) countBy(ctx context.Context, column string) (map[string]int, error) {
	query := fmt.Sprintf(`SELECT %[1]s AS category, COUNT(*) AS cnt FROM articles
		WHERE %[1]s IS NOT NULL AND %[1]s != '' GROUP BY %[1]s`, column)
	var rows []domain.CategoryCount
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, storeErr("count by "+column, err)
	}
	res := make(map[string]int, len(rows))
	for _, row := range rows {
		res[row.Category] = row.Count
	}
	return res, nil
}

// Count returns the total number of articles
func (r *ArticleRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM articles"); err != nil {
		return 0, storeErr("count", err)
	}
	return count, nil
}

// CountMatching returns the number of articles with term in group, title or feed summary, case-insensitive
func (r *ArticleRepository) CountMatching(ctx context.Context, term string) (int, error) {
	pattern := "%" + escapeLike(term) + "%"
	query, args, err := sq.Select("COUNT(*)").From("articles").Where(sq.Or{
		sq.Expr(`category_group LIKE ? ESCAPE '\'`, pattern),
		sq.Expr(`title LIKE ? ESCAPE '\'`, pattern),
		sq.Expr(`summary_rss LIKE ? ESCAPE '\'`, pattern),
	}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}
	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, storeErr("count matching", err)
	}
	return count, nil
}

// UpdateEmbedding sets the embedding of the article with the given link, no other field changes
func (r *ArticleRepository) UpdateEmbedding(ctx context.Context, link string, embedding []float32) error {
	if len(embedding) == 0 {
		return errors.New("update embedding: empty vector")
	}
	var affected int64
	err := withRetry(ctx, func() error {
		res, err := r.db.ExecContext(ctx, "UPDATE articles SET embedding = ? WHERE link = ?", vectorSQL(embedding), link)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return storeErr("update embedding "+link, err)
	}
	if affected == 0 {
		return fmt.Errorf("article %s: %w", link, domain.ErrNotFound)
	}
	return nil
}

// escapeLike escapes LIKE wildcards so the term matches literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
