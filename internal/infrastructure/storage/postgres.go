// Package storage persists crawl output in Postgres.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"github.com/satoshi-natamoko/NewsGPTArchive/internal/domain"
	"github.com/satoshi-natamoko/NewsGPTArchive/internal/ports"
)

// PostgresStore implements ports.ArticleStore over database/sql.
type PostgresStore struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.ArticleStore = (*PostgresStore)(nil)

// Open connects to Postgres and verifies the connection.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// NewPostgresStore wires a sql.DB implementation.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// CreateArticle inserts one article and returns it with its assigned id.
func (s *PostgresStore) CreateArticle(ctx context.Context, article domain.Article) (domain.Article, error) {
	query, args, err := s.builder.
		Insert("articles").
		Columns("category_id", "keyword", "title", "summary", "source_url", "published_at", "crawled_at").
		Values(article.CategoryID, article.Keyword, article.Title, article.Summary,
			article.SourceURL, article.PublishedAt, article.CrawledAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return domain.Article{}, fmt.Errorf("build insert: %w", err)
	}

	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&article.ID); err != nil {
		return domain.Article{}, fmt.Errorf("%w: insert article: %v", domain.ErrPersistence, err)
	}
	return article, nil
}

// DeleteArticlesForDate removes every article crawled on the logical date.
func (s *PostgresStore) DeleteArticlesForDate(ctx context.Context, date time.Time) error {
	query, args, err := s.builder.
		Delete("articles").
		Where(sq.Eq{"crawled_at": date}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: delete articles: %v", domain.ErrPersistence, err)
	}
	return nil
}

// LoadCategoriesWithKeywords returns the category snapshot for a run,
// ordered by display order with keywords attached.
func (s *PostgresStore) LoadCategoriesWithKeywords(ctx context.Context) ([]domain.Category, error) {
	query, args, err := s.builder.
		Select("c.id", "c.name", "c.display_order", "k.id", "k.text").
		From("categories c").
		LeftJoin("keywords k ON k.category_id = c.id").
		OrderBy("c.display_order", "c.id", "k.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: load categories: %v", domain.ErrPersistence, err)
	}
	defer rows.Close()

	var (
		ordered []int64
		byID    = map[int64]*domain.Category{}
	)
	for rows.Next() {
		var (
			catID        int64
			name         string
			displayOrder int
			kwID         sql.NullInt64
			kwText       sql.NullString
		)
		if err := rows.Scan(&catID, &name, &displayOrder, &kwID, &kwText); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}

		category, ok := byID[catID]
		if !ok {
			category = &domain.Category{ID: catID, Name: name, DisplayOrder: displayOrder}
			byID[catID] = category
			ordered = append(ordered, catID)
		}
		if kwID.Valid {
			category.Keywords = append(category.Keywords, domain.Keyword{
				ID:         kwID.Int64,
				CategoryID: catID,
				Text:       kwText.String,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate categories: %v", domain.ErrPersistence, err)
	}

	categories := make([]domain.Category, 0, len(ordered))
	for _, id := range ordered {
		categories = append(categories, *byID[id])
	}
	return categories, nil
}
