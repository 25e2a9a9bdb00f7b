// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"smokefree/internal/models"
)

// articleColumns is the canonical column list scanned by scanArticle.
const articleColumns = `
	id, title, body, source, category_id, author_id, status, audit_status,
	view_count, like_count, dislike_count, rating_score, rating_count,
	audit_comment, audited_by, audited_at,
	is_deleted, deleted_by, deleted_at,
	banned_reason, banned_by, banned_at,
	publish_time, last_edit_by, last_edit_time, edit_count,
	created_at, updated_at`

// ArticleStore handles all article-related database operations.
type ArticleStore struct {
	db *sql.DB
}

// NewArticleStore creates a new ArticleStore with the given database connection.
func NewArticleStore(db *sql.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

type articleScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row articleScanner) (*models.Article, error) {
	a := &models.Article{}
	err := row.Scan(
		&a.ID, &a.Title, &a.Body, &a.Source, &a.CategoryID, &a.AuthorID,
		&a.Status, &a.AuditStatus,
		&a.ViewCount, &a.LikeCount, &a.DislikeCount, &a.RatingScore, &a.RatingCount,
		&a.AuditComment, &a.AuditedBy, &a.AuditedAt,
		&a.IsDeleted, &a.DeletedBy, &a.DeletedAt,
		&a.BannedReason, &a.BannedBy, &a.BannedAt,
		&a.PublishTime, &a.LastEditBy, &a.LastEditTime, &a.EditCount,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts a new article and returns it with generated fields.
func (s *ArticleStore) Create(ctx context.Context, a *models.Article) (*models.Article, error) {
	row := querier(ctx, s.db).QueryRowContext(ctx, `
		INSERT INTO articles (title, body, source, category_id, author_id,
		                      status, audit_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING`+articleColumns,
		a.Title, a.Body, a.Source, a.CategoryID, a.AuthorID, a.Status, a.AuditStatus,
	)
	created, err := scanArticle(row)
	if err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	return created, nil
}

// FindByID retrieves an article by id. Returns nil if not found.
// Soft-deleted articles are returned too; visibility is the caller's rule.
func (s *ArticleStore) FindByID(ctx context.Context, id int64) (*models.Article, error) {
	row := querier(ctx, s.db).QueryRowContext(ctx,
		`SELECT`+articleColumns+` FROM articles WHERE id = $1`, id)
	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article by id: %w", err)
	}
	return a, nil
}

// Update persists every mutable field of the article.
func (s *ArticleStore) Update(ctx context.Context, a *models.Article) error {
	_, err := querier(ctx, s.db).ExecContext(ctx, `
		UPDATE articles SET
			title = $1, body = $2, source = $3, category_id = $4,
			status = $5, audit_status = $6,
			audit_comment = $7, audited_by = $8, audited_at = $9,
			is_deleted = $10, deleted_by = $11, deleted_at = $12,
			banned_reason = $13, banned_by = $14, banned_at = $15,
			publish_time = $16, last_edit_by = $17, last_edit_time = $18,
			edit_count = $19, updated_at = NOW()
		WHERE id = $20
	`, a.Title, a.Body, a.Source, a.CategoryID,
		a.Status, a.AuditStatus,
		a.AuditComment, a.AuditedBy, a.AuditedAt,
		a.IsDeleted, a.DeletedBy, a.DeletedAt,
		a.BannedReason, a.BannedBy, a.BannedAt,
		a.PublishTime, a.LastEditBy, a.LastEditTime,
		a.EditCount, a.ID,
	)
	if err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	return nil
}

// ArticleFilter narrows List results. Zero values mean "no constraint".
type ArticleFilter struct {
	Keyword     string
	CategoryID  int64
	Status      models.ArticleStatus
	AuditStatus models.AuditStatus
	Page        int
	Size        int
}

// List returns one page of non-deleted articles matching the filter, newest
// first, together with the total match count.
func (s *ArticleStore) List(ctx context.Context, f ArticleFilter) ([]models.Article, int, error) {
	where := []string{"is_deleted = FALSE"}
	var args []any

	if f.Keyword != "" {
		args = append(args, "%"+strings.TrimSpace(f.Keyword)+"%")
		where = append(where, fmt.Sprintf("title ILIKE $%d", len(args)))
	}
	if f.CategoryID != 0 {
		args = append(args, f.CategoryID)
		where = append(where, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.AuditStatus != "" {
		args = append(args, f.AuditStatus)
		where = append(where, fmt.Sprintf("audit_status = $%d", len(args)))
	}

	cond := strings.Join(where, " AND ")
	q := querier(ctx, s.db)

	var total int
	err := q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM articles WHERE "+cond, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}

	args = append(args, f.Size, f.Page*f.Size)
	rows, err := q.QueryContext(ctx, fmt.Sprintf(
		"SELECT%s FROM articles WHERE %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d",
		articleColumns, cond, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var items []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan article: %w", err)
		}
		items = append(items, *a)
	}
	return items, total, rows.Err()
}

// IncrementViewCount bumps the view counter by one. Views are a relative
// increment; concurrent interleavings are acceptable here.
func (s *ArticleStore) IncrementViewCount(ctx context.Context, id int64) error {
	_, err := querier(ctx, s.db).ExecContext(ctx,
		`UPDATE articles SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment view count: %w", err)
	}
	return nil
}

// AddLikeCount adjusts the like counter by delta, floored at zero.
func (s *ArticleStore) AddLikeCount(ctx context.Context, id int64, delta int) error {
	_, err := querier(ctx, s.db).ExecContext(ctx,
		`UPDATE articles SET like_count = GREATEST(like_count + $1, 0), updated_at = NOW() WHERE id = $2`,
		delta, id)
	if err != nil {
		return fmt.Errorf("add like count: %w", err)
	}
	return nil
}

// AddDislikeCount adjusts the dislike counter by delta, floored at zero.
func (s *ArticleStore) AddDislikeCount(ctx context.Context, id int64, delta int) error {
	_, err := querier(ctx, s.db).ExecContext(ctx,
		`UPDATE articles SET dislike_count = GREATEST(dislike_count + $1, 0), updated_at = NOW() WHERE id = $2`,
		delta, id)
	if err != nil {
		return fmt.Errorf("add dislike count: %w", err)
	}
	return nil
}

// UpdateRatingStats writes the recomputed denormalized rating aggregate.
// Never called outside the rating operation's transaction.
func (s *ArticleStore) UpdateRatingStats(ctx context.Context, id int64, score float64, count int) error {
	_, err := querier(ctx, s.db).ExecContext(ctx,
		`UPDATE articles SET rating_score = $1, rating_count = $2, updated_at = NOW() WHERE id = $3`,
		score, count, id)
	if err != nil {
		return fmt.Errorf("update rating stats: %w", err)
	}
	return nil
}

// CountByAuditStatus returns how many non-deleted articles sit in the given
// audit state. Used for the moderation backlog.
func (s *ArticleStore) CountByAuditStatus(ctx context.Context, status models.AuditStatus) (int, error) {
	var count int
	err := querier(ctx, s.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM articles WHERE audit_status = $1 AND is_deleted = FALSE`,
		status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count articles by audit status: %w", err)
	}
	return count, nil
}
