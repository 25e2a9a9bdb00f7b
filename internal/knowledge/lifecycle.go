// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package knowledge

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"smokefree/internal/apperr"
	"smokefree/internal/models"
	"smokefree/internal/permission"
)

// Lifecycle drives articles through the draft / pending-publish / published /
// banned state machine. Transitions outside the allowed set are rejected with
// an invalid_state error before anything is written.
type Lifecycle struct {
	articles   ArticleStore
	users      UserStore
	categories CategoryStore
	logger     *slog.Logger
	now        nowFunc
}

func NewLifecycle(articles ArticleStore, users UserStore, categories CategoryStore, logger *slog.Logger) *Lifecycle {
	return &Lifecycle{
		articles:   articles,
		users:      users,
		categories: categories,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateArticleInput carries the author-supplied fields of a new draft.
type CreateArticleInput struct {
	Title      string
	Body       string
	Source     *string
	CategoryID int64
	AuthorID   int64
}

// Create stores a new draft with a pending audit. A missing posting
// permission is logged but does not block creation: the draft stays invisible
// until it passes audit and publication anyway.
func (l *Lifecycle) Create(ctx context.Context, in CreateArticleInput) (*models.Article, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperr.Validation("article title is required")
	}
	if strings.TrimSpace(in.Body) == "" {
		return nil, apperr.Validation("article body is required")
	}
	author, err := l.users.FindByID(ctx, in.AuthorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, apperr.NotFound("user %d not found", in.AuthorID)
	}
	category, err := l.categories.FindByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperr.NotFound("category %d not found", in.CategoryID)
	}
	if !permission.CanCreate(author, l.now()) {
		l.logger.Warn("article created without posting permission",
			"user_id", author.ID, "permission_level", author.PostPermissionLevel)
	}
	a := &models.Article{
		Title:       strings.TrimSpace(in.Title),
		Body:        in.Body,
		Source:      in.Source,
		CategoryID:  in.CategoryID,
		AuthorID:    in.AuthorID,
		Status:      models.ArticleStatusDraft,
		AuditStatus: models.AuditStatusPending,
	}
	return l.articles.Create(ctx, a)
}

// UpdateArticleInput carries the editable fields. Nil pointers leave the
// stored value unchanged; CategoryID zero keeps the current category.
type UpdateArticleInput struct {
	Title      *string
	Body       *string
	Source     *string
	CategoryID int64
}

// Update edits an article. Only the author or a moderator may edit. Moving
// the article to a different category invalidates its audit: the article
// drops back to draft with a pending audit.
func (l *Lifecycle) Update(ctx context.Context, articleID, editorID int64, in UpdateArticleInput) (*models.Article, error) {
	a, err := l.mustFind(ctx, articleID)
	if err != nil {
		return nil, err
	}
	editor, err := l.mustFindUser(ctx, editorID)
	if err != nil {
		return nil, err
	}
	if editor.ID != a.AuthorID && !permission.CanModerate(editor) {
		return nil, apperr.Forbidden("user %d may not edit article %d", editorID, articleID)
	}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, apperr.Validation("article title is required")
		}
		a.Title = strings.TrimSpace(*in.Title)
	}
	if in.Body != nil {
		if strings.TrimSpace(*in.Body) == "" {
			return nil, apperr.Validation("article body is required")
		}
		a.Body = *in.Body
	}
	if in.Source != nil {
		a.Source = in.Source
	}
	if in.CategoryID != 0 && in.CategoryID != a.CategoryID {
		category, err := l.categories.FindByID(ctx, in.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apperr.NotFound("category %d not found", in.CategoryID)
		}
		if !a.Status.CanTransitionTo(models.ArticleStatusDraft) {
			return nil, apperr.InvalidState("article %d cannot return to draft from %s", articleID, a.Status)
		}
		a.CategoryID = in.CategoryID
		a.Status = models.ArticleStatusDraft
		a.AuditStatus = models.AuditStatusPending
		a.AuditComment = nil
		a.AuditedBy = nil
		a.AuditedAt = nil
	}
	now := l.now()
	a.EditCount++
	a.LastEditBy = &editor.ID
	a.LastEditTime = &now
	if err := l.articles.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// SubmitForAudit resets an article's review so it goes through audit again.
// Only the author may submit their own article.
func (l *Lifecycle) SubmitForAudit(ctx context.Context, articleID, authorID int64) (*models.Article, error) {
	a, err := l.mustFind(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if a.AuthorID != authorID {
		return nil, apperr.Forbidden("user %d is not the author of article %d", authorID, articleID)
	}
	if !a.Status.CanTransitionTo(models.ArticleStatusDraft) {
		return nil, apperr.InvalidState("article %d cannot be submitted from %s", articleID, a.Status)
	}
	a.Status = models.ArticleStatusDraft
	a.AuditStatus = models.AuditStatusPending
	a.AuditComment = nil
	a.AuditedBy = nil
	a.AuditedAt = nil
	if err := l.articles.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Audit records a review decision. Approval moves the article to
// pending-publish; rejection sends it back to draft.
func (l *Lifecycle) Audit(ctx context.Context, articleID int64, decision models.AuditStatus, comment string, auditorID int64) (*models.Article, error) {
	if decision != models.AuditStatusApproved && decision != models.AuditStatusRejected {
		return nil, apperr.Validation("audit decision must be approved or rejected")
	}
	auditor, err := l.mustFindUser(ctx, auditorID)
	if err != nil {
		return nil, err
	}
	if !permission.CanModerate(auditor) {
		return nil, apperr.Forbidden("user %d may not audit articles", auditorID)
	}
	a, err := l.mustFind(ctx, articleID)
	if err != nil {
		return nil, err
	}
	next := models.ArticleStatusDraft
	if decision == models.AuditStatusApproved {
		next = models.ArticleStatusPendingPublish
	}
	if !a.Status.CanTransitionTo(next) {
		return nil, apperr.InvalidState("article %d cannot move from %s to %s", articleID, a.Status, next)
	}
	now := l.now()
	a.AuditStatus = decision
	a.AuditedBy = &auditor.ID
	a.AuditedAt = &now
	if comment != "" {
		a.AuditComment = &comment
	} else {
		a.AuditComment = nil
	}
	a.Status = next
	if err := l.articles.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Publish makes an approved article publicly visible, stamping its publish
// time and the publisher as last editor. Publishing anything that has not
// passed audit is an invalid state.
func (l *Lifecycle) Publish(ctx context.Context, articleID, publisherID int64) (*models.Article, error) {
	publisher, err := l.mustFindUser(ctx, publisherID)
	if err != nil {
		return nil, err
	}
	if !permission.CanModerate(publisher) {
		return nil, apperr.Forbidden("user %d may not publish articles", publisherID)
	}
	a, err := l.mustFind(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if a.AuditStatus != models.AuditStatusApproved {
		return nil, apperr.InvalidState("article %d has not passed audit", articleID)
	}
	if !a.Status.CanTransitionTo(models.ArticleStatusPublished) {
		return nil, apperr.InvalidState("article %d cannot be published from %s", articleID, a.Status)
	}
	now := l.now()
	a.Status = models.ArticleStatusPublished
	a.PublishTime = &now
	a.LastEditBy = &publisher.ID
	if err := l.articles.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Ban takes an article offline from any state, recording reason and actor.
func (l *Lifecycle) Ban(ctx context.Context, articleID int64, reason string, adminID int64) (*models.Article, error) {
	admin, err := l.mustFindUser(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if !permission.CanModerate(admin) {
		return nil, apperr.Forbidden("user %d may not ban articles", adminID)
	}
	a, err := l.mustFind(ctx, articleID)
	if err != nil {
		return nil, err
	}
	now := l.now()
	a.Status = models.ArticleStatusBanned
	a.BannedReason = &reason
	a.BannedBy = &admin.ID
	a.BannedAt = &now
	if err := l.articles.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Restore lifts a ban. An article that already passed audit returns to
// pending-publish; anything else goes back to draft. Ban metadata is cleared.
func (l *Lifecycle) Restore(ctx context.Context, articleID, adminID int64) (*models.Article, error) {
	admin, err := l.mustFindUser(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if !permission.CanModerate(admin) {
		return nil, apperr.Forbidden("user %d may not restore articles", adminID)
	}
	a, err := l.mustFind(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if a.Status != models.ArticleStatusBanned {
		return nil, apperr.InvalidState("article %d is not banned", articleID)
	}
	if a.AuditStatus == models.AuditStatusApproved {
		a.Status = models.ArticleStatusPendingPublish
	} else {
		a.Status = models.ArticleStatusDraft
	}
	a.BannedReason = nil
	a.BannedBy = nil
	a.BannedAt = nil
	if err := l.articles.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// SoftDelete flags an article as deleted without touching its lifecycle
// status. The flag is orthogonal: a deleted article keeps its state machine
// position and reappears there on undelete.
func (l *Lifecycle) SoftDelete(ctx context.Context, articleID, actorID int64) error {
	actor, err := l.mustFindUser(ctx, actorID)
	if err != nil {
		return err
	}
	if !permission.CanModerate(actor) {
		return apperr.Forbidden("user %d may not delete articles", actorID)
	}
	a, err := l.mustFind(ctx, articleID)
	if err != nil {
		return err
	}
	if a.IsDeleted {
		return apperr.InvalidState("article %d is already deleted", articleID)
	}
	now := l.now()
	a.IsDeleted = true
	a.DeletedBy = &actor.ID
	a.DeletedAt = &now
	return l.articles.Update(ctx, a)
}

// Undelete clears the soft-delete flag.
func (l *Lifecycle) Undelete(ctx context.Context, articleID, actorID int64) error {
	actor, err := l.mustFindUser(ctx, actorID)
	if err != nil {
		return err
	}
	if !permission.CanModerate(actor) {
		return apperr.Forbidden("user %d may not restore deleted articles", actorID)
	}
	a, err := l.mustFind(ctx, articleID)
	if err != nil {
		return err
	}
	if !a.IsDeleted {
		return apperr.InvalidState("article %d is not deleted", articleID)
	}
	a.IsDeleted = false
	a.DeletedBy = nil
	a.DeletedAt = nil
	return l.articles.Update(ctx, a)
}

// Get fetches a single article or reports not_found.
func (l *Lifecycle) Get(ctx context.Context, articleID int64) (*models.Article, error) {
	return l.mustFind(ctx, articleID)
}

// IncrementView bumps the article's view counter.
func (l *Lifecycle) IncrementView(ctx context.Context, articleID int64) error {
	if _, err := l.mustFind(ctx, articleID); err != nil {
		return err
	}
	return l.articles.IncrementViewCount(ctx, articleID)
}

// Like bumps the article's like counter.
func (l *Lifecycle) Like(ctx context.Context, articleID int64) error {
	if _, err := l.mustFind(ctx, articleID); err != nil {
		return err
	}
	return l.articles.AddLikeCount(ctx, articleID, 1)
}

// Dislike bumps the article's dislike counter.
func (l *Lifecycle) Dislike(ctx context.Context, articleID int64) error {
	if _, err := l.mustFind(ctx, articleID); err != nil {
		return err
	}
	return l.articles.AddDislikeCount(ctx, articleID, 1)
}

func (l *Lifecycle) mustFind(ctx context.Context, id int64) (*models.Article, error) {
	a, err := l.articles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperr.NotFound("article %d not found", id)
	}
	return a, nil
}

func (l *Lifecycle) mustFindUser(ctx context.Context, id int64) (*models.User, error) {
	u, err := l.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("user %d not found", id)
	}
	return u, nil
}
