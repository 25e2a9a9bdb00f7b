// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package knowledge

import (
	"context"
	"strings"
	"time"

	"smokefree/internal/apperr"
	"smokefree/internal/models"
	"smokefree/internal/permission"
)

// Moderator owns the comment lifecycle: creation under the permission gate,
// author edits, moderator hide/restore with recorded reason, soft deletion,
// and assembly of the visible reply tree.
type Moderator struct {
	comments CommentStore
	articles ArticleStore
	users    UserStore
	now      nowFunc
}

func NewModerator(comments CommentStore, articles ArticleStore, users UserStore) *Moderator {
	return &Moderator{
		comments: comments,
		articles: articles,
		users:    users,
		now:      time.Now,
	}
}

// CreateCommentInput carries the fields of a new comment. ParentID nil means
// a top-level comment.
type CreateCommentInput struct {
	ArticleID int64
	AuthorID  int64
	ParentID  *int64
	Body      string
}

// Create posts a comment on a visible article. The author needs posting
// rights in effect: granted, not expired, and no active ban. A reply's
// parent must be a visible comment on the same article.
func (m *Moderator) Create(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if strings.TrimSpace(in.Body) == "" {
		return nil, apperr.Validation("comment body is required")
	}
	article, err := m.articles.FindByID(ctx, in.ArticleID)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, apperr.NotFound("article %d not found", in.ArticleID)
	}
	if !article.IsVisible() {
		return nil, apperr.InvalidState("article %d is not open for comments", in.ArticleID)
	}
	author, err := m.mustFindUser(ctx, in.AuthorID)
	if err != nil {
		return nil, err
	}
	if !permission.CanCreate(author, m.now()) {
		return nil, apperr.Forbidden("user %d may not comment", in.AuthorID)
	}
	if in.ParentID != nil {
		parent, err := m.comments.FindByID(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, apperr.NotFound("parent comment %d not found", *in.ParentID)
		}
		if !parent.IsVisible() {
			return nil, apperr.InvalidState("parent comment %d is not visible", *in.ParentID)
		}
		if parent.ArticleID != in.ArticleID {
			return nil, apperr.InvalidState("parent comment %d belongs to a different article", *in.ParentID)
		}
	}
	c := &models.Comment{
		ArticleID: in.ArticleID,
		UserID:    in.AuthorID,
		ParentID:  in.ParentID,
		Body:      strings.TrimSpace(in.Body),
		Status:    models.CommentStatusActive,
	}
	return m.comments.Create(ctx, c)
}

// Update edits the body of a comment. Only the original author may edit;
// the parent link and article never change.
func (m *Moderator) Update(ctx context.Context, commentID, editorID int64, body string) (*models.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, apperr.Validation("comment body is required")
	}
	c, err := m.mustFind(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if c.UserID != editorID {
		return nil, apperr.Forbidden("user %d is not the author of comment %d", editorID, commentID)
	}
	c.Body = strings.TrimSpace(body)
	if err := m.comments.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Hide takes a comment out of public view, recording who hid it, when, and
// why. Hiding an already hidden comment just refreshes the metadata.
func (m *Moderator) Hide(ctx context.Context, commentID int64, reason string, moderatorID int64) (*models.Comment, error) {
	mod, err := m.mustFindUser(ctx, moderatorID)
	if err != nil {
		return nil, err
	}
	if !permission.CanModerate(mod) {
		return nil, apperr.Forbidden("user %d may not hide comments", moderatorID)
	}
	c, err := m.mustFind(ctx, commentID)
	if err != nil {
		return nil, err
	}
	now := m.now()
	c.Status = models.CommentStatusHidden
	c.HiddenReason = &reason
	c.HiddenBy = &mod.ID
	c.HiddenAt = &now
	if err := m.comments.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Restore returns a hidden comment to public view and clears the hide
// metadata. Only hidden comments can be restored.
func (m *Moderator) Restore(ctx context.Context, commentID, moderatorID int64) (*models.Comment, error) {
	mod, err := m.mustFindUser(ctx, moderatorID)
	if err != nil {
		return nil, err
	}
	if !permission.CanModerate(mod) {
		return nil, apperr.Forbidden("user %d may not restore comments", moderatorID)
	}
	c, err := m.mustFind(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if c.Status != models.CommentStatusHidden {
		return nil, apperr.InvalidState("comment %d is not hidden", commentID)
	}
	c.Status = models.CommentStatusActive
	c.HiddenReason = nil
	c.HiddenBy = nil
	c.HiddenAt = nil
	if err := m.comments.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// SoftDelete flags a comment as deleted. The author may delete their own
// comment; moderators may delete any.
func (m *Moderator) SoftDelete(ctx context.Context, commentID, actorID int64) error {
	actor, err := m.mustFindUser(ctx, actorID)
	if err != nil {
		return err
	}
	c, err := m.mustFind(ctx, commentID)
	if err != nil {
		return err
	}
	if c.UserID != actor.ID && !permission.CanModerate(actor) {
		return apperr.Forbidden("user %d may not delete comment %d", actorID, commentID)
	}
	if c.IsDeleted {
		return apperr.InvalidState("comment %d is already deleted", commentID)
	}
	now := m.now()
	c.IsDeleted = true
	c.DeletedBy = &actor.ID
	c.DeletedAt = &now
	return m.comments.Update(ctx, c)
}

// Undelete clears the soft-delete flag on a comment.
func (m *Moderator) Undelete(ctx context.Context, commentID, actorID int64) error {
	actor, err := m.mustFindUser(ctx, actorID)
	if err != nil {
		return err
	}
	if !permission.CanModerate(actor) {
		return apperr.Forbidden("user %d may not restore deleted comments", actorID)
	}
	c, err := m.mustFind(ctx, commentID)
	if err != nil {
		return err
	}
	if !c.IsDeleted {
		return apperr.InvalidState("comment %d is not deleted", commentID)
	}
	c.IsDeleted = false
	c.DeletedBy = nil
	c.DeletedAt = nil
	return m.comments.Update(ctx, c)
}

// Like bumps the comment's like counter.
func (m *Moderator) Like(ctx context.Context, commentID int64) error {
	if _, err := m.mustFind(ctx, commentID); err != nil {
		return err
	}
	return m.comments.AddLikeCount(ctx, commentID, 1)
}

// Unlike decrements the comment's like counter; the store floors it at zero.
func (m *Moderator) Unlike(ctx context.Context, commentID int64) error {
	if _, err := m.mustFind(ctx, commentID); err != nil {
		return err
	}
	return m.comments.AddLikeCount(ctx, commentID, -1)
}

// MarkHelpful flags a comment as helpful.
func (m *Moderator) MarkHelpful(ctx context.Context, commentID int64) error {
	return m.setHelpful(ctx, commentID, true)
}

// UnmarkHelpful removes the helpful flag.
func (m *Moderator) UnmarkHelpful(ctx context.Context, commentID int64) error {
	return m.setHelpful(ctx, commentID, false)
}

func (m *Moderator) setHelpful(ctx context.Context, commentID int64, helpful bool) error {
	c, err := m.mustFind(ctx, commentID)
	if err != nil {
		return err
	}
	c.IsHelpful = helpful
	return m.comments.Update(ctx, c)
}

// Tree returns the visible comment tree for an article: top-level comments
// newest first, each with its replies oldest first. Hidden or deleted
// comments disappear together with their subtrees.
func (m *Moderator) Tree(ctx context.Context, articleID int64) ([]*models.CommentNode, error) {
	article, err := m.articles.FindByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, apperr.NotFound("article %d not found", articleID)
	}
	comments, err := m.comments.ListVisibleByArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}
	return buildCommentTree(comments)
}

// buildCommentTree assembles the reply tree from a flat slice ordered oldest
// first. Replies whose parent is absent from the slice (hidden or deleted)
// are dropped along with their descendants. Parent links that form a cycle
// are a data-integrity fault and reported as an internal error rather than
// looping forever.
func buildCommentTree(comments []models.Comment) ([]*models.CommentNode, error) {
	nodes := make(map[int64]*models.CommentNode, len(comments))
	for i := range comments {
		nodes[comments[i].ID] = &models.CommentNode{Comment: comments[i], Replies: []*models.CommentNode{}}
	}

	var roots []*models.CommentNode
	attached := make(map[int64]bool, len(comments))
	for i := range comments {
		c := &comments[i]
		if c.ParentID == nil {
			roots = append(roots, nodes[c.ID])
			attached[c.ID] = true
			continue
		}
		parent, ok := nodes[*c.ParentID]
		if !ok {
			continue // parent not visible, drop this subtree
		}
		parent.Replies = append(parent.Replies, nodes[c.ID])
		attached[c.ID] = true
	}

	// A node attached under a parent that never reaches a root sits on a
	// parent cycle. Walk each attached reply upward with a visited set.
	for id := range attached {
		seen := map[int64]bool{}
		cur := nodes[id]
		for cur.ParentID != nil {
			if seen[cur.ID] {
				return nil, apperr.Internal(nil, "comment %d sits on a parent cycle", id)
			}
			seen[cur.ID] = true
			parent, ok := nodes[*cur.ParentID]
			if !ok {
				break
			}
			cur = parent
		}
	}

	// Top-level comments come back oldest first from storage; readers see
	// newest first.
	for i, j := 0, len(roots)-1; i < j; i, j = i+1, j-1 {
		roots[i], roots[j] = roots[j], roots[i]
	}
	return roots, nil
}

func (m *Moderator) mustFind(ctx context.Context, id int64) (*models.Comment, error) {
	c, err := m.comments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("comment %d not found", id)
	}
	return c, nil
}

func (m *Moderator) mustFindUser(ctx context.Context, id int64) (*models.User, error) {
	u, err := m.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("user %d not found", id)
	}
	return u, nil
}
