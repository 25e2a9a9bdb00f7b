// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"smokefree/internal/knowledge"
	"smokefree/internal/store"
)

// Comments serves threaded discussion on articles: posting, editing,
// moderation (hide/restore), soft deletion and the per-comment counters.
type Comments struct {
	moderator *knowledge.Moderator
	comments  *store.CommentStore
}

func NewComments(moderator *knowledge.Moderator, comments *store.CommentStore) *Comments {
	return &Comments{moderator: moderator, comments: comments}
}

type createCommentRequest struct {
	ArticleID int64  `json:"article_id"`
	ParentID  *int64 `json:"parent_id"`
	Body      string `json:"body"`
}

func (h *Comments) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := actor(r)
	if !ok {
		respondBadRequest(w, "Missing authenticated user.")
		return
	}
	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid JSON body.")
		return
	}
	if msg := validateComment(req.Body); msg != "" {
		respondBadRequest(w, msg)
		return
	}
	c, err := h.moderator.Create(r.Context(), knowledge.CreateCommentInput{
		ArticleID: req.ArticleID,
		AuthorID:  userID,
		ParentID:  req.ParentID,
		Body:      req.Body,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, c)
}

type updateCommentRequest struct {
	Body string `json:"body"`
}

func (h *Comments) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		respondBadRequest(w, "Invalid comment id.")
		return
	}
	userID, _ := actor(r)
	var req updateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid JSON body.")
		return
	}
	if msg := validateComment(req.Body); msg != "" {
		respondBadRequest(w, msg)
		return
	}
	c, err := h.moderator.Update(r.Context(), id, userID, req.Body)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, c)
}

// ListByArticle pages through every comment on an article, hidden and
// deleted ones included. Moderation views need the full set.
func (h *Comments) ListByArticle(w http.ResponseWriter, r *http.Request) {
	articleID, ok := urlID(r, "articleId")
	if !ok {
		respondBadRequest(w, "Invalid article id.")
		return
	}
	page, size := pageParams(r)
	comments, total, err := h.comments.ListByArticle(r.Context(), articleID, page, size)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, newPageResponse(comments, page, size, total))
}

func (h *Comments) Tree(w http.ResponseWriter, r *http.Request) {
	articleID, ok := urlID(r, "articleId")
	if !ok {
		respondBadRequest(w, "Invalid article id.")
		return
	}
	tree, err := h.moderator.Tree(r.Context(), articleID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, tree)
}

func (h *Comments) Like(w http.ResponseWriter, r *http.Request) {
	h.counter(w, r, h.moderator.Like)
}

func (h *Comments) Unlike(w http.ResponseWriter, r *http.Request) {
	h.counter(w, r, h.moderator.Unlike)
}

func (h *Comments) Helpful(w http.ResponseWriter, r *http.Request) {
	h.counter(w, r, h.moderator.MarkHelpful)
}

func (h *Comments) Unhelpful(w http.ResponseWriter, r *http.Request) {
	h.counter(w, r, h.moderator.UnmarkHelpful)
}

type hideCommentRequest struct {
	Reason string `json:"reason"`
}

func (h *Comments) Hide(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		respondBadRequest(w, "Invalid comment id.")
		return
	}
	userID, _ := actor(r)
	var req hideCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid JSON body.")
		return
	}
	if msg := validateReason(req.Reason); msg != "" {
		respondBadRequest(w, msg)
		return
	}
	c, err := h.moderator.Hide(r.Context(), id, req.Reason, userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, c)
}

func (h *Comments) Restore(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		respondBadRequest(w, "Invalid comment id.")
		return
	}
	userID, _ := actor(r)
	c, err := h.moderator.Restore(r.Context(), id, userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, c)
}

func (h *Comments) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		respondBadRequest(w, "Invalid comment id.")
		return
	}
	userID, _ := actor(r)
	if err := h.moderator.SoftDelete(r.Context(), id, userID); err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, nil)
}

func (h *Comments) Undelete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		respondBadRequest(w, "Invalid comment id.")
		return
	}
	userID, _ := actor(r)
	if err := h.moderator.Undelete(r.Context(), id, userID); err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, nil)
}

func (h *Comments) counter(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id int64) error) {
	id, ok := urlID(r, "id")
	if !ok {
		respondBadRequest(w, "Invalid comment id.")
		return
	}
	if err := op(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, nil)
}
