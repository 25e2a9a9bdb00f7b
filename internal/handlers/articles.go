// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"smokefree/internal/apperr"
	"smokefree/internal/cache"
	"smokefree/internal/knowledge"
	"smokefree/internal/markdown"
	"smokefree/internal/middleware"
	"smokefree/internal/models"
	"smokefree/internal/store"
)

// Articles serves the article lifecycle: drafting, auditing, publishing,
// banning and the public read side. Single-article reads go through the
// Valkey cache; every mutation invalidates the cached copy.
type Articles struct {
	lifecycle *knowledge.Lifecycle
	articles  *store.ArticleStore
	cache     *cache.ArticleCache
}

func NewArticles(lifecycle *knowledge.Lifecycle, articles *store.ArticleStore, articleCache *cache.ArticleCache) *Articles {
	return &Articles{lifecycle: lifecycle, articles: articles, cache: articleCache}
}

// urlID parses the {id} route parameter.
func urlID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// actor returns the authenticated user id. Routes calling it sit behind
// RequireUser, so a miss means broken wiring, not a client mistake.
func actor(r *http.Request) (int64, bool) {
	return middleware.UserIDFromCtx(r.Context())
}

type createArticleRequest struct {
	Title      string  `json:"title"`
	Body       string  `json:"body"`
	Source     *string `json:"source"`
	CategoryID int64   `json:"category_id"`
}

func (h *Articles) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := actor(r)
	if !ok {
		respondBadRequest(w, "Missing authenticated user.")
		return
	}
	var req createArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid JSON body.")
		return
	}
	if msg := validateArticle(req.Title, req.Body); msg != "" {
		respondBadRequest(w, msg)
		return
	}
	a, err := h.lifecycle.Create(r.Context(), knowledge.CreateArticleInput{
		Title:      req.Title,
		Body:       req.Body,
		Source:     req.Source,
		CategoryID: req.CategoryID,
		AuthorID:   userID,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, a)
}

type updateArticleRequest struct {
	Title      *string `json:"title"`
	Body       *string `json:"body"`
	Source     *string `json:"source"`
	CategoryID int64   `json:"category_id"`
}

func (h *Articles) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		respondBadRequest(w, "Invalid article id.")
		return
	}
	userID, _ := actor(r)
	var req updateArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid JSON body.")
		return
	}
	if req.Title != nil {
		if msg := validateTitle(*req.Title); msg != "" {
			respondBadRequest(w, msg)
			return
		}
	}
	if req.Body != nil {
		if msg := validateBody(*req.Body); msg != "" {
			respondBadRequest(w, msg)
			return
		}
	}
	a, err := h.lifecycle.Update(r.Context(), id, userID, knowledge.UpdateArticleInput{
		Title:      req.Title,
		Body:       req.Body,
		Source:     req.Source,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.cache.Invalidate(r.Context(), id)
	respondOK(w, a)
}

func (h *Articles) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		respondBadRequest(w, "Invalid article id.")
		return
	}
	if a, hit := h.cache.Get(r.Context(), id); hit {
		respondOK(w, a)
		return
	}
	a, err := h.lifecycle.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.cache.Set(r.Context(), a)
	respondOK(w, a)
}

// GetHTML returns the article with its body rendered from Markdown to
// HTML, for clients without a Markdown renderer of their own.
func (h *Articles) GetHTML(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		respondBadRequest(w, "Invalid article id.")
		return
	}
	a, err := h.lifecycle.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	rendered, err := markdown.ToHTML(a.Body)
	if err != nil {
		respondError(w, r, apperr.Internal(err, "render article %d", id))
		return
	}
	respondOK(w, map[string]any{
		"article": a,
		"html":    rendered,
	})
}

func (h *Articles) List(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	f := store.ArticleFilter{
		Keyword: r.URL.Query().Get("keyword"),
		Page:    page,
		Size:    size,
	}
	if raw := r.URL.Query().Get("categoryId"); raw != "" {
		cid, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondBadRequest(w, "Invalid category id.")
			return
		}
		f.CategoryID = cid
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := models.ArticleStatus(raw)
		if !status.Valid() {
			respondBadRequest(w, "Unknown article status.")
			return
		}
		f.Status = status
	}
	if raw := r.URL.Query().Get("auditStatus"); raw != "" {
		status := models.AuditStatus(raw)
		if !status.Valid() {
			respondBadRequest(w, "Unknown audit status.")
			return
		}
		f.AuditStatus = status
	}
	articles, total, err := h.articles.List(r.Context(), f)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, newPageResponse(articles, page, size, total))
}

func (h *Articles) Submit(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		respondBadRequest(w, "Invalid article id.")
		return
	}
	userID, _ := actor(r)
	a, err := h.lifecycle.SubmitForAudit(r.Context(), id, userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.cache.Invalidate(r.Context(), id)
	respondOK(w, a)
}

type auditRequest struct {
	Decision string `json:"decision"`
	Comment  string `json:"comment"`
}

func (h *Articles) Audit(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		respondBadRequest(w, "Invalid article id.")
		return
	}
	userID, _ := actor(r)
	var req auditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid JSON body.")
		return
	}
	if msg := validateReason(req.Comment); msg != "" {
		respondBadRequest(w, msg)
		return
	}
	a, err := h.lifecycle.Audit(r.Context(), id, models.AuditStatus(req.Decision), req.Comment, userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.cache.Invalidate(r.Context(), id)
	respondOK(w, a)
}

func (h *Articles) Publish(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		respondBadRequest(w, "Invalid article id.")
		return
	}
	userID, _ := actor(r)
	a, err := h.lifecycle.Publish(r.Context(), id, userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.cache.Invalidate(r.Context(), id)
	respondOK(w, a)
}

type banArticleRequest struct {
	Reason string `json:"reason"`
}

func (h *Articles) Ban(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		respondBadRequest(w, "Invalid article id.")
		return
	}
	userID, _ := actor(r)
	var req banArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid JSON body.")
		return
	}
	if msg := validateReason(req.Reason); msg != "" {
		respondBadRequest(w, msg)
		return
	}
	a, err := h.lifecycle.Ban(r.Context(), id, req.Reason, userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.cache.Invalidate(r.Context(), id)
	respondOK(w, a)
}

func (h *Articles) Restore(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		respondBadRequest(w, "Invalid article id.")
		return
	}
	userID, _ := actor(r)
	a, err := h.lifecycle.Restore(r.Context(), id, userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.cache.Invalidate(r.Context(), id)
	respondOK(w, a)
}

func (h *Articles) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		respondBadRequest(w, "Invalid article id.")
		return
	}
	userID, _ := actor(r)
	if err := h.lifecycle.SoftDelete(r.Context(), id, userID); err != nil {
		respondError(w, r, err)
		return
	}
	h.cache.Invalidate(r.Context(), id)
	respondOK(w, nil)
}

func (h *Articles) Undelete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		respondBadRequest(w, "Invalid article id.")
		return
	}
	userID, _ := actor(r)
	if err := h.lifecycle.Undelete(r.Context(), id, userID); err != nil {
		respondError(w, r, err)
		return
	}
	h.cache.Invalidate(r.Context(), id)
	respondOK(w, nil)
}

func (h *Articles) View(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		respondBadRequest(w, "Invalid article id.")
		return
	}
	if err := h.lifecycle.IncrementView(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	h.cache.Invalidate(r.Context(), id)
	respondOK(w, nil)
}

func (h *Articles) Like(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		respondBadRequest(w, "Invalid article id.")
		return
	}
	if err := h.lifecycle.Like(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	h.cache.Invalidate(r.Context(), id)
	respondOK(w, nil)
}

func (h *Articles) Dislike(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		respondBadRequest(w, "Invalid article id.")
		return
	}
	if err := h.lifecycle.Dislike(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	h.cache.Invalidate(r.Context(), id)
	respondOK(w, nil)
}
