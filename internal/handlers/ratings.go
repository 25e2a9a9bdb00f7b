// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"

	"smokefree/internal/cache"
	"smokefree/internal/knowledge"
	"smokefree/internal/store"
)

// Ratings serves the one-rating-per-user-per-article score surface and the
// aggregate views computed from it. Mutations invalidate the cached article,
// whose rating stats they change.
type Ratings struct {
	aggregator *knowledge.Aggregator
	ratings    *store.RatingStore
	cache      *cache.ArticleCache
}

func NewRatings(aggregator *knowledge.Aggregator, ratings *store.RatingStore, articleCache *cache.ArticleCache) *Ratings {
	return &Ratings{aggregator: aggregator, ratings: ratings, cache: articleCache}
}

type createRatingRequest struct {
	ArticleID int64   `json:"article_id"`
	Rating    int     `json:"rating"`
	Comment   *string `json:"comment"`
}

func (h *Ratings) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := actor(r)
	if !ok {
		respondBadRequest(w, "Missing authenticated user.")
		return
	}
	var req createRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid JSON body.")
		return
	}
	rating, err := h.aggregator.Create(r.Context(), knowledge.CreateRatingInput{
		ArticleID: req.ArticleID,
		UserID:    userID,
		Value:     req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.cache.Invalidate(r.Context(), req.ArticleID)
	respondOK(w, rating)
}

type updateRatingRequest struct {
	Rating  int     `json:"rating"`
	Comment *string `json:"comment"`
}

func (h *Ratings) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		respondBadRequest(w, "Invalid rating id.")
		return
	}
	userID, _ := actor(r)
	var req updateRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid JSON body.")
		return
	}
	rating, err := h.aggregator.Update(r.Context(), id, userID, req.Rating, req.Comment)
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.cache.Invalidate(r.Context(), rating.ArticleID)
	respondOK(w, rating)
}

// Delete removes the caller's own rating for the article and recomputes
// the aggregate.
func (h *Ratings) Delete(w http.ResponseWriter, r *http.Request) {
	articleID, ok := urlID(r, "articleId")
	if !ok {
		respondBadRequest(w, "Invalid article id.")
		return
	}
	userID, _ := actor(r)
	if err := h.aggregator.Delete(r.Context(), articleID, userID); err != nil {
		respondError(w, r, err)
		return
	}
	h.cache.Invalidate(r.Context(), articleID)
	respondOK(w, nil)
}

// Mine returns the caller's rating for the article, if any.
func (h *Ratings) Mine(w http.ResponseWriter, r *http.Request) {
	articleID, ok := urlID(r, "articleId")
	if !ok {
		respondBadRequest(w, "Invalid article id.")
		return
	}
	userID, _ := actor(r)
	rating, err := h.aggregator.Get(r.Context(), articleID, userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, rating)
}

func (h *Ratings) ListByArticle(w http.ResponseWriter, r *http.Request) {
	articleID, ok := urlID(r, "articleId")
	if !ok {
		respondBadRequest(w, "Invalid article id.")
		return
	}
	page, size := pageParams(r)
	ratings, total, err := h.ratings.ListByArticle(r.Context(), articleID, page, size)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, newPageResponse(ratings, page, size, total))
}

func (h *Ratings) Average(w http.ResponseWriter, r *http.Request) {
	articleID, ok := urlID(r, "articleId")
	if !ok {
		respondBadRequest(w, "Invalid article id.")
		return
	}
	avg, err := h.aggregator.Average(r.Context(), articleID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, avg)
}

func (h *Ratings) Distribution(w http.ResponseWriter, r *http.Request) {
	articleID, ok := urlID(r, "articleId")
	if !ok {
		respondBadRequest(w, "Invalid article id.")
		return
	}
	dist, err := h.aggregator.Distribution(r.Context(), articleID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, dist)
}
