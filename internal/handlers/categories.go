// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"smokefree/internal/apperr"
	"smokefree/internal/store"
)

// Categories serves the fixed category tree articles are filed under.
type Categories struct {
	categories *store.CategoryStore
}

func NewCategories(categories *store.CategoryStore) *Categories {
	return &Categories{categories: categories}
}

func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, categories)
}

func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		respondBadRequest(w, "Invalid category id.")
		return
	}
	category, err := h.categories.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if category == nil {
		respondError(w, r, apperr.NotFound("category %d not found", id))
		return
	}
	respondOK(w, category)
}
