// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Rating bounds. A rating value outside [RatingMin, RatingMax] is invalid.
const (
	RatingMin = 1
	RatingMax = 5
)

// Rating is a single user's score for an article. At most one rating
// exists per (article, user) pair.
type Rating struct {
	ID        int64     `json:"id"`
	ArticleID int64     `json:"article_id"`
	UserID    int64     `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidRatingValue reports whether v is an acceptable rating score.
func ValidRatingValue(v int) bool {
	return v >= RatingMin && v <= RatingMax
}
