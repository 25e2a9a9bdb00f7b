// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for article and comment fields.
const (
	maxTitleLen   = 300
	maxBodyLen    = 100_000
	maxCommentLen = 5_000
	maxReasonLen  = 1_000
)

func validateTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	return ""
}

func validateBody(body string) string {
	if strings.TrimSpace(body) == "" {
		return "Body is required."
	}
	if utf8.RuneCountInString(body) > maxBodyLen {
		return "Body is too long (max 100,000 characters)."
	}
	return ""
}

// validateArticle checks article create inputs and returns the first error found.
func validateArticle(title, body string) string {
	if msg := validateTitle(title); msg != "" {
		return msg
	}
	return validateBody(body)
}

// validateComment checks the comment body.
func validateComment(body string) string {
	if strings.TrimSpace(body) == "" {
		return "Comment body is required."
	}
	if utf8.RuneCountInString(body) > maxCommentLen {
		return "Comment is too long (max 5,000 characters)."
	}
	return ""
}

// validateReason checks moderation reason and audit comment fields.
func validateReason(reason string) string {
	if utf8.RuneCountInString(reason) > maxReasonLen {
		return "Reason is too long (max 1,000 characters)."
	}
	return ""
}
