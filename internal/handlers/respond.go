// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API for the knowledge base. Every
// response uses a single envelope; service errors carry a kind that maps
// onto the HTTP status.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"smokefree/internal/apperr"
)

// envelope is the uniform response shape.
type envelope struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Data      any    `json:"data"`
	Timestamp int64  `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// respondOK writes a success envelope.
func respondOK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{
		Code:      http.StatusOK,
		Message:   "success",
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	})
}

// statusOf maps error kinds to HTTP statuses.
func statusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindInvalidState:
		return http.StatusConflict
	case apperr.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes an error envelope. Internal causes are logged and
// replaced with a generic message so storage details never reach clients.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	writeJSON(w, status, envelope{
		Code:      status,
		Message:   apperr.MessageOf(err),
		Data:      nil,
		Timestamp: time.Now().UnixMilli(),
	})
}

// respondBadRequest writes a 400 envelope with the given message.
func respondBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, envelope{
		Code:      http.StatusBadRequest,
		Message:   message,
		Data:      nil,
		Timestamp: time.Now().UnixMilli(),
	})
}
