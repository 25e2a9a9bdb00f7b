// Package router sets up all HTTP routes and middleware chains for the
// knowledge base API. Read routes are open; every mutation requires an
// authenticated user resolved from the bearer token.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"smokefree/internal/handlers"
	"smokefree/internal/middleware"
	"smokefree/internal/token"
)

// Deps carries everything the router wires together.
type Deps struct {
	Tokens     *token.Manager
	RateLimit  *middleware.RateLimiter
	Articles   *handlers.Articles
	Comments   *handlers.Comments
	Ratings    *handlers.Ratings
	Categories *handlers.Categories
	Users      *handlers.Users
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.SecurityHeaders)
	if d.RateLimit != nil {
		r.Use(d.RateLimit.Middleware)
	}
	r.Use(middleware.Authenticate(d.Tokens))

	// Health check — no auth.
	r.Get("/health", healthHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/articles", func(r chi.Router) {
			// Public read side.
			r.Get("/", d.Articles.List)
			r.Get("/{id}", d.Articles.Get)
			r.Get("/{id}/html", d.Articles.GetHTML)
			r.Post("/{id}/view", d.Articles.View)
			r.Post("/{id}/like", d.Articles.Like)
			r.Post("/{id}/dislike", d.Articles.Dislike)

			// Authoring and moderation.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser)
				r.Post("/", d.Articles.Create)
				r.Put("/{id}", d.Articles.Update)
				r.Delete("/{id}", d.Articles.Delete)
				r.Post("/{id}/submit", d.Articles.Submit)
				r.Post("/{id}/audit", d.Articles.Audit)
				r.Post("/{id}/publish", d.Articles.Publish)
				r.Post("/{id}/ban", d.Articles.Ban)
				r.Post("/{id}/restore", d.Articles.Restore)
				r.Post("/{id}/undelete", d.Articles.Undelete)
			})
		})

		r.Route("/comments", func(r chi.Router) {
			r.Get("/by-article/{articleId}", d.Comments.ListByArticle)
			r.Get("/tree/{articleId}", d.Comments.Tree)
			r.Post("/{id}/like", d.Comments.Like)
			r.Post("/{id}/unlike", d.Comments.Unlike)
			r.Post("/{id}/helpful", d.Comments.Helpful)
			r.Post("/{id}/unhelpful", d.Comments.Unhelpful)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser)
				r.Post("/", d.Comments.Create)
				r.Put("/{id}", d.Comments.Update)
				r.Delete("/{id}", d.Comments.Delete)
				r.Post("/{id}/hide", d.Comments.Hide)
				r.Post("/{id}/restore", d.Comments.Restore)
				r.Post("/{id}/undelete", d.Comments.Undelete)
			})
		})

		r.Route("/ratings", func(r chi.Router) {
			r.Get("/by-article/{articleId}", d.Ratings.ListByArticle)
			r.Get("/average/{articleId}", d.Ratings.Average)
			r.Get("/distribution/{articleId}", d.Ratings.Distribution)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser)
				r.Post("/", d.Ratings.Create)
				r.Put("/{id}", d.Ratings.Update)
				r.Get("/mine/{articleId}", d.Ratings.Mine)
				r.Delete("/by-article/{articleId}", d.Ratings.Delete)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", d.Categories.List)
			r.Get("/{id}", d.Categories.Get)
		})

		// Account moderation — handlers re-check moderation rights on the
		// acting user beyond the bare authentication gate.
		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireUser)
			r.Get("/{id}", d.Users.Get)
			r.Get("/{id}/roles", d.Users.Roles)
			r.Post("/{id}/ban", d.Users.Ban)
			r.Post("/{id}/unban", d.Users.Unban)
			r.Post("/{id}/warn", d.Users.Warn)
			r.Post("/{id}/permissions/grant", d.Users.GrantPermission)
			r.Post("/{id}/permissions/revoke", d.Users.RevokePermission)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
