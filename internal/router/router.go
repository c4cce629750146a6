// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up the HTTP routes and middleware chains of the
// directory admin API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"legaldir/internal/handlers"
	"legaldir/internal/middleware"
	"legaldir/internal/render"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth           *handlers.Auth
	Practices      *handlers.Taxonomy
	PostCategories *handlers.Taxonomy
	Companies      *handlers.Profiles
	Specialists    *handlers.Profiles
	Services       *handlers.Services
	Posts          *handlers.Posts
	Media          *handlers.Media
	Changes        *handlers.Changes
}

// Options configures the middleware chains.
type Options struct {
	Sessions middleware.SessionLoader
	// LoginLimiter throttles POST /login. Nil disables throttling.
	LoginLimiter *middleware.RateLimiter
	// TwoFALimiter throttles POST /2fa/verify. It runs after RequireAuth,
	// so it can key on the session user. Nil disables throttling.
	TwoFALimiter *middleware.RateLimiter
	// SecureCookies marks the CSRF cookie Secure.
	SecureCookies bool
}

// New creates the chi router with all middleware and route groups wired up.
func New(opts Options, h Handlers) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(opts.Sessions))

	// Health check, no auth and no CSRF.
	r.Get("/health", healthHandler)

	r.Route("/admin/api", func(r chi.Router) {
		r.Use(middleware.NewCSRF(opts.SecureCookies))

		r.Group(func(r chi.Router) {
			if opts.LoginLimiter != nil {
				r.Use(opts.LoginLimiter.Middleware)
			}
			r.Post("/login", h.Auth.Login)
		})
		r.Post("/logout", h.Auth.Logout)

		// 2FA needs a session but not a completed second factor.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/2fa/setup", h.Auth.TwoFASetup)
			if opts.TwoFALimiter != nil {
				r.With(opts.TwoFALimiter.Middleware).Post("/2fa/verify", h.Auth.TwoFAVerify)
			} else {
				r.Post("/2fa/verify", h.Auth.TwoFAVerify)
			}
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)
			r.Use(middleware.RequireSuperAdmin)

			r.Route("/practices", taxonomyRoutes(h.Practices))
			r.Route("/post-categories", taxonomyRoutes(h.PostCategories))

			r.Route("/companies", func(r chi.Router) {
				profileRoutes(r, h.Companies)
				r.Post("/{id}/logo", h.Companies.Image)
			})
			r.Route("/specialists", func(r chi.Router) {
				profileRoutes(r, h.Specialists)
				r.Post("/{id}/company", h.Specialists.SetCompany)
				r.Post("/{id}/avatar", h.Specialists.Image)
			})

			r.Route("/services", func(r chi.Router) {
				r.Get("/", h.Services.List)
				r.Post("/", h.Services.Create)
				r.Get("/{id}", h.Services.Get)
				r.Put("/{id}", h.Services.Update)
				r.Delete("/{id}", h.Services.Delete)
				r.Post("/{id}/status", h.Services.ToggleStatus)
				r.Post("/{id}/image", h.Services.Image)
			})

			r.Route("/posts", func(r chi.Router) {
				r.Get("/", h.Posts.List)
				r.Post("/", h.Posts.Create)
				r.Get("/{id}", h.Posts.Get)
				r.Delete("/{id}", h.Posts.Delete)
				r.Post("/{id}/status", h.Posts.ToggleStatus)
				r.Post("/{id}/category", h.Posts.SetCategory)
				r.Post("/{id}/featured-image", h.Posts.FeaturedImage)
				r.Post("/{id}/social-image", h.Posts.SocialImage)

				r.Get("/{id}/draft", h.Posts.OpenDraft)
				r.Patch("/{id}/draft", h.Posts.EditDraft)
				r.Post("/{id}/draft/commit", h.Posts.CommitDraft)
				r.Delete("/{id}/draft", h.Posts.DiscardDraft)
			})

			r.Route("/media", func(r chi.Router) {
				r.Get("/", h.Media.List)
				r.Post("/", h.Media.Upload)
				r.Delete("/{id}", h.Media.Delete)
			})

			r.Get("/changes", h.Changes.List)
			r.Get("/slug", handlers.SlugPreview)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.Message(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		render.Message(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}

func taxonomyRoutes(t *handlers.Taxonomy) func(chi.Router) {
	return func(r chi.Router) {
		r.Get("/", t.Tree)
		r.Get("/flat", t.Flat)
		r.Post("/", t.Create)
		r.Post("/reorder", t.Reorder)
		r.Get("/{id}", t.Get)
		r.Put("/{id}", t.Update)
		r.Delete("/{id}", t.Delete)
		r.Post("/{id}/move", t.Move)
		r.Post("/{id}/toggle", t.Toggle)
	}
}

func profileRoutes(r chi.Router, p *handlers.Profiles) {
	r.Get("/", p.List)
	r.Post("/", p.Create)
	r.Get("/{id}", p.Get)
	r.Put("/{id}", p.Update)
	r.Delete("/{id}", p.Delete)
	r.Post("/{id}/status", p.ToggleStatus)
	r.Post("/{id}/block", p.ToggleBlock)
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
