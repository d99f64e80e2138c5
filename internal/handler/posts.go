// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides HTTP handlers for the news site.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/onews-go/internal/content"
	"github.com/olegiv/onews-go/internal/model"
	"github.com/olegiv/onews-go/internal/service"
)

// Handler holds shared dependencies for all post handlers.
type Handler struct {
	repo   content.Repository
	posts  *service.PostService
	logger *slog.Logger
}

// NewHandler creates a new handler.
func NewHandler(repo content.Repository, posts *service.PostService, logger *slog.Logger) *Handler {
	return &Handler{repo: repo, posts: posts, logger: logger}
}

// Routes mounts all post routes onto a fresh router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/posts", h.ListPublicPosts)
	r.Get("/post/{slug}", h.GetPublicPost)

	r.Route("/admin", func(r chi.Router) {
		r.Get("/posts", h.ListPosts)
		r.Post("/posts", h.CreatePost)
		r.Get("/posts/{id}", h.GetPost)
	})

	return r
}

// CreateFailureResponse echoes a failed submission back to the caller.
type CreateFailureResponse struct {
	Errors    []string          `json:"errors"`
	FormState *model.PublicPost `json:"form_state"`
}

// PostDetailResponse is the public detail view of a single post.
type PostDetailResponse struct {
	model.PublicPost
	BodyHTML string `json:"body_html"`
}

// CreatePost handles POST /admin/posts. It accepts either an HTML form or a
// flat JSON object, runs the creation pipeline, and answers with a 303
// redirect to the new post's admin view or a 422 carrying the errors and the
// echoed form state.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	raw, err := rawSubmission(r)
	if err != nil {
		WriteBadRequest(w, "malformed request body")
		return
	}

	res := h.posts.Create(r.Context(), raw)
	if len(res.Errors) > 0 {
		WriteJSON(w, http.StatusUnprocessableEntity, CreateFailureResponse{
			Errors:    res.Errors,
			FormState: res.FormState,
		})
		return
	}

	http.Redirect(w, r, res.RedirectTo, http.StatusSeeOther)
}

// ListPosts handles GET /admin/posts: every post, drafts included.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.repo.FindAll(r.Context())
	if err != nil {
		h.logger.Error("list posts failed", "error", err)
		WriteInternalError(w, "could not list posts")
		return
	}
	WriteSuccess(w, posts)
}

// GetPost handles GET /admin/posts/{id}.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	post, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, content.ErrPostNotFound) {
			WriteNotFound(w, "post not found")
			return
		}
		h.logger.Error("get post failed", "id", id, "error", err)
		WriteInternalError(w, "could not load post")
		return
	}
	WriteSuccess(w, post)
}

// ListPublicPosts handles GET /posts: published posts only, newest first.
func (h *Handler) ListPublicPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.repo.FindAllPublic(r.Context())
	if err != nil {
		h.logger.Error("list public posts failed", "error", err)
		WriteInternalError(w, "could not list posts")
		return
	}

	public := make([]model.PublicPost, 0, len(posts))
	for i := range posts {
		public = append(public, *model.NewPublicPost(&posts[i]))
	}
	WriteSuccess(w, public)
}

// GetPublicPost handles GET /post/{slug}. Unpublished or missing slugs both
// answer 404.
func (h *Handler) GetPublicPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	post, err := h.repo.FindBySlugPublic(r.Context(), slug)
	if err != nil {
		if errors.Is(err, content.ErrPostNotFound) {
			WriteNotFound(w, "post not found")
			return
		}
		h.logger.Error("get public post failed", "slug", slug, "error", err)
		WriteInternalError(w, "could not load post")
		return
	}

	bodyHTML, err := service.BodyHTML(post.Body)
	if err != nil {
		h.logger.Error("render post body failed", "slug", slug, "error", err)
		WriteInternalError(w, "could not render post")
		return
	}

	WriteSuccess(w, PostDetailResponse{
		PublicPost: *model.NewPublicPost(post),
		BodyHTML:   bodyHTML,
	})
}

// rawSubmission flattens a form or JSON request body into the string map the
// creation pipeline consumes. Repeated form keys keep their first value.
func rawSubmission(r *http.Request) (map[string]string, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		var raw map[string]string
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			return nil, err
		}
		return raw, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	raw := make(map[string]string, len(r.PostForm))
	for key, values := range r.PostForm {
		if len(values) > 0 {
			raw[key] = values[0]
		}
	}
	return raw, nil
}
