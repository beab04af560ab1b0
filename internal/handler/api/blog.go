package api

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/njord/internal/domain"
	"github.com/dukerupert/njord/internal/middleware"
	"github.com/dukerupert/njord/internal/service"
)

// BlogHandler serves blog content endpoints.
type BlogHandler struct {
	blogs  service.BlogService
	logger *slog.Logger
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(blogs service.BlogService, logger *slog.Logger) *BlogHandler {
	return &BlogHandler{blogs: blogs, logger: logger}
}

type blogRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Category    string `json:"category" validate:"required"`
	Author      string `json:"author"`
}

// Create handles POST /api/v1/blog (admin).
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req blogRequest
	if err := decode(r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	author := req.Author
	if author == "" {
		author = "Admin"
	}

	blog, err := h.blogs.Create(r.Context(), &domain.Blog{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Author:      author,
	})
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusCreated, blog)
}

// Get handles GET /api/v1/blog/{id}. Every read bumps the view counter.
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	blog, err := h.blogs.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, blog)
}

// List handles GET /api/v1/blog.
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.blogs.List(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, blogs)
}

// Update handles PUT /api/v1/blog/{id} (admin).
func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req blogRequest
	if err := decode(r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	blog, err := h.blogs.Update(r.Context(), &domain.Blog{
		ID:          r.PathValue("id"),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Author:      req.Author,
	})
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, blog)
}

// Delete handles DELETE /api/v1/blog/{id} (admin).
func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	blog, err := h.blogs.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, blog)
}

type blogReactionRequest struct {
	BlogID string `json:"blogId" validate:"required"`
}

// Like handles PUT /api/v1/blog/likes.
func (h *BlogHandler) Like(w http.ResponseWriter, r *http.Request) {
	var req blogReactionRequest
	if err := decode(r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	blog, err := h.blogs.Like(r.Context(), req.BlogID, middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, blog)
}

// Dislike handles PUT /api/v1/blog/dislikes.
func (h *BlogHandler) Dislike(w http.ResponseWriter, r *http.Request) {
	var req blogReactionRequest
	if err := decode(r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	blog, err := h.blogs.Dislike(r.Context(), req.BlogID, middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, blog)
}
