package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mimir-aip/eco-ontology-go/pkg/models"
	"github.com/mimir-aip/eco-ontology-go/pkg/ontology"
)

// BlogHandler handles blog post and review requests
type BlogHandler struct {
	blogs   *ontology.BlogService
	reviews *ontology.ReviewService
}

// NewBlogHandler creates a new blog handler
func NewBlogHandler(blogs *ontology.BlogService, reviews *ontology.ReviewService) *BlogHandler {
	return &BlogHandler{blogs: blogs, reviews: reviews}
}

// Register mounts the routes under /api
func (h *BlogHandler) Register(r chi.Router) {
	r.Get("/blogs", h.handleList)
	r.Post("/blogs", h.handleCreate)
	r.Post("/blogs/search", h.handleSearch)
	r.Get("/blogs/{id}", h.handleGet)
	r.Put("/blogs/{id}", h.handleUpdate)
	r.Delete("/blogs/{id}", h.handleDelete)

	r.Get("/reviews", h.handleListReviews)
	r.Post("/reviews", h.handleCreateReview)
	r.Delete("/reviews/{id}", h.handleDeleteReview)
}

// handleList handles GET /api/blogs
func (h *BlogHandler) handleList(w http.ResponseWriter, r *http.Request) {
	rows, err := h.blogs.ListBlogs(r.Context())
	writeRows(w, rows, err)
}

// handleCreate handles POST /api/blogs
func (h *BlogHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req models.BlogCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := h.blogs.CreateBlog(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// handleSearch handles POST /api/blogs/search
func (h *BlogHandler) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req models.BlogSearchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	rows, err := h.blogs.SearchBlogs(r.Context(), &req)
	writeRows(w, rows, err)
}

// handleGet handles GET /api/blogs/{id}
func (h *BlogHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	row, err := h.blogs.GetBlog(r.Context(), pathParam(r, "id"))
	writeRow(w, row, err)
}

// handleUpdate handles PUT /api/blogs/{id}
func (h *BlogHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req models.BlogUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := h.blogs.UpdateBlog(r.Context(), pathParam(r, "id"), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleDelete handles DELETE /api/blogs/{id}
func (h *BlogHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	resp, err := h.blogs.DeleteBlog(r.Context(), pathParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleListReviews handles GET /api/reviews?blog=<id>
func (h *BlogHandler) handleListReviews(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reviews.ListReviews(r.Context(), r.URL.Query().Get("blog"))
	writeRows(w, rows, err)
}

// handleCreateReview handles POST /api/reviews
func (h *BlogHandler) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	var req models.ReviewCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := h.reviews.CreateReview(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// handleDeleteReview handles DELETE /api/reviews/{id}
func (h *BlogHandler) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	resp, err := h.reviews.DeleteReview(r.Context(), pathParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
