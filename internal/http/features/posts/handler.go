package posts

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/inkpost/inkpost/internal/domain"
	"github.com/inkpost/inkpost/internal/http/middleware"
	"github.com/inkpost/inkpost/internal/httputil"
	"github.com/inkpost/inkpost/internal/repository"
)

const (
	minTitleLen = 3
	maxTitleLen = 60
	minBodyLen  = 3
	maxBodyLen  = 600
)

// Handler handles the posts CRUD endpoints.
type Handler struct {
	logger *slog.Logger
	posts  *repository.PostsRepository
}

// NewHandler creates a new posts handler.
func NewHandler(logger *slog.Logger, posts *repository.PostsRepository) *Handler {
	return &Handler{
		logger: logger,
		posts:  posts,
	}
}

// PostRequest represents a create or update request.
type PostRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Validate checks title and body lengths.
func (r *PostRequest) Validate() error {
	if len(r.Title) < minTitleLen || len(r.Title) > maxTitleLen {
		return domain.Validation("title", "must be 3-60 characters")
	}
	if len(r.Body) < minBodyLen || len(r.Body) > maxBodyLen {
		return domain.Validation("body", "must be 3-600 characters")
	}
	return nil
}

// ListResponse is the paginated listing payload.
type ListResponse struct {
	Posts       []*domain.Post `json:"posts"`
	CurrentPage int            `json:"current_page"`
	TotalPages  int            `json:"total_pages"`
	TotalPosts  int            `json:"total_posts"`
}

// List returns one page of posts, newest first.
// GET /v1/posts?page=N
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		if n, err := strconv.Atoi(p); err == nil && n > 1 {
			page = n
		}
	}

	posts, total, err := h.posts.List(r.Context(), page)
	if err != nil {
		h.respondError(w, err)
		return
	}

	totalPages := (total + repository.PostsPerPage - 1) / repository.PostsPerPage

	httputil.Success(w, http.StatusOK, "posts", ListResponse{
		Posts:       posts,
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalPosts:  total,
	})
}

// Get returns a single post.
// GET /v1/posts/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid post id")
		return
	}

	post, err := h.posts.GetByID(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, "single post", post)
}

// Create creates a post authored by the authenticated identity.
// POST /v1/posts
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		h.respondError(w, err)
		return
	}

	now := time.Now()
	post := &domain.Post{
		ID:        uuid.New(),
		Title:     req.Title,
		Body:      req.Body,
		AuthorID:  identity.AccountID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.posts.Create(r.Context(), post); err != nil {
		h.respondError(w, err)
		return
	}

	httputil.Success(w, http.StatusCreated, "created", post)
}

// Update changes a post's title and body. Author only.
// PUT /v1/posts/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid post id")
		return
	}

	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		h.respondError(w, err)
		return
	}

	post, err := h.posts.Update(r.Context(), id, identity.AccountID, req.Title, req.Body)
	if err != nil {
		h.respondError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, "updated", post)
}

// Delete removes a post. Author only.
// DELETE /v1/posts/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid post id")
		return
	}

	if err := h.posts.Delete(r.Context(), id, identity.AccountID); err != nil {
		h.respondError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, "deleted", nil)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		httputil.Error(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, domain.ErrPostNotFound):
		httputil.Error(w, http.StatusNotFound, "post unavailable")
	case errors.Is(err, domain.ErrNotPostAuthor):
		httputil.Error(w, http.StatusForbidden, "you are not the author of this post")
	default:
		h.logger.Error("post request failed", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "server error")
	}
}
