package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"dating-backend/internal/middleware"
	"dating-backend/internal/models"
	"dating-backend/internal/pagination"
	"dating-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// PaginationHeader is the JSON carried in the Pagination response header
type PaginationHeader struct {
	CurrentPage  int `json:"currentPage"`
	ItemsPerPage int `json:"itemsPerPage"`
	TotalItems   int `json:"totalItems"`
	TotalPages   int `json:"totalPages"`
}

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

type listUsersRequest struct {
	Gender     string `validate:"omitempty,alpha,max=32"`
	MinAge     int    `validate:"omitempty,min=0"`
	MaxAge     int    `validate:"omitempty,min=0"`
	Likers     bool
	Likees     bool
	OrderBy    string `validate:"omitempty,max=32"`
	PageNumber int    `validate:"omitempty,min=1"`
	PageSize   int    `validate:"omitempty,min=1"`
}

// ListUsers handles GET /api/v1/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	req, err := parseListUsersRequest(r.URL.Query())
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := models.NewUserParams(userID)
	params.Gender = req.Gender
	params.Likers = req.Likers
	params.Likees = req.Likees
	params.OrderBy = req.OrderBy
	if req.MinAge != 0 {
		params.MinAge = req.MinAge
	}
	if req.MaxAge != 0 {
		params.MaxAge = req.MaxAge
	}
	if params.MinAge > params.MaxAge {
		respondError(w, "minAge must not exceed maxAge", http.StatusBadRequest)
		return
	}
	if req.PageNumber != 0 {
		params.PageNumber = req.PageNumber
	}
	if req.PageSize != 0 {
		params.PageSize = req.PageSize
	}

	page, err := h.userService.ListUsers(ctx, userID, params)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Msg("Failed to list users")

		statusCode := http.StatusInternalServerError
		if errors.Is(err, services.ErrRequesterNotFound) {
			statusCode = http.StatusNotFound
		}

		respondError(w, "Failed to list users", statusCode)
		return
	}

	addPagination(w, page)
	respondJSON(w, page.Items)
}

// GetUser handles GET /api/v1/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, "invalid user id", http.StatusBadRequest)
		return
	}

	user, err := h.userService.GetUser(ctx, id)
	if err != nil {
		log.Error().
			Err(err).
			Str("id", id).
			Msg("Failed to get user")
		respondError(w, "Failed to get user", http.StatusInternalServerError)
		return
	}
	if user == nil {
		respondError(w, "user not found", http.StatusNotFound)
		return
	}

	respondJSON(w, user)
}

// GetLike handles GET /api/v1/users/{id}/likes/{recipientId}
func (h *UserHandler) GetLike(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	likerID, ok := pathID(r, "id")
	if !ok {
		respondError(w, "invalid user id", http.StatusBadRequest)
		return
	}
	likeeID, ok := pathID(r, "recipientId")
	if !ok {
		respondError(w, "invalid recipient id", http.StatusBadRequest)
		return
	}

	like, err := h.userService.GetLike(ctx, likerID, likeeID)
	if err != nil {
		log.Error().
			Err(err).
			Str("liker_id", likerID).
			Str("likee_id", likeeID).
			Msg("Failed to get like")
		respondError(w, "Failed to get like", http.StatusInternalServerError)
		return
	}
	if like == nil {
		respondError(w, "like not found", http.StatusNotFound)
		return
	}

	respondJSON(w, like)
}

func parseListUsersRequest(q url.Values) (listUsersRequest, error) {
	req := listUsersRequest{
		Gender:  q.Get("gender"),
		OrderBy: q.Get("orderBy"),
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"minAge", &req.MinAge},
		{"maxAge", &req.MaxAge},
		{"pageNumber", &req.PageNumber},
		{"pageSize", &req.PageSize},
	}
	for _, p := range ints {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return req, fmt.Errorf("%s must be an integer", p.name)
		}
		*p.dst = v
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"likers", &req.Likers},
		{"likees", &req.Likees},
	}
	for _, p := range bools {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return req, fmt.Errorf("%s must be a boolean", p.name)
		}
		*p.dst = v
	}

	return req, nil
}

// addPagination writes the Pagination header and exposes it to browsers
func addPagination[T any](w http.ResponseWriter, page *pagination.Page[T]) {
	data, err := json.Marshal(PaginationHeader{
		CurrentPage:  page.CurrentPage,
		ItemsPerPage: page.PageSize,
		TotalItems:   page.TotalCount,
		TotalPages:   page.TotalPages,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode pagination header")
		return
	}
	w.Header().Set("Pagination", string(data))
	w.Header().Add("Access-Control-Expose-Headers", "Pagination")
}
