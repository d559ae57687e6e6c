package handlers

import (
	"net/http"

	"dating-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// PhotoHandler handles photo-related HTTP requests
type PhotoHandler struct {
	photoService *services.PhotoService
}

// NewPhotoHandler creates a new photo handler
func NewPhotoHandler(photoService *services.PhotoService) *PhotoHandler {
	return &PhotoHandler{
		photoService: photoService,
	}
}

// GetPhoto handles GET /api/v1/photos/{id}
func (h *PhotoHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, "invalid photo id", http.StatusBadRequest)
		return
	}

	photo, err := h.photoService.GetPhoto(ctx, id)
	if err != nil {
		log.Error().
			Err(err).
			Str("photo_id", id).
			Msg("Failed to get photo")
		respondError(w, "Failed to get photo", http.StatusInternalServerError)
		return
	}
	if photo == nil {
		respondError(w, "photo not found", http.StatusNotFound)
		return
	}

	respondJSON(w, photo)
}

// GetMainPhoto handles GET /api/v1/users/{id}/photos/main
func (h *PhotoHandler) GetMainPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := pathID(r, "id")
	if !ok {
		respondError(w, "invalid user id", http.StatusBadRequest)
		return
	}

	photo, err := h.photoService.GetMainPhoto(ctx, userID)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Msg("Failed to get main photo")
		respondError(w, "Failed to get main photo", http.StatusInternalServerError)
		return
	}
	if photo == nil {
		respondError(w, "main photo not found", http.StatusNotFound)
		return
	}

	respondJSON(w, photo)
}
