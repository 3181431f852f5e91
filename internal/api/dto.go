package api

import (
	"github.com/sdn3bangkuang/sekolahku/internal/media"
	"github.com/sdn3bangkuang/sekolahku/internal/models"
)

// LoginRequest is the body for POST /api/admin/login.
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the session token on success.
type LoginResponse struct {
	Token string `json:"token" validate:"required"`
}

// ChatRequest is the body for POST /api/chat.
type ChatRequest struct {
	Message string `json:"message" validate:"required"`
}

// ChatResponse carries the assistant reply.
type ChatResponse struct {
	Reply string `json:"reply" validate:"required"`
}

// ChatLogResponse is the ordered conversation so far.
type ChatLogResponse struct {
	Messages []models.ChatMessage `json:"messages" validate:"required"`
}

// GalleryItemDTO is a gallery item decorated with video metadata when its
// media URL is a YouTube link rather than an image.
type GalleryItemDTO struct {
	models.GalleryItem
	IsVideo   bool   `json:"isVideo,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// ContentResponse bundles all three collections with the fetch status.
type ContentResponse struct {
	Status    string               `json:"status" validate:"required"`
	LastError string               `json:"lastError,omitempty"`
	News      []models.NewsItem    `json:"news" validate:"required"`
	Gallery   []GalleryItemDTO     `json:"gallery" validate:"required"`
	Teachers  []models.Teacher     `json:"teachers" validate:"required"`
}

// MutationRequest is the free-form field set forwarded to the sheet
// backend for create/update operations. Keys are normalized server-side.
type MutationRequest map[string]any

func decorateGallery(items []models.GalleryItem) []GalleryItemDTO {
	out := make([]GalleryItemDTO, 0, len(items))
	for _, it := range items {
		dto := GalleryItemDTO{GalleryItem: it}
		if media.IsVideo(it.Image) {
			dto.IsVideo = true
			dto.Thumbnail = media.ThumbnailURL(it.Image)
		}
		out = append(out, dto)
	}
	return out
}
