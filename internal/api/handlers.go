package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sdn3bangkuang/sekolahku/internal/apperr"
	"github.com/sdn3bangkuang/sekolahku/internal/checksum"
	"github.com/sdn3bangkuang/sekolahku/internal/content"
	"github.com/sdn3bangkuang/sekolahku/internal/models"
)

// Chatter is the assistant surface the API needs.
type Chatter interface {
	Send(ctx context.Context, userText string) string
	Messages() []models.ChatMessage
}

// Handler holds API route handlers.
type Handler struct {
	store *content.Store
	chat  Chatter
}

// NewHandler creates a new Handler.
func NewHandler(store *content.Store, chat Chatter) *Handler {
	return &Handler{store: store, chat: chat}
}

// writeCached marshals v once, derives an ETag from the bytes, and
// answers 304 when the client already holds the same representation.
func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("json marshal failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	etag := checksum.ETag(body)
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" && strings.Contains(match, etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
	_, _ = w.Write([]byte("\n"))
}

// GetContent handles GET /api/content.
func (h *Handler) GetContent(w http.ResponseWriter, r *http.Request) {
	state, lastErr := h.store.Status()
	writeCached(w, r, ContentResponse{
		Status:    string(state),
		LastError: lastErr,
		News:      h.store.News(),
		Gallery:   decorateGallery(h.store.Gallery()),
		Teachers:  h.store.Teachers(),
	})
}

// GetNews handles GET /api/content/news.
func (h *Handler) GetNews(w http.ResponseWriter, r *http.Request) {
	writeCached(w, r, map[string]any{"news": h.store.News()})
}

// GetGallery handles GET /api/content/gallery.
func (h *Handler) GetGallery(w http.ResponseWriter, r *http.Request) {
	writeCached(w, r, map[string]any{"gallery": decorateGallery(h.store.Gallery())})
}

// GetTeachers handles GET /api/content/teachers.
func (h *Handler) GetTeachers(w http.ResponseWriter, r *http.Request) {
	writeCached(w, r, map[string]any{"teachers": h.store.Teachers()})
}

// Refresh handles POST /api/refresh (admin).
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Refresh(r.Context()); err != nil {
		slog.Error("refresh failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody(err.Error()))
		return
	}
	state, _ := h.store.Status()
	writeJSON(w, http.StatusOK, map[string]any{"status": string(state)})
}

// Chat handles POST /api/chat. The assistant never fails the request;
// transport problems surface as a fixed apologetic reply in the body.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("message is required"))
		return
	}
	reply := h.chat.Send(r.Context(), msg)
	writeJSON(w, http.StatusOK, ChatResponse{Reply: reply})
}

// ChatLog handles GET /api/chat/messages.
func (h *Handler) ChatLog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ChatLogResponse{Messages: h.chat.Messages()})
}

// mutation decodes the request body into a field map and forwards it to op.
func (h *Handler) mutation(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, fields map[string]any) error) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req MutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if len(req) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("at least one field is required"))
		return
	}
	if err := op(r.Context(), req); err != nil {
		h.writeMutationError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"status": "ok"})
}

func (h *Handler) writeMutationError(w http.ResponseWriter, err error) {
	slog.Error("content mutation failed", slog.String("error", err.Error()))
	if errors.Is(err, apperr.ErrBackendDeployment) {
		writeJSON(w, http.StatusBadGateway, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusBadGateway, errorBody("spreadsheet update failed: "+err.Error()))
}

// CreateNews handles POST /api/news (admin).
func (h *Handler) CreateNews(w http.ResponseWriter, r *http.Request) {
	h.mutation(w, r, h.store.AddNews)
}

// CreateGalleryItem handles POST /api/gallery (admin).
func (h *Handler) CreateGalleryItem(w http.ResponseWriter, r *http.Request) {
	h.mutation(w, r, h.store.AddGalleryItem)
}

// CreateTeacher handles POST /api/teachers (admin).
func (h *Handler) CreateTeacher(w http.ResponseWriter, r *http.Request) {
	h.mutation(w, r, h.store.AddTeacher)
}

// UpdateTeacher handles PUT /api/teachers/{id} (admin).
func (h *Handler) UpdateTeacher(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.mutation(w, r, func(ctx context.Context, fields map[string]any) error {
		fields["id"] = id
		return h.store.UpdateTeacher(ctx, fields)
	})
}

func (h *Handler) deletion(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id string) error) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("id is required"))
		return
	}
	if err := op(r.Context(), id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		h.writeMutationError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteNews handles DELETE /api/news/{id} (admin).
func (h *Handler) DeleteNews(w http.ResponseWriter, r *http.Request) {
	h.deletion(w, r, h.store.DeleteNews)
}

// DeleteGalleryItem handles DELETE /api/gallery/{id} (admin).
func (h *Handler) DeleteGalleryItem(w http.ResponseWriter, r *http.Request) {
	h.deletion(w, r, h.store.DeleteGalleryItem)
}

// DeleteTeacher handles DELETE /api/teachers/{id} (admin).
func (h *Handler) DeleteTeacher(w http.ResponseWriter, r *http.Request) {
	h.deletion(w, r, h.store.DeleteTeacher)
}

// LoginWith returns the POST /api/admin/login handler bound to gate.
func (h *Handler) LoginWith(gate *Gate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 4<<10)
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
			return
		}
		token, err := gate.Login(req.Password)
		if err != nil {
			if errors.Is(err, apperr.ErrLoginLocked) {
				writeJSON(w, http.StatusTooManyRequests, errorBody(err.Error()))
				return
			}
			writeJSON(w, http.StatusUnauthorized, errorBody(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, LoginResponse{Token: token})
	}
}
