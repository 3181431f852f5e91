package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sdn3bangkuang/sekolahku/internal/content"
	"github.com/sdn3bangkuang/sekolahku/internal/uploads"
)

// NewRouter creates a chi router with all API routes mounted.
// Public routes serve the site; mutation routes sit behind the admin gate.
// sseHandler, if non-nil, is mounted at GET /events.
func NewRouter(store *content.Store, chat Chatter, gate *Gate, uploadFS *uploads.FS, sseHandler http.Handler) chi.Router {
	h := NewHandler(store, chat)
	uh := NewUploadHandler(uploadFS)

	r := chi.NewRouter()

	// Public site surface.
	r.Get("/content", h.GetContent)
	r.Get("/content/news", h.GetNews)
	r.Get("/content/gallery", h.GetGallery)
	r.Get("/content/teachers", h.GetTeachers)
	r.Post("/chat", h.Chat)
	r.Get("/chat/messages", h.ChatLog)
	r.Post("/admin/login", h.LoginWith(gate))
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	// Admin surface.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(gate.Authorize))

		r.Post("/refresh", h.Refresh)

		r.Post("/news", h.CreateNews)
		r.Delete("/news/{id}", h.DeleteNews)

		r.Post("/gallery", h.CreateGalleryItem)
		r.Delete("/gallery/{id}", h.DeleteGalleryItem)

		r.Post("/teachers", h.CreateTeacher)
		r.Put("/teachers/{id}", h.UpdateTeacher)
		r.Delete("/teachers/{id}", h.DeleteTeacher)

		r.Get("/uploads", uh.List)
		r.Post("/uploads", uh.Upload)
		r.Delete("/uploads/{filename}", uh.Delete)
	})

	return r
}
