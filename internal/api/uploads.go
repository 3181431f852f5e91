package api

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/sdn3bangkuang/sekolahku/internal/uploads"
)

const maxUploadBytes = 20 << 20 // 20 MB

// UploadHandler serves and accepts files from the uploads directory.
type UploadHandler struct {
	fs *uploads.FS
}

// NewUploadHandler creates a handler backed by the given store.
func NewUploadHandler(fs *uploads.FS) *UploadHandler {
	return &UploadHandler{fs: fs}
}

// ServeFile handles GET /uploads/{filename}.
func (h *UploadHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	name, err := uploads.SafeName(chi.URLParam(r, "filename"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	abs := filepath.Join(h.fs.Root(), name)
	if _, statErr := os.Stat(abs); os.IsNotExist(statErr) {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, abs)
}

// List handles GET /api/uploads (admin).
func (h *UploadHandler) List(w http.ResponseWriter, r *http.Request) {
	assets, err := h.fs.List()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"uploads": assets})
}

// Upload handles POST /api/uploads (admin, multipart/form-data, field "file").
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return
	}
	defer file.Close()

	name, err := uploads.SafeName(header.Filename)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read file"))
		return
	}
	if err := h.fs.Write(name, data); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to store file"))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"filename": name,
		"size":     len(data),
		"url":      "/uploads/" + name,
	})
}

// Delete handles DELETE /api/uploads/{filename} (admin).
func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name, err := uploads.SafeName(chi.URLParam(r, "filename"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if err := h.fs.Delete(name); err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
