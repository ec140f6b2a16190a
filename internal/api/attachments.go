package api

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

const (
	photoDir       = "photos"
	maxUploadBytes = 50 << 20 // 50 MB
)

// PhotoHandler serves and accepts damage photo files for claims.
type PhotoHandler struct {
	workspaceRoot string
}

// NewPhotoHandler creates a handler rooted at the workspace directory.
func NewPhotoHandler(workspaceRoot string) *PhotoHandler {
	return &PhotoHandler{workspaceRoot: workspaceRoot}
}

func (h *PhotoHandler) photoPath() string {
	return filepath.Join(h.workspaceRoot, photoDir)
}

// safeName validates that the filename is a plain name (no path separators,
// no traversal) and returns the absolute path under the photos dir.
func (h *PhotoHandler) safeName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("filename is required")
	}
	cleaned := filepath.Clean(name)
	if cleaned != filepath.Base(cleaned) || strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("invalid filename: %s", name)
	}
	abs := filepath.Join(h.photoPath(), cleaned)
	if !strings.HasPrefix(abs, h.photoPath()+string(os.PathSeparator)) && abs != h.photoPath() {
		return "", fmt.Errorf("path escapes photos directory")
	}
	return abs, nil
}

// ServeFile handles GET /photos/{filename}.
func (h *PhotoHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	abs, err := h.safeName(chi.URLParam(r, "filename"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, statErr := os.Stat(abs); os.IsNotExist(statErr) {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, abs)
}

// Upload handles POST /api/photos (multipart/form-data, field "file").
//
//	@Summary		Upload a damage photo
//	@Tags			photos
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"Photo file"
//	@Success		201		{object}	AttachmentUploadResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/photos [post]
func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
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

	abs, err := h.safeName(header.Filename)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	if err := os.MkdirAll(h.photoPath(), 0o755); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to create photos dir"))
		return
	}

	dst, err := os.Create(abs)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to create file"))
		return
	}
	defer dst.Close()

	written, err := io.Copy(dst, file)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to write file"))
		return
	}

	writeJSON(w, http.StatusCreated, AttachmentUploadResponse{
		Filename: header.Filename,
		Size:     written,
		URL:      "/photos/" + header.Filename,
	})
}
