package handlers

import (
	"net/http"

	"github.com/bookbazaar/backend/apperr"
	"github.com/bookbazaar/backend/service"
)

type UploadHandler struct {
	Blob     service.BlobStore
	MaxBytes int64
}

// ProfileImage hosts a profile picture and hands back its URL. Unlike
// valuation previews, profile images are retained.
func (h *UploadHandler) ProfileImage(w http.ResponseWriter, r *http.Request) {
	if h.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	}
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		writeError(w, apperr.InvalidInput("failed to parse multipart form"))
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, apperr.InvalidInput("missing image"))
		return
	}
	defer file.Close()

	url, _, err := h.Blob.Upload(r.Context(), "profile_images", header.Filename, file, header.Header.Get("Content-Type"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"image_url": url})
}
