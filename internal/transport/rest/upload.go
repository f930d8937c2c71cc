package rest

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/momsflavor/backend/internal/adapter/objectstore"
)

// uploader defines the minimal interface needed by UploadHandler.
type uploader interface {
	Upload(ctx context.Context, prefix, filename, contentType string, body io.Reader, size int64) (string, error)
}

// UploadHandler serves the generic object upload endpoint.
type UploadHandler struct {
	store         uploader
	log           *slog.Logger
	maxUploadSize int64
}

// NewUploadHandler creates an UploadHandler.
func NewUploadHandler(store uploader, logger *slog.Logger, maxUploadSize int64) *UploadHandler {
	return &UploadHandler{
		store:         store,
		log:           logger.With("handler", "upload"),
		maxUploadSize: maxUploadSize,
	}
}

var uploadPrefixes = map[string]string{
	"recipes": objectstore.PrefixRecipes,
	"diary":   objectstore.PrefixDiary,
}

var allowedUploadTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

type uploadResponse struct {
	URL string `json:"url"`
}

// Upload handles POST /api/upload. Multipart form with a "file" part and an
// optional "purpose" field selecting the storage prefix (default recipes).
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "file too large or malformed body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file part")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowedUploadTypes[strings.ToLower(contentType)] {
		writeError(w, http.StatusBadRequest, "unsupported content type")
		return
	}

	prefix := objectstore.PrefixRecipes
	if purpose := r.FormValue("purpose"); purpose != "" {
		p, ok := uploadPrefixes[purpose]
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown purpose")
			return
		}
		prefix = p
	}

	url, err := h.store.Upload(r.Context(), prefix, header.Filename, contentType, file, header.Size)
	if err != nil {
		h.log.ErrorContext(r.Context(), "upload failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "upload failed")
		return
	}

	writeJSON(w, http.StatusCreated, uploadResponse{URL: url})
}
