package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/momsflavor/backend/internal/adapter/objectstore"
)

// analyzer defines the AI vendor calls used by AIHandler.
type analyzer interface {
	Analyze(ctx context.Context, text string) (json.RawMessage, error)
	OCR(ctx context.Context, image []byte, mediaType string) (string, error)
}

// transcriber defines the speech-to-text vendor call used by AIHandler.
type transcriber interface {
	Transcribe(ctx context.Context, filename, contentType string, audio io.Reader) (string, error)
}

// audioArchiver stores forwarded audio for later inspection.
type audioArchiver interface {
	Upload(ctx context.Context, prefix, filename, contentType string, body io.Reader, size int64) (string, error)
	Configured() bool
}

// AIHandler serves the stateless AI proxy endpoints: recipe analysis, image
// OCR and speech-to-text.
type AIHandler struct {
	ai            analyzer
	speech        transcriber
	audio         audioArchiver
	log           *slog.Logger
	maxUploadSize int64
	verboseErrors bool
}

// NewAIHandler creates an AIHandler. verboseErrors exposes upstream error
// messages in responses and must be off in production.
func NewAIHandler(ai analyzer, speech transcriber, audio audioArchiver, logger *slog.Logger, maxUploadSize int64, verboseErrors bool) *AIHandler {
	return &AIHandler{
		ai:            ai,
		speech:        speech,
		audio:         audio,
		log:           logger.With("handler", "ai"),
		maxUploadSize: maxUploadSize,
		verboseErrors: verboseErrors,
	}
}

type analyzeRequest struct {
	Text string `json:"text"`
}

type ocrResponse struct {
	Text string `json:"text"`
}

type speechResponse struct {
	Text string `json:"text"`
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// Analyze handles POST /api/ai/analyze. Forwards free text to the AI vendor
// and returns its structured recipe analysis verbatim.
func (h *AIHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	result, err := h.ai.Analyze(r.Context(), req.Text)
	if err != nil {
		h.upstreamError(w, r, "analyze", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(result) //nolint:errcheck
}

// OCR handles POST /api/ai/ocr. Multipart form with an "image" part; returns
// the text the AI vendor reads off the image.
func (h *AIHandler) OCR(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "image too large or malformed body")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing image part")
		return
	}
	defer file.Close()

	contentType := strings.ToLower(header.Header.Get("Content-Type"))
	if !allowedImageTypes[contentType] {
		writeError(w, http.StatusBadRequest, "unsupported image type")
		return
	}

	image, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable image part")
		return
	}

	text, err := h.ai.OCR(r.Context(), image, contentType)
	if err != nil {
		h.upstreamError(w, r, "ocr", err)
		return
	}

	writeJSON(w, http.StatusOK, ocrResponse{Text: text})
}

// Speech handles POST /api/ai/speech. Multipart form with an "audio" part;
// the audio is forwarded to the speech vendor and, on success, archived to
// object storage in the background.
func (h *AIHandler) Speech(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "audio too large or malformed body")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing audio part")
		return
	}
	defer file.Close()

	// Buffered once so the same bytes feed both the vendor and the archive.
	audio, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable audio part")
		return
	}

	contentType := header.Header.Get("Content-Type")
	text, err := h.speech.Transcribe(r.Context(), header.Filename, contentType, bytes.NewReader(audio))
	if err != nil {
		h.upstreamError(w, r, "speech", err)
		return
	}

	if h.audio.Configured() {
		go h.archiveAudio(header.Filename, contentType, audio)
	}

	writeJSON(w, http.StatusOK, speechResponse{Text: text})
}

func (h *AIHandler) archiveAudio(filename, contentType string, audio []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := h.audio.Upload(ctx, objectstore.PrefixSpeechAudio,
		filename, contentType, bytes.NewReader(audio), int64(len(audio)))
	if err != nil {
		h.log.Warn("speech audio archive failed",
			slog.String("filename", filename),
			slog.Any("error", err))
	}
}

func (h *AIHandler) upstreamError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.log.ErrorContext(r.Context(), "vendor call failed",
		slog.String("op", op),
		slog.Any("error", err))

	msg := "upstream service failed"
	if h.verboseErrors {
		msg = fmt.Sprintf("upstream service failed: %v", err)
	}
	writeError(w, http.StatusInternalServerError, msg)
}
