package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/momsflavor/backend/internal/domain"
	"github.com/momsflavor/backend/internal/service/diary"
)

// diaryService defines the minimal interface needed by DiaryHandler.
type diaryService interface {
	CreateEntry(ctx context.Context, input diary.CreateEntryInput) (*domain.DiaryEntry, error)
	Get(ctx context.Context, entryID uuid.UUID) (*domain.DiaryEntry, error)
	List(ctx context.Context) ([]*domain.DiaryEntry, error)
}

// DiaryHandler serves cooking-diary REST endpoints.
type DiaryHandler struct {
	svc           diaryService
	log           *slog.Logger
	maxUploadSize int64
}

// NewDiaryHandler creates a DiaryHandler.
func NewDiaryHandler(svc diaryService, logger *slog.Logger, maxUploadSize int64) *DiaryHandler {
	return &DiaryHandler{
		svc:           svc,
		log:           logger.With("handler", "diary"),
		maxUploadSize: maxUploadSize,
	}
}

type diaryEntryResponse struct {
	ID           string    `json:"id"`
	RecipeID     string    `json:"recipeId"`
	DishName     string    `json:"dishName"`
	CookDate     time.Time `json:"cookDate"`
	Mistakes     *string   `json:"mistakes,omitempty"`
	Improvements *string   `json:"improvements,omitempty"`
	PhotoURLs    []string  `json:"photoUrls"`
	Rating       *int      `json:"rating,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Create handles POST /api/diary. The body is multipart/form-data: entry
// fields plus zero or more "photos" file parts.
func (h *DiaryHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	input, ok := h.parseCreateForm(w, r)
	if !ok {
		return
	}

	entry, err := h.svc.CreateEntry(r.Context(), input)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDiaryResponse(entry))
}

// List handles GET /api/diary.
func (h *DiaryHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.List(r.Context())
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	resp := make([]diaryEntryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, toDiaryResponse(entry))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/diary/{id}.
func (h *DiaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	entry, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDiaryResponse(entry))
}

func (h *DiaryHandler) parseCreateForm(w http.ResponseWriter, r *http.Request) (diary.CreateEntryInput, bool) {
	var input diary.CreateEntryInput

	recipeID, err := uuid.Parse(r.FormValue("recipeId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid recipeId")
		return input, false
	}
	input.RecipeID = recipeID
	input.DishName = r.FormValue("dishName")

	if v := r.FormValue("cookDate"); v != "" {
		cookDate, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid cookDate, want YYYY-MM-DD")
			return input, false
		}
		input.CookDate = cookDate
	}
	if v := r.FormValue("mistakes"); v != "" {
		input.Mistakes = &v
	}
	if v := r.FormValue("improvements"); v != "" {
		input.Improvements = &v
	}
	if v := r.FormValue("rating"); v != "" {
		rating, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid rating")
			return input, false
		}
		input.Rating = &rating
	}

	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["photos"] {
			file, err := header.Open()
			if err != nil {
				writeError(w, http.StatusBadRequest, "unreadable photo part")
				return input, false
			}
			defer file.Close()

			input.Photos = append(input.Photos, diary.Photo{
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Body:        file,
				Size:        header.Size,
			})
		}
	}

	return input, true
}

func toDiaryResponse(entry *domain.DiaryEntry) diaryEntryResponse {
	resp := diaryEntryResponse{
		ID:           entry.ID.String(),
		RecipeID:     entry.RecipeID.String(),
		DishName:     entry.DishName,
		CookDate:     entry.CookDate,
		Mistakes:     entry.Mistakes,
		Improvements: entry.Improvements,
		PhotoURLs:    entry.PhotoURLs,
		Rating:       entry.Rating,
		CreatedAt:    entry.CreatedAt,
	}
	if resp.PhotoURLs == nil {
		resp.PhotoURLs = []string{}
	}
	return resp
}
