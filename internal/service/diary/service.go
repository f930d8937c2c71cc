// Package diary implements the cooking diary: immutable per-attempt records
// with uploaded photos, written once when a cooking session ends.
package diary

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/momsflavor/backend/internal/adapter/objectstore"
	"github.com/momsflavor/backend/internal/domain"
	"github.com/momsflavor/backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type store interface {
	Create(ctx context.Context, entry *domain.DiaryEntry) (*domain.DiaryEntry, error)
	GetByID(ctx context.Context, userID, entryID uuid.UUID) (*domain.DiaryEntry, error)
	List(ctx context.Context, userID uuid.UUID) ([]*domain.DiaryEntry, error)
}

type photoUploader interface {
	Upload(ctx context.Context, prefix, filename, contentType string, body io.Reader, size int64) (string, error)
	PutJSON(ctx context.Context, key string, v any) error
	Configured() bool
}

type eventNotifier interface {
	Enabled() bool
	Notify(ctx context.Context, event any) error
}

// maxConcurrentUploads bounds the photo upload fan-out per save.
const maxConcurrentUploads = 4

// mirrorTimeout bounds the best-effort data-lake mirror that runs after a
// successful save.
const mirrorTimeout = 10 * time.Second

// Service implements diary operations.
type Service struct {
	log       *slog.Logger
	entries   store
	photos    photoUploader
	recommend eventNotifier
	now       func() time.Time
}

// NewService creates a new diary service instance.
func NewService(logger *slog.Logger, entries store, photos photoUploader, recommend eventNotifier) *Service {
	return &Service{
		log:       logger.With("service", "diary"),
		entries:   entries,
		photos:    photos,
		recommend: recommend,
		now:       time.Now,
	}
}

// CreateEntry uploads the attached photos and then writes the diary row.
// Uploads run concurrently and join all-or-nothing: any failure aborts the
// save with nothing persisted, so the client can simply retry. Exactly one
// entry is written per successful call.
func (s *Service) CreateEntry(ctx context.Context, input CreateEntryInput) (*domain.DiaryEntry, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	photoURLs, err := s.uploadPhotos(ctx, input.Photos)
	if err != nil {
		return nil, fmt.Errorf("diary.CreateEntry: %w", err)
	}

	entry := input.toDomain(userID, photoURLs, s.now())
	created, err := s.entries.Create(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("diary.CreateEntry: %w", err)
	}

	s.log.InfoContext(ctx, "diary entry created",
		slog.String("entry_id", created.ID.String()),
		slog.String("user_id", userID.String()),
		slog.Int("photos", len(photoURLs)))

	// Best-effort mirror into the recommendation data lake. The save already
	// succeeded; a mirror failure is logged and forgotten.
	go s.mirrorEvent(created)

	return created, nil
}

// Get returns one diary entry owned by the calling user.
func (s *Service) Get(ctx context.Context, entryID uuid.UUID) (*domain.DiaryEntry, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	entry, err := s.entries.GetByID(ctx, userID, entryID)
	if err != nil {
		return nil, fmt.Errorf("diary.Get: %w", err)
	}
	return entry, nil
}

// List returns the user's diary, newest cook date first.
func (s *Service) List(ctx context.Context) ([]*domain.DiaryEntry, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	entries, err := s.entries.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("diary.List: %w", err)
	}
	return entries, nil
}

func (s *Service) uploadPhotos(ctx context.Context, photos []Photo) ([]string, error) {
	if len(photos) == 0 {
		return []string{}, nil
	}

	urls := make([]string, len(photos))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentUploads)

	for i, photo := range photos {
		g.Go(func() error {
			url, err := s.photos.Upload(gctx, objectstore.PrefixDiary,
				photo.Filename, photo.ContentType, photo.Body, photo.Size)
			if err != nil {
				return fmt.Errorf("upload %q: %w", photo.Filename, err)
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

// cookEvent is the JSON document mirrored into the data lake for the
// recommendation pipeline.
type cookEvent struct {
	EntryID   uuid.UUID `json:"entryId"`
	UserID    uuid.UUID `json:"userId"`
	RecipeID  uuid.UUID `json:"recipeId"`
	DishName  string    `json:"dishName"`
	CookDate  time.Time `json:"cookDate"`
	Rating    *int      `json:"rating,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *Service) mirrorEvent(entry *domain.DiaryEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
	defer cancel()

	event := cookEvent{
		EntryID:   entry.ID,
		UserID:    entry.UserID,
		RecipeID:  entry.RecipeID,
		DishName:  entry.DishName,
		CookDate:  entry.CookDate,
		Rating:    entry.Rating,
		CreatedAt: entry.CreatedAt,
	}

	if s.photos.Configured() {
		key := fmt.Sprintf("%s/%d_%s.json",
			objectstore.PrefixInteractions, entry.CreatedAt.UnixMilli(), entry.ID)
		if err := s.photos.PutJSON(ctx, key, event); err != nil {
			s.log.Warn("cook-history mirror failed",
				slog.String("entry_id", entry.ID.String()),
				slog.Any("error", err))
		}
	}
	if s.recommend.Enabled() {
		if err := s.recommend.Notify(ctx, event); err != nil {
			s.log.Warn("recommendation notify failed",
				slog.String("entry_id", entry.ID.String()),
				slog.Any("error", err))
		}
	}
}
