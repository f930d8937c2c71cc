package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/momsflavor/backend/internal/domain"
	"github.com/momsflavor/backend/internal/service/cooking"
)

// cookingService defines the minimal interface needed by SessionHandler.
type cookingService interface {
	Get(ctx context.Context, recipeID uuid.UUID) (*cooking.Snapshot, error)
	SetCompletedSteps(ctx context.Context, recipeID uuid.UUID, steps []int) (*cooking.Snapshot, error)
	SetTimers(ctx context.Context, recipeID uuid.UUID, timers map[int]domain.StepTimer) (*cooking.Snapshot, error)
	StartTimer(ctx context.Context, recipeID uuid.UUID, step int) (*cooking.Snapshot, error)
	Clear(ctx context.Context, recipeID uuid.UUID) error
	Watch(ctx context.Context, recipeID uuid.UUID) (<-chan cooking.Snapshot, func(), error)
}

// SessionHandler serves cooking-session REST endpoints.
type SessionHandler struct {
	svc cookingService
	log *slog.Logger
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(svc cookingService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{svc: svc, log: logger.With("handler", "session")}
}

type stepsRequest struct {
	CompletedSteps []int `json:"completedSteps"`
}

type timersRequest struct {
	Timers map[int]domain.StepTimer `json:"timers"`
}

// Get handles GET /api/recipes/{id}/session.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	snap, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// PutSteps handles PUT /api/recipes/{id}/session/steps.
func (h *SessionHandler) PutSteps(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req stepsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snap, err := h.svc.SetCompletedSteps(r.Context(), id, req.CompletedSteps)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// PutTimers handles PUT /api/recipes/{id}/session/timers.
func (h *SessionHandler) PutTimers(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req timersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snap, err := h.svc.SetTimers(r.Context(), id, req.Timers)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// StartTimer handles POST /api/recipes/{id}/session/timers/{step}/start.
func (h *SessionHandler) StartTimer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	step, err := strconv.Atoi(r.PathValue("step"))
	if err != nil || step < 1 {
		writeError(w, http.StatusBadRequest, "invalid step")
		return
	}

	snap, err := h.svc.StartTimer(r.Context(), id, step)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// Clear handles DELETE /api/recipes/{id}/session.
func (h *SessionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.Clear(r.Context(), id); err != nil {
		respondError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Watch handles GET /api/recipes/{id}/session/watch. Streams session
// snapshots as server-sent events until the client disconnects.
func (h *SessionHandler) Watch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	snapshots, cancel, err := h.svc.Watch(r.Context(), id)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// Send the current state immediately so the watcher doesn't render blank
	// until the first tick.
	if snap, err := h.svc.Get(r.Context(), id); err == nil {
		h.writeEvent(w, *snap)
		flusher.Flush()
	}

	// Comment heartbeats keep intermediaries from closing an idle stream.
	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case snap, open := <-snapshots:
			if !open {
				return
			}
			h.writeEvent(w, snap)
			flusher.Flush()
		}
	}
}

func (h *SessionHandler) writeEvent(w http.ResponseWriter, snap cooking.Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		h.log.Error("marshal snapshot", slog.Any("error", err))
		return
	}
	fmt.Fprintf(w, "event: session\ndata: %s\n\n", data)
}
