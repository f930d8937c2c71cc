package rest

import (
	"log/slog"
	"net/http"

	"github.com/momsflavor/backend/internal/seed"
)

// SeedHandler serves the development-only seed route.
type SeedHandler struct {
	recipes recipeService
	log     *slog.Logger
	enabled bool
}

// NewSeedHandler creates a SeedHandler. When disabled the route answers 404,
// indistinguishable from a route that does not exist.
func NewSeedHandler(recipes recipeService, logger *slog.Logger, enabled bool) *SeedHandler {
	return &SeedHandler{
		recipes: recipes,
		log:     logger.With("handler", "seed"),
		enabled: enabled,
	}
}

// Seed handles POST /api/seed. Inserts the sample recipes for the caller.
func (h *SeedHandler) Seed(w http.ResponseWriter, r *http.Request) {
	if !h.enabled {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	count, err := seed.Run(r.Context(), h.recipes)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]int{"created": count})
}
