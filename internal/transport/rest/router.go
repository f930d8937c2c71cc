// Package rest wires the HTTP surface: JSON routes under /api plus health
// probes, with shared middleware for auth, logging and recovery.
package rest

import (
	"net/http"
)

// Handlers bundles everything the router serves.
type Handlers struct {
	Auth    *AuthHandler
	Recipes *RecipeHandler
	Session *SessionHandler
	Diary   *DiaryHandler
	Upload  *UploadHandler
	AI      *AIHandler
	Seed    *SeedHandler
	Health  *HealthHandler
}

// NewRouter builds the route table. Method-qualified patterns make the mux
// answer 405 for wrong methods on known paths.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	// Auth
	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /api/auth/refresh", h.Auth.Refresh)
	mux.HandleFunc("POST /api/auth/logout", h.Auth.Logout)

	// Recipes
	mux.HandleFunc("GET /api/recipes", h.Recipes.List)
	mux.HandleFunc("POST /api/recipes", h.Recipes.Create)
	mux.HandleFunc("GET /api/recipes/{id}", h.Recipes.Get)
	mux.HandleFunc("PUT /api/recipes/{id}", h.Recipes.Update)
	mux.HandleFunc("DELETE /api/recipes/{id}", h.Recipes.Delete)
	mux.HandleFunc("POST /api/recipes/{id}/shopping-list", h.Recipes.ShoppingList)

	// Cooking sessions
	mux.HandleFunc("GET /api/recipes/{id}/session", h.Session.Get)
	mux.HandleFunc("PUT /api/recipes/{id}/session/steps", h.Session.PutSteps)
	mux.HandleFunc("PUT /api/recipes/{id}/session/timers", h.Session.PutTimers)
	mux.HandleFunc("POST /api/recipes/{id}/session/timers/{step}/start", h.Session.StartTimer)
	mux.HandleFunc("DELETE /api/recipes/{id}/session", h.Session.Clear)
	mux.HandleFunc("GET /api/recipes/{id}/session/watch", h.Session.Watch)

	// Diary
	mux.HandleFunc("GET /api/diary", h.Diary.List)
	mux.HandleFunc("POST /api/diary", h.Diary.Create)
	mux.HandleFunc("GET /api/diary/{id}", h.Diary.Get)

	// Uploads and AI proxies
	mux.HandleFunc("POST /api/upload", h.Upload.Upload)
	mux.HandleFunc("POST /api/ai/ocr", h.AI.OCR)
	mux.HandleFunc("POST /api/ai/analyze", h.AI.Analyze)
	mux.HandleFunc("POST /api/ai/speech", h.AI.Speech)

	// Dev utilities and probes
	mux.HandleFunc("POST /api/seed", h.Seed.Seed)
	mux.HandleFunc("GET /health", h.Health.Health)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /live", h.Health.Live)

	return mux
}
