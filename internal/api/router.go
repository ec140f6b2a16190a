package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aerislabs/aeris/internal/triage"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
// workspaceRoot is used to resolve the damage photo directory.
func NewRouter(svc *triage.Service, authEnabled bool, token string, sseHandler http.Handler, workspaceRoot string) chi.Router {
	h := NewHandler(svc)
	ph := NewPhotoHandler(workspaceRoot)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Items CRUD.
	r.Get("/items", h.ListItems)
	r.Post("/items", h.CreateItem)
	r.Get("/items/{id}", h.GetItem)
	r.Put("/items/{id}", h.UpdateItem)
	r.Delete("/items/{id}", h.DeleteItem)

	// Zones CRUD plus vent toggling.
	r.Get("/zones", h.ListZones)
	r.Post("/zones", h.CreateZone)
	r.Get("/zones/{id}", h.GetZone)
	r.Put("/zones/{id}", h.UpdateZone)
	r.Delete("/zones/{id}", h.DeleteZone)
	r.Post("/zones/{id}/vents/{ventID}/toggle", h.ToggleVent)

	// Propagation runs per claim.
	r.Post("/claims/{claimID}/simulate", h.Simulate)
	r.Get("/claims/{claimID}/paths", h.Paths)

	// Photo upload (auth-protected).
	r.Post("/photos", ph.Upload)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
