package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aerislabs/aeris/internal/apperr"
	"github.com/aerislabs/aeris/internal/hvac"
	"github.com/aerislabs/aeris/internal/scoring"
	"github.com/aerislabs/aeris/internal/triage"
)

const maxBodyBytes = 1 << 20

// Handler holds API route handlers.
type Handler struct {
	svc *triage.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *triage.Service) *Handler {
	return &Handler{svc: svc}
}

// writeError maps service errors onto HTTP statuses.
func writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrAlreadyExists):
		writeJSON(w, http.StatusConflict, errorBody("already exists"))
	case errors.Is(err, hvac.ErrInvariant):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// ListItems handles GET /api/items.
//
//	@Summary		List items with assessments, filtered and paginated
//	@Tags			items
//	@Produce		json
//	@Param			claim			query		string	false	"Filter by claim id"
//	@Param			recommendation	query		string	false	"Filter by recommendation"	Enums(restore, replace, evaluate, dispose)
//	@Param			limit			query		int		false	"Page size"
//	@Param			offset			query		int		false	"Page offset"
//	@Success		200				{object}	ItemListResponse
//	@Security		BearerAuth
//	@Router			/items [get]
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	claim := q.Get("claim")
	rec := scoring.Recommendation(q.Get("recommendation"))

	items, total, err := h.svc.ListItems(r.Context(), claim, rec, limit, offset)
	if err != nil {
		writeError(w, "list items", err)
		return
	}
	writeJSON(w, http.StatusOK, ItemListResponse{Items: items, Total: total})
}

// CreateItem handles POST /api/items.
//
//	@Summary		Record a damaged item and return its assessment
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ItemRequest	true	"Item to record"
//	@Success		201		{object}	ItemDetail
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/items [post]
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	detail, err := h.svc.CreateItem(r.Context(), req.item(""))
	if err != nil {
		writeError(w, "create item", err)
		return
	}
	writeJSON(w, http.StatusCreated, detail)
}

// GetItem handles GET /api/items/{id}.
//
//	@Summary		Get one item with its freshly computed assessment
//	@Tags			items
//	@Produce		json
//	@Param			id	path		string	true	"Item id"
//	@Success		200	{object}	ItemDetail
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/items/{id} [get]
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	detail, err := h.svc.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "get item", err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// UpdateItem handles PUT /api/items/{id}.
//
//	@Summary		Update an item; the assessment is recomputed
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string		true	"Item id"
//	@Param			body	body		ItemRequest	true	"Updated item"
//	@Success		200		{object}	ItemDetail
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/items/{id} [put]
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	detail, err := h.svc.UpdateItem(r.Context(), req.item(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, "update item", err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// DeleteItem handles DELETE /api/items/{id}.
//
//	@Summary		Delete an item (leaf record, no cascades)
//	@Tags			items
//	@Param			id	path	string	true	"Item id"
//	@Success		204	"Item deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/items/{id} [delete]
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, "delete item", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListZones handles GET /api/zones.
//
//	@Summary		List HVAC zones, optionally filtered by claim
//	@Tags			zones
//	@Produce		json
//	@Param			claim	query		string	false	"Filter by claim id"
//	@Success		200		{object}	ZoneListResponse
//	@Security		BearerAuth
//	@Router			/zones [get]
func (h *Handler) ListZones(w http.ResponseWriter, r *http.Request) {
	zones, err := h.svc.ListZones(r.Context(), r.URL.Query().Get("claim"))
	if err != nil {
		writeError(w, "list zones", err)
		return
	}
	if zones == nil {
		zones = []hvac.Zone{}
	}
	writeJSON(w, http.StatusOK, ZoneListResponse{Zones: zones})
}

// CreateZone handles POST /api/zones.
//
//	@Summary		Add an HVAC zone to a claim
//	@Tags			zones
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ZoneRequest	true	"Zone to add"
//	@Success		201		{object}	hvac.Zone
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/zones [post]
func (h *Handler) CreateZone(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req ZoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	z, err := h.svc.CreateZone(r.Context(), req.zone(""))
	if err != nil {
		writeError(w, "create zone", err)
		return
	}
	writeJSON(w, http.StatusCreated, z)
}

// GetZone handles GET /api/zones/{id}.
//
//	@Summary		Get one zone
//	@Tags			zones
//	@Produce		json
//	@Param			id	path		string	true	"Zone id"
//	@Success		200	{object}	hvac.Zone
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/zones/{id} [get]
func (h *Handler) GetZone(w http.ResponseWriter, r *http.Request) {
	z, err := h.svc.GetZone(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "get zone", err)
		return
	}
	writeJSON(w, http.StatusOK, z)
}

// UpdateZone handles PUT /api/zones/{id}.
//
//	@Summary		Replace a zone's layout
//	@Tags			zones
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string		true	"Zone id"
//	@Param			body	body		ZoneRequest	true	"Updated zone"
//	@Success		200		{object}	hvac.Zone
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/zones/{id} [put]
func (h *Handler) UpdateZone(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req ZoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	z, err := h.svc.UpdateZone(r.Context(), req.zone(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, "update zone", err)
		return
	}
	writeJSON(w, http.StatusOK, z)
}

// DeleteZone handles DELETE /api/zones/{id}.
//
//	@Summary		Remove a zone; cached paths touching it are discarded
//	@Tags			zones
//	@Param			id	path	string	true	"Zone id"
//	@Success		204	"Zone deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/zones/{id} [delete]
func (h *Handler) DeleteZone(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteZone(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, "delete zone", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleVent handles POST /api/zones/{id}/vents/{ventID}/toggle.
//
//	@Summary		Flip one vent's contaminated flag
//	@Tags			zones
//	@Produce		json
//	@Param			id		path		string	true	"Zone id"
//	@Param			ventID	path		string	true	"Vent id"
//	@Success		200		{object}	ToggleResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/zones/{id}/vents/{ventID}/toggle [post]
func (h *Handler) ToggleVent(w http.ResponseWriter, r *http.Request) {
	ventID := chi.URLParam(r, "ventID")
	on, err := h.svc.ToggleVent(r.Context(), chi.URLParam(r, "id"), ventID)
	if err != nil {
		writeError(w, "toggle vent", err)
		return
	}
	writeJSON(w, http.StatusOK, ToggleResponse{VentID: ventID, Contaminated: on})
}

// Simulate handles POST /api/claims/{claimID}/simulate.
//
//	@Summary		Run a propagation pass over a claim's zones
//	@Tags			claims
//	@Accept			json
//	@Produce		json
//	@Param			claimID	path		string			true	"Claim id"
//	@Param			body	body		SimulateRequest	false	"Contamination descriptor"
//	@Success		200		{object}	SimulateResponse
//	@Security		BearerAuth
//	@Router			/claims/{claimID}/simulate [post]
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// An empty body means no contamination descriptor.
		req = SimulateRequest{}
	}
	res, err := h.svc.RunSimulation(r.Context(), chi.URLParam(r, "claimID"), req.ContaminationTypes)
	if err != nil {
		writeError(w, "simulate", err)
		return
	}
	paths := res.Paths
	if paths == nil {
		paths = []hvac.Path{}
	}
	writeJSON(w, http.StatusOK, SimulateResponse{Paths: paths, Zones: res.Zones})
}

// Paths handles GET /api/claims/{claimID}/paths.
//
//	@Summary		Get the path set from the last propagation run
//	@Tags			claims
//	@Produce		json
//	@Param			claimID	path		string	true	"Claim id"
//	@Success		200		{object}	PathsResponse
//	@Security		BearerAuth
//	@Router			/claims/{claimID}/paths [get]
func (h *Handler) Paths(w http.ResponseWriter, r *http.Request) {
	paths := h.svc.LastRun(r.Context(), chi.URLParam(r, "claimID"))
	writeJSON(w, http.StatusOK, PathsResponse{Paths: paths})
}
