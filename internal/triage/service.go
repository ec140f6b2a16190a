// Package triage coordinates the persistence layer with the scoring and
// propagation engines. It owns the per-claim locking that keeps vent
// mutation and simulation from interleaving across concurrent callers.
package triage

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/aerislabs/aeris/internal/apperr"
	"github.com/aerislabs/aeris/internal/hvac"
	"github.com/aerislabs/aeris/internal/scoring"
	"github.com/aerislabs/aeris/internal/store"
)

// ItemDetail is an item together with its freshly computed assessment.
// The assessment is derived on every read and never cached as ground truth.
type ItemDetail struct {
	scoring.Item
	Assessment scoring.Assessment `json:"assessment"`
}

// Service coordinates store access, scoring, and propagation.
type Service struct {
	store  store.Store
	notify func(entity, kind, id, claimID string)

	mu         sync.Mutex
	claimLocks map[string]*sync.Mutex

	runMu    sync.RWMutex
	lastRuns map[string][]hvac.Path
}

// NewService creates a new triage service.
func NewService(st store.Store) *Service {
	return &Service{
		store:      st,
		claimLocks: make(map[string]*sync.Mutex),
		lastRuns:   make(map[string][]hvac.Path),
	}
}

// SetNotifier installs a callback invoked after successful mutations, used
// to feed the SSE broker. A nil notifier disables notifications.
func (s *Service) SetNotifier(fn func(entity, kind, id, claimID string)) {
	s.notify = fn
}

func (s *Service) notifyChange(entity, kind, id, claimID string) {
	if s.notify != nil {
		s.notify(entity, kind, id, claimID)
	}
}

// claimLock returns the mutex serializing mutations for one claim.
func (s *Service) claimLock(claimID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.claimLocks[claimID]
	if !ok {
		l = &sync.Mutex{}
		s.claimLocks[claimID] = l
	}
	return l
}

func (s *Service) detail(item scoring.Item) *ItemDetail {
	return &ItemDetail{Item: item, Assessment: scoring.Score(item)}
}

// CreateItem stores a new item and returns it with its assessment. An empty
// id gets a generated one.
func (s *Service) CreateItem(_ context.Context, item scoring.Item) (*ItemDetail, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if _, err := s.store.GetItem(item.ID); err == nil {
		return nil, apperr.ErrAlreadyExists
	}
	if err := s.store.UpsertItem(item); err != nil {
		return nil, err
	}
	s.notifyChange("item", "created", item.ID, item.ClaimID)
	return s.detail(item), nil
}

// GetItem returns one item with its assessment.
func (s *Service) GetItem(_ context.Context, id string) (*ItemDetail, error) {
	item, err := s.store.GetItem(id)
	if err != nil {
		return nil, err
	}
	return s.detail(*item), nil
}

// UpdateItem replaces an existing item.
func (s *Service) UpdateItem(_ context.Context, item scoring.Item) (*ItemDetail, error) {
	if _, err := s.store.GetItem(item.ID); err != nil {
		return nil, err
	}
	if err := s.store.UpsertItem(item); err != nil {
		return nil, err
	}
	s.notifyChange("item", "updated", item.ID, item.ClaimID)
	return s.detail(item), nil
}

// DeleteItem removes an item. Items are leaf records: no cascades.
func (s *Service) DeleteItem(_ context.Context, id string) error {
	item, err := s.store.GetItem(id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteItem(id); err != nil {
		return err
	}
	s.notifyChange("item", "deleted", id, item.ClaimID)
	return nil
}

// ListItems returns items with assessments, optionally filtered by claim
// and recommendation, paginated after filtering. The recommendation filter
// operates on the derived field, so it cannot be pushed into SQL.
func (s *Service) ListItems(_ context.Context, claimID string, rec scoring.Recommendation, limit, offset int) ([]ItemDetail, int, error) {
	items, err := s.store.ListItems(claimID)
	if err != nil {
		return nil, 0, err
	}

	details := make([]ItemDetail, 0, len(items))
	for _, item := range items {
		d := s.detail(item)
		if rec != "" && d.Assessment.Recommendation != rec {
			continue
		}
		details = append(details, *d)
	}

	total := len(details)
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return details[offset:end], total, nil
}

// CreateZone stores a new zone after checking the claim's structural
// invariants (unique vents, return-air location distinct from vents).
func (s *Service) CreateZone(_ context.Context, z hvac.Zone) (*hvac.Zone, error) {
	if z.ID == "" {
		z.ID = uuid.NewString()
	}
	if z.ContaminationLevel == "" {
		z.ContaminationLevel = hvac.LevelNone
	}

	lock := s.claimLock(z.ClaimID)
	lock.Lock()
	defer lock.Unlock()

	if _, err := s.store.GetZone(z.ID); err == nil {
		return nil, apperr.ErrAlreadyExists
	}
	existing, err := s.store.ListZones(z.ClaimID)
	if err != nil {
		return nil, err
	}
	g, err := hvac.NewGraph(existing)
	if err != nil {
		return nil, err
	}
	if err := g.AddZone(z); err != nil {
		return nil, err
	}
	if err := s.store.UpsertZone(z); err != nil {
		return nil, err
	}
	s.notifyChange("zone", "created", z.ID, z.ClaimID)
	return &z, nil
}

// GetZone returns one zone.
func (s *Service) GetZone(_ context.Context, id string) (*hvac.Zone, error) {
	return s.store.GetZone(id)
}

// UpdateZone replaces an existing zone, re-checking the claim's structural
// invariants against its other zones.
func (s *Service) UpdateZone(_ context.Context, z hvac.Zone) (*hvac.Zone, error) {
	lock := s.claimLock(z.ClaimID)
	lock.Lock()
	defer lock.Unlock()

	if _, err := s.store.GetZone(z.ID); err != nil {
		return nil, err
	}
	existing, err := s.store.ListZones(z.ClaimID)
	if err != nil {
		return nil, err
	}
	others := existing[:0:0]
	for _, e := range existing {
		if e.ID != z.ID {
			others = append(others, e)
		}
	}
	g, err := hvac.NewGraph(others)
	if err != nil {
		return nil, err
	}
	if err := g.AddZone(z); err != nil {
		return nil, err
	}
	if err := s.store.UpsertZone(z); err != nil {
		return nil, err
	}
	s.notifyChange("zone", "updated", z.ID, z.ClaimID)
	return &z, nil
}

// DeleteZone removes a zone and discards any cached paths touching it, so
// the last run never dangles into removed nodes.
func (s *Service) DeleteZone(_ context.Context, id string) error {
	z, err := s.store.GetZone(id)
	if err != nil {
		return err
	}

	lock := s.claimLock(z.ClaimID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.store.DeleteZone(id); err != nil {
		return err
	}

	ventIDs := make(map[string]struct{}, len(z.SupplyVents))
	for _, v := range z.SupplyVents {
		ventIDs[v.ID] = struct{}{}
	}
	references := func(ref hvac.NodeRef) bool {
		if ref.Kind == hvac.NodeReturn && ref.ID == id {
			return true
		}
		if ref.Kind == hvac.NodeVent {
			_, ok := ventIDs[ref.ID]
			return ok
		}
		return false
	}

	s.runMu.Lock()
	defer s.runMu.Unlock()
	kept := s.lastRuns[z.ClaimID][:0:0]
	for _, p := range s.lastRuns[z.ClaimID] {
		if !references(p.From) && !references(p.To) {
			kept = append(kept, p)
		}
	}
	s.lastRuns[z.ClaimID] = kept
	s.notifyChange("zone", "deleted", id, z.ClaimID)
	return nil
}

// ListZones returns all zones for a claim.
func (s *Service) ListZones(_ context.Context, claimID string) ([]hvac.Zone, error) {
	return s.store.ListZones(claimID)
}

// ToggleVent flips one vent's contaminated flag within its zone and
// persists the change. Derived state stays stale until the next
// RunSimulation call.
func (s *Service) ToggleVent(_ context.Context, zoneID, ventID string) (bool, error) {
	z, err := s.store.GetZone(zoneID)
	if err != nil {
		return false, err
	}

	lock := s.claimLock(z.ClaimID)
	lock.Lock()
	defer lock.Unlock()

	// Re-read under the lock to avoid losing a concurrent toggle.
	z, err = s.store.GetZone(zoneID)
	if err != nil {
		return false, err
	}
	g, err := hvac.NewGraph([]hvac.Zone{*z})
	if err != nil {
		return false, err
	}
	on, err := g.ToggleVent(ventID)
	if err != nil {
		return false, fmt.Errorf("vent %s: %w", ventID, apperr.ErrNotFound)
	}
	if err := s.store.UpsertZone(g.Zones()[0]); err != nil {
		return false, err
	}
	s.notifyChange("zone", "updated", zoneID, z.ClaimID)
	return on, nil
}

// RunSimulation regenerates the contamination snapshot for a claim: it
// loads the claim's zones, runs the propagation engine, persists the
// recomputed zone levels, and caches the ephemeral path set.
func (s *Service) RunSimulation(_ context.Context, claimID string, contaminationTypes []string) (*hvac.Result, error) {
	lock := s.claimLock(claimID)
	lock.Lock()
	defer lock.Unlock()

	zones, err := s.store.ListZones(claimID)
	if err != nil {
		return nil, err
	}

	res := hvac.Simulate(zones, contaminationTypes)

	if err := s.store.UpdateZoneLevels(res.Zones); err != nil {
		return nil, err
	}

	s.runMu.Lock()
	s.lastRuns[claimID] = res.Paths
	s.runMu.Unlock()

	s.notifyChange("simulation", "completed", claimID, claimID)
	return &res, nil
}

// LastRun returns the path set from the most recent propagation run for a
// claim. Paths are ephemeral: they live in memory only and are regenerated
// by every run.
func (s *Service) LastRun(_ context.Context, claimID string) []hvac.Path {
	s.runMu.RLock()
	defer s.runMu.RUnlock()
	paths := s.lastRuns[claimID]
	if paths == nil {
		return []hvac.Path{}
	}
	return paths
}
