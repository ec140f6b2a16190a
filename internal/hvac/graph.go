// Package hvac models a claim's ventilation network as zones of supply vents
// sharing a single return-air point, and derives airborne contamination
// spread paths from the current vent flags.
package hvac

import (
	"errors"
	"fmt"
)

// ErrInvariant marks a structural invariant violation (duplicate zone,
// shared vent, vent coinciding with the return-air location). Callers map
// it to a client error.
var ErrInvariant = errors.New("structural invariant violation")

// ContaminationLevel is a zone's aggregate severity, derived from the ratio
// of contaminated vents.
type ContaminationLevel string

// Zone contamination levels.
const (
	LevelNone   ContaminationLevel = "none"
	LevelLow    ContaminationLevel = "low"
	LevelMedium ContaminationLevel = "medium"
	LevelHigh   ContaminationLevel = "high"
	LevelSevere ContaminationLevel = "severe"
)

// AirflowDirection describes how a zone moves air.
type AirflowDirection string

// Airflow directions.
const (
	AirflowSupply AirflowDirection = "supply"
	AirflowReturn AirflowDirection = "return"
	AirflowMixed  AirflowDirection = "mixed"
)

// Vent is one supply-air outlet. Contaminated is the only externally
// mutable field; everything derived flows from it.
type Vent struct {
	ID           string `json:"id"`
	RoomID       string `json:"room_id"`
	Contaminated bool   `json:"contaminated"`
}

// Zone is a ventilation sub-network: a set of rooms served by one
// return-air path. ContaminationLevel is derived by Simulate and is
// overwritten on every run.
type Zone struct {
	ID                 string             `json:"id"`
	ClaimID            string             `json:"claim_id"`
	Name               string             `json:"name"`
	Rooms              []string           `json:"rooms"`
	ReturnAirLocation  string             `json:"return_air_location"`
	SupplyVents        []Vent             `json:"supply_vents"`
	ContaminationLevel ContaminationLevel `json:"contamination_level"`
	AirflowDirection   AirflowDirection   `json:"airflow_direction"`
}

// Graph is a mutable set of zones. Mutations are purely structural; derived
// state is recomputed only by Simulate. Graph is not safe for concurrent
// mutation; callers serialize access per claim.
type Graph struct {
	zones []Zone
}

// NewGraph builds a graph from existing zones, validating each as it is
// added.
func NewGraph(zones []Zone) (*Graph, error) {
	g := &Graph{}
	for _, z := range zones {
		if err := g.AddZone(z); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Zones returns the current zone set.
func (g *Graph) Zones() []Zone {
	return g.zones
}

// AddZone appends a zone after checking the structural invariants: zone ids
// are unique, every vent belongs to exactly one zone, and a zone's
// return-air location never coincides with one of its vents (the two path
// legs must stay distinguishable).
func (g *Graph) AddZone(z Zone) error {
	for _, existing := range g.zones {
		if existing.ID == z.ID {
			return fmt.Errorf("hvac: %w: zone %s already exists", ErrInvariant, z.ID)
		}
	}
	owned := make(map[string]string)
	for _, existing := range g.zones {
		for _, v := range existing.SupplyVents {
			owned[v.ID] = existing.ID
		}
	}
	seen := make(map[string]struct{}, len(z.SupplyVents))
	for _, v := range z.SupplyVents {
		if ownerID, ok := owned[v.ID]; ok {
			return fmt.Errorf("hvac: %w: vent %s already belongs to zone %s", ErrInvariant, v.ID, ownerID)
		}
		if _, dup := seen[v.ID]; dup {
			return fmt.Errorf("hvac: %w: duplicate vent %s in zone %s", ErrInvariant, v.ID, z.ID)
		}
		seen[v.ID] = struct{}{}
		if v.ID == z.ReturnAirLocation {
			return fmt.Errorf("hvac: %w: vent %s coincides with return-air location of zone %s", ErrInvariant, v.ID, z.ID)
		}
	}
	g.zones = append(g.zones, z)
	return nil
}

// RemoveZone deletes a zone by id. Removing an unknown zone is an error.
func (g *Graph) RemoveZone(id string) error {
	for i, z := range g.zones {
		if z.ID == id {
			g.zones = append(g.zones[:i], g.zones[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("hvac: zone %s not found", id)
}

// ToggleVent flips the contaminated flag on one vent. No derived state is
// recomputed; the caller runs Simulate afterwards.
func (g *Graph) ToggleVent(ventID string) (bool, error) {
	for zi := range g.zones {
		for vi := range g.zones[zi].SupplyVents {
			if g.zones[zi].SupplyVents[vi].ID == ventID {
				g.zones[zi].SupplyVents[vi].Contaminated = !g.zones[zi].SupplyVents[vi].Contaminated
				return g.zones[zi].SupplyVents[vi].Contaminated, nil
			}
		}
	}
	return false, fmt.Errorf("hvac: vent %s not found", ventID)
}
