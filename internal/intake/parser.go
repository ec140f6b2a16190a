// Package intake ingests claim documents from the workspace drop folder.
// Field technicians export one YAML document per claim describing damaged
// items and the HVAC zone layout; the sync and watcher routines load them
// into the store.
package intake

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/aerislabs/aeris/internal/hvac"
	"github.com/aerislabs/aeris/internal/scoring"
)

// Document is one parsed intake file.
type Document struct {
	Claim              string
	ContaminationTypes []string
	Items              []scoring.Item
	Zones              []hvac.Zone
}

type itemDoc struct {
	ID              string   `yaml:"id"`
	Category        string   `yaml:"category"`
	Material        string   `yaml:"material"`
	AgeYears        *float64 `yaml:"age_years"`
	OriginalValue   float64  `yaml:"original_value"`
	CurrentValue    float64  `yaml:"current_value"`
	RestorationCost float64  `yaml:"restoration_cost"`
	ReplacementCost float64  `yaml:"replacement_cost"`
	DamageTypes     []string `yaml:"damage_types"`
	DamageExtent    string   `yaml:"damage_extent"`
	Sentimental     string   `yaml:"sentimental_value"`
	Risks           struct {
		FurtherDamage    string `yaml:"further_damage"`
		HealthConcerns   string `yaml:"health_concerns"`
		StructuralImpact string `yaml:"structural_impact"`
	} `yaml:"risk_factors"`
	RestorationDays int `yaml:"restoration_days"`
	ReplacementDays int `yaml:"replacement_days"`
}

type ventDoc struct {
	ID           string `yaml:"id"`
	RoomID       string `yaml:"room_id"`
	Contaminated bool   `yaml:"contaminated"`
}

type zoneDoc struct {
	ID                string    `yaml:"id"`
	Name              string    `yaml:"name"`
	Rooms             []string  `yaml:"rooms"`
	ReturnAirLocation string    `yaml:"return_air_location"`
	SupplyVents       []ventDoc `yaml:"supply_vents"`
	AirflowDirection  string    `yaml:"airflow_direction"`
}

type document struct {
	Claim              string    `yaml:"claim"`
	ContaminationTypes []string  `yaml:"contamination_types"`
	Items              []itemDoc `yaml:"items"`
	Zones              []zoneDoc `yaml:"zones"`
}

func (d itemDoc) validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.ID, validation.Required),
		validation.Field(&d.Category, validation.Required, validation.In(
			string(scoring.CategoryStructural), string(scoring.CategoryFlooring),
			string(scoring.CategoryFixtures), string(scoring.CategoryContents),
			string(scoring.CategorySpecialty))),
		validation.Field(&d.OriginalValue, validation.Min(0.0)),
		validation.Field(&d.CurrentValue, validation.Min(0.0)),
		validation.Field(&d.RestorationCost, validation.Min(0.0)),
		validation.Field(&d.ReplacementCost, validation.Min(0.0)),
		validation.Field(&d.DamageTypes, validation.Required),
		validation.Field(&d.DamageExtent, validation.Required, validation.In(
			string(scoring.DamageMinor), string(scoring.DamageModerate),
			string(scoring.DamageSevere), string(scoring.DamageTotal))),
		validation.Field(&d.RestorationDays, validation.Required, validation.Min(1)),
		validation.Field(&d.ReplacementDays, validation.Required, validation.Min(1)),
	)
}

func (d zoneDoc) validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.ID, validation.Required),
		validation.Field(&d.Name, validation.Required),
		validation.Field(&d.ReturnAirLocation, validation.Required),
	)
}

// riskLevel normalizes an optional risk grade; empty means none.
func riskLevel(s string) scoring.RiskLevel {
	if s == "" {
		return scoring.RiskNone
	}
	return scoring.RiskLevel(s)
}

// Parse decodes and validates one intake document. Item and zone ids are
// required (assigned by the field tablet) so re-ingesting an edited file
// updates records instead of duplicating them.
func Parse(data []byte) (*Document, error) {
	var raw document
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("intake: parse: %w", err)
	}
	if raw.Claim == "" {
		return nil, fmt.Errorf("intake: claim id is required")
	}

	doc := &Document{
		Claim:              raw.Claim,
		ContaminationTypes: raw.ContaminationTypes,
	}

	for i, it := range raw.Items {
		if err := it.validate(); err != nil {
			return nil, fmt.Errorf("intake: item %d: %w", i, err)
		}
		sentimental := scoring.SentimentNone
		if it.Sentimental != "" {
			sentimental = scoring.SentimentalValue(it.Sentimental)
		}
		doc.Items = append(doc.Items, scoring.Item{
			ID:              it.ID,
			ClaimID:         raw.Claim,
			Category:        scoring.Category(it.Category),
			Material:        it.Material,
			AgeYears:        it.AgeYears,
			OriginalValue:   it.OriginalValue,
			CurrentValue:    it.CurrentValue,
			RestorationCost: it.RestorationCost,
			ReplacementCost: it.ReplacementCost,
			DamageTypes:     it.DamageTypes,
			DamageExtent:    scoring.DamageExtent(it.DamageExtent),
			Sentimental:     sentimental,
			Risks: scoring.RiskFactors{
				FurtherDamage:    riskLevel(it.Risks.FurtherDamage),
				HealthConcerns:   riskLevel(it.Risks.HealthConcerns),
				StructuralImpact: riskLevel(it.Risks.StructuralImpact),
			},
			Timeline: scoring.Timeline{
				RestorationDays: it.RestorationDays,
				ReplacementDays: it.ReplacementDays,
			},
		})
	}

	for i, zd := range raw.Zones {
		if err := zd.validate(); err != nil {
			return nil, fmt.Errorf("intake: zone %d: %w", i, err)
		}
		direction := hvac.AirflowSupply
		if zd.AirflowDirection != "" {
			direction = hvac.AirflowDirection(zd.AirflowDirection)
		}
		z := hvac.Zone{
			ID:                 zd.ID,
			ClaimID:            raw.Claim,
			Name:               zd.Name,
			Rooms:              zd.Rooms,
			ReturnAirLocation:  zd.ReturnAirLocation,
			ContaminationLevel: hvac.LevelNone,
			AirflowDirection:   direction,
		}
		for _, v := range zd.SupplyVents {
			z.SupplyVents = append(z.SupplyVents, hvac.Vent{
				ID:           v.ID,
				RoomID:       v.RoomID,
				Contaminated: v.Contaminated,
			})
		}
		doc.Zones = append(doc.Zones, z)
	}

	// The document must itself satisfy the zone structural invariants.
	if _, err := hvac.NewGraph(doc.Zones); err != nil {
		return nil, fmt.Errorf("intake: %w", err)
	}

	return doc, nil
}
