package intake

import (
	"strings"
	"testing"

	"github.com/aerislabs/aeris/internal/hvac"
	"github.com/aerislabs/aeris/internal/scoring"
)

const sampleDoc = `
claim: c-100
contamination_types:
  - mould
  - category-3-water
items:
  - id: item-1
    category: contents
    material: oak sideboard
    age_years: 12
    original_value: 2500
    current_value: 1800
    restoration_cost: 400
    replacement_cost: 2200
    damage_types: [water]
    damage_extent: moderate
    sentimental_value: high
    risk_factors:
      further_damage: low
      health_concerns: medium
    restoration_days: 6
    replacement_days: 21
zones:
  - id: zone-1
    name: Upstairs
    rooms: [bedroom-1, bedroom-2]
    return_air_location: hall-return
    airflow_direction: supply
    supply_vents:
      - id: v1
        room_id: bedroom-1
        contaminated: true
      - id: v2
        room_id: bedroom-2
`

func TestParseDocument(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if doc.Claim != "c-100" {
		t.Errorf("Claim = %q", doc.Claim)
	}
	if len(doc.ContaminationTypes) != 2 {
		t.Errorf("ContaminationTypes = %v", doc.ContaminationTypes)
	}

	if len(doc.Items) != 1 {
		t.Fatalf("len(items) = %d", len(doc.Items))
	}
	item := doc.Items[0]
	if item.ClaimID != "c-100" {
		t.Errorf("item claim = %q", item.ClaimID)
	}
	if item.Category != scoring.CategoryContents || item.DamageExtent != scoring.DamageModerate {
		t.Errorf("item = %+v", item)
	}
	if item.AgeYears == nil || *item.AgeYears != 12 {
		t.Errorf("AgeYears = %v", item.AgeYears)
	}
	if item.Risks.HealthConcerns != scoring.RiskMedium {
		t.Errorf("HealthConcerns = %s", item.Risks.HealthConcerns)
	}
	// Omitted risk factors default to none.
	if item.Risks.StructuralImpact != scoring.RiskNone {
		t.Errorf("StructuralImpact = %s, want none", item.Risks.StructuralImpact)
	}

	if len(doc.Zones) != 1 {
		t.Fatalf("len(zones) = %d", len(doc.Zones))
	}
	z := doc.Zones[0]
	if z.ClaimID != "c-100" || z.ContaminationLevel != hvac.LevelNone {
		t.Errorf("zone = %+v", z)
	}
	if len(z.SupplyVents) != 2 || !z.SupplyVents[0].Contaminated || z.SupplyVents[1].Contaminated {
		t.Errorf("vents = %+v", z.SupplyVents)
	}
}

func TestParseRejectsMissingClaim(t *testing.T) {
	_, err := Parse([]byte("items: []\n"))
	if err == nil || !strings.Contains(err.Error(), "claim") {
		t.Errorf("err = %v, want missing-claim error", err)
	}
}

func TestParseRejectsInvalidItem(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing id", `
claim: c-1
items:
  - category: contents
    damage_types: [water]
    damage_extent: minor
    restoration_days: 1
    replacement_days: 2
`},
		{"bad category", `
claim: c-1
items:
  - id: i1
    category: vehicles
    damage_types: [water]
    damage_extent: minor
    restoration_days: 1
    replacement_days: 2
`},
		{"negative cost", `
claim: c-1
items:
  - id: i1
    category: contents
    restoration_cost: -5
    damage_types: [water]
    damage_extent: minor
    restoration_days: 1
    replacement_days: 2
`},
		{"no damage types", `
claim: c-1
items:
  - id: i1
    category: contents
    damage_extent: minor
    restoration_days: 1
    replacement_days: 2
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.doc)); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}

func TestParseRejectsZoneInvariantViolations(t *testing.T) {
	doc := `
claim: c-1
zones:
  - id: z1
    name: A
    return_air_location: shared
    supply_vents:
      - id: shared
        room_id: r1
`
	if _, err := Parse([]byte(doc)); err == nil {
		t.Error("expected error: vent coincides with return-air location")
	}

	doc = `
claim: c-1
zones:
  - id: z1
    name: A
    return_air_location: ra1
    supply_vents:
      - id: v1
        room_id: r1
  - id: z2
    name: B
    return_air_location: ra2
    supply_vents:
      - id: v1
        room_id: r2
`
	if _, err := Parse([]byte(doc)); err == nil {
		t.Error("expected error: vent owned by two zones")
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	if _, err := Parse([]byte("claim: [unclosed")); err == nil {
		t.Error("expected YAML error")
	}
}
