package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/aerislabs/aeris/internal/hvac"
	"github.com/aerislabs/aeris/internal/scoring"
	"github.com/aerislabs/aeris/internal/triage"
)

// ItemRequest is the request body for creating or updating an item. The
// scoring engine assumes validated input, so this layer enforces the
// numeric and enum constraints.
type ItemRequest struct {
	ClaimID         string   `json:"claim_id" validate:"required"`
	Category        string   `json:"category" example:"contents" validate:"required"`
	Material        string   `json:"material" example:"oak"`
	AgeYears        *float64 `json:"age_years,omitempty" example:"12"`
	OriginalValue   float64  `json:"original_value" example:"2500"`
	CurrentValue    float64  `json:"current_value" example:"1800"`
	RestorationCost float64  `json:"restoration_cost" example:"400"`
	ReplacementCost float64  `json:"replacement_cost" example:"2200"`
	DamageTypes     []string `json:"damage_types" example:"water,swelling" validate:"required"`
	DamageExtent    string   `json:"damage_extent" example:"moderate" validate:"required"`
	Sentimental     string   `json:"sentimental_value" example:"high"`
	RiskFactors     struct {
		FurtherDamage    string `json:"further_damage" example:"low"`
		HealthConcerns   string `json:"health_concerns" example:"none"`
		StructuralImpact string `json:"structural_impact" example:"none"`
	} `json:"risk_factors"`
	RestorationDays int `json:"restoration_days" example:"6" validate:"required"`
	ReplacementDays int `json:"replacement_days" example:"21" validate:"required"`
}

func riskRule() []validation.Rule {
	return []validation.Rule{validation.In(
		string(scoring.RiskNone), string(scoring.RiskLow),
		string(scoring.RiskMedium), string(scoring.RiskHigh))}
}

// Validate checks the request against the scorer's documented input domain.
func (r ItemRequest) Validate() error {
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.ClaimID, validation.Required),
		validation.Field(&r.Category, validation.Required, validation.In(
			string(scoring.CategoryStructural), string(scoring.CategoryFlooring),
			string(scoring.CategoryFixtures), string(scoring.CategoryContents),
			string(scoring.CategorySpecialty))),
		validation.Field(&r.OriginalValue, validation.Min(0.0)),
		validation.Field(&r.CurrentValue, validation.Min(0.0)),
		validation.Field(&r.RestorationCost, validation.Min(0.0)),
		validation.Field(&r.ReplacementCost, validation.Min(0.0)),
		validation.Field(&r.DamageTypes, validation.Required, validation.Length(1, 0)),
		validation.Field(&r.DamageExtent, validation.Required, validation.In(
			string(scoring.DamageMinor), string(scoring.DamageModerate),
			string(scoring.DamageSevere), string(scoring.DamageTotal))),
		validation.Field(&r.Sentimental, validation.In(
			string(scoring.SentimentNone), string(scoring.SentimentLow),
			string(scoring.SentimentMedium), string(scoring.SentimentHigh),
			string(scoring.SentimentIrreplaceable))),
		validation.Field(&r.RestorationDays, validation.Required, validation.Min(1)),
		validation.Field(&r.ReplacementDays, validation.Required, validation.Min(1)),
	); err != nil {
		return err
	}
	if r.AgeYears != nil && *r.AgeYears < 0 {
		return validation.NewError("validation_age", "age_years must be non-negative")
	}
	return validation.ValidateStruct(&r.RiskFactors,
		validation.Field(&r.RiskFactors.FurtherDamage, riskRule()...),
		validation.Field(&r.RiskFactors.HealthConcerns, riskRule()...),
		validation.Field(&r.RiskFactors.StructuralImpact, riskRule()...),
	)
}

func riskLevel(s string) scoring.RiskLevel {
	if s == "" {
		return scoring.RiskNone
	}
	return scoring.RiskLevel(s)
}

// item converts a validated request to the domain type.
func (r ItemRequest) item(id string) scoring.Item {
	sentimental := scoring.SentimentNone
	if r.Sentimental != "" {
		sentimental = scoring.SentimentalValue(r.Sentimental)
	}
	return scoring.Item{
		ID:              id,
		ClaimID:         r.ClaimID,
		Category:        scoring.Category(r.Category),
		Material:        r.Material,
		AgeYears:        r.AgeYears,
		OriginalValue:   r.OriginalValue,
		CurrentValue:    r.CurrentValue,
		RestorationCost: r.RestorationCost,
		ReplacementCost: r.ReplacementCost,
		DamageTypes:     r.DamageTypes,
		DamageExtent:    scoring.DamageExtent(r.DamageExtent),
		Sentimental:     sentimental,
		Risks: scoring.RiskFactors{
			FurtherDamage:    riskLevel(r.RiskFactors.FurtherDamage),
			HealthConcerns:   riskLevel(r.RiskFactors.HealthConcerns),
			StructuralImpact: riskLevel(r.RiskFactors.StructuralImpact),
		},
		Timeline: scoring.Timeline{
			RestorationDays: r.RestorationDays,
			ReplacementDays: r.ReplacementDays,
		},
	}
}

// VentRequest is one vent in a zone request body.
type VentRequest struct {
	ID           string `json:"id" validate:"required"`
	RoomID       string `json:"room_id"`
	Contaminated bool   `json:"contaminated"`
}

// ZoneRequest is the request body for creating or updating a zone.
type ZoneRequest struct {
	ClaimID           string        `json:"claim_id" validate:"required"`
	Name              string        `json:"name" example:"Upstairs" validate:"required"`
	Rooms             []string      `json:"rooms" example:"bedroom-1,bedroom-2"`
	ReturnAirLocation string        `json:"return_air_location" example:"hall-return" validate:"required"`
	SupplyVents       []VentRequest `json:"supply_vents"`
	AirflowDirection  string        `json:"airflow_direction" example:"supply"`
}

// Validate checks the zone request. Structural invariants (vent ownership,
// return/vent distinctness) are enforced by the service against the claim's
// full zone set.
func (r ZoneRequest) Validate() error {
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.ClaimID, validation.Required),
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.ReturnAirLocation, validation.Required),
		validation.Field(&r.AirflowDirection, validation.In(
			string(hvac.AirflowSupply), string(hvac.AirflowReturn), string(hvac.AirflowMixed))),
	); err != nil {
		return err
	}
	for _, v := range r.SupplyVents {
		if v.ID == "" {
			return validation.NewError("validation_vent", "vent id is required")
		}
	}
	return nil
}

// zone converts a validated request to the domain type.
func (r ZoneRequest) zone(id string) hvac.Zone {
	direction := hvac.AirflowSupply
	if r.AirflowDirection != "" {
		direction = hvac.AirflowDirection(r.AirflowDirection)
	}
	z := hvac.Zone{
		ID:                id,
		ClaimID:           r.ClaimID,
		Name:              r.Name,
		Rooms:             r.Rooms,
		ReturnAirLocation: r.ReturnAirLocation,
		AirflowDirection:  direction,
	}
	for _, v := range r.SupplyVents {
		z.SupplyVents = append(z.SupplyVents, hvac.Vent{
			ID:           v.ID,
			RoomID:       v.RoomID,
			Contaminated: v.Contaminated,
		})
	}
	return z
}

// SimulateRequest is the request body for a propagation run.
type SimulateRequest struct {
	ContaminationTypes []string `json:"contamination_types" example:"mould,category-3-water"`
}

// ItemDetail is the full item response type (aliased from the domain layer).
type ItemDetail = triage.ItemDetail

// ItemListResponse wraps paginated item listings.
type ItemListResponse struct {
	Items []ItemDetail `json:"items" validate:"required"`
	Total int          `json:"total" example:"42" validate:"required"`
}

// ZoneListResponse wraps zone listings.
type ZoneListResponse struct {
	Zones []hvac.Zone `json:"zones" validate:"required"`
}

// ToggleResponse reports a vent's state after a toggle.
type ToggleResponse struct {
	VentID       string `json:"vent_id" validate:"required"`
	Contaminated bool   `json:"contaminated" validate:"required"`
}

// SimulateResponse wraps one propagation run.
type SimulateResponse struct {
	Paths []hvac.Path `json:"paths" validate:"required"`
	Zones []hvac.Zone `json:"zones" validate:"required"`
}

// PathsResponse wraps the cached path set of the last propagation run.
type PathsResponse struct {
	Paths []hvac.Path `json:"paths" validate:"required"`
}

// AttachmentUploadResponse is returned after a successful photo upload.
type AttachmentUploadResponse struct {
	Filename string `json:"filename" example:"kitchen-vent.jpg" validate:"required"`
	Size     int64  `json:"size" example:"12345" validate:"required"`
	URL      string `json:"url" example:"/attachments/kitchen-vent.jpg" validate:"required"`
}
