// Package scoring implements the restore-or-replace viability scorer for
// damaged items. Score is a pure function over a validated Item; the API
// layer is responsible for input validation.
package scoring

// Category classifies a damaged item.
type Category string

// Item categories.
const (
	CategoryStructural Category = "structural"
	CategoryFlooring   Category = "flooring"
	CategoryFixtures   Category = "fixtures"
	CategoryContents   Category = "contents"
	CategorySpecialty  Category = "specialty"
)

// DamageExtent grades how badly an item is damaged.
type DamageExtent string

// Damage extents, from least to most severe.
const (
	DamageMinor    DamageExtent = "minor"
	DamageModerate DamageExtent = "moderate"
	DamageSevere   DamageExtent = "severe"
	DamageTotal    DamageExtent = "total"
)

// SentimentalValue captures the owner's subjective attachment to an item.
type SentimentalValue string

// Sentimental value grades.
const (
	SentimentNone          SentimentalValue = "none"
	SentimentLow           SentimentalValue = "low"
	SentimentMedium        SentimentalValue = "medium"
	SentimentHigh          SentimentalValue = "high"
	SentimentIrreplaceable SentimentalValue = "irreplaceable"
)

// RiskLevel grades a single risk factor.
type RiskLevel string

// Risk levels.
const (
	RiskNone   RiskLevel = "none"
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Recommendation is the categorical outcome of scoring.
type Recommendation string

// Recommendations.
const (
	RecommendRestore  Recommendation = "restore"
	RecommendReplace  Recommendation = "replace"
	RecommendEvaluate Recommendation = "evaluate"
	RecommendDispose  Recommendation = "dispose"
)

// RiskFactors holds the three per-item risk attributes.
type RiskFactors struct {
	FurtherDamage    RiskLevel `json:"further_damage"`
	HealthConcerns   RiskLevel `json:"health_concerns"`
	StructuralImpact RiskLevel `json:"structural_impact"`
}

// Timeline holds the estimated duration of each option, in days.
type Timeline struct {
	RestorationDays int `json:"restoration_days"`
	ReplacementDays int `json:"replacement_days"`
}

// Item is one damaged physical asset recorded by a technician.
// AgeYears is optional; nil means unknown.
type Item struct {
	ID       string   `json:"id"`
	ClaimID  string   `json:"claim_id"`
	Category Category `json:"category"`
	Material string   `json:"material"`
	AgeYears *float64 `json:"age_years,omitempty"`

	OriginalValue   float64 `json:"original_value"`
	CurrentValue    float64 `json:"current_value"`
	RestorationCost float64 `json:"restoration_cost"`
	ReplacementCost float64 `json:"replacement_cost"`

	DamageTypes  []string     `json:"damage_types"`
	DamageExtent DamageExtent `json:"damage_extent"`

	Sentimental SentimentalValue `json:"sentimental_value"`
	Risks       RiskFactors      `json:"risk_factors"`
	Timeline    Timeline         `json:"timeline"`
}

// Assessment is the derived scoring output for an item. It is recomputed on
// every read and never persisted as ground truth.
type Assessment struct {
	Score          int            `json:"score"`
	Recommendation Recommendation `json:"recommendation"`
	Reasoning      []string       `json:"reasoning"`
}
