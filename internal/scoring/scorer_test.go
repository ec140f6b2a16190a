package scoring

import (
	"reflect"
	"testing"

	"pgregory.net/rapid"
)

func baseItem() Item {
	return Item{
		ID:              "item-1",
		ClaimID:         "claim-1",
		Category:        CategoryContents,
		Material:        "oak",
		OriginalValue:   1000,
		CurrentValue:    800,
		RestorationCost: 200,
		ReplacementCost: 1000,
		DamageTypes:     []string{"water"},
		DamageExtent:    DamageMinor,
		Sentimental:     SentimentNone,
		Risks:           RiskFactors{RiskNone, RiskNone, RiskNone},
		Timeline:        Timeline{RestorationDays: 3, ReplacementDays: 14},
	}
}

func agePtr(v float64) *float64 { return &v }

func TestScoreFavorableItem(t *testing.T) {
	// 50 +30 (ratio 0.2) +25 (minor) +0 +0 +10 (age<5) +5 (faster) = 120 → 100.
	item := baseItem()
	item.AgeYears = agePtr(3)

	got := Score(item)
	if got.Score != 100 {
		t.Errorf("Score = %d, want 100", got.Score)
	}
	if got.Recommendation != RecommendRestore {
		t.Errorf("Recommendation = %q, want restore", got.Recommendation)
	}
	if len(got.Reasoning) == 0 {
		t.Error("Reasoning is empty")
	}
}

func TestScoreCostRatioBands(t *testing.T) {
	tests := []struct {
		name        string
		restoration float64
		replacement float64
		wantDelta   int
	}{
		{"excellent", 200, 1000, 30},
		{"good", 400, 1000, 20},
		{"fair", 600, 1000, 10},
		{"poor", 800, 1000, -10},
		{"uneconomical", 950, 1000, -20},
		{"zero replacement cost", 500, 0, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := baseItem()
			item.DamageExtent = DamageSevere // keep other deltas fixed
			item.RestorationCost = tt.restoration
			item.ReplacementCost = tt.replacement
			item.Timeline = Timeline{RestorationDays: 10, ReplacementDays: 10}

			// 50 + band - 10 (severe).
			want := 50 + tt.wantDelta - 10
			got := Score(item)
			if got.Score != want {
				t.Errorf("Score = %d, want %d", got.Score, want)
			}
		})
	}
}

func TestScoreDamageExtent(t *testing.T) {
	tests := []struct {
		extent DamageExtent
		want   int
	}{
		{DamageMinor, 50 + 30 + 25 + 5},
		{DamageModerate, 50 + 30 + 15 + 5},
		{DamageSevere, 50 + 30 - 10 + 5},
		{DamageTotal, 50 + 30 - 25 + 5},
	}
	for _, tt := range tests {
		t.Run(string(tt.extent), func(t *testing.T) {
			item := baseItem()
			item.DamageExtent = tt.extent
			if got := Score(item).Score; got != tt.want {
				t.Errorf("Score = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScoreRiskFactors(t *testing.T) {
	tests := []struct {
		name  string
		risks RiskFactors
		delta int
	}{
		{"no risk", RiskFactors{RiskNone, RiskNone, RiskNone}, 0},
		{"one high", RiskFactors{RiskHigh, RiskNone, RiskNone}, -15},
		{"high beats mediums", RiskFactors{RiskHigh, RiskMedium, RiskMedium}, -15},
		{"two medium", RiskFactors{RiskMedium, RiskMedium, RiskNone}, -10},
		{"one medium", RiskFactors{RiskMedium, RiskNone, RiskNone}, -5},
		{"lows are neutral", RiskFactors{RiskLow, RiskLow, RiskLow}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := baseItem()
			item.Risks = tt.risks
			want := 50 + 30 + 25 + 5 + tt.delta
			if want > 100 {
				want = 100
			}
			if got := Score(item).Score; got != want {
				t.Errorf("Score = %d, want %d", got, want)
			}
		})
	}
}

func TestScoreAgeBands(t *testing.T) {
	tests := []struct {
		name  string
		age   *float64
		delta int
	}{
		{"unknown age", nil, 0},
		{"under 5", agePtr(3), 10},
		{"under 15", agePtr(10), 5},
		{"15 to 25 is neutral", agePtr(20), 0},
		{"over 25", agePtr(30), -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := baseItem()
			item.DamageExtent = DamageSevere
			item.AgeYears = tt.age
			want := 50 + 30 - 10 + 5 + tt.delta
			if got := Score(item).Score; got != want {
				t.Errorf("Score = %d, want %d", got, want)
			}
		})
	}
}

func TestRecommendationOrdering(t *testing.T) {
	t.Run("irreplaceable overrides low score", func(t *testing.T) {
		item := baseItem()
		item.Sentimental = SentimentIrreplaceable
		item.DamageExtent = DamageSevere
		item.RestorationCost = 950
		item.ReplacementCost = 1000
		item.Risks = RiskFactors{RiskHigh, RiskHigh, RiskHigh}

		got := Score(item)
		if got.Recommendation != RecommendRestore {
			t.Errorf("Recommendation = %q, want restore", got.Recommendation)
		}
		last := got.Reasoning[len(got.Reasoning)-1]
		if last != "irreplaceable item: restoration recommended regardless of cost" {
			t.Errorf("missing override reasoning, got %q", last)
		}
	})

	t.Run("irreplaceable total loss is not forced", func(t *testing.T) {
		item := baseItem()
		item.Sentimental = SentimentIrreplaceable
		item.DamageExtent = DamageTotal
		item.RestorationCost = 950
		item.ReplacementCost = 1000

		// 50 -20 -25 +20 +5 = 30 → below evaluate, no high health risk.
		got := Score(item)
		if got.Recommendation != RecommendReplace {
			t.Errorf("Recommendation = %q, want replace", got.Recommendation)
		}
	})

	t.Run("high health risk disposes instead of replacing", func(t *testing.T) {
		item := baseItem()
		item.DamageExtent = DamageTotal
		item.RestorationCost = 950
		item.ReplacementCost = 1000
		item.Risks = RiskFactors{RiskNone, RiskHigh, RiskNone}

		got := Score(item)
		if got.Recommendation != RecommendDispose {
			t.Errorf("Recommendation = %q, want dispose", got.Recommendation)
		}
	})

	t.Run("evaluate band", func(t *testing.T) {
		item := baseItem()
		item.DamageExtent = DamageSevere
		item.RestorationCost = 600
		item.ReplacementCost = 1000
		// 50 +10 -10 +5 = 55.
		got := Score(item)
		if got.Recommendation != RecommendEvaluate {
			t.Errorf("Recommendation = %q, want evaluate (score %d)", got.Recommendation, got.Score)
		}
	})
}

func drawItem(rt *rapid.T) Item {
	item := Item{
		ID:              rapid.StringMatching(`item-[a-z0-9]{4}`).Draw(rt, "id"),
		Category:        rapid.SampledFrom([]Category{CategoryStructural, CategoryFlooring, CategoryFixtures, CategoryContents, CategorySpecialty}).Draw(rt, "category"),
		RestorationCost: rapid.Float64Range(0, 50000).Draw(rt, "restoration_cost"),
		ReplacementCost: rapid.Float64Range(0, 50000).Draw(rt, "replacement_cost"),
		DamageTypes:     []string{"water"},
		DamageExtent:    rapid.SampledFrom([]DamageExtent{DamageMinor, DamageModerate, DamageSevere, DamageTotal}).Draw(rt, "extent"),
		Sentimental:     rapid.SampledFrom([]SentimentalValue{SentimentNone, SentimentLow, SentimentMedium, SentimentHigh, SentimentIrreplaceable}).Draw(rt, "sentimental"),
		Risks: RiskFactors{
			FurtherDamage:    rapid.SampledFrom([]RiskLevel{RiskNone, RiskLow, RiskMedium, RiskHigh}).Draw(rt, "further"),
			HealthConcerns:   rapid.SampledFrom([]RiskLevel{RiskNone, RiskLow, RiskMedium, RiskHigh}).Draw(rt, "health"),
			StructuralImpact: rapid.SampledFrom([]RiskLevel{RiskNone, RiskLow, RiskMedium, RiskHigh}).Draw(rt, "structural"),
		},
		Timeline: Timeline{
			RestorationDays: rapid.IntRange(1, 90).Draw(rt, "restoration_days"),
			ReplacementDays: rapid.IntRange(1, 90).Draw(rt, "replacement_days"),
		},
	}
	if rapid.Bool().Draw(rt, "has_age") {
		item.AgeYears = agePtr(rapid.Float64Range(0, 60).Draw(rt, "age"))
	}
	return item
}

func TestScoreDeterministic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		item := drawItem(rt)
		a, b := Score(item), Score(item)
		if !reflect.DeepEqual(a, b) {
			rt.Fatalf("Score not deterministic: %+v vs %+v", a, b)
		}
	})
}

func TestScoreBounded(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		item := drawItem(rt)
		got := Score(item)
		if got.Score < 0 || got.Score > 100 {
			rt.Fatalf("Score = %d, want within [0,100]", got.Score)
		}
	})
}

func TestIrreplaceableAlwaysRestored(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		item := drawItem(rt)
		item.Sentimental = SentimentIrreplaceable
		if item.DamageExtent == DamageTotal {
			item.DamageExtent = DamageSevere
		}
		if got := Score(item); got.Recommendation != RecommendRestore {
			rt.Fatalf("Recommendation = %q, want restore", got.Recommendation)
		}
	})
}

func TestScoreMonotonicInRestorationCost(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		item := drawItem(rt)
		cheaper := item
		// Decreasing restoration cost never decreases the score.
		cheaper.RestorationCost = item.RestorationCost * rapid.Float64Range(0, 1).Draw(rt, "shrink")
		if Score(cheaper).Score < Score(item).Score {
			rt.Fatalf("cheaper restoration (%f vs %f) lowered score",
				cheaper.RestorationCost, item.RestorationCost)
		}
	})
}
