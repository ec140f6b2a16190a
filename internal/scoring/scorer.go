package scoring

import "fmt"

// Scoring starts from a neutral base and adds or subtracts fixed,
// hand-authored weights per factor. The result is clamped to [0,100].
const (
	baseScore = 50
	minScore  = 0
	maxScore  = 100
)

// Cost-ratio bands (restoration cost / replacement cost).
const (
	ratioExcellent = 0.3
	ratioGood      = 0.5
	ratioFair      = 0.7
	ratioPoor      = 0.9
)

// Recommendation thresholds, applied after clamping.
const (
	restoreThreshold  = 75
	evaluateThreshold = 50
)

// Score computes the viability assessment for one item. It is pure and
// total: every validated item produces a result, and identical inputs
// always produce identical outputs.
func Score(item Item) Assessment {
	score := baseScore
	var reasons []string

	add := func(delta int, reason string) {
		score += delta
		reasons = append(reasons, reason)
	}

	// Cost ratio. A zero replacement cost means replacement is effectively
	// free of comparison, so restoration gets the most favorable band.
	var ratio float64
	if item.ReplacementCost > 0 {
		ratio = item.RestorationCost / item.ReplacementCost
	}
	switch {
	case ratio < ratioExcellent:
		add(30, fmt.Sprintf("restoration cost is %.0f%% of replacement: strongly favors restoring", ratio*100))
	case ratio < ratioGood:
		add(20, fmt.Sprintf("restoration cost is %.0f%% of replacement: favors restoring", ratio*100))
	case ratio < ratioFair:
		add(10, fmt.Sprintf("restoration cost is %.0f%% of replacement: slightly favors restoring", ratio*100))
	case ratio < ratioPoor:
		add(-10, fmt.Sprintf("restoration cost is %.0f%% of replacement: approaching replacement cost", ratio*100))
	default:
		add(-20, fmt.Sprintf("restoration cost is %.0f%% of replacement: restoring is not cost-effective", ratio*100))
	}

	switch item.DamageExtent {
	case DamageMinor:
		add(25, "minor damage is readily restorable")
	case DamageModerate:
		add(15, "moderate damage is restorable with effort")
	case DamageSevere:
		add(-10, "severe damage limits restoration outcomes")
	case DamageTotal:
		add(-25, "total damage leaves little to restore")
	}

	switch item.Sentimental {
	case SentimentIrreplaceable:
		add(20, "irreplaceable sentimental value")
	case SentimentHigh:
		add(15, "high sentimental value")
	case SentimentMedium:
		add(10, "medium sentimental value")
	case SentimentLow:
		add(5, "low sentimental value")
	}

	highs, mediums := item.Risks.count()
	switch {
	case highs >= 1:
		add(-15, "high risk factors present")
	case mediums >= 2:
		add(-10, "multiple medium risk factors")
	case mediums == 1:
		add(-5, "one medium risk factor")
	}

	if item.AgeYears != nil {
		switch age := *item.AgeYears; {
		case age < 5:
			add(10, "item is under 5 years old")
		case age < 15:
			add(5, "item is under 15 years old")
		case age > 25:
			add(-5, "item is over 25 years old")
		}
	}

	if item.Timeline.RestorationDays < item.Timeline.ReplacementDays {
		add(5, "restoration is faster than replacement")
	}

	if score < minScore {
		score = minScore
	}
	if score > maxScore {
		score = maxScore
	}

	rec, reasons := recommend(item, score, reasons)

	return Assessment{
		Score:          score,
		Recommendation: rec,
		Reasoning:      reasons,
	}
}

// recommend maps a clamped score to a categorical recommendation. The rules
// are ordered: an irreplaceable item that is not a total loss is always
// restored, and a high health risk pushes a low score toward disposal
// rather than replacement.
func recommend(item Item, score int, reasons []string) (Recommendation, []string) {
	if item.Sentimental == SentimentIrreplaceable && item.DamageExtent != DamageTotal {
		reasons = append(reasons, "irreplaceable item: restoration recommended regardless of cost")
		return RecommendRestore, reasons
	}
	if score >= restoreThreshold {
		return RecommendRestore, reasons
	}
	if score >= evaluateThreshold {
		return RecommendEvaluate, reasons
	}
	highs, _ := item.Risks.count()
	if highs >= 1 && item.Risks.HealthConcerns == RiskHigh {
		return RecommendDispose, reasons
	}
	return RecommendReplace, reasons
}

// count returns how many of the three risk factors are high and how many
// are medium.
func (r RiskFactors) count() (highs, mediums int) {
	for _, level := range []RiskLevel{r.FurtherDamage, r.HealthConcerns, r.StructuralImpact} {
		switch level {
		case RiskHigh:
			highs++
		case RiskMedium:
			mediums++
		}
	}
	return highs, mediums
}
