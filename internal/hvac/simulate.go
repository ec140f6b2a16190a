package hvac

// NodeKind tags one end of a contamination path.
type NodeKind string

// Path node kinds.
const (
	NodeRoom   NodeKind = "room"
	NodeVent   NodeKind = "vent"
	NodeReturn NodeKind = "return"
)

// NodeRef identifies one end of a contamination path.
type NodeRef struct {
	Kind NodeKind `json:"kind"`
	ID   string   `json:"id"`
}

// PathSeverity grades a single spread path.
type PathSeverity string

// Path severities.
const (
	SeverityLow    PathSeverity = "low"
	SeverityMedium PathSeverity = "medium"
	SeverityHigh   PathSeverity = "high"
)

// Likelihood grades how certain a spread path is.
type Likelihood string

// Path likelihoods.
const (
	LikelihoodPossible  Likelihood = "possible"
	LikelihoodProbable  Likelihood = "probable"
	LikelihoodConfirmed Likelihood = "confirmed"
)

// Timeframe grades how quickly contamination travels a path.
type Timeframe string

// Path timeframes.
const (
	TimeframeImmediate Timeframe = "immediate"
	TimeframeHours     Timeframe = "hours"
	TimeframeDays      Timeframe = "days"
	TimeframeWeeks     Timeframe = "weeks"
)

// Path is one inferred spread relationship. Paths are ephemeral: every
// Simulate call regenerates the full set from the current vent flags.
type Path struct {
	From               NodeRef      `json:"from"`
	To                 NodeRef      `json:"to"`
	ContaminationTypes []string     `json:"contamination_types"`
	Severity           PathSeverity `json:"severity"`
	Likelihood         Likelihood   `json:"likelihood"`
	Timeframe          Timeframe    `json:"timeframe"`
}

// Result is the output of one propagation run.
type Result struct {
	Paths []Path `json:"paths"`
	Zones []Zone `json:"zones"`
}

// Ratio bands for the zone contamination level step function.
const (
	severeRatio = 0.75
	highRatio   = 0.5
	mediumRatio = 0.25
)

// Simulate derives the contamination spread snapshot for the given zones.
// It is pure with respect to its inputs (the passed zones are not mutated)
// and deterministic for identical vent flags.
//
// Propagation is single-hop: a contaminated vent reaches its zone's shared
// return air, and the return air may cross-contaminate the zone's other
// vents. Each run fully replaces the prior path set and zone levels; there
// is no time-stepped diffusion. Cost is O(total vents).
func Simulate(zones []Zone, contaminationTypes []string) Result {
	var paths []Path
	updated := make([]Zone, len(zones))

	for i, zone := range zones {
		for _, vent := range zone.SupplyVents {
			if !vent.Contaminated {
				continue
			}

			// Contamination reaching the shared return air is treated as
			// near-certain and fast.
			paths = append(paths, Path{
				From:               NodeRef{Kind: NodeVent, ID: vent.ID},
				To:                 NodeRef{Kind: NodeReturn, ID: zone.ID},
				ContaminationTypes: contaminationTypes,
				Severity:           SeverityMedium,
				Likelihood:         LikelihoodProbable,
				Timeframe:          TimeframeHours,
			})

			// The return air may push contamination back out through every
			// other clean vent in the zone. Severity follows the zone's
			// level from the prior run, not the one computed below.
			crossSeverity := SeverityLow
			if zone.ContaminationLevel == LevelHigh {
				crossSeverity = SeverityHigh
			}
			for _, other := range zone.SupplyVents {
				if other.ID == vent.ID || other.Contaminated {
					continue
				}
				paths = append(paths, Path{
					From:               NodeRef{Kind: NodeReturn, ID: zone.ID},
					To:                 NodeRef{Kind: NodeVent, ID: other.ID},
					ContaminationTypes: contaminationTypes,
					Severity:           crossSeverity,
					Likelihood:         LikelihoodPossible,
					Timeframe:          TimeframeDays,
				})
			}
		}

		z := zone
		z.SupplyVents = append([]Vent(nil), zone.SupplyVents...)
		z.ContaminationLevel = levelFor(zone.SupplyVents)
		updated[i] = z
	}

	return Result{Paths: paths, Zones: updated}
}

// levelFor maps the contaminated-vent ratio onto the severity step
// function. A zone with no vents has ratio zero by convention.
func levelFor(vents []Vent) ContaminationLevel {
	if len(vents) == 0 {
		return LevelNone
	}
	contaminated := 0
	for _, v := range vents {
		if v.Contaminated {
			contaminated++
		}
	}
	ratio := float64(contaminated) / float64(len(vents))
	switch {
	case ratio > severeRatio:
		return LevelSevere
	case ratio > highRatio:
		return LevelHigh
	case ratio > mediumRatio:
		return LevelMedium
	case ratio > 0:
		return LevelLow
	default:
		return LevelNone
	}
}
