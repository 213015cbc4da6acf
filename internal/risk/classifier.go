package risk

import (
	"fmt"
	"sort"

	t "github.com/shieldnav/saferoute-service/internal/types"
)

// ScoredRoute is a candidate that has been through the scorer.
type ScoredRoute struct {
	Candidate       t.RouteCandidate
	Assessment      Assessment
	HotspotsCrossed int
	TotalHotspots   int
}

// Classify labels candidates as safest, balanced and fastest. Safest is the
// highest score (ties broken by shortest duration), fastest the lowest
// duration (ties broken by highest score). Balanced is the first candidate
// distinct from both; with fewer than three distinct candidates it falls
// back to the safest route. Zero candidates yield nil: no route found is not
// a zero-score route.
func Classify(scored []ScoredRoute) []t.RouteOption {
	if len(scored) == 0 {
		return nil
	}

	bySafety := append([]ScoredRoute(nil), scored...)
	sort.SliceStable(bySafety, func(i, j int) bool {
		if bySafety[i].Assessment.Score != bySafety[j].Assessment.Score {
			return bySafety[i].Assessment.Score > bySafety[j].Assessment.Score
		}
		return bySafety[i].Candidate.DurationSecs < bySafety[j].Candidate.DurationSecs
	})
	safest := bySafety[0]

	bySpeed := append([]ScoredRoute(nil), scored...)
	sort.SliceStable(bySpeed, func(i, j int) bool {
		if bySpeed[i].Candidate.DurationSecs != bySpeed[j].Candidate.DurationSecs {
			return bySpeed[i].Candidate.DurationSecs < bySpeed[j].Candidate.DurationSecs
		}
		return bySpeed[i].Assessment.Score > bySpeed[j].Assessment.Score
	})
	fastest := bySpeed[0]

	balanced := safest
	for _, r := range scored {
		if r.Candidate.ID != safest.Candidate.ID && r.Candidate.ID != fastest.Candidate.ID {
			balanced = r
			break
		}
	}

	return []t.RouteOption{
		buildOption(safest, t.ClassSafest),
		buildOption(balanced, t.ClassBalanced),
		buildOption(fastest, t.ClassFastest),
	}
}

func buildOption(r ScoredRoute, class t.Classification) t.RouteOption {
	return t.RouteOption{
		ID:              fmt.Sprintf("%v-%v", r.Candidate.ID, class),
		Classification:  class,
		Label:           labelFor(class),
		Duration:        FormatDuration(r.Candidate.DurationSecs),
		Distance:        FormatDistance(r.Candidate.DistanceMeters),
		SafetyScore:     r.Assessment.Score,
		HotspotsCrossed: r.HotspotsCrossed,
		Explanations:    explanationsFor(r, class),
		Geometry:        r.Candidate.Geometry,
	}
}

func labelFor(class t.Classification) string {
	switch class {
	case t.ClassSafest:
		return "Safest Route"
	case t.ClassBalanced:
		return "Balanced Route"
	default:
		return "Fastest Route"
	}
}

func explanationsFor(r ScoredRoute, class t.Classification) []string {
	switch class {
	case t.ClassSafest:
		explanations := []string{}
		if r.HotspotsCrossed > 0 && r.TotalHotspots > r.HotspotsCrossed {
			explanations = append(explanations,
				fmt.Sprintf("Avoids %d of %d known hotspots", r.TotalHotspots-r.HotspotsCrossed, r.TotalHotspots))
		} else if r.HotspotsCrossed == 0 {
			explanations = append(explanations, "Maximum safety rating")
		}
		return append(explanations, r.Assessment.Explanations...)
	case t.ClassBalanced:
		return []string{"Optimal mix of safety & speed"}
	default:
		return []string{"Shortest travel time"}
	}
}

// FormatDuration renders seconds as whole minutes for display.
func FormatDuration(seconds float64) string {
	return fmt.Sprintf("%d min", int(seconds/60+0.5))
}

// FormatDistance renders meters as kilometers to one decimal place.
func FormatDistance(meters float64) string {
	return fmt.Sprintf("%.1f km", meters/1000)
}
