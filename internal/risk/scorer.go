package risk

import (
	"fmt"
	"math"

	t "github.com/shieldnav/saferoute-service/internal/types"
)

type RiskFactor struct {
	Reason string  `json:"reason"`
	Impact float64 `json:"impact"`
}

type Assessment struct {
	Score        int          `json:"score"`
	Explanations []string     `json:"explanations"`
	RiskFactors  []RiskFactor `json:"riskFactors"`
}

type Scorer struct {
	cfg Config
}

func NewScorer(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score converts nearby hotspots plus ambient conditions into a safety score
// and human-readable explanations. Pure; weather may be nil. Multipliers
// compose sequentially on the same base penalty: weather first, then night.
func (s *Scorer) Score(nearby []t.AccidentHotspot, weather *t.Conditions, isNight bool) Assessment {
	totalPenalty := 0.0
	explanations := []string{}
	factors := []RiskFactor{}

	for _, h := range nearby {
		penalty := s.basePenalty(h.RiskLevel)

		if weather != nil {
			multiplier, configured := s.weatherMultiplier(weather.Main, h.PrimaryReason)
			if h.WeatherSensitive || configured {
				if !configured {
					multiplier = s.cfg.DefaultWeatherMultiplier
				}
				penalty *= multiplier
				explanations = append(explanations,
					fmt.Sprintf("%v increases risk near %v: %v", weather.Main, placeName(h), h.Description))
			}
		}

		if isNight && (h.TimeSensitive || nightSensitiveReason(h.PrimaryReason)) {
			penalty *= s.cfg.NightMultiplier
			explanations = append(explanations,
				fmt.Sprintf("Night conditions increase risk near %v", placeName(h)))
		}

		totalPenalty += penalty
		factors = append(factors, RiskFactor{Reason: h.PrimaryReason, Impact: penalty})
	}

	score := math.Max(s.cfg.ScoreFloor, math.Min(100, 100-totalPenalty))

	return Assessment{
		Score:        int(math.Round(score)),
		Explanations: explanations,
		RiskFactors:  factors,
	}
}

func (s *Scorer) basePenalty(level t.RiskLevel) float64 {
	if penalty, ok := s.cfg.Penalties[level]; ok {
		return penalty
	}
	// Unknown levels come from an evolving external feed; treat as low risk.
	return s.cfg.Penalties[t.RiskLow]
}

func (s *Scorer) weatherMultiplier(condition, reason string) (float64, bool) {
	byReason, ok := s.cfg.WeatherMultipliers[condition]
	if !ok {
		return 1, false
	}
	multiplier, ok := byReason[reason]
	return multiplier, ok
}

func nightSensitiveReason(reason string) bool {
	switch reason {
	case "night_patterns", "fog", "sharp_curves":
		return true
	}
	return false
}

func placeName(h t.AccidentHotspot) string {
	if h.City != "" {
		return h.City
	}
	return "this location"
}

type SafetyLevel string

const (
	LevelSafe    SafetyLevel = "safe"
	LevelCaution SafetyLevel = "caution"
	LevelDanger  SafetyLevel = "danger"
)

// SafetyLevelFor bands a score for display.
func SafetyLevelFor(score int) SafetyLevel {
	switch {
	case score >= 75:
		return LevelSafe
	case score >= 50:
		return LevelCaution
	default:
		return LevelDanger
	}
}
