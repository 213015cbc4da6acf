package risk

import (
	"encoding/json"
	"os"
	"time"

	t "github.com/shieldnav/saferoute-service/internal/types"
)

// Config holds every tunable of the scoring and alerting pipeline. Defaults
// are the canonical values; a JSON file can override any subset.
type Config struct {
	// Base penalty per nearby hotspot, keyed by risk level.
	Penalties map[t.RiskLevel]float64 `json:"penalties"`

	// Weather multipliers keyed by condition main label, then hotspot
	// primary reason.
	WeatherMultipliers map[string]map[string]float64 `json:"weatherMultipliers"`

	// Applied when a hotspot is weather-sensitive but no specific
	// condition/reason multiplier is configured.
	DefaultWeatherMultiplier float64 `json:"defaultWeatherMultiplier"`

	NightMultiplier float64 `json:"nightMultiplier"`
	NightStartHour  int     `json:"nightStartHour"`
	NightEndHour    int     `json:"nightEndHour"`

	// Floor of the safety score. Kept above zero so the user is never shown
	// an absolute-zero "no safety" reading.
	ScoreFloor float64 `json:"scoreFloor"`

	SampleIntervalKm float64 `json:"sampleIntervalKm"`
	SampleStride     int     `json:"sampleStride"`

	// Tight radius for batch route scoring, wide radius for advance warning
	// while driving.
	RouteRadiusKm float64 `json:"routeRadiusKm"`
	AlertRadiusKm float64 `json:"alertRadiusKm"`

	AlertDisplayDuration time.Duration `json:"alertDisplayDuration"`
}

func DefaultConfig() Config {
	return Config{
		Penalties: map[t.RiskLevel]float64{
			t.RiskHigh:   30,
			t.RiskMedium: 15,
			t.RiskLow:    5,
		},
		WeatherMultipliers: map[string]map[string]float64{
			"Rain": {
				"heavy_rain":   1.5,
				"poor_road":    1.3,
				"sharp_curves": 1.2,
			},
			"Thunderstorm": {
				"heavy_rain":   1.6,
				"poor_road":    1.4,
				"sharp_curves": 1.3,
			},
			"Fog": {
				"fog":            1.5,
				"night_patterns": 1.4,
				"sharp_curves":   1.3,
			},
			"Mist": {
				"fog":            1.3,
				"night_patterns": 1.2,
			},
		},
		DefaultWeatherMultiplier: 1.5,
		NightMultiplier:          1.3,
		NightStartHour:           20,
		NightEndHour:             6,
		ScoreFloor:               10,
		SampleIntervalKm:         2,
		SampleStride:             10,
		RouteRadiusKm:            0.5,
		AlertRadiusKm:            2,
		AlertDisplayDuration:     8 * time.Second,
	}
}

// LoadConfig reads overrides from a JSON file on top of the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// IsNightAt checks the configured night window, handling the wraparound
// across midnight (e.g. 20:00-06:00).
func (c Config) IsNightAt(at time.Time) bool {
	hour := at.Hour()
	return hour >= c.NightStartHour || hour < c.NightEndHour
}

// ReasonLabels maps causal tags to display names used in alerts and
// explanations. Unknown tags fall back to the raw tag.
var ReasonLabels = map[string]string{
	"sharp_curves":   "Sharp Curves",
	"heavy_traffic":  "Heavy Traffic",
	"high_speed":     "High Speed Zone",
	"poor_road":      "Poor Road Conditions",
	"heavy_rain":     "Heavy Rain Area",
	"fog":            "Fog Prone Zone",
	"night_patterns": "Night Risk Area",
}

func ReasonLabel(reason string) string {
	if label, ok := ReasonLabels[reason]; ok {
		return label
	}
	return reason
}
