package types

import "time"

type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// RoutePath is an ordered driving path from origin to destination.
// Produced once by the routing provider, consumed read-only.
type RoutePath []Coordinate

type Trip struct {
	From *Coordinate
	To   *Coordinate
}

type Place struct {
	Name        string     `json:"name"`
	DisplayName string     `json:"displayName"`
	Location    Coordinate `json:"location"`
}

type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

// AccidentHotspot is a point flagged as historically accident-prone.
// PrimaryReason is an open enum; unknown values must not break scoring.
type AccidentHotspot struct {
	ID               string     `json:"id"`
	Location         Coordinate `json:"location"`
	RiskLevel        RiskLevel  `json:"riskLevel"`
	PrimaryReason    string     `json:"primaryReason"`
	Description      string     `json:"description,omitempty"`
	City             string     `json:"city,omitempty"`
	State            string     `json:"state,omitempty"`
	WeatherSensitive bool       `json:"weatherSensitive,omitempty"`
	TimeSensitive    bool       `json:"timeSensitive,omitempty"`
}

// Conditions is the current weather at a single query point, treated as
// representative of the whole route for one scoring pass.
type Conditions struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

// RouteCandidate is one alternative returned by the routing provider.
type RouteCandidate struct {
	ID             string    `json:"id"`
	Geometry       RoutePath `json:"geometry"`
	DistanceMeters float64   `json:"distanceMeters"`
	DurationSecs   float64   `json:"durationSeconds"`
}

type Classification string

const (
	ClassSafest   Classification = "safest"
	ClassBalanced Classification = "balanced"
	ClassFastest  Classification = "fastest"
)

type RouteOption struct {
	ID              string         `json:"id"`
	Classification  Classification `json:"classification"`
	Label           string         `json:"label"`
	Duration        string         `json:"duration"`
	Distance        string         `json:"distance"`
	SafetyScore     int            `json:"safetyScore"`
	HotspotsCrossed int            `json:"hotspotsCrossed"`
	Explanations    []string       `json:"explanations"`
	Geometry        RoutePath      `json:"geometry"`
}

// Position is a single live location update from the position stream.
type Position struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	HeadingDegrees float64 `json:"headingDegrees,omitempty"`
	SpeedKmh       float64 `json:"speedKmh,omitempty"`
}

func (p Position) Coordinate() Coordinate {
	return Coordinate{Latitude: p.Latitude, Longitude: p.Longitude}
}

// AlertEvent is emitted once per hotspot per navigation session.
type AlertEvent struct {
	HotspotID       string        `json:"hotspotId"`
	ReasonLabel     string        `json:"reasonLabel"`
	Message         string        `json:"message"`
	DisplayDuration time.Duration `json:"displayDuration"`
}
