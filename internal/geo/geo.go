package geo

import (
	"math"

	t "github.com/shieldnav/saferoute-service/internal/types"
)

const earthRadiusKm = 6371

// DistanceKm returns the great-circle distance between two coordinates in
// kilometers, using the haversine formula.
func DistanceKm(a, b t.Coordinate) float64 {
	if a == b {
		return 0
	}

	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

type Strategy string

const (
	StrategyInterval Strategy = "interval"
	StrategyStride   Strategy = "stride"
)

// Sampler reduces a dense route polyline to a sparser set of representative
// points so proximity checks stay cheap on long routes. Both strategies keep
// the first and last point of the path.
type Sampler struct {
	Strategy   Strategy
	IntervalKm float64
	Stride     int
}

func DefaultSampler() Sampler {
	return Sampler{Strategy: StrategyInterval, IntervalKm: 2, Stride: 10}
}

func (s Sampler) Sample(path t.RoutePath) []t.Coordinate {
	if s.Strategy == StrategyStride {
		return SampleEveryNth(path, s.Stride)
	}
	return SampleByInterval(path, s.IntervalKm)
}

// SampleByInterval walks the path accumulating segment distances and emits a
// point whenever the accumulator reaches intervalKm, then resets it.
func SampleByInterval(path t.RoutePath, intervalKm float64) []t.Coordinate {
	if len(path) == 0 {
		return nil
	}
	if intervalKm <= 0 {
		intervalKm = 2
	}

	points := []t.Coordinate{path[0]}
	accumulated := 0.0
	for i := 1; i < len(path); i++ {
		accumulated += DistanceKm(path[i-1], path[i])
		if accumulated >= intervalKm {
			points = append(points, path[i])
			accumulated = 0
		}
	}

	last := path[len(path)-1]
	if points[len(points)-1] != last {
		points = append(points, last)
	}
	return points
}

// SampleEveryNth takes every nth raw vertex. Suitable when the provider's
// path already has near-uniform vertex spacing.
func SampleEveryNth(path t.RoutePath, n int) []t.Coordinate {
	if len(path) == 0 {
		return nil
	}
	if n <= 1 {
		return append([]t.Coordinate(nil), path...)
	}

	var points []t.Coordinate
	for i := 0; i < len(path); i += n {
		points = append(points, path[i])
	}

	last := path[len(path)-1]
	if points[len(points)-1] != last {
		points = append(points, last)
	}
	return points
}
