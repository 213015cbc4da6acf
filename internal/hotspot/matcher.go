package hotspot

import (
	"github.com/shieldnav/saferoute-service/internal/geo"
	t "github.com/shieldnav/saferoute-service/internal/types"
)

// FindNearby returns every hotspot within radiusKm of at least one of the
// given points, in discovery order, each at most once. A hotspot is not
// re-tested once matched.
func FindNearby(points []t.Coordinate, hotspots []t.AccidentHotspot, radiusKm float64) []t.AccidentHotspot {
	matched := make(map[string]bool, len(hotspots))
	var nearby []t.AccidentHotspot

	for _, point := range points {
		for _, h := range hotspots {
			if matched[h.ID] {
				continue
			}
			if geo.DistanceKm(point, h.Location) <= radiusKm {
				matched[h.ID] = true
				nearby = append(nearby, h)
			}
		}
	}
	return nearby
}

// IsNear reports whether a single point lies within radiusKm of the hotspot.
// Used by the live alert path on each position update.
func IsNear(point t.Coordinate, h t.AccidentHotspot, radiusKm float64) bool {
	return geo.DistanceKm(point, h.Location) <= radiusKm
}
