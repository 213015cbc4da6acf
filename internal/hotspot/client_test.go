package hotspot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	t "github.com/shieldnav/saferoute-service/internal/types"
)

func TestHotspotsFromFeed(tt *testing.T) {
	records := []feedRecord{
		{
			ID:               "h1",
			Lat:              16.5062,
			Lng:              80.6480,
			RiskLevel:        "high",
			PrimaryReason:    "sharp_curves",
			Description:      "ghat section with blind turns",
			City:             "Vijayawada",
			State:            "AP",
			WeatherSensitive: true,
		},
		{ID: "h2", Lat: 17.3850, Lng: 78.4867, RiskLevel: "experimental"},
	}

	hotspots := hotspotsFromFeed(records)
	require.Len(tt, hotspots, 2)

	assert.Equal(tt, "h1", hotspots[0].ID)
	assert.Equal(tt, t.RiskHigh, hotspots[0].RiskLevel)
	assert.Equal(tt, 16.5062, hotspots[0].Location.Latitude)
	assert.True(tt, hotspots[0].WeatherSensitive)
	assert.False(tt, hotspots[0].TimeSensitive)

	// Unknown risk levels pass through; the scorer handles the fallback.
	assert.Equal(tt, t.RiskLevel("experimental"), hotspots[1].RiskLevel)

	assert.Empty(tt, hotspotsFromFeed(nil))
}
