package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	t "github.com/shieldnav/saferoute-service/internal/types"
)

func TestDistanceKm_Identity(tt *testing.T) {
	points := []t.Coordinate{
		{Latitude: 0, Longitude: 0},
		{Latitude: 16.5062, Longitude: 80.6480},
		{Latitude: -33.8688, Longitude: 151.2093},
	}
	for _, p := range points {
		assert.Zero(tt, DistanceKm(p, p))
	}
}

func TestDistanceKm_Symmetry(tt *testing.T) {
	a := t.Coordinate{Latitude: 16.5062, Longitude: 80.6480}
	b := t.Coordinate{Latitude: 17.3850, Longitude: 78.4867}

	ab := DistanceKm(a, b)
	ba := DistanceKm(b, a)
	assert.InEpsilon(tt, ab, ba, 1e-6)
}

func TestDistanceKm_EquatorDegree(tt *testing.T) {
	// One degree of latitude at the equator is ~111 km.
	a := t.Coordinate{Latitude: 0, Longitude: 0}
	b := t.Coordinate{Latitude: 1, Longitude: 0}

	assert.InDelta(tt, 111.2, DistanceKm(a, b), 1.2)
}

func TestDistanceKm_KnownRoute(tt *testing.T) {
	// Vijayawada to Guntur, ~29 km great-circle.
	a := t.Coordinate{Latitude: 16.5062, Longitude: 80.6480}
	b := t.Coordinate{Latitude: 16.3067, Longitude: 80.4365}

	assert.InDelta(tt, 31.5, DistanceKm(a, b), 2.0)
}

func TestSampleByInterval_EmptyAndSinglePoint(tt *testing.T) {
	assert.Empty(tt, SampleByInterval(nil, 2))

	single := t.RoutePath{{Latitude: 16.5, Longitude: 80.6}}
	got := SampleByInterval(single, 2)
	require.Len(tt, got, 1)
	assert.Equal(tt, single[0], got[0])
}

func TestSampleByInterval_KeepsEndpoints(tt *testing.T) {
	// ~0.9 km between consecutive vertices.
	var path t.RoutePath
	for i := 0; i < 50; i++ {
		path = append(path, t.Coordinate{Latitude: 16.5 + float64(i)*0.008, Longitude: 80.6})
	}

	got := SampleByInterval(path, 2)
	require.NotEmpty(tt, got)
	assert.Equal(tt, path[0], got[0])
	assert.Equal(tt, path[len(path)-1], got[len(got)-1])
	assert.Less(tt, len(got), len(path))
}

func TestSampleByInterval_ShortPathStillHasBothEnds(tt *testing.T) {
	path := t.RoutePath{
		{Latitude: 16.5000, Longitude: 80.6000},
		{Latitude: 16.5005, Longitude: 80.6005},
	}

	got := SampleByInterval(path, 2)
	require.Len(tt, got, 2)
	assert.Equal(tt, path[0], got[0])
	assert.Equal(tt, path[1], got[1])
}

func TestSampleEveryNth(tt *testing.T) {
	var path t.RoutePath
	for i := 0; i < 25; i++ {
		path = append(path, t.Coordinate{Latitude: float64(i), Longitude: 0})
	}

	got := SampleEveryNth(path, 10)
	require.Len(tt, got, 4) // vertices 0, 10, 20 plus the final one
	assert.Equal(tt, path[0], got[0])
	assert.Equal(tt, path[24], got[3])

	assert.Empty(tt, SampleEveryNth(nil, 10))
	assert.Len(tt, SampleEveryNth(path, 1), len(path))
}

func TestSampler_StrategySelection(tt *testing.T) {
	var path t.RoutePath
	for i := 0; i < 40; i++ {
		path = append(path, t.Coordinate{Latitude: 16.5 + float64(i)*0.01, Longitude: 80.6})
	}

	interval := Sampler{Strategy: StrategyInterval, IntervalKm: 2}.Sample(path)
	stride := Sampler{Strategy: StrategyStride, Stride: 10}.Sample(path)

	assert.NotEmpty(tt, interval)
	assert.NotEmpty(tt, stride)
	assert.NotEqual(tt, len(interval), len(path))
	assert.Equal(tt, 5, len(stride))
}
