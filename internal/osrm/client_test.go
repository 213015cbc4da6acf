package osrm

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-polyline"

	t "github.com/shieldnav/saferoute-service/internal/types"
)

func encodedPath(coords [][]float64) string {
	return string(polyline.EncodeCoords(coords))
}

func routeServer(body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		_, _ = w.Write([]byte(body))
	}))
}

var testTrip = &t.Trip{
	From: &t.Coordinate{Latitude: 16.5062, Longitude: 80.6480},
	To:   &t.Coordinate{Latitude: 16.3067, Longitude: 80.4365},
}

func TestRoutes_DecodesAlternatives(tt *testing.T) {
	geomA := encodedPath([][]float64{{16.5062, 80.6480}, {16.4000, 80.5500}, {16.3067, 80.4365}})
	geomB := encodedPath([][]float64{{16.5062, 80.6480}, {16.4500, 80.4800}, {16.3067, 80.4365}})

	body := fmt.Sprintf(`{"code":"Ok","routes":[
		{"geometry":%q,"duration":1200,"distance":28500},
		{"geometry":%q,"duration":1500,"distance":31000}
	]}`, geomA, geomB)

	server := routeServer(body)
	defer server.Close()

	client := New(BaseUrlOption(server.URL))
	candidates, err := client.Routes(context.Background(), testTrip)
	require.NoError(tt, err)
	require.Len(tt, candidates, 2)

	assert.Equal(tt, "osrm-route-0", candidates[0].ID)
	assert.Equal(tt, 1200.0, candidates[0].DurationSecs)
	assert.Equal(tt, 28500.0, candidates[0].DistanceMeters)

	require.Len(tt, candidates[0].Geometry, 3)
	assert.InDelta(tt, 16.5062, candidates[0].Geometry[0].Latitude, 1e-4)
	assert.InDelta(tt, 80.6480, candidates[0].Geometry[0].Longitude, 1e-4)
	assert.InDelta(tt, 16.3067, candidates[0].Geometry[2].Latitude, 1e-4)

	assert.Equal(tt, "osrm-route-1", candidates[1].ID)
}

func TestRoutes_NoRouteIsSentinelError(tt *testing.T) {
	server := routeServer(`{"code":"NoRoute","routes":[]}`)
	defer server.Close()

	client := New(BaseUrlOption(server.URL))
	_, err := client.Routes(context.Background(), testTrip)
	assert.ErrorIs(tt, err, ErrNoRoute)
}

func TestRoutes_EmptyRouteListIsSentinelError(tt *testing.T) {
	server := routeServer(`{"code":"Ok","routes":[]}`)
	defer server.Close()

	client := New(BaseUrlOption(server.URL))
	_, err := client.Routes(context.Background(), testTrip)
	assert.ErrorIs(tt, err, ErrNoRoute)
}
