package nominatim

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchBody = `[
	{"place_id":1,"lat":"16.5062","lon":"80.6480","display_name":"Vijayawada, NTR, Andhra Pradesh, India"},
	{"place_id":2,"lat":"not-a-number","lon":"80.0","display_name":"Broken Result"},
	{"place_id":3,"lat":"16.3067","lon":"80.4365","display_name":"Guntur, Andhra Pradesh, India"}
]`

func TestSearch_MapsResults(tt *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(tt, "/search", r.URL.Path)
		assert.Equal(tt, "json", r.URL.Query().Get("format"))
		assert.Equal(tt, "in", r.URL.Query().Get("countrycodes"))
		w.WriteHeader(200)
		_, _ = w.Write([]byte(searchBody))
	}))
	defer server.Close()

	client := New(BaseUrlOption(server.URL), CountryCodesOption("in"))
	places, err := client.Search(context.Background(), "vijayawada", 5)
	require.NoError(tt, err)

	// The unparseable result is skipped at the boundary.
	require.Len(tt, places, 2)
	assert.Equal(tt, "Vijayawada", places[0].Name)
	assert.Equal(tt, 16.5062, places[0].Location.Latitude)
	assert.Equal(tt, 80.6480, places[0].Location.Longitude)
	assert.Equal(tt, "Guntur", places[1].Name)
}

func TestSearch_BlankQueryShortCircuits(tt *testing.T) {
	client := New(BaseUrlOption("http://localhost:9"))

	places, err := client.Search(context.Background(), "   ", 5)
	require.NoError(tt, err)
	assert.Empty(tt, places)
}

func TestGeoCode(tt *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(tt, "1", r.URL.Query().Get("limit"))
		w.WriteHeader(200)
		_, _ = w.Write([]byte(searchBody))
	}))
	defer server.Close()

	client := New(BaseUrlOption(server.URL))
	coord, err := client.GeoCode(context.Background(), "vijayawada")
	require.NoError(tt, err)
	require.NotNil(tt, coord)
	assert.Equal(tt, 16.5062, coord.Latitude)
}

func TestGeoCode_UnrecognizedAddress(tt *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := New(BaseUrlOption(server.URL))
	coord, err := client.GeoCode(context.Background(), "zzzzzz")
	require.NoError(tt, err)
	assert.Nil(tt, coord)
}
