package osrm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/twpayne/go-polyline"

	"github.com/shieldnav/saferoute-service/internal/common"
	t "github.com/shieldnav/saferoute-service/internal/types"
)

// ErrNoRoute distinguishes "no route found" from provider failure so the
// caller can surface an explicit empty result instead of a zero-score route.
var ErrNoRoute = errors.New("no route found between origin and destination")

type Response struct {
	Code   string  `json:"code"`
	Routes []Route `json:"routes"`
}

type Route struct {
	Geometry   string  `json:"geometry"`
	WeightName string  `json:"weight_name"`
	Weight     float64 `json:"weight"`
	Duration   float64 `json:"duration"`
	Distance   float64 `json:"distance"`
}

type ClientOption func(*Client)

type Client struct {
	baseUrl      string
	alternatives int
}

func BaseUrlOption(baseUrl string) ClientOption {
	return func(c *Client) {
		c.baseUrl = baseUrl
	}
}

func AlternativesOption(n int) ClientOption {
	return func(c *Client) {
		c.alternatives = n
	}
}

func New(opts ...ClientOption) *Client {
	c := &Client{alternatives: 3}
	for _, opt := range opts {
		opt(c)
	}

	if c.baseUrl == "" {
		panic("Missing baseUrl in osrm client")
	}
	return c
}

// Routes fetches up to the configured number of alternative driving routes
// between the trip endpoints, with full-resolution geometry.
func (c *Client) Routes(ctx context.Context, trip *t.Trip) ([]t.RouteCandidate, error) {
	reqUrl := fmt.Sprintf("%v/%f,%f;%f,%f", c.baseUrl, trip.From.Longitude, trip.From.Latitude, trip.To.Longitude, trip.To.Latitude)
	req, err := url.Parse(reqUrl)
	if err != nil {
		err = errors.New(fmt.Sprintf("failed to parse osrm url %s: %s", reqUrl, err.Error()))
		return nil, err
	}

	q := req.Query()
	q.Add("alternatives", fmt.Sprintf("%d", c.alternatives))
	q.Add("overview", "full")
	q.Add("geometries", "polyline")
	req.RawQuery = q.Encode()

	ctxReq, _ := http.NewRequestWithContext(ctx, "GET", req.String(), nil)
	resp, err := common.GetWithRetry(ctxReq, "osrm")
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		err = errors.New(fmt.Sprintf("error reading osrm response body: %s", err.Error()))
		return nil, err
	}

	var respObj Response
	err = json.Unmarshal(body, &respObj)
	if err != nil {
		err = errors.New(fmt.Sprintf("error unmarshalling response from osrm: %s", err.Error()))
		return nil, err
	}

	if respObj.Code != "Ok" || len(respObj.Routes) == 0 {
		return nil, ErrNoRoute
	}

	return c.candidatesFromOSRM(respObj.Routes)
}

func (c Client) candidatesFromOSRM(routes []Route) ([]t.RouteCandidate, error) {
	var candidates []t.RouteCandidate
	for i, route := range routes {
		geometry, err := decodeGeometry(route.Geometry)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, t.RouteCandidate{
			ID:             fmt.Sprintf("osrm-route-%d", i),
			Geometry:       geometry,
			DistanceMeters: route.Distance,
			DurationSecs:   route.Duration,
		})
	}
	return candidates, nil
}

func decodeGeometry(encoded string) (t.RoutePath, error) {
	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		err = errors.New(fmt.Sprintf("error decoding osrm route geometry: %s", err.Error()))
		return nil, err
	}

	path := make(t.RoutePath, len(coords))
	for i, coord := range coords {
		path[i] = t.Coordinate{Latitude: coord[0], Longitude: coord[1]}
	}
	return path, nil
}
