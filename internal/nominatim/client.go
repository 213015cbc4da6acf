package nominatim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shieldnav/saferoute-service/internal/common"
	t "github.com/shieldnav/saferoute-service/internal/types"
)

type searchResult struct {
	PlaceID     int64  `json:"place_id"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

type ClientOption func(*Client)

func BaseUrlOption(baseUrl string) ClientOption {
	return func(c *Client) {
		c.baseUrl = baseUrl
	}
}

func CountryCodesOption(codes string) ClientOption {
	return func(c *Client) {
		c.countryCodes = codes
	}
}

type Client struct {
	baseUrl      string
	countryCodes string
}

func New(opts ...ClientOption) *Client {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}

	if c.baseUrl == "" {
		panic("Missing baseUrl in nominatim client")
	}
	return c
}

// Search resolves free text to candidate places, best match first.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]t.Place, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 5
	}

	req, err := url.Parse(fmt.Sprintf("%v/search", c.baseUrl))
	if err != nil {
		err = errors.New(fmt.Sprintf("failed to parse nominatim baseUrl %s: %s", c.baseUrl, err.Error()))
		return nil, err
	}

	q := req.Query()
	q.Add("q", query)
	q.Add("format", "json")
	q.Add("limit", strconv.Itoa(limit))
	if c.countryCodes != "" {
		q.Add("countrycodes", c.countryCodes)
	}
	req.RawQuery = q.Encode()

	ctxReq, _ := http.NewRequestWithContext(ctx, "GET", req.String(), nil)
	resp, err := common.GetWithRetry(ctxReq, "nominatim")
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		err = errors.New(fmt.Sprintf("error reading nominatim response body: %s", err.Error()))
		return nil, err
	}

	var results []searchResult
	err = json.Unmarshal(body, &results)
	if err != nil {
		err = errors.New(fmt.Sprintf("error unmarshalling response from nominatim: %s", err.Error()))
		return nil, err
	}

	return placesFromResults(results), nil
}

// GeoCode returns the best match for a free-text location, or nil when the
// address is unrecognized.
func (c *Client) GeoCode(ctx context.Context, location string) (*t.Coordinate, error) {
	places, err := c.Search(ctx, location, 1)
	if err != nil {
		return nil, err
	}
	if len(places) == 0 {
		return nil, nil
	}
	coord := places[0].Location
	return &coord, nil
}

func placesFromResults(results []searchResult) []t.Place {
	var places []t.Place
	for _, r := range results {
		lat, latErr := strconv.ParseFloat(r.Lat, 64)
		lng, lngErr := strconv.ParseFloat(r.Lon, 64)
		if latErr != nil || lngErr != nil {
			continue
		}
		places = append(places, t.Place{
			Name:        strings.SplitN(r.DisplayName, ",", 2)[0],
			DisplayName: r.DisplayName,
			Location:    t.Coordinate{Latitude: lat, Longitude: lng},
		})
	}
	return places
}
