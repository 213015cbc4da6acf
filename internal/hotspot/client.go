package hotspot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/shieldnav/saferoute-service/internal/common"
	t "github.com/shieldnav/saferoute-service/internal/types"
)

type feedRecord struct {
	ID               string  `json:"id"`
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	RiskLevel        string  `json:"risk_level"`
	PrimaryReason    string  `json:"primary_reason"`
	Description      string  `json:"description"`
	City             string  `json:"city"`
	State            string  `json:"state"`
	WeatherSensitive bool    `json:"weather_sensitive"`
	TimeSensitive    bool    `json:"time_sensitive"`
}

type feedResponse struct {
	Hotspots []feedRecord `json:"hotspots"`
}

type ClientOption func(*Client)

func BaseUrlOption(baseUrl string) ClientOption {
	return func(c *Client) {
		c.baseUrl = baseUrl
	}
}

func ApiKeyOption(apiKey string) ClientOption {
	return func(c *Client) {
		c.apiKey = apiKey
	}
}

type Client struct {
	baseUrl string
	apiKey  string
}

func New(opts ...ClientOption) *Client {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}

	if c.baseUrl == "" {
		panic("Missing baseUrl in hotspot client")
	}
	return c
}

// Fetch retrieves the full hotspot collection from the feed and maps it into
// the core's value types at the boundary.
func (c *Client) Fetch(ctx context.Context) ([]t.AccidentHotspot, error) {
	req, err := url.Parse(fmt.Sprintf("%v/hotspots", c.baseUrl))
	if err != nil {
		err = errors.New(fmt.Sprintf("failed to parse hotspot feed url %s: %s", c.baseUrl, err.Error()))
		return nil, err
	}

	if c.apiKey != "" {
		q := req.Query()
		q.Add("access_key", c.apiKey)
		req.RawQuery = q.Encode()
	}

	ctxReq, _ := http.NewRequestWithContext(ctx, "GET", req.String(), nil)
	resp, err := common.GetWithRetry(ctxReq, "hotspot feed")
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		err = errors.New(fmt.Sprintf("error reading hotspot feed response body: %s", err.Error()))
		return nil, err
	}

	var respObj feedResponse
	err = json.Unmarshal(body, &respObj)
	if err != nil {
		err = errors.New(fmt.Sprintf("error unmarshalling response from hotspot feed: %s", err.Error()))
		return nil, err
	}

	return hotspotsFromFeed(respObj.Hotspots), nil
}

func hotspotsFromFeed(records []feedRecord) []t.AccidentHotspot {
	var hotspots []t.AccidentHotspot
	for _, r := range records {
		hotspots = append(hotspots, t.AccidentHotspot{
			ID:               r.ID,
			Location:         t.Coordinate{Latitude: r.Lat, Longitude: r.Lng},
			RiskLevel:        t.RiskLevel(r.RiskLevel),
			PrimaryReason:    r.PrimaryReason,
			Description:      r.Description,
			City:             r.City,
			State:            r.State,
			WeatherSensitive: r.WeatherSensitive,
			TimeSensitive:    r.TimeSensitive,
		})
	}
	return hotspots
}
