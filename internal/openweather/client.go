package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shieldnav/saferoute-service/internal/common"
	t "github.com/shieldnav/saferoute-service/internal/types"
)

type Response struct {
	Weather []Conditions `json:"weather"`
}

type Conditions struct {
	Id          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
}

type ClientOption func(*Client)

type Client struct {
	apiKey  string
	baseUrl string
}

func ApiKeyOption(apiKey string) ClientOption {
	return func(c *Client) {
		c.apiKey = apiKey
	}
}

func BaseUrlOption(baseUrl string) ClientOption {
	return func(c *Client) {
		c.baseUrl = baseUrl
	}
}

func New(opts ...ClientOption) *Client {
	c := &Client{}

	for _, opt := range opts {
		opt(c)
	}

	if c.apiKey == "" {
		panic("Missing apikey in openweather client")
	}
	if c.baseUrl == "" {
		panic("Missing baseUrl in openweather client")
	}
	return c
}

// CurrentConditions fetches the current weather at a single point. The
// caller treats it as representative of the whole route for one scoring
// pass.
func (c Client) CurrentConditions(ctx context.Context, coord t.Coordinate) (*t.Conditions, error) {
	req, err := url.Parse(c.baseUrl)
	if err != nil {
		err = errors.New(fmt.Sprintf("failed to parse baseUrl %s: %s", c.baseUrl, err.Error()))
		return nil, err
	}

	q := req.Query()
	q.Add("appid", c.apiKey)
	q.Add("lat", strconv.FormatFloat(coord.Latitude, 'f', -1, 64))
	q.Add("lon", strconv.FormatFloat(coord.Longitude, 'f', -1, 64))
	q.Add("units", "metric")
	req.RawQuery = q.Encode()

	ctxReq, _ := http.NewRequestWithContext(ctx, "GET", req.String(), nil)
	resp, err := common.GetWithRetry(ctxReq, "openweather")
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		err = errors.New(fmt.Sprintf("error reading body of response: %s", err.Error()))
		return nil, err
	}

	var respObj Response
	err = json.Unmarshal(body, &respObj)
	if err != nil {
		err = errors.New(fmt.Sprintf("error unmarshalling response from openweather: %s", err.Error()))
		return nil, err
	}

	if len(respObj.Weather) == 0 {
		return nil, errors.New("no weather conditions in openweather response")
	}

	return &t.Conditions{
		Main:        respObj.Weather[0].Main,
		Description: respObj.Weather[0].Description,
	}, nil
}
