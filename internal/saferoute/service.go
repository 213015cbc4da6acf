package saferoute

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shieldnav/saferoute-service/internal/alert"
	"github.com/shieldnav/saferoute-service/internal/geo"
	"github.com/shieldnav/saferoute-service/internal/hotspot"
	"github.com/shieldnav/saferoute-service/internal/nominatim"
	"github.com/shieldnav/saferoute-service/internal/openweather"
	"github.com/shieldnav/saferoute-service/internal/osrm"
	"github.com/shieldnav/saferoute-service/internal/risk"
	t "github.com/shieldnav/saferoute-service/internal/types"
)

type RouteSearchResponse struct {
	Error   string          `json:"error,omitempty"`
	Weather *t.Conditions   `json:"weather,omitempty"`
	Routes  []t.RouteOption `json:"routes,omitempty"`
}

type PlaceSearchResponse struct {
	Error  string    `json:"error,omitempty"`
	Places []t.Place `json:"places,omitempty"`
}

type CodeError struct {
	code int
	msg  string
}

func (c CodeError) Error() string {
	return c.msg
}

type Service struct {
	nmc   *nominatim.Client
	osrm  *osrm.Client
	ow    *openweather.Client
	store *hotspot.Store
	rc    *redis.Client

	cfg     risk.Config
	scorer  *risk.Scorer
	sampler geo.Sampler

	Logger *zap.SugaredLogger
}

func New() *Service {
	s := &Service{}

	baseLogger, _ := zap.NewProduction()
	defer baseLogger.Sync()
	s.Logger = baseLogger.Sugar()

	s.cfg = risk.DefaultConfig()
	if path := os.Getenv("risk_config_path"); path != "" {
		cfg, err := risk.LoadConfig(path)
		if err != nil {
			s.Logger.Warnf("Error loading risk config from %v, using defaults: %v", path, err.Error())
		}
		s.cfg = cfg
	}
	s.scorer = risk.NewScorer(s.cfg)
	s.sampler = geo.Sampler{
		Strategy:   geo.Strategy(os.Getenv("sampling_strategy")),
		IntervalKm: s.cfg.SampleIntervalKm,
		Stride:     s.cfg.SampleStride,
	}
	if s.sampler.Strategy == "" {
		s.sampler.Strategy = geo.StrategyInterval
	}

	s.nmc = nominatim.New(
		nominatim.BaseUrlOption(os.Getenv("nominatim_baseurl")),
		nominatim.CountryCodesOption(os.Getenv("nominatim_countrycodes")),
	)

	s.osrm = osrm.New(
		osrm.BaseUrlOption(os.Getenv("osrm_baseurl")),
	)

	// Weather is optional: without a key, scoring proceeds on hotspot and
	// time factors only.
	if apiKey := os.Getenv("openweather_apikey"); apiKey != "" {
		s.ow = openweather.New(
			openweather.ApiKeyOption(apiKey),
			openweather.BaseUrlOption(os.Getenv("openweather_baseurl")),
		)
	}

	s.rc = redis.NewClient(&redis.Options{
		Addr: os.Getenv("redis_address"),
	})

	disableRedis, err := strconv.ParseBool(os.Getenv("disable_redis"))
	if err != nil {
		disableRedis = false
	}

	s.store = hotspot.NewStore(
		hotspot.New(
			hotspot.BaseUrlOption(os.Getenv("hotspot_baseurl")),
			hotspot.ApiKeyOption(os.Getenv("hotspot_apikey")),
		),
		s.Logger,
		hotspot.RedisOption(s.rc),
		hotspot.DisableRedisOption(disableRedis),
	)

	return s
}

func (s *Service) Start() {
	s.store.Start(context.Background())
	defer s.store.Stop()

	mux := http.NewServeMux()
	mux.HandleFunc("/routes", s.RoutesHandler)
	mux.HandleFunc("/places", s.PlacesHandler)

	_ = http.ListenAndServe(":80", mux)
}

func (s *Service) RoutesHandler(w http.ResponseWriter, r *http.Request) {
	resp, err := s.Routes(r.Context(), r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, resp)
}

func (s *Service) PlacesHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		s.writeError(w, CodeError{code: 400, msg: "Missing 'q' query parameter in request"})
		return
	}

	places, err := s.nmc.Search(r.Context(), query, 5)
	if err != nil {
		s.Logger.Errorw(err.Error(), "query", query, "action", "Search")
		s.writeError(w, CodeError{code: 500, msg: "Internal error searching places."})
		return
	}
	s.writeResponse(w, &PlaceSearchResponse{Places: places})
}

// Routes runs one route search end to end: geocode both endpoints, fetch
// candidate routes, score each against the hotspot snapshot plus ambient
// conditions, and classify the results.
func (s *Service) Routes(ctx context.Context, r *http.Request) (*RouteSearchResponse, error) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" {
		return nil, CodeError{code: 400, msg: "Missing 'from' query parameter in request"}
	} else if to == "" {
		return nil, CodeError{code: 400, msg: "Missing 'to' query parameter in request"}
	}

	options, weather, err := s.Plan(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return &RouteSearchResponse{Routes: options, Weather: weather}, nil
}

// Plan is the in-process search pipeline, also used by the Searcher.
func (s *Service) Plan(ctx context.Context, from, to string) ([]t.RouteOption, *t.Conditions, error) {
	trip, err := s.tripCoordinates(ctx, from, to)
	if err != nil {
		return nil, nil, err
	}

	candidates, err := s.osrm.Routes(ctx, trip)
	if err != nil {
		if errors.Is(err, osrm.ErrNoRoute) {
			return nil, nil, CodeError{code: 404, msg: "No route found between the given locations."}
		}
		s.Logger.Errorf("Error routing trip (%v,%v) to (%v,%v): %v",
			trip.From.Latitude, trip.From.Longitude, trip.To.Latitude, trip.To.Longitude, err.Error())
		return nil, nil, CodeError{code: 500, msg: "Internal error retrieving trip routes."}
	}

	weather := s.weather(ctx, candidates[0].Geometry)
	scored := s.scoreCandidates(ctx, candidates, s.store.Snapshot(), weather, time.Now())

	return risk.Classify(scored), weather, nil
}

func (s *Service) tripCoordinates(ctx context.Context, from, to string) (*t.Trip, error) {
	var fromCoord, toCoord *t.Coordinate
	g := new(errgroup.Group)

	g.Go(func() error {
		var err error
		fromCoord, err = s.geoCode(ctx, from)
		return err
	})
	g.Go(func() error {
		var err error
		toCoord, err = s.geoCode(ctx, to)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &t.Trip{
		From: fromCoord,
		To:   toCoord,
	}, nil
}

func (s *Service) geoCode(ctx context.Context, address string) (*t.Coordinate, error) {
	coord, err := s.nmc.GeoCode(ctx, address)
	if err != nil {
		s.Logger.Errorw(err.Error(),
			"address", address, "action", "GeoCode")
		return nil, CodeError{code: 500, msg: "Internal error geocoding address '" + address + "'."}
	} else if coord == nil {
		return nil, CodeError{code: 400, msg: "Unrecognized address '" + address + "'. Check spelling or be more specific."}
	}
	return coord, nil
}

// weather fetches current conditions at the route midpoint. One fetch per
// scoring pass; failure degrades to scoring without weather.
func (s *Service) weather(ctx context.Context, path t.RoutePath) *t.Conditions {
	if s.ow == nil || len(path) == 0 {
		return nil
	}

	midpoint := path[len(path)/2]
	conditions, err := s.ow.CurrentConditions(ctx, midpoint)
	if err != nil {
		s.Logger.Warnf("Error getting weather for (%v,%v), scoring without it: %v",
			midpoint.Latitude, midpoint.Longitude, err.Error())
		return nil
	}
	return conditions
}

// scoreCandidates scores each candidate independently and concurrently; the
// computations share only read-only inputs.
func (s *Service) scoreCandidates(ctx context.Context, candidates []t.RouteCandidate, hotspots []t.AccidentHotspot, weather *t.Conditions, now time.Time) []risk.ScoredRoute {
	isNight := s.cfg.IsNightAt(now)
	scored := make([]risk.ScoredRoute, len(candidates))

	g, _ := errgroup.WithContext(ctx)
	for i, candidate := range candidates {
		i, candidate := i, candidate
		g.Go(func() error {
			samples := s.sampler.Sample(candidate.Geometry)
			nearby := hotspot.FindNearby(samples, hotspots, s.cfg.RouteRadiusKm)
			scored[i] = risk.ScoredRoute{
				Candidate:       candidate,
				Assessment:      s.scorer.Score(nearby, weather, isNight),
				HotspotsCrossed: len(nearby),
				TotalHotspots:   len(hotspots),
			}
			return nil
		})
	}
	_ = g.Wait()

	return scored
}

// StartNavigation opens a live alert session against the current hotspot
// snapshot. The caller owns the session and must End it on teardown.
func (s *Service) StartNavigation() *alert.Session {
	return alert.NewSession(s.store.Snapshot(), s.cfg, s.Logger)
}

func (s *Service) writeError(w http.ResponseWriter, err error) {
	codeErr, ok := err.(CodeError)
	if ok {
		bodyBytes, _ := json.Marshal(RouteSearchResponse{Error: codeErr.Error()})
		w.WriteHeader(codeErr.code)
		io.WriteString(w, string(bodyBytes[:]))
	} else {
		w.WriteHeader(500)
		io.WriteString(w, "Internal server error")
	}
}

func (s *Service) writeResponse(w http.ResponseWriter, resp interface{}) {
	bodyBytes, _ := json.Marshal(resp)
	w.WriteHeader(200)
	io.WriteString(w, string(bodyBytes[:]))
}
