package hotspot

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	t "github.com/shieldnav/saferoute-service/internal/types"
)

const cacheKey = "saferoute:hotspots"

// Store holds the current hotspot snapshot. The feed is slow-moving, so the
// snapshot is cached in redis and refreshed on a fixed cadence; a failed
// refresh keeps serving the previous snapshot.
type Store struct {
	client       *Client
	rc           *redis.Client
	disableRedis bool
	refreshEvery time.Duration
	logger       *zap.SugaredLogger

	mu       sync.RWMutex
	snapshot []t.AccidentHotspot

	stop chan struct{}
	once sync.Once
}

type StoreOption func(*Store)

func RedisOption(rc *redis.Client) StoreOption {
	return func(s *Store) {
		s.rc = rc
	}
}

func DisableRedisOption(disable bool) StoreOption {
	return func(s *Store) {
		s.disableRedis = disable
	}
}

func RefreshIntervalOption(d time.Duration) StoreOption {
	return func(s *Store) {
		s.refreshEvery = d
	}
}

func NewStore(client *Client, logger *zap.SugaredLogger, opts ...StoreOption) *Store {
	s := &Store{
		client:       client,
		refreshEvery: 30 * time.Minute,
		logger:       logger,
		stop:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the initial snapshot and begins the background refresh loop.
// A failed initial load leaves an empty snapshot, treated as "no known risk".
func (s *Store) Start(ctx context.Context) {
	s.refresh(ctx)

	go func() {
		ticker := time.NewTicker(s.refreshEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.refresh(context.Background())
			case <-s.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (s *Store) Stop() {
	s.once.Do(func() {
		close(s.stop)
	})
}

// Snapshot returns the current hotspot set. Callers treat it as immutable.
func (s *Store) Snapshot() []t.AccidentHotspot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

func (s *Store) refresh(ctx context.Context) {
	if !s.disableRedis && s.rc != nil {
		cached, err := s.rc.Get(ctx, cacheKey).Result()
		if err == nil {
			var hotspots []t.AccidentHotspot
			if err := json.Unmarshal([]byte(cached), &hotspots); err == nil {
				s.swap(hotspots)
				return
			}
			s.logger.Errorf("Error unmarshalling cached hotspots: %v", err.Error())
		} else if err != redis.Nil {
			s.logger.Errorf("Redis error fetching hotspot snapshot: %v", err.Error())
		}
	}

	hotspots, err := s.client.Fetch(ctx)
	if err != nil {
		s.logger.Warnf("Error fetching hotspot feed, keeping previous snapshot: %v", err.Error())
		return
	}
	s.swap(hotspots)

	if !s.disableRedis && s.rc != nil {
		encoded, err := json.Marshal(hotspots)
		if err == nil {
			if err := s.rc.Set(ctx, cacheKey, encoded, s.refreshEvery).Err(); err != nil {
				s.logger.Errorf("Redis error caching hotspot snapshot: %v", err.Error())
			}
		}
	}
}

func (s *Store) swap(hotspots []t.AccidentHotspot) {
	s.mu.Lock()
	s.snapshot = hotspots
	s.mu.Unlock()
}
