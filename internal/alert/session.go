package alert

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shieldnav/saferoute-service/internal/geo"
	"github.com/shieldnav/saferoute-service/internal/hotspot"
	"github.com/shieldnav/saferoute-service/internal/risk"
	t "github.com/shieldnav/saferoute-service/internal/types"
)

// Session owns the live alert state for one navigation trip. Each position
// update is processed to completion under the lock; a hotspot fires at most
// once per session no matter how often the vehicle re-enters its radius.
type Session struct {
	cfg      risk.Config
	hotspots []t.AccidentHotspot
	logger   *zap.SugaredLogger

	mu      sync.Mutex
	fired   map[string]bool
	current *t.AccidentHotspot
	muted   bool
	ended   bool
	dismiss *time.Timer
	events  chan t.AlertEvent
}

func NewSession(hotspots []t.AccidentHotspot, cfg risk.Config, logger *zap.SugaredLogger) *Session {
	return &Session{
		cfg:      cfg,
		hotspots: hotspots,
		logger:   logger,
		fired:    make(map[string]bool),
		events:   make(chan t.AlertEvent, 8),
	}
}

// Events delivers at most one alert per hotspot for the session's lifetime.
// The channel is closed by End.
func (s *Session) Events() <-chan t.AlertEvent {
	return s.events
}

// UpdatePosition evaluates one position update. Only the first qualifying
// hotspot fires; any others wait for the next update. Muted sessions fire
// nothing and mark nothing.
func (s *Session) UpdatePosition(pos t.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended || s.muted {
		return
	}

	point := pos.Coordinate()
	for i := range s.hotspots {
		h := s.hotspots[i]
		if s.fired[h.ID] {
			continue
		}
		if h.RiskLevel != t.RiskHigh {
			continue
		}
		if !hotspot.IsNear(point, h, s.cfg.AlertRadiusKm) {
			continue
		}

		s.fired[h.ID] = true
		s.current = &h
		s.scheduleDismissLocked()

		label := risk.ReasonLabel(h.PrimaryReason)
		event := t.AlertEvent{
			HotspotID:       h.ID,
			ReasonLabel:     label,
			Message:         fmt.Sprintf("Caution. Approaching high risk zone. %v.", label),
			DisplayDuration: s.cfg.AlertDisplayDuration,
		}
		select {
		case s.events <- event:
		default:
			s.logger.Warnf("Dropping alert for hotspot %v: event buffer full", h.ID)
		}
		return
	}
}

// CurrentAlert returns the hotspot currently displayed, if any.
func (s *Session) CurrentAlert() *t.AccidentHotspot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Dismiss clears the displayed alert early. The hotspot stays fired.
func (s *Session) Dismiss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

// SetMuted suppresses new alerts without clearing the fired set, so nothing
// re-alerts after unmuting.
func (s *Session) SetMuted(muted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muted = muted
}

// End tears the session down: no alert may fire afterwards and the event
// channel is closed. Idempotent.
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return
	}
	s.ended = true
	s.clearLocked()
	close(s.events)
}

func (s *Session) scheduleDismissLocked() {
	if s.dismiss != nil {
		s.dismiss.Stop()
	}
	s.dismiss = time.AfterFunc(s.cfg.AlertDisplayDuration, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.current = nil
	})
}

func (s *Session) clearLocked() {
	if s.dismiss != nil {
		s.dismiss.Stop()
		s.dismiss = nil
	}
	s.current = nil
}

// RemainingKm is the straight-line distance from the current position to the
// end of the route, for the presentation layer's remaining-distance readout.
func RemainingKm(pos t.Position, path t.RoutePath) float64 {
	if len(path) == 0 {
		return 0
	}
	return geo.DistanceKm(pos.Coordinate(), path[len(path)-1])
}

// ETA estimates arrival time from the current speed. Returns false when the
// speed is zero or the route is empty.
func ETA(pos t.Position, path t.RoutePath, now time.Time) (time.Time, bool) {
	if len(path) == 0 || pos.SpeedKmh <= 0 {
		return time.Time{}, false
	}
	remainingHours := RemainingKm(pos, path) / pos.SpeedKmh
	return now.Add(time.Duration(remainingHours * float64(time.Hour))), true
}
