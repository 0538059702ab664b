package app

import (
	"context"
	"math"
	"sync"

	"github.com/rs/zerolog/log"

	"staysync/internal/domain"
)

const (
	// Fixed KV key for the last-known fix, serialized {lat,lng}.
	locationCacheKey = "user_location"
	// Cache rewrites only happen past this straight-line displacement in
	// degrees, roughly 1 km. GPS jitter below it never touches the store.
	moveThresholdDeg = 0.01
)

// LocationService reconciles the cached and the live device location.
// Cached coordinates are served immediately on Start so callers have usable
// data with zero latency; a live fix then refines them without flipping the
// loading flag. Failures keep whatever coordinates are already known.
type LocationService struct {
	mu   sync.Mutex
	st   domain.LocationState
	kv   domain.KV
	loc  domain.Locator
	subs []func(domain.LocationState)
}

func NewLocationService(kv domain.KV, loc domain.Locator) *LocationService {
	return &LocationService{
		kv:  kv,
		loc: loc,
		st:  domain.LocationState{Loading: true},
	}
}

// Start loads the cache, checks the current permission and, when already
// granted, acquires a fresh fix. It never prompts.
func (s *LocationService) Start(ctx context.Context) {
	s.loadCache(ctx)

	status, err := s.loc.Status(ctx)
	if err != nil {
		s.apply(func(st *domain.LocationState) {
			st.Err = "Failed to check location permission"
			st.Loading = false
		})
		return
	}
	if status != domain.PermissionGranted {
		s.apply(func(st *domain.LocationState) {
			st.HasPermission = false
			st.PermissionDenied = status == domain.PermissionDenied
			st.Loading = false
		})
		return
	}
	// permission already held: refine silently, cached data is on screen
	s.acquire(ctx)
}

// RequestPermission is the explicit user-triggered path ("try again"): it
// prompts, and on grant proceeds to a fix.
func (s *LocationService) RequestPermission(ctx context.Context) {
	s.apply(func(st *domain.LocationState) {
		st.Loading = true
		st.Err = ""
	})

	status, err := s.loc.Request(ctx)
	if err != nil {
		s.apply(func(st *domain.LocationState) {
			st.Err = "Failed to check location permission"
			st.Loading = false
		})
		return
	}
	if status != domain.PermissionGranted {
		s.apply(func(st *domain.LocationState) {
			st.HasPermission = false
			st.PermissionDenied = true
			st.Loading = false
			st.Err = "Location permission denied"
		})
		return
	}
	s.acquire(ctx)
}

func (s *LocationService) loadCache(ctx context.Context) {
	var c domain.Coordinates
	found, err := s.kv.Get(ctx, locationCacheKey, &c)
	if err != nil {
		log.Warn().Err(err).Msg("location cache read failed")
		return
	}
	if !found {
		return
	}
	s.apply(func(st *domain.LocationState) {
		st.Coordinates = &c
		st.FromCache = true
		st.Loading = false
	})
}

// acquire gets a live fix, rewrites the cache when the device moved past
// the threshold, and commits the fix as the current state.
func (s *LocationService) acquire(ctx context.Context) {
	c, err := s.loc.Current(ctx)
	if err != nil {
		// stale-but-present beats none: coordinates stay untouched
		s.apply(func(st *domain.LocationState) {
			st.Err = "Failed to get location"
			st.Loading = false
		})
		return
	}

	s.mu.Lock()
	prev := s.st.Coordinates
	s.mu.Unlock()
	if prev == nil || displacement(*prev, c) > moveThresholdDeg {
		if err := s.kv.Set(ctx, locationCacheKey, c, 0); err != nil {
			log.Warn().Err(err).Msg("location cache write failed")
		}
	}

	s.apply(func(st *domain.LocationState) {
		*st = domain.LocationState{
			Coordinates:   &c,
			HasPermission: true,
		}
	})
}

func (s *LocationService) State() domain.LocationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshotLocation(s.st)
}

func (s *LocationService) Subscribe(fn func(domain.LocationState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *LocationService) apply(fn func(*domain.LocationState)) {
	s.mu.Lock()
	fn(&s.st)
	snap := snapshotLocation(s.st)
	subs := s.subs
	s.mu.Unlock()
	for _, sub := range subs {
		sub(snap)
	}
}

func snapshotLocation(st domain.LocationState) domain.LocationState {
	if st.Coordinates != nil {
		c := *st.Coordinates
		st.Coordinates = &c
	}
	return st
}

// displacement is the straight-line distance in degrees. Good enough at
// city scale, where the cache threshold lives.
func displacement(a, b domain.Coordinates) float64 {
	return math.Hypot(a.Lat-b.Lat, a.Lng-b.Lng)
}
