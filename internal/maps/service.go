package maps

import (
	"context"
	"strings"
	"time"

	"vacation_planner_backend/platform/logger"

	"golang.org/x/sync/singleflight"
)

// Searcher returns raw provider features for a free-text query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Feature, error)
}

// Service fronts the provider client with an optional cache and
// collapses identical concurrent lookups into one provider call.
type Service struct {
	client Searcher
	cache  FeatureCache
	group  singleflight.Group
	log    *logger.Logger
}

// NewService creates an address lookup service. cache may be nil.
func NewService(client Searcher, cache FeatureCache, log *logger.Logger) *Service {
	return &Service{
		client: client,
		cache:  cache,
		log:    log,
	}
}

// Search returns provider features for query, using the cache when available.
func (s *Service) Search(ctx context.Context, query string) ([]Feature, error) {
	query = strings.TrimSpace(query)
	log := s.log.WithContext(ctx)

	if s.cache != nil {
		features, ok, err := s.cache.Get(ctx, query)
		if err != nil {
			log.Warn("geocode cache read failed", "error", err)
		} else if ok {
			log.GeocodeRequest(query, len(features), 0, true)
			return features, nil
		}
	}

	// The flight is shared, so it must not inherit one caller's cancellation.
	// Each caller still stops waiting when its own context ends.
	flightCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(CacheKey(query), func() (interface{}, error) {
		start := time.Now()
		features, err := s.client.Search(flightCtx, query)
		if err != nil {
			return nil, err
		}
		log.GeocodeRequest(query, len(features), float64(time.Since(start).Milliseconds()), false)

		if s.cache != nil {
			if err := s.cache.Set(flightCtx, query, features); err != nil {
				log.Warn("geocode cache write failed", "error", err)
			}
		}
		return features, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			log.GeocodeFailure(query, res.Err)
			return nil, res.Err
		}
		return res.Val.([]Feature), nil
	}
}

// SearchAddress returns normalized addresses for query in provider order.
func (s *Service) SearchAddress(ctx context.Context, query string) ([]NormalizedAddress, error) {
	features, err := s.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	addresses := make([]NormalizedAddress, 0, len(features))
	for _, f := range features {
		addresses = append(addresses, ParseFeature(f))
	}
	return addresses, nil
}

// logObserver reports provider latency through the application logger.
type logObserver struct {
	log *logger.Logger
}

func (o logObserver) ObserveHTTPRequest(label string, duration time.Duration) {
	o.log.Debug("geocoding provider round trip", "provider", label, "latency_ms", duration.Milliseconds())
}

var _ Searcher = (*Service)(nil)
var _ Searcher = (*Client)(nil)
