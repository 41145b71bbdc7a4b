package maps

import (
	apphttp "vacation_planner_backend/internal/http"
	"vacation_planner_backend/platform/config"
	"vacation_planner_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

// Module wires the geocoding client, cache and HTTP routes.
type Module struct {
	service *Service
	handler *Handler
}

// NewModule builds the maps module. rdb may be nil, in which case lookups are not cached.
func NewModule(cfg config.MapsConfig, cacheCfg config.CacheConfig, rdb *redis.Client, log *logger.Logger) (*Module, error) {
	svc, err := NewServiceFromConfig(cfg, cacheCfg, rdb, log)
	if err != nil {
		return nil, err
	}
	return &Module{service: svc, handler: NewHandler(svc)}, nil
}

// NewServiceFromConfig builds the provider client and, when Redis is available
// and caching is enabled, fronts it with the feature cache.
func NewServiceFromConfig(cfg config.MapsConfig, cacheCfg config.CacheConfig, rdb *redis.Client, log *logger.Logger) (*Service, error) {
	client, err := NewClient(ClientOptions{
		Token:             cfg.GetMapboxToken(),
		BaseURL:           cfg.GetMapboxBaseURL(),
		HTTP:              newHTTPClient(cfg.GetGeocodeTimeout()),
		RequestsPerSecond: cfg.GetGeocodeRequestsPerSecond(),
		Observer:          logObserver{log: log},
	})
	if err != nil {
		return nil, err
	}

	var cache FeatureCache
	if rdb != nil && cacheCfg.IsCacheEnabled() {
		cache = NewRedisFeatureCache(rdb, cacheCfg.GetGeocodeCacheTTL())
	}

	return NewService(client, cache, log), nil
}

// Service exposes the lookup service to other modules.
func (m *Module) Service() *Service {
	return m.service
}

func (m *Module) Name() string {
	return "maps"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/maps")
	if ctx.RateLimiter != nil {
		group.Use(ctx.RateLimiter.RateLimit())
	}
	group.GET("/address-lookup", m.handler.LookupAddress)
	group.GET("/distance", m.handler.Distance)
}

var _ apphttp.Module = (*Module)(nil)
