package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/config"
	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/database"
	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/metrics"
	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/model"
	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/provider"
)

const redisKeyPrefix = "footfall:"

// buildProvider assembles primary and fallback sources, each behind a
// circuit breaker and the POI cache. m may be nil.
func buildProvider(ctx context.Context, cfg *config.Config, table *model.CategoryWeightTable, m *metrics.Registry) (provider.Provider, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	cache, closeCache := buildCache(ctx, cfg.Cache)
	if closeCache != nil {
		closers = append(closers, closeCache)
	}

	var observer provider.CacheObserver
	if m != nil {
		observer = m
	}

	names := []string{cfg.Provider}
	if cfg.Fallback != "" {
		names = append(names, cfg.Fallback)
	}

	chain := make([]provider.Provider, 0, len(names))
	for _, name := range names {
		base, closeBase, err := newSource(ctx, name, cfg, table)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		if closeBase != nil {
			closers = append(closers, closeBase)
		}
		guarded := provider.NewBreaker(base, cfg.Breaker)
		chain = append(chain, provider.NewCached(guarded, cache, cfg.Cache.TTL, observer))
	}

	return provider.NewFallback(chain...), cleanup, nil
}

func newSource(ctx context.Context, name string, cfg *config.Config, table *model.CategoryWeightTable) (provider.Provider, func(), error) {
	switch name {
	case provider.OverpassName:
		return provider.NewOverpass(cfg.Overpass, table.Categories()), nil, nil
	case provider.PostGISName:
		db, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgis: %w", err)
		}
		return provider.NewPostGIS(db, cfg.Database.Table), db.Close, nil
	case provider.AmapName:
		amap := provider.NewAmap(cfg.Amap)
		if !amap.IsEnabled() {
			return nil, nil, fmt.Errorf("amap provider selected but AMAP_KEY is not set")
		}
		return amap, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown poi provider %q", name)
	}
}

// buildCache uses Redis when configured and reachable, memory otherwise
func buildCache(ctx context.Context, cfg config.CacheConfig) (provider.Cache, func()) {
	if cfg.RedisAddr == "" {
		return provider.NewMemoryCache(cfg.MaxEntries), nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, using memory cache")
		_ = client.Close()
		return provider.NewMemoryCache(cfg.MaxEntries), nil
	}

	log.Info().Str("addr", cfg.RedisAddr).Msg("redis cache connected")
	return provider.NewRedisCache(client, redisKeyPrefix), func() { _ = client.Close() }
}
