// Package cache provides an optional Redis-backed cache for upstream GET
// responses.
//
// The upstream Roblox endpoints serve live counters and send no cache
// validators, so entries are stored with a fixed, configurable TTL instead of
// header-driven expiry. The cache holds response bodies only; crawl progress
// is never persisted.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	manager := cache.NewManager(redisClient, 5*time.Minute)
//
//	key := cache.Key{
//		Endpoint: "/v1/games",
//		Query:    url.Values{"universeIds": []string{"123,456"}},
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if err == cache.ErrCacheMiss {
//		// fetch from upstream, then manager.Set(ctx, key, entry)
//	}
//
// # Metrics
//
//   - crawler_cache_hits_total - Cache hits
//   - crawler_cache_misses_total - Cache misses
//   - crawler_cache_errors_total{operation} - Cache operation errors
package cache
