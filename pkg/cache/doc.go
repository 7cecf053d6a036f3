// Package cache provides Redis-backed caching for document-store
// responses.
//
// The cache manager sits between the HTTP store client and the remote
// document store:
//
// - Expires-driven TTL management (the store controls freshness)
// - ETag support for conditional requests (If-None-Match)
// - Last-Modified support (If-Modified-Since)
// - Prometheus metrics for observability
// - Deterministic cache key generation per collection/record
//
// # Basic Usage
//
//	// Create Redis client
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	// Create cache manager
//	manager := cache.NewManager(redisClient)
//
//	// Create cache key
//	key := cache.Key{
//		Collection: "photos",
//		RecordID:   "a1b2c3",
//	}
//
//	// Get from cache
//	entry, err := manager.Get(ctx, key)
//	if err == cache.ErrCacheMiss {
//		// Cache miss - fetch from the store
//	}
//
// # HTTP Response Caching
//
//	// Convert HTTP response to cache entry
//	entry, err := cache.ResponseToEntry(resp)
//	if err != nil {
//		return err
//	}
//
//	// Store in cache
//	if err := manager.Set(ctx, key, entry); err != nil {
//		return err
//	}
//
// # Conditional Requests
//
//	// Check if we should make a conditional request
//	if cache.ShouldMakeConditionalRequest(entry) {
//		cache.AddConditionalHeaders(req, entry)
//		// Make request - the store returns 304 if not modified
//	}
//
// # Metrics
//
// The cache manager exports Prometheus metrics:
//
//   - gallery_cache_hits_total{layer="redis"} - Cache hits
//   - gallery_cache_misses_total - Cache misses
//   - gallery_304_responses_total - Conditional request successes
//   - gallery_conditional_requests_total - Conditional requests sent
//   - gallery_cache_errors_total{operation} - Cache operation errors
package cache
