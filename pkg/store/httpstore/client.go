// Package httpstore implements the document-store contract over a REST
// API, with retrying, error classification, and optional Redis-backed
// response caching with conditional requests.
//
// Expected API layout:
//
//	GET {base}/collections/{name}/ids           -> JSON array of ids
//	GET {base}/collections/{name}/records/{id}  -> JSON photo record
package httpstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/photogrid/gallery-loader/pkg/cache"
	"github.com/photogrid/gallery-loader/pkg/store"
)

// Client is a document-store client over HTTP.
type Client struct {
	httpClient *http.Client
	cache      *cache.Manager
	config     Config
	logger     zerolog.Logger
}

// Compile-time interface check.
var _ store.Store = (*Client)(nil)

// Config holds the client configuration.
type Config struct {
	// BaseURL of the document-store API (required).
	BaseURL string

	// User-Agent header sent with every request (required).
	// Format: "AppName/Version (contact@example.com)"
	UserAgent string

	// Cache is an optional response cache. Nil disables caching.
	Cache *cache.Manager

	// Timeout per HTTP request.
	Timeout time.Duration

	// Retry
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(baseURL, userAgent string) Config {
	return Config{
		BaseURL:        baseURL,
		UserAgent:      userAgent,
		Timeout:        30 * time.Second,
		MaxRetries:     3,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     30 * time.Second,
	}
}

// New creates a new document-store client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 1 * time.Second
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 30 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	logger := log.With().Str("component", "store-client").Logger()

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cache:  cfg.Cache,
		config: cfg,
		logger: logger,
	}, nil
}

// ListIDs returns all record ids in a collection. Listings are always
// fetched fresh: the session enumerates exactly once, so caching them
// would only serve stale data to the next session.
func (c *Client) ListIDs(ctx context.Context, collection string) ([]string, error) {
	path := "/collections/" + url.PathEscape(collection) + "/ids"

	body, err := c.get(ctx, "list_ids", path, nil)
	if err != nil {
		return nil, fmt.Errorf("list ids for %q: %w", collection, err)
	}

	var ids []string
	if err := json.Unmarshal(body, &ids); err != nil {
		return nil, fmt.Errorf("decode id listing for %q: %w", collection, err)
	}
	return ids, nil
}

// GetRecord fetches a single record by id. 404 responses map to
// store.ErrNotFound.
func (c *Client) GetRecord(ctx context.Context, collection, id string) (*store.PhotoRecord, error) {
	path := "/collections/" + url.PathEscape(collection) + "/records/" + url.PathEscape(id)

	var cacheKey *cache.Key
	if c.cache != nil {
		cacheKey = &cache.Key{Collection: collection, RecordID: id}
	}

	body, err := c.get(ctx, "get_record", path, cacheKey)
	if err != nil {
		return nil, fmt.Errorf("get record %s/%s: %w", collection, id, err)
	}

	var rec store.PhotoRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("decode record %s/%s: %w", collection, id, err)
	}
	if rec.ID == "" {
		rec.ID = id
	}
	return &rec, nil
}

// get performs a GET request with caching, conditional requests, and
// retry logic, returning the response body.
func (c *Client) get(ctx context.Context, operation, path string, cacheKey *cache.Key) ([]byte, error) {
	startTime := time.Now()
	defer func() {
		requestDuration.WithLabelValues(operation).Observe(time.Since(startTime).Seconds())
	}()

	// Step 1: Check cache
	var cached *cache.Entry
	if c.cache != nil && cacheKey != nil {
		entry, err := c.cache.Get(ctx, *cacheKey)
		if err != nil && err != cache.ErrCacheMiss {
			c.logger.Warn().Err(err).Str("path", path).Msg("Cache get error")
		}
		cached = entry
	}

	var body []byte
	var errClass ErrorClass

	// Step 2: Execute request with retry logic
	retryCfg := RetryConfig{
		MaxAttempts:       c.config.MaxRetries,
		InitialBackoff:    c.config.InitialBackoff,
		MaxBackoff:        c.config.MaxBackoff,
		BackoffMultiplier: 2.0,
	}

	retryErr := retryWithBackoff(ctx, retryCfg, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+path, nil)
		if err != nil {
			errClass = ErrorClassClient
			return fmt.Errorf("create request: %w", err)
		}

		req.Header.Set("User-Agent", c.config.UserAgent)
		req.Header.Set("Accept", "application/json")

		// Step 3: Conditional request if we hold a cached entry
		if cached != nil && cache.ShouldMakeConditionalRequest(cached) {
			cache.AddConditionalHeaders(req, cached)
			cache.ConditionalRequestsSent.Inc()
			c.logger.Debug().
				Str("path", path).
				Str("etag", cached.ETag).
				Msg("Making conditional request")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			errClass = ErrorClassNetwork
			errorsTotal.WithLabelValues(string(errClass)).Inc()
			requestsTotal.WithLabelValues(operation, "network_error").Inc()
			c.logger.Error().Err(err).Str("path", path).Msg("HTTP request failed")
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotModified:
			// Step 4a: Serve from cache, refresh the TTL
			requestsTotal.WithLabelValues(operation, "304").Inc()
			cache.NotModifiedResponses.Inc()
			c.logger.Debug().Str("path", path).Msg("304 Not Modified - using cache")

			body = cached.Data
			if expiresStr := resp.Header.Get("Expires"); expiresStr != "" {
				if newExpires, err := http.ParseTime(expiresStr); err == nil {
					if err := c.cache.UpdateTTL(ctx, *cacheKey, newExpires); err != nil {
						c.logger.Warn().Err(err).Msg("Failed to update cache TTL")
					}
				}
			}
			return nil

		case resp.StatusCode == http.StatusOK:
			requestsTotal.WithLabelValues(operation, "200").Inc()

			data, err := io.ReadAll(resp.Body)
			if err != nil {
				errClass = ErrorClassNetwork
				return fmt.Errorf("read response body: %w", err)
			}
			body = data

			// Step 4b: Update cache on success
			if c.cache != nil && cacheKey != nil {
				resp.Body = io.NopCloser(bytes.NewReader(data))
				entry, err := cache.ResponseToEntry(resp)
				if err != nil {
					c.logger.Warn().Err(err).Msg("Failed to create cache entry")
				} else if entry.TTL() > 0 {
					if err := c.cache.Set(ctx, *cacheKey, entry); err != nil {
						c.logger.Warn().Err(err).Msg("Failed to cache response")
					} else {
						c.logger.Debug().
							Str("path", path).
							Dur("ttl", entry.TTL()).
							Msg("Cached response")
					}
				}
			}
			return nil

		default:
			errClass = classifyStatus(resp.StatusCode)
			errorsTotal.WithLabelValues(string(errClass)).Inc()
			requestsTotal.WithLabelValues(operation, strconv.Itoa(resp.StatusCode)).Inc()

			c.logger.Warn().
				Str("path", path).
				Int("status", resp.StatusCode).
				Str("error_class", string(errClass)).
				Msg("Store request error")

			serr := &StoreError{
				StatusCode: resp.StatusCode,
				ErrorClass: errClass,
				Message:    resp.Status,
			}
			if resp.StatusCode == http.StatusNotFound {
				serr.Err = store.ErrNotFound
			}
			return serr
		}
	}, func(err error) ErrorClass {
		// Classified dynamically by the attempt closure
		return errClass
	})

	if retryErr != nil {
		return nil, retryErr
	}
	return body, nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
