package gallery

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/photogrid/gallery-loader/pkg/store"
)

// DefaultWindowSize is the number of ids fetched per batch.
const DefaultWindowSize = 12

// Config holds the session configuration.
type Config struct {
	// Collection is the document-store collection to load from (required).
	Collection string

	// WindowSize is the number of ids fetched per batch.
	WindowSize int

	// MaxConcurrency bounds parallel record fetches within a window.
	MaxConcurrency int

	// FetchTimeout applies to each individual record fetch.
	FetchTimeout time.Duration

	// Seed, when non-zero, fixes the shuffle order. Primarily for tests.
	Seed int64
}

// DefaultConfig returns a safe default configuration for a collection.
func DefaultConfig(collection string) Config {
	return Config{
		Collection:     collection,
		WindowSize:     DefaultWindowSize,
		MaxConcurrency: 4,
		FetchTimeout:   10 * time.Second,
	}
}

// Session owns one gallery lifetime: the shuffled order, the load
// cursor, and the accumulated record list. Construct on view mount,
// drop on unmount. Safe for concurrent use by any number of trigger
// sources; overlapping triggers coalesce to a single in-flight window.
type Session struct {
	store    store.Store
	cfg      Config
	id       string
	shuffler *Shuffler
	logger   zerolog.Logger

	mu      sync.Mutex
	started bool
	failed  error // terminal enumeration failure
	order   []string
	loaded  []store.PhotoRecord
	seen    map[string]struct{}
	state   loadState
}

// New creates a session for the given store and configuration.
func New(st store.Store, cfg Config) (*Session, error) {
	if st == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.Collection == "" {
		return nil, fmt.Errorf("collection is required")
	}
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = DefaultWindowSize
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 4
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 10 * time.Second
	}

	shuffler := NewShuffler()
	if cfg.Seed != 0 {
		shuffler = NewShufflerWithSeed(cfg.Seed)
	}

	id := uuid.NewString()
	logger := log.With().
		Str("component", "gallery-session").
		Str("session_id", id).
		Str("collection", cfg.Collection).
		Logger()

	return &Session{
		store:    st,
		cfg:      cfg,
		id:       id,
		shuffler: shuffler,
		logger:   logger,
		seen:     make(map[string]struct{}),
	}, nil
}

// ID returns the session identifier (for log and metric correlation).
func (s *Session) ID() string {
	return s.id
}

// Start enumerates the collection's ids exactly once, shuffles them,
// and triggers the initial batch load when the order is non-empty.
// Enumeration is never retried: a failure is terminal for the session
// and is also surfaced by Err so a UI can show an error state instead
// of hanging in an empty gallery.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	s.mu.Unlock()

	sessionsStartedTotal.Inc()

	start := time.Now()
	ids, err := s.store.ListIDs(ctx, s.cfg.Collection)
	if err != nil {
		failure := fmt.Errorf("%w: %v", ErrEnumerationFailed, err)
		s.mu.Lock()
		s.failed = failure
		s.mu.Unlock()

		s.logger.Error().Err(err).Msg("Id enumeration failed")
		return failure
	}

	order := s.shuffler.Permute(ids)
	s.mu.Lock()
	s.order = order
	s.mu.Unlock()

	s.logger.Info().
		Int("records", len(order)).
		Dur("duration", time.Since(start)).
		Msg("Session ready")

	// Initial page fill.
	if len(order) > 0 {
		s.LoadNextBatch(ctx)
	}
	return nil
}

// LoadNextBatch loads the next window of the shuffled order and appends
// the fetched records to the session's result list. The call is a no-op
// when a window is already in flight, the order is exhausted, the
// session is not ready, or enumeration failed.
//
// The in-flight check and the guard acquisition happen under one mutex
// hold: two near-simultaneous triggers cannot both pass the check.
func (s *Session) LoadNextBatch(ctx context.Context) {
	s.mu.Lock()
	if s.failed != nil || s.order == nil || s.state.InFlight || s.state.Exhausted {
		s.mu.Unlock()
		batchesTotal.WithLabelValues("skipped").Inc()
		return
	}
	s.state.InFlight = true
	cursor := s.state.Cursor
	window := sliceWindow(s.order, cursor, s.cfg.WindowSize)
	orderLen := len(s.order)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.state.InFlight = false
		s.mu.Unlock()
	}()

	if len(window) == 0 {
		if orderLen > 0 {
			s.mu.Lock()
			s.state.Exhausted = true
			total := len(s.loaded)
			s.mu.Unlock()

			batchesTotal.WithLabelValues("exhausted").Inc()
			s.logger.Info().
				Int("total", total).
				Msg("Shuffled order exhausted")
		}
		return
	}

	start := time.Now()
	records, err := s.fetchWindow(ctx, window)
	if err != nil {
		batchErr := &BatchError{Offset: cursor, Size: len(window), Err: err}
		s.mu.Lock()
		s.state.recordFailure(batchErr)
		s.mu.Unlock()

		batchesTotal.WithLabelValues("error").Inc()
		s.logger.Warn().
			Err(err).
			Int("offset", cursor).
			Int("window", len(window)).
			Msg("Batch load failed - window will be retried on next trigger")
		return
	}

	s.mu.Lock()
	appended := 0
	for i := range records {
		rec := records[i]
		if _, dup := s.seen[rec.ID]; dup {
			duplicatesFilteredTotal.Inc()
			continue
		}
		rec.Index = cursor + i
		s.seen[rec.ID] = struct{}{}
		s.loaded = append(s.loaded, rec)
		appended++
	}
	s.state.recordSuccess(s.cfg.WindowSize)
	total := len(s.loaded)
	s.mu.Unlock()

	batchesTotal.WithLabelValues("success").Inc()
	batchDuration.Observe(time.Since(start).Seconds())
	recordsLoadedTotal.Add(float64(appended))

	s.logger.Info().
		Int("offset", cursor).
		Int("fetched", len(records)).
		Int("appended", appended).
		Int("total", total).
		Dur("duration", time.Since(start)).
		Msg("Batch loaded")
}

// sliceWindow returns order[offset:offset+size] clamped to bounds.
func sliceWindow(order []string, offset, size int) []string {
	if offset >= len(order) {
		return nil
	}
	end := offset + size
	if end > len(order) {
		end = len(order)
	}
	return order[offset:end]
}

// Records returns a copy of the accumulated records in load order.
func (s *Session) Records() []store.PhotoRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.PhotoRecord, len(s.loaded))
	copy(out, s.loaded)
	return out
}

// Loading reports whether a window fetch is currently in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.InFlight
}

// AllLoaded reports whether the shuffled order has been exhausted.
func (s *Session) AllLoaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Exhausted
}

// Ready reports whether the shuffled order is available, i.e. Start has
// completed successfully.
func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order != nil
}

// Total returns the size of the shuffled order (0 before Start).
func (s *Session) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// LastError returns the most recent batch failure, or nil after a
// successful batch. A non-nil value means the next trigger will retry
// the same window.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.LastError
}

// Err returns the terminal session error (failed enumeration), or nil.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failed
}

// Cursor returns the offset of the next unfetched window.
func (s *Session) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Cursor
}
