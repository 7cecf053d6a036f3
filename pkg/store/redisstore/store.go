// Package redisstore implements the document-store contract on Redis.
//
// Layout: collection ids live in a set at gallery:{collection}:ids,
// records are JSON strings at gallery:{collection}:record:{id}.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/photogrid/gallery-loader/pkg/store"
)

// Store is a Redis-backed document store.
type Store struct {
	redis  *redis.Client
	logger zerolog.Logger
}

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// New creates a Redis-backed store.
func New(redisClient *redis.Client) *Store {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &Store{
		redis:  redisClient,
		logger: log.With().Str("component", "redis-store").Logger(),
	}
}

// IDsKey returns the Redis key holding a collection's id set.
func IDsKey(collection string) string {
	return "gallery:" + collection + ":ids"
}

// RecordKey returns the Redis key holding one record's JSON document.
func RecordKey(collection, id string) string {
	return "gallery:" + collection + ":record:" + id
}

// ListIDs returns all record ids in a collection, unordered.
func (s *Store) ListIDs(ctx context.Context, collection string) ([]string, error) {
	ids, err := s.redis.SMembers(ctx, IDsKey(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("smembers %s: %w", IDsKey(collection), err)
	}

	s.logger.Debug().
		Str("collection", collection).
		Int("count", len(ids)).
		Msg("Listed collection ids")
	return ids, nil
}

// GetRecord fetches a single record by id.
func (s *Store) GetRecord(ctx context.Context, collection, id string) (*store.PhotoRecord, error) {
	data, err := s.redis.Get(ctx, RecordKey(collection, id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("%s/%s: %w", collection, id, store.ErrNotFound)
		}
		return nil, fmt.Errorf("redis get %s: %w", RecordKey(collection, id), err)
	}

	var rec store.PhotoRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode record %s/%s: %w", collection, id, err)
	}
	if rec.ID == "" {
		rec.ID = id
	}
	return &rec, nil
}
