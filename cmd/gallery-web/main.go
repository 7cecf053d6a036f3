// Command gallery-web serves a randomized photo gallery session over a
// small JSON API: a state snapshot for rendering, a load-more trigger
// for scroll-proximity signals, and Prometheus metrics.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/redis/go-redis/v9"

	"github.com/photogrid/gallery-loader/pkg/cache"
	"github.com/photogrid/gallery-loader/pkg/gallery"
	"github.com/photogrid/gallery-loader/pkg/logging"
	"github.com/photogrid/gallery-loader/pkg/store"
	"github.com/photogrid/gallery-loader/pkg/store/dynamostore"
	"github.com/photogrid/gallery-loader/pkg/store/httpstore"
	"github.com/photogrid/gallery-loader/pkg/store/redisstore"
)

func main() {
	// Configuration from environment
	port := getEnv("PORT", "8080")
	collection := getEnv("COLLECTION", "photos")

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(getEnv("LOG_LEVEL", "info")),
		Pretty: os.Getenv("LOG_PRETTY") == "true",
		Output: os.Stderr,
	})
	logger := logging.NewLogger("gallery-web")

	ctx := context.Background()

	st, err := buildStore(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build document store")
	}

	sess, err := gallery.New(st, gallery.DefaultConfig(collection))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create gallery session")
	}

	// Enumerate and fill the first page in the background; the state
	// handler surfaces progress and terminal errors to the UI.
	go func() {
		if err := sess.Start(context.Background()); err != nil {
			logger.Error().Err(err).Msg("Session start failed")
		}
	}()

	addr := ":" + port
	logger.Info().
		Str("addr", addr).
		Str("collection", collection).
		Str("session_id", sess.ID()).
		Msg("Starting gallery server")

	if err := http.ListenAndServe(addr, newMux(sess)); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

// buildStore picks a document-store backend from the environment:
// STORE_URL (REST, with optional REDIS_URL response cache),
// DYNAMO_TABLE (DynamoDB), or REDIS_URL alone (Redis document store).
func buildStore(ctx context.Context) (store.Store, error) {
	if baseURL := os.Getenv("STORE_URL"); baseURL != "" {
		cfg := httpstore.DefaultConfig(baseURL, getEnv("USER_AGENT", "gallery-loader/0.1.0"))
		if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
			redisClient, err := connectRedis(ctx, redisURL)
			if err != nil {
				return nil, err
			}
			cfg.Cache = cache.NewManager(redisClient)
		}
		return httpstore.New(cfg)
	}

	if table := os.Getenv("DYNAMO_TABLE"); table != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}
		return dynamostore.New(dynamodb.NewFromConfig(awsCfg), table), nil
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		redisClient, err := connectRedis(ctx, redisURL)
		if err != nil {
			return nil, err
		}
		return redisstore.New(redisClient), nil
	}

	return nil, fmt.Errorf("one of STORE_URL, DYNAMO_TABLE, or REDIS_URL is required")
}

func connectRedis(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to Redis at %s: %w", addr, err)
	}
	return client, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
