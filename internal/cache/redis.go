package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gainboard/internal/models"

	"github.com/redis/go-redis/v9"
)

type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisClient() (*RedisClient, error) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://:redis123@localhost:6379/0"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	ctx := context.Background()

	// Test connection
	_, err = client.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClient{
		client: client,
		ctx:    ctx,
	}, nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}

func leaderboardKey(competitionID uint, includeLate bool) string {
	return fmt.Sprintf("leaderboard:%d:%t", competitionID, includeLate)
}

// Store a computed leaderboard with expiration
func (r *RedisClient) StoreLeaderboard(competitionID uint, includeLate bool, entries []models.LeaderboardEntry, duration time.Duration) error {
	jsonData, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal leaderboard: %w", err)
	}

	err = r.client.Set(r.ctx, leaderboardKey(competitionID, includeLate), jsonData, duration).Err()
	if err != nil {
		return fmt.Errorf("failed to store leaderboard in Redis: %w", err)
	}

	return nil
}

// Get a cached leaderboard
func (r *RedisClient) GetLeaderboard(competitionID uint, includeLate bool) ([]models.LeaderboardEntry, bool, error) {
	data, err := r.client.Get(r.ctx, leaderboardKey(competitionID, includeLate)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil // Key doesn't exist
		}
		return nil, false, fmt.Errorf("failed to get leaderboard from Redis: %w", err)
	}

	var entries []models.LeaderboardEntry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal leaderboard: %w", err)
	}

	return entries, true, nil
}

// Drop both cached variants once a new submission lands
func (r *RedisClient) InvalidateLeaderboard(competitionID uint) error {
	return r.client.Del(r.ctx,
		leaderboardKey(competitionID, false),
		leaderboardKey(competitionID, true),
	).Err()
}

// Get Redis status
func (r *RedisClient) GetStatus() (map[string]interface{}, error) {
	info, err := r.client.Info(r.ctx).Result()
	if err != nil {
		return nil, err
	}

	stats := r.client.PoolStats()

	return map[string]interface{}{
		"connected":    true,
		"hits":         stats.Hits,
		"misses":       stats.Misses,
		"active_conns": stats.TotalConns,
		"redis_info":   info,
	}, nil
}
