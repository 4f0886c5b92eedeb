package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/interview-assistant-team/interview-assistant/internal/usecase/live"
	"github.com/interview-assistant-team/interview-assistant/pkg/config"
)

// RedisClient wraps the go-redis client for application use
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(cfg *config.Config) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

// Close closes the underlying connection
func (r *RedisClient) Close() error {
	return r.client.Close()
}

// SnapshotStore keeps the latest emotion snapshot per live session in Redis
// so dashboard reads never touch the session's hot path.
type SnapshotStore struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewSnapshotStore creates a snapshot store with the given entry TTL
func NewSnapshotStore(redis *RedisClient, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{redis: redis, ttl: ttl}
}

func snapshotKey(interviewID uuid.UUID) string {
	return fmt.Sprintf("interview:snapshot:%s", interviewID)
}

// SetSnapshot stores the latest snapshot, replacing any previous one
func (s *SnapshotStore) SetSnapshot(ctx context.Context, interviewID uuid.UUID, snapshot live.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := s.redis.client.Set(ctx, snapshotKey(interviewID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}
	return nil
}

// GetSnapshot returns the latest snapshot, or nil when none exists or the
// entry has expired
func (s *SnapshotStore) GetSnapshot(ctx context.Context, interviewID uuid.UUID) (*live.Snapshot, error) {
	data, err := s.redis.client.Get(ctx, snapshotKey(interviewID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var snapshot live.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snapshot, nil
}
