package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"applyflow/internal/config"
)

const redisTaskKeyPrefix = "applyflow:tasks:"

// RedisTaskStore persists task results in Redis so batch status survives
// process restarts and is visible to every replica.
type RedisTaskStore struct {
	client *redis.Client
}

// NewRedisTaskStore connects to Redis using the configured URL and
// verifies the connection before returning.
func NewRedisTaskStore(cfg *config.Config) (*RedisTaskStore, error) {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Redis.Timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisTaskStore{client: client}, nil
}

func taskKey(processID string) string {
	return redisTaskKeyPrefix + processID
}

func (s *RedisTaskStore) Store(ctx context.Context, result *TaskResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal task result: %w", err)
	}
	return s.client.Set(ctx, taskKey(result.ProcessID), data, 0).Err()
}

func (s *RedisTaskStore) Get(ctx context.Context, processID string) (*TaskResult, error) {
	data, err := s.client.Get(ctx, taskKey(processID)).Bytes()
	if err == redis.Nil {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read task result: %w", err)
	}

	var result TaskResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task result: %w", err)
	}
	return &result, nil
}

func (s *RedisTaskStore) Update(ctx context.Context, result *TaskResult) error {
	exists, err := s.client.Exists(ctx, taskKey(result.ProcessID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check task existence: %w", err)
	}
	if exists == 0 {
		return ErrTaskNotFound
	}
	return s.Store(ctx, result)
}

func (s *RedisTaskStore) Delete(ctx context.Context, processID string) error {
	deleted, err := s.client.Del(ctx, taskKey(processID)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete task result: %w", err)
	}
	if deleted == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (s *RedisTaskStore) Cleanup(ctx context.Context, maxAge time.Duration) error {
	cutoff := time.Now().Add(-maxAge)

	iter := s.client.Scan(ctx, 0, redisTaskKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		data, err := s.client.Get(ctx, key).Bytes()
		if err != nil {
			continue
		}

		var result TaskResult
		if err := json.Unmarshal(data, &result); err != nil {
			continue
		}

		if result.Completed() && result.CreatedAt.Before(cutoff) {
			s.client.Del(ctx, key)
		}
	}
	return iter.Err()
}

func (s *RedisTaskStore) List(ctx context.Context) ([]*TaskResult, error) {
	var results []*TaskResult

	iter := s.client.Scan(ctx, 0, redisTaskKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		data, err := s.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			continue
		}

		var result TaskResult
		if err := json.Unmarshal(data, &result); err != nil {
			continue
		}
		results = append(results, &result)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Close releases the Redis connection
func (s *RedisTaskStore) Close() error {
	return s.client.Close()
}
