package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "sess:"

// RedisStorage implements fiber.Storage over a Redis client so sessions
// survive process restarts and are shared across replicas.
type RedisStorage struct {
	client *redis.Client
}

// NewRedisStorage wraps an existing Redis client as session storage.
func NewRedisStorage(client *redis.Client) *RedisStorage {
	return &RedisStorage{client: client}
}

// Get retrieves the session payload for a token. A missing key returns
// nil, nil per the fiber.Storage contract.
func (s *RedisStorage) Get(key string) ([]byte, error) {
	val, err := s.client.Get(context.Background(), redisKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return val, nil
}

// Set stores the session payload with the given expiry.
func (s *RedisStorage) Set(key string, val []byte, exp time.Duration) error {
	return s.client.Set(context.Background(), redisKeyPrefix+key, val, exp).Err()
}

// Delete removes a session token.
func (s *RedisStorage) Delete(key string) error {
	return s.client.Del(context.Background(), redisKeyPrefix+key).Err()
}

// Reset removes every stored session.
func (s *RedisStorage) Reset() error {
	ctx := context.Background()
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// Close is a no-op; the client's lifecycle belongs to the server.
func (s *RedisStorage) Close() error {
	return nil
}
