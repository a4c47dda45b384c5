// Package cache provides a Redis backed fiber.Storage used by the rate limiter
// so that limits are shared between replicas.
package cache

import (
	"context"
	"time"

	"github.com/redis/rueidis"
)

type RedisStorage struct {
	client rueidis.Client
	prefix string
}

func NewRedisStorage(redisURL, prefix string) (*RedisStorage, error) {
	opt, err := rueidis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	// client side caching needs RESP3, which not every managed redis offers
	opt.DisableCache = true

	client, err := rueidis.NewClient(opt)
	if err != nil {
		return nil, err
	}
	return NewRedisStorageFromClient(client, prefix), nil
}

func NewRedisStorageFromClient(client rueidis.Client, prefix string) *RedisStorage {
	return &RedisStorage{client: client, prefix: prefix}
}

func (s *RedisStorage) key(k string) string {
	return s.prefix + k
}

// Get returns nil, nil for a missing key as fiber.Storage requires.
func (s *RedisStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	ctx := context.Background()
	val, err := s.client.Do(ctx, s.client.B().Get().Key(s.key(key)).Build()).AsBytes()
	if rueidis.IsRedisNil(err) {
		return nil, nil
	}
	return val, err
}

func (s *RedisStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	ctx := context.Background()
	var cmd rueidis.Completed
	if exp > 0 {
		cmd = s.client.B().Set().Key(s.key(key)).Value(rueidis.BinaryString(val)).PxMilliseconds(exp.Milliseconds()).Build()
	} else {
		cmd = s.client.B().Set().Key(s.key(key)).Value(rueidis.BinaryString(val)).Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *RedisStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	ctx := context.Background()
	return s.client.Do(ctx, s.client.B().Del().Key(s.key(key)).Build()).Error()
}

// Reset removes every key under the storage prefix.
func (s *RedisStorage) Reset() error {
	ctx := context.Background()
	var cursor uint64
	for {
		entry, err := s.client.Do(ctx, s.client.B().Scan().Cursor(cursor).Match(s.prefix+"*").Count(100).Build()).AsScanEntry()
		if err != nil {
			return err
		}
		if len(entry.Elements) > 0 {
			if err := s.client.Do(ctx, s.client.B().Del().Key(entry.Elements...).Build()).Error(); err != nil {
				return err
			}
		}
		if entry.Cursor == 0 {
			return nil
		}
		cursor = entry.Cursor
	}
}

func (s *RedisStorage) Close() error {
	s.client.Close()
	return nil
}
