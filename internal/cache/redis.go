package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	radix "github.com/mediocregopher/radix/v3"
)

// Store is the key-value backend the cache helpers run against.
// ctx is accepted for symmetry with the rest of the codebase even though
// the radix v3 client does not thread it through.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	SetEx(ctx context.Context, key string, ttl time.Duration, value string) error
	Del(ctx context.Context, keys ...string) error
}

// RedisStore is a radix-backed Store.
type RedisStore struct {
	client radix.Client
}

// NewPool opens a radix connection pool.
func NewPool(addr string, size int) (radix.Client, error) {
	if size <= 0 {
		size = 10
	}
	pool, err := radix.NewPool("tcp", addr, size)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return pool, nil
}

// NewRedisStore wraps a radix client.
func NewRedisStore(client radix.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(_ context.Context, key string) (string, bool, error) {
	var value string
	maybe := radix.MaybeNil{Rcv: &value}
	if err := s.client.Do(radix.Cmd(&maybe, "GET", key)); err != nil {
		return "", false, err
	}
	if maybe.Nil {
		return "", false, nil
	}
	return value, true, nil
}

func (s *RedisStore) SetEx(_ context.Context, key string, ttl time.Duration, value string) error {
	seconds := int(ttl.Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	return s.client.Do(radix.Cmd(nil, "SETEX", key, strconv.Itoa(seconds), value))
}

func (s *RedisStore) Del(_ context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Do(radix.Cmd(nil, "DEL", keys...))
}
