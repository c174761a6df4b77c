// Package redisstore keeps each collection in a Redis hash.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "forum:"

type RedisStore struct {
	client *redis.Client
}

// New connects to the server at redisURL (redis://[:password@]host:port/db).
func New(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func hashKey(collection string) string { return keyPrefix + collection }

func (s *RedisStore) Load(ctx context.Context, collection string) (map[string]json.RawMessage, error) {
	fields, err := s.client.HGetAll(ctx, hashKey(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", collection, err)
	}
	docs := make(map[string]json.RawMessage, len(fields))
	for k, v := range fields {
		docs[k] = json.RawMessage(v)
	}
	return docs, nil
}

// Save swaps the whole hash inside MULTI/EXEC.
func (s *RedisStore) Save(ctx context.Context, collection string, docs map[string]json.RawMessage) error {
	key := hashKey(collection)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(docs) == 0 {
			return nil
		}
		values := make(map[string]interface{}, len(docs))
		for k, v := range docs {
			values[k] = string(v)
		}
		pipe.HSet(ctx, key, values)
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving %s: %w", collection, err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
