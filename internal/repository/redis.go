package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"letluckdecide/enricher/internal/domain"

	"github.com/redis/go-redis/v9"
)

type redisRepository struct {
	redisClient *redis.Client
	key         string
}

// NewRedisRepository keeps the store in a single hash: one field per slug,
// each holding the entry as JSON.
func NewRedisRepository(redisClient *redis.Client, key string) EnrichRepository {
	return &redisRepository{
		redisClient: redisClient,
		key:         key,
	}
}

func (r *redisRepository) Load(ctx context.Context) (domain.Store, error) {
	fields, err := r.redisClient.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read store hash %s: %w", r.key, err)
	}

	store := make(domain.Store, len(fields))
	for slug, value := range fields {
		var entry domain.Entry
		if err := json.Unmarshal([]byte(value), &entry); err != nil {
			return nil, fmt.Errorf("failed to decode entry %s: %w", slug, err)
		}
		store[slug] = &entry
	}
	return store, nil
}

// Save replaces the hash inside MULTI/EXEC so readers never observe a mix of
// old and new entries.
func (r *redisRepository) Save(ctx context.Context, store domain.Store) error {
	values := make(map[string]interface{}, len(store))
	for slug, entry := range store {
		if entry == nil {
			continue
		}
		encoded, err := encodeCompact(entry)
		if err != nil {
			return fmt.Errorf("failed to encode entry %s: %w", slug, err)
		}
		values[slug] = encoded
	}

	_, err := r.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.key)
		if len(values) > 0 {
			pipe.HSet(ctx, r.key, values)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write store hash %s: %w", r.key, err)
	}
	return nil
}

func (r *redisRepository) Location() string {
	opts := r.redisClient.Options()
	return fmt.Sprintf("redis://%s/%d %s", opts.Addr, opts.DB, r.key)
}

func (r *redisRepository) Close() error {
	return r.redisClient.Close()
}
