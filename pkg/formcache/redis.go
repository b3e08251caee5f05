package formcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/formbus/config"
)

const redisKeyPrefix = "formbus:build:"

// RedisStore caches built forms in Redis so that build and submit can land
// on different nodes. Snapshots are stored as JSON; form.Form's ordered
// JSON codec keeps element order intact across the round trip.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore creates a RedisStore and verifies the connection with a ping.
func NewRedisStore() (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("formcache: redis ping: %w", err)
	}
	return &RedisStore{rdb: rdb}, nil
}

// Put caches snap under buildID for ttl.
func (r *RedisStore) Put(ctx context.Context, buildID string, snap *Snapshot, ttl time.Duration) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("formcache: marshal snapshot: %w", err)
	}
	return r.rdb.Set(ctx, redisKeyPrefix+buildID, data, ttl).Err()
}

// Get retrieves the snapshot cached under buildID.
// Returns false on miss or on any decode error.
func (r *RedisStore) Get(ctx context.Context, buildID string) (*Snapshot, bool) {
	val, err := r.rdb.Get(ctx, redisKeyPrefix+buildID).Result()
	if err != nil {
		return nil, false
	}

	snap := &Snapshot{}
	if err := json.Unmarshal([]byte(val), snap); err != nil {
		return nil, false
	}
	return snap, true
}

// Delete drops the snapshot cached under buildID.
func (r *RedisStore) Delete(ctx context.Context, buildID string) error {
	return r.rdb.Del(ctx, redisKeyPrefix+buildID).Err()
}
