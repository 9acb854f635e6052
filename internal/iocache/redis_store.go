package iocache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/huangsam/snapcal/internal/contract"
	"github.com/huangsam/snapcal/schema"
	"github.com/redis/go-redis/v9"
)

// redisOpTimeout bounds each round trip to the redis server.
const redisOpTimeout = 5 * time.Second

// redisEntryTTL lets redis expire entries that are well past the staleness window.
const redisEntryTTL = 30 * 24 * time.Hour

// Hash fields of a cached report entry.
const (
	redisValueField   = "value"
	redisVersionField = "version"
	redisTSField      = "ts"
)

// RedisCacheStore keeps cache entries as hashes under a key prefix.
// A sorted set indexed by timestamp tracks the keys for status reporting.
type RedisCacheStore struct {
	client *redis.Client
	prefix string
}

var _ contract.CacheStore = &RedisCacheStore{} // Compile-time check

// NewRedisCacheStore connects to the redis URL and namespaces every key with the given name.
func NewRedisCacheStore(name, url string) (*RedisCacheStore, error) {
	if url == "" {
		return nil, errors.New("redis backend requires a connection string like redis://localhost:6379/0")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis connection string: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return newRedisCacheStore(client, name), nil
}

func newRedisCacheStore(client *redis.Client, name string) *RedisCacheStore {
	return &RedisCacheStore{client: client, prefix: "snapcal:" + name + ":"}
}

func (rs *RedisCacheStore) entryKey(key string) string {
	return rs.prefix + "entry:" + key
}

func (rs *RedisCacheStore) indexKey() string {
	return rs.prefix + "index"
}

// Get retrieves a value by key. A missing key returns redis.Nil.
func (rs *RedisCacheStore) Get(key string) ([]byte, int, int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	fields, err := rs.client.HGetAll(ctx, rs.entryKey(key)).Result()
	if err != nil {
		return nil, 0, 0, err
	}
	if len(fields) == 0 {
		return nil, 0, 0, redis.Nil
	}

	version, err := strconv.Atoi(fields[redisVersionField])
	if err != nil {
		return nil, 0, 0, fmt.Errorf("corrupt cache version for %s: %w", key, err)
	}
	ts, err := strconv.ParseInt(fields[redisTSField], 10, 64)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("corrupt cache timestamp for %s: %w", key, err)
	}
	return []byte(fields[redisValueField]), version, ts, nil
}

// Set writes the entry and its index record in one transaction.
func (rs *RedisCacheStore) Set(key string, value []byte, version int, timestamp int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	entry := rs.entryKey(key)
	_, err := rs.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, entry,
			redisValueField, value,
			redisVersionField, version,
			redisTSField, timestamp,
		)
		pipe.Expire(ctx, entry, redisEntryTTL)
		pipe.ZAdd(ctx, rs.indexKey(), redis.Z{Score: float64(timestamp), Member: key})
		return nil
	})
	return err
}

// GetStatus reports entry count and age from the timestamp index.
func (rs *RedisCacheStore) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{Backend: string(schema.RedisBackend), Connected: rs.client != nil}
	if rs.client == nil {
		return status, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	// Entries that redis expired on its own are dropped from the index first
	cutoff := time.Now().Add(-redisEntryTTL).Unix()
	if err := rs.client.ZRemRangeByScore(ctx, rs.indexKey(), "-inf", strconv.FormatInt(cutoff, 10)).Err(); err != nil {
		return status, fmt.Errorf("failed to prune cache index: %w", err)
	}

	count, err := rs.client.ZCard(ctx, rs.indexKey()).Result()
	if err != nil {
		return status, fmt.Errorf("failed to get total entries: %w", err)
	}
	status.TotalEntries = int(count)
	if count == 0 {
		return status, nil
	}

	oldest, err := rs.client.ZRangeWithScores(ctx, rs.indexKey(), 0, 0).Result()
	if err != nil {
		return status, fmt.Errorf("failed to get oldest entry time: %w", err)
	}
	latest, err := rs.client.ZRevRangeWithScores(ctx, rs.indexKey(), 0, 0).Result()
	if err != nil {
		return status, fmt.Errorf("failed to get last entry time: %w", err)
	}
	if len(oldest) > 0 {
		status.OldestEntryTime = time.Unix(int64(oldest[0].Score), 0)
	}
	if len(latest) > 0 {
		status.LastEntryTime = time.Unix(int64(latest[0].Score), 0)
	}
	status.TableSizeBytes = int64(status.TotalEntries) * 1000 // Rough estimate
	return status, nil
}

// Clear removes every key under the store's prefix.
func (rs *RedisCacheStore) Clear(ctx context.Context) (int, error) {
	var cursor uint64
	deleted := 0
	for {
		keys, next, err := rs.client.Scan(ctx, cursor, rs.prefix+"*", 100).Result()
		if err != nil {
			return deleted, fmt.Errorf("failed to scan keys: %w", err)
		}
		if len(keys) > 0 {
			if err := rs.client.Del(ctx, keys...).Err(); err != nil {
				return deleted, fmt.Errorf("failed to delete keys: %w", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

// Close closes the redis client.
func (rs *RedisCacheStore) Close() error {
	if rs.client != nil {
		return rs.client.Close()
	}
	return nil
}
