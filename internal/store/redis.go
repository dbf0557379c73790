package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// putScript writes the record and appends the id to the index only if it is
// not there yet, so an update never moves a record.
var putScript = redis.NewScript(`
redis.call('SET', KEYS[1], ARGV[1])
if redis.call('ZSCORE', KEYS[2], ARGV[2]) == false then
	local seq = redis.call('INCR', KEYS[3])
	redis.call('ZADD', KEYS[2], seq, ARGV[2])
end
return 1
`)

// RedisBackend stores records as strings and each index as a sorted set
// scored by a per-namespace sequence.
type RedisBackend struct {
	client *redis.Client
	prefix string
}

var _ Backend = (*RedisBackend)(nil)

// NewRedisBackend connects to redis and verifies the connection
func NewRedisBackend(ctx context.Context, opts *redis.Options, prefix string) (*RedisBackend, error) {
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisBackend{client: client, prefix: prefix}, nil
}

func (r *RedisBackend) recordKey(ns, id string) string { return r.prefix + ns + ":rec:" + id }
func (r *RedisBackend) indexKey(ns string) string      { return r.prefix + ns + ":idx" }
func (r *RedisBackend) seqKey(ns string) string        { return r.prefix + ns + ":seq" }
func (r *RedisBackend) seededKey(ns string) string     { return r.prefix + ns + ":seeded" }

func (r *RedisBackend) Get(ctx context.Context, ns, id string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.recordKey(ns, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s/%s: %w", ns, id, err)
	}
	return data, nil
}

func (r *RedisBackend) Put(ctx context.Context, ns, id string, data []byte) error {
	keys := []string{r.recordKey(ns, id), r.indexKey(ns), r.seqKey(ns)}
	if err := putScript.Run(ctx, r.client, keys, data, id).Err(); err != nil {
		return fmt.Errorf("redis put %s/%s: %w", ns, id, err)
	}
	return nil
}

func (r *RedisBackend) Delete(ctx context.Context, ns, id string) (bool, error) {
	var del, rem *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, r.recordKey(ns, id))
		rem = pipe.ZRem(ctx, r.indexKey(ns), id)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("redis delete %s/%s: %w", ns, id, err)
	}
	return del.Val() > 0 || rem.Val() > 0, nil
}

func (r *RedisBackend) IDs(ctx context.Context, ns string) ([]string, error) {
	ids, err := r.client.ZRange(ctx, r.indexKey(ns), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis index %s: %w", ns, err)
	}
	return ids, nil
}

func (r *RedisBackend) Exists(ctx context.Context, ns, id string) (bool, error) {
	n, err := r.client.Exists(ctx, r.recordKey(ns, id)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists %s/%s: %w", ns, id, err)
	}
	return n == 1, nil
}

func (r *RedisBackend) Count(ctx context.Context, ns string) (int, error) {
	n, err := r.client.ZCard(ctx, r.indexKey(ns)).Result()
	if err != nil {
		return 0, fmt.Errorf("redis count %s: %w", ns, err)
	}
	return int(n), nil
}

func (r *RedisBackend) MarkSeeded(ctx context.Context, ns string) (bool, error) {
	ok, err := r.client.SetNX(ctx, r.seededKey(ns), "1", 0).Result()
	if err != nil {
		return false, fmt.Errorf("redis seed marker %s: %w", ns, err)
	}
	return ok, nil
}

func (r *RedisBackend) UnmarkSeeded(ctx context.Context, ns string) error {
	if err := r.client.Del(ctx, r.seededKey(ns)).Err(); err != nil {
		return fmt.Errorf("redis clear seed marker %s: %w", ns, err)
	}
	return nil
}

func (r *RedisBackend) Close() error {
	return r.client.Close()
}
