/*
 * @Author:    thepoy
 * @File Name: redis.go
 */

package store

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/go-predator/asyncrawler/tools"
)

const redisNamespace = "asyncrawler-cache"

// redisStore is the low-latency alternate backend. Unlike the SQL backends
// it treats every Put as already durable: Redis's own persistence (AOF/RDB)
// is the durability boundary, so there is nothing for an in-process write
// buffer to protect against — buffering here would only add staleness risk
// for no benefit, so MaxOperations is accepted but unused.
type redisStore struct {
	opts   Options
	client *redis.Client
	ctx    context.Context
}

// NewRedis opens a Redis-backed Store.
func NewRedis(addr, password string, db int, opts Options) Store {
	opts = opts.withDefaults()
	return &redisStore{
		opts: opts,
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ctx: context.Background(),
	}
}

func redisKey(key string) string {
	var s strings.Builder
	s.WriteString(redisNamespace)
	s.WriteByte(':')
	s.WriteString(key)
	return s.String()
}

type redisEnvelope struct {
	Value   string    `json:"v"`
	Updated time.Time `json:"u"`
}

func (r *redisStore) Put(key string, value []byte) error {
	compressed := tools.CompressLevel(value, r.opts.CompressionLevel)
	env := redisEnvelope{
		Value:   base64.StdEncoding.EncodeToString(compressed),
		Updated: time.Now(),
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return r.client.Set(r.ctx, redisKey(key), payload, 0).Err()
}

func (r *redisStore) get(key string) (*redisEnvelope, error) {
	raw, err := r.client.Get(r.ctx, redisKey(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var env redisEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

func (r *redisStore) Get(key string) ([]byte, time.Time, error) {
	env, err := r.get(key)
	if err != nil {
		return nil, time.Time{}, err
	}

	if r.opts.Expires != 0 && time.Since(env.Updated) >= r.opts.Expires {
		return nil, time.Time{}, ErrNotFound
	}

	compressed, err := base64.StdEncoding.DecodeString(env.Value)
	if err != nil {
		return nil, time.Time{}, err
	}
	dec, err := tools.Decompress(compressed)
	if err != nil {
		return nil, time.Time{}, err
	}
	return dec, env.Updated, nil
}

func (r *redisStore) Contains(key string) bool {
	_, _, err := r.Get(key)
	return err == nil
}

func (r *redisStore) Del(key string) error {
	return r.client.Del(r.ctx, redisKey(key)).Err()
}

func (r *redisStore) scanAllKeys() ([]string, error) {
	var (
		cursor uint64
		keys   []string
	)
	for {
		batch, next, err := r.client.Scan(r.ctx, cursor, redisKey("*"), 100).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return keys, nil
}

func (r *redisStore) IterKeys() ([]string, error) {
	raw, err := r.scanAllKeys()
	if err != nil {
		return nil, err
	}
	prefix := redisNamespace + ":"
	out := make([]string, 0, len(raw))
	for _, k := range raw {
		out = append(out, strings.TrimPrefix(k, prefix))
	}
	return out, nil
}

func (r *redisStore) Len() (int, error) {
	keys, err := r.scanAllKeys()
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

func (r *redisStore) Clear() error {
	keys, err := r.scanAllKeys()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(r.ctx, keys...).Err()
}

// Compact is a no-op: Redis reclaims memory from deleted keys on its own
// and exposes no client-triggerable defragmentation primitive worth
// plumbing through here.
func (r *redisStore) Compact() error {
	return nil
}

// Commit is a no-op: every Put is already durable once Redis acknowledges
// it, per the type doc comment above.
func (r *redisStore) Commit() error {
	return nil
}

func (r *redisStore) Close() error {
	return r.client.Close()
}
