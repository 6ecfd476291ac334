package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"reelforge/types"
)

// RedisConfig configures the Redis-backed job store.
type RedisConfig struct {
	Addr     string // e.g. localhost:6379
	Password string
	DB       int
	// Prefix namespaces job keys, e.g. "reelforge:jobs:".
	Prefix string
	// TTL expires finished jobs; zero keeps them forever.
	TTL time.Duration
}

// RedisStore persists render jobs as JSON values keyed by job ID, with an
// index set for listing.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStoreFromEnv creates a store using environment variables
// REDIS_ADDR, REDIS_PASS, REDIS_DB (optional), JOBS_PREFIX (optional),
// JOBS_TTL_SECONDS (optional).
func NewRedisStoreFromEnv() (*RedisStore, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	db := 0
	if d := os.Getenv("REDIS_DB"); d != "" {
		if v, err := strconv.Atoi(d); err == nil {
			db = v
		}
	}
	prefix := os.Getenv("JOBS_PREFIX")
	if prefix == "" {
		prefix = "reelforge:jobs:"
	}
	ttl := 7 * 24 * time.Hour
	if t := os.Getenv("JOBS_TTL_SECONDS"); t != "" {
		if secs, err := strconv.Atoi(t); err == nil && secs > 0 {
			ttl = time.Duration(secs) * time.Second
		}
	}

	cfg := RedisConfig{Addr: addr, Password: os.Getenv("REDIS_PASS"), DB: db, Prefix: prefix, TTL: ttl}
	return NewRedisStore(cfg)
}

// NewRedisStore creates a RedisStore and verifies connectivity.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return &RedisStore{client: client, prefix: cfg.Prefix, ttl: cfg.TTL}, nil
}

// Close closes the underlying Redis client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) key(id string) string { return r.prefix + id }

func (r *RedisStore) indexKey() string { return r.prefix + "index" }

// Save writes the job JSON and refreshes its TTL. Sliding expiry: the job
// stays around for TTL after its most recent update.
func (r *RedisStore) Save(ctx context.Context, job *types.RenderJob) error {
	if job == nil || job.ID == "" {
		return fmt.Errorf("job must have an ID")
	}

	b, err := json.Marshal(job)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.key(job.ID), b, r.ttl)
	pipe.SAdd(ctx, r.indexKey(), job.ID)
	if r.ttl > 0 {
		pipe.Expire(ctx, r.indexKey(), r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save job %s: %w", job.ID, err)
	}
	return nil
}

// Get loads one job by ID.
func (r *RedisStore) Get(ctx context.Context, id string) (*types.RenderJob, error) {
	b, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}

	var job types.RenderJob
	if err := json.Unmarshal(b, &job); err != nil {
		return nil, fmt.Errorf("corrupt job record %s: %w", id, err)
	}
	return &job, nil
}

// List loads every job currently in the index. Expired jobs are pruned from
// the index as they are encountered.
func (r *RedisStore) List(ctx context.Context) ([]*types.RenderJob, error) {
	ids, err := r.client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, err
	}

	out := make([]*types.RenderJob, 0, len(ids))
	for _, id := range ids {
		job, err := r.Get(ctx, id)
		if err == ErrJobNotFound {
			r.client.SRem(ctx, r.indexKey(), id)
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, nil
}
