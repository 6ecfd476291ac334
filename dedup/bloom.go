package dedup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"reelforge/types"
)

// BloomConfig configures RedisBloom connection and key
type BloomConfig struct {
	Addr     string // e.g. localhost:6379
	Password string
	DB       int
	Key      string // redis key for bloom filter
	TTL      time.Duration
	// Capacity sets the initial BF.RESERVE capacity (number of items)
	Capacity int
	// ErrorRate sets the desired false positive probability (e.g. 0.001)
	ErrorRate float64
	// If true, BF.RESERVE NONSCALING flag will be used
	NonScaling bool
}

// SeenFilter is a Redis-backed Bloom wrapper that remembers which articles
// already produced a video, so feed runs do not render the same story twice.
// A false positive skips a fresh article; acceptable for a news channel.
type SeenFilter struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewSeenFilterFromEnv creates a SeenFilter using environment variables
// REDIS_ADDR, REDIS_PASS, BLOOM_KEY (optional), BLOOM_TTL_SECONDS (optional)
func NewSeenFilterFromEnv() (*SeenFilter, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	key := os.Getenv("BLOOM_KEY")
	if key == "" {
		key = "articles:seen"
	}
	ttl := 7 * 24 * time.Hour
	if t := os.Getenv("BLOOM_TTL_SECONDS"); t != "" {
		if secs, err := strconv.Atoi(t); err == nil && secs > 0 {
			ttl = time.Duration(secs) * time.Second
		}
	}

	capacity := 100000
	if c := os.Getenv("BLOOM_CAPACITY"); c != "" {
		if v, err := strconv.Atoi(c); err == nil && v > 0 {
			capacity = v
		}
	}
	errorRate := 0.001
	if e := os.Getenv("BLOOM_ERROR_RATE"); e != "" {
		if v, err := strconv.ParseFloat(e, 64); err == nil && v > 0 {
			errorRate = v
		}
	}

	cfg := BloomConfig{
		Addr:      addr,
		Password:  os.Getenv("REDIS_PASS"),
		Key:       key,
		TTL:       ttl,
		Capacity:  capacity,
		ErrorRate: errorRate,
	}
	return NewSeenFilter(cfg)
}

// NewSeenFilter creates a SeenFilter and verifies connectivity.
func NewSeenFilter(cfg BloomConfig) (*SeenFilter, error) {
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

	f := &SeenFilter{client: client, key: cfg.Key, ttl: cfg.TTL}

	// If the key does not exist, attempt BF.RESERVE with the configured
	// capacity and error rate. If the RedisBloom module is missing, BF.ADD
	// may still auto-create the filter, so a failed reserve is non-fatal.
	exists, err := client.Exists(ctx, cfg.Key).Result()
	if err == nil && exists == 0 {
		args := []interface{}{"BF.RESERVE", cfg.Key, fmt.Sprintf("%f", cfg.ErrorRate), cfg.Capacity}
		if cfg.NonScaling {
			args = append(args, "NONSCALING")
		}
		_ = client.Do(ctx, args...).Err()
	}

	return f, nil
}

// Close closes the underlying Redis client.
func (f *SeenFilter) Close() error {
	return f.client.Close()
}

// Seen checks whether the article was already processed.
func (f *SeenFilter) Seen(article *types.Article) (bool, error) {
	hash, err := NormalizeAndHash(article)
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := f.client.Do(ctx, "BF.EXISTS", f.key, hash).Result()
	if err != nil {
		return false, err
	}

	switch v := res.(type) {
	case int64:
		return v == 1, nil
	case string:
		return v == "1", nil
	default:
		return false, fmt.Errorf("unexpected BF.EXISTS response type %T: %v", res, res)
	}
}

// Mark records the article as processed and refreshes the filter TTL.
// Sliding window: the filter stays active for ttl after the latest insert.
func (f *SeenFilter) Mark(article *types.Article) error {
	hash, err := NormalizeAndHash(article)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := f.client.Do(ctx, "BF.ADD", f.key, hash).Err(); err != nil {
		return err
	}
	return f.client.Expire(ctx, f.key, f.ttl).Err()
}

// NormalizeAndHash normalizes the article's URL and title and returns a
// SHA-256 hex hash. Normalization:
// - URL: remove fragment, remove common tracking query params (utm_*, fbclid), lowercase host
// - Title: collapse whitespace and lowercase
// The result is sha256(normalizedURL + "|" + normalizedTitle)
func NormalizeAndHash(article *types.Article) (string, error) {
	if article == nil {
		return "", fmt.Errorf("nil article")
	}

	normURL := normalizeURL(article.URL)
	normTitle := normalizeTitle(article.Title)

	combined := normURL + "|" + normTitle

	h := sha256.Sum256([]byte(combined))
	return hex.EncodeToString(h[:]), nil
}

func normalizeTitle(t string) string {
	t = strings.TrimSpace(t)
	t = strings.ToLower(t)
	fields := strings.Fields(t)
	return strings.Join(fields, " ")
}

func normalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return strings.ToLower(raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") || lk == "fbclid" || lk == "gclid" {
			q.Del(k)
		}
	}
	u.RawQuery = q.Encode()

	out := u.String()
	if strings.HasSuffix(out, "/") {
		out = strings.TrimRight(out, "/")
	}
	return out
}
