package assets

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"reelforge/config"
)

// ImageCache is the shared on-disk image store, keyed by the normalized
// keyword string of a scene. Keys are append-only: once written they are
// never overwritten or deleted by this subsystem (cleanup belongs to an
// external job). Concurrent readers are safe; writers are serialized per key
// via lock striping so two scenes with the same keywords cannot race a
// duplicate download.
type ImageCache struct {
	dir     string
	stripes [config.CacheLockStripes]sync.Mutex
}

// NewImageCache opens (creating if needed) a cache rooted at dir.
func NewImageCache(dir string) (*ImageCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create image cache dir: %w", err)
	}
	return &ImageCache{dir: dir}, nil
}

// Key derives the cache key from a keyword list: keywords are trimmed,
// lower-cased and joined in order, then hashed. Case and spacing variants of
// the same keywords land on the same key.
func (c *ImageCache) Key(keywords []string) string {
	parts := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.Join(strings.Fields(k), " "))
		if k != "" {
			parts = append(parts, k)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	sum := md5.Sum([]byte(strings.Join(parts, "_")))
	return hex.EncodeToString(sum[:])[:16]
}

// Path returns the on-disk location for a key, whether or not it exists yet.
func (c *ImageCache) Path(key string) string {
	return filepath.Join(c.dir, key+".jpg")
}

// Lookup reports whether an image for key is already cached.
func (c *ImageCache) Lookup(key string) (string, bool) {
	if key == "" {
		return "", false
	}
	path := c.Path(key)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// Store persists image bytes under key and returns the cached path. If
// another writer got there first the existing file wins (append-only).
func (c *ImageCache) Store(key string, data []byte) (string, error) {
	if key == "" {
		return "", fmt.Errorf("empty cache key")
	}
	path := c.Path(key)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	// Write to a temp file first so readers never observe a partial image.
	tmp, err := os.CreateTemp(c.dir, key+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to finalize cached image: %w", err)
	}
	return path, nil
}

// LockKey serializes writers for a cache key. Returns the unlock function.
func (c *ImageCache) LockKey(key string) func() {
	h := fnv.New32a()
	h.Write([]byte(key))
	m := &c.stripes[h.Sum32()%config.CacheLockStripes]
	m.Lock()
	return m.Unlock
}
