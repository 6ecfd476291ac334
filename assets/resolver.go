package assets

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"sync"
	"time"

	"reelforge/config"
	"reelforge/types"
)

// ImageSearcher is the external image-search collaborator. Implementations
// return zero or more image URLs for a query; the resolver uses only the
// first result.
type ImageSearcher interface {
	SearchImages(ctx context.Context, query string) ([]string, error)
}

// DownloadFunc fetches image bytes from a URL.
type DownloadFunc func(ctx context.Context, url string) ([]byte, error)

// Resolver resolves exactly one cached image per scene. Safe for concurrent
// use across scenes of the same script; the only shared state is the
// read-through image cache.
type Resolver struct {
	cache       *ImageCache
	searcher    ImageSearcher
	download    DownloadFunc
	placeholder string
	retries     int
	backoff     time.Duration
}

// NewResolver wires a resolver against the shared cache and a searcher.
// The cache is passed in by the caller rather than held as process state so
// cross-script reuse stays explicit.
func NewResolver(cache *ImageCache, searcher ImageSearcher) *Resolver {
	return &Resolver{
		cache:       cache,
		searcher:    searcher,
		download:    httpDownload,
		placeholder: config.PlaceholderImage,
		retries:     config.SearchRetries,
		backoff:     config.SearchRetryBackoff,
	}
}

// WithDownloader overrides the image download function (tests).
func (r *Resolver) WithDownloader(d DownloadFunc) *Resolver {
	r.download = d
	return r
}

// WithPlaceholder overrides the fallback image path.
func (r *Resolver) WithPlaceholder(path string) *Resolver {
	r.placeholder = path
	return r
}

// Resolve finds the visual for one scene. A failed or empty search never
// fails the render: the scene falls back to the bundled placeholder and is
// flagged, so one bad image cannot abort the video.
func (r *Resolver) Resolve(ctx context.Context, scene types.SceneUnit) (*types.SceneAsset, error) {
	key := r.cache.Key(scene.ImageKeywords)
	if key == "" {
		log.Printf("[assets] scene %d has no image keywords, using placeholder", scene.Index)
		return r.fallback(scene.Index), nil
	}

	unlock := r.cache.LockKey(key)
	defer unlock()

	if path, ok := r.cache.Lookup(key); ok {
		return &types.SceneAsset{
			SceneIndex:   scene.Index,
			ImagePath:    path,
			KeywordsUsed: scene.ImageKeywords,
			IsFallback:   false,
		}, nil
	}

	for _, keyword := range scene.ImageKeywords {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		urls, err := r.searchWithRetry(ctx, keyword)
		if err != nil {
			// Exhausted retries counts as a miss, not a job failure.
			log.Printf("[assets] scene %d search %q failed: %v", scene.Index, keyword, err)
			continue
		}
		if len(urls) == 0 {
			continue
		}

		data, err := r.download(ctx, urls[0])
		if err != nil {
			log.Printf("[assets] scene %d download for %q failed: %v", scene.Index, keyword, err)
			continue
		}

		path, err := r.cache.Store(key, data)
		if err != nil {
			return nil, fmt.Errorf("failed to cache image for scene %d: %w", scene.Index, err)
		}
		return &types.SceneAsset{
			SceneIndex:   scene.Index,
			ImagePath:    path,
			KeywordsUsed: []string{keyword},
			IsFallback:   false,
		}, nil
	}

	log.Printf("[assets] scene %d exhausted %d keyword(s), using placeholder", scene.Index, len(scene.ImageKeywords))
	return r.fallback(scene.Index), nil
}

// ResolvePinned resolves a known image URL (e.g. a book cover) into the
// cache, bypassing search. Falls back to the placeholder on download failure.
func (r *Resolver) ResolvePinned(ctx context.Context, sceneIndex int, url, label string) (*types.SceneAsset, error) {
	key := r.cache.Key([]string{"pinned", label})
	if key == "" {
		key = r.cache.Key([]string{"pinned", url})
	}

	unlock := r.cache.LockKey(key)
	defer unlock()

	if path, ok := r.cache.Lookup(key); ok {
		return &types.SceneAsset{SceneIndex: sceneIndex, ImagePath: path, KeywordsUsed: []string{label}}, nil
	}

	data, err := r.download(ctx, url)
	if err != nil {
		log.Printf("[assets] pinned download %q failed: %v", url, err)
		return r.fallback(sceneIndex), nil
	}

	path, err := r.cache.Store(key, data)
	if err != nil {
		return nil, fmt.Errorf("failed to cache pinned image: %w", err)
	}
	return &types.SceneAsset{SceneIndex: sceneIndex, ImagePath: path, KeywordsUsed: []string{label}}, nil
}

// ResolveAll resolves every scene concurrently, bounded by a semaphore, and
// returns the assets re-sorted by scene index so output ordering does not
// depend on completion order.
func (r *Resolver) ResolveAll(ctx context.Context, scenes []types.SceneUnit) ([]types.SceneAsset, error) {
	results := make([]*types.SceneAsset, len(scenes))
	errs := make([]error, len(scenes))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, config.MaxConcurrentResolutions)

	for i, scene := range scenes {
		wg.Add(1)
		go func(pos int, sc types.SceneUnit) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			asset, err := r.Resolve(ctx, sc)
			if err != nil {
				errs[pos] = err
				return
			}
			results[pos] = asset
		}(i, scene)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	assets := make([]types.SceneAsset, len(results))
	for i, a := range results {
		assets[i] = *a
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].SceneIndex < assets[j].SceneIndex })
	return assets, nil
}

func (r *Resolver) fallback(sceneIndex int) *types.SceneAsset {
	return &types.SceneAsset{
		SceneIndex: sceneIndex,
		ImagePath:  r.placeholder,
		IsFallback: true,
	}
}

func (r *Resolver) searchWithRetry(ctx context.Context, keyword string) ([]string, error) {
	var lastErr error
	for attempt := 0; attempt <= r.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(r.backoff * time.Duration(attempt)):
			}
		}

		urls, err := r.searcher.SearchImages(ctx, keyword)
		if err == nil {
			return urls, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func httpDownload(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
