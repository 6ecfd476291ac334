package assets

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"reelforge/types"
)

// fakeSearcher records queries and serves canned results per keyword.
type fakeSearcher struct {
	mu      sync.Mutex
	results map[string][]string
	errs    map[string]error
	calls   []string
}

func newFakeSearcher() *fakeSearcher {
	return &fakeSearcher{
		results: make(map[string][]string),
		errs:    make(map[string]error),
	}
}

func (f *fakeSearcher) SearchImages(ctx context.Context, query string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, query)
	if err, ok := f.errs[query]; ok {
		return nil, err
	}
	return f.results[query], nil
}

func (f *fakeSearcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func testResolver(t *testing.T, searcher ImageSearcher) (*Resolver, *ImageCache) {
	t.Helper()
	cache, err := NewImageCache(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	r := NewResolver(cache, searcher).
		WithPlaceholder("testdata/placeholder.jpg").
		WithDownloader(func(ctx context.Context, url string) ([]byte, error) {
			return []byte("image-bytes:" + url), nil
		})
	r.backoff = 0
	return r, cache
}

func TestResolveWalksKeywordsInOrder(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.results["quantum computing"] = nil
	searcher.results["processor"] = nil
	searcher.results["technology"] = []string{"https://img.example/tech.jpg"}

	r, _ := testResolver(t, searcher)
	scene := types.SceneUnit{
		Index:         3,
		Text:          "some narration",
		ImageKeywords: []string{"quantum computing", "processor", "technology"},
	}

	asset, err := r.Resolve(context.Background(), scene)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if asset.IsFallback {
		t.Fatal("expected real asset, got fallback")
	}
	if len(asset.KeywordsUsed) != 1 || asset.KeywordsUsed[0] != "technology" {
		t.Fatalf("KeywordsUsed = %v, want [technology]", asset.KeywordsUsed)
	}
	if asset.SceneIndex != 3 {
		t.Fatalf("SceneIndex = %d, want 3", asset.SceneIndex)
	}
}

func TestResolveSecondCallServedFromCache(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.results["artificial intelligence"] = []string{"https://img.example/ai.jpg"}

	r, _ := testResolver(t, searcher)
	sceneA := types.SceneUnit{Index: 1, ImageKeywords: []string{"artificial intelligence"}}
	// Case and spacing variants of the same keywords share one cache entry.
	sceneB := types.SceneUnit{Index: 2, ImageKeywords: []string{"  Artificial   Intelligence "}}

	first, err := r.Resolve(context.Background(), sceneA)
	if err != nil {
		t.Fatalf("first Resolve failed: %v", err)
	}
	second, err := r.Resolve(context.Background(), sceneB)
	if err != nil {
		t.Fatalf("second Resolve failed: %v", err)
	}

	if first.ImagePath != second.ImagePath {
		t.Fatalf("expected shared cached file, got %q and %q", first.ImagePath, second.ImagePath)
	}
	if got := searcher.callCount(); got != 1 {
		t.Fatalf("expected exactly 1 network search, got %d", got)
	}
	if second.IsFallback {
		t.Fatal("cache hit must not be flagged as fallback")
	}
}

func TestResolveFallsBackToPlaceholder(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.results["nothing"] = nil

	r, _ := testResolver(t, searcher)
	scene := types.SceneUnit{Index: 4, ImageKeywords: []string{"nothing"}}

	asset, err := r.Resolve(context.Background(), scene)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !asset.IsFallback {
		t.Fatal("expected fallback asset")
	}
	if asset.ImagePath != "testdata/placeholder.jpg" {
		t.Fatalf("ImagePath = %q, want placeholder", asset.ImagePath)
	}
}

func TestResolveRetriesThenTreatsFailureAsMiss(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.errs["flaky"] = errors.New("connection reset")
	searcher.results["stable"] = []string{"https://img.example/ok.jpg"}

	r, _ := testResolver(t, searcher)
	scene := types.SceneUnit{Index: 1, ImageKeywords: []string{"flaky", "stable"}}

	asset, err := r.Resolve(context.Background(), scene)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if asset.IsFallback {
		t.Fatal("second keyword should have produced a real asset")
	}

	// "flaky" tried 1 + 2 retries, then "stable" once.
	if got := searcher.callCount(); got != 4 {
		t.Fatalf("expected 4 search calls, got %d", got)
	}
}

func TestResolveAllSortsBySceneIndex(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.results["alpha"] = []string{"https://img.example/a.jpg"}
	searcher.results["beta"] = []string{"https://img.example/b.jpg"}
	searcher.results["gamma"] = []string{"https://img.example/c.jpg"}

	r, _ := testResolver(t, searcher)
	scenes := []types.SceneUnit{
		{Index: 1, ImageKeywords: []string{"alpha"}},
		{Index: 2, ImageKeywords: []string{"beta"}},
		{Index: 3, ImageKeywords: []string{"gamma"}},
	}

	assets, err := r.ResolveAll(context.Background(), scenes)
	if err != nil {
		t.Fatalf("ResolveAll failed: %v", err)
	}
	if len(assets) != 3 {
		t.Fatalf("expected 3 assets, got %d", len(assets))
	}
	for i, a := range assets {
		if a.SceneIndex != i+1 {
			t.Fatalf("position %d has scene index %d", i, a.SceneIndex)
		}
	}
}

func TestConcurrentResolutionDownloadsOnce(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.results["shared topic"] = []string{"https://img.example/shared.jpg"}

	var downloads int32
	cache, err := NewImageCache(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	r := NewResolver(cache, searcher).WithDownloader(func(ctx context.Context, url string) ([]byte, error) {
		atomic.AddInt32(&downloads, 1)
		return []byte("img"), nil
	})
	r.backoff = 0

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			scene := types.SceneUnit{Index: idx + 1, ImageKeywords: []string{"shared topic"}}
			if _, err := r.Resolve(context.Background(), scene); err != nil {
				t.Errorf("Resolve failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if got := atomic.LoadInt32(&downloads); got != 1 {
		t.Fatalf("expected a single download for the shared key, got %d", got)
	}
}

func TestResolvePinnedCachesCover(t *testing.T) {
	r, _ := testResolver(t, newFakeSearcher())

	first, err := r.ResolvePinned(context.Background(), 1, "https://covers.example/atomic-habits.jpg", "atomic habits")
	if err != nil {
		t.Fatalf("ResolvePinned failed: %v", err)
	}
	if first.IsFallback {
		t.Fatal("pinned download should not fall back")
	}

	var downloads int32
	r.WithDownloader(func(ctx context.Context, url string) ([]byte, error) {
		atomic.AddInt32(&downloads, 1)
		return []byte("img"), nil
	})
	second, err := r.ResolvePinned(context.Background(), 1, "https://covers.example/atomic-habits.jpg", "atomic habits")
	if err != nil {
		t.Fatalf("second ResolvePinned failed: %v", err)
	}
	if second.ImagePath != first.ImagePath {
		t.Fatalf("expected cached cover path %q, got %q", first.ImagePath, second.ImagePath)
	}
	if atomic.LoadInt32(&downloads) != 0 {
		t.Fatal("second pinned resolve must be served from cache")
	}
}
