package cache_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/evelyn-website/family-photo-sub000/internal/cache"
)

// fakeFetcher counts fetches and can be told to fail or block.
type fakeFetcher struct {
	fetches atomic.Int64
	fail    atomic.Bool
	release chan struct{} // when set, FetchPayload blocks until closed
}

func (f *fakeFetcher) FetchPayload(ctx context.Context, url string) ([]byte, string, error) {
	f.fetches.Add(1)
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, "", ctx.Err()
		}
	}
	if f.fail.Load() {
		return nil, "", errors.New("image host unavailable")
	}
	return []byte("jpeg-bytes:" + url), "image/jpeg", nil
}

func newTestPayloadCache(t *testing.T, fetcher cache.PayloadFetcher) *cache.PayloadCache {
	t.Helper()
	cfg := cache.PayloadConfig{
		DownloadsPerSecond: 1000,
		DownloadBurst:      1000,
		FetchTimeout:       5 * time.Second,
	}
	pc, err := cache.NewPayloadCache(cfg, fetcher, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = pc.Dispose() })
	return pc
}

func TestMaterializeCreatesHandle(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{}
	pc := newTestPayloadCache(t, fetcher)

	pc.Materialize("p1", "https://img.example/p1.jpg")

	require.Eventually(t, func() bool {
		_, ok := pc.HandleFor("p1")
		return ok
	}, 2*time.Second, 5*time.Millisecond)

	h, _ := pc.HandleFor("p1")
	require.Equal(t, "image/jpeg", h.ContentType())

	data, err := os.ReadFile(h.LocalPath())
	require.NoError(t, err)
	require.Equal(t, "jpeg-bytes:https://img.example/p1.jpg", string(data))
}

func TestMaterializeIsIdempotentPerIdentity(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{}
	pc := newTestPayloadCache(t, fetcher)

	pc.Materialize("p1", "https://img.example/p1.jpg")
	require.Eventually(t, func() bool {
		_, ok := pc.HandleFor("p1")
		return ok
	}, 2*time.Second, 5*time.Millisecond)

	// A second call after the handle exists must not fetch again.
	pc.Materialize("p1", "https://img.example/p1.jpg")
	time.Sleep(50 * time.Millisecond)

	require.Equal(t, int64(1), fetcher.fetches.Load(), "exactly one network fetch expected")
}

func TestConcurrentMaterializeCoalesces(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{release: make(chan struct{})}
	pc := newTestPayloadCache(t, fetcher)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pc.Materialize("X", "https://img.example/x.jpg")
		}()
	}
	wg.Wait()

	// All ten calls raced while the first download was blocked; release it.
	close(fetcher.release)

	require.Eventually(t, func() bool {
		_, ok := pc.HandleFor("X")
		return ok
	}, 2*time.Second, 5*time.Millisecond)

	require.Equal(t, int64(1), fetcher.fetches.Load(), "concurrent calls must coalesce into one fetch")

	// Both (all) callers observe the same handle.
	h1, _ := pc.HandleFor("X")
	h2, _ := pc.HandleFor("X")
	require.Same(t, h1, h2)
}

func TestMaterializeFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{}
	fetcher.fail.Store(true)
	pc := newTestPayloadCache(t, fetcher)

	pc.Materialize("p1", "https://img.example/p1.jpg")

	// Failure leaves no handle and raises nothing.
	time.Sleep(100 * time.Millisecond)
	_, ok := pc.HandleFor("p1")
	require.False(t, ok, "failed materialization must not create a handle")

	// The pending marker was cleared: a later attempt can try again.
	fetcher.fail.Store(false)
	pc.Materialize("p1", "https://img.example/p1.jpg")
	require.Eventually(t, func() bool {
		_, ok := pc.HandleFor("p1")
		return ok
	}, 2*time.Second, 5*time.Millisecond)
	require.Equal(t, int64(2), fetcher.fetches.Load())
}

func TestDisposeRevokesAllHandles(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{}
	pc := newTestPayloadCache(t, fetcher)

	ids := []string{"a", "b", "c"}
	for _, id := range ids {
		pc.Materialize(id, "https://img.example/"+id+".jpg")
	}
	require.Eventually(t, func() bool {
		return pc.HandleCount() == len(ids)
	}, 2*time.Second, 5*time.Millisecond)

	var paths []string
	for _, id := range ids {
		h, ok := pc.HandleFor(id)
		require.True(t, ok)
		paths = append(paths, h.LocalPath())
	}

	require.NoError(t, pc.Dispose())

	for _, p := range paths {
		_, err := os.Stat(p)
		require.True(t, os.IsNotExist(err), "payload file %s must be removed on dispose", p)
	}
	require.Zero(t, pc.HandleCount())

	// Post-dispose materialization is a no-op.
	before := fetcher.fetches.Load()
	pc.Materialize("later", "https://img.example/later.jpg")
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, before, fetcher.fetches.Load())
}

func TestMaterializeIgnoresEmptyInputs(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{}
	pc := newTestPayloadCache(t, fetcher)

	pc.Materialize("", "https://img.example/x.jpg")
	pc.Materialize("p1", "")
	time.Sleep(50 * time.Millisecond)
	require.Zero(t, fetcher.fetches.Load())
}
