package imageloading

import (
	"context"
	"image"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"github.com/boxes-ltd/imaging"
	"github.com/cenkalti/dominantcolor"
	"golang.org/x/sync/singleflight"

	"github.com/supersonic-app/fyne-imageloading/cache"
	"github.com/supersonic-app/fyne-imageloading/diskcache"
	"github.com/supersonic-app/fyne-imageloading/fetch"
)

const memCacheEvictionInterval = 2 * time.Minute

// The Loader is responsible for retrieving and serving images to the UI
// layer. It maintains an in-memory cache of recently used images for
// immediate future access, and optionally a larger on-disk cache of
// images that is periodically re-requested from the server. Identical
// concurrent requests share one fetch.
type Loader struct {
	mem     *cache.ImageCache
	disk    *diskcache.Cache // nil if disk caching disabled
	fetcher *fetch.Fetcher

	defaultTTL   time.Duration
	fetchTimeout time.Duration

	rootCtx  context.Context
	flights  singleflight.Group
	dispatch func(func())

	// accessed only on the UI goroutine
	bindings map[ImageDisplayingView]*ViewBinding
}

var _ Engine = (*Loader)(nil)

// NewLoader initializes a Loader using the given context, which bounds the
// lifetime of all background work, and configuration.
func NewLoader(ctx context.Context, cfg Config) *Loader {
	l := &Loader{
		mem: &cache.ImageCache{
			MinItems:   cfg.MemoryCacheMinItems,
			MaxItems:   cfg.MemoryCacheMaxItems,
			DefaultTTL: time.Duration(cfg.MemoryCacheTTLSeconds) * time.Second,
		},
		fetcher:      fetch.NewFetcher(cfg.HTTPRetryMax),
		defaultTTL:   time.Duration(cfg.MemoryCacheTTLSeconds) * time.Second,
		fetchTimeout: time.Duration(cfg.FetchTimeoutSeconds) * time.Second,
		rootCtx:      ctx,
		dispatch:     func(f func()) { fyne.Do(f) },
		bindings:     make(map[ImageDisplayingView]*ViewBinding),
	}
	if cfg.DiskCacheDir != "" {
		disk, err := diskcache.New(cfg.DiskCacheDir,
			int64(cfg.MaxDiskCacheSizeMB)*1_048_576, cfg.DiskCacheValidTime())
		if err != nil {
			log.Printf("failed to create image disk cache: %v", err)
		} else {
			l.disk = disk
			l.mem.OnEvictTaskRan = disk.Prune
		}
	}
	l.mem.Init(ctx, memCacheEvictionInterval)
	return l
}

// BindingFor returns the ViewBinding for the given view, creating it on
// first use. Subsequent calls with the same view return the identical
// binding until ReleaseBinding is called. Must be called on the UI
// goroutine.
func (l *Loader) BindingFor(view ImageDisplayingView) *ViewBinding {
	if b, ok := l.bindings[view]; ok {
		return b
	}
	b := NewViewBinding(l, view)
	l.bindings[view] = b
	return b
}

// ReleaseBinding cancels any in-flight load for the view and forgets its
// binding, allowing the view to be collected. Must be called on the UI
// goroutine.
func (l *Loader) ReleaseBinding(view ImageDisplayingView) {
	if b, ok := l.bindings[view]; ok {
		b.release()
		delete(l.bindings, view)
	}
}

// CachedImage returns the image for req if it is immediately available
// from the in-memory cache.
func (l *Loader) CachedImage(req ImageRequest) (image.Image, bool) {
	img, err := l.mem.GetResetTTL(req.CacheKey(), true)
	return img, err == nil
}

// Load begins an asynchronous load for req. The callback is invoked
// exactly once on the UI goroutine when the load finishes, unless the
// task is cancelled first.
func (l *Loader) Load(req ImageRequest, cb func(Response)) *Task {
	ctx, cancel := context.WithCancel(l.rootCtx)
	task := newTask(req, cancel)
	go func() {
		resp := l.doLoad(ctx, req)
		if !task.finish(resp) {
			return // cancelled, do not dispatch
		}
		l.dispatch(func() { cb(resp) })
	}()
	return task
}

// Cancel requests best-effort cancellation of an in-flight task. If the
// fetch is shared with other tasks for the same image it continues in the
// background and is cached on completion; only this task's delivery is
// abandoned.
func (l *Loader) Cancel(task *Task) {
	if task != nil {
		task.Cancel()
	}
}

func (l *Loader) doLoad(ctx context.Context, req ImageRequest) Response {
	// the flight runs under its own context so that cancelling one task
	// does not fail concurrent tasks deduplicated onto the same fetch
	ch := l.flights.DoChan(req.CacheKey(), func() (any, error) {
		return l.fetchAndCache(req)
	})
	select {
	case <-ctx.Done():
		return Response{Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return Response{Err: res.Err}
		}
		img := res.Val.(image.Image)
		var info ResponseInfo
		if req.ExtractDominantColor {
			info.DominantColor = dominantcolor.Find(img)
		}
		return Response{Image: img, Info: info}
	}
}

func (l *Loader) fetchAndCache(req ImageRequest) (image.Image, error) {
	ctx, cancel := context.WithTimeout(l.rootCtx, l.fetchTimeout)
	defer cancel()

	key := req.CacheKey()
	if img, err := l.mem.Get(key); err == nil {
		return img, nil
	}
	if l.disk != nil {
		if img, ok := l.disk.Get(key); ok {
			if l.disk.IsStale(key) {
				go l.refreshStaleEntry(req)
			}
			l.storeInMemCache(req, img)
			return img, nil
		}
	}
	return l.fetchFromServer(ctx, req)
}

func (l *Loader) fetchFromServer(ctx context.Context, req ImageRequest) (image.Image, error) {
	img, err := l.fetcher.FetchImage(ctx, req.URL)
	if err != nil {
		return nil, err
	}
	if req.ThumbnailSize > 0 {
		img = imaging.Fit(img, req.ThumbnailSize, req.ThumbnailSize, imaging.Lanczos)
	}
	if l.disk != nil {
		if err := l.disk.Put(req.CacheKey(), img); err != nil {
			log.Printf("failed to cache image: %v", err)
		}
	}
	l.storeInMemCache(req, img)
	return img, nil
}

// refreshStaleEntry re-requests an image whose on-disk copy has passed
// its validity window, overwriting the cached copies.
func (l *Loader) refreshStaleEntry(req ImageRequest) {
	ctx, cancel := context.WithTimeout(l.rootCtx, l.fetchTimeout)
	defer cancel()
	if _, err := l.fetchFromServer(ctx, req); err != nil {
		log.Printf("failed to refresh stale image %s: %v", req.URL, err)
	}
}

func (l *Loader) storeInMemCache(req ImageRequest, img image.Image) {
	ttl := req.TTL
	if ttl == 0 {
		ttl = l.defaultTTL
	}
	l.mem.SetWithTTL(req.CacheKey(), img, ttl)
}
