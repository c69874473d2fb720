package cache

import (
	"container/heap"
	"context"
	"errors"
	"image"
	"sync"
	"time"
)

var ErrNotFound = errors.New("item not found")

type entry struct {
	img image.Image
	ttl time.Duration

	// unix time
	expiresAt    int64
	lastAccessed int64
}

// An in-memory cache for images with the following eviction strategy:
//  1. If there are fewer than MinItems items in the cache, none will be evicted
//  2. If a new addition would make the cache exceed MaxItems, an item will be
//     immediately evicted
//     2a. in this case, evict the LRU expired item or if none expired, the LRU item
//  3. If the size of the cache is between MinItems and MaxItems, expired items
//     will be periodically evicted
//     3a. in this case, again the least recently used expired items will be evicted first
type ImageCache struct {
	MinItems   int
	MaxItems   int
	DefaultTTL time.Duration

	// OnEvictTaskRan, if set, is invoked after each periodic eviction run.
	OnEvictTaskRan func()

	mu      sync.RWMutex
	entries map[string]*entry
}

// Init prepares the cache and starts the periodic eviction task, which
// runs until ctx is cancelled.
func (c *ImageCache) Init(ctx context.Context, evictionInterval time.Duration) {
	c.entries = make(map[string]*entry)
	go c.periodicallyEvict(ctx, evictionInterval)
}

func (c *ImageCache) Set(key string, img image.Image) {
	c.SetWithTTL(key, img, c.DefaultTTL)
}

// holds writer lock for O(c.MaxItems) worst case
func (c *ImageCache) SetWithTTL(key string, img image.Image, ttl time.Duration) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.img = img
		e.ttl = ttl
		e.expiresAt = now.Add(ttl).Unix()
		e.lastAccessed = now.Unix()
		return
	}
	if len(c.entries) == c.MaxItems {
		c.evictOne()
	}
	c.entries[key] = &entry{
		img:          img,
		ttl:          ttl,
		expiresAt:    now.Add(ttl).Unix(),
		lastAccessed: now.Unix(),
	}
}

func (c *ImageCache) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.entries[key]
	return ok
}

func (c *ImageCache) Get(key string) (image.Image, error) {
	return c.GetResetTTL(key, false)
}

// GetResetTTL gets the image and optionally pushes its expiry out to
// time.Now + the entry's TTL. Takes the writer lock since the entry's
// access time is updated in place.
func (c *ImageCache) GetResetTTL(key string, resetTTL bool) (image.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.lastAccessed = time.Now().Unix()
		if resetTTL {
			e.expiresAt = time.Now().Add(e.ttl).Unix()
		}
		return e.img, nil
	}
	return nil, ErrNotFound
}

func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *ImageCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
}

// must be called when the mutex is already acquired for writing
func (c *ImageCache) evictOne() {
	now := time.Now().Unix()
	var lruKey, lruExpiredKey string
	var lruTime, lruExpiredTime int64
	haveLRU, haveExpired := false, false
	for k, e := range c.entries {
		if e.expiresAt < now && (!haveExpired || e.lastAccessed < lruExpiredTime) {
			lruExpiredTime = e.lastAccessed
			lruExpiredKey = k
			haveExpired = true
		}
		if !haveLRU || e.lastAccessed < lruTime {
			lruTime = e.lastAccessed
			lruKey = k
			haveLRU = true
		}
	}
	if haveExpired {
		delete(c.entries, lruExpiredKey)
	} else {
		// no expired items, delete LRU non-expired item
		delete(c.entries, lruKey)
	}
}

func (c *ImageCache) periodicallyEvict(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			c.EvictExpired()
			if c.OnEvictTaskRan != nil {
				c.OnEvictTaskRan()
			}
		}
	}
}

type expiredItem struct {
	key          string
	lastAccessed int64
}

type expiredHeap []expiredItem

func (h expiredHeap) Len() int           { return len(h) }
func (h expiredHeap) Less(i, j int) bool { return h[i].lastAccessed < h[j].lastAccessed }
func (h expiredHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *expiredHeap) Push(x any) {
	*h = append(*h, x.(expiredItem))
}

func (h *expiredHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// EvictExpired evicts least recently used expired items from the cache
// until there are no more expired items or the cache contains MinItems
// elements. Holds the reader lock for O(n) time and writer lock for O(n).
func (c *ImageCache) EvictExpired() {
	c.mu.RLock()
	count := len(c.entries)
	sliceCap := count - c.MinItems
	if sliceCap <= 0 {
		c.mu.RUnlock()
		return
	}
	expired := make(expiredHeap, 0, sliceCap)
	now := time.Now().Unix()
	for k, e := range c.entries {
		if e.expiresAt < now {
			expired = append(expired, expiredItem{key: k, lastAccessed: e.lastAccessed})
		}
	}
	c.mu.RUnlock()

	heap.Init(&expired)
	var keysToRemove []string
	for count > c.MinItems && len(expired) > 0 {
		keysToRemove = append(keysToRemove, heap.Pop(&expired).(expiredItem).key)
		count -= 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keysToRemove {
		// during the interim when we don't hold the lock, some expired
		// items could have been re-set, so check expiry again
		if e, ok := c.entries[key]; ok && e.expiresAt < now {
			delete(c.entries, key)
		}
	}
}
