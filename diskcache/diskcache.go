// Package diskcache implements an on-disk JPEG cache of fetched images,
// capped at a configurable total size, with least-recently-written
// entries pruned first.
package diskcache

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/20after4/configdir"
)

type Cache struct {
	dir          string
	maxSizeBytes int64
	validFor     time.Duration

	mu                         sync.Mutex
	filesWrittenSinceLastPrune bool
}

// New creates a Cache rooted at dir, creating the directory if needed.
// Entries older than validFor are reported stale by IsStale but still
// served; callers refresh them in the background.
func New(dir string, maxSizeBytes int64, validFor time.Duration) (*Cache, error) {
	if err := configdir.MakePath(dir); err != nil {
		return nil, errors.New("failed to create image cache dir")
	}
	return &Cache{
		dir:          dir,
		maxSizeBytes: maxSizeBytes,
		validFor:     validFor,
	}, nil
}

func (c *Cache) Get(key string) (image.Image, bool) {
	f, err := os.Open(c.Path(key))
	if err != nil {
		return nil, false
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, false
	}
	return img, true
}

// IsStale reports whether the cached entry has outlived its validity
// window and should be re-requested from the server.
func (c *Cache) IsStale(key string) bool {
	stat, err := os.Stat(c.Path(key))
	return err == nil && time.Since(stat.ModTime()) > c.validFor
}

func (c *Cache) Put(key string, img image.Image) error {
	f, err := os.Create(c.Path(key))
	if err != nil {
		return err
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, nil /*options*/); err != nil {
		return err
	}
	c.mu.Lock()
	c.filesWrittenSinceLastPrune = true
	c.mu.Unlock()
	return nil
}

// Path returns the file path an entry is stored at. Keys are hashed since
// they are typically URLs, not safe file names.
func (c *Cache) Path(key string) string {
	return filepath.Join(c.dir, fmt.Sprintf("%x.jpg", sha256.Sum256([]byte(key))))
}

// Prune deletes least-recently-written entries until the cache is under
// its size cap. It does nothing if no entry has been written since the
// last run.
func (c *Cache) Prune() {
	c.mu.Lock()
	written := c.filesWrittenSinceLastPrune
	c.filesWrittenSinceLastPrune = false
	c.mu.Unlock()
	if !written {
		return // no new images cached since last run, no need to walk dir
	}

	// we use modTime as a proxy for last accessed time, since entries are
	// refreshed after a fixed validity interval
	type fileInfo struct {
		path    string
		size    int64
		modTime int64
	}
	var allEntries []fileInfo
	var totalSize int64
	filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, "jpg") {
			return nil
		}
		if info, err := d.Info(); err == nil {
			s := info.Size()
			allEntries = append(allEntries,
				fileInfo{path: path, size: s, modTime: info.ModTime().UnixMilli()})
			totalSize += s
		}
		return nil
	})

	if totalSize > c.maxSizeBytes {
		sort.Slice(allEntries, func(i, j int) bool {
			return allEntries[i].modTime < allEntries[j].modTime
		})
		for i := 0; i < len(allEntries) && totalSize > c.maxSizeBytes; i++ {
			if err := os.Remove(allEntries[i].path); err == nil {
				totalSize -= allEntries[i].size
			}
		}
	}
}
