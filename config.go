package imageloading

import (
	"os"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	// MemoryCacheMinItems is the floor below which the in-memory cache
	// never evicts, even expired entries.
	MemoryCacheMinItems int

	// MemoryCacheMaxItems is the hard cap on in-memory cache entries.
	MemoryCacheMaxItems int

	// MemoryCacheTTLSeconds is the default lifetime of an in-memory entry.
	MemoryCacheTTLSeconds int

	// DiskCacheDir is the directory for the on-disk cache. Empty disables
	// disk caching.
	DiskCacheDir string

	// MaxDiskCacheSizeMB caps the total size of the on-disk cache.
	MaxDiskCacheSizeMB int

	// DiskCacheValidHours is how long an on-disk image is served before
	// being re-requested from the server.
	DiskCacheValidHours int

	// HTTPRetryMax is the number of times a failed image fetch is retried.
	HTTPRetryMax int

	// FetchTimeoutSeconds bounds a single image fetch, including retries.
	FetchTimeoutSeconds int
}

func DefaultConfig() Config {
	return Config{
		MemoryCacheMinItems:   24,
		MemoryCacheMaxItems:   150,
		MemoryCacheTTLSeconds: 60,
		MaxDiskCacheSizeMB:    50,
		DiskCacheValidHours:   24,
		HTTPRetryMax:          2,
		FetchTimeoutSeconds:   30,
	}
}

func (c Config) DiskCacheValidTime() time.Duration {
	return time.Duration(c.DiskCacheValidHours) * time.Hour
}

var writeLock sync.Mutex

func ReadConfigFile(filepath string) (*Config, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c := DefaultConfig()
	if err := toml.NewDecoder(f).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) WriteConfigFile(filepath string) error {
	if !writeLock.TryLock() {
		return nil // another write in progress
	}
	defer writeLock.Unlock()

	b, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, b, 0644)
}
