package imageloading

import (
	"fmt"
	"time"
)

// ImageRequest describes one image to load.
type ImageRequest struct {
	// URL is the remote location of the image.
	URL string

	// ThumbnailSize, if > 0, is the maximum dimension in pixels the
	// decoded image will be downscaled to fit within.
	ThumbnailSize int

	// TTL overrides the loader's default in-memory cache TTL for this
	// image, if nonzero.
	TTL time.Duration

	// ExtractDominantColor requests that the dominant color of the image
	// be computed and included in the response info.
	ExtractDominantColor bool
}

// CacheKey identifies the request's result in the memory and disk caches.
// Requests for the same URL at the same thumbnail size share a cache entry.
func (r ImageRequest) CacheKey() string {
	if r.ThumbnailSize > 0 {
		return fmt.Sprintf("%s@%d", r.URL, r.ThumbnailSize)
	}
	return r.URL
}
