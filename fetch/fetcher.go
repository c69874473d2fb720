// Package fetch retrieves and decodes remote images over HTTP, with
// automatic retries and context cancellation.
package fetch

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
)

type Fetcher struct {
	client *retryablehttp.Client
}

func NewFetcher(retryMax int) *Fetcher {
	client := retryablehttp.NewClient()
	client.RetryMax = retryMax
	client.Logger = nil
	return &Fetcher{client: client}
}

// FetchImage downloads and decodes the image at url. The body read is
// abandoned as soon as ctx is cancelled.
func (f *Fetcher) FetchImage(ctx context.Context, url string) (image.Image, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	res, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching image: %s", res.Status)
	}
	img, _, err := image.Decode(NewCancellableReader(ctx, res.Body))
	if err != nil {
		return nil, err
	}
	return img, nil
}
