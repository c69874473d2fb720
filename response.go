package imageloading

import (
	"image"
	"image/color"
)

// ResponseInfo carries metadata about how a load completed.
type ResponseInfo struct {
	// FastResponse is true when the image was served synchronously from
	// the in-memory cache, with no perceptible latency.
	FastResponse bool

	// DominantColor is set when the request asked for dominant color
	// extraction and the load succeeded.
	DominantColor color.Color
}

// Response is the terminal result of a load task: either an image or an
// error, never both.
type Response struct {
	Image image.Image
	Info  ResponseInfo
	Err   error
}

// Failed reports whether the load finished in failure.
func (r Response) Failed() bool {
	return r.Err != nil
}
