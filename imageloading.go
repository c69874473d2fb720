// Package imageloading provides asynchronous image loading for Fyne
// applications. A Loader fetches, decodes, and caches images from remote
// URLs, and a ViewBinding attaches load operations to a displayable view,
// handling task replacement, stale-completion suppression, and an optional
// fade-in animation when the image is shown.
package imageloading

import "image"

// ImageDisplayingView is the capability any view must implement to
// receive loaded images.
type ImageDisplayingView interface {
	DisplayImage(image.Image)
}

// TranslucencyAnimatableView is an optional capability a view can
// implement to support the default fade-in animation. Views that do not
// implement it get their image displayed with no animation.
type TranslucencyAnimatableView interface {
	SetImageTranslucency(float64)
	Refresh()
}

// Engine is the loading backend a ViewBinding delegates to.
// Implemented by *Loader.
type Engine interface {
	// CachedImage returns the image for the request if it is immediately
	// available from the in-memory cache.
	CachedImage(req ImageRequest) (image.Image, bool)

	// Load begins an asynchronous load for the request. The callback is
	// invoked exactly once on the UI goroutine when the load finishes,
	// unless the task is cancelled first.
	Load(req ImageRequest, cb func(Response)) *Task

	// Cancel requests best-effort cancellation of an in-flight task.
	Cancel(task *Task)
}
