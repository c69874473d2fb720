package imageloading

// LoadOptions configure how a finished load is applied to the view.
// The zero value animates with the default fade.
type LoadOptions struct {
	// DisableAnimation suppresses any animation when the image is
	// displayed.
	DisableAnimation bool

	// Animations, if set, replaces the default fade with a custom
	// animation. It is invoked with the view after the image has been
	// displayed, unless the response was a fast response.
	Animations func(view ImageDisplayingView)

	// Completion, if set, fully replaces the default completion behavior.
	// The image is not displayed and no animation runs; the callback is
	// responsible for all view updates.
	Completion func(view ImageDisplayingView, task *Task, resp Response, opts LoadOptions)

	// UserInfo is an opaque value passed through to completion callbacks.
	// The binding does not interpret it.
	UserInfo any
}

// Animate reports whether the options permit an animation.
func (o LoadOptions) Animate() bool {
	return !o.DisableAnimation
}
