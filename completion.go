package imageloading

import (
	"time"

	"fyne.io/fyne/v2"
)

// FadeInDuration is how long the default fade-in animation runs.
const FadeInDuration = 250 * time.Millisecond

// applyDefaultCompletion is the default completion policy: display the
// image on success and fade it in, unless the response came from the
// memory cache or the options say otherwise. Failures change nothing at
// this layer; callers wanting failure UI supply LoadOptions.Completion.
func (b *ViewBinding) applyDefaultCompletion(resp Response, opts LoadOptions) {
	if resp.Failed() {
		return
	}
	b.view.DisplayImage(resp.Image)
	if !opts.Animate() || resp.Info.FastResponse {
		return
	}
	if opts.Animations != nil {
		opts.Animations(b.view)
		return
	}
	b.startFade()
}

// startFade runs the default fade on views that support it. The binding
// holds a single animation slot, so a fade started while a prior one is
// still running replaces it rather than stacking.
func (b *ViewBinding) startFade() {
	av, ok := b.view.(TranslucencyAnimatableView)
	if !ok {
		return
	}
	b.stopFade()
	// the image must already be invisible when the first frame renders,
	// before the animation's first tick
	av.SetImageTranslucency(1)
	av.Refresh()
	anim := fyne.NewAnimation(FadeInDuration, func(f float32) {
		av.SetImageTranslucency(float64(1 - f))
		av.Refresh()
	})
	b.fadeAnim = anim
	anim.Start()
}

func (b *ViewBinding) stopFade() {
	if b.fadeAnim != nil {
		b.fadeAnim.Stop()
		b.fadeAnim = nil
	}
}
