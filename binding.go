package imageloading

import "fyne.io/fyne/v2"

// ViewBinding is the single authority, per view, for which load task is
// current and what happens when it finishes. Bindings are created lazily
// by Loader.BindingFor and live until ReleaseBinding is called for the
// view (or forever, for views that own their binding directly).
//
// All ViewBinding methods must be called on the UI goroutine; completion
// callbacks are redelivered there by the engine before the binding runs.
type ViewBinding struct {
	// OnTaskFinished, if set, replaces the default completion policy for
	// every load on this binding. Per-load LoadOptions.Completion still
	// takes precedence.
	OnTaskFinished func(task *Task, resp Response, opts LoadOptions)

	engine Engine
	view   ImageDisplayingView

	current  *Task
	fadeAnim *fyne.Animation
}

// NewViewBinding creates a binding owned directly by the caller, outside
// any loader-managed side table. Widgets that embed their binding use this.
func NewViewBinding(engine Engine, view ImageDisplayingView) *ViewBinding {
	return &ViewBinding{engine: engine, view: view}
}

// SetImage starts loading req into the bound view, superseding any prior
// in-flight load. The prior task is cancelled. If the image is already in
// the memory cache it is displayed synchronously, with no animation.
// Returns the new task; completion for it arrives later on the UI
// goroutine (or before SetImage returns, on the cached path).
func (b *ViewBinding) SetImage(req ImageRequest, opts LoadOptions) *Task {
	b.cancelCurrent()

	if img, ok := b.engine.CachedImage(req); ok {
		task := newTask(req, nil)
		resp := Response{Image: img, Info: ResponseInfo{FastResponse: true}}
		task.finish(resp)
		b.current = task
		b.onTaskDone(task, resp, opts)
		return task
	}

	var task *Task
	task = b.engine.Load(req, func(resp Response) {
		b.onTaskDone(task, resp, opts)
	})
	b.current = task
	return task
}

// CancelLoading cancels the current load, if any. No-op otherwise.
func (b *ViewBinding) CancelLoading() {
	b.cancelCurrent()
}

// CurrentTask returns the presently tracked task, or nil.
func (b *ViewBinding) CurrentTask() *Task {
	return b.current
}

func (b *ViewBinding) cancelCurrent() {
	if b.current == nil {
		return
	}
	b.engine.Cancel(b.current)
	b.current = nil
}

// onTaskDone is the completion dispatch. Only the task still tracked as
// current may mutate the view; late completions from superseded tasks are
// dropped here.
func (b *ViewBinding) onTaskDone(task *Task, resp Response, opts LoadOptions) {
	if task != b.current {
		return // superseded by a newer SetImage
	}
	if b.view == nil {
		return // released
	}
	if opts.Completion != nil {
		opts.Completion(b.view, task, resp, opts)
		return
	}
	if b.OnTaskFinished != nil {
		b.OnTaskFinished(task, resp, opts)
		return
	}
	b.applyDefaultCompletion(resp, opts)
}

// release detaches the binding from its view. Any late completion after
// release is a no-op.
func (b *ViewBinding) release() {
	b.cancelCurrent()
	b.stopFade()
	b.view = nil
}
