package imageloading

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Task is a handle to one asynchronous image load. Tasks are compared by
// identity; the ID exists for logging.
type Task struct {
	ID      uuid.UUID
	Request ImageRequest

	mu        sync.Mutex
	cancel    context.CancelFunc
	done      bool
	cancelled bool
	response  Response
}

func newTask(req ImageRequest, cancel context.CancelFunc) *Task {
	return &Task{ID: uuid.New(), Request: req, cancel: cancel}
}

// Cancel requests best-effort cancellation. It is safe to call multiple
// times and after the task has finished.
func (t *Task) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done || t.cancelled {
		return
	}
	t.cancelled = true
	if t.cancel != nil {
		t.cancel()
	}
}

// Cancelled reports whether Cancel was called before the task finished.
func (t *Task) Cancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled
}

// Done reports whether the task has finished with a response.
func (t *Task) Done() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

// Response returns the task's response if it has finished.
func (t *Task) Response() (Response, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.response, t.done
}

// finish records the response. Returns false if the task was cancelled or
// already finished, in which case the completion callback must not run.
func (t *Task) finish(resp Response) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done || t.cancelled {
		return false
	}
	t.done = true
	t.response = resp
	if t.cancel != nil {
		t.cancel() // release ctx resources
	}
	return true
}
