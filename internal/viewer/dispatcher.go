package viewer

import "sync"

// Dispatcher queues callbacks from worker goroutines for the main goroutine.
// Post is safe for concurrent use; Drain must only be called from the
// goroutine that owns the scene.
type Dispatcher struct {
	mu    sync.Mutex
	queue []func()
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Post queues fn to run on the next Drain.
func (d *Dispatcher) Post(fn func()) {
	d.mu.Lock()
	d.queue = append(d.queue, fn)
	d.mu.Unlock()
}

// Drain runs the callbacks queued so far in FIFO order and returns how many
// ran. Callbacks posted while draining wait for the next call.
func (d *Dispatcher) Drain() int {
	d.mu.Lock()
	pending := d.queue
	d.queue = nil
	d.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
	return len(pending)
}

// Len returns the number of queued callbacks.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}
