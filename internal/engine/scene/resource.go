// Package scene is the CPU-side scene graph: meshes, geometry, materials,
// textures and lights. It holds no GPU state; a renderer mirrors resources
// into GPU handles and releases them through OnDispose hooks.
//
// Scene objects are owned by the main goroutine and are not safe for
// concurrent use.
package scene

import "sync/atomic"

var nextID atomic.Uint64

// resource carries identity and dispose-once state shared by GPU-backed objects.
type resource struct {
	id       uint64
	disposed bool
	hooks    []func()
}

func newResource() resource {
	return resource{id: nextID.Add(1)}
}

// ID returns a process-unique identifier.
func (r *resource) ID() uint64 { return r.id }

// Disposed reports whether Dispose has run.
func (r *resource) Disposed() bool { return r.disposed }

// OnDispose registers fn to run once when the resource is disposed.
// Registering on an already disposed resource runs fn immediately.
func (r *resource) OnDispose(fn func()) {
	if r.disposed {
		fn()
		return
	}
	r.hooks = append(r.hooks, fn)
}

// release marks the resource disposed and runs hooks.
// It returns false if the resource was already disposed.
func (r *resource) release() bool {
	if r.disposed {
		return false
	}
	r.disposed = true
	hooks := r.hooks
	r.hooks = nil
	for _, fn := range hooks {
		fn()
	}
	return true
}
