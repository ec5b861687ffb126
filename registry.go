package beholder

import (
	"sync/atomic"

	"github.com/Zulkir/Beholder-sub001/internal/arena"
)

// Handle is a stable reference to an object registered with a device.
// Views use it to refer back to their resource without owning it.
type Handle = arena.Handle

// NativeObject is a backend object owned by a neutral wrapper.
type NativeObject interface {
	Release()
}

// Disposable is an object whose backend resources are released by Dispose.
type Disposable interface {
	Dispose()
}

// Registry tracks the live objects of one device so they can be released
// together when the device is disposed.
//
// Registry is safe for concurrent use; objects may be created on any goroutine.
type Registry struct {
	objects *arena.Arena[Disposable]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{objects: arena.New[Disposable]()}
}

// Add registers d and returns its handle.
func (r *Registry) Add(d Disposable) Handle {
	return r.objects.Insert(d)
}

// Lookup returns the live object for h.
func (r *Registry) Lookup(h Handle) (Disposable, bool) {
	return r.objects.Get(h)
}

// Len returns the number of live objects.
func (r *Registry) Len() int {
	return r.objects.Len()
}

// DisposeAll disposes every live object exactly once.
func (r *Registry) DisposeAll() {
	for _, d := range r.objects.Drain() {
		d.Dispose()
	}
}

func (r *Registry) remove(h Handle) {
	r.objects.Remove(h)
}

// object is the registry bookkeeping shared by every device object.
type object struct {
	registry *Registry
	handle   Handle
	native   NativeObject
	disposed atomic.Bool
}

func (o *object) init(reg *Registry, self Disposable, native NativeObject) {
	o.registry = reg
	o.native = native
	if reg != nil {
		o.handle = reg.Add(self)
	}
}

// dispose releases the native object once. before runs first, while the
// object is still registered.
func (o *object) dispose(before func()) {
	if o.disposed.Swap(true) {
		return
	}
	if before != nil {
		before()
	}
	if o.native != nil {
		o.native.Release()
	}
	if o.registry != nil {
		o.registry.remove(o.handle)
	}
}

// Handle returns the object's registry handle.
func (o *object) Handle() Handle { return o.handle }

// Native returns the backend object, which may be nil.
func (o *object) Native() NativeObject { return o.native }

// IsDisposed reports whether Dispose has been called.
func (o *object) IsDisposed() bool { return o.disposed.Load() }
