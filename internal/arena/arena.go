// Package arena provides a generation-checked slot arena.
//
// Values are stored in a flat slice and addressed by Handle, an opaque
// index plus generation. A handle whose slot was freed and reused no
// longer resolves, so stale handles are detected instead of aliasing a
// newer value.
package arena

import "sync"

// Handle is an opaque reference to a value stored in an Arena.
// The zero Handle is invalid.
type Handle struct {
	index      uint32
	generation uint32
}

// IsValid reports whether h was issued by an arena. It does not report
// whether the value is still live; use Arena.Get for that.
func (h Handle) IsValid() bool {
	return h.generation != 0
}

// Index returns the slot index of h.
func (h Handle) Index() int {
	return int(h.index)
}

type entry[T any] struct {
	value      T
	generation uint32
	live       bool
}

// Arena stores values of type T behind stable handles.
//
// Arena is safe for concurrent use.
type Arena[T any] struct {
	mu      sync.RWMutex
	entries []entry[T]
	free    []uint32
	live    int
}

// New creates an empty arena.
func New[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Insert stores v and returns its handle.
func (a *Arena[T]) Insert(v T) Handle {
	a.mu.Lock()
	defer a.mu.Unlock()

	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		idx = uint32(len(a.entries))
		a.entries = append(a.entries, entry[T]{})
	}
	e := &a.entries[idx]
	e.generation++
	if e.generation == 0 {
		e.generation = 1
	}
	e.value = v
	e.live = true
	a.live++
	return Handle{index: idx, generation: e.generation}
}

// Get returns the value for h. The boolean is false if h is stale or invalid.
func (a *Arena[T]) Get(h Handle) (T, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if e, ok := a.lookup(h); ok {
		return e.value, true
	}
	var zero T
	return zero, false
}

// Remove frees the slot for h and returns the value it held.
func (a *Arena[T]) Remove(h Handle) (T, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	e, ok := a.lookup(h)
	if !ok {
		var zero T
		return zero, false
	}
	v := e.value
	var zero T
	e.value = zero
	e.live = false
	a.free = append(a.free, h.index)
	a.live--
	return v, true
}

// Len returns the number of live values.
func (a *Arena[T]) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.live
}

// Drain removes every live value and returns them in slot order.
// Handles issued before Drain no longer resolve.
func (a *Arena[T]) Drain() []T {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]T, 0, a.live)
	var zero T
	a.free = a.free[:0]
	for i := range a.entries {
		e := &a.entries[i]
		if e.live {
			out = append(out, e.value)
			e.value = zero
			e.live = false
		}
		a.free = append(a.free, uint32(i))
	}
	a.live = 0
	return out
}

// lookup returns the live entry for h. Caller must hold a.mu.
func (a *Arena[T]) lookup(h Handle) (*entry[T], bool) {
	if !h.IsValid() || int(h.index) >= len(a.entries) {
		return nil, false
	}
	e := &a.entries[h.index]
	if !e.live || e.generation != h.generation {
		return nil, false
	}
	return e, true
}
