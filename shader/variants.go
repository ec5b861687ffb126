package shader

import "sync"

// VariantKey identifies one compiled variant of a shader: the stage its
// outputs feed and, for tessellation shaders, a packed layout code.
type VariantKey struct {
	Downstream Stage
	Layout     uint32
}

type variant[T any] struct {
	once  sync.Once
	value T
	err   error
	built bool
}

// Variants caches one compiled value per VariantKey.
//
// Each key is built at most once, even when several goroutines request
// it concurrently; later callers wait for the first build and share its
// result, including a build error. The map lock is not held while
// building, so variants for different keys compile in parallel.
//
// The zero value is ready to use.
type Variants[T any] struct {
	mu      sync.Mutex
	entries map[VariantKey]*variant[T]
}

// Get returns the variant for key, calling build if it was never built.
func (c *Variants[T]) Get(key VariantKey, build func(VariantKey) (T, error)) (T, error) {
	c.mu.Lock()
	if c.entries == nil {
		c.entries = make(map[VariantKey]*variant[T])
	}
	v, ok := c.entries[key]
	if !ok {
		v = &variant[T]{}
		c.entries[key] = v
	}
	c.mu.Unlock()

	v.once.Do(func() {
		v.value, v.err = build(key)
		v.built = true
	})
	return v.value, v.err
}

// Len returns the number of keys requested so far.
func (c *Variants[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Drain empties the cache and returns every successfully built value.
func (c *Variants[T]) Drain() []T {
	c.mu.Lock()
	entries := c.entries
	c.entries = nil
	c.mu.Unlock()

	out := make([]T, 0, len(entries))
	for _, v := range entries {
		// Wait for any build still in flight.
		v.once.Do(func() {})
		if v.built && v.err == nil {
			out = append(out, v.value)
		}
	}
	return out
}
