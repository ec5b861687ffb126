package bind

// Array is a run of binding points with an active count.
//
// The dirty indices are always a subset of [0, Count). The array is dirty
// when any index is dirty or when the count changed since the last Clean.
type Array[T comparable] struct {
	values []T
	// applied holds the values as of the last Clean, zero beyond its count.
	applied      []T
	dirtyMask    []bool
	dirtyCount   int
	count        int
	cleanCount   int
	countChanged bool
}

// NewArray returns an array with room for capacity slots. It starts dirty
// with a count of zero.
func NewArray[T comparable](capacity int) Array[T] {
	return Array[T]{
		values:       make([]T, capacity),
		applied:      make([]T, capacity),
		dirtyMask:    make([]bool, capacity),
		cleanCount:   -1,
		countChanged: true,
	}
}

// Capacity returns the number of slots.
func (a *Array[T]) Capacity() int { return len(a.values) }

// Count returns the number of active slots.
func (a *Array[T]) Count() int { return a.count }

// CleanCount returns the active count as of the last Clean. Before the
// first Clean it returns the capacity, since nothing is known about what
// the backend has bound.
func (a *Array[T]) CleanCount() int {
	if a.cleanCount < 0 {
		return len(a.values)
	}
	return a.cleanCount
}

// Get returns the value at i, or the zero value when i is outside the
// active range.
func (a *Array[T]) Get(i int) T {
	if i < 0 || i >= a.count {
		var zero T
		return zero
	}
	return a.values[i]
}

// Values returns the active values. The slice aliases internal storage
// and is only valid until the next mutation.
func (a *Array[T]) Values() []T { return a.values[:a.count] }

// Set stores v at index i, growing the active count to i+1 if needed.
// It panics if i is outside the capacity.
func (a *Array[T]) Set(i int, v T) {
	if i < 0 || i >= len(a.values) {
		panic("bind: index out of range")
	}
	if i >= a.count {
		a.SetCount(i + 1)
	}
	if a.values[i] == v {
		return
	}
	a.values[i] = v
	a.markIndex(i)
}

// SetAll replaces the active values with vs and sets the count to len(vs).
// It panics if vs is longer than the capacity.
func (a *Array[T]) SetAll(vs ...T) {
	if len(vs) > len(a.values) {
		panic("bind: too many values")
	}
	a.SetCount(len(vs))
	for i, v := range vs {
		if a.values[i] != v {
			a.values[i] = v
			a.markIndex(i)
		}
	}
}

// SetCount changes the active count. Slots leaving the active range are
// reset to the zero value and lose their dirty mark. Slots entering it
// are marked dirty when the zero value differs from the value applied at
// the last Clean, and always before the first Clean.
func (a *Array[T]) SetCount(n int) {
	if n < 0 || n > len(a.values) {
		panic("bind: count out of range")
	}
	if n == a.count {
		return
	}
	var zero T
	for i := n; i < a.count; i++ {
		a.values[i] = zero
		if a.dirtyMask[i] {
			a.dirtyMask[i] = false
			a.dirtyCount--
		}
	}
	for i := a.count; i < n; i++ {
		if a.cleanCount < 0 || a.applied[i] != zero {
			a.markIndex(i)
		}
	}
	a.count = n
	a.countChanged = n != a.cleanCount
}

// IsDirty reports whether any slot or the count changed since the last Clean.
func (a *Array[T]) IsDirty() bool {
	return a.dirtyCount > 0 || a.countChanged
}

// CountChanged reports whether the active count differs from the count at
// the last Clean.
func (a *Array[T]) CountChanged() bool { return a.countChanged }

// IsIndexDirty reports whether slot i changed since the last Clean.
func (a *Array[T]) IsIndexDirty(i int) bool {
	return i >= 0 && i < len(a.dirtyMask) && a.dirtyMask[i]
}

// DirtyIndices returns the dirty indices in ascending order.
func (a *Array[T]) DirtyIndices() []int {
	if a.dirtyCount == 0 {
		return nil
	}
	out := make([]int, 0, a.dirtyCount)
	for i := 0; i < a.count; i++ {
		if a.dirtyMask[i] {
			out = append(out, i)
		}
	}
	return out
}

// MarkDirty marks every active slot dirty and flags the count as changed.
func (a *Array[T]) MarkDirty() {
	for i := 0; i < a.count; i++ {
		a.markIndex(i)
	}
	a.countChanged = true
}

// Clean clears every dirty mark and records the current values and count.
func (a *Array[T]) Clean() {
	copy(a.applied, a.values)
	if a.dirtyCount > 0 {
		clear(a.dirtyMask)
		a.dirtyCount = 0
	}
	a.cleanCount = a.count
	a.countChanged = false
}

func (a *Array[T]) markIndex(i int) {
	if !a.dirtyMask[i] {
		a.dirtyMask[i] = true
		a.dirtyCount++
	}
}
