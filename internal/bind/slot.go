// Package bind implements dirty-tracked pipeline binding points.
//
// A Slot holds one value, an Array holds a run of values with an active
// count. Both start dirty so the first consumption applies everything.
// Setters never touch a backend; consumers read the dirty state and call
// Clean once the matching native calls have been issued.
package bind

// Slot is a single binding point with a dirty flag.
type Slot[T comparable] struct {
	value T
	dirty bool
}

// NewSlot returns a dirty slot holding v.
func NewSlot[T comparable](v T) Slot[T] {
	return Slot[T]{value: v, dirty: true}
}

// Set stores v. The slot becomes dirty only if v differs from the stored value.
func (s *Slot[T]) Set(v T) {
	if s.value == v {
		return
	}
	s.value = v
	s.dirty = true
}

// Value returns the stored value.
func (s *Slot[T]) Value() T { return s.value }

// IsDirty reports whether the value changed since the last Clean.
func (s *Slot[T]) IsDirty() bool { return s.dirty }

// MarkDirty forces the next consumption to re-apply the value.
func (s *Slot[T]) MarkDirty() { s.dirty = true }

// Clean clears the dirty flag.
func (s *Slot[T]) Clean() { s.dirty = false }
