package shader

import (
	"cmp"
	"fmt"
	"slices"
)

// Packing selects how native slots are assigned to logical slots.
// Every policy visits bindings in ascending logical order, so the result
// depends only on the reflection.
type Packing int

const (
	// PackFromAPIStart packs native slots contiguously, starting at the
	// lowest logical slot of the shader. Native slots stay inside the
	// shader's logical range, so disjoint ranges across stages yield
	// disjoint native slots in a program-wide namespace.
	PackFromAPIStart Packing = iota

	// PackFromZero packs native slots contiguously from zero. Used where
	// each stage has its own native namespace.
	PackFromZero

	// PackIdentity uses each logical slot as its native slot.
	PackIdentity
)

// Binding is one translated slot.
type Binding[V any] struct {
	APISlot    int
	NativeSlot int
	// NativeWidth is the number of native slots the binding occupies.
	NativeWidth int
	Variable    V
}

// Translation maps the logical slots a shader declares to native slots.
// It is immutable once built.
type Translation[V any] struct {
	apiStart  int
	apiLength int
	nativeEnd int
	bindings  []Binding[V]
	// byAPI maps apiSlot-apiStart to an index into bindings, or -1.
	byAPI []int32
}

// TranslateOptions configures Translate.
type TranslateOptions[V any] struct {
	Packing Packing
	// Width returns how many native slots a variable occupies. Nil means one.
	Width func(V) int
}

// Translate builds a translation for vars. slotOf returns a variable's
// logical slot. Two variables with the same logical slot are an error.
func Translate[V any](vars []V, slotOf func(V) (int, error), opts TranslateOptions[V]) (*Translation[V], error) {
	t := &Translation[V]{bindings: make([]Binding[V], 0, len(vars))}
	for _, v := range vars {
		slot, err := slotOf(v)
		if err != nil {
			return nil, err
		}
		t.bindings = append(t.bindings, Binding[V]{APISlot: slot, Variable: v})
	}
	slices.SortStableFunc(t.bindings, func(a, b Binding[V]) int {
		return cmp.Compare(a.APISlot, b.APISlot)
	})
	for i := 1; i < len(t.bindings); i++ {
		if t.bindings[i].APISlot == t.bindings[i-1].APISlot {
			return nil, fmt.Errorf("%w: logical slot %d", ErrDuplicateSlot, t.bindings[i].APISlot)
		}
	}
	if len(t.bindings) == 0 {
		return t, nil
	}

	first := t.bindings[0].APISlot
	last := t.bindings[len(t.bindings)-1].APISlot
	t.apiStart = first
	t.apiLength = last - first + 1
	t.byAPI = make([]int32, t.apiLength)
	for i := range t.byAPI {
		t.byAPI[i] = -1
	}

	next := 0
	if opts.Packing == PackFromAPIStart {
		next = first
	}
	for i := range t.bindings {
		b := &t.bindings[i]
		width := 1
		if opts.Width != nil {
			width = max(opts.Width(b.Variable), 1)
		}
		if opts.Packing == PackIdentity {
			next = max(next, b.APISlot)
		}
		b.NativeSlot = next
		b.NativeWidth = width
		next += width
		t.byAPI[b.APISlot-first] = int32(i)
	}
	t.nativeEnd = next
	return t, nil
}

// APIStartSlot returns the lowest logical slot, or 0 if empty.
func (t *Translation[V]) APIStartSlot() int { return t.apiStart }

// APIRangeLength returns the length of the logical range
// [APIStartSlot, APIStartSlot+APIRangeLength).
func (t *Translation[V]) APIRangeLength() int { return t.apiLength }

// APIEnd returns the end of the logical range.
func (t *Translation[V]) APIEnd() int { return t.apiStart + t.apiLength }

// NativeEnd returns one past the highest native slot in use.
func (t *Translation[V]) NativeEnd() int { return t.nativeEnd }

// Len returns the number of bindings.
func (t *Translation[V]) Len() int { return len(t.bindings) }

// Bindings returns the bindings in ascending logical order.
func (t *Translation[V]) Bindings() []Binding[V] { return t.bindings }

// Lookup returns the binding declared at a logical slot.
func (t *Translation[V]) Lookup(apiSlot int) (Binding[V], bool) {
	i := apiSlot - t.apiStart
	if i < 0 || i >= len(t.byAPI) || t.byAPI[i] < 0 {
		return Binding[V]{}, false
	}
	return t.bindings[t.byAPI[i]], true
}

// Native returns the native slot for a logical slot.
func (t *Translation[V]) Native(apiSlot int) (int, bool) {
	b, ok := t.Lookup(apiSlot)
	return b.NativeSlot, ok
}

// ByName returns the binding whose variable name is name.
func (t *Translation[V]) ByName(name string, nameOf func(V) string) (Binding[V], bool) {
	for _, b := range t.bindings {
		if nameOf(b.Variable) == name {
			return b, true
		}
	}
	return Binding[V]{}, false
}
