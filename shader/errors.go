package shader

import "errors"

// Shader construction and linking errors.
var (
	// ErrUnsupportedType is returned when a declared variable type has no
	// equivalent on the target backend.
	ErrUnsupportedType = errors.New("shader: unsupported type")

	// ErrMissingSlot is returned when a bound variable carries no slot parameter.
	ErrMissingSlot = errors.New("shader: variable has no slot")

	// ErrDuplicateSlot is returned when two variables of one shader claim
	// the same logical slot.
	ErrDuplicateSlot = errors.New("shader: duplicate slot")

	// ErrOverlappingSlots is returned when the slot ranges of two stages overlap.
	ErrOverlappingSlots = errors.New("shader: overlapping slot ranges")

	// ErrStageMismatch is returned when a stage consumes an input its
	// upstream stage does not produce.
	ErrStageMismatch = errors.New("shader: stage interface mismatch")

	// ErrInvalidCombination is returned for stage sets that cannot form a pipeline.
	ErrInvalidCombination = errors.New("shader: invalid stage combination")

	// ErrSamplerConflict is returned when a texture is sampled through two
	// different samplers on a backend that binds textures and samplers together.
	ErrSamplerConflict = errors.New("shader: texture sampled with conflicting samplers")

	// ErrMissingSource is returned when the reflection carries no code in
	// the language a backend generates.
	ErrMissingSource = errors.New("shader: missing source")
)
