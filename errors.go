package beholder

import (
	"errors"

	"github.com/Zulkir/Beholder-sub001/shader"
)

// Device errors.
var (
	// ErrNotSupported is returned by calls the backend cannot perform.
	// Applications are expected to check Capabilities beforehand.
	ErrNotSupported = errors.New("beholder: operation not supported by backend")

	// ErrUnsupportedFormat is returned when a format has no backend equivalent.
	ErrUnsupportedFormat = errors.New("beholder: unsupported format")

	// ErrUnsupportedType is returned when a shader declares a type the
	// backend cannot represent.
	ErrUnsupportedType = shader.ErrUnsupportedType

	// ErrOverlappingSlots is returned when two stages of a shader set claim
	// overlapping logical slot ranges.
	ErrOverlappingSlots = shader.ErrOverlappingSlots

	// ErrStageMismatch is returned when adjacent stages do not link.
	ErrStageMismatch = shader.ErrStageMismatch

	// ErrBindFlags is returned when a view or usage is not permitted by a
	// resource's bind flags.
	ErrBindFlags = errors.New("beholder: bind flags do not permit this use")

	// ErrMultisampleCube is returned for multisampled cube textures.
	ErrMultisampleCube = errors.New("beholder: multisampled cube textures are not supported")

	// ErrInitialData is returned when initial data is missing, malformed or
	// not allowed for a resource.
	ErrInitialData = errors.New("beholder: invalid initial data")

	// ErrInvalidDescription is returned for malformed descriptions.
	ErrInvalidDescription = errors.New("beholder: invalid description")

	// ErrReleased is returned when a disposed object is used.
	ErrReleased = errors.New("beholder: object has been disposed")

	// ErrWrongBackend is returned when an object created by one device is
	// passed to another backend.
	ErrWrongBackend = errors.New("beholder: object belongs to a different backend")

	// ErrLink is returned when the backend fails to link a program.
	ErrLink = errors.New("beholder: program link failed")
)
