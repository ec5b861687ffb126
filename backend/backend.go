package backend

import (
	"errors"

	beholder "github.com/Zulkir/Beholder-sub001"
)

// Backend names.
const (
	// D3D11 is the Direct3D 11 backend.
	D3D11 = "d3d11"
	// OpenGL is the OpenGL 4.x backend.
	OpenGL = "opengl"
	// HAL is the WebGPU-style backend on gogpu/wgpu.
	HAL = "hal"
	// D3D9 is the Direct3D 9 backend.
	D3D9 = "d3d9"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when no registered backend accepts
	// the native handle.
	ErrBackendNotAvailable = errors.New("backend: not available")
)

// Factory creates a device from a native handle. The handle's type is
// backend specific: a gl.Functions, a d3d11.Device, a hal.Device and so
// on. Factories reject handles of other types with an error wrapping
// beholder.ErrWrongBackend.
type Factory func(native any, opts ...beholder.Option) (beholder.Device, error)
