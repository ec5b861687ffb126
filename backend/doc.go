// Package backend selects a device implementation by name.
//
// Backend packages register a Factory from init():
//
//	import _ "github.com/Zulkir/Beholder-sub001/backend/gl"
//
// The host then creates a device from the native handle it owns:
//
//	dev, err := backend.Create(backend.OpenGL, functions)
//
// or lets the registry pick the first backend in priority order that
// accepts the handle:
//
//	dev, err := backend.Default(handle, beholder.WithDebugLabels())
//
// # Available Backends
//
//   - "d3d11": Direct3D 11 over an injected device and compiler
//   - "opengl": OpenGL 4.x over an injected function table
//   - "hal": gogpu/wgpu HAL devices
//   - "d3d9": Direct3D 9 over an injected device
package backend
