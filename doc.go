// Package beholder is a graphics device abstraction over several native
// backends.
//
// # Overview
//
// Applications create resources, state objects and shaders through a
// [Device] and configure the pipeline through its [DeviceContext]. Setters
// only record state. Each draw or dispatch applies the state that changed
// since the previous one, in a fixed order: program, per-stage uniform
// buffers, textures and samplers, input assembler, stream output,
// rasterizer with viewports and scissors, then the output merger.
//
// # Backends
//
// Backends live under backend/ and register themselves with the backend
// registry:
//
//	import (
//	    "github.com/Zulkir/Beholder-sub001/backend"
//	    _ "github.com/Zulkir/Beholder-sub001/backend/gl"
//	)
//
//	b := backend.Default()
//
// The OpenGL, Direct3D 11 and Direct3D 9 backends drive native calls
// through injected interfaces. The hal backend runs on gogpu/wgpu.
//
// # Slots
//
// Shaders declare logical slots for uniform buffers, textures and samplers
// through the "slot" reflection parameter. Each backend packs them into
// native slots with its own policy; see package shader.
//
// # Resources and views
//
// Resources are a closed set: [Buffer], [Texture1D], [Texture2D] and
// [Texture3D]. Views are created through ViewAs* methods, checked against
// the resource's bind flags and cached by description, so equal requests
// return the same view.
//
// # Logging
//
// Nothing is logged by default. See [SetLogger].
package beholder
