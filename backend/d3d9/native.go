package d3d9

// Object is any COM object the native device hands out: resources,
// surfaces, shaders and vertex declarations.
type Object interface {
	Release()
}

// NativeDevice is the subset of IDirect3DDevice9 the backend calls.
// Direct3D 9 has no separate context, so state setters and draws live on
// the device too.
type NativeDevice interface {
	CreateVertexBuffer(length, usage, pool uint32) (Object, error)
	CreateIndexBuffer(length, usage, format, pool uint32) (Object, error)
	CreateTexture(width, height, levels, usage, format, pool uint32) (Object, error)
	CreateCubeTexture(edge, levels, usage, format, pool uint32) (Object, error)
	CreateVolumeTexture(width, height, depth, levels, usage, format, pool uint32) (Object, error)
	CreateRenderTarget(width, height, format, multisample, quality uint32) (Object, error)
	CreateDepthStencilSurface(width, height, format, multisample, quality uint32) (Object, error)
	// Surface calls GetSurfaceLevel, or GetCubeMapSurface for cube maps.
	Surface(texture Object, face, level uint32) (Object, error)
	CreateVertexShader(bytecode []byte) (Object, error)
	CreatePixelShader(bytecode []byte) (Object, error)
	CreateVertexDeclaration(elements []VERTEXELEMENT9) (Object, error)
	// WriteSubresource locks one level, or one face level, copies data
	// row by row and unlocks it. Buffers have a single level.
	WriteSubresource(res Object, face, level uint32, data []byte, rowPitch uint32) error
	GenerateMipSubLevels(texture Object)

	SetVertexShader(s Object)
	SetPixelShader(s Object)
	SetVertexShaderConstantF(start uint32, data []float32)
	SetPixelShaderConstantF(start uint32, data []float32)
	SetTexture(sampler uint32, texture Object)
	SetSamplerState(sampler, state, value uint32)
	SetRenderState(state, value uint32)
	SetViewport(vp VIEWPORT9)
	SetScissorRect(r RECT)
	SetRenderTarget(index uint32, surface Object)
	SetDepthStencilSurface(surface Object)
	SetVertexDeclaration(decl Object)
	SetStreamSource(stream uint32, buffer Object, offset, stride uint32)
	SetStreamSourceFreq(stream, setting uint32)
	SetIndices(buffer Object)

	DrawPrimitive(primitiveType, startVertex, primitiveCount uint32)
	DrawIndexedPrimitive(primitiveType uint32, baseVertex int32, minIndex, numVertices, startIndex, primitiveCount uint32)
	Clear(flags, color uint32, z float32, stencil uint32)
	ColorFill(surface Object, color uint32)
}

// Compiler compiles HLSL to shader model 3 bytecode, as D3DCompile does.
type Compiler interface {
	Compile(source, entry, target string) ([]byte, error)
}

// Handles is the native handle the backend factory accepts.
type Handles struct {
	Device   NativeDevice
	Compiler Compiler
}

type VERTEXELEMENT9 struct {
	Stream     uint16
	Offset     uint16
	Type       uint8
	Method     uint8
	Usage      uint8
	UsageIndex uint8
}

type VIEWPORT9 struct {
	X, Y          uint32
	Width, Height uint32
	MinZ, MaxZ    float32
}

type RECT struct {
	Left, Top, Right, Bottom int32
}
