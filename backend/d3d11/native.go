package d3d11

import "github.com/Zulkir/Beholder-sub001/shader"

// Object is any COM object the native device hands out: resources,
// views, states, shaders and input layouts.
type Object interface {
	Release()
}

// NativeDevice is the subset of ID3D11Device the backend calls. The view
// and state descriptions flatten the unions of their Win32 counterparts;
// implementations pack the members the view dimension uses.
type NativeDevice interface {
	FeatureLevel() uint32
	CreateBuffer(desc *BUFFER_DESC, data []byte) (Object, error)
	CreateTexture1D(desc *TEXTURE1D_DESC, data []SUBRESOURCE_DATA) (Object, error)
	CreateTexture2D(desc *TEXTURE2D_DESC, data []SUBRESOURCE_DATA) (Object, error)
	CreateTexture3D(desc *TEXTURE3D_DESC, data []SUBRESOURCE_DATA) (Object, error)
	CreateShaderResourceView(res Object, desc *SHADER_RESOURCE_VIEW_DESC) (Object, error)
	CreateRenderTargetView(res Object, desc *RENDER_TARGET_VIEW_DESC) (Object, error)
	CreateDepthStencilView(res Object, desc *DEPTH_STENCIL_VIEW_DESC) (Object, error)
	CreateUnorderedAccessView(res Object, desc *UNORDERED_ACCESS_VIEW_DESC) (Object, error)
	CreateRasterizerState(desc *RASTERIZER_DESC) (Object, error)
	CreateBlendState(desc *BLEND_DESC) (Object, error)
	CreateDepthStencilState(desc *DEPTH_STENCIL_DESC) (Object, error)
	CreateSamplerState(desc *SAMPLER_DESC) (Object, error)
	// CreateShader calls the Create*Shader method of stage.
	CreateShader(stage shader.Stage, bytecode []byte) (Object, error)
	CreateInputLayout(elements []INPUT_ELEMENT_DESC, bytecode []byte) (Object, error)
}

// NativeContext is the subset of ID3D11DeviceContext the backend calls.
// Per-stage setters take the stage instead of a VS/HS/DS/GS/PS/CS prefix.
type NativeContext interface {
	SetShader(stage shader.Stage, s Object)
	SetConstantBuffers(stage shader.Stage, start int, buffers []Object)
	SetShaderResources(stage shader.Stage, start int, views []Object)
	SetSamplers(stage shader.Stage, start int, samplers []Object)

	IASetPrimitiveTopology(topology uint32)
	IASetInputLayout(layout Object)
	IASetVertexBuffers(start int, buffers []Object, strides, offsets []uint32)
	IASetIndexBuffer(buffer Object, format, offset uint32)
	SOSetTargets(buffers []Object, offsets []uint32)

	RSSetState(state Object)
	RSSetViewports(viewports []VIEWPORT)
	RSSetScissorRects(rects []RECT)

	OMSetRenderTargetsAndUnorderedAccessViews(rtvs []Object, dsv Object, uavStart int, uavs []Object)
	OMSetBlendState(state Object, factor [4]float32, sampleMask uint32)
	OMSetDepthStencilState(state Object, stencilRef uint32)
	CSSetUnorderedAccessViews(start int, uavs []Object)

	Draw(vertexCount, startVertex uint32)
	DrawIndexed(indexCount, startIndex uint32, baseVertex int32)
	DrawInstanced(vertexCountPerInstance, instanceCount, startVertex, startInstance uint32)
	DrawIndexedInstanced(indexCountPerInstance, instanceCount, startIndex uint32, baseVertex int32, startInstance uint32)
	DrawInstancedIndirect(args Object, offset uint32)
	DrawIndexedInstancedIndirect(args Object, offset uint32)
	Dispatch(x, y, z uint32)
	DispatchIndirect(args Object, offset uint32)

	ClearRenderTargetView(rtv Object, color [4]float32)
	ClearDepthStencilView(dsv Object, flags uint32, depth float32, stencil uint8)
	ClearUnorderedAccessViewFloat(uav Object, values [4]float32)
	ClearUnorderedAccessViewUint(uav Object, values [4]uint32)
	GenerateMips(srv Object)
	UpdateSubresource(res Object, subresource uint32, box *BOX, data []byte, rowPitch, depthPitch uint32)
	Map(res Object, subresource, mapType, flags uint32) (MAPPED_SUBRESOURCE, error)
	Unmap(res Object, subresource uint32)
	Flush()
}

// Compiler compiles HLSL to bytecode, as D3DCompile does.
type Compiler interface {
	Compile(source, entry, target string) ([]byte, error)
}

// Handles is the native handle the backend factory accepts.
type Handles struct {
	Device   NativeDevice
	Context  NativeContext
	Compiler Compiler
}

type BUFFER_DESC struct {
	ByteWidth           uint32
	Usage               uint32
	BindFlags           uint32
	CPUAccessFlags      uint32
	MiscFlags           uint32
	StructureByteStride uint32
}

type DXGI_SAMPLE_DESC struct {
	Count   uint32
	Quality uint32
}

type TEXTURE1D_DESC struct {
	Width          uint32
	MipLevels      uint32
	ArraySize      uint32
	Format         uint32
	Usage          uint32
	BindFlags      uint32
	CPUAccessFlags uint32
	MiscFlags      uint32
}

type TEXTURE2D_DESC struct {
	Width          uint32
	Height         uint32
	MipLevels      uint32
	ArraySize      uint32
	Format         uint32
	SampleDesc     DXGI_SAMPLE_DESC
	Usage          uint32
	BindFlags      uint32
	CPUAccessFlags uint32
	MiscFlags      uint32
}

type TEXTURE3D_DESC struct {
	Width          uint32
	Height         uint32
	Depth          uint32
	MipLevels      uint32
	Format         uint32
	Usage          uint32
	BindFlags      uint32
	CPUAccessFlags uint32
	MiscFlags      uint32
}

type SUBRESOURCE_DATA struct {
	SysMem           []byte
	SysMemPitch      uint32
	SysMemSlicePitch uint32
}

type SHADER_RESOURCE_VIEW_DESC struct {
	Format          uint32
	ViewDimension   uint32
	MostDetailedMip uint32
	MipLevels       uint32
	FirstArraySlice uint32
	ArraySize       uint32
	FirstElement    uint32
	NumElements     uint32
	Flags           uint32
}

type RENDER_TARGET_VIEW_DESC struct {
	Format          uint32
	ViewDimension   uint32
	MipSlice        uint32
	FirstArraySlice uint32
	ArraySize       uint32
}

type DEPTH_STENCIL_VIEW_DESC struct {
	Format          uint32
	ViewDimension   uint32
	Flags           uint32
	MipSlice        uint32
	FirstArraySlice uint32
	ArraySize       uint32
}

type UNORDERED_ACCESS_VIEW_DESC struct {
	Format          uint32
	ViewDimension   uint32
	MipSlice        uint32
	FirstArraySlice uint32
	ArraySize       uint32
	FirstElement    uint32
	NumElements     uint32
	Flags           uint32
}

type RASTERIZER_DESC struct {
	FillMode              uint32
	CullMode              uint32
	FrontCounterClockwise bool
	DepthBias             int32
	DepthBiasClamp        float32
	SlopeScaledDepthBias  float32
	DepthClipEnable       bool
	ScissorEnable         bool
	MultisampleEnable     bool
	AntialiasedLineEnable bool
}

type RENDER_TARGET_BLEND_DESC struct {
	BlendEnable           bool
	SrcBlend              uint32
	DestBlend             uint32
	BlendOp               uint32
	SrcBlendAlpha         uint32
	DestBlendAlpha        uint32
	BlendOpAlpha          uint32
	RenderTargetWriteMask uint8
}

type BLEND_DESC struct {
	AlphaToCoverageEnable  bool
	IndependentBlendEnable bool
	RenderTarget           [8]RENDER_TARGET_BLEND_DESC
}

type DEPTH_STENCILOP_DESC struct {
	StencilFailOp      uint32
	StencilDepthFailOp uint32
	StencilPassOp      uint32
	StencilFunc        uint32
}

type DEPTH_STENCIL_DESC struct {
	DepthEnable      bool
	DepthWriteMask   uint32
	DepthFunc        uint32
	StencilEnable    bool
	StencilReadMask  uint8
	StencilWriteMask uint8
	FrontFace        DEPTH_STENCILOP_DESC
	BackFace         DEPTH_STENCILOP_DESC
}

type SAMPLER_DESC struct {
	Filter         uint32
	AddressU       uint32
	AddressV       uint32
	AddressW       uint32
	MipLODBias     float32
	MaxAnisotropy  uint32
	ComparisonFunc uint32
	BorderColor    [4]float32
	MinLOD         float32
	MaxLOD         float32
}

type INPUT_ELEMENT_DESC struct {
	SemanticName         string
	SemanticIndex        uint32
	Format               uint32
	InputSlot            uint32
	AlignedByteOffset    uint32
	InputSlotClass       uint32
	InstanceDataStepRate uint32
}

type VIEWPORT struct {
	TopLeftX float32
	TopLeftY float32
	Width    float32
	Height   float32
	MinDepth float32
	MaxDepth float32
}

type RECT struct {
	Left   int32
	Top    int32
	Right  int32
	Bottom int32
}

type BOX struct {
	Left   uint32
	Top    uint32
	Front  uint32
	Right  uint32
	Bottom uint32
	Back   uint32
}

type MAPPED_SUBRESOURCE struct {
	Data       []byte
	RowPitch   uint32
	DepthPitch uint32
}
