package beholder

import (
	"github.com/Zulkir/Beholder-sub001/shader"
)

// Shader is a compiled shader of one stage.
type Shader interface {
	Disposable
	Stage() shader.Stage
	Reflection() *shader.Reflection
	// ShaderBase returns the slot translations shared by every backend.
	ShaderBase() *shader.Base
}

// ShaderSet selects the shaders of the graphics stages. Vertex is required
// for drawing; Hull and Domain come as a pair.
type ShaderSet struct {
	Vertex   Shader
	Hull     Shader
	Domain   Shader
	Geometry Shader
	Pixel    Shader
}

// Shader returns the shader bound to stage, or nil.
func (s ShaderSet) Shader(stage shader.Stage) Shader {
	switch stage {
	case shader.StageVertex:
		return s.Vertex
	case shader.StageHull:
		return s.Hull
	case shader.StageDomain:
		return s.Domain
	case shader.StageGeometry:
		return s.Geometry
	case shader.StagePixel:
		return s.Pixel
	default:
		return nil
	}
}

// Bases returns the shader bases of the set in pipeline order, nil entries
// included.
func (s ShaderSet) Bases() []*shader.Base {
	bases := make([]*shader.Base, 0, 5)
	for _, stage := range shader.GraphicsStages {
		if sh := s.Shader(stage); sh != nil {
			bases = append(bases, sh.ShaderBase())
		} else {
			bases = append(bases, nil)
		}
	}
	return bases
}

// IsEmpty reports whether no stage is set.
func (s ShaderSet) IsEmpty() bool { return s == ShaderSet{} }

// Feature is a bitmask of optional device capabilities.
type Feature uint32

// Features.
const (
	FeatureDrawIndexedInstancedIndirect Feature = 1 << iota
	FeatureDrawInstancedIndirect
	FeatureMap
	FeatureUnorderedAccessClear
	FeatureStreamOutput
	FeatureCompute
	FeatureTessellation
	FeatureGeometryShader
	FeatureIndexBufferOffset
	FeatureGenerateMips
)

// Has reports whether all features in f2 are present.
func (f Feature) Has(f2 Feature) bool { return f&f2 == f2 }

// Capabilities describes what a device can do.
type Capabilities struct {
	Features              Feature
	MaxRenderTargets      int
	MaxViewports          int
	MaxUniformBufferSlots int
	MaxTextureSlots       int
	MaxSamplerSlots       int
	MaxVertexStreams      int
	// BottomLeftOrigin is set for backends whose window coordinates start
	// at the bottom-left corner. Viewports and scissors are flipped there.
	BottomLeftOrigin bool
}

// Restrict masks the features with the WithCapabilities option, if given.
func (c Capabilities) Restrict(o Options) Capabilities {
	if o.Features != nil {
		c.Features &= *o.Features
	}
	return c
}

// MappedSubresource is CPU access to a mapped subresource.
type MappedSubresource struct {
	Data       []byte
	RowPitch   int
	DepthPitch int
}

// Device creates resources, states and shaders for one backend.
type Device interface {
	// Backend returns the backend name, e.g. "opengl".
	Backend() string
	Capabilities() Capabilities
	ImmediateContext() DeviceContext
	// Registry returns the device's live object registry.
	Registry() *Registry

	CreateBuffer(desc BufferDescription, initial []byte) (*Buffer, error)
	CreateTexture1D(desc Texture1DDescription, initial []SubresourceData) (*Texture1D, error)
	CreateTexture2D(desc Texture2DDescription, initial []SubresourceData) (*Texture2D, error)
	CreateTexture3D(desc Texture3DDescription, initial []SubresourceData) (*Texture3D, error)

	CreateRasterizerState(desc RasterizerDescription) (*RasterizerState, error)
	CreateBlendState(desc BlendDescription) (*BlendState, error)
	CreateDepthStencilState(desc DepthStencilDescription) (*DepthStencilState, error)
	CreateSamplerState(desc SamplerDescription) (*SamplerState, error)

	// CreateShader compiles a shader from its reflection. Types the backend
	// cannot express fail with ErrUnsupportedType.
	CreateShader(r *shader.Reflection) (Shader, error)
	CreateVertexLayout(vs Shader, elements []VertexLayoutElement) (*VertexLayout, error)

	// Dispose releases every object the device created, then the device.
	Dispose()
}

// DeviceContext records pipeline state and issues commands. Setters only
// record state; it is applied to the backend by the next draw or dispatch.
//
// A DeviceContext must be used from one goroutine at a time, normally the
// one that owns the native graphics context.
type DeviceContext interface {
	SetShadersForDrawing(set ShaderSet)
	SetShaderForDispatching(cs Shader)

	SetUniformBuffer(stage shader.Stage, slot int, buf *Buffer)
	SetShaderResource(stage shader.Stage, slot int, view *ShaderResourceView)
	SetSampler(stage shader.Stage, slot int, state *SamplerState)

	SetPrimitiveTopology(t PrimitiveTopology)
	SetVertexLayout(l *VertexLayout)
	SetVertexSource(slot int, src VertexSource)
	SetVertexSources(srcs ...VertexSource)
	SetIndexSource(src IndexSource)
	// SetStreamOutputTargets fails with ErrNotSupported on backends
	// without stream output.
	SetStreamOutputTargets(targets ...*Buffer) error

	SetRasterizerState(s *RasterizerState)
	SetViewports(vps ...Viewport)
	SetScissorRectangles(rects ...Rectangle)

	SetRenderTargets(views ...*RenderTargetView)
	SetDepthStencil(view *DepthStencilView)
	SetUnorderedAccessViews(views ...*UnorderedAccessView)
	SetBlendState(s *BlendState)
	SetBlendFactor(c Color4)
	SetSampleMask(mask uint32)
	SetDepthStencilState(s *DepthStencilState)
	SetStencilReference(ref uint32)

	SetComputeUnorderedAccessViews(views ...*UnorderedAccessView)

	ClearRenderTargetView(view *RenderTargetView, color Color4) error
	ClearDepthStencilView(view *DepthStencilView, flags ClearFlags, depth float32, stencil uint8) error
	ClearUnorderedAccessViewFloat(view *UnorderedAccessView, values [4]float32) error
	ClearUnorderedAccessViewUint(view *UnorderedAccessView, values [4]uint32) error

	Draw(vertexCount, startVertex int) error
	DrawIndexed(indexCount, startIndex, baseVertex int) error
	DrawInstanced(vertexCountPerInstance, instanceCount, startVertex, startInstance int) error
	DrawIndexedInstanced(indexCountPerInstance, instanceCount, startIndex, baseVertex, startInstance int) error
	DrawInstancedIndirect(args *Buffer, offset int) error
	DrawIndexedInstancedIndirect(args *Buffer, offset int) error
	Dispatch(x, y, z int) error
	DispatchIndirect(args *Buffer, offset int) error

	GenerateMips(view *ShaderResourceView) error
	SetSubresourceData(r Resource, subresource int, data SubresourceData) error
	Map(r Resource, subresource int, mt MapType) (MappedSubresource, error)
	Unmap(r Resource, subresource int) error
	Flush() error
}
