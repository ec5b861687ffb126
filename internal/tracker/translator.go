package tracker

import (
	beholder "github.com/Zulkir/Beholder-sub001"
	"github.com/Zulkir/Beholder-sub001/shader"
)

// DrawKind selects the draw command.
type DrawKind int

// Draw kinds.
const (
	DrawPlain DrawKind = iota
	DrawIndexed
	DrawInstanced
	DrawIndexedInstanced
	DrawInstancedIndirect
	DrawIndexedInstancedIndirect
)

// IsIndexed reports whether the draw reads the index buffer.
func (k DrawKind) IsIndexed() bool {
	return k == DrawIndexed || k == DrawIndexedInstanced || k == DrawIndexedInstancedIndirect
}

// DrawCall carries the arguments of one draw.
type DrawCall struct {
	Kind          DrawKind
	Topology      beholder.PrimitiveTopology
	IndexFormat   beholder.IndexFormat
	VertexCount   int
	IndexCount    int
	InstanceCount int
	StartVertex   int
	StartIndex    int
	BaseVertex    int
	StartInstance int
	Args          *beholder.Buffer
	ArgsOffset    int
}

// DispatchCall carries the arguments of one compute dispatch.
type DispatchCall struct {
	X, Y, Z    int
	Args       *beholder.Buffer
	ArgsOffset int
}

// Translator turns tracked state into native calls. Each backend
// implements it; Context decides when each method is called.
type Translator interface {
	// BindProgram makes the program for set current. An empty set unbinds
	// the program and returns a nil combination.
	BindProgram(set beholder.ShaderSet) (*shader.Combination, error)
	BindComputeProgram(cs beholder.Shader) (*shader.Combination, error)

	// UnbindUniformBuffers and UnbindTextures clear native slots [from, to)
	// that a previous program left bound.
	UnbindUniformBuffers(from, to int)
	UnbindTextures(from, to int)

	// The Bind* methods write one native slot. A nil value unbinds it.
	BindUniformBuffer(stage shader.Stage, nativeSlot int, buf *beholder.Buffer)
	BindTexture(stage shader.Stage, nativeSlot int, view *beholder.ShaderResourceView)
	BindSampler(stage shader.Stage, target shader.SamplerTarget, state *beholder.SamplerState)

	SetPrimitiveTopology(t beholder.PrimitiveTopology) error
	SetVertexInput(layout *beholder.VertexLayout, sources []beholder.VertexSource) error
	SetIndexSource(src beholder.IndexSource) error

	SetRasterizerState(s *beholder.RasterizerState)
	// SetViewports and SetScissorRectangles receive the height of the
	// bound render target for backends with a bottom-left origin.
	SetViewports(vps []beholder.Viewport, targetHeight int)
	SetScissorRectangles(rects []beholder.Rectangle, targetHeight int)

	// SetRenderTargets binds views to the first len(views) slots and
	// detaches slots up to previousCount.
	SetRenderTargets(views []*beholder.RenderTargetView, previousCount int)
	SetDepthStencilView(v *beholder.DepthStencilView)
	SetBlendState(s *beholder.BlendState)
	SetBlendFactor(factor beholder.Color4, sampleMask uint32)
	SetDepthStencilState(s *beholder.DepthStencilState)
	SetStencilReference(ref uint32)

	Draw(call DrawCall) error
	Dispatch(call DispatchCall) error

	Commands
}

// UnorderedAccessBinder is implemented by translators of backends with
// unordered access views. Pixel stage views are bound with the render
// targets; compute views with the compute program.
type UnorderedAccessBinder interface {
	BindUnorderedAccessViews(compute bool, views []*beholder.UnorderedAccessView)
}

// Commands are the context operations that do not depend on tracked state.
type Commands interface {
	ClearRenderTargetView(v *beholder.RenderTargetView, c beholder.Color4) error
	ClearDepthStencilView(v *beholder.DepthStencilView, flags beholder.ClearFlags, depth float32, stencil uint8) error
	ClearUnorderedAccessViewFloat(v *beholder.UnorderedAccessView, values [4]float32) error
	ClearUnorderedAccessViewUint(v *beholder.UnorderedAccessView, values [4]uint32) error
	GenerateMips(v *beholder.ShaderResourceView) error
	SetSubresourceData(r beholder.Resource, subresource int, data beholder.SubresourceData) error
	Map(r beholder.Resource, subresource int, mt beholder.MapType) (beholder.MappedSubresource, error)
	Unmap(r beholder.Resource, subresource int) error
	Flush() error
}
