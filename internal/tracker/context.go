// Package tracker records backend-neutral pipeline state and applies the
// parts that changed to a backend immediately before each draw or dispatch.
package tracker

import (
	"fmt"

	beholder "github.com/Zulkir/Beholder-sub001"
	"github.com/Zulkir/Beholder-sub001/internal/bind"
	"github.com/Zulkir/Beholder-sub001/shader"
)

// stageState holds the resource bindings of one shader stage.
type stageState struct {
	uniformBuffers bind.Array[*beholder.Buffer]
	textures       bind.Array[*beholder.ShaderResourceView]
	samplers       bind.Array[*beholder.SamplerState]
}

func newStageState(caps beholder.Capabilities) stageState {
	return stageState{
		uniformBuffers: bind.NewArray[*beholder.Buffer](caps.MaxUniformBufferSlots),
		textures:       bind.NewArray[*beholder.ShaderResourceView](caps.MaxTextureSlots),
		samplers:       bind.NewArray[*beholder.SamplerState](caps.MaxSamplerSlots),
	}
}

type programKind int

const (
	programNone programKind = iota
	programGraphics
	programCompute
)

// Context is the state tracker behind every backend's DeviceContext.
// Setters only record values; Draw and Dispatch apply what changed.
//
// Context is not safe for concurrent use.
type Context struct {
	translator Translator
	caps       beholder.Capabilities

	shaders bind.Slot[beholder.ShaderSet]
	compute bind.Slot[beholder.Shader]
	stages  [shader.StageCount]stageState

	topology      bind.Slot[beholder.PrimitiveTopology]
	vertexLayout  bind.Slot[*beholder.VertexLayout]
	vertexSources bind.Array[beholder.VertexSource]
	indexSource   bind.Slot[beholder.IndexSource]
	streamOutput  bind.Array[*beholder.Buffer]

	rasterizer bind.Slot[*beholder.RasterizerState]
	viewports  bind.Array[beholder.Viewport]
	scissors   bind.Array[beholder.Rectangle]

	renderTargets bind.Array[*beholder.RenderTargetView]
	depthStencil  bind.Slot[*beholder.DepthStencilView]
	uavs          bind.Array[*beholder.UnorderedAccessView]
	blend         bind.Slot[*beholder.BlendState]
	blendFactor   bind.Slot[beholder.Color4]
	sampleMask    bind.Slot[uint32]
	depthState    bind.Slot[*beholder.DepthStencilState]
	stencilRef    bind.Slot[uint32]

	computeUAVs bind.Array[*beholder.UnorderedAccessView]

	// Program bookkeeping for forced rebinding and watermark unbinding.
	bound           programKind
	combination     *shader.Combination
	computeCombo    *shader.Combination
	boundBufferEnd  int
	boundTextureEnd int
}

var _ beholder.DeviceContext = (*Context)(nil)

// New creates a context whose every slot starts dirty, so the first draw
// applies the complete pipeline.
func New(t Translator, caps beholder.Capabilities) *Context {
	c := &Context{
		translator: t,
		caps:       caps,

		shaders: bind.NewSlot(beholder.ShaderSet{}),
		compute: bind.NewSlot[beholder.Shader](nil),

		topology:      bind.NewSlot(beholder.TopologyUndefined),
		vertexLayout:  bind.NewSlot[*beholder.VertexLayout](nil),
		vertexSources: bind.NewArray[beholder.VertexSource](caps.MaxVertexStreams),
		indexSource:   bind.NewSlot(beholder.IndexSource{}),
		streamOutput:  bind.NewArray[*beholder.Buffer](4),

		rasterizer: bind.NewSlot[*beholder.RasterizerState](nil),
		viewports:  bind.NewArray[beholder.Viewport](caps.MaxViewports),
		scissors:   bind.NewArray[beholder.Rectangle](caps.MaxViewports),

		renderTargets: bind.NewArray[*beholder.RenderTargetView](caps.MaxRenderTargets),
		depthStencil:  bind.NewSlot[*beholder.DepthStencilView](nil),
		uavs:          bind.NewArray[*beholder.UnorderedAccessView](caps.MaxRenderTargets),
		blend:         bind.NewSlot[*beholder.BlendState](nil),
		blendFactor:   bind.NewSlot(beholder.Color4{R: 1, G: 1, B: 1, A: 1}),
		sampleMask:    bind.NewSlot(^uint32(0)),
		depthState:    bind.NewSlot[*beholder.DepthStencilState](nil),
		stencilRef:    bind.NewSlot[uint32](0),

		computeUAVs: bind.NewArray[*beholder.UnorderedAccessView](caps.MaxRenderTargets),
	}
	for i := range c.stages {
		c.stages[i] = newStageState(caps)
	}
	return c
}

// Capabilities returns the capabilities the context checks commands against.
func (c *Context) Capabilities() beholder.Capabilities { return c.caps }

// Combination returns the graphics combination bound by the last draw.
func (c *Context) Combination() *shader.Combination { return c.combination }

// SetShadersForDrawing selects the graphics shaders.
func (c *Context) SetShadersForDrawing(set beholder.ShaderSet) { c.shaders.Set(set) }

// SetShaderForDispatching selects the compute shader.
func (c *Context) SetShaderForDispatching(cs beholder.Shader) { c.compute.Set(cs) }

func (c *Context) stage(stage shader.Stage) (*stageState, bool) {
	if !stage.Valid() {
		beholder.Logger().Warn("tracker: invalid stage", "stage", int(stage))
		return nil, false
	}
	return &c.stages[stage], true
}

func setIndexed[T comparable](a *bind.Array[T], what string, slot int, v T) {
	if slot < 0 || slot >= a.Capacity() {
		beholder.Logger().Warn("tracker: slot out of range", "kind", what, "slot", slot, "capacity", a.Capacity())
		return
	}
	a.Set(slot, v)
}

// SetUniformBuffer binds buf to a logical uniform buffer slot of stage.
func (c *Context) SetUniformBuffer(stage shader.Stage, slot int, buf *beholder.Buffer) {
	if s, ok := c.stage(stage); ok {
		setIndexed(&s.uniformBuffers, "uniform buffer", slot, buf)
	}
}

// SetShaderResource binds view to a logical texture slot of stage.
func (c *Context) SetShaderResource(stage shader.Stage, slot int, view *beholder.ShaderResourceView) {
	if s, ok := c.stage(stage); ok {
		setIndexed(&s.textures, "texture", slot, view)
	}
}

// SetSampler binds state to a logical sampler slot of stage.
func (c *Context) SetSampler(stage shader.Stage, slot int, state *beholder.SamplerState) {
	if s, ok := c.stage(stage); ok {
		setIndexed(&s.samplers, "sampler", slot, state)
	}
}

// SetPrimitiveTopology sets the input assembler topology.
func (c *Context) SetPrimitiveTopology(t beholder.PrimitiveTopology) { c.topology.Set(t) }

// SetVertexLayout sets the vertex layout.
func (c *Context) SetVertexLayout(l *beholder.VertexLayout) { c.vertexLayout.Set(l) }

// SetVertexSource binds one vertex stream.
func (c *Context) SetVertexSource(slot int, src beholder.VertexSource) {
	setIndexed(&c.vertexSources, "vertex source", slot, src)
}

// SetVertexSources replaces all vertex streams.
func (c *Context) SetVertexSources(srcs ...beholder.VertexSource) {
	c.vertexSources.SetAll(clip(srcs, c.vertexSources.Capacity())...)
}

// SetIndexSource sets the index buffer.
func (c *Context) SetIndexSource(src beholder.IndexSource) { c.indexSource.Set(src) }

// SetStreamOutputTargets records stream output targets. Backends without
// stream output reject the call.
func (c *Context) SetStreamOutputTargets(targets ...*beholder.Buffer) error {
	if !c.caps.Features.Has(beholder.FeatureStreamOutput) {
		return fmt.Errorf("%w: stream output", beholder.ErrNotSupported)
	}
	if len(targets) > c.streamOutput.Capacity() {
		return fmt.Errorf("%w: %d stream output targets", beholder.ErrInvalidDescription, len(targets))
	}
	c.streamOutput.SetAll(targets...)
	return nil
}

// SetRasterizerState sets the rasterizer state. nil selects the default.
func (c *Context) SetRasterizerState(s *beholder.RasterizerState) { c.rasterizer.Set(s) }

// SetViewports replaces the viewports.
func (c *Context) SetViewports(vps ...beholder.Viewport) {
	c.viewports.SetAll(clip(vps, c.viewports.Capacity())...)
}

// SetScissorRectangles replaces the scissor rectangles.
func (c *Context) SetScissorRectangles(rects ...beholder.Rectangle) {
	c.scissors.SetAll(clip(rects, c.scissors.Capacity())...)
}

// SetRenderTargets replaces the render targets.
func (c *Context) SetRenderTargets(views ...*beholder.RenderTargetView) {
	c.renderTargets.SetAll(clip(views, c.renderTargets.Capacity())...)
}

// SetDepthStencil sets the depth-stencil view. nil detaches it.
func (c *Context) SetDepthStencil(view *beholder.DepthStencilView) { c.depthStencil.Set(view) }

// SetUnorderedAccessViews records pixel stage unordered access views.
func (c *Context) SetUnorderedAccessViews(views ...*beholder.UnorderedAccessView) {
	c.uavs.SetAll(clip(views, c.uavs.Capacity())...)
}

// SetBlendState sets the blend state. nil selects the default.
func (c *Context) SetBlendState(s *beholder.BlendState) { c.blend.Set(s) }

// SetBlendFactor sets the constant blend color.
func (c *Context) SetBlendFactor(f beholder.Color4) { c.blendFactor.Set(f) }

// SetSampleMask sets the multisample coverage mask.
func (c *Context) SetSampleMask(mask uint32) { c.sampleMask.Set(mask) }

// SetDepthStencilState sets the depth-stencil state. nil selects the default.
func (c *Context) SetDepthStencilState(s *beholder.DepthStencilState) { c.depthState.Set(s) }

// SetStencilReference sets the stencil reference of both faces.
func (c *Context) SetStencilReference(ref uint32) { c.stencilRef.Set(ref) }

// SetComputeUnorderedAccessViews records compute unordered access views.
func (c *Context) SetComputeUnorderedAccessViews(views ...*beholder.UnorderedAccessView) {
	c.computeUAVs.SetAll(clip(views, c.computeUAVs.Capacity())...)
}

func clip[T any](vs []T, n int) []T {
	if len(vs) > n {
		beholder.Logger().Warn("tracker: too many bindings, extra ignored", "count", len(vs), "capacity", n)
		return vs[:n]
	}
	return vs
}
