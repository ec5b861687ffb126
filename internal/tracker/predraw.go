package tracker

import (
	"fmt"

	beholder "github.com/Zulkir/Beholder-sub001"
	"github.com/Zulkir/Beholder-sub001/shader"
)

// PreDraw applies every dirty piece of graphics state in pipeline order:
// program, stage resources, input assembler, stream output, rasterizer
// with viewports and scissors, then output merger.
//
// A failing step returns its error with the steps before it applied and
// cleaned; the failing step stays dirty.
func (c *Context) PreDraw() error {
	forced, err := c.applyProgram()
	if err != nil {
		return err
	}
	if c.combination != nil {
		for _, stage := range c.combination.Stages() {
			c.applyStage(stage, c.combination.Shader(stage), forced)
		}
	}
	// Stages the program does not use keep their values for later
	// programs. A program switch rebinds them anyway.
	for _, stage := range shader.GraphicsStages {
		c.cleanStage(stage)
	}
	if err := c.applyInputAssembler(); err != nil {
		return err
	}
	c.streamOutput.Clean()
	c.applyRasterizer()
	c.applyOutputMerger()
	return nil
}

// PreDispatch applies the compute program and compute stage resources.
func (c *Context) PreDispatch() error {
	forced, err := c.applyComputeProgram()
	if err != nil {
		return err
	}
	if c.computeCombo != nil {
		c.applyStage(shader.StageCompute, c.computeCombo.Shader(shader.StageCompute), forced)
	}
	c.cleanStage(shader.StageCompute)
	if c.computeUAVs.IsDirty() {
		c.bindUnorderedAccessViews(true, c.computeUAVs.Values())
		c.computeUAVs.Clean()
	}
	return nil
}

func (c *Context) applyProgram() (bool, error) {
	if !c.shaders.IsDirty() && c.bound == programGraphics {
		return false, nil
	}
	combo, err := c.translator.BindProgram(c.shaders.Value())
	if err != nil {
		return false, err
	}
	c.combination = combo
	c.bound = programGraphics
	c.unbindAboveWatermarks(combo)
	c.shaders.Clean()
	return true, nil
}

func (c *Context) applyComputeProgram() (bool, error) {
	if !c.compute.IsDirty() && c.bound == programCompute {
		return false, nil
	}
	cs := c.compute.Value()
	if cs == nil {
		return false, fmt.Errorf("%w: dispatch without a compute shader", beholder.ErrInvalidDescription)
	}
	combo, err := c.translator.BindComputeProgram(cs)
	if err != nil {
		return false, err
	}
	c.computeCombo = combo
	c.bound = programCompute
	c.unbindAboveWatermarks(combo)
	c.compute.Clean()
	return true, nil
}

// unbindAboveWatermarks clears native slots a wider previous program bound
// and the new one does not cover.
func (c *Context) unbindAboveWatermarks(combo *shader.Combination) {
	var buffers, textures int
	if combo != nil {
		buffers = combo.MaxValueBufferSlotPlusOne()
		textures = combo.MaxTextureSlotPlusOne()
	}
	if c.boundBufferEnd > buffers {
		beholder.Logger().Debug("tracker: unbinding uniform buffers", "from", buffers, "to", c.boundBufferEnd)
		c.translator.UnbindUniformBuffers(buffers, c.boundBufferEnd)
	}
	if c.boundTextureEnd > textures {
		beholder.Logger().Debug("tracker: unbinding textures", "from", textures, "to", c.boundTextureEnd)
		c.translator.UnbindTextures(textures, c.boundTextureEnd)
	}
	c.boundBufferEnd = buffers
	c.boundTextureEnd = textures
}

// applyStage writes the stage's dirty bindings, or all declared bindings
// when forced. Logical slots the shader does not declare are skipped.
func (c *Context) applyStage(stage shader.Stage, base *shader.Base, forced bool) {
	if base == nil {
		return
	}
	s := &c.stages[stage]

	ubs := base.UniformBuffers()
	if forced {
		for _, b := range ubs.Bindings() {
			c.translator.BindUniformBuffer(stage, b.NativeSlot, s.uniformBuffers.Get(b.APISlot))
		}
	} else {
		for _, slot := range s.uniformBuffers.DirtyIndices() {
			if native, ok := ubs.Native(slot); ok {
				c.translator.BindUniformBuffer(stage, native, s.uniformBuffers.Get(slot))
			}
		}
	}

	texs := base.Textures()
	if forced {
		for _, b := range texs.Bindings() {
			c.translator.BindTexture(stage, b.NativeSlot, s.textures.Get(b.APISlot))
		}
	} else {
		for _, slot := range s.textures.DirtyIndices() {
			if native, ok := texs.Native(slot); ok {
				c.translator.BindTexture(stage, native, s.textures.Get(slot))
			}
		}
	}

	sm := base.SamplerMap()
	if forced {
		for _, slot := range sm.Slots() {
			c.bindSampler(stage, sm, slot, s.samplers.Get(slot))
		}
	} else {
		for _, slot := range s.samplers.DirtyIndices() {
			c.bindSampler(stage, sm, slot, s.samplers.Get(slot))
		}
	}
}

func (c *Context) bindSampler(stage shader.Stage, sm shader.SamplerMap, slot int, state *beholder.SamplerState) {
	for _, target := range sm.Targets(slot) {
		c.translator.BindSampler(stage, target, state)
	}
}

func (c *Context) cleanStage(stage shader.Stage) {
	s := &c.stages[stage]
	s.uniformBuffers.Clean()
	s.textures.Clean()
	s.samplers.Clean()
}

func (c *Context) applyInputAssembler() error {
	if c.topology.IsDirty() {
		if err := c.translator.SetPrimitiveTopology(c.topology.Value()); err != nil {
			return err
		}
		c.topology.Clean()
	}
	if c.vertexLayout.IsDirty() || c.vertexSources.IsDirty() {
		if err := c.translator.SetVertexInput(c.vertexLayout.Value(), c.vertexSources.Values()); err != nil {
			return err
		}
		c.vertexLayout.Clean()
		c.vertexSources.Clean()
	}
	if c.indexSource.IsDirty() {
		if err := c.translator.SetIndexSource(c.indexSource.Value()); err != nil {
			return err
		}
		c.indexSource.Clean()
	}
	return nil
}

// targetHeight is the height of the first bound render target, or of the
// depth-stencil view when no color target is bound.
func (c *Context) targetHeight() int {
	for _, rt := range c.renderTargets.Values() {
		if rt != nil {
			return rt.Height()
		}
	}
	if ds := c.depthStencil.Value(); ds != nil {
		return ds.Height()
	}
	return 0
}

func (c *Context) applyRasterizer() {
	if c.rasterizer.IsDirty() {
		c.translator.SetRasterizerState(c.rasterizer.Value())
		c.rasterizer.Clean()
	}
	// The output merger is applied after this, so its dirty flags still
	// tell whether the target, and with it the flip height, changed.
	targetChanged := c.renderTargets.IsDirty() || c.depthStencil.IsDirty()
	height := c.targetHeight()
	if c.viewports.IsDirty() || targetChanged {
		c.translator.SetViewports(c.viewports.Values(), height)
		c.viewports.Clean()
	}
	if c.scissors.IsDirty() || targetChanged {
		c.translator.SetScissorRectangles(c.scissors.Values(), height)
		c.scissors.Clean()
	}
}

func (c *Context) applyOutputMerger() {
	if c.renderTargets.IsDirty() {
		c.translator.SetRenderTargets(c.renderTargets.Values(), c.renderTargets.CleanCount())
		c.renderTargets.Clean()
	}
	if c.depthStencil.IsDirty() {
		c.translator.SetDepthStencilView(c.depthStencil.Value())
		c.depthStencil.Clean()
	}
	if c.uavs.IsDirty() {
		c.bindUnorderedAccessViews(false, c.uavs.Values())
		c.uavs.Clean()
	}
	if c.blend.IsDirty() {
		c.translator.SetBlendState(c.blend.Value())
		c.blend.Clean()
	}
	if c.blendFactor.IsDirty() || c.sampleMask.IsDirty() {
		c.translator.SetBlendFactor(c.blendFactor.Value(), c.sampleMask.Value())
		c.blendFactor.Clean()
		c.sampleMask.Clean()
	}
	if c.depthState.IsDirty() {
		c.translator.SetDepthStencilState(c.depthState.Value())
		c.depthState.Clean()
	}
	if c.stencilRef.IsDirty() {
		c.translator.SetStencilReference(c.stencilRef.Value())
		c.stencilRef.Clean()
	}
}

func (c *Context) bindUnorderedAccessViews(compute bool, views []*beholder.UnorderedAccessView) {
	if b, ok := c.translator.(UnorderedAccessBinder); ok {
		b.BindUnorderedAccessViews(compute, views)
	}
}
