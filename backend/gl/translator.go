package gl

import (
	"fmt"

	beholder "github.com/Zulkir/Beholder-sub001"
	"github.com/Zulkir/Beholder-sub001/internal/tracker"
	"github.com/Zulkir/Beholder-sub001/shader"
)

// translator applies tracked state to the GL context. It remembers the
// fixed-function descriptions it applied because clears have to step
// around them.
type translator struct {
	d *Device
	f Functions

	raster  beholder.RasterizerDescription
	blend   beholder.BlendDescription
	depth   beholder.DepthStencilDescription
	stencil uint32

	// attribs is the set of enabled vertex attribute locations.
	attribs uint32
	patches int
}

var _ tracker.Translator = (*translator)(nil)

func newTranslator(d *Device) *translator {
	return &translator{
		d:      d,
		f:      d.f,
		raster: beholder.DefaultRasterizer(),
		blend:  beholder.DefaultBlend(),
		depth:  beholder.DefaultDepthStencil(),
	}
}

func (t *translator) BindProgram(set beholder.ShaderSet) (*shader.Combination, error) {
	if set.IsEmpty() {
		t.f.UseProgram(0)
		return nil, nil
	}
	p, err := t.d.program(set)
	if err != nil {
		return nil, err
	}
	t.f.UseProgram(p.obj)
	return p.combo, nil
}

func (t *translator) BindComputeProgram(beholder.Shader) (*shader.Combination, error) {
	return nil, fmt.Errorf("%w: gl compute programs", beholder.ErrNotSupported)
}

func (t *translator) UnbindUniformBuffers(from, to int) {
	for slot := from; slot < to; slot++ {
		t.f.BindBufferBase(UNIFORM_BUFFER, slot, 0)
	}
}

func (t *translator) UnbindTextures(from, to int) {
	for unit := from; unit < to; unit++ {
		t.f.BindTextureUnit(unit, 0)
		t.f.BindSampler(unit, 0)
	}
}

func (t *translator) BindUniformBuffer(stage shader.Stage, nativeSlot int, buf *beholder.Buffer) {
	t.f.BindBufferBase(UNIFORM_BUFFER, nativeSlot, t.buffer(buf))
}

func (t *translator) BindTexture(stage shader.Stage, nativeSlot int, view *beholder.ShaderResourceView) {
	var obj Texture
	if view != nil {
		if v, ok := view.Native().(*srv); ok {
			obj = v.obj
		} else {
			t.d.log.Warn("gl: foreign shader resource view", "stage", stage, "slot", nativeSlot)
		}
	}
	t.f.BindTextureUnit(nativeSlot, obj)
}

func (t *translator) BindSampler(stage shader.Stage, target shader.SamplerTarget, state *beholder.SamplerState) {
	s := t.d.sampler
	if state != nil {
		if native, ok := state.Native().(*glSampler); ok {
			s = native
		} else {
			t.d.log.Warn("gl: foreign sampler state", "stage", stage, "unit", target.NativeSlot)
		}
	}
	t.f.BindSampler(target.NativeSlot, s.object(target.Mips))
}

// buffer returns the GL name of buf, or 0.
func (t *translator) buffer(buf *beholder.Buffer) Buffer {
	if buf == nil {
		return 0
	}
	b, ok := buf.Native().(*glBuffer)
	if !ok {
		t.d.log.Warn("gl: foreign buffer", "handle", buf.Handle())
		return 0
	}
	return b.obj
}

func (t *translator) SetPrimitiveTopology(topology beholder.PrimitiveTopology) error {
	if _, err := primitiveMode(topology); err != nil {
		return err
	}
	if n := topology.PatchControlPoints(); n > 0 && n != t.patches {
		t.f.PatchParameteri(PATCH_VERTICES, n)
		t.patches = n
	}
	return nil
}

func (t *translator) SetVertexInput(layout *beholder.VertexLayout, sources []beholder.VertexSource) error {
	var enabled uint32
	if layout != nil {
		for _, a := range layout.Attributes() {
			e := a.Element
			if e.InputSlot >= len(sources) || sources[e.InputSlot].Buffer == nil {
				continue
			}
			src := sources[e.InputSlot]
			size, typ, normalized, err := vertexFormat(e.Format)
			if err != nil {
				return err
			}
			t.f.BindBuffer(ARRAY_BUFFER, t.buffer(src.Buffer))
			offset := src.Offset + e.Offset
			if a.Integer {
				t.f.VertexAttribIPointer(a.Location, size, typ, src.Stride, offset)
			} else {
				t.f.VertexAttribPointer(a.Location, size, typ, normalized, src.Stride, offset)
			}
			divisor := 0
			if e.PerInstance {
				divisor = max(e.InstanceStepRate, 1)
			}
			t.f.VertexAttribDivisor(a.Location, divisor)
			if t.attribs&(1<<a.Location) == 0 {
				t.f.EnableVertexAttribArray(a.Location)
			}
			enabled |= 1 << a.Location
		}
	}
	for loc := range 32 {
		if t.attribs&^enabled&(1<<loc) != 0 {
			t.f.DisableVertexAttribArray(loc)
		}
	}
	t.attribs = enabled
	return nil
}

// SetIndexSource binds the element buffer. GL takes the index offset per
// draw, in bytes from the start of the buffer, so a source offset cannot
// be expressed.
func (t *translator) SetIndexSource(src beholder.IndexSource) error {
	if src.Offset != 0 {
		return fmt.Errorf("%w: index buffer offset %d on opengl", beholder.ErrNotSupported, src.Offset)
	}
	t.f.BindBuffer(ELEMENT_ARRAY_BUFFER, t.buffer(src.Buffer))
	return nil
}

func enable(f Functions, capability Enum, on bool) {
	if on {
		f.Enable(capability)
	} else {
		f.Disable(capability)
	}
}

func (t *translator) SetRasterizerState(s *beholder.RasterizerState) {
	desc := beholder.DefaultRasterizer()
	if s != nil {
		desc = s.Description()
	}
	t.raster = desc
	f := t.f

	if desc.FillMode == beholder.FillWireframe {
		f.PolygonMode(FRONT_AND_BACK, LINE)
	} else {
		f.PolygonMode(FRONT_AND_BACK, FILL)
	}
	switch desc.CullMode {
	case beholder.CullFront:
		f.Enable(CULL_FACE)
		f.CullFace(FRONT)
	case beholder.CullBack:
		f.Enable(CULL_FACE)
		f.CullFace(BACK)
	default:
		f.Disable(CULL_FACE)
	}
	// Window space is flipped, which flips the apparent winding too.
	if desc.FrontFaceWinding == beholder.WindingClockwise {
		f.FrontFace(CW)
	} else {
		f.FrontFace(CCW)
	}
	if desc.DepthBias != 0 || desc.SlopeScaledDepthBias != 0 {
		f.Enable(POLYGON_OFFSET_FILL)
		f.PolygonOffset(desc.SlopeScaledDepthBias, float32(desc.DepthBias))
	} else {
		f.Disable(POLYGON_OFFSET_FILL)
	}
	enable(f, DEPTH_CLAMP, !desc.DepthClipEnable)
	enable(f, SCISSOR_TEST, desc.ScissorEnable)
	enable(f, MULTISAMPLE, desc.MultisampleEnable)
	enable(f, LINE_SMOOTH, desc.AntialiasedLineEnable)
}

// SetViewports converts top-left viewports to GL window coordinates.
func (t *translator) SetViewports(vps []beholder.Viewport, targetHeight int) {
	h := float32(targetHeight)
	for i, vp := range vps {
		t.f.ViewportIndexedf(i, vp.Left, vp.BottomLeftY(h), vp.Width, vp.Height)
		t.f.DepthRangeIndexed(i, float64(vp.MinDepth), float64(vp.MaxDepth))
	}
}

func (t *translator) SetScissorRectangles(rects []beholder.Rectangle, targetHeight int) {
	for i, r := range rects {
		t.f.ScissorIndexed(i, r.Left, r.BottomLeftY(targetHeight), r.Width(), r.Height())
	}
}

func (t *translator) attach(fb Framebuffer, point Enum, a *attachment) {
	switch {
	case a == nil:
		t.f.NamedFramebufferTexture(fb, point, 0, 0)
	case a.layered:
		t.f.NamedFramebufferTexture(fb, point, a.tex, a.level)
	default:
		t.f.NamedFramebufferTextureLayer(fb, point, a.tex, a.level, a.layer)
	}
}

func (t *translator) nativeAttachment(n beholder.NativeObject) *attachment {
	if n == nil {
		return nil
	}
	a, ok := n.(*attachment)
	if !ok {
		t.d.log.Warn("gl: foreign render target view")
		return nil
	}
	return a
}

func (t *translator) SetRenderTargets(views []*beholder.RenderTargetView, previousCount int) {
	bufs := make([]Enum, len(views))
	for i, v := range views {
		var a *attachment
		if v != nil {
			a = t.nativeAttachment(v.Native())
		}
		t.attach(t.d.fbo, COLOR_ATTACHMENT0+Enum(i), a)
		if a != nil {
			bufs[i] = COLOR_ATTACHMENT0 + Enum(i)
		} else {
			bufs[i] = NONE
		}
	}
	for i := len(views); i < previousCount; i++ {
		t.attach(t.d.fbo, COLOR_ATTACHMENT0+Enum(i), nil)
	}
	t.f.NamedFramebufferDrawBuffers(t.d.fbo, bufs)
}

func (t *translator) SetDepthStencilView(v *beholder.DepthStencilView) {
	t.attach(t.d.fbo, DEPTH_STENCIL_ATTACHMENT, nil)
	if v == nil {
		return
	}
	if a := t.nativeAttachment(v.Native()); a != nil {
		t.attach(t.d.fbo, depthAttachment(a), a)
	}
}

func depthAttachment(a *attachment) Enum {
	if a.stencil {
		return DEPTH_STENCIL_ATTACHMENT
	}
	return DEPTH_ATTACHMENT
}

func (t *translator) SetBlendState(s *beholder.BlendState) {
	desc := beholder.DefaultBlend()
	if s != nil {
		desc = s.Description()
	}
	t.blend = desc
	enable(t.f, SAMPLE_ALPHA_TO_COVERAGE, desc.AlphaToCoverageEnable)
	for i := range desc.RenderTargets {
		t.applyTargetBlend(i)
	}
}

func (t *translator) applyTargetBlend(i int) {
	rt := t.blend.Target(i)
	if rt.BlendEnable {
		t.f.Enablei(BLEND, i)
	} else {
		t.f.Disablei(BLEND, i)
	}
	t.f.BlendEquationSeparatei(i, blendEquation(rt.BlendOp), blendEquation(rt.BlendOpAlpha))
	t.f.BlendFuncSeparatei(i, blendFactor(rt.SrcBlend), blendFactor(rt.DestBlend),
		blendFactor(rt.SrcBlendAlpha), blendFactor(rt.DestBlendAlpha))
	t.colorMask(i, rt.WriteMask)
}

func (t *translator) colorMask(i int, m beholder.ColorMask) {
	t.f.ColorMaski(i, m&beholder.ColorMaskRed != 0, m&beholder.ColorMaskGreen != 0,
		m&beholder.ColorMaskBlue != 0, m&beholder.ColorMaskAlpha != 0)
}

func (t *translator) SetBlendFactor(factor beholder.Color4, sampleMask uint32) {
	t.f.BlendColor(factor.R, factor.G, factor.B, factor.A)
	enable(t.f, SAMPLE_MASK, sampleMask != ^uint32(0))
	t.f.SampleMaski(0, sampleMask)
}

func (t *translator) SetDepthStencilState(s *beholder.DepthStencilState) {
	desc := beholder.DefaultDepthStencil()
	if s != nil {
		desc = s.Description()
	}
	t.depth = desc
	f := t.f
	enable(f, DEPTH_TEST, desc.DepthEnable)
	f.DepthMask(desc.DepthWriteEnable)
	f.DepthFunc(comparisonFunc(desc.DepthFunc))
	enable(f, STENCIL_TEST, desc.StencilEnable)
	for _, face := range []struct {
		face Enum
		desc beholder.StencilFace
	}{{FRONT, desc.FrontFace}, {BACK, desc.BackFace}} {
		f.StencilOpSeparate(face.face, stencilOp(face.desc.StencilFailOp),
			stencilOp(face.desc.StencilDepthFailOp), stencilOp(face.desc.StencilPassOp))
	}
	f.StencilMaskSeparate(FRONT_AND_BACK, uint32(desc.StencilWriteMask))
	t.applyStencilFunc()
}

// SetStencilReference reissues the stencil functions of both faces, which
// carry the reference value in GL.
func (t *translator) SetStencilReference(ref uint32) {
	t.stencil = ref
	t.applyStencilFunc()
}

func (t *translator) applyStencilFunc() {
	mask := uint32(t.depth.StencilReadMask)
	t.f.StencilFuncSeparate(FRONT, comparisonFunc(t.depth.FrontFace.StencilFunc), int(t.stencil), mask)
	t.f.StencilFuncSeparate(BACK, comparisonFunc(t.depth.BackFace.StencilFunc), int(t.stencil), mask)
}

func (t *translator) Draw(call tracker.DrawCall) error {
	mode, err := primitiveMode(call.Topology)
	if err != nil {
		return err
	}
	f := t.f
	switch call.Kind {
	case tracker.DrawPlain:
		f.DrawArraysInstancedBaseInstance(mode, call.StartVertex, call.VertexCount, 1, 0)
	case tracker.DrawInstanced:
		f.DrawArraysInstancedBaseInstance(mode, call.StartVertex, call.VertexCount, call.InstanceCount, call.StartInstance)
	case tracker.DrawIndexed:
		f.DrawElementsInstancedBaseVertexBaseInstance(mode, call.IndexCount, indexType(call.IndexFormat),
			call.StartIndex*call.IndexFormat.Size(), 1, call.BaseVertex, 0)
	case tracker.DrawIndexedInstanced:
		f.DrawElementsInstancedBaseVertexBaseInstance(mode, call.IndexCount, indexType(call.IndexFormat),
			call.StartIndex*call.IndexFormat.Size(), call.InstanceCount, call.BaseVertex, call.StartInstance)
	case tracker.DrawInstancedIndirect:
		f.BindBuffer(DRAW_INDIRECT_BUFFER, t.buffer(call.Args))
		f.DrawArraysIndirect(mode, call.ArgsOffset)
	case tracker.DrawIndexedInstancedIndirect:
		return fmt.Errorf("%w: DrawIndexedInstancedIndirect on opengl", beholder.ErrNotSupported)
	default:
		return fmt.Errorf("%w: draw kind %d", beholder.ErrInvalidDescription, call.Kind)
	}
	return nil
}

func (t *translator) Dispatch(tracker.DispatchCall) error {
	return fmt.Errorf("%w: gl compute dispatch", beholder.ErrNotSupported)
}

// Clears go through a second framebuffer so the draw framebuffer keeps its
// attachments. The scissor test and write masks apply to GL clears, so
// they are lifted for the clear and restored after.

func (t *translator) ClearRenderTargetView(v *beholder.RenderTargetView, c beholder.Color4) error {
	a := t.nativeAttachment(v.Native())
	if a == nil {
		return fmt.Errorf("%w: render target view", beholder.ErrWrongBackend)
	}
	fb := t.d.clearFBO
	t.attach(fb, COLOR_ATTACHMENT0, a)
	t.f.NamedFramebufferDrawBuffers(fb, []Enum{COLOR_ATTACHMENT0})
	t.f.Disable(SCISSOR_TEST)
	t.colorMask(0, beholder.ColorMaskAll)

	t.f.ClearNamedFramebufferfv(fb, COLOR, 0, []float32{c.R, c.G, c.B, c.A})

	t.colorMask(0, t.blend.Target(0).WriteMask)
	enable(t.f, SCISSOR_TEST, t.raster.ScissorEnable)
	t.attach(fb, COLOR_ATTACHMENT0, nil)
	return nil
}

func (t *translator) ClearDepthStencilView(v *beholder.DepthStencilView, flags beholder.ClearFlags, depth float32, stencil uint8) error {
	a := t.nativeAttachment(v.Native())
	if a == nil {
		return fmt.Errorf("%w: depth-stencil view", beholder.ErrWrongBackend)
	}
	clearDepth := flags&beholder.ClearDepth != 0
	clearStencil := flags&beholder.ClearStencil != 0 && a.stencil
	if !clearDepth && !clearStencil {
		return nil
	}
	fb := t.d.clearFBO
	point := depthAttachment(a)
	t.attach(fb, point, a)
	t.f.Disable(SCISSOR_TEST)
	t.f.DepthMask(true)
	t.f.StencilMaskSeparate(FRONT_AND_BACK, 0xff)

	switch {
	case clearDepth && clearStencil:
		t.f.ClearNamedFramebufferfi(fb, DEPTH_STENCIL, 0, depth, int(stencil))
	case clearDepth:
		t.f.ClearNamedFramebufferfv(fb, DEPTH, 0, []float32{depth})
	default:
		t.f.ClearNamedFramebufferiv(fb, STENCIL, 0, []int32{int32(stencil)})
	}

	t.f.StencilMaskSeparate(FRONT_AND_BACK, uint32(t.depth.StencilWriteMask))
	t.f.DepthMask(t.depth.DepthWriteEnable)
	enable(t.f, SCISSOR_TEST, t.raster.ScissorEnable)
	t.attach(fb, point, nil)
	return nil
}

func (t *translator) ClearUnorderedAccessViewFloat(*beholder.UnorderedAccessView, [4]float32) error {
	return fmt.Errorf("%w: gl unordered access views", beholder.ErrNotSupported)
}

func (t *translator) ClearUnorderedAccessViewUint(*beholder.UnorderedAccessView, [4]uint32) error {
	return fmt.Errorf("%w: gl unordered access views", beholder.ErrNotSupported)
}

func (t *translator) GenerateMips(v *beholder.ShaderResourceView) error {
	native, ok := v.Native().(*srv)
	if !ok {
		return fmt.Errorf("%w: shader resource view", beholder.ErrWrongBackend)
	}
	t.f.GenerateTextureMipmap(native.obj)
	return nil
}

func (t *translator) SetSubresourceData(r beholder.Resource, subresource int, data beholder.SubresourceData) error {
	switch native := r.Native().(type) {
	case *glBuffer:
		if len(data.Bytes) > native.size {
			return fmt.Errorf("%w: %d bytes into a %d byte buffer", beholder.ErrInitialData, len(data.Bytes), native.size)
		}
		t.f.NamedBufferSubData(native.obj, 0, data.Bytes)
		return nil
	case *glTexture:
		w, h, d := textureSize(r)
		return native.upload(subresource, data, w, h, d)
	default:
		return fmt.Errorf("%w: resource %T", beholder.ErrWrongBackend, r.Native())
	}
}

func (t *translator) Map(beholder.Resource, int, beholder.MapType) (beholder.MappedSubresource, error) {
	return beholder.MappedSubresource{}, fmt.Errorf("%w: Map on opengl", beholder.ErrNotSupported)
}

func (t *translator) Unmap(beholder.Resource, int) error {
	return fmt.Errorf("%w: Unmap on opengl", beholder.ErrNotSupported)
}

func (t *translator) Flush() error {
	t.f.Flush()
	return nil
}
