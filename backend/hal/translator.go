package hal

import (
	"fmt"

	"github.com/gogpu/gputypes"
	wgpu "github.com/gogpu/wgpu/hal"

	beholder "github.com/Zulkir/Beholder-sub001"
	"github.com/Zulkir/Beholder-sub001/internal/tracker"
	"github.com/Zulkir/Beholder-sub001/shader"
)

type slotKey struct {
	stage shader.Stage
	slot  int
}

// passState marks render pass state to set before the next draw. A new
// pass starts with all of it unset.
type passState uint8

const (
	passViewport passState = 1 << iota
	passScissor
	passBlendConstant
	passStencilReference
	passVertexBuffers
	passIndexBuffer

	passAll = passViewport | passScissor | passBlendConstant | passStencilReference | passVertexBuffers | passIndexBuffer
)

// translator records tracked state and turns draws into render passes.
// Pipelines and bind groups are looked up per draw from everything bound;
// a render pass stays open until the attachments change, a texture needs
// a transition, or a command outside the pass is recorded.
type translator struct {
	d *Device

	set     beholder.ShaderSet
	prog    *program
	compute *halShader

	uniforms map[slotKey]*beholder.Buffer
	textures map[slotKey]*beholder.ShaderResourceView
	samplers map[slotKey]*beholder.SamplerState

	layout   *inputLayout
	vertices []beholder.VertexSource
	index    beholder.IndexSource

	rasterizer *rasterizerState
	viewports  []beholder.Viewport
	scissors   []beholder.Rectangle
	colors     []*halView
	depthView  *halView
	blend      *blendState
	factor     beholder.Color4
	sampleMask uint32
	depth      *depthState
	stencilRef uint32

	enc         wgpu.CommandEncoder
	pass        wgpu.RenderPassEncoder
	unset       passState
	pipeline    pipelineKey
	hasPipeline bool
	groupKeys   []string
}

var _ tracker.Translator = (*translator)(nil)

func newTranslator(d *Device) *translator {
	return &translator{
		d:          d,
		uniforms:   make(map[slotKey]*beholder.Buffer),
		textures:   make(map[slotKey]*beholder.ShaderResourceView),
		samplers:   make(map[slotKey]*beholder.SamplerState),
		factor:     beholder.Color4{R: 1, G: 1, B: 1, A: 1},
		sampleMask: ^uint32(0),
	}
}

// lookup returns the native object of a wrapper, or the zero value when
// the wrapper belongs to another backend.
func lookup[T identified](t *translator, n beholder.NativeObject, what string) T {
	obj, err := objectOf[T](n)
	if err != nil {
		t.d.log.Warn("hal: foreign object", "kind", what, "err", err)
	}
	return obj
}

func (t *translator) BindProgram(set beholder.ShaderSet) (*shader.Combination, error) {
	if set.IsEmpty() {
		t.set, t.prog = set, nil
		return nil, nil
	}
	p, err := t.d.program(set)
	if err != nil {
		return nil, err
	}
	t.set, t.prog = set, p
	return p.combo, nil
}

func (t *translator) BindComputeProgram(cs beholder.Shader) (*shader.Combination, error) {
	s, err := nativeShader(cs, shader.StageCompute)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: no compute shader", beholder.ErrInvalidDescription)
	}
	p, err := t.d.computeProgram(s)
	if err != nil {
		return nil, err
	}
	t.compute = s
	return p.combo, nil
}

func (t *translator) UnbindUniformBuffers(from, to int) {
	for k := range t.uniforms {
		if k.slot >= from && k.slot < to {
			delete(t.uniforms, k)
		}
	}
}

func (t *translator) UnbindTextures(from, to int) {
	for k := range t.textures {
		if k.slot >= from && k.slot < to {
			delete(t.textures, k)
		}
	}
}

func (t *translator) BindUniformBuffer(stage shader.Stage, nativeSlot int, buf *beholder.Buffer) {
	k := slotKey{stage: stage, slot: nativeSlot}
	if buf == nil {
		delete(t.uniforms, k)
		return
	}
	t.uniforms[k] = buf
}

func (t *translator) BindTexture(stage shader.Stage, nativeSlot int, view *beholder.ShaderResourceView) {
	k := slotKey{stage: stage, slot: nativeSlot}
	if view == nil {
		delete(t.textures, k)
		return
	}
	t.textures[k] = view
}

// BindSampler records state for its slot. Empty slots sample with the
// device's default sampler.
func (t *translator) BindSampler(stage shader.Stage, target shader.SamplerTarget, state *beholder.SamplerState) {
	k := slotKey{stage: stage, slot: target.NativeSlot}
	if state == nil {
		delete(t.samplers, k)
		return
	}
	t.samplers[k] = state
}

// SetPrimitiveTopology only validates; draws carry their topology.
func (t *translator) SetPrimitiveTopology(topology beholder.PrimitiveTopology) error {
	_, err := primitiveTopology(topology)
	return err
}

func (t *translator) SetVertexInput(layout *beholder.VertexLayout, sources []beholder.VertexSource) error {
	t.layout = nil
	if layout != nil {
		l, err := objectOf[*inputLayout](layout.Native())
		if err != nil {
			return err
		}
		t.layout = l
	}
	t.vertices = append(t.vertices[:0], sources...)
	t.unset |= passVertexBuffers
	return nil
}

func (t *translator) SetIndexSource(src beholder.IndexSource) error {
	t.index = src
	t.unset |= passIndexBuffer
	return nil
}

func (t *translator) SetRasterizerState(s *beholder.RasterizerState) {
	t.rasterizer = nil
	if s != nil {
		t.rasterizer = lookup[*rasterizerState](t, s.Native(), "rasterizer state")
	}
	t.unset |= passScissor
}

// SetViewports keeps the first viewport; render passes have one. The
// origin is top-left like the device model's, so the height is unused.
func (t *translator) SetViewports(vps []beholder.Viewport, _ int) {
	t.viewports = append(t.viewports[:0], vps...)
	t.unset |= passViewport
}

func (t *translator) SetScissorRectangles(rects []beholder.Rectangle, _ int) {
	t.scissors = append(t.scissors[:0], rects...)
	t.unset |= passScissor
}

func (t *translator) SetRenderTargets(views []*beholder.RenderTargetView, _ int) {
	t.colors = t.colors[:0]
	for _, v := range views {
		var hv *halView
		if v != nil {
			hv = lookup[*halView](t, v.Native(), "render target view")
		}
		t.colors = append(t.colors, hv)
	}
	t.endPass()
}

func (t *translator) SetDepthStencilView(v *beholder.DepthStencilView) {
	t.depthView = nil
	if v != nil {
		t.depthView = lookup[*halView](t, v.Native(), "depth-stencil view")
	}
	t.endPass()
}

func (t *translator) SetBlendState(s *beholder.BlendState) {
	t.blend = nil
	if s != nil {
		t.blend = lookup[*blendState](t, s.Native(), "blend state")
	}
}

// SetBlendFactor sets the blend constant. The sample mask is part of
// the pipeline.
func (t *translator) SetBlendFactor(factor beholder.Color4, sampleMask uint32) {
	t.factor = factor
	t.sampleMask = sampleMask
	t.unset |= passBlendConstant
}

func (t *translator) SetDepthStencilState(s *beholder.DepthStencilState) {
	t.depth = nil
	if s != nil {
		t.depth = lookup[*depthState](t, s.Native(), "depth-stencil state")
	}
}

func (t *translator) SetStencilReference(ref uint32) {
	t.stencilRef = ref
	t.unset |= passStencilReference
}

// encoder returns the open command encoder, beginning one if needed.
func (t *translator) encoder() (wgpu.CommandEncoder, error) {
	if t.enc != nil {
		return t.enc, nil
	}
	enc, err := t.d.dev.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: t.d.label("commands")})
	if err != nil {
		return nil, fmt.Errorf("hal: create command encoder: %w", err)
	}
	if err := enc.BeginEncoding(t.d.label("commands")); err != nil {
		return nil, fmt.Errorf("hal: begin encoding: %w", err)
	}
	t.enc = enc
	t.d.beginRecording()
	return enc, nil
}

func (t *translator) endPass() {
	if t.pass == nil {
		return
	}
	t.pass.End()
	t.pass = nil
}

// use transitions textures to usage, ending the render pass first when
// any of them needs a barrier.
func (t *translator) use(enc wgpu.CommandEncoder, textures []*halTexture, usage gputypes.TextureUsage) {
	var barriers []wgpu.TextureBarrier
	for _, tex := range textures {
		if tex == nil || tex.usage == usage {
			continue
		}
		barriers = append(barriers, wgpu.TextureBarrier{
			Texture: tex.tex,
			Range:   wgpu.TextureRange{Aspect: gputypes.TextureAspectAll},
			Usage:   wgpu.TextureUsageTransition{OldUsage: tex.usage, NewUsage: usage},
		})
		tex.usage = usage
	}
	if len(barriers) == 0 {
		return
	}
	t.endPass()
	enc.TransitionTextures(barriers)
}

// targets returns the bound color views without trailing empty slots.
func (t *translator) targets() ([]*halView, error) {
	colors := t.colors
	for len(colors) > 0 && colors[len(colors)-1] == nil {
		colors = colors[:len(colors)-1]
	}
	for i, v := range colors {
		if v == nil {
			return nil, fmt.Errorf("%w: render target slot %d is empty below slot %d", beholder.ErrNotSupported, i, len(colors)-1)
		}
	}
	if len(colors) == 0 && t.depthView == nil {
		return nil, fmt.Errorf("%w: draw without render targets", beholder.ErrInvalidDescription)
	}
	return colors, nil
}

func (t *translator) targetSize() (int, int) {
	for _, v := range t.colors {
		if v != nil {
			return v.width, v.height
		}
	}
	if t.depthView != nil {
		return t.depthView.width, t.depthView.height
	}
	return 0, 0
}

func (t *translator) beginRenderPass(enc wgpu.CommandEncoder, colors []*halView) {
	if t.pass != nil {
		return
	}
	attached := make([]*halTexture, 0, len(colors)+1)
	desc := &wgpu.RenderPassDescriptor{Label: t.d.label("draw pass")}
	for _, v := range colors {
		attached = append(attached, v.tex)
		desc.ColorAttachments = append(desc.ColorAttachments, wgpu.RenderPassColorAttachment{
			View:    v.view,
			LoadOp:  gputypes.LoadOpLoad,
			StoreOp: gputypes.StoreOpStore,
		})
	}
	if v := t.depthView; v != nil {
		attached = append(attached, v.tex)
		desc.DepthStencilAttachment = depthAttachment(v, 0, 1, 0)
	}
	t.use(enc, attached, gputypes.TextureUsageRenderAttachment)
	t.pass = enc.BeginRenderPass(desc)
	t.unset = passAll
	t.hasPipeline = false
	t.groupKeys = t.groupKeys[:0]
}

// depthAttachment loads the aspects of v, or clears those in clear.
// Read-only aspects keep undefined operations.
func depthAttachment(v *halView, clear beholder.ClearFlags, depth float32, stencil uint8) *wgpu.RenderPassDepthStencilAttachment {
	a := &wgpu.RenderPassDepthStencilAttachment{
		View:              v.view,
		DepthClearValue:   depth,
		DepthReadOnly:     v.readOnlyDepth,
		StencilClearValue: uint32(stencil),
		StencilReadOnly:   v.readOnlyStencil,
	}
	if !v.readOnlyDepth {
		a.DepthLoadOp, a.DepthStoreOp = gputypes.LoadOpLoad, gputypes.StoreOpStore
		if clear&beholder.ClearDepth != 0 {
			a.DepthLoadOp = gputypes.LoadOpClear
		}
	}
	if v.format.HasStencil() && !v.readOnlyStencil {
		a.StencilLoadOp, a.StencilStoreOp = gputypes.LoadOpLoad, gputypes.StoreOpStore
		if clear&beholder.ClearStencil != 0 {
			a.StencilLoadOp = gputypes.LoadOpClear
		}
	}
	return a
}

// graphicsProgram returns the bound graphics program, relinking it when it was
// dropped since it was bound.
func (t *translator) graphicsProgram() (*program, error) {
	if t.prog == nil {
		return nil, fmt.Errorf("%w: draw without a vertex shader", beholder.ErrInvalidDescription)
	}
	if t.d.isDropped(t.prog) {
		p, err := t.d.program(t.set)
		if err != nil {
			return nil, err
		}
		t.prog = p
	}
	return t.prog, nil
}

// bindGroups resolves and creates the bind groups of p.
func (t *translator) bindGroups(p *program) ([]string, []wgpu.BindGroup, []*halTexture, error) {
	keys := make([]string, len(p.groups))
	groups := make([]wgpu.BindGroup, len(p.groups))
	var sampled []*halTexture
	for i, gl := range p.groups {
		var bindings []binding
		var err error
		bindings, sampled, err = t.resolve(gl, sampled)
		if err != nil {
			return nil, nil, nil, err
		}
		if keys[i], groups[i], err = t.d.groups.get(gl, bindings); err != nil {
			return nil, nil, nil, err
		}
	}
	return keys, groups, sampled, nil
}

func (t *translator) Draw(call tracker.DrawCall) error {
	p, err := t.graphicsProgram()
	if err != nil {
		return err
	}
	colors, err := t.targets()
	if err != nil {
		return err
	}
	if call.Kind.IsIndexed() && t.index.Buffer == nil {
		return fmt.Errorf("%w: indexed draw without an index buffer", beholder.ErrInvalidDescription)
	}
	key, pipeline, err := t.renderPipeline(p, colors, call)
	if err != nil {
		return err
	}
	keys, groups, sampled, err := t.bindGroups(p)
	if err != nil {
		return err
	}
	enc, err := t.encoder()
	if err != nil {
		return err
	}
	t.use(enc, sampled, gputypes.TextureUsageTextureBinding)
	t.beginRenderPass(enc, colors)
	pass := t.pass

	if !t.hasPipeline || t.pipeline != key {
		pass.SetPipeline(pipeline)
		t.pipeline, t.hasPipeline = key, true
	}
	for i, g := range groups {
		if i < len(t.groupKeys) && t.groupKeys[i] == keys[i] {
			continue
		}
		pass.SetBindGroup(uint32(i), g, nil)
	}
	t.groupKeys = append(t.groupKeys[:0], keys...)
	if err := t.applyPassState(pass, call.Kind.IsIndexed()); err != nil {
		return err
	}

	switch call.Kind {
	case tracker.DrawPlain:
		pass.Draw(uint32(call.VertexCount), 1, uint32(call.StartVertex), 0)
	case tracker.DrawIndexed:
		pass.DrawIndexed(uint32(call.IndexCount), 1, uint32(call.StartIndex), int32(call.BaseVertex), 0)
	case tracker.DrawInstanced:
		pass.Draw(uint32(call.VertexCount), uint32(call.InstanceCount), uint32(call.StartVertex), uint32(call.StartInstance))
	case tracker.DrawIndexedInstanced:
		pass.DrawIndexed(uint32(call.IndexCount), uint32(call.InstanceCount), uint32(call.StartIndex),
			int32(call.BaseVertex), uint32(call.StartInstance))
	case tracker.DrawInstancedIndirect, tracker.DrawIndexedInstancedIndirect:
		args, err := objectOf[*halBuffer](call.Args.Native())
		if err != nil {
			return err
		}
		if call.Kind == tracker.DrawInstancedIndirect {
			pass.DrawIndirect(args.buf, uint64(call.ArgsOffset))
		} else {
			pass.DrawIndexedIndirect(args.buf, uint64(call.ArgsOffset))
		}
	default:
		return fmt.Errorf("%w: draw kind %d", beholder.ErrInvalidDescription, call.Kind)
	}
	return nil
}

// applyPassState sets the pass state changed since it was last set.
// The index buffer waits for an indexed draw.
func (t *translator) applyPassState(pass wgpu.RenderPassEncoder, indexed bool) error {
	if t.unset&passVertexBuffers != 0 && t.layout != nil {
		for i, l := range t.layout.buffers {
			if l.StepMode == gputypes.VertexStepModeVertexBufferNotUsed {
				continue
			}
			if i >= len(t.vertices) || t.vertices[i].Buffer == nil {
				return fmt.Errorf("%w: vertex buffer slot %d is unbound", beholder.ErrInvalidDescription, i)
			}
			src := t.vertices[i]
			buf, err := objectOf[*halBuffer](src.Buffer.Native())
			if err != nil {
				return err
			}
			pass.SetVertexBuffer(uint32(i), buf.buf, uint64(src.Offset))
		}
		t.unset &^= passVertexBuffers
	}
	if t.unset&passIndexBuffer != 0 && indexed {
		buf, err := objectOf[*halBuffer](t.index.Buffer.Native())
		if err != nil {
			return err
		}
		pass.SetIndexBuffer(buf.buf, indexFormat(t.index.Format), uint64(t.index.Offset))
		t.unset &^= passIndexBuffer
	}

	w, h := t.targetSize()
	if t.unset&passViewport != 0 {
		vp := beholder.Viewport{Width: float32(w), Height: float32(h), MaxDepth: 1}
		if len(t.viewports) > 0 {
			vp = t.viewports[0]
		}
		pass.SetViewport(vp.Left, vp.Top, vp.Width, vp.Height, vp.MinDepth, vp.MaxDepth)
	}
	if t.unset&passScissor != 0 {
		r := beholder.Rectangle{Right: w, Bottom: h}
		if rs := t.rasterizerOrDefault(); rs.scissor && len(t.scissors) > 0 {
			s := t.scissors[0]
			r = beholder.Rectangle{
				Left:   min(max(s.Left, 0), w),
				Top:    min(max(s.Top, 0), h),
				Right:  min(max(s.Right, 0), w),
				Bottom: min(max(s.Bottom, 0), h),
			}
		}
		pass.SetScissorRect(uint32(r.Left), uint32(r.Top), uint32(max(r.Width(), 0)), uint32(max(r.Height(), 0)))
	}
	if t.unset&passBlendConstant != 0 {
		f := t.factor
		pass.SetBlendConstant(&gputypes.Color{R: float64(f.R), G: float64(f.G), B: float64(f.B), A: float64(f.A)})
	}
	if t.unset&passStencilReference != 0 {
		pass.SetStencilReference(t.stencilRef)
	}
	t.unset &= passVertexBuffers | passIndexBuffer
	return nil
}

func (t *translator) rasterizerOrDefault() *rasterizerState {
	if t.rasterizer != nil {
		return t.rasterizer
	}
	return t.d.defaults.rasterizer
}

func (t *translator) renderPipeline(p *program, colors []*halView, call tracker.DrawCall) (pipelineKey, wgpu.RenderPipeline, error) {
	topology, err := primitiveTopology(call.Topology)
	if err != nil {
		return pipelineKey{}, nil, err
	}
	rs := t.rasterizerOrDefault()
	bs := t.blend
	if bs == nil {
		bs = t.d.defaults.blend
	}
	ds := t.depth
	if ds == nil {
		ds = t.d.defaults.depth
	}
	key := pipelineKey{
		program:    p.id,
		topology:   topology,
		rasterizer: rs.id,
		blend:      bs.id,
		depth:      ds.id,
		colorCount: len(colors),
		samples:    1,
		sampleMask: t.sampleMask,
	}
	if isStrip(topology) && call.Kind.IsIndexed() {
		key.stripIndex = indexFormat(call.IndexFormat)
	}
	if t.layout != nil {
		key.layout = t.layout.id
		for i := range t.layout.buffers {
			if i < len(t.vertices) {
				key.strides[i] = uint64(t.vertices[i].Stride)
			}
		}
	}
	for i, v := range colors {
		key.colors[i] = v.format
		key.samples = uint32(max(v.tex.samples, 1))
	}
	if t.depthView != nil {
		key.depthFormat = t.depthView.format
		if len(colors) == 0 {
			key.samples = uint32(max(t.depthView.tex.samples, 1))
		}
	}
	pipeline, err := t.d.pipelines.getOrCreate(&key, func() (wgpu.RenderPipeline, error) {
		return t.d.createRenderPipeline(p, &key, t.layout, rs, bs, ds)
	})
	return key, pipeline, err
}

func (t *translator) Dispatch(call tracker.DispatchCall) error {
	if t.compute == nil {
		return fmt.Errorf("%w: dispatch without a compute shader", beholder.ErrInvalidDescription)
	}
	p, err := t.d.computeProgram(t.compute)
	if err != nil {
		return err
	}
	pipeline, err := p.computePipeline()
	if err != nil {
		return err
	}
	_, groups, sampled, err := t.bindGroups(p)
	if err != nil {
		return err
	}
	var args *halBuffer
	if call.Args != nil {
		if args, err = objectOf[*halBuffer](call.Args.Native()); err != nil {
			return err
		}
	}
	enc, err := t.encoder()
	if err != nil {
		return err
	}
	t.endPass()
	t.use(enc, sampled, gputypes.TextureUsageTextureBinding)
	cp := enc.BeginComputePass(&wgpu.ComputePassDescriptor{Label: t.d.label("dispatch")})
	cp.SetPipeline(pipeline)
	for i, g := range groups {
		cp.SetBindGroup(uint32(i), g, nil)
	}
	if args != nil {
		cp.DispatchIndirect(args.buf, uint64(call.ArgsOffset))
	} else {
		cp.Dispatch(uint32(call.X), uint32(call.Y), uint32(call.Z))
	}
	cp.End()
	return nil
}

// ClearRenderTargetView records a pass that only clears v.
func (t *translator) ClearRenderTargetView(v *beholder.RenderTargetView, c beholder.Color4) error {
	hv, err := objectOf[*halView](v.Native())
	if err != nil {
		return err
	}
	enc, err := t.encoder()
	if err != nil {
		return err
	}
	t.endPass()
	t.use(enc, []*halTexture{hv.tex}, gputypes.TextureUsageRenderAttachment)
	enc.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: t.d.label("clear"),
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       hv.view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B), A: float64(c.A)},
		}},
	}).End()
	return nil
}

// ClearDepthStencilView records a pass that clears the aspects in flags.
// Stencil values are ignored for formats without stencil.
func (t *translator) ClearDepthStencilView(v *beholder.DepthStencilView, flags beholder.ClearFlags, depth float32, stencil uint8) error {
	hv, err := objectOf[*halView](v.Native())
	if err != nil {
		return err
	}
	enc, err := t.encoder()
	if err != nil {
		return err
	}
	t.endPass()
	t.use(enc, []*halTexture{hv.tex}, gputypes.TextureUsageRenderAttachment)
	enc.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label:                  t.d.label("clear depth"),
		DepthStencilAttachment: depthAttachment(hv, flags, depth, stencil),
	}).End()
	return nil
}

func (t *translator) ClearUnorderedAccessViewFloat(*beholder.UnorderedAccessView, [4]float32) error {
	return fmt.Errorf("%w: hal unordered access views", beholder.ErrNotSupported)
}

func (t *translator) ClearUnorderedAccessViewUint(*beholder.UnorderedAccessView, [4]uint32) error {
	return fmt.Errorf("%w: hal unordered access views", beholder.ErrNotSupported)
}

func (t *translator) GenerateMips(*beholder.ShaderResourceView) error {
	return fmt.Errorf("%w: hal mip generation", beholder.ErrNotSupported)
}

// SetSubresourceData writes through the queue. Queue writes land before
// the next submission, so recorded commands are submitted first.
func (t *translator) SetSubresourceData(r beholder.Resource, subresource int, data beholder.SubresourceData) error {
	if t.enc != nil {
		if err := t.Flush(); err != nil {
			return err
		}
	}
	switch n := r.Native().(type) {
	case *halBuffer:
		return t.d.writeBuffer(n, data.Bytes)
	case *halTexture:
		return t.d.writeTexture(n, subresource, data)
	}
	return fmt.Errorf("%w: resource %T", beholder.ErrWrongBackend, r.Native())
}

func (t *translator) Map(beholder.Resource, int, beholder.MapType) (beholder.MappedSubresource, error) {
	return beholder.MappedSubresource{}, fmt.Errorf("%w: hal map", beholder.ErrNotSupported)
}

func (t *translator) Unmap(beholder.Resource, int) error {
	return fmt.Errorf("%w: hal map", beholder.ErrNotSupported)
}

// Flush ends the open pass and submits everything recorded.
func (t *translator) Flush() error {
	t.endPass()
	if t.enc == nil {
		t.d.collect()
		return nil
	}
	enc := t.enc
	t.enc = nil
	cb, err := enc.EndEncoding()
	if err != nil {
		t.d.endRecording(nil)
		return fmt.Errorf("hal: end encoding: %w", err)
	}
	return t.d.endRecording(cb)
}

// discard drops everything recorded since the last submission.
func (t *translator) discard() {
	t.pass = nil
	if t.enc != nil {
		t.enc.DiscardEncoding()
		t.enc = nil
		t.d.endRecording(nil)
	}
}
