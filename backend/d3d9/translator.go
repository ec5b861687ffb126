package d3d9

import (
	"encoding/binary"
	"fmt"
	"math"

	beholder "github.com/Zulkir/Beholder-sub001"
	"github.com/Zulkir/Beholder-sub001/internal/tracker"
	"github.com/Zulkir/Beholder-sub001/shader"
)

// uniformBinding is a uniform buffer uploaded to constant registers and
// the buffer version the registers hold.
type uniformBinding struct {
	register int
	width    int
	buf      *d3dBuffer
	version  uint64
}

// stream is a bound vertex buffer.
type stream struct {
	buf       *d3dBuffer
	offset    int
	stride    int
	instanced bool
}

// translator applies tracked state as D3D9 device and render states.
// Constant registers have no buffer objects, so it remembers which
// uniform buffer each register run was filled from and uploads again
// when the buffer changes. Stencil faces follow the rasterizer winding,
// so both descriptions are kept.
type translator struct {
	d   *Device
	dev NativeDevice

	shaders  [2]*d3dShader
	uniforms [2][]uniformBinding

	streams    []stream
	indexStart int

	raster   beholder.RasterizerDescription
	depth    beholder.DepthStencilDescription
	viewport VIEWPORT9
	dsv      Object
}

var _ tracker.Translator = (*translator)(nil)

func newTranslator(d *Device) *translator {
	return &translator{
		d:      d,
		dev:    d.dev,
		raster: beholder.DefaultRasterizer(),
		depth:  beholder.DefaultDepthStencil(),
	}
}

// stageIndex is the register file of a stage: 0 vertex, 1 pixel.
func stageIndex(s shader.Stage) int {
	if s == shader.StagePixel {
		return 1
	}
	return 0
}

// samplerUnit returns the sampler index of a native texture slot.
func samplerUnit(s shader.Stage, slot int) uint32 {
	if s == shader.StageVertex {
		return VERTEXTEXTURESAMPLER0 + uint32(slot)
	}
	return uint32(slot)
}

func b2u(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func (t *translator) warnForeign(what string, n beholder.NativeObject) {
	t.d.log.Warn("d3d9: foreign object", "kind", what, "native", fmt.Sprintf("%T", n))
}

func (t *translator) BindProgram(set beholder.ShaderSet) (*shader.Combination, error) {
	for _, stage := range shader.GraphicsStages {
		if stage != shader.StageVertex && stage != shader.StagePixel && set.Shader(stage) != nil {
			return nil, fmt.Errorf("%w: d3d9 %s shaders", beholder.ErrNotSupported, stage)
		}
	}
	vs, err := nativeShader(set.Shader(shader.StageVertex), shader.StageVertex)
	if err != nil {
		return nil, err
	}
	ps, err := nativeShader(set.Shader(shader.StagePixel), shader.StagePixel)
	if err != nil {
		return nil, err
	}
	var combo *shader.Combination
	if !set.IsEmpty() {
		if combo, err = t.d.combination(set); err != nil {
			return nil, err
		}
	}
	t.shaders = [2]*d3dShader{vs, ps}
	t.uniforms = [2][]uniformBinding{}
	var vobj, pobj Object
	if vs != nil {
		vobj = vs.obj
	}
	if ps != nil {
		pobj = ps.obj
	}
	t.dev.SetVertexShader(vobj)
	t.dev.SetPixelShader(pobj)
	return combo, nil
}

func (t *translator) BindComputeProgram(beholder.Shader) (*shader.Combination, error) {
	return nil, fmt.Errorf("%w: d3d9 compute shaders", beholder.ErrNotSupported)
}

// UnbindUniformBuffers leaves constant registers as they are; no
// program of the combination reads them.
func (t *translator) UnbindUniformBuffers(from, to int) {}

func (t *translator) UnbindTextures(from, to int) {
	for slot := from; slot < min(to, MAX_PIXEL_SAMPLERS); slot++ {
		t.dev.SetTexture(samplerUnit(shader.StagePixel, slot), nil)
	}
	for slot := from; slot < min(to, MAX_VERTEX_SAMPLERS); slot++ {
		t.dev.SetTexture(samplerUnit(shader.StageVertex, slot), nil)
	}
}

func (t *translator) BindUniformBuffer(stage shader.Stage, nativeSlot int, buf *beholder.Buffer) {
	i := stageIndex(stage)
	list := t.uniforms[i][:0]
	for _, u := range t.uniforms[i] {
		if u.register != nativeSlot {
			list = append(list, u)
		}
	}
	t.uniforms[i] = list
	if buf == nil {
		return
	}
	b, ok := buf.Native().(*d3dBuffer)
	if !ok || b.kind != uniformBuffer {
		t.warnForeign("uniform buffer", buf.Native())
		return
	}
	width := 1
	if s := t.shaders[i]; s != nil {
		if w, ok := s.uniformBuffers[nativeSlot]; ok {
			width = w
		}
	}
	u := uniformBinding{register: nativeSlot, width: width, buf: b}
	t.upload(stage, &u)
	t.uniforms[i] = append(t.uniforms[i], u)
}

// upload writes the buffer to its registers. A buffer smaller than the
// declared run fills the registers it covers.
func (t *translator) upload(stage shader.Stage, u *uniformBinding) {
	n := min(u.width*registerBytes, len(u.buf.shadow)) / 4
	data := make([]float32, n)
	for i := range data {
		data[i] = math.Float32frombits(binary.LittleEndian.Uint32(u.buf.shadow[i*4:]))
	}
	if stage == shader.StagePixel {
		t.dev.SetPixelShaderConstantF(uint32(u.register), data)
	} else {
		t.dev.SetVertexShaderConstantF(uint32(u.register), data)
	}
	u.version = u.buf.version
}

// refreshUniforms uploads bound buffers written since their upload.
func (t *translator) refreshUniforms() {
	for i, stage := range [...]shader.Stage{shader.StageVertex, shader.StagePixel} {
		for j := range t.uniforms[i] {
			if u := &t.uniforms[i][j]; u.version != u.buf.version {
				t.upload(stage, u)
			}
		}
	}
}

func (t *translator) BindTexture(stage shader.Stage, nativeSlot int, view *beholder.ShaderResourceView) {
	unit := samplerUnit(stage, nativeSlot)
	if view == nil {
		t.dev.SetTexture(unit, nil)
		return
	}
	v, ok := view.Native().(*textureView)
	if !ok {
		t.warnForeign("shader resource view", view.Native())
		t.dev.SetTexture(unit, nil)
		return
	}
	t.dev.SetTexture(unit, v.tex)
	t.dev.SetSamplerState(unit, SAMP_MAXMIPLEVEL, uint32(v.mostDetailedMip))
	t.dev.SetSamplerState(unit, SAMP_SRGBTEXTURE, b2u(v.srgb))
}

// BindSampler writes the sampler states of the unit its texture is on.
// A nil state applies the default sampler.
func (t *translator) BindSampler(stage shader.Stage, target shader.SamplerTarget, state *beholder.SamplerState) {
	desc := beholder.DefaultSampler()
	if state != nil {
		if _, ok := state.Native().(d3dState); ok {
			desc = state.Description()
		} else {
			t.warnForeign("sampler state", state.Native())
		}
	}
	unit := samplerUnit(stage, target.NativeSlot)
	set := func(s, v uint32) { t.dev.SetSamplerState(unit, s, v) }
	set(SAMP_ADDRESSU, addressMode(desc.AddressU))
	set(SAMP_ADDRESSV, addressMode(desc.AddressV))
	set(SAMP_ADDRESSW, addressMode(desc.AddressW))
	set(SAMP_BORDERCOLOR, color(desc.BorderColor))
	minFilter, magFilter := textureFilter(desc.Filter.Min), textureFilter(desc.Filter.Mag)
	if desc.Filter.Anisotropic {
		minFilter, magFilter = TEXF_ANISOTROPIC, TEXF_ANISOTROPIC
	}
	set(SAMP_MINFILTER, minFilter)
	set(SAMP_MAGFILTER, magFilter)
	mip := uint32(TEXF_NONE)
	if target.Mips {
		mip = textureFilter(desc.Filter.Mip)
	}
	set(SAMP_MIPFILTER, mip)
	set(SAMP_MIPMAPLODBIAS, floatBits(desc.MipLodBias))
	set(SAMP_MAXANISOTROPY, uint32(max(desc.MaxAnisotropy, 1)))
}

func (t *translator) SetPrimitiveTopology(topology beholder.PrimitiveTopology) error {
	_, _, err := primitive(topology, 0)
	return err
}

func (t *translator) buffer(buf *beholder.Buffer, what string) *d3dBuffer {
	if buf == nil {
		return nil
	}
	b, ok := buf.Native().(*d3dBuffer)
	if !ok {
		t.warnForeign(what, buf.Native())
		return nil
	}
	return b
}

func (t *translator) SetVertexInput(layout *beholder.VertexLayout, sources []beholder.VertexSource) error {
	var decl Object
	instanced := make(map[int]bool)
	if layout != nil {
		if o, ok := layout.Native().(*d3dObject); ok {
			decl = o.obj
		} else {
			t.warnForeign("vertex layout", layout.Native())
		}
		for _, a := range layout.Attributes() {
			if a.Element.PerInstance {
				instanced[a.Element.InputSlot] = true
			}
		}
	}
	t.dev.SetVertexDeclaration(decl)
	prev := len(t.streams)
	t.streams = t.streams[:0]
	for i, src := range sources {
		b := t.buffer(src.Buffer, "vertex buffer")
		var obj Object
		if b != nil {
			obj = b.obj
		}
		t.dev.SetStreamSource(uint32(i), obj, uint32(src.Offset), uint32(src.Stride))
		t.streams = append(t.streams, stream{buf: b, offset: src.Offset, stride: src.Stride, instanced: instanced[i]})
	}
	for i := len(sources); i < prev; i++ {
		t.dev.SetStreamSource(uint32(i), nil, 0, 0)
	}
	return nil
}

// SetIndexSource binds the index buffer. The element size is fixed when
// the buffer is created, and the offset is applied to the start index of
// each draw.
func (t *translator) SetIndexSource(src beholder.IndexSource) error {
	if src.Buffer == nil {
		t.dev.SetIndices(nil)
		t.indexStart = 0
		return nil
	}
	b := t.buffer(src.Buffer, "index buffer")
	if b == nil {
		t.dev.SetIndices(nil)
		return nil
	}
	want := uint32(FMT_INDEX16)
	if src.Format == beholder.IndexUint32 {
		want = FMT_INDEX32
	}
	if b.format != want {
		return fmt.Errorf("%w: d3d9 index buffer created for the other index size", beholder.ErrNotSupported)
	}
	if src.Offset%src.Format.Size() != 0 {
		return fmt.Errorf("%w: index offset %d is not a multiple of the index size", beholder.ErrNotSupported, src.Offset)
	}
	t.dev.SetIndices(b.obj)
	t.indexStart = src.Offset / src.Format.Size()
	return nil
}

func (t *translator) SetRasterizerState(s *beholder.RasterizerState) {
	desc := beholder.DefaultRasterizer()
	if s != nil {
		desc = s.Description()
	}
	winding := desc.FrontFaceWinding != t.raster.FrontFaceWinding
	t.raster = desc
	fill := uint32(FILL_SOLID)
	if desc.FillMode == beholder.FillWireframe {
		fill = FILL_WIREFRAME
	}
	rs := t.dev.SetRenderState
	rs(RS_FILLMODE, fill)
	rs(RS_CULLMODE, cullMode(desc))
	rs(RS_DEPTHBIAS, floatBits(float32(desc.DepthBias)/(1<<24)))
	rs(RS_SLOPESCALEDEPTHBIAS, floatBits(desc.SlopeScaledDepthBias))
	rs(RS_SCISSORTESTENABLE, b2u(desc.ScissorEnable))
	rs(RS_MULTISAMPLEANTIALIAS, b2u(desc.MultisampleEnable))
	rs(RS_ANTIALIASEDLINEENABLE, b2u(desc.AntialiasedLineEnable))
	if winding && t.depth.StencilEnable {
		t.applyStencilFaces()
	}
}

// SetViewports applies the first viewport. D3D9 shares the top-left
// origin.
func (t *translator) SetViewports(vps []beholder.Viewport, _ int) {
	if len(vps) == 0 {
		return
	}
	vp := vps[0]
	t.viewport = VIEWPORT9{
		X:      uint32(vp.Left),
		Y:      uint32(vp.Top),
		Width:  uint32(vp.Width),
		Height: uint32(vp.Height),
		MinZ:   vp.MinDepth,
		MaxZ:   vp.MaxDepth,
	}
	t.dev.SetViewport(t.viewport)
}

func (t *translator) SetScissorRectangles(rects []beholder.Rectangle, _ int) {
	if len(rects) == 0 {
		return
	}
	r := rects[0]
	t.dev.SetScissorRect(RECT{Left: int32(r.Left), Top: int32(r.Top), Right: int32(r.Right), Bottom: int32(r.Bottom)})
}

func (t *translator) surface(n beholder.NativeObject, what string) *surfaceView {
	v, ok := n.(*surfaceView)
	if !ok {
		t.warnForeign(what, n)
		return nil
	}
	return v
}

// SetRenderTargets binds color surfaces. Slot 0 cannot be empty in D3D9,
// so a missing first target keeps the previous one.
func (t *translator) SetRenderTargets(views []*beholder.RenderTargetView, previousCount int) {
	for i := range max(len(views), previousCount) {
		var s *surfaceView
		if i < len(views) && views[i] != nil {
			s = t.surface(views[i].Native(), "render target view")
		}
		if i == 0 {
			if s == nil {
				t.d.log.Warn("d3d9: render target 0 cannot be unbound")
				continue
			}
			t.dev.SetRenderState(RS_SRGBWRITEENABLE, b2u(s.srgb))
		}
		var obj Object
		if s != nil {
			obj = s.obj
		}
		t.dev.SetRenderTarget(uint32(i), obj)
	}
}

func (t *translator) SetDepthStencilView(v *beholder.DepthStencilView) {
	t.dsv = nil
	if v != nil {
		if s := t.surface(v.Native(), "depth-stencil view"); s != nil {
			t.dsv = s.obj
		}
	}
	t.dev.SetDepthStencilSurface(t.dsv)
}

// SetBlendState applies the first target's blending and every target's
// write mask.
func (t *translator) SetBlendState(s *beholder.BlendState) {
	desc := beholder.DefaultBlend()
	if s != nil {
		desc = s.Description()
	}
	rt := desc.Target(0)
	factor := func(b beholder.Blend) uint32 {
		v, err := blendFactor(b)
		if err != nil {
			t.d.log.Warn("d3d9: blend factor", "err", err)
			return BLEND_ONE
		}
		return v
	}
	rs := t.dev.SetRenderState
	rs(RS_ALPHABLENDENABLE, b2u(rt.BlendEnable))
	rs(RS_SEPARATEALPHABLENDENABLE, b2u(rt.BlendEnable))
	rs(RS_SRCBLEND, factor(rt.SrcBlend))
	rs(RS_DESTBLEND, factor(rt.DestBlend))
	rs(RS_BLENDOP, blendOp(rt.BlendOp))
	rs(RS_SRCBLENDALPHA, factor(rt.SrcBlendAlpha))
	rs(RS_DESTBLENDALPHA, factor(rt.DestBlendAlpha))
	rs(RS_BLENDOPALPHA, blendOp(rt.BlendOpAlpha))
	for i, state := range [...]uint32{RS_COLORWRITEENABLE, RS_COLORWRITEENABLE1, RS_COLORWRITEENABLE2, RS_COLORWRITEENABLE3} {
		rs(state, uint32(desc.Target(i).WriteMask))
	}
}

func (t *translator) SetBlendFactor(factor beholder.Color4, sampleMask uint32) {
	t.dev.SetRenderState(RS_BLENDFACTOR, color(factor))
	t.dev.SetRenderState(RS_MULTISAMPLEMASK, sampleMask)
}

func (t *translator) SetDepthStencilState(s *beholder.DepthStencilState) {
	desc := beholder.DefaultDepthStencil()
	if s != nil {
		desc = s.Description()
	}
	t.depth = desc
	rs := t.dev.SetRenderState
	rs(RS_ZENABLE, b2u(desc.DepthEnable))
	rs(RS_ZWRITEENABLE, b2u(desc.DepthWriteEnable))
	rs(RS_ZFUNC, comparison(desc.DepthFunc))
	rs(RS_STENCILENABLE, b2u(desc.StencilEnable))
	rs(RS_STENCILMASK, uint32(desc.StencilReadMask))
	rs(RS_STENCILWRITEMASK, uint32(desc.StencilWriteMask))
	t.applyStencilFaces()
}

// applyStencilFaces writes two-sided stencil. D3D9 splits faces by
// winding, the CCW_ states covering counter-clockwise triangles.
func (t *translator) applyStencilFaces() {
	cw, ccw := t.depth.FrontFace, t.depth.BackFace
	if t.raster.FrontFaceWinding == beholder.WindingCounterClockwise {
		cw, ccw = ccw, cw
	}
	rs := t.dev.SetRenderState
	rs(RS_TWOSIDEDSTENCILMODE, 1)
	rs(RS_STENCILFAIL, stencilOp(cw.StencilFailOp))
	rs(RS_STENCILZFAIL, stencilOp(cw.StencilDepthFailOp))
	rs(RS_STENCILPASS, stencilOp(cw.StencilPassOp))
	rs(RS_STENCILFUNC, comparison(cw.StencilFunc))
	rs(RS_CCW_STENCILFAIL, stencilOp(ccw.StencilFailOp))
	rs(RS_CCW_STENCILZFAIL, stencilOp(ccw.StencilDepthFailOp))
	rs(RS_CCW_STENCILPASS, stencilOp(ccw.StencilPassOp))
	rs(RS_CCW_STENCILFUNC, comparison(ccw.StencilFunc))
}

// SetStencilReference writes the one reference both faces share.
func (t *translator) SetStencilReference(ref uint32) {
	t.dev.SetRenderState(RS_STENCILREF, ref)
}

// vertexCount is the number of vertices stream 0 holds from its offset.
func (t *translator) vertexCount() uint32 {
	if len(t.streams) == 0 {
		return 0
	}
	s := t.streams[0]
	if s.buf == nil || s.stride == 0 {
		return 0
	}
	return uint32(max(s.buf.size-s.offset, 0) / s.stride)
}

func (t *translator) Draw(call tracker.DrawCall) error {
	switch call.Kind {
	case tracker.DrawPlain, tracker.DrawIndexed, tracker.DrawIndexedInstanced:
	default:
		return fmt.Errorf("%w: d3d9 draw kind %d", beholder.ErrNotSupported, call.Kind)
	}
	count := call.VertexCount
	if call.Kind.IsIndexed() {
		count = call.IndexCount
	}
	pt, prims, err := primitive(call.Topology, count)
	if err != nil {
		return err
	}
	if call.Kind == tracker.DrawIndexedInstanced && call.StartInstance != 0 {
		return fmt.Errorf("%w: d3d9 start instance %d", beholder.ErrNotSupported, call.StartInstance)
	}
	t.refreshUniforms()

	if call.Kind == tracker.DrawPlain {
		t.dev.DrawPrimitive(pt, uint32(call.StartVertex), prims)
		return nil
	}
	instanced := call.Kind == tracker.DrawIndexedInstanced
	if instanced {
		for i, s := range t.streams {
			if s.instanced {
				t.dev.SetStreamSourceFreq(uint32(i), STREAMSOURCE_INSTANCEDATA|1)
			} else {
				t.dev.SetStreamSourceFreq(uint32(i), STREAMSOURCE_INDEXEDDATA|uint32(call.InstanceCount))
			}
		}
	}
	t.dev.DrawIndexedPrimitive(pt, int32(call.BaseVertex), 0, t.vertexCount(),
		uint32(call.StartIndex+t.indexStart), prims)
	if instanced {
		for i := range t.streams {
			t.dev.SetStreamSourceFreq(uint32(i), 1)
		}
	}
	return nil
}

func (t *translator) Dispatch(tracker.DispatchCall) error {
	return fmt.Errorf("%w: d3d9 compute", beholder.ErrNotSupported)
}

func (t *translator) ClearRenderTargetView(v *beholder.RenderTargetView, c beholder.Color4) error {
	s, ok := v.Native().(*surfaceView)
	if !ok {
		return fmt.Errorf("%w: render target view %T", beholder.ErrWrongBackend, v.Native())
	}
	t.dev.ColorFill(s.obj, color(c))
	return nil
}

// ClearDepthStencilView clears through the device, which clears the
// bound depth-stencil surface inside the viewport and scissor. The
// surface is bound over the full view for the clear, then restored.
func (t *translator) ClearDepthStencilView(v *beholder.DepthStencilView, flags beholder.ClearFlags, depth float32, stencil uint8) error {
	s, ok := v.Native().(*surfaceView)
	if !ok {
		return fmt.Errorf("%w: depth-stencil view %T", beholder.ErrWrongBackend, v.Native())
	}
	var native uint32
	if flags&beholder.ClearDepth != 0 {
		native |= CLEAR_ZBUFFER
	}
	if flags&beholder.ClearStencil != 0 {
		native |= CLEAR_STENCIL
	}
	t.dev.SetDepthStencilSurface(s.obj)
	t.dev.SetRenderState(RS_SCISSORTESTENABLE, 0)
	t.dev.SetViewport(VIEWPORT9{Width: uint32(v.Width()), Height: uint32(v.Height()), MaxZ: 1})
	t.dev.Clear(native, 0, depth, uint32(stencil))
	t.dev.SetViewport(t.viewport)
	t.dev.SetRenderState(RS_SCISSORTESTENABLE, b2u(t.raster.ScissorEnable))
	t.dev.SetDepthStencilSurface(t.dsv)
	return nil
}

func (t *translator) ClearUnorderedAccessViewFloat(*beholder.UnorderedAccessView, [4]float32) error {
	return fmt.Errorf("%w: d3d9 unordered access views", beholder.ErrNotSupported)
}

func (t *translator) ClearUnorderedAccessViewUint(*beholder.UnorderedAccessView, [4]uint32) error {
	return fmt.Errorf("%w: d3d9 unordered access views", beholder.ErrNotSupported)
}

func (t *translator) GenerateMips(v *beholder.ShaderResourceView) error {
	tv, ok := v.Native().(*textureView)
	if !ok {
		return fmt.Errorf("%w: shader resource view %T", beholder.ErrWrongBackend, v.Native())
	}
	t.dev.GenerateMipSubLevels(tv.tex)
	return nil
}

func (t *translator) SetSubresourceData(r beholder.Resource, subresource int, data beholder.SubresourceData) error {
	switch res := r.Native().(type) {
	case *d3dBuffer:
		return res.write(t.dev, data.Bytes)
	case *d3dTexture:
		return res.write(subresource, data)
	}
	return fmt.Errorf("%w: resource %T", beholder.ErrWrongBackend, r.Native())
}

func (t *translator) Map(beholder.Resource, int, beholder.MapType) (beholder.MappedSubresource, error) {
	return beholder.MappedSubresource{}, fmt.Errorf("%w: d3d9 map", beholder.ErrNotSupported)
}

func (t *translator) Unmap(beholder.Resource, int) error {
	return fmt.Errorf("%w: d3d9 unmap", beholder.ErrNotSupported)
}

// Flush does nothing; D3D9 submits on Present.
func (t *translator) Flush() error { return nil }
