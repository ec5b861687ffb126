package d3d11

import (
	"fmt"

	beholder "github.com/Zulkir/Beholder-sub001"
	"github.com/Zulkir/Beholder-sub001/internal/tracker"
	"github.com/Zulkir/Beholder-sub001/shader"
)

// allStages is every stage with its own binding slots.
var allStages = [...]shader.Stage{
	shader.StageVertex, shader.StageHull, shader.StageDomain,
	shader.StageGeometry, shader.StagePixel, shader.StageCompute,
}

// translator applies tracked state to the immediate context. D3D11 binds
// render targets, the depth-stencil view and pixel UAVs in one call, and
// the blend factor and stencil reference with their states, so it keeps
// what it last bound of each.
type translator struct {
	d   *Device
	ctx NativeContext

	rtvs []Object
	dsv  Object
	uavs []Object

	blend      Object
	factor     [4]float32
	sampleMask uint32
	depth      Object
	stencilRef uint32
}

var (
	_ tracker.Translator            = (*translator)(nil)
	_ tracker.UnorderedAccessBinder = (*translator)(nil)
)

func newTranslator(d *Device) *translator {
	return &translator{
		d:          d,
		ctx:        d.nctx,
		factor:     [4]float32{1, 1, 1, 1},
		sampleMask: ^uint32(0),
	}
}

// object returns the native object of a wrapper, or nil when the wrapper
// belongs to another backend.
func (t *translator) object(n beholder.NativeObject, what string) Object {
	obj, err := native(n)
	if err != nil {
		t.d.log.Warn("d3d11: foreign object", "kind", what, "err", err)
		return nil
	}
	return obj
}

func (t *translator) BindProgram(set beholder.ShaderSet) (*shader.Combination, error) {
	var shaders [shader.StageCount]*d3dShader
	for _, stage := range shader.GraphicsStages {
		s, err := nativeShader(set.Shader(stage), stage)
		if err != nil {
			return nil, err
		}
		shaders[stage] = s
	}
	var combo *shader.Combination
	if !set.IsEmpty() {
		var err error
		if combo, err = t.d.combination(set); err != nil {
			return nil, err
		}
	}
	for _, stage := range shader.GraphicsStages {
		var obj Object
		if s := shaders[stage]; s != nil {
			obj = s.obj
		}
		t.ctx.SetShader(stage, obj)
	}
	return combo, nil
}

func (t *translator) BindComputeProgram(cs beholder.Shader) (*shader.Combination, error) {
	s, err := nativeShader(cs, shader.StageCompute)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: no compute shader", beholder.ErrInvalidDescription)
	}
	combo, err := shader.NewComputeCombination(s.ShaderBase())
	if err != nil {
		return nil, err
	}
	t.ctx.SetShader(shader.StageCompute, s.obj)
	return combo, nil
}

func (t *translator) UnbindUniformBuffers(from, to int) {
	if to = min(to, COMMONSHADER_CONSTANT_BUFFER_API_SLOT_COUNT); from >= to {
		return
	}
	empty := make([]Object, to-from)
	for _, stage := range allStages {
		t.ctx.SetConstantBuffers(stage, from, empty)
	}
}

func (t *translator) UnbindTextures(from, to int) {
	if to = min(to, COMMONSHADER_INPUT_RESOURCE_SLOT_COUNT); from >= to {
		return
	}
	empty := make([]Object, to-from)
	for _, stage := range allStages {
		t.ctx.SetShaderResources(stage, from, empty)
	}
}

func (t *translator) BindUniformBuffer(stage shader.Stage, nativeSlot int, buf *beholder.Buffer) {
	t.ctx.SetConstantBuffers(stage, nativeSlot, []Object{t.buffer(buf)})
}

func (t *translator) BindTexture(stage shader.Stage, nativeSlot int, view *beholder.ShaderResourceView) {
	var obj Object
	if view != nil {
		obj = t.object(view.Native(), "shader resource view")
	}
	t.ctx.SetShaderResources(stage, nativeSlot, []Object{obj})
}

// BindSampler binds state at its slot. A nil state leaves the slot empty,
// which D3D11 samples with its default sampler.
func (t *translator) BindSampler(stage shader.Stage, target shader.SamplerTarget, state *beholder.SamplerState) {
	var obj Object
	if state != nil {
		obj = t.object(state.Native(), "sampler state")
	}
	t.ctx.SetSamplers(stage, target.NativeSlot, []Object{obj})
}

func (t *translator) buffer(buf *beholder.Buffer) Object {
	if buf == nil {
		return nil
	}
	return t.object(buf.Native(), "buffer")
}

func (t *translator) SetPrimitiveTopology(topology beholder.PrimitiveTopology) error {
	native, err := primitiveTopology(topology)
	if err != nil {
		return err
	}
	t.ctx.IASetPrimitiveTopology(native)
	return nil
}

func (t *translator) SetVertexInput(layout *beholder.VertexLayout, sources []beholder.VertexSource) error {
	var obj Object
	if layout != nil {
		obj = t.object(layout.Native(), "vertex layout")
	}
	t.ctx.IASetInputLayout(obj)
	if len(sources) == 0 {
		return nil
	}
	bufs := make([]Object, len(sources))
	strides := make([]uint32, len(sources))
	offsets := make([]uint32, len(sources))
	for i, src := range sources {
		bufs[i] = t.buffer(src.Buffer)
		strides[i] = uint32(src.Stride)
		offsets[i] = uint32(src.Offset)
	}
	t.ctx.IASetVertexBuffers(0, bufs, strides, offsets)
	return nil
}

func (t *translator) SetIndexSource(src beholder.IndexSource) error {
	if src.Buffer == nil {
		t.ctx.IASetIndexBuffer(nil, DXGI_FORMAT_UNKNOWN, 0)
		return nil
	}
	t.ctx.IASetIndexBuffer(t.buffer(src.Buffer), indexFormat(src.Format), uint32(src.Offset))
	return nil
}

func (t *translator) SetRasterizerState(s *beholder.RasterizerState) {
	var obj Object
	if s != nil {
		obj = t.object(s.Native(), "rasterizer state")
	}
	t.ctx.RSSetState(obj)
}

// SetViewports passes viewports through. D3D11 shares the top-left
// origin, so the target height is unused.
func (t *translator) SetViewports(vps []beholder.Viewport, _ int) {
	out := make([]VIEWPORT, len(vps))
	for i, vp := range vps {
		out[i] = VIEWPORT{
			TopLeftX: vp.Left,
			TopLeftY: vp.Top,
			Width:    vp.Width,
			Height:   vp.Height,
			MinDepth: vp.MinDepth,
			MaxDepth: vp.MaxDepth,
		}
	}
	t.ctx.RSSetViewports(out)
}

func (t *translator) SetScissorRectangles(rects []beholder.Rectangle, _ int) {
	out := make([]RECT, len(rects))
	for i, r := range rects {
		out[i] = RECT{Left: int32(r.Left), Top: int32(r.Top), Right: int32(r.Right), Bottom: int32(r.Bottom)}
	}
	t.ctx.RSSetScissorRects(out)
}

func (t *translator) SetRenderTargets(views []*beholder.RenderTargetView, _ int) {
	t.rtvs = t.rtvs[:0]
	for _, v := range views {
		var obj Object
		if v != nil {
			obj = t.object(v.Native(), "render target view")
		}
		t.rtvs = append(t.rtvs, obj)
	}
	t.applyOutputs()
}

func (t *translator) SetDepthStencilView(v *beholder.DepthStencilView) {
	t.dsv = nil
	if v != nil {
		t.dsv = t.object(v.Native(), "depth-stencil view")
	}
	t.applyOutputs()
}

// BindUnorderedAccessViews binds pixel stage views after the render
// targets, or compute views from slot 0.
func (t *translator) BindUnorderedAccessViews(compute bool, views []*beholder.UnorderedAccessView) {
	objs := make([]Object, len(views))
	for i, v := range views {
		if v != nil {
			objs[i] = t.object(v.Native(), "unordered access view")
		}
	}
	if compute {
		t.ctx.CSSetUnorderedAccessViews(0, objs)
		return
	}
	t.uavs = objs
	t.applyOutputs()
}

func (t *translator) applyOutputs() {
	t.ctx.OMSetRenderTargetsAndUnorderedAccessViews(t.rtvs, t.dsv, len(t.rtvs), t.uavs)
}

func (t *translator) SetBlendState(s *beholder.BlendState) {
	t.blend = nil
	if s != nil {
		t.blend = t.object(s.Native(), "blend state")
	}
	t.ctx.OMSetBlendState(t.blend, t.factor, t.sampleMask)
}

func (t *translator) SetBlendFactor(factor beholder.Color4, sampleMask uint32) {
	t.factor = [4]float32{factor.R, factor.G, factor.B, factor.A}
	t.sampleMask = sampleMask
	t.ctx.OMSetBlendState(t.blend, t.factor, t.sampleMask)
}

func (t *translator) SetDepthStencilState(s *beholder.DepthStencilState) {
	t.depth = nil
	if s != nil {
		t.depth = t.object(s.Native(), "depth-stencil state")
	}
	t.ctx.OMSetDepthStencilState(t.depth, t.stencilRef)
}

// SetStencilReference rebinds the depth-stencil state, whose reference
// applies to both faces.
func (t *translator) SetStencilReference(ref uint32) {
	t.stencilRef = ref
	t.ctx.OMSetDepthStencilState(t.depth, ref)
}

func (t *translator) Draw(call tracker.DrawCall) error {
	c := t.ctx
	switch call.Kind {
	case tracker.DrawPlain:
		c.Draw(uint32(call.VertexCount), uint32(call.StartVertex))
	case tracker.DrawIndexed:
		c.DrawIndexed(uint32(call.IndexCount), uint32(call.StartIndex), int32(call.BaseVertex))
	case tracker.DrawInstanced:
		c.DrawInstanced(uint32(call.VertexCount), uint32(call.InstanceCount), uint32(call.StartVertex), uint32(call.StartInstance))
	case tracker.DrawIndexedInstanced:
		c.DrawIndexedInstanced(uint32(call.IndexCount), uint32(call.InstanceCount), uint32(call.StartIndex),
			int32(call.BaseVertex), uint32(call.StartInstance))
	case tracker.DrawInstancedIndirect:
		c.DrawInstancedIndirect(t.buffer(call.Args), uint32(call.ArgsOffset))
	case tracker.DrawIndexedInstancedIndirect:
		c.DrawIndexedInstancedIndirect(t.buffer(call.Args), uint32(call.ArgsOffset))
	default:
		return fmt.Errorf("%w: draw kind %d", beholder.ErrInvalidDescription, call.Kind)
	}
	return nil
}

func (t *translator) Dispatch(call tracker.DispatchCall) error {
	if call.Args != nil {
		t.ctx.DispatchIndirect(t.buffer(call.Args), uint32(call.ArgsOffset))
		return nil
	}
	t.ctx.Dispatch(uint32(call.X), uint32(call.Y), uint32(call.Z))
	return nil
}

func (t *translator) ClearRenderTargetView(v *beholder.RenderTargetView, c beholder.Color4) error {
	obj, err := native(v.Native())
	if err != nil {
		return err
	}
	t.ctx.ClearRenderTargetView(obj, [4]float32{c.R, c.G, c.B, c.A})
	return nil
}

func (t *translator) ClearDepthStencilView(v *beholder.DepthStencilView, flags beholder.ClearFlags, depth float32, stencil uint8) error {
	obj, err := native(v.Native())
	if err != nil {
		return err
	}
	var native uint32
	if flags&beholder.ClearDepth != 0 {
		native |= CLEAR_DEPTH
	}
	if flags&beholder.ClearStencil != 0 {
		native |= CLEAR_STENCIL
	}
	t.ctx.ClearDepthStencilView(obj, native, depth, stencil)
	return nil
}

func (t *translator) ClearUnorderedAccessViewFloat(v *beholder.UnorderedAccessView, values [4]float32) error {
	obj, err := native(v.Native())
	if err != nil {
		return err
	}
	t.ctx.ClearUnorderedAccessViewFloat(obj, values)
	return nil
}

func (t *translator) ClearUnorderedAccessViewUint(v *beholder.UnorderedAccessView, values [4]uint32) error {
	obj, err := native(v.Native())
	if err != nil {
		return err
	}
	t.ctx.ClearUnorderedAccessViewUint(obj, values)
	return nil
}

func (t *translator) GenerateMips(v *beholder.ShaderResourceView) error {
	obj, err := native(v.Native())
	if err != nil {
		return err
	}
	t.ctx.GenerateMips(obj)
	return nil
}

// SetSubresourceData updates a whole subresource. Empty pitches are
// computed from the resource's format.
func (t *translator) SetSubresourceData(r beholder.Resource, subresource int, data beholder.SubresourceData) error {
	res, ok := r.Native().(*d3dResource)
	if !ok {
		return fmt.Errorf("%w: resource %T", beholder.ErrWrongBackend, r.Native())
	}
	row, slice := data.RowPitch, data.SlicePitch
	if res.format == beholder.FormatUnknown {
		row, slice = len(data.Bytes), len(data.Bytes)
	} else if row == 0 || slice == 0 {
		level := subresource % res.levels
		packed := subresourceData(res.format, 1, beholder.MipSize(res.width, level), beholder.MipSize(res.height, level),
			[]beholder.SubresourceData{data})[0]
		row, slice = int(packed.SysMemPitch), int(packed.SysMemSlicePitch)
	}
	t.ctx.UpdateSubresource(res.obj, uint32(subresource), nil, data.Bytes, uint32(row), uint32(slice))
	return nil
}

func (t *translator) Map(r beholder.Resource, subresource int, mt beholder.MapType) (beholder.MappedSubresource, error) {
	obj, err := native(r.Native())
	if err != nil {
		return beholder.MappedSubresource{}, err
	}
	m, err := t.ctx.Map(obj, uint32(subresource), mapType(mt), 0)
	if err != nil {
		return beholder.MappedSubresource{}, fmt.Errorf("d3d11: map: %w", err)
	}
	return beholder.MappedSubresource{Data: m.Data, RowPitch: int(m.RowPitch), DepthPitch: int(m.DepthPitch)}, nil
}

func (t *translator) Unmap(r beholder.Resource, subresource int) error {
	obj, err := native(r.Native())
	if err != nil {
		return err
	}
	t.ctx.Unmap(obj, uint32(subresource))
	return nil
}

func (t *translator) Flush() error {
	t.ctx.Flush()
	return nil
}
