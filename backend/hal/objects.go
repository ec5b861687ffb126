package hal

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	wgpu "github.com/gogpu/wgpu/hal"

	beholder "github.com/Zulkir/Beholder-sub001"
)

var lastID atomic.Uint64

func nextID() uint64 { return lastID.Add(1) }

// identified is implemented by every native object of this backend.
// Pipelines and bind groups are keyed by the ids of what they were
// built from.
type identified interface {
	beholder.NativeObject
	objectID() uint64
}

type ident struct {
	id uint64
}

func (i ident) objectID() uint64 { return i.id }

func newIdent() ident { return ident{id: nextID()} }

// objectOf returns the native object of a wrapper if it belongs to this
// backend.
func objectOf[T identified](n beholder.NativeObject) (T, error) {
	var zero T
	obj, ok := n.(T)
	if !ok {
		return zero, fmt.Errorf("%w: native %T", beholder.ErrWrongBackend, n)
	}
	return obj, nil
}

// halBuffer is the native side of a buffer.
type halBuffer struct {
	ident
	d    *Device
	buf  wgpu.Buffer
	size uint64
}

func (b *halBuffer) Release() {
	b.d.forget(b.id)
	buf := b.buf
	b.d.retire(func() { b.d.dev.DestroyBuffer(buf) })
}

func (b *halBuffer) CreateShaderResourceView(beholder.ShaderResourceViewDescription) (beholder.NativeObject, error) {
	return nil, fmt.Errorf("%w: hal buffer views", beholder.ErrNotSupported)
}

func (b *halBuffer) CreateRenderTargetView(beholder.RenderTargetViewDescription) (beholder.NativeObject, error) {
	return nil, fmt.Errorf("%w: buffer render targets", beholder.ErrNotSupported)
}

func (b *halBuffer) CreateDepthStencilView(beholder.DepthStencilViewDescription) (beholder.NativeObject, error) {
	return nil, fmt.Errorf("%w: buffer depth-stencil views", beholder.ErrNotSupported)
}

func (b *halBuffer) CreateUnorderedAccessView(beholder.UnorderedAccessViewDescription) (beholder.NativeObject, error) {
	return nil, fmt.Errorf("%w: hal unordered access views", beholder.ErrNotSupported)
}

// halTexture is the native side of a texture. usage is the usage the
// texture was last transitioned to by recorded commands.
type halTexture struct {
	ident
	d       *Device
	tex     wgpu.Texture
	format  beholder.ExplicitFormat
	native  gputypes.TextureFormat
	dim     gputypes.TextureDimension
	width   int
	height  int
	depth   int
	levels  int
	layers  int
	samples int
	usage   gputypes.TextureUsage
}

func (t *halTexture) Release() {
	t.d.forget(t.id)
	tex := t.tex
	t.d.retire(func() { t.d.dev.DestroyTexture(tex) })
}

// aspect returns the aspect a view of f reads.
func aspect(f gputypes.TextureFormat) gputypes.TextureAspect {
	if f.HasDepth() && !f.HasStencil() {
		return gputypes.TextureAspectDepthOnly
	}
	return gputypes.TextureAspectAll
}

func (t *halTexture) view(label string, format beholder.ExplicitFormat, dim beholder.ViewDimension, mip, mips, layer, layers int) (*halView, error) {
	tf := t.native
	if format != beholder.FormatUnknown && format != t.format {
		var err error
		if tf, err = textureFormat(format); err != nil {
			return nil, err
		}
	}
	vd, err := viewDimension(dim)
	if err != nil {
		return nil, err
	}
	if t.dim == gputypes.TextureDimension3D {
		layer, layers = 0, 1
	}
	v, err := t.d.dev.CreateTextureView(t.tex, &wgpu.TextureViewDescriptor{
		Label:           t.d.label(label),
		Format:          tf,
		Dimension:       vd,
		Aspect:          aspect(tf),
		BaseMipLevel:    uint32(mip),
		MipLevelCount:   uint32(max(mips, 1)),
		BaseArrayLayer:  uint32(layer),
		ArrayLayerCount: uint32(max(layers, 1)),
	})
	if err != nil {
		return nil, fmt.Errorf("hal: create texture view: %w", err)
	}
	return &halView{
		ident:  newIdent(),
		d:      t.d,
		tex:    t,
		view:   v,
		format: tf,
		width:  beholder.MipSize(t.width, mip),
		height: beholder.MipSize(t.height, mip),
	}, nil
}

func (t *halTexture) CreateShaderResourceView(desc beholder.ShaderResourceViewDescription) (beholder.NativeObject, error) {
	mips := desc.MipLevels
	if mips <= 0 {
		mips = t.levels - desc.MostDetailedMip
	}
	return t.view("srv", desc.Format, desc.Dimension, desc.MostDetailedMip, mips, desc.FirstArraySlice, desc.ArraySize)
}

func (t *halTexture) CreateRenderTargetView(desc beholder.RenderTargetViewDescription) (beholder.NativeObject, error) {
	return t.view("rtv", desc.Format, desc.Dimension, desc.MipSlice, 1, desc.FirstArraySlice, desc.ArraySize)
}

func (t *halTexture) CreateDepthStencilView(desc beholder.DepthStencilViewDescription) (beholder.NativeObject, error) {
	v, err := t.view("dsv", desc.Format, desc.Dimension, desc.MipSlice, 1, desc.FirstArraySlice, desc.ArraySize)
	if err != nil {
		return nil, err
	}
	v.readOnlyDepth = desc.Flags&beholder.DSVReadOnlyDepth != 0
	v.readOnlyStencil = desc.Flags&beholder.DSVReadOnlyStencil != 0
	return v, nil
}

func (t *halTexture) CreateUnorderedAccessView(beholder.UnorderedAccessViewDescription) (beholder.NativeObject, error) {
	return nil, fmt.Errorf("%w: hal unordered access views", beholder.ErrNotSupported)
}

// halView is a texture view used as a shader resource or attachment.
type halView struct {
	ident
	d      *Device
	tex    *halTexture
	view   wgpu.TextureView
	format gputypes.TextureFormat
	width  int
	height int

	readOnlyDepth   bool
	readOnlyStencil bool
}

func (v *halView) Release() {
	v.d.forget(v.id)
	view := v.view
	v.d.retire(func() { v.d.dev.DestroyTextureView(view) })
}

// rasterizerState keeps what a rasterizer description contributes to a
// pipeline. The topology is filled in per draw.
type rasterizerState struct {
	ident
	d         *Device
	primitive gputypes.PrimitiveState
	bias      int32
	biasSlope float32
	biasClamp float32
	scissor   bool
}

func (s *rasterizerState) Release() { s.d.forget(s.id) }

func (d *Device) newRasterizerState(desc beholder.RasterizerDescription) (*rasterizerState, error) {
	if desc.FillMode == beholder.FillWireframe {
		return nil, fmt.Errorf("%w: wireframe fill", beholder.ErrNotSupported)
	}
	return &rasterizerState{
		ident: newIdent(),
		d:     d,
		primitive: gputypes.PrimitiveState{
			FrontFace:      frontFace(desc.FrontFaceWinding),
			CullMode:       cullMode(desc.CullMode),
			UnclippedDepth: !desc.DepthClipEnable,
		},
		bias:      int32(desc.DepthBias),
		biasSlope: desc.SlopeScaledDepthBias,
		biasClamp: desc.DepthBiasClamp,
		scissor:   desc.ScissorEnable,
	}, nil
}

// blendState holds the per-target blend of a blend description. Without
// independent blending every target uses the first one.
type blendState struct {
	ident
	d               *Device
	targets         [beholder.MaxRenderTargets]gputypes.ColorTargetState
	alphaToCoverage bool
}

func (s *blendState) Release() { s.d.forget(s.id) }

func (d *Device) newBlendState(desc beholder.BlendDescription) (*blendState, error) {
	s := &blendState{ident: newIdent(), d: d, alphaToCoverage: desc.AlphaToCoverageEnable}
	for i := range s.targets {
		rt := desc.RenderTargets[0]
		if desc.IndependentBlendEnable {
			rt = desc.RenderTargets[i]
		}
		s.targets[i].WriteMask = colorWriteMask(rt.WriteMask)
		if !rt.BlendEnable {
			continue
		}
		color, err := blendComponent(rt.SrcBlend, rt.DestBlend, rt.BlendOp)
		if err != nil {
			return nil, fmt.Errorf("render target %d color: %w", i, err)
		}
		alpha, err := blendComponent(rt.SrcBlendAlpha, rt.DestBlendAlpha, rt.BlendOpAlpha)
		if err != nil {
			return nil, fmt.Errorf("render target %d alpha: %w", i, err)
		}
		s.targets[i].Blend = &gputypes.BlendState{Color: color, Alpha: alpha}
	}
	return s, nil
}

// depthState is a depth-stencil description without the attachment
// format, which comes from the bound view.
type depthState struct {
	ident
	d     *Device
	state wgpu.DepthStencilState
}

func (s *depthState) Release() { s.d.forget(s.id) }

func (d *Device) newDepthState(desc beholder.DepthStencilDescription) (*depthState, error) {
	st := wgpu.DepthStencilState{DepthCompare: gputypes.CompareFunctionAlways}
	if desc.DepthEnable {
		cmp, err := compareFunction(desc.DepthFunc)
		if err != nil {
			return nil, err
		}
		st.DepthCompare = cmp
		st.DepthWriteEnabled = desc.DepthWriteEnable
	}
	keep := wgpu.StencilFaceState{Compare: gputypes.CompareFunctionAlways}
	st.StencilFront, st.StencilBack = keep, keep
	if desc.StencilEnable {
		var err error
		if st.StencilFront, err = stencilFace(desc.FrontFace); err != nil {
			return nil, fmt.Errorf("front face: %w", err)
		}
		if st.StencilBack, err = stencilFace(desc.BackFace); err != nil {
			return nil, fmt.Errorf("back face: %w", err)
		}
		st.StencilReadMask = uint32(desc.StencilReadMask)
		st.StencilWriteMask = uint32(desc.StencilWriteMask)
	}
	return &depthState{ident: newIdent(), d: d, state: st}, nil
}

// samplerState owns a native sampler.
type samplerState struct {
	ident
	d   *Device
	smp wgpu.Sampler
}

func (s *samplerState) Release() {
	s.d.forget(s.id)
	smp := s.smp
	s.d.retire(func() { s.d.dev.DestroySampler(smp) })
}

func (d *Device) newSamplerState(desc beholder.SamplerDescription) (*samplerState, error) {
	var modes [3]gputypes.AddressMode
	for i, m := range [...]beholder.AddressMode{desc.AddressU, desc.AddressV, desc.AddressW} {
		var err error
		if modes[i], err = addressMode(m); err != nil {
			return nil, err
		}
	}
	sd := &wgpu.SamplerDescriptor{
		Label:        d.label("sampler"),
		AddressModeU: modes[0],
		AddressModeV: modes[1],
		AddressModeW: modes[2],
		MagFilter:    filterMode(desc.Filter.Mag),
		MinFilter:    filterMode(desc.Filter.Min),
		MipmapFilter: filterMode(desc.Filter.Mip),
		LodMinClamp:  max(desc.MinimumLod, 0),
		LodMaxClamp:  min(desc.MaximumLod, 32),
		Anisotropy:   1,
	}
	if desc.Filter.Anisotropic {
		sd.Anisotropy = uint16(min(max(desc.MaxAnisotropy, 1), 16))
	}
	if desc.Filter.Comparison {
		cmp, err := compareFunction(desc.ComparisonFunction)
		if err != nil {
			return nil, err
		}
		sd.Compare = cmp
	}
	smp, err := d.dev.CreateSampler(sd)
	if err != nil {
		return nil, fmt.Errorf("hal: create sampler: %w", err)
	}
	return &samplerState{ident: newIdent(), d: d, smp: smp}, nil
}

// inputLayout is the vertex buffer layout of a vertex layout, one entry
// per input slot up to the highest used. Strides come from the bound
// vertex sources.
type inputLayout struct {
	ident
	d       *Device
	buffers []gputypes.VertexBufferLayout
}

func (l *inputLayout) Release() { l.d.forget(l.id) }

// shaderLocation reads the @location index of a "LOCn" semantic.
func shaderLocation(semantic string) (uint32, error) {
	s, ok := strings.CutPrefix(strings.ToUpper(semantic), "LOC")
	if !ok {
		return 0, fmt.Errorf("%w: vertex input %q has no location", beholder.ErrInvalidDescription, semantic)
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: vertex input %q has no location", beholder.ErrInvalidDescription, semantic)
	}
	return uint32(n), nil
}

func (d *Device) newInputLayout(inputs []string, attrs []beholder.VertexAttribute) (*inputLayout, error) {
	l := &inputLayout{ident: newIdent(), d: d}
	for _, a := range attrs {
		e := a.Element
		if e.PerInstance && e.InstanceStepRate > 1 {
			return nil, fmt.Errorf("%w: instance step rate %d", beholder.ErrNotSupported, e.InstanceStepRate)
		}
		format, err := vertexFormat(e.Format)
		if err != nil {
			return nil, fmt.Errorf("vertex element %s: %w", e.SemanticName(), err)
		}
		loc, err := shaderLocation(inputs[a.Location])
		if err != nil {
			return nil, err
		}
		for len(l.buffers) <= e.InputSlot {
			l.buffers = append(l.buffers, gputypes.VertexBufferLayout{StepMode: gputypes.VertexStepModeVertexBufferNotUsed})
		}
		b := &l.buffers[e.InputSlot]
		step := gputypes.VertexStepModeVertex
		if e.PerInstance {
			step = gputypes.VertexStepModeInstance
		}
		if len(b.Attributes) > 0 && b.StepMode != step {
			return nil, fmt.Errorf("%w: input slot %d mixes per-vertex and per-instance elements", beholder.ErrInvalidDescription, e.InputSlot)
		}
		b.StepMode = step
		b.Attributes = append(b.Attributes, gputypes.VertexAttribute{
			Format:         format,
			Offset:         uint64(e.Offset),
			ShaderLocation: loc,
		})
	}
	return l, nil
}
