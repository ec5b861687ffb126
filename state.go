package beholder

// FillMode selects how triangles are rasterized.
type FillMode int

// Fill modes.
const (
	FillSolid FillMode = iota
	FillWireframe
)

// CullMode selects which triangle faces are discarded.
type CullMode int

// Cull modes.
const (
	CullNone CullMode = iota
	CullFront
	CullBack
)

// Winding is the vertex order of a front-facing triangle.
type Winding int

// Windings.
const (
	WindingClockwise Winding = iota
	WindingCounterClockwise
)

// RasterizerDescription describes rasterizer state.
type RasterizerDescription struct {
	FillMode              FillMode
	CullMode              CullMode
	FrontFaceWinding      Winding
	DepthBias             int
	DepthBiasClamp        float32
	SlopeScaledDepthBias  float32
	DepthClipEnable       bool
	ScissorEnable         bool
	MultisampleEnable     bool
	AntialiasedLineEnable bool
}

// DefaultRasterizer returns solid fill, back-face culling, clockwise
// front faces and depth clipping.
func DefaultRasterizer() RasterizerDescription {
	return RasterizerDescription{
		FillMode:         FillSolid,
		CullMode:         CullBack,
		FrontFaceWinding: WindingClockwise,
		DepthClipEnable:  true,
	}
}

// Blend is a blend factor.
type Blend int

// Blend factors.
const (
	BlendZero Blend = iota
	BlendOne
	BlendSrcColor
	BlendInvSrcColor
	BlendSrcAlpha
	BlendInvSrcAlpha
	BlendDestAlpha
	BlendInvDestAlpha
	BlendDestColor
	BlendInvDestColor
	BlendSrcAlphaSat
	BlendBlendFactor
	BlendInvBlendFactor
	BlendSrc1Color
	BlendInvSrc1Color
	BlendSrc1Alpha
	BlendInvSrc1Alpha
)

// BlendOperation combines the weighted source and destination.
type BlendOperation int

// Blend operations.
const (
	BlendOpAdd BlendOperation = iota
	BlendOpSubtract
	BlendOpReverseSubtract
	BlendOpMin
	BlendOpMax
)

// ColorMask selects the channels written to a render target.
type ColorMask uint8

// Color write masks.
const (
	ColorMaskRed ColorMask = 1 << iota
	ColorMaskGreen
	ColorMaskBlue
	ColorMaskAlpha

	ColorMaskAll = ColorMaskRed | ColorMaskGreen | ColorMaskBlue | ColorMaskAlpha
)

// MaxRenderTargets is the number of simultaneous render targets.
const MaxRenderTargets = 8

// RenderTargetBlendDescription is the blend configuration of one render target.
type RenderTargetBlendDescription struct {
	BlendEnable    bool
	SrcBlend       Blend
	DestBlend      Blend
	BlendOp        BlendOperation
	SrcBlendAlpha  Blend
	DestBlendAlpha Blend
	BlendOpAlpha   BlendOperation
	WriteMask      ColorMask
}

// BlendDescription describes output-merger blend state.
type BlendDescription struct {
	AlphaToCoverageEnable  bool
	IndependentBlendEnable bool
	RenderTargets          [MaxRenderTargets]RenderTargetBlendDescription
}

// Target returns the blend configuration used for render target i.
// Without independent blending every target uses the first entry.
func (d *BlendDescription) Target(i int) RenderTargetBlendDescription {
	if !d.IndependentBlendEnable {
		return d.RenderTargets[0]
	}
	return d.RenderTargets[i]
}

// DefaultBlend returns blending disabled with all channels written.
func DefaultBlend() BlendDescription {
	var d BlendDescription
	for i := range d.RenderTargets {
		d.RenderTargets[i] = RenderTargetBlendDescription{
			SrcBlend:       BlendOne,
			DestBlend:      BlendZero,
			BlendOp:        BlendOpAdd,
			SrcBlendAlpha:  BlendOne,
			DestBlendAlpha: BlendZero,
			BlendOpAlpha:   BlendOpAdd,
			WriteMask:      ColorMaskAll,
		}
	}
	return d
}

// Comparison is a depth, stencil or sampler comparison function.
type Comparison int

// Comparison functions.
const (
	ComparisonNever Comparison = iota
	ComparisonLess
	ComparisonEqual
	ComparisonLessEqual
	ComparisonGreater
	ComparisonNotEqual
	ComparisonGreaterEqual
	ComparisonAlways
)

// StencilOperation updates the stencil buffer.
type StencilOperation int

// Stencil operations.
const (
	StencilKeep StencilOperation = iota
	StencilZero
	StencilReplace
	StencilIncrementSat
	StencilDecrementSat
	StencilInvert
	StencilIncrement
	StencilDecrement
)

// StencilFace is the stencil configuration of one triangle face.
type StencilFace struct {
	StencilFailOp      StencilOperation
	StencilDepthFailOp StencilOperation
	StencilPassOp      StencilOperation
	StencilFunc        Comparison
}

// DepthStencilDescription describes depth and stencil test state.
type DepthStencilDescription struct {
	DepthEnable      bool
	DepthWriteEnable bool
	DepthFunc        Comparison
	StencilEnable    bool
	StencilReadMask  uint8
	StencilWriteMask uint8
	FrontFace        StencilFace
	BackFace         StencilFace
}

// DefaultDepthStencil returns depth testing with less-than, writes
// enabled and stencil disabled.
func DefaultDepthStencil() DepthStencilDescription {
	face := StencilFace{
		StencilFailOp:      StencilKeep,
		StencilDepthFailOp: StencilKeep,
		StencilPassOp:      StencilKeep,
		StencilFunc:        ComparisonAlways,
	}
	return DepthStencilDescription{
		DepthEnable:      true,
		DepthWriteEnable: true,
		DepthFunc:        ComparisonLess,
		StencilReadMask:  0xff,
		StencilWriteMask: 0xff,
		FrontFace:        face,
		BackFace:         face,
	}
}

// FilterMode is a texel filter.
type FilterMode int

// Filter modes.
const (
	FilterPoint FilterMode = iota
	FilterLinear
)

// Filter selects minification, magnification and mip filtering.
type Filter struct {
	Min         FilterMode
	Mag         FilterMode
	Mip         FilterMode
	Anisotropic bool
	// Comparison makes the sampler a comparison sampler.
	Comparison bool
}

// AddressMode resolves texture coordinates outside [0, 1].
type AddressMode int

// Address modes.
const (
	AddressWrap AddressMode = iota
	AddressMirror
	AddressClamp
	AddressBorder
	AddressMirrorOnce
)

// SamplerDescription describes sampler state.
type SamplerDescription struct {
	Filter             Filter
	AddressU           AddressMode
	AddressV           AddressMode
	AddressW           AddressMode
	MipLodBias         float32
	MaxAnisotropy      int
	ComparisonFunction Comparison
	BorderColor        Color4
	MinimumLod         float32
	MaximumLod         float32
}

// DefaultSampler returns trilinear filtering with clamped addressing.
func DefaultSampler() SamplerDescription {
	return SamplerDescription{
		Filter:             Filter{Min: FilterLinear, Mag: FilterLinear, Mip: FilterLinear},
		AddressU:           AddressClamp,
		AddressV:           AddressClamp,
		AddressW:           AddressClamp,
		MaxAnisotropy:      1,
		ComparisonFunction: ComparisonNever,
		MinimumLod:         -3.402823466e+38,
		MaximumLod:         3.402823466e+38,
	}
}

// RasterizerState is an immutable rasterizer state object.
type RasterizerState struct {
	object
	desc RasterizerDescription
}

// NewRasterizerState wraps a backend rasterizer state. native may be nil
// for backends without state objects.
func NewRasterizerState(reg *Registry, desc RasterizerDescription, native NativeObject) *RasterizerState {
	s := &RasterizerState{desc: desc}
	s.init(reg, s, native)
	return s
}

// Description returns the state's description.
func (s *RasterizerState) Description() RasterizerDescription { return s.desc }

// Dispose releases the state.
func (s *RasterizerState) Dispose() { s.dispose(nil) }

// BlendState is an immutable blend state object.
type BlendState struct {
	object
	desc BlendDescription
}

// NewBlendState wraps a backend blend state.
func NewBlendState(reg *Registry, desc BlendDescription, native NativeObject) *BlendState {
	s := &BlendState{desc: desc}
	s.init(reg, s, native)
	return s
}

// Description returns the state's description.
func (s *BlendState) Description() BlendDescription { return s.desc }

// Dispose releases the state.
func (s *BlendState) Dispose() { s.dispose(nil) }

// DepthStencilState is an immutable depth-stencil state object.
type DepthStencilState struct {
	object
	desc DepthStencilDescription
}

// NewDepthStencilState wraps a backend depth-stencil state.
func NewDepthStencilState(reg *Registry, desc DepthStencilDescription, native NativeObject) *DepthStencilState {
	s := &DepthStencilState{desc: desc}
	s.init(reg, s, native)
	return s
}

// Description returns the state's description.
func (s *DepthStencilState) Description() DepthStencilDescription { return s.desc }

// Dispose releases the state.
func (s *DepthStencilState) Dispose() { s.dispose(nil) }

// SamplerState is an immutable sampler state object.
type SamplerState struct {
	object
	desc SamplerDescription
}

// NewSamplerState wraps a backend sampler state.
func NewSamplerState(reg *Registry, desc SamplerDescription, native NativeObject) *SamplerState {
	s := &SamplerState{desc: desc}
	s.init(reg, s, native)
	return s
}

// Description returns the state's description.
func (s *SamplerState) Description() SamplerDescription { return s.desc }

// Dispose releases the state.
func (s *SamplerState) Dispose() { s.dispose(nil) }
