package d3d9

import (
	"fmt"
	"math"

	beholder "github.com/Zulkir/Beholder-sub001"
)

var d3dFormats = map[beholder.ExplicitFormat]uint32{
	beholder.FormatR32G32B32A32Float: FMT_A32B32G32R32F,
	beholder.FormatR16G16B16A16Float: FMT_A16B16G16R16F,
	beholder.FormatR16G16B16A16Unorm: FMT_A16B16G16R16,
	beholder.FormatR32G32Float:       FMT_G32R32F,
	beholder.FormatR10G10B10A2Unorm:  FMT_A2B10G10R10,
	beholder.FormatR8G8B8A8Unorm:     FMT_A8B8G8R8,
	beholder.FormatR8G8B8A8UnormSrgb: FMT_A8B8G8R8,
	beholder.FormatR8G8B8A8Snorm:     FMT_Q8W8V8U8,
	beholder.FormatR16G16Float:       FMT_G16R16F,
	beholder.FormatR16G16Unorm:       FMT_G16R16,
	beholder.FormatR32Float:          FMT_R32F,
	beholder.FormatR16Float:          FMT_R16F,
	beholder.FormatR8Unorm:           FMT_L8,
	beholder.FormatA8Unorm:           FMT_A8,
	beholder.FormatB8G8R8A8Unorm:     FMT_A8R8G8B8,
	beholder.FormatB8G8R8A8UnormSrgb: FMT_A8R8G8B8,
	beholder.FormatB5G6R5Unorm:       FMT_R5G6B5,
	beholder.FormatD32Float:          FMT_D32F_LOCKABLE,
	beholder.FormatD24UnormS8Uint:    FMT_D24S8,
	beholder.FormatD16Unorm:          FMT_D16,
	beholder.FormatBC1Unorm:          FMT_DXT1,
	beholder.FormatBC1UnormSrgb:      FMT_DXT1,
	beholder.FormatBC2Unorm:          FMT_DXT3,
	beholder.FormatBC3Unorm:          FMT_DXT5,
	beholder.FormatBC3UnormSrgb:      FMT_DXT5,
}

// d3dFormat translates f. D3D9 has no typed sRGB formats; sRGB reads and
// writes are sampler and render states.
func d3dFormat(f beholder.ExplicitFormat) (uint32, error) {
	if v, ok := d3dFormats[f]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("%w: d3d9 format %d", beholder.ErrUnsupportedFormat, f)
}

func isSRGB(f beholder.ExplicitFormat) bool {
	switch f {
	case beholder.FormatR8G8B8A8UnormSrgb, beholder.FormatB8G8R8A8UnormSrgb,
		beholder.FormatBC1UnormSrgb, beholder.FormatBC3UnormSrgb:
		return true
	}
	return false
}

// pool returns the memory pool and usage flags of a resource.
func pool(u beholder.Usage, bind beholder.BindFlags, misc beholder.MiscFlags) (poolType, usage uint32) {
	switch {
	case bind.Has(beholder.BindRenderTarget):
		poolType, usage = POOL_DEFAULT, USAGE_RENDERTARGET
	case bind.Has(beholder.BindDepthStencil):
		poolType, usage = POOL_DEFAULT, USAGE_DEPTHSTENCIL
	case u == beholder.UsageDynamic:
		poolType, usage = POOL_DEFAULT, USAGE_DYNAMIC|USAGE_WRITEONLY
	case u == beholder.UsageStaging:
		poolType = POOL_SYSTEMMEM
	default:
		poolType = POOL_MANAGED
	}
	if misc.Has(beholder.MiscGenerateMips) {
		usage |= USAGE_AUTOGENMIPMAP
	}
	return poolType, usage
}

// primitive returns the primitive type of t and the number of primitives
// count vertices or indices make.
func primitive(t beholder.PrimitiveTopology, count int) (uint32, uint32, error) {
	switch t {
	case beholder.TopologyPointList:
		return PT_POINTLIST, uint32(count), nil
	case beholder.TopologyLineList:
		return PT_LINELIST, uint32(count / 2), nil
	case beholder.TopologyLineStrip:
		return PT_LINESTRIP, uint32(max(count-1, 0)), nil
	case beholder.TopologyTriangleList:
		return PT_TRIANGLELIST, uint32(count / 3), nil
	case beholder.TopologyTriangleStrip:
		return PT_TRIANGLESTRIP, uint32(max(count-2, 0)), nil
	}
	return 0, 0, fmt.Errorf("%w: d3d9 topology %d", beholder.ErrNotSupported, t)
}

func blendFactor(b beholder.Blend) (uint32, error) {
	switch b {
	case beholder.BlendZero:
		return BLEND_ZERO, nil
	case beholder.BlendOne:
		return BLEND_ONE, nil
	case beholder.BlendSrcColor:
		return BLEND_SRCCOLOR, nil
	case beholder.BlendInvSrcColor:
		return BLEND_INVSRCCOLOR, nil
	case beholder.BlendSrcAlpha:
		return BLEND_SRCALPHA, nil
	case beholder.BlendInvSrcAlpha:
		return BLEND_INVSRCALPHA, nil
	case beholder.BlendDestAlpha:
		return BLEND_DESTALPHA, nil
	case beholder.BlendInvDestAlpha:
		return BLEND_INVDESTALPHA, nil
	case beholder.BlendDestColor:
		return BLEND_DESTCOLOR, nil
	case beholder.BlendInvDestColor:
		return BLEND_INVDESTCOLOR, nil
	case beholder.BlendSrcAlphaSat:
		return BLEND_SRCALPHASAT, nil
	case beholder.BlendBlendFactor:
		return BLEND_BLENDFACTOR, nil
	case beholder.BlendInvBlendFactor:
		return BLEND_INVBLENDFACTOR, nil
	}
	return 0, fmt.Errorf("%w: d3d9 blend factor %d", beholder.ErrNotSupported, b)
}

func blendOp(op beholder.BlendOperation) uint32 {
	switch op {
	case beholder.BlendOpSubtract:
		return BLENDOP_SUBTRACT
	case beholder.BlendOpReverseSubtract:
		return BLENDOP_REVSUBTRACT
	case beholder.BlendOpMin:
		return BLENDOP_MIN
	case beholder.BlendOpMax:
		return BLENDOP_MAX
	default:
		return BLENDOP_ADD
	}
}

func comparison(c beholder.Comparison) uint32 {
	switch c {
	case beholder.ComparisonNever:
		return CMP_NEVER
	case beholder.ComparisonLess:
		return CMP_LESS
	case beholder.ComparisonEqual:
		return CMP_EQUAL
	case beholder.ComparisonLessEqual:
		return CMP_LESSEQUAL
	case beholder.ComparisonGreater:
		return CMP_GREATER
	case beholder.ComparisonNotEqual:
		return CMP_NOTEQUAL
	case beholder.ComparisonGreaterEqual:
		return CMP_GREATEREQUAL
	default:
		return CMP_ALWAYS
	}
}

func stencilOp(op beholder.StencilOperation) uint32 {
	switch op {
	case beholder.StencilZero:
		return STENCILOP_ZERO
	case beholder.StencilReplace:
		return STENCILOP_REPLACE
	case beholder.StencilIncrementSat:
		return STENCILOP_INCRSAT
	case beholder.StencilDecrementSat:
		return STENCILOP_DECRSAT
	case beholder.StencilInvert:
		return STENCILOP_INVERT
	case beholder.StencilIncrement:
		return STENCILOP_INCR
	case beholder.StencilDecrement:
		return STENCILOP_DECR
	default:
		return STENCILOP_KEEP
	}
}

func addressMode(m beholder.AddressMode) uint32 {
	switch m {
	case beholder.AddressMirror:
		return TADDRESS_MIRROR
	case beholder.AddressClamp:
		return TADDRESS_CLAMP
	case beholder.AddressBorder:
		return TADDRESS_BORDER
	case beholder.AddressMirrorOnce:
		return TADDRESS_MIRRORONCE
	default:
		return TADDRESS_WRAP
	}
}

func textureFilter(f beholder.FilterMode) uint32 {
	if f == beholder.FilterLinear {
		return TEXF_LINEAR
	}
	return TEXF_POINT
}

// cullMode returns the D3D9 cull mode. D3D9 names the winding to cull,
// not the face.
func cullMode(d beholder.RasterizerDescription) uint32 {
	if d.CullMode == beholder.CullNone {
		return CULL_NONE
	}
	frontCW := d.FrontFaceWinding == beholder.WindingClockwise
	cullCW := frontCW == (d.CullMode == beholder.CullFront)
	if cullCW {
		return CULL_CW
	}
	return CULL_CCW
}

// color packs c as a D3DCOLOR, 0xAARRGGBB.
func color(c beholder.Color4) uint32 {
	ch := func(v float32) uint32 {
		return uint32(math.Round(float64(min(max(v, 0), 1)) * 255))
	}
	return ch(c.A)<<24 | ch(c.R)<<16 | ch(c.G)<<8 | ch(c.B)
}

func floatBits(v float32) uint32 { return math.Float32bits(v) }

var declTypes = map[beholder.ExplicitFormat]uint8{
	beholder.FormatR32Float:          DECLTYPE_FLOAT1,
	beholder.FormatR32G32Float:       DECLTYPE_FLOAT2,
	beholder.FormatR32G32B32Float:    DECLTYPE_FLOAT3,
	beholder.FormatR32G32B32A32Float: DECLTYPE_FLOAT4,
	beholder.FormatB8G8R8A8Unorm:     DECLTYPE_D3DCOLOR,
	beholder.FormatR8G8B8A8Uint:      DECLTYPE_UBYTE4,
	beholder.FormatR8G8B8A8Unorm:     DECLTYPE_UBYTE4N,
	beholder.FormatR16G16Sint:        DECLTYPE_SHORT2,
	beholder.FormatR16G16B16A16Sint:  DECLTYPE_SHORT4,
	beholder.FormatR16G16B16A16Snorm: DECLTYPE_SHORT4N,
	beholder.FormatR16G16Unorm:       DECLTYPE_USHORT2N,
	beholder.FormatR16G16B16A16Unorm: DECLTYPE_USHORT4N,
	beholder.FormatR16G16Float:       DECLTYPE_FLOAT16_2,
	beholder.FormatR16G16B16A16Float: DECLTYPE_FLOAT16_4,
}

var declUsages = map[string]uint8{
	"POSITION":     DECLUSAGE_POSITION,
	"BLENDWEIGHT":  DECLUSAGE_BLENDWEIGHT,
	"BLENDINDICES": DECLUSAGE_BLENDINDICES,
	"NORMAL":       DECLUSAGE_NORMAL,
	"PSIZE":        DECLUSAGE_PSIZE,
	"TEXCOORD":     DECLUSAGE_TEXCOORD,
	"TANGENT":      DECLUSAGE_TANGENT,
	"BINORMAL":     DECLUSAGE_BINORMAL,
	"COLOR":        DECLUSAGE_COLOR,
	"FOG":          DECLUSAGE_FOG,
	"DEPTH":        DECLUSAGE_DEPTH,
}

// declEnd terminates a vertex declaration.
var declEnd = VERTEXELEMENT9{Stream: 0xFF, Type: DECLTYPE_UNUSED}

func vertexElements(attrs []beholder.VertexAttribute) ([]VERTEXELEMENT9, error) {
	out := make([]VERTEXELEMENT9, 0, len(attrs)+1)
	for _, a := range attrs {
		e := a.Element
		typ, ok := declTypes[e.Format]
		if !ok {
			return nil, fmt.Errorf("vertex element %s: %w: d3d9 format %d", e.SemanticName(), beholder.ErrUnsupportedFormat, e.Format)
		}
		usage, ok := declUsages[e.Semantic]
		if !ok {
			return nil, fmt.Errorf("%w: d3d9 vertex semantic %q", beholder.ErrNotSupported, e.Semantic)
		}
		out = append(out, VERTEXELEMENT9{
			Stream:     uint16(e.InputSlot),
			Offset:     uint16(e.Offset),
			Type:       typ,
			Method:     DECLMETHOD_DEFAULT,
			Usage:      usage,
			UsageIndex: uint8(e.SemanticIndex),
		})
	}
	return append(out, declEnd), nil
}
