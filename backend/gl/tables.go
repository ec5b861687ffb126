package gl

import (
	"fmt"

	beholder "github.com/Zulkir/Beholder-sub001"
)

// Sized internal formats.
const (
	RGBA32F              = 0x8814
	RGBA32UI             = 0x8d70
	RGBA32I              = 0x8d82
	RGB32F               = 0x8815
	RGB32UI              = 0x8d71
	RGB32I               = 0x8d83
	RGBA16F              = 0x881a
	RGBA16               = 0x805b
	RGBA16UI             = 0x8d76
	RGBA16_SNORM         = 0x8f9b
	RGBA16I              = 0x8d88
	RG32F                = 0x8230
	RG32UI               = 0x823c
	RG32I                = 0x823b
	RGB10_A2             = 0x8059
	RGB10_A2UI           = 0x906f
	R11F_G11F_B10F       = 0x8c3a
	RGBA8                = 0x8058
	SRGB8_ALPHA8         = 0x8c43
	RGBA8UI              = 0x8d7c
	RGBA8_SNORM          = 0x8f97
	RGBA8I               = 0x8d8e
	RG16F                = 0x822f
	RG16                 = 0x822c
	RG16UI               = 0x823a
	RG16I                = 0x8239
	R32F                 = 0x822e
	R32UI                = 0x8236
	R32I                 = 0x8235
	RG8                  = 0x822b
	RG8UI                = 0x8238
	R16F                 = 0x822d
	R16                  = 0x822a
	R16UI                = 0x8234
	R16I                 = 0x8233
	R8                   = 0x8229
	R8UI                 = 0x8232
	RGB565               = 0x8d62
	COMPRESSED_DXT1      = 0x83f1
	COMPRESSED_DXT1_SRGB = 0x8c4d
	COMPRESSED_DXT3      = 0x83f2
	COMPRESSED_DXT5      = 0x83f3
	COMPRESSED_DXT5_SRGB = 0x8c4f
)

// textureTriple is the internal format, pixel format and pixel type of
// a texture format.
type textureTriple struct {
	internalFormat Enum
	format         Enum
	typ            Enum
}

var textureFormats = map[beholder.ExplicitFormat]textureTriple{
	beholder.FormatR32G32B32A32Float: {RGBA32F, RGBA, FLOAT},
	beholder.FormatR32G32B32A32Uint:  {RGBA32UI, RGBA_INTEGER, UNSIGNED_INT},
	beholder.FormatR32G32B32A32Sint:  {RGBA32I, RGBA_INTEGER, INT},
	beholder.FormatR32G32B32Float:    {RGB32F, RGB, FLOAT},
	beholder.FormatR32G32B32Uint:     {RGB32UI, RGB_INTEGER, UNSIGNED_INT},
	beholder.FormatR32G32B32Sint:     {RGB32I, RGB_INTEGER, INT},
	beholder.FormatR16G16B16A16Float: {RGBA16F, RGBA, HALF_FLOAT},
	beholder.FormatR16G16B16A16Unorm: {RGBA16, RGBA, UNSIGNED_SHORT},
	beholder.FormatR16G16B16A16Uint:  {RGBA16UI, RGBA_INTEGER, UNSIGNED_SHORT},
	beholder.FormatR16G16B16A16Snorm: {RGBA16_SNORM, RGBA, SHORT},
	beholder.FormatR16G16B16A16Sint:  {RGBA16I, RGBA_INTEGER, SHORT},
	beholder.FormatR32G32Float:       {RG32F, RG, FLOAT},
	beholder.FormatR32G32Uint:        {RG32UI, RG_INTEGER, UNSIGNED_INT},
	beholder.FormatR32G32Sint:        {RG32I, RG_INTEGER, INT},
	beholder.FormatR10G10B10A2Unorm:  {RGB10_A2, RGBA, UNSIGNED_INT_2_10_10_10_REV},
	beholder.FormatR10G10B10A2Uint:   {RGB10_A2UI, RGBA_INTEGER, UNSIGNED_INT_2_10_10_10_REV},
	beholder.FormatR11G11B10Float:    {R11F_G11F_B10F, RGB, UNSIGNED_INT_10F_11F_11F_REV},
	beholder.FormatR8G8B8A8Unorm:     {RGBA8, RGBA, UNSIGNED_BYTE},
	beholder.FormatR8G8B8A8UnormSrgb: {SRGB8_ALPHA8, RGBA, UNSIGNED_BYTE},
	beholder.FormatR8G8B8A8Uint:      {RGBA8UI, RGBA_INTEGER, UNSIGNED_BYTE},
	beholder.FormatR8G8B8A8Snorm:     {RGBA8_SNORM, RGBA, BYTE},
	beholder.FormatR8G8B8A8Sint:      {RGBA8I, RGBA_INTEGER, BYTE},
	beholder.FormatR16G16Float:       {RG16F, RG, HALF_FLOAT},
	beholder.FormatR16G16Unorm:       {RG16, RG, UNSIGNED_SHORT},
	beholder.FormatR16G16Uint:        {RG16UI, RG_INTEGER, UNSIGNED_SHORT},
	beholder.FormatR16G16Sint:        {RG16I, RG_INTEGER, SHORT},
	beholder.FormatR32Float:          {R32F, RED, FLOAT},
	beholder.FormatR32Uint:           {R32UI, RED_INTEGER, UNSIGNED_INT},
	beholder.FormatR32Sint:           {R32I, RED_INTEGER, INT},
	beholder.FormatR8G8Unorm:         {RG8, RG, UNSIGNED_BYTE},
	beholder.FormatR8G8Uint:          {RG8UI, RG_INTEGER, UNSIGNED_BYTE},
	beholder.FormatR16Float:          {R16F, RED, HALF_FLOAT},
	beholder.FormatR16Unorm:          {R16, RED, UNSIGNED_SHORT},
	beholder.FormatR16Uint:           {R16UI, RED_INTEGER, UNSIGNED_SHORT},
	beholder.FormatR16Sint:           {R16I, RED_INTEGER, SHORT},
	beholder.FormatR8Unorm:           {R8, RED, UNSIGNED_BYTE},
	beholder.FormatR8Uint:            {R8UI, RED_INTEGER, UNSIGNED_BYTE},
	beholder.FormatA8Unorm:           {R8, RED, UNSIGNED_BYTE},
	beholder.FormatB8G8R8A8Unorm:     {RGBA8, BGRA, UNSIGNED_BYTE},
	beholder.FormatB8G8R8A8UnormSrgb: {SRGB8_ALPHA8, BGRA, UNSIGNED_BYTE},
	beholder.FormatB5G6R5Unorm:       {RGB565, RGB, UNSIGNED_SHORT_5_6_5},
	beholder.FormatD32Float:          {DEPTH_COMPONENT32F, DEPTH_COMPONENT, FLOAT},
	beholder.FormatD24UnormS8Uint:    {DEPTH24_STENCIL8, DEPTH_STENCIL, UNSIGNED_INT_24_8},
	beholder.FormatD32FloatS8X24Uint: {DEPTH32F_STENCIL8, DEPTH_STENCIL, FLOAT_32_UNSIGNED_INT_24_8_REV},
	beholder.FormatD16Unorm:          {DEPTH_COMPONENT16, DEPTH_COMPONENT, UNSIGNED_SHORT},
	beholder.FormatBC1Unorm:          {COMPRESSED_DXT1, 0, 0},
	beholder.FormatBC1UnormSrgb:      {COMPRESSED_DXT1_SRGB, 0, 0},
	beholder.FormatBC2Unorm:          {COMPRESSED_DXT3, 0, 0},
	beholder.FormatBC3Unorm:          {COMPRESSED_DXT5, 0, 0},
	beholder.FormatBC3UnormSrgb:      {COMPRESSED_DXT5_SRGB, 0, 0},
}

func textureFormat(f beholder.ExplicitFormat) (textureTriple, error) {
	t, ok := textureFormats[f]
	if !ok {
		return textureTriple{}, fmt.Errorf("%w: gl has no texture format for %d", beholder.ErrUnsupportedFormat, f)
	}
	return t, nil
}

// vertexFormat returns the component count, component type and
// normalization of a vertex attribute format.
func vertexFormat(f beholder.ExplicitFormat) (size int, typ Enum, normalized bool, err error) {
	t, ok := textureFormats[f]
	info := f.Info()
	if !ok || info.Class == beholder.ClassDepth || info.Class == beholder.ClassCompressed {
		return 0, 0, false, fmt.Errorf("%w: gl has no vertex format for %d", beholder.ErrUnsupportedFormat, f)
	}
	switch t.typ {
	case UNSIGNED_INT_10F_11F_11F_REV, UNSIGNED_SHORT_5_6_5:
		return 0, 0, false, fmt.Errorf("%w: packed vertex format %d", beholder.ErrUnsupportedFormat, f)
	}
	if t.format == BGRA {
		return 0, 0, false, fmt.Errorf("%w: BGRA vertex format %d", beholder.ErrUnsupportedFormat, f)
	}
	normalized = info.Class == beholder.ClassUnorm || info.Class == beholder.ClassSnorm
	return info.Components, t.typ, normalized, nil
}

func comparisonFunc(c beholder.Comparison) Enum {
	switch c {
	case beholder.ComparisonNever:
		return NEVER
	case beholder.ComparisonLess:
		return LESS
	case beholder.ComparisonEqual:
		return EQUAL
	case beholder.ComparisonLessEqual:
		return LEQUAL
	case beholder.ComparisonGreater:
		return GREATER
	case beholder.ComparisonNotEqual:
		return NOTEQUAL
	case beholder.ComparisonGreaterEqual:
		return GEQUAL
	default:
		return ALWAYS
	}
}

func blendFactor(b beholder.Blend) Enum {
	switch b {
	case beholder.BlendZero:
		return ZERO
	case beholder.BlendOne:
		return ONE
	case beholder.BlendSrcColor:
		return SRC_COLOR
	case beholder.BlendInvSrcColor:
		return ONE_MINUS_SRC_COLOR
	case beholder.BlendSrcAlpha:
		return SRC_ALPHA
	case beholder.BlendInvSrcAlpha:
		return ONE_MINUS_SRC_ALPHA
	case beholder.BlendDestAlpha:
		return DST_ALPHA
	case beholder.BlendInvDestAlpha:
		return ONE_MINUS_DST_ALPHA
	case beholder.BlendDestColor:
		return DST_COLOR
	case beholder.BlendInvDestColor:
		return ONE_MINUS_DST_COLOR
	case beholder.BlendSrcAlphaSat:
		return SRC_ALPHA_SATURATE
	case beholder.BlendBlendFactor:
		return CONSTANT_COLOR
	case beholder.BlendInvBlendFactor:
		return ONE_MINUS_CONSTANT_COLOR
	case beholder.BlendSrc1Color:
		return SRC1_COLOR
	case beholder.BlendInvSrc1Color:
		return ONE_MINUS_SRC1_COLOR
	case beholder.BlendSrc1Alpha:
		return SRC1_ALPHA
	case beholder.BlendInvSrc1Alpha:
		return ONE_MINUS_SRC1_ALPHA
	default:
		return ONE
	}
}

func blendEquation(op beholder.BlendOperation) Enum {
	switch op {
	case beholder.BlendOpSubtract:
		return FUNC_SUBTRACT
	case beholder.BlendOpReverseSubtract:
		return FUNC_REVERSE_SUBTRACT
	case beholder.BlendOpMin:
		return MIN
	case beholder.BlendOpMax:
		return MAX
	default:
		return FUNC_ADD
	}
}

func stencilOp(op beholder.StencilOperation) Enum {
	switch op {
	case beholder.StencilZero:
		return ZERO
	case beholder.StencilReplace:
		return REPLACE
	case beholder.StencilIncrementSat:
		return INCR
	case beholder.StencilDecrementSat:
		return DECR
	case beholder.StencilInvert:
		return INVERT
	case beholder.StencilIncrement:
		return INCR_WRAP
	case beholder.StencilDecrement:
		return DECR_WRAP
	default:
		return KEEP
	}
}

func addressMode(m beholder.AddressMode) Enum {
	switch m {
	case beholder.AddressMirror:
		return MIRRORED_REPEAT
	case beholder.AddressClamp:
		return CLAMP_TO_EDGE
	case beholder.AddressBorder:
		return CLAMP_TO_BORDER
	case beholder.AddressMirrorOnce:
		return MIRROR_CLAMP_TO_EDGE
	default:
		return REPEAT
	}
}

// minFilter returns the minification filter. Samplers bound to textures
// without mipmaps use the variant that ignores mip levels.
func minFilter(f beholder.Filter, mips bool) Enum {
	linear := f.Min == beholder.FilterLinear || f.Anisotropic
	if !mips {
		if linear {
			return LINEAR
		}
		return NEAREST
	}
	mipLinear := f.Mip == beholder.FilterLinear || f.Anisotropic
	switch {
	case linear && mipLinear:
		return LINEAR_MIPMAP_LINEAR
	case linear:
		return LINEAR_MIPMAP_NEAREST
	case mipLinear:
		return NEAREST_MIPMAP_LINEAR
	default:
		return NEAREST_MIPMAP_NEAREST
	}
}

func magFilter(f beholder.Filter) Enum {
	if f.Mag == beholder.FilterLinear || f.Anisotropic {
		return LINEAR
	}
	return NEAREST
}

func primitiveMode(t beholder.PrimitiveTopology) (Enum, error) {
	if t.IsPatchList() {
		return PATCHES, nil
	}
	switch t {
	case beholder.TopologyPointList:
		return POINTS, nil
	case beholder.TopologyLineList:
		return LINES, nil
	case beholder.TopologyLineStrip:
		return LINE_STRIP, nil
	case beholder.TopologyTriangleList:
		return TRIANGLES, nil
	case beholder.TopologyTriangleStrip:
		return TRIANGLE_STRIP, nil
	case beholder.TopologyLineListAdjacency:
		return LINES_ADJACENCY, nil
	case beholder.TopologyLineStripAdjacency:
		return LINE_STRIP_ADJACENCY, nil
	case beholder.TopologyTriangleListAdjacency:
		return TRIANGLES_ADJACENCY, nil
	case beholder.TopologyTriangleStripAdjacency:
		return TRIANGLE_STRIP_ADJACENCY, nil
	default:
		return 0, fmt.Errorf("%w: primitive topology %d", beholder.ErrInvalidDescription, t)
	}
}

func indexType(f beholder.IndexFormat) Enum {
	if f == beholder.IndexUint32 {
		return UNSIGNED_INT
	}
	return UNSIGNED_SHORT
}

func bufferUsage(u beholder.Usage) Enum {
	switch u {
	case beholder.UsageDynamic:
		return DYNAMIC_DRAW
	case beholder.UsageStaging:
		return STREAM_READ
	default:
		return STATIC_DRAW
	}
}

// textureTarget returns the texture target of a view or resource dimension.
func textureTarget(d beholder.ViewDimension) (Enum, error) {
	switch d {
	case beholder.ViewTexture1D:
		return TEXTURE_1D, nil
	case beholder.ViewTexture1DArray:
		return TEXTURE_1D_ARRAY, nil
	case beholder.ViewTexture2D:
		return TEXTURE_2D, nil
	case beholder.ViewTexture2DArray:
		return TEXTURE_2D_ARRAY, nil
	case beholder.ViewTexture2DMS:
		return TEXTURE_2D_MULTISAMPLE, nil
	case beholder.ViewTexture2DMSArray:
		return TEXTURE_2D_MULTISAMPLE_ARRAY, nil
	case beholder.ViewTexture3D:
		return TEXTURE_3D, nil
	case beholder.ViewTextureCube:
		return TEXTURE_CUBE_MAP, nil
	case beholder.ViewTextureCubeArray:
		return TEXTURE_CUBE_MAP_ARRAY, nil
	default:
		return 0, fmt.Errorf("%w: gl view dimension %d", beholder.ErrNotSupported, d)
	}
}
