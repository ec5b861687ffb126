package d3d11

import (
	"fmt"

	beholder "github.com/Zulkir/Beholder-sub001"
)

var dxgiFormats = map[beholder.ExplicitFormat]uint32{
	beholder.FormatR32G32B32A32Float: DXGI_FORMAT_R32G32B32A32_FLOAT,
	beholder.FormatR32G32B32A32Uint:  DXGI_FORMAT_R32G32B32A32_UINT,
	beholder.FormatR32G32B32A32Sint:  DXGI_FORMAT_R32G32B32A32_SINT,
	beholder.FormatR32G32B32Float:    DXGI_FORMAT_R32G32B32_FLOAT,
	beholder.FormatR32G32B32Uint:     DXGI_FORMAT_R32G32B32_UINT,
	beholder.FormatR32G32B32Sint:     DXGI_FORMAT_R32G32B32_SINT,
	beholder.FormatR16G16B16A16Float: DXGI_FORMAT_R16G16B16A16_FLOAT,
	beholder.FormatR16G16B16A16Unorm: DXGI_FORMAT_R16G16B16A16_UNORM,
	beholder.FormatR16G16B16A16Uint:  DXGI_FORMAT_R16G16B16A16_UINT,
	beholder.FormatR16G16B16A16Snorm: DXGI_FORMAT_R16G16B16A16_SNORM,
	beholder.FormatR16G16B16A16Sint:  DXGI_FORMAT_R16G16B16A16_SINT,
	beholder.FormatR32G32Float:       DXGI_FORMAT_R32G32_FLOAT,
	beholder.FormatR32G32Uint:        DXGI_FORMAT_R32G32_UINT,
	beholder.FormatR32G32Sint:        DXGI_FORMAT_R32G32_SINT,
	beholder.FormatR10G10B10A2Unorm:  DXGI_FORMAT_R10G10B10A2_UNORM,
	beholder.FormatR10G10B10A2Uint:   DXGI_FORMAT_R10G10B10A2_UINT,
	beholder.FormatR11G11B10Float:    DXGI_FORMAT_R11G11B10_FLOAT,
	beholder.FormatR8G8B8A8Unorm:     DXGI_FORMAT_R8G8B8A8_UNORM,
	beholder.FormatR8G8B8A8UnormSrgb: DXGI_FORMAT_R8G8B8A8_UNORM_SRGB,
	beholder.FormatR8G8B8A8Uint:      DXGI_FORMAT_R8G8B8A8_UINT,
	beholder.FormatR8G8B8A8Snorm:     DXGI_FORMAT_R8G8B8A8_SNORM,
	beholder.FormatR8G8B8A8Sint:      DXGI_FORMAT_R8G8B8A8_SINT,
	beholder.FormatR16G16Float:       DXGI_FORMAT_R16G16_FLOAT,
	beholder.FormatR16G16Unorm:       DXGI_FORMAT_R16G16_UNORM,
	beholder.FormatR16G16Uint:        DXGI_FORMAT_R16G16_UINT,
	beholder.FormatR16G16Sint:        DXGI_FORMAT_R16G16_SINT,
	beholder.FormatR32Float:          DXGI_FORMAT_R32_FLOAT,
	beholder.FormatR32Uint:           DXGI_FORMAT_R32_UINT,
	beholder.FormatR32Sint:           DXGI_FORMAT_R32_SINT,
	beholder.FormatR8G8Unorm:         DXGI_FORMAT_R8G8_UNORM,
	beholder.FormatR8G8Uint:          DXGI_FORMAT_R8G8_UINT,
	beholder.FormatR16Float:          DXGI_FORMAT_R16_FLOAT,
	beholder.FormatR16Unorm:          DXGI_FORMAT_R16_UNORM,
	beholder.FormatR16Uint:           DXGI_FORMAT_R16_UINT,
	beholder.FormatR16Sint:           DXGI_FORMAT_R16_SINT,
	beholder.FormatR8Unorm:           DXGI_FORMAT_R8_UNORM,
	beholder.FormatR8Uint:            DXGI_FORMAT_R8_UINT,
	beholder.FormatA8Unorm:           DXGI_FORMAT_A8_UNORM,
	beholder.FormatB8G8R8A8Unorm:     DXGI_FORMAT_B8G8R8A8_UNORM,
	beholder.FormatB8G8R8A8UnormSrgb: DXGI_FORMAT_B8G8R8A8_UNORM_SRGB,
	beholder.FormatB5G6R5Unorm:       DXGI_FORMAT_B5G6R5_UNORM,
	beholder.FormatD32Float:          DXGI_FORMAT_D32_FLOAT,
	beholder.FormatD24UnormS8Uint:    DXGI_FORMAT_D24_UNORM_S8_UINT,
	beholder.FormatD32FloatS8X24Uint: DXGI_FORMAT_D32_FLOAT_S8X24_UINT,
	beholder.FormatD16Unorm:          DXGI_FORMAT_D16_UNORM,
	beholder.FormatBC1Unorm:          DXGI_FORMAT_BC1_UNORM,
	beholder.FormatBC1UnormSrgb:      DXGI_FORMAT_BC1_UNORM_SRGB,
	beholder.FormatBC2Unorm:          DXGI_FORMAT_BC2_UNORM,
	beholder.FormatBC3Unorm:          DXGI_FORMAT_BC3_UNORM,
	beholder.FormatBC3UnormSrgb:      DXGI_FORMAT_BC3_UNORM_SRGB,
}

// dxgiFormat translates f. FormatUnknown is passed through for views
// that inherit the resource format.
func dxgiFormat(f beholder.ExplicitFormat) (uint32, error) {
	if f == beholder.FormatUnknown {
		return DXGI_FORMAT_UNKNOWN, nil
	}
	if v, ok := dxgiFormats[f]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("%w: d3d11 format %d", beholder.ErrUnsupportedFormat, f)
}

func indexFormat(f beholder.IndexFormat) uint32 {
	if f == beholder.IndexUint32 {
		return DXGI_FORMAT_R32_UINT
	}
	return DXGI_FORMAT_R16_UINT
}

func usage(u beholder.Usage) uint32 {
	switch u {
	case beholder.UsageImmutable:
		return USAGE_IMMUTABLE
	case beholder.UsageDynamic:
		return USAGE_DYNAMIC
	case beholder.UsageStaging:
		return USAGE_STAGING
	default:
		return USAGE_DEFAULT
	}
}

func cpuAccess(u beholder.Usage) uint32 {
	switch u {
	case beholder.UsageDynamic:
		return CPU_ACCESS_WRITE
	case beholder.UsageStaging:
		return CPU_ACCESS_READ | CPU_ACCESS_WRITE
	default:
		return 0
	}
}

func bindFlags(b beholder.BindFlags) uint32 {
	var out uint32
	for _, m := range [...]struct {
		from beholder.BindFlags
		to   uint32
	}{
		{beholder.BindVertexBuffer, BIND_VERTEX_BUFFER},
		{beholder.BindIndexBuffer, BIND_INDEX_BUFFER},
		{beholder.BindUniformBuffer, BIND_CONSTANT_BUFFER},
		{beholder.BindShaderResource, BIND_SHADER_RESOURCE},
		{beholder.BindStreamOutput, BIND_STREAM_OUTPUT},
		{beholder.BindRenderTarget, BIND_RENDER_TARGET},
		{beholder.BindDepthStencil, BIND_DEPTH_STENCIL},
		{beholder.BindUnorderedAccess, BIND_UNORDERED_ACCESS},
	} {
		if b.Has(m.from) {
			out |= m.to
		}
	}
	return out
}

func miscFlags(f beholder.MiscFlags) uint32 {
	var out uint32
	for _, m := range [...]struct {
		from beholder.MiscFlags
		to   uint32
	}{
		{beholder.MiscGenerateMips, RESOURCE_MISC_GENERATE_MIPS},
		{beholder.MiscTextureCube, RESOURCE_MISC_TEXTURECUBE},
		{beholder.MiscDrawIndirectArgs, RESOURCE_MISC_DRAWINDIRECT_ARGS},
		{beholder.MiscBufferStructured, RESOURCE_MISC_BUFFER_STRUCTURED},
		{beholder.MiscBufferAllowRawViews, RESOURCE_MISC_BUFFER_ALLOW_RAW_VIEWS},
	} {
		if f.Has(m.from) {
			out |= m.to
		}
	}
	return out
}

func mapType(mt beholder.MapType) uint32 {
	switch mt {
	case beholder.MapWrite:
		return MAP_WRITE
	case beholder.MapReadWrite:
		return MAP_READ_WRITE
	case beholder.MapWriteDiscard:
		return MAP_WRITE_DISCARD
	case beholder.MapWriteNoOverwrite:
		return MAP_WRITE_NO_OVERWRITE
	default:
		return MAP_READ
	}
}

func primitiveTopology(t beholder.PrimitiveTopology) (uint32, error) {
	if n := t.PatchControlPoints(); n > 0 {
		return PRIMITIVE_TOPOLOGY_1_CONTROL_POINT_PATCHLIST + uint32(n-1), nil
	}
	switch t {
	case beholder.TopologyPointList:
		return PRIMITIVE_TOPOLOGY_POINTLIST, nil
	case beholder.TopologyLineList:
		return PRIMITIVE_TOPOLOGY_LINELIST, nil
	case beholder.TopologyLineStrip:
		return PRIMITIVE_TOPOLOGY_LINESTRIP, nil
	case beholder.TopologyTriangleList:
		return PRIMITIVE_TOPOLOGY_TRIANGLELIST, nil
	case beholder.TopologyTriangleStrip:
		return PRIMITIVE_TOPOLOGY_TRIANGLESTRIP, nil
	case beholder.TopologyLineListAdjacency:
		return PRIMITIVE_TOPOLOGY_LINELIST_ADJ, nil
	case beholder.TopologyLineStripAdjacency:
		return PRIMITIVE_TOPOLOGY_LINESTRIP_ADJ, nil
	case beholder.TopologyTriangleListAdjacency:
		return PRIMITIVE_TOPOLOGY_TRIANGLELIST_ADJ, nil
	case beholder.TopologyTriangleStripAdjacency:
		return PRIMITIVE_TOPOLOGY_TRIANGLESTRIP_ADJ, nil
	case beholder.TopologyUndefined:
		return PRIMITIVE_TOPOLOGY_UNDEFINED, nil
	}
	return 0, fmt.Errorf("%w: primitive topology %d", beholder.ErrInvalidDescription, t)
}

func blendFactor(b beholder.Blend) uint32 {
	switch b {
	case beholder.BlendZero:
		return BLEND_ZERO
	case beholder.BlendOne:
		return BLEND_ONE
	case beholder.BlendSrcColor:
		return BLEND_SRC_COLOR
	case beholder.BlendInvSrcColor:
		return BLEND_INV_SRC_COLOR
	case beholder.BlendSrcAlpha:
		return BLEND_SRC_ALPHA
	case beholder.BlendInvSrcAlpha:
		return BLEND_INV_SRC_ALPHA
	case beholder.BlendDestAlpha:
		return BLEND_DEST_ALPHA
	case beholder.BlendInvDestAlpha:
		return BLEND_INV_DEST_ALPHA
	case beholder.BlendDestColor:
		return BLEND_DEST_COLOR
	case beholder.BlendInvDestColor:
		return BLEND_INV_DEST_COLOR
	case beholder.BlendSrcAlphaSat:
		return BLEND_SRC_ALPHA_SAT
	case beholder.BlendBlendFactor:
		return BLEND_BLEND_FACTOR
	case beholder.BlendInvBlendFactor:
		return BLEND_INV_BLEND_FACTOR
	case beholder.BlendSrc1Color:
		return BLEND_SRC1_COLOR
	case beholder.BlendInvSrc1Color:
		return BLEND_INV_SRC1_COLOR
	case beholder.BlendSrc1Alpha:
		return BLEND_SRC1_ALPHA
	case beholder.BlendInvSrc1Alpha:
		return BLEND_INV_SRC1_ALPHA
	default:
		panic("unsupported blend factor")
	}
}

func blendOp(op beholder.BlendOperation) uint32 {
	switch op {
	case beholder.BlendOpSubtract:
		return BLEND_OP_SUBTRACT
	case beholder.BlendOpReverseSubtract:
		return BLEND_OP_REV_SUBTRACT
	case beholder.BlendOpMin:
		return BLEND_OP_MIN
	case beholder.BlendOpMax:
		return BLEND_OP_MAX
	default:
		return BLEND_OP_ADD
	}
}

func comparison(c beholder.Comparison) uint32 {
	switch c {
	case beholder.ComparisonNever:
		return COMPARISON_NEVER
	case beholder.ComparisonLess:
		return COMPARISON_LESS
	case beholder.ComparisonEqual:
		return COMPARISON_EQUAL
	case beholder.ComparisonLessEqual:
		return COMPARISON_LESS_EQUAL
	case beholder.ComparisonGreater:
		return COMPARISON_GREATER
	case beholder.ComparisonNotEqual:
		return COMPARISON_NOT_EQUAL
	case beholder.ComparisonGreaterEqual:
		return COMPARISON_GREATER_EQUAL
	default:
		return COMPARISON_ALWAYS
	}
}

func stencilOp(op beholder.StencilOperation) uint32 {
	switch op {
	case beholder.StencilZero:
		return STENCIL_OP_ZERO
	case beholder.StencilReplace:
		return STENCIL_OP_REPLACE
	case beholder.StencilIncrementSat:
		return STENCIL_OP_INCR_SAT
	case beholder.StencilDecrementSat:
		return STENCIL_OP_DECR_SAT
	case beholder.StencilInvert:
		return STENCIL_OP_INVERT
	case beholder.StencilIncrement:
		return STENCIL_OP_INCR
	case beholder.StencilDecrement:
		return STENCIL_OP_DECR
	default:
		return STENCIL_OP_KEEP
	}
}

func filter(f beholder.Filter) uint32 {
	var out uint32
	if f.Anisotropic {
		out = FILTER_ANISOTROPIC
	} else {
		if f.Min == beholder.FilterLinear {
			out |= FILTER_MIN_LINEAR
		}
		if f.Mag == beholder.FilterLinear {
			out |= FILTER_MAG_LINEAR
		}
		if f.Mip == beholder.FilterLinear {
			out |= FILTER_MIP_LINEAR
		}
	}
	if f.Comparison {
		out |= FILTER_COMPARISON
	}
	return out
}

func addressMode(m beholder.AddressMode) uint32 {
	switch m {
	case beholder.AddressMirror:
		return TEXTURE_ADDRESS_MIRROR
	case beholder.AddressClamp:
		return TEXTURE_ADDRESS_CLAMP
	case beholder.AddressBorder:
		return TEXTURE_ADDRESS_BORDER
	case beholder.AddressMirrorOnce:
		return TEXTURE_ADDRESS_MIRROR_ONCE
	default:
		return TEXTURE_ADDRESS_WRAP
	}
}

func rasterizerDesc(d beholder.RasterizerDescription) RASTERIZER_DESC {
	out := RASTERIZER_DESC{
		FillMode:              FILL_SOLID,
		CullMode:              CULL_NONE,
		FrontCounterClockwise: d.FrontFaceWinding == beholder.WindingCounterClockwise,
		DepthBias:             int32(d.DepthBias),
		DepthBiasClamp:        d.DepthBiasClamp,
		SlopeScaledDepthBias:  d.SlopeScaledDepthBias,
		DepthClipEnable:       d.DepthClipEnable,
		ScissorEnable:         d.ScissorEnable,
		MultisampleEnable:     d.MultisampleEnable,
		AntialiasedLineEnable: d.AntialiasedLineEnable,
	}
	if d.FillMode == beholder.FillWireframe {
		out.FillMode = FILL_WIREFRAME
	}
	switch d.CullMode {
	case beholder.CullFront:
		out.CullMode = CULL_FRONT
	case beholder.CullBack:
		out.CullMode = CULL_BACK
	}
	return out
}

func blendDesc(d beholder.BlendDescription) BLEND_DESC {
	out := BLEND_DESC{
		AlphaToCoverageEnable:  d.AlphaToCoverageEnable,
		IndependentBlendEnable: d.IndependentBlendEnable,
	}
	for i, rt := range d.RenderTargets {
		out.RenderTarget[i] = RENDER_TARGET_BLEND_DESC{
			BlendEnable:           rt.BlendEnable,
			SrcBlend:              blendFactor(rt.SrcBlend),
			DestBlend:             blendFactor(rt.DestBlend),
			BlendOp:               blendOp(rt.BlendOp),
			SrcBlendAlpha:         blendFactor(rt.SrcBlendAlpha),
			DestBlendAlpha:        blendFactor(rt.DestBlendAlpha),
			BlendOpAlpha:          blendOp(rt.BlendOpAlpha),
			RenderTargetWriteMask: uint8(rt.WriteMask),
		}
	}
	return out
}

func stencilFace(f beholder.StencilFace) DEPTH_STENCILOP_DESC {
	return DEPTH_STENCILOP_DESC{
		StencilFailOp:      stencilOp(f.StencilFailOp),
		StencilDepthFailOp: stencilOp(f.StencilDepthFailOp),
		StencilPassOp:      stencilOp(f.StencilPassOp),
		StencilFunc:        comparison(f.StencilFunc),
	}
}

func depthStencilDesc(d beholder.DepthStencilDescription) DEPTH_STENCIL_DESC {
	out := DEPTH_STENCIL_DESC{
		DepthEnable:      d.DepthEnable,
		DepthWriteMask:   DEPTH_WRITE_MASK_ZERO,
		DepthFunc:        comparison(d.DepthFunc),
		StencilEnable:    d.StencilEnable,
		StencilReadMask:  d.StencilReadMask,
		StencilWriteMask: d.StencilWriteMask,
		FrontFace:        stencilFace(d.FrontFace),
		BackFace:         stencilFace(d.BackFace),
	}
	if d.DepthWriteEnable {
		out.DepthWriteMask = DEPTH_WRITE_MASK_ALL
	}
	return out
}

func samplerDesc(d beholder.SamplerDescription) SAMPLER_DESC {
	c := d.BorderColor
	return SAMPLER_DESC{
		Filter:         filter(d.Filter),
		AddressU:       addressMode(d.AddressU),
		AddressV:       addressMode(d.AddressV),
		AddressW:       addressMode(d.AddressW),
		MipLODBias:     d.MipLodBias,
		MaxAnisotropy:  uint32(max(d.MaxAnisotropy, 1)),
		ComparisonFunc: comparison(d.ComparisonFunction),
		BorderColor:    [4]float32{c.R, c.G, c.B, c.A},
		MinLOD:         d.MinimumLod,
		MaxLOD:         d.MaximumLod,
	}
}

func srvDimension(d beholder.ViewDimension) (uint32, error) {
	switch d {
	case beholder.ViewBuffer:
		return SRV_DIMENSION_BUFFEREX, nil
	case beholder.ViewTexture1D:
		return SRV_DIMENSION_TEXTURE1D, nil
	case beholder.ViewTexture1DArray:
		return SRV_DIMENSION_TEXTURE1DARRAY, nil
	case beholder.ViewTexture2D:
		return SRV_DIMENSION_TEXTURE2D, nil
	case beholder.ViewTexture2DArray:
		return SRV_DIMENSION_TEXTURE2DARRAY, nil
	case beholder.ViewTexture2DMS:
		return SRV_DIMENSION_TEXTURE2DMS, nil
	case beholder.ViewTexture2DMSArray:
		return SRV_DIMENSION_TEXTURE2DMSARRAY, nil
	case beholder.ViewTexture3D:
		return SRV_DIMENSION_TEXTURE3D, nil
	case beholder.ViewTextureCube:
		return SRV_DIMENSION_TEXTURECUBE, nil
	case beholder.ViewTextureCubeArray:
		return SRV_DIMENSION_TEXTURECUBEARRAY, nil
	}
	return 0, fmt.Errorf("%w: shader resource view dimension %d", beholder.ErrInvalidDescription, d)
}

func rtvDimension(d beholder.ViewDimension) (uint32, error) {
	switch d {
	case beholder.ViewTexture1D:
		return RTV_DIMENSION_TEXTURE1D, nil
	case beholder.ViewTexture1DArray:
		return RTV_DIMENSION_TEXTURE1DARRAY, nil
	case beholder.ViewTexture2D:
		return RTV_DIMENSION_TEXTURE2D, nil
	case beholder.ViewTexture2DArray, beholder.ViewTextureCube, beholder.ViewTextureCubeArray:
		return RTV_DIMENSION_TEXTURE2DARRAY, nil
	case beholder.ViewTexture2DMS:
		return RTV_DIMENSION_TEXTURE2DMS, nil
	case beholder.ViewTexture2DMSArray:
		return RTV_DIMENSION_TEXTURE2DMSARRAY, nil
	case beholder.ViewTexture3D:
		return RTV_DIMENSION_TEXTURE3D, nil
	}
	return 0, fmt.Errorf("%w: render target view dimension %d", beholder.ErrInvalidDescription, d)
}

func dsvDimension(d beholder.ViewDimension) (uint32, error) {
	switch d {
	case beholder.ViewTexture1D:
		return DSV_DIMENSION_TEXTURE1D, nil
	case beholder.ViewTexture1DArray:
		return DSV_DIMENSION_TEXTURE1DARRAY, nil
	case beholder.ViewTexture2D:
		return DSV_DIMENSION_TEXTURE2D, nil
	case beholder.ViewTexture2DArray, beholder.ViewTextureCube, beholder.ViewTextureCubeArray:
		return DSV_DIMENSION_TEXTURE2DARRAY, nil
	case beholder.ViewTexture2DMS:
		return DSV_DIMENSION_TEXTURE2DMS, nil
	case beholder.ViewTexture2DMSArray:
		return DSV_DIMENSION_TEXTURE2DMSARRAY, nil
	}
	return 0, fmt.Errorf("%w: depth-stencil view dimension %d", beholder.ErrInvalidDescription, d)
}

func uavDimension(d beholder.ViewDimension) (uint32, error) {
	switch d {
	case beholder.ViewBuffer:
		return UAV_DIMENSION_BUFFER, nil
	case beholder.ViewTexture1D:
		return UAV_DIMENSION_TEXTURE1D, nil
	case beholder.ViewTexture1DArray:
		return UAV_DIMENSION_TEXTURE1DARRAY, nil
	case beholder.ViewTexture2D:
		return UAV_DIMENSION_TEXTURE2D, nil
	case beholder.ViewTexture2DArray, beholder.ViewTextureCube, beholder.ViewTextureCubeArray:
		return UAV_DIMENSION_TEXTURE2DARRAY, nil
	case beholder.ViewTexture3D:
		return UAV_DIMENSION_TEXTURE3D, nil
	}
	return 0, fmt.Errorf("%w: unordered access view dimension %d", beholder.ErrInvalidDescription, d)
}
