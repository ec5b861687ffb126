package hal

import (
	"fmt"

	"github.com/gogpu/gputypes"
	wgpu "github.com/gogpu/wgpu/hal"

	beholder "github.com/Zulkir/Beholder-sub001"
	"github.com/Zulkir/Beholder-sub001/shader"
	"github.com/Zulkir/Beholder-sub001/shader/wgslreflect"
)

var textureFormats = map[beholder.ExplicitFormat]gputypes.TextureFormat{
	beholder.FormatR32G32B32A32Float: gputypes.TextureFormatRGBA32Float,
	beholder.FormatR32G32B32A32Uint:  gputypes.TextureFormatRGBA32Uint,
	beholder.FormatR32G32B32A32Sint:  gputypes.TextureFormatRGBA32Sint,
	beholder.FormatR16G16B16A16Float: gputypes.TextureFormatRGBA16Float,
	beholder.FormatR16G16B16A16Unorm: gputypes.TextureFormatRGBA16Unorm,
	beholder.FormatR16G16B16A16Uint:  gputypes.TextureFormatRGBA16Uint,
	beholder.FormatR16G16B16A16Snorm: gputypes.TextureFormatRGBA16Snorm,
	beholder.FormatR16G16B16A16Sint:  gputypes.TextureFormatRGBA16Sint,
	beholder.FormatR32G32Float:       gputypes.TextureFormatRG32Float,
	beholder.FormatR32G32Uint:        gputypes.TextureFormatRG32Uint,
	beholder.FormatR32G32Sint:        gputypes.TextureFormatRG32Sint,
	beholder.FormatR10G10B10A2Unorm:  gputypes.TextureFormatRGB10A2Unorm,
	beholder.FormatR10G10B10A2Uint:   gputypes.TextureFormatRGB10A2Uint,
	beholder.FormatR11G11B10Float:    gputypes.TextureFormatRG11B10Ufloat,
	beholder.FormatR8G8B8A8Unorm:     gputypes.TextureFormatRGBA8Unorm,
	beholder.FormatR8G8B8A8UnormSrgb: gputypes.TextureFormatRGBA8UnormSrgb,
	beholder.FormatR8G8B8A8Uint:      gputypes.TextureFormatRGBA8Uint,
	beholder.FormatR8G8B8A8Snorm:     gputypes.TextureFormatRGBA8Snorm,
	beholder.FormatR8G8B8A8Sint:      gputypes.TextureFormatRGBA8Sint,
	beholder.FormatR16G16Float:       gputypes.TextureFormatRG16Float,
	beholder.FormatR16G16Unorm:       gputypes.TextureFormatRG16Unorm,
	beholder.FormatR16G16Uint:        gputypes.TextureFormatRG16Uint,
	beholder.FormatR16G16Sint:        gputypes.TextureFormatRG16Sint,
	beholder.FormatR32Float:          gputypes.TextureFormatR32Float,
	beholder.FormatR32Uint:           gputypes.TextureFormatR32Uint,
	beholder.FormatR32Sint:           gputypes.TextureFormatR32Sint,
	beholder.FormatR8G8Unorm:         gputypes.TextureFormatRG8Unorm,
	beholder.FormatR8G8Uint:          gputypes.TextureFormatRG8Uint,
	beholder.FormatR16Float:          gputypes.TextureFormatR16Float,
	beholder.FormatR16Unorm:          gputypes.TextureFormatR16Unorm,
	beholder.FormatR16Uint:           gputypes.TextureFormatR16Uint,
	beholder.FormatR16Sint:           gputypes.TextureFormatR16Sint,
	beholder.FormatR8Unorm:           gputypes.TextureFormatR8Unorm,
	beholder.FormatR8Uint:            gputypes.TextureFormatR8Uint,
	beholder.FormatB8G8R8A8Unorm:     gputypes.TextureFormatBGRA8Unorm,
	beholder.FormatB8G8R8A8UnormSrgb: gputypes.TextureFormatBGRA8UnormSrgb,
	beholder.FormatD32Float:          gputypes.TextureFormatDepth32Float,
	beholder.FormatD24UnormS8Uint:    gputypes.TextureFormatDepth24PlusStencil8,
	beholder.FormatD32FloatS8X24Uint: gputypes.TextureFormatDepth32FloatStencil8,
	beholder.FormatD16Unorm:          gputypes.TextureFormatDepth16Unorm,
	beholder.FormatBC1Unorm:          gputypes.TextureFormatBC1RGBAUnorm,
	beholder.FormatBC1UnormSrgb:      gputypes.TextureFormatBC1RGBAUnormSrgb,
	beholder.FormatBC2Unorm:          gputypes.TextureFormatBC2RGBAUnorm,
	beholder.FormatBC3Unorm:          gputypes.TextureFormatBC3RGBAUnorm,
	beholder.FormatBC3UnormSrgb:      gputypes.TextureFormatBC3RGBAUnormSrgb,
}

func textureFormat(f beholder.ExplicitFormat) (gputypes.TextureFormat, error) {
	if tf, ok := textureFormats[f]; ok {
		return tf, nil
	}
	return gputypes.TextureFormatUndefined, fmt.Errorf("%w: %d has no hal texture format", beholder.ErrUnsupportedFormat, f)
}

// beholderFormat is the reverse of textureFormat, for surface formats
// reported by a host.
func beholderFormat(tf gputypes.TextureFormat) beholder.ExplicitFormat {
	for f, native := range textureFormats {
		if native == tf {
			return f
		}
	}
	return beholder.FormatUnknown
}

var vertexFormats = map[beholder.ExplicitFormat]gputypes.VertexFormat{
	beholder.FormatR32G32B32A32Float: gputypes.VertexFormatFloat32x4,
	beholder.FormatR32G32B32A32Uint:  gputypes.VertexFormatUint32x4,
	beholder.FormatR32G32B32A32Sint:  gputypes.VertexFormatSint32x4,
	beholder.FormatR32G32B32Float:    gputypes.VertexFormatFloat32x3,
	beholder.FormatR32G32B32Uint:     gputypes.VertexFormatUint32x3,
	beholder.FormatR32G32B32Sint:     gputypes.VertexFormatSint32x3,
	beholder.FormatR16G16B16A16Float: gputypes.VertexFormatFloat16x4,
	beholder.FormatR16G16B16A16Unorm: gputypes.VertexFormatUnorm16x4,
	beholder.FormatR16G16B16A16Uint:  gputypes.VertexFormatUint16x4,
	beholder.FormatR16G16B16A16Snorm: gputypes.VertexFormatSnorm16x4,
	beholder.FormatR16G16B16A16Sint:  gputypes.VertexFormatSint16x4,
	beholder.FormatR32G32Float:       gputypes.VertexFormatFloat32x2,
	beholder.FormatR32G32Uint:        gputypes.VertexFormatUint32x2,
	beholder.FormatR32G32Sint:        gputypes.VertexFormatSint32x2,
	beholder.FormatR10G10B10A2Unorm:  gputypes.VertexFormatUnorm1010102,
	beholder.FormatR8G8B8A8Unorm:     gputypes.VertexFormatUnorm8x4,
	beholder.FormatR8G8B8A8Uint:      gputypes.VertexFormatUint8x4,
	beholder.FormatR8G8B8A8Snorm:     gputypes.VertexFormatSnorm8x4,
	beholder.FormatR8G8B8A8Sint:      gputypes.VertexFormatSint8x4,
	beholder.FormatR16G16Float:       gputypes.VertexFormatFloat16x2,
	beholder.FormatR16G16Unorm:       gputypes.VertexFormatUnorm16x2,
	beholder.FormatR16G16Uint:        gputypes.VertexFormatUint16x2,
	beholder.FormatR16G16Sint:        gputypes.VertexFormatSint16x2,
	beholder.FormatR32Float:          gputypes.VertexFormatFloat32,
	beholder.FormatR32Uint:           gputypes.VertexFormatUint32,
	beholder.FormatR32Sint:           gputypes.VertexFormatSint32,
	beholder.FormatR8G8Unorm:         gputypes.VertexFormatUnorm8x2,
	beholder.FormatR8G8Uint:          gputypes.VertexFormatUint8x2,
}

func vertexFormat(f beholder.ExplicitFormat) (gputypes.VertexFormat, error) {
	if vf, ok := vertexFormats[f]; ok {
		return vf, nil
	}
	return gputypes.VertexFormatUndefined, fmt.Errorf("%w: %d has no hal vertex format", beholder.ErrUnsupportedFormat, f)
}

func blendFactor(b beholder.Blend) (gputypes.BlendFactor, error) {
	switch b {
	case beholder.BlendZero:
		return gputypes.BlendFactorZero, nil
	case beholder.BlendOne:
		return gputypes.BlendFactorOne, nil
	case beholder.BlendSrcColor:
		return gputypes.BlendFactorSrc, nil
	case beholder.BlendInvSrcColor:
		return gputypes.BlendFactorOneMinusSrc, nil
	case beholder.BlendSrcAlpha:
		return gputypes.BlendFactorSrcAlpha, nil
	case beholder.BlendInvSrcAlpha:
		return gputypes.BlendFactorOneMinusSrcAlpha, nil
	case beholder.BlendDestAlpha:
		return gputypes.BlendFactorDstAlpha, nil
	case beholder.BlendInvDestAlpha:
		return gputypes.BlendFactorOneMinusDstAlpha, nil
	case beholder.BlendDestColor:
		return gputypes.BlendFactorDst, nil
	case beholder.BlendInvDestColor:
		return gputypes.BlendFactorOneMinusDst, nil
	case beholder.BlendSrcAlphaSat:
		return gputypes.BlendFactorSrcAlphaSaturated, nil
	case beholder.BlendBlendFactor:
		return gputypes.BlendFactorConstant, nil
	case beholder.BlendInvBlendFactor:
		return gputypes.BlendFactorOneMinusConstant, nil
	case beholder.BlendSrc1Color, beholder.BlendInvSrc1Color, beholder.BlendSrc1Alpha, beholder.BlendInvSrc1Alpha:
		return gputypes.BlendFactorUndefined, fmt.Errorf("%w: dual-source blend factor %d", beholder.ErrNotSupported, b)
	}
	return gputypes.BlendFactorUndefined, fmt.Errorf("%w: blend factor %d", beholder.ErrInvalidDescription, b)
}

func blendOperation(op beholder.BlendOperation) (gputypes.BlendOperation, error) {
	switch op {
	case beholder.BlendOpAdd:
		return gputypes.BlendOperationAdd, nil
	case beholder.BlendOpSubtract:
		return gputypes.BlendOperationSubtract, nil
	case beholder.BlendOpReverseSubtract:
		return gputypes.BlendOperationReverseSubtract, nil
	case beholder.BlendOpMin:
		return gputypes.BlendOperationMin, nil
	case beholder.BlendOpMax:
		return gputypes.BlendOperationMax, nil
	}
	return gputypes.BlendOperationUndefined, fmt.Errorf("%w: blend operation %d", beholder.ErrInvalidDescription, op)
}

func blendComponent(src, dst beholder.Blend, op beholder.BlendOperation) (gputypes.BlendComponent, error) {
	s, err := blendFactor(src)
	if err != nil {
		return gputypes.BlendComponent{}, err
	}
	d, err := blendFactor(dst)
	if err != nil {
		return gputypes.BlendComponent{}, err
	}
	o, err := blendOperation(op)
	if err != nil {
		return gputypes.BlendComponent{}, err
	}
	return gputypes.BlendComponent{SrcFactor: s, DstFactor: d, Operation: o}, nil
}

// colorWriteMask relies on both masks using the RGBA bit order.
func colorWriteMask(m beholder.ColorMask) gputypes.ColorWriteMask {
	return gputypes.ColorWriteMask(m & beholder.ColorMaskAll)
}

func compareFunction(c beholder.Comparison) (gputypes.CompareFunction, error) {
	switch c {
	case beholder.ComparisonNever:
		return gputypes.CompareFunctionNever, nil
	case beholder.ComparisonLess:
		return gputypes.CompareFunctionLess, nil
	case beholder.ComparisonEqual:
		return gputypes.CompareFunctionEqual, nil
	case beholder.ComparisonLessEqual:
		return gputypes.CompareFunctionLessEqual, nil
	case beholder.ComparisonGreater:
		return gputypes.CompareFunctionGreater, nil
	case beholder.ComparisonNotEqual:
		return gputypes.CompareFunctionNotEqual, nil
	case beholder.ComparisonGreaterEqual:
		return gputypes.CompareFunctionGreaterEqual, nil
	case beholder.ComparisonAlways:
		return gputypes.CompareFunctionAlways, nil
	}
	return gputypes.CompareFunctionUndefined, fmt.Errorf("%w: comparison %d", beholder.ErrInvalidDescription, c)
}

func stencilOperation(op beholder.StencilOperation) (wgpu.StencilOperation, error) {
	switch op {
	case beholder.StencilKeep:
		return wgpu.StencilOperationKeep, nil
	case beholder.StencilZero:
		return wgpu.StencilOperationZero, nil
	case beholder.StencilReplace:
		return wgpu.StencilOperationReplace, nil
	case beholder.StencilIncrementSat:
		return wgpu.StencilOperationIncrementClamp, nil
	case beholder.StencilDecrementSat:
		return wgpu.StencilOperationDecrementClamp, nil
	case beholder.StencilInvert:
		return wgpu.StencilOperationInvert, nil
	case beholder.StencilIncrement:
		return wgpu.StencilOperationIncrementWrap, nil
	case beholder.StencilDecrement:
		return wgpu.StencilOperationDecrementWrap, nil
	}
	return wgpu.StencilOperationKeep, fmt.Errorf("%w: stencil operation %d", beholder.ErrInvalidDescription, op)
}

func stencilFace(f beholder.StencilFace) (wgpu.StencilFaceState, error) {
	var out wgpu.StencilFaceState
	var err error
	if out.Compare, err = compareFunction(f.StencilFunc); err != nil {
		return out, err
	}
	if out.FailOp, err = stencilOperation(f.StencilFailOp); err != nil {
		return out, err
	}
	if out.DepthFailOp, err = stencilOperation(f.StencilDepthFailOp); err != nil {
		return out, err
	}
	if out.PassOp, err = stencilOperation(f.StencilPassOp); err != nil {
		return out, err
	}
	return out, nil
}

func cullMode(m beholder.CullMode) gputypes.CullMode {
	switch m {
	case beholder.CullFront:
		return gputypes.CullModeFront
	case beholder.CullBack:
		return gputypes.CullModeBack
	}
	return gputypes.CullModeNone
}

func frontFace(w beholder.Winding) gputypes.FrontFace {
	if w == beholder.WindingCounterClockwise {
		return gputypes.FrontFaceCCW
	}
	return gputypes.FrontFaceCW
}

func primitiveTopology(t beholder.PrimitiveTopology) (gputypes.PrimitiveTopology, error) {
	switch t {
	case beholder.TopologyPointList:
		return gputypes.PrimitiveTopologyPointList, nil
	case beholder.TopologyLineList:
		return gputypes.PrimitiveTopologyLineList, nil
	case beholder.TopologyLineStrip:
		return gputypes.PrimitiveTopologyLineStrip, nil
	case beholder.TopologyTriangleList:
		return gputypes.PrimitiveTopologyTriangleList, nil
	case beholder.TopologyTriangleStrip:
		return gputypes.PrimitiveTopologyTriangleStrip, nil
	}
	return gputypes.PrimitiveTopologyTriangleList, fmt.Errorf("%w: hal topology %d", beholder.ErrNotSupported, t)
}

func isStrip(t gputypes.PrimitiveTopology) bool {
	return t == gputypes.PrimitiveTopologyLineStrip || t == gputypes.PrimitiveTopologyTriangleStrip
}

func indexFormat(f beholder.IndexFormat) gputypes.IndexFormat {
	if f == beholder.IndexUint32 {
		return gputypes.IndexFormatUint32
	}
	return gputypes.IndexFormatUint16
}

func addressMode(m beholder.AddressMode) (gputypes.AddressMode, error) {
	switch m {
	case beholder.AddressWrap:
		return gputypes.AddressModeRepeat, nil
	case beholder.AddressMirror:
		return gputypes.AddressModeMirrorRepeat, nil
	case beholder.AddressClamp:
		return gputypes.AddressModeClampToEdge, nil
	case beholder.AddressBorder, beholder.AddressMirrorOnce:
		return gputypes.AddressModeUndefined, fmt.Errorf("%w: address mode %d", beholder.ErrNotSupported, m)
	}
	return gputypes.AddressModeUndefined, fmt.Errorf("%w: address mode %d", beholder.ErrInvalidDescription, m)
}

func filterMode(m beholder.FilterMode) gputypes.FilterMode {
	if m == beholder.FilterLinear {
		return gputypes.FilterModeLinear
	}
	return gputypes.FilterModeNearest
}

// bufferUsage always allows copies into the buffer, which
// SetSubresourceData and initial data use.
func bufferUsage(desc beholder.BufferDescription) (gputypes.BufferUsage, error) {
	u := gputypes.BufferUsageCopyDst | gputypes.BufferUsageCopySrc
	for _, m := range [...]struct {
		from beholder.BindFlags
		to   gputypes.BufferUsage
	}{
		{beholder.BindVertexBuffer, gputypes.BufferUsageVertex},
		{beholder.BindIndexBuffer, gputypes.BufferUsageIndex},
		{beholder.BindUniformBuffer, gputypes.BufferUsageUniform},
		{beholder.BindShaderResource, gputypes.BufferUsageStorage},
		{beholder.BindUnorderedAccess, gputypes.BufferUsageStorage},
	} {
		if desc.BindFlags.Has(m.from) {
			u |= m.to
		}
	}
	if desc.BindFlags.Has(beholder.BindStreamOutput) {
		return 0, fmt.Errorf("%w: stream output buffers", beholder.ErrNotSupported)
	}
	if desc.MiscFlags.Has(beholder.MiscDrawIndirectArgs) {
		u |= gputypes.BufferUsageIndirect
	}
	return u, nil
}

func textureUsage(bind beholder.BindFlags) gputypes.TextureUsage {
	u := gputypes.TextureUsageCopyDst | gputypes.TextureUsageCopySrc
	if bind.Has(beholder.BindShaderResource) {
		u |= gputypes.TextureUsageTextureBinding
	}
	if bind.Has(beholder.BindRenderTarget) || bind.Has(beholder.BindDepthStencil) {
		u |= gputypes.TextureUsageRenderAttachment
	}
	if bind.Has(beholder.BindUnorderedAccess) {
		u |= gputypes.TextureUsageStorageBinding
	}
	return u
}

func viewDimension(d beholder.ViewDimension) (gputypes.TextureViewDimension, error) {
	switch d {
	case beholder.ViewTexture1D:
		return gputypes.TextureViewDimension1D, nil
	case beholder.ViewTexture2D, beholder.ViewTexture2DMS:
		return gputypes.TextureViewDimension2D, nil
	case beholder.ViewTexture2DArray, beholder.ViewTexture2DMSArray:
		return gputypes.TextureViewDimension2DArray, nil
	case beholder.ViewTexture3D:
		return gputypes.TextureViewDimension3D, nil
	case beholder.ViewTextureCube:
		return gputypes.TextureViewDimensionCube, nil
	case beholder.ViewTextureCubeArray:
		return gputypes.TextureViewDimensionCubeArray, nil
	}
	return gputypes.TextureViewDimensionUndefined, fmt.Errorf("%w: hal view dimension %d", beholder.ErrNotSupported, d)
}

// textureBinding describes how a shader texture variable is bound.
func textureBinding(v shader.Variable, t shader.Type) gputypes.TextureBindingLayout {
	out := gputypes.TextureBindingLayout{Multisampled: t.Texture.IsMultisample()}
	switch t.Texture {
	case shader.Texture1D:
		out.ViewDimension = gputypes.TextureViewDimension1D
	case shader.Texture2DArray, shader.Texture2DMSArray:
		out.ViewDimension = gputypes.TextureViewDimension2DArray
	case shader.Texture3D:
		out.ViewDimension = gputypes.TextureViewDimension3D
	case shader.TextureCube:
		out.ViewDimension = gputypes.TextureViewDimensionCube
	case shader.TextureCubeArray:
		out.ViewDimension = gputypes.TextureViewDimensionCubeArray
	default:
		out.ViewDimension = gputypes.TextureViewDimension2D
	}
	switch v.SpecialParameters[wgslreflect.SampleParameter] {
	case "sint":
		out.SampleType = gputypes.TextureSampleTypeSint
	case "uint":
		out.SampleType = gputypes.TextureSampleTypeUint
	case "depth":
		out.SampleType = gputypes.TextureSampleTypeDepth
	default:
		out.SampleType = gputypes.TextureSampleTypeFloat
		if out.Multisampled {
			out.SampleType = gputypes.TextureSampleTypeUnfilterableFloat
		}
	}
	return out
}

func shaderStages(s shader.Stage) gputypes.ShaderStages {
	switch s {
	case shader.StageVertex:
		return gputypes.ShaderStageVertex
	case shader.StagePixel:
		return gputypes.ShaderStageFragment
	case shader.StageCompute:
		return gputypes.ShaderStageCompute
	}
	return gputypes.ShaderStageNone
}
