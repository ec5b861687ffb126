package d3d11

const (
	FEATURE_LEVEL_10_0 = 0xa000
	FEATURE_LEVEL_10_1 = 0xa100
	FEATURE_LEVEL_11_0 = 0xb000
	FEATURE_LEVEL_11_1 = 0xb100

	DXGI_FORMAT_UNKNOWN              = 0
	DXGI_FORMAT_R32G32B32A32_FLOAT   = 2
	DXGI_FORMAT_R32G32B32A32_UINT    = 3
	DXGI_FORMAT_R32G32B32A32_SINT    = 4
	DXGI_FORMAT_R32G32B32_FLOAT      = 6
	DXGI_FORMAT_R32G32B32_UINT       = 7
	DXGI_FORMAT_R32G32B32_SINT       = 8
	DXGI_FORMAT_R16G16B16A16_FLOAT   = 10
	DXGI_FORMAT_R16G16B16A16_UNORM   = 11
	DXGI_FORMAT_R16G16B16A16_UINT    = 12
	DXGI_FORMAT_R16G16B16A16_SNORM   = 13
	DXGI_FORMAT_R16G16B16A16_SINT    = 14
	DXGI_FORMAT_R32G32_FLOAT         = 16
	DXGI_FORMAT_R32G32_UINT          = 17
	DXGI_FORMAT_R32G32_SINT          = 18
	DXGI_FORMAT_D32_FLOAT_S8X24_UINT = 20
	DXGI_FORMAT_R10G10B10A2_UNORM    = 24
	DXGI_FORMAT_R10G10B10A2_UINT     = 25
	DXGI_FORMAT_R11G11B10_FLOAT      = 26
	DXGI_FORMAT_R8G8B8A8_UNORM       = 28
	DXGI_FORMAT_R8G8B8A8_UNORM_SRGB  = 29
	DXGI_FORMAT_R8G8B8A8_UINT        = 30
	DXGI_FORMAT_R8G8B8A8_SNORM       = 31
	DXGI_FORMAT_R8G8B8A8_SINT        = 32
	DXGI_FORMAT_R16G16_FLOAT         = 34
	DXGI_FORMAT_R16G16_UNORM         = 35
	DXGI_FORMAT_R16G16_UINT          = 36
	DXGI_FORMAT_R16G16_SINT          = 38
	DXGI_FORMAT_D32_FLOAT            = 40
	DXGI_FORMAT_R32_FLOAT            = 41
	DXGI_FORMAT_R32_UINT             = 42
	DXGI_FORMAT_R32_SINT             = 43
	DXGI_FORMAT_D24_UNORM_S8_UINT    = 45
	DXGI_FORMAT_R8G8_UNORM           = 49
	DXGI_FORMAT_R8G8_UINT            = 50
	DXGI_FORMAT_R16_FLOAT            = 54
	DXGI_FORMAT_D16_UNORM            = 55
	DXGI_FORMAT_R16_UNORM            = 56
	DXGI_FORMAT_R16_UINT             = 57
	DXGI_FORMAT_R16_SINT             = 59
	DXGI_FORMAT_R8_UNORM             = 61
	DXGI_FORMAT_R8_UINT              = 62
	DXGI_FORMAT_A8_UNORM             = 65
	DXGI_FORMAT_BC1_UNORM            = 71
	DXGI_FORMAT_BC1_UNORM_SRGB       = 72
	DXGI_FORMAT_BC2_UNORM            = 74
	DXGI_FORMAT_BC3_UNORM            = 77
	DXGI_FORMAT_BC3_UNORM_SRGB       = 78
	DXGI_FORMAT_B5G6R5_UNORM         = 85
	DXGI_FORMAT_B8G8R8A8_UNORM       = 87
	DXGI_FORMAT_B8G8R8A8_UNORM_SRGB  = 91

	USAGE_DEFAULT   = 0
	USAGE_IMMUTABLE = 1
	USAGE_DYNAMIC   = 2
	USAGE_STAGING   = 3

	BIND_VERTEX_BUFFER    = 0x1
	BIND_INDEX_BUFFER     = 0x2
	BIND_CONSTANT_BUFFER  = 0x4
	BIND_SHADER_RESOURCE  = 0x8
	BIND_STREAM_OUTPUT    = 0x10
	BIND_RENDER_TARGET    = 0x20
	BIND_DEPTH_STENCIL    = 0x40
	BIND_UNORDERED_ACCESS = 0x80

	CPU_ACCESS_WRITE = 0x10000
	CPU_ACCESS_READ  = 0x20000

	RESOURCE_MISC_GENERATE_MIPS          = 0x1
	RESOURCE_MISC_TEXTURECUBE            = 0x4
	RESOURCE_MISC_DRAWINDIRECT_ARGS      = 0x10
	RESOURCE_MISC_BUFFER_ALLOW_RAW_VIEWS = 0x20
	RESOURCE_MISC_BUFFER_STRUCTURED      = 0x40

	MAP_READ               = 1
	MAP_WRITE              = 2
	MAP_READ_WRITE         = 3
	MAP_WRITE_DISCARD      = 4
	MAP_WRITE_NO_OVERWRITE = 5

	PRIMITIVE_TOPOLOGY_UNDEFINED         = 0
	PRIMITIVE_TOPOLOGY_POINTLIST         = 1
	PRIMITIVE_TOPOLOGY_LINELIST          = 2
	PRIMITIVE_TOPOLOGY_LINESTRIP         = 3
	PRIMITIVE_TOPOLOGY_TRIANGLELIST      = 4
	PRIMITIVE_TOPOLOGY_TRIANGLESTRIP     = 5
	PRIMITIVE_TOPOLOGY_LINELIST_ADJ      = 10
	PRIMITIVE_TOPOLOGY_LINESTRIP_ADJ     = 11
	PRIMITIVE_TOPOLOGY_TRIANGLELIST_ADJ  = 12
	PRIMITIVE_TOPOLOGY_TRIANGLESTRIP_ADJ = 13
	// Patch lists follow as 1 to 32 control points.
	PRIMITIVE_TOPOLOGY_1_CONTROL_POINT_PATCHLIST = 33

	FILL_WIREFRAME = 2
	FILL_SOLID     = 3

	CULL_NONE  = 1
	CULL_FRONT = 2
	CULL_BACK  = 3

	BLEND_ZERO             = 1
	BLEND_ONE              = 2
	BLEND_SRC_COLOR        = 3
	BLEND_INV_SRC_COLOR    = 4
	BLEND_SRC_ALPHA        = 5
	BLEND_INV_SRC_ALPHA    = 6
	BLEND_DEST_ALPHA       = 7
	BLEND_INV_DEST_ALPHA   = 8
	BLEND_DEST_COLOR       = 9
	BLEND_INV_DEST_COLOR   = 10
	BLEND_SRC_ALPHA_SAT    = 11
	BLEND_BLEND_FACTOR     = 14
	BLEND_INV_BLEND_FACTOR = 15
	BLEND_SRC1_COLOR       = 16
	BLEND_INV_SRC1_COLOR   = 17
	BLEND_SRC1_ALPHA       = 18
	BLEND_INV_SRC1_ALPHA   = 19

	BLEND_OP_ADD          = 1
	BLEND_OP_SUBTRACT     = 2
	BLEND_OP_REV_SUBTRACT = 3
	BLEND_OP_MIN          = 4
	BLEND_OP_MAX          = 5

	COMPARISON_NEVER         = 1
	COMPARISON_LESS          = 2
	COMPARISON_EQUAL         = 3
	COMPARISON_LESS_EQUAL    = 4
	COMPARISON_GREATER       = 5
	COMPARISON_NOT_EQUAL     = 6
	COMPARISON_GREATER_EQUAL = 7
	COMPARISON_ALWAYS        = 8

	STENCIL_OP_KEEP     = 1
	STENCIL_OP_ZERO     = 2
	STENCIL_OP_REPLACE  = 3
	STENCIL_OP_INCR_SAT = 4
	STENCIL_OP_DECR_SAT = 5
	STENCIL_OP_INVERT   = 6
	STENCIL_OP_INCR     = 7
	STENCIL_OP_DECR     = 8

	DEPTH_WRITE_MASK_ZERO = 0
	DEPTH_WRITE_MASK_ALL  = 1

	// Filters are built from these bits.
	FILTER_MIP_LINEAR  = 0x1
	FILTER_MAG_LINEAR  = 0x4
	FILTER_MIN_LINEAR  = 0x10
	FILTER_ANISOTROPIC = 0x55
	FILTER_COMPARISON  = 0x80

	TEXTURE_ADDRESS_WRAP        = 1
	TEXTURE_ADDRESS_MIRROR      = 2
	TEXTURE_ADDRESS_CLAMP       = 3
	TEXTURE_ADDRESS_BORDER      = 4
	TEXTURE_ADDRESS_MIRROR_ONCE = 5

	SRV_DIMENSION_BUFFER           = 1
	SRV_DIMENSION_TEXTURE1D        = 2
	SRV_DIMENSION_TEXTURE1DARRAY   = 3
	SRV_DIMENSION_TEXTURE2D        = 4
	SRV_DIMENSION_TEXTURE2DARRAY   = 5
	SRV_DIMENSION_TEXTURE2DMS      = 6
	SRV_DIMENSION_TEXTURE2DMSARRAY = 7
	SRV_DIMENSION_TEXTURE3D        = 8
	SRV_DIMENSION_TEXTURECUBE      = 9
	SRV_DIMENSION_TEXTURECUBEARRAY = 10
	SRV_DIMENSION_BUFFEREX         = 11

	RTV_DIMENSION_BUFFER           = 1
	RTV_DIMENSION_TEXTURE1D        = 2
	RTV_DIMENSION_TEXTURE1DARRAY   = 3
	RTV_DIMENSION_TEXTURE2D        = 4
	RTV_DIMENSION_TEXTURE2DARRAY   = 5
	RTV_DIMENSION_TEXTURE2DMS      = 6
	RTV_DIMENSION_TEXTURE2DMSARRAY = 7
	RTV_DIMENSION_TEXTURE3D        = 8

	DSV_DIMENSION_TEXTURE1D        = 1
	DSV_DIMENSION_TEXTURE1DARRAY   = 2
	DSV_DIMENSION_TEXTURE2D        = 3
	DSV_DIMENSION_TEXTURE2DARRAY   = 4
	DSV_DIMENSION_TEXTURE2DMS      = 5
	DSV_DIMENSION_TEXTURE2DMSARRAY = 6

	UAV_DIMENSION_BUFFER         = 1
	UAV_DIMENSION_TEXTURE1D      = 2
	UAV_DIMENSION_TEXTURE1DARRAY = 3
	UAV_DIMENSION_TEXTURE2D      = 4
	UAV_DIMENSION_TEXTURE2DARRAY = 5
	UAV_DIMENSION_TEXTURE3D      = 8

	DSV_READ_ONLY_DEPTH   = 0x1
	DSV_READ_ONLY_STENCIL = 0x2

	BUFFER_UAV_FLAG_RAW     = 0x1
	BUFFER_UAV_FLAG_APPEND  = 0x2
	BUFFER_UAV_FLAG_COUNTER = 0x4

	BUFFEREX_SRV_FLAG_RAW = 0x1

	INPUT_PER_VERTEX_DATA   = 0
	INPUT_PER_INSTANCE_DATA = 1

	CLEAR_DEPTH   = 0x1
	CLEAR_STENCIL = 0x2

	// Limits of feature level 11_0.
	SIMULTANEOUS_RENDER_TARGET_COUNT            = 8
	VIEWPORT_AND_SCISSORRECT_MAX_INDEX          = 15
	COMMONSHADER_CONSTANT_BUFFER_API_SLOT_COUNT = 14
	COMMONSHADER_INPUT_RESOURCE_SLOT_COUNT      = 128
	COMMONSHADER_SAMPLER_SLOT_COUNT             = 16
	IA_VERTEX_INPUT_RESOURCE_SLOT_COUNT         = 32
	PS_CS_UAV_REGISTER_COUNT                    = 8
)
