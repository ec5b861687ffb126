package d3d9

const (
	FMT_UNKNOWN       = 0
	FMT_A8R8G8B8      = 21
	FMT_X8R8G8B8      = 22
	FMT_R5G6B5        = 23
	FMT_A8            = 28
	FMT_A2B10G10R10   = 31
	FMT_A8B8G8R8      = 32
	FMT_G16R16        = 34
	FMT_A16B16G16R16  = 36
	FMT_L8            = 50
	FMT_Q8W8V8U8      = 63
	FMT_D24S8         = 75
	FMT_D16           = 80
	FMT_D32F_LOCKABLE = 82
	FMT_INDEX16       = 101
	FMT_INDEX32       = 102
	FMT_R16F          = 111
	FMT_G16R16F       = 112
	FMT_A16B16G16R16F = 113
	FMT_R32F          = 114
	FMT_G32R32F       = 115
	FMT_A32B32G32R32F = 116
	FMT_DXT1          = 0x31545844
	FMT_DXT3          = 0x33545844
	FMT_DXT5          = 0x35545844

	USAGE_RENDERTARGET  = 0x1
	USAGE_DEPTHSTENCIL  = 0x2
	USAGE_WRITEONLY     = 0x8
	USAGE_DYNAMIC       = 0x200
	USAGE_AUTOGENMIPMAP = 0x400

	POOL_DEFAULT   = 0
	POOL_MANAGED   = 1
	POOL_SYSTEMMEM = 2

	PT_POINTLIST     = 1
	PT_LINELIST      = 2
	PT_LINESTRIP     = 3
	PT_TRIANGLELIST  = 4
	PT_TRIANGLESTRIP = 5

	RS_ZENABLE                  = 7
	RS_FILLMODE                 = 8
	RS_ZWRITEENABLE             = 14
	RS_SRCBLEND                 = 19
	RS_DESTBLEND                = 20
	RS_CULLMODE                 = 22
	RS_ZFUNC                    = 23
	RS_ALPHABLENDENABLE         = 27
	RS_STENCILENABLE            = 52
	RS_STENCILFAIL              = 53
	RS_STENCILZFAIL             = 54
	RS_STENCILPASS              = 55
	RS_STENCILFUNC              = 56
	RS_STENCILREF               = 57
	RS_STENCILMASK              = 58
	RS_STENCILWRITEMASK         = 59
	RS_MULTISAMPLEANTIALIAS     = 161
	RS_MULTISAMPLEMASK          = 162
	RS_COLORWRITEENABLE         = 168
	RS_BLENDOP                  = 171
	RS_SCISSORTESTENABLE        = 174
	RS_SLOPESCALEDEPTHBIAS      = 175
	RS_ANTIALIASEDLINEENABLE    = 176
	RS_TWOSIDEDSTENCILMODE      = 185
	RS_CCW_STENCILFAIL          = 186
	RS_CCW_STENCILZFAIL         = 187
	RS_CCW_STENCILPASS          = 188
	RS_CCW_STENCILFUNC          = 189
	RS_COLORWRITEENABLE1        = 190
	RS_COLORWRITEENABLE2        = 191
	RS_COLORWRITEENABLE3        = 192
	RS_BLENDFACTOR              = 193
	RS_SRGBWRITEENABLE          = 194
	RS_DEPTHBIAS                = 195
	RS_SEPARATEALPHABLENDENABLE = 206
	RS_SRCBLENDALPHA            = 207
	RS_DESTBLENDALPHA           = 208
	RS_BLENDOPALPHA             = 209

	FILL_WIREFRAME = 2
	FILL_SOLID     = 3

	CULL_NONE = 1
	CULL_CW   = 2
	CULL_CCW  = 3

	BLEND_ZERO           = 1
	BLEND_ONE            = 2
	BLEND_SRCCOLOR       = 3
	BLEND_INVSRCCOLOR    = 4
	BLEND_SRCALPHA       = 5
	BLEND_INVSRCALPHA    = 6
	BLEND_DESTALPHA      = 7
	BLEND_INVDESTALPHA   = 8
	BLEND_DESTCOLOR      = 9
	BLEND_INVDESTCOLOR   = 10
	BLEND_SRCALPHASAT    = 11
	BLEND_BLENDFACTOR    = 14
	BLEND_INVBLENDFACTOR = 15

	BLENDOP_ADD         = 1
	BLENDOP_SUBTRACT    = 2
	BLENDOP_REVSUBTRACT = 3
	BLENDOP_MIN         = 4
	BLENDOP_MAX         = 5

	CMP_NEVER        = 1
	CMP_LESS         = 2
	CMP_EQUAL        = 3
	CMP_LESSEQUAL    = 4
	CMP_GREATER      = 5
	CMP_NOTEQUAL     = 6
	CMP_GREATEREQUAL = 7
	CMP_ALWAYS       = 8

	STENCILOP_KEEP    = 1
	STENCILOP_ZERO    = 2
	STENCILOP_REPLACE = 3
	STENCILOP_INCRSAT = 4
	STENCILOP_DECRSAT = 5
	STENCILOP_INVERT  = 6
	STENCILOP_INCR    = 7
	STENCILOP_DECR    = 8

	SAMP_ADDRESSU      = 1
	SAMP_ADDRESSV      = 2
	SAMP_ADDRESSW      = 3
	SAMP_BORDERCOLOR   = 4
	SAMP_MAGFILTER     = 5
	SAMP_MINFILTER     = 6
	SAMP_MIPFILTER     = 7
	SAMP_MIPMAPLODBIAS = 8
	SAMP_MAXMIPLEVEL   = 9
	SAMP_MAXANISOTROPY = 10
	SAMP_SRGBTEXTURE   = 11

	TEXF_NONE        = 0
	TEXF_POINT       = 1
	TEXF_LINEAR      = 2
	TEXF_ANISOTROPIC = 3

	TADDRESS_WRAP       = 1
	TADDRESS_MIRROR     = 2
	TADDRESS_CLAMP      = 3
	TADDRESS_BORDER     = 4
	TADDRESS_MIRRORONCE = 5

	CLEAR_TARGET  = 0x1
	CLEAR_ZBUFFER = 0x2
	CLEAR_STENCIL = 0x4

	DECLTYPE_FLOAT1    = 0
	DECLTYPE_FLOAT2    = 1
	DECLTYPE_FLOAT3    = 2
	DECLTYPE_FLOAT4    = 3
	DECLTYPE_D3DCOLOR  = 4
	DECLTYPE_UBYTE4    = 5
	DECLTYPE_SHORT2    = 6
	DECLTYPE_SHORT4    = 7
	DECLTYPE_UBYTE4N   = 8
	DECLTYPE_SHORT2N   = 9
	DECLTYPE_SHORT4N   = 10
	DECLTYPE_USHORT2N  = 11
	DECLTYPE_USHORT4N  = 12
	DECLTYPE_FLOAT16_2 = 15
	DECLTYPE_FLOAT16_4 = 16
	DECLTYPE_UNUSED    = 17

	DECLMETHOD_DEFAULT = 0

	DECLUSAGE_POSITION     = 0
	DECLUSAGE_BLENDWEIGHT  = 1
	DECLUSAGE_BLENDINDICES = 2
	DECLUSAGE_NORMAL       = 3
	DECLUSAGE_PSIZE        = 4
	DECLUSAGE_TEXCOORD     = 5
	DECLUSAGE_TANGENT      = 6
	DECLUSAGE_BINORMAL     = 7
	DECLUSAGE_COLOR        = 10
	DECLUSAGE_FOG          = 11
	DECLUSAGE_DEPTH        = 12

	STREAMSOURCE_INDEXEDDATA  = 1 << 30
	STREAMSOURCE_INSTANCEDATA = 2 << 30

	VERTEXTEXTURESAMPLER0 = 257

	MAX_SIMULTANEOUS_RENDERTARGETS = 4
	MAX_PIXEL_SAMPLERS             = 16
	MAX_VERTEX_SAMPLERS            = 4
	MAX_STREAMS                    = 16
	MAX_VERTEX_CONSTANTS           = 256
	MAX_PIXEL_CONSTANTS            = 224
)
