package gl

type (
	// Enum is a GL enumerant.
	Enum uint32

	// Object names. Zero is the null object.
	Buffer      uint32
	Texture     uint32
	Sampler     uint32
	Program     uint32
	Shader      uint32
	Framebuffer uint32
	VertexArray uint32
)

const (
	ALWAYS                         = 0x207
	ARRAY_BUFFER                   = 0x8892
	BACK                           = 0x405
	BLEND                          = 0xbe2
	BYTE                           = 0x1400
	CCW                            = 0x901
	CLAMP_TO_BORDER                = 0x812d
	CLAMP_TO_EDGE                  = 0x812f
	COLOR                          = 0x1800
	COLOR_ATTACHMENT0              = 0x8ce0
	COMPARE_REF_TO_TEXTURE         = 0x884e
	COMPILE_STATUS                 = 0x8b81
	CONSTANT_ALPHA                 = 0x8003
	CONSTANT_COLOR                 = 0x8001
	CULL_FACE                      = 0xb44
	CW                             = 0x900
	DECR                           = 0x1e03
	DECR_WRAP                      = 0x8508
	DEPTH                          = 0x1801
	DEPTH_ATTACHMENT               = 0x8d00
	DEPTH_CLAMP                    = 0x864f
	DEPTH_COMPONENT                = 0x1902
	DEPTH_COMPONENT16              = 0x81a5
	DEPTH_COMPONENT32F             = 0x8cac
	DEPTH_STENCIL                  = 0x84f9
	DEPTH_STENCIL_ATTACHMENT       = 0x821a
	DEPTH24_STENCIL8               = 0x88f0
	DEPTH32F_STENCIL8              = 0x8cad
	DEPTH_TEST                     = 0xb71
	DRAW_FRAMEBUFFER               = 0x8ca9
	DRAW_INDIRECT_BUFFER           = 0x8f3f
	DST_ALPHA                      = 0x304
	DST_COLOR                      = 0x306
	DYNAMIC_DRAW                   = 0x88e8
	ELEMENT_ARRAY_BUFFER           = 0x8893
	EQUAL                          = 0x202
	FILL                           = 0x1b02
	FLOAT                          = 0x1406
	FRAGMENT_SHADER                = 0x8b30
	FRAMEBUFFER_COMPLETE           = 0x8cd5
	FRONT                          = 0x404
	FRONT_AND_BACK                 = 0x408
	FUNC_ADD                       = 0x8006
	FUNC_REVERSE_SUBTRACT          = 0x800b
	FUNC_SUBTRACT                  = 0x800a
	GEOMETRY_SHADER                = 0x8dd9
	GEQUAL                         = 0x206
	GREATER                        = 0x204
	HALF_FLOAT                     = 0x140b
	INCR                           = 0x1e02
	INCR_WRAP                      = 0x8507
	INT                            = 0x1404
	INVERT                         = 0x150a
	KEEP                           = 0x1e00
	LEQUAL                         = 0x203
	LESS                           = 0x201
	LINE                           = 0x1b01
	LINEAR                         = 0x2601
	LINEAR_MIPMAP_LINEAR           = 0x2703
	LINEAR_MIPMAP_NEAREST          = 0x2701
	LINES                          = 0x1
	LINES_ADJACENCY                = 0xa
	LINE_SMOOTH                    = 0xb20
	LINE_STRIP                     = 0x3
	LINE_STRIP_ADJACENCY           = 0xb
	LINK_STATUS                    = 0x8b82
	MAX                            = 0x8008
	MIN                            = 0x8007
	MIRROR_CLAMP_TO_EDGE           = 0x8743
	MIRRORED_REPEAT                = 0x8370
	MULTISAMPLE                    = 0x809d
	NEAREST                        = 0x2600
	NEAREST_MIPMAP_LINEAR          = 0x2702
	NEAREST_MIPMAP_NEAREST         = 0x2700
	NONE                           = 0x0
	NEVER                          = 0x200
	NOTEQUAL                       = 0x205
	ONE                            = 0x1
	ONE_MINUS_CONSTANT_ALPHA       = 0x8004
	ONE_MINUS_CONSTANT_COLOR       = 0x8002
	ONE_MINUS_DST_ALPHA            = 0x305
	ONE_MINUS_DST_COLOR            = 0x307
	ONE_MINUS_SRC1_ALPHA           = 0x88fb
	ONE_MINUS_SRC1_COLOR           = 0x88fa
	ONE_MINUS_SRC_ALPHA            = 0x303
	ONE_MINUS_SRC_COLOR            = 0x301
	PATCHES                        = 0xe
	PATCH_VERTICES                 = 0x8e72
	POINTS                         = 0x0
	POLYGON_OFFSET_FILL            = 0x8037
	RED                            = 0x1903
	RED_INTEGER                    = 0x8d94
	REPEAT                         = 0x2901
	REPLACE                        = 0x1e01
	RG                             = 0x8227
	RG_INTEGER                     = 0x8228
	RGB                            = 0x1907
	RGB_INTEGER                    = 0x8d98
	RGBA                           = 0x1908
	RGBA_INTEGER                   = 0x8d99
	BGRA                           = 0x80e1
	SAMPLE_ALPHA_TO_COVERAGE       = 0x809e
	SAMPLE_MASK                    = 0x8e51
	SCISSOR_TEST                   = 0xc11
	SHORT                          = 0x1402
	SRC1_ALPHA                     = 0x8589
	SRC1_COLOR                     = 0x88f9
	SRC_ALPHA                      = 0x302
	SRC_ALPHA_SATURATE             = 0x308
	SRC_COLOR                      = 0x300
	STATIC_DRAW                    = 0x88e4
	STENCIL                        = 0x1802
	STENCIL_TEST                   = 0xb90
	STREAM_READ                    = 0x88e1
	TESS_CONTROL_SHADER            = 0x8e88
	TESS_EVALUATION_SHADER         = 0x8e87
	TEXTURE0                       = 0x84c0
	TEXTURE_1D                     = 0xde0
	TEXTURE_1D_ARRAY               = 0x8c18
	TEXTURE_2D                     = 0xde1
	TEXTURE_2D_ARRAY               = 0x8c1a
	TEXTURE_2D_MULTISAMPLE         = 0x9100
	TEXTURE_2D_MULTISAMPLE_ARRAY   = 0x9102
	TEXTURE_3D                     = 0x806f
	TEXTURE_BORDER_COLOR           = 0x1004
	TEXTURE_BUFFER                 = 0x8c2a
	TEXTURE_COMPARE_FUNC           = 0x884d
	TEXTURE_COMPARE_MODE           = 0x884c
	TEXTURE_CUBE_MAP               = 0x8513
	TEXTURE_CUBE_MAP_ARRAY         = 0x9009
	TEXTURE_CUBE_MAP_POSITIVE_X    = 0x8515
	TEXTURE_LOD_BIAS               = 0x501
	TEXTURE_MAG_FILTER             = 0x2800
	TEXTURE_MAX_ANISOTROPY         = 0x84fe
	TEXTURE_MAX_LOD                = 0x813b
	TEXTURE_MIN_FILTER             = 0x2801
	TEXTURE_MIN_LOD                = 0x813a
	TEXTURE_WRAP_R                 = 0x8072
	TEXTURE_WRAP_S                 = 0x2802
	TEXTURE_WRAP_T                 = 0x2803
	TRIANGLES                      = 0x4
	TRIANGLES_ADJACENCY            = 0xc
	TRIANGLE_STRIP                 = 0x5
	TRIANGLE_STRIP_ADJACENCY       = 0xd
	UNIFORM_BUFFER                 = 0x8a11
	UNSIGNED_BYTE                  = 0x1401
	UNSIGNED_INT                   = 0x1405
	UNSIGNED_INT_10_10_10_2        = 0x8036
	UNSIGNED_INT_2_10_10_10_REV    = 0x8368
	UNSIGNED_INT_10F_11F_11F_REV   = 0x8c3b
	UNSIGNED_INT_24_8              = 0x84fa
	UNSIGNED_SHORT                 = 0x1403
	UNSIGNED_SHORT_5_6_5           = 0x8363
	FLOAT_32_UNSIGNED_INT_24_8_REV = 0x8dad
	VERTEX_SHADER                  = 0x8b31
	ZERO                           = 0x0
)

// Functions is the GL entry point table the backend drives. Hosts
// implement it on top of their GL loader; tests record the calls.
//
// All methods are called on the goroutine owning the GL context.
type Functions interface {
	// Shaders and programs.
	CreateShader(ty Enum) Shader
	ShaderSource(s Shader, src string)
	CompileShader(s Shader)
	GetShaderi(s Shader, pname Enum) int
	GetShaderInfoLog(s Shader) string
	DeleteShader(s Shader)
	CreateProgram() Program
	AttachShader(p Program, s Shader)
	LinkProgram(p Program)
	GetProgrami(p Program, pname Enum) int
	GetProgramInfoLog(p Program) string
	DeleteProgram(p Program)
	UseProgram(p Program)
	GetUniformBlockIndex(p Program, name string) int
	UniformBlockBinding(p Program, index, binding int)
	GetUniformLocation(p Program, name string) int
	ProgramUniform1i(p Program, location, v int)

	// Buffers.
	CreateBuffer() Buffer
	NamedBufferData(b Buffer, size int, data []byte, usage Enum)
	NamedBufferSubData(b Buffer, offset int, data []byte)
	BindBuffer(target Enum, b Buffer)
	BindBufferBase(target Enum, index int, b Buffer)
	DeleteBuffer(b Buffer)

	// Textures and samplers.
	CreateTexture(target Enum) Texture
	GenTexture() Texture
	TextureView(view Texture, target Enum, orig Texture, internalFormat Enum, minLevel, numLevels, minLayer, numLayers int)
	TextureStorage1D(t Texture, levels int, internalFormat Enum, width int)
	TextureStorage2D(t Texture, levels int, internalFormat Enum, width, height int)
	TextureStorage3D(t Texture, levels int, internalFormat Enum, width, height, depth int)
	TextureStorage2DMultisample(t Texture, samples int, internalFormat Enum, width, height int)
	TextureSubImage1D(t Texture, level, x, width int, format, ty Enum, data []byte)
	TextureSubImage2D(t Texture, level, x, y, width, height int, format, ty Enum, data []byte)
	TextureSubImage3D(t Texture, level, x, y, z, width, height, depth int, format, ty Enum, data []byte)
	CompressedTextureSubImage2D(t Texture, level, x, y, width, height int, format Enum, data []byte)
	GenerateTextureMipmap(t Texture)
	BindTextureUnit(unit int, t Texture)
	DeleteTexture(t Texture)
	CreateSampler() Sampler
	SamplerParameteri(s Sampler, pname Enum, param int)
	SamplerParameterf(s Sampler, pname Enum, param float32)
	SamplerParameterfv(s Sampler, pname Enum, params []float32)
	BindSampler(unit int, s Sampler)
	DeleteSampler(s Sampler)

	// Framebuffers.
	CreateFramebuffer() Framebuffer
	BindFramebuffer(target Enum, fb Framebuffer)
	NamedFramebufferTexture(fb Framebuffer, attachment Enum, t Texture, level int)
	NamedFramebufferTextureLayer(fb Framebuffer, attachment Enum, t Texture, level, layer int)
	NamedFramebufferDrawBuffers(fb Framebuffer, bufs []Enum)
	CheckNamedFramebufferStatus(fb Framebuffer, target Enum) Enum
	DeleteFramebuffer(fb Framebuffer)
	ClearNamedFramebufferfv(fb Framebuffer, buffer Enum, drawBuffer int, value []float32)
	ClearNamedFramebufferiv(fb Framebuffer, buffer Enum, drawBuffer int, value []int32)
	ClearNamedFramebufferfi(fb Framebuffer, buffer Enum, drawBuffer int, depth float32, stencil int)

	// Vertex input.
	CreateVertexArray() VertexArray
	BindVertexArray(va VertexArray)
	DeleteVertexArray(va VertexArray)
	EnableVertexAttribArray(index int)
	DisableVertexAttribArray(index int)
	VertexAttribPointer(index, size int, ty Enum, normalized bool, stride, offset int)
	VertexAttribIPointer(index, size int, ty Enum, stride, offset int)
	VertexAttribDivisor(index, divisor int)

	// Fixed-function state.
	Enable(capability Enum)
	Disable(capability Enum)
	Enablei(capability Enum, index int)
	Disablei(capability Enum, index int)
	PolygonMode(face, mode Enum)
	CullFace(mode Enum)
	FrontFace(mode Enum)
	PolygonOffset(factor, units float32)
	ViewportIndexedf(index int, x, y, width, height float32)
	DepthRangeIndexed(index int, near, far float64)
	ScissorIndexed(index, x, y, width, height int)
	BlendEquationSeparatei(buf int, modeRGB, modeAlpha Enum)
	BlendFuncSeparatei(buf int, srcRGB, dstRGB, srcAlpha, dstAlpha Enum)
	ColorMaski(buf int, r, g, b, a bool)
	BlendColor(r, g, b, a float32)
	SampleMaski(index int, mask uint32)
	DepthFunc(fn Enum)
	DepthMask(write bool)
	StencilFuncSeparate(face, fn Enum, ref int, mask uint32)
	StencilOpSeparate(face, sfail, dpfail, dppass Enum)
	StencilMaskSeparate(face Enum, mask uint32)
	PatchParameteri(pname Enum, value int)

	// Commands.
	DrawArraysInstancedBaseInstance(mode Enum, first, count, instances, baseInstance int)
	DrawElementsInstancedBaseVertexBaseInstance(mode Enum, count int, ty Enum, offset, instances, baseVertex, baseInstance int)
	DrawArraysIndirect(mode Enum, offset int)
	DrawElementsIndirect(mode Enum, ty Enum, offset int)
	Flush()
}
