package gl

import (
	"fmt"
	"slices"
	"strings"
)

// fakeGL records every call as "Name arg arg ...". Object names are
// handed out from one counter starting at 1.
type fakeGL struct {
	calls   []string
	next    uint32
	sources map[Shader]string
	blocks  map[string]int
	uniform map[string]int

	compileFails bool
	linkFails    bool
}

func newFakeGL() *fakeGL {
	return &fakeGL{
		sources: make(map[Shader]string),
		blocks:  make(map[string]int),
		uniform: make(map[string]int),
	}
}

// glCall formats a call the way fakeGL records it.
func glCall(name string, args ...any) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, a := range args {
		parts = append(parts, fmt.Sprint(a))
	}
	return strings.Join(parts, " ")
}

func (g *fakeGL) call(name string, args ...any) { g.calls = append(g.calls, glCall(name, args...)) }

func (g *fakeGL) id() uint32 {
	g.next++
	return g.next
}

// reset forgets the recorded calls.
func (g *fakeGL) reset() { g.calls = nil }

// has reports whether a call with exactly this text was recorded.
func (g *fakeGL) has(call string) bool { return slices.Contains(g.calls, call) }

// named returns the recorded calls of one function.
func (g *fakeGL) named(name string) []string {
	var out []string
	for _, c := range g.calls {
		if c == name || strings.HasPrefix(c, name+" ") {
			out = append(out, c)
		}
	}
	return out
}

func (g *fakeGL) CreateShader(ty Enum) Shader {
	s := Shader(g.id())
	g.call("CreateShader", ty)
	return s
}
func (g *fakeGL) ShaderSource(s Shader, src string) { g.sources[s] = src; g.call("ShaderSource", s) }
func (g *fakeGL) CompileShader(s Shader)            { g.call("CompileShader", s) }
func (g *fakeGL) GetShaderi(s Shader, pname Enum) int {
	if pname == COMPILE_STATUS && g.compileFails {
		return 0
	}
	return 1
}
func (g *fakeGL) GetShaderInfoLog(s Shader) string {
	if g.compileFails {
		return "0:1: syntax error"
	}
	return ""
}
func (g *fakeGL) DeleteShader(s Shader) { g.call("DeleteShader", s) }
func (g *fakeGL) CreateProgram() Program {
	p := Program(g.id())
	g.call("CreateProgram")
	return p
}
func (g *fakeGL) AttachShader(p Program, s Shader) { g.call("AttachShader", p, s) }
func (g *fakeGL) LinkProgram(p Program)            { g.call("LinkProgram", p) }
func (g *fakeGL) GetProgrami(p Program, pname Enum) int {
	if pname == LINK_STATUS && g.linkFails {
		return 0
	}
	return 1
}
func (g *fakeGL) GetProgramInfoLog(p Program) string {
	if g.linkFails {
		return "link error"
	}
	return ""
}
func (g *fakeGL) DeleteProgram(p Program) { g.call("DeleteProgram", p) }
func (g *fakeGL) UseProgram(p Program)    { g.call("UseProgram", p) }
func (g *fakeGL) GetUniformBlockIndex(p Program, name string) int {
	if i, ok := g.blocks[name]; ok {
		return i
	}
	return -1
}
func (g *fakeGL) UniformBlockBinding(p Program, index, binding int) {
	g.call("UniformBlockBinding", p, index, binding)
}
func (g *fakeGL) GetUniformLocation(p Program, name string) int {
	if l, ok := g.uniform[name]; ok {
		return l
	}
	return -1
}
func (g *fakeGL) ProgramUniform1i(p Program, location, v int) {
	g.call("ProgramUniform1i", p, location, v)
}

func (g *fakeGL) CreateBuffer() Buffer {
	b := Buffer(g.id())
	g.call("CreateBuffer")
	return b
}
func (g *fakeGL) NamedBufferData(b Buffer, size int, data []byte, usage Enum) {
	g.call("NamedBufferData", b, size, len(data), usage)
}
func (g *fakeGL) NamedBufferSubData(b Buffer, offset int, data []byte) {
	g.call("NamedBufferSubData", b, offset, len(data))
}
func (g *fakeGL) BindBuffer(target Enum, b Buffer)                { g.call("BindBuffer", target, b) }
func (g *fakeGL) BindBufferBase(target Enum, index int, b Buffer) { g.call("BindBufferBase", target, index, b) }
func (g *fakeGL) DeleteBuffer(b Buffer)                           { g.call("DeleteBuffer", b) }

func (g *fakeGL) CreateTexture(target Enum) Texture {
	t := Texture(g.id())
	g.call("CreateTexture", target)
	return t
}
func (g *fakeGL) GenTexture() Texture {
	t := Texture(g.id())
	g.call("GenTexture")
	return t
}
func (g *fakeGL) TextureView(view Texture, target Enum, orig Texture, internalFormat Enum, minLevel, numLevels, minLayer, numLayers int) {
	g.call("TextureView", view, target, orig, internalFormat, minLevel, numLevels, minLayer, numLayers)
}
func (g *fakeGL) TextureStorage1D(t Texture, levels int, internalFormat Enum, width int) {
	g.call("TextureStorage1D", t, levels, internalFormat, width)
}
func (g *fakeGL) TextureStorage2D(t Texture, levels int, internalFormat Enum, width, height int) {
	g.call("TextureStorage2D", t, levels, internalFormat, width, height)
}
func (g *fakeGL) TextureStorage3D(t Texture, levels int, internalFormat Enum, width, height, depth int) {
	g.call("TextureStorage3D", t, levels, internalFormat, width, height, depth)
}
func (g *fakeGL) TextureStorage2DMultisample(t Texture, samples int, internalFormat Enum, width, height int) {
	g.call("TextureStorage2DMultisample", t, samples, internalFormat, width, height)
}
func (g *fakeGL) TextureSubImage1D(t Texture, level, x, width int, format, ty Enum, data []byte) {
	g.call("TextureSubImage1D", t, level, x, width, format, ty, len(data))
}
func (g *fakeGL) TextureSubImage2D(t Texture, level, x, y, width, height int, format, ty Enum, data []byte) {
	g.call("TextureSubImage2D", t, level, x, y, width, height, format, ty, len(data))
}
func (g *fakeGL) TextureSubImage3D(t Texture, level, x, y, z, width, height, depth int, format, ty Enum, data []byte) {
	g.call("TextureSubImage3D", t, level, x, y, z, width, height, depth, format, ty, len(data))
}
func (g *fakeGL) CompressedTextureSubImage2D(t Texture, level, x, y, width, height int, format Enum, data []byte) {
	g.call("CompressedTextureSubImage2D", t, level, x, y, width, height, format, len(data))
}
func (g *fakeGL) GenerateTextureMipmap(t Texture)     { g.call("GenerateTextureMipmap", t) }
func (g *fakeGL) BindTextureUnit(unit int, t Texture) { g.call("BindTextureUnit", unit, t) }
func (g *fakeGL) DeleteTexture(t Texture)             { g.call("DeleteTexture", t) }
func (g *fakeGL) CreateSampler() Sampler {
	s := Sampler(g.id())
	g.call("CreateSampler")
	return s
}
func (g *fakeGL) SamplerParameteri(s Sampler, pname Enum, param int) {
	g.call("SamplerParameteri", s, pname, param)
}
func (g *fakeGL) SamplerParameterf(s Sampler, pname Enum, param float32) {
	g.call("SamplerParameterf", s, pname, param)
}
func (g *fakeGL) SamplerParameterfv(s Sampler, pname Enum, params []float32) {
	g.call("SamplerParameterfv", s, pname, params)
}
func (g *fakeGL) BindSampler(unit int, s Sampler) { g.call("BindSampler", unit, s) }
func (g *fakeGL) DeleteSampler(s Sampler)         { g.call("DeleteSampler", s) }

func (g *fakeGL) CreateFramebuffer() Framebuffer {
	fb := Framebuffer(g.id())
	g.call("CreateFramebuffer")
	return fb
}
func (g *fakeGL) BindFramebuffer(target Enum, fb Framebuffer) { g.call("BindFramebuffer", target, fb) }
func (g *fakeGL) NamedFramebufferTexture(fb Framebuffer, attachment Enum, t Texture, level int) {
	g.call("NamedFramebufferTexture", fb, attachment, t, level)
}
func (g *fakeGL) NamedFramebufferTextureLayer(fb Framebuffer, attachment Enum, t Texture, level, layer int) {
	g.call("NamedFramebufferTextureLayer", fb, attachment, t, level, layer)
}
func (g *fakeGL) NamedFramebufferDrawBuffers(fb Framebuffer, bufs []Enum) {
	g.call("NamedFramebufferDrawBuffers", fb, bufs)
}
func (g *fakeGL) CheckNamedFramebufferStatus(fb Framebuffer, target Enum) Enum {
	return FRAMEBUFFER_COMPLETE
}
func (g *fakeGL) DeleteFramebuffer(fb Framebuffer) { g.call("DeleteFramebuffer", fb) }
func (g *fakeGL) ClearNamedFramebufferfv(fb Framebuffer, buffer Enum, drawBuffer int, value []float32) {
	g.call("ClearNamedFramebufferfv", fb, buffer, drawBuffer, value)
}
func (g *fakeGL) ClearNamedFramebufferiv(fb Framebuffer, buffer Enum, drawBuffer int, value []int32) {
	g.call("ClearNamedFramebufferiv", fb, buffer, drawBuffer, value)
}
func (g *fakeGL) ClearNamedFramebufferfi(fb Framebuffer, buffer Enum, drawBuffer int, depth float32, stencil int) {
	g.call("ClearNamedFramebufferfi", fb, buffer, drawBuffer, depth, stencil)
}

func (g *fakeGL) CreateVertexArray() VertexArray {
	va := VertexArray(g.id())
	g.call("CreateVertexArray")
	return va
}
func (g *fakeGL) BindVertexArray(va VertexArray)   { g.call("BindVertexArray", va) }
func (g *fakeGL) DeleteVertexArray(va VertexArray) { g.call("DeleteVertexArray", va) }
func (g *fakeGL) EnableVertexAttribArray(index int) {
	g.call("EnableVertexAttribArray", index)
}
func (g *fakeGL) DisableVertexAttribArray(index int) {
	g.call("DisableVertexAttribArray", index)
}
func (g *fakeGL) VertexAttribPointer(index, size int, ty Enum, normalized bool, stride, offset int) {
	g.call("VertexAttribPointer", index, size, ty, normalized, stride, offset)
}
func (g *fakeGL) VertexAttribIPointer(index, size int, ty Enum, stride, offset int) {
	g.call("VertexAttribIPointer", index, size, ty, stride, offset)
}
func (g *fakeGL) VertexAttribDivisor(index, divisor int) { g.call("VertexAttribDivisor", index, divisor) }

func (g *fakeGL) Enable(capability Enum)              { g.call("Enable", capability) }
func (g *fakeGL) Disable(capability Enum)             { g.call("Disable", capability) }
func (g *fakeGL) Enablei(capability Enum, index int)  { g.call("Enablei", capability, index) }
func (g *fakeGL) Disablei(capability Enum, index int) { g.call("Disablei", capability, index) }
func (g *fakeGL) PolygonMode(face, mode Enum)         { g.call("PolygonMode", face, mode) }
func (g *fakeGL) CullFace(mode Enum)                  { g.call("CullFace", mode) }
func (g *fakeGL) FrontFace(mode Enum)                 { g.call("FrontFace", mode) }
func (g *fakeGL) PolygonOffset(factor, units float32) { g.call("PolygonOffset", factor, units) }
func (g *fakeGL) ViewportIndexedf(index int, x, y, width, height float32) {
	g.call("ViewportIndexedf", index, x, y, width, height)
}
func (g *fakeGL) DepthRangeIndexed(index int, near, far float64) {
	g.call("DepthRangeIndexed", index, near, far)
}
func (g *fakeGL) ScissorIndexed(index, x, y, width, height int) {
	g.call("ScissorIndexed", index, x, y, width, height)
}
func (g *fakeGL) BlendEquationSeparatei(buf int, modeRGB, modeAlpha Enum) {
	g.call("BlendEquationSeparatei", buf, modeRGB, modeAlpha)
}
func (g *fakeGL) BlendFuncSeparatei(buf int, srcRGB, dstRGB, srcAlpha, dstAlpha Enum) {
	g.call("BlendFuncSeparatei", buf, srcRGB, dstRGB, srcAlpha, dstAlpha)
}
func (g *fakeGL) ColorMaski(buf int, r, gr, b, a bool) { g.call("ColorMaski", buf, r, gr, b, a) }
func (g *fakeGL) BlendColor(r, gr, b, a float32)       { g.call("BlendColor", r, gr, b, a) }
func (g *fakeGL) SampleMaski(index int, mask uint32)   { g.call("SampleMaski", index, mask) }
func (g *fakeGL) DepthFunc(fn Enum)                    { g.call("DepthFunc", fn) }
func (g *fakeGL) DepthMask(write bool)                 { g.call("DepthMask", write) }
func (g *fakeGL) StencilFuncSeparate(face, fn Enum, ref int, mask uint32) {
	g.call("StencilFuncSeparate", face, fn, ref, mask)
}
func (g *fakeGL) StencilOpSeparate(face, sfail, dpfail, dppass Enum) {
	g.call("StencilOpSeparate", face, sfail, dpfail, dppass)
}
func (g *fakeGL) StencilMaskSeparate(face Enum, mask uint32) { g.call("StencilMaskSeparate", face, mask) }
func (g *fakeGL) PatchParameteri(pname Enum, value int)      { g.call("PatchParameteri", pname, value) }

func (g *fakeGL) DrawArraysInstancedBaseInstance(mode Enum, first, count, instances, baseInstance int) {
	g.call("DrawArraysInstancedBaseInstance", mode, first, count, instances, baseInstance)
}
func (g *fakeGL) DrawElementsInstancedBaseVertexBaseInstance(mode Enum, count int, ty Enum, offset, instances, baseVertex, baseInstance int) {
	g.call("DrawElementsInstancedBaseVertexBaseInstance", mode, count, ty, offset, instances, baseVertex, baseInstance)
}
func (g *fakeGL) DrawArraysIndirect(mode Enum, offset int) { g.call("DrawArraysIndirect", mode, offset) }
func (g *fakeGL) DrawElementsIndirect(mode Enum, ty Enum, offset int) {
	g.call("DrawElementsIndirect", mode, ty, offset)
}
func (g *fakeGL) Flush() { g.call("Flush") }

var _ Functions = (*fakeGL)(nil)
