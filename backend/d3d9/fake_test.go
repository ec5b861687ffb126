package d3d9

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// fakeObject is a native object named after what created it.
type fakeObject struct {
	kind     string
	id       int
	released bool
	args     []uint32
}

func (o *fakeObject) Release()       { o.released = true }
func (o *fakeObject) String() string { return fmt.Sprintf("%s#%d", o.kind, o.id) }

// fakeD3D9 records device calls as "Name arg arg ...".
type fakeD3D9 struct {
	calls   []string
	next    int
	objects []*fakeObject
	sources []string
	written map[Object][]byte

	compileFails bool
}

func newFakeD3D9() *fakeD3D9 {
	return &fakeD3D9{written: make(map[Object][]byte)}
}

func (f *fakeD3D9) handles() Handles {
	return Handles{Device: f, Compiler: (*fakeCompiler)(f)}
}

// d3dCall formats a call the way fakeD3D9 records it.
func d3dCall(name string, args ...any) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, a := range args {
		parts = append(parts, fmt.Sprint(a))
	}
	return strings.Join(parts, " ")
}

func (f *fakeD3D9) call(name string, args ...any) { f.calls = append(f.calls, d3dCall(name, args...)) }

func (f *fakeD3D9) reset() { f.calls = nil }

func (f *fakeD3D9) has(call string) bool { return slices.Contains(f.calls, call) }

func (f *fakeD3D9) named(name string) []string {
	var out []string
	for _, c := range f.calls {
		if c == name || strings.HasPrefix(c, name+" ") {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeD3D9) object(kind string, args ...uint32) *fakeObject {
	f.next++
	o := &fakeObject{kind: kind, id: f.next, args: args}
	f.objects = append(f.objects, o)
	f.call("Create", o)
	return o
}

// live counts objects not yet released.
func (f *fakeD3D9) live() int {
	n := 0
	for _, o := range f.objects {
		if !o.released {
			n++
		}
	}
	return n
}

func (f *fakeD3D9) CreateVertexBuffer(length, usage, pool uint32) (Object, error) {
	return f.object("vb", length, usage, pool), nil
}

func (f *fakeD3D9) CreateIndexBuffer(length, usage, format, pool uint32) (Object, error) {
	return f.object("ib", length, usage, format, pool), nil
}

func (f *fakeD3D9) CreateTexture(width, height, levels, usage, format, pool uint32) (Object, error) {
	return f.object("texture", width, height, levels, usage, format, pool), nil
}

func (f *fakeD3D9) CreateCubeTexture(edge, levels, usage, format, pool uint32) (Object, error) {
	return f.object("cube", edge, levels, usage, format, pool), nil
}

func (f *fakeD3D9) CreateVolumeTexture(width, height, depth, levels, usage, format, pool uint32) (Object, error) {
	return f.object("volume", width, height, depth, levels, usage, format, pool), nil
}

func (f *fakeD3D9) CreateRenderTarget(width, height, format, multisample, quality uint32) (Object, error) {
	return f.object("rt", width, height, format, multisample, quality), nil
}

func (f *fakeD3D9) CreateDepthStencilSurface(width, height, format, multisample, quality uint32) (Object, error) {
	return f.object("ds", width, height, format, multisample, quality), nil
}

func (f *fakeD3D9) Surface(texture Object, face, level uint32) (Object, error) {
	return f.object("surface", face, level), nil
}

func (f *fakeD3D9) CreateVertexShader(bytecode []byte) (Object, error) {
	return f.object("vertex"), nil
}

func (f *fakeD3D9) CreatePixelShader(bytecode []byte) (Object, error) {
	return f.object("pixel"), nil
}

func (f *fakeD3D9) CreateVertexDeclaration(elements []VERTEXELEMENT9) (Object, error) {
	f.call("CreateVertexDeclaration", elements)
	return f.object("decl"), nil
}

func (f *fakeD3D9) WriteSubresource(res Object, face, level uint32, data []byte, rowPitch uint32) error {
	f.call("WriteSubresource", res, face, level, len(data), rowPitch)
	f.written[res] = slices.Clone(data)
	return nil
}

func (f *fakeD3D9) GenerateMipSubLevels(texture Object) { f.call("GenerateMipSubLevels", texture) }

func (f *fakeD3D9) SetVertexShader(s Object) { f.call("SetVertexShader", s) }
func (f *fakeD3D9) SetPixelShader(s Object)  { f.call("SetPixelShader", s) }
func (f *fakeD3D9) SetVertexShaderConstantF(start uint32, data []float32) {
	f.call("SetVertexShaderConstantF", start, data)
}
func (f *fakeD3D9) SetPixelShaderConstantF(start uint32, data []float32) {
	f.call("SetPixelShaderConstantF", start, data)
}
func (f *fakeD3D9) SetTexture(sampler uint32, texture Object) { f.call("SetTexture", sampler, texture) }
func (f *fakeD3D9) SetSamplerState(sampler, state, value uint32) {
	f.call("SetSamplerState", sampler, state, value)
}
func (f *fakeD3D9) SetRenderState(state, value uint32)     { f.call("SetRenderState", state, value) }
func (f *fakeD3D9) SetViewport(vp VIEWPORT9)               { f.call("SetViewport", vp) }
func (f *fakeD3D9) SetScissorRect(r RECT)                  { f.call("SetScissorRect", r) }
func (f *fakeD3D9) SetRenderTarget(index uint32, s Object) { f.call("SetRenderTarget", index, s) }
func (f *fakeD3D9) SetDepthStencilSurface(s Object)        { f.call("SetDepthStencilSurface", s) }
func (f *fakeD3D9) SetVertexDeclaration(decl Object)       { f.call("SetVertexDeclaration", decl) }
func (f *fakeD3D9) SetStreamSource(stream uint32, buffer Object, offset, stride uint32) {
	f.call("SetStreamSource", stream, buffer, offset, stride)
}
func (f *fakeD3D9) SetStreamSourceFreq(stream, setting uint32) {
	f.call("SetStreamSourceFreq", stream, fmt.Sprintf("%#x", setting))
}
func (f *fakeD3D9) SetIndices(buffer Object) { f.call("SetIndices", buffer) }

func (f *fakeD3D9) DrawPrimitive(primitiveType, startVertex, primitiveCount uint32) {
	f.call("DrawPrimitive", primitiveType, startVertex, primitiveCount)
}
func (f *fakeD3D9) DrawIndexedPrimitive(primitiveType uint32, baseVertex int32, minIndex, numVertices, startIndex, primitiveCount uint32) {
	f.call("DrawIndexedPrimitive", primitiveType, baseVertex, minIndex, numVertices, startIndex, primitiveCount)
}
func (f *fakeD3D9) Clear(flags, color uint32, z float32, stencil uint32) {
	f.call("Clear", flags, color, z, stencil)
}
func (f *fakeD3D9) ColorFill(surface Object, color uint32) {
	f.call("ColorFill", surface, fmt.Sprintf("%#08x", color))
}

// fakeCompiler returns "target:entry" as bytecode.
type fakeCompiler fakeD3D9

func (c *fakeCompiler) Compile(source, entry, target string) ([]byte, error) {
	f := (*fakeD3D9)(c)
	f.sources = append(f.sources, source)
	if f.compileFails {
		return nil, errors.New("error X3000: syntax error")
	}
	return []byte(target + ":" + entry), nil
}
