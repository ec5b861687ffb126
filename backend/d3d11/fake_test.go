package d3d11

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Zulkir/Beholder-sub001/shader"
)

// fakeObject is a native object named after what created it.
type fakeObject struct {
	kind     string
	id       int
	released bool
	desc     any
}

func (o *fakeObject) Release()       { o.released = true }
func (o *fakeObject) String() string { return fmt.Sprintf("%s#%d", o.kind, o.id) }

// fakeD3D records device and context calls as "Name arg arg ...".
type fakeD3D struct {
	level   uint32
	calls   []string
	next    int
	objects []*fakeObject
	sources []string

	compileFails bool
	mapped       []byte
}

func newFakeD3D() *fakeD3D {
	return &fakeD3D{level: FEATURE_LEVEL_11_0}
}

func (f *fakeD3D) handles() Handles {
	return Handles{Device: f, Context: (*fakeContext)(f), Compiler: (*fakeCompiler)(f)}
}

// d3dCall formats a call the way fakeD3D records it.
func d3dCall(name string, args ...any) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, a := range args {
		parts = append(parts, fmt.Sprint(a))
	}
	return strings.Join(parts, " ")
}

func (f *fakeD3D) call(name string, args ...any) { f.calls = append(f.calls, d3dCall(name, args...)) }

func (f *fakeD3D) reset() { f.calls = nil }

func (f *fakeD3D) has(call string) bool { return slices.Contains(f.calls, call) }

func (f *fakeD3D) named(name string) []string {
	var out []string
	for _, c := range f.calls {
		if c == name || strings.HasPrefix(c, name+" ") {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeD3D) object(kind string, desc any) *fakeObject {
	f.next++
	o := &fakeObject{kind: kind, id: f.next, desc: desc}
	f.objects = append(f.objects, o)
	f.call("Create", o)
	return o
}

// live counts objects not yet released.
func (f *fakeD3D) live() int {
	n := 0
	for _, o := range f.objects {
		if !o.released {
			n++
		}
	}
	return n
}

func (f *fakeD3D) FeatureLevel() uint32 { return f.level }

func (f *fakeD3D) CreateBuffer(desc *BUFFER_DESC, data []byte) (Object, error) {
	d := *desc
	return f.object("buffer", &d), nil
}

func (f *fakeD3D) CreateTexture1D(desc *TEXTURE1D_DESC, data []SUBRESOURCE_DATA) (Object, error) {
	d := *desc
	return f.object("texture1d", &d), nil
}

func (f *fakeD3D) CreateTexture2D(desc *TEXTURE2D_DESC, data []SUBRESOURCE_DATA) (Object, error) {
	d := *desc
	return f.object("texture2d", &d), nil
}

func (f *fakeD3D) CreateTexture3D(desc *TEXTURE3D_DESC, data []SUBRESOURCE_DATA) (Object, error) {
	d := *desc
	return f.object("texture3d", &d), nil
}

func (f *fakeD3D) CreateShaderResourceView(res Object, desc *SHADER_RESOURCE_VIEW_DESC) (Object, error) {
	d := *desc
	return f.object("srv", &d), nil
}

func (f *fakeD3D) CreateRenderTargetView(res Object, desc *RENDER_TARGET_VIEW_DESC) (Object, error) {
	d := *desc
	return f.object("rtv", &d), nil
}

func (f *fakeD3D) CreateDepthStencilView(res Object, desc *DEPTH_STENCIL_VIEW_DESC) (Object, error) {
	d := *desc
	return f.object("dsv", &d), nil
}

func (f *fakeD3D) CreateUnorderedAccessView(res Object, desc *UNORDERED_ACCESS_VIEW_DESC) (Object, error) {
	d := *desc
	return f.object("uav", &d), nil
}

func (f *fakeD3D) CreateRasterizerState(desc *RASTERIZER_DESC) (Object, error) {
	d := *desc
	return f.object("rasterizer", &d), nil
}

func (f *fakeD3D) CreateBlendState(desc *BLEND_DESC) (Object, error) {
	d := *desc
	return f.object("blend", &d), nil
}

func (f *fakeD3D) CreateDepthStencilState(desc *DEPTH_STENCIL_DESC) (Object, error) {
	d := *desc
	return f.object("depthstencil", &d), nil
}

func (f *fakeD3D) CreateSamplerState(desc *SAMPLER_DESC) (Object, error) {
	d := *desc
	return f.object("sampler", &d), nil
}

func (f *fakeD3D) CreateShader(stage shader.Stage, bytecode []byte) (Object, error) {
	return f.object(stage.String(), string(bytecode)), nil
}

func (f *fakeD3D) CreateInputLayout(elements []INPUT_ELEMENT_DESC, bytecode []byte) (Object, error) {
	return f.object("layout", slices.Clone(elements)), nil
}

// fakeCompiler returns "target:entry" as bytecode.
type fakeCompiler fakeD3D

func (c *fakeCompiler) Compile(source, entry, target string) ([]byte, error) {
	f := (*fakeD3D)(c)
	f.sources = append(f.sources, source)
	if f.compileFails {
		return nil, errors.New("error X3000: syntax error")
	}
	return []byte(target + ":" + entry), nil
}

// fakeContext shares the recording of its device.
type fakeContext fakeD3D

func (c *fakeContext) call(name string, args ...any) { (*fakeD3D)(c).call(name, args...) }

func (c *fakeContext) SetShader(stage shader.Stage, s Object) { c.call("SetShader", stage, s) }
func (c *fakeContext) SetConstantBuffers(stage shader.Stage, start int, buffers []Object) {
	c.call("SetConstantBuffers", stage, start, buffers)
}
func (c *fakeContext) SetShaderResources(stage shader.Stage, start int, views []Object) {
	c.call("SetShaderResources", stage, start, views)
}
func (c *fakeContext) SetSamplers(stage shader.Stage, start int, samplers []Object) {
	c.call("SetSamplers", stage, start, samplers)
}

func (c *fakeContext) IASetPrimitiveTopology(topology uint32) { c.call("IASetPrimitiveTopology", topology) }
func (c *fakeContext) IASetInputLayout(layout Object)         { c.call("IASetInputLayout", layout) }
func (c *fakeContext) IASetVertexBuffers(start int, buffers []Object, strides, offsets []uint32) {
	c.call("IASetVertexBuffers", start, buffers, strides, offsets)
}
func (c *fakeContext) IASetIndexBuffer(buffer Object, format, offset uint32) {
	c.call("IASetIndexBuffer", buffer, format, offset)
}
func (c *fakeContext) SOSetTargets(buffers []Object, offsets []uint32) {
	c.call("SOSetTargets", buffers, offsets)
}

func (c *fakeContext) RSSetState(state Object)             { c.call("RSSetState", state) }
func (c *fakeContext) RSSetViewports(viewports []VIEWPORT) { c.call("RSSetViewports", viewports) }
func (c *fakeContext) RSSetScissorRects(rects []RECT)      { c.call("RSSetScissorRects", rects) }

func (c *fakeContext) OMSetRenderTargetsAndUnorderedAccessViews(rtvs []Object, dsv Object, uavStart int, uavs []Object) {
	c.call("OMSetRenderTargetsAndUnorderedAccessViews", rtvs, dsv, uavStart, uavs)
}
func (c *fakeContext) OMSetBlendState(state Object, factor [4]float32, sampleMask uint32) {
	c.call("OMSetBlendState", state, factor, sampleMask)
}
func (c *fakeContext) OMSetDepthStencilState(state Object, stencilRef uint32) {
	c.call("OMSetDepthStencilState", state, stencilRef)
}
func (c *fakeContext) CSSetUnorderedAccessViews(start int, uavs []Object) {
	c.call("CSSetUnorderedAccessViews", start, uavs)
}

func (c *fakeContext) Draw(vertexCount, startVertex uint32) { c.call("Draw", vertexCount, startVertex) }
func (c *fakeContext) DrawIndexed(indexCount, startIndex uint32, baseVertex int32) {
	c.call("DrawIndexed", indexCount, startIndex, baseVertex)
}
func (c *fakeContext) DrawInstanced(vertexCountPerInstance, instanceCount, startVertex, startInstance uint32) {
	c.call("DrawInstanced", vertexCountPerInstance, instanceCount, startVertex, startInstance)
}
func (c *fakeContext) DrawIndexedInstanced(indexCountPerInstance, instanceCount, startIndex uint32, baseVertex int32, startInstance uint32) {
	c.call("DrawIndexedInstanced", indexCountPerInstance, instanceCount, startIndex, baseVertex, startInstance)
}
func (c *fakeContext) DrawInstancedIndirect(args Object, offset uint32) {
	c.call("DrawInstancedIndirect", args, offset)
}
func (c *fakeContext) DrawIndexedInstancedIndirect(args Object, offset uint32) {
	c.call("DrawIndexedInstancedIndirect", args, offset)
}
func (c *fakeContext) Dispatch(x, y, z uint32) { c.call("Dispatch", x, y, z) }
func (c *fakeContext) DispatchIndirect(args Object, offset uint32) {
	c.call("DispatchIndirect", args, offset)
}

func (c *fakeContext) ClearRenderTargetView(rtv Object, color [4]float32) {
	c.call("ClearRenderTargetView", rtv, color)
}
func (c *fakeContext) ClearDepthStencilView(dsv Object, flags uint32, depth float32, stencil uint8) {
	c.call("ClearDepthStencilView", dsv, flags, depth, stencil)
}
func (c *fakeContext) ClearUnorderedAccessViewFloat(uav Object, values [4]float32) {
	c.call("ClearUnorderedAccessViewFloat", uav, values)
}
func (c *fakeContext) ClearUnorderedAccessViewUint(uav Object, values [4]uint32) {
	c.call("ClearUnorderedAccessViewUint", uav, values)
}
func (c *fakeContext) GenerateMips(srv Object) { c.call("GenerateMips", srv) }
func (c *fakeContext) UpdateSubresource(res Object, subresource uint32, box *BOX, data []byte, rowPitch, depthPitch uint32) {
	c.call("UpdateSubresource", res, subresource, len(data), rowPitch, depthPitch)
}
func (c *fakeContext) Map(res Object, subresource, mapType, flags uint32) (MAPPED_SUBRESOURCE, error) {
	c.call("Map", res, subresource, mapType)
	return MAPPED_SUBRESOURCE{Data: c.mapped, RowPitch: uint32(len(c.mapped))}, nil
}
func (c *fakeContext) Unmap(res Object, subresource uint32) { c.call("Unmap", res, subresource) }
func (c *fakeContext) Flush()                               { c.call("Flush") }
