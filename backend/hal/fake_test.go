package hal

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	wgpu "github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// call formats a recorded call the way the recorder does.
func call(name string, args ...any) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + fmt.Sprint(args...)
}

// recorder wraps a noop HAL device and logs the calls the backend makes.
type recorder struct {
	wgpu.Device
	calls     []string
	pipelines []*wgpu.RenderPipelineDescriptor
	passes    []*wgpu.RenderPassDescriptor
}

func (r *recorder) add(name string, args ...any) { r.calls = append(r.calls, call(name, args...)) }

func (r *recorder) reset() {
	r.calls = nil
	r.pipelines = nil
	r.passes = nil
}

func (r *recorder) has(c string) bool {
	for _, got := range r.calls {
		if got == c {
			return true
		}
	}
	return false
}

func (r *recorder) count(prefix string) int {
	n := 0
	for _, c := range r.calls {
		if c == prefix || strings.HasPrefix(c, prefix+" ") {
			n++
		}
	}
	return n
}

func (r *recorder) CreateRenderPipeline(desc *wgpu.RenderPipelineDescriptor) (wgpu.RenderPipeline, error) {
	r.add("CreateRenderPipeline")
	r.pipelines = append(r.pipelines, desc)
	return r.Device.CreateRenderPipeline(desc)
}

func (r *recorder) DestroyRenderPipeline(p wgpu.RenderPipeline) {
	r.add("DestroyRenderPipeline")
	r.Device.DestroyRenderPipeline(p)
}

func (r *recorder) CreateComputePipeline(desc *wgpu.ComputePipelineDescriptor) (wgpu.ComputePipeline, error) {
	r.add("CreateComputePipeline", desc.Compute.EntryPoint)
	return r.Device.CreateComputePipeline(desc)
}

func (r *recorder) CreateBindGroupLayout(desc *wgpu.BindGroupLayoutDescriptor) (wgpu.BindGroupLayout, error) {
	bindings := make([]uint32, len(desc.Entries))
	for i, e := range desc.Entries {
		bindings[i] = e.Binding
	}
	r.add("CreateBindGroupLayout", bindings)
	return r.Device.CreateBindGroupLayout(desc)
}

func (r *recorder) CreateBindGroup(desc *wgpu.BindGroupDescriptor) (wgpu.BindGroup, error) {
	r.add("CreateBindGroup", len(desc.Entries))
	return r.Device.CreateBindGroup(desc)
}

func (r *recorder) DestroyBindGroup(g wgpu.BindGroup) {
	r.add("DestroyBindGroup")
	r.Device.DestroyBindGroup(g)
}

func (r *recorder) CreatePipelineLayout(desc *wgpu.PipelineLayoutDescriptor) (wgpu.PipelineLayout, error) {
	r.add("CreatePipelineLayout", len(desc.BindGroupLayouts))
	return r.Device.CreatePipelineLayout(desc)
}

func (r *recorder) DestroyPipelineLayout(l wgpu.PipelineLayout) {
	r.add("DestroyPipelineLayout")
	r.Device.DestroyPipelineLayout(l)
}

func (r *recorder) DestroyBuffer(b wgpu.Buffer) {
	r.add("DestroyBuffer")
	r.Device.DestroyBuffer(b)
}

func (r *recorder) DestroyTexture(t wgpu.Texture) {
	r.add("DestroyTexture")
	r.Device.DestroyTexture(t)
}

func (r *recorder) FreeCommandBuffer(cb wgpu.CommandBuffer) {
	r.add("FreeCommandBuffer")
	r.Device.FreeCommandBuffer(cb)
}

func (r *recorder) CreateCommandEncoder(desc *wgpu.CommandEncoderDescriptor) (wgpu.CommandEncoder, error) {
	enc, err := r.Device.CreateCommandEncoder(desc)
	if err != nil {
		return nil, err
	}
	return &recEncoder{CommandEncoder: enc, r: r}, nil
}

type recEncoder struct {
	wgpu.CommandEncoder
	r *recorder
}

func (e *recEncoder) TransitionTextures(barriers []wgpu.TextureBarrier) {
	for _, b := range barriers {
		e.r.add("TransitionTextures", b.Usage.OldUsage, b.Usage.NewUsage)
	}
	e.CommandEncoder.TransitionTextures(barriers)
}

func (e *recEncoder) DiscardEncoding() {
	e.r.add("DiscardEncoding")
	e.CommandEncoder.DiscardEncoding()
}

func (e *recEncoder) BeginRenderPass(desc *wgpu.RenderPassDescriptor) wgpu.RenderPassEncoder {
	e.r.add("BeginRenderPass", len(desc.ColorAttachments), desc.DepthStencilAttachment != nil)
	e.r.passes = append(e.r.passes, desc)
	return &recPass{RenderPassEncoder: e.CommandEncoder.BeginRenderPass(desc), r: e.r}
}

func (e *recEncoder) BeginComputePass(desc *wgpu.ComputePassDescriptor) wgpu.ComputePassEncoder {
	e.r.add("BeginComputePass")
	return &recCompute{ComputePassEncoder: e.CommandEncoder.BeginComputePass(desc), r: e.r}
}

type recPass struct {
	wgpu.RenderPassEncoder
	r *recorder
}

func (p *recPass) End() { p.r.add("EndRenderPass") }

func (p *recPass) SetPipeline(wgpu.RenderPipeline) { p.r.add("SetPipeline") }

func (p *recPass) SetBindGroup(index uint32, _ wgpu.BindGroup, _ []uint32) {
	p.r.add("SetBindGroup", index)
}

func (p *recPass) SetVertexBuffer(slot uint32, _ wgpu.Buffer, offset uint64) {
	p.r.add("SetVertexBuffer", slot, offset)
}

func (p *recPass) SetIndexBuffer(_ wgpu.Buffer, format gputypes.IndexFormat, offset uint64) {
	p.r.add("SetIndexBuffer", format, offset)
}

func (p *recPass) SetViewport(x, y, w, h, minDepth, maxDepth float32) {
	p.r.add("SetViewport", x, y, w, h, minDepth, maxDepth)
}

func (p *recPass) SetScissorRect(x, y, w, h uint32) { p.r.add("SetScissorRect", x, y, w, h) }

func (p *recPass) SetBlendConstant(c *gputypes.Color) { p.r.add("SetBlendConstant", *c) }

func (p *recPass) SetStencilReference(ref uint32) { p.r.add("SetStencilReference", ref) }

func (p *recPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.r.add("Draw", vertexCount, instanceCount, firstVertex, firstInstance)
}

func (p *recPass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.r.add("DrawIndexed", indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
}

func (p *recPass) DrawIndirect(_ wgpu.Buffer, offset uint64) { p.r.add("DrawIndirect", offset) }

func (p *recPass) DrawIndexedIndirect(_ wgpu.Buffer, offset uint64) {
	p.r.add("DrawIndexedIndirect", offset)
}

type recCompute struct {
	wgpu.ComputePassEncoder
	r *recorder
}

func (c *recCompute) End() { c.r.add("EndComputePass") }

func (c *recCompute) SetPipeline(wgpu.ComputePipeline) { c.r.add("SetComputePipeline") }

func (c *recCompute) SetBindGroup(index uint32, _ wgpu.BindGroup, _ []uint32) {
	c.r.add("SetBindGroup", index)
}

func (c *recCompute) Dispatch(x, y, z uint32) { c.r.add("Dispatch", x, y, z) }

func (c *recCompute) DispatchIndirect(_ wgpu.Buffer, offset uint64) {
	c.r.add("DispatchIndirect", offset)
}

// recQueue logs submissions and queue writes.
type recQueue struct {
	wgpu.Queue
	r *recorder
}

func (q *recQueue) Submit(cbs []wgpu.CommandBuffer) (uint64, error) {
	q.r.add("Submit", len(cbs))
	return q.Queue.Submit(cbs)
}

func (q *recQueue) WriteBuffer(buf wgpu.Buffer, offset uint64, data []byte) error {
	q.r.add("WriteBuffer", offset, len(data))
	return q.Queue.WriteBuffer(buf, offset, data)
}

func (q *recQueue) WriteTexture(dst *wgpu.ImageCopyTexture, data []byte, layout *wgpu.ImageDataLayout, size *wgpu.Extent3D) error {
	q.r.add("WriteTexture", dst.MipLevel, dst.Origin.Z, layout.BytesPerRow, layout.RowsPerImage,
		size.Width, size.Height, size.DepthOrArrayLayers)
	return q.Queue.WriteTexture(dst, data, layout, size)
}

// openNoop opens a device on the noop HAL backend.
func openNoop(t *testing.T) wgpu.OpenDevice {
	t.Helper()
	inst, err := noop.API{}.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance() error = %v", err)
	}
	t.Cleanup(inst.Destroy)
	adapters := inst.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		t.Fatal("noop backend has no adapters")
	}
	open, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return open
}

func newRecorder(t *testing.T) (Handles, *recorder) {
	t.Helper()
	open := openNoop(t)
	r := &recorder{Device: open.Device}
	return Handles{Device: r, Queue: &recQueue{Queue: open.Queue, r: r}}, r
}

// fakeProvider is a device provider exposing HAL objects.
type fakeProvider struct {
	dev    wgpu.Device
	queue  wgpu.Queue
	format gputypes.TextureFormat
}

var _ gpucontext.DeviceProvider = (*fakeProvider)(nil)

func (p *fakeProvider) Device() gpucontext.Device { return nil }
func (p *fakeProvider) Queue() gpucontext.Queue { return nil }
func (p *fakeProvider) SurfaceFormat() gputypes.TextureFormat { return p.format }
func (p *fakeProvider) Adapter() gpucontext.Adapter { return nil }
func (p *fakeProvider) AdapterInfo() gpucontext.AdapterInfo { return gpucontext.AdapterInfo{Name: "noop"} }
func (p *fakeProvider) HalDevice() any { return p.dev }
func (p *fakeProvider) HalQueue() any { return p.queue }
