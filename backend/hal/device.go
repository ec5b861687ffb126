package hal

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	wgpu "github.com/gogpu/wgpu/hal"

	beholder "github.com/Zulkir/Beholder-sub001"
	"github.com/Zulkir/Beholder-sub001/backend"
	"github.com/Zulkir/Beholder-sub001/internal/cache"
	"github.com/Zulkir/Beholder-sub001/internal/tracker"
	"github.com/Zulkir/Beholder-sub001/shader"
)

func init() {
	backend.Register(backend.HAL, func(native any, opts ...beholder.Option) (beholder.Device, error) {
		switch n := native.(type) {
		case Handles:
			return NewDevice(n, opts...)
		case gpucontext.DeviceProvider:
			return NewFromProvider(n, opts...)
		}
		return nil, fmt.Errorf("%w: hal needs hal.Handles or a gpucontext.DeviceProvider, got %T", beholder.ErrWrongBackend, native)
	})
}

// Handles are the native objects a device is created from. A zero
// Limits means gputypes.DefaultLimits.
type Handles struct {
	Device wgpu.Device
	Queue  wgpu.Queue
	Limits gputypes.Limits
}

// halProvider is implemented by device providers that expose their HAL
// device and queue.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// NewFromProvider creates a device on the HAL objects of p. The
// provider keeps ownership of them.
func NewFromProvider(p gpucontext.DeviceProvider, opts ...beholder.Option) (*Device, error) {
	hp, ok := p.(halProvider)
	if !ok {
		return nil, fmt.Errorf("%w: provider %T does not expose HAL objects", beholder.ErrWrongBackend, p)
	}
	dev, ok := hp.HalDevice().(wgpu.Device)
	if !ok {
		return nil, fmt.Errorf("%w: provider HalDevice is %T", beholder.ErrWrongBackend, hp.HalDevice())
	}
	queue, ok := hp.HalQueue().(wgpu.Queue)
	if !ok {
		return nil, fmt.Errorf("%w: provider HalQueue is %T", beholder.ErrWrongBackend, hp.HalQueue())
	}
	d, err := NewDevice(Handles{Device: dev, Queue: queue}, opts...)
	if err != nil {
		return nil, err
	}
	d.surfaceFormat = beholderFormat(p.SurfaceFormat())
	return d, nil
}

// retirement is a release deferred until submission after completes.
type retirement struct {
	after uint64
	fn    func()
}

type inflight struct {
	index uint64
	cb    wgpu.CommandBuffer
}

// Device is a device on a gogpu/wgpu HAL device. Render pipelines and
// bind groups are built lazily from the tracked state and cached.
type Device struct {
	dev    wgpu.Device
	queue  wgpu.Queue
	limits gputypes.Limits
	opts   beholder.Options
	log    *slog.Logger
	caps   beholder.Capabilities
	reg    *beholder.Registry

	surfaceFormat beholder.ExplicitFormat

	states          *beholder.StateCache
	programs        *cache.Cache[beholder.ShaderSet, *program]
	computePrograms *cache.Cache[*halShader, *program]
	pipelines       *pipelineCache
	groups          *bindGroupCache

	// defaults stand in for unbound states.
	defaults struct {
		rasterizer *rasterizerState
		blend      *blendState
		depth      *depthState
		sampler    *samplerState
	}

	tr  *translator
	ctx *tracker.Context

	mu          sync.Mutex
	recording   bool
	lastSubmit  uint64
	pending     []retirement
	unsubmitted []func()
	inflight    []inflight
}

var _ beholder.Device = (*Device)(nil)

// NewDevice creates a device from a HAL device and queue, which stay
// owned by the caller.
func NewDevice(h Handles, opts ...beholder.Option) (*Device, error) {
	if h.Device == nil || h.Queue == nil {
		return nil, fmt.Errorf("%w: incomplete hal.Handles", beholder.ErrWrongBackend)
	}
	limits := h.Limits
	if limits == (gputypes.Limits{}) {
		limits = gputypes.DefaultLimits()
	}
	o := beholder.ApplyOptions(opts...)
	d := &Device{
		dev:    h.Device,
		queue:  h.Queue,
		limits: limits,
		opts:   o,
		log:    o.Log().With("backend", backend.HAL),
		reg:    beholder.NewRegistry(),
		caps: beholder.Capabilities{
			Features: beholder.FeatureCompute |
				beholder.FeatureDrawInstancedIndirect |
				beholder.FeatureDrawIndexedInstancedIndirect |
				beholder.FeatureIndexBufferOffset,
			MaxRenderTargets:      int(min(limits.MaxColorAttachments, beholder.MaxRenderTargets)),
			MaxViewports:          1,
			MaxUniformBufferSlots: int(limits.MaxBindingsPerBindGroup),
			MaxTextureSlots:       int(limits.MaxBindingsPerBindGroup),
			MaxSamplerSlots:       int(limits.MaxBindingsPerBindGroup),
			MaxVertexStreams:      int(min(limits.MaxVertexBuffers, beholder.MaxVertexStreams)),
		}.Restrict(o),
		states: beholder.NewStateCache(o.StateCacheLimit),
	}
	d.programs = cache.New(o.StateCacheLimit, func(_ beholder.ShaderSet, p *program) { d.destroyProgram(p) })
	d.computePrograms = cache.New(o.StateCacheLimit, func(_ *halShader, p *program) { d.destroyProgram(p) })
	d.pipelines = newPipelineCache(func(rp wgpu.RenderPipeline) {
		d.retire(func() { d.dev.DestroyRenderPipeline(rp) })
	})
	d.groups = newBindGroupCache(d, o.StateCacheLimit)
	if err := d.createDefaults(); err != nil {
		return nil, err
	}
	d.tr = newTranslator(d)
	d.ctx = tracker.New(d.tr, d.caps)
	d.log.Info("hal: device created", "features", d.caps.Features, "max_bind_groups", limits.MaxBindGroups)
	return d, nil
}

func (d *Device) createDefaults() error {
	var err error
	if d.defaults.rasterizer, err = d.newRasterizerState(beholder.DefaultRasterizer()); err != nil {
		return err
	}
	if d.defaults.blend, err = d.newBlendState(beholder.DefaultBlend()); err != nil {
		return err
	}
	if d.defaults.depth, err = d.newDepthState(beholder.DefaultDepthStencil()); err != nil {
		return err
	}
	if d.defaults.sampler, err = d.newSamplerState(beholder.DefaultSampler()); err != nil {
		return fmt.Errorf("default sampler: %w", err)
	}
	return nil
}

// Backend returns "hal".
func (d *Device) Backend() string { return backend.HAL }

// Capabilities returns the device capabilities.
func (d *Device) Capabilities() beholder.Capabilities { return d.caps }

// ImmediateContext returns the device's context. Commands are recorded
// into one command buffer, submitted on Flush.
func (d *Device) ImmediateContext() beholder.DeviceContext { return d.ctx }

// Registry returns the device's live object registry.
func (d *Device) Registry() *beholder.Registry { return d.reg }

// SurfaceFormat returns the provider's surface format, or FormatUnknown
// for devices not created from a provider.
func (d *Device) SurfaceFormat() beholder.ExplicitFormat { return d.surfaceFormat }

func (d *Device) label(s string) string {
	if d.opts.DebugLabels {
		return s
	}
	return ""
}

// CreateBuffer creates a buffer. Sizes are rounded up to 4 bytes, and
// to 16 for uniform buffers.
func (d *Device) CreateBuffer(desc beholder.BufferDescription, initial []byte) (*beholder.Buffer, error) {
	if err := desc.Validate(initial); err != nil {
		return nil, err
	}
	usage, err := bufferUsage(desc)
	if err != nil {
		return nil, err
	}
	size := (desc.SizeInBytes + 3) &^ 3
	if desc.BindFlags.Has(beholder.BindUniformBuffer) {
		size = (size + 15) &^ 15
	}
	buf, err := d.dev.CreateBuffer(&wgpu.BufferDescriptor{
		Label: d.label("buffer"),
		Size:  uint64(size),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("hal: create buffer: %w", err)
	}
	hb := &halBuffer{ident: newIdent(), d: d, buf: buf, size: uint64(size)}
	if initial != nil {
		if err := d.writeBuffer(hb, initial); err != nil {
			d.dev.DestroyBuffer(buf)
			return nil, err
		}
	}
	return beholder.NewBuffer(d.reg, desc, hb), nil
}

func (d *Device) writeBuffer(b *halBuffer, data []byte) error {
	if len(data)%4 != 0 {
		padded := make([]byte, (len(data)+3)&^3)
		copy(padded, data)
		data = padded
	}
	if uint64(len(data)) > b.size {
		return fmt.Errorf("%w: %d bytes for a %d byte buffer", beholder.ErrInitialData, len(data), b.size)
	}
	if err := d.queue.WriteBuffer(b.buf, 0, data); err != nil {
		return fmt.Errorf("hal: write buffer: %w", err)
	}
	return nil
}

func (d *Device) createTexture(label string, dim gputypes.TextureDimension, format beholder.ExplicitFormat, bind beholder.BindFlags,
	width, height, depth, levels, layers, samples int, initial []beholder.SubresourceData) (*halTexture, error) {
	tf, err := textureFormat(format)
	if err != nil {
		return nil, err
	}
	size := wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: uint32(max(depth, layers))}
	tex, err := d.dev.CreateTexture(&wgpu.TextureDescriptor{
		Label:         d.label(label),
		Size:          size,
		MipLevelCount: uint32(levels),
		SampleCount:   uint32(max(samples, 1)),
		Dimension:     dim,
		Format:        tf,
		Usage:         textureUsage(bind),
	})
	if err != nil {
		return nil, fmt.Errorf("hal: create %s: %w", label, err)
	}
	ht := &halTexture{
		ident:   newIdent(),
		d:       d,
		tex:     tex,
		format:  format,
		native:  tf,
		dim:     dim,
		width:   width,
		height:  height,
		depth:   depth,
		levels:  levels,
		layers:  layers,
		samples: max(samples, 1),
	}
	for i, data := range initial {
		if err := d.writeTexture(ht, i, data); err != nil {
			d.dev.DestroyTexture(tex)
			return nil, err
		}
	}
	return ht, nil
}

// writeTexture replaces subresource sub of t, which is mip sub%levels
// of array layer sub/levels. Zero pitches mean tightly packed rows.
func (d *Device) writeTexture(t *halTexture, sub int, data beholder.SubresourceData) error {
	if t.samples > 1 {
		return fmt.Errorf("%w: writing a multisampled texture", beholder.ErrNotSupported)
	}
	mip, layer := sub%t.levels, sub/t.levels
	if layer >= t.layers {
		return fmt.Errorf("%w: subresource %d of %d", beholder.ErrInvalidDescription, sub, t.levels*t.layers)
	}
	w, h := beholder.MipSize(t.width, mip), beholder.MipSize(t.height, mip)
	depth := 1
	if t.dim == gputypes.TextureDimension3D {
		depth = beholder.MipSize(t.depth, mip)
	}
	rows := h
	if t.format.IsCompressed() {
		w, h = (w+3)&^3, (h+3)&^3
		rows = h / 4
	}
	rowPitch := data.RowPitch
	if rowPitch <= 0 {
		rowPitch = t.format.RowPitch(w)
	}
	rowsPerImage := rows
	if data.SlicePitch > 0 {
		rowsPerImage = data.SlicePitch / rowPitch
	}
	if need := rowPitch*rowsPerImage*(depth-1) + rowPitch*rows; len(data.Bytes) < need {
		return fmt.Errorf("%w: %d bytes for mip %d, need %d", beholder.ErrInitialData, len(data.Bytes), mip, need)
	}
	err := d.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  t.tex,
			MipLevel: uint32(mip),
			Origin:   wgpu.Origin3D{Z: uint32(layer)},
			Aspect:   gputypes.TextureAspectAll,
		},
		data.Bytes,
		&wgpu.ImageDataLayout{BytesPerRow: uint32(rowPitch), RowsPerImage: uint32(rowsPerImage)},
		&wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: uint32(depth)},
	)
	if err != nil {
		return fmt.Errorf("hal: write texture: %w", err)
	}
	return nil
}

// CreateTexture1D creates a 1D texture or texture array.
func (d *Device) CreateTexture1D(desc beholder.Texture1DDescription, initial []beholder.SubresourceData) (*beholder.Texture1D, error) {
	desc, err := desc.Resolve(initial)
	if err != nil {
		return nil, err
	}
	t, err := d.createTexture("texture1d", gputypes.TextureDimension1D, desc.Format, desc.BindFlags,
		desc.Width, 1, 1, desc.MipLevels, desc.ArraySize, 1, initial)
	if err != nil {
		return nil, err
	}
	return beholder.NewTexture1D(d.reg, desc, t), nil
}

// CreateTexture2D creates a 2D texture, texture array, cube map or
// multisampled texture.
func (d *Device) CreateTexture2D(desc beholder.Texture2DDescription, initial []beholder.SubresourceData) (*beholder.Texture2D, error) {
	desc, err := desc.Resolve(initial)
	if err != nil {
		return nil, err
	}
	t, err := d.createTexture("texture2d", gputypes.TextureDimension2D, desc.Format, desc.BindFlags,
		desc.Width, desc.Height, 1, desc.MipLevels, desc.ArraySize, desc.Sampling.Count, initial)
	if err != nil {
		return nil, err
	}
	return beholder.NewTexture2D(d.reg, desc, t), nil
}

// CreateTexture3D creates a volume texture.
func (d *Device) CreateTexture3D(desc beholder.Texture3DDescription, initial []beholder.SubresourceData) (*beholder.Texture3D, error) {
	desc, err := desc.Resolve(initial)
	if err != nil {
		return nil, err
	}
	t, err := d.createTexture("texture3d", gputypes.TextureDimension3D, desc.Format, desc.BindFlags,
		desc.Width, desc.Height, desc.Depth, desc.MipLevels, 1, 1, initial)
	if err != nil {
		return nil, err
	}
	return beholder.NewTexture3D(d.reg, desc, t), nil
}

// CreateRasterizerState returns the cached state for desc.
func (d *Device) CreateRasterizerState(desc beholder.RasterizerDescription) (*beholder.RasterizerState, error) {
	return d.states.Rasterizer(desc, func() (*beholder.RasterizerState, error) {
		s, err := d.newRasterizerState(desc)
		if err != nil {
			return nil, err
		}
		return beholder.NewRasterizerState(d.reg, desc, s), nil
	})
}

// CreateBlendState returns the cached state for desc.
func (d *Device) CreateBlendState(desc beholder.BlendDescription) (*beholder.BlendState, error) {
	return d.states.Blend(desc, func() (*beholder.BlendState, error) {
		s, err := d.newBlendState(desc)
		if err != nil {
			return nil, err
		}
		return beholder.NewBlendState(d.reg, desc, s), nil
	})
}

// CreateDepthStencilState returns the cached state for desc.
func (d *Device) CreateDepthStencilState(desc beholder.DepthStencilDescription) (*beholder.DepthStencilState, error) {
	return d.states.DepthStencil(desc, func() (*beholder.DepthStencilState, error) {
		s, err := d.newDepthState(desc)
		if err != nil {
			return nil, err
		}
		return beholder.NewDepthStencilState(d.reg, desc, s), nil
	})
}

// CreateSamplerState returns the cached sampler for desc.
func (d *Device) CreateSamplerState(desc beholder.SamplerDescription) (*beholder.SamplerState, error) {
	return d.states.Sampler(desc, func() (*beholder.SamplerState, error) {
		s, err := d.newSamplerState(desc)
		if err != nil {
			return nil, err
		}
		return beholder.NewSamplerState(d.reg, desc, s), nil
	})
}

// CreateShader creates a shader module from the WGSL code of r.
func (d *Device) CreateShader(r *shader.Reflection) (beholder.Shader, error) {
	if r != nil {
		switch r.Stage {
		case shader.StageVertex, shader.StagePixel:
		case shader.StageCompute:
			if !d.caps.Features.Has(beholder.FeatureCompute) {
				return nil, fmt.Errorf("%w: %s shaders", beholder.ErrNotSupported, r.Stage)
			}
		default:
			return nil, fmt.Errorf("%w: %s shaders", beholder.ErrNotSupported, r.Stage)
		}
	}
	s, err := d.newShader(r)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// CreateVertexLayout creates a vertex buffer layout. Attributes feed the
// @location of the vertex shader input they resolve to.
func (d *Device) CreateVertexLayout(vs beholder.Shader, elements []beholder.VertexLayoutElement) (*beholder.VertexLayout, error) {
	if _, ok := vs.(*halShader); !ok {
		return nil, fmt.Errorf("%w: vertex layout shader %T", beholder.ErrWrongBackend, vs)
	}
	r := vs.Reflection()
	attrs, err := beholder.ResolveVertexLayout(r, elements)
	if err != nil {
		return nil, err
	}
	inputs := make([]string, len(r.Inputs))
	for i, in := range r.Inputs {
		inputs[i] = in.Semantic
	}
	l, err := d.newInputLayout(inputs, attrs)
	if err != nil {
		return nil, err
	}
	return beholder.NewVertexLayout(d.reg, attrs, l), nil
}

func (d *Device) createRenderPipeline(p *program, key *pipelineKey, layout *inputLayout,
	rs *rasterizerState, bs *blendState, ds *depthState) (wgpu.RenderPipeline, error) {
	vs, ps := p.shaders[shader.StageVertex], p.shaders[shader.StagePixel]
	var buffers []gputypes.VertexBufferLayout
	if layout != nil {
		buffers = slices.Clone(layout.buffers)
		for i := range buffers {
			buffers[i].ArrayStride = key.strides[i]
		}
	}
	primitive := rs.primitive
	primitive.Topology = key.topology
	if key.stripIndex != gputypes.IndexFormatUndefined {
		f := key.stripIndex
		primitive.StripIndexFormat = &f
	}
	desc := &wgpu.RenderPipelineDescriptor{
		Label:  d.label(vs.entry()),
		Layout: p.layout,
		Vertex: wgpu.VertexState{
			Module:     vs.module,
			EntryPoint: vs.entry(),
			Buffers:    buffers,
		},
		Primitive: primitive,
		Multisample: gputypes.MultisampleState{
			Count:                  key.samples,
			Mask:                   uint64(key.sampleMask),
			AlphaToCoverageEnabled: bs.alphaToCoverage,
		},
	}
	if key.depthFormat != gputypes.TextureFormatUndefined {
		st := ds.state
		st.Format = key.depthFormat
		st.DepthBias = rs.bias
		st.DepthBiasSlopeScale = rs.biasSlope
		st.DepthBiasClamp = rs.biasClamp
		desc.DepthStencil = &st
	}
	if ps != nil {
		targets := make([]gputypes.ColorTargetState, key.colorCount)
		for i := range targets {
			targets[i] = bs.targets[i]
			targets[i].Format = key.colors[i]
		}
		desc.Fragment = &wgpu.FragmentState{Module: ps.module, EntryPoint: ps.entry(), Targets: targets}
	}
	rp, err := d.dev.CreateRenderPipeline(desc)
	if err != nil {
		return nil, fmt.Errorf("hal: create render pipeline: %w", err)
	}
	d.log.Debug("hal: created render pipeline", "program", p.id, "targets", key.colorCount, "samples", key.samples)
	return rp, nil
}

// forget drops every cached pipeline and bind group built from object id.
func (d *Device) forget(id uint64) {
	d.pipelines.removeReferencing(id)
	d.groups.removeReferencing(id)
}

// dropProgram removes p from its cache and destroys it.
func (d *Device) dropProgram(p *program) {
	if cs := p.shaders[shader.StageCompute]; cs != nil {
		if cur, ok := d.computePrograms.Get(cs); ok && cur == p {
			d.computePrograms.Delete(cs)
		}
	} else if cur, ok := d.programs.Get(p.set); ok && cur == p {
		d.programs.Delete(p.set)
	}
	d.destroyProgram(p)
}

func (d *Device) destroyProgram(p *program) {
	d.mu.Lock()
	if p.dropped {
		d.mu.Unlock()
		return
	}
	p.dropped = true
	d.mu.Unlock()
	p.destroy()
}

func (d *Device) isDropped(p *program) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return p.dropped
}

// retire runs fn once the GPU can no longer use what fn destroys: after
// the submission of the commands being recorded, or after the last
// submission when nothing is recorded.
func (d *Device) retire(fn func()) {
	d.mu.Lock()
	if d.recording {
		d.unsubmitted = append(d.unsubmitted, fn)
		d.mu.Unlock()
		return
	}
	d.pending = append(d.pending, retirement{after: d.lastSubmit, fn: fn})
	d.mu.Unlock()
	d.collect()
}

func (d *Device) beginRecording() {
	d.mu.Lock()
	d.recording = true
	d.mu.Unlock()
}

// endRecording submits cb, or discards the recording when cb is nil.
func (d *Device) endRecording(cb wgpu.CommandBuffer) error {
	var index uint64
	if cb != nil {
		var err error
		if index, err = d.queue.Submit([]wgpu.CommandBuffer{cb}); err != nil {
			d.dev.FreeCommandBuffer(cb)
			d.mu.Lock()
			d.recording = false
			d.mu.Unlock()
			return fmt.Errorf("hal: submit: %w", err)
		}
	}
	d.mu.Lock()
	if cb != nil {
		d.lastSubmit = index
		d.inflight = append(d.inflight, inflight{index: index, cb: cb})
	}
	for _, fn := range d.unsubmitted {
		d.pending = append(d.pending, retirement{after: d.lastSubmit, fn: fn})
	}
	d.unsubmitted = nil
	d.recording = false
	d.mu.Unlock()
	d.collect()
	return nil
}

// collect frees command buffers and runs retirements whose submission
// has completed.
func (d *Device) collect() {
	done := d.queue.PollCompleted()
	var fns []func()
	var cbs []wgpu.CommandBuffer
	d.mu.Lock()
	d.pending = slices.DeleteFunc(d.pending, func(r retirement) bool {
		if r.after > done {
			return false
		}
		fns = append(fns, r.fn)
		return true
	})
	d.inflight = slices.DeleteFunc(d.inflight, func(f inflight) bool {
		if f.index > done {
			return false
		}
		cbs = append(cbs, f.cb)
		return true
	})
	d.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
	for _, cb := range cbs {
		d.dev.FreeCommandBuffer(cb)
	}
}

// Dispose releases every object the device created and waits for the
// GPU. The HAL device and queue belong to the caller.
func (d *Device) Dispose() {
	d.tr.discard()
	d.reg.DisposeAll()
	for _, p := range d.programs.Drain() {
		d.destroyProgram(p)
	}
	for _, p := range d.computePrograms.Drain() {
		d.destroyProgram(p)
	}
	d.pipelines.DestroyAll()
	d.groups.destroyAll()
	d.states.Clear()
	d.defaults.rasterizer.Release()
	d.defaults.blend.Release()
	d.defaults.depth.Release()
	d.defaults.sampler.Release()
	if err := d.dev.WaitIdle(); err != nil {
		d.log.Warn("hal: wait idle", "err", err)
	}
	d.mu.Lock()
	pending, inflight := d.pending, d.inflight
	d.pending, d.inflight = nil, nil
	d.mu.Unlock()
	for _, r := range pending {
		r.fn()
	}
	for _, f := range inflight {
		d.dev.FreeCommandBuffer(f.cb)
	}
	d.log.Info("hal: device disposed")
}
