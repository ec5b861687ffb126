package d3d11

import (
	"fmt"
	"log/slog"

	beholder "github.com/Zulkir/Beholder-sub001"
	"github.com/Zulkir/Beholder-sub001/backend"
	"github.com/Zulkir/Beholder-sub001/internal/cache"
	"github.com/Zulkir/Beholder-sub001/internal/tracker"
	"github.com/Zulkir/Beholder-sub001/shader"
)

func init() {
	backend.Register(backend.D3D11, func(native any, opts ...beholder.Option) (beholder.Device, error) {
		h, ok := native.(Handles)
		if !ok {
			return nil, fmt.Errorf("%w: d3d11 needs d3d11.Handles, got %T", beholder.ErrWrongBackend, native)
		}
		return NewDevice(h, opts...)
	})
}

// Device is a Direct3D 11 device using its immediate context.
type Device struct {
	dev      NativeDevice
	nctx     NativeContext
	compiler Compiler
	opts     beholder.Options
	log      *slog.Logger
	caps     beholder.Capabilities
	reg      *beholder.Registry

	states       *beholder.StateCache
	combinations *cache.Cache[beholder.ShaderSet, *shader.Combination]

	tr  *translator
	ctx *tracker.Context
}

var _ beholder.Device = (*Device)(nil)

// features returns what a feature level supports. Stream output is
// tracked but not applied, so it is never reported.
func features(level uint32) beholder.Feature {
	f := beholder.FeatureMap |
		beholder.FeatureGeometryShader |
		beholder.FeatureIndexBufferOffset |
		beholder.FeatureGenerateMips
	if level >= FEATURE_LEVEL_11_0 {
		f |= beholder.FeatureDrawInstancedIndirect |
			beholder.FeatureDrawIndexedInstancedIndirect |
			beholder.FeatureUnorderedAccessClear |
			beholder.FeatureCompute |
			beholder.FeatureTessellation
	}
	return f
}

// NewDevice creates a device from native device, immediate context and
// HLSL compiler.
func NewDevice(h Handles, opts ...beholder.Option) (*Device, error) {
	if h.Device == nil || h.Context == nil || h.Compiler == nil {
		return nil, fmt.Errorf("%w: incomplete d3d11.Handles", beholder.ErrWrongBackend)
	}
	level := h.Device.FeatureLevel()
	if level < FEATURE_LEVEL_10_0 {
		return nil, fmt.Errorf("%w: feature level %#x", beholder.ErrNotSupported, level)
	}
	o := beholder.ApplyOptions(opts...)
	d := &Device{
		dev:      h.Device,
		nctx:     h.Context,
		compiler: h.Compiler,
		opts:     o,
		log:      o.Log().With("backend", backend.D3D11),
		reg:      beholder.NewRegistry(),
		caps: beholder.Capabilities{
			Features:              features(level),
			MaxRenderTargets:      SIMULTANEOUS_RENDER_TARGET_COUNT,
			MaxViewports:          VIEWPORT_AND_SCISSORRECT_MAX_INDEX + 1,
			MaxUniformBufferSlots: COMMONSHADER_CONSTANT_BUFFER_API_SLOT_COUNT,
			MaxTextureSlots:       COMMONSHADER_INPUT_RESOURCE_SLOT_COUNT,
			MaxSamplerSlots:       COMMONSHADER_SAMPLER_SLOT_COUNT,
			MaxVertexStreams:      beholder.MaxVertexStreams,
		}.Restrict(o),
		states:       beholder.NewStateCache(o.StateCacheLimit),
		combinations: cache.New[beholder.ShaderSet, *shader.Combination](o.StateCacheLimit, nil),
	}
	d.tr = newTranslator(d)
	d.ctx = tracker.New(d.tr, d.caps)
	d.log.Info("d3d11: device created", "feature_level", fmt.Sprintf("%#x", level), "features", d.caps.Features)
	return d, nil
}

// Backend returns "d3d11".
func (d *Device) Backend() string { return backend.D3D11 }

// Capabilities returns the device capabilities.
func (d *Device) Capabilities() beholder.Capabilities { return d.caps }

// ImmediateContext returns the context wrapping the native immediate context.
func (d *Device) ImmediateContext() beholder.DeviceContext { return d.ctx }

// Registry returns the device's live object registry.
func (d *Device) Registry() *beholder.Registry { return d.reg }

// CreateBuffer creates a buffer. Constant buffers are rounded up to 16
// bytes and initial data shorter than the buffer is zero padded.
func (d *Device) CreateBuffer(desc beholder.BufferDescription, initial []byte) (*beholder.Buffer, error) {
	if err := desc.Validate(initial); err != nil {
		return nil, err
	}
	size := desc.SizeInBytes
	if desc.BindFlags.Has(beholder.BindUniformBuffer) {
		size = (size + 15) &^ 15
	}
	if initial != nil && len(initial) < size {
		padded := make([]byte, size)
		copy(padded, initial)
		initial = padded
	}
	obj, err := d.dev.CreateBuffer(&BUFFER_DESC{
		ByteWidth:           uint32(size),
		Usage:               usage(desc.Usage),
		BindFlags:           bindFlags(desc.BindFlags),
		CPUAccessFlags:      cpuAccess(desc.Usage),
		MiscFlags:           miscFlags(desc.MiscFlags),
		StructureByteStride: uint32(desc.StructureByteStride),
	}, initial)
	if err != nil {
		return nil, fmt.Errorf("d3d11: create buffer: %w", err)
	}
	return beholder.NewBuffer(d.reg, desc, &d3dResource{dev: d.dev, obj: obj, levels: 1}), nil
}

// CreateTexture1D creates a 1D texture or texture array.
func (d *Device) CreateTexture1D(desc beholder.Texture1DDescription, initial []beholder.SubresourceData) (*beholder.Texture1D, error) {
	desc, err := desc.Resolve(initial)
	if err != nil {
		return nil, err
	}
	format, err := dxgiFormat(desc.Format)
	if err != nil {
		return nil, err
	}
	obj, err := d.dev.CreateTexture1D(&TEXTURE1D_DESC{
		Width:          uint32(desc.Width),
		MipLevels:      uint32(desc.MipLevels),
		ArraySize:      uint32(desc.ArraySize),
		Format:         format,
		Usage:          usage(desc.Usage),
		BindFlags:      bindFlags(desc.BindFlags),
		CPUAccessFlags: cpuAccess(desc.Usage),
		MiscFlags:      miscFlags(desc.MiscFlags),
	}, subresourceData(desc.Format, desc.MipLevels, desc.Width, 1, initial))
	if err != nil {
		return nil, fmt.Errorf("d3d11: create texture1d: %w", err)
	}
	return beholder.NewTexture1D(d.reg, desc, &d3dResource{dev: d.dev, obj: obj, levels: desc.MipLevels, format: desc.Format, width: desc.Width, height: 1}), nil
}

// CreateTexture2D creates a 2D texture, texture array, cube map or
// multisampled texture.
func (d *Device) CreateTexture2D(desc beholder.Texture2DDescription, initial []beholder.SubresourceData) (*beholder.Texture2D, error) {
	desc, err := desc.Resolve(initial)
	if err != nil {
		return nil, err
	}
	format, err := dxgiFormat(desc.Format)
	if err != nil {
		return nil, err
	}
	obj, err := d.dev.CreateTexture2D(&TEXTURE2D_DESC{
		Width:     uint32(desc.Width),
		Height:    uint32(desc.Height),
		MipLevels: uint32(desc.MipLevels),
		ArraySize: uint32(desc.ArraySize),
		Format:    format,
		SampleDesc: DXGI_SAMPLE_DESC{
			Count:   uint32(max(desc.Sampling.Count, 1)),
			Quality: uint32(desc.Sampling.Quality),
		},
		Usage:          usage(desc.Usage),
		BindFlags:      bindFlags(desc.BindFlags),
		CPUAccessFlags: cpuAccess(desc.Usage),
		MiscFlags:      miscFlags(desc.MiscFlags),
	}, subresourceData(desc.Format, desc.MipLevels, desc.Width, desc.Height, initial))
	if err != nil {
		return nil, fmt.Errorf("d3d11: create texture2d: %w", err)
	}
	return beholder.NewTexture2D(d.reg, desc, &d3dResource{dev: d.dev, obj: obj, levels: desc.MipLevels, format: desc.Format, width: desc.Width, height: desc.Height}), nil
}

// CreateTexture3D creates a volume texture.
func (d *Device) CreateTexture3D(desc beholder.Texture3DDescription, initial []beholder.SubresourceData) (*beholder.Texture3D, error) {
	desc, err := desc.Resolve(initial)
	if err != nil {
		return nil, err
	}
	format, err := dxgiFormat(desc.Format)
	if err != nil {
		return nil, err
	}
	obj, err := d.dev.CreateTexture3D(&TEXTURE3D_DESC{
		Width:          uint32(desc.Width),
		Height:         uint32(desc.Height),
		Depth:          uint32(desc.Depth),
		MipLevels:      uint32(desc.MipLevels),
		Format:         format,
		Usage:          usage(desc.Usage),
		BindFlags:      bindFlags(desc.BindFlags),
		CPUAccessFlags: cpuAccess(desc.Usage),
		MiscFlags:      miscFlags(desc.MiscFlags),
	}, subresourceData(desc.Format, desc.MipLevels, desc.Width, desc.Height, initial))
	if err != nil {
		return nil, fmt.Errorf("d3d11: create texture3d: %w", err)
	}
	return beholder.NewTexture3D(d.reg, desc, &d3dResource{dev: d.dev, obj: obj, levels: desc.MipLevels, format: desc.Format, width: desc.Width, height: desc.Height}), nil
}

// CreateRasterizerState returns the cached state for desc.
func (d *Device) CreateRasterizerState(desc beholder.RasterizerDescription) (*beholder.RasterizerState, error) {
	return d.states.Rasterizer(desc, func() (*beholder.RasterizerState, error) {
		rd := rasterizerDesc(desc)
		obj, err := wrap(d.dev.CreateRasterizerState(&rd))
		if err != nil {
			return nil, fmt.Errorf("d3d11: create rasterizer state: %w", err)
		}
		return beholder.NewRasterizerState(d.reg, desc, obj), nil
	})
}

// CreateBlendState returns the cached state for desc.
func (d *Device) CreateBlendState(desc beholder.BlendDescription) (*beholder.BlendState, error) {
	return d.states.Blend(desc, func() (*beholder.BlendState, error) {
		bd := blendDesc(desc)
		obj, err := wrap(d.dev.CreateBlendState(&bd))
		if err != nil {
			return nil, fmt.Errorf("d3d11: create blend state: %w", err)
		}
		return beholder.NewBlendState(d.reg, desc, obj), nil
	})
}

// CreateDepthStencilState returns the cached state for desc.
func (d *Device) CreateDepthStencilState(desc beholder.DepthStencilDescription) (*beholder.DepthStencilState, error) {
	return d.states.DepthStencil(desc, func() (*beholder.DepthStencilState, error) {
		dd := depthStencilDesc(desc)
		obj, err := wrap(d.dev.CreateDepthStencilState(&dd))
		if err != nil {
			return nil, fmt.Errorf("d3d11: create depth-stencil state: %w", err)
		}
		return beholder.NewDepthStencilState(d.reg, desc, obj), nil
	})
}

// CreateSamplerState returns the cached sampler for desc.
func (d *Device) CreateSamplerState(desc beholder.SamplerDescription) (*beholder.SamplerState, error) {
	return d.states.Sampler(desc, func() (*beholder.SamplerState, error) {
		sd := samplerDesc(desc)
		obj, err := wrap(d.dev.CreateSamplerState(&sd))
		if err != nil {
			return nil, fmt.Errorf("d3d11: create sampler state: %w", err)
		}
		return beholder.NewSamplerState(d.reg, desc, obj), nil
	})
}

// CreateShader compiles a shader from the HLSL or WGSL code of r.
func (d *Device) CreateShader(r *shader.Reflection) (beholder.Shader, error) {
	if r != nil && !d.stageSupported(r.Stage) {
		return nil, fmt.Errorf("%w: %s shaders", beholder.ErrNotSupported, r.Stage)
	}
	s, err := d.newShader(r)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (d *Device) stageSupported(s shader.Stage) bool {
	switch s {
	case shader.StageHull, shader.StageDomain:
		return d.caps.Features.Has(beholder.FeatureTessellation)
	case shader.StageCompute:
		return d.caps.Features.Has(beholder.FeatureCompute)
	}
	return true
}

// CreateVertexLayout creates an input layout against the bytecode of vs.
func (d *Device) CreateVertexLayout(vs beholder.Shader, elements []beholder.VertexLayoutElement) (*beholder.VertexLayout, error) {
	ds, ok := vs.(*d3dShader)
	if !ok {
		return nil, fmt.Errorf("%w: vertex layout shader %T", beholder.ErrWrongBackend, vs)
	}
	attrs, err := beholder.ResolveVertexLayout(vs.Reflection(), elements)
	if err != nil {
		return nil, err
	}
	descs, err := inputElements(attrs)
	if err != nil {
		return nil, err
	}
	obj, err := wrap(d.dev.CreateInputLayout(descs, ds.bytecode))
	if err != nil {
		return nil, fmt.Errorf("d3d11: create input layout: %w", err)
	}
	return beholder.NewVertexLayout(d.reg, attrs, obj), nil
}

// Dispose releases every object the device created. The native device
// itself belongs to the caller.
func (d *Device) Dispose() {
	d.combinations.Drain()
	d.states.Clear()
	d.reg.DisposeAll()
	d.nctx.Flush()
	d.log.Info("d3d11: device disposed")
}
