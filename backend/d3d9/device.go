package d3d9

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
	backend.Register(backend.D3D9, func(native any, opts ...beholder.Option) (beholder.Device, error) {
		h, ok := native.(Handles)
		if !ok {
			return nil, fmt.Errorf("%w: d3d9 needs d3d9.Handles, got %T", beholder.ErrWrongBackend, native)
		}
		return NewDevice(h, opts...)
	})
}

// Device is a Direct3D 9 device driven through shader model 3.
type Device struct {
	dev      NativeDevice
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

// features is everything D3D9 offers beyond vertex and pixel shaders.
// Index buffer offsets are emulated through the start index.
const features = beholder.FeatureIndexBufferOffset | beholder.FeatureGenerateMips

// NewDevice creates a device from a native device and HLSL compiler.
func NewDevice(h Handles, opts ...beholder.Option) (*Device, error) {
	if h.Device == nil || h.Compiler == nil {
		return nil, fmt.Errorf("%w: incomplete d3d9.Handles", beholder.ErrWrongBackend)
	}
	o := beholder.ApplyOptions(opts...)
	d := &Device{
		dev:      h.Device,
		compiler: h.Compiler,
		opts:     o,
		log:      o.Log().With("backend", backend.D3D9),
		reg:      beholder.NewRegistry(),
		caps: beholder.Capabilities{
			Features:              features,
			MaxRenderTargets:      MAX_SIMULTANEOUS_RENDERTARGETS,
			MaxViewports:          1,
			MaxUniformBufferSlots: 14,
			MaxTextureSlots:       MAX_PIXEL_SAMPLERS,
			MaxSamplerSlots:       MAX_PIXEL_SAMPLERS,
			MaxVertexStreams:      MAX_STREAMS,
		}.Restrict(o),
		states:       beholder.NewStateCache(o.StateCacheLimit),
		combinations: cache.New[beholder.ShaderSet, *shader.Combination](o.StateCacheLimit, nil),
	}
	d.tr = newTranslator(d)
	d.ctx = tracker.New(d.tr, d.caps)
	d.log.Info("d3d9: device created", "features", d.caps.Features)
	return d, nil
}

// Backend returns "d3d9".
func (d *Device) Backend() string { return backend.D3D9 }

// Capabilities returns the device capabilities.
func (d *Device) Capabilities() beholder.Capabilities { return d.caps }

// ImmediateContext returns the context driving the native device.
func (d *Device) ImmediateContext() beholder.DeviceContext { return d.ctx }

// Registry returns the device's live object registry.
func (d *Device) Registry() *beholder.Registry { return d.reg }

// CreateBuffer creates a vertex, index or uniform buffer. Index buffers
// have a fixed element size: 4 bytes when StructureByteStride is 4, 2
// otherwise. Uniform buffers are kept in system memory.
func (d *Device) CreateBuffer(desc beholder.BufferDescription, initial []byte) (*beholder.Buffer, error) {
	if err := desc.Validate(initial); err != nil {
		return nil, err
	}
	kinds := 0
	for _, f := range [...]beholder.BindFlags{beholder.BindVertexBuffer, beholder.BindIndexBuffer, beholder.BindUniformBuffer} {
		if desc.BindFlags.Has(f) {
			kinds++
		}
	}
	if kinds > 1 || desc.BindFlags&^(beholder.BindVertexBuffer|beholder.BindIndexBuffer|beholder.BindUniformBuffer) != 0 {
		return nil, fmt.Errorf("%w: d3d9 buffer bind flags %v", beholder.ErrNotSupported, desc.BindFlags)
	}
	if desc.MiscFlags != 0 {
		return nil, fmt.Errorf("%w: d3d9 buffer misc flags %v", beholder.ErrNotSupported, desc.MiscFlags)
	}
	b := &d3dBuffer{size: desc.SizeInBytes}
	poolType, use := pool(desc.Usage, desc.BindFlags, 0)
	var err error
	switch {
	case desc.BindFlags.Has(beholder.BindUniformBuffer):
		b.kind = uniformBuffer
		b.size = (desc.SizeInBytes + registerBytes - 1) / registerBytes * registerBytes
		b.shadow = make([]byte, b.size)
	case desc.BindFlags.Has(beholder.BindIndexBuffer):
		b.kind = indexBuffer
		b.format = FMT_INDEX16
		if desc.StructureByteStride == 4 {
			b.format = FMT_INDEX32
		}
		b.obj, err = d.dev.CreateIndexBuffer(uint32(b.size), use, b.format, poolType)
	default:
		b.obj, err = d.dev.CreateVertexBuffer(uint32(b.size), use, poolType)
	}
	if err != nil {
		return nil, fmt.Errorf("d3d9: create buffer: %w", err)
	}
	if initial != nil {
		if err := b.write(d.dev, initial); err != nil {
			b.Release()
			return nil, err
		}
	}
	return beholder.NewBuffer(d.reg, desc, b), nil
}

// CreateTexture1D creates a texture one texel high.
func (d *Device) CreateTexture1D(desc beholder.Texture1DDescription, initial []beholder.SubresourceData) (*beholder.Texture1D, error) {
	desc, err := desc.Resolve(initial)
	if err != nil {
		return nil, err
	}
	if desc.ArraySize > 1 {
		return nil, fmt.Errorf("%w: d3d9 texture arrays", beholder.ErrNotSupported)
	}
	tex, err := d.createTexture(desc.Width, 1, desc.MipLevels, desc.Format, desc.Usage, desc.BindFlags, desc.MiscFlags, initial)
	if err != nil {
		return nil, err
	}
	return beholder.NewTexture1D(d.reg, desc, tex), nil
}

// CreateTexture2D creates a texture, cube map or surface. Render targets
// and depth buffers that are never sampled become surfaces, the only
// place D3D9 allows multisampling.
func (d *Device) CreateTexture2D(desc beholder.Texture2DDescription, initial []beholder.SubresourceData) (*beholder.Texture2D, error) {
	desc, err := desc.Resolve(initial)
	if err != nil {
		return nil, err
	}
	if desc.IsCube() {
		if desc.ArraySize != 6 || desc.Width != desc.Height {
			return nil, fmt.Errorf("%w: d3d9 cube arrays", beholder.ErrNotSupported)
		}
		tex, err := d.createCube(desc, initial)
		if err != nil {
			return nil, err
		}
		return beholder.NewTexture2D(d.reg, desc, tex), nil
	}
	if desc.ArraySize > 1 {
		return nil, fmt.Errorf("%w: d3d9 texture arrays", beholder.ErrNotSupported)
	}
	target := desc.BindFlags.Has(beholder.BindRenderTarget) || desc.BindFlags.Has(beholder.BindDepthStencil)
	sampled := desc.BindFlags.Has(beholder.BindShaderResource)
	if desc.Format.IsDepth() && sampled {
		return nil, fmt.Errorf("%w: sampling d3d9 depth buffers", beholder.ErrNotSupported)
	}
	if target && !sampled && desc.MipLevels == 1 {
		tex, err := d.createSurface(desc)
		if err != nil {
			return nil, err
		}
		return beholder.NewTexture2D(d.reg, desc, tex), nil
	}
	if desc.Sampling.IsMultisampled() {
		return nil, fmt.Errorf("%w: d3d9 multisampled textures", beholder.ErrNotSupported)
	}
	tex, err := d.createTexture(desc.Width, desc.Height, desc.MipLevels, desc.Format, desc.Usage, desc.BindFlags, desc.MiscFlags, initial)
	if err != nil {
		return nil, err
	}
	return beholder.NewTexture2D(d.reg, desc, tex), nil
}

// CreateTexture3D creates a volume texture.
func (d *Device) CreateTexture3D(desc beholder.Texture3DDescription, initial []beholder.SubresourceData) (*beholder.Texture3D, error) {
	desc, err := desc.Resolve(initial)
	if err != nil {
		return nil, err
	}
	if desc.BindFlags.Has(beholder.BindRenderTarget) {
		return nil, fmt.Errorf("%w: rendering to a d3d9 volume", beholder.ErrNotSupported)
	}
	format, err := d3dFormat(desc.Format)
	if err != nil {
		return nil, err
	}
	poolType, use := pool(desc.Usage, desc.BindFlags, desc.MiscFlags)
	obj, err := d.dev.CreateVolumeTexture(uint32(desc.Width), uint32(desc.Height), uint32(desc.Depth),
		uint32(desc.MipLevels), use, format, poolType)
	if err != nil {
		return nil, fmt.Errorf("d3d9: create volume texture: %w", err)
	}
	tex := &d3dTexture{dev: d.dev, obj: obj, kind: volumeTexture, format: desc.Format, levels: desc.MipLevels,
		width: desc.Width, height: desc.Height}
	if err := d.writeInitial(tex, initial); err != nil {
		return nil, err
	}
	return beholder.NewTexture3D(d.reg, desc, tex), nil
}

func (d *Device) createTexture(width, height, levels int, f beholder.ExplicitFormat, u beholder.Usage,
	bind beholder.BindFlags, misc beholder.MiscFlags, initial []beholder.SubresourceData) (*d3dTexture, error) {
	format, err := d3dFormat(f)
	if err != nil {
		return nil, err
	}
	poolType, use := pool(u, bind, misc)
	obj, err := d.dev.CreateTexture(uint32(width), uint32(height), uint32(levels), use, format, poolType)
	if err != nil {
		return nil, fmt.Errorf("d3d9: create texture: %w", err)
	}
	tex := &d3dTexture{dev: d.dev, obj: obj, kind: plainTexture, format: f, levels: levels, width: width, height: height}
	if err := d.writeInitial(tex, initial); err != nil {
		return nil, err
	}
	return tex, nil
}

func (d *Device) createCube(desc beholder.Texture2DDescription, initial []beholder.SubresourceData) (*d3dTexture, error) {
	format, err := d3dFormat(desc.Format)
	if err != nil {
		return nil, err
	}
	poolType, use := pool(desc.Usage, desc.BindFlags, desc.MiscFlags)
	obj, err := d.dev.CreateCubeTexture(uint32(desc.Width), uint32(desc.MipLevels), use, format, poolType)
	if err != nil {
		return nil, fmt.Errorf("d3d9: create cube texture: %w", err)
	}
	tex := &d3dTexture{dev: d.dev, obj: obj, kind: cubeTexture, format: desc.Format, levels: desc.MipLevels,
		width: desc.Width, height: desc.Height}
	if err := d.writeInitial(tex, initial); err != nil {
		return nil, err
	}
	return tex, nil
}

func (d *Device) createSurface(desc beholder.Texture2DDescription) (*d3dTexture, error) {
	format, err := d3dFormat(desc.Format)
	if err != nil {
		return nil, err
	}
	w, h := uint32(desc.Width), uint32(desc.Height)
	ms, q := uint32(desc.Sampling.NativeCount()), uint32(desc.Sampling.Quality)
	var obj Object
	if desc.BindFlags.Has(beholder.BindDepthStencil) {
		obj, err = d.dev.CreateDepthStencilSurface(w, h, format, ms, q)
	} else {
		obj, err = d.dev.CreateRenderTarget(w, h, format, ms, q)
	}
	if err != nil {
		return nil, fmt.Errorf("d3d9: create surface: %w", err)
	}
	return &d3dTexture{dev: d.dev, obj: obj, kind: surface, format: desc.Format, levels: 1,
		width: desc.Width, height: desc.Height}, nil
}

func (d *Device) writeInitial(tex *d3dTexture, initial []beholder.SubresourceData) error {
	for i, data := range initial {
		if err := tex.write(i, data); err != nil {
			tex.Release()
			return err
		}
	}
	return nil
}

// CreateRasterizerState returns the cached state for desc.
func (d *Device) CreateRasterizerState(desc beholder.RasterizerDescription) (*beholder.RasterizerState, error) {
	return d.states.Rasterizer(desc, func() (*beholder.RasterizerState, error) {
		return beholder.NewRasterizerState(d.reg, desc, d3dState{}), nil
	})
}

// CreateBlendState returns the cached state for desc. D3D9 blends every
// render target alike; only write masks may differ.
func (d *Device) CreateBlendState(desc beholder.BlendDescription) (*beholder.BlendState, error) {
	if desc.AlphaToCoverageEnable {
		return nil, fmt.Errorf("%w: d3d9 alpha to coverage", beholder.ErrNotSupported)
	}
	first := desc.Target(0)
	for i := range MAX_SIMULTANEOUS_RENDERTARGETS {
		t := desc.Target(i)
		t.WriteMask = first.WriteMask
		if t != first {
			return nil, fmt.Errorf("%w: d3d9 independent blending", beholder.ErrNotSupported)
		}
	}
	for _, b := range [...]beholder.Blend{first.SrcBlend, first.DestBlend, first.SrcBlendAlpha, first.DestBlendAlpha} {
		if _, err := blendFactor(b); err != nil {
			return nil, err
		}
	}
	return d.states.Blend(desc, func() (*beholder.BlendState, error) {
		return beholder.NewBlendState(d.reg, desc, d3dState{}), nil
	})
}

// CreateDepthStencilState returns the cached state for desc.
func (d *Device) CreateDepthStencilState(desc beholder.DepthStencilDescription) (*beholder.DepthStencilState, error) {
	return d.states.DepthStencil(desc, func() (*beholder.DepthStencilState, error) {
		return beholder.NewDepthStencilState(d.reg, desc, d3dState{}), nil
	})
}

// CreateSamplerState returns the cached sampler for desc.
func (d *Device) CreateSamplerState(desc beholder.SamplerDescription) (*beholder.SamplerState, error) {
	if desc.Filter.Comparison {
		return nil, fmt.Errorf("%w: d3d9 comparison samplers", beholder.ErrNotSupported)
	}
	return d.states.Sampler(desc, func() (*beholder.SamplerState, error) {
		return beholder.NewSamplerState(d.reg, desc, d3dState{}), nil
	})
}

// CreateShader compiles a vertex or pixel shader from HLSL.
func (d *Device) CreateShader(r *shader.Reflection) (beholder.Shader, error) {
	if r != nil && r.Stage != shader.StageVertex && r.Stage != shader.StagePixel {
		return nil, fmt.Errorf("%w: %s shaders", beholder.ErrNotSupported, r.Stage)
	}
	s, err := d.newShader(r)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// CreateVertexLayout creates a vertex declaration. Elements are matched
// against the inputs of vs by semantic.
func (d *Device) CreateVertexLayout(vs beholder.Shader, elements []beholder.VertexLayoutElement) (*beholder.VertexLayout, error) {
	if _, ok := vs.(*d3dShader); !ok {
		return nil, fmt.Errorf("%w: vertex layout shader %T", beholder.ErrWrongBackend, vs)
	}
	attrs, err := beholder.ResolveVertexLayout(vs.Reflection(), elements)
	if err != nil {
		return nil, err
	}
	for _, a := range attrs {
		if a.Element.PerInstance && a.Element.InstanceStepRate > 1 {
			return nil, fmt.Errorf("%w: d3d9 instance step rate %d", beholder.ErrNotSupported, a.Element.InstanceStepRate)
		}
	}
	decl, err := vertexElements(attrs)
	if err != nil {
		return nil, err
	}
	obj, err := d.dev.CreateVertexDeclaration(decl)
	if err != nil {
		return nil, fmt.Errorf("d3d9: create vertex declaration: %w", err)
	}
	return beholder.NewVertexLayout(d.reg, attrs, &d3dObject{obj: obj}), nil
}

// combination returns the validated combination of set, building it on
// first use.
func (d *Device) combination(set beholder.ShaderSet) (*shader.Combination, error) {
	return d.combinations.GetOrCreate(set, func() (*shader.Combination, error) {
		combo, err := shader.NewCombination(set.Bases()...)
		if err != nil {
			return nil, err
		}
		d.log.Debug("d3d9: new shader combination", "uniform_buffers", combo.MaxValueBufferSlotPlusOne(),
			"textures", combo.MaxTextureSlotPlusOne())
		return combo, nil
	})
}

// Dispose releases every object the device created. The native device
// itself belongs to the caller.
func (d *Device) Dispose() {
	d.combinations.Drain()
	d.states.Clear()
	d.reg.DisposeAll()
	d.log.Info("d3d9: device disposed")
}
