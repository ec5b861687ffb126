package gl

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
	backend.Register(backend.OpenGL, func(native any, opts ...beholder.Option) (beholder.Device, error) {
		f, ok := native.(Functions)
		if !ok {
			return nil, fmt.Errorf("%w: opengl needs gl.Functions, got %T", beholder.ErrWrongBackend, native)
		}
		return NewDevice(f, opts...)
	})
}

// Device is an OpenGL 4.5 device. All of its methods must be called on the
// goroutine that owns the GL context.
type Device struct {
	f    Functions
	opts beholder.Options
	log  *slog.Logger
	caps beholder.Capabilities
	reg  *beholder.Registry

	states   *beholder.StateCache
	programs *cache.Cache[beholder.ShaderSet, *program]

	fbo      Framebuffer
	clearFBO Framebuffer
	vao      VertexArray
	sampler  *glSampler

	tr  *translator
	ctx *tracker.Context
}

var _ beholder.Device = (*Device)(nil)

// NewDevice creates a device on the GL context current on the calling
// goroutine.
func NewDevice(f Functions, opts ...beholder.Option) (*Device, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: nil gl.Functions", beholder.ErrWrongBackend)
	}
	o := beholder.ApplyOptions(opts...)
	if o.ShaderVersion == "" {
		o.ShaderVersion = DefaultVersion
	}
	d := &Device{
		f:    f,
		opts: o,
		log:  o.Log().With("backend", backend.OpenGL),
		reg:  beholder.NewRegistry(),
		caps: beholder.Capabilities{
			Features: beholder.FeatureDrawInstancedIndirect |
				beholder.FeatureTessellation |
				beholder.FeatureGeometryShader |
				beholder.FeatureGenerateMips,
			MaxRenderTargets:      8,
			MaxViewports:          16,
			MaxUniformBufferSlots: 14,
			MaxTextureSlots:       16,
			MaxSamplerSlots:       16,
			MaxVertexStreams:      beholder.MaxVertexStreams,
			BottomLeftOrigin:      true,
		}.Restrict(o),
		states: beholder.NewStateCache(o.StateCacheLimit),
	}
	d.programs = cache.New(o.StateCacheLimit, func(_ beholder.ShaderSet, p *program) {
		d.f.DeleteProgram(p.obj)
	})

	d.fbo = f.CreateFramebuffer()
	d.clearFBO = f.CreateFramebuffer()
	d.vao = f.CreateVertexArray()
	f.BindFramebuffer(DRAW_FRAMEBUFFER, d.fbo)
	f.BindVertexArray(d.vao)
	d.sampler = newSampler(f, beholder.DefaultSampler())

	d.tr = newTranslator(d)
	d.ctx = tracker.New(d.tr, d.caps)
	d.log.Info("gl: device created", "shader_version", o.ShaderVersion, "features", d.caps.Features)
	return d, nil
}

// Backend returns "opengl".
func (d *Device) Backend() string { return backend.OpenGL }

// Capabilities returns the device capabilities.
func (d *Device) Capabilities() beholder.Capabilities { return d.caps }

// ImmediateContext returns the only context of the device.
func (d *Device) ImmediateContext() beholder.DeviceContext { return d.ctx }

// Registry returns the device's live object registry.
func (d *Device) Registry() *beholder.Registry { return d.reg }

// CreateBuffer allocates a buffer with immutable storage size.
func (d *Device) CreateBuffer(desc beholder.BufferDescription, initial []byte) (*beholder.Buffer, error) {
	if err := desc.Validate(initial); err != nil {
		return nil, err
	}
	if desc.BindFlags.Has(beholder.BindStreamOutput) || desc.BindFlags.Has(beholder.BindUnorderedAccess) {
		return nil, fmt.Errorf("%w: gl buffer bind flags %v", beholder.ErrNotSupported, desc.BindFlags)
	}
	obj := d.f.CreateBuffer()
	d.f.NamedBufferData(obj, desc.SizeInBytes, initial, bufferUsage(desc.Usage))
	return beholder.NewBuffer(d.reg, desc, &glBuffer{f: d.f, obj: obj, size: desc.SizeInBytes}), nil
}

func (d *Device) checkTextureFlags(bind beholder.BindFlags) error {
	if bind.Has(beholder.BindUnorderedAccess) {
		return fmt.Errorf("%w: gl unordered access textures", beholder.ErrNotSupported)
	}
	return nil
}

func (d *Device) newTexture(target Enum, format beholder.ExplicitFormat, levels, layers int, dim beholder.ViewDimension) (*glTexture, error) {
	triple, err := textureFormat(format)
	if err != nil {
		return nil, err
	}
	return &glTexture{
		f:         d.f,
		obj:       d.f.CreateTexture(target),
		target:    target,
		triple:    triple,
		format:    format,
		levels:    levels,
		layers:    layers,
		dimension: dim,
	}, nil
}

// initialize uploads initial data and deletes the texture on failure.
func (d *Device) initialize(t *glTexture, initial []beholder.SubresourceData, w, h, depth int) error {
	for i, data := range initial {
		if err := t.upload(i, data, w, h, depth); err != nil {
			t.Release()
			return err
		}
	}
	return nil
}

// CreateTexture1D creates a 1D texture or texture array.
func (d *Device) CreateTexture1D(desc beholder.Texture1DDescription, initial []beholder.SubresourceData) (*beholder.Texture1D, error) {
	desc, err := desc.Resolve(initial)
	if err != nil {
		return nil, err
	}
	if err := d.checkTextureFlags(desc.BindFlags); err != nil {
		return nil, err
	}
	var t *glTexture
	if desc.ArraySize > 1 {
		if t, err = d.newTexture(TEXTURE_1D_ARRAY, desc.Format, desc.MipLevels, desc.ArraySize, beholder.ViewTexture1DArray); err != nil {
			return nil, err
		}
		d.f.TextureStorage2D(t.obj, desc.MipLevels, t.triple.internalFormat, desc.Width, desc.ArraySize)
	} else {
		if t, err = d.newTexture(TEXTURE_1D, desc.Format, desc.MipLevels, 1, beholder.ViewTexture1D); err != nil {
			return nil, err
		}
		d.f.TextureStorage1D(t.obj, desc.MipLevels, t.triple.internalFormat, desc.Width)
	}
	if err := d.initialize(t, initial, desc.Width, 1, 1); err != nil {
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
	if err := d.checkTextureFlags(desc.BindFlags); err != nil {
		return nil, err
	}
	var (
		t      *glTexture
		target Enum
		dim    beholder.ViewDimension
	)
	switch {
	case desc.Sampling.IsMultisampled() && desc.ArraySize > 1:
		return nil, fmt.Errorf("%w: multisampled texture arrays", beholder.ErrNotSupported)
	case desc.Sampling.IsMultisampled():
		target, dim = TEXTURE_2D_MULTISAMPLE, beholder.ViewTexture2DMS
	case desc.IsCube() && desc.ArraySize > 6:
		target, dim = TEXTURE_CUBE_MAP_ARRAY, beholder.ViewTextureCubeArray
	case desc.IsCube():
		target, dim = TEXTURE_CUBE_MAP, beholder.ViewTextureCube
	case desc.ArraySize > 1:
		target, dim = TEXTURE_2D_ARRAY, beholder.ViewTexture2DArray
	default:
		target, dim = TEXTURE_2D, beholder.ViewTexture2D
	}
	if t, err = d.newTexture(target, desc.Format, desc.MipLevels, desc.ArraySize, dim); err != nil {
		return nil, err
	}
	ifmt := t.triple.internalFormat
	switch target {
	case TEXTURE_2D_MULTISAMPLE:
		d.f.TextureStorage2DMultisample(t.obj, desc.Sampling.Count, ifmt, desc.Width, desc.Height)
	case TEXTURE_CUBE_MAP, TEXTURE_2D:
		d.f.TextureStorage2D(t.obj, desc.MipLevels, ifmt, desc.Width, desc.Height)
	default:
		d.f.TextureStorage3D(t.obj, desc.MipLevels, ifmt, desc.Width, desc.Height, desc.ArraySize)
	}
	if err := d.initialize(t, initial, desc.Width, desc.Height, 1); err != nil {
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
	if err := d.checkTextureFlags(desc.BindFlags); err != nil {
		return nil, err
	}
	t, err := d.newTexture(TEXTURE_3D, desc.Format, desc.MipLevels, 1, beholder.ViewTexture3D)
	if err != nil {
		return nil, err
	}
	d.f.TextureStorage3D(t.obj, desc.MipLevels, t.triple.internalFormat, desc.Width, desc.Height, desc.Depth)
	if err := d.initialize(t, initial, desc.Width, desc.Height, desc.Depth); err != nil {
		return nil, err
	}
	return beholder.NewTexture3D(d.reg, desc, t), nil
}

// GL keeps fixed-function state on the context, so rasterizer, blend and
// depth-stencil states have no native object; the translator applies
// their descriptions.

// CreateRasterizerState returns the cached state for desc.
func (d *Device) CreateRasterizerState(desc beholder.RasterizerDescription) (*beholder.RasterizerState, error) {
	return d.states.Rasterizer(desc, func() (*beholder.RasterizerState, error) {
		return beholder.NewRasterizerState(d.reg, desc, nil), nil
	})
}

// CreateBlendState returns the cached state for desc.
func (d *Device) CreateBlendState(desc beholder.BlendDescription) (*beholder.BlendState, error) {
	return d.states.Blend(desc, func() (*beholder.BlendState, error) {
		return beholder.NewBlendState(d.reg, desc, nil), nil
	})
}

// CreateDepthStencilState returns the cached state for desc.
func (d *Device) CreateDepthStencilState(desc beholder.DepthStencilDescription) (*beholder.DepthStencilState, error) {
	return d.states.DepthStencil(desc, func() (*beholder.DepthStencilState, error) {
		return beholder.NewDepthStencilState(d.reg, desc, nil), nil
	})
}

// CreateSamplerState returns the cached sampler for desc.
func (d *Device) CreateSamplerState(desc beholder.SamplerDescription) (*beholder.SamplerState, error) {
	return d.states.Sampler(desc, func() (*beholder.SamplerState, error) {
		return beholder.NewSamplerState(d.reg, desc, newSampler(d.f, desc)), nil
	})
}

// CreateShader prepares a shader from its reflection. GLSL is generated
// and compiled per variant when a program first uses the shader.
func (d *Device) CreateShader(r *shader.Reflection) (beholder.Shader, error) {
	s, err := d.newShader(r)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// CreateVertexLayout resolves elements against the inputs of vs.
func (d *Device) CreateVertexLayout(vs beholder.Shader, elements []beholder.VertexLayoutElement) (*beholder.VertexLayout, error) {
	if _, ok := vs.(*glShader); !ok {
		return nil, fmt.Errorf("%w: vertex layout shader %T", beholder.ErrWrongBackend, vs)
	}
	attrs, err := beholder.ResolveVertexLayout(vs.Reflection(), elements)
	if err != nil {
		return nil, err
	}
	for _, a := range attrs {
		if _, _, _, err := vertexFormat(a.Element.Format); err != nil {
			return nil, fmt.Errorf("vertex element %s: %w", a.Element.SemanticName(), err)
		}
	}
	return beholder.NewVertexLayout(d.reg, attrs, nil), nil
}

// Dispose deletes every program and every object the device created.
func (d *Device) Dispose() {
	for _, p := range d.programs.Drain() {
		d.f.DeleteProgram(p.obj)
	}
	d.states.Clear()
	d.reg.DisposeAll()
	d.sampler.Release()
	d.f.BindVertexArray(0)
	d.f.BindFramebuffer(DRAW_FRAMEBUFFER, 0)
	d.f.DeleteVertexArray(d.vao)
	d.f.DeleteFramebuffer(d.clearFBO)
	d.f.DeleteFramebuffer(d.fbo)
	d.log.Info("gl: device disposed")
}
