package d3d9

import (
	"fmt"

	beholder "github.com/Zulkir/Beholder-sub001"
)

// bufferKind is what a D3D9 buffer is created as.
type bufferKind int

const (
	vertexBuffer bufferKind = iota
	indexBuffer
	// uniformBuffer lives in system memory and is uploaded to constant
	// registers at draw time.
	uniformBuffer
)

type d3dBuffer struct {
	obj    Object
	kind   bufferKind
	size   int
	format uint32 // index format of index buffers

	shadow  []byte
	version uint64
}

func (b *d3dBuffer) Release() {
	if b.obj != nil {
		b.obj.Release()
	}
}

func (b *d3dBuffer) CreateShaderResourceView(beholder.ShaderResourceViewDescription) (beholder.NativeObject, error) {
	return nil, fmt.Errorf("%w: d3d9 buffer views", beholder.ErrNotSupported)
}

func (b *d3dBuffer) CreateRenderTargetView(beholder.RenderTargetViewDescription) (beholder.NativeObject, error) {
	return nil, fmt.Errorf("%w: buffer render targets", beholder.ErrNotSupported)
}

func (b *d3dBuffer) CreateDepthStencilView(beholder.DepthStencilViewDescription) (beholder.NativeObject, error) {
	return nil, fmt.Errorf("%w: buffer depth-stencil views", beholder.ErrNotSupported)
}

func (b *d3dBuffer) CreateUnorderedAccessView(beholder.UnorderedAccessViewDescription) (beholder.NativeObject, error) {
	return nil, fmt.Errorf("%w: d3d9 unordered access views", beholder.ErrNotSupported)
}

// write replaces the buffer contents from the start.
func (b *d3dBuffer) write(dev NativeDevice, data []byte) error {
	if len(data) > b.size {
		return fmt.Errorf("%w: %d bytes into a %d byte buffer", beholder.ErrInvalidDescription, len(data), b.size)
	}
	if b.kind == uniformBuffer {
		copy(b.shadow, data)
		b.version++
		return nil
	}
	return dev.WriteSubresource(b.obj, 0, 0, data, uint32(len(data)))
}

// textureKind is the native object behind a texture.
type textureKind int

const (
	plainTexture textureKind = iota
	cubeTexture
	volumeTexture
	// surface is a render target or depth-stencil surface that cannot
	// be sampled.
	surface
)

type d3dTexture struct {
	dev    NativeDevice
	obj    Object
	kind   textureKind
	format beholder.ExplicitFormat
	levels int
	width  int
	height int
}

func (t *d3dTexture) Release() { t.obj.Release() }

// textureView is a texture bound for sampling. D3D9 samples whole
// textures, so the view only limits the most detailed mip.
type textureView struct {
	tex             Object
	mostDetailedMip int
	srgb            bool
}

func (v *textureView) Release() {}

func (t *d3dTexture) CreateShaderResourceView(desc beholder.ShaderResourceViewDescription) (beholder.NativeObject, error) {
	if t.kind == surface {
		return nil, fmt.Errorf("%w: sampling a d3d9 surface", beholder.ErrNotSupported)
	}
	if desc.Format != beholder.FormatUnknown && desc.Format != t.format {
		if f, err := d3dFormat(desc.Format); err != nil || f != d3dFormats[t.format] {
			return nil, fmt.Errorf("%w: d3d9 view format %d over %d", beholder.ErrUnsupportedFormat, desc.Format, t.format)
		}
	}
	format := desc.Format
	if format == beholder.FormatUnknown {
		format = t.format
	}
	return &textureView{tex: t.obj, mostDetailedMip: desc.MostDetailedMip, srgb: isSRGB(format)}, nil
}

// surfaceView is one level of a texture bound as a render target or
// depth-stencil. Views of surfaces borrow the surface.
type surfaceView struct {
	obj   Object
	owned bool
	srgb  bool
}

func (v *surfaceView) Release() {
	if v.owned {
		v.obj.Release()
	}
}

func (t *d3dTexture) surface(face, mip int) (*surfaceView, error) {
	if t.kind == surface {
		return &surfaceView{obj: t.obj}, nil
	}
	if t.kind == volumeTexture {
		return nil, fmt.Errorf("%w: rendering to a d3d9 volume", beholder.ErrNotSupported)
	}
	s, err := t.dev.Surface(t.obj, uint32(face), uint32(mip))
	if err != nil {
		return nil, fmt.Errorf("d3d9: surface level: %w", err)
	}
	return &surfaceView{obj: s, owned: true}, nil
}

func (t *d3dTexture) CreateRenderTargetView(desc beholder.RenderTargetViewDescription) (beholder.NativeObject, error) {
	if desc.ArraySize > 1 {
		return nil, fmt.Errorf("%w: d3d9 layered render targets", beholder.ErrNotSupported)
	}
	v, err := t.surface(desc.FirstArraySlice, desc.MipSlice)
	if err != nil {
		return nil, err
	}
	format := desc.Format
	if format == beholder.FormatUnknown {
		format = t.format
	}
	v.srgb = isSRGB(format)
	return v, nil
}

func (t *d3dTexture) CreateDepthStencilView(desc beholder.DepthStencilViewDescription) (beholder.NativeObject, error) {
	if desc.Flags != 0 {
		return nil, fmt.Errorf("%w: d3d9 read-only depth-stencil views", beholder.ErrNotSupported)
	}
	return t.surface(desc.FirstArraySlice, desc.MipSlice)
}

func (t *d3dTexture) CreateUnorderedAccessView(beholder.UnorderedAccessViewDescription) (beholder.NativeObject, error) {
	return nil, fmt.Errorf("%w: d3d9 unordered access views", beholder.ErrNotSupported)
}

// write uploads one subresource. Subresources are numbered face major,
// like D3D11 array slices.
func (t *d3dTexture) write(subresource int, data beholder.SubresourceData) error {
	if t.kind == surface {
		return fmt.Errorf("%w: writing a d3d9 surface", beholder.ErrNotSupported)
	}
	face, level := subresource/t.levels, subresource%t.levels
	row := data.RowPitch
	if row == 0 {
		row = t.format.RowPitch(beholder.MipSize(t.width, level))
	}
	if err := t.dev.WriteSubresource(t.obj, uint32(face), uint32(level), data.Bytes, uint32(row)); err != nil {
		return fmt.Errorf("d3d9: write subresource %d: %w", subresource, err)
	}
	return nil
}

// d3dObject wraps vertex declarations.
type d3dObject struct {
	obj Object
}

func (o *d3dObject) Release() { o.obj.Release() }

// d3dState marks states created by a d3d9 device. D3D9 has no state
// objects; the translator applies the description as render states.
type d3dState struct{}

func (d3dState) Release() {}
