package gl

import (
	"fmt"

	beholder "github.com/Zulkir/Beholder-sub001"
)

// glBuffer is the native side of a beholder.Buffer.
type glBuffer struct {
	f    Functions
	obj  Buffer
	size int
}

func (b *glBuffer) Release() { b.f.DeleteBuffer(b.obj) }

func (b *glBuffer) CreateShaderResourceView(beholder.ShaderResourceViewDescription) (beholder.NativeObject, error) {
	return nil, fmt.Errorf("%w: gl buffer views", beholder.ErrNotSupported)
}

func (b *glBuffer) CreateRenderTargetView(beholder.RenderTargetViewDescription) (beholder.NativeObject, error) {
	return nil, fmt.Errorf("%w: buffer render targets", beholder.ErrNotSupported)
}

func (b *glBuffer) CreateDepthStencilView(beholder.DepthStencilViewDescription) (beholder.NativeObject, error) {
	return nil, fmt.Errorf("%w: buffer depth-stencil views", beholder.ErrNotSupported)
}

func (b *glBuffer) CreateUnorderedAccessView(beholder.UnorderedAccessViewDescription) (beholder.NativeObject, error) {
	return nil, fmt.Errorf("%w: gl unordered access views", beholder.ErrNotSupported)
}

// glTexture is the native side of every texture dimension.
type glTexture struct {
	f      Functions
	obj    Texture
	target Enum
	triple textureTriple
	format beholder.ExplicitFormat
	levels int
	layers int
	// dimension is the view dimension of a view over the whole texture.
	dimension beholder.ViewDimension
}

func (t *glTexture) Release() { t.f.DeleteTexture(t.obj) }

// srv is a texture bound for sampling. Views that cover the whole
// texture with its own format share the texture object.
type srv struct {
	f      Functions
	obj    Texture
	target Enum
	owned  bool
}

func (v *srv) Release() {
	if v.owned {
		v.f.DeleteTexture(v.obj)
	}
}

func (t *glTexture) CreateShaderResourceView(desc beholder.ShaderResourceViewDescription) (beholder.NativeObject, error) {
	target, err := textureTarget(desc.Dimension)
	if err != nil {
		return nil, err
	}
	layers := max(desc.ArraySize, 1)
	if desc.Dimension == beholder.ViewTexture3D {
		layers = 1
	}
	if target == t.target && desc.Format == t.format && desc.MostDetailedMip == 0 &&
		desc.MipLevels == t.levels && desc.FirstArraySlice == 0 && layers == t.layers {
		return &srv{f: t.f, obj: t.obj, target: target}, nil
	}
	triple, err := textureFormat(desc.Format)
	if err != nil {
		return nil, err
	}
	view := t.f.GenTexture()
	t.f.TextureView(view, target, t.obj, triple.internalFormat, desc.MostDetailedMip, desc.MipLevels, desc.FirstArraySlice, layers)
	return &srv{f: t.f, obj: view, target: target, owned: true}, nil
}

// attachment is a render target or depth-stencil view: one level of a
// texture, either a single layer or all of them.
type attachment struct {
	tex     Texture
	level   int
	layer   int
	layered bool
	stencil bool
}

func (*attachment) Release() {}

func (t *glTexture) attachment(format beholder.ExplicitFormat, level, first, count int) (*attachment, error) {
	if format != t.format {
		return nil, fmt.Errorf("%w: gl attachments use the texture format", beholder.ErrNotSupported)
	}
	a := &attachment{tex: t.obj, level: level, layer: first, stencil: format.Info().Stencil}
	if count > 1 {
		if first != 0 || count != t.layers {
			return nil, fmt.Errorf("%w: partial layered attachment", beholder.ErrNotSupported)
		}
		a.layered = true
	} else if t.layers <= 1 && t.dimension != beholder.ViewTexture3D {
		a.layered = true
	}
	return a, nil
}

func (t *glTexture) CreateRenderTargetView(desc beholder.RenderTargetViewDescription) (beholder.NativeObject, error) {
	return t.attachment(desc.Format, desc.MipSlice, desc.FirstArraySlice, desc.ArraySize)
}

func (t *glTexture) CreateDepthStencilView(desc beholder.DepthStencilViewDescription) (beholder.NativeObject, error) {
	return t.attachment(desc.Format, desc.MipSlice, desc.FirstArraySlice, desc.ArraySize)
}

func (t *glTexture) CreateUnorderedAccessView(beholder.UnorderedAccessViewDescription) (beholder.NativeObject, error) {
	return nil, fmt.Errorf("%w: gl unordered access views", beholder.ErrNotSupported)
}

// glSampler holds the two GL sampler objects of one sampler state: one
// for textures with mipmaps and one for textures without.
type glSampler struct {
	f    Functions
	mips Sampler
	flat Sampler
}

func (s *glSampler) Release() {
	s.f.DeleteSampler(s.mips)
	s.f.DeleteSampler(s.flat)
}

func (s *glSampler) object(mips bool) Sampler {
	if mips {
		return s.mips
	}
	return s.flat
}

func newSampler(f Functions, desc beholder.SamplerDescription) *glSampler {
	s := &glSampler{f: f, mips: f.CreateSampler(), flat: f.CreateSampler()}
	for _, obj := range []Sampler{s.mips, s.flat} {
		f.SamplerParameteri(obj, TEXTURE_MIN_FILTER, int(minFilter(desc.Filter, obj == s.mips)))
		f.SamplerParameteri(obj, TEXTURE_MAG_FILTER, int(magFilter(desc.Filter)))
		f.SamplerParameteri(obj, TEXTURE_WRAP_S, int(addressMode(desc.AddressU)))
		f.SamplerParameteri(obj, TEXTURE_WRAP_T, int(addressMode(desc.AddressV)))
		f.SamplerParameteri(obj, TEXTURE_WRAP_R, int(addressMode(desc.AddressW)))
		f.SamplerParameterf(obj, TEXTURE_LOD_BIAS, desc.MipLodBias)
		f.SamplerParameterf(obj, TEXTURE_MIN_LOD, desc.MinimumLod)
		f.SamplerParameterf(obj, TEXTURE_MAX_LOD, desc.MaximumLod)
		if desc.Filter.Anisotropic {
			f.SamplerParameterf(obj, TEXTURE_MAX_ANISOTROPY, float32(max(desc.MaxAnisotropy, 1)))
		}
		if desc.Filter.Comparison {
			f.SamplerParameteri(obj, TEXTURE_COMPARE_MODE, COMPARE_REF_TO_TEXTURE)
			f.SamplerParameteri(obj, TEXTURE_COMPARE_FUNC, int(comparisonFunc(desc.ComparisonFunction)))
		}
		c := desc.BorderColor
		f.SamplerParameterfv(obj, TEXTURE_BORDER_COLOR, []float32{c.R, c.G, c.B, c.A})
	}
	return s
}

// subresource splits a flat subresource index into mip level and layer.
func subresource(index, levels int) (level, layer int) {
	return index % levels, index / levels
}

// packRows copies rows of rowBytes from data laid out with pitch into a
// tightly packed slice. Tightly packed input is returned as is.
func packRows(data []byte, rowBytes, rows, pitch int) ([]byte, error) {
	if pitch == 0 || pitch == rowBytes {
		if len(data) < rowBytes*rows {
			return nil, fmt.Errorf("%w: %d bytes for %d rows of %d", beholder.ErrInitialData, len(data), rows, rowBytes)
		}
		return data, nil
	}
	if pitch < rowBytes || len(data) < pitch*(rows-1)+rowBytes {
		return nil, fmt.Errorf("%w: row pitch %d for rows of %d bytes", beholder.ErrInitialData, pitch, rowBytes)
	}
	out := make([]byte, 0, rowBytes*rows)
	for y := range rows {
		out = append(out, data[y*pitch:y*pitch+rowBytes]...)
	}
	return out, nil
}

// upload writes one subresource of t. width, height and depth are the
// full texture size at level zero.
func (t *glTexture) upload(index int, data beholder.SubresourceData, width, height, depth int) error {
	level, layer := subresource(index, t.levels)
	w := beholder.MipSize(width, level)
	h := beholder.MipSize(height, level)
	d := beholder.MipSize(depth, level)
	if t.format.IsCompressed() {
		bytes, err := packRows(data.Bytes, t.format.RowPitch(w), max((h+3)/4, 1), data.RowPitch)
		if err != nil {
			return err
		}
		if t.target != TEXTURE_2D {
			return fmt.Errorf("%w: compressed %d textures", beholder.ErrNotSupported, t.target)
		}
		t.f.CompressedTextureSubImage2D(t.obj, level, 0, 0, w, h, t.triple.internalFormat, bytes)
		return nil
	}
	rowBytes := t.format.RowPitch(w)
	switch t.target {
	case TEXTURE_1D:
		bytes, err := packRows(data.Bytes, rowBytes, 1, 0)
		if err != nil {
			return err
		}
		t.f.TextureSubImage1D(t.obj, level, 0, w, t.triple.format, t.triple.typ, bytes)
	case TEXTURE_1D_ARRAY:
		bytes, err := packRows(data.Bytes, rowBytes, 1, 0)
		if err != nil {
			return err
		}
		t.f.TextureSubImage2D(t.obj, level, 0, layer, w, 1, t.triple.format, t.triple.typ, bytes)
	case TEXTURE_2D:
		bytes, err := packRows(data.Bytes, rowBytes, h, data.RowPitch)
		if err != nil {
			return err
		}
		t.f.TextureSubImage2D(t.obj, level, 0, 0, w, h, t.triple.format, t.triple.typ, bytes)
	case TEXTURE_2D_ARRAY, TEXTURE_CUBE_MAP, TEXTURE_CUBE_MAP_ARRAY:
		// Cube faces are layers of the texture storage.
		bytes, err := packRows(data.Bytes, rowBytes, h, data.RowPitch)
		if err != nil {
			return err
		}
		t.f.TextureSubImage3D(t.obj, level, 0, 0, layer, w, h, 1, t.triple.format, t.triple.typ, bytes)
	case TEXTURE_3D:
		slice := data.SlicePitch
		if slice == 0 {
			slice = max(data.RowPitch, rowBytes) * h
		}
		packed := make([]byte, 0, rowBytes*h*d)
		for z := range d {
			if len(data.Bytes) < (z+1)*slice {
				return fmt.Errorf("%w: volume slice %d is short", beholder.ErrInitialData, z)
			}
			rows, err := packRows(data.Bytes[z*slice:(z+1)*slice], rowBytes, h, data.RowPitch)
			if err != nil {
				return err
			}
			packed = append(packed, rows...)
		}
		t.f.TextureSubImage3D(t.obj, level, 0, 0, 0, w, h, d, t.triple.format, t.triple.typ, packed)
	default:
		return fmt.Errorf("%w: uploads to texture target %#x", beholder.ErrNotSupported, t.target)
	}
	return nil
}

// size returns the level-zero size of a texture resource.
func textureSize(r beholder.Resource) (w, h, d int) {
	switch r := r.(type) {
	case *beholder.Texture1D:
		return r.Description().Width, 1, 1
	case *beholder.Texture2D:
		desc := r.Description()
		return desc.Width, desc.Height, 1
	case *beholder.Texture3D:
		desc := r.Description()
		return desc.Width, desc.Height, desc.Depth
	}
	return 0, 0, 0
}
