package beholder

import (
	"fmt"
	"math/bits"
)

// ResourceDimension identifies the concrete kind of a Resource.
type ResourceDimension int

// Resource dimensions.
const (
	DimensionBuffer ResourceDimension = iota
	DimensionTexture1D
	DimensionTexture2D
	DimensionTexture3D
)

func (d ResourceDimension) String() string {
	switch d {
	case DimensionBuffer:
		return "buffer"
	case DimensionTexture1D:
		return "texture1d"
	case DimensionTexture2D:
		return "texture2d"
	case DimensionTexture3D:
		return "texture3d"
	default:
		return "unknown"
	}
}

// Resource is a GPU memory object. The set of implementations is closed:
// *Buffer, *Texture1D, *Texture2D and *Texture3D. Code that needs the
// concrete kind type-switches over exactly those four.
type Resource interface {
	Handle() Handle
	Dimension() ResourceDimension
	Usage() Usage
	BindFlags() BindFlags
	MiscFlags() MiscFlags
	Native() NativeObject
	IsDisposed() bool
	Dispose()

	isResource()
}

// NativeResource is the backend side of a resource. Backends that lack a
// view kind return an error wrapping ErrNotSupported.
type NativeResource interface {
	NativeObject
	CreateShaderResourceView(desc ShaderResourceViewDescription) (NativeObject, error)
	CreateRenderTargetView(desc RenderTargetViewDescription) (NativeObject, error)
	CreateDepthStencilView(desc DepthStencilViewDescription) (NativeObject, error)
	CreateUnorderedAccessView(desc UnorderedAccessViewDescription) (NativeObject, error)
}

// SubresourceData is the initial content of one subresource.
type SubresourceData struct {
	Bytes      []byte
	RowPitch   int
	SlicePitch int
}

// Sampling is a multisample configuration.
type Sampling struct {
	Count   int
	Quality int
}

// IsMultisampled reports whether more than one sample is taken per pixel.
func (s Sampling) IsMultisampled() bool { return s.Count > 1 }

// NativeCount returns the sample count in the convention where a single
// sample is expressed as 0, meaning no multisampling.
func (s Sampling) NativeCount() int {
	if s.Count <= 1 {
		return 0
	}
	return s.Count
}

// FullMipChain returns the number of mip levels down to 1x1x1.
func FullMipChain(sizes ...int) int {
	m := 1
	for _, s := range sizes {
		if s > m {
			m = s
		}
	}
	return bits.Len(uint(m))
}

// MipSize returns a dimension at the given mip level.
func MipSize(size, mip int) int {
	s := size >> mip
	if s < 1 {
		return 1
	}
	return s
}

// SubresourceIndex returns the flat index of a mip level within an array slice.
func SubresourceIndex(mipSlice, arraySlice, mipLevels int) int {
	return mipSlice + arraySlice*mipLevels
}

func resolveMips(requested int, sizes ...int) (int, error) {
	full := FullMipChain(sizes...)
	if requested == 0 {
		return full, nil
	}
	if requested < 0 || requested > full {
		return 0, fmt.Errorf("%w: %d mip levels, at most %d", ErrInvalidDescription, requested, full)
	}
	return requested, nil
}

func checkUsage(usage Usage, bind BindFlags) error {
	switch usage {
	case UsageStaging:
		if bind != 0 {
			return fmt.Errorf("%w: staging resources cannot be bound", ErrBindFlags)
		}
	case UsageDynamic:
		if bind.Has(BindRenderTarget) || bind.Has(BindDepthStencil) || bind.Has(BindUnorderedAccess) || bind.Has(BindStreamOutput) {
			return fmt.Errorf("%w: dynamic resources are GPU read-only", ErrBindFlags)
		}
	case UsageImmutable:
		if bind.Has(BindRenderTarget) || bind.Has(BindDepthStencil) || bind.Has(BindUnorderedAccess) || bind.Has(BindStreamOutput) {
			return fmt.Errorf("%w: immutable resources are GPU read-only", ErrBindFlags)
		}
	}
	return nil
}

func checkTextureFormat(format ExplicitFormat, bind BindFlags) error {
	if !format.Valid() {
		return fmt.Errorf("%w: %d", ErrUnsupportedFormat, format)
	}
	if format.IsDepth() {
		if bind.Has(BindRenderTarget) || bind.Has(BindUnorderedAccess) {
			return fmt.Errorf("%w: depth format bound as color", ErrBindFlags)
		}
	} else if bind.Has(BindDepthStencil) {
		return fmt.Errorf("%w: depth-stencil binding needs a depth format", ErrBindFlags)
	}
	return nil
}

// checkInitialData validates initial data against the subresource count.
// Immutable resources must be initialized; multisampled ones cannot be.
func checkInitialData(usage Usage, multisampled bool, data []SubresourceData, subresources int) error {
	if len(data) == 0 {
		if usage == UsageImmutable {
			return fmt.Errorf("%w: immutable resource without initial data", ErrInitialData)
		}
		return nil
	}
	if multisampled {
		return fmt.Errorf("%w: multisampled textures cannot be initialized", ErrInitialData)
	}
	if len(data) != subresources {
		return fmt.Errorf("%w: %d subresources given, want %d", ErrInitialData, len(data), subresources)
	}
	for i, d := range data {
		if len(d.Bytes) == 0 {
			return fmt.Errorf("%w: subresource %d is empty", ErrInitialData, i)
		}
	}
	return nil
}

// BufferDescription describes a buffer.
type BufferDescription struct {
	SizeInBytes         int
	Usage               Usage
	BindFlags           BindFlags
	MiscFlags           MiscFlags
	StructureByteStride int
}

// Validate checks the description and the optional initial data.
func (d BufferDescription) Validate(initial []byte) error {
	if d.SizeInBytes <= 0 {
		return fmt.Errorf("%w: buffer size %d", ErrInvalidDescription, d.SizeInBytes)
	}
	if d.BindFlags.Has(BindRenderTarget) || d.BindFlags.Has(BindDepthStencil) {
		return fmt.Errorf("%w: buffers cannot be render targets", ErrBindFlags)
	}
	if d.BindFlags.Has(BindUniformBuffer) && d.BindFlags != BindUniformBuffer {
		return fmt.Errorf("%w: uniform buffers cannot take other bindings", ErrBindFlags)
	}
	if d.MiscFlags.Has(MiscBufferStructured) && d.StructureByteStride <= 0 {
		return fmt.Errorf("%w: structured buffer without stride", ErrInvalidDescription)
	}
	if err := checkUsage(d.Usage, d.BindFlags); err != nil {
		return err
	}
	if initial == nil {
		if d.Usage == UsageImmutable {
			return fmt.Errorf("%w: immutable buffer without initial data", ErrInitialData)
		}
		return nil
	}
	if len(initial) > d.SizeInBytes {
		return fmt.Errorf("%w: %d bytes for a %d byte buffer", ErrInitialData, len(initial), d.SizeInBytes)
	}
	return nil
}

// Texture1DDescription describes a 1D texture or texture array.
// MipLevels 0 requests the full chain.
type Texture1DDescription struct {
	Width     int
	MipLevels int
	ArraySize int
	Format    ExplicitFormat
	Usage     Usage
	BindFlags BindFlags
	MiscFlags MiscFlags
}

// Resolve validates the description and returns it with MipLevels filled in.
func (d Texture1DDescription) Resolve(initial []SubresourceData) (Texture1DDescription, error) {
	if d.Width < 1 || d.ArraySize < 1 {
		return d, fmt.Errorf("%w: texture1d %dx[%d]", ErrInvalidDescription, d.Width, d.ArraySize)
	}
	if d.MiscFlags.Has(MiscTextureCube) {
		return d, fmt.Errorf("%w: 1D cube texture", ErrInvalidDescription)
	}
	mips, err := resolveMips(d.MipLevels, d.Width)
	if err != nil {
		return d, err
	}
	d.MipLevels = mips
	if err := checkTextureFormat(d.Format, d.BindFlags); err != nil {
		return d, err
	}
	if err := checkUsage(d.Usage, d.BindFlags); err != nil {
		return d, err
	}
	return d, checkInitialData(d.Usage, false, initial, d.MipLevels*d.ArraySize)
}

// Texture2DDescription describes a 2D texture, texture array or cube map.
// Cube maps set MiscTextureCube and use six array slices per cube.
type Texture2DDescription struct {
	Width     int
	Height    int
	MipLevels int
	ArraySize int
	Format    ExplicitFormat
	Sampling  Sampling
	Usage     Usage
	BindFlags BindFlags
	MiscFlags MiscFlags
}

// IsCube reports whether the texture is a cube map or cube map array.
func (d Texture2DDescription) IsCube() bool { return d.MiscFlags.Has(MiscTextureCube) }

// Resolve validates the description and returns it with MipLevels filled in.
func (d Texture2DDescription) Resolve(initial []SubresourceData) (Texture2DDescription, error) {
	if d.Width < 1 || d.Height < 1 || d.ArraySize < 1 {
		return d, fmt.Errorf("%w: texture2d %dx%d[%d]", ErrInvalidDescription, d.Width, d.Height, d.ArraySize)
	}
	if d.Sampling.Count < 1 {
		d.Sampling.Count = 1
	}
	ms := d.Sampling.IsMultisampled()
	if ms && d.IsCube() {
		return d, ErrMultisampleCube
	}
	if d.IsCube() && (d.ArraySize%6 != 0 || d.Width != d.Height) {
		return d, fmt.Errorf("%w: cube texture %dx%d[%d]", ErrInvalidDescription, d.Width, d.Height, d.ArraySize)
	}
	if ms {
		if d.MipLevels > 1 {
			return d, fmt.Errorf("%w: multisampled texture with %d mips", ErrInvalidDescription, d.MipLevels)
		}
		d.MipLevels = 1
	}
	mips, err := resolveMips(d.MipLevels, d.Width, d.Height)
	if err != nil {
		return d, err
	}
	d.MipLevels = mips
	if err := checkTextureFormat(d.Format, d.BindFlags); err != nil {
		return d, err
	}
	if err := checkUsage(d.Usage, d.BindFlags); err != nil {
		return d, err
	}
	if d.MiscFlags.Has(MiscGenerateMips) && !(d.BindFlags.Has(BindShaderResource) && d.BindFlags.Has(BindRenderTarget)) {
		return d, fmt.Errorf("%w: mip generation needs shader resource and render target bindings", ErrBindFlags)
	}
	return d, checkInitialData(d.Usage, ms, initial, d.MipLevels*d.ArraySize)
}

// Texture3DDescription describes a volume texture.
type Texture3DDescription struct {
	Width     int
	Height    int
	Depth     int
	MipLevels int
	Format    ExplicitFormat
	Usage     Usage
	BindFlags BindFlags
	MiscFlags MiscFlags
}

// Resolve validates the description and returns it with MipLevels filled in.
func (d Texture3DDescription) Resolve(initial []SubresourceData) (Texture3DDescription, error) {
	if d.Width < 1 || d.Height < 1 || d.Depth < 1 {
		return d, fmt.Errorf("%w: texture3d %dx%dx%d", ErrInvalidDescription, d.Width, d.Height, d.Depth)
	}
	if d.MiscFlags.Has(MiscTextureCube) {
		return d, fmt.Errorf("%w: 3D cube texture", ErrInvalidDescription)
	}
	if d.BindFlags.Has(BindDepthStencil) {
		return d, fmt.Errorf("%w: volume depth-stencil", ErrBindFlags)
	}
	mips, err := resolveMips(d.MipLevels, d.Width, d.Height, d.Depth)
	if err != nil {
		return d, err
	}
	d.MipLevels = mips
	if err := checkTextureFormat(d.Format, d.BindFlags); err != nil {
		return d, err
	}
	if err := checkUsage(d.Usage, d.BindFlags); err != nil {
		return d, err
	}
	return d, checkInitialData(d.Usage, false, initial, d.MipLevels)
}

// resource is the part shared by every Resource implementation.
type resource struct {
	object
	views viewCache
}

func (r *resource) nativeResource() NativeResource {
	nr, _ := r.native.(NativeResource)
	return nr
}

func (r *resource) dispose() {
	r.object.dispose(r.views.release)
}

// Buffer is a linear GPU allocation.
type Buffer struct {
	resource
	desc BufferDescription
}

// NewBuffer wraps a backend buffer. The description must already be valid.
func NewBuffer(reg *Registry, desc BufferDescription, native NativeObject) *Buffer {
	b := &Buffer{desc: desc}
	b.init(reg, b, native)
	return b
}

func (*Buffer) isResource() {}

// Description returns the buffer's description.
func (b *Buffer) Description() BufferDescription { return b.desc }

// Dimension returns DimensionBuffer.
func (b *Buffer) Dimension() ResourceDimension { return DimensionBuffer }

// Usage returns the buffer's usage.
func (b *Buffer) Usage() Usage { return b.desc.Usage }

// BindFlags returns the buffer's bind flags.
func (b *Buffer) BindFlags() BindFlags { return b.desc.BindFlags }

// MiscFlags returns the buffer's misc flags.
func (b *Buffer) MiscFlags() MiscFlags { return b.desc.MiscFlags }

// Dispose releases the buffer and its views.
func (b *Buffer) Dispose() { b.dispose() }

func (b *Buffer) checkElements(format ExplicitFormat, first, count int) (int, error) {
	stride := b.desc.StructureByteStride
	if format != FormatUnknown {
		stride = format.Info().Size
	}
	if stride <= 0 {
		return 0, fmt.Errorf("%w: buffer view without element size", ErrInvalidDescription)
	}
	if first < 0 || count < 1 || (first+count)*stride > b.desc.SizeInBytes {
		return 0, fmt.Errorf("%w: elements [%d, %d) of %d bytes", ErrInvalidDescription, first, first+count, stride)
	}
	return stride, nil
}

// ViewAsShaderResource returns the shader resource view over count elements.
// FormatUnknown views a structured buffer.
func (b *Buffer) ViewAsShaderResource(format ExplicitFormat, firstElement, elementCount int) (*ShaderResourceView, error) {
	if _, err := b.checkElements(format, firstElement, elementCount); err != nil {
		return nil, err
	}
	desc := ShaderResourceViewDescription{
		Format:       format,
		Dimension:    ViewBuffer,
		FirstElement: firstElement,
		ElementCount: elementCount,
	}
	return b.shaderResourceView(b.desc.BindFlags, desc, extent{elementCount, 1, 1})
}

// ViewAsUnorderedAccess returns the unordered access view over count elements.
func (b *Buffer) ViewAsUnorderedAccess(format ExplicitFormat, firstElement, elementCount int, flags UnorderedAccessViewFlags) (*UnorderedAccessView, error) {
	if flags.Has(UAVRaw) && !b.desc.MiscFlags.Has(MiscBufferAllowRawViews) {
		return nil, fmt.Errorf("%w: raw view of a buffer without raw views allowed", ErrBindFlags)
	}
	if _, err := b.checkElements(format, firstElement, elementCount); err != nil {
		return nil, err
	}
	desc := UnorderedAccessViewDescription{
		Format:       format,
		Dimension:    ViewBuffer,
		FirstElement: firstElement,
		ElementCount: elementCount,
		Flags:        flags,
	}
	return b.unorderedAccessView(b.desc.BindFlags, desc, extent{elementCount, 1, 1})
}

// Texture1D is a 1D texture or texture array.
type Texture1D struct {
	resource
	desc Texture1DDescription
}

// NewTexture1D wraps a backend texture. desc must come from Resolve.
func NewTexture1D(reg *Registry, desc Texture1DDescription, native NativeObject) *Texture1D {
	t := &Texture1D{desc: desc}
	t.init(reg, t, native)
	return t
}

func (*Texture1D) isResource() {}

// Description returns the resolved description.
func (t *Texture1D) Description() Texture1DDescription { return t.desc }

// Dimension returns DimensionTexture1D.
func (t *Texture1D) Dimension() ResourceDimension { return DimensionTexture1D }

// Usage returns the texture's usage.
func (t *Texture1D) Usage() Usage { return t.desc.Usage }

// BindFlags returns the texture's bind flags.
func (t *Texture1D) BindFlags() BindFlags { return t.desc.BindFlags }

// MiscFlags returns the texture's misc flags.
func (t *Texture1D) MiscFlags() MiscFlags { return t.desc.MiscFlags }

// Dispose releases the texture and its views.
func (t *Texture1D) Dispose() { t.dispose() }

func (t *Texture1D) arrayed() bool { return t.desc.ArraySize > 1 }

// ViewAsShaderResource returns a view of mipLevels mips starting at
// mostDetailedMip over every array slice.
func (t *Texture1D) ViewAsShaderResource(format ExplicitFormat, mostDetailedMip, mipLevels int) (*ShaderResourceView, error) {
	return t.ViewAsShaderResourceArray(format, mostDetailedMip, mipLevels, 0, t.desc.ArraySize)
}

// ViewAsShaderResourceArray returns a view of a range of array slices.
func (t *Texture1D) ViewAsShaderResourceArray(format ExplicitFormat, mostDetailedMip, mipLevels, firstSlice, arraySize int) (*ShaderResourceView, error) {
	if err := checkMipRange(mostDetailedMip, mipLevels, t.desc.MipLevels); err != nil {
		return nil, err
	}
	if err := checkSliceRange(firstSlice, arraySize, t.desc.ArraySize); err != nil {
		return nil, err
	}
	desc := ShaderResourceViewDescription{
		Format:          viewFormat(format, t.desc.Format),
		Dimension:       pick(t.arrayed(), ViewTexture1DArray, ViewTexture1D),
		MostDetailedMip: mostDetailedMip,
		MipLevels:       mipLevels,
		FirstArraySlice: firstSlice,
		ArraySize:       arraySize,
	}
	return t.shaderResourceView(t.desc.BindFlags, desc, extent{MipSize(t.desc.Width, mostDetailedMip), 1, 1})
}

// ViewAsRenderTarget returns a render target view of one mip level.
func (t *Texture1D) ViewAsRenderTarget(format ExplicitFormat, mipSlice int) (*RenderTargetView, error) {
	if err := checkMipRange(mipSlice, 1, t.desc.MipLevels); err != nil {
		return nil, err
	}
	desc := RenderTargetViewDescription{
		Format:    viewFormat(format, t.desc.Format),
		Dimension: pick(t.arrayed(), ViewTexture1DArray, ViewTexture1D),
		MipSlice:  mipSlice,
		ArraySize: t.desc.ArraySize,
	}
	return t.renderTargetView(t.desc.BindFlags, desc, extent{MipSize(t.desc.Width, mipSlice), 1, 1})
}

// ViewAsUnorderedAccess returns an unordered access view of one mip level.
func (t *Texture1D) ViewAsUnorderedAccess(format ExplicitFormat, mipSlice int) (*UnorderedAccessView, error) {
	if err := checkMipRange(mipSlice, 1, t.desc.MipLevels); err != nil {
		return nil, err
	}
	desc := UnorderedAccessViewDescription{
		Format:    viewFormat(format, t.desc.Format),
		Dimension: pick(t.arrayed(), ViewTexture1DArray, ViewTexture1D),
		MipSlice:  mipSlice,
		ArraySize: t.desc.ArraySize,
	}
	return t.unorderedAccessView(t.desc.BindFlags, desc, extent{MipSize(t.desc.Width, mipSlice), 1, 1})
}

// Texture2D is a 2D texture, texture array or cube map.
type Texture2D struct {
	resource
	desc Texture2DDescription
}

// NewTexture2D wraps a backend texture. desc must come from Resolve.
func NewTexture2D(reg *Registry, desc Texture2DDescription, native NativeObject) *Texture2D {
	t := &Texture2D{desc: desc}
	t.init(reg, t, native)
	return t
}

func (*Texture2D) isResource() {}

// Description returns the resolved description.
func (t *Texture2D) Description() Texture2DDescription { return t.desc }

// Dimension returns DimensionTexture2D.
func (t *Texture2D) Dimension() ResourceDimension { return DimensionTexture2D }

// Usage returns the texture's usage.
func (t *Texture2D) Usage() Usage { return t.desc.Usage }

// BindFlags returns the texture's bind flags.
func (t *Texture2D) BindFlags() BindFlags { return t.desc.BindFlags }

// MiscFlags returns the texture's misc flags.
func (t *Texture2D) MiscFlags() MiscFlags { return t.desc.MiscFlags }

// Dispose releases the texture and its views.
func (t *Texture2D) Dispose() { t.dispose() }

func (t *Texture2D) viewDimension(arrayed bool) ViewDimension {
	ms := t.desc.Sampling.IsMultisampled()
	switch {
	case ms && arrayed:
		return ViewTexture2DMSArray
	case ms:
		return ViewTexture2DMS
	case arrayed:
		return ViewTexture2DArray
	default:
		return ViewTexture2D
	}
}

func (t *Texture2D) extent(mip int) extent {
	return extent{MipSize(t.desc.Width, mip), MipSize(t.desc.Height, mip), 1}
}

// ViewAsShaderResource returns a view of mipLevels mips starting at
// mostDetailedMip. Cube maps are viewed as cubes, arrays as arrays.
func (t *Texture2D) ViewAsShaderResource(format ExplicitFormat, mostDetailedMip, mipLevels int) (*ShaderResourceView, error) {
	if err := checkMipRange(mostDetailedMip, mipLevels, t.desc.MipLevels); err != nil {
		return nil, err
	}
	dim := t.viewDimension(t.desc.ArraySize > 1)
	if t.desc.IsCube() {
		dim = pick(t.desc.ArraySize > 6, ViewTextureCubeArray, ViewTextureCube)
	}
	desc := ShaderResourceViewDescription{
		Format:          viewFormat(format, t.desc.Format),
		Dimension:       dim,
		MostDetailedMip: mostDetailedMip,
		MipLevels:       mipLevels,
		ArraySize:       t.desc.ArraySize,
	}
	return t.shaderResourceView(t.desc.BindFlags, desc, t.extent(mostDetailedMip))
}

// ViewAsShaderResourceArray returns a 2D array view of a range of slices,
// including individual cube faces.
func (t *Texture2D) ViewAsShaderResourceArray(format ExplicitFormat, mostDetailedMip, mipLevels, firstSlice, arraySize int) (*ShaderResourceView, error) {
	if err := checkMipRange(mostDetailedMip, mipLevels, t.desc.MipLevels); err != nil {
		return nil, err
	}
	if err := checkSliceRange(firstSlice, arraySize, t.desc.ArraySize); err != nil {
		return nil, err
	}
	desc := ShaderResourceViewDescription{
		Format:          viewFormat(format, t.desc.Format),
		Dimension:       t.viewDimension(true),
		MostDetailedMip: mostDetailedMip,
		MipLevels:       mipLevels,
		FirstArraySlice: firstSlice,
		ArraySize:       arraySize,
	}
	return t.shaderResourceView(t.desc.BindFlags, desc, t.extent(mostDetailedMip))
}

// ViewAsRenderTarget returns a render target view of one mip level of the
// first slice.
func (t *Texture2D) ViewAsRenderTarget(format ExplicitFormat, mipSlice int) (*RenderTargetView, error) {
	return t.ViewAsRenderTargetArray(format, mipSlice, 0, 1)
}

// ViewAsRenderTargetArray returns a render target view of a range of slices.
func (t *Texture2D) ViewAsRenderTargetArray(format ExplicitFormat, mipSlice, firstSlice, arraySize int) (*RenderTargetView, error) {
	if err := checkMipRange(mipSlice, 1, t.desc.MipLevels); err != nil {
		return nil, err
	}
	if err := checkSliceRange(firstSlice, arraySize, t.desc.ArraySize); err != nil {
		return nil, err
	}
	desc := RenderTargetViewDescription{
		Format:          viewFormat(format, t.desc.Format),
		Dimension:       t.viewDimension(t.desc.ArraySize > 1),
		MipSlice:        mipSlice,
		FirstArraySlice: firstSlice,
		ArraySize:       arraySize,
	}
	return t.renderTargetView(t.desc.BindFlags, desc, t.extent(mipSlice))
}

// ViewAsDepthStencil returns a depth-stencil view of one mip level of the
// first slice.
func (t *Texture2D) ViewAsDepthStencil(format ExplicitFormat, flags DepthStencilViewFlags, mipSlice int) (*DepthStencilView, error) {
	return t.ViewAsDepthStencilArray(format, flags, mipSlice, 0, 1)
}

// ViewAsDepthStencilArray returns a depth-stencil view of a range of slices.
func (t *Texture2D) ViewAsDepthStencilArray(format ExplicitFormat, flags DepthStencilViewFlags, mipSlice, firstSlice, arraySize int) (*DepthStencilView, error) {
	if err := checkMipRange(mipSlice, 1, t.desc.MipLevels); err != nil {
		return nil, err
	}
	if err := checkSliceRange(firstSlice, arraySize, t.desc.ArraySize); err != nil {
		return nil, err
	}
	desc := DepthStencilViewDescription{
		Format:          viewFormat(format, t.desc.Format),
		Dimension:       t.viewDimension(t.desc.ArraySize > 1),
		Flags:           flags,
		MipSlice:        mipSlice,
		FirstArraySlice: firstSlice,
		ArraySize:       arraySize,
	}
	return t.depthStencilView(t.desc.BindFlags, desc, t.extent(mipSlice))
}

// ViewAsUnorderedAccess returns an unordered access view of one mip level.
func (t *Texture2D) ViewAsUnorderedAccess(format ExplicitFormat, mipSlice int) (*UnorderedAccessView, error) {
	if err := checkMipRange(mipSlice, 1, t.desc.MipLevels); err != nil {
		return nil, err
	}
	desc := UnorderedAccessViewDescription{
		Format:    viewFormat(format, t.desc.Format),
		Dimension: t.viewDimension(t.desc.ArraySize > 1),
		MipSlice:  mipSlice,
		ArraySize: t.desc.ArraySize,
	}
	return t.unorderedAccessView(t.desc.BindFlags, desc, t.extent(mipSlice))
}

// Texture3D is a volume texture.
type Texture3D struct {
	resource
	desc Texture3DDescription
}

// NewTexture3D wraps a backend texture. desc must come from Resolve.
func NewTexture3D(reg *Registry, desc Texture3DDescription, native NativeObject) *Texture3D {
	t := &Texture3D{desc: desc}
	t.init(reg, t, native)
	return t
}

func (*Texture3D) isResource() {}

// Description returns the resolved description.
func (t *Texture3D) Description() Texture3DDescription { return t.desc }

// Dimension returns DimensionTexture3D.
func (t *Texture3D) Dimension() ResourceDimension { return DimensionTexture3D }

// Usage returns the texture's usage.
func (t *Texture3D) Usage() Usage { return t.desc.Usage }

// BindFlags returns the texture's bind flags.
func (t *Texture3D) BindFlags() BindFlags { return t.desc.BindFlags }

// MiscFlags returns the texture's misc flags.
func (t *Texture3D) MiscFlags() MiscFlags { return t.desc.MiscFlags }

// Dispose releases the texture and its views.
func (t *Texture3D) Dispose() { t.dispose() }

func (t *Texture3D) extent(mip int) extent {
	return extent{MipSize(t.desc.Width, mip), MipSize(t.desc.Height, mip), MipSize(t.desc.Depth, mip)}
}

// ViewAsShaderResource returns a view of mipLevels mips starting at mostDetailedMip.
func (t *Texture3D) ViewAsShaderResource(format ExplicitFormat, mostDetailedMip, mipLevels int) (*ShaderResourceView, error) {
	if err := checkMipRange(mostDetailedMip, mipLevels, t.desc.MipLevels); err != nil {
		return nil, err
	}
	desc := ShaderResourceViewDescription{
		Format:          viewFormat(format, t.desc.Format),
		Dimension:       ViewTexture3D,
		MostDetailedMip: mostDetailedMip,
		MipLevels:       mipLevels,
	}
	return t.shaderResourceView(t.desc.BindFlags, desc, t.extent(mostDetailedMip))
}

// ViewAsRenderTarget returns a render target view of depth slices
// [firstW, firstW+wSize) of one mip level.
func (t *Texture3D) ViewAsRenderTarget(format ExplicitFormat, mipSlice, firstW, wSize int) (*RenderTargetView, error) {
	if err := checkMipRange(mipSlice, 1, t.desc.MipLevels); err != nil {
		return nil, err
	}
	if err := checkSliceRange(firstW, wSize, MipSize(t.desc.Depth, mipSlice)); err != nil {
		return nil, err
	}
	desc := RenderTargetViewDescription{
		Format:          viewFormat(format, t.desc.Format),
		Dimension:       ViewTexture3D,
		MipSlice:        mipSlice,
		FirstArraySlice: firstW,
		ArraySize:       wSize,
	}
	return t.renderTargetView(t.desc.BindFlags, desc, t.extent(mipSlice))
}

// ViewAsUnorderedAccess returns an unordered access view of one mip level.
func (t *Texture3D) ViewAsUnorderedAccess(format ExplicitFormat, mipSlice int) (*UnorderedAccessView, error) {
	if err := checkMipRange(mipSlice, 1, t.desc.MipLevels); err != nil {
		return nil, err
	}
	desc := UnorderedAccessViewDescription{
		Format:    viewFormat(format, t.desc.Format),
		Dimension: ViewTexture3D,
		MipSlice:  mipSlice,
		ArraySize: MipSize(t.desc.Depth, mipSlice),
	}
	return t.unorderedAccessView(t.desc.BindFlags, desc, t.extent(mipSlice))
}

func checkMipRange(first, count, total int) error {
	if first < 0 || count < 1 || first+count > total {
		return fmt.Errorf("%w: mips [%d, %d) of %d", ErrInvalidDescription, first, first+count, total)
	}
	return nil
}

func checkSliceRange(first, count, total int) error {
	if first < 0 || count < 1 || first+count > total {
		return fmt.Errorf("%w: slices [%d, %d) of %d", ErrInvalidDescription, first, first+count, total)
	}
	return nil
}

func viewFormat(requested, resource ExplicitFormat) ExplicitFormat {
	if requested == FormatUnknown {
		return resource
	}
	return requested
}

func pick[T any](cond bool, a, b T) T {
	if cond {
		return a
	}
	return b
}
