package beholder

import (
	"fmt"
	"sync"
)

// ViewDimension is the shape through which a view sees its resource.
type ViewDimension int

// View dimensions.
const (
	ViewUnknown ViewDimension = iota
	ViewBuffer
	ViewTexture1D
	ViewTexture1DArray
	ViewTexture2D
	ViewTexture2DArray
	ViewTexture2DMS
	ViewTexture2DMSArray
	ViewTexture3D
	ViewTextureCube
	ViewTextureCubeArray
)

// DepthStencilViewFlags marks read-only aspects of a depth-stencil view.
type DepthStencilViewFlags uint32

// Depth-stencil view flags.
const (
	DSVReadOnlyDepth DepthStencilViewFlags = 1 << iota
	DSVReadOnlyStencil
)

// UnorderedAccessViewFlags selects buffer UAV behaviors.
type UnorderedAccessViewFlags uint32

// Unordered access view flags.
const (
	UAVRaw UnorderedAccessViewFlags = 1 << iota
	UAVAppend
	UAVCounter
)

// Has reports whether all flags in f2 are set.
func (f UnorderedAccessViewFlags) Has(f2 UnorderedAccessViewFlags) bool { return f&f2 == f2 }

// ShaderResourceViewDescription identifies a shader resource view. Two
// requests with equal descriptions yield the same view.
type ShaderResourceViewDescription struct {
	Format          ExplicitFormat
	Dimension       ViewDimension
	MostDetailedMip int
	MipLevels       int
	FirstArraySlice int
	ArraySize       int
	FirstElement    int
	ElementCount    int
}

// RenderTargetViewDescription identifies a render target view.
type RenderTargetViewDescription struct {
	Format          ExplicitFormat
	Dimension       ViewDimension
	MipSlice        int
	FirstArraySlice int
	ArraySize       int
}

// DepthStencilViewDescription identifies a depth-stencil view.
type DepthStencilViewDescription struct {
	Format          ExplicitFormat
	Dimension       ViewDimension
	Flags           DepthStencilViewFlags
	MipSlice        int
	FirstArraySlice int
	ArraySize       int
}

// UnorderedAccessViewDescription identifies an unordered access view.
type UnorderedAccessViewDescription struct {
	Format          ExplicitFormat
	Dimension       ViewDimension
	MipSlice        int
	FirstArraySlice int
	ArraySize       int
	FirstElement    int
	ElementCount    int
	Flags           UnorderedAccessViewFlags
}

type extent struct {
	width, height, depth int
}

// view is the part shared by all views. The resource handle does not keep
// the resource alive; the resource owns its views.
type view struct {
	resource Handle
	native   NativeObject
	size     extent
}

// Resource returns the handle of the viewed resource.
func (v *view) Resource() Handle { return v.resource }

// Native returns the backend view object, which may be nil.
func (v *view) Native() NativeObject { return v.native }

// Width returns the viewed width at the view's mip level.
func (v *view) Width() int { return v.size.width }

// Height returns the viewed height at the view's mip level.
func (v *view) Height() int { return v.size.height }

// ShaderResourceView exposes a resource to shader reads.
type ShaderResourceView struct {
	view
	desc ShaderResourceViewDescription
}

// Description returns the view's description.
func (v *ShaderResourceView) Description() ShaderResourceViewDescription { return v.desc }

// RenderTargetView exposes a resource as a color attachment.
type RenderTargetView struct {
	view
	desc RenderTargetViewDescription
}

// Description returns the view's description.
func (v *RenderTargetView) Description() RenderTargetViewDescription { return v.desc }

// DepthStencilView exposes a resource as the depth-stencil attachment.
type DepthStencilView struct {
	view
	desc DepthStencilViewDescription
}

// Description returns the view's description.
func (v *DepthStencilView) Description() DepthStencilViewDescription { return v.desc }

// UnorderedAccessView exposes a resource to random-access shader writes.
type UnorderedAccessView struct {
	view
	desc UnorderedAccessViewDescription
}

// Description returns the view's description.
func (v *UnorderedAccessView) Description() UnorderedAccessViewDescription { return v.desc }

// viewCache holds the views created for one resource, keyed by description.
type viewCache struct {
	mu  sync.Mutex
	srv map[ShaderResourceViewDescription]*ShaderResourceView
	rtv map[RenderTargetViewDescription]*RenderTargetView
	dsv map[DepthStencilViewDescription]*DepthStencilView
	uav map[UnorderedAccessViewDescription]*UnorderedAccessView
}

func cachedView[D comparable, V any](mu *sync.Mutex, m *map[D]*V, desc D, create func() (*V, error)) (*V, error) {
	mu.Lock()
	defer mu.Unlock()
	if v, ok := (*m)[desc]; ok {
		return v, nil
	}
	v, err := create()
	if err != nil {
		return nil, err
	}
	if *m == nil {
		*m = make(map[D]*V)
	}
	(*m)[desc] = v
	return v, nil
}

// release releases every cached native view.
func (c *viewCache) release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, v := range c.srv {
		releaseNative(v.native)
	}
	for _, v := range c.rtv {
		releaseNative(v.native)
	}
	for _, v := range c.dsv {
		releaseNative(v.native)
	}
	for _, v := range c.uav {
		releaseNative(v.native)
	}
	c.srv, c.rtv, c.dsv, c.uav = nil, nil, nil, nil
}

// count returns the number of cached views.
func (c *viewCache) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.srv) + len(c.rtv) + len(c.dsv) + len(c.uav)
}

func releaseNative(n NativeObject) {
	if n != nil {
		n.Release()
	}
}

func (r *resource) createNative(create func(NativeResource) (NativeObject, error)) (NativeObject, error) {
	if r.IsDisposed() {
		return nil, ErrReleased
	}
	nr := r.nativeResource()
	if nr == nil {
		return nil, nil
	}
	return create(nr)
}

func (r *resource) shaderResourceView(flags BindFlags, desc ShaderResourceViewDescription, size extent) (*ShaderResourceView, error) {
	if !flags.Has(BindShaderResource) {
		return nil, fmt.Errorf("%w: shader resource view needs BindShaderResource", ErrBindFlags)
	}
	return cachedView(&r.views.mu, &r.views.srv, desc, func() (*ShaderResourceView, error) {
		n, err := r.createNative(func(nr NativeResource) (NativeObject, error) {
			return nr.CreateShaderResourceView(desc)
		})
		if err != nil {
			return nil, err
		}
		return &ShaderResourceView{view: view{resource: r.handle, native: n, size: size}, desc: desc}, nil
	})
}

func (r *resource) renderTargetView(flags BindFlags, desc RenderTargetViewDescription, size extent) (*RenderTargetView, error) {
	if !flags.Has(BindRenderTarget) {
		return nil, fmt.Errorf("%w: render target view needs BindRenderTarget", ErrBindFlags)
	}
	return cachedView(&r.views.mu, &r.views.rtv, desc, func() (*RenderTargetView, error) {
		n, err := r.createNative(func(nr NativeResource) (NativeObject, error) {
			return nr.CreateRenderTargetView(desc)
		})
		if err != nil {
			return nil, err
		}
		return &RenderTargetView{view: view{resource: r.handle, native: n, size: size}, desc: desc}, nil
	})
}

func (r *resource) depthStencilView(flags BindFlags, desc DepthStencilViewDescription, size extent) (*DepthStencilView, error) {
	if !flags.Has(BindDepthStencil) {
		return nil, fmt.Errorf("%w: depth-stencil view needs BindDepthStencil", ErrBindFlags)
	}
	if !desc.Format.IsDepth() {
		return nil, fmt.Errorf("%w: depth-stencil view of format %d", ErrUnsupportedFormat, desc.Format)
	}
	return cachedView(&r.views.mu, &r.views.dsv, desc, func() (*DepthStencilView, error) {
		n, err := r.createNative(func(nr NativeResource) (NativeObject, error) {
			return nr.CreateDepthStencilView(desc)
		})
		if err != nil {
			return nil, err
		}
		return &DepthStencilView{view: view{resource: r.handle, native: n, size: size}, desc: desc}, nil
	})
}

func (r *resource) unorderedAccessView(flags BindFlags, desc UnorderedAccessViewDescription, size extent) (*UnorderedAccessView, error) {
	if !flags.Has(BindUnorderedAccess) {
		return nil, fmt.Errorf("%w: unordered access view needs BindUnorderedAccess", ErrBindFlags)
	}
	return cachedView(&r.views.mu, &r.views.uav, desc, func() (*UnorderedAccessView, error) {
		n, err := r.createNative(func(nr NativeResource) (NativeObject, error) {
			return nr.CreateUnorderedAccessView(desc)
		})
		if err != nil {
			return nil, err
		}
		return &UnorderedAccessView{view: view{resource: r.handle, native: n, size: size}, desc: desc}, nil
	})
}
