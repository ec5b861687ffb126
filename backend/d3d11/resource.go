package d3d11

import (
	"fmt"

	beholder "github.com/Zulkir/Beholder-sub001"
)

// d3dResource is the native side of buffers and textures.
type d3dResource struct {
	dev NativeDevice
	obj Object
	// levels is the mip count used to split subresource indices.
	levels int
	format beholder.ExplicitFormat
	width  int
	height int
}

func (r *d3dResource) Release() { r.obj.Release() }

func (r *d3dResource) CreateShaderResourceView(desc beholder.ShaderResourceViewDescription) (beholder.NativeObject, error) {
	format, err := dxgiFormat(desc.Format)
	if err != nil {
		return nil, err
	}
	dim, err := srvDimension(desc.Dimension)
	if err != nil {
		return nil, err
	}
	d := SHADER_RESOURCE_VIEW_DESC{
		Format:          format,
		ViewDimension:   dim,
		MostDetailedMip: uint32(desc.MostDetailedMip),
		MipLevels:       uint32(desc.MipLevels),
		FirstArraySlice: uint32(desc.FirstArraySlice),
		ArraySize:       uint32(desc.ArraySize),
		FirstElement:    uint32(desc.FirstElement),
		NumElements:     uint32(desc.ElementCount),
	}
	if desc.Dimension == beholder.ViewTextureCubeArray {
		// Cube arrays count cubes, not faces.
		d.ArraySize = uint32(desc.ArraySize / 6)
	}
	return wrap(r.dev.CreateShaderResourceView(r.obj, &d))
}

func (r *d3dResource) CreateRenderTargetView(desc beholder.RenderTargetViewDescription) (beholder.NativeObject, error) {
	format, err := dxgiFormat(desc.Format)
	if err != nil {
		return nil, err
	}
	dim, err := rtvDimension(desc.Dimension)
	if err != nil {
		return nil, err
	}
	return wrap(r.dev.CreateRenderTargetView(r.obj, &RENDER_TARGET_VIEW_DESC{
		Format:          format,
		ViewDimension:   dim,
		MipSlice:        uint32(desc.MipSlice),
		FirstArraySlice: uint32(desc.FirstArraySlice),
		ArraySize:       uint32(desc.ArraySize),
	}))
}

func (r *d3dResource) CreateDepthStencilView(desc beholder.DepthStencilViewDescription) (beholder.NativeObject, error) {
	format, err := dxgiFormat(desc.Format)
	if err != nil {
		return nil, err
	}
	dim, err := dsvDimension(desc.Dimension)
	if err != nil {
		return nil, err
	}
	d := DEPTH_STENCIL_VIEW_DESC{
		Format:          format,
		ViewDimension:   dim,
		MipSlice:        uint32(desc.MipSlice),
		FirstArraySlice: uint32(desc.FirstArraySlice),
		ArraySize:       uint32(desc.ArraySize),
	}
	if desc.Flags&beholder.DSVReadOnlyDepth != 0 {
		d.Flags |= DSV_READ_ONLY_DEPTH
	}
	if desc.Flags&beholder.DSVReadOnlyStencil != 0 {
		d.Flags |= DSV_READ_ONLY_STENCIL
	}
	return wrap(r.dev.CreateDepthStencilView(r.obj, &d))
}

func (r *d3dResource) CreateUnorderedAccessView(desc beholder.UnorderedAccessViewDescription) (beholder.NativeObject, error) {
	format, err := dxgiFormat(desc.Format)
	if err != nil {
		return nil, err
	}
	dim, err := uavDimension(desc.Dimension)
	if err != nil {
		return nil, err
	}
	d := UNORDERED_ACCESS_VIEW_DESC{
		Format:          format,
		ViewDimension:   dim,
		MipSlice:        uint32(desc.MipSlice),
		FirstArraySlice: uint32(desc.FirstArraySlice),
		ArraySize:       uint32(desc.ArraySize),
		FirstElement:    uint32(desc.FirstElement),
		NumElements:     uint32(desc.ElementCount),
	}
	for _, m := range [...]struct {
		from beholder.UnorderedAccessViewFlags
		to   uint32
	}{
		{beholder.UAVRaw, BUFFER_UAV_FLAG_RAW},
		{beholder.UAVAppend, BUFFER_UAV_FLAG_APPEND},
		{beholder.UAVCounter, BUFFER_UAV_FLAG_COUNTER},
	} {
		if desc.Flags.Has(m.from) {
			d.Flags |= m.to
		}
	}
	return wrap(r.dev.CreateUnorderedAccessView(r.obj, &d))
}

// subresourceData converts initial data. Empty row pitches are filled
// with the tightly packed pitch of each level.
func subresourceData(format beholder.ExplicitFormat, levels int, width, height int, data []beholder.SubresourceData) []SUBRESOURCE_DATA {
	if len(data) == 0 {
		return nil
	}
	out := make([]SUBRESOURCE_DATA, len(data))
	for i, d := range data {
		level := i % levels
		w := beholder.MipSize(width, level)
		h := beholder.MipSize(height, level)
		row, slice := d.RowPitch, d.SlicePitch
		if row == 0 {
			row = format.RowPitch(w)
		}
		if slice == 0 {
			rows := h
			if format.IsCompressed() {
				rows = max((h+3)/4, 1)
			}
			slice = row * rows
		}
		out[i] = SUBRESOURCE_DATA{SysMem: d.Bytes, SysMemPitch: uint32(row), SysMemSlicePitch: uint32(slice)}
	}
	return out
}

// d3dObject wraps the views, states and layouts the native device
// creates, so objects of other backends can be told apart.
type d3dObject struct {
	obj Object
}

func (o *d3dObject) Release() { o.obj.Release() }

func wrap(obj Object, err error) (beholder.NativeObject, error) {
	if err != nil {
		return nil, err
	}
	return &d3dObject{obj: obj}, nil
}

// native returns the d3d11 object behind a wrapper's native.
func native(obj beholder.NativeObject) (Object, error) {
	switch n := obj.(type) {
	case *d3dResource:
		return n.obj, nil
	case *d3dObject:
		return n.obj, nil
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("%w: native %T", beholder.ErrWrongBackend, obj)
}
