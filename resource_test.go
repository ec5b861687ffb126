package beholder

import (
	"errors"
	"testing"

	"github.com/Zulkir/Beholder-sub001/shader"
)

type fakeNative struct {
	released int
	views    int
}

func (n *fakeNative) Release() { n.released++ }

func (n *fakeNative) newView() (NativeObject, error) {
	n.views++
	return &fakeNative{}, nil
}

func (n *fakeNative) CreateShaderResourceView(ShaderResourceViewDescription) (NativeObject, error) {
	return n.newView()
}

func (n *fakeNative) CreateRenderTargetView(RenderTargetViewDescription) (NativeObject, error) {
	return n.newView()
}

func (n *fakeNative) CreateDepthStencilView(DepthStencilViewDescription) (NativeObject, error) {
	return n.newView()
}

func (n *fakeNative) CreateUnorderedAccessView(UnorderedAccessViewDescription) (NativeObject, error) {
	return nil, ErrNotSupported
}

func newTestTexture2D(t *testing.T, reg *Registry, desc Texture2DDescription) (*Texture2D, *fakeNative) {
	t.Helper()
	desc, err := desc.Resolve(nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	n := &fakeNative{}
	return NewTexture2D(reg, desc, n), n
}

func TestViewCacheIdentity(t *testing.T) {
	tex, native := newTestTexture2D(t, NewRegistry(), Texture2DDescription{
		Width: 64, Height: 64, ArraySize: 1, Format: FormatR8G8B8A8Unorm,
		BindFlags: BindShaderResource | BindRenderTarget,
	})

	a, err := tex.ViewAsShaderResource(FormatR8G8B8A8Unorm, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	b, err := tex.ViewAsShaderResource(FormatR8G8B8A8Unorm, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("equal descriptions returned distinct views")
	}
	c, err := tex.ViewAsShaderResource(FormatR8G8B8A8Unorm, 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	if c == a {
		t.Error("different mip count returned the cached view")
	}
	if native.views != 2 {
		t.Errorf("native views created = %d, want 2", native.views)
	}
	if a.Resource() != tex.Handle() {
		t.Error("view does not refer back to its texture")
	}
	if a.Width() != 64 || a.Height() != 64 {
		t.Errorf("view size = %dx%d, want 64x64", a.Width(), a.Height())
	}
}

func TestViewBindFlags(t *testing.T) {
	tex, native := newTestTexture2D(t, NewRegistry(), Texture2DDescription{
		Width: 16, Height: 16, ArraySize: 1, Format: FormatR8G8B8A8Unorm,
		BindFlags: BindShaderResource,
	})
	tests := []struct {
		name string
		view func() error
	}{
		{"render target", func() error { _, err := tex.ViewAsRenderTarget(FormatUnknown, 0); return err }},
		{"depth stencil", func() error { _, err := tex.ViewAsDepthStencil(FormatD32Float, 0, 0); return err }},
		{"unordered access", func() error { _, err := tex.ViewAsUnorderedAccess(FormatUnknown, 0); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.view(); !errors.Is(err, ErrBindFlags) {
				t.Errorf("err = %v, want ErrBindFlags", err)
			}
		})
	}
	if native.views != 0 {
		t.Errorf("native views created = %d, want 0", native.views)
	}
}

func TestRenderTargetViewHeightAtMip(t *testing.T) {
	tex, _ := newTestTexture2D(t, NewRegistry(), Texture2DDescription{
		Width: 800, Height: 600, ArraySize: 1, Format: FormatR8G8B8A8Unorm,
		BindFlags: BindRenderTarget,
	})
	rtv, err := tex.ViewAsRenderTarget(FormatUnknown, 1)
	if err != nil {
		t.Fatal(err)
	}
	if rtv.Height() != 300 {
		t.Errorf("Height() = %d, want 300", rtv.Height())
	}
	if rtv.Description().Format != FormatR8G8B8A8Unorm {
		t.Errorf("Format = %v, want the texture format", rtv.Description().Format)
	}
}

func TestTexture2DResolve(t *testing.T) {
	base := Texture2DDescription{Width: 256, Height: 128, ArraySize: 1, Format: FormatR8G8B8A8Unorm, BindFlags: BindShaderResource}
	tests := []struct {
		name    string
		mutate  func(*Texture2DDescription)
		initial []SubresourceData
		wantErr error
	}{
		{"full chain", func(*Texture2DDescription) {}, nil, nil},
		{"zero width", func(d *Texture2DDescription) { d.Width = 0 }, nil, ErrInvalidDescription},
		{"too many mips", func(d *Texture2DDescription) { d.MipLevels = 10 }, nil, ErrInvalidDescription},
		{"multisample cube", func(d *Texture2DDescription) {
			d.Width, d.ArraySize, d.Sampling.Count = 128, 6, 4
			d.MiscFlags = MiscTextureCube
		}, nil, ErrMultisampleCube},
		{"cube needs six faces", func(d *Texture2DDescription) {
			d.Width, d.ArraySize = 128, 4
			d.MiscFlags = MiscTextureCube
		}, nil, ErrInvalidDescription},
		{"depth as render target", func(d *Texture2DDescription) {
			d.Format, d.BindFlags = FormatD24UnormS8Uint, BindRenderTarget
		}, nil, ErrBindFlags},
		{"color as depth", func(d *Texture2DDescription) { d.BindFlags = BindDepthStencil }, nil, ErrBindFlags},
		{"staging bound", func(d *Texture2DDescription) { d.Usage = UsageStaging }, nil, ErrBindFlags},
		{"immutable without data", func(d *Texture2DDescription) { d.Usage = UsageImmutable }, nil, ErrInitialData},
		{"multisample with data", func(d *Texture2DDescription) {
			d.Sampling.Count = 4
		}, []SubresourceData{{Bytes: []byte{1}}}, ErrInitialData},
		{"wrong subresource count", func(d *Texture2DDescription) { d.MipLevels = 2 },
			[]SubresourceData{{Bytes: []byte{1}}}, ErrInitialData},
		{"unknown format", func(d *Texture2DDescription) { d.Format = FormatUnknown }, nil, ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := base
			tt.mutate(&d)
			_, err := d.Resolve(tt.initial)
			if !errors.Is(err, tt.wantErr) || (tt.wantErr == nil && err != nil) {
				t.Errorf("Resolve() err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	d, err := base.Resolve(nil)
	if err != nil {
		t.Fatal(err)
	}
	if d.MipLevels != 9 {
		t.Errorf("MipLevels = %d, want 9", d.MipLevels)
	}
	if d.Sampling.NativeCount() != 0 {
		t.Errorf("NativeCount() = %d, want 0 for one sample", d.Sampling.NativeCount())
	}
}

func TestSamplingNativeCount(t *testing.T) {
	for _, tt := range []struct{ count, want int }{{0, 0}, {1, 0}, {2, 2}, {8, 8}} {
		if got := (Sampling{Count: tt.count}).NativeCount(); got != tt.want {
			t.Errorf("Sampling{%d}.NativeCount() = %d, want %d", tt.count, got, tt.want)
		}
	}
}

func TestSubresourceIndex(t *testing.T) {
	if got := SubresourceIndex(2, 3, 5); got != 17 {
		t.Errorf("SubresourceIndex(2, 3, 5) = %d, want 17", got)
	}
	if got := FullMipChain(1); got != 1 {
		t.Errorf("FullMipChain(1) = %d, want 1", got)
	}
	if got := FullMipChain(640, 480); got != 10 {
		t.Errorf("FullMipChain(640, 480) = %d, want 10", got)
	}
}

func TestBufferValidate(t *testing.T) {
	tests := []struct {
		name    string
		desc    BufferDescription
		initial []byte
		wantErr error
	}{
		{"vertex", BufferDescription{SizeInBytes: 64, BindFlags: BindVertexBuffer}, nil, nil},
		{"empty", BufferDescription{BindFlags: BindVertexBuffer}, nil, ErrInvalidDescription},
		{"render target", BufferDescription{SizeInBytes: 64, BindFlags: BindRenderTarget}, nil, ErrBindFlags},
		{"uniform mixed", BufferDescription{SizeInBytes: 64, BindFlags: BindUniformBuffer | BindVertexBuffer}, nil, ErrBindFlags},
		{"structured without stride", BufferDescription{SizeInBytes: 64, BindFlags: BindShaderResource, MiscFlags: MiscBufferStructured}, nil, ErrInvalidDescription},
		{"immutable without data", BufferDescription{SizeInBytes: 64, Usage: UsageImmutable, BindFlags: BindIndexBuffer}, nil, ErrInitialData},
		{"data too large", BufferDescription{SizeInBytes: 2, BindFlags: BindIndexBuffer}, []byte{1, 2, 3}, ErrInitialData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.desc.Validate(tt.initial)
			if !errors.Is(err, tt.wantErr) || (tt.wantErr == nil && err != nil) {
				t.Errorf("Validate() err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBufferViews(t *testing.T) {
	n := &fakeNative{}
	buf := NewBuffer(nil, BufferDescription{SizeInBytes: 256, BindFlags: BindShaderResource | BindUnorderedAccess}, n)
	v1, err := buf.ViewAsShaderResource(FormatR32Float, 0, 64)
	if err != nil {
		t.Fatal(err)
	}
	v2, _ := buf.ViewAsShaderResource(FormatR32Float, 0, 64)
	if v1 != v2 {
		t.Error("buffer view not cached")
	}
	if _, err := buf.ViewAsShaderResource(FormatR32Float, 0, 65); !errors.Is(err, ErrInvalidDescription) {
		t.Errorf("out of range view err = %v, want ErrInvalidDescription", err)
	}
	if _, err := buf.ViewAsUnorderedAccess(FormatR32Float, 0, 64, 0); !errors.Is(err, ErrNotSupported) {
		t.Errorf("native failure err = %v, want ErrNotSupported", err)
	}
	if _, err := buf.ViewAsUnorderedAccess(FormatR32Uint, 0, 64, UAVRaw); !errors.Is(err, ErrBindFlags) {
		t.Errorf("raw view err = %v, want ErrBindFlags", err)
	}
}

func TestDisposeReleasesViews(t *testing.T) {
	reg := NewRegistry()
	tex, native := newTestTexture2D(t, reg, Texture2DDescription{
		Width: 8, Height: 8, ArraySize: 1, Format: FormatR8G8B8A8Unorm,
		BindFlags: BindShaderResource | BindRenderTarget,
	})
	srv, _ := tex.ViewAsShaderResource(FormatUnknown, 0, 1)
	rtv, _ := tex.ViewAsRenderTarget(FormatUnknown, 0)

	tex.Dispose()
	tex.Dispose()

	if native.released != 1 {
		t.Errorf("texture released %d times, want 1", native.released)
	}
	for _, v := range []NativeObject{srv.Native(), rtv.Native()} {
		if got := v.(*fakeNative).released; got != 1 {
			t.Errorf("view released %d times, want 1", got)
		}
	}
	if reg.Len() != 0 {
		t.Errorf("registry holds %d objects after dispose, want 0", reg.Len())
	}
	if _, err := tex.ViewAsShaderResource(FormatUnknown, 0, 1); !errors.Is(err, ErrReleased) {
		t.Errorf("new view after dispose err = %v, want ErrReleased", err)
	}
}

func TestRegistryDisposeAll(t *testing.T) {
	reg := NewRegistry()
	natives := make([]*fakeNative, 3)
	for i := range natives {
		natives[i] = &fakeNative{}
	}
	NewBuffer(reg, BufferDescription{SizeInBytes: 4}, natives[0])
	NewSamplerState(reg, DefaultSampler(), natives[1])
	b := NewBlendState(reg, DefaultBlend(), natives[2])
	b.Dispose()

	if reg.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", reg.Len())
	}
	reg.DisposeAll()
	reg.DisposeAll()
	for i, n := range natives {
		if n.released != 1 {
			t.Errorf("object %d released %d times, want 1", i, n.released)
		}
	}
	if reg.Len() != 0 {
		t.Errorf("Len() = %d after DisposeAll, want 0", reg.Len())
	}
}

func TestStateCacheDedup(t *testing.T) {
	reg := NewRegistry()
	c := NewStateCache(4)
	created := 0
	create := func() (*BlendState, error) {
		created++
		return NewBlendState(reg, DefaultBlend(), nil), nil
	}
	a, _ := c.Blend(DefaultBlend(), create)
	b, _ := c.Blend(DefaultBlend(), create)
	if a != b || created != 1 {
		t.Errorf("dedup failed: same=%v created=%d", a == b, created)
	}
	a.Dispose()
	d, _ := c.Blend(DefaultBlend(), create)
	if d == a || d.IsDisposed() || created != 2 {
		t.Errorf("disposed state returned from cache: created=%d", created)
	}
}

func TestResolveVertexLayout(t *testing.T) {
	vs := &shader.Reflection{
		Stage: shader.StageVertex,
		Name:  "vs",
		Inputs: []shader.Variable{
			{Name: "position", Type: "float3", Semantic: "POSITION"},
			{Name: "ids", Type: "uint2", Semantic: "TEXCOORD1"},
			{Name: "vid", Type: "uint", Semantic: "SV_VertexID"},
		},
	}
	attrs, err := ResolveVertexLayout(vs, []VertexLayoutElement{
		{Semantic: "POSITION", Format: FormatR32G32B32Float},
		{Semantic: "TEXCOORD", SemanticIndex: 1, Format: FormatR32G32Uint, Offset: 12},
	})
	if err != nil {
		t.Fatal(err)
	}
	if attrs[0].Location != 0 || attrs[0].Integer || attrs[0].Components != 3 {
		t.Errorf("position attribute = %+v", attrs[0])
	}
	if attrs[1].Location != 1 || !attrs[1].Integer || attrs[1].Name != "ids" {
		t.Errorf("texcoord attribute = %+v", attrs[1])
	}

	_, err = ResolveVertexLayout(vs, []VertexLayoutElement{{Semantic: "POSITION", Format: FormatR32G32B32Float}})
	if !errors.Is(err, ErrInvalidDescription) {
		t.Errorf("unfed input err = %v, want ErrInvalidDescription", err)
	}
	_, err = ResolveVertexLayout(vs, []VertexLayoutElement{
		{Semantic: "POSITION", Format: FormatD32Float},
		{Semantic: "TEXCOORD", SemanticIndex: 1, Format: FormatR32G32Uint},
	})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("depth vertex format err = %v, want ErrUnsupportedFormat", err)
	}
}
