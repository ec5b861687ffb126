package d3d11

import (
	"errors"
	"strings"
	"testing"

	beholder "github.com/Zulkir/Beholder-sub001"
	"github.com/Zulkir/Beholder-sub001/backend"
	"github.com/Zulkir/Beholder-sub001/shader"
)

func slot(n string) map[string]string {
	return map[string]string{shader.SlotParameter: n}
}

func vertexReflection() *shader.Reflection {
	return &shader.Reflection{
		Stage:  shader.StageVertex,
		Name:   "vs",
		Inputs: []shader.Variable{{Name: "position", Type: "float3", Semantic: "POSITION"}},
		Outputs: []shader.Variable{
			{Name: "pos", Type: "float4", Semantic: "SV_Position"},
			{Name: "uv", Type: "float2", Semantic: "TEXCOORD0"},
		},
		UniformBuffers: []shader.Variable{{
			Name: "Camera", Type: "Camera", SpecialParameters: slot("0"),
			Members: []shader.Variable{{Name: "world", Type: "float4x4"}},
		}},
		Sources: map[shader.Language]string{
			shader.LanguageHLSL: "BH_OUTPUT main(BH_INPUT i) { BH_OUTPUT o; o.pos = mul(world, float4(i.position, 1)); o.uv = i.position.xy; return o; }\n",
		},
	}
}

func pixelReflection() *shader.Reflection {
	return &shader.Reflection{
		Stage:   shader.StagePixel,
		Name:    "ps",
		Inputs:  []shader.Variable{{Name: "uv", Type: "float2", Semantic: "TEXCOORD0"}},
		Outputs: []shader.Variable{{Name: "color", Type: "float4", Semantic: "SV_Target0"}},
		UniformBuffers: []shader.Variable{{
			Name: "Material", Type: "Material", SpecialParameters: slot("1"),
			Members: []shader.Variable{{Name: "tint", Type: "float4"}},
		}},
		Textures:            []shader.Variable{{Name: "diffuse", Type: "Texture2D", SpecialParameters: slot("2")}},
		Samplers:            []shader.Variable{{Name: "linear", Type: "SamplerState", SpecialParameters: slot("3")}},
		TextureSamplerPairs: []shader.TextureSamplerPair{{Texture: "diffuse", Sampler: "linear"}},
		Sources: map[shader.Language]string{
			shader.LanguageHLSL: "float4 main(BH_INPUT i) : SV_Target0 { return diffuse.Sample(linear, i.uv) * tint; }\n",
		},
	}
}

func newTestDevice(t *testing.T) (*Device, *fakeD3D) {
	t.Helper()
	f := newFakeD3D()
	d, err := NewDevice(f.handles())
	if err != nil {
		t.Fatalf("NewDevice() error = %v", err)
	}
	t.Cleanup(d.Dispose)
	f.reset()
	return d, f
}

func mustShaders(t *testing.T, d *Device) beholder.ShaderSet {
	t.Helper()
	vs, err := d.CreateShader(vertexReflection())
	if err != nil {
		t.Fatalf("CreateShader(vs) error = %v", err)
	}
	ps, err := d.CreateShader(pixelReflection())
	if err != nil {
		t.Fatalf("CreateShader(ps) error = %v", err)
	}
	return beholder.ShaderSet{Vertex: vs, Pixel: ps}
}

func mustTexture(t *testing.T, d *Device, w, h int, bind beholder.BindFlags) *beholder.Texture2D {
	t.Helper()
	tex, err := d.CreateTexture2D(beholder.Texture2DDescription{
		Width: w, Height: h, MipLevels: 1, ArraySize: 1,
		Format:    beholder.FormatR8G8B8A8Unorm,
		Usage:     beholder.UsageDefault,
		BindFlags: bind,
		Sampling:  beholder.Sampling{Count: 1},
	}, nil)
	if err != nil {
		t.Fatalf("CreateTexture2D() error = %v", err)
	}
	return tex
}

func mustTarget(t *testing.T, d *Device, w, h int) *beholder.RenderTargetView {
	t.Helper()
	rtv, err := mustTexture(t, d, w, h, beholder.BindRenderTarget|beholder.BindShaderResource).ViewAsRenderTarget(beholder.FormatUnknown, 0)
	if err != nil {
		t.Fatalf("ViewAsRenderTarget() error = %v", err)
	}
	return rtv
}

func mustBuffer(t *testing.T, d *Device, desc beholder.BufferDescription) *beholder.Buffer {
	t.Helper()
	buf, err := d.CreateBuffer(desc, nil)
	if err != nil {
		t.Fatalf("CreateBuffer() error = %v", err)
	}
	return buf
}

// obj returns the fake object behind a wrapper.
func obj(t *testing.T, n beholder.NativeObject) Object {
	t.Helper()
	o, err := native(n)
	if err != nil {
		t.Fatalf("native() error = %v", err)
	}
	return o
}

func TestGenerateDeclaresRegisters(t *testing.T) {
	d, f := newTestDevice(t)
	mustShaders(t, d)
	if len(f.sources) != 2 {
		t.Fatalf("compiled %d sources, want 2", len(f.sources))
	}
	vs, ps := f.sources[0], f.sources[1]
	for _, want := range []string{
		"cbuffer Camera : register(b0)",
		"    float4x4 world;",
		"struct BH_INPUT",
		"    float3 position : POSITION;",
		"    float4 pos : SV_Position;",
		"#line 1",
	} {
		if !strings.Contains(vs, want) {
			t.Errorf("vertex source lacks %q:\n%s", want, vs)
		}
	}
	for _, want := range []string{
		"cbuffer Material : register(b1)",
		"Texture2D diffuse : register(t2);",
		"SamplerState linear : register(s3);",
	} {
		if !strings.Contains(ps, want) {
			t.Errorf("pixel source lacks %q:\n%s", want, ps)
		}
	}
	if !f.has(d3dCall("Create", "vertex#1")) || !f.has(d3dCall("Create", "pixel#2")) {
		t.Errorf("shader objects not created: %v", f.named("Create"))
	}
}

func TestProfiles(t *testing.T) {
	tests := []struct {
		stage shader.Stage
		want  string
	}{
		{shader.StageVertex, "vs_5_0"},
		{shader.StageHull, "hs_5_0"},
		{shader.StageDomain, "ds_5_0"},
		{shader.StageGeometry, "gs_5_0"},
		{shader.StagePixel, "ps_5_0"},
		{shader.StageCompute, "cs_5_0"},
	}
	for _, tt := range tests {
		if got := profile(tt.stage); got != tt.want {
			t.Errorf("profile(%v) = %q, want %q", tt.stage, got, tt.want)
		}
	}
}

func TestCompileFailure(t *testing.T) {
	d, f := newTestDevice(t)
	f.compileFails = true
	_, err := d.CreateShader(vertexReflection())
	if !errors.Is(err, ErrCompile) {
		t.Fatalf("CreateShader() error = %v, want ErrCompile", err)
	}
	if !strings.Contains(err.Error(), "X3000") {
		t.Errorf("error %q lacks the compiler message", err)
	}
}

func TestUnsupportedMemberType(t *testing.T) {
	d, _ := newTestDevice(t)
	r := vertexReflection()
	r.UniformBuffers[0].Members = []shader.Variable{{Name: "tex", Type: "Texture2D"}}
	if _, err := d.CreateShader(r); !errors.Is(err, shader.ErrUnsupportedType) {
		t.Errorf("CreateShader() error = %v, want ErrUnsupportedType", err)
	}
}

func TestStageBindingsUseNativeSlots(t *testing.T) {
	d, f := newTestDevice(t)
	ctx := d.ImmediateContext()
	ub := mustBuffer(t, d, beholder.BufferDescription{
		SizeInBytes: 16, Usage: beholder.UsageDefault, BindFlags: beholder.BindUniformBuffer,
	})
	srv, err := mustTexture(t, d, 4, 4, beholder.BindShaderResource).ViewAsShaderResource(beholder.FormatUnknown, 0, 1)
	if err != nil {
		t.Fatalf("ViewAsShaderResource() error = %v", err)
	}
	smp, err := d.CreateSamplerState(beholder.DefaultSampler())
	if err != nil {
		t.Fatalf("CreateSamplerState() error = %v", err)
	}
	ctx.SetShadersForDrawing(mustShaders(t, d))
	ctx.SetPrimitiveTopology(beholder.TopologyTriangleList)
	ctx.SetUniformBuffer(shader.StagePixel, 1, ub)
	ctx.SetShaderResource(shader.StagePixel, 2, srv)
	ctx.SetSampler(shader.StagePixel, 3, smp)
	if err := ctx.Draw(3, 0); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	for _, want := range []string{
		d3dCall("SetConstantBuffers", shader.StagePixel, 1, []Object{obj(t, ub.Native())}),
		d3dCall("SetShaderResources", shader.StagePixel, 2, []Object{obj(t, srv.Native())}),
		d3dCall("SetSamplers", shader.StagePixel, 3, []Object{obj(t, smp.Native())}),
		d3dCall("IASetPrimitiveTopology", PRIMITIVE_TOPOLOGY_TRIANGLELIST),
	} {
		if !f.has(want) {
			t.Errorf("missing %q in %v", want, f.calls)
		}
	}
}

func TestViewportsNotFlipped(t *testing.T) {
	d, f := newTestDevice(t)
	ctx := d.ImmediateContext()
	ctx.SetShadersForDrawing(mustShaders(t, d))
	ctx.SetPrimitiveTopology(beholder.TopologyTriangleList)
	ctx.SetRenderTargets(mustTarget(t, d, 800, 600))
	ctx.SetViewports(beholder.NewViewport(10, 20, 100, 50))
	ctx.SetScissorRectangles(beholder.Rectangle{Left: 10, Top: 20, Right: 110, Bottom: 70})
	if err := ctx.Draw(3, 0); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	for _, want := range []string{
		d3dCall("RSSetViewports", []VIEWPORT{{TopLeftX: 10, TopLeftY: 20, Width: 100, Height: 50, MaxDepth: 1}}),
		d3dCall("RSSetScissorRects", []RECT{{Left: 10, Top: 20, Right: 110, Bottom: 70}}),
	} {
		if !f.has(want) {
			t.Errorf("missing %q in %v", want, f.calls)
		}
	}
	if d.Capabilities().BottomLeftOrigin {
		t.Error("d3d11 reports a bottom-left origin")
	}
}

func TestStencilReferenceRebindsState(t *testing.T) {
	d, f := newTestDevice(t)
	ctx := d.ImmediateContext()
	desc := beholder.DefaultDepthStencil()
	desc.StencilEnable = true
	ds, err := d.CreateDepthStencilState(desc)
	if err != nil {
		t.Fatalf("CreateDepthStencilState() error = %v", err)
	}
	ctx.SetShadersForDrawing(mustShaders(t, d))
	ctx.SetPrimitiveTopology(beholder.TopologyTriangleList)
	ctx.SetDepthStencilState(ds)
	ctx.SetStencilReference(7)
	if err := ctx.Draw(3, 0); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}

	f.reset()
	ctx.SetStencilReference(9)
	if err := ctx.Draw(3, 0); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	got := f.named("OMSetDepthStencilState")
	want := []string{d3dCall("OMSetDepthStencilState", obj(t, ds.Native()), uint32(9))}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("OMSetDepthStencilState calls = %v, want %v", got, want)
	}
}

func TestIndexBufferOffset(t *testing.T) {
	d, f := newTestDevice(t)
	ctx := d.ImmediateContext()
	ib := mustBuffer(t, d, beholder.BufferDescription{
		SizeInBytes: 64, Usage: beholder.UsageDefault, BindFlags: beholder.BindIndexBuffer,
	})
	ctx.SetShadersForDrawing(mustShaders(t, d))
	ctx.SetPrimitiveTopology(beholder.TopologyTriangleList)
	ctx.SetIndexSource(beholder.IndexSource{Buffer: ib, Format: beholder.IndexUint16, Offset: 4})
	if err := ctx.DrawIndexedInstanced(6, 2, 3, -1, 1); err != nil {
		t.Fatalf("DrawIndexedInstanced() error = %v", err)
	}
	for _, want := range []string{
		d3dCall("IASetIndexBuffer", obj(t, ib.Native()), DXGI_FORMAT_R16_UINT, uint32(4)),
		d3dCall("DrawIndexedInstanced", uint32(6), uint32(2), uint32(3), int32(-1), uint32(1)),
	} {
		if !f.has(want) {
			t.Errorf("missing %q in %v", want, f.calls)
		}
	}
}

func TestIndirectDraws(t *testing.T) {
	d, f := newTestDevice(t)
	ctx := d.ImmediateContext()
	ib := mustBuffer(t, d, beholder.BufferDescription{
		SizeInBytes: 64, Usage: beholder.UsageDefault, BindFlags: beholder.BindIndexBuffer,
	})
	args := mustBuffer(t, d, beholder.BufferDescription{
		SizeInBytes: 64, Usage: beholder.UsageDefault, MiscFlags: beholder.MiscDrawIndirectArgs,
	})
	plain := mustBuffer(t, d, beholder.BufferDescription{
		SizeInBytes: 64, Usage: beholder.UsageDefault, BindFlags: beholder.BindVertexBuffer,
	})
	ctx.SetShadersForDrawing(mustShaders(t, d))
	ctx.SetPrimitiveTopology(beholder.TopologyTriangleList)
	ctx.SetIndexSource(beholder.IndexSource{Buffer: ib, Format: beholder.IndexUint32})

	if err := ctx.DrawIndexedInstancedIndirect(args, 20); err != nil {
		t.Fatalf("DrawIndexedInstancedIndirect() error = %v", err)
	}
	if err := ctx.DrawInstancedIndirect(args, 4); err != nil {
		t.Fatalf("DrawInstancedIndirect() error = %v", err)
	}
	for _, want := range []string{
		d3dCall("DrawIndexedInstancedIndirect", obj(t, args.Native()), uint32(20)),
		d3dCall("DrawInstancedIndirect", obj(t, args.Native()), uint32(4)),
	} {
		if !f.has(want) {
			t.Errorf("missing %q in %v", want, f.calls)
		}
	}
	if err := ctx.DrawInstancedIndirect(plain, 0); !errors.Is(err, beholder.ErrBindFlags) {
		t.Errorf("DrawInstancedIndirect(vertex buffer) error = %v, want ErrBindFlags", err)
	}
}

func TestUnorderedAccessViewsFollowRenderTargets(t *testing.T) {
	d, f := newTestDevice(t)
	ctx := d.ImmediateContext()
	rtv := mustTarget(t, d, 64, 64)
	uav, err := mustTexture(t, d, 64, 64, beholder.BindUnorderedAccess).ViewAsUnorderedAccess(beholder.FormatUnknown, 0)
	if err != nil {
		t.Fatalf("ViewAsUnorderedAccess() error = %v", err)
	}
	ctx.SetShadersForDrawing(mustShaders(t, d))
	ctx.SetPrimitiveTopology(beholder.TopologyTriangleList)
	ctx.SetRenderTargets(rtv)
	ctx.SetUnorderedAccessViews(uav)
	if err := ctx.Draw(3, 0); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	calls := f.named("OMSetRenderTargetsAndUnorderedAccessViews")
	if len(calls) == 0 {
		t.Fatal("no output merger binding")
	}
	want := d3dCall("OMSetRenderTargetsAndUnorderedAccessViews",
		[]Object{obj(t, rtv.Native())}, Object(nil), 1, []Object{obj(t, uav.Native())})
	if got := calls[len(calls)-1]; got != want {
		t.Errorf("last binding = %q, want %q", got, want)
	}
}

func TestCommands(t *testing.T) {
	d, f := newTestDevice(t)
	ctx := d.ImmediateContext()
	rtv := mustTarget(t, d, 8, 8)
	uav, err := mustTexture(t, d, 8, 8, beholder.BindUnorderedAccess).ViewAsUnorderedAccess(beholder.FormatUnknown, 0)
	if err != nil {
		t.Fatalf("ViewAsUnorderedAccess() error = %v", err)
	}
	staging := mustBuffer(t, d, beholder.BufferDescription{SizeInBytes: 32, Usage: beholder.UsageStaging})
	f.mapped = make([]byte, 32)

	if err := ctx.ClearRenderTargetView(rtv, beholder.Color4{R: 1, A: 1}); err != nil {
		t.Errorf("ClearRenderTargetView() error = %v", err)
	}
	if err := ctx.ClearUnorderedAccessViewUint(uav, [4]uint32{1, 2, 3, 4}); err != nil {
		t.Errorf("ClearUnorderedAccessViewUint() error = %v", err)
	}
	m, err := ctx.Map(staging, 0, beholder.MapRead)
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}
	if len(m.Data) != 32 {
		t.Errorf("mapped %d bytes, want 32", len(m.Data))
	}
	if err := ctx.Unmap(staging, 0); err != nil {
		t.Errorf("Unmap() error = %v", err)
	}
	for _, want := range []string{
		d3dCall("ClearRenderTargetView", obj(t, rtv.Native()), [4]float32{1, 0, 0, 1}),
		d3dCall("ClearUnorderedAccessViewUint", obj(t, uav.Native()), [4]uint32{1, 2, 3, 4}),
		d3dCall("Map", obj(t, staging.Native()), uint32(0), MAP_READ),
		d3dCall("Unmap", obj(t, staging.Native()), uint32(0)),
	} {
		if !f.has(want) {
			t.Errorf("missing %q in %v", want, f.calls)
		}
	}
}

func TestSetSubresourceDataPitch(t *testing.T) {
	d, f := newTestDevice(t)
	ctx := d.ImmediateContext()
	tex := mustTexture(t, d, 16, 8, beholder.BindShaderResource)
	if err := ctx.SetSubresourceData(tex, 0, beholder.SubresourceData{Bytes: make([]byte, 16*8*4)}); err != nil {
		t.Fatalf("SetSubresourceData() error = %v", err)
	}
	want := d3dCall("UpdateSubresource", obj(t, tex.Native()), uint32(0), 512, uint32(64), uint32(512))
	if !f.has(want) {
		t.Errorf("missing %q in %v", want, f.named("UpdateSubresource"))
	}
}

func TestConstantBufferSizeRounded(t *testing.T) {
	d, f := newTestDevice(t)
	if _, err := d.CreateBuffer(beholder.BufferDescription{
		SizeInBytes: 20, Usage: beholder.UsageDynamic, BindFlags: beholder.BindUniformBuffer,
	}, nil); err != nil {
		t.Fatalf("CreateBuffer() error = %v", err)
	}
	desc := f.objects[len(f.objects)-1].desc.(*BUFFER_DESC)
	if desc.ByteWidth != 32 {
		t.Errorf("ByteWidth = %d, want 32", desc.ByteWidth)
	}
	if desc.CPUAccessFlags != CPU_ACCESS_WRITE {
		t.Errorf("CPUAccessFlags = %#x, want CPU_ACCESS_WRITE", desc.CPUAccessFlags)
	}
}

func TestFeatureLevel10(t *testing.T) {
	f := newFakeD3D()
	f.level = FEATURE_LEVEL_10_1
	d, err := NewDevice(f.handles())
	if err != nil {
		t.Fatalf("NewDevice() error = %v", err)
	}
	defer d.Dispose()
	features := d.Capabilities().Features
	for _, feat := range []beholder.Feature{
		beholder.FeatureCompute,
		beholder.FeatureTessellation,
		beholder.FeatureDrawIndexedInstancedIndirect,
		beholder.FeatureUnorderedAccessClear,
	} {
		if features.Has(feat) {
			t.Errorf("feature level 10.1 reports %v", feat)
		}
	}
	if !features.Has(beholder.FeatureMap) {
		t.Error("feature level 10.1 lacks Map")
	}
	if _, err := d.CreateShader(&shader.Reflection{Stage: shader.StageHull, Name: "hs"}); !errors.Is(err, beholder.ErrNotSupported) {
		t.Errorf("CreateShader(hs) error = %v, want ErrNotSupported", err)
	}
	if err := d.ImmediateContext().Dispatch(1, 1, 1); !errors.Is(err, beholder.ErrNotSupported) {
		t.Errorf("Dispatch() error = %v, want ErrNotSupported", err)
	}
}

func TestStreamOutputNotSupported(t *testing.T) {
	d, _ := newTestDevice(t)
	so := mustBuffer(t, d, beholder.BufferDescription{
		SizeInBytes: 64, Usage: beholder.UsageDefault, BindFlags: beholder.BindStreamOutput,
	})
	if err := d.ImmediateContext().SetStreamOutputTargets(so); !errors.Is(err, beholder.ErrNotSupported) {
		t.Errorf("SetStreamOutputTargets() error = %v, want ErrNotSupported", err)
	}
}

func TestBindProgramChecksShaders(t *testing.T) {
	d, _ := newTestDevice(t)
	set := mustShaders(t, d)
	set.Pixel = nil
	if _, err := d.tr.BindProgram(set); err != nil {
		t.Fatalf("BindProgram(own) error = %v", err)
	}
	set.Vertex.Dispose()
	if _, err := d.tr.BindProgram(set); !errors.Is(err, beholder.ErrReleased) {
		t.Errorf("BindProgram(disposed) error = %v, want ErrReleased", err)
	}
	if _, err := d.CreateVertexLayout(nil, nil); !errors.Is(err, beholder.ErrWrongBackend) {
		t.Errorf("CreateVertexLayout(nil) error = %v, want ErrWrongBackend", err)
	}
}

func TestDisposeReleasesObjects(t *testing.T) {
	f := newFakeD3D()
	d, err := NewDevice(f.handles())
	if err != nil {
		t.Fatalf("NewDevice() error = %v", err)
	}
	mustShaders(t, d)
	mustTarget(t, d, 4, 4)
	if _, err := d.CreateBlendState(beholder.DefaultBlend()); err != nil {
		t.Fatalf("CreateBlendState() error = %v", err)
	}
	if f.live() == 0 {
		t.Fatal("no live objects before Dispose")
	}
	d.Dispose()
	if n := f.live(); n != 0 {
		t.Errorf("%d objects alive after Dispose", n)
	}
}

func TestRegisteredFactory(t *testing.T) {
	if !backend.IsRegistered(backend.D3D11) {
		t.Fatal("d3d11 backend is not registered")
	}
	if _, err := backend.Create(backend.D3D11, 42); !errors.Is(err, beholder.ErrWrongBackend) {
		t.Errorf("Create(42) error = %v, want ErrWrongBackend", err)
	}
	if _, err := backend.Create(backend.D3D11, Handles{}); !errors.Is(err, beholder.ErrWrongBackend) {
		t.Errorf("Create(empty handles) error = %v, want ErrWrongBackend", err)
	}
	dev, err := backend.Create(backend.D3D11, newFakeD3D().handles())
	if err != nil {
		t.Fatalf("Create(fake) error = %v", err)
	}
	defer dev.Dispose()
	if dev.Backend() != backend.D3D11 {
		t.Errorf("Backend() = %q, want %q", dev.Backend(), backend.D3D11)
	}
}
