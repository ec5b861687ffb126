package d3d9

import (
	"encoding/binary"
	"errors"
	"math"
	"strconv"
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
			shader.LanguageHLSL: "BH_OUTPUT main(BH_INPUT i) { BH_OUTPUT o; o.color = tex2D(diffuse, i.uv) * tint; return o; }\n",
		},
	}
}

func newTestDevice(t *testing.T) (*Device, *fakeD3D9) {
	t.Helper()
	f := newFakeD3D9()
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

func mustTexture(t *testing.T, d *Device, w, h int, format beholder.ExplicitFormat, bind beholder.BindFlags) *beholder.Texture2D {
	t.Helper()
	tex, err := d.CreateTexture2D(beholder.Texture2DDescription{
		Width: w, Height: h, MipLevels: 1, ArraySize: 1,
		Format:    format,
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
	tex := mustTexture(t, d, w, h, beholder.FormatR8G8B8A8Unorm, beholder.BindRenderTarget|beholder.BindShaderResource)
	rtv, err := tex.ViewAsRenderTarget(beholder.FormatUnknown, 0)
	if err != nil {
		t.Fatalf("ViewAsRenderTarget() error = %v", err)
	}
	return rtv
}

func mustBuffer(t *testing.T, d *Device, desc beholder.BufferDescription, initial []byte) *beholder.Buffer {
	t.Helper()
	buf, err := d.CreateBuffer(desc, initial)
	if err != nil {
		t.Fatalf("CreateBuffer() error = %v", err)
	}
	return buf
}

func floatBytes(values ...float32) []byte {
	b := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(v))
	}
	return b
}

// drawReady binds the test shaders with a triangle list.
func drawReady(t *testing.T, d *Device) beholder.DeviceContext {
	t.Helper()
	ctx := d.ImmediateContext()
	ctx.SetShadersForDrawing(mustShaders(t, d))
	ctx.SetPrimitiveTopology(beholder.TopologyTriangleList)
	return ctx
}

func TestGenerateDeclaresRegisters(t *testing.T) {
	d, f := newTestDevice(t)
	mustShaders(t, d)
	if len(f.sources) != 2 {
		t.Fatalf("compiled %d sources, want 2", len(f.sources))
	}
	vs, ps := f.sources[0], f.sources[1]
	for _, want := range []string{
		"// Camera",
		"float4x4 world : register(c0);",
		"    float3 position : POSITION;",
		"    float4 pos : POSITION;",
		"    float2 uv : TEXCOORD0;",
		"#line 1",
	} {
		if !strings.Contains(vs, want) {
			t.Errorf("vertex source lacks %q:\n%s", want, vs)
		}
	}
	for _, want := range []string{
		"float4 tint : register(c0);",
		"sampler2D diffuse : register(s0);",
		"    float4 color : COLOR0;",
	} {
		if !strings.Contains(ps, want) {
			t.Errorf("pixel source lacks %q:\n%s", want, ps)
		}
	}
	if strings.Contains(ps, "SamplerState") || strings.Contains(ps, "cbuffer") {
		t.Errorf("pixel source declares shader model 4 objects:\n%s", ps)
	}
}

func TestProfiles(t *testing.T) {
	if got := profile(shader.StageVertex); got != "vs_3_0" {
		t.Errorf("profile(vertex) = %q, want vs_3_0", got)
	}
	if got := profile(shader.StagePixel); got != "ps_3_0" {
		t.Errorf("profile(pixel) = %q, want ps_3_0", got)
	}
}

func TestSemantics(t *testing.T) {
	tests := []struct {
		stage  shader.Stage
		output bool
		name   string
		want   string
	}{
		{shader.StageVertex, true, "SV_Position", "POSITION"},
		{shader.StagePixel, false, "SV_Position", "VPOS"},
		{shader.StagePixel, true, "SV_Target1", "COLOR1"},
		{shader.StagePixel, true, "SV_Depth", "DEPTH"},
		{shader.StagePixel, false, "SV_IsFrontFace", "VFACE"},
		{shader.StageVertex, false, "TEXCOORD2", "TEXCOORD2"},
	}
	for _, tt := range tests {
		if got := semantic(tt.stage, tt.output, tt.name); got != tt.want {
			t.Errorf("semantic(%v, %v, %q) = %q, want %q", tt.stage, tt.output, tt.name, got, tt.want)
		}
	}
}

func TestLayout(t *testing.T) {
	tests := []struct {
		name      string
		members   []shader.Variable
		registers []int
		width     int
		wantErr   bool
	}{
		{
			name:      "scalar then vector",
			members:   []shader.Variable{{Name: "a", Type: "float"}, {Name: "b", Type: "float4"}},
			registers: []int{0, 1},
			width:     2,
		},
		{
			name:      "matrix then vector",
			members:   []shader.Variable{{Name: "m", Type: "float4x4"}, {Name: "v", Type: "float2"}},
			registers: []int{0, 4},
			width:     5,
		},
		{
			name:      "array",
			members:   []shader.Variable{{Name: "lights", Type: "float4", ArraySize: 3}},
			registers: []int{0},
			width:     3,
		},
		{
			name:    "packed scalar",
			members: []shader.Variable{{Name: "a", Type: "float3"}, {Name: "b", Type: "float"}},
			wantErr: true,
		},
		{
			name:    "scalar after array",
			members: []shader.Variable{{Name: "a", Type: "float2", ArraySize: 2}, {Name: "c", Type: "float"}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			members, width, err := layout(shader.Variable{Name: "UB", Members: tt.members})
			if tt.wantErr {
				if !errors.Is(err, shader.ErrUnsupportedType) {
					t.Errorf("layout() error = %v, want ErrUnsupportedType", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("layout() error = %v", err)
			}
			if width != tt.width {
				t.Errorf("width = %d, want %d", width, tt.width)
			}
			for i, m := range members {
				if m.register != tt.registers[i] {
					t.Errorf("member %q register = %d, want %d", m.v.Name, m.register, tt.registers[i])
				}
			}
		})
	}
}

func TestCheckType(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *shader.Reflection)
	}{
		{"integer member", func(r *shader.Reflection) {
			r.UniformBuffers[0].Members = []shader.Variable{{Name: "count", Type: "int4"}}
		}},
		{"texture array", func(r *shader.Reflection) {
			r.Textures[0].Type = "Texture2DArray"
		}},
		{"comparison sampler", func(r *shader.Reflection) {
			r.Samplers[0].Type = "SamplerComparisonState"
		}},
		{"shared register", func(r *shader.Reflection) {
			r.UniformBuffers[0].Members = []shader.Variable{{Name: "a", Type: "float2"}, {Name: "b", Type: "float2"}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newTestDevice(t)
			r := pixelReflection()
			tt.mutate(r)
			if _, err := d.CreateShader(r); !errors.Is(err, shader.ErrUnsupportedType) {
				t.Errorf("CreateShader() error = %v, want ErrUnsupportedType", err)
			}
		})
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

func TestShaderStages(t *testing.T) {
	d, _ := newTestDevice(t)
	for _, stage := range []shader.Stage{shader.StageHull, shader.StageDomain, shader.StageGeometry, shader.StageCompute} {
		if _, err := d.CreateShader(&shader.Reflection{Stage: stage, Name: "s"}); !errors.Is(err, beholder.ErrNotSupported) {
			t.Errorf("CreateShader(%v) error = %v, want ErrNotSupported", stage, err)
		}
	}
	r := vertexReflection()
	delete(r.Sources, shader.LanguageHLSL)
	r.Sources[shader.LanguageGLSL] = "void main() {}"
	if _, err := d.CreateShader(r); !errors.Is(err, shader.ErrMissingSource) {
		t.Errorf("CreateShader(glsl only) error = %v, want ErrMissingSource", err)
	}
}

func TestUniformBufferUploads(t *testing.T) {
	d, f := newTestDevice(t)
	ub := mustBuffer(t, d, beholder.BufferDescription{
		SizeInBytes: 16, Usage: beholder.UsageDefault, BindFlags: beholder.BindUniformBuffer,
	}, floatBytes(1, 2, 3, 4))
	ctx := drawReady(t, d)
	ctx.SetUniformBuffer(shader.StagePixel, 1, ub)
	if err := ctx.Draw(3, 0); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	if want := d3dCall("SetPixelShaderConstantF", 0, []float32{1, 2, 3, 4}); !f.has(want) {
		t.Errorf("missing %q in %v", want, f.calls)
	}

	f.reset()
	if err := ctx.SetSubresourceData(ub, 0, beholder.SubresourceData{Bytes: floatBytes(5, 6, 7, 8)}); err != nil {
		t.Fatalf("SetSubresourceData() error = %v", err)
	}
	if err := ctx.Draw(3, 0); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	got := f.named("SetPixelShaderConstantF")
	want := []string{d3dCall("SetPixelShaderConstantF", 0, []float32{5, 6, 7, 8})}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("uploads after write = %v, want %v", got, want)
	}

	f.reset()
	if err := ctx.Draw(3, 0); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	if got := f.named("SetPixelShaderConstantF"); len(got) != 0 {
		t.Errorf("unchanged buffer uploaded again: %v", got)
	}
}

func TestUniformBufferRoundedToRegisters(t *testing.T) {
	d, f := newTestDevice(t)
	buf := mustBuffer(t, d, beholder.BufferDescription{
		SizeInBytes: 20, Usage: beholder.UsageDynamic, BindFlags: beholder.BindUniformBuffer,
	}, nil)
	b := buf.Native().(*d3dBuffer)
	if b.size != 32 || len(b.shadow) != 32 {
		t.Errorf("uniform buffer size = %d, shadow %d, want 32", b.size, len(b.shadow))
	}
	if len(f.named("Create")) != 0 {
		t.Errorf("uniform buffer created native objects: %v", f.named("Create"))
	}
}

func TestBufferBindFlags(t *testing.T) {
	d, _ := newTestDevice(t)
	for _, desc := range []beholder.BufferDescription{
		{SizeInBytes: 64, Usage: beholder.UsageDefault, BindFlags: beholder.BindVertexBuffer | beholder.BindIndexBuffer},
		{SizeInBytes: 64, Usage: beholder.UsageDefault, BindFlags: beholder.BindShaderResource},
		{SizeInBytes: 64, Usage: beholder.UsageDefault, MiscFlags: beholder.MiscDrawIndirectArgs},
	} {
		if _, err := d.CreateBuffer(desc, nil); !errors.Is(err, beholder.ErrNotSupported) {
			t.Errorf("CreateBuffer(%v, %v) error = %v, want ErrNotSupported", desc.BindFlags, desc.MiscFlags, err)
		}
	}
}

func TestSamplerFollowsTextureUnit(t *testing.T) {
	d, f := newTestDevice(t)
	tex := mustTexture(t, d, 4, 4, beholder.FormatR8G8B8A8UnormSrgb, beholder.BindShaderResource)
	srv, err := tex.ViewAsShaderResource(beholder.FormatUnknown, 0, 1)
	if err != nil {
		t.Fatalf("ViewAsShaderResource() error = %v", err)
	}
	smp, err := d.CreateSamplerState(beholder.DefaultSampler())
	if err != nil {
		t.Fatalf("CreateSamplerState() error = %v", err)
	}
	ctx := drawReady(t, d)
	ctx.SetShaderResource(shader.StagePixel, 2, srv)
	ctx.SetSampler(shader.StagePixel, 3, smp)
	if err := ctx.Draw(3, 0); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	texObj := tex.Native().(*d3dTexture).obj
	for _, want := range []string{
		d3dCall("SetTexture", 0, texObj),
		d3dCall("SetSamplerState", 0, SAMP_SRGBTEXTURE, 1),
		d3dCall("SetSamplerState", 0, SAMP_ADDRESSU, TADDRESS_CLAMP),
		d3dCall("SetSamplerState", 0, SAMP_MINFILTER, TEXF_LINEAR),
		d3dCall("SetSamplerState", 0, SAMP_MIPFILTER, TEXF_LINEAR),
	} {
		if !f.has(want) {
			t.Errorf("missing %q in %v", want, f.calls)
		}
	}
	for _, c := range f.named("SetSamplerState") {
		if strings.HasPrefix(c, "SetSamplerState 3 ") {
			t.Errorf("sampler written to its API slot: %q", c)
		}
	}
}

// texturedPixelShader samples one texture per logical slot.
func texturedPixelShader(t *testing.T, d *Device, slots ...int) beholder.Shader {
	t.Helper()
	r := pixelReflection()
	r.UniformBuffers, r.Textures, r.Samplers, r.TextureSamplerPairs = nil, nil, nil, nil
	for i, s := range slots {
		r.Textures = append(r.Textures, shader.Variable{
			Name: "t" + strconv.Itoa(i), Type: "Texture2D", SpecialParameters: slot(strconv.Itoa(s)),
		})
	}
	r.Sources = map[shader.Language]string{
		shader.LanguageHLSL: "BH_OUTPUT main(BH_INPUT i) { BH_OUTPUT o; o.color = float4(i.uv, 0, 1); return o; }\n",
	}
	ps, err := d.CreateShader(r)
	if err != nil {
		t.Fatalf("CreateShader(ps) error = %v", err)
	}
	return ps
}

func TestProgramSwitchUnbindsPackedUnits(t *testing.T) {
	d, f := newTestDevice(t)
	vs, err := d.CreateShader(vertexReflection())
	if err != nil {
		t.Fatalf("CreateShader(vs) error = %v", err)
	}
	tex := mustTexture(t, d, 4, 4, beholder.FormatR8G8B8A8Unorm, beholder.BindShaderResource)
	srv, err := tex.ViewAsShaderResource(beholder.FormatUnknown, 0, 1)
	if err != nil {
		t.Fatalf("ViewAsShaderResource() error = %v", err)
	}

	ctx := d.ImmediateContext()
	ctx.SetPrimitiveTopology(beholder.TopologyTriangleList)
	ctx.SetShadersForDrawing(beholder.ShaderSet{Vertex: vs, Pixel: texturedPixelShader(t, d, 0, 1, 2)})
	for i := range 3 {
		ctx.SetShaderResource(shader.StagePixel, i, srv)
	}
	if err := ctx.Draw(3, 0); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}

	// Logical slot 5 packs to unit 0; units 1 and 2 still hold the
	// previous program's textures.
	f.reset()
	ctx.SetShadersForDrawing(beholder.ShaderSet{Vertex: vs, Pixel: texturedPixelShader(t, d, 5)})
	ctx.SetShaderResource(shader.StagePixel, 5, srv)
	if err := ctx.Draw(3, 0); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	texObj := tex.Native().(*d3dTexture).obj
	for _, want := range []string{
		d3dCall("SetTexture", 0, texObj),
		d3dCall("SetTexture", 1, nil),
		d3dCall("SetTexture", 2, nil),
	} {
		if !f.has(want) {
			t.Errorf("missing %q in %v", want, f.named("SetTexture"))
		}
	}
	if f.has(d3dCall("SetTexture", 0, nil)) {
		t.Errorf("unit 0 unbound although the new program uses it: %v", f.named("SetTexture"))
	}
}

func TestComparisonSamplerNotSupported(t *testing.T) {
	d, _ := newTestDevice(t)
	desc := beholder.DefaultSampler()
	desc.Filter.Comparison = true
	if _, err := d.CreateSamplerState(desc); !errors.Is(err, beholder.ErrNotSupported) {
		t.Errorf("CreateSamplerState(comparison) error = %v, want ErrNotSupported", err)
	}
}

func TestStencilReferenceAlone(t *testing.T) {
	d, f := newTestDevice(t)
	desc := beholder.DefaultDepthStencil()
	desc.StencilEnable = true
	ds, err := d.CreateDepthStencilState(desc)
	if err != nil {
		t.Fatalf("CreateDepthStencilState() error = %v", err)
	}
	ctx := drawReady(t, d)
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
	got := f.named("SetRenderState")
	want := []string{d3dCall("SetRenderState", RS_STENCILREF, 9)}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("render states = %v, want %v", got, want)
	}
}

func TestStencilFacesFollowWinding(t *testing.T) {
	d, f := newTestDevice(t)
	desc := beholder.DefaultDepthStencil()
	desc.StencilEnable = true
	desc.FrontFace.StencilPassOp = beholder.StencilReplace
	ds, err := d.CreateDepthStencilState(desc)
	if err != nil {
		t.Fatalf("CreateDepthStencilState() error = %v", err)
	}
	ctx := drawReady(t, d)
	ctx.SetDepthStencilState(ds)
	if err := ctx.Draw(3, 0); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	for _, want := range []string{
		d3dCall("SetRenderState", RS_TWOSIDEDSTENCILMODE, 1),
		d3dCall("SetRenderState", RS_STENCILPASS, STENCILOP_REPLACE),
		d3dCall("SetRenderState", RS_CCW_STENCILPASS, STENCILOP_KEEP),
	} {
		if !f.has(want) {
			t.Errorf("missing %q in %v", want, f.named("SetRenderState"))
		}
	}

	rdesc := beholder.DefaultRasterizer()
	rdesc.FrontFaceWinding = beholder.WindingCounterClockwise
	rs, err := d.CreateRasterizerState(rdesc)
	if err != nil {
		t.Fatalf("CreateRasterizerState() error = %v", err)
	}
	f.reset()
	ctx.SetRasterizerState(rs)
	if err := ctx.Draw(3, 0); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	for _, want := range []string{
		d3dCall("SetRenderState", RS_STENCILPASS, STENCILOP_KEEP),
		d3dCall("SetRenderState", RS_CCW_STENCILPASS, STENCILOP_REPLACE),
	} {
		if !f.has(want) {
			t.Errorf("after winding change missing %q in %v", want, f.named("SetRenderState"))
		}
	}
}

func TestCullMode(t *testing.T) {
	tests := []struct {
		cull    beholder.CullMode
		winding beholder.Winding
		want    uint32
	}{
		{beholder.CullNone, beholder.WindingClockwise, CULL_NONE},
		{beholder.CullBack, beholder.WindingClockwise, CULL_CCW},
		{beholder.CullFront, beholder.WindingClockwise, CULL_CW},
		{beholder.CullBack, beholder.WindingCounterClockwise, CULL_CW},
		{beholder.CullFront, beholder.WindingCounterClockwise, CULL_CCW},
	}
	for _, tt := range tests {
		desc := beholder.DefaultRasterizer()
		desc.CullMode = tt.cull
		desc.FrontFaceWinding = tt.winding
		if got := cullMode(desc); got != tt.want {
			t.Errorf("cullMode(%v, %v) = %d, want %d", tt.cull, tt.winding, got, tt.want)
		}
	}
}

func TestPrimitiveCounts(t *testing.T) {
	tests := []struct {
		topology beholder.PrimitiveTopology
		count    int
		pt       uint32
		prims    uint32
	}{
		{beholder.TopologyPointList, 5, PT_POINTLIST, 5},
		{beholder.TopologyLineList, 6, PT_LINELIST, 3},
		{beholder.TopologyLineStrip, 6, PT_LINESTRIP, 5},
		{beholder.TopologyTriangleList, 9, PT_TRIANGLELIST, 3},
		{beholder.TopologyTriangleStrip, 6, PT_TRIANGLESTRIP, 4},
		{beholder.TopologyTriangleStrip, 1, PT_TRIANGLESTRIP, 0},
	}
	for _, tt := range tests {
		pt, prims, err := primitive(tt.topology, tt.count)
		if err != nil {
			t.Errorf("primitive(%v, %d) error = %v", tt.topology, tt.count, err)
			continue
		}
		if pt != tt.pt || prims != tt.prims {
			t.Errorf("primitive(%v, %d) = %d, %d, want %d, %d", tt.topology, tt.count, pt, prims, tt.pt, tt.prims)
		}
	}
	if _, _, err := primitive(beholder.TopologyTriangleListAdjacency, 6); !errors.Is(err, beholder.ErrNotSupported) {
		t.Errorf("primitive(adjacency) error = %v, want ErrNotSupported", err)
	}
}

func TestPools(t *testing.T) {
	tests := []struct {
		name  string
		usage beholder.Usage
		bind  beholder.BindFlags
		misc  beholder.MiscFlags
		pool  uint32
		flags uint32
	}{
		{"managed", beholder.UsageDefault, beholder.BindShaderResource, 0, POOL_MANAGED, 0},
		{"dynamic", beholder.UsageDynamic, beholder.BindVertexBuffer, 0, POOL_DEFAULT, USAGE_DYNAMIC | USAGE_WRITEONLY},
		{"staging", beholder.UsageStaging, 0, 0, POOL_SYSTEMMEM, 0},
		{"render target", beholder.UsageDefault, beholder.BindRenderTarget, beholder.MiscGenerateMips, POOL_DEFAULT,
			USAGE_RENDERTARGET | USAGE_AUTOGENMIPMAP},
		{"depth", beholder.UsageDefault, beholder.BindDepthStencil, 0, POOL_DEFAULT, USAGE_DEPTHSTENCIL},
	}
	for _, tt := range tests {
		p, u := pool(tt.usage, tt.bind, tt.misc)
		if p != tt.pool || u != tt.flags {
			t.Errorf("%s: pool() = %d, %#x, want %d, %#x", tt.name, p, u, tt.pool, tt.flags)
		}
	}
}

func TestIndexOffsetMovesStartIndex(t *testing.T) {
	d, f := newTestDevice(t)
	vb := mustBuffer(t, d, beholder.BufferDescription{
		SizeInBytes: 96, Usage: beholder.UsageDefault, BindFlags: beholder.BindVertexBuffer,
	}, nil)
	ib := mustBuffer(t, d, beholder.BufferDescription{
		SizeInBytes: 64, Usage: beholder.UsageDefault, BindFlags: beholder.BindIndexBuffer,
	}, nil)
	ctx := drawReady(t, d)
	ctx.SetVertexSources(beholder.VertexSource{Buffer: vb, Stride: 12})
	ctx.SetIndexSource(beholder.IndexSource{Buffer: ib, Format: beholder.IndexUint16, Offset: 4})
	if err := ctx.DrawIndexed(6, 3, -1); err != nil {
		t.Fatalf("DrawIndexed() error = %v", err)
	}
	ibObj := ib.Native().(*d3dBuffer).obj
	for _, want := range []string{
		d3dCall("SetIndices", ibObj),
		d3dCall("DrawIndexedPrimitive", PT_TRIANGLELIST, -1, 0, 8, 5, 2),
	} {
		if !f.has(want) {
			t.Errorf("missing %q in %v", want, f.calls)
		}
	}

	ctx.SetIndexSource(beholder.IndexSource{Buffer: ib, Format: beholder.IndexUint32})
	if err := ctx.DrawIndexed(6, 0, 0); !errors.Is(err, beholder.ErrNotSupported) {
		t.Errorf("DrawIndexed(32-bit over 16-bit buffer) error = %v, want ErrNotSupported", err)
	}
	ctx.SetIndexSource(beholder.IndexSource{Buffer: ib, Format: beholder.IndexUint16, Offset: 3})
	if err := ctx.DrawIndexed(6, 0, 0); !errors.Is(err, beholder.ErrNotSupported) {
		t.Errorf("DrawIndexed(odd offset) error = %v, want ErrNotSupported", err)
	}
}

func TestIndexBufferFormatFromStride(t *testing.T) {
	d, f := newTestDevice(t)
	mustBuffer(t, d, beholder.BufferDescription{
		SizeInBytes: 64, Usage: beholder.UsageDefault, BindFlags: beholder.BindIndexBuffer, StructureByteStride: 4,
	}, nil)
	o := f.objects[len(f.objects)-1]
	if o.kind != "ib" || o.args[2] != FMT_INDEX32 {
		t.Errorf("created %s with args %v, want a 32-bit index buffer", o, o.args)
	}
}

func TestInstancedDrawSetsFrequencies(t *testing.T) {
	d, f := newTestDevice(t)
	vb := mustBuffer(t, d, beholder.BufferDescription{
		SizeInBytes: 96, Usage: beholder.UsageDefault, BindFlags: beholder.BindVertexBuffer,
	}, nil)
	ib := mustBuffer(t, d, beholder.BufferDescription{
		SizeInBytes: 64, Usage: beholder.UsageDefault, BindFlags: beholder.BindIndexBuffer,
	}, nil)
	ctx := drawReady(t, d)
	ctx.SetVertexSources(beholder.VertexSource{Buffer: vb, Stride: 12})
	ctx.SetIndexSource(beholder.IndexSource{Buffer: ib, Format: beholder.IndexUint16})
	if err := ctx.DrawIndexedInstanced(6, 5, 0, 0, 0); err != nil {
		t.Fatalf("DrawIndexedInstanced() error = %v", err)
	}
	got := f.named("SetStreamSourceFreq")
	want := []string{
		d3dCall("SetStreamSourceFreq", 0, "0x40000005"),
		d3dCall("SetStreamSourceFreq", 0, "0x1"),
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("frequencies = %v, want %v", got, want)
	}

	if err := ctx.DrawIndexedInstanced(6, 5, 0, 0, 1); !errors.Is(err, beholder.ErrNotSupported) {
		t.Errorf("DrawIndexedInstanced(start instance) error = %v, want ErrNotSupported", err)
	}
	if err := ctx.DrawInstanced(3, 2, 0, 0); !errors.Is(err, beholder.ErrNotSupported) {
		t.Errorf("DrawInstanced() error = %v, want ErrNotSupported", err)
	}
}

func TestVertexDeclaration(t *testing.T) {
	d, f := newTestDevice(t)
	set := mustShaders(t, d)
	f.reset()
	if _, err := d.CreateVertexLayout(set.Vertex, []beholder.VertexLayoutElement{
		{Semantic: "POSITION", Format: beholder.FormatR32G32B32Float},
	}); err != nil {
		t.Fatalf("CreateVertexLayout() error = %v", err)
	}
	want := d3dCall("CreateVertexDeclaration", []VERTEXELEMENT9{
		{Stream: 0, Offset: 0, Type: DECLTYPE_FLOAT3, Method: DECLMETHOD_DEFAULT, Usage: DECLUSAGE_POSITION},
		declEnd,
	})
	if !f.has(want) {
		t.Errorf("missing %q in %v", want, f.calls)
	}
	if _, err := d.CreateVertexLayout(nil, nil); !errors.Is(err, beholder.ErrWrongBackend) {
		t.Errorf("CreateVertexLayout(nil) error = %v, want ErrWrongBackend", err)
	}
}

func TestTexturesNotSupported(t *testing.T) {
	d, _ := newTestDevice(t)
	if _, err := d.CreateTexture2D(beholder.Texture2DDescription{
		Width: 4, Height: 4, MipLevels: 1, ArraySize: 2,
		Format: beholder.FormatR8G8B8A8Unorm, Usage: beholder.UsageDefault,
		BindFlags: beholder.BindShaderResource, Sampling: beholder.Sampling{Count: 1},
	}, nil); !errors.Is(err, beholder.ErrNotSupported) {
		t.Errorf("CreateTexture2D(array) error = %v, want ErrNotSupported", err)
	}
	if _, err := d.CreateTexture2D(beholder.Texture2DDescription{
		Width: 4, Height: 4, MipLevels: 1, ArraySize: 1,
		Format: beholder.FormatD24UnormS8Uint, Usage: beholder.UsageDefault,
		BindFlags: beholder.BindDepthStencil | beholder.BindShaderResource, Sampling: beholder.Sampling{Count: 1},
	}, nil); !errors.Is(err, beholder.ErrNotSupported) {
		t.Errorf("CreateTexture2D(sampled depth) error = %v, want ErrNotSupported", err)
	}
	tex := mustTexture(t, d, 4, 4, beholder.FormatR8G8B8A8Unorm, beholder.BindShaderResource|beholder.BindUnorderedAccess)
	if _, err := tex.ViewAsUnorderedAccess(beholder.FormatUnknown, 0); !errors.Is(err, beholder.ErrNotSupported) {
		t.Errorf("ViewAsUnorderedAccess() error = %v, want ErrNotSupported", err)
	}
	plain := mustTexture(t, d, 4, 4, beholder.FormatR8G8B8A8Unorm, beholder.BindShaderResource)
	if _, err := plain.ViewAsUnorderedAccess(beholder.FormatUnknown, 0); !errors.Is(err, beholder.ErrBindFlags) {
		t.Errorf("ViewAsUnorderedAccess() without the bind flag error = %v, want ErrBindFlags", err)
	}
}

func TestSurfaceSampleCount(t *testing.T) {
	tests := []struct {
		count int
		want  uint32
	}{
		{1, 0},
		{4, 4},
	}
	for _, tt := range tests {
		d, f := newTestDevice(t)
		_, err := d.CreateTexture2D(beholder.Texture2DDescription{
			Width: 8, Height: 8, MipLevels: 1, ArraySize: 1,
			Format: beholder.FormatR8G8B8A8Unorm, Usage: beholder.UsageDefault,
			BindFlags: beholder.BindRenderTarget, Sampling: beholder.Sampling{Count: tt.count},
		}, nil)
		if err != nil {
			t.Fatalf("CreateTexture2D(%d samples) error = %v", tt.count, err)
		}
		o := f.objects[len(f.objects)-1]
		if o.kind != "rt" || o.args[3] != tt.want {
			t.Errorf("%d samples: created %s with args %v, want multisample %d", tt.count, o, o.args, tt.want)
		}
	}
}

func TestUnsupportedCommands(t *testing.T) {
	d, _ := newTestDevice(t)
	ctx := d.ImmediateContext()
	staging := mustBuffer(t, d, beholder.BufferDescription{SizeInBytes: 32, Usage: beholder.UsageStaging}, nil)
	if _, err := ctx.Map(staging, 0, beholder.MapRead); !errors.Is(err, beholder.ErrNotSupported) {
		t.Errorf("Map() error = %v, want ErrNotSupported", err)
	}
	if err := ctx.Dispatch(1, 1, 1); !errors.Is(err, beholder.ErrNotSupported) {
		t.Errorf("Dispatch() error = %v, want ErrNotSupported", err)
	}
	vb := mustBuffer(t, d, beholder.BufferDescription{
		SizeInBytes: 64, Usage: beholder.UsageDefault, BindFlags: beholder.BindVertexBuffer,
	}, nil)
	if err := ctx.SetStreamOutputTargets(vb); !errors.Is(err, beholder.ErrNotSupported) {
		t.Errorf("SetStreamOutputTargets() error = %v, want ErrNotSupported", err)
	}
	if _, err := d.CreateBlendState(beholder.BlendDescription{AlphaToCoverageEnable: true}); !errors.Is(err, beholder.ErrNotSupported) {
		t.Errorf("CreateBlendState(alpha to coverage) error = %v, want ErrNotSupported", err)
	}
}

func TestIndependentBlendWriteMasks(t *testing.T) {
	d, f := newTestDevice(t)
	desc := beholder.DefaultBlend()
	desc.IndependentBlendEnable = true
	desc.RenderTargets[1].WriteMask = beholder.ColorMaskRed
	bs, err := d.CreateBlendState(desc)
	if err != nil {
		t.Fatalf("CreateBlendState(write masks) error = %v", err)
	}
	ctx := drawReady(t, d)
	ctx.SetBlendState(bs)
	if err := ctx.Draw(3, 0); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	if want := d3dCall("SetRenderState", RS_COLORWRITEENABLE1, uint32(beholder.ColorMaskRed)); !f.has(want) {
		t.Errorf("missing %q in %v", want, f.named("SetRenderState"))
	}

	desc.RenderTargets[1].BlendEnable = true
	if _, err := d.CreateBlendState(desc); !errors.Is(err, beholder.ErrNotSupported) {
		t.Errorf("CreateBlendState(independent) error = %v, want ErrNotSupported", err)
	}
}

func TestClearDepthStencilRestoresState(t *testing.T) {
	d, f := newTestDevice(t)
	tex := mustTexture(t, d, 64, 32, beholder.FormatD24UnormS8Uint, beholder.BindDepthStencil)
	dsv, err := tex.ViewAsDepthStencil(beholder.FormatUnknown, 0, 0)
	if err != nil {
		t.Fatalf("ViewAsDepthStencil() error = %v", err)
	}
	f.reset()
	if err := d.ImmediateContext().ClearDepthStencilView(dsv, beholder.ClearDepth|beholder.ClearStencil, 1, 3); err != nil {
		t.Fatalf("ClearDepthStencilView() error = %v", err)
	}
	surf := tex.Native().(*d3dTexture).obj
	want := []string{
		d3dCall("SetDepthStencilSurface", surf),
		d3dCall("SetRenderState", RS_SCISSORTESTENABLE, 0),
		d3dCall("SetViewport", VIEWPORT9{Width: 64, Height: 32, MaxZ: 1}),
		d3dCall("Clear", CLEAR_ZBUFFER|CLEAR_STENCIL, 0, 1, 3),
		d3dCall("SetViewport", VIEWPORT9{}),
		d3dCall("SetRenderState", RS_SCISSORTESTENABLE, 0),
		d3dCall("SetDepthStencilSurface", Object(nil)),
	}
	if strings.Join(f.calls, "\n") != strings.Join(want, "\n") {
		t.Errorf("calls = %v, want %v", f.calls, want)
	}
}

func TestClearRenderTarget(t *testing.T) {
	d, f := newTestDevice(t)
	rtv := mustTarget(t, d, 8, 8)
	if err := d.ImmediateContext().ClearRenderTargetView(rtv, beholder.Color4{R: 1, A: 1}); err != nil {
		t.Fatalf("ClearRenderTargetView() error = %v", err)
	}
	want := d3dCall("ColorFill", rtv.Native().(*surfaceView).obj, "0xffff0000")
	if !f.has(want) {
		t.Errorf("missing %q in %v", want, f.calls)
	}
}

func TestFirstRenderTargetKept(t *testing.T) {
	d, f := newTestDevice(t)
	rtv := mustTarget(t, d, 8, 8)
	ctx := drawReady(t, d)
	ctx.SetRenderTargets(rtv)
	if err := ctx.Draw(3, 0); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	f.reset()
	ctx.SetRenderTargets()
	if err := ctx.Draw(3, 0); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	if got := f.named("SetRenderTarget"); len(got) != 0 {
		t.Errorf("render target 0 unbound: %v", got)
	}
}

func TestSetSubresourceDataPitch(t *testing.T) {
	d, f := newTestDevice(t)
	tex := mustTexture(t, d, 16, 8, beholder.FormatR8G8B8A8Unorm, beholder.BindShaderResource)
	if err := d.ImmediateContext().SetSubresourceData(tex, 0, beholder.SubresourceData{Bytes: make([]byte, 16*8*4)}); err != nil {
		t.Fatalf("SetSubresourceData() error = %v", err)
	}
	want := d3dCall("WriteSubresource", tex.Native().(*d3dTexture).obj, 0, 0, 512, 64)
	if !f.has(want) {
		t.Errorf("missing %q in %v", want, f.named("WriteSubresource"))
	}
}

func TestDisposeReleasesObjects(t *testing.T) {
	f := newFakeD3D9()
	d, err := NewDevice(f.handles())
	if err != nil {
		t.Fatalf("NewDevice() error = %v", err)
	}
	set := mustShaders(t, d)
	mustTarget(t, d, 4, 4)
	if _, err := d.CreateVertexLayout(set.Vertex, []beholder.VertexLayoutElement{
		{Semantic: "POSITION", Format: beholder.FormatR32G32B32Float},
	}); err != nil {
		t.Fatalf("CreateVertexLayout() error = %v", err)
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
	if !backend.IsRegistered(backend.D3D9) {
		t.Fatal("d3d9 backend is not registered")
	}
	if _, err := backend.Create(backend.D3D9, 42); !errors.Is(err, beholder.ErrWrongBackend) {
		t.Errorf("Create(42) error = %v, want ErrWrongBackend", err)
	}
	dev, err := backend.Create(backend.D3D9, newFakeD3D9().handles())
	if err != nil {
		t.Fatalf("Create(fake) error = %v", err)
	}
	defer dev.Dispose()
	if dev.Backend() != backend.D3D9 {
		t.Errorf("Backend() = %q, want %q", dev.Backend(), backend.D3D9)
	}
	if dev.Capabilities().Features.Has(beholder.FeatureCompute) {
		t.Error("d3d9 reports compute")
	}
}
