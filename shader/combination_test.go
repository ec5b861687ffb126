package shader

import (
	"errors"
	"slices"
	"testing"
)

func hullReflection() *Reflection {
	return &Reflection{
		Stage:        StageHull,
		Name:         "hs",
		Inputs:       []Variable{{Name: "uv", Type: "float2", Semantic: "TEXCOORD0"}},
		Outputs:      []Variable{{Name: "uv", Type: "float2", Semantic: "TEXCOORD0"}},
		Tessellation: &TessellationLayout{Domain: DomainTriangle, Partitioning: PartitionFractionalOdd, OutputControlPoints: 3},
	}
}

func domainReflection() *Reflection {
	return &Reflection{
		Stage:   StageDomain,
		Name:    "ds",
		Inputs:  []Variable{{Name: "uv", Type: "float2", Semantic: "TEXCOORD0"}},
		Outputs: []Variable{{Name: "uv", Type: "float2", Semantic: "TEXCOORD0"}},
	}
}

func TestCombinationOverlapRejected(t *testing.T) {
	vs := mustBase(t, vertexReflection(0, 1, 2), Policy{})
	ps := mustBase(t, pixelReflection(2, 3), Policy{})

	if _, err := NewCombination(vs, ps); !errors.Is(err, ErrOverlappingSlots) {
		t.Errorf("NewCombination(vs, ps) error = %v, want ErrOverlappingSlots", err)
	}
	_, err1 := NewCombination(ps, vs)
	if !errors.Is(err1, ErrOverlappingSlots) {
		t.Errorf("NewCombination(ps, vs) error = %v, want ErrOverlappingSlots", err1)
	}
	_, err2 := NewCombination(vs, ps)
	if err1 == nil || err2 == nil || err1.Error() != err2.Error() {
		t.Errorf("error depends on argument order: %v vs %v", err1, err2)
	}
}

func TestCombinationTextureOverlapRejected(t *testing.T) {
	vr := vertexReflection()
	vr.Textures = []Variable{slotted("height", "Texture2D", 0), slotted("normal", "Texture2D", 3)}
	pr := pixelReflection()
	pr.Textures = []Variable{slotted("albedo", "Texture2D", 1)}

	_, err := NewCombination(mustBase(t, vr, Policy{}), mustBase(t, pr, Policy{}))
	if !errors.Is(err, ErrOverlappingSlots) {
		t.Errorf("error = %v, want ErrOverlappingSlots for a range nested in another", err)
	}
}

func TestCombinationWatermarks(t *testing.T) {
	tests := []struct {
		name        string
		vsSlots     []int
		psSlots     []int
		wantBuffers int
	}{
		{"none", nil, nil, 0},
		{"vertex only", []int{0, 1, 2}, nil, 3},
		{"adjacent", []int{0, 1}, []int{2}, 3},
		{"gap", []int{0}, []int{4, 6}, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vs := mustBase(t, vertexReflection(tt.vsSlots...), Policy{})
			ps := mustBase(t, pixelReflection(tt.psSlots...), Policy{})
			c, err := NewCombination(vs, ps)
			if err != nil {
				t.Fatalf("NewCombination() error = %v", err)
			}
			if got := c.MaxValueBufferSlotPlusOne(); got != tt.wantBuffers {
				t.Errorf("MaxValueBufferSlotPlusOne() = %d, want %d", got, tt.wantBuffers)
			}
			if got := c.MaxTextureSlotPlusOne(); got != 0 {
				t.Errorf("MaxTextureSlotPlusOne() = %d, want 0", got)
			}
			if len(c.UniformBufferNames()) != tt.wantBuffers {
				t.Errorf("len(UniformBufferNames()) = %d, want %d", len(c.UniformBufferNames()), tt.wantBuffers)
			}
		})
	}
}

func TestCombinationWatermarksAreNative(t *testing.T) {
	pr := pixelReflection()
	pr.Textures = []Variable{slotted("a", "Texture2D", 5), slotted("b", "Texture2D", 9)}
	pr.UniformBuffers = []Variable{ubAt("params", 4)}
	tests := []struct {
		packing      Packing
		wantTextures int
		wantBuffers  int
	}{
		{PackFromZero, 2, 1},
		{PackFromAPIStart, 7, 5},
		{PackIdentity, 10, 5},
	}
	for _, tt := range tests {
		p := Policy{Packing: tt.packing}
		c, err := NewCombination(mustBase(t, vertexReflection(), p), mustBase(t, pr, p))
		if err != nil {
			t.Fatalf("packing %d: %v", tt.packing, err)
		}
		if got := c.MaxTextureSlotPlusOne(); got != tt.wantTextures {
			t.Errorf("packing %d: MaxTextureSlotPlusOne() = %d, want %d", tt.packing, got, tt.wantTextures)
		}
		if got := c.MaxValueBufferSlotPlusOne(); got != tt.wantBuffers {
			t.Errorf("packing %d: MaxValueBufferSlotPlusOne() = %d, want %d", tt.packing, got, tt.wantBuffers)
		}
	}
}

func TestCombinationNameArrays(t *testing.T) {
	vr := vertexReflection(0)
	pr := pixelReflection(2)
	pr.Textures = []Variable{slotted("albedo", "Texture2D", 1)}
	c, err := NewCombination(mustBase(t, vr, Policy{}), mustBase(t, pr, Policy{}))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := c.UniformBufferNames(), []string{"VSBuffer0", "", "PSBuffer0"}; !slices.Equal(got, want) {
		t.Errorf("UniformBufferNames() = %q, want %q", got, want)
	}
	if got, want := c.TextureNames(), []string{"", "albedo"}; !slices.Equal(got, want) {
		t.Errorf("TextureNames() = %q, want %q", got, want)
	}
}

func TestCombinationLinkage(t *testing.T) {
	vs := mustBase(t, vertexReflection(), Policy{})
	pr := pixelReflection()
	pr.Inputs = append(pr.Inputs, Variable{Name: "normal", Type: "float3", Semantic: "NORMAL"})
	_, err := NewCombination(vs, mustBase(t, pr, Policy{}))
	if !errors.Is(err, ErrStageMismatch) {
		t.Errorf("missing output: error = %v, want ErrStageMismatch", err)
	}

	pr = pixelReflection()
	pr.Inputs[0].Type = "float4"
	_, err = NewCombination(vs, mustBase(t, pr, Policy{}))
	if !errors.Is(err, ErrStageMismatch) {
		t.Errorf("type mismatch: error = %v, want ErrStageMismatch", err)
	}

	pr = pixelReflection()
	pr.Inputs = append(pr.Inputs, Variable{Name: "front", Type: "bool", Semantic: "SV_IsFrontFace"})
	if _, err := NewCombination(vs, mustBase(t, pr, Policy{})); err != nil {
		t.Errorf("system value input rejected: %v", err)
	}
}

func TestCombinationStageRules(t *testing.T) {
	vs := mustBase(t, vertexReflection(), Policy{})
	ps := mustBase(t, pixelReflection(), Policy{})
	hs := mustBase(t, hullReflection(), Policy{})
	cs := mustBase(t, &Reflection{Stage: StageCompute, Name: "cs"}, Policy{})

	tests := []struct {
		name    string
		shaders []*Base
	}{
		{"no vertex", []*Base{ps}},
		{"duplicate stage", []*Base{vs, vs, ps}},
		{"hull without domain", []*Base{vs, hs, ps}},
		{"compute in graphics", []*Base{vs, cs}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewCombination(tt.shaders...); !errors.Is(err, ErrInvalidCombination) {
				t.Errorf("error = %v, want ErrInvalidCombination", err)
			}
		})
	}

	c, err := NewComputeCombination(cs)
	if err != nil {
		t.Fatalf("NewComputeCombination() error = %v", err)
	}
	if !c.IsCompute() {
		t.Error("IsCompute() = false")
	}
}

func TestCombinationDownstreamAndVariantKeys(t *testing.T) {
	vs := mustBase(t, vertexReflection(), Policy{})
	hs := mustBase(t, hullReflection(), Policy{})
	ds := mustBase(t, domainReflection(), Policy{})
	ps := mustBase(t, pixelReflection(), Policy{})

	plain, err := NewCombination(vs, ps)
	if err != nil {
		t.Fatal(err)
	}
	if d, ok := plain.Downstream(StageVertex); !ok || d != StagePixel {
		t.Errorf("Downstream(vertex) = %v, %v, want pixel", d, ok)
	}
	if _, ok := plain.Downstream(StagePixel); ok {
		t.Error("pixel stage reports a downstream stage")
	}

	tess, err := NewCombination(ps, ds, hs, vs)
	if err != nil {
		t.Fatal(err)
	}
	if got := tess.VariantKey(StageVertex); got.Downstream != StageHull {
		t.Errorf("VariantKey(vertex).Downstream = %v, want hull", got.Downstream)
	}
	dk := tess.VariantKey(StageDomain)
	if dk.Downstream != StagePixel || dk.Layout != hullReflection().Tessellation.Code() {
		t.Errorf("VariantKey(domain) = %+v, want pixel downstream with the hull layout code", dk)
	}
	if up, ok := tess.Upstream(StagePixel); !ok || up != StageDomain {
		t.Errorf("Upstream(pixel) = %v, %v, want domain", up, ok)
	}
	if got := tess.Stages(); !slices.Equal(got, []Stage{StageVertex, StageHull, StageDomain, StagePixel}) {
		t.Errorf("Stages() = %v", got)
	}
}
