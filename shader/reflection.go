package shader

import (
	"fmt"
	"strconv"
	"strings"
)

// SlotParameter is the special-parameter key holding a variable's logical slot.
const SlotParameter = "slot"

// Language names a shading language a reflection can carry code for.
type Language string

// Languages understood by the backends.
const (
	LanguageGLSL Language = "glsl"
	LanguageHLSL Language = "hlsl"
	LanguageWGSL Language = "wgsl"
)

// Variable is one declared shader variable.
type Variable struct {
	Name string
	// Type is the declared type name, e.g. "float4" or "Texture2D".
	// Uniform buffers carry their block name.
	Type string
	// Semantic is the linkage semantic of stage inputs and outputs,
	// e.g. "POSITION" or "SV_Target0".
	Semantic string
	// ArraySize is the element count of an array variable, 0 otherwise.
	ArraySize int
	// Members are the fields of a uniform buffer.
	Members []Variable
	// SpecialParameters carries front-end metadata such as the logical slot.
	SpecialParameters map[string]string
}

// Slot returns the logical slot from the variable's special parameters.
func (v Variable) Slot() (int, error) {
	s, ok := v.SpecialParameters[SlotParameter]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingSlot, v.Name)
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s has slot %q", ErrMissingSlot, v.Name, s)
	}
	return n, nil
}

// IsSystemValue reports whether the variable's semantic is a system value
// produced or consumed by fixed-function hardware.
func (v Variable) IsSystemValue() bool {
	return strings.HasPrefix(strings.ToUpper(v.Semantic), "SV_")
}

// ParsedType parses the declared type.
func (v Variable) ParsedType() (Type, error) {
	return ParseType(v.Type)
}

// TextureSamplerPair records that a texture is sampled through a sampler.
type TextureSamplerPair struct {
	Texture string
	Sampler string
}

// GeometryLayout describes the primitive interface of a geometry shader.
type GeometryLayout struct {
	// Input is the input primitive: "point", "line" or "triangle".
	Input string
	// Output is the output stream topology: "point", "line" or "triangle".
	Output         string
	MaxVertexCount int
}

// Reflection is the backend-neutral description of one shader, produced
// by a shader front-end.
type Reflection struct {
	Stage Stage
	Name  string

	Inputs         []Variable
	Outputs        []Variable
	UniformBuffers []Variable
	Textures       []Variable
	Samplers       []Variable

	TextureSamplerPairs []TextureSamplerPair

	// Tessellation is declared by hull shaders.
	Tessellation *TessellationLayout
	// InputControlPoints is the patch size a hull shader consumes.
	InputControlPoints int
	// Geometry is declared by geometry shaders.
	Geometry *GeometryLayout
	// ThreadGroupSize is declared by compute shaders.
	ThreadGroupSize [3]int

	// Sources holds the stage body per language. Text-generating backends
	// wrap it in their own interface declarations.
	Sources map[Language]string
}

// Source returns the code for lang.
func (r *Reflection) Source(lang Language) (string, error) {
	src, ok := r.Sources[lang]
	if !ok {
		return "", fmt.Errorf("%w: %s shader %q has no %s code", ErrMissingSource, r.Stage, r.Name, lang)
	}
	return src, nil
}

// Texture returns the texture variable called name.
func (r *Reflection) Texture(name string) (Variable, bool) {
	return find(r.Textures, name)
}

// Sampler returns the sampler variable called name.
func (r *Reflection) Sampler(name string) (Variable, bool) {
	return find(r.Samplers, name)
}

// Output returns the output with the given semantic, compared case-insensitively.
func (r *Reflection) Output(semantic string) (Variable, bool) {
	for _, v := range r.Outputs {
		if strings.EqualFold(v.Semantic, semantic) {
			return v, true
		}
	}
	return Variable{}, false
}

func find(vars []Variable, name string) (Variable, bool) {
	for _, v := range vars {
		if v.Name == name {
			return v, true
		}
	}
	return Variable{}, false
}
